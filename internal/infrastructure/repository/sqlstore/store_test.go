package sqlstore

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"multimodal-product-discovery/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := Open(DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })
	return db
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open("oracle", "whatever")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported driver")
}

func TestToggleAlternates(t *testing.T) {
	repo := NewSearchRepository(newTestDB(t))
	ctx := context.Background()
	key := domain.NewSearchKey("c1", "s.myshopify.com", "p1")

	created, err := repo.Toggle(ctx, key)
	require.NoError(t, err)
	assert.True(t, created)

	found, err := repo.Find(ctx, key)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "c1", found[0].CustomerID)
	assert.NotEmpty(t, found[0].ID)

	created, err = repo.Toggle(ctx, key)
	require.NoError(t, err)
	assert.False(t, created)

	found, err = repo.Find(ctx, key)
	require.NoError(t, err)
	assert.Empty(t, found)

	created, err = repo.Toggle(ctx, key)
	require.NoError(t, err)
	assert.True(t, created)
}

func TestToggleKeepsTuplesApart(t *testing.T) {
	repo := NewSearchRepository(newTestDB(t))
	ctx := context.Background()

	_, err := repo.Toggle(ctx, domain.NewSearchKey("c1", "s", "p1"))
	require.NoError(t, err)
	_, err = repo.Toggle(ctx, domain.NewSearchKey("c1", "s", "p2"))
	require.NoError(t, err)

	found, err := repo.Find(ctx, domain.NewSearchKey("c1", "s", "p2"))
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "p2", found[0].ProductID)
}

func TestUniqueTupleIsEnforced(t *testing.T) {
	db := newTestDB(t)
	row := searchModel{ID: "a", CustomerID: "c", Shop: "s", ProductID: "p"}
	require.NoError(t, db.Create(&row).Error)

	dup := searchModel{ID: "b", CustomerID: "c", Shop: "s", ProductID: "p"}
	assert.Error(t, db.Create(&dup).Error)
}

func TestDeleteByCustomerAndShop(t *testing.T) {
	repo := NewSearchRepository(newTestDB(t))
	ctx := context.Background()

	for _, k := range []domain.SearchKey{
		domain.NewSearchKey("c1", "a.myshopify.com", "p1"),
		domain.NewSearchKey("c1", "a.myshopify.com", "p2"),
		domain.NewSearchKey("c2", "a.myshopify.com", "p1"),
		domain.NewSearchKey("c1", "b.myshopify.com", "p1"),
	} {
		_, err := repo.Toggle(ctx, k)
		require.NoError(t, err)
	}

	n, err := repo.DeleteByCustomer(ctx, "a.myshopify.com", "c1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	n, err = repo.DeleteByShop(ctx, "a.myshopify.com")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	found, err := repo.Find(ctx, domain.NewSearchKey("c1", "b.myshopify.com", "p1"))
	require.NoError(t, err)
	assert.Len(t, found, 1)
}

func TestSettingsUpsertInPlace(t *testing.T) {
	repo := NewSearchRepository(newTestDB(t))
	ctx := context.Background()

	settings, err := repo.GetSettings(ctx)
	require.NoError(t, err)
	assert.Nil(t, settings)

	saved, err := repo.UpsertSettings(ctx, domain.Settings{Name: "Summer", Description: "Linen"})
	require.NoError(t, err)
	assert.Equal(t, domain.SettingsID, saved.ID)
	require.NotNil(t, saved.Name)
	assert.Equal(t, "Summer", *saved.Name)

	saved, err = repo.UpsertSettings(ctx, domain.Settings{Name: "Winter", Description: "Wool"})
	require.NoError(t, err)
	require.NotNil(t, saved.Description)
	assert.Equal(t, "Wool", *saved.Description)

	var count int64
	require.NoError(t, repo.db.Model(&searchModel{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestShopRepository(t *testing.T) {
	repo := NewShopRepository(newTestDB(t))
	ctx := context.Background()

	shop, err := repo.GetShop(ctx, "a.myshopify.com")
	require.NoError(t, err)
	assert.Nil(t, shop)

	installed := time.Now().Add(-time.Hour).UTC()
	require.NoError(t, repo.SaveShop(ctx, &domain.Shop{
		Domain:      "a.myshopify.com",
		AccessToken: "cipher-1",
		Scopes:      []string{"read_products"},
		InstalledAt: installed,
	}))
	require.NoError(t, repo.SaveShop(ctx, &domain.Shop{
		Domain:      "a.myshopify.com",
		AccessToken: "cipher-2",
		Scopes:      []string{"read_products", "write_products"},
	}))

	shop, err = repo.GetShop(ctx, "a.myshopify.com")
	require.NoError(t, err)
	require.NotNil(t, shop)
	assert.Equal(t, "cipher-2", shop.AccessToken)
	assert.Equal(t, []string{"read_products", "write_products"}, shop.Scopes)
	assert.WithinDuration(t, installed, shop.InstalledAt, time.Second)

	require.NoError(t, repo.DeleteShop(ctx, "a.myshopify.com"))
	shop, err = repo.GetShop(ctx, "a.myshopify.com")
	require.NoError(t, err)
	assert.Nil(t, shop)
}

// insertRival writes the tuple from inside the running transaction, the way a
// competing toggle that committed between our delete and insert would.
func insertRival(db *gorm.DB, key domain.SearchKey) {
	db.Session(&gorm.Session{NewDB: true}).Exec(
		"INSERT INTO search (id, customer_id, shop, product_id, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)",
		uuid.NewString(), key.CustomerID, key.Shop, key.ProductID, time.Now(), time.Now(),
	)
}

func TestToggleRetriesAfterLosingInsertRace(t *testing.T) {
	db := newTestDB(t)
	repo := NewSearchRepository(db)
	ctx := context.Background()
	key := domain.NewSearchKey("c1", "s.myshopify.com", "p1")

	raced := 0
	require.NoError(t, db.Callback().Create().Before("gorm:create").Register("test:rival_insert", func(tx *gorm.DB) {
		if tx.Statement.Table == "search" && raced == 0 {
			raced++
			insertRival(tx, key)
		}
	}))

	created, err := repo.Toggle(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, 1, raced)
	// the retry sees the rival's row and removes it
	assert.False(t, created)

	found, err := repo.Find(ctx, key)
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestToggleGivesUpUnderContention(t *testing.T) {
	db := newTestDB(t)
	repo := NewSearchRepository(db)
	ctx := context.Background()
	key := domain.NewSearchKey("c1", "s.myshopify.com", "p1")

	inserts := 0
	require.NoError(t, db.Callback().Delete().After("gorm:delete").Register("test:hide_delete", func(tx *gorm.DB) {
		if tx.Statement.Table == "search" {
			tx.RowsAffected = 0
		}
	}))
	require.NoError(t, db.Callback().Create().Before("gorm:create").Register("test:rival_insert", func(tx *gorm.DB) {
		if tx.Statement.Table == "search" {
			inserts++
			insertRival(tx, key)
		}
	}))

	_, err := repo.Toggle(ctx, key)
	assert.ErrorIs(t, err, domain.ErrToggleContention)
	assert.Equal(t, maxToggleAttempts, inserts)

	found, err := repo.Find(ctx, key)
	require.NoError(t, err)
	assert.Len(t, found, 1)
}

func TestConcurrentTogglesKeepOneRow(t *testing.T) {
	db, err := Open(DriverSQLite, filepath.Join(t.TempDir(), "toggle.sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })
	repo := NewSearchRepository(db)
	key := domain.NewSearchKey("c1", "s.myshopify.com", "p1")

	const workers = 9
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		created int
		removed int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := repo.Toggle(context.Background(), key)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case errors.Is(err, domain.ErrToggleContention):
			case err != nil:
				t.Errorf("toggle failed: %v", err)
			case ok:
				created++
			default:
				removed++
			}
		}()
	}
	wg.Wait()

	found, err := repo.Find(context.Background(), key)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(found), 1)
	assert.Equal(t, created-removed, len(found))
}
