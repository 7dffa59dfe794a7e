package api

import (
	"embed"
	"html/template"
	"strings"

	"multimodal-product-discovery/internal/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.New("").
	Funcs(template.FuncMap{"join": strings.Join}).
	ParseFS(templateFS, "templates/*.html"))

type productsPage struct {
	*domain.CatalogSyncResult
	BackendReply string
}

type settingsPage struct {
	APIKey   string
	Action   string
	Settings domain.Settings
	Saved    bool
}
