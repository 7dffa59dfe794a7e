package shopify

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"multimodal-product-discovery/internal/domain"

	"github.com/golang-jwt/jwt/v4"
)

// SessionTokenClaims are the claims of an App Bridge session token
type SessionTokenClaims struct {
	Dest string `json:"dest"`
	Sid  string `json:"sid"`
	jwt.RegisteredClaims
}

// SessionTokenVerifier validates App Bridge session tokens signed with the app secret
type SessionTokenVerifier struct {
	apiKey    string
	apiSecret []byte
	parser    *jwt.Parser
}

// NewSessionTokenVerifier creates a verifier for the given app credentials
func NewSessionTokenVerifier(apiKey, apiSecret string) *SessionTokenVerifier {
	return &SessionTokenVerifier{
		apiKey:    apiKey,
		apiSecret: []byte(apiSecret),
		parser:    jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})),
	}
}

// Verify checks signature, expiry and audience and returns the admin session it describes
func (v *SessionTokenVerifier) Verify(token string) (*domain.Session, error) {
	var claims SessionTokenClaims
	_, err := v.parser.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		return v.apiSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid session token: %w", err)
	}

	if !claims.VerifyAudience(v.apiKey, true) {
		return nil, fmt.Errorf("invalid session token: audience mismatch")
	}

	dest, err := url.Parse(claims.Dest)
	if err != nil || dest.Host == "" {
		return nil, fmt.Errorf("invalid session token: bad dest claim %q", claims.Dest)
	}
	if claims.Issuer != "" && !strings.HasPrefix(claims.Issuer, "https://"+dest.Host) {
		return nil, fmt.Errorf("invalid session token: issuer %q does not match dest", claims.Issuer)
	}

	session := &domain.Session{
		Shop:      dest.Host,
		UserID:    claims.Subject,
		SessionID: claims.Sid,
	}
	if claims.ExpiresAt != nil {
		session.ExpiresAt = claims.ExpiresAt.Time
	}
	return session, nil
}

// SignSessionToken issues a session token the way App Bridge does; used for local tooling and tests
func SignSessionToken(apiKey, apiSecret, shop, userID string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := SessionTokenClaims{
		Dest: "https://" + shop,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "https://" + shop + "/admin",
			Subject:   userID,
			Audience:  jwt.ClaimStrings{apiKey},
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now.Add(-time.Minute)),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(apiSecret))
}
