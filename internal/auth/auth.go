// Package auth provides bearer API-key authentication for the JSON API.
// Keys are stored bcrypt-hashed and looked up by a short plaintext prefix,
// so a leaked database dump does not expose usable credentials.
package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/lunaria-crm/lunaria/internal/platform/httpx"
)

// PrefixLength is the number of leading key characters stored in plaintext
// for lookup.
const PrefixLength = 8

// ErrInvalidKey indicates the presented API key did not match any record.
var ErrInvalidKey = errors.New("invalid api key")

// APIKey is a stored credential.
type APIKey struct {
	ID        int64
	Name      string
	Prefix    string
	Hash      string
	Revoked   bool
	CreatedAt time.Time
}

// Repository is the persistence contract for API keys.
type Repository interface {
	FindByPrefix(ctx context.Context, prefix string) ([]APIKey, error)
}

// Authenticator validates bearer tokens against stored keys.
type Authenticator struct {
	repo   Repository
	logger *slog.Logger
}

// NewAuthenticator builds the Authenticator.
func NewAuthenticator(repo Repository, logger *slog.Logger) *Authenticator {
	return &Authenticator{repo: repo, logger: logger}
}

// Verify checks a raw key against the stored hashes sharing its prefix.
func (a *Authenticator) Verify(ctx context.Context, key string) (*APIKey, error) {
	if len(key) < PrefixLength {
		return nil, ErrInvalidKey
	}
	candidates, err := a.repo.FindByPrefix(ctx, key[:PrefixLength])
	if err != nil {
		return nil, err
	}
	for i := range candidates {
		if candidates[i].Revoked {
			continue
		}
		if bcrypt.CompareHashAndPassword([]byte(candidates[i].Hash), []byte(key)) == nil {
			return &candidates[i], nil
		}
	}
	return nil, ErrInvalidKey
}

// Middleware rejects requests lacking a valid bearer API key.
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			httpx.Error(w, http.StatusUnauthorized, "missing api key")
			return
		}
		key, err := a.Verify(r.Context(), token)
		if err != nil {
			if !errors.Is(err, ErrInvalidKey) {
				a.logger.Error("api key lookup failed", "error", err)
				httpx.Error(w, http.StatusInternalServerError, "internal server error")
				return
			}
			httpx.Error(w, http.StatusUnauthorized, "invalid api key")
			return
		}
		next.ServeHTTP(w, r.WithContext(withKey(r.Context(), key)))
	})
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const scheme = "Bearer "
	if !strings.HasPrefix(header, scheme) {
		return ""
	}
	return strings.TrimSpace(header[len(scheme):])
}

type contextKey struct{}

func withKey(ctx context.Context, key *APIKey) context.Context {
	return context.WithValue(ctx, contextKey{}, key)
}

// KeyFromContext returns the API key that authenticated the request, if any.
func KeyFromContext(ctx context.Context) *APIKey {
	key, _ := ctx.Value(contextKey{}).(*APIKey)
	return key
}
