package auth

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	_ "github.com/lunaria-crm/lunaria/testing"
)

type stubRepo struct {
	keys []APIKey
}

func (s *stubRepo) FindByPrefix(_ context.Context, prefix string) ([]APIKey, error) {
	var out []APIKey
	for _, k := range s.keys {
		if k.Prefix == prefix {
			out = append(out, k)
		}
	}
	return out, nil
}

func storedKey(t *testing.T, raw string, revoked bool) APIKey {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(raw), bcrypt.MinCost)
	require.NoError(t, err)
	return APIKey{Prefix: raw[:PrefixLength], Hash: string(hash), Revoked: revoked}
}

func protected(t *testing.T, repo Repository) http.Handler {
	t.Helper()
	a := NewAuthenticator(repo, slog.New(slog.NewTextHandler(io.Discard, nil)))
	return a.Middleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
}

func TestMiddlewareAcceptsValidKey(t *testing.T) {
	raw := "lun_live_3f8a2c91d4"
	handler := protected(t, &stubRepo{keys: []APIKey{storedKey(t, raw, false)}})

	req := httptest.NewRequest(http.MethodGet, "/api/leads", nil)
	req.Header.Set("Authorization", "Bearer "+raw)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)
}

func TestMiddlewareRejectsMissingHeader(t *testing.T) {
	handler := protected(t, &stubRepo{})

	req := httptest.NewRequest(http.MethodGet, "/api/leads", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.JSONEq(t, `{"error":"missing api key"}`, rec.Body.String())
}

func TestMiddlewareRejectsWrongKey(t *testing.T) {
	raw := "lun_live_3f8a2c91d4"
	handler := protected(t, &stubRepo{keys: []APIKey{storedKey(t, raw, false)}})

	req := httptest.NewRequest(http.MethodGet, "/api/leads", nil)
	req.Header.Set("Authorization", "Bearer lun_live_wrongwrong")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMiddlewareRejectsRevokedKey(t *testing.T) {
	raw := "lun_live_3f8a2c91d4"
	handler := protected(t, &stubRepo{keys: []APIKey{storedKey(t, raw, true)}})

	req := httptest.NewRequest(http.MethodGet, "/api/leads", nil)
	req.Header.Set("Authorization", "Bearer "+raw)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
