package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func (f *appFixture) bearer(t *testing.T) string {
	t.Helper()
	ctx := context.Background()
	u, err := f.provider.RetrieveByID(ctx, "42")
	require.NoError(t, err)
	plaintext, _, err := f.ledger.Issue(ctx, u, "fixture", nil)
	require.NoError(t, err)
	return plaintext
}

func withBearer(token string) func(*http.Request) {
	return func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

func TestTokenCreate(t *testing.T) {
	f := newAppFixture(t)
	bearer := f.bearer(t)

	w := f.do(http.MethodPost, "/api/v1/tokens", map[string]any{"name": "ci"}, withBearer(bearer))
	require.Equal(t, http.StatusCreated, w.Code)

	var body struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.NotEmpty(t, body.ID)
	require.Equal(t, "ci", body.Name)
	require.Len(t, body.Token, 64)

	// the fresh plaintext authenticates
	me := f.do(http.MethodGet, "/api/v1/me", nil, withBearer(body.Token))
	require.Equal(t, http.StatusOK, me.Code)
}

func TestTokenCreateRequiresName(t *testing.T) {
	f := newAppFixture(t)
	bearer := f.bearer(t)

	w := f.do(http.MethodPost, "/api/v1/tokens", map[string]any{}, withBearer(bearer))
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTokenListHidesDigest(t *testing.T) {
	f := newAppFixture(t)
	bearer := f.bearer(t)

	created := f.do(http.MethodPost, "/api/v1/tokens", map[string]any{"name": "ci"}, withBearer(bearer))
	require.Equal(t, http.StatusCreated, created.Code)

	w := f.do(http.MethodGet, "/api/v1/tokens", nil, withBearer(bearer))
	require.Equal(t, http.StatusOK, w.Code)

	var list []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 2) // the fixture token plus "ci"
	for _, item := range list {
		_, hasDigest := item["token"]
		require.False(t, hasDigest)
		require.NotEmpty(t, item["name"])
		require.NotEmpty(t, item["expires_at"])
	}
}

func TestTokenRevoke(t *testing.T) {
	f := newAppFixture(t)
	bearer := f.bearer(t)

	created := f.do(http.MethodPost, "/api/v1/tokens", map[string]any{"name": "doomed"}, withBearer(bearer))
	var body struct {
		ID    string `json:"id"`
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(created.Body.Bytes(), &body))

	w := f.do(http.MethodDelete, "/api/v1/tokens/"+body.ID, nil, withBearer(bearer))
	require.Equal(t, http.StatusOK, w.Code)

	// the revoked plaintext no longer authenticates
	me := f.do(http.MethodGet, "/api/v1/me", nil, withBearer(body.Token))
	require.Equal(t, http.StatusUnauthorized, me.Code)
}

func TestTokenRevokeForeignID(t *testing.T) {
	f := newAppFixture(t)
	bearer := f.bearer(t)

	w := f.do(http.MethodDelete, "/api/v1/tokens/not-mine", nil, withBearer(bearer))
	require.Equal(t, http.StatusNotFound, w.Code)
	require.JSONEq(t, `{"error":"not found"}`, w.Body.String())
}

func TestTokenRevokeAll(t *testing.T) {
	f := newAppFixture(t)
	bearer := f.bearer(t)

	created := f.do(http.MethodPost, "/api/v1/tokens", map[string]any{"name": "one"}, withBearer(bearer))
	require.Equal(t, http.StatusCreated, created.Code)

	w := f.do(http.MethodDelete, "/api/v1/tokens", nil, withBearer(bearer))
	require.Equal(t, http.StatusOK, w.Code)

	// every token is gone, including the one used for the call
	me := f.do(http.MethodGet, "/api/v1/me", nil, withBearer(bearer))
	require.Equal(t, http.StatusUnauthorized, me.Code)
}
