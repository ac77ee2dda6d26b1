package session

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/retailops/plano-ui/internal/errors"
)

func newTestStore() *CookieStore {
	return NewCookieStore(CookieStoreOptions{Secure: true})
}

func cookieByName(t *testing.T, rec *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestWriteSessionSetsBothCookies(t *testing.T) {
	store := newTestStore()
	rec := httptest.NewRecorder()

	user := BuildUser(map[string]any{"username": "ana", "id": "101"}, "", testNow)
	require.NoError(t, store.WriteSession(rec, "TOK1", user))

	token := cookieByName(t, rec, "token")
	require.NotNil(t, token)
	assert.Equal(t, "TOK1", token.Value)
	assert.True(t, token.HttpOnly)
	assert.True(t, token.Secure)
	assert.Equal(t, http.SameSiteStrictMode, token.SameSite)
	assert.Equal(t, "/", token.Path)
	assert.Equal(t, 24*60*60, token.MaxAge)

	userCookie := cookieByName(t, rec, "user")
	require.NotNil(t, userCookie)
	assert.Contains(t, userCookie.Value, "ana")
	assert.Equal(t, token.MaxAge, userCookie.MaxAge)
}

func TestWriteSessionRejectsOversizedProfile(t *testing.T) {
	store := newTestStore()
	rec := httptest.NewRecorder()

	user := BuildUser(map[string]any{"blob": strings.Repeat("x", maxCookieBytes)}, "", testNow)
	err := store.WriteSession(rec, "TOK1", user)

	require.Error(t, err)
	assert.True(t, apperrors.IsPersistence(err))
	// Neither cookie may be written on failure.
	assert.Empty(t, rec.Result().Cookies())
}

func TestReadTokenAbsent(t *testing.T) {
	store := newTestStore()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, store.ReadToken(r))
}

func TestReadUserRoundTrip(t *testing.T) {
	store := newTestStore()
	rec := httptest.NewRecorder()
	require.NoError(t, store.WriteSession(rec, "TOK1", BuildUser(map[string]any{"username": "ana"}, "", testNow)))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		r.AddCookie(c)
	}

	assert.Equal(t, "TOK1", store.ReadToken(r))

	user, err := store.ReadUser(httptest.NewRecorder(), r)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "ana", user.Username)
}

func TestReadUserMissingCookie(t *testing.T) {
	store := newTestStore()
	r := httptest.NewRequest(http.MethodGet, "/", nil)

	user, err := store.ReadUser(httptest.NewRecorder(), r)
	assert.NoError(t, err)
	assert.Nil(t, user)
}

func TestReadUserMalformedCookieDeleted(t *testing.T) {
	store := newTestStore()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: "user", Value: "notjson"})
	rec := httptest.NewRecorder()

	user, err := store.ReadUser(rec, r)

	assert.Nil(t, user)
	require.Error(t, err)
	assert.True(t, apperrors.IsMalformedCookie(err))

	deleted := cookieByName(t, rec, "user")
	require.NotNil(t, deleted)
	assert.Equal(t, -1, deleted.MaxAge)
}

func TestPurgeExpiresBothCookies(t *testing.T) {
	store := newTestStore()
	rec := httptest.NewRecorder()

	store.Purge(rec)

	for _, name := range []string{"token", "user"} {
		c := cookieByName(t, rec, name)
		require.NotNil(t, c, "cookie %s", name)
		assert.Equal(t, -1, c.MaxAge)
		assert.Empty(t, c.Value)
	}
}
