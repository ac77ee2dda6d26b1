package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retailops/plano-ui/internal/identity"
)

type stubVerifier struct {
	result identity.Result
	calls  int
	tokens []string
}

func (s *stubVerifier) Verify(_ context.Context, token string) identity.Result {
	s.calls++
	s.tokens = append(s.tokens, token)
	return s.result
}

type gateFixture struct {
	gate     *Gate
	verifier *stubVerifier
	next     *recordingHandler
}

type recordingHandler struct {
	called bool
	token  string
	user   *User
}

func (h *recordingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.called = true
	h.token, _ = TokenFromContext(r.Context())
	h.user, _ = UserFromContext(r.Context())
	w.WriteHeader(http.StatusOK)
}

func newGateFixture(result identity.Result) *gateFixture {
	verifier := &stubVerifier{result: result}
	gate := NewGate(GateOptions{
		Verifier:   verifier,
		Cookies:    NewCookieStore(CookieStoreOptions{}),
		Classifier: NewClassifier([]string{"/dashboard", "/planogram", "/profile"}),
		Now:        func() time.Time { return testNow },
	})
	return &gateFixture{gate: gate, verifier: verifier, next: &recordingHandler{}}
}

func (f *gateFixture) do(r *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	f.gate.Middleware()(f.next).ServeHTTP(rec, r)
	return rec
}

func requestWithSession(path, token, userJSON string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		r.AddCookie(&http.Cookie{Name: "token", Value: token})
	}
	if userJSON != "" {
		r.AddCookie(&http.Cookie{Name: "user", Value: userJSON})
	}
	return r
}

func setCookies(rec *httptest.ResponseRecorder) map[string]*http.Cookie {
	out := map[string]*http.Cookie{}
	for _, c := range rec.Result().Cookies() {
		out[c.Name] = c
	}
	return out
}

func TestGateLogoutAlwaysPassesThrough(t *testing.T) {
	f := newGateFixture(identity.Result{Outcome: identity.OutcomeInvalid})

	rec := f.do(requestWithSession("/logout", "EXPIRED", ""))

	assert.True(t, f.next.called)
	assert.Zero(t, f.verifier.calls)
	assert.Empty(t, rec.Result().Cookies())
}

func TestGateLoginWithValidSessionRedirectsToDashboard(t *testing.T) {
	f := newGateFixture(identity.Result{Outcome: identity.OutcomeValid})

	rec := f.do(requestWithSession("/login", "TOK1", `{"username":"ana"}`))

	assert.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	assert.Equal(t, "/dashboard", rec.Header().Get("Location"))
	assert.False(t, f.next.called)
	// An already valid session is passed by untouched.
	assert.Empty(t, rec.Result().Cookies())
}

func TestGateLoginWithRejectedTokenPurgesAndRenders(t *testing.T) {
	f := newGateFixture(identity.Result{Outcome: identity.OutcomeInvalid, Message: "expired"})

	rec := f.do(requestWithSession("/login", "BADTOK", `{"username":"ana"}`))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, f.next.called)

	cookies := setCookies(rec)
	require.Contains(t, cookies, "token")
	require.Contains(t, cookies, "user")
	assert.Equal(t, -1, cookies["token"].MaxAge)
	assert.Equal(t, -1, cookies["user"].MaxAge)
}

func TestGateLoginWithUnreachableServicePurgesAndRenders(t *testing.T) {
	f := newGateFixture(identity.Result{Outcome: identity.OutcomeNetworkError})

	rec := f.do(requestWithSession("/login", "TOK1", ""))

	assert.True(t, f.next.called)
	cookies := setCookies(rec)
	assert.Equal(t, -1, cookies["token"].MaxAge)
	assert.Equal(t, -1, cookies["user"].MaxAge)
}

func TestGateLoginWithoutTokenSkipsVerification(t *testing.T) {
	f := newGateFixture(identity.Result{Outcome: identity.OutcomeValid})

	rec := f.do(requestWithSession("/login", "", ""))

	assert.True(t, f.next.called)
	assert.Zero(t, f.verifier.calls)
	assert.Empty(t, rec.Result().Cookies())
}

func TestGateProtectedWithoutTokenRedirectsToLogin(t *testing.T) {
	f := newGateFixture(identity.Result{Outcome: identity.OutcomeValid})

	rec := f.do(requestWithSession("/dashboard/widgets", "", ""))

	assert.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	// The requested path is not carried along.
	assert.Equal(t, "/login", rec.Header().Get("Location"))
	assert.False(t, f.next.called)
	assert.Zero(t, f.verifier.calls)
}

func TestGateProtectedWithRejectedTokenPurgesAndRedirects(t *testing.T) {
	f := newGateFixture(identity.Result{Outcome: identity.OutcomeInvalid, Message: "revoked"})

	rec := f.do(requestWithSession("/dashboard", "BADTOK", `{"username":"ana"}`))

	assert.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))

	cookies := setCookies(rec)
	assert.Equal(t, -1, cookies["token"].MaxAge)
	assert.Equal(t, -1, cookies["user"].MaxAge)
}

func TestGateProtectedValidWithoutRefreshIsIdempotent(t *testing.T) {
	f := newGateFixture(identity.Result{Outcome: identity.OutcomeValid})

	rec := f.do(requestWithSession("/profile", "TOK1", `{"username":"ana","id":"101"}`))

	assert.True(t, f.next.called)
	assert.Equal(t, "TOK1", f.next.token)
	require.NotNil(t, f.next.user)
	assert.Equal(t, "ana", f.next.user.Username)
	// No refresh means no Set-Cookie at all; repeating the request changes
	// nothing.
	assert.Empty(t, rec.Result().Cookies())
	assert.Equal(t, []string{"TOK1"}, f.verifier.tokens)
}

func TestGateProtectedValidWithRefreshRewritesBothCookies(t *testing.T) {
	f := newGateFixture(identity.Result{
		Outcome: identity.OutcomeValid,
		Token:   "NEWTOK",
		User:    map[string]any{"username": "ana", "groupName": "supervisor"},
	})

	rec := f.do(requestWithSession("/dashboard", "OLDTOK", `{"username":"ana","loginTime":"2020-01-01T00:00:00Z"}`))

	assert.True(t, f.next.called)
	assert.Equal(t, "NEWTOK", f.next.token)
	require.NotNil(t, f.next.user)
	assert.Equal(t, "supervisor", f.next.user.Role)
	assert.Equal(t, testNow, f.next.user.LoginTime)

	cookies := setCookies(rec)
	require.Contains(t, cookies, "token")
	require.Contains(t, cookies, "user")
	assert.Equal(t, "NEWTOK", cookies["token"].Value)
	assert.Contains(t, cookies["user"].Value, "supervisor")
	assert.Contains(t, cookies["user"].Value, "2025-06-15T10:30:00Z")
}

func TestGateProtectedRefreshWithoutProfileKeepsExistingUser(t *testing.T) {
	f := newGateFixture(identity.Result{Outcome: identity.OutcomeValid, Token: "NEWTOK"})

	rec := f.do(requestWithSession("/dashboard", "OLDTOK", `{"username":"ana","id":"101"}`))

	assert.True(t, f.next.called)
	require.NotNil(t, f.next.user)
	assert.Equal(t, "ana", f.next.user.Username)
	assert.Equal(t, testNow, f.next.user.LoginTime)

	cookies := setCookies(rec)
	assert.Equal(t, "NEWTOK", cookies["token"].Value)
}

func TestGateProtectedNetworkErrorContinuesWithStaleSession(t *testing.T) {
	f := newGateFixture(identity.Result{Outcome: identity.OutcomeNetworkError})

	rec := f.do(requestWithSession("/dashboard", "STALE", `{"username":"ana"}`))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, f.next.called)
	assert.Equal(t, "STALE", f.next.token)
	require.NotNil(t, f.next.user)
	assert.Equal(t, "ana", f.next.user.Username)
	assert.Empty(t, rec.Result().Cookies())
}

func TestGatePublicRouteSkipsVerification(t *testing.T) {
	f := newGateFixture(identity.Result{Outcome: identity.OutcomeInvalid})

	rec := f.do(requestWithSession("/", "TOK1", `{"username":"ana"}`))

	assert.True(t, f.next.called)
	assert.Zero(t, f.verifier.calls)
	assert.Equal(t, "TOK1", f.next.token)
	require.NotNil(t, f.next.user)
	assert.Equal(t, "ana", f.next.user.Username)
	assert.Empty(t, rec.Result().Cookies())
}

func TestGatePublicRouteDeletesMalformedUserCookie(t *testing.T) {
	f := newGateFixture(identity.Result{Outcome: identity.OutcomeValid})

	rec := f.do(requestWithSession("/", "TOK1", "corrupted{"))

	assert.True(t, f.next.called)
	assert.Nil(t, f.next.user)

	cookies := setCookies(rec)
	require.Contains(t, cookies, "user")
	assert.Equal(t, -1, cookies["user"].MaxAge)
	_, hasToken := cookies["token"]
	assert.False(t, hasToken)
}

func TestGateProtectedOversizedRewriteStillServesRequest(t *testing.T) {
	f := newGateFixture(identity.Result{
		Outcome: identity.OutcomeValid,
		Token:   "NEWTOK",
		User:    map[string]any{"username": "ana", "blob": strings.Repeat("x", maxCookieBytes)},
	})

	rec := f.do(requestWithSession("/dashboard", "OLDTOK", ""))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, f.next.called)
	assert.Equal(t, "NEWTOK", f.next.token)
	// The oversized rewrite is dropped, not partially applied.
	assert.Empty(t, rec.Result().Cookies())
}
