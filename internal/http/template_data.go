package httpx

import (
	"net"
	"net/http"
	"strings"

	"github.com/retailops/plano-ui/internal/session"
)

// PageData is the view model every page template receives.
type PageData struct {
	Title     string
	Path      string
	CSRFToken string

	// Authenticated reports whether the session gate attached an identity.
	Authenticated bool
	// Username comes from the session profile; UserID is the
	// "<id> - <USERNAME>" display form shown on planogram pages.
	Username string
	UserID   string
	OfficeID string

	// ClientIP is the requester's address as seen by the server.
	ClientIP string

	// Error is a page-level error message, empty when none.
	Error string

	// Data holds page-specific values.
	Data map[string]any
}

// NewPageData seeds a PageData from the request: identity from context, CSRF
// token, path, and client IP.
func NewPageData(r *http.Request, title string) PageData {
	data := PageData{
		Title:     title,
		Path:      r.URL.Path,
		CSRFToken: GetCSRFToken(r),
		ClientIP:  ClientIP(r),
	}
	if user, ok := session.UserFromContext(r.Context()); ok {
		data.Authenticated = true
		data.Username = user.Username
		data.UserID = user.DisplayID()
		data.OfficeID = user.OfficeCode
	}
	return data
}

// ClientIP returns the requester's IP, preferring the first X-Forwarded-For
// hop when the app sits behind the gateway.
func ClientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first := strings.TrimSpace(strings.Split(fwd, ",")[0])
		if first != "" {
			return first
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
