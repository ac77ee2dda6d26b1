package httpx

import (
	"log/slog"
	"net/http"

	"github.com/retailops/plano-ui/internal/session"
)

// PageHandlers serves the rendered pages behind the session gate.
type PageHandlers struct {
	Renderer *TemplateRenderer
	Logger   *slog.Logger
}

// Home redirects the root path to the dashboard; anonymous visitors get
// bounced onward to /login by the gate on the next hop.
func (h *PageHandlers) Home(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		h.Renderer.RenderErrorPage(w, http.StatusNotFound, "page not found")
		return
	}
	http.Redirect(w, r, "/dashboard", http.StatusFound)
}

// Dashboard renders the landing page for an authenticated session.
func (h *PageHandlers) Dashboard(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "dashboard", "Dashboard")
}

// Profile renders the session profile page.
func (h *PageHandlers) Profile(w http.ResponseWriter, r *http.Request) {
	data := NewPageData(r, "Profile")
	if user, ok := session.UserFromContext(r.Context()); ok {
		data.Data = map[string]any{
			"Email":      user.Email,
			"Role":       user.Role,
			"OfficeName": user.OfficeName,
			"DeptName":   user.DeptName,
			"DivName":    user.DivName,
			"LoginTime":  user.LoginTime,
		}
	}
	if err := h.Renderer.RenderPage(w, "profile", data); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func (h *PageHandlers) render(w http.ResponseWriter, r *http.Request, page, title string) {
	if err := h.Renderer.RenderPage(w, page, NewPageData(r, title)); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}
