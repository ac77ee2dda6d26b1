package httpx

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/retailops/plano-ui/internal/backend"
	apperrors "github.com/retailops/plano-ui/internal/errors"
	"github.com/retailops/plano-ui/internal/session"
)

// PlanogramHandlers serves the nearest-group planogram page and its form
// actions. Actions respond with JSON; the page script consumes them.
type PlanogramHandlers struct {
	API      backend.PlanogroupAPI
	Renderer *TemplateRenderer
	Logger   *slog.Logger
}

// GrupPertemananPage renders the nearest-group workspace seeded with the
// session's office, display user ID, client IP, and page path.
func (h *PlanogramHandlers) GrupPertemananPage(w http.ResponseWriter, r *http.Request) {
	data := NewPageData(r, "Grup Pertemanan")
	if err := h.Renderer.RenderPage(w, "grup_pertemanan", data); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

// TableLokPlano is the location-table lookup action.
func (h *PlanogramHandlers) TableLokPlano(w http.ResponseWriter, r *http.Request) {
	office := r.PostFormValue("office")
	pluid := r.PostFormValue("pluid")
	if office == "" || pluid == "" {
		WriteActionError(w, http.StatusBadRequest, "office and pluid are required")
		return
	}

	res := h.API.TableLokPlano(r.Context(), h.token(r), office, pluid)
	h.writeCallResult(w, res)
}

// ZonaRak is the rack-zone lookup action.
func (h *PlanogramHandlers) ZonaRak(w http.ResponseWriter, r *http.Request) {
	tiperak := r.PostFormValue("tiperak")
	if tiperak == "" {
		WriteActionError(w, http.StatusBadRequest, "tiperak is required")
		return
	}

	res := h.API.ZonaRak(r.Context(), h.token(r), tiperak)
	h.writeCallResult(w, res)
}

// LineRak is the rack-line lookup action.
func (h *PlanogramHandlers) LineRak(w http.ResponseWriter, r *http.Request) {
	tiperak := r.PostFormValue("tiperak")
	linerak := r.PostFormValue("linerak")
	if tiperak == "" || linerak == "" {
		WriteActionError(w, http.StatusBadRequest, "tiperak and linerak are required")
		return
	}

	res := h.API.LineRak(r.Context(), h.token(r), tiperak, linerak)
	h.writeCallResult(w, res)
}

// Submit posts the nearest-group selection to the warehouse service. The
// selection arrives as a JSON-encoded form field built by the page script.
func (h *PlanogramHandlers) Submit(w http.ResponseWriter, r *http.Request) {
	var groups []struct {
		Line string   `json:"line"`
		Rak  []string `json:"rak"`
	}
	rawGroups := r.PostFormValue("nearestGroups")
	if rawGroups == "" {
		WriteActionError(w, http.StatusBadRequest, "no nearest-group selection to submit")
		return
	}
	if err := json.Unmarshal([]byte(rawGroups), &groups); err != nil {
		WriteActionError(w, http.StatusBadRequest, "nearestGroups is not valid JSON")
		return
	}

	sub := backend.NearestGroupSubmission{
		IP:        ClientIP(r),
		OfficeID:  r.PostFormValue("officeId"),
		PLUID:     r.PostFormValue("pluId"),
		TipePlano: r.PostFormValue("tipePlano"),
	}
	for _, g := range groups {
		sub.Groups = append(sub.Groups, backend.NearestGroup{Line: g.Line, Rak: g.Rak})
	}

	if err := sub.Validate(); err != nil {
		h.logger().InfoContext(r.Context(), "submit rejected",
			"reason", err, "field", apperrors.GetField(err))
		WriteActionError(w, http.StatusBadRequest, err.Error())
		return
	}

	res := h.API.SubmitNearestGroup(r.Context(), h.token(r), sub)
	h.writeCallResult(w, res)
}

func (h *PlanogramHandlers) writeCallResult(w http.ResponseWriter, res backend.CallResult) {
	if !res.Success {
		WriteActionError(w, http.StatusBadRequest, res.Message)
		return
	}
	WriteActionSuccess(w, res.Data, res.Message)
}

// token returns the verified bearer token the gate attached, forwarded to
// the warehouse service.
func (h *PlanogramHandlers) token(r *http.Request) string {
	token, _ := session.TokenFromContext(r.Context())
	return token
}

func (h *PlanogramHandlers) logger() *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}
