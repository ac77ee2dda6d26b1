package httpx

import (
	"bytes"
	"encoding/json"
	"net/http"
)

// WriteJSON writes a JSON response with the given status code and data.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := buf.WriteTo(w); err != nil {
		// Response writer errors (e.g., client disconnect) can't be recovered from here.
		return
	}
}

// ActionResult is the uniform JSON shape returned by planogram form actions.
type ActionResult struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// WriteActionSuccess writes a successful action response.
func WriteActionSuccess(w http.ResponseWriter, data any, message string) {
	WriteJSON(w, http.StatusOK, ActionResult{Success: true, Data: data, Message: message})
}

// WriteActionError writes a failed action response.
func WriteActionError(w http.ResponseWriter, code int, message string) {
	WriteJSON(w, code, ActionResult{Success: false, Error: message})
}
