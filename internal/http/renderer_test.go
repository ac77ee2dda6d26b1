package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTemplateRendererRequiresFS(t *testing.T) {
	_, err := NewTemplateRenderer(TemplateRendererConfig{})
	assert.Error(t, err)
}

func TestNewTemplateRendererRejectsBrokenTemplate(t *testing.T) {
	broken := fstest.MapFS{
		"layout.tmpl":      {Data: []byte(`{{define "layout"}}{{template "content" .}}{{end}}`)},
		"pages/bad.tmpl":   {Data: []byte(`{{define "content"}}{{.Oops`)},
		"pages/login.tmpl": {Data: []byte(`{{define "content"}}ok{{end}}`)},
	}
	_, err := NewTemplateRenderer(TemplateRendererConfig{TemplateFS: broken})
	assert.Error(t, err)
}

func TestRenderPageProducesHTML(t *testing.T) {
	renderer := newTestRenderer(t)

	rec := httptest.NewRecorder()
	data := PageData{Title: "Login", Error: "wrong password"}
	require.NoError(t, renderer.RenderPage(rec, "login", data))

	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "wrong password")
	assert.Contains(t, rec.Body.String(), "<form method=\"post\" action=\"/login\">")
}

func TestRenderPageUnknownTemplate(t *testing.T) {
	renderer := newTestRenderer(t)
	assert.Error(t, renderer.RenderPage(httptest.NewRecorder(), "no-such-page", nil))
}

func TestPagesDoNotLeakDefinesAcrossClones(t *testing.T) {
	renderer := newTestRenderer(t)

	rec := httptest.NewRecorder()
	require.NoError(t, renderer.RenderPage(rec, "dashboard", PageData{Username: "ana", Authenticated: true}))

	assert.Contains(t, rec.Body.String(), "Dashboard")
	assert.NotContains(t, rec.Body.String(), "Sign in")
}

func TestRenderErrorPage(t *testing.T) {
	renderer := newTestRenderer(t)

	rec := httptest.NewRecorder()
	renderer.RenderErrorPage(rec, http.StatusNotFound, "page not found")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "page not found")
}
