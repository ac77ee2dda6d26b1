package httpx

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/require"

	planoui "github.com/retailops/plano-ui"
)

// newTestRenderer builds a renderer over the embedded production templates
// so handler tests exercise the real pages.
func newTestRenderer(t *testing.T) *TemplateRenderer {
	t.Helper()

	templateFS, err := fs.Sub(planoui.TemplateFS, "web/templates")
	require.NoError(t, err)

	renderer, err := NewTemplateRenderer(TemplateRendererConfig{TemplateFS: templateFS})
	require.NoError(t, err)
	return renderer
}
