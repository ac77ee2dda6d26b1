// Package planoui provides embedded assets for production builds.
package planoui

import "embed"

//go:embed all:web/templates
var TemplateFS embed.FS
