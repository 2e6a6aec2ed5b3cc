// Package web embeds the HTML templates served by the HTTP adapter.
package web

import "embed"

//go:embed templates/*.html
var TemplateFiles embed.FS
