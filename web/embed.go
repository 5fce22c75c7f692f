package web

import (
	"embed"
	"io/fs"
)

// staticFS embeds the browser client (pages, script, styles).
//
//go:embed static/*
var staticFS embed.FS

// Static returns the browser client rooted at the static directory
func Static() (fs.FS, error) {
	return fs.Sub(staticFS, "static")
}
