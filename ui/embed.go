// Package ui embeds the built-in colour picker page served when no web
// root is configured.
package ui

import (
	"embed"
	"io/fs"
)

//go:embed web
var webFS embed.FS

// FS returns the page assets rooted at the web directory.
func FS() fs.FS {
	fsys, err := fs.Sub(webFS, "web")
	if err != nil {
		panic(err)
	}
	return fsys
}
