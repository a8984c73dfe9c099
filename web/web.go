// Package web embeds the static shop client served by the inventory
// service.
package web

import (
	"embed"
	"io/fs"
)

//go:embed all:static
var assets embed.FS

// Static returns the embedded client rooted at the static directory, so
// index.html and assets/ sit at the top level of the returned FS.
func Static() (fs.FS, error) {
	return fs.Sub(assets, "static")
}
