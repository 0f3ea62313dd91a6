// Package web holds the page templates and static assets served by the
// HTTP server. Everything is embedded so the binary has no runtime file
// dependencies besides configs/site.yaml.
package web

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.html
var Templates embed.FS

//go:embed static
var static embed.FS

// Static returns the static asset tree rooted at static/.
func Static() fs.FS {
	sub, err := fs.Sub(static, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
