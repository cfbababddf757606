// Package web embeds the display page templates and their static assets.
package web

import (
	"embed"
	"io/fs"
)

var (
	//go:embed templates/*.html
	templates embed.FS

	//go:embed static/css static/js
	static embed.FS
)

func sub(fsys embed.FS, dir string) fs.FS {
	out, err := fs.Sub(fsys, dir)
	if err != nil {
		// dir is a literal embedded above
		panic(err)
	}
	return out
}

// GetTemplatesFS returns the page templates rooted at templates/
func GetTemplatesFS() fs.FS {
	return sub(templates, "templates")
}

// GetStaticFS returns the stylesheets and scripts rooted at static/
func GetStaticFS() fs.FS {
	return sub(static, "static")
}
