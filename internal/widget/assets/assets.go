// Package assets carries the embed bundles and the shared widget stylesheet.
// The files are compiled into the binary and served over HTTP so that the
// loader fetches them from the deployment origin exactly like any other
// independently hosted bundle.
package assets

import (
	"embed"
	"net/http"
)

//go:embed embeds
var files embed.FS

// Stylesheet returns the shared widget stylesheet injected into every
// rendering surface.
func Stylesheet() string {
	css, err := files.ReadFile("embeds/widget.css")
	if err != nil {
		// The stylesheet is embedded at build time; absence is a packaging bug.
		panic("widget stylesheet missing from embedded assets: " + err.Error())
	}
	return string(css)
}

// Bundle returns the raw bundle bytes for the given file name under embeds/,
// e.g. "user-details.json".
func Bundle(name string) ([]byte, error) {
	return files.ReadFile("embeds/" + name)
}

// Handler serves the embedded assets. Mount it at the asset origin root so
// bundle locations like "embeds/user-details.json" resolve against it.
func Handler() http.Handler {
	return http.FileServerFS(files)
}
