// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

//go:build !dev

// Package assets provides embedded static assets with content-hashed filenames.
package assets

import (
	"crypto/sha256"
	"embed"
	"encoding/hex"
	"io/fs"
	"log/slog"
	"net/http"
	"path"
	"strings"
)

//go:embed static
var staticFS embed.FS

const (
	cssFile = "css/styles.css"
	jsFile  = "js/booking.js"
)

var (
	// aliases maps hashed names (css/styles.1a2b3c4d.css) to embedded files.
	aliases = map[string]string{}
	cssPath string
	jsPath  string
)

func init() {
	cssPath = "/static/" + hashedName(cssFile)
	jsPath = "/static/" + hashedName(jsFile)
	slog.Debug("loaded asset paths", "css", cssPath, "js", jsPath)
}

// hashedName returns name with the first eight hex digits of its content
// hash inserted before the extension and records the alias. It falls back
// to the plain name when the file is missing.
func hashedName(name string) string {
	data, err := staticFS.ReadFile("static/" + name)
	if err != nil {
		slog.Error("asset not embedded", "name", name, "error", err)
		return name
	}

	sum := sha256.Sum256(data)
	ext := path.Ext(name)
	hashed := strings.TrimSuffix(name, ext) + "." + hex.EncodeToString(sum[:])[:8] + ext
	aliases[hashed] = name
	return hashed
}

// CSSPath returns the path to the main CSS file.
func CSSPath() string {
	return cssPath
}

// JSPath returns the path to the booking script.
func JSPath() string {
	return jsPath
}

// FileServer returns an http.Handler that serves embedded static files,
// under both their plain and their hashed names.
func FileServer() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic("failed to create sub filesystem: " + err.Error())
	}
	files := http.FileServer(http.FS(sub))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if name, ok := aliases[strings.TrimPrefix(r.URL.Path, "/")]; ok {
			r2 := r.Clone(r.Context())
			r2.URL.Path = "/" + name
			files.ServeHTTP(w, r2)
			return
		}
		files.ServeHTTP(w, r)
	})
}
