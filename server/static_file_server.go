package server

import (
	"embed"
	"io/fs"
	"net/http"
	"strings"
)

//go:embed static/*
var staticFiles embed.FS

// staticMaxAge is how long browsers may cache the console stylesheet
const staticMaxAge = "public, max-age=3600"

// FileServerHandler serves the embedded assets. Directory listings are refused.
func FileServerHandler() http.Handler {
	files := http.FileServer(http.FS(staticAssets()))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "" || strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Cache-Control", staticMaxAge)
		files.ServeHTTP(w, r)
	})
}

func staticAssets() fs.FS {
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic("Failed to open embedded static assets: " + err.Error())
	}
	return sub
}
