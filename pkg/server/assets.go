package server

import (
	"embed"
	"net/http"
)

//go:embed assets/client.js assets/lesson.css
var assets embed.FS

// serveAsset serves one embedded file.
func serveAsset(name, contentType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, err := assets.ReadFile("assets/" + name)
		if err != nil {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Cache-Control", "public, max-age=3600")
		_, _ = w.Write(data)
	}
}

// Stylesheet returns the lesson stylesheet served under the asset prefix.
func Stylesheet() []byte {
	data, _ := assets.ReadFile("assets/lesson.css")
	return data
}
