package server

import (
	"net/http"
	"os"
	"path/filepath"
)

// handleSPA serves the built game frontend. Unknown paths fall back to
// index.html so client-side routes survive a refresh; /api paths never
// reach here because the router matches them first.
func handleSPA(dir string) http.HandlerFunc {
	fileServer := http.FileServer(http.Dir(dir))
	index := filepath.Join(dir, "index.html")

	return func(w http.ResponseWriter, r *http.Request) {
		// Clean with the leading slash intact so ".." cannot climb out of dir.
		name := filepath.Join(dir, filepath.Clean(r.URL.Path))
		if info, err := os.Stat(name); err == nil && !info.IsDir() {
			fileServer.ServeHTTP(w, r)
			return
		}
		http.ServeFile(w, r, index)
	}
}
