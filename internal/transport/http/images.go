package http

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
)

// handleImage serves question images from dir. Anything that cannot be served
// falls back to the placeholder so a broken image never blocks play.
func handleImage(dir, placeholder string) http.HandlerFunc {
	fallback := func(w http.ResponseWriter, r *http.Request) {
		if placeholder == "" {
			http.NotFound(w, r)
			return
		}
		http.Redirect(w, r, placeholder, http.StatusFound)
	}

	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "name")
		if dir == "" || name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
			fallback(w, r)
			return
		}

		f, err := os.Open(filepath.Join(dir, name))
		if err != nil {
			fallback(w, r)
			return
		}
		defer f.Close()

		info, err := f.Stat()
		if err != nil || info.IsDir() {
			fallback(w, r)
			return
		}
		http.ServeContent(w, r, name, info.ModTime(), f)
	}
}
