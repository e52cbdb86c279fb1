package handler

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// StaticHandler serves the event pages from a directory the staff drop HTML
// files into. Unknown paths get a plain-text 404 rather than an error page.
type StaticHandler struct {
	dir string
}

func NewStaticHandler(dir string) *StaticHandler {
	return &StaticHandler{dir: dir}
}

// Page returns a handler serving one fixed file from the static directory.
func (h *StaticHandler) Page(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.serveFile(w, r, name)
	}
}

// Any serves whatever file the request path names, rooted at the static
// directory.
func (h *StaticHandler) Any(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(r.URL.Path, "/")
	if name == "" {
		name = "login.html"
	}
	h.serveFile(w, r, name)
}

func (h *StaticHandler) serveFile(w http.ResponseWriter, r *http.Request, name string) {
	// Resolve inside the static dir only; path traversal falls out as a miss.
	path := filepath.Join(h.dir, filepath.Clean("/"+name))

	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprintf(w, "File not found: %s\n", name)
		return
	}
	http.ServeFile(w, r, path)
}
