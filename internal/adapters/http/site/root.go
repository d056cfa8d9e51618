// Package site serves the generated site directory during development.
package site

import (
	"bytes"
	"context"
	"errors"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path"
	"strings"

	"github.com/okian/scoreboard/pkg/logger"
)

// Error constants
var (
	ErrServe = errors.New("site serve failed")
)

const indexFile = "index.html"

// Register attaches the site handler for dir to mux at root /.
func Register(_ context.Context, mux *http.ServeMux, dir string) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.Handle("/", NewHandler(os.DirFS(dir)))
}

// Handler resolves request paths against a rooted filesystem:
// "/" maps to index.html, an existing regular file is served as is, and
// otherwise "<path>.html" is tried before answering 404.
type Handler struct {
	fsys fs.FS
}

// NewHandler creates a handler serving fsys.
func NewHandler(fsys fs.FS) *Handler {
	return &Handler{fsys: fsys}
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(path.Clean("/"+r.URL.Path), "/")
	if name == "" {
		name = indexFile
	}

	for _, candidate := range []string{name, name + ".html"} {
		served, err := h.serveFile(w, r, candidate)
		if err != nil {
			logger.Get().Warn(r.Context(), "site file unreadable",
				logger.String("path", candidate),
				logger.Error(err))
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		if served {
			return
		}
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	_, _ = io.WriteString(w, "Not Found")
}

// serveFile writes name if it is a regular file. Missing files and
// directories report false without error.
func (h *Handler) serveFile(w http.ResponseWriter, r *http.Request, name string) (bool, error) {
	if !fs.ValidPath(name) {
		return false, nil
	}
	f, err := h.fsys.Open(name)
	if err != nil {
		// Unopenable paths, including ones nested under a file, count as absent.
		return false, nil
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return false, errors.Join(ErrServe, err)
	}
	if !info.Mode().IsRegular() {
		return false, nil
	}

	content, ok := f.(io.ReadSeeker)
	if !ok {
		raw, err := io.ReadAll(f)
		if err != nil {
			return false, errors.Join(ErrServe, err)
		}
		content = bytes.NewReader(raw)
	}
	http.ServeContent(w, r, info.Name(), info.ModTime(), content)
	return true, nil
}
