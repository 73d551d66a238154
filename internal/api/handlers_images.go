package api

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
)

var imageTypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".svg":  "image/svg+xml",
}

func imageContentType(name string) (string, bool) {
	ct, ok := imageTypes[strings.ToLower(filepath.Ext(name))]
	return ct, ok
}

func (s *Server) handlePutImage(w http.ResponseWriter, r *http.Request) {
	name := sanitizeFilename(chi.URLParam(r, "image"))
	if _, ok := imageContentType(name); !ok {
		jsonError(w, "image must be .png, .jpg, .jpeg or .svg", http.StatusBadRequest)
		return
	}
	data, ok := s.readBody(w, r)
	if !ok {
		return
	}
	if len(data) == 0 {
		jsonError(w, "image body is empty", http.StatusBadRequest)
		return
	}

	rec, err := s.store.SetImage(r.Context(), chi.URLParam(r, "slug"), name, data)
	if err != nil {
		s.storeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.recipeResponse(rec))
}

func (s *Server) handleGetImage(w http.ResponseWriter, r *http.Request) {
	name := sanitizeFilename(chi.URLParam(r, "image"))
	ct, ok := imageContentType(name)
	if !ok {
		jsonError(w, "unknown image type", http.StatusNotFound)
		return
	}
	data, err := s.store.Image(r.Context(), chi.URLParam(r, "slug"), name)
	if err != nil {
		s.storeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", ct)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Write(data)
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}
