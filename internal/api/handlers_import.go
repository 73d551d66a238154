package api

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/dgallion1/recipebox/internal/importer"
	"github.com/dgallion1/recipebox/internal/store"
)

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	// Limit total request size.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024) // extra 1MB for form overhead

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	filename := sanitizeFilename(header.Filename)
	imp, err := importer.ForFile(filename, s.importOptions())
	if err != nil {
		jsonError(w, fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)), http.StatusBadRequest)
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	if err != nil {
		jsonError(w, "failed to read file", http.StatusInternalServerError)
		return
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
		return
	}

	start := time.Now()
	content, err := imp.Import(bytes.NewReader(data), filename)
	s.stats.Since(opImport, start, err)
	if err != nil {
		jsonError(w, "import failed: "+err.Error(), http.StatusUnprocessableEntity)
		return
	}

	slug := r.FormValue("slug")
	if strings.TrimSpace(slug) == "" {
		slug = s.engine.Parse(content).Title()
	}
	if store.NormalizeSlug(slug) == "" {
		slug = strings.TrimSuffix(filename, filepath.Ext(filename))
	}

	rec, err := s.store.CreateWithContent(r.Context(), slug, content)
	if err != nil {
		s.storeError(w, r, err)
		return
	}
	s.log.Info("recipe imported",
		"slug", rec.Slug,
		"filename", filename,
		"bytes", len(data),
		"request_id", middleware.GetReqID(r.Context()),
	)
	w.Header().Set("ETag", contentETag(rec.Content))
	writeJSON(w, http.StatusCreated, s.recipeResponse(rec))
}
