package api

import (
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dgallion1/recipebox/internal/store"
)

type recipeResponse struct {
	Slug      string    `json:"slug"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Factors   []int     `json:"factors"`
	Image     string    `json:"image,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *Server) recipeResponse(rec store.Record) recipeResponse {
	r := s.engine.Parse(rec.Content)
	resp := recipeResponse{
		Slug:      rec.Slug,
		Title:     r.Title(),
		Content:   rec.Content,
		Factors:   s.engine.Divisors(r),
		UpdatedAt: rec.UpdatedAt,
	}
	if rec.ImageSlug != "" {
		resp.Image = fmt.Sprintf("/api/recipes/%s/images/%s", rec.Slug, rec.ImageSlug)
	}
	return resp
}

func (s *Server) handleListRecipes(w http.ResponseWriter, r *http.Request) {
	recs, err := s.store.List(r.Context())
	if err != nil {
		s.storeError(w, r, err)
		return
	}
	out := make([]recipeResponse, 0, len(recs))
	for _, rec := range recs {
		out = append(out, s.recipeResponse(rec))
	}
	writeJSON(w, http.StatusOK, map[string]any{"recipes": out})
}

func (s *Server) handleGetRecipe(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.Get(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		s.storeError(w, r, err)
		return
	}
	etag := contentETag(rec.Content)
	w.Header().Set("ETag", etag)
	if match := r.Header.Get("If-None-Match"); match != "" && match == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	writeJSON(w, http.StatusOK, s.recipeResponse(rec))
}

func (s *Server) handleCreateRecipe(w http.ResponseWriter, r *http.Request) {
	body, ok := s.readText(w, r)
	if !ok {
		return
	}
	rec, err := s.store.Create(r.Context(), chi.URLParam(r, "slug"), strings.TrimSpace(body))
	if err != nil {
		s.storeError(w, r, err)
		return
	}
	s.log.Info("recipe created", "slug", rec.Slug, "request_id", middleware.GetReqID(r.Context()))
	w.Header().Set("ETag", contentETag(rec.Content))
	writeJSON(w, http.StatusCreated, s.recipeResponse(rec))
}

func (s *Server) handleUpdateRecipe(w http.ResponseWriter, r *http.Request) {
	body, ok := s.readText(w, r)
	if !ok {
		return
	}
	slug := chi.URLParam(r, "slug")

	// Optimistic concurrency when the client sends the ETag it last saw.
	if match := r.Header.Get("If-Match"); match != "" {
		cur, err := s.store.Get(r.Context(), slug)
		if err != nil {
			s.storeError(w, r, err)
			return
		}
		if contentETag(cur.Content) != match {
			jsonError(w, "recipe was modified", http.StatusPreconditionFailed)
			return
		}
	}

	rec, err := s.store.SetContent(r.Context(), slug, body)
	if err != nil {
		s.storeError(w, r, err)
		return
	}
	w.Header().Set("ETag", contentETag(rec.Content))
	writeJSON(w, http.StatusOK, s.recipeResponse(rec))
}

func (s *Server) handleDeleteRecipe(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "slug")); err != nil {
		s.storeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// readText reads a UTF-8 request body within the upload limit.
func (s *Server) readText(w http.ResponseWriter, r *http.Request) (string, bool) {
	data, ok := s.readBody(w, r)
	if !ok {
		return "", false
	}
	if !utf8.Valid(data) {
		jsonError(w, "body must be UTF-8 text", http.StatusBadRequest)
		return "", false
	}
	return string(data), true
}

func (s *Server) readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			jsonError(w, fmt.Sprintf("body exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
			return nil, false
		}
		jsonError(w, "failed to read body", http.StatusBadRequest)
		return nil, false
	}
	return data, true
}

func (s *Server) storeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		jsonError(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, store.ErrExists):
		jsonError(w, err.Error(), http.StatusConflict)
	case errors.Is(err, store.ErrInvalidSlug):
		jsonError(w, err.Error(), http.StatusBadRequest)
	default:
		s.log.Error("store error", "error", err, "path", r.URL.Path, "request_id", middleware.GetReqID(r.Context()))
		jsonError(w, "internal error", http.StatusInternalServerError)
	}
}

// contentETag is a strong validator derived from the recipe markdown.
func contentETag(content string) string {
	h := sha256.Sum256([]byte(content))
	return fmt.Sprintf(`"%x"`, h[:8])
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
