package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dgallion1/recipebox/internal/markup"
	"github.com/dgallion1/recipebox/internal/recipe"
)

type renderResponse struct {
	Title    string  `json:"title"`
	Markdown string  `json:"markdown"`
	HTML     string  `json:"html"`
	Factor   float64 `json:"factor"`
	Factors  []int   `json:"factors"`
}

// handleScaledRecipe serves a stored recipe multiplied by ?factor=.
func (s *Server) handleScaledRecipe(w http.ResponseWriter, r *http.Request) {
	factor, ok := parseFactor(w, r)
	if !ok {
		return
	}
	rec, err := s.store.Get(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		s.storeError(w, r, err)
		return
	}
	s.render(w, rec.Content, factor)
}

// handleRender scales and renders a markdown body without storing it.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	factor, ok := parseFactor(w, r)
	if !ok {
		return
	}
	body, ok := s.readText(w, r)
	if !ok {
		return
	}
	s.render(w, body, factor)
}

func (s *Server) render(w http.ResponseWriter, content string, factor float64) {
	start := time.Now()
	resp, err := s.renderScaled(content, factor)
	s.stats.Since(opRender, start, err)
	if err != nil {
		if errors.Is(err, recipe.ErrInvalidFactor) {
			jsonError(w, err.Error(), http.StatusBadRequest)
			return
		}
		s.log.Error("render", "error", err)
		jsonError(w, "render failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) renderScaled(content string, factor float64) (renderResponse, error) {
	scaled, err := s.engine.Scale(s.engine.Parse(content), factor)
	if err != nil {
		return renderResponse{}, err
	}
	md := s.engine.Render(scaled)
	html, err := markup.HTML(md)
	if err != nil {
		return renderResponse{}, err
	}
	return renderResponse{
		Title:    scaled.Title(),
		Markdown: md,
		HTML:     html,
		Factor:   factor,
		Factors:  s.engine.Divisors(scaled),
	}, nil
}

// parseFactor reads ?factor=, defaulting to 1.
func parseFactor(w http.ResponseWriter, r *http.Request) (float64, bool) {
	v := r.URL.Query().Get("factor")
	if v == "" {
		return 1, true
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		jsonError(w, "factor must be a number", http.StatusBadRequest)
		return 0, false
	}
	return f, true
}
