package api

import "net/http"

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	recs, err := s.store.List(r.Context())
	if err != nil {
		s.storeError(w, r, err)
		return
	}

	ingredients := 0
	for _, rec := range recs {
		ingredients += len(s.engine.Parse(rec.Content).Ingredients())
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"recipes":     len(recs),
		"ingredients": ingredients,
		"operations":  s.stats.Snapshot(),
	})
}
