package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dgallion1/recipebox/internal/config"
	"github.com/dgallion1/recipebox/internal/recipe"
	"github.com/dgallion1/recipebox/internal/store"
)

const soup = "# Soup\n\n## Ingredients\n\n- 1 cup broth\n- 1/2 tsp salt\n\n## Directions\n\n- Boil it"

func newTestServer(t *testing.T, apiKey string) *Server {
	t.Helper()
	st, err := store.Open(context.Background(), filepath.Join(t.TempDir(), "recipes.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	cfg := config.Config{APIKey: apiKey, MaxUploadBytes: 1 << 20}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewServer(st, recipe.New(recipe.DefaultOptions()), log, cfg)
}

func do(t *testing.T, s *Server, method, path, body string, header ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, "")
	rec := do(t, s, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestRecipeLifecycle(t *testing.T) {
	s := newTestServer(t, "")

	rec := do(t, s, http.MethodPost, "/api/recipes/soup", "Soup")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[recipeResponse](t, rec)
	require.Equal(t, "soup", created.Slug)
	require.Equal(t, "Soup", created.Title)
	require.Equal(t, store.Template("Soup"), created.Content)

	rec = do(t, s, http.MethodPost, "/api/recipes/soup", "Soup")
	require.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, s, http.MethodPut, "/api/recipes/soup", soup)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode[recipeResponse](t, rec)
	require.Equal(t, soup, updated.Content)
	require.Equal(t, []int{2}, updated.Factors)

	rec = do(t, s, http.MethodGet, "/api/recipes/soup", "")
	require.Equal(t, http.StatusOK, rec.Code)
	etag := rec.Header().Get("ETag")
	require.NotEmpty(t, etag)
	require.Equal(t, soup, decode[recipeResponse](t, rec).Content)

	rec = do(t, s, http.MethodGet, "/api/recipes/soup", "", "If-None-Match", etag)
	require.Equal(t, http.StatusNotModified, rec.Code)

	rec = do(t, s, http.MethodGet, "/api/recipes", "")
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[map[string][]recipeResponse](t, rec)
	require.Len(t, list["recipes"], 1)

	rec = do(t, s, http.MethodDelete, "/api/recipes/soup", "")
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, s, http.MethodGet, "/api/recipes/soup", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateIfMatch(t *testing.T) {
	s := newTestServer(t, "")
	require.Equal(t, http.StatusCreated, do(t, s, http.MethodPost, "/api/recipes/soup", "Soup").Code)

	etag := do(t, s, http.MethodGet, "/api/recipes/soup", "").Header().Get("ETag")

	rec := do(t, s, http.MethodPut, "/api/recipes/soup", soup, "If-Match", `"stale"`)
	require.Equal(t, http.StatusPreconditionFailed, rec.Code)

	rec = do(t, s, http.MethodPut, "/api/recipes/soup", soup, "If-Match", etag)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestUpdateRejectsInvalidUTF8(t *testing.T) {
	s := newTestServer(t, "")
	require.Equal(t, http.StatusCreated, do(t, s, http.MethodPost, "/api/recipes/soup", "Soup").Code)

	rec := do(t, s, http.MethodPut, "/api/recipes/soup", "# \xff\xfe")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestScaledRecipe(t *testing.T) {
	s := newTestServer(t, "")
	require.Equal(t, http.StatusCreated, do(t, s, http.MethodPost, "/api/recipes/soup", "Soup").Code)
	require.Equal(t, http.StatusOK, do(t, s, http.MethodPut, "/api/recipes/soup", soup).Code)

	rec := do(t, s, http.MethodGet, "/api/recipes/soup/scaled?factor=2", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decode[renderResponse](t, rec)
	require.Contains(t, resp.Markdown, "- 2 cup broth")
	require.Contains(t, resp.Markdown, "- 1 tsp salt")
	require.Contains(t, resp.HTML, "<li>2 cup broth</li>")
	require.Equal(t, 2.0, resp.Factor)

	for _, bad := range []string{"0", "-1", "abc", "NaN"} {
		rec = do(t, s, http.MethodGet, "/api/recipes/soup/scaled?factor="+bad, "")
		require.Equal(t, http.StatusBadRequest, rec.Code, "factor %s", bad)
	}

	rec = do(t, s, http.MethodGet, "/api/recipes/missing/scaled?factor=2", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRender(t *testing.T) {
	s := newTestServer(t, "")

	rec := do(t, s, http.MethodPost, "/api/render", soup)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[renderResponse](t, rec)
	require.Equal(t, soup, resp.Markdown)
	require.Equal(t, "Soup", resp.Title)
	require.Equal(t, []int{2}, resp.Factors)
	require.Contains(t, resp.HTML, "<h1")

	rec = do(t, s, http.MethodPost, "/api/render?factor=0.5", soup)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, decode[renderResponse](t, rec).Markdown, "- 1/4 tsp salt")

	rec = do(t, s, http.MethodGet, "/api/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)
	stats := decode[map[string]any](t, rec)
	require.EqualValues(t, 0, stats["recipes"])
	ops := stats["operations"].(map[string]any)
	render := ops["render"].(map[string]any)
	require.EqualValues(t, 2, render["total"])
	require.EqualValues(t, 0, render["failed"])
}

func TestRender_FactorOutOfRange(t *testing.T) {
	s := newTestServer(t, "")

	rec := do(t, s, http.MethodPost, "/api/render?factor=1e19", soup)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, decode[map[string]string](t, rec)["error"], "scale factor")

	require.Equal(t, http.StatusCreated, do(t, s, http.MethodPost, "/api/recipes/soup", "Soup").Code)
	rec = do(t, s, http.MethodGet, "/api/recipes/soup/scaled?factor=1e19", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodGet, "/api/stats", "")
	ops := decode[map[string]any](t, rec)["operations"].(map[string]any)
	render := ops["render"].(map[string]any)
	require.EqualValues(t, 2, render["total"])
	require.EqualValues(t, 2, render["failed"])
}

func TestImages(t *testing.T) {
	s := newTestServer(t, "")
	require.Equal(t, http.StatusCreated, do(t, s, http.MethodPost, "/api/recipes/soup", "Soup").Code)

	rec := do(t, s, http.MethodPut, "/api/recipes/soup/images/soup.gif", "GIF89a")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodPut, "/api/recipes/soup/images/soup.png", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodPut, "/api/recipes/soup/images/soup.png", "\x89PNG")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Equal(t, "/api/recipes/soup/images/soup.png", decode[recipeResponse](t, rec).Image)

	rec = do(t, s, http.MethodGet, "/api/recipes/soup/images/soup.png", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	require.Equal(t, "\x89PNG", rec.Body.String())

	rec = do(t, s, http.MethodGet, "/api/recipes/soup/images/other.png", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUploadLimit(t *testing.T) {
	s := newTestServer(t, "")
	require.Equal(t, http.StatusCreated, do(t, s, http.MethodPost, "/api/recipes/soup", "Soup").Code)

	big := strings.Repeat("a", int(s.cfg.MaxUploadBytes)+1)
	rec := do(t, s, http.MethodPut, "/api/recipes/soup", big)
	require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestAuth(t *testing.T) {
	s := newTestServer(t, "secret")

	rec := do(t, s, http.MethodPost, "/api/recipes/soup", "Soup")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, s, http.MethodPost, "/api/recipes/soup", "Soup", "Authorization", "Bearer wrong")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, s, http.MethodPost, "/api/recipes/soup", "Soup", "Authorization", "Bearer secret")
	require.Equal(t, http.StatusCreated, rec.Code)

	// Reads stay public.
	rec = do(t, s, http.MethodGet, "/api/recipes/soup", "")
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestImport(t *testing.T) {
	s := newTestServer(t, "")

	body, contentType := multipartFile(t, "tomato-soup.txt", "Tomato Soup\n\nIngredients\n1 cup broth\n1/2 tsp salt\n\nDirections\n1. Boil it.", "")
	req := httptest.NewRequest(http.MethodPost, "/api/import", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	resp := decode[recipeResponse](t, rec)
	require.Equal(t, "tomato-soup", resp.Slug)
	require.Equal(t, "Tomato Soup", resp.Title)
	require.Equal(t, []int{2}, resp.Factors)

	body, contentType = multipartFile(t, "soup.exe", "MZ", "")
	req = httptest.NewRequest(http.MethodPost, "/api/import", body)
	req.Header.Set("Content-Type", contentType)
	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestImportExplicitSlug(t *testing.T) {
	s := newTestServer(t, "")

	body, contentType := multipartFile(t, "chili.md", "# Chili\n\n## Ingredients\n\n- 1 lb beef", "Weeknight Chili")
	req := httptest.NewRequest(http.MethodPost, "/api/import", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	require.Equal(t, "weeknight-chili", decode[recipeResponse](t, rec).Slug)
}

func multipartFile(t *testing.T, filename, content, slug string) (io.Reader, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	if slug != "" {
		require.NoError(t, mw.WriteField("slug", slug))
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}
