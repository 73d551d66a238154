package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Record is a stored recipe. Image bytes are fetched separately with Image.
type Record struct {
	ID        string
	Slug      string
	Content   string
	ImageSlug string // "" when the recipe has no image
	CreatedAt time.Time
	UpdatedAt time.Time
}

const maxSlugLen = 64

var (
	slugInvalid = regexp.MustCompile(`[^a-z0-9-]`)
	slugDashes  = regexp.MustCompile(`-+`)
)

// NormalizeSlug lowercases s and reduces it to letters, digits and single
// dashes. It returns "" when nothing usable remains.
func NormalizeSlug(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = slugInvalid.ReplaceAllString(s, "-")
	s = slugDashes.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if len(s) > maxSlugLen {
		s = strings.TrimRight(s[:maxSlugLen], "-")
	}
	return s
}

// Template returns the starter document for a new recipe called name.
func Template(name string) string {
	return "# " + name + "\n\n## Ingredients\n\n- 1 cup ingredient\n\n## Directions\n\n- An instruction"
}

const recordColumns = "id, slug, content, COALESCE(image_slug, ''), created_at, updated_at"

// List returns every recipe ordered by slug.
func (s *Store) List(ctx context.Context) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+recordColumns+" FROM recipes ORDER BY slug")
	if err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}
	return out, nil
}

// Get returns the recipe stored under slug.
func (s *Store) Get(ctx context.Context, slug string) (Record, error) {
	slug, err := checkSlug(slug)
	if err != nil {
		return Record{}, err
	}
	row := s.db.QueryRowContext(ctx, "SELECT "+recordColumns+" FROM recipes WHERE slug = ?", slug)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, fmt.Errorf("%w: %s", ErrNotFound, slug)
	}
	return rec, err
}

// Create stores a new recipe seeded from Template. An empty name uses the slug.
func (s *Store) Create(ctx context.Context, slug, name string) (Record, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = NormalizeSlug(slug)
	}
	return s.CreateWithContent(ctx, slug, Template(name))
}

// CreateWithContent stores a new recipe with the given markdown.
func (s *Store) CreateWithContent(ctx context.Context, slug, content string) (Record, error) {
	slug, err := checkSlug(slug)
	if err != nil {
		return Record{}, err
	}
	now := s.now()
	res, err := s.execWithRetry(ctx,
		`INSERT INTO recipes (id, slug, content, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(slug) DO NOTHING`,
		uuid.NewString(), slug, content, formatTime(now), formatTime(now),
	)
	if err != nil {
		return Record{}, fmt.Errorf("insert recipe: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return Record{}, fmt.Errorf("%w: %s", ErrExists, slug)
	}
	return s.Get(ctx, slug)
}

// SetContent replaces a recipe's markdown.
func (s *Store) SetContent(ctx context.Context, slug, content string) (Record, error) {
	slug, err := checkSlug(slug)
	if err != nil {
		return Record{}, err
	}
	if err := s.update(ctx, slug,
		"UPDATE recipes SET content = ?, updated_at = ? WHERE slug = ?",
		content, formatTime(s.now()), slug,
	); err != nil {
		return Record{}, err
	}
	return s.Get(ctx, slug)
}

// SetImage attaches an image to a recipe, replacing any previous one.
func (s *Store) SetImage(ctx context.Context, slug, imageSlug string, data []byte) (Record, error) {
	slug, err := checkSlug(slug)
	if err != nil {
		return Record{}, err
	}
	if strings.TrimSpace(imageSlug) == "" {
		return Record{}, fmt.Errorf("%w: empty image name", ErrInvalidSlug)
	}
	if err := s.update(ctx, slug,
		"UPDATE recipes SET image = ?, image_slug = ?, updated_at = ? WHERE slug = ?",
		data, imageSlug, formatTime(s.now()), slug,
	); err != nil {
		return Record{}, err
	}
	return s.Get(ctx, slug)
}

// Image returns the image bytes stored for slug under imageSlug.
func (s *Store) Image(ctx context.Context, slug, imageSlug string) ([]byte, error) {
	slug, err := checkSlug(slug)
	if err != nil {
		return nil, err
	}
	var (
		data   []byte
		stored sql.NullString
	)
	err = s.db.QueryRowContext(ctx, "SELECT image, image_slug FROM recipes WHERE slug = ?", slug).Scan(&data, &stored)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, slug)
	}
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	if !stored.Valid || stored.String != imageSlug || data == nil {
		return nil, fmt.Errorf("%w: image %s for %s", ErrNotFound, imageSlug, slug)
	}
	return data, nil
}

// Delete removes a recipe.
func (s *Store) Delete(ctx context.Context, slug string) error {
	slug, err := checkSlug(slug)
	if err != nil {
		return err
	}
	return s.update(ctx, slug, "DELETE FROM recipes WHERE slug = ?", slug)
}

// update runs a statement that must touch exactly the row for slug.
func (s *Store) update(ctx context.Context, slug, query string, args ...any) error {
	res, err := s.execWithRetry(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update recipe %s: %w", slug, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, slug)
	}
	return nil
}

func checkSlug(slug string) (string, error) {
	norm := NormalizeSlug(slug)
	if norm == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidSlug, slug)
	}
	return norm, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (Record, error) {
	var (
		rec              Record
		created, updated string
	)
	if err := row.Scan(&rec.ID, &rec.Slug, &rec.Content, &rec.ImageSlug, &created, &updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Record{}, err
		}
		return Record{}, fmt.Errorf("scan recipe: %w", err)
	}
	rec.CreatedAt = parseTime(created)
	rec.UpdatedAt = parseTime(updated)
	return rec, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
