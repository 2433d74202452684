package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/pabl-o-ce/somosnlp-hackathon-2025/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS recipes (
	id         TEXT PRIMARY KEY,
	title      TEXT NOT NULL,
	url        TEXT NOT NULL UNIQUE,
	region     TEXT,
	created_at TIMESTAMP NOT NULL
);
CREATE TABLE IF NOT EXISTS session_progress (
	session_id      TEXT PRIMARY KEY,
	recipe_idx      INTEGER NOT NULL,
	question_idx    INTEGER NOT NULL,
	total_recipes   INTEGER NOT NULL,
	total_questions INTEGER NOT NULL,
	updated_at      TIMESTAMP NOT NULL
);
CREATE TABLE IF NOT EXISTS rejections (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	pipeline    TEXT NOT NULL,
	record_kind TEXT NOT NULL,
	reason      TEXT NOT NULL,
	created_at  TIMESTAMP NOT NULL
);`

// SessionProgress mirrors the progress file into the catalog so resume state
// survives even when the output directory is cleaned up.
type SessionProgress struct {
	SessionID      string    `db:"session_id"`
	RecipeIdx      int       `db:"recipe_idx"`
	QuestionIdx    int       `db:"question_idx"`
	TotalRecipes   int       `db:"total_recipes"`
	TotalQuestions int       `db:"total_questions"`
	UpdatedAt      time.Time `db:"updated_at"`
}

// Catalog is the local SQLite store tracking scraped recipes, generation
// progress, and rejection counts across runs. Every pipeline works without
// it; it only makes resume and dedup cheaper than re-reading JSON output.
type Catalog struct {
	db *sqlx.DB
}

// Open connects to (and if needed creates) the catalog at path.
func Open(path string) (*Catalog, error) {
	db, err := sqlx.Connect("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open catalog %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init catalog schema: %w", err)
	}
	return &Catalog{db: db}, nil
}

// New wraps an existing connection. Used by tests.
func New(db *sqlx.DB) *Catalog {
	return &Catalog{db: db}
}

// Close releases the underlying connection.
func (c *Catalog) Close() error {
	return c.db.Close()
}

// RecordRecipe upserts a scraped recipe by URL.
func (c *Catalog) RecordRecipe(ctx context.Context, recipe *domain.Recipe) error {
	query := `INSERT INTO recipes (id, title, url, region, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(url) DO UPDATE SET title = excluded.title, region = excluded.region`
	_, err := c.db.ExecContext(ctx, query, recipe.ID, recipe.Title, recipe.URL, recipe.Region, time.Now())
	if err != nil {
		return fmt.Errorf("record recipe %s: %w", recipe.URL, err)
	}
	return nil
}

// HasRecipe reports whether a URL was already scraped.
func (c *Catalog) HasRecipe(ctx context.Context, url string) (bool, error) {
	var n int
	err := c.db.GetContext(ctx, &n, `SELECT COUNT(1) FROM recipes WHERE url = ?`, url)
	if err != nil {
		return false, fmt.Errorf("look up recipe %s: %w", url, err)
	}
	return n > 0, nil
}

// ScrapedURLs returns every recorded recipe URL, oldest first.
func (c *Catalog) ScrapedURLs(ctx context.Context) ([]string, error) {
	var urls []string
	err := c.db.SelectContext(ctx, &urls, `SELECT url FROM recipes ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list scraped urls: %w", err)
	}
	return urls, nil
}

// SaveSessionProgress upserts the resume point of a generation session.
func (c *Catalog) SaveSessionProgress(ctx context.Context, p SessionProgress) error {
	query := `INSERT INTO session_progress (session_id, recipe_idx, question_idx, total_recipes, total_questions, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(session_id) DO UPDATE SET
			recipe_idx = excluded.recipe_idx,
			question_idx = excluded.question_idx,
			total_recipes = excluded.total_recipes,
			total_questions = excluded.total_questions,
			updated_at = excluded.updated_at`
	_, err := c.db.ExecContext(ctx, query,
		p.SessionID, p.RecipeIdx, p.QuestionIdx, p.TotalRecipes, p.TotalQuestions, time.Now())
	if err != nil {
		return fmt.Errorf("save progress for session %s: %w", p.SessionID, err)
	}
	return nil
}

// SessionProgress loads the resume point of a session; nil when the session
// is unknown.
func (c *Catalog) SessionProgress(ctx context.Context, sessionID string) (*SessionProgress, error) {
	var p SessionProgress
	err := c.db.GetContext(ctx, &p,
		`SELECT session_id, recipe_idx, question_idx, total_recipes, total_questions, updated_at
		 FROM session_progress WHERE session_id = ?`, sessionID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("load progress for session %s: %w", sessionID, err)
	}
	return &p, nil
}

// RecordRejection appends one rejected-record entry for a pipeline run.
func (c *Catalog) RecordRejection(ctx context.Context, pipeline, recordKind, reason string) error {
	_, err := c.db.ExecContext(ctx,
		`INSERT INTO rejections (pipeline, record_kind, reason, created_at) VALUES (?, ?, ?, ?)`,
		pipeline, recordKind, reason, time.Now())
	if err != nil {
		return fmt.Errorf("record rejection: %w", err)
	}
	return nil
}

// RejectionCount counts recorded rejections for a pipeline.
func (c *Catalog) RejectionCount(ctx context.Context, pipeline string) (int, error) {
	var n int
	err := c.db.GetContext(ctx, &n, `SELECT COUNT(1) FROM rejections WHERE pipeline = ?`, pipeline)
	if err != nil {
		return 0, fmt.Errorf("count rejections for %s: %w", pipeline, err)
	}
	return n, nil
}
