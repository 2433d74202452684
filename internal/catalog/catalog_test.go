package catalog

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pabl-o-ce/somosnlp-hackathon-2025/internal/domain"
)

func newMockCatalog(t *testing.T) (*Catalog, sqlmock.Sqlmock) {
	t.Helper()
	mockDb, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDb.Close() })
	return New(sqlx.NewDb(mockDb, "sqlmock")), mock
}

func TestRecordRecipe(t *testing.T) {
	cat, mock := newMockCatalog(t)
	recipe := &domain.Recipe{
		ID:     "01HRECIPE",
		Title:  "Tortilla de patatas",
		URL:    "https://www.recetasdesbieta.com/tortilla-de-patatas/",
		Region: "España",
	}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO recipes")).
		WithArgs(recipe.ID, recipe.Title, recipe.URL, recipe.Region, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, cat.RecordRecipe(context.Background(), recipe))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHasRecipe(t *testing.T) {
	cat, mock := newMockCatalog(t)
	url := "https://www.recetasdesbieta.com/gazpacho/"

	t.Run("present", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(1) FROM recipes WHERE url = ?")).
			WithArgs(url).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		found, err := cat.HasRecipe(context.Background(), url)
		require.NoError(t, err)
		assert.True(t, found)
	})

	t.Run("absent", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(1) FROM recipes WHERE url = ?")).
			WithArgs(url).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		found, err := cat.HasRecipe(context.Background(), url)
		require.NoError(t, err)
		assert.False(t, found)
	})
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScrapedURLs(t *testing.T) {
	cat, mock := newMockCatalog(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT url FROM recipes ORDER BY created_at")).
		WillReturnRows(sqlmock.NewRows([]string{"url"}).
			AddRow("https://www.recetasdesbieta.com/tortilla-de-patatas/").
			AddRow("https://www.recetasdesbieta.com/gazpacho/"))

	urls, err := cat.ScrapedURLs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{
		"https://www.recetasdesbieta.com/tortilla-de-patatas/",
		"https://www.recetasdesbieta.com/gazpacho/",
	}, urls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveSessionProgress(t *testing.T) {
	cat, mock := newMockCatalog(t)
	progress := SessionProgress{
		SessionID:      "20250520_120000",
		RecipeIdx:      3,
		QuestionIdx:    7,
		TotalRecipes:   20,
		TotalQuestions: 15,
	}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO session_progress")).
		WithArgs(progress.SessionID, progress.RecipeIdx, progress.QuestionIdx,
			progress.TotalRecipes, progress.TotalQuestions, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, cat.SaveSessionProgress(context.Background(), progress))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionProgress(t *testing.T) {
	cat, mock := newMockCatalog(t)
	sessionID := "20250520_120000"

	t.Run("found", func(t *testing.T) {
		mock.ExpectQuery("SELECT session_id, recipe_idx").
			WithArgs(sessionID).
			WillReturnRows(sqlmock.NewRows([]string{
				"session_id", "recipe_idx", "question_idx", "total_recipes", "total_questions", "updated_at",
			}).AddRow(sessionID, 3, 7, 20, 15, time.Now()))

		progress, err := cat.SessionProgress(context.Background(), sessionID)
		require.NoError(t, err)
		require.NotNil(t, progress)
		assert.Equal(t, 3, progress.RecipeIdx)
		assert.Equal(t, 7, progress.QuestionIdx)
	})

	t.Run("unknown session", func(t *testing.T) {
		mock.ExpectQuery("SELECT session_id, recipe_idx").
			WithArgs("nope").
			WillReturnError(sql.ErrNoRows)

		progress, err := cat.SessionProgress(context.Background(), "nope")
		require.NoError(t, err)
		assert.Nil(t, progress)
	})
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRejections(t *testing.T) {
	cat, mock := newMockCatalog(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO rejections")).
		WithArgs("generate-dpo", "pair", "chosen response is too short", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	require.NoError(t, cat.RecordRejection(context.Background(), "generate-dpo", "pair", "chosen response is too short"))

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(1) FROM rejections WHERE pipeline = ?")).
		WithArgs("generate-dpo").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	n, err := cat.RejectionCount(context.Background(), "generate-dpo")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
