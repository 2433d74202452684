package dataset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pabl-o-ce/somosnlp-hackathon-2025/internal/domain"
)

func testRecipe(id, title string) domain.Recipe {
	return domain.Recipe{
		ID:          id,
		Title:       title,
		URL:         "https://www.recetasdesbieta.com/" + strings.ToLower(title) + "/",
		Ingredients: []string{"huevos", "patatas"},
		Steps:       []string{"pelar", "freír"},
	}
}

func testPair(id string) domain.PreferencePair {
	return domain.PreferencePair{
		Messages: []domain.Message{
			{Role: "system", Content: "Eres un chef experto."},
			{Role: "user", Content: "¿Cómo se hace?"},
		},
		Chosen:   strings.Repeat("Una respuesta completa y detallada. ", 3),
		Rejected: "Una respuesta breve y vaga.",
		Metadata: domain.PairMetadata{
			RecipeID:      id,
			RecipeName:    "Tortilla",
			Category:      "basic_recipe",
			RecipeCountry: "N/A",
		},
		Timestamp: time.Date(2025, 5, 20, 12, 0, 0, 0, time.UTC),
		SessionID: "20250520_120000",
	}
}

func TestRecipesRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recipes.json")
	recipes := []domain.Recipe{testRecipe("01A", "Tortilla"), testRecipe("01B", "Gazpacho")}

	require.NoError(t, SaveRecipes(path, recipes))
	loaded, err := LoadRecipes(path)
	require.NoError(t, err)
	assert.Equal(t, recipes, loaded)
}

func TestLoadRecipesMissingFile(t *testing.T) {
	loaded, err := LoadRecipes(filepath.Join(t.TempDir(), "absent.json"))
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestLoadRecipesRepairsTruncatedArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recipes.json")
	// A crashed run leaves the array open after the last complete element.
	truncated := `[
  {"id":"01A","title":"Tortilla","url":"u","ingredients":["x"],"steps":["y"]},
  {"id":"01B","title":"Gazp`
	require.NoError(t, os.WriteFile(path, []byte(truncated), 0o644))

	loaded, err := LoadRecipes(path)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "01A", loaded[0].ID)
}

func TestPairsArrayAndJSONL(t *testing.T) {
	dir := t.TempDir()
	pairs := []domain.PreferencePair{testPair("01A"), testPair("01B")}

	t.Run("array file", func(t *testing.T) {
		path := filepath.Join(dir, "pairs.json")
		require.NoError(t, SavePairs(path, pairs))
		loaded, err := LoadPairs(path)
		require.NoError(t, err)
		assert.Equal(t, pairs, loaded)
	})

	t.Run("jsonl session file", func(t *testing.T) {
		path := filepath.Join(dir, "session.jsonl")
		for _, p := range pairs {
			require.NoError(t, AppendPairJSONL(path, p))
		}
		loaded, err := LoadPairs(path)
		require.NoError(t, err)
		assert.Equal(t, pairs, loaded)
	})
}

func TestQuestionsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "questions.json")
	questions := []domain.QuestionEntry{
		{RecipeID: "01A", RecipeName: "Tortilla", Question: "¿Qué aceite usar?", Category: "Ingredientes y preparación", QuestionType: "conceptual"},
	}
	require.NoError(t, SaveQuestions(path, questions))

	loaded, err := LoadQuestions(path)
	require.NoError(t, err)
	assert.Equal(t, questions, loaded)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	// Interchange field names, not Go names.
	assert.Contains(t, string(raw), `"questions"`)
	assert.Contains(t, string(raw), `"questions_category"`)
}

func TestSaveRecipesDeterministic(t *testing.T) {
	dir := t.TempDir()
	recipes := []domain.Recipe{testRecipe("01A", "Tortilla")}

	first := filepath.Join(dir, "a.json")
	second := filepath.Join(dir, "b.json")
	require.NoError(t, SaveRecipes(first, recipes))
	require.NoError(t, SaveRecipes(second, recipes))

	a, err := os.ReadFile(first)
	require.NoError(t, err)
	b, err := os.ReadFile(second)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}
