package analyze

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pabl-o-ce/somosnlp-hackathon-2025/internal/domain"
)

func shortPair(id string) domain.PreferencePair {
	return domain.PreferencePair{
		Messages: []domain.Message{
			{Role: "system", Content: "Eres un chef experto."},
			{Role: "user", Content: "¿Cómo se hace la tortilla?"},
		},
		Chosen:   "Se pelan las patatas y se fríen a fuego suave antes de cuajar.",
		Rejected: "Se fríe todo y listo.",
		Metadata: domain.PairMetadata{RecipeID: id, RecipeName: "Tortilla", Category: "basic_recipe"},
	}
}

func TestAnalyzeFiltersOverlongPairs(t *testing.T) {
	analyzer, err := New("cl100k_base", 100)
	require.NoError(t, err)

	pairs := make([]domain.PreferencePair, 0, 100)
	for i := 0; i < 90; i++ {
		pairs = append(pairs, shortPair(fmt.Sprintf("ok%02d", i)))
	}
	for i := 0; i < 10; i++ {
		p := shortPair(fmt.Sprintf("long%02d", i))
		p.Chosen = strings.Repeat("patatas fritas con aceite de oliva virgen extra ", 60)
		pairs = append(pairs, p)
	}

	report, kept := analyzer.Analyze(pairs)

	assert.Equal(t, 100, report.Total)
	assert.Equal(t, 100, report.Analyzed)
	assert.Equal(t, 90, report.WithinLimit)
	assert.Equal(t, 10, report.OverLimit)
	assert.Equal(t, 10, report.ChosenExceeds)
	assert.Equal(t, 0, report.RejectedExceeds)
	assert.Equal(t, 0, report.BothExceed)
	assert.Len(t, kept, 90)
	assert.InDelta(t, 90.0, report.RetentionRate(), 0.001)

	assert.Equal(t, 10, report.LongChosen.Count)
	assert.Greater(t, report.LongChosen.Min, 100)
	assert.GreaterOrEqual(t, report.LongChosen.Max, report.LongChosen.Min)
}

func TestAnalyzeSkipsEmptyPairs(t *testing.T) {
	analyzer, err := New("", 100)
	require.NoError(t, err)

	empty := shortPair("empty")
	empty.Chosen = "   "
	empty.Rejected = ""

	report, kept := analyzer.Analyze([]domain.PreferencePair{shortPair("ok"), empty})

	assert.Equal(t, 2, report.Total)
	assert.Equal(t, 1, report.Analyzed)
	assert.Equal(t, 1, report.SkippedEmpty)
	assert.Len(t, kept, 1)
}

func TestNewRejectsBadLimit(t *testing.T) {
	_, err := New("cl100k_base", 0)
	assert.Error(t, err)
}

func TestConversationText(t *testing.T) {
	messages := []domain.Message{
		{Role: "system", Content: "Eres un chef."},
		{Role: "user", Content: "¿Qué lleva?"},
	}
	got := ConversationText(messages, "Lleva huevos y patatas.")
	assert.Equal(t, "System: Eres un chef.\nUser: ¿Qué lleva?\nAssistant: Lleva huevos y patatas.", got)
}

func TestTokenCount(t *testing.T) {
	analyzer, err := New("cl100k_base", 10)
	require.NoError(t, err)

	assert.Equal(t, 0, analyzer.TokenCount(""))
	assert.Greater(t, analyzer.TokenCount("tortilla de patatas"), 0)
}
