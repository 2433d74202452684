package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func validPair() PreferencePair {
	return PreferencePair{
		Messages: []Message{
			{Role: "system", Content: "Eres un chef experto."},
			{Role: "user", Content: "¿Cómo se hace la tortilla de patatas?"},
		},
		Chosen:   strings.Repeat("La tortilla se prepara pelando las patatas. ", 3),
		Rejected: "Se fríen las patatas y ya está.",
		Metadata: PairMetadata{
			RecipeID:   "01HRECIPE",
			RecipeName: "Tortilla de patatas",
			Category:   "basic_recipe",
		},
	}
}

func TestPreferencePairValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*PreferencePair)
		wantErr string
	}{
		{"complete pair", func(p *PreferencePair) {}, ""},
		{"single message", func(p *PreferencePair) { p.Messages = p.Messages[:1] }, "system and a user"},
		{"wrong role order", func(p *PreferencePair) {
			p.Messages[0].Role = "user"
			p.Messages[1].Role = "system"
		}, "system then user"},
		{"empty message content", func(p *PreferencePair) { p.Messages[1].Content = "   " }, "empty content"},
		{"short chosen", func(p *PreferencePair) { p.Chosen = "muy corto" }, "chosen response is too short"},
		{"short rejected", func(p *PreferencePair) { p.Rejected = "no" }, "rejected response is too short"},
		{"identical responses", func(p *PreferencePair) { p.Rejected = p.Chosen }, "identical"},
		{"missing metadata", func(p *PreferencePair) { p.Metadata.Category = "" }, "metadata is incomplete"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pair := validPair()
			tt.mutate(&pair)
			err := pair.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestQuestionEntryDefaults(t *testing.T) {
	entry := QuestionEntry{
		RecipeID: "01HRECIPE",
		Question: "¿Qué aceite conviene usar para la tortilla de patatas?",
	}
	assert.NoError(t, entry.Validate())

	entry.ApplyDefaults()
	assert.Equal(t, DefaultQuestionCategory, entry.Category)
	assert.Equal(t, DefaultQuestionType, entry.QuestionType)

	entry.Category = "Técnicas"
	entry.ApplyDefaults()
	assert.Equal(t, "Técnicas", entry.Category)
}

func TestQuestionEntryValidate(t *testing.T) {
	entry := QuestionEntry{RecipeID: "01HRECIPE"}
	assert.Error(t, entry.Validate())

	entry = QuestionEntry{Question: "¿Cuánto tiempo lleva?"}
	assert.Error(t, entry.Validate())
}
