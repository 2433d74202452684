package domain

import (
	"strings"
	"time"
)

// Quality gates for generated pairs. A chosen response shorter than this is
// almost always a refusal or an API hiccup; a rejected response still needs
// enough text to be a meaningful negative.
const (
	MinChosenLength   = 50
	MinRejectedLength = 20
)

// Message is one turn of a conversation prefix.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// PairMetadata ties a preference pair back to its recipe and records how the
// pair was produced.
type PairMetadata struct {
	RecipeID        string `json:"recipe_id"`
	RecipeName      string `json:"recipe_name"`
	Category        string `json:"category"`
	Context         string `json:"context"`
	DifficultyLevel string `json:"difficulty_level"`
	RecipeCategory  string `json:"recipe_category,omitempty"`
	RecipeCountry   string `json:"recipe_country"`
}

// PreferencePair is one DPO training example: a two-turn conversation prefix
// with a preferred and a dispreferred completion.
type PreferencePair struct {
	Messages  []Message    `json:"messages"`
	Chosen    string       `json:"chosen"`
	Rejected  string       `json:"rejected"`
	Metadata  PairMetadata `json:"metadata"`
	Timestamp time.Time    `json:"timestamp"`
	SessionID string       `json:"session_id,omitempty"`
}

// Validate applies the pair quality gates: a well-formed two-turn prefix,
// minimum completion lengths, distinct completions, and complete metadata.
func (p *PreferencePair) Validate() error {
	if len(p.Messages) < 2 {
		return NewValidationError("pair needs a system and a user message")
	}
	if p.Messages[0].Role != "system" || p.Messages[1].Role != "user" {
		return NewValidationError("pair messages must start with system then user")
	}
	for _, msg := range p.Messages {
		if strings.TrimSpace(msg.Content) == "" {
			return NewValidationError("pair message has empty content")
		}
	}
	if len(strings.TrimSpace(p.Chosen)) < MinChosenLength {
		return NewValidationError("chosen response is too short")
	}
	if len(strings.TrimSpace(p.Rejected)) < MinRejectedLength {
		return NewValidationError("rejected response is too short")
	}
	if strings.TrimSpace(p.Chosen) == strings.TrimSpace(p.Rejected) {
		return NewValidationError("chosen and rejected responses are identical")
	}
	if p.Metadata.RecipeID == "" || p.Metadata.RecipeName == "" || p.Metadata.Category == "" {
		return NewValidationError("pair metadata is incomplete")
	}
	return nil
}
