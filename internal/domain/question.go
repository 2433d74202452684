package domain

import "strings"

// Question bank defaults applied when the model omits the classification
// fields.
const (
	DefaultQuestionCategory = "General"
	DefaultQuestionType     = "conceptual"
)

// QuestionEntry is one study question tied to a recipe. The JSON field names
// follow the question-bank interchange format the pair generator reads.
type QuestionEntry struct {
	RecipeID     string `json:"recipe_id"`
	RecipeName   string `json:"recipe_name"`
	Question     string `json:"questions"`
	Category     string `json:"questions_category"`
	QuestionType string `json:"question_type"`
}

// Validate rejects entries that cannot seed a preference pair.
func (q *QuestionEntry) Validate() error {
	if strings.TrimSpace(q.Question) == "" {
		return NewValidationError("question entry has no question text")
	}
	if strings.TrimSpace(q.RecipeID) == "" {
		return NewValidationError("question entry has no recipe id")
	}
	return nil
}

// ApplyDefaults repairs missing classification fields in place.
func (q *QuestionEntry) ApplyDefaults() {
	if strings.TrimSpace(q.Category) == "" {
		q.Category = DefaultQuestionCategory
	}
	if strings.TrimSpace(q.QuestionType) == "" {
		q.QuestionType = DefaultQuestionType
	}
}
