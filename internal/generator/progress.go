package generator

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Progress records where a generation run stands so an interrupted session
// can resume from its last recipe instead of starting over.
type Progress struct {
	SessionID            string    `json:"session_id"`
	Timestamp            time.Time `json:"timestamp"`
	CurrentRecipeIdx     int       `json:"current_recipe_idx"`
	TotalRecipes         int       `json:"total_recipes"`
	CurrentQuestionIdx   int       `json:"current_question_idx"`
	TotalQuestions       int       `json:"total_questions"`
	CurrentRecipeName    string    `json:"current_recipe_name"`
	CompletionPercentage float64   `json:"completion_percentage"`
}

// SaveProgress writes the progress record, overwriting the previous one.
func SaveProgress(path string, p Progress) error {
	raw, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal progress: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// LoadProgress reads a previous progress record. A missing file means a
// fresh start and is not an error.
func LoadProgress(path string) (*Progress, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var p Progress
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &p, nil
}

// Completion computes the percentage of the grid covered so far.
func Completion(recipeIdx, totalRecipes, questionIdx, totalQuestions int) float64 {
	total := totalRecipes * totalQuestions
	if total == 0 {
		return 0
	}
	return float64(recipeIdx*totalQuestions+questionIdx) / float64(total) * 100
}
