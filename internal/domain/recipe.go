package domain

import "strings"

// Recipe is one scraped recipe record. The scraper fills title, URL, media
// links, ingredients, and steps; later pipeline stages add engagement counts
// and the video transcript to the same record.
type Recipe struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	URL         string   `json:"url"`
	ImageURL    string   `json:"image_url,omitempty"`
	YouTubeURL  string   `json:"youtube_url,omitempty"`
	Ingredients []string `json:"ingredients"`
	Steps       []string `json:"steps"`
	FullContent string   `json:"full_content,omitempty"`
	Transcript  string   `json:"transcript,omitempty"`
	Region      string   `json:"region,omitempty"`
	Category    string   `json:"category,omitempty"`
	Country     string   `json:"country,omitempty"`
	Difficulty  string   `json:"difficulty,omitempty"`
	Time        string   `json:"time,omitempty"`
	Servings    string   `json:"servings,omitempty"`
	Nutritional string   `json:"nutritional,omitempty"`
	Votes       int      `json:"votes,omitempty"`
}

// Validate checks that the record carries every field the dataset needs.
func (r *Recipe) Validate() error {
	if strings.TrimSpace(r.Title) == "" || r.Title == "Unknown Title" {
		return NewValidationError("recipe has no title")
	}
	if strings.TrimSpace(r.URL) == "" {
		return NewValidationError("recipe has no URL")
	}
	if len(r.Ingredients) == 0 {
		return NewValidationError("recipe has no ingredients")
	}
	if len(r.Steps) == 0 {
		return NewValidationError("recipe has no preparation steps")
	}
	return nil
}

// IngredientList renders the ingredients as one comma-separated line for
// prompt templates.
func (r *Recipe) IngredientList() string {
	return strings.Join(r.Ingredients, ", ")
}

// StepText renders the preparation steps as one numbered block.
func (r *Recipe) StepText() string {
	var b strings.Builder
	for i, step := range r.Steps {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(strings.TrimSpace(step))
	}
	return b.String()
}
