package dataset

import (
	"fmt"
	"os"

	"github.com/parquet-go/parquet-go"

	"github.com/pabl-o-ce/somosnlp-hackathon-2025/internal/domain"
)

// FlatPair is the columnar shape of a preference pair: the conversation
// prefix is split into system and question columns, metadata is lifted to
// top-level columns. This is the training-ready layout.
type FlatPair struct {
	System     string `parquet:"system" json:"system"`
	Question   string `parquet:"question" json:"question"`
	Chosen     string `parquet:"chosen" json:"chosen"`
	Rejected   string `parquet:"rejected" json:"rejected"`
	RecipeID   string `parquet:"recipe_id" json:"recipe_id"`
	RecipeName string `parquet:"recipe_name" json:"recipe_name"`
	Category   string `parquet:"category" json:"category"`
}

// Flatten lifts the nested pair structure into its columnar shape.
func Flatten(pair domain.PreferencePair) FlatPair {
	flat := FlatPair{
		Chosen:     pair.Chosen,
		Rejected:   pair.Rejected,
		RecipeID:   pair.Metadata.RecipeID,
		RecipeName: pair.Metadata.RecipeName,
		Category:   pair.Metadata.Category,
	}
	for _, msg := range pair.Messages {
		switch msg.Role {
		case "system":
			flat.System = msg.Content
		case "user":
			flat.Question = msg.Content
		}
	}
	return flat
}

// FlattenAll converts a pair slice, preserving order and count.
func FlattenAll(pairs []domain.PreferencePair) []FlatPair {
	flat := make([]FlatPair, len(pairs))
	for i := range pairs {
		flat[i] = Flatten(pairs[i])
	}
	return flat
}

// WriteParquetFile writes rows to a Parquet file in fixed-size chunks.
// Writer settings are deterministic: converting the same input twice yields
// byte-identical output.
func WriteParquetFile(path string, rows []FlatPair, chunkSize int) error {
	if chunkSize <= 0 {
		chunkSize = 1000
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	writer := parquet.NewGenericWriter[FlatPair](f)
	for start := 0; start < len(rows); start += chunkSize {
		end := start + chunkSize
		if end > len(rows) {
			end = len(rows)
		}
		if _, err := writer.Write(rows[start:end]); err != nil {
			return fmt.Errorf("write row group to %s: %w", path, err)
		}
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("close writer for %s: %w", path, err)
	}
	return nil
}

// ReadParquetFile reads every row back from a Parquet file.
func ReadParquetFile(path string) ([]FlatPair, error) {
	rows, err := parquet.ReadFile[FlatPair](path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return rows, nil
}
