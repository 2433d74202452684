package dataset

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/pabl-o-ce/somosnlp-hackathon-2025/internal/domain"
)

// LoadRecipes reads a JSON array of recipe records. A missing file yields an
// empty slice so pipelines can resume into a fresh output. Truncated arrays
// (a crashed earlier run) are repaired by closing the bracket.
func LoadRecipes(path string) ([]domain.Recipe, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var recipes []domain.Recipe
	if err := json.Unmarshal(raw, &recipes); err != nil {
		repaired, ok := repairTruncatedArray(raw)
		if !ok {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		if err := json.Unmarshal(repaired, &recipes); err != nil {
			return nil, fmt.Errorf("parse %s after repair: %w", path, err)
		}
	}
	return recipes, nil
}

// SaveRecipes writes recipes as an indented JSON array, matching the
// interchange format every downstream stage reads.
func SaveRecipes(path string, recipes []domain.Recipe) error {
	return writeJSON(path, recipes)
}

// LoadQuestions reads a question-bank JSON array.
func LoadQuestions(path string) ([]domain.QuestionEntry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var questions []domain.QuestionEntry
	if err := json.Unmarshal(raw, &questions); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return questions, nil
}

// SaveQuestions writes question-bank entries as an indented JSON array.
func SaveQuestions(path string, questions []domain.QuestionEntry) error {
	return writeJSON(path, questions)
}

// LoadPairs reads preference pairs from either a JSON array or a JSONL
// session file, decided by content.
func LoadPairs(path string) ([]domain.PreferencePair, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	trimmed := strings.TrimSpace(string(raw))
	if strings.HasPrefix(trimmed, "[") {
		var pairs []domain.PreferencePair
		if err := json.Unmarshal(raw, &pairs); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		return pairs, nil
	}

	var pairs []domain.PreferencePair
	scanner := bufio.NewScanner(strings.NewReader(trimmed))
	scanner.Buffer(make([]byte, 1024*1024), 16*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		var pair domain.PreferencePair
		if err := json.Unmarshal([]byte(text), &pair); err != nil {
			return nil, fmt.Errorf("parse %s line %d: %w", path, line, err)
		}
		pairs = append(pairs, pair)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan %s: %w", path, err)
	}
	return pairs, nil
}

// SavePairs writes preference pairs as an indented JSON array.
func SavePairs(path string, pairs []domain.PreferencePair) error {
	return writeJSON(path, pairs)
}

// AppendPairJSONL appends one pair to a JSONL session file, creating it when
// absent. One object per line keeps incremental saves cheap and crash-safe.
func AppendPairJSONL(path string, pair domain.PreferencePair) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	raw, err := json.Marshal(pair)
	if err != nil {
		return fmt.Errorf("marshal pair: %w", err)
	}
	if _, err := f.Write(append(raw, '\n')); err != nil {
		return fmt.Errorf("append to %s: %w", path, err)
	}
	return nil
}

func writeJSON(path string, v any) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	if err := os.WriteFile(path, append(raw, '\n'), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// repairTruncatedArray closes an array that lost its trailing bracket,
// dropping a half-written final element if needed.
func repairTruncatedArray(raw []byte) ([]byte, bool) {
	trimmed := strings.TrimSpace(string(raw))
	if !strings.HasPrefix(trimmed, "[") || strings.HasSuffix(trimmed, "]") {
		return nil, false
	}
	if idx := strings.LastIndex(trimmed, "}"); idx >= 0 {
		return []byte(trimmed[:idx+1] + "]"), true
	}
	return []byte(trimmed + "]"), true
}
