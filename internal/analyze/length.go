package analyze

import (
	"fmt"
	"strings"

	"github.com/pkoukk/tiktoken-go"

	"github.com/pabl-o-ce/somosnlp-hackathon-2025/internal/domain"
)

// FieldStats summarizes the token lengths of the examples that exceeded the
// limit in one field.
type FieldStats struct {
	Count int
	Min   int
	Max   int
	Avg   float64
}

// Report is the outcome of a length analysis over a preference dataset.
type Report struct {
	Total           int
	Analyzed        int
	SkippedEmpty    int
	OverLimit       int
	WithinLimit     int
	ChosenExceeds   int
	RejectedExceeds int
	BothExceed      int
	LongChosen      FieldStats
	LongRejected    FieldStats
}

// RetentionRate is the share of examples that survive filtering.
func (r Report) RetentionRate() float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(r.WithinLimit) / float64(r.Total) * 100
}

// Analyzer counts BPE tokens of chosen and rejected completions against a
// maximum sequence length. It holds no state between runs beyond the encoder.
type Analyzer struct {
	encoder   *tiktoken.Tiktoken
	maxLength int
}

// New builds an analyzer for the named tiktoken encoding.
func New(encoding string, maxLength int) (*Analyzer, error) {
	if encoding == "" {
		encoding = "cl100k_base"
	}
	if maxLength <= 0 {
		return nil, fmt.Errorf("max length must be positive, got %d", maxLength)
	}
	encoder, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, fmt.Errorf("load encoding %s: %w", encoding, err)
	}
	return &Analyzer{encoder: encoder, maxLength: maxLength}, nil
}

// TokenCount returns the number of BPE tokens in text.
func (a *Analyzer) TokenCount(text string) int {
	return len(a.encoder.Encode(text, nil, nil))
}

// ConversationText renders a message prefix plus a completion the way the
// trainer sees it, one role-tagged line per turn.
func ConversationText(messages []domain.Message, completion string) string {
	parts := make([]string, 0, len(messages)+1)
	for _, msg := range messages {
		switch msg.Role {
		case "system":
			parts = append(parts, "System: "+msg.Content)
		case "user":
			parts = append(parts, "User: "+msg.Content)
		case "assistant":
			parts = append(parts, "Assistant: "+msg.Content)
		default:
			role := msg.Role
			if role != "" {
				role = strings.ToUpper(role[:1]) + role[1:]
			}
			parts = append(parts, role+": "+msg.Content)
		}
	}
	if completion != "" {
		parts = append(parts, "Assistant: "+completion)
	}
	return strings.Join(parts, "\n")
}

// Analyze walks the dataset once, producing the report and the filtered
// subset whose chosen and rejected texts both fit within the limit.
func (a *Analyzer) Analyze(pairs []domain.PreferencePair) (Report, []domain.PreferencePair) {
	report := Report{Total: len(pairs)}
	kept := make([]domain.PreferencePair, 0, len(pairs))
	var longChosen, longRejected []int

	for i := range pairs {
		chosenText := ConversationText(pairs[i].Messages, pairs[i].Chosen)
		rejectedText := ConversationText(pairs[i].Messages, pairs[i].Rejected)

		if strings.TrimSpace(pairs[i].Chosen) == "" && strings.TrimSpace(pairs[i].Rejected) == "" {
			report.SkippedEmpty++
			continue
		}
		report.Analyzed++

		chosenTokens := a.TokenCount(chosenText)
		rejectedTokens := a.TokenCount(rejectedText)

		chosenOver := chosenTokens > a.maxLength
		rejectedOver := rejectedTokens > a.maxLength

		if !chosenOver && !rejectedOver {
			report.WithinLimit++
			kept = append(kept, pairs[i])
			continue
		}

		report.OverLimit++
		if chosenOver {
			report.ChosenExceeds++
			longChosen = append(longChosen, chosenTokens)
		}
		if rejectedOver {
			report.RejectedExceeds++
			longRejected = append(longRejected, rejectedTokens)
		}
		if chosenOver && rejectedOver {
			report.BothExceed++
		}
	}

	report.LongChosen = fieldStats(longChosen)
	report.LongRejected = fieldStats(longRejected)
	return report, kept
}

func fieldStats(lengths []int) FieldStats {
	if len(lengths) == 0 {
		return FieldStats{}
	}
	stats := FieldStats{Count: len(lengths), Min: lengths[0], Max: lengths[0]}
	sum := 0
	for _, n := range lengths {
		sum += n
		if n < stats.Min {
			stats.Min = n
		}
		if n > stats.Max {
			stats.Max = n
		}
	}
	stats.Avg = float64(sum) / float64(len(lengths))
	return stats
}
