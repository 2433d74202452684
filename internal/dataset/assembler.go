package dataset

import (
	"go.uber.org/zap"

	"github.com/pabl-o-ce/somosnlp-hackathon-2025/internal/domain"
)

// Assembler validates records before they enter the training-ready dataset.
// Records missing required fields are excluded and counted; nothing else is
// transformed.
type Assembler struct {
	logger   *zap.Logger
	kept     int
	rejected int
}

// NewAssembler creates an Assembler. Counters start at zero for each run.
func NewAssembler(logger *zap.Logger) *Assembler {
	return &Assembler{logger: logger}
}

// Kept reports how many records passed validation.
func (a *Assembler) Kept() int { return a.kept }

// Rejected reports how many records were dropped.
func (a *Assembler) Rejected() int { return a.rejected }

// ValidRecipes filters recipes down to those carrying every required field.
func (a *Assembler) ValidRecipes(recipes []domain.Recipe) []domain.Recipe {
	out := make([]domain.Recipe, 0, len(recipes))
	for i := range recipes {
		if err := recipes[i].Validate(); err != nil {
			a.reject("recipe", recipes[i].URL, err)
			continue
		}
		a.kept++
		out = append(out, recipes[i])
	}
	return out
}

// ValidPairs filters preference pairs through the pair quality gates.
func (a *Assembler) ValidPairs(pairs []domain.PreferencePair) []domain.PreferencePair {
	out := make([]domain.PreferencePair, 0, len(pairs))
	for i := range pairs {
		if err := pairs[i].Validate(); err != nil {
			a.reject("pair", pairs[i].Metadata.RecipeID, err)
			continue
		}
		a.kept++
		out = append(out, pairs[i])
	}
	return out
}

// ValidQuestions drops question entries without text and repairs missing
// category and type fields in place.
func (a *Assembler) ValidQuestions(questions []domain.QuestionEntry) []domain.QuestionEntry {
	out := make([]domain.QuestionEntry, 0, len(questions))
	for i := range questions {
		if err := questions[i].Validate(); err != nil {
			a.reject("question", questions[i].RecipeID, err)
			continue
		}
		questions[i].ApplyDefaults()
		a.kept++
		out = append(out, questions[i])
	}
	return out
}

func (a *Assembler) reject(kind, id string, err error) {
	a.rejected++
	a.logger.Warn("record rejected",
		zap.String("kind", kind),
		zap.String("id", id),
		zap.Error(err))
}
