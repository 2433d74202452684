package generator

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/tmc/langchaingo/llms"
	"go.uber.org/zap"

	"github.com/pabl-o-ce/somosnlp-hackathon-2025/internal/cache"
	"github.com/pabl-o-ce/somosnlp-hackathon-2025/internal/config"
	"github.com/pabl-o-ce/somosnlp-hackathon-2025/internal/domain"
)

const questionSystemMessage = `Eres un experto chef instructor que debe crear un banco de preguntas educativas en español para ayudar a las personas a aprender a preparar recetas.

INSTRUCCIONES PARA GENERAR PREGUNTAS:
Crea mínimo %d o más preguntas necesarias que sirvan para que una persona pueda aprender la receta. Cada pregunta debe:
1. Incluir el nombre de la receta en la formulación
2. Ser educativa y práctica
3. La primera pregunta en primera persona sobre pedir la receta puedes usar estos contextos: cocina informal, cocinar para invitados, cena familiar, cocina de fin de semana, comida rápida, ocasión especial, aprender a cocinar.
4. Ayudar a entender técnicas, ingredientes, pasos, tips, porciones, tiempos y significado cultural.

Haz que la pregunta suene natural y conversacional, como una persona real preguntaría. Varía la estructura de la pregunta y no siempre empieces con "¿Cómo...?" o "¿Cuál...?". Incluye el contexto naturalmente.

FORMATO DE RESPUESTA:
Responde ÚNICAMENTE con un array JSON válido. NO uses markdown, NO uses formato de código, NO agregues explicaciones adicionales.
Usa esta estructura exacta para cada pregunta:
[
  {
    "question": "¿Pregunta aquí incluyendo el nombre de la receta?",
    "category": "Ingredientes y preparación",
    "question_type": "conceptual"
  }
]

IMPORTANTE: Responde SOLO con el JSON, sin texto adicional ni formato markdown.`

const questionUserTemplate = `INFORMACIÓN DE LA RECETA:
- Nombre: %s
- Dificultad: %s
- Tiempo: %s
- Porciones: %s
- Categoría: %s
- Ingredientes: %s
- Pasos: %s

Genera las %d preguntas para la receta "%s" en formato JSON:`

// rawQuestion is the shape the model is asked to emit per question.
type rawQuestion struct {
	Question     string `json:"question"`
	Category     string `json:"category"`
	QuestionType string `json:"question_type"`
}

// QuestionGenerator asks the model for a bank of Spanish study questions per
// recipe. Entries without question text are dropped; missing category and
// type fields are repaired with defaults.
type QuestionGenerator struct {
	client             *client
	questionsPerRecipe int
	logger             *zap.Logger
}

// NewQuestionGenerator wires the model, the optional response cache, and the
// generation settings.
func NewQuestionGenerator(model llms.Model, responseCache domain.Cache, cacheTTL time.Duration, cfg config.GenerationConfig, logger *zap.Logger) *QuestionGenerator {
	count := cfg.QuestionsPerRecipe
	if count <= 0 {
		count = 15
	}
	return &QuestionGenerator{
		client: &client{
			model:    model,
			cache:    responseCache,
			cacheTTL: cacheTTL,
			timeout:  cfg.RequestTimeout,
			logger:   logger,
		},
		questionsPerRecipe: count,
		logger:             logger,
	}
}

// Generate produces the question-bank entries for one recipe. A response
// that fails to parse as a whole is salvaged by recovering the array between
// its outermost brackets before giving up.
func (g *QuestionGenerator) Generate(ctx context.Context, recipe *domain.Recipe) ([]domain.QuestionEntry, error) {
	system := fmt.Sprintf(questionSystemMessage, g.questionsPerRecipe)
	user := fmt.Sprintf(questionUserTemplate,
		recipe.Title, recipe.Difficulty, recipe.Time, recipe.Servings, recipe.Category,
		recipe.IngredientList(), recipe.StepText(),
		g.questionsPerRecipe, recipe.Title)

	cacheKey := cache.GenerateCacheKey("questionbank", "response", recipe.ID, cache.HashPrompt(system+user))
	response, err := g.client.chat(ctx, cacheKey, system, user,
		llms.WithMaxTokens(4096),
		llms.WithTemperature(0.7),
	)
	if err != nil {
		return nil, err
	}

	cleaned := CleanJSONResponse(response)

	var raw []rawQuestion
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		partial, ok := RecoverArray(cleaned)
		if !ok {
			return nil, fmt.Errorf("parse question response for recipe %s: %w", recipe.ID, err)
		}
		if err := json.Unmarshal([]byte(partial), &raw); err != nil {
			return nil, fmt.Errorf("parse recovered question array for recipe %s: %w", recipe.ID, err)
		}
		g.logger.Info("recovered questions from partial JSON",
			zap.String("recipe_id", recipe.ID),
			zap.Int("count", len(raw)))
	}

	entries := make([]domain.QuestionEntry, 0, len(raw))
	for _, q := range raw {
		entry := domain.QuestionEntry{
			RecipeID:     recipe.ID,
			RecipeName:   recipe.Title,
			Question:     q.Question,
			Category:     q.Category,
			QuestionType: q.QuestionType,
		}
		if err := entry.Validate(); err != nil {
			g.logger.Warn("skipping incomplete question",
				zap.String("recipe_id", recipe.ID),
				zap.Error(err))
			continue
		}
		entry.ApplyDefaults()
		entries = append(entries, entry)
	}
	return entries, nil
}
