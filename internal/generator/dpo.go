package generator

import (
	"context"
	"fmt"
	"time"

	"github.com/tmc/langchaingo/llms"
	"go.uber.org/zap"

	"github.com/pabl-o-ce/somosnlp-hackathon-2025/internal/cache"
	"github.com/pabl-o-ce/somosnlp-hackathon-2025/internal/config"
	"github.com/pabl-o-ce/somosnlp-hackathon-2025/internal/domain"
)

// Question-bank categories map onto internal category names, which in turn
// select the system message and difficulty level of the generated pair.
var categoryMapping = map[string]string{
	"General":                    "basic_recipe",
	"Ingredientes y preparación": "ingredients",
	"Técnicas":                   "cooking_techniques",
	"Tiempo y planificación":     "time_and_planning",
	"Información nutricional":    "nutritional_info",
	"Porciones":                  "scaling_portions",
	"Solución de problemas":      "troubleshooting",
	"Contexto cultural":          "cultural_context",
	"Opción múltiple":            "multiple_choice",
}

var systemMessageKey = map[string]string{
	"basic_recipe":       "recipe_instructions",
	"ingredients":        "ingredient_knowledge",
	"cooking_techniques": "technique_questions",
	"cultural_context":   "cultural_context",
	"troubleshooting":    "troubleshooting",
	"nutritional_info":   "nutritional_expert",
	"time_and_planning":  "recipe_instructions",
	"scaling_portions":   "recipe_instructions",
	"multiple_choice":    "multiple_choice_expert",
}

var difficultyMapping = map[string]string{
	"basic_recipe":       "beginner",
	"ingredients":        "beginner",
	"cooking_techniques": "intermediate",
	"cultural_context":   "advanced",
	"troubleshooting":    "intermediate",
	"nutritional_info":   "intermediate",
	"time_and_planning":  "beginner",
	"scaling_portions":   "intermediate",
	"multiple_choice":    "intermediate",
}

var systemMessages = map[string]string{
	"recipe_instructions": "Eres un chef instructor especializado en técnicas culinarias internacionales. Explicas métodos paso a paso con precisión y claridad didáctica, adaptándote a diferentes tradiciones gastronómicas del mundo.",

	"ingredient_knowledge": "Eres un experto en ingredientes de cocina internacional, conoces sus propiedades, usos tradicionales y sustituciones apropiadas en diferentes culturas gastronómicas del mundo.",

	"technique_questions": "Eres un maestro culinario especializado en técnicas de cocción internacionales, con expertise en tiempos, temperaturas y métodos tradicionales de diversas culturas gastronómicas.",

	"cultural_context": "Eres un historiador gastronómico internacional que conoces el origen, evolución y significado cultural de platos tradicionales de diferentes países y regiones del mundo.",

	"troubleshooting": "Eres un chef experto especializado en solucionar errores comunes en la cocina internacional y optimizar resultados culinarios para recetas de diferentes tradiciones gastronómicas.",

	"nutritional_expert": "Eres un nutricionista especializado en cocina internacional, conoces los valores nutricionales y beneficios de ingredientes de diferentes culturas y tradiciones gastronómicas del mundo.",

	"multiple_choice_expert": "Eres un chef educador especializado en gastronomía internacional. Respondes preguntas de opción múltiple con explicaciones detalladas sobre por qué cada opción es correcta o incorrecta, considerando diferentes tradiciones culinarias.",

	"base_expert": "Eres un chef experto especializado en cocina internacional con más de 20 años de experiencia. Tienes conocimiento profundo sobre ingredientes globales, técnicas tradicionales de diferentes culturas y la evolución de la gastronomía mundial.",
}

const chosenUserTemplate = `Responde la siguiente pregunta sobre la receta "%s" de manera completa, precisa y culturalmente auténtica.

Pregunta: %s

Información de la receta:
- Nombre: %s
- Ingredientes: %s
- Tiempo: %s
- Dificultad: %s
- Raciones: %s
- Valor nutricional: %s

Pasos de preparación: %s

Proporciona una respuesta que sea:
1. Técnicamente precisa y completa
2. Culturalmente auténtica para el origen de la receta
3. Práctica y útil para cocinar
4. Clara y en español natural
5. Específica para esta receta`

const rejectedSystemMessage = "Responde brevemente sobre cocina, pero no profundices demasiado en los detalles técnicos o culturales."

const rejectedUserTemplate = `Responde la pregunta sobre %s de manera básica.

Pregunta: %s

Información de la receta:
- Nombre: %s
- Ingredientes: %s
- Tiempo: %s
- Dificultad: %s
- Raciones: %s
- Valor nutricional: %s

Pasos de preparación: %s

Proporciona una respuesta que sea:
1. Correcta pero incompleta o mal formada
2. General, no específica al origen
3. Breve y con detalles técnicos pero sin profundidad
4. Sin contexto cultural específico`

// PairGenerator produces chosen/rejected completions for each question. The
// ranking policy is prompt-side: the chosen response comes from an expert
// system message with a large token budget, the rejected one from a degraded
// prompt at higher temperature with a small budget. No post-hoc scoring is
// involved.
type PairGenerator struct {
	client    *client
	cfg       config.GenerationConfig
	sessionID string
	logger    *zap.Logger
}

// NewPairGenerator wires the model, the optional response cache, and the
// generation settings. sessionID tags every pair written during this run.
func NewPairGenerator(model llms.Model, responseCache domain.Cache, cacheTTL time.Duration, cfg config.GenerationConfig, sessionID string, logger *zap.Logger) *PairGenerator {
	if cfg.ChosenMaxTokens <= 0 {
		cfg.ChosenMaxTokens = 8192
	}
	if cfg.RejectedMaxTokens <= 0 {
		cfg.RejectedMaxTokens = 2048
	}
	if cfg.ChosenTemperature <= 0 {
		cfg.ChosenTemperature = 0.7
	}
	if cfg.RejectedTemperature <= 0 {
		cfg.RejectedTemperature = 0.9
	}
	return &PairGenerator{
		client: &client{
			model:    model,
			cache:    responseCache,
			cacheTTL: cacheTTL,
			timeout:  cfg.RequestTimeout,
			logger:   logger,
		},
		cfg:       cfg,
		sessionID: sessionID,
		logger:    logger,
	}
}

// MapCategory translates a question-bank category label to the internal
// category name; unknown labels fall back to basic_recipe.
func MapCategory(label string) string {
	if mapped, ok := categoryMapping[label]; ok {
		return mapped
	}
	return "basic_recipe"
}

func selectSystemMessage(category string) string {
	if key, ok := systemMessageKey[category]; ok {
		return systemMessages[key]
	}
	return systemMessages["base_expert"]
}

// GeneratePair builds one preference pair for a recipe question. The caller
// validates the pair before saving it.
func (g *PairGenerator) GeneratePair(ctx context.Context, recipe *domain.Recipe, question domain.QuestionEntry) (*domain.PreferencePair, error) {
	category := MapCategory(question.Category)
	system := selectSystemMessage(category)

	chosen, err := g.generateChosen(ctx, recipe, question.Question, system)
	if err != nil {
		return nil, fmt.Errorf("chosen response: %w", err)
	}
	rejected, err := g.generateRejected(ctx, recipe, question.Question)
	if err != nil {
		return nil, fmt.Errorf("rejected response: %w", err)
	}

	country := recipe.Country
	if country == "" {
		country = "N/A"
	}
	pair := &domain.PreferencePair{
		Messages: []domain.Message{
			{Role: "system", Content: system},
			{Role: "user", Content: question.Question},
		},
		Chosen:   chosen,
		Rejected: rejected,
		Metadata: domain.PairMetadata{
			RecipeID:        recipe.ID,
			RecipeName:      recipe.Title,
			Category:        category,
			Context:         question.QuestionType,
			DifficultyLevel: difficultyMapping[category],
			RecipeCategory:  recipe.Category,
			RecipeCountry:   country,
		},
		Timestamp: time.Now(),
		SessionID: g.sessionID,
	}
	return pair, nil
}

func (g *PairGenerator) generateChosen(ctx context.Context, recipe *domain.Recipe, question, system string) (string, error) {
	user := fmt.Sprintf(chosenUserTemplate,
		recipe.Title, question,
		recipe.Title, recipe.IngredientList(), recipe.Time, recipe.Difficulty,
		recipe.Servings, orNA(recipe.Nutritional), recipe.StepText())

	cacheKey := cache.GenerateCacheKey("dpo", "chosen", recipe.ID, cache.HashPrompt(system+user))
	return g.client.chat(ctx, cacheKey, system, user,
		llms.WithMaxTokens(g.cfg.ChosenMaxTokens),
		llms.WithTemperature(g.cfg.ChosenTemperature),
	)
}

func (g *PairGenerator) generateRejected(ctx context.Context, recipe *domain.Recipe, question string) (string, error) {
	user := fmt.Sprintf(rejectedUserTemplate,
		recipe.Title, question,
		recipe.Title, recipe.IngredientList(), recipe.Time, recipe.Difficulty,
		recipe.Servings, orNA(recipe.Nutritional), recipe.StepText())

	cacheKey := cache.GenerateCacheKey("dpo", "rejected", recipe.ID, cache.HashPrompt(rejectedSystemMessage+user))
	return g.client.chat(ctx, cacheKey, rejectedSystemMessage, user,
		llms.WithMaxTokens(g.cfg.RejectedMaxTokens),
		llms.WithTemperature(g.cfg.RejectedTemperature),
	)
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
