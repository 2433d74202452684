package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/pabl-o-ce/somosnlp-hackathon-2025/internal/adapter"
	"github.com/pabl-o-ce/somosnlp-hackathon-2025/internal/cache"
	"github.com/pabl-o-ce/somosnlp-hackathon-2025/internal/config"
	"github.com/pabl-o-ce/somosnlp-hackathon-2025/internal/dataset"
	"github.com/pabl-o-ce/somosnlp-hackathon-2025/internal/domain"
	"github.com/pabl-o-ce/somosnlp-hackathon-2025/internal/generator"
	"github.com/pabl-o-ce/somosnlp-hackathon-2025/internal/logger"
)

func main() {
	input := flag.String("input", "recipes.json", "recipe JSON file")
	output := flag.String("output", "", "output JSON file (default: recipe_questions_<timestamp>.json)")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		return
	}
	if err := logger.Initialize(cfg.Logger); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		return
	}
	defer logger.Sync()

	log := logger.Get()

	outPath := *output
	if outPath == "" {
		outPath = fmt.Sprintf("recipe_questions_%s.json", time.Now().Format("20060102_150405"))
	}

	recipes, err := dataset.LoadRecipes(*input)
	if err != nil {
		log.Fatal("Failed to load recipes", zap.Error(err))
	}
	asm := dataset.NewAssembler(log)
	valid := asm.ValidRecipes(recipes)
	log.Info("Loaded recipes",
		zap.Int("total", len(recipes)),
		zap.Int("valid", len(valid)),
		zap.Int("rejected", asm.Rejected()))
	if len(valid) == 0 {
		log.Fatal("No valid recipes to process", zap.String("input", *input))
	}

	model, err := generator.NewModel(cfg.LLM)
	if err != nil {
		log.Fatal("Failed to initialize LLM client", zap.Error(err))
	}
	log.Info("Initialized LLM client",
		zap.String("provider", cfg.LLM.Provider),
		zap.String("model", cfg.LLM.Model))

	var cacheAdapter domain.Cache
	if cfg.Redis.Address != "" {
		redisClient, err := cache.NewRedisClient(cfg.Redis)
		if err != nil {
			log.Fatal("Failed to initialize Redis client", zap.Error(err))
		}
		cacheAdapter = adapter.NewRedisCacheAdapter(redisClient)
		log.Info("Response cache initialized")
	} else {
		log.Warn("Redis cache is not configured. Running without cache.")
	}

	cacheTTL := cfg.ParseTTLStringOrDefault(cfg.CacheTTLs.LLMResponse, 30*24*time.Hour)
	gen := generator.NewQuestionGenerator(model, cacheAdapter, cacheTTL, cfg.Generation, log)

	ctx := context.Background()
	var allQuestions []domain.QuestionEntry

	for i := range valid {
		log.Info("Processing recipe",
			zap.Int("n", i+1),
			zap.Int("total", len(valid)),
			zap.String("recipe", valid[i].Title))

		questions, err := gen.Generate(ctx, &valid[i])
		if err != nil {
			log.Warn("No questions generated for recipe",
				zap.String("recipe_id", valid[i].ID),
				zap.Error(err))
			continue
		}
		allQuestions = append(allQuestions, questions...)
		log.Info("Generated questions",
			zap.String("recipe_id", valid[i].ID),
			zap.Int("count", len(questions)))

		if i < len(valid)-1 && cfg.Generation.RequestDelay > 0 {
			time.Sleep(cfg.Generation.RequestDelay)
		}
	}

	if err := dataset.SaveQuestions(outPath, allQuestions); err != nil {
		log.Fatal("Failed to save questions", zap.Error(err))
	}

	printSummary(log, allQuestions)
	log.Info("Question generation completed",
		zap.Int("total_questions", len(allQuestions)),
		zap.String("output", outPath))
}

func printSummary(log *zap.Logger, questions []domain.QuestionEntry) {
	byCategory := map[string]int{}
	byType := map[string]int{}
	recipeIDs := map[string]struct{}{}
	for _, q := range questions {
		byCategory[q.Category]++
		byType[q.QuestionType]++
		recipeIDs[q.RecipeID] = struct{}{}
	}
	log.Info("Question bank summary",
		zap.Int("total", len(questions)),
		zap.Int("unique_recipes", len(recipeIDs)),
		zap.Any("by_category", byCategory),
		zap.Any("by_type", byType))
}
