package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/pabl-o-ce/somosnlp-hackathon-2025/internal/adapter"
	"github.com/pabl-o-ce/somosnlp-hackathon-2025/internal/cache"
	"github.com/pabl-o-ce/somosnlp-hackathon-2025/internal/catalog"
	"github.com/pabl-o-ce/somosnlp-hackathon-2025/internal/config"
	"github.com/pabl-o-ce/somosnlp-hackathon-2025/internal/dataset"
	"github.com/pabl-o-ce/somosnlp-hackathon-2025/internal/domain"
	"github.com/pabl-o-ce/somosnlp-hackathon-2025/internal/generator"
	"github.com/pabl-o-ce/somosnlp-hackathon-2025/internal/logger"
)

func main() {
	recipesPath := flag.String("recipes", "recipes.json", "recipe JSON file")
	questionsPath := flag.String("questions", "recipe_questions.json", "question bank JSON file")
	outputDir := flag.String("output-dir", "dpo_output", "directory for session files and progress")
	resume := flag.Bool("resume", true, "resume from the previous progress record")
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

	if err := os.MkdirAll(*outputDir, 0o755); err != nil {
		log.Fatal("Failed to create output directory", zap.Error(err))
	}

	tuning := domain.TuningParams{
		BaseModel:    cfg.Tuning.BaseModel,
		LoraRank:     cfg.Tuning.LoraRank,
		LoraAlpha:    cfg.Tuning.LoraAlpha,
		LoraDropout:  cfg.Tuning.LoraDropout,
		LearningRate: cfg.Tuning.LearningRate,
		BatchSize:    cfg.Tuning.BatchSize,
		Epochs:       cfg.Tuning.Epochs,
		DPOBeta:      cfg.Tuning.DPOBeta,
		MaxSeqLength: cfg.Tuning.MaxSeqLength,
	}
	if err := tuning.Validate(); err != nil {
		log.Fatal("Invalid tuning parameters", zap.Error(err))
	}
	if err := writeTuningParams(filepath.Join(*outputDir, "tuning_config.json"), tuning); err != nil {
		log.Fatal("Failed to record tuning parameters", zap.Error(err))
	}

	recipes, err := dataset.LoadRecipes(*recipesPath)
	if err != nil {
		log.Fatal("Failed to load recipes", zap.Error(err))
	}
	asm := dataset.NewAssembler(log)
	validRecipes := asm.ValidRecipes(recipes)
	if len(validRecipes) == 0 {
		log.Fatal("No valid recipes to process", zap.String("recipes", *recipesPath))
	}

	questions, err := dataset.LoadQuestions(*questionsPath)
	if err != nil {
		log.Fatal("Failed to load question bank", zap.Error(err))
	}
	questions = asm.ValidQuestions(questions)
	questionsByRecipe := map[string][]domain.QuestionEntry{}
	for _, q := range questions {
		questionsByRecipe[q.RecipeID] = append(questionsByRecipe[q.RecipeID], q)
	}
	log.Info("Loaded question bank",
		zap.Int("questions", len(questions)),
		zap.Int("recipes_with_questions", len(questionsByRecipe)))

	model, err := generator.NewModel(cfg.LLM)
	if err != nil {
		log.Fatal("Failed to initialize LLM client", zap.Error(err))
	}

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

	var cat *catalog.Catalog
	if cfg.Catalog.Path != "" {
		cat, err = catalog.Open(cfg.Catalog.Path)
		if err != nil {
			log.Fatal("Failed to open catalog", zap.Error(err))
		}
		defer cat.Close()
	}

	sessionID := time.Now().Format("20060102_150405")
	sessionFile := filepath.Join(*outputDir, fmt.Sprintf("session_%s.jsonl", sessionID))
	progressFile := filepath.Join(*outputDir, "progress.json")

	startIdx := 0
	if *resume {
		prev, err := generator.LoadProgress(progressFile)
		if err != nil {
			log.Warn("Could not read previous progress", zap.Error(err))
		} else if prev != nil {
			startIdx = prev.CurrentRecipeIdx
			log.Info("Resuming from previous session",
				zap.String("previous_session", prev.SessionID),
				zap.Int("recipe_idx", startIdx),
				zap.Float64("completion_pct", prev.CompletionPercentage))
		}
	}

	cacheTTL := cfg.ParseTTLStringOrDefault(cfg.CacheTTLs.LLMResponse, 30*24*time.Hour)
	gen := generator.NewPairGenerator(model, cacheAdapter, cacheTTL, cfg.Generation, sessionID, log)

	ctx := context.Background()
	start := time.Now()
	var successful, failed int

	log.Info("Starting DPO generation",
		zap.Int("recipes", len(validRecipes)),
		zap.String("session_file", sessionFile))

	for recipeIdx := startIdx; recipeIdx < len(validRecipes); recipeIdx++ {
		recipe := &validRecipes[recipeIdx]
		recipeQuestions := questionsByRecipe[recipe.ID]
		if len(recipeQuestions) == 0 {
			log.Warn("No questions for recipe, skipping",
				zap.String("recipe_id", recipe.ID),
				zap.String("recipe", recipe.Title))
			continue
		}

		log.Info("Processing recipe",
			zap.Int("n", recipeIdx+1),
			zap.Int("total", len(validRecipes)),
			zap.String("recipe", recipe.Title),
			zap.Int("questions", len(recipeQuestions)))

		for qIdx, question := range recipeQuestions {
			progress := generator.Progress{
				SessionID:            sessionID,
				Timestamp:            time.Now(),
				CurrentRecipeIdx:     recipeIdx,
				TotalRecipes:         len(validRecipes),
				CurrentQuestionIdx:   qIdx,
				TotalQuestions:       len(recipeQuestions),
				CurrentRecipeName:    recipe.Title,
				CompletionPercentage: generator.Completion(recipeIdx, len(validRecipes), qIdx, len(recipeQuestions)),
			}
			if err := generator.SaveProgress(progressFile, progress); err != nil {
				log.Warn("Failed to save progress", zap.Error(err))
			}
			if cat != nil {
				if err := cat.SaveSessionProgress(ctx, catalog.SessionProgress{
					SessionID:      sessionID,
					RecipeIdx:      recipeIdx,
					QuestionIdx:    qIdx,
					TotalRecipes:   len(validRecipes),
					TotalQuestions: len(recipeQuestions),
				}); err != nil {
					log.Warn("Failed to mirror progress into catalog", zap.Error(err))
				}
			}

			pair, err := gen.GeneratePair(ctx, recipe, question)
			if err != nil {
				failed++
				log.Warn("Pair generation failed, continuing",
					zap.String("recipe_id", recipe.ID),
					zap.Int("question_idx", qIdx),
					zap.Error(err))
				continue
			}
			if err := pair.Validate(); err != nil {
				failed++
				log.Warn("Skipping invalid pair",
					zap.String("recipe_id", recipe.ID),
					zap.Error(err))
				if cat != nil {
					if cErr := cat.RecordRejection(ctx, "generate-dpo", "pair", err.Error()); cErr != nil {
						log.Warn("Failed to record rejection", zap.Error(cErr))
					}
				}
				continue
			}

			if err := dataset.AppendPairJSONL(sessionFile, *pair); err != nil {
				log.Fatal("Failed to append pair to session file", zap.Error(err))
			}
			successful++
			log.Info("Saved pair",
				zap.String("recipe", recipe.Title),
				zap.String("category", pair.Metadata.Category))

			if cfg.Generation.RequestDelay > 0 {
				time.Sleep(cfg.Generation.RequestDelay)
			}
		}
	}

	log.Info("DPO generation completed",
		zap.String("base_model", tuning.BaseModel),
		zap.Int("successful", successful),
		zap.Int("failed", failed),
		zap.Duration("elapsed", time.Since(start)),
		zap.String("session_file", sessionFile))
}

func writeTuningParams(path string, params domain.TuningParams) error {
	raw, err := json.MarshalIndent(params, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(raw, '\n'), 0o644)
}
