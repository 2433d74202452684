package main

import (
	"context"
	"flag"
	"fmt"

	"go.uber.org/zap"

	"github.com/pabl-o-ce/somosnlp-hackathon-2025/internal/config"
	"github.com/pabl-o-ce/somosnlp-hackathon-2025/internal/dataset"
	"github.com/pabl-o-ce/somosnlp-hackathon-2025/internal/logger"
	"github.com/pabl-o-ce/somosnlp-hackathon-2025/internal/youtube"
)

func main() {
	input := flag.String("input", "recipes.json", "recipe JSON file to enrich")
	output := flag.String("output", "updated_recipes.json", "output JSON file")
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

	recipes, err := dataset.LoadRecipes(*input)
	if err != nil {
		log.Fatal("Failed to load recipes", zap.Error(err))
	}
	if len(recipes) == 0 {
		log.Fatal("Input file has no recipes", zap.String("input", *input))
	}
	log.Info("Loaded recipes", zap.Int("count", len(recipes)))

	ctx := context.Background()
	client := youtube.NewClient(cfg.YouTube, log)

	var updated, skipped int
	for i := range recipes {
		if recipes[i].YouTubeURL == "" {
			continue
		}
		videoID := youtube.ExtractVideoID(recipes[i].YouTubeURL)
		if videoID == "" {
			skipped++
			log.Warn("Unrecognized YouTube URL",
				zap.String("recipe", recipes[i].Title),
				zap.String("url", recipes[i].YouTubeURL))
			continue
		}

		likes, err := client.LikeCount(ctx, videoID)
		if err != nil {
			skipped++
			log.Warn("Failed to fetch like count",
				zap.String("recipe", recipes[i].Title),
				zap.String("video_id", videoID),
				zap.Error(err))
			continue
		}
		recipes[i].Votes = likes
		updated++
		log.Info("Updated recipe votes",
			zap.String("recipe", recipes[i].Title),
			zap.Int("likes", likes))
	}

	if err := dataset.SaveRecipes(*output, recipes); err != nil {
		log.Fatal("Failed to save recipes", zap.Error(err))
	}
	log.Info("Stats extraction completed",
		zap.Int("updated", updated),
		zap.Int("skipped", skipped),
		zap.String("output", *output))
}
