package main

import (
	"context"
	"errors"
	"flag"
	"fmt"

	"go.uber.org/zap"

	"github.com/pabl-o-ce/somosnlp-hackathon-2025/internal/config"
	"github.com/pabl-o-ce/somosnlp-hackathon-2025/internal/dataset"
	"github.com/pabl-o-ce/somosnlp-hackathon-2025/internal/domain"
	"github.com/pabl-o-ce/somosnlp-hackathon-2025/internal/logger"
	"github.com/pabl-o-ce/somosnlp-hackathon-2025/internal/youtube"
)

func main() {
	input := flag.String("input", "recipes.json", "recipe JSON file to enrich")
	output := flag.String("output", "recipes_with_transcripts.json", "output JSON file")
	summarySentences := flag.Int("summary-sentences", 0, "store an N-sentence summary instead of the full transcript (0 = full)")
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

	ctx := context.Background()
	client := youtube.NewClient(cfg.YouTube, log)

	var fetched, missing int
	for i := range recipes {
		if recipes[i].YouTubeURL == "" {
			continue
		}
		videoID := youtube.ExtractVideoID(recipes[i].YouTubeURL)
		if videoID == "" {
			missing++
			log.Warn("Unrecognized YouTube URL",
				zap.String("recipe", recipes[i].Title),
				zap.String("url", recipes[i].YouTubeURL))
			continue
		}

		log.Info("Processing video",
			zap.String("recipe", recipes[i].Title),
			zap.String("video_id", videoID))

		transcript, err := client.Transcript(ctx, videoID)
		if err != nil {
			missing++
			var domainErr *domain.DomainError
			if errors.As(err, &domainErr) && domainErr.Code == domain.ErrNoTranscript {
				log.Warn("Captions unavailable, continuing",
					zap.String("video_id", videoID))
			} else {
				log.Warn("Transcript fetch failed, continuing",
					zap.String("video_id", videoID),
					zap.Error(err))
			}
			continue
		}

		if *summarySentences > 0 {
			transcript = youtube.Summarize(transcript, *summarySentences)
		}
		recipes[i].Transcript = transcript
		fetched++

		log.Info("Progress",
			zap.Int("processed", i+1),
			zap.Int("total", len(recipes)))
	}

	if err := dataset.SaveRecipes(*output, recipes); err != nil {
		log.Fatal("Failed to save recipes", zap.Error(err))
	}
	log.Info("Transcript extraction completed",
		zap.Int("fetched", fetched),
		zap.Int("missing", missing),
		zap.String("output", *output))
}
