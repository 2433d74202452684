package main

import (
	"flag"
	"fmt"

	"go.uber.org/zap"

	"github.com/pabl-o-ce/somosnlp-hackathon-2025/internal/analyze"
	"github.com/pabl-o-ce/somosnlp-hackathon-2025/internal/config"
	"github.com/pabl-o-ce/somosnlp-hackathon-2025/internal/dataset"
	"github.com/pabl-o-ce/somosnlp-hackathon-2025/internal/logger"
)

func main() {
	inputPath := flag.String("input", "dataset.json", "preference pairs, JSON array or JSONL")
	outputPath := flag.String("output", "", "where to write the filtered subset; empty skips writing")
	maxLength := flag.Int("max-length", 2048, "token limit per conversation text")
	encoding := flag.String("encoding", "cl100k_base", "tiktoken encoding name")
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

	pairs, err := dataset.LoadPairs(*inputPath)
	if err != nil {
		log.Fatal("Failed to load pairs", zap.Error(err))
	}
	log.Info("Loaded pairs", zap.String("input", *inputPath), zap.Int("count", len(pairs)))

	analyzer, err := analyze.New(*encoding, *maxLength)
	if err != nil {
		log.Fatal("Failed to initialize analyzer", zap.Error(err))
	}

	report, kept := analyzer.Analyze(pairs)

	log.Info("Length analysis",
		zap.Int("total", report.Total),
		zap.Int("analyzed", report.Analyzed),
		zap.Int("skipped_empty", report.SkippedEmpty),
		zap.Int("within_limit", report.WithinLimit),
		zap.Int("over_limit", report.OverLimit),
		zap.Float64("retention_pct", report.RetentionRate()))
	log.Info("Over-limit breakdown",
		zap.Int("chosen_exceeds", report.ChosenExceeds),
		zap.Int("rejected_exceeds", report.RejectedExceeds),
		zap.Int("both_exceed", report.BothExceed))
	if report.LongChosen.Count > 0 {
		log.Info("Long chosen texts",
			zap.Int("count", report.LongChosen.Count),
			zap.Int("min_tokens", report.LongChosen.Min),
			zap.Int("max_tokens", report.LongChosen.Max),
			zap.Float64("avg_tokens", report.LongChosen.Avg))
	}
	if report.LongRejected.Count > 0 {
		log.Info("Long rejected texts",
			zap.Int("count", report.LongRejected.Count),
			zap.Int("min_tokens", report.LongRejected.Min),
			zap.Int("max_tokens", report.LongRejected.Max),
			zap.Float64("avg_tokens", report.LongRejected.Avg))
	}

	if *outputPath != "" {
		if err := dataset.SavePairs(*outputPath, kept); err != nil {
			log.Fatal("Failed to save filtered subset", zap.Error(err))
		}
		log.Info("Saved filtered subset",
			zap.String("output", *outputPath),
			zap.Int("pairs", len(kept)))
	}
}
