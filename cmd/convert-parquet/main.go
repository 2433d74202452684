package main

import (
	"flag"
	"fmt"

	"go.uber.org/zap"

	"github.com/pabl-o-ce/somosnlp-hackathon-2025/internal/config"
	"github.com/pabl-o-ce/somosnlp-hackathon-2025/internal/dataset"
	"github.com/pabl-o-ce/somosnlp-hackathon-2025/internal/logger"
)

func main() {
	inputPath := flag.String("input", "dataset.json", "preference pairs, JSON array or JSONL")
	outputPath := flag.String("output", "dataset.parquet", "Parquet output file")
	chunkSize := flag.Int("chunk-size", 1000, "rows per row group")
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

	asm := dataset.NewAssembler(log)
	valid := asm.ValidPairs(pairs)
	if asm.Rejected() > 0 {
		log.Warn("Dropped invalid pairs", zap.Int("rejected", asm.Rejected()))
	}
	if len(valid) == 0 {
		log.Fatal("No valid pairs to convert")
	}

	rows := dataset.FlattenAll(valid)
	if err := dataset.WriteParquetFile(*outputPath, rows, *chunkSize); err != nil {
		log.Fatal("Failed to write Parquet file", zap.Error(err))
	}

	log.Info("Conversion completed",
		zap.String("output", *outputPath),
		zap.Int("rows", len(rows)),
		zap.Int("chunk_size", *chunkSize))
}
