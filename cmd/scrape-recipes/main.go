package main

import (
	"context"
	"flag"
	"fmt"

	"go.uber.org/zap"

	"github.com/pabl-o-ce/somosnlp-hackathon-2025/internal/catalog"
	"github.com/pabl-o-ce/somosnlp-hackathon-2025/internal/config"
	"github.com/pabl-o-ce/somosnlp-hackathon-2025/internal/dataset"
	"github.com/pabl-o-ce/somosnlp-hackathon-2025/internal/logger"
	"github.com/pabl-o-ce/somosnlp-hackathon-2025/internal/scraper"
	"github.com/pabl-o-ce/somosnlp-hackathon-2025/internal/util"
)

func main() {
	output := flag.String("output", "recipes.json", "output JSON file")
	maxRecipes := flag.Int("max-recipes", 0, "maximum number of recipes to scrape (0 = all)")
	startIndex := flag.Int("start-index", 0, "start from a specific recipe index")
	saveEvery := flag.Int("save-every", 10, "incremental save interval in recipes")
	delay := flag.Duration("delay", 0, "per-request delay (overrides scraper.delay)")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		// Logger is not initialized yet, so use fmt for this critical error
		fmt.Printf("Failed to load configuration: %v\n", err)
		return
	}
	if *delay > 0 {
		cfg.Scraper.Delay = *delay
	}
	if err := logger.Initialize(cfg.Logger); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		return
	}
	defer logger.Sync()

	log := logger.Get()
	log.Info("Starting recipe scraper", zap.String("index_url", cfg.Scraper.IndexURL))

	ctx := context.Background()
	s := scraper.New(cfg.Scraper, log)

	var cat *catalog.Catalog
	if cfg.Catalog.Path != "" {
		cat, err = catalog.Open(cfg.Catalog.Path)
		if err != nil {
			log.Fatal("Failed to open catalog", zap.Error(err))
		}
		defer cat.Close()
		log.Info("Catalog opened", zap.String("path", cfg.Catalog.Path))
	} else {
		log.Warn("Catalog is not configured. Running without catalog.")
	}

	links, err := s.RecipeLinks(ctx)
	if err != nil {
		log.Fatal("Failed to collect recipe links", zap.Error(err))
	}
	log.Info("Collected recipe links", zap.Int("count", len(links)))

	if *maxRecipes > 0 && len(links) > *maxRecipes {
		links = links[:*maxRecipes]
		log.Info("Limited link list", zap.Int("count", len(links)))
	}

	recipes, err := dataset.LoadRecipes(*output)
	if err != nil {
		log.Fatal("Failed to load existing recipes", zap.Error(err))
	}
	log.Info("Loaded existing recipes", zap.Int("count", len(recipes)))

	scraped := make(map[string]struct{}, len(recipes))
	for i := range recipes {
		scraped[recipes[i].URL] = struct{}{}
	}
	if cat != nil {
		urls, err := cat.ScrapedURLs(ctx)
		if err != nil {
			log.Fatal("Failed to read scraped URLs from catalog", zap.Error(err))
		}
		for _, u := range urls {
			scraped[u] = struct{}{}
		}
	}

	var pending []string
	for i, link := range links {
		if i < *startIndex {
			continue
		}
		if _, done := scraped[link]; done {
			continue
		}
		pending = append(pending, link)
	}
	log.Info("Recipes remaining to scrape", zap.Int("count", len(pending)))

	if len(pending) == 0 {
		log.Info("No new recipes to scrape. Exiting.")
		return
	}

	var failed int
	for i, link := range pending {
		log.Info("Scraping recipe",
			zap.Int("n", i+1),
			zap.Int("total", len(pending)),
			zap.String("url", link))

		recipe, err := s.ScrapeRecipe(ctx, link)
		if err != nil {
			failed++
			log.Warn("Skipping recipe", zap.String("url", link), zap.Error(err))
			continue
		}
		recipe.ID = util.NewULID()
		recipes = append(recipes, *recipe)

		if cat != nil {
			if err := cat.RecordRecipe(ctx, recipe); err != nil {
				log.Warn("Failed to record recipe in catalog", zap.Error(err))
			}
		}

		if *saveEvery > 0 && (i+1)%*saveEvery == 0 {
			if err := dataset.SaveRecipes(*output, recipes); err != nil {
				log.Fatal("Incremental save failed", zap.Error(err))
			}
			log.Info("Saved recipes", zap.Int("count", len(recipes)), zap.String("output", *output))
		}
	}

	if err := dataset.SaveRecipes(*output, recipes); err != nil {
		log.Fatal("Final save failed", zap.Error(err))
	}

	asm := dataset.NewAssembler(log)
	asm.ValidRecipes(recipes)
	log.Info("Recipe scraping completed",
		zap.Int("total", len(recipes)),
		zap.Int("valid", asm.Kept()),
		zap.Int("incomplete", asm.Rejected()),
		zap.Int("failed_pages", failed),
		zap.String("output", *output))
}
