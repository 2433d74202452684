package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Logger     LoggerConfig
	Scraper    ScraperConfig
	YouTube    YouTubeConfig
	LLM        LLMConfig
	Generation GenerationConfig
	Redis      RedisConfig
	Catalog    CatalogConfig
	Tuning     TuningConfig
	CacheTTLs  CacheTTLConfig
}

type LoggerConfig struct {
	Level string `yaml:"level"`
	Env   string `yaml:"env"`
}

type ScraperConfig struct {
	IndexURL  string        `yaml:"index_url"`
	UserAgent string        `yaml:"user_agent"`
	Delay     time.Duration `yaml:"delay"`
	Timeout   time.Duration `yaml:"timeout"`
}

type YouTubeConfig struct {
	Language  string        `yaml:"language"`
	UserAgent string        `yaml:"user_agent"`
	Delay     time.Duration `yaml:"delay"`
	Timeout   time.Duration `yaml:"timeout"`
}

type LLMConfig struct {
	Provider     string `yaml:"provider"` // "cohere" or "ollama"
	Model        string `yaml:"model"`
	CohereAPIKey string `yaml:"cohere_api_key"`
	OllamaServer string `yaml:"ollama_server"`
}

type GenerationConfig struct {
	RequestDelay        time.Duration `yaml:"request_delay"`
	RequestTimeout      time.Duration `yaml:"request_timeout"`
	QuestionsPerRecipe  int           `yaml:"questions_per_recipe"`
	ChosenMaxTokens     int           `yaml:"chosen_max_tokens"`
	RejectedMaxTokens   int           `yaml:"rejected_max_tokens"`
	ChosenTemperature   float64       `yaml:"chosen_temperature"`
	RejectedTemperature float64       `yaml:"rejected_temperature"`
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type CatalogConfig struct {
	Path string `yaml:"path"`
}

type TuningConfig struct {
	BaseModel    string  `yaml:"base_model"`
	LoraRank     int     `yaml:"lora_rank"`
	LoraAlpha    int     `yaml:"lora_alpha"`
	LoraDropout  float64 `yaml:"lora_dropout"`
	LearningRate float64 `yaml:"learning_rate"`
	BatchSize    int     `yaml:"batch_size"`
	Epochs       int     `yaml:"epochs"`
	DPOBeta      float64 `yaml:"dpo_beta"`
	MaxSeqLength int     `yaml:"max_seq_length"`
}

type CacheTTLConfig struct {
	LLMResponse string `yaml:"llm_response"`
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	viper.AutomaticEnv()
	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		// A config file is optional; defaults plus environment cover the
		// common case of running a single pipeline binary.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	config := &Config{
		Logger: LoggerConfig{
			Level: viper.GetString("logger.level"),
			Env:   viper.GetString("logger.env"),
		},
		Scraper: ScraperConfig{
			IndexURL:  viper.GetString("scraper.index_url"),
			UserAgent: viper.GetString("scraper.user_agent"),
			Delay:     viper.GetDuration("scraper.delay"),
			Timeout:   viper.GetDuration("scraper.timeout"),
		},
		YouTube: YouTubeConfig{
			Language:  viper.GetString("youtube.language"),
			UserAgent: viper.GetString("youtube.user_agent"),
			Delay:     viper.GetDuration("youtube.delay"),
			Timeout:   viper.GetDuration("youtube.timeout"),
		},
		LLM: LLMConfig{
			Provider:     viper.GetString("llm.provider"),
			Model:        viper.GetString("llm.model"),
			CohereAPIKey: viper.GetString("llm.cohere_api_key"),
			OllamaServer: viper.GetString("llm.ollama_server"),
		},
		Generation: GenerationConfig{
			RequestDelay:        viper.GetDuration("generation.request_delay"),
			RequestTimeout:      viper.GetDuration("generation.request_timeout"),
			QuestionsPerRecipe:  viper.GetInt("generation.questions_per_recipe"),
			ChosenMaxTokens:     viper.GetInt("generation.chosen_max_tokens"),
			RejectedMaxTokens:   viper.GetInt("generation.rejected_max_tokens"),
			ChosenTemperature:   viper.GetFloat64("generation.chosen_temperature"),
			RejectedTemperature: viper.GetFloat64("generation.rejected_temperature"),
		},
		Redis: RedisConfig{
			Address:  viper.GetString("redis.address"),
			Password: viper.GetString("redis.password"),
			DB:       viper.GetInt("redis.db"),
		},
		Catalog: CatalogConfig{
			Path: viper.GetString("catalog.path"),
		},
		Tuning: TuningConfig{
			BaseModel:    viper.GetString("tuning.base_model"),
			LoraRank:     viper.GetInt("tuning.lora_rank"),
			LoraAlpha:    viper.GetInt("tuning.lora_alpha"),
			LoraDropout:  viper.GetFloat64("tuning.lora_dropout"),
			LearningRate: viper.GetFloat64("tuning.learning_rate"),
			BatchSize:    viper.GetInt("tuning.batch_size"),
			Epochs:       viper.GetInt("tuning.epochs"),
			DPOBeta:      viper.GetFloat64("tuning.dpo_beta"),
			MaxSeqLength: viper.GetInt("tuning.max_seq_length"),
		},
		CacheTTLs: CacheTTLConfig{
			LLMResponse: viper.GetString("cache_ttls.llm_response"),
		},
	}

	// Credentials come from the environment, read once at process start.
	if key := os.Getenv("COHERE_API_KEY"); key != "" {
		config.LLM.CohereAPIKey = key
	}
	if server := os.Getenv("OLLAMA_SERVER"); server != "" {
		config.LLM.OllamaServer = server
	}
	if redisAddress := os.Getenv("REDIS_ADDRESS"); redisAddress != "" {
		config.Redis.Address = redisAddress
	}
	if redisPassword := os.Getenv("REDIS_PASSWORD"); redisPassword != "" {
		config.Redis.Password = redisPassword
	}
	if catalogPath := os.Getenv("CATALOG_PATH"); catalogPath != "" {
		config.Catalog.Path = catalogPath
	}

	return config, nil
}

func setDefaults() {
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.env", "development")

	viper.SetDefault("scraper.index_url", "https://www.recetasdesbieta.com/todas-las-recetas-por-orden-alfabetico/")
	viper.SetDefault("scraper.user_agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36")
	viper.SetDefault("scraper.delay", "2s")
	viper.SetDefault("scraper.timeout", "20s")

	viper.SetDefault("youtube.language", "es")
	viper.SetDefault("youtube.user_agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36")
	viper.SetDefault("youtube.delay", "1500ms")
	viper.SetDefault("youtube.timeout", "20s")

	viper.SetDefault("llm.provider", "cohere")
	viper.SetDefault("llm.model", "command-a-03-2025")

	viper.SetDefault("generation.request_delay", "500ms")
	viper.SetDefault("generation.request_timeout", "60s")
	viper.SetDefault("generation.questions_per_recipe", 15)
	viper.SetDefault("generation.chosen_max_tokens", 8192)
	viper.SetDefault("generation.rejected_max_tokens", 2048)
	viper.SetDefault("generation.chosen_temperature", 0.7)
	viper.SetDefault("generation.rejected_temperature", 0.9)

	viper.SetDefault("tuning.base_model", "Qwen/Qwen2.5-7B-Instruct")
	viper.SetDefault("tuning.lora_rank", 16)
	viper.SetDefault("tuning.lora_alpha", 32)
	viper.SetDefault("tuning.lora_dropout", 0.05)
	viper.SetDefault("tuning.learning_rate", 5e-6)
	viper.SetDefault("tuning.batch_size", 2)
	viper.SetDefault("tuning.epochs", 1)
	viper.SetDefault("tuning.dpo_beta", 0.1)
	viper.SetDefault("tuning.max_seq_length", 2048)

	viper.SetDefault("cache_ttls.llm_response", "720h")
}

// ParseTTLStringOrDefault parses a duration string, falling back to def when
// empty or malformed.
func (c *Config) ParseTTLStringOrDefault(ttl string, def time.Duration) time.Duration {
	if ttl == "" {
		return def
	}
	parsed, err := time.ParseDuration(ttl)
	if err != nil {
		return def
	}
	return parsed
}
