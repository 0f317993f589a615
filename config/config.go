package config

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// DefaultTipSources are scraped when no sources file is configured.
var DefaultTipSources = []string{
	"https://nomadicmatt.com/travel-blogs/",
	"https://www.thebrokebackpacker.com/category/europe/",
}

type Config struct {
	Port        string
	A2APort     string
	GinMode     string
	FrontendURL string
	MCPURL      string

	LLMProvider    string
	BedrockModelID string
	AWSRegion      string
	HFAPIKey       string
	HFModel        string
	HFEmbedModel   string
	HFBaseURL      string
	GeminiAPIKey   string
	GeminiModel    string

	AmadeusClientID     string
	AmadeusClientSecret string
	AmadeusEnv          string
	AmadeusBaseURL      string

	TipsStore       string
	TipsCollection  string
	ChromaURL       string
	TipsIndexDir    string
	TipsScraper     string
	TipsSourcesFile string
	TipSources      []string
	DatabaseURL     string
}

// Load reads .env (if present) and the process environment once.
func Load() (*Config, error) {
	// Load .env file (ignored in production where env vars are set directly)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found — using environment variables")
	}

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	cfg := &Config{
		Port:        v.GetString("PORT"),
		A2APort:     v.GetString("A2A_PORT"),
		GinMode:     v.GetString("GIN_MODE"),
		FrontendURL: v.GetString("FRONTEND_URL"),
		MCPURL:      v.GetString("MCP_URL"),

		LLMProvider:    strings.ToLower(v.GetString("LLM_PROVIDER")),
		BedrockModelID: v.GetString("BEDROCK_MODEL_ID"),
		AWSRegion:      v.GetString("AWS_REGION"),
		HFAPIKey:       v.GetString("HUGGINGFACE_API_KEY"),
		HFModel:        v.GetString("HF_MODEL"),
		HFEmbedModel:   v.GetString("HF_EMBED_MODEL"),
		HFBaseURL:      v.GetString("HF_BASE_URL"),
		GeminiAPIKey:   firstNonEmpty(v.GetString("GEMINI_API_KEY"), v.GetString("GOOGLE_API_KEY")),
		GeminiModel:    v.GetString("GEMINI_MODEL"),

		AmadeusClientID:     firstNonEmpty(v.GetString("AMAD_CLIENT_ID"), v.GetString("AMADEUS_CLIENT_ID")),
		AmadeusClientSecret: firstNonEmpty(v.GetString("AMAD_CLIENT_SECRET"), v.GetString("AMADEUS_CLIENT_SECRET")),
		AmadeusEnv:          v.GetString("AMADEUS_ENV"),
		AmadeusBaseURL:      v.GetString("AMADEUS_BASE_URL"),

		TipsStore:       strings.ToLower(v.GetString("TIPS_STORE")),
		TipsCollection:  v.GetString("TIPS_COLLECTION"),
		ChromaURL:       v.GetString("CHROMA_URL"),
		TipsIndexDir:    v.GetString("TIPS_INDEX_DIR"),
		TipsScraper:     strings.ToLower(v.GetString("TIPS_SCRAPER")),
		TipsSourcesFile: v.GetString("TIPS_SOURCES_FILE"),
		DatabaseURL:     v.GetString("DATABASE_URL"),
	}

	// USE_BEDROCK=false from older deployments turns the model off.
	if v.IsSet("USE_BEDROCK") && !v.GetBool("USE_BEDROCK") && cfg.LLMProvider == "bedrock" {
		cfg.LLMProvider = "none"
	}

	cfg.TipSources = DefaultTipSources
	if cfg.TipsSourcesFile != "" {
		sources, err := LoadTipSources(cfg.TipsSourcesFile)
		if err != nil {
			return nil, err
		}
		if len(sources) > 0 {
			cfg.TipSources = sources
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8001")
	v.SetDefault("A2A_PORT", "9000")
	v.SetDefault("MCP_URL", "http://localhost:8001/tools/plan_trip")
	v.SetDefault("LLM_PROVIDER", "bedrock")
	v.SetDefault("BEDROCK_MODEL_ID", "mistral.mistral-large-2407-v1:0")
	v.SetDefault("AWS_REGION", "ap-south-1")
	v.SetDefault("HF_EMBED_MODEL", "sentence-transformers/all-MiniLM-L6-v2")
	v.SetDefault("GEMINI_MODEL", "gemini-2.0-flash")
	v.SetDefault("AMADEUS_ENV", "test")
	v.SetDefault("TIPS_STORE", "chroma")
	v.SetDefault("TIPS_COLLECTION", "travel_tips")
	v.SetDefault("CHROMA_URL", "http://localhost:8000")
	v.SetDefault("TIPS_INDEX_DIR", "./chroma_db_travel")
	v.SetDefault("TIPS_SCRAPER", "http")
}

func (c *Config) validate() error {
	switch c.LLMProvider {
	case "bedrock", "huggingface", "gemini", "none":
	default:
		return fmt.Errorf("unknown LLM_PROVIDER %q (want bedrock, huggingface, gemini or none)", c.LLMProvider)
	}
	switch c.TipsStore {
	case "chroma":
	case "pgvector":
		if c.DatabaseURL == "" {
			return fmt.Errorf("TIPS_STORE=pgvector requires DATABASE_URL")
		}
	default:
		return fmt.Errorf("unknown TIPS_STORE %q (want chroma or pgvector)", c.TipsStore)
	}
	switch c.TipsScraper {
	case "http", "browser":
	default:
		return fmt.Errorf("unknown TIPS_SCRAPER %q (want http or browser)", c.TipsScraper)
	}
	return nil
}

type tipSourcesFile struct {
	Sources []string `yaml:"sources"`
}

// LoadTipSources reads a YAML file of the form `sources: [url, ...]`.
func LoadTipSources(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tip sources: %w", err)
	}

	var f tipSourcesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse tip sources %s: %w", path, err)
	}

	out := make([]string, 0, len(f.Sources))
	for _, s := range f.Sources {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
