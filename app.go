package main

import (
	"context"
	"database/sql"
	"log"

	"tripplanner/config"
	"tripplanner/database"
	"tripplanner/handlers"
	"tripplanner/planner"
	"tripplanner/services"
	"tripplanner/tips"
)

// app holds the collaborators built once from configuration.
type app struct {
	cfg       *config.Config
	planner   *planner.Planner
	retriever *tips.Retriever
	caps      handlers.Capabilities
	db        *sql.DB
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	amadeus := services.NewAmadeusClient(cfg.AmadeusClientID, cfg.AmadeusClientSecret, cfg.AmadeusEnv, cfg.AmadeusBaseURL)
	hf := services.NewHuggingFaceClient(cfg.HFAPIKey, cfg.HFModel, cfg.HFEmbedModel, cfg.HFBaseURL)

	a := &app{cfg: cfg}

	llm := newGenerator(ctx, cfg, hf)

	// The planner must see a nil interface, not a nil *Retriever, when tips are off.
	var tipRetriever planner.TipRetriever
	tipsStore := "none"
	if store, err := a.newTipStore(ctx, hf); err != nil {
		log.Printf("⚠️  tip store unavailable: %v, travel-blog tips disabled", err)
	} else {
		var fetcher tips.Fetcher = tips.NewHTTPFetcher()
		if cfg.TipsScraper == "browser" {
			fetcher = tips.NewBrowserFetcher("")
		}
		a.retriever = tips.NewRetriever(fetcher, store, cfg.TipSources)
		tipRetriever = a.retriever
		tipsStore = cfg.TipsStore
	}

	a.planner = planner.New(amadeus, tipRetriever, llm)
	a.caps = handlers.Capabilities{
		LLMProvider: llm.Name(),
		LiveData:    amadeus.Configured(),
		TipsStore:   tipsStore,
	}
	return a, nil
}

// newTipStore opens the configured vector store with HuggingFace embeddings.
func (a *app) newTipStore(ctx context.Context, hf *services.HuggingFaceClient) (tips.Store, error) {
	emb, err := tips.NewEmbedder(hf)
	if err != nil {
		return nil, err
	}

	switch a.cfg.TipsStore {
	case "pgvector":
		db, err := database.Open(a.cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		store, err := tips.NewPgvectorIndex(ctx, a.cfg.DatabaseURL, a.cfg.TipsCollection, db, emb)
		if err != nil {
			db.Close()
			return nil, err
		}
		a.db = db
		return store, nil
	default:
		return tips.NewChromaIndex(a.cfg.ChromaURL, a.cfg.TipsCollection, a.cfg.TipsIndexDir, emb)
	}
}

// newGenerator picks the composer model. Providers that cannot be set up are
// replaced by the disabled generator so itineraries fall back to the template.
func newGenerator(ctx context.Context, cfg *config.Config, hf *services.HuggingFaceClient) services.TextGenerator {
	switch cfg.LLMProvider {
	case "bedrock":
		c, err := services.NewBedrockClient(ctx, cfg.AWSRegion, cfg.BedrockModelID)
		if err != nil {
			log.Printf("⚠️  Bedrock unavailable: %v — itineraries will use the fallback template", err)
			return services.DisabledGenerator{}
		}
		return c
	case "gemini":
		c, err := services.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			log.Printf("⚠️  Gemini unavailable: %v — itineraries will use the fallback template", err)
			return services.DisabledGenerator{}
		}
		return c
	case "huggingface":
		return hf
	}
	log.Println("⚠️  LLM_PROVIDER=none — itineraries will use the fallback template")
	return services.DisabledGenerator{}
}

func (a *app) Close() {
	if a.db != nil {
		a.db.Close()
	}
}
