package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tripplanner/config"
	"tripplanner/planner"
	"tripplanner/services"
)

func TestNewGeneratorSelection(t *testing.T) {
	hf := services.NewHuggingFaceClient("key", "", "", "")
	ctx := context.Background()

	assert.Equal(t, "none", newGenerator(ctx, &config.Config{LLMProvider: "none"}, hf).Name())
	assert.Equal(t, "huggingface", newGenerator(ctx, &config.Config{LLMProvider: "huggingface"}, hf).Name())
	// Gemini without a key degrades to the fallback template.
	assert.Equal(t, "none", newGenerator(ctx, &config.Config{LLMProvider: "gemini"}, hf).Name())
}

func TestNewAppWithoutTipStore(t *testing.T) {
	cfg := &config.Config{
		LLMProvider:    "none",
		TipsStore:      "chroma",
		TipsCollection: "travel_tips",
		ChromaURL:      "http://127.0.0.1:1",
		TipsScraper:    "http",
		TipsIndexDir:   filepath.Join(t.TempDir(), "tips"),
		AmadeusEnv:     "test",
	}

	a, err := newApp(context.Background(), cfg)
	require.NoError(t, err)
	defer a.Close()

	assert.Equal(t, "none", a.caps.LLMProvider)
	assert.False(t, a.caps.LiveData)
	require.NotNil(t, a.planner)

	// Planning still completes whether or not the tip store came up.
	st := a.planner.Plan(context.Background(), planner.TripRequest{Destinations: "Paris -> Rome"}, planner.Options{UseRAG: a.retriever == nil})
	assert.Contains(t, st.ItineraryText, "Day 2: Explore Rome")
}
