package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"tripplanner/metrics"
)

const defaultHFBaseURL = "https://api-inference.huggingface.co"

// HuggingFaceClient talks to the hosted inference API. It serves both as a
// text generator for the composer and as the embedder for travel tips.
type HuggingFaceClient struct {
	apiKey     string
	model      string
	embedModel string
	baseURL    string
	httpClient *http.Client
}

func NewHuggingFaceClient(apiKey, model, embedModel, baseURL string) *HuggingFaceClient {
	if model == "" {
		model = "mistralai/Mistral-7B-Instruct-v0.3"
	}
	if embedModel == "" {
		embedModel = "sentence-transformers/all-MiniLM-L6-v2"
	}
	if baseURL == "" {
		baseURL = defaultHFBaseURL
	}

	c := &HuggingFaceClient{
		apiKey:     apiKey,
		model:      model,
		embedModel: embedModel,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}

	if apiKey == "" {
		log.Println("⚠️  HUGGINGFACE_API_KEY not set — generation and embeddings will fail")
	}
	return c
}

func (c *HuggingFaceClient) Name() string { return "huggingface" }

type hfRequest struct {
	Inputs     string       `json:"inputs"`
	Parameters hfParameters `json:"parameters"`
}

type hfParameters struct {
	MaxNewTokens   int     `json:"max_new_tokens"`
	Temperature    float64 `json:"temperature"`
	ReturnFullText bool    `json:"return_full_text"`
}

type hfResponse []struct {
	GeneratedText string `json:"generated_text"`
}

// Generate sends the prompt to the text-generation model.
func (c *HuggingFaceClient) Generate(ctx context.Context, prompt string) (string, error) {
	reqBody := hfRequest{
		Inputs: prompt,
		Parameters: hfParameters{
			MaxNewTokens:   1024,
			Temperature:    0.6,
			ReturnFullText: false,
		},
	}

	body, err := c.post(ctx, "/models/"+c.model, reqBody)
	metrics.ObserveExternalCall("huggingface_generate", err)
	if err != nil {
		return "", err
	}

	var hfResp hfResponse
	if err := json.Unmarshal(body, &hfResp); err != nil {
		return "", fmt.Errorf("failed to parse AI response: %w", err)
	}
	if len(hfResp) == 0 || hfResp[0].GeneratedText == "" {
		return "", fmt.Errorf("empty response from AI")
	}
	return hfResp[0].GeneratedText, nil
}

type hfEmbedRequest struct {
	Inputs  []string `json:"inputs"`
	Options struct {
		WaitForModel bool `json:"wait_for_model"`
	} `json:"options"`
}

// Embed returns one vector per text from the sentence-transformers pipeline.
func (c *HuggingFaceClient) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	reqBody := hfEmbedRequest{Inputs: texts}
	reqBody.Options.WaitForModel = true

	body, err := c.post(ctx, "/pipeline/feature-extraction/"+c.embedModel, reqBody)
	metrics.ObserveExternalCall("huggingface_embed", err)
	if err != nil {
		return nil, err
	}

	var vectors [][]float64
	if err := json.Unmarshal(body, &vectors); err != nil {
		return nil, fmt.Errorf("failed to parse embeddings: %w", err)
	}
	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("embedding count mismatch: sent %d, got %d", len(texts), len(vectors))
	}
	return vectors, nil
}

func (c *HuggingFaceClient) post(ctx context.Context, path string, payload any) ([]byte, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("huggingface API key not configured")
	}

	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode == http.StatusServiceUnavailable {
		return nil, fmt.Errorf("model %s is loading", strings.TrimPrefix(path, "/"))
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HuggingFace API error (%d): %s", resp.StatusCode, string(body))
	}
	return body, nil
}
