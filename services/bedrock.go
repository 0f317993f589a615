package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"

	"tripplanner/metrics"
)

// BedrockInvoker is the slice of the Bedrock runtime client used here.
type BedrockInvoker interface {
	InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

type BedrockClient struct {
	client    BedrockInvoker
	model     string
	maxTokens int
}

// NewBedrockClient loads the default AWS credential chain for region.
func NewBedrockClient(ctx context.Context, region, model string) (*BedrockClient, error) {
	if region == "" {
		region = "ap-south-1"
	}
	if model == "" {
		model = "mistral.mistral-large-2407-v1:0"
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config for Bedrock (region: %s): %w", region, err)
	}

	log.Printf("✅ Bedrock initialized (region: %s, model: %s)", region, model)
	return NewBedrockClientWith(bedrockruntime.NewFromConfig(awsCfg), model), nil
}

func NewBedrockClientWith(client BedrockInvoker, model string) *BedrockClient {
	return &BedrockClient{client: client, model: model, maxTokens: 2048}
}

func (c *BedrockClient) Name() string { return "bedrock" }

func (c *BedrockClient) Generate(ctx context.Context, prompt string) (string, error) {
	reqBody, err := bedrockRequestBody(c.model, prompt, c.maxTokens)
	if err != nil {
		return "", err
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	out, err := c.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(c.model),
		Body:        payload,
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
	})
	metrics.ObserveExternalCall("bedrock", err)
	if err != nil {
		return "", fmt.Errorf("bedrock API error: %w", err)
	}

	text, err := bedrockResponseText(c.model, out.Body)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("empty response from bedrock model %s", c.model)
	}
	return text, nil
}

// bedrockFamily returns the provider segment of a model ID, skipping an
// inference-profile prefix such as "us." or "eu.".
func bedrockFamily(modelID string) string {
	segments := strings.Split(modelID, ".")
	if len(segments) < 2 {
		return ""
	}
	switch segments[0] {
	case "us", "eu", "apac", "global":
		return segments[1]
	}
	return segments[0]
}

func bedrockRequestBody(model, prompt string, maxTokens int) (map[string]any, error) {
	switch bedrockFamily(model) {
	case "anthropic":
		return map[string]any{
			"anthropic_version": "bedrock-2023-05-31",
			"max_tokens":        maxTokens,
			"messages": []map[string]string{
				{"role": "user", "content": prompt},
			},
		}, nil
	case "amazon":
		return map[string]any{
			"inputText": prompt,
			"textGenerationConfig": map[string]any{
				"maxTokenCount": maxTokens,
			},
		}, nil
	case "meta":
		return map[string]any{
			"prompt":      prompt,
			"max_gen_len": maxTokens,
		}, nil
	case "mistral":
		return map[string]any{
			"prompt":     "<s>[INST] " + prompt + " [/INST]",
			"max_tokens": maxTokens,
		}, nil
	}
	return nil, fmt.Errorf("unsupported bedrock model family: %q", model)
}

func bedrockResponseText(model string, body []byte) (string, error) {
	var resp struct {
		Content []struct {
			Text string `json:"text"`
		} `json:"content"`
		Results []struct {
			OutputText string `json:"outputText"`
		} `json:"results"`
		Generation string `json:"generation"`
		Outputs    []struct {
			Text string `json:"text"`
		} `json:"outputs"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("failed to parse bedrock response: %w", err)
	}

	switch bedrockFamily(model) {
	case "anthropic":
		if len(resp.Content) > 0 {
			return resp.Content[0].Text, nil
		}
	case "amazon":
		if len(resp.Results) > 0 {
			return resp.Results[0].OutputText, nil
		}
	case "meta":
		return resp.Generation, nil
	case "mistral":
		if len(resp.Outputs) > 0 {
			return resp.Outputs[0].Text, nil
		}
	}
	return "", nil
}
