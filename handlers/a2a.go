package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"tripplanner/metrics"
)

const planTripAction = "plan_trip"

type A2ARequest struct {
	Action  string         `json:"action" binding:"required"`
	Payload map[string]any `json:"payload" binding:"required"`
}

type A2AResponse struct {
	Status  string          `json:"status"`
	Data    json.RawMessage `json:"data,omitempty"`
	Message string          `json:"message,omitempty"`
}

// ToolForwarder posts a plan_trip payload to the tool server.
type ToolForwarder struct {
	url        string
	httpClient *http.Client
}

func NewToolForwarder(url string) *ToolForwarder {
	return &ToolForwarder{
		url:        url,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

func (f *ToolForwarder) Forward(ctx context.Context, payload map[string]any) (json.RawMessage, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.httpClient.Do(req)
	metrics.ObserveExternalCall("plan_trip_tool", err)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("tool server error (%d): %s", resp.StatusCode, string(respBody))
	}
	if !json.Valid(respBody) {
		return nil, fmt.Errorf("tool server returned invalid JSON")
	}
	return respBody, nil
}

// A2AHandler serves POST /a2a. Only the plan_trip action is understood.
func A2AHandler(f *ToolForwarder) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req A2ARequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
			return
		}

		if req.Action != planTripAction {
			c.JSON(http.StatusOK, A2AResponse{Status: "error", Message: "Unknown action"})
			return
		}

		id := uuid.New().String()
		data, err := f.Forward(c.Request.Context(), req.Payload)
		if err != nil {
			log.Printf("❌ [a2a %s] plan_trip forward failed: %v", id, err)
			c.JSON(http.StatusBadGateway, A2AResponse{Status: "error", Message: err.Error()})
			return
		}

		log.Printf("✅ [a2a %s] plan_trip forwarded (%d bytes)", id, len(data))
		c.JSON(http.StatusOK, A2AResponse{Status: "ok", Data: data})
	}
}
