package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/agroflow/agroflow-backend/internal/compliance/domain"
)

// HTTPAIClient calls an external document classification service.
// The call is bounded by the client timeout; callers treat any failure as
// "collaborator unavailable" and degrade to the keyword classifier.
type HTTPAIClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTPAIClient creates a classifier client for the given service URL.
func NewHTTPAIClient(baseURL string, timeout time.Duration) *HTTPAIClient {
	return &HTTPAIClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c *HTTPAIClient) Name() string { return "ai-classifier" }

// Classify sends the raw text to the classification service and returns a
// single (type, confidence) pair.
func (c *HTTPAIClient) Classify(ctx context.Context, rawText string) (domain.DocumentType, float64, error) {
	reqBody, err := json.Marshal(classifyRequest{RawText: rawText})
	if err != nil {
		return "", 0, fmt.Errorf("ai: marshal request: %w", err)
	}

	url := c.baseURL + "/api/v1/classify"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqBody))
	if err != nil {
		return "", 0, fmt.Errorf("ai: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", 0, fmt.Errorf("ai: classification request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", 0, fmt.Errorf("ai: read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", 0, fmt.Errorf("ai: classification service returned %d: %s", resp.StatusCode, string(respBody))
	}

	var parsed classifyResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", 0, fmt.Errorf("ai: parse response: %w", err)
	}

	return domain.DocumentType(parsed.DocumentType), parsed.Confidence, nil
}

type classifyRequest struct {
	RawText string `json:"raw_text"`
}

type classifyResponse struct {
	DocumentType string  `json:"document_type"`
	Confidence   float64 `json:"confidence"`
}
