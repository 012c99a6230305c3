package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	apperrors "github.com/secureai/gateway/internal/errors"
	llmDomain "github.com/secureai/gateway/internal/llm/domain"
)

// OpenAIAdapter calls the OpenAI chat completions API.
type OpenAIAdapter struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIRequest struct {
	Model       string          `json:"model"`
	Messages    []openAIMessage `json:"messages"`
	MaxTokens   int             `json:"max_tokens"`
	Temperature float64         `json:"temperature"`
	User        string          `json:"user,omitempty"`
}

type openAIResponse struct {
	Choices []struct {
		Message openAIMessage `json:"message"`
	} `json:"choices"`
	Usage struct {
		TotalTokens int `json:"total_tokens"`
	} `json:"usage"`
}

// Generate executes one chat completion call against the OpenAI API.
// The subject is forwarded as the OpenAI user field for provider-side abuse
// tracking.
func (o *OpenAIAdapter) Generate(ctx context.Context, input *llmDomain.GenerateInput) (*llmDomain.GenerateOutput, error) {
	payload := openAIRequest{
		Model:       input.Model,
		Messages:    []openAIMessage{{Role: "user", Content: input.Prompt}},
		MaxTokens:   input.MaxTokens,
		Temperature: input.Temperature,
		User:        input.Subject,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal openai request")
	}

	url := o.baseURL + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to build openai request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+o.apiKey)

	start := time.Now()
	resp, err := o.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.Wrap(err, "openai request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.Wrap(
			apperrors.ErrBackendFailure,
			fmt.Sprintf("openai returned status %d", resp.StatusCode),
		)
	}

	var decoded openAIResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, apperrors.Wrap(err, "failed to decode openai response")
	}
	if len(decoded.Choices) == 0 {
		return nil, apperrors.Wrap(apperrors.ErrBackendFailure, "openai returned no choices")
	}

	return &llmDomain.GenerateOutput{
		Content:    decoded.Choices[0].Message.Content,
		Model:      input.Model,
		TokensUsed: decoded.Usage.TotalTokens,
		LatencyMS:  float64(time.Since(start).Milliseconds()),
	}, nil
}

// NewOpenAIAdapter creates an adapter for the OpenAI chat completions API.
func NewOpenAIAdapter(baseURL, apiKey string, timeout time.Duration) *OpenAIAdapter {
	return &OpenAIAdapter{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}
