package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	apperrors "github.com/secureai/gateway/internal/errors"
	llmDomain "github.com/secureai/gateway/internal/llm/domain"
)

// ollamaModelTags maps gateway model names to local Ollama tags.
var ollamaModelTags = map[string]string{
	"llama2":  "llama2:latest",
	"mistral": "mistral:latest",
	"phi":     "phi:latest",
}

// OllamaAdapter calls a local Ollama server's chat API.
type OllamaAdapter struct {
	baseURL    string
	httpClient *http.Client
}

type ollamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
	Options  ollamaOptions   `json:"options"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature"`
	NumPredict  int     `json:"num_predict"`
}

type ollamaResponse struct {
	Message ollamaMessage `json:"message"`
}

// Generate executes one chat call against the local Ollama server.
// Ollama does not report token usage for chat, so usage is approximated by
// word count over prompt and completion.
func (o *OllamaAdapter) Generate(ctx context.Context, input *llmDomain.GenerateInput) (*llmDomain.GenerateOutput, error) {
	model := input.Model
	if tag, ok := ollamaModelTags[model]; ok {
		model = tag
	}

	payload := ollamaRequest{
		Model:    model,
		Messages: []ollamaMessage{{Role: "user", Content: input.Prompt}},
		Stream:   false,
		Options: ollamaOptions{
			Temperature: input.Temperature,
			NumPredict:  input.MaxTokens,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal ollama request")
	}

	url := o.baseURL + "/api/chat"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to build ollama request")
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := o.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.Wrap(err, "ollama request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.Wrap(
			apperrors.ErrBackendFailure,
			fmt.Sprintf("ollama returned status %d", resp.StatusCode),
		)
	}

	var decoded ollamaResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, apperrors.Wrap(err, "failed to decode ollama response")
	}

	content := decoded.Message.Content
	return &llmDomain.GenerateOutput{
		Content:    content,
		Model:      input.Model,
		TokensUsed: len(strings.Fields(content)) + len(strings.Fields(input.Prompt)),
		LatencyMS:  float64(time.Since(start).Milliseconds()),
	}, nil
}

// NewOllamaAdapter creates an adapter for a local Ollama server.
func NewOllamaAdapter(baseURL string, timeout time.Duration) *OllamaAdapter {
	return &OllamaAdapter{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}
