package http

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/secureai/gateway/internal/errors"
	llmDomain "github.com/secureai/gateway/internal/llm/domain"
	"github.com/secureai/gateway/internal/llm/http/dto"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// mockLLMUseCase is a mock implementation of LLMUseCase for testing.
type mockLLMUseCase struct {
	mock.Mock
}

func (m *mockLLMUseCase) Generate(ctx context.Context, capabilityToken string, input *llmDomain.GenerateInput) (*llmDomain.GenerateOutput, error) {
	args := m.Called(ctx, capabilityToken, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*llmDomain.GenerateOutput), args.Error(1)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func postGenerate(t *testing.T, handler *LLMHandler, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	router := gin.New()
	router.POST("/api/v1/llm/generate", handler.GenerateHandler)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/llm/generate", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set(CapabilityTokenHeader, token)
	}

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func validGenerateRequest() dto.GenerateRequest {
	return dto.GenerateRequest{
		Prompt:      "explain how DNS resolution works",
		Model:       "gpt-4",
		MaxTokens:   100,
		Temperature: 0.7,
	}
}

func TestLLMHandler_GenerateHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockUseCase := &mockLLMUseCase{}
		mockUseCase.On("Generate", mock.Anything, "capability-token", mock.MatchedBy(func(input *llmDomain.GenerateInput) bool {
			return input.Model == "gpt-4" && input.MaxTokens == 100
		})).Return(&llmDomain.GenerateOutput{
			Content:    "DNS resolution starts with...",
			Model:      "gpt-4",
			TokensUsed: 42,
			LatencyMS:  120,
		}, nil)

		handler := NewLLMHandler(mockUseCase, testLogger())
		recorder := postGenerate(t, handler, validGenerateRequest(), "capability-token")

		assert.Equal(t, http.StatusOK, recorder.Code)

		var response dto.GenerateResponse
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
		assert.Equal(t, "DNS resolution starts with...", response.Content)
		assert.Equal(t, 42, response.TokensUsed)
	})

	t.Run("Error_MissingToken", func(t *testing.T) {
		handler := NewLLMHandler(&mockLLMUseCase{}, testLogger())
		recorder := postGenerate(t, handler, validGenerateRequest(), "")

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("Error_DeniedByGate", func(t *testing.T) {
		tests := []struct {
			name       string
			err        error
			wantStatus int
		}{
			{"invalid token", apperrors.Wrap(apperrors.ErrUnauthorized, "invalid"), http.StatusUnauthorized},
			{"insufficient scope", apperrors.Wrap(apperrors.ErrForbidden, "scope"), http.StatusForbidden},
			{"quota exceeded", apperrors.Wrap(apperrors.ErrQuotaExceeded, "budget"), http.StatusTooManyRequests},
			{"unsupported model", apperrors.Wrap(apperrors.ErrUnsupportedModel, "gpt-99"), http.StatusBadRequest},
			{"backend timeout", apperrors.Wrap(apperrors.ErrBackendTimeout, "slow"), http.StatusGatewayTimeout},
			{"backend failure", apperrors.Wrap(apperrors.ErrBackendFailure, "boom"), http.StatusBadGateway},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				mockUseCase := &mockLLMUseCase{}
				mockUseCase.On("Generate", mock.Anything, mock.Anything, mock.Anything).Return(nil, tt.err)

				handler := NewLLMHandler(mockUseCase, testLogger())
				recorder := postGenerate(t, handler, validGenerateRequest(), "capability-token")

				assert.Equal(t, tt.wantStatus, recorder.Code)
			})
		}
	})

	t.Run("Error_ContentBlockedCarriesViolations", func(t *testing.T) {
		mockUseCase := &mockLLMUseCase{}
		mockUseCase.On("Generate", mock.Anything, mock.Anything, mock.Anything).
			Return(nil, &apperrors.ContentBlockedError{Violations: []string{"PII detected: email"}})

		handler := NewLLMHandler(mockUseCase, testLogger())
		recorder := postGenerate(t, handler, validGenerateRequest(), "capability-token")

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		assert.Contains(t, recorder.Body.String(), "PII detected: email")
	})

	t.Run("Error_ValidationFailures", func(t *testing.T) {
		tests := []struct {
			name   string
			mutate func(*dto.GenerateRequest)
		}{
			{"blank prompt", func(r *dto.GenerateRequest) { r.Prompt = "   " }},
			{"zero max tokens", func(r *dto.GenerateRequest) { r.MaxTokens = 0 }},
			{"max tokens above hard cap", func(r *dto.GenerateRequest) { r.MaxTokens = 4096 }},
			{"temperature out of range", func(r *dto.GenerateRequest) { r.Temperature = 3.5 }},
			{"missing model", func(r *dto.GenerateRequest) { r.Model = "" }},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				request := validGenerateRequest()
				tt.mutate(&request)

				handler := NewLLMHandler(&mockLLMUseCase{}, testLogger())
				recorder := postGenerate(t, handler, request, "capability-token")

				assert.Equal(t, http.StatusUnprocessableEntity, recorder.Code)
			})
		}
	})
}
