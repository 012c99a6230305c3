// Package http provides HTTP handlers for inference operations.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/secureai/gateway/internal/errors"
	"github.com/secureai/gateway/internal/httputil"
	llmDomain "github.com/secureai/gateway/internal/llm/domain"
	"github.com/secureai/gateway/internal/llm/http/dto"
	llmUseCase "github.com/secureai/gateway/internal/llm/usecase"
	customValidation "github.com/secureai/gateway/internal/validation"
)

// CapabilityTokenHeader carries the scoped capability credential.
// Deliberately separate from Authorization: the identity credential never
// reaches the inference endpoint, only the narrow capability token does.
const CapabilityTokenHeader = "X-LLM-Token" //nolint:gosec // header name, not a credential

// LLMHandler handles HTTP requests for inference.
type LLMHandler struct {
	llmUseCase llmUseCase.LLMUseCase
	logger     *slog.Logger
}

// NewLLMHandler creates a new inference handler with required dependencies.
func NewLLMHandler(useCase llmUseCase.LLMUseCase, logger *slog.Logger) *LLMHandler {
	return &LLMHandler{
		llmUseCase: useCase,
		logger:     logger,
	}
}

// GenerateHandler runs one inference request through the security pipeline.
// POST /api/v1/llm/generate - requires a capability token in X-LLM-Token.
func (h *LLMHandler) GenerateHandler(c *gin.Context) {
	capabilityToken := c.GetHeader(CapabilityTokenHeader)
	if capabilityToken == "" {
		httputil.HandleErrorGin(c, apperrors.Wrap(apperrors.ErrUnauthorized, "missing llm token"), h.logger)
		return
	}

	var req dto.GenerateRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	output, err := h.llmUseCase.Generate(c.Request.Context(), capabilityToken, &llmDomain.GenerateInput{
		Prompt:      req.Prompt,
		Model:       req.Model,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.GenerateResponse{
		Content:    output.Content,
		Model:      output.Model,
		TokensUsed: output.TokensUsed,
		LatencyMS:  output.LatencyMS,
	})
}
