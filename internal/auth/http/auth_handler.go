// Package http provides HTTP handlers for credential issuance.
package http

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	authDomain "github.com/secureai/gateway/internal/auth/domain"
	"github.com/secureai/gateway/internal/auth/http/dto"
	authUseCase "github.com/secureai/gateway/internal/auth/usecase"
	apperrors "github.com/secureai/gateway/internal/errors"
	"github.com/secureai/gateway/internal/httputil"
	customValidation "github.com/secureai/gateway/internal/validation"
)

// AuthHandler handles HTTP requests for credential issuance.
type AuthHandler struct {
	authUseCase  authUseCase.AuthUseCase
	maxTokensCap int
	logger       *slog.Logger
}

// NewAuthHandler creates a new auth handler with required dependencies.
// maxTokensCap is the gateway-wide per-request ceiling; scoped token requests
// above it are rejected before the use case runs.
func NewAuthHandler(useCase authUseCase.AuthUseCase, maxTokensCap int, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authUseCase:  useCase,
		maxTokensCap: maxTokensCap,
		logger:       logger,
	}
}

// LoginHandler authenticates a user and issues an identity credential.
// POST /auth/login - no authentication required.
func (h *AuthHandler) LoginHandler(c *gin.Context) {
	var req dto.LoginRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	output, err := h.authUseCase.Login(c.Request.Context(), &authDomain.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.LoginResponse{
		AccessToken: output.AccessToken,
		TokenType:   output.TokenType,
		ExpiresIn:   output.ExpiresIn,
	})
}

// ScopedTokenHandler exchanges an identity credential for a capability credential.
// POST /auth/scoped-token - requires a Bearer identity token.
func (h *AuthHandler) ScopedTokenHandler(c *gin.Context) {
	identityToken, ok := bearerToken(c)
	if !ok {
		httputil.HandleErrorGin(c, apperrors.Wrap(apperrors.ErrUnauthorized, "missing bearer token"), h.logger)
		return
	}

	var req dto.ScopedTokenRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	if req.MaxTokens > h.maxTokensCap {
		httputil.HandleValidationErrorGin(c,
			apperrors.New("max_tokens exceeds the per-request ceiling"),
			h.logger)
		return
	}

	output, err := h.authUseCase.Exchange(c.Request.Context(), &authDomain.ExchangeInput{
		IdentityToken: identityToken,
		Model:         req.Model,
		MaxTokens:     req.MaxTokens,
		Scopes:        req.Scope,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.ScopedTokenResponse{
		LLMToken:  output.Token,
		ExpiresIn: output.ExpiresIn,
	})
}

// bearerToken extracts the token from an "Authorization: Bearer <token>" header.
func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, prefix))
	if token == "" {
		return "", false
	}
	return token, true
}
