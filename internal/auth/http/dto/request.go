// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	validation "github.com/jellydator/validation"

	customValidation "github.com/secureai/gateway/internal/validation"
)

// LoginRequest contains the credentials for password authentication.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Validate checks if the login request is valid.
func (r *LoginRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Username,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, 255),
		),
		validation.Field(&r.Password,
			validation.Required,
			validation.Length(1, 1024),
		),
	)
}

// ScopedTokenRequest contains the parameters for exchanging an identity
// credential for a scoped capability credential.
type ScopedTokenRequest struct {
	Model     string   `json:"model"`
	MaxTokens int      `json:"max_tokens"`
	Scope     []string `json:"scope"`
}

// Validate checks if the scoped token request is valid.
// The ceiling limit against gateway configuration is enforced by the handler;
// this validates shape only.
func (r *ScopedTokenRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Model,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, 128),
		),
		validation.Field(&r.MaxTokens,
			validation.Required,
			validation.Min(1),
		),
		validation.Field(&r.Scope,
			validation.Each(customValidation.ScopeFormat),
		),
	)
}
