// Package dto provides data transfer objects for inference HTTP handling.
package dto

import (
	validation "github.com/jellydator/validation"

	customValidation "github.com/secureai/gateway/internal/validation"
)

// GenerateRequest contains the parameters for one inference call.
type GenerateRequest struct {
	Prompt      string  `json:"prompt"`
	Model       string  `json:"model"`
	MaxTokens   int     `json:"max_tokens"`
	Temperature float64 `json:"temperature"`
}

// Validate checks if the generate request is valid.
// Budget and scope enforcement against the capability credential happens in
// the pipeline; this validates shape only.
func (r *GenerateRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Prompt,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, 10000),
		),
		validation.Field(&r.Model,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, 128),
		),
		validation.Field(&r.MaxTokens,
			validation.Required,
			validation.Min(1),
			validation.Max(2048),
		),
		validation.Field(&r.Temperature,
			customValidation.Temperature{Min: 0, Max: 2},
		),
	)
}
