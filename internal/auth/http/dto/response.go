package dto

// LoginResponse contains the issued identity credential.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// ScopedTokenResponse contains the issued capability credential.
type ScopedTokenResponse struct {
	LLMToken  string `json:"llm_token"`
	ExpiresIn int    `json:"expires_in"`
}
