package dto

// GenerateResponse contains the result of a completed inference.
type GenerateResponse struct {
	Content    string  `json:"content"`
	Model      string  `json:"model"`
	TokensUsed int     `json:"tokens_used"`
	LatencyMS  float64 `json:"latency_ms"`
}
