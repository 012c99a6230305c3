// Package domain defines core entities for LLM inference.
package domain

// GenerateInput is a validated inference request flowing through the pipeline.
type GenerateInput struct {
	Subject     string
	Prompt      string
	Model       string
	MaxTokens   int
	Temperature float64
}

// GenerateOutput is the result of a completed inference.
type GenerateOutput struct {
	Content    string
	Model      string
	TokensUsed int
	LatencyMS  float64
}

// EstimateCost returns the estimated USD cost for tokens against a per-1k rate.
func EstimateCost(tokens int, costPer1KTokens float64) float64 {
	return float64(tokens) / 1000 * costPer1KTokens
}
