package firewall

import "regexp"

// injectionPatterns match known prompt injection and smuggled-payload shapes.
// Patterns are case-insensitive; `.*` spans within a line only, which is
// tight enough for the single-prompt inputs the gateway sees.
var injectionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)ignore.*previous.*instructions`),
	regexp.MustCompile(`(?i)you.*are.*now.*a.*different.*ai`),
	regexp.MustCompile(`(?i)system.*prompt.*override`),
	regexp.MustCompile(`(?i)disregard.*all.*rules`),
	regexp.MustCompile(`(?i)admin.*access.*granted`),
	regexp.MustCompile(`(?i)###.*system.*:`),
	regexp.MustCompile(`(?i)<script.*?>.*?</script>`),
	regexp.MustCompile(`(?i)drop.*table`),
	regexp.MustCompile(`(?i)union.*select`),
}

// piiPatterns detect personally identifiable information that must never be
// forwarded to a model backend.
var piiPatterns = map[string]*regexp.Regexp{
	"credit_card": regexp.MustCompile(`\b\d{4}[- ]?\d{4}[- ]?\d{4}[- ]?\d{4}\b`),
	"ssn":         regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`),
	"email":       regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`),
	"phone":       regexp.MustCompile(`\b\d{3}[-.]?\d{3}[-.]?\d{4}\b`),
}

// toxicKeywords is a plain substring blocklist. Deliberately crude: the
// gateway blocks early and cheaply, leaving nuanced moderation to the model
// provider's own safety layer.
var toxicKeywords = []string{"violence", "hate", "harassment", "illegal", "harm"}

// maxTokenDensity is the words-per-character ratio above which a prompt is
// treated as token abuse (floods of 1-character "words").
const maxTokenDensity = 0.5
