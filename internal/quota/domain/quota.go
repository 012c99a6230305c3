// Package domain defines core entities for usage quota accounting.
//
// Quotas are tracked as fixed-window counters keyed by subject and dimension.
// The request dimension bounds how many inference calls a subject may make per
// window; the token dimension bounds how many completion tokens a subject may
// burn per window. Counters reset implicitly when a new window starts.
package domain

import "time"

// Dimensions for quota counters.
const (
	// DimensionRequests counts inference requests per rate window.
	DimensionRequests = "requests"

	// DimensionTokens counts requested completion tokens per budget window.
	DimensionTokens = "tokens"
)

// Counter is a point-in-time snapshot of one quota counter.
type Counter struct {
	Subject     string
	Dimension   string
	WindowStart time.Time
	Used        int64
}

// WindowStart truncates now to the start of the fixed window containing it.
func WindowStart(now time.Time, window time.Duration) time.Time {
	return now.UTC().Truncate(window)
}
