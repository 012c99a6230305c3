package metrics

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// BusinessMetrics defines the interface for recording gateway operation metrics.
type BusinessMetrics interface {
	// RecordOperation records a business operation with its status.
	// Domain examples: "auth", "llm". Operation examples: "login",
	// "token_exchange", "generate". Status examples: "success", "error".
	RecordOperation(ctx context.Context, domain, operation, status string)

	// RecordDuration records the duration of a business operation with its status.
	RecordDuration(ctx context.Context, domain, operation string, duration time.Duration, status string)

	// RecordInference records per-model token usage and estimated cost for a
	// completed generation.
	RecordInference(ctx context.Context, model string, tokensUsed int, costUSD float64)
}

// businessMetrics implements BusinessMetrics using OpenTelemetry metrics.
type businessMetrics struct {
	operationCounter metric.Int64Counter
	durationHisto    metric.Float64Histogram
	tokenCounter     metric.Int64Counter
	costCounter      metric.Float64Counter
}

// NewBusinessMetrics creates a BusinessMetrics implementation on the provided
// meter provider. The namespace is used as a prefix for all metric names.
func NewBusinessMetrics(meterProvider metric.MeterProvider, namespace string) (BusinessMetrics, error) {
	meter := meterProvider.Meter(namespace)

	operationCounter, err := meter.Int64Counter(
		fmt.Sprintf("%s_operations_total", namespace),
		metric.WithDescription("Total number of gateway operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create operation counter: %w", err)
	}

	durationHisto, err := meter.Float64Histogram(
		fmt.Sprintf("%s_operation_duration_seconds", namespace),
		metric.WithDescription("Duration of gateway operations in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create duration histogram: %w", err)
	}

	tokenCounter, err := meter.Int64Counter(
		fmt.Sprintf("%s_inference_tokens_total", namespace),
		metric.WithDescription("Total tokens consumed by completed inferences"),
		metric.WithUnit("{token}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create token counter: %w", err)
	}

	costCounter, err := meter.Float64Counter(
		fmt.Sprintf("%s_inference_cost_usd_total", namespace),
		metric.WithDescription("Estimated USD cost of completed inferences"),
		metric.WithUnit("{usd}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create cost counter: %w", err)
	}

	return &businessMetrics{
		operationCounter: operationCounter,
		durationHisto:    durationHisto,
		tokenCounter:     tokenCounter,
		costCounter:      costCounter,
	}, nil
}

// RecordOperation increments the operation counter with domain, operation, and status labels.
func (b *businessMetrics) RecordOperation(ctx context.Context, domain, operation, status string) {
	b.operationCounter.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("domain", domain),
			attribute.String("operation", operation),
			attribute.String("status", status),
		),
	)
}

// RecordDuration records the operation duration in seconds with domain, operation, and status labels.
func (b *businessMetrics) RecordDuration(
	ctx context.Context,
	domain, operation string,
	duration time.Duration,
	status string,
) {
	b.durationHisto.Record(ctx, duration.Seconds(),
		metric.WithAttributes(
			attribute.String("domain", domain),
			attribute.String("operation", operation),
			attribute.String("status", status),
		),
	)
}

// RecordInference adds token usage and estimated cost for one completed generation.
func (b *businessMetrics) RecordInference(ctx context.Context, model string, tokensUsed int, costUSD float64) {
	attrs := metric.WithAttributes(attribute.String("model", model))
	b.tokenCounter.Add(ctx, int64(tokensUsed), attrs)
	b.costCounter.Add(ctx, costUSD, attrs)
}

// NoOpBusinessMetrics is a no-op implementation for when metrics are disabled.
type NoOpBusinessMetrics struct{}

// NewNoOpBusinessMetrics creates a no-op BusinessMetrics implementation.
func NewNoOpBusinessMetrics() BusinessMetrics {
	return &NoOpBusinessMetrics{}
}

// RecordOperation does nothing when metrics are disabled.
func (NoOpBusinessMetrics) RecordOperation(context.Context, string, string, string) {}

// RecordDuration does nothing when metrics are disabled.
func (NoOpBusinessMetrics) RecordDuration(context.Context, string, string, time.Duration, string) {}

// RecordInference does nothing when metrics are disabled.
func (NoOpBusinessMetrics) RecordInference(context.Context, string, int, float64) {}
