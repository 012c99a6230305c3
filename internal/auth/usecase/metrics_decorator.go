package usecase

import (
	"context"
	"time"

	authDomain "github.com/secureai/gateway/internal/auth/domain"
	"github.com/secureai/gateway/internal/metrics"
)

// authUseCaseWithMetrics decorates AuthUseCase with metrics instrumentation.
type authUseCaseWithMetrics struct {
	next    AuthUseCase
	metrics metrics.BusinessMetrics
}

// NewAuthUseCaseWithMetrics wraps an AuthUseCase with metrics recording.
func NewAuthUseCaseWithMetrics(useCase AuthUseCase, m metrics.BusinessMetrics) AuthUseCase {
	return &authUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (a *authUseCaseWithMetrics) Login(ctx context.Context, input *authDomain.LoginInput) (*authDomain.LoginOutput, error) {
	start := time.Now()
	output, err := a.next.Login(ctx, input)
	a.record(ctx, "login", time.Since(start), err)
	return output, err
}

func (a *authUseCaseWithMetrics) Exchange(ctx context.Context, input *authDomain.ExchangeInput) (*authDomain.ExchangeOutput, error) {
	start := time.Now()
	output, err := a.next.Exchange(ctx, input)
	a.record(ctx, "exchange", time.Since(start), err)
	return output, err
}

func (a *authUseCaseWithMetrics) CreateUser(ctx context.Context, input *authDomain.CreateUserInput) (*authDomain.User, error) {
	start := time.Now()
	user, err := a.next.CreateUser(ctx, input)
	a.record(ctx, "create_user", time.Since(start), err)
	return user, err
}

func (a *authUseCaseWithMetrics) record(ctx context.Context, operation string, elapsed time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	a.metrics.RecordOperation(ctx, "auth", operation, status)
	a.metrics.RecordDuration(ctx, "auth", operation, elapsed, status)
}
