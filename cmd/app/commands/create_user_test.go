package commands

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	authDomain "github.com/secureai/gateway/internal/auth/domain"
)

type mockAuthUseCase struct {
	mock.Mock
}

func (m *mockAuthUseCase) Login(ctx context.Context, input *authDomain.LoginInput) (*authDomain.LoginOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.LoginOutput), args.Error(1)
}

func (m *mockAuthUseCase) Exchange(ctx context.Context, input *authDomain.ExchangeInput) (*authDomain.ExchangeOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.ExchangeOutput), args.Error(1)
}

func (m *mockAuthUseCase) CreateUser(ctx context.Context, input *authDomain.CreateUserInput) (*authDomain.User, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.User), args.Error(1)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRunCreateUser(t *testing.T) {
	ctx := context.Background()
	logger := testLogger()

	user := &authDomain.User{
		ID:        uuid.Must(uuid.NewV7()),
		Username:  "alice",
		Plan:      "free",
		IsActive:  true,
		CreatedAt: time.Now().UTC(),
	}

	t.Run("text-output", func(t *testing.T) {
		mockUseCase := &mockAuthUseCase{}
		mockUseCase.On("CreateUser", ctx, &authDomain.CreateUserInput{
			Username: "alice",
			Password: "s3cret",
			Plan:     "free",
			IsActive: true,
		}).Return(user, nil)

		var out bytes.Buffer
		err := RunCreateUser(ctx, mockUseCase, logger, &out, "alice", "s3cret", "free", true, "text")

		require.NoError(t, err)
		require.Contains(t, out.String(), "User created successfully")
		require.Contains(t, out.String(), "Username: alice")
		mockUseCase.AssertExpectations(t)
	})

	t.Run("json-output", func(t *testing.T) {
		mockUseCase := &mockAuthUseCase{}
		mockUseCase.On("CreateUser", ctx, mock.Anything).Return(user, nil)

		var out bytes.Buffer
		err := RunCreateUser(ctx, mockUseCase, logger, &out, "alice", "s3cret", "free", true, "json")

		require.NoError(t, err)
		require.Contains(t, out.String(), `"username": "alice"`)
		require.Contains(t, out.String(), `"is_active": true`)
		mockUseCase.AssertExpectations(t)
	})

	t.Run("empty-username", func(t *testing.T) {
		mockUseCase := &mockAuthUseCase{}
		err := RunCreateUser(ctx, mockUseCase, logger, &bytes.Buffer{}, "", "s3cret", "free", true, "text")

		require.Error(t, err)
		require.Contains(t, err.Error(), "username cannot be empty")
	})

	t.Run("empty-password", func(t *testing.T) {
		mockUseCase := &mockAuthUseCase{}
		err := RunCreateUser(ctx, mockUseCase, logger, &bytes.Buffer{}, "alice", "", "free", true, "text")

		require.Error(t, err)
		require.Contains(t, err.Error(), "password cannot be empty")
	})

	t.Run("invalid-plan", func(t *testing.T) {
		mockUseCase := &mockAuthUseCase{}
		err := RunCreateUser(ctx, mockUseCase, logger, &bytes.Buffer{}, "alice", "s3cret", "enterprise", true, "text")

		require.Error(t, err)
		require.Contains(t, err.Error(), "invalid plan")
	})

	t.Run("usecase-error", func(t *testing.T) {
		mockUseCase := &mockAuthUseCase{}
		mockUseCase.On("CreateUser", ctx, mock.Anything).Return(nil, errors.New("boom"))

		err := RunCreateUser(ctx, mockUseCase, logger, &bytes.Buffer{}, "alice", "s3cret", "free", true, "text")

		require.Error(t, err)
		require.Contains(t, err.Error(), "failed to create user")
		mockUseCase.AssertExpectations(t)
	})
}
