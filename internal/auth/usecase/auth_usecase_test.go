package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	authDomain "github.com/secureai/gateway/internal/auth/domain"
	apperrors "github.com/secureai/gateway/internal/errors"
)

// mockSecretService is a mock implementation of SecretService for testing.
type mockSecretService struct {
	mock.Mock
}

func (m *mockSecretService) HashSecret(plainSecret string) (string, error) {
	args := m.Called(plainSecret)
	return args.String(0), args.Error(1)
}

func (m *mockSecretService) CompareSecret(plainSecret string, hashedSecret string) bool {
	args := m.Called(plainSecret, hashedSecret)
	return args.Bool(0)
}

func (m *mockSecretService) DummyCompare() {
	m.Called()
}

// mockCredentialService is a mock implementation of CredentialService for testing.
type mockCredentialService struct {
	mock.Mock
}

func (m *mockCredentialService) MintIdentity(subject string) (string, error) {
	args := m.Called(subject)
	return args.String(0), args.Error(1)
}

func (m *mockCredentialService) MintCapability(subject string, scopes []string, model string, maxTokens int) (string, error) {
	args := m.Called(subject, scopes, model, maxTokens)
	return args.String(0), args.Error(1)
}

func (m *mockCredentialService) Decode(token string) (*authDomain.Credential, bool) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Bool(1)
	}
	return args.Get(0).(*authDomain.Credential), args.Bool(1)
}

// mockUserRepository is a mock implementation of UserRepository for testing.
type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) Create(ctx context.Context, user *authDomain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserRepository) Get(ctx context.Context, userID uuid.UUID) (*authDomain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.User), args.Error(1)
}

func (m *mockUserRepository) GetByUsername(ctx context.Context, username string) (*authDomain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.User), args.Error(1)
}

func newTestAuthUseCase(repo *mockUserRepository, secrets *mockSecretService, credentials *mockCredentialService) AuthUseCase {
	return NewAuthUseCase(repo, secrets, credentials, 15*time.Minute, 60*time.Second)
}

func TestAuthUseCase_Login(t *testing.T) {
	ctx := context.Background()
	activeUser := &authDomain.User{
		ID:           uuid.Must(uuid.NewV7()),
		Username:     "alice",
		PasswordHash: "$argon2id$hash",
		IsActive:     true,
	}

	t.Run("Success_ValidCredentials", func(t *testing.T) {
		mockRepo := &mockUserRepository{}
		mockSecrets := &mockSecretService{}
		mockCredentials := &mockCredentialService{}

		mockRepo.On("GetByUsername", ctx, "alice").Return(activeUser, nil)
		mockSecrets.On("CompareSecret", "password123", activeUser.PasswordHash).Return(true)
		mockCredentials.On("MintIdentity", "alice").Return("identity-token", nil)

		uc := newTestAuthUseCase(mockRepo, mockSecrets, mockCredentials)
		output, err := uc.Login(ctx, &authDomain.LoginInput{Username: "alice", Password: "password123"})

		require.NoError(t, err)
		assert.Equal(t, "identity-token", output.AccessToken)
		assert.Equal(t, "bearer", output.TokenType)
		assert.Equal(t, 900, output.ExpiresIn)
		mockRepo.AssertExpectations(t)
		mockSecrets.AssertExpectations(t)
		mockCredentials.AssertExpectations(t)
	})

	t.Run("Error_UnknownUserRunsDummyCompare", func(t *testing.T) {
		mockRepo := &mockUserRepository{}
		mockSecrets := &mockSecretService{}
		mockCredentials := &mockCredentialService{}

		mockRepo.On("GetByUsername", ctx, "nobody").Return(nil, authDomain.ErrUserNotFound)
		mockSecrets.On("DummyCompare").Return()

		uc := newTestAuthUseCase(mockRepo, mockSecrets, mockCredentials)
		output, err := uc.Login(ctx, &authDomain.LoginInput{Username: "nobody", Password: "whatever"})

		assert.Nil(t, output)
		assert.ErrorIs(t, err, authDomain.ErrInvalidCredentials)
		mockSecrets.AssertExpectations(t)
	})

	t.Run("Error_WrongPassword", func(t *testing.T) {
		mockRepo := &mockUserRepository{}
		mockSecrets := &mockSecretService{}
		mockCredentials := &mockCredentialService{}

		mockRepo.On("GetByUsername", ctx, "alice").Return(activeUser, nil)
		mockSecrets.On("CompareSecret", "wrong", activeUser.PasswordHash).Return(false)

		uc := newTestAuthUseCase(mockRepo, mockSecrets, mockCredentials)
		output, err := uc.Login(ctx, &authDomain.LoginInput{Username: "alice", Password: "wrong"})

		assert.Nil(t, output)
		assert.ErrorIs(t, err, authDomain.ErrInvalidCredentials)
		assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	})

	t.Run("Error_InactiveUser", func(t *testing.T) {
		inactiveUser := &authDomain.User{
			ID:           uuid.Must(uuid.NewV7()),
			Username:     "bob",
			PasswordHash: "$argon2id$hash",
			IsActive:     false,
		}
		mockRepo := &mockUserRepository{}
		mockSecrets := &mockSecretService{}
		mockCredentials := &mockCredentialService{}

		mockRepo.On("GetByUsername", ctx, "bob").Return(inactiveUser, nil)
		mockSecrets.On("CompareSecret", "password123", inactiveUser.PasswordHash).Return(true)

		uc := newTestAuthUseCase(mockRepo, mockSecrets, mockCredentials)
		output, err := uc.Login(ctx, &authDomain.LoginInput{Username: "bob", Password: "password123"})

		assert.Nil(t, output)
		assert.ErrorIs(t, err, authDomain.ErrUserInactive)
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
	})
}

func TestAuthUseCase_Exchange(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_MintsCapability", func(t *testing.T) {
		mockRepo := &mockUserRepository{}
		mockSecrets := &mockSecretService{}
		mockCredentials := &mockCredentialService{}

		identity := &authDomain.Credential{
			Subject:   "alice",
			Kind:      authDomain.KindIdentity,
			ExpiresAt: time.Now().Add(10 * time.Minute),
		}
		mockCredentials.On("Decode", "identity-token").Return(identity, true)
		mockCredentials.
			On("MintCapability", "alice", []string{authDomain.ScopeGenerate}, "gpt-4", 100).
			Return("capability-token", nil)

		uc := newTestAuthUseCase(mockRepo, mockSecrets, mockCredentials)
		output, err := uc.Exchange(ctx, &authDomain.ExchangeInput{
			IdentityToken: "identity-token",
			Model:         "gpt-4",
			MaxTokens:     100,
		})

		require.NoError(t, err)
		assert.Equal(t, "capability-token", output.Token)
		assert.Equal(t, 60, output.ExpiresIn)
		mockCredentials.AssertExpectations(t)
	})

	t.Run("Error_InvalidIdentityToken", func(t *testing.T) {
		mockCredentials := &mockCredentialService{}
		mockCredentials.On("Decode", "garbage").Return(nil, false)

		uc := newTestAuthUseCase(&mockUserRepository{}, &mockSecretService{}, mockCredentials)
		output, err := uc.Exchange(ctx, &authDomain.ExchangeInput{IdentityToken: "garbage", Model: "gpt-4", MaxTokens: 100})

		assert.Nil(t, output)
		assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	})

	t.Run("Error_CapabilityTokenCannotExchange", func(t *testing.T) {
		mockCredentials := &mockCredentialService{}
		capability := &authDomain.Credential{
			Subject:   "alice",
			Kind:      authDomain.KindCapability,
			Scopes:    []string{authDomain.ScopeGenerate},
			Model:     "gpt-4",
			MaxTokens: 100,
			ExpiresAt: time.Now().Add(time.Minute),
		}
		mockCredentials.On("Decode", "capability-token").Return(capability, true)

		uc := newTestAuthUseCase(&mockUserRepository{}, &mockSecretService{}, mockCredentials)
		output, err := uc.Exchange(ctx, &authDomain.ExchangeInput{IdentityToken: "capability-token", Model: "gpt-4", MaxTokens: 100})

		assert.Nil(t, output)
		assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	})
}

func TestAuthUseCase_CreateUser(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_CreateNewUser", func(t *testing.T) {
		mockRepo := &mockUserRepository{}
		mockSecrets := &mockSecretService{}
		mockCredentials := &mockCredentialService{}

		mockSecrets.On("HashSecret", "password123").Return("$argon2id$hash", nil)
		mockRepo.On("Create", ctx, mock.MatchedBy(func(user *authDomain.User) bool {
			return user.Username == "alice" &&
				user.PasswordHash == "$argon2id$hash" &&
				user.Plan == "free" &&
				user.IsActive &&
				user.ID != uuid.Nil
		})).Return(nil)

		uc := newTestAuthUseCase(mockRepo, mockSecrets, mockCredentials)
		user, err := uc.CreateUser(ctx, &authDomain.CreateUserInput{
			Username: "alice",
			Password: "password123",
			Plan:     "free",
			IsActive: true,
		})

		require.NoError(t, err)
		assert.Equal(t, "alice", user.Username)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Error_DuplicateUsername", func(t *testing.T) {
		mockRepo := &mockUserRepository{}
		mockSecrets := &mockSecretService{}

		mockSecrets.On("HashSecret", "password123").Return("$argon2id$hash", nil)
		mockRepo.On("Create", ctx, mock.Anything).Return(authDomain.ErrUserExists)

		uc := newTestAuthUseCase(mockRepo, mockSecrets, &mockCredentialService{})
		user, err := uc.CreateUser(ctx, &authDomain.CreateUserInput{Username: "alice", Password: "password123"})

		assert.Nil(t, user)
		assert.ErrorIs(t, err, apperrors.ErrConflict)
	})
}
