// Package usecase implements business logic orchestration for credential issuance.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/secureai/gateway/internal/auth/domain"
	authService "github.com/secureai/gateway/internal/auth/service"
	apperrors "github.com/secureai/gateway/internal/errors"
)

// authUseCase implements AuthUseCase.
type authUseCase struct {
	userRepo             UserRepository
	secretService        authService.SecretService
	credentialService    authService.CredentialService
	identityExpiration   time.Duration
	capabilityExpiration time.Duration
}

// Login authenticates a user and mints an identity credential.
//
// Unknown usernames and wrong passwords are indistinguishable to the caller:
// both return ErrInvalidCredentials, and the unknown-user path still runs a
// dummy hash comparison so response timing does not leak user existence.
func (a *authUseCase) Login(ctx context.Context, input *authDomain.LoginInput) (*authDomain.LoginOutput, error) {
	user, err := a.userRepo.GetByUsername(ctx, input.Username)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			a.secretService.DummyCompare()
			return nil, authDomain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !a.secretService.CompareSecret(input.Password, user.PasswordHash) {
		return nil, authDomain.ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, authDomain.ErrUserInactive
	}

	token, err := a.credentialService.MintIdentity(user.Username)
	if err != nil {
		return nil, err
	}

	return &authDomain.LoginOutput{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int(a.identityExpiration.Seconds()),
	}, nil
}

// Exchange trades a valid identity credential for a capability credential.
// The requested scopes, model, and token ceiling are pinned into the new
// credential; nothing downstream can widen them.
func (a *authUseCase) Exchange(ctx context.Context, input *authDomain.ExchangeInput) (*authDomain.ExchangeOutput, error) {
	credential, ok := a.credentialService.Decode(input.IdentityToken)
	if !ok {
		return nil, apperrors.Wrap(apperrors.ErrUnauthorized, "invalid identity credential")
	}
	if credential.Kind != authDomain.KindIdentity {
		// Capability credentials cannot mint further credentials.
		return nil, apperrors.Wrap(apperrors.ErrUnauthorized, "identity credential required")
	}

	scopes := input.Scopes
	if len(scopes) == 0 {
		scopes = []string{authDomain.ScopeGenerate}
	}

	token, err := a.credentialService.MintCapability(credential.Subject, scopes, input.Model, input.MaxTokens)
	if err != nil {
		return nil, err
	}

	return &authDomain.ExchangeOutput{
		Token:     token,
		ExpiresIn: int(a.capabilityExpiration.Seconds()),
	}, nil
}

// CreateUser provisions a new user with an Argon2id-hashed password.
func (a *authUseCase) CreateUser(ctx context.Context, input *authDomain.CreateUserInput) (*authDomain.User, error) {
	passwordHash, err := a.secretService.HashSecret(input.Password)
	if err != nil {
		return nil, err
	}

	user := &authDomain.User{
		ID:           uuid.Must(uuid.NewV7()),
		Username:     input.Username,
		PasswordHash: passwordHash,
		Plan:         input.Plan,
		IsActive:     input.IsActive,
		CreatedAt:    time.Now().UTC(),
	}

	if err := a.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// NewAuthUseCase creates a new AuthUseCase with the provided dependencies.
func NewAuthUseCase(
	userRepo UserRepository,
	secretService authService.SecretService,
	credentialService authService.CredentialService,
	identityExpiration time.Duration,
	capabilityExpiration time.Duration,
) AuthUseCase {
	return &authUseCase{
		userRepo:             userRepo,
		secretService:        secretService,
		credentialService:    credentialService,
		identityExpiration:   identityExpiration,
		capabilityExpiration: capabilityExpiration,
	}
}
