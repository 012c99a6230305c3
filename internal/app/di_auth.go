package app

import (
	"fmt"

	authHTTP "github.com/secureai/gateway/internal/auth/http"
	authRepository "github.com/secureai/gateway/internal/auth/repository"
	authService "github.com/secureai/gateway/internal/auth/service"
	authUsecase "github.com/secureai/gateway/internal/auth/usecase"
)

// SecretService returns the password hashing service.
func (c *Container) SecretService() authService.SecretService {
	c.secretServiceInit.Do(func() {
		c.secretService = authService.NewSecretService()
	})
	return c.secretService
}

// CredentialService returns the credential minting and verification service.
func (c *Container) CredentialService() (authService.CredentialService, error) {
	var err error
	c.credentialServiceInit.Do(func() {
		c.credentialService, err = c.initCredentialService()
		if err != nil {
			c.initErrors["credentialService"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["credentialService"]; exists {
		return nil, storedErr
	}
	return c.credentialService, nil
}

// UserRepository returns the user repository instance.
func (c *Container) UserRepository() (authUsecase.UserRepository, error) {
	var err error
	c.userRepoInit.Do(func() {
		c.userRepo, err = c.initUserRepository()
		if err != nil {
			c.initErrors["userRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["userRepo"]; exists {
		return nil, storedErr
	}
	return c.userRepo, nil
}

// AuthUseCase returns the authentication use case instance.
func (c *Container) AuthUseCase() (authUsecase.AuthUseCase, error) {
	var err error
	c.authUseCaseInit.Do(func() {
		c.authUseCase, err = c.initAuthUseCase()
		if err != nil {
			c.initErrors["authUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["authUseCase"]; exists {
		return nil, storedErr
	}
	return c.authUseCase, nil
}

// AuthHandler returns the authentication HTTP handler.
func (c *Container) AuthHandler() (*authHTTP.AuthHandler, error) {
	var err error
	c.authHandlerInit.Do(func() {
		c.authHandler, err = c.initAuthHandler()
		if err != nil {
			c.initErrors["authHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["authHandler"]; exists {
		return nil, storedErr
	}
	return c.authHandler, nil
}

// initCredentialService creates the credential service with the resolved signing key.
func (c *Container) initCredentialService() (authService.CredentialService, error) {
	signingSecret, err := c.SigningSecret()
	if err != nil {
		return nil, fmt.Errorf("failed to get signing secret for credential service: %w", err)
	}

	return authService.NewCredentialService(
		signingSecret,
		c.config.IdentityTokenExpiration,
		c.config.CapabilityTokenExpiration,
	), nil
}

// initUserRepository creates the user repository instance.
func (c *Container) initUserRepository() (authUsecase.UserRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for user repository: %w", err)
	}

	// Select the appropriate repository based on the database driver
	switch c.config.DBDriver {
	case "mysql":
		return authRepository.NewMySQLUserRepository(db), nil
	case "postgres":
		return authRepository.NewPostgreSQLUserRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initAuthUseCase creates the authentication use case with all its dependencies.
// The use case is wrapped with the business metrics decorator.
func (c *Container) initAuthUseCase() (authUsecase.AuthUseCase, error) {
	userRepo, err := c.UserRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get user repository for auth use case: %w", err)
	}

	credentialService, err := c.CredentialService()
	if err != nil {
		return nil, fmt.Errorf("failed to get credential service for auth use case: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for auth use case: %w", err)
	}

	useCase := authUsecase.NewAuthUseCase(
		userRepo,
		c.SecretService(),
		credentialService,
		c.config.IdentityTokenExpiration,
		c.config.CapabilityTokenExpiration,
	)

	return authUsecase.NewAuthUseCaseWithMetrics(useCase, businessMetrics), nil
}

// initAuthHandler creates the authentication HTTP handler.
func (c *Container) initAuthHandler() (*authHTTP.AuthHandler, error) {
	authUseCase, err := c.AuthUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get auth use case for auth handler: %w", err)
	}

	return authHTTP.NewAuthHandler(authUseCase, c.config.MaxTokensPerRequest, c.Logger()), nil
}
