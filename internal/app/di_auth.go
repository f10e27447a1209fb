package app

import (
	"fmt"
	"sync"

	authHTTP "github.com/allisson/secretd/internal/auth/http"
	authRepository "github.com/allisson/secretd/internal/auth/repository"
	authService "github.com/allisson/secretd/internal/auth/service"
	authUseCase "github.com/allisson/secretd/internal/auth/usecase"
	"github.com/allisson/secretd/internal/secrets/session"
)

// containerAuth holds the client authentication components of the container.
type containerAuth struct {
	clientRepository authUseCase.ClientRepository
	secretService    authService.SecretService
	clientUseCase    authUseCase.ClientUseCase
	sessionManager   *session.Manager
	sessionHandler   *authHTTP.SessionHandler

	clientRepositoryInit sync.Once
	secretServiceInit    sync.Once
	clientUseCaseInit    sync.Once
	sessionManagerInit   sync.Once
	sessionHandlerInit   sync.Once
}

// ClientRepository returns the client repository based on the database driver.
func (c *Container) ClientRepository() (authUseCase.ClientRepository, error) {
	var err error
	c.clientRepositoryInit.Do(func() {
		c.clientRepository, err = c.initClientRepository()
		if err != nil {
			c.initErrors["clientRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["clientRepository"]; exists {
		return nil, storedErr
	}
	return c.clientRepository, nil
}

// SecretService returns the client secret hashing service.
func (c *Container) SecretService() authService.SecretService {
	c.secretServiceInit.Do(func() {
		c.secretService = authService.NewSecretService()
	})
	return c.secretService
}

// ClientUseCase returns the client use case.
func (c *Container) ClientUseCase() (authUseCase.ClientUseCase, error) {
	var err error
	c.clientUseCaseInit.Do(func() {
		c.clientUseCase, err = c.initClientUseCase()
		if err != nil {
			c.initErrors["clientUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["clientUseCase"]; exists {
		return nil, storedErr
	}
	return c.clientUseCase, nil
}

// SessionManager returns the session manager.
func (c *Container) SessionManager() *session.Manager {
	c.sessionManagerInit.Do(func() {
		c.sessionManager = session.NewManager(c.Logger())
	})
	return c.sessionManager
}

// SessionHandler returns the session HTTP handler.
func (c *Container) SessionHandler() (*authHTTP.SessionHandler, error) {
	var err error
	c.sessionHandlerInit.Do(func() {
		var clientUseCase authUseCase.ClientUseCase
		clientUseCase, err = c.ClientUseCase()
		if err != nil {
			c.initErrors["sessionHandler"] = err
			return
		}
		c.sessionHandler = authHTTP.NewSessionHandler(clientUseCase, c.SessionManager(), c.Logger())
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["sessionHandler"]; exists {
		return nil, storedErr
	}
	return c.sessionHandler, nil
}

// initClientRepository creates the client repository based on the database
// driver.
func (c *Container) initClientRepository() (authUseCase.ClientRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for client repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return authRepository.NewPostgreSQLClientRepository(db), nil
	case "mysql":
		return authRepository.NewMySQLClientRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initClientUseCase creates the client use case with all its dependencies.
func (c *Container) initClientUseCase() (authUseCase.ClientUseCase, error) {
	clientRepo, err := c.ClientRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get client repository for client use case: %w", err)
	}
	return authUseCase.NewClientUseCase(clientRepo, c.SecretService()), nil
}
