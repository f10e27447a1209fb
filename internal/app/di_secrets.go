package app

import (
	"fmt"
	"sync"

	cryptoDomain "github.com/allisson/secretd/internal/crypto/domain"
	"github.com/allisson/secretd/internal/metrics"
	"github.com/allisson/secretd/internal/secrets/guard"
	secretsHTTP "github.com/allisson/secretd/internal/secrets/http"
	"github.com/allisson/secretd/internal/secrets/registry"
	secretsRepository "github.com/allisson/secretd/internal/secrets/repository"
	"github.com/allisson/secretd/internal/secrets/store"
	secretsUseCase "github.com/allisson/secretd/internal/secrets/usecase"
)

// containerSecrets holds the secret lifecycle components of the container.
type containerSecrets struct {
	valueRepository store.ValueRepository
	valueStore      *store.Store
	registry        *registry.Registry
	guard           *guard.Guard
	secretUseCase   secretsUseCase.SecretUseCase
	secretHandler   *secretsHTTP.SecretHandler

	valueRepositoryInit sync.Once
	valueStoreInit      sync.Once
	registryInit        sync.Once
	guardInit           sync.Once
	secretUseCaseInit   sync.Once
	secretHandlerInit   sync.Once
}

// ValueRepository returns the encrypted value repository based on the
// database driver.
func (c *Container) ValueRepository() (store.ValueRepository, error) {
	var err error
	c.valueRepositoryInit.Do(func() {
		c.valueRepository, err = c.initValueRepository()
		if err != nil {
			c.initErrors["valueRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["valueRepository"]; exists {
		return nil, storedErr
	}
	return c.valueRepository, nil
}

// ValueStore returns the encrypted value store.
func (c *Container) ValueStore() (*store.Store, error) {
	var err error
	c.valueStoreInit.Do(func() {
		c.valueStore, err = c.initValueStore()
		if err != nil {
			c.initErrors["valueStore"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["valueStore"]; exists {
		return nil, storedErr
	}
	return c.valueStore, nil
}

// Registry returns the in-memory secret registry.
func (c *Container) Registry() (*registry.Registry, error) {
	var err error
	c.registryInit.Do(func() {
		c.registry, err = c.initRegistry()
		if err != nil {
			c.initErrors["registry"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["registry"]; exists {
		return nil, storedErr
	}
	return c.registry, nil
}

// Guard returns the authorization guard.
func (c *Container) Guard() *guard.Guard {
	c.guardInit.Do(func() {
		c.guard = guard.New()
	})
	return c.guard
}

// SecretUseCase returns the secret use case, wrapped with metrics when
// metrics are enabled.
func (c *Container) SecretUseCase() (secretsUseCase.SecretUseCase, error) {
	var err error
	c.secretUseCaseInit.Do(func() {
		c.secretUseCase, err = c.initSecretUseCase()
		if err != nil {
			c.initErrors["secretUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["secretUseCase"]; exists {
		return nil, storedErr
	}
	return c.secretUseCase, nil
}

// SecretHandler returns the secret HTTP handler.
func (c *Container) SecretHandler() (*secretsHTTP.SecretHandler, error) {
	var err error
	c.secretHandlerInit.Do(func() {
		var useCase secretsUseCase.SecretUseCase
		useCase, err = c.SecretUseCase()
		if err != nil {
			c.initErrors["secretHandler"] = err
			return
		}
		c.secretHandler = secretsHTTP.NewSecretHandler(useCase, c.Logger())
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["secretHandler"]; exists {
		return nil, storedErr
	}
	return c.secretHandler, nil
}

// initValueRepository creates the value repository based on the database
// driver.
func (c *Container) initValueRepository() (store.ValueRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for value repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return secretsRepository.NewPostgreSQLValueRepository(db), nil
	case "mysql":
		return secretsRepository.NewMySQLValueRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initValueStore creates the value store with all its dependencies.
func (c *Container) initValueStore() (*store.Store, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for value store: %w", err)
	}

	valueRepo, err := c.ValueRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get value repository for value store: %w", err)
	}

	dekRepo, err := c.DekRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get dek repository for value store: %w", err)
	}

	masterKeyChain, err := c.MasterKeyChain()
	if err != nil {
		return nil, fmt.Errorf("failed to get master key chain for value store: %w", err)
	}

	dekAlgorithm, err := cryptoDomain.ParseAlgorithm(c.config.DekAlgorithm)
	if err != nil {
		return nil, fmt.Errorf("invalid dek algorithm %q: %w", c.config.DekAlgorithm, err)
	}

	storeConfig := store.Config{
		MaxValueSize:          c.config.MaxValueSize,
		MaxEphemeralValueSize: c.config.MaxEphemeralValueSize,
		RetryBackoff:          c.config.StorageRetryBackoff,
	}

	return store.New(
		storeConfig,
		txManager,
		valueRepo,
		dekRepo,
		masterKeyChain,
		c.AEADManager(),
		c.KeyManager(),
		dekAlgorithm,
		c.Logger(),
	), nil
}

// initRegistry creates the secret registry backed by the value store.
func (c *Container) initRegistry() (*registry.Registry, error) {
	valueStore, err := c.ValueStore()
	if err != nil {
		return nil, fmt.Errorf("failed to get value store for registry: %w", err)
	}
	return registry.New(valueStore, c.Logger()), nil
}

// initSecretUseCase creates the secret use case with all its dependencies.
func (c *Container) initSecretUseCase() (secretsUseCase.SecretUseCase, error) {
	reg, err := c.Registry()
	if err != nil {
		return nil, fmt.Errorf("failed to get registry for secret use case: %w", err)
	}

	valueStore, err := c.ValueStore()
	if err != nil {
		return nil, fmt.Errorf("failed to get value store for secret use case: %w", err)
	}

	useCase := secretsUseCase.NewSecretUseCase(c.SessionManager(), c.Guard(), reg, valueStore)

	if !c.config.MetricsEnabled {
		return useCase, nil
	}

	metricsProvider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for secret use case: %w", err)
	}

	businessMetrics, err := metrics.NewBusinessMetrics(metricsProvider.MeterProvider(), c.config.MetricsNamespace)
	if err != nil {
		return nil, fmt.Errorf("failed to create business metrics: %w", err)
	}

	return secretsUseCase.NewSecretUseCaseWithMetrics(useCase, businessMetrics), nil
}
