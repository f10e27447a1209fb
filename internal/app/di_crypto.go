package app

import (
	"context"
	"fmt"
	"sync"

	cryptoDomain "github.com/allisson/secretd/internal/crypto/domain"
	cryptoRepository "github.com/allisson/secretd/internal/crypto/repository"
	cryptoService "github.com/allisson/secretd/internal/crypto/service"
	"github.com/allisson/secretd/internal/secrets/store"
)

// containerCrypto holds the cryptographic components of the container.
type containerCrypto struct {
	masterKeyChain *cryptoDomain.MasterKeyChain
	aeadManager    cryptoService.AEADManager
	keyManager     cryptoService.KeyManager
	kmsService     cryptoService.KMSService
	dekRepository  store.DekRepository

	masterKeyChainInit sync.Once
	aeadManagerInit    sync.Once
	keyManagerInit     sync.Once
	kmsServiceInit     sync.Once
	dekRepositoryInit  sync.Once
}

// MasterKeyChain returns the master key chain.
//
// When a KMS key URI is configured the key material in MASTER_KEYS is
// treated as KMS-wrapped ciphertext and unwrapped through the keeper;
// otherwise the keys are read directly from the environment.
func (c *Container) MasterKeyChain() (*cryptoDomain.MasterKeyChain, error) {
	var err error
	c.masterKeyChainInit.Do(func() {
		c.masterKeyChain, err = c.initMasterKeyChain()
		if err != nil {
			c.initErrors["masterKeyChain"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["masterKeyChain"]; exists {
		return nil, storedErr
	}
	return c.masterKeyChain, nil
}

// AEADManager returns the AEAD manager service.
func (c *Container) AEADManager() cryptoService.AEADManager {
	c.aeadManagerInit.Do(func() {
		c.aeadManager = cryptoService.NewAEADManager()
	})
	return c.aeadManager
}

// KeyManager returns the key manager service.
func (c *Container) KeyManager() cryptoService.KeyManager {
	c.keyManagerInit.Do(func() {
		c.keyManager = cryptoService.NewKeyManager(c.AEADManager())
	})
	return c.keyManager
}

// KMSService returns the KMS service.
func (c *Container) KMSService() cryptoService.KMSService {
	c.kmsServiceInit.Do(func() {
		c.kmsService = cryptoService.NewKMSService()
	})
	return c.kmsService
}

// DekRepository returns the DEK repository based on the database driver.
func (c *Container) DekRepository() (store.DekRepository, error) {
	var err error
	c.dekRepositoryInit.Do(func() {
		c.dekRepository, err = c.initDekRepository()
		if err != nil {
			c.initErrors["dekRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["dekRepository"]; exists {
		return nil, storedErr
	}
	return c.dekRepository, nil
}

// initMasterKeyChain loads the master key chain from the environment,
// unwrapping through the KMS when one is configured.
func (c *Container) initMasterKeyChain() (*cryptoDomain.MasterKeyChain, error) {
	if c.config.KMSKeyURI == "" {
		masterKeyChain, err := cryptoDomain.LoadMasterKeyChainFromEnv()
		if err != nil {
			return nil, fmt.Errorf("failed to load master key chain: %w", err)
		}
		return masterKeyChain, nil
	}

	ctx := context.Background()

	keeper, err := c.KMSService().OpenKeeper(ctx, c.config.KMSKeyURI)
	if err != nil {
		return nil, fmt.Errorf("failed to open kms keeper: %w", err)
	}
	defer func() {
		_ = keeper.Close()
	}()

	masterKeyChain, err := cryptoDomain.LoadMasterKeyChainWithKMS(ctx, keeper)
	if err != nil {
		return nil, fmt.Errorf("failed to load master key chain from kms: %w", err)
	}
	return masterKeyChain, nil
}

// initDekRepository creates the DEK repository based on the database driver.
func (c *Container) initDekRepository() (store.DekRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for dek repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return cryptoRepository.NewPostgreSQLDekRepository(db), nil
	case "mysql":
		return cryptoRepository.NewMySQLDekRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}
