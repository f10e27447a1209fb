// Package usecase implements business logic orchestration for secret
// lifecycle operations.
//
// The use case layer ties the pieces together: it resolves the caller's
// session, enforces grants through the access guard, mutates metadata in the
// registry and values in the store. Registry and store stay unaware of
// sessions and authorization.
package usecase

import (
	"context"

	"github.com/google/uuid"

	"github.com/allisson/secretd/internal/secrets/guard"
	"github.com/allisson/secretd/internal/secrets/session"

	secretsDomain "github.com/allisson/secretd/internal/secrets/domain"
)

type secretUseCase struct {
	sessions SessionResolver
	guard    *guard.Guard
	registry Registry
	store    ValueStore
}

// NewSecretUseCase creates a SecretUseCase.
func NewSecretUseCase(sessions SessionResolver, g *guard.Guard, registry Registry, store ValueStore) SecretUseCase {
	return &secretUseCase{
		sessions: sessions,
		guard:    g,
		registry: registry,
		store:    store,
	}
}

// begin resolves the token and registers an in-flight operation on the
// session. The returned release function must be called when the operation
// finishes.
func (s *secretUseCase) begin(token string) (*session.Session, func(), error) {
	sess, err := s.sessions.Get(token)
	if err != nil {
		return nil, nil, err
	}
	release, err := sess.Begin()
	if err != nil {
		return nil, nil, err
	}
	return sess, release, nil
}

// Define registers a new secret in the "defined, no value" state.
func (s *secretUseCase) Define(ctx context.Context, token string, input secretsDomain.DefineInput) (*secretsDomain.Secret, error) {
	sess, release, err := s.begin(token)
	if err != nil {
		return nil, err
	}
	defer release()

	if err := s.guard.Check(sess.Grants, guard.OpDefine, input.UsageType); err != nil {
		return nil, err
	}

	return s.registry.Define(ctx, input)
}

// LookupByUUID returns the secret's metadata.
func (s *secretUseCase) LookupByUUID(ctx context.Context, token string, secretUUID uuid.UUID) (*secretsDomain.Secret, error) {
	sess, release, err := s.begin(token)
	if err != nil {
		return nil, err
	}
	defer release()

	secret, err := s.registry.LookupByUUID(secretUUID)
	if err != nil {
		return nil, err
	}
	if err := s.guard.Check(sess.Grants, guard.OpDescribe, secret.UsageType); err != nil {
		return nil, err
	}
	return secret, nil
}

// LookupByUsage returns the secret claiming the given usage scope.
func (s *secretUseCase) LookupByUsage(ctx context.Context, token string, usageType secretsDomain.UsageType, usageID string) (*secretsDomain.Secret, error) {
	sess, release, err := s.begin(token)
	if err != nil {
		return nil, err
	}
	defer release()

	if err := s.guard.Check(sess.Grants, guard.OpDescribe, usageType); err != nil {
		return nil, err
	}

	return s.registry.LookupByUsage(usageType, usageID)
}

// List returns the UUIDs of secrets the caller's grants permit it to see.
// The result is a point-in-time snapshot.
func (s *secretUseCase) List(ctx context.Context, token string) ([]uuid.UUID, error) {
	sess, release, err := s.begin(token)
	if err != nil {
		return nil, err
	}
	defer release()

	visible := make([]uuid.UUID, 0)
	for _, secretUUID := range s.registry.List() {
		secret, err := s.registry.LookupByUUID(secretUUID)
		if err != nil {
			// Undefined between snapshot and lookup.
			continue
		}
		if sess.Grants.AllowsUsageType(secret.UsageType) {
			visible = append(visible, secretUUID)
		}
	}
	return visible, nil
}

// DescribeXML returns the secret's XML descriptor. The descriptor never
// contains the value.
func (s *secretUseCase) DescribeXML(ctx context.Context, token string, secretUUID uuid.UUID, opts secretsDomain.DescribeOptions) (string, error) {
	sess, release, err := s.begin(token)
	if err != nil {
		return "", err
	}
	defer release()

	secret, err := s.registry.LookupByUUID(secretUUID)
	if err != nil {
		return "", err
	}
	if err := s.guard.Check(sess.Grants, guard.OpDescribe, secret.UsageType); err != nil {
		return "", err
	}

	return s.registry.DescribeXML(secretUUID, opts)
}

// GetValue returns the secret's current value.
func (s *secretUseCase) GetValue(ctx context.Context, token string, secretUUID uuid.UUID) ([]byte, error) {
	sess, release, err := s.begin(token)
	if err != nil {
		return nil, err
	}
	defer release()

	secret, err := s.registry.LookupByUUID(secretUUID)
	if err != nil {
		return nil, err
	}
	if err := s.guard.Check(sess.Grants, guard.OpGetValue, secret.UsageType); err != nil {
		return nil, err
	}

	return s.store.Get(ctx, secret)
}

// SetValue stores value as the secret's current value.
func (s *secretUseCase) SetValue(ctx context.Context, token string, secretUUID uuid.UUID, value []byte) error {
	sess, release, err := s.begin(token)
	if err != nil {
		return err
	}
	defer release()

	secret, err := s.registry.LookupByUUID(secretUUID)
	if err != nil {
		return err
	}
	if err := s.guard.Check(sess.Grants, guard.OpSetValue, secret.UsageType); err != nil {
		return err
	}

	if err := s.store.Put(ctx, secret, value); err != nil {
		return err
	}

	// Best effort: the secret may have been undefined while the value was
	// being written. The store purge on undefine covers that window.
	_ = s.registry.Touch(secretUUID)
	return nil
}

// Undefine removes the secret and purges its stored value. Undefining an
// unknown UUID yields ErrNotFound.
func (s *secretUseCase) Undefine(ctx context.Context, token string, secretUUID uuid.UUID) error {
	sess, release, err := s.begin(token)
	if err != nil {
		return err
	}
	defer release()

	secret, err := s.registry.LookupByUUID(secretUUID)
	if err != nil {
		return err
	}
	if err := s.guard.Check(sess.Grants, guard.OpUndefine, secret.UsageType); err != nil {
		return err
	}

	return s.registry.Undefine(ctx, secretUUID)
}
