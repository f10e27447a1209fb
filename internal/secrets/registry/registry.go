// Package registry implements the in-memory catalog of secret metadata. It
// enforces usage scope uniqueness and mediates every lifecycle transition;
// values themselves live in the value store and are only referenced by UUID.
package registry

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	secretsDomain "github.com/allisson/secretd/internal/secrets/domain"
)

// ValuePurger removes any stored value for a secret. Satisfied by the value
// store; kept narrow so the registry never sees value bytes.
type ValuePurger interface {
	Purge(ctx context.Context, secretUUID uuid.UUID) error
}

// usageKey identifies a usage scope. Comparison is exact and case-sensitive.
type usageKey struct {
	usageType secretsDomain.UsageType
	usageID   string
}

// Registry is the in-memory catalog of secret metadata.
//
// All mutating operations execute under a single mutex so the uniqueness check
// and the insert are atomic; two concurrent Define calls for the same usage
// scope can never both succeed. Read operations take a point-in-time snapshot
// under a read lock and never block on value store I/O.
type Registry struct {
	mu      sync.RWMutex
	byUUID  map[uuid.UUID]*secretsDomain.Secret
	byUsage map[usageKey]uuid.UUID

	purger ValuePurger
	logger *slog.Logger
}

// New creates an empty Registry. The purger is invoked on Undefine to remove
// any stored value.
func New(purger ValuePurger, logger *slog.Logger) *Registry {
	return &Registry{
		byUUID:  make(map[uuid.UUID]*secretsDomain.Secret),
		byUsage: make(map[usageKey]uuid.UUID),
		purger:  purger,
		logger:  logger,
	}
}

// Define allocates a fresh UUID and inserts a new secret record in the
// "defined, no value" state.
//
// Returns ErrUsageScopeTaken if an active secret already claims the
// (usage type, usage id) pair and the usage type is not UsageNone.
func (r *Registry) Define(ctx context.Context, input secretsDomain.DefineInput) (*secretsDomain.Secret, error) {
	if !input.UsageType.Valid() {
		return nil, secretsDomain.ErrInvalidUsageType
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := usageKey{usageType: input.UsageType, usageID: input.UsageID}
	if input.UsageType != secretsDomain.UsageNone {
		if _, taken := r.byUsage[key]; taken {
			return nil, secretsDomain.ErrUsageScopeTaken
		}
	}

	now := time.Now().UTC()
	secret := &secretsDomain.Secret{
		UUID:      uuid.Must(uuid.NewRandom()),
		UsageType: input.UsageType,
		UsageID:   input.UsageID,
		Ephemeral: input.Ephemeral,
		Private:   input.Private,
		CreatedAt: now,
		UpdatedAt: now,
	}

	r.byUUID[secret.UUID] = secret
	if input.UsageType != secretsDomain.UsageNone {
		r.byUsage[key] = secret.UUID
	}

	out := *secret
	return &out, nil
}

// LookupByUUID returns the secret with the given UUID.
func (r *Registry) LookupByUUID(uuid uuid.UUID) (*secretsDomain.Secret, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	secret, ok := r.byUUID[uuid]
	if !ok {
		return nil, secretsDomain.ErrSecretNotFound
	}

	out := *secret
	return &out, nil
}

// LookupByUsage returns the secret claiming the given usage scope. Matching is
// exact and case-sensitive. Secrets with UsageNone are not indexed by usage
// and cannot be found this way.
func (r *Registry) LookupByUsage(usageType secretsDomain.UsageType, usageID string) (*secretsDomain.Secret, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byUsage[usageKey{usageType: usageType, usageID: usageID}]
	if !ok {
		return nil, secretsDomain.ErrSecretNotFound
	}

	out := *r.byUUID[id]
	return &out, nil
}

// List returns the UUIDs of all active secrets as a snapshot at call time.
// Mutations after the call returns are not reflected in the result.
func (r *Registry) List() []uuid.UUID {
	r.mu.RLock()
	defer r.mu.RUnlock()

	uuids := make([]uuid.UUID, 0, len(r.byUUID))
	for id := range r.byUUID {
		uuids = append(uuids, id)
	}
	return uuids
}

// Undefine removes the secret record and purges any stored value.
//
// The metadata removal is the authoritative part of the operation: a purge
// failure is logged and does not resurrect the record. A missing value is not
// an error.
func (r *Registry) Undefine(ctx context.Context, secretUUID uuid.UUID) error {
	r.mu.Lock()
	secret, ok := r.byUUID[secretUUID]
	if !ok {
		r.mu.Unlock()
		return secretsDomain.ErrSecretNotFound
	}

	delete(r.byUUID, secretUUID)
	if secret.UsageType != secretsDomain.UsageNone {
		delete(r.byUsage, usageKey{usageType: secret.UsageType, usageID: secret.UsageID})
	}
	r.mu.Unlock()

	if err := r.purger.Purge(ctx, secretUUID); err != nil {
		r.logger.Warn("failed to purge value for undefined secret",
			slog.String("uuid", secretUUID.String()),
			slog.Any("error", err),
		)
	}

	return nil
}

// DescribeXML synthesizes the XML descriptor for the secret with the given
// UUID. The value is never embedded in the output.
func (r *Registry) DescribeXML(secretUUID uuid.UUID, opts secretsDomain.DescribeOptions) (string, error) {
	secret, err := r.LookupByUUID(secretUUID)
	if err != nil {
		return "", err
	}
	return secretsDomain.DescribeXML(secret, opts)
}

// Touch records a value mutation on the secret's metadata.
func (r *Registry) Touch(secretUUID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	secret, ok := r.byUUID[secretUUID]
	if !ok {
		return secretsDomain.ErrSecretNotFound
	}
	secret.UpdatedAt = time.Now().UTC()
	return nil
}
