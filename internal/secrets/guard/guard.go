// Package guard implements access policy decisions for secret operations.
// Decisions are pure functions of the caller's grants and the requested
// operation, so they can be evaluated without touching storage.
package guard

import (
	apperrors "github.com/allisson/secretd/internal/errors"
	secretsDomain "github.com/allisson/secretd/internal/secrets/domain"
)

// Operation identifies an action a caller can perform on secrets.
type Operation string

const (
	OpDefine   Operation = "define"
	OpUndefine Operation = "undefine"
	OpGetValue Operation = "get_value"
	OpSetValue Operation = "set_value"
	OpDescribe Operation = "describe"
	OpList     Operation = "list"
)

// IsMutating reports whether the operation changes secret state.
func (o Operation) IsMutating() bool {
	switch o {
	case OpDefine, OpUndefine, OpSetValue:
		return true
	}
	return false
}

// Grants describes what a caller is allowed to do. A nil UsageTypes set
// permits every usage type; an empty set permits none.
type Grants struct {
	UsageTypes map[secretsDomain.UsageType]bool
	ReadOnly   bool
}

// AllowsUsageType reports whether the grants cover secrets of the given
// usage type.
func (g Grants) AllowsUsageType(usageType secretsDomain.UsageType) bool {
	if g.UsageTypes == nil {
		return true
	}
	return g.UsageTypes[usageType]
}

// Decision is the outcome of an authorization check.
type Decision struct {
	Allowed bool
	Reason  string
}

// Guard evaluates operations against grants.
type Guard struct{}

// New creates a Guard.
func New() *Guard {
	return &Guard{}
}

// Authorize decides whether grants permit the operation on a secret of the
// given usage type. List is scoped by filtering, not denied outright, so it
// is always allowed here.
func (g *Guard) Authorize(grants Grants, op Operation, usageType secretsDomain.UsageType) Decision {
	if grants.ReadOnly && op.IsMutating() {
		return Decision{Reason: "grants are read-only"}
	}
	if op == OpList {
		return Decision{Allowed: true}
	}
	if !grants.AllowsUsageType(usageType) {
		return Decision{Reason: "usage type not granted"}
	}
	return Decision{Allowed: true}
}

// Check is Authorize with the denial mapped to ErrForbidden.
func (g *Guard) Check(grants Grants, op Operation, usageType secretsDomain.UsageType) error {
	if decision := g.Authorize(grants, op, usageType); !decision.Allowed {
		return apperrors.Wrapf(apperrors.ErrForbidden, "%s denied: %s", op, decision.Reason)
	}
	return nil
}

// Filter returns only the secrets the grants permit the caller to see.
func (g *Guard) Filter(grants Grants, secrets []*secretsDomain.Secret) []*secretsDomain.Secret {
	filtered := make([]*secretsDomain.Secret, 0, len(secrets))
	for _, secret := range secrets {
		if grants.AllowsUsageType(secret.UsageType) {
			filtered = append(filtered, secret)
		}
	}
	return filtered
}
