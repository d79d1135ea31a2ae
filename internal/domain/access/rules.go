package access

import "github.com/erp/storefront/internal/domain/identity"

// Decision is the outcome of an authorization check
type Decision int

const (
	// Granted lets the request through
	Granted Decision = iota
	// Unauthenticated means the caller must log in first
	Unauthenticated
	// Denied means the caller is known but not allowed
	Denied
)

// Rules binds a default policy to a resource, with optional per-action overrides.
// An override replaces the default for that action, it does not narrow it.
type Rules struct {
	Resource  Resource
	Default   Policy
	Overrides map[Action]Policy
}

// NewRules creates rules for a resource with a default policy
func NewRules(resource Resource, defaultPolicy Policy) Rules {
	return Rules{
		Resource:  resource,
		Default:   defaultPolicy,
		Overrides: make(map[Action]Policy),
	}
}

// Override sets the policy for a single action
func (r Rules) Override(action Action, policy Policy) Rules {
	overrides := make(map[Action]Policy, len(r.Overrides)+1)
	for k, v := range r.Overrides {
		overrides[k] = v
	}
	overrides[action] = policy
	r.Overrides = overrides
	return r
}

// PolicyFor returns the policy that governs an action
func (r Rules) PolicyFor(action Action) Policy {
	if policy, ok := r.Overrides[action]; ok {
		return policy
	}
	if r.Default == nil {
		return StaffOnly()
	}
	return r.Default
}

// Check evaluates the governing policy for an action
func (r Rules) Check(principal identity.Principal, action Action) Decision {
	if r.PolicyFor(action).Allows(principal, action, r.Resource) {
		return Granted
	}
	if !principal.IsAuthenticated() {
		return Unauthenticated
	}
	return Denied
}
