// Package access holds the authorization policies shared by every resource.
//
// A Policy is a predicate over (principal, action, resource). Resources declare
// a default policy and may override it for individual actions.
package access

import (
	"github.com/erp/storefront/internal/domain/identity"
)

// Action names an operation on a resource
type Action string

// Standard resource actions
const (
	ActionList          Action = "list"
	ActionRetrieve      Action = "retrieve"
	ActionCreate        Action = "create"
	ActionUpdate        Action = "update"
	ActionPartialUpdate Action = "partial_update"
	ActionDestroy       Action = "destroy"
)

// IsSafe reports whether the action only reads state
func (a Action) IsSafe() bool {
	return a == ActionList || a == ActionRetrieve
}

// Resource identifies what is being acted upon
type Resource interface {
	ResourceName() string
}

// Kind is a Resource identified only by its name, used for collection-level checks
type Kind string

// ResourceName implements Resource
func (k Kind) ResourceName() string {
	return string(k)
}

// Policy decides whether a principal may perform an action on a resource
type Policy interface {
	Allows(principal identity.Principal, action Action, resource Resource) bool
}

// PolicyFunc adapts a function to Policy
type PolicyFunc func(principal identity.Principal, action Action, resource Resource) bool

// Allows implements Policy
func (f PolicyFunc) Allows(principal identity.Principal, action Action, resource Resource) bool {
	return f(principal, action, resource)
}

// AllowAny permits every request, anonymous included
func AllowAny() Policy {
	return PolicyFunc(func(identity.Principal, Action, Resource) bool {
		return true
	})
}

// Authenticated permits any known user
func Authenticated() Policy {
	return PolicyFunc(func(p identity.Principal, _ Action, _ Resource) bool {
		return p.IsAuthenticated()
	})
}

// StaffOnly permits privileged users only
func StaffOnly() Policy {
	return PolicyFunc(func(p identity.Principal, _ Action, _ Resource) bool {
		return p.IsAuthenticated() && p.IsStaff
	})
}

// StaffOrReadOnly opens safe actions to everyone and reserves mutations for staff
func StaffOrReadOnly() Policy {
	return PolicyFunc(func(p identity.Principal, a Action, _ Resource) bool {
		if a.IsSafe() {
			return true
		}
		return p.IsAuthenticated() && p.IsStaff
	})
}

// ModelPermissions grants read actions to principals holding "<resource>:read".
// Every other action is refused, whatever else the principal was granted.
func ModelPermissions() Policy {
	return PolicyFunc(func(p identity.Principal, a Action, r Resource) bool {
		if !a.IsSafe() || r == nil {
			return false
		}
		return p.IsAuthenticated() && p.HasPermission(r.ResourceName()+":read")
	})
}

// AnyOf permits when at least one policy permits
func AnyOf(policies ...Policy) Policy {
	return PolicyFunc(func(p identity.Principal, a Action, r Resource) bool {
		for _, policy := range policies {
			if policy.Allows(p, a, r) {
				return true
			}
		}
		return false
	})
}

// AllOf permits only when every policy permits
func AllOf(policies ...Policy) Policy {
	return PolicyFunc(func(p identity.Principal, a Action, r Resource) bool {
		for _, policy := range policies {
			if !policy.Allows(p, a, r) {
				return false
			}
		}
		return len(policies) > 0
	})
}
