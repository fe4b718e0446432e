package domain

// Capability names a permission gate checked against a session's roles.
type Capability string

const (
	CapCreateProduct Capability = "create-product"
	CapViewAnalytics Capability = "view-analytics"
	CapAdvanceStatus Capability = "advance-status"
	CapViewProducts  Capability = "view-products"
)

// anyRole grants a capability to every caller.
const anyRole = "*"

var capabilityRoles = map[Capability]RoleSet{
	CapCreateProduct: NewRoleSet(RoleAdmin, RoleDesigner),
	CapViewAnalytics: NewRoleSet(RoleAdmin, RoleApprover),
	CapAdvanceStatus: NewRoleSet(RoleAdmin, RoleApprover),
	CapViewProducts:  NewRoleSet(anyRole),
}

// KnownCapabilities lists every capability in the map.
var KnownCapabilities = []Capability{
	CapViewProducts,
	CapCreateProduct,
	CapAdvanceStatus,
	CapViewAnalytics,
}

// CanPerform is deny-by-default: unknown capabilities and absent sessions are
// refused unless the capability is open to any role.
func CanPerform(s *Session, c Capability) bool {
	allowed, ok := capabilityRoles[c]
	if !ok {
		return false
	}
	if allowed.Has(anyRole) {
		return true
	}
	if s == nil {
		return false
	}
	for r := range s.Roles {
		if allowed.Has(r) {
			return true
		}
	}
	return false
}

// Capabilities evaluates every known capability for s.
func Capabilities(s *Session) map[Capability]bool {
	out := make(map[Capability]bool, len(KnownCapabilities))
	for _, c := range KnownCapabilities {
		out[c] = CanPerform(s, c)
	}
	return out
}
