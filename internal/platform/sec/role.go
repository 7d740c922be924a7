// Copyright (c) 2026 Wander. All rights reserved.
// Author: platform@wander.app

package sec

// # User Roles

// Role represents the actor class granted to an account.
//
// The enumeration is closed: route declarations attach a [RoleSet] and
// authorization succeeds iff the identity's role is a member of the set.
// There is no hierarchy — an admin is not implicitly a guide.
type Role string

const (
	// Default role for standard registered users
	RoleUser Role = "user"

	// Can lead tours and view operational booking data
	RoleGuide Role = "guide"

	// Senior guide tier: manages tours and bookings
	RoleLeadGuide Role = "lead-guide"

	// Unrestricted system access
	RoleAdmin Role = "admin"
)

// IsValid reports whether r is one of the closed enumeration members.
func (r Role) IsValid() bool {
	switch r {
	case RoleUser, RoleGuide, RoleLeadGuide, RoleAdmin:
		return true
	default:
		return false
	}
}

// # Role Sets

// RoleSet is the allowed-role declaration attached to a protected route.
type RoleSet map[Role]struct{}

// NewRoleSet builds a [RoleSet] from the given roles.
func NewRoleSet(roles ...Role) RoleSet {
	set := make(RoleSet, len(roles))
	for _, role := range roles {
		set[role] = struct{}{}
	}
	return set
}

// Contains reports whether the role is a member of the set.
func (s RoleSet) Contains(role Role) bool {
	_, ok := s[role]
	return ok
}
