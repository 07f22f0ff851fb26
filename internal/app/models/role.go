package models

import "medrec-service/internal/pkg/constvars"

type Role string

const (
	RoleDoctor Role = constvars.RoleDoctor
	RoleAdmin  Role = constvars.RoleAdmin
)

// Roles lists every role in a stable order.
var Roles = []Role{RoleDoctor, RoleAdmin}

func (r Role) Valid() bool {
	switch r {
	case RoleDoctor, RoleAdmin:
		return true
	}
	return false
}

func (r Role) String() string {
	return string(r)
}

// ParseRole returns the role for raw, falling back to doctor when raw is empty or unknown.
func ParseRole(raw string) Role {
	role := Role(raw)
	if !role.Valid() {
		return RoleDoctor
	}
	return role
}
