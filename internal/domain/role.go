package domain

import (
	"fmt"
	"strings"
)

// Role is the platform role assigned to a user. A user with no assignment
// has RoleNone and no capabilities.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleWriter    Role = "writer"
	RolePublisher Role = "publisher"
	RoleNone      Role = ""
)

// ParseRole converts a string into a known role
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleWriter:
		return RoleWriter, nil
	case RolePublisher:
		return RolePublisher, nil
	}
	return RoleNone, fmt.Errorf("unknown role %q", s)
}

// Valid reports whether r is one of the assignable roles
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleWriter || r == RolePublisher
}

// CanWrite reports whether the role may create and edit own posts
func (r Role) CanWrite() bool {
	return r == RoleAdmin || r == RoleWriter || r == RolePublisher
}

// CanPublish reports whether the role may publish or reject pending posts
func (r Role) CanPublish() bool {
	return r == RoleAdmin || r == RolePublisher
}

// IsAdmin reports whether the role grants platform administration
func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

// Capabilities is the derived permission set exposed to API clients
type Capabilities struct {
	Role       Role `json:"role"`
	CanWrite   bool `json:"can_write"`
	CanPublish bool `json:"can_publish"`
	IsAdmin    bool `json:"is_admin"`
}

// Capabilities derives the capability set for the role
func (r Role) Capabilities() Capabilities {
	return Capabilities{
		Role:       r,
		CanWrite:   r.CanWrite(),
		CanPublish: r.CanPublish(),
		IsAdmin:    r.IsAdmin(),
	}
}
