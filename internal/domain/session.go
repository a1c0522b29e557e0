package domain

// Session identifies the caller of a service operation. It is built once
// per request (token claims + resolved role) and passed explicitly into
// workflow and repository calls; there is no ambient auth state.
type Session struct {
	UserID string
	Email  string
	Role   Role
}

// Capabilities derives the caller's permission set
func (s *Session) Capabilities() Capabilities {
	if s == nil {
		return RoleNone.Capabilities()
	}
	return s.Role.Capabilities()
}
