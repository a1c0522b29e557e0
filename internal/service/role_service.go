package service

import (
	"context"
	"errors"

	"github.com/mediblog/mediblog-backend/internal/common"
	"github.com/mediblog/mediblog-backend/internal/domain"
	"github.com/mediblog/mediblog-backend/internal/repository"
	pkglogger "github.com/mediblog/mediblog-backend/pkg/logger"
	"gorm.io/gorm"
)

// RoleService resolves and manages role assignments
type RoleService interface {
	// Resolve returns the user's role, degrading to RoleNone on any
	// resolution failure so callers always have a defined (if
	// under-privileged) state.
	Resolve(ctx context.Context, userID string) domain.Role

	// Assign grants a role to a user. Admin only. A duplicate assignment
	// is reported as alreadyAssigned, not as an error.
	Assign(ctx context.Context, session *domain.Session, userID string, role domain.Role) (alreadyAssigned bool, err error)

	// Remove revokes a role assignment. Admin only.
	Remove(ctx context.Context, session *domain.Session, userID string, role domain.Role) error

	// ListAssignments returns all role assignments. Admin only.
	ListAssignments(ctx context.Context, session *domain.Session) ([]*domain.UserRole, error)
}

type roleService struct {
	repo repository.RoleRepository
}

// NewRoleService creates a new RoleService
func NewRoleService(repo repository.RoleRepository) RoleService {
	return &roleService{repo: repo}
}

func (s *roleService) Resolve(ctx context.Context, userID string) domain.Role {
	if userID == "" {
		return domain.RoleNone
	}

	// Preferred path: single database function call
	role, err := s.repo.ResolveRole(ctx, userID)
	if err == nil && role != domain.RoleNone {
		return role
	}
	if err != nil {
		pkglogger.GetLogger().Warn().
			Err(err).
			Str("user_id", userID).
			Msg("role function lookup failed, falling back to table query")
	}

	// Fallback: latest assignment row wins
	assignment, err := s.repo.FindLatestByUser(ctx, userID)
	if err != nil {
		if !errors.Is(err, common.ErrNotFound) {
			pkglogger.GetLogger().Warn().
				Err(err).
				Str("user_id", userID).
				Msg("role fallback lookup failed, treating user as unprivileged")
		}
		return domain.RoleNone
	}
	return assignment.Role
}

func (s *roleService) Assign(ctx context.Context, session *domain.Session, userID string, role domain.Role) (bool, error) {
	if session == nil || !session.Role.IsAdmin() {
		return false, common.ErrForbidden
	}
	if !role.Valid() {
		return false, common.ErrInvalidRole
	}
	if userID == "" {
		return false, common.ErrInvalidInput
	}

	assignment := &domain.UserRole{
		UserID:    userID,
		Role:      role,
		CreatedBy: &session.UserID,
	}
	err := s.repo.Create(ctx, assignment)
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// User already holds this role; not a failure
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return false, nil
}

func (s *roleService) Remove(ctx context.Context, session *domain.Session, userID string, role domain.Role) error {
	if session == nil || !session.Role.IsAdmin() {
		return common.ErrForbidden
	}
	if !role.Valid() {
		return common.ErrInvalidRole
	}
	return s.repo.DeleteByUserAndRole(ctx, userID, role)
}

func (s *roleService) ListAssignments(ctx context.Context, session *domain.Session) ([]*domain.UserRole, error) {
	if session == nil || !session.Role.IsAdmin() {
		return nil, common.ErrForbidden
	}
	return s.repo.ListAssignments(ctx)
}
