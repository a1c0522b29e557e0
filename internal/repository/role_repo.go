package repository

import (
	"context"
	"errors"

	"github.com/mediblog/mediblog-backend/internal/common"
	"github.com/mediblog/mediblog-backend/internal/domain"
	"gorm.io/gorm"
)

// RoleRepository is the user_roles data access layer
type RoleRepository interface {
	// ResolveRole calls the get_user_role database function (the preferred
	// resolution path). Databases without the function return an error and
	// the caller falls back to FindLatestByUser.
	ResolveRole(ctx context.Context, userID string) (domain.Role, error)
	FindLatestByUser(ctx context.Context, userID string) (*domain.UserRole, error)
	Create(ctx context.Context, assignment *domain.UserRole) error
	DeleteByUserAndRole(ctx context.Context, userID string, role domain.Role) error
	ListAssignments(ctx context.Context) ([]*domain.UserRole, error)
}

type roleRepository struct {
	db *gorm.DB
}

// NewRoleRepository creates a new RoleRepository
func NewRoleRepository(db *gorm.DB) RoleRepository {
	return &roleRepository{db: db}
}

func (r *roleRepository) ResolveRole(ctx context.Context, userID string) (domain.Role, error) {
	var role string
	err := r.db.WithContext(ctx).Raw("SELECT get_user_role(?)", userID).Scan(&role).Error
	if err != nil {
		return domain.RoleNone, err
	}
	if role == "" {
		return domain.RoleNone, nil
	}
	parsed, err := domain.ParseRole(role)
	if err != nil {
		return domain.RoleNone, err
	}
	return parsed, nil
}

// FindLatestByUser returns the most recently created assignment for the
// user. Multiple rows per user are a data-quality wart; recency wins.
func (r *roleRepository) FindLatestByUser(ctx context.Context, userID string) (*domain.UserRole, error) {
	var assignment domain.UserRole
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		First(&assignment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}
	return &assignment, nil
}

func (r *roleRepository) Create(ctx context.Context, assignment *domain.UserRole) error {
	return r.db.WithContext(ctx).Create(assignment).Error
}

func (r *roleRepository) DeleteByUserAndRole(ctx context.Context, userID string, role domain.Role) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND role = ?", userID, string(role)).
		Delete(&domain.UserRole{}).Error
}

func (r *roleRepository) ListAssignments(ctx context.Context) ([]*domain.UserRole, error) {
	var assignments []*domain.UserRole
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&assignments).Error
	if err != nil {
		return nil, err
	}
	return assignments, nil
}
