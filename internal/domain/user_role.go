package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserRole is a role assignment. The (user_id, role) pair is unique; a
// duplicate insert is reported by the database and treated as benign by
// the role service. When a user somehow carries several rows, the most
// recently created one is authoritative.
type UserRole struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID    string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_user_roles_user_role;index:idx_user_roles_user" json:"user_id"`
	Role      Role      `gorm:"type:varchar(20);not null;uniqueIndex:idx_user_roles_user_role" json:"role"`
	CreatedBy *string   `gorm:"type:varchar(36)" json:"created_by,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (UserRole) TableName() string {
	return "user_roles"
}

// BeforeCreate assigns a uuid when the caller did not supply one
func (r *UserRole) BeforeCreate(_ *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return nil
}

// AssignRoleRequest is the admin payload for granting a role
type AssignRoleRequest struct {
	UserID string `json:"user_id" binding:"required"`
	Role   string `json:"role" binding:"required,oneof=admin writer publisher"`
}
