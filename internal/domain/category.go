package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Category is plain reference data; posts link to categories through the
// post_categories join table.
type Category struct {
	ID          string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(100);not null" json:"name"`
	Slug        string    `gorm:"type:varchar(100);uniqueIndex:idx_categories_slug;not null" json:"slug"`
	Description *string   `gorm:"type:text" json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func (Category) TableName() string {
	return "categories"
}

// BeforeCreate assigns a uuid when the caller did not supply one
func (c *Category) BeforeCreate(_ *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}

// PostCategory is the posts <-> categories join row
type PostCategory struct {
	PostID     string `gorm:"type:varchar(36);primaryKey" json:"post_id"`
	CategoryID string `gorm:"type:varchar(36);primaryKey" json:"category_id"`
}

func (PostCategory) TableName() string {
	return "post_categories"
}

// CategoryRequest is the admin payload for creating or updating a category
type CategoryRequest struct {
	Name        string  `json:"name" binding:"required,max=100"`
	Slug        string  `json:"slug" binding:"omitempty,max=100"`
	Description *string `json:"description"`
}
