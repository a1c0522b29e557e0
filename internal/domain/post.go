package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PostStatus is the lifecycle state of a post
type PostStatus string

const (
	StatusDraft     PostStatus = "draft"
	StatusPending   PostStatus = "pending"
	StatusPublished PostStatus = "published"
	StatusRejected  PostStatus = "rejected"
)

// Valid reports whether s is a known status
func (s PostStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusPending, StatusPublished, StatusRejected:
		return true
	}
	return false
}

// Editable reports whether content edits feed back into the review loop.
// Draft and rejected posts are the two author-editable states.
func (s PostStatus) Editable() bool {
	return s == StatusDraft || s == StatusRejected
}

// Post is a blog article. PublishedBy/PublishedAt are only set while the
// post is published.
type Post struct {
	ID            string     `gorm:"type:varchar(36);primaryKey" json:"id"`
	Title         string     `gorm:"type:varchar(255);not null" json:"title"`
	Slug          string     `gorm:"type:varchar(255);uniqueIndex:idx_posts_slug;not null" json:"slug"`
	Content       string     `gorm:"type:longtext;not null" json:"content"`
	Excerpt       string     `gorm:"type:text" json:"excerpt"`
	FeaturedImage *string    `gorm:"type:varchar(500)" json:"featured_image,omitempty"`
	Status        PostStatus `gorm:"type:varchar(20);not null;default:'draft';index:idx_posts_status" json:"status"`
	AuthorID      string     `gorm:"type:varchar(36);not null;index:idx_posts_author" json:"author_id"`
	PublishedBy   *string    `gorm:"type:varchar(36)" json:"published_by,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	PublishedAt   *time.Time `json:"published_at,omitempty"`

	Categories []Category `gorm:"many2many:post_categories;joinForeignKey:PostID;joinReferences:CategoryID" json:"categories,omitempty"`
}

func (Post) TableName() string {
	return "posts"
}

// BeforeCreate assigns a uuid when the caller did not supply one
func (p *Post) BeforeCreate(_ *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}

// IsAuthor reports whether the session owns the post
func (p *Post) IsAuthor(s *Session) bool {
	return s != nil && s.UserID != "" && p.AuthorID == s.UserID
}

// CreatePostRequest is the payload for creating a post. A caller-supplied
// status is deliberately absent: new posts always start as drafts.
type CreatePostRequest struct {
	Title         string   `json:"title" binding:"required,max=255"`
	Slug          string   `json:"slug" binding:"omitempty,max=255"`
	Content       string   `json:"content" binding:"required"`
	Excerpt       string   `json:"excerpt"`
	FeaturedImage *string  `json:"featured_image" binding:"omitempty,url"`
	CategoryIDs   []string `json:"category_ids"`
}

// UpdatePostRequest is the payload for editing post content. Status is not
// part of it; transitions go through submit/publish/reject.
type UpdatePostRequest struct {
	Title         *string  `json:"title" binding:"omitempty,max=255"`
	Slug          *string  `json:"slug" binding:"omitempty,max=255"`
	Content       *string  `json:"content"`
	Excerpt       *string  `json:"excerpt"`
	FeaturedImage *string  `json:"featured_image" binding:"omitempty,url"`
	CategoryIDs   []string `json:"category_ids"`
}
