package repository

import (
	"context"
	"errors"

	"github.com/mediblog/mediblog-backend/internal/common"
	"github.com/mediblog/mediblog-backend/internal/domain"
	"gorm.io/gorm"
)

// PostFilter narrows List results by status
type PostFilter string

const (
	FilterAll       PostFilter = "all"
	FilterDraft     PostFilter = "draft"
	FilterPending   PostFilter = "pending"
	FilterPublished PostFilter = "published"
)

// Valid reports whether f is a known filter
func (f PostFilter) Valid() bool {
	switch f {
	case FilterAll, FilterDraft, FilterPending, FilterPublished:
		return true
	}
	return false
}

// PostRepository is the posts data access layer
type PostRepository interface {
	List(ctx context.Context, filter PostFilter, page, limit int) ([]*domain.Post, int64, error)
	FindByID(ctx context.Context, id string) (*domain.Post, error)
	FindBySlugPublished(ctx context.Context, slug string) (*domain.Post, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	Create(ctx context.Context, post *domain.Post) error
	Update(ctx context.Context, post *domain.Post) error
	Delete(ctx context.Context, id string) error
	ReplaceCategories(ctx context.Context, postID string, categoryIDs []string) error
	SearchPublished(ctx context.Context, keyword string, page, limit int) ([]*domain.Post, int64, error)
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new PostRepository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

// List returns posts ordered by creation time, newest first
func (r *postRepository) List(ctx context.Context, filter PostFilter, page, limit int) ([]*domain.Post, int64, error) {
	var posts []*domain.Post
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.Post{})
	if filter != "" && filter != FilterAll {
		query = query.Where("status = ?", string(filter))
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := query.Preload("Categories").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

func (r *postRepository) FindByID(ctx context.Context, id string) (*domain.Post, error) {
	var post domain.Post
	err := r.db.WithContext(ctx).Preload("Categories").Where("id = ?", id).First(&post).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrPostNotFound
		}
		return nil, err
	}
	return &post, nil
}

// FindBySlugPublished fetches a published post by slug. A draft or pending
// post with the slug is deliberately reported as not found.
func (r *postRepository) FindBySlugPublished(ctx context.Context, slug string) (*domain.Post, error) {
	var post domain.Post
	err := r.db.WithContext(ctx).Preload("Categories").
		Where("slug = ? AND status = ?", slug, string(domain.StatusPublished)).
		First(&post).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrPostNotFound
		}
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Post{}).Where("slug = ?", slug).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create inserts the post as a draft. Status, published_by and published_at
// supplied by the caller are discarded: publication only happens through the
// workflow transitions.
func (r *postRepository) Create(ctx context.Context, post *domain.Post) error {
	post.Status = domain.StatusDraft
	post.PublishedBy = nil
	post.PublishedAt = nil

	err := r.db.WithContext(ctx).Omit("Categories").Create(post).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return common.ErrSlugTaken
	}
	return err
}

// Update persists the post, refreshing updated_at
func (r *postRepository) Update(ctx context.Context, post *domain.Post) error {
	err := r.db.WithContext(ctx).Omit("Categories").Save(post).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return common.ErrSlugTaken
	}
	return err
}

// Delete removes the post and its category links. Hard delete, no recycle bin.
func (r *postRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&domain.PostCategory{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&domain.Post{}).Error
	})
}

// ReplaceCategories rewrites the post's category links
func (r *postRepository) ReplaceCategories(ctx context.Context, postID string, categoryIDs []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", postID).Delete(&domain.PostCategory{}).Error; err != nil {
			return err
		}
		if len(categoryIDs) == 0 {
			return nil
		}
		links := make([]domain.PostCategory, 0, len(categoryIDs))
		for _, cid := range categoryIDs {
			links = append(links, domain.PostCategory{PostID: postID, CategoryID: cid})
		}
		return tx.Create(&links).Error
	})
}

// SearchPublished is the SQL fallback search over published posts
func (r *postRepository) SearchPublished(ctx context.Context, keyword string, page, limit int) ([]*domain.Post, int64, error) {
	var posts []*domain.Post
	var total int64

	pattern := "%" + keyword + "%"
	query := r.db.WithContext(ctx).Model(&domain.Post{}).
		Where("status = ?", string(domain.StatusPublished)).
		Where("title LIKE ? OR excerpt LIKE ? OR content LIKE ?", pattern, pattern, pattern)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&posts).Error
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}
