package service

import (
	"context"

	"github.com/mediblog/mediblog-backend/internal/common"
	"github.com/mediblog/mediblog-backend/internal/domain"
	"github.com/mediblog/mediblog-backend/internal/repository"
)

// CategoryService manages the category reference data. Listing is public;
// mutations are admin only.
type CategoryService interface {
	List(ctx context.Context) ([]*domain.Category, error)
	Create(ctx context.Context, session *domain.Session, req *domain.CategoryRequest) (*domain.Category, error)
	Update(ctx context.Context, session *domain.Session, id string, req *domain.CategoryRequest) (*domain.Category, error)
	Delete(ctx context.Context, session *domain.Session, id string) error
}

type categoryService struct {
	repo repository.CategoryRepository
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(repo repository.CategoryRepository) CategoryService {
	return &categoryService{repo: repo}
}

func (s *categoryService) List(ctx context.Context) ([]*domain.Category, error) {
	return s.repo.List(ctx)
}

func (s *categoryService) Create(ctx context.Context, session *domain.Session, req *domain.CategoryRequest) (*domain.Category, error) {
	if session == nil || !session.Role.IsAdmin() {
		return nil, common.ErrForbidden
	}

	slug := req.Slug
	if slug == "" {
		slug = Slugify(req.Name)
	}

	category := &domain.Category{
		Name:        req.Name,
		Slug:        slug,
		Description: req.Description,
	}
	if err := s.repo.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *categoryService) Update(ctx context.Context, session *domain.Session, id string, req *domain.CategoryRequest) (*domain.Category, error) {
	if session == nil || !session.Role.IsAdmin() {
		return nil, common.ErrForbidden
	}

	category, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	category.Name = req.Name
	if req.Slug != "" {
		category.Slug = req.Slug
	}
	category.Description = req.Description

	if err := s.repo.Update(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *categoryService) Delete(ctx context.Context, session *domain.Session, id string) error {
	if session == nil || !session.Role.IsAdmin() {
		return common.ErrForbidden
	}

	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
