package service

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/mediblog/mediblog-backend/internal/common"
	"github.com/mediblog/mediblog-backend/internal/domain"
	"github.com/mediblog/mediblog-backend/internal/repository"
)

// PostService owns the post lifecycle. Transitions are guarded by the
// caller's session before any write is issued; the database keeps the final
// word through forced defaults and unique indexes.
type PostService interface {
	ListPublished(ctx context.Context, page, limit int) ([]*domain.Post, int64, error)
	GetPublishedBySlug(ctx context.Context, slug string) (*domain.Post, error)

	ListForDashboard(ctx context.Context, session *domain.Session, filter repository.PostFilter, page, limit int) ([]*domain.Post, int64, error)
	Get(ctx context.Context, session *domain.Session, id string) (*domain.Post, error)

	Create(ctx context.Context, session *domain.Session, req *domain.CreatePostRequest) (*domain.Post, error)
	Update(ctx context.Context, session *domain.Session, id string, req *domain.UpdatePostRequest) (*domain.Post, error)
	Submit(ctx context.Context, session *domain.Session, id string) (*domain.Post, error)
	Publish(ctx context.Context, session *domain.Session, id string) (*domain.Post, error)
	Reject(ctx context.Context, session *domain.Session, id string) (*domain.Post, error)
	Delete(ctx context.Context, session *domain.Session, id string) error
}

type postService struct {
	repo         repository.PostRepository
	categoryRepo repository.CategoryRepository
	search       SearchService
}

// NewPostService creates a new PostService. search may be nil when no
// search backend is wired (indexing hooks become no-ops).
func NewPostService(repo repository.PostRepository, categoryRepo repository.CategoryRepository, search SearchService) PostService {
	return &postService{repo: repo, categoryRepo: categoryRepo, search: search}
}

func (s *postService) ListPublished(ctx context.Context, page, limit int) ([]*domain.Post, int64, error) {
	page, limit = clampPagination(page, limit)
	return s.repo.List(ctx, repository.FilterPublished, page, limit)
}

func (s *postService) GetPublishedBySlug(ctx context.Context, slug string) (*domain.Post, error) {
	return s.repo.FindBySlugPublished(ctx, slug)
}

// ListForDashboard lists posts for the review dashboard. Any role that can
// write sees the full queue; the UI decides which actions to offer per row.
func (s *postService) ListForDashboard(ctx context.Context, session *domain.Session, filter repository.PostFilter, page, limit int) ([]*domain.Post, int64, error) {
	if session == nil || !session.Role.CanWrite() {
		return nil, 0, common.ErrForbidden
	}
	if filter == "" {
		filter = repository.FilterAll
	}
	if !filter.Valid() {
		return nil, 0, common.ErrInvalidInput
	}
	page, limit = clampPagination(page, limit)
	return s.repo.List(ctx, filter, page, limit)
}

// Get fetches a post for editing: the author or anyone who can publish
func (s *postService) Get(ctx context.Context, session *domain.Session, id string) (*domain.Post, error) {
	post, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !post.IsAuthor(session) && (session == nil || !session.Role.CanPublish()) {
		return nil, common.ErrForbidden
	}
	return post, nil
}

func (s *postService) Create(ctx context.Context, session *domain.Session, req *domain.CreatePostRequest) (*domain.Post, error) {
	if session == nil || !session.Role.CanWrite() {
		return nil, common.ErrForbidden
	}

	slug := req.Slug
	if slug == "" {
		slug = Slugify(req.Title)
	}
	if slug == "" {
		return nil, common.ErrInvalidInput
	}

	if err := s.validateCategories(ctx, req.CategoryIDs); err != nil {
		return nil, err
	}

	post := &domain.Post{
		Title:         req.Title,
		Slug:          slug,
		Content:       req.Content,
		Excerpt:       req.Excerpt,
		FeaturedImage: req.FeaturedImage,
		AuthorID:      session.UserID,
	}
	if err := s.repo.Create(ctx, post); err != nil {
		return nil, err
	}
	if len(req.CategoryIDs) > 0 {
		if err := s.repo.ReplaceCategories(ctx, post.ID, req.CategoryIDs); err != nil {
			return nil, err
		}
	}
	return s.repo.FindByID(ctx, post.ID)
}

func (s *postService) Update(ctx context.Context, session *domain.Session, id string, req *domain.UpdatePostRequest) (*domain.Post, error) {
	post, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canEdit(post, session) {
		return nil, common.ErrForbidden
	}

	if req.Title != nil {
		post.Title = *req.Title
	}
	if req.Slug != nil && *req.Slug != "" {
		post.Slug = *req.Slug
	}
	if req.Content != nil {
		post.Content = *req.Content
	}
	if req.Excerpt != nil {
		post.Excerpt = *req.Excerpt
	}
	if req.FeaturedImage != nil {
		post.FeaturedImage = req.FeaturedImage
	}

	if req.CategoryIDs != nil {
		if err := s.validateCategories(ctx, req.CategoryIDs); err != nil {
			return nil, err
		}
		if err := s.repo.ReplaceCategories(ctx, post.ID, req.CategoryIDs); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Update(ctx, post); err != nil {
		return nil, err
	}

	// Keep the search index in line with edits to already-published posts
	if post.Status == domain.StatusPublished && s.search != nil {
		s.search.IndexPost(ctx, post)
	}

	return s.repo.FindByID(ctx, post.ID)
}

// Submit moves an author's draft (or rejected post) into the review queue
func (s *postService) Submit(ctx context.Context, session *domain.Session, id string) (*domain.Post, error) {
	post, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !post.IsAuthor(session) {
		return nil, common.ErrForbidden
	}
	if !post.Status.Editable() {
		return nil, common.ErrInvalidTransition
	}

	post.Status = domain.StatusPending
	if err := s.repo.Update(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// Publish moves a pending post live, stamping who published it and when
func (s *postService) Publish(ctx context.Context, session *domain.Session, id string) (*domain.Post, error) {
	if session == nil || !session.Role.CanPublish() {
		return nil, common.ErrForbidden
	}
	post, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if post.Status != domain.StatusPending {
		return nil, common.ErrInvalidTransition
	}

	now := time.Now()
	post.Status = domain.StatusPublished
	post.PublishedBy = &session.UserID
	post.PublishedAt = &now
	if err := s.repo.Update(ctx, post); err != nil {
		return nil, err
	}

	if s.search != nil {
		s.search.IndexPost(ctx, post)
	}
	return post, nil
}

// Reject sends a pending post back to its author
func (s *postService) Reject(ctx context.Context, session *domain.Session, id string) (*domain.Post, error) {
	if session == nil || !session.Role.CanPublish() {
		return nil, common.ErrForbidden
	}
	post, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if post.Status != domain.StatusPending {
		return nil, common.ErrInvalidTransition
	}

	post.Status = domain.StatusRejected
	if err := s.repo.Update(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// Delete removes a post permanently. Authors may delete their own drafts;
// anything else requires admin.
func (s *postService) Delete(ctx context.Context, session *domain.Session, id string) error {
	post, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	ownDraft := post.Status == domain.StatusDraft && post.IsAuthor(session)
	if !ownDraft && (session == nil || !session.Role.IsAdmin()) {
		return common.ErrForbidden
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if s.search != nil {
		s.search.RemovePost(ctx, id)
	}
	return nil
}

// canEdit: authors may edit drafts and rejected posts; a pending post is
// frozen for its author until reviewed. Publish capability may edit any post.
func canEdit(post *domain.Post, session *domain.Session) bool {
	if session != nil && session.Role.CanPublish() {
		return true
	}
	return post.Status.Editable() && post.IsAuthor(session)
}

func (s *postService) validateCategories(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	categories, err := s.categoryRepo.FindByIDs(ctx, ids)
	if err != nil {
		return err
	}
	if len(categories) != len(ids) {
		return common.ErrCategoryNotFound
	}
	return nil
}

func clampPagination(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives a URL-safe slug from a title: lowercase, runs of
// non-alphanumerics collapsed to a single dash, dashes trimmed.
func Slugify(title string) string {
	slug := slugPattern.ReplaceAllString(strings.ToLower(title), "-")
	return strings.Trim(slug, "-")
}
