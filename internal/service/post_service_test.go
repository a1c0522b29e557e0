package service

import (
	"context"
	"errors"
	"testing"

	"github.com/mediblog/mediblog-backend/internal/common"
	"github.com/mediblog/mediblog-backend/internal/domain"
	"github.com/mediblog/mediblog-backend/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// --- Mock PostRepository ---

type mockPostRepo struct {
	mock.Mock
}

func (m *mockPostRepo) List(ctx context.Context, filter repository.PostFilter, page, limit int) ([]*domain.Post, int64, error) {
	args := m.Called(ctx, filter, page, limit)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*domain.Post), args.Get(1).(int64), args.Error(2)
}

func (m *mockPostRepo) FindByID(ctx context.Context, id string) (*domain.Post, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Post), args.Error(1)
}

func (m *mockPostRepo) FindBySlugPublished(ctx context.Context, slug string) (*domain.Post, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Post), args.Error(1)
}

func (m *mockPostRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	args := m.Called(ctx, slug)
	return args.Bool(0), args.Error(1)
}

func (m *mockPostRepo) Create(ctx context.Context, post *domain.Post) error {
	return m.Called(ctx, post).Error(0)
}

func (m *mockPostRepo) Update(ctx context.Context, post *domain.Post) error {
	return m.Called(ctx, post).Error(0)
}

func (m *mockPostRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockPostRepo) ReplaceCategories(ctx context.Context, postID string, categoryIDs []string) error {
	return m.Called(ctx, postID, categoryIDs).Error(0)
}

func (m *mockPostRepo) SearchPublished(ctx context.Context, keyword string, page, limit int) ([]*domain.Post, int64, error) {
	args := m.Called(ctx, keyword, page, limit)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*domain.Post), args.Get(1).(int64), args.Error(2)
}

// --- Mock CategoryRepository ---

type mockCategoryRepo struct {
	mock.Mock
}

func (m *mockCategoryRepo) List(ctx context.Context) ([]*domain.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Category), args.Error(1)
}

func (m *mockCategoryRepo) FindByID(ctx context.Context, id string) (*domain.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Category), args.Error(1)
}

func (m *mockCategoryRepo) FindByIDs(ctx context.Context, ids []string) ([]*domain.Category, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Category), args.Error(1)
}

func (m *mockCategoryRepo) Create(ctx context.Context, category *domain.Category) error {
	return m.Called(ctx, category).Error(0)
}

func (m *mockCategoryRepo) Update(ctx context.Context, category *domain.Category) error {
	return m.Called(ctx, category).Error(0)
}

func (m *mockCategoryRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

// --- Sessions ---

func writerSession(userID string) *domain.Session {
	return &domain.Session{UserID: userID, Email: userID + "@example.com", Role: domain.RoleWriter}
}

func publisherSession(userID string) *domain.Session {
	return &domain.Session{UserID: userID, Email: userID + "@example.com", Role: domain.RolePublisher}
}

func adminSession(userID string) *domain.Session {
	return &domain.Session{UserID: userID, Email: userID + "@example.com", Role: domain.RoleAdmin}
}

// --- Tests ---

func TestCreate_ForcesDraft(t *testing.T) {
	repo := new(mockPostRepo)
	svc := NewPostService(repo, new(mockCategoryRepo), nil)

	created := &domain.Post{ID: "p1", Title: "Flu Season Tips", Slug: "flu-season-tips", Status: domain.StatusDraft, AuthorID: "w1"}
	repo.On("Create", mock.Anything, mock.MatchedBy(func(p *domain.Post) bool {
		return p.Slug == "flu-season-tips" && p.AuthorID == "w1"
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.Post).ID = "p1"
	}).Return(nil)
	repo.On("FindByID", mock.Anything, "p1").Return(created, nil)

	post, err := svc.Create(context.Background(), writerSession("w1"), &domain.CreatePostRequest{
		Title:   "Flu Season Tips",
		Content: "Wash your hands.",
	})

	assert.NoError(t, err)
	assert.Equal(t, domain.StatusDraft, post.Status)
	assert.Equal(t, "flu-season-tips", post.Slug)
	repo.AssertExpectations(t)
}

func TestCreate_NoWriteCapability(t *testing.T) {
	svc := NewPostService(new(mockPostRepo), new(mockCategoryRepo), nil)

	for _, session := range []*domain.Session{nil, {UserID: "u1", Role: domain.RoleNone}} {
		_, err := svc.Create(context.Background(), session, &domain.CreatePostRequest{Title: "X", Content: "y"})
		assert.ErrorIs(t, err, common.ErrForbidden)
	}
}

func TestCreate_UnknownCategory(t *testing.T) {
	repo := new(mockPostRepo)
	catRepo := new(mockCategoryRepo)
	svc := NewPostService(repo, catRepo, nil)

	catRepo.On("FindByIDs", mock.Anything, []string{"c1", "c2"}).
		Return([]*domain.Category{{ID: "c1"}}, nil)

	_, err := svc.Create(context.Background(), writerSession("w1"), &domain.CreatePostRequest{
		Title:       "Nutrition Basics",
		Content:     "Eat vegetables.",
		CategoryIDs: []string{"c1", "c2"},
	})
	assert.ErrorIs(t, err, common.ErrCategoryNotFound)
}

func TestSubmit_DraftToPending(t *testing.T) {
	repo := new(mockPostRepo)
	svc := NewPostService(repo, new(mockCategoryRepo), nil)

	repo.On("FindByID", mock.Anything, "p1").
		Return(&domain.Post{ID: "p1", Status: domain.StatusDraft, AuthorID: "w1"}, nil)
	repo.On("Update", mock.Anything, mock.MatchedBy(func(p *domain.Post) bool {
		return p.Status == domain.StatusPending
	})).Return(nil)

	post, err := svc.Submit(context.Background(), writerSession("w1"), "p1")
	assert.NoError(t, err)
	assert.Equal(t, domain.StatusPending, post.Status)
	repo.AssertExpectations(t)
}

func TestSubmit_RejectedToPending(t *testing.T) {
	repo := new(mockPostRepo)
	svc := NewPostService(repo, new(mockCategoryRepo), nil)

	repo.On("FindByID", mock.Anything, "p1").
		Return(&domain.Post{ID: "p1", Status: domain.StatusRejected, AuthorID: "w1"}, nil)
	repo.On("Update", mock.Anything, mock.Anything).Return(nil)

	post, err := svc.Submit(context.Background(), writerSession("w1"), "p1")
	assert.NoError(t, err)
	assert.Equal(t, domain.StatusPending, post.Status)
}

func TestSubmit_NotAuthor(t *testing.T) {
	repo := new(mockPostRepo)
	svc := NewPostService(repo, new(mockCategoryRepo), nil)

	repo.On("FindByID", mock.Anything, "p1").
		Return(&domain.Post{ID: "p1", Status: domain.StatusDraft, AuthorID: "w1"}, nil)

	// even an admin cannot submit someone else's draft
	_, err := svc.Submit(context.Background(), adminSession("a1"), "p1")
	assert.ErrorIs(t, err, common.ErrForbidden)
}

func TestSubmit_AlreadyPending(t *testing.T) {
	repo := new(mockPostRepo)
	svc := NewPostService(repo, new(mockCategoryRepo), nil)

	repo.On("FindByID", mock.Anything, "p1").
		Return(&domain.Post{ID: "p1", Status: domain.StatusPending, AuthorID: "w1"}, nil)

	_, err := svc.Submit(context.Background(), writerSession("w1"), "p1")
	assert.ErrorIs(t, err, common.ErrInvalidTransition)
}

func TestPublish_SetsReviewerAndTimestamp(t *testing.T) {
	repo := new(mockPostRepo)
	svc := NewPostService(repo, new(mockCategoryRepo), nil)

	repo.On("FindByID", mock.Anything, "p1").
		Return(&domain.Post{ID: "p1", Status: domain.StatusPending, AuthorID: "w1"}, nil)
	repo.On("Update", mock.Anything, mock.Anything).Return(nil)

	post, err := svc.Publish(context.Background(), publisherSession("pub1"), "p1")
	assert.NoError(t, err)
	assert.Equal(t, domain.StatusPublished, post.Status)
	assert.NotNil(t, post.PublishedBy)
	assert.Equal(t, "pub1", *post.PublishedBy)
	assert.NotNil(t, post.PublishedAt)
}

func TestPublish_WriterForbidden(t *testing.T) {
	svc := NewPostService(new(mockPostRepo), new(mockCategoryRepo), nil)

	_, err := svc.Publish(context.Background(), writerSession("w1"), "p1")
	assert.ErrorIs(t, err, common.ErrForbidden)
}

func TestPublish_DraftNotAllowed(t *testing.T) {
	repo := new(mockPostRepo)
	svc := NewPostService(repo, new(mockCategoryRepo), nil)

	repo.On("FindByID", mock.Anything, "p1").
		Return(&domain.Post{ID: "p1", Status: domain.StatusDraft, AuthorID: "w1"}, nil)

	// drafts must pass through review even for admins
	_, err := svc.Publish(context.Background(), adminSession("a1"), "p1")
	assert.ErrorIs(t, err, common.ErrInvalidTransition)
}

func TestReject_PendingToRejected(t *testing.T) {
	repo := new(mockPostRepo)
	svc := NewPostService(repo, new(mockCategoryRepo), nil)

	repo.On("FindByID", mock.Anything, "p1").
		Return(&domain.Post{ID: "p1", Status: domain.StatusPending, AuthorID: "w1"}, nil)
	repo.On("Update", mock.Anything, mock.Anything).Return(nil)

	post, err := svc.Reject(context.Background(), publisherSession("pub1"), "p1")
	assert.NoError(t, err)
	assert.Equal(t, domain.StatusRejected, post.Status)
	assert.Nil(t, post.PublishedBy)
}

func TestReject_PublishedNotAllowed(t *testing.T) {
	repo := new(mockPostRepo)
	svc := NewPostService(repo, new(mockCategoryRepo), nil)

	repo.On("FindByID", mock.Anything, "p1").
		Return(&domain.Post{ID: "p1", Status: domain.StatusPublished, AuthorID: "w1"}, nil)

	_, err := svc.Reject(context.Background(), publisherSession("pub1"), "p1")
	assert.ErrorIs(t, err, common.ErrInvalidTransition)
}

func TestUpdate_AuthorEditsDraft(t *testing.T) {
	repo := new(mockPostRepo)
	svc := NewPostService(repo, new(mockCategoryRepo), nil)

	post := &domain.Post{ID: "p1", Title: "Old", Status: domain.StatusDraft, AuthorID: "w1"}
	repo.On("FindByID", mock.Anything, "p1").Return(post, nil)
	repo.On("Update", mock.Anything, mock.Anything).Return(nil)

	title := "New Title"
	updated, err := svc.Update(context.Background(), writerSession("w1"), "p1", &domain.UpdatePostRequest{Title: &title})
	assert.NoError(t, err)
	assert.Equal(t, "New Title", updated.Title)
}

func TestUpdate_AuthorCannotEditPending(t *testing.T) {
	repo := new(mockPostRepo)
	svc := NewPostService(repo, new(mockCategoryRepo), nil)

	repo.On("FindByID", mock.Anything, "p1").
		Return(&domain.Post{ID: "p1", Status: domain.StatusPending, AuthorID: "w1"}, nil)

	title := "Sneaky edit"
	_, err := svc.Update(context.Background(), writerSession("w1"), "p1", &domain.UpdatePostRequest{Title: &title})
	assert.ErrorIs(t, err, common.ErrForbidden)
}

func TestUpdate_PublisherEditsAnyStatus(t *testing.T) {
	repo := new(mockPostRepo)
	svc := NewPostService(repo, new(mockCategoryRepo), nil)

	post := &domain.Post{ID: "p1", Status: domain.StatusPending, AuthorID: "w1"}
	repo.On("FindByID", mock.Anything, "p1").Return(post, nil)
	repo.On("Update", mock.Anything, mock.Anything).Return(nil)

	title := "Reviewed title"
	updated, err := svc.Update(context.Background(), publisherSession("pub1"), "p1", &domain.UpdatePostRequest{Title: &title})
	assert.NoError(t, err)
	assert.Equal(t, "Reviewed title", updated.Title)
}

func TestDelete_AuthorOwnDraft(t *testing.T) {
	repo := new(mockPostRepo)
	svc := NewPostService(repo, new(mockCategoryRepo), nil)

	repo.On("FindByID", mock.Anything, "p1").
		Return(&domain.Post{ID: "p1", Status: domain.StatusDraft, AuthorID: "w1"}, nil)
	repo.On("Delete", mock.Anything, "p1").Return(nil)

	assert.NoError(t, svc.Delete(context.Background(), writerSession("w1"), "p1"))
	repo.AssertExpectations(t)
}

func TestDelete_AuthorPublishedForbidden(t *testing.T) {
	repo := new(mockPostRepo)
	svc := NewPostService(repo, new(mockCategoryRepo), nil)

	repo.On("FindByID", mock.Anything, "p1").
		Return(&domain.Post{ID: "p1", Status: domain.StatusPublished, AuthorID: "w1"}, nil)

	err := svc.Delete(context.Background(), writerSession("w1"), "p1")
	assert.ErrorIs(t, err, common.ErrForbidden)
}

func TestDelete_AdminAnyPost(t *testing.T) {
	repo := new(mockPostRepo)
	svc := NewPostService(repo, new(mockCategoryRepo), nil)

	repo.On("FindByID", mock.Anything, "p1").
		Return(&domain.Post{ID: "p1", Status: domain.StatusPublished, AuthorID: "w1"}, nil)
	repo.On("Delete", mock.Anything, "p1").Return(nil)

	assert.NoError(t, svc.Delete(context.Background(), adminSession("a1"), "p1"))
}

func TestListForDashboard_RequiresWrite(t *testing.T) {
	svc := NewPostService(new(mockPostRepo), new(mockCategoryRepo), nil)

	_, _, err := svc.ListForDashboard(context.Background(), nil, repository.FilterAll, 1, 20)
	assert.ErrorIs(t, err, common.ErrForbidden)
}

func TestListForDashboard_InvalidFilter(t *testing.T) {
	svc := NewPostService(new(mockPostRepo), new(mockCategoryRepo), nil)

	_, _, err := svc.ListForDashboard(context.Background(), writerSession("w1"), "rejected-or-bust", 1, 20)
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestListForDashboard_EmptyFilterMeansAll(t *testing.T) {
	repo := new(mockPostRepo)
	svc := NewPostService(repo, new(mockCategoryRepo), nil)

	repo.On("List", mock.Anything, repository.FilterAll, 1, 20).Return([]*domain.Post{}, int64(0), nil)

	_, _, err := svc.ListForDashboard(context.Background(), writerSession("w1"), "", 1, 20)
	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestListPublished_ClampsPagination(t *testing.T) {
	repo := new(mockPostRepo)
	svc := NewPostService(repo, new(mockCategoryRepo), nil)

	repo.On("List", mock.Anything, repository.FilterPublished, 1, 20).Return([]*domain.Post{}, int64(0), nil)

	_, _, err := svc.ListPublished(context.Background(), -3, 500)
	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestGet_AuthorOrPublisherOnly(t *testing.T) {
	repo := new(mockPostRepo)
	svc := NewPostService(repo, new(mockCategoryRepo), nil)

	repo.On("FindByID", mock.Anything, "p1").
		Return(&domain.Post{ID: "p1", Status: domain.StatusDraft, AuthorID: "w1"}, nil)

	_, err := svc.Get(context.Background(), writerSession("w2"), "p1")
	assert.ErrorIs(t, err, common.ErrForbidden)

	post, err := svc.Get(context.Background(), publisherSession("pub1"), "p1")
	assert.NoError(t, err)
	assert.Equal(t, "p1", post.ID)
}

func TestGet_RepoError(t *testing.T) {
	repo := new(mockPostRepo)
	svc := NewPostService(repo, new(mockCategoryRepo), nil)

	repo.On("FindByID", mock.Anything, "missing").Return(nil, common.ErrPostNotFound)

	_, err := svc.Get(context.Background(), writerSession("w1"), "missing")
	assert.ErrorIs(t, err, common.ErrPostNotFound)
}

func TestCreate_RepoFailure(t *testing.T) {
	repo := new(mockPostRepo)
	svc := NewPostService(repo, new(mockCategoryRepo), nil)

	repo.On("Create", mock.Anything, mock.Anything).Return(errors.New("db down"))

	_, err := svc.Create(context.Background(), writerSession("w1"), &domain.CreatePostRequest{Title: "T", Content: "c"})
	assert.Error(t, err)
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Flu Season Tips":         "flu-season-tips",
		"  Vitamin D & You!  ":    "vitamin-d-you",
		"COVID-19: What's Next?":  "covid-19-what-s-next",
		"---":                     "",
		"Understanding  Diabetes": "understanding-diabetes",
	}
	for input, want := range cases {
		assert.Equal(t, want, Slugify(input), "input %q", input)
	}
}
