package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/mediblog/mediblog-backend/internal/domain"
	"github.com/mediblog/mediblog-backend/internal/handler"
	"github.com/mediblog/mediblog-backend/internal/migration"
	"github.com/mediblog/mediblog-backend/internal/repository"
	"github.com/mediblog/mediblog-backend/internal/routes"
	"github.com/mediblog/mediblog-backend/internal/service"
	"github.com/mediblog/mediblog-backend/pkg/jwt"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// WorkflowSuite drives the post lifecycle through the HTTP API with an
// in-memory database. Role resolution runs over the user_roles table
// (sqlite has no get_user_role function, which exercises the fallback).
type WorkflowSuite struct {
	suite.Suite
	db     *gorm.DB
	router *gin.Engine

	writerToken    string
	writer2Token   string
	publisherToken string
	adminToken     string
	noneToken      string
}

func TestWorkflowSuite(t *testing.T) {
	suite.Run(t, new(WorkflowSuite))
}

func (s *WorkflowSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	s.Require().NoError(err)
	s.db = db
	s.Require().NoError(migration.Run(db))

	// Role assignments
	for _, assignment := range []domain.UserRole{
		{UserID: "writer-1", Role: domain.RoleWriter},
		{UserID: "writer-2", Role: domain.RoleWriter},
		{UserID: "publisher-1", Role: domain.RolePublisher},
		{UserID: "admin-1", Role: domain.RoleAdmin},
	} {
		s.Require().NoError(db.Create(&assignment).Error)
	}

	jwtManager := jwt.NewManager("test-secret-key-for-integration-tests", 900, 86400)
	s.writerToken = s.mintToken(jwtManager, "writer-1")
	s.writer2Token = s.mintToken(jwtManager, "writer-2")
	s.publisherToken = s.mintToken(jwtManager, "publisher-1")
	s.adminToken = s.mintToken(jwtManager, "admin-1")
	s.noneToken = s.mintToken(jwtManager, "reader-1")

	postRepo := repository.NewPostRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)

	roleService := service.NewRoleService(roleRepo)
	searchService := service.NewSearchService(nil, "posts", postRepo)
	postService := service.NewPostService(postRepo, categoryRepo, searchService)
	categoryService := service.NewCategoryService(categoryRepo)
	mediaService := service.NewMediaService(nil)

	router := gin.New()
	routes.Setup(router,
		handler.NewAuthHandler(nil, jwtManager),
		handler.NewPostHandler(postService, searchService),
		handler.NewCategoryHandler(categoryService),
		handler.NewAdminHandler(roleService),
		handler.NewMediaHandler(mediaService),
		jwtManager, nil, roleService,
	)
	s.router = router
}

func (s *WorkflowSuite) mintToken(m *jwt.Manager, userID string) string {
	token, err := m.GenerateAccessToken(userID, userID+"@example.com")
	s.Require().NoError(err)
	return token
}

type apiResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (s *WorkflowSuite) request(method, path, token string, body any) (*httptest.ResponseRecorder, apiResponse) {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var parsed apiResponse
	_ = json.Unmarshal(w.Body.Bytes(), &parsed)
	return w, parsed
}

func (s *WorkflowSuite) decodePost(raw json.RawMessage) domain.Post {
	var post domain.Post
	s.Require().NoError(json.Unmarshal(raw, &post))
	return post
}

func (s *WorkflowSuite) TestFullLifecycle() {
	// Writer creates a draft
	w, resp := s.request(http.MethodPost, "/api/v1/dashboard/posts", s.writerToken, gin.H{
		"title":   "Flu Season Tips",
		"content": "Wash your hands and get vaccinated.",
		"excerpt": "Practical flu prevention.",
	})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	post := s.decodePost(resp.Data)
	s.Equal(domain.StatusDraft, post.Status)
	s.Equal("flu-season-tips", post.Slug)
	s.Equal("writer-1", post.AuthorID)

	id := post.ID

	// Not visible publicly while a draft
	w, _ = s.request(http.MethodGet, "/api/v1/posts/flu-season-tips", "", nil)
	s.Equal(http.StatusNotFound, w.Code)

	// Writer cannot publish directly
	w, _ = s.request(http.MethodPost, "/api/v1/dashboard/posts/"+id+"/publish", s.writerToken, nil)
	s.Equal(http.StatusForbidden, w.Code)

	// Publisher cannot publish a draft either; it must be submitted first
	w, _ = s.request(http.MethodPost, "/api/v1/dashboard/posts/"+id+"/publish", s.publisherToken, nil)
	s.Equal(http.StatusConflict, w.Code)

	// Writer submits for review
	w, resp = s.request(http.MethodPost, "/api/v1/dashboard/posts/"+id+"/submit", s.writerToken, nil)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	s.Equal(domain.StatusPending, s.decodePost(resp.Data).Status)

	// Author cannot edit while pending
	w, _ = s.request(http.MethodPut, "/api/v1/dashboard/posts/"+id, s.writerToken, gin.H{"title": "Sneaky edit"})
	s.Equal(http.StatusForbidden, w.Code)

	// Publisher rejects with the post going back to the author
	w, resp = s.request(http.MethodPost, "/api/v1/dashboard/posts/"+id+"/reject", s.publisherToken, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Equal(domain.StatusRejected, s.decodePost(resp.Data).Status)

	// Author revises and resubmits
	w, _ = s.request(http.MethodPut, "/api/v1/dashboard/posts/"+id, s.writerToken, gin.H{"content": "Updated advice."})
	s.Equal(http.StatusOK, w.Code)
	w, _ = s.request(http.MethodPost, "/api/v1/dashboard/posts/"+id+"/submit", s.writerToken, nil)
	s.Equal(http.StatusOK, w.Code)

	// Publisher approves
	w, resp = s.request(http.MethodPost, "/api/v1/dashboard/posts/"+id+"/publish", s.publisherToken, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	published := s.decodePost(resp.Data)
	s.Equal(domain.StatusPublished, published.Status)
	s.Require().NotNil(published.PublishedBy)
	s.Equal("publisher-1", *published.PublishedBy)
	s.NotNil(published.PublishedAt)

	// Now publicly readable
	w, resp = s.request(http.MethodGet, "/api/v1/posts/flu-season-tips", "", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Equal(id, s.decodePost(resp.Data).ID)

	// And discoverable through search (SQL fallback path)
	w, resp = s.request(http.MethodGet, "/api/v1/posts/search?q=flu", "", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var results []domain.Post
	s.Require().NoError(json.Unmarshal(resp.Data, &results))
	s.Require().Len(s.filterByID(results, id), 1)

	// Author cannot delete a published post; admin can
	w, _ = s.request(http.MethodDelete, "/api/v1/dashboard/posts/"+id, s.writerToken, nil)
	s.Equal(http.StatusForbidden, w.Code)
	w, _ = s.request(http.MethodDelete, "/api/v1/dashboard/posts/"+id, s.adminToken, nil)
	s.Equal(http.StatusOK, w.Code)
}

func (s *WorkflowSuite) filterByID(posts []domain.Post, id string) []domain.Post {
	var out []domain.Post
	for _, p := range posts {
		if p.ID == id {
			out = append(out, p)
		}
	}
	return out
}

func (s *WorkflowSuite) TestUnprivilegedUserIsLockedOut() {
	// Valid token, but no role assignment at all
	w, _ := s.request(http.MethodGet, "/api/v1/dashboard/posts", s.noneToken, nil)
	s.Equal(http.StatusForbidden, w.Code)

	w, _ = s.request(http.MethodPost, "/api/v1/dashboard/posts", s.noneToken, gin.H{
		"title": "Not allowed", "content": "nope",
	})
	s.Equal(http.StatusForbidden, w.Code)

	// And no token at all is unauthorized
	w, _ = s.request(http.MethodGet, "/api/v1/dashboard/posts", "", nil)
	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *WorkflowSuite) TestAuthorIsolation() {
	w, resp := s.request(http.MethodPost, "/api/v1/dashboard/posts", s.writerToken, gin.H{
		"title":   "Private Draft",
		"content": "Only mine.",
	})
	s.Require().Equal(http.StatusCreated, w.Code)
	id := s.decodePost(resp.Data).ID

	// Another writer cannot read, submit or delete someone else's draft
	w, _ = s.request(http.MethodGet, "/api/v1/dashboard/posts/"+id, s.writer2Token, nil)
	s.Equal(http.StatusForbidden, w.Code)
	w, _ = s.request(http.MethodPost, "/api/v1/dashboard/posts/"+id+"/submit", s.writer2Token, nil)
	s.Equal(http.StatusForbidden, w.Code)
	w, _ = s.request(http.MethodDelete, "/api/v1/dashboard/posts/"+id, s.writer2Token, nil)
	s.Equal(http.StatusForbidden, w.Code)

	// The author can clean up their own draft
	w, _ = s.request(http.MethodDelete, "/api/v1/dashboard/posts/"+id, s.writerToken, nil)
	s.Equal(http.StatusOK, w.Code)
}

func (s *WorkflowSuite) TestDuplicateSlugConflict() {
	w, _ := s.request(http.MethodPost, "/api/v1/dashboard/posts", s.writerToken, gin.H{
		"title": "Hydration Myths", "content": "Eight glasses?",
	})
	s.Require().Equal(http.StatusCreated, w.Code)

	w, resp := s.request(http.MethodPost, "/api/v1/dashboard/posts", s.writer2Token, gin.H{
		"title": "Hydration Myths", "content": "A different take.",
	})
	s.Equal(http.StatusConflict, w.Code)
	s.Require().NotNil(resp.Error)
	s.Equal("CONFLICT", resp.Error.Code)
}

func (s *WorkflowSuite) TestRoleAdministration() {
	// Only admins may touch role assignments
	w, _ := s.request(http.MethodGet, "/api/v1/admin/roles", s.publisherToken, nil)
	s.Equal(http.StatusForbidden, w.Code)

	w, _ = s.request(http.MethodPost, "/api/v1/admin/roles", s.adminToken, gin.H{
		"user_id": "newcomer-1", "role": "writer",
	})
	s.Equal(http.StatusOK, w.Code)

	// Granting the same role twice is benign
	w, resp := s.request(http.MethodPost, "/api/v1/admin/roles", s.adminToken, gin.H{
		"user_id": "newcomer-1", "role": "writer",
	})
	s.Equal(http.StatusOK, w.Code)
	var grant struct {
		AlreadyAssigned bool `json:"already_assigned"`
	}
	s.Require().NoError(json.Unmarshal(resp.Data, &grant))
	s.True(grant.AlreadyAssigned)

	w, _ = s.request(http.MethodDelete, "/api/v1/admin/roles/newcomer-1/writer", s.adminToken, nil)
	s.Equal(http.StatusOK, w.Code)

	// Unknown role names are rejected up front
	w, _ = s.request(http.MethodPost, "/api/v1/admin/roles", s.adminToken, gin.H{
		"user_id": "newcomer-1", "role": "editor",
	})
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *WorkflowSuite) TestCategoryAdministration() {
	// Seeded categories are public
	w, resp := s.request(http.MethodGet, "/api/v1/categories", "", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var categories []domain.Category
	s.Require().NoError(json.Unmarshal(resp.Data, &categories))
	s.NotEmpty(categories)

	// Writers cannot manage them
	w, _ = s.request(http.MethodPost, "/api/v1/admin/categories", s.writerToken, gin.H{"name": "Fitness"})
	s.Equal(http.StatusForbidden, w.Code)

	// Admins can, and the slug is derived from the name
	w, resp = s.request(http.MethodPost, "/api/v1/admin/categories", s.adminToken, gin.H{"name": "Sleep & Rest"})
	s.Require().Equal(http.StatusCreated, w.Code)
	var category domain.Category
	s.Require().NoError(json.Unmarshal(resp.Data, &category))
	s.Equal("sleep-rest", category.Slug)

	w, _ = s.request(http.MethodDelete, "/api/v1/admin/categories/"+category.ID, s.adminToken, nil)
	s.Equal(http.StatusOK, w.Code)
}

func (s *WorkflowSuite) TestPostWithCategories() {
	w, resp := s.request(http.MethodGet, "/api/v1/categories", "", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var categories []domain.Category
	s.Require().NoError(json.Unmarshal(resp.Data, &categories))
	s.Require().NotEmpty(categories)

	w, resp = s.request(http.MethodPost, "/api/v1/dashboard/posts", s.writerToken, gin.H{
		"title":        fmt.Sprintf("Categorized %d", len(categories)),
		"content":      "Tagged content.",
		"category_ids": []string{categories[0].ID},
	})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	post := s.decodePost(resp.Data)
	s.Require().Len(post.Categories, 1)
	s.Equal(categories[0].ID, post.Categories[0].ID)

	// Unknown category ids are refused
	w, _ = s.request(http.MethodPost, "/api/v1/dashboard/posts", s.writerToken, gin.H{
		"title":        "Bad Categories",
		"content":      "x",
		"category_ids": []string{"does-not-exist"},
	})
	s.Equal(http.StatusBadRequest, w.Code)
}
