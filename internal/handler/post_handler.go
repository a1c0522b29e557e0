package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/mediblog/mediblog-backend/internal/common"
	"github.com/mediblog/mediblog-backend/internal/domain"
	"github.com/mediblog/mediblog-backend/internal/middleware"
	"github.com/mediblog/mediblog-backend/internal/repository"
	"github.com/mediblog/mediblog-backend/internal/service"
	"github.com/mediblog/mediblog-backend/pkg/ginutil"
)

// PostHandler handles HTTP requests for posts
type PostHandler struct {
	service service.PostService
	search  service.SearchService
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(service service.PostService, search service.SearchService) *PostHandler {
	return &PostHandler{service: service, search: search}
}

// ListPublished godoc
// @Summary      List published posts
// @Description  Returns published posts, newest first, paginated
// @Tags         posts
// @Produce      json
// @Param        page   query  int  false  "Page number"       default(1)
// @Param        limit  query  int  false  "Items per page"    default(20)
// @Success      200  {object}  common.APIResponse{data=[]domain.Post}
// @Failure      500  {object}  common.APIResponse
// @Router       /posts [get]
func (h *PostHandler) ListPublished(c *gin.Context) {
	page := ginutil.QueryInt(c, "page", 1)
	limit := ginutil.QueryInt(c, "limit", 20)

	posts, total, err := h.service.ListPublished(c.Request.Context(), page, limit)
	if err != nil {
		common.ErrorResponse(c, 500, "Failed to fetch posts", err)
		return
	}

	common.SuccessWithMeta(c, posts, common.NewMeta(page, limit, total))
}

// GetBySlug godoc
// @Summary      Get a published post
// @Description  Returns a single published post by slug
// @Tags         posts
// @Produce      json
// @Param        slug  path  string  true  "Post slug"
// @Success      200  {object}  common.APIResponse{data=domain.Post}
// @Failure      404  {object}  common.APIResponse
// @Router       /posts/{slug} [get]
func (h *PostHandler) GetBySlug(c *gin.Context) {
	slug := c.Param("slug")

	post, err := h.service.GetPublishedBySlug(c.Request.Context(), slug)
	if errors.Is(err, common.ErrPostNotFound) {
		common.ErrorResponse(c, 404, "Post not found", err)
		return
	}
	if err != nil {
		common.ErrorResponse(c, 500, "Failed to fetch post", err)
		return
	}

	common.SuccessResponse(c, post)
}

// Search godoc
// @Summary      Search published posts
// @Description  Full-text search over published posts
// @Tags         posts
// @Produce      json
// @Param        q      query  string  true   "Search keyword"
// @Param        page   query  int     false  "Page number"     default(1)
// @Param        limit  query  int     false  "Items per page"  default(20)
// @Success      200  {object}  common.APIResponse{data=[]domain.Post}
// @Failure      400  {object}  common.APIResponse
// @Router       /posts/search [get]
func (h *PostHandler) Search(c *gin.Context) {
	keyword := c.Query("q")
	if keyword == "" {
		common.ErrorResponse(c, 400, "Search keyword is required", nil)
		return
	}
	page := ginutil.QueryInt(c, "page", 1)
	limit := ginutil.QueryInt(c, "limit", 20)

	posts, total, err := h.search.SearchPosts(c.Request.Context(), keyword, page, limit)
	if err != nil {
		common.ErrorResponse(c, 500, "Search failed", err)
		return
	}

	common.SuccessWithMeta(c, posts, common.NewMeta(page, limit, total))
}

// ListDashboard godoc
// @Summary      List posts for the dashboard
// @Description  Returns posts visible to the caller's role, optionally filtered by status
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Param        status  query  string  false  "Status filter (all, draft, pending, published)"  default(all)
// @Param        page    query  int     false  "Page number"     default(1)
// @Param        limit   query  int     false  "Items per page"  default(20)
// @Success      200  {object}  common.APIResponse{data=[]domain.Post}
// @Failure      400  {object}  common.APIResponse
// @Failure      403  {object}  common.APIResponse
// @Router       /dashboard/posts [get]
func (h *PostHandler) ListDashboard(c *gin.Context) {
	session := middleware.GetSession(c)
	filter := repository.PostFilter(c.DefaultQuery("status", "all"))
	page := ginutil.QueryInt(c, "page", 1)
	limit := ginutil.QueryInt(c, "limit", 20)

	posts, total, err := h.service.ListForDashboard(c.Request.Context(), session, filter, page, limit)
	if errors.Is(err, common.ErrInvalidInput) {
		common.ErrorResponse(c, 400, "Invalid status filter", err)
		return
	}
	if err != nil {
		h.writeError(c, "Failed to fetch posts", err)
		return
	}

	common.SuccessWithMeta(c, posts, common.NewMeta(page, limit, total))
}

// GetPost godoc
// @Summary      Get a post by ID
// @Description  Returns a post in any status, visible to its author or a publisher
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Post ID"
// @Success      200  {object}  common.APIResponse{data=domain.Post}
// @Failure      403  {object}  common.APIResponse
// @Failure      404  {object}  common.APIResponse
// @Router       /dashboard/posts/{id} [get]
func (h *PostHandler) GetPost(c *gin.Context) {
	session := middleware.GetSession(c)

	post, err := h.service.Get(c.Request.Context(), session, c.Param("id"))
	if err != nil {
		h.writeError(c, "Failed to fetch post", err)
		return
	}

	common.SuccessResponse(c, post)
}

// CreatePost godoc
// @Summary      Create a post
// @Description  Creates a post for the authenticated writer. New posts always start as drafts.
// @Tags         dashboard
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body  domain.CreatePostRequest  true  "Post content"
// @Success      201  {object}  common.APIResponse{data=domain.Post}
// @Failure      400  {object}  common.APIResponse
// @Failure      403  {object}  common.APIResponse
// @Failure      409  {object}  common.APIResponse
// @Router       /dashboard/posts [post]
func (h *PostHandler) CreatePost(c *gin.Context) {
	var req domain.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, 400, "Invalid request body", err)
		return
	}

	session := middleware.GetSession(c)

	post, err := h.service.Create(c.Request.Context(), session, &req)
	if err != nil {
		h.writeError(c, "Failed to create post", err)
		return
	}

	common.CreatedResponse(c, post)
}

// UpdatePost godoc
// @Summary      Update a post
// @Description  Edits a draft or rejected post as its author, or any post as a publisher
// @Tags         dashboard
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path  string                    true  "Post ID"
// @Param        request  body  domain.UpdatePostRequest  true  "Fields to change"
// @Success      200  {object}  common.APIResponse{data=domain.Post}
// @Failure      400  {object}  common.APIResponse
// @Failure      403  {object}  common.APIResponse
// @Failure      404  {object}  common.APIResponse
// @Failure      409  {object}  common.APIResponse
// @Router       /dashboard/posts/{id} [put]
func (h *PostHandler) UpdatePost(c *gin.Context) {
	var req domain.UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, 400, "Invalid request body", err)
		return
	}

	session := middleware.GetSession(c)

	post, err := h.service.Update(c.Request.Context(), session, c.Param("id"), &req)
	if err != nil {
		h.writeError(c, "Failed to update post", err)
		return
	}

	common.SuccessResponse(c, post)
}

// SubmitPost godoc
// @Summary      Submit a post for review
// @Description  Moves the author's draft or rejected post to pending
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Post ID"
// @Success      200  {object}  common.APIResponse{data=domain.Post}
// @Failure      403  {object}  common.APIResponse
// @Failure      404  {object}  common.APIResponse
// @Failure      409  {object}  common.APIResponse
// @Router       /dashboard/posts/{id}/submit [post]
func (h *PostHandler) SubmitPost(c *gin.Context) {
	session := middleware.GetSession(c)

	post, err := h.service.Submit(c.Request.Context(), session, c.Param("id"))
	middleware.CountTransition("submit", err)
	if err != nil {
		h.writeError(c, "Failed to submit post", err)
		return
	}

	common.SuccessResponse(c, post)
}

// PublishPost godoc
// @Summary      Publish a pending post
// @Description  Moves a pending post to published, recording the reviewer and timestamp
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Post ID"
// @Success      200  {object}  common.APIResponse{data=domain.Post}
// @Failure      403  {object}  common.APIResponse
// @Failure      404  {object}  common.APIResponse
// @Failure      409  {object}  common.APIResponse
// @Router       /dashboard/posts/{id}/publish [post]
func (h *PostHandler) PublishPost(c *gin.Context) {
	session := middleware.GetSession(c)

	post, err := h.service.Publish(c.Request.Context(), session, c.Param("id"))
	middleware.CountTransition("publish", err)
	if err != nil {
		h.writeError(c, "Failed to publish post", err)
		return
	}

	common.SuccessResponse(c, post)
}

// RejectPost godoc
// @Summary      Reject a pending post
// @Description  Sends a pending post back to its author as rejected
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Post ID"
// @Success      200  {object}  common.APIResponse{data=domain.Post}
// @Failure      403  {object}  common.APIResponse
// @Failure      404  {object}  common.APIResponse
// @Failure      409  {object}  common.APIResponse
// @Router       /dashboard/posts/{id}/reject [post]
func (h *PostHandler) RejectPost(c *gin.Context) {
	session := middleware.GetSession(c)

	post, err := h.service.Reject(c.Request.Context(), session, c.Param("id"))
	middleware.CountTransition("reject", err)
	if err != nil {
		h.writeError(c, "Failed to reject post", err)
		return
	}

	common.SuccessResponse(c, post)
}

// DeletePost godoc
// @Summary      Delete a post
// @Description  Deletes the author's own draft, or any post as an admin
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Post ID"
// @Success      200  {object}  common.APIResponse
// @Failure      403  {object}  common.APIResponse
// @Failure      404  {object}  common.APIResponse
// @Router       /dashboard/posts/{id} [delete]
func (h *PostHandler) DeletePost(c *gin.Context) {
	session := middleware.GetSession(c)

	if err := h.service.Delete(c.Request.Context(), session, c.Param("id")); err != nil {
		h.writeError(c, "Failed to delete post", err)
		return
	}

	common.SuccessResponse(c, gin.H{"message": "post deleted"})
}

// writeError maps service errors onto HTTP statuses
func (h *PostHandler) writeError(c *gin.Context, message string, err error) {
	switch {
	case errors.Is(err, common.ErrPostNotFound):
		common.ErrorResponse(c, 404, "Post not found", err)
	case errors.Is(err, common.ErrForbidden):
		common.ErrorResponse(c, 403, "Permission denied", err)
	case errors.Is(err, common.ErrInvalidTransition):
		common.ErrorResponse(c, 409, "Post status does not allow this action", err)
	case errors.Is(err, common.ErrSlugTaken):
		common.ErrorResponse(c, 409, "Slug already in use", err)
	case errors.Is(err, common.ErrCategoryNotFound):
		common.ErrorResponse(c, 400, "Unknown category", err)
	default:
		common.ErrorResponse(c, 500, message, err)
	}
}
