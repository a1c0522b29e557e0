package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/mediblog/mediblog-backend/internal/common"
	"github.com/mediblog/mediblog-backend/internal/domain"
	"github.com/mediblog/mediblog-backend/internal/middleware"
	"github.com/mediblog/mediblog-backend/internal/service"
)

// CategoryHandler handles category requests
type CategoryHandler struct {
	service service.CategoryService
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(service service.CategoryService) *CategoryHandler {
	return &CategoryHandler{service: service}
}

// ListCategories godoc
// @Summary      List categories
// @Description  Returns all categories ordered by name
// @Tags         categories
// @Produce      json
// @Success      200  {object}  common.APIResponse{data=[]domain.Category}
// @Failure      500  {object}  common.APIResponse
// @Router       /categories [get]
func (h *CategoryHandler) ListCategories(c *gin.Context) {
	categories, err := h.service.List(c.Request.Context())
	if err != nil {
		common.ErrorResponse(c, 500, "Failed to fetch categories", err)
		return
	}

	common.SuccessResponse(c, categories)
}

// CreateCategory godoc
// @Summary      Create a category
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body  domain.CategoryRequest  true  "Category"
// @Success      201  {object}  common.APIResponse{data=domain.Category}
// @Failure      400  {object}  common.APIResponse
// @Failure      403  {object}  common.APIResponse
// @Failure      409  {object}  common.APIResponse
// @Router       /admin/categories [post]
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var req domain.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, 400, "Invalid request body", err)
		return
	}

	session := middleware.GetSession(c)

	category, err := h.service.Create(c.Request.Context(), session, &req)
	if err != nil {
		h.writeError(c, "Failed to create category", err)
		return
	}

	common.CreatedResponse(c, category)
}

// UpdateCategory godoc
// @Summary      Update a category
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path  string                  true  "Category ID"
// @Param        request  body  domain.CategoryRequest  true  "Category"
// @Success      200  {object}  common.APIResponse{data=domain.Category}
// @Failure      400  {object}  common.APIResponse
// @Failure      403  {object}  common.APIResponse
// @Failure      404  {object}  common.APIResponse
// @Router       /admin/categories/{id} [put]
func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	var req domain.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, 400, "Invalid request body", err)
		return
	}

	session := middleware.GetSession(c)

	category, err := h.service.Update(c.Request.Context(), session, c.Param("id"), &req)
	if err != nil {
		h.writeError(c, "Failed to update category", err)
		return
	}

	common.SuccessResponse(c, category)
}

// DeleteCategory godoc
// @Summary      Delete a category
// @Description  Removes a category and its post links
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Category ID"
// @Success      200  {object}  common.APIResponse
// @Failure      403  {object}  common.APIResponse
// @Failure      404  {object}  common.APIResponse
// @Router       /admin/categories/{id} [delete]
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	session := middleware.GetSession(c)

	if err := h.service.Delete(c.Request.Context(), session, c.Param("id")); err != nil {
		h.writeError(c, "Failed to delete category", err)
		return
	}

	common.SuccessResponse(c, gin.H{"message": "category deleted"})
}

func (h *CategoryHandler) writeError(c *gin.Context, message string, err error) {
	switch {
	case errors.Is(err, common.ErrCategoryNotFound):
		common.ErrorResponse(c, 404, "Category not found", err)
	case errors.Is(err, common.ErrForbidden):
		common.ErrorResponse(c, 403, "Admin access required", err)
	case errors.Is(err, common.ErrSlugTaken):
		common.ErrorResponse(c, 409, "Slug already in use", err)
	default:
		common.ErrorResponse(c, 500, message, err)
	}
}
