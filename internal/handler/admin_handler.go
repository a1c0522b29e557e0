package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/mediblog/mediblog-backend/internal/common"
	"github.com/mediblog/mediblog-backend/internal/domain"
	"github.com/mediblog/mediblog-backend/internal/middleware"
	"github.com/mediblog/mediblog-backend/internal/service"
)

// AdminHandler handles role administration
type AdminHandler struct {
	roles service.RoleService
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(roles service.RoleService) *AdminHandler {
	return &AdminHandler{roles: roles}
}

// ListRoles godoc
// @Summary      List role assignments
// @Description  Returns all role assignments, newest first
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  common.APIResponse{data=[]domain.UserRole}
// @Failure      403  {object}  common.APIResponse
// @Router       /admin/roles [get]
func (h *AdminHandler) ListRoles(c *gin.Context) {
	session := middleware.GetSession(c)

	assignments, err := h.roles.ListAssignments(c.Request.Context(), session)
	if errors.Is(err, common.ErrForbidden) {
		common.ErrorResponse(c, 403, "Admin access required", err)
		return
	}
	if err != nil {
		common.ErrorResponse(c, 500, "Failed to list roles", err)
		return
	}

	common.SuccessResponse(c, assignments)
}

// AssignRole godoc
// @Summary      Assign a role
// @Description  Grants a role to a user. Assigning an already-held role succeeds without change.
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body  domain.AssignRoleRequest  true  "User and role"
// @Success      200  {object}  common.APIResponse
// @Failure      400  {object}  common.APIResponse
// @Failure      403  {object}  common.APIResponse
// @Router       /admin/roles [post]
func (h *AdminHandler) AssignRole(c *gin.Context) {
	var req domain.AssignRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, 400, "Invalid request body", err)
		return
	}

	session := middleware.GetSession(c)

	alreadyAssigned, err := h.roles.Assign(c.Request.Context(), session, req.UserID, domain.Role(req.Role))
	if errors.Is(err, common.ErrForbidden) {
		common.ErrorResponse(c, 403, "Admin access required", err)
		return
	}
	if errors.Is(err, common.ErrInvalidRole) {
		common.ErrorResponse(c, 400, "Invalid role", err)
		return
	}
	if err != nil {
		common.ErrorResponse(c, 500, "Failed to assign role", err)
		return
	}

	common.SuccessResponse(c, gin.H{
		"user_id":          req.UserID,
		"role":             req.Role,
		"already_assigned": alreadyAssigned,
	})
}

// RemoveRole godoc
// @Summary      Remove a role
// @Description  Revokes a role from a user
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        user_id  path  string  true  "User ID"
// @Param        role     path  string  true  "Role name"
// @Success      200  {object}  common.APIResponse
// @Failure      400  {object}  common.APIResponse
// @Failure      403  {object}  common.APIResponse
// @Router       /admin/roles/{user_id}/{role} [delete]
func (h *AdminHandler) RemoveRole(c *gin.Context) {
	session := middleware.GetSession(c)
	userID := c.Param("user_id")
	role, err := domain.ParseRole(c.Param("role"))
	if err != nil {
		common.ErrorResponse(c, 400, "Invalid role", err)
		return
	}

	err = h.roles.Remove(c.Request.Context(), session, userID, role)
	if errors.Is(err, common.ErrForbidden) {
		common.ErrorResponse(c, 403, "Admin access required", err)
		return
	}
	if err != nil {
		common.ErrorResponse(c, 500, "Failed to remove role", err)
		return
	}

	common.SuccessResponse(c, gin.H{"message": "role removed"})
}
