package handler

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mediblog/mediblog-backend/internal/common"
	"github.com/mediblog/mediblog-backend/internal/middleware"
	"github.com/mediblog/mediblog-backend/internal/service"
	"github.com/mediblog/mediblog-backend/pkg/jwt"
)

// AuthHandler handles authentication requests
type AuthHandler struct {
	service service.AuthService
	jwt     *jwt.Manager
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(service service.AuthService, jwtManager *jwt.Manager) *AuthHandler {
	return &AuthHandler{
		service: service,
		jwt:     jwtManager,
	}
}

// LoginRequest login request
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login godoc
// @Summary      Sign in
// @Description  Authenticates against the identity provider and returns tokens plus resolved capabilities
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      LoginRequest  true  "Credentials"
// @Success      200  {object}  common.APIResponse{data=service.LoginResponse}
// @Failure      400  {object}  common.APIResponse
// @Failure      401  {object}  common.APIResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, 400, "Invalid request body", err)
		return
	}

	response, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	if errors.Is(err, common.ErrInvalidCredentials) {
		common.ErrorResponse(c, 401, "Invalid credentials", err)
		return
	}
	if err != nil {
		common.ErrorResponse(c, 500, "Login failed", err)
		return
	}

	common.SuccessResponse(c, response)
}

// Logout godoc
// @Summary      Sign out
// @Description  Revokes the provider session and denylists the access token for its remaining lifetime
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  common.APIResponse
// @Failure      401  {object}  common.APIResponse
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	token := middleware.GetToken(c)

	// the auth middleware already verified the token; re-parse only to
	// read its expiry for the denylist TTL
	untilExpiry := time.Duration(0)
	if claims, err := h.jwt.VerifyToken(token); err == nil && claims.ExpiresAt != nil {
		untilExpiry = time.Until(claims.ExpiresAt.Time)
	}

	if err := h.service.Logout(c.Request.Context(), token, untilExpiry); err != nil {
		common.ErrorResponse(c, 500, "Logout failed", err)
		return
	}

	common.SuccessResponse(c, gin.H{"message": "signed out"})
}

// Me godoc
// @Summary      Current session
// @Description  Returns the authenticated user's identity, role and capabilities
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  common.APIResponse
// @Failure      401  {object}  common.APIResponse
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	session := middleware.GetSession(c)
	if session == nil {
		common.ErrorResponse(c, 401, "Authentication required", nil)
		return
	}

	common.SuccessResponse(c, gin.H{
		"user_id":      session.UserID,
		"email":        session.Email,
		"role":         session.Role,
		"capabilities": session.Capabilities(),
	})
}
