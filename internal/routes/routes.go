package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/mediblog/mediblog-backend/internal/handler"
	"github.com/mediblog/mediblog-backend/internal/middleware"
	"github.com/mediblog/mediblog-backend/pkg/jwt"
)

// Setup configures all API routes
func Setup(
	router *gin.Engine,
	authHandler *handler.AuthHandler,
	postHandler *handler.PostHandler,
	categoryHandler *handler.CategoryHandler,
	adminHandler *handler.AdminHandler,
	mediaHandler *handler.MediaHandler,
	jwtManager *jwt.Manager,
	denylist middleware.TokenDenylist,
	roles middleware.RoleResolver,
) {
	api := router.Group("/api/v1")

	authed := middleware.JWTAuth(jwtManager, denylist)
	session := middleware.ResolveSession(roles)

	// Authentication
	auth := api.Group("/auth")
	auth.POST("/login", authHandler.Login)
	auth.POST("/logout", authed, authHandler.Logout)
	auth.GET("/me", authed, session, authHandler.Me)

	// Public content
	posts := api.Group("/posts")
	posts.GET("", postHandler.ListPublished)
	posts.GET("/search", postHandler.Search)
	posts.GET("/:slug", postHandler.GetBySlug)

	api.GET("/categories", categoryHandler.ListCategories)

	// Dashboard (any authenticated user; per-post rules live in the service)
	dashboard := api.Group("/dashboard", authed, session)
	{
		dashboard.GET("/posts", middleware.RequireWrite(), postHandler.ListDashboard)
		dashboard.GET("/posts/:id", postHandler.GetPost)
		dashboard.POST("/posts", middleware.RequireWrite(), postHandler.CreatePost)
		dashboard.PUT("/posts/:id", middleware.RequireWrite(), postHandler.UpdatePost)
		dashboard.POST("/posts/:id/submit", middleware.RequireWrite(), postHandler.SubmitPost)
		dashboard.POST("/posts/:id/publish", middleware.RequirePublish(), postHandler.PublishPost)
		dashboard.POST("/posts/:id/reject", middleware.RequirePublish(), postHandler.RejectPost)
		dashboard.DELETE("/posts/:id", middleware.RequireWrite(), postHandler.DeletePost)

		dashboard.POST("/media", middleware.RequireWrite(), mediaHandler.UploadImage)
	}

	// Administration
	admin := api.Group("/admin", authed, session, middleware.RequireAdmin())
	{
		admin.GET("/roles", adminHandler.ListRoles)
		admin.POST("/roles", adminHandler.AssignRole)
		admin.DELETE("/roles/:user_id/:role", adminHandler.RemoveRole)

		admin.POST("/categories", categoryHandler.CreateCategory)
		admin.PUT("/categories/:id", categoryHandler.UpdateCategory)
		admin.DELETE("/categories/:id", categoryHandler.DeleteCategory)
	}
}
