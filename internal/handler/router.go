package handler

import (
	"log/slog"

	"github.com/kmabbott81/ai-hub-production/internal/handler/middleware"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

// NewRouter wires the HTTP surface: public auth routes, then the
// authenticated API group behind JWT and the redis rate limit.
func NewRouter(
	auth *AuthHandler,
	workspace *WorkspaceHandler,
	chat *ChatHandler,
	authenticator middleware.Authenticator,
	redisClient *redis.Client,
	rateLimitQPS int,
	logger *slog.Logger,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	if redisClient != nil {
		r.Use(middleware.RateLimit(redisClient, rateLimitQPS, logger))
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	authGroup := r.Group("/api/auth")
	{
		authGroup.POST("/register", auth.Register)
		authGroup.POST("/login", auth.Login)
		authGroup.POST("/refresh", auth.Refresh)
	}

	api := r.Group("/api", middleware.JwtAuth(authenticator))
	{
		api.POST("/auth/mfa/enable", auth.EnableMFA)
		api.POST("/auth/mfa/verify", auth.VerifyMFA)

		api.POST("/projects", workspace.CreateProject)
		api.GET("/projects", workspace.ListProjects)
		api.DELETE("/projects/:id", workspace.DeleteProject)
		api.POST("/projects/:id/files", workspace.AddFile)
		api.GET("/projects/:id/files", workspace.ListFiles)

		api.POST("/threads", workspace.CreateThread)
		api.GET("/threads", workspace.ListThreads)
		api.DELETE("/threads/:id", workspace.DeleteThread)
		api.GET("/threads/:id/messages", workspace.ListMessages)

		api.GET("/providers", chat.Providers)
		api.POST("/chat", chat.Dispatch)
	}

	return r
}
