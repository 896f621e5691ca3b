package http

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/khoahotran/devconnector/pkg/auth"
	"github.com/khoahotran/devconnector/pkg/logger"
)

type Handlers struct {
	Auth    *AuthHandler
	Profile *ProfileHandler
	Post    *PostHandler
}

type RouterConfig struct {
	AuthHeader     string
	AllowedOrigins []string
}

func corsMiddleware(cfg RouterConfig) gin.HandlerFunc {
	c := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", cfg.AuthHeader},
		ExposeHeaders: []string{"Content-Length", "Content-Type"},
		MaxAge:        12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 0 {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = cfg.AllowedOrigins
		c.AllowCredentials = true
	}
	return cors.New(c)
}

// NewRouter mounts every route under /api. Mutating routes and the post reads sit behind
// the credential header.
func NewRouter(h Handlers, jwtSvc *auth.JWTService, cfg RouterConfig, log logger.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger(log), corsMiddleware(cfg), ErrorMiddleware(log))

	authMiddleware := AuthMiddleware(jwtSvc, cfg.AuthHeader, log)

	api := router.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "UP"}) })

		api.POST("/users", h.Auth.Register)

		authGroup := api.Group("/auth")
		{
			authGroup.POST("", h.Auth.Login)
			authGroup.GET("", authMiddleware, h.Auth.Me)
		}

		profiles := api.Group("/profile")
		{
			profiles.GET("", h.Profile.ListProfiles)
			profiles.GET("/user/:user_id", h.Profile.GetProfileByUser)

			private := profiles.Group("")
			private.Use(authMiddleware)
			{
				private.POST("", h.Profile.UpsertProfile)
				private.GET("/me", h.Profile.GetOwnProfile)
				private.DELETE("", h.Profile.DeleteProfile)
				private.PUT("/experience", h.Profile.AddExperience)
				private.DELETE("/experience/:exp_id", h.Profile.RemoveExperience)
				private.PUT("/education", h.Profile.AddEducation)
				private.DELETE("/education/:edu_id", h.Profile.RemoveEducation)
			}
		}

		posts := api.Group("/posts")
		posts.Use(authMiddleware)
		{
			posts.POST("", h.Post.CreatePost)
			posts.GET("", h.Post.ListPosts)
			posts.GET("/:id", h.Post.GetPost)
			posts.DELETE("/:id", h.Post.DeletePost)
			posts.PUT("/like/:id", h.Post.LikePost)
			posts.PUT("/unlike/:id", h.Post.UnlikePost)
			posts.PUT("/comment/:id", h.Post.AddComment)
			posts.DELETE("/comment/:id/:comment_id", h.Post.RemoveComment)
		}
	}

	return router
}
