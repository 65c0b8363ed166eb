package router

import (
	"bookforum/internal/cache"
	"bookforum/internal/content"
	"bookforum/internal/forum"
	"bookforum/internal/handlers"
	"bookforum/internal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// Setup configures and returns the Gin router
func Setup(db *gorm.DB, responseCache *cache.ResponseCache, log zerolog.Logger) *gin.Engine {
	router := gin.Default()
	router.Use(cors.Default())

	// Initialize handlers
	replyManager := forum.NewReplyTreeManager(db, content.NewValidator(), log)
	authHandler := handlers.NewAuthHandler(db)
	postHandler := handlers.NewPostHandler(db, responseCache, log)
	replyHandler := handlers.NewReplyHandler(db, replyManager)
	categoryHandler := handlers.NewCategoryHandler(db)

	// API routes
	api := router.Group("/api")
	{
		// Authentication routes
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
		}

		// Posts routes
		posts := api.Group("/posts")
		{
			posts.GET("", middleware.OptionalAuthMiddleware(), postHandler.ListPosts)
			posts.GET("/:id", middleware.OptionalAuthMiddleware(), postHandler.GetPost)
			posts.GET("/:id/replies", middleware.OptionalAuthMiddleware(), replyHandler.ListReplies)
			posts.POST("/:id/replies", middleware.AuthMiddleware(), replyHandler.CreateReply)
		}

		// Categories routes
		api.GET("/categories", middleware.OptionalAuthMiddleware(), categoryHandler.ListCategories)
	}

	return router
}
