// internal/router/router.go
package router

import (
	"fmt"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/enescucu1/auto/internal/config"
	"github.com/enescucu1/auto/internal/graphql"
	"github.com/enescucu1/auto/internal/handlers"
	"github.com/enescucu1/auto/internal/middleware"
	"github.com/enescucu1/auto/internal/repository"
	"github.com/enescucu1/auto/internal/services"
	"github.com/enescucu1/auto/internal/utils"
)

func Initialize(db *gorm.DB, cfg *config.Config) (*gin.Engine, error) {
	// Initialize services
	repo := repository.NewAutoRepository(db)
	mailService := services.NewMailService(&cfg.Mail)
	readService := services.NewReadService(repo)
	writeService := services.NewWriteService(repo, mailService)

	// Initialize handlers
	readHandler := handlers.NewAutoReadHandler(readService)
	writeHandler := handlers.NewAutoWriteHandler(writeService, cfg.Upload.MaxFileSize)

	schema, err := graphql.NewSchema(readService, writeService)
	if err != nil {
		return nil, fmt.Errorf("failed to build GraphQL schema: %w", err)
	}

	utils.SetJWTSecret(cfg.JWT.SecretKey)

	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger())
	r.Use(cors.Default())
	r.Use(middleware.GeneralRateLimit())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	// REST routes
	rest := r.Group("/rest")
	{
		rest.GET("", readHandler.Search)
		rest.GET("/:id", readHandler.GetByID)
		rest.GET("/file/:id", readHandler.GetFile)

		// File upload is open in the current configuration.
		rest.POST("/:id", middleware.UploadRateLimit(), writeHandler.UploadFile)

		rest.POST("", middleware.RolesRequired(middleware.RoleAdmin, middleware.RoleUser), writeHandler.Create)
		rest.PUT("/:id", middleware.RolesRequired(middleware.RoleAdmin, middleware.RoleUser), writeHandler.Update)
		rest.DELETE("/:id", middleware.RolesRequired(middleware.RoleAdmin), writeHandler.Delete)
	}

	// GraphQL: auth happens per field inside the resolvers.
	r.POST("/graphql", middleware.ClaimsToContext(), graphql.Handler(schema))

	logrus.Info("Routes registered")
	return r, nil
}
