package app

import (
	"fmt"
	"time"

	"notesapi/internal/auth"
	"notesapi/internal/cache"
	"notesapi/internal/config"
	"notesapi/internal/handlers"
	"notesapi/internal/mailer"
	"notesapi/internal/repo"
	"notesapi/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/swaggo/swag"
)

// Setup registers all routes on the given engine.
func Setup(r *gin.Engine, cfg config.Config, db *pgxpool.Pool, rdb *redis.Client) error {
	r.GET("/", rootHandler(cfg))
	r.GET("/health", healthHandler(cfg))
	r.GET("/version", versionHandler(cfg))
	r.GET("/swagger-doc.json", swaggerDocHandler())
	r.GET("/swagger", func(c *gin.Context) { c.Redirect(302, "/swagger/index.html") })
	r.GET("/swagger/*any", ginSwagger.WrapHandler(
		swaggerFiles.Handler,
		ginSwagger.URL("/swagger-doc.json"),
		ginSwagger.DefaultModelsExpandDepth(-1),
		ginSwagger.PersistAuthorization(true),
	))

	api := r.Group("/api")

	codec, err := auth.NewCodec([]byte(cfg.Auth.SecretKey), cfg.Auth.Algorithm)
	if err != nil {
		return fmt.Errorf("token codec: %w", err)
	}
	hasher := auth.NewHasher(cfg.Auth.BcryptCost)
	userRepo := repo.NewPGUserRepo(db)
	userCache := cache.NewUserCache(rdb, cache.UserTTL)
	gateway := auth.NewGateway(codec, userRepo, userCache,
		cfg.Auth.AccessTokenTTL.Duration(), cfg.Auth.RefreshTokenTTL.Duration())

	userSvc := service.NewUserService(userRepo, hasher)
	authHandler := handlers.NewAuthHandler(userSvc, gateway, newMailSender(cfg.Mail), cfg.App.BaseURL)
	registerAuthRoutes(api, authHandler)

	protected := api.Group("", auth.RequireUser(gateway))

	noteRepo := repo.NewPGNoteRepo(db)
	noteCache := cache.NewNoteCache(rdb, 60*time.Second)
	noteSvc := service.NewNoteService(noteRepo, noteCache)
	registerNoteRoutes(protected, handlers.NewNoteHandler(noteSvc))

	tagRepo := repo.NewPGTagRepo(db)
	tagSvc := service.NewTagService(tagRepo)
	registerTagRoutes(protected, handlers.NewTagHandler(tagSvc))

	return nil
}

func newMailSender(cfg config.MailConfig) mailer.Sender {
	if cfg.Host == "" {
		return mailer.LogSender{}
	}
	return mailer.NewSMTPSender(cfg)
}

func rootHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{
			"service": "Notes API",
			"version": cfg.App.Version,
			"env":     cfg.App.Env,
			"docs":    "/swagger/index.html",
			"spec":    "/swagger-doc.json",
			"health":  "/health",
			"api":     "/api",
		})
	}
}

func healthHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true, "env": cfg.App.Env})
	}
}

func versionHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{"version": cfg.App.Version})
	}
}

func swaggerDocHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		doc, err := swag.ReadDoc("swagger")
		if err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		c.Data(200, "application/json; charset=utf-8", []byte(doc))
	}
}

func registerAuthRoutes(api *gin.RouterGroup, h *handlers.AuthHandler) {
	api.POST("/auth/signup", h.Signup)
	api.POST("/auth/login", h.Login)
	api.GET("/auth/refresh_token", h.Refresh)
	api.GET("/auth/confirmed_email/:token", h.ConfirmEmail)
	api.POST("/auth/request_email", h.RequestEmail)
}

func registerNoteRoutes(api *gin.RouterGroup, h *handlers.NoteHandler) {
	api.GET("/notes", h.List)
	api.GET("/notes/:id", h.GetByID)
	api.POST("/notes", h.Create)
	api.PUT("/notes/:id", h.Update)
	api.PATCH("/notes/:id", h.UpdateStatus)
	api.DELETE("/notes/:id", h.Delete)
}

func registerTagRoutes(api *gin.RouterGroup, h *handlers.TagHandler) {
	api.GET("/tags", h.List)
	api.GET("/tags/:id", h.GetByID)
	api.POST("/tags", h.Create)
	api.PUT("/tags/:id", h.Update)
	api.DELETE("/tags/:id", h.Delete)
}
