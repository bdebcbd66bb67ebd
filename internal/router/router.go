package router

import (
	"context"

	"github.com/anonto42/socialgraph/backend/internal/auth"
	"github.com/anonto42/socialgraph/backend/internal/handlers"
	"github.com/anonto42/socialgraph/backend/internal/logging"
	"github.com/anonto42/socialgraph/backend/internal/middleware"
	"github.com/anonto42/socialgraph/backend/internal/ratelimit"
	"github.com/anonto42/socialgraph/backend/internal/repositories"
	"github.com/anonto42/socialgraph/backend/internal/services"
	"github.com/anonto42/socialgraph/backend/internal/storage"
	"github.com/anonto42/socialgraph/backend/internal/validators"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"
)

// Deps are the process-wide collaborators the routes are built from.
type Deps struct {
	DB       *gorm.DB
	Logger   logging.Logger
	Tokens   *auth.JWTManager
	Verifier auth.IdentityVerifier // nil disables Firebase login
	Store    storage.Store
	// UploadDir is served under /uploads when images are kept on disk.
	UploadDir string
	Limiter   ratelimit.Limiter // nil disables rate limiting

	FeedPageSize int
}

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo, log logging.Logger) {
	e.HideBanner = true
	e.HTTPErrorHandler = handlers.ErrorHandler(log)
	e.Validator = validators.NewValidator()

	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.RequestID())
	e.Use(middleware.RequestLogger(log))
	e.Use(eMiddleware.CORS())
	e.Use(eMiddleware.BodyLimit("6M"))
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, deps Deps) {
	ctx := context.Background()

	if sqlDB, err := deps.DB.DB(); err == nil {
		e.GET("/health", handlers.HealthCheck(sqlDB))
	} else {
		deps.Logger.Error(ctx, "health check disabled", "error", err)
	}

	if deps.UploadDir != "" {
		e.Static("/uploads", deps.UploadDir)
	}
	if opener, ok := deps.Store.(storage.Opener); ok {
		handlers.NewMediaHandler(opener).RegisterMediaRoutes(e)
	}

	// --- Initialize Repositories ---
	userRepo := repositories.NewUserRepository(deps.DB)
	postRepo := repositories.NewPostRepository(deps.DB)
	commentRepo := repositories.NewCommentRepository(deps.DB)
	likeRepo := repositories.NewLikeRepository(deps.DB)
	followRepo := repositories.NewFollowRepository(deps.DB)

	// --- Services ---
	graph := services.NewSocialGraph(followRepo, userRepo)
	engagement := services.NewEngagement(likeRepo, commentRepo, postRepo, userRepo)
	feed := services.NewFeed(postRepo, deps.FeedPageSize)
	posts := services.NewPosts(postRepo)
	accounts := services.NewAccounts(userRepo, deps.Tokens, deps.Verifier)
	users := services.NewUsers(userRepo, postRepo, graph)

	// --- Unprotected routes for authentication ---
	authGroup := e.Group("/api/v1/auth")
	handlers.NewAuthHandler(accounts).RegisterAuthRoutes(authGroup)

	// --- Protected routes ---
	api := e.Group("/api/v1")
	api.Use(middleware.Authenticate(deps.Tokens))
	if deps.Limiter != nil {
		api.Use(middleware.RateLimit(deps.Limiter, deps.Logger))
	}

	handlers.NewUserHandler(users).RegisterProfileRoutes(api)
	handlers.NewPostHandler(posts, feed, deps.Store).RegisterPostRoutes(api)
	handlers.NewFeedHandler(feed).RegisterFeedRoutes(api)
	handlers.NewFollowHandler(graph).RegisterFollowRoutes(api)
	handlers.NewCommentHandler(engagement).RegisterCommentRoutes(api)
	handlers.NewLikeHandler(engagement).RegisterLikeRoutes(api)

	deps.Logger.Info(ctx, "routes configured", "count", len(e.Routes()))
}
