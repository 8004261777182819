package api

import (
	"net/http"

	"github.com/friendlines/interview-api/internal/api/handler"
	custommw "github.com/friendlines/interview-api/internal/api/middleware"
	"github.com/friendlines/interview-api/internal/config"
	"github.com/friendlines/interview-api/internal/llm"
	"github.com/friendlines/interview-api/internal/llm/gemini"
	"github.com/friendlines/interview-api/internal/llm/openai"
	"github.com/friendlines/interview-api/internal/repository/mongo"
	"github.com/friendlines/interview-api/internal/repository/postgres"
	"github.com/friendlines/interview-api/internal/repository/redis"
	"github.com/friendlines/interview-api/internal/security"
	"github.com/friendlines/interview-api/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"
)

// NewRouter creates and configures the HTTP router
func NewRouter(cfg *config.Config, db *postgres.DB, mongoClient *mongo.Client, redisClient *redis.Client) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommw.Logger)
	r.Use(middleware.Recoverer)

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	jwtManager := security.NewJWTManager(
		cfg.Auth.JWTSecret,
		cfg.Auth.AccessTokenTTL,
		cfg.Auth.RefreshTokenTTL,
	)

	// Repositories
	userRepo := postgres.NewUserRepository(db)
	sessionRepo := mongo.NewSessionRepository(mongoClient)

	rateLimiter := redis.NewRateLimiter(
		redisClient,
		cfg.RateLimit.RequestsPerMinute,
		cfg.RateLimit.Burst,
	)

	// LLM providers
	log.Info().Msgf("Initializing LLM providers. Default: %s", cfg.LLM.DefaultProvider)
	llmRouter := llm.NewRouter(cfg.LLM.DefaultProvider)
	llmRouter.RegisterProvider(openai.NewProvider(cfg.LLM.OpenAI))
	if cfg.LLM.Gemini.APIKey != "" {
		llmRouter.RegisterProvider(gemini.NewProvider(cfg.LLM.Gemini))
	}
	provider := llmRouter.Resolve(cfg.LLM.DefaultProvider)

	// Services
	authService := service.NewAuthService(userRepo, jwtManager)
	interviewService := service.NewInterviewService(
		sessionRepo,
		userRepo,
		provider,
		cfg.Interview,
		cfg.LLM.RequestTimeout,
		nil,
	)

	// Handlers
	authHandler := handler.NewAuthHandler(authService)
	interviewHandler := handler.NewInterviewHandler(interviewService)

	authMiddleware := custommw.NewAuthMiddleware(jwtManager)
	rateLimitMiddleware := custommw.NewRateLimitMiddleware(rateLimiter)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", handler.HealthCheck)
		r.Get("/ready", handler.ReadyCheck(db, mongoClient, redisClient))

		// Auth routes (public)
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.Refresh)
		})

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)
			r.Use(rateLimitMiddleware.Limit)

			r.Route("/interviews", func(r chi.Router) {
				r.Post("/", interviewHandler.Start)

				r.Route("/{interviewID}", func(r chi.Router) {
					r.Get("/", interviewHandler.Get)
					r.Post("/messages", interviewHandler.SendMessage)
					r.Delete("/", interviewHandler.Cancel)
				})
			})
		})
	})

	return r
}
