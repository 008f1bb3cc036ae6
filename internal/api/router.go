package api

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	swagger "github.com/go-swagno/swagno-fiber/swagger"
	"github.com/lumeon/visage/internal/api/docs"
	"github.com/lumeon/visage/internal/api/handler"
	"github.com/lumeon/visage/internal/api/middleware"
	"github.com/lumeon/visage/internal/token"
)

type Dependencies struct {
	AuthService handler.AuthService
	JWTService  *token.JWTService
}

type Router struct {
	app         *fiber.App
	logger      *slog.Logger
	deps        *Dependencies
	rateLimiter *middleware.RateLimiter
}

func NewRouter(logger *slog.Logger, deps *Dependencies) *Router {
	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler(logger),
		AppName:      "Visage API",
		BodyLimit:    16 * 1024 * 1024,
	})

	return &Router{
		app:    app,
		logger: logger,
		deps:   deps,
	}
}

func (r *Router) Setup() {
	// Global middlewares
	r.app.Use(requestid.New())
	r.app.Use(middleware.Recover(r.logger))
	r.app.Use(middleware.Logger(r.logger))
	r.app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))

	// Swagger documentation (no auth required)
	sw := docs.NewSwagger()
	swagger.SwaggerHandler(r.app, sw.MustToJson())

	// Health check endpoints (no auth required)
	healthHandler := handler.NewHealthHandler()
	r.app.Get("/health", healthHandler.Health)
	r.app.Get("/ready", healthHandler.Ready)

	// API v1 group
	v1 := r.app.Group("/v1")

	// Only configure application routes if dependencies were provided
	if r.deps != nil {
		// Rate limiting (per client IP). Authentication attempts are the
		// expensive path, so the limiter sits in front of everything.
		r.rateLimiter = middleware.NewRateLimiter(middleware.DefaultRateLimiterConfig())
		v1.Use(r.rateLimiter.Handler())

		authHandler := handler.NewAuthHandler(r.deps.AuthService, r.deps.JWTService, r.logger)
		faceHandler := handler.NewFaceHandler(r.deps.AuthService, r.logger)
		thresholdHandler := handler.NewThresholdHandler(r.deps.AuthService, r.logger)

		// Public routes
		v1.Post("/register", authHandler.Register)
		v1.Post("/auth/login", authHandler.Login)
		v1.Post("/auth/refresh", authHandler.Refresh)
		v1.Post("/faces/validate", faceHandler.Validate)

		// Protected routes (JWT issued at login)
		protected := v1.Group("", middleware.Auth(middleware.AuthDependencies{
			JWTService: r.deps.JWTService,
			Logger:     r.logger,
		}))

		protected.Post("/faces", faceHandler.Enroll)
		protected.Get("/faces/count", faceHandler.Count)
		protected.Get("/admin/threshold", thresholdHandler.Get)
		protected.Put("/admin/threshold", thresholdHandler.Update)
	}
}

func (r *Router) App() *fiber.App {
	return r.app
}

func (r *Router) Listen(addr string) error {
	return r.app.Listen(addr)
}

func (r *Router) Shutdown() error {
	// Stop rate limiter cleanup goroutine
	if r.rateLimiter != nil {
		r.rateLimiter.Stop()
	}

	return r.app.Shutdown()
}
