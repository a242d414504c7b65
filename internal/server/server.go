package server

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/ontrakhq/ontrak/internal/config"
	"github.com/ontrakhq/ontrak/internal/domain"
	"github.com/ontrakhq/ontrak/internal/handler"
	"github.com/ontrakhq/ontrak/internal/middleware"
	"github.com/ontrakhq/ontrak/internal/repository"
	"github.com/ontrakhq/ontrak/internal/service"
	"github.com/ontrakhq/ontrak/internal/telemetry"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

// AppDependencies holds the dependencies required to start the application
type AppDependencies struct {
	Config      *config.Config
	MongoDB     *mongo.Database
	RedisClient *redis.Client
}

// NewApp creates and configures the Fiber application with the given dependencies
func NewApp(deps AppDependencies) *fiber.App {
	converter, err := domain.NewTimezoneConverter(
		deps.Config.Scheduling.BaseTimezone,
		deps.Config.Scheduling.ViewerTimezones,
	)
	if err != nil {
		log.Fatalf("Failed to build timezone converter: %v", err)
	}
	baseLoc, err := time.LoadLocation(deps.Config.Scheduling.BaseTimezone)
	if err != nil {
		log.Fatalf("Failed to load base timezone: %v", err)
	}

	// Initialize repositories
	cacheRepo := repository.NewRedisCacheRepository(deps.RedisClient)
	templateMongo := repository.NewMongoTemplateRepository(deps.MongoDB)
	templateRepo := repository.NewCachedTemplateRepository(templateMongo, cacheRepo)
	scheduleMongo := repository.NewMongoScheduleRepository(deps.MongoDB)
	scheduleRepo := repository.NewCachedScheduleRepository(scheduleMongo, cacheRepo)
	userRepo := repository.NewMongoUserRepository(deps.MongoDB)
	refreshTokenRepo := repository.NewMongoRefreshTokenRepository(deps.MongoDB)

	// Initialize services
	authService := service.NewAuthService(userRepo, converter)
	tokenService := service.NewTokenService(deps.Config.JWT, refreshTokenRepo, userRepo)
	templateService := service.NewTemplateService(templateRepo, scheduleRepo, converter)
	scheduleService := service.NewScheduleService(scheduleRepo, templateRepo, converter, baseLoc)
	statsService := service.NewStatsService(scheduleRepo, baseLoc)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService, tokenService)
	templateHandler := handler.NewTemplateHandler(templateService)
	scheduleHandler := handler.NewScheduleHandler(scheduleService)
	statsHandler := handler.NewStatsHandler(statsService)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "OnTrak API",
		ErrorHandler: customErrorHandler,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(telemetry.FiberMiddleware())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
	}))

	// Health check endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "healthy",
			"service": "ontrak-api",
		})
	})

	// API v1 routes
	v1 := app.Group("/v1")

	// Auth endpoints (public)
	auth := v1.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/refresh", authHandler.Refresh)
	auth.Post("/logout", authHandler.Logout)

	// Profile endpoints (authenticated)
	me := v1.Group("/auth")
	me.Use(middleware.VerifyOnTrakToken(deps.Config.JWT.Secret))
	me.Get("/me", authHandler.Me)
	me.Put("/timezone", authHandler.UpdateTimezone)

	// Templates (trainer or admin)
	templates := v1.Group("/templates")
	templates.Use(middleware.VerifyOnTrakToken(deps.Config.JWT.Secret))
	templates.Use(middleware.AuthorizeRole(domain.RoleTrainer, domain.RoleAdmin))
	templates.Get("/", templateHandler.ListTemplates)
	templates.Post("/", templateHandler.CreateTemplate)
	templates.Get("/:id", templateHandler.GetTemplate)
	templates.Put("/:id", templateHandler.UpdateTemplate)
	templates.Delete("/:id", templateHandler.DeleteTemplate)
	templates.Post("/:id/activities", templateHandler.AddActivity)
	templates.Post("/:id/activities/batch", templateHandler.AddActivities)
	templates.Put("/:id/activities/:activityID", templateHandler.UpdateActivity)
	templates.Delete("/:id/activities/:activityID", templateHandler.RemoveActivity)
	templates.Post("/:id/conflicts", templateHandler.CheckConflicts)

	// Schedules (trainer or admin)
	schedules := v1.Group("/schedules")
	schedules.Use(middleware.VerifyOnTrakToken(deps.Config.JWT.Secret))
	schedules.Use(middleware.AuthorizeRole(domain.RoleTrainer, domain.RoleAdmin))
	schedules.Post("/", scheduleHandler.StartSchedule)
	schedules.Get("/", scheduleHandler.ListSchedules)
	schedules.Get("/:id", scheduleHandler.GetSchedule)
	schedules.Get("/:id/live", scheduleHandler.GetLiveStatus)
	schedules.Post("/:id/activities/:activityID/start", scheduleHandler.StartActivity)
	schedules.Post("/:id/activities/:activityID/complete", scheduleHandler.CompleteActivity)
	schedules.Post("/:id/complete", scheduleHandler.CompleteSchedule)
	schedules.Post("/:id/cancel", scheduleHandler.CancelSchedule)

	// Stats (trainer or admin)
	stats := v1.Group("/stats")
	stats.Use(middleware.VerifyOnTrakToken(deps.Config.JWT.Secret))
	stats.Use(middleware.AuthorizeRole(domain.RoleTrainer, domain.RoleAdmin))
	stats.Get("/trainer", statsHandler.GetTrainerStats)

	return app
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}
	log.Printf("Error: %v", err)
	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
	})
}
