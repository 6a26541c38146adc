package handler

import (
	"net/http"

	"exercise_tracker/internal/cache"
	"exercise_tracker/internal/config"
	"exercise_tracker/internal/exercise"
	"exercise_tracker/internal/middleware"
	"exercise_tracker/internal/observability"
	"exercise_tracker/internal/queue"
	"exercise_tracker/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Dependencies are the already-connected backends the API is built on.
// Redis, Cache and Publisher are optional.
type Dependencies struct {
	Config       *config.Config
	UserRepo     user.UserRepositoryInterface
	ExerciseRepo exercise.ExerciseRepositoryInterface
	Redis        *redis.Client
	Cache        cache.Cache
	Publisher    queue.EventPublisher
	Metrics      *observability.Metrics
	Gatherer     prometheus.Gatherer
}

// SetupHandler initializes all dependencies and routes
func SetupHandler(deps Dependencies) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.LoggingMiddleware())
	r.Use(middleware.CORSMiddleware(deps.Config.CORSOrigin))
	if deps.Metrics != nil {
		r.Use(middleware.PrometheusMiddleware(deps.Metrics))
	}

	// Initialize services
	userService := user.NewUserService(deps.UserRepo, deps.Cache, deps.Metrics)
	exerciseService := exercise.NewExerciseService(deps.ExerciseRepo, userService, deps.Publisher, deps.Metrics)

	// Initialize controllers
	userController := user.NewUserController(userService)
	exerciseController := exercise.NewExerciseController(exerciseService)

	var rateLimiter gin.HandlerFunc
	if deps.Redis != nil {
		rateLimiter = middleware.RateLimiterMiddleware(deps.Redis, middleware.NewRateLimiterConfig(deps.Config.RateLimit), deps.Metrics)
	}

	setupRoutes(r, userController, exerciseController, rateLimiter)

	if deps.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	return r
}

// setupRoutes configures all application routes
func setupRoutes(r *gin.Engine, userCtrl *user.UserController, exerciseCtrl *exercise.ExerciseController, rateLimiter gin.HandlerFunc) {
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	if rateLimiter != nil {
		api.Use(rateLimiter)
	}
	{
		api.POST("/users", userCtrl.CreateUser)
		api.GET("/users", userCtrl.ListUsers)
		api.POST("/users/:_id/exercises", exerciseCtrl.AddExercise)
		api.GET("/users/:_id/logs", exerciseCtrl.GetLogs)
	}
}
