package app

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"urbik/internal/handler"
	"urbik/internal/middleware"
	"urbik/internal/realtime"
	"urbik/internal/service"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	UserHandler    *handler.UserHandler
	CaptainHandler *handler.CaptainHandler
	MapsHandler    *handler.MapsHandler
	RideHandler    *handler.RideHandler
	SocketHandler  *realtime.SocketHandler
	AuthService    *service.AuthService
	RedisClient    *redis.Client
	NewRelicApp    *newrelic.Application
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.CORSMiddleware())

	// Add New Relic middleware if enabled.
	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	router.Use(middleware.IdempotencyMiddleware(deps.RedisClient))

	authRider := middleware.AuthRider(deps.AuthService)
	authCaptain := middleware.AuthCaptain(deps.AuthService)

	// Health check and metrics.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Realtime websocket endpoint.
	router.GET("/ws", deps.SocketHandler.Serve)

	// Rider account routes.
	users := router.Group("/users")
	{
		users.POST("/register", deps.UserHandler.Register)
		users.POST("/login", deps.UserHandler.Login)
		users.GET("/profile", authRider, deps.UserHandler.Profile)
		users.GET("/logout", authRider, deps.UserHandler.Logout)
	}

	// Captain account routes.
	captains := router.Group("/captains")
	{
		captains.POST("/register", deps.CaptainHandler.Register)
		captains.POST("/login", deps.CaptainHandler.Login)
		captains.GET("/profile", authCaptain, deps.CaptainHandler.Profile)
		captains.GET("/logout", authCaptain, deps.CaptainHandler.Logout)
	}

	// Maps routes.
	mapsGroup := router.Group("/maps", authRider)
	{
		mapsGroup.GET("/get-coordinates", deps.MapsHandler.GetCoordinates)
		mapsGroup.GET("/get-distance-time", deps.MapsHandler.GetDistanceTime)
		mapsGroup.GET("/get-suggestions", deps.MapsHandler.GetSuggestions)
	}

	// Ride routes. Riders create, price and cancel; captains confirm,
	// start and end.
	rides := router.Group("/rides")
	{
		rides.POST("/create", authRider, deps.RideHandler.Create)
		rides.GET("/get-fare", authRider, deps.RideHandler.GetFare)
		rides.POST("/cancel", authRider, deps.RideHandler.Cancel)
		rides.POST("/confirm", authCaptain, deps.RideHandler.Confirm)
		rides.GET("/start-ride", authCaptain, deps.RideHandler.Start)
		rides.POST("/end-ride", authCaptain, deps.RideHandler.End)
	}

	return router
}
