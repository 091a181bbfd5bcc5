package routes

import (
	"net/http"
	"time"

	"spothunt-backend/config"
	"spothunt-backend/handlers"
	"spothunt-backend/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Handlers bundles every HTTP handler the router serves
type Handlers struct {
	Spots         *handlers.SpotHandler
	Hunts         *handlers.HuntHandler
	Users         *handlers.UserHandler
	Notifications *handlers.NotificationHandler
}

func SetupRouter(cfg *config.Config, h Handlers) *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "spothunt-backend",
			"time":    time.Now().Unix(),
		})
	})

	limited := middleware.RateLimit(middleware.NewIPRateLimiter(cfg.RateLimitPerMinute, time.Minute))

	api := router.Group("/api")
	{
		// Discovery
		api.GET("/spots", h.Spots.ListSpots)
		api.GET("/spots/nearby", h.Spots.GetNearby)
		api.GET("/spots/gym", h.Spots.GetGyms)
		api.GET("/spots/search", h.Spots.Search)
		api.GET("/spots/:id", h.Spots.GetSpotByID)

		// Check-ins
		api.POST("/spots/:id/hunt", limited, h.Hunts.Hunt)

		// Users
		api.POST("/users", limited, h.Users.CreateUser)
		api.GET("/user/:id", h.Users.GetUser)
		api.PATCH("/user/:id", limited, h.Users.UpdateProfile)
		api.GET("/user/:id/hunts", h.Users.GetHunts)
		api.GET("/leaderboard", h.Users.GetLeaderboard)

		// Notifications
		api.POST("/user/:id/track-location", limited, h.Notifications.TrackLocation)
		api.GET("/user/:id/notifications", h.Notifications.ListForUser)
		api.POST("/notifications/test-nearby", limited, h.Notifications.TestNearby)
		api.GET("/notifications/status", h.Notifications.GetStatus)
		api.POST("/notifications/:id/read", h.Notifications.MarkRead)
	}

	return router
}
