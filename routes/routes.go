package routes

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"restaurante-backend/controllers"
	"restaurante-backend/middleware"
)

func parseCorsOrigins() []string {
	raw := strings.TrimSpace(os.Getenv("CORS_ORIGINS"))
	if raw == "" {
		return []string{"*"}
	}

	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

// SetupRouter wires the controllers into the gin engine.
func SetupRouter(
	ac *controllers.AvailabilityController,
	rc *controllers.ReservationController,
	cc *controllers.ContactController,
	cfc *controllers.CapacityConfigController,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())

	origins := parseCorsOrigins()
	allowCredentials := true
	for _, origin := range origins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		api.GET("/availability", ac.GetAvailability)

		reservations := api.Group("/reservations")
		{
			reservations.GET("", rc.GetAvailableSlots)
			reservations.POST("", rc.CreateReservation)
			reservations.GET("/:id", rc.GetReservation)
			reservations.PUT("", rc.UpdateReservation)
			reservations.DELETE("", rc.CancelReservation)
		}

		contact := api.Group("/contact")
		{
			contact.POST("", cc.CreateContact)
			contact.GET("", cc.ListContacts)
			contact.PUT("", cc.UpdateContact)
			contact.DELETE("", cc.ArchiveContact)
		}

		configs := api.Group("/capacity-configs")
		{
			configs.GET("", cfc.GetConfigs)
			configs.POST("", cfc.CreateConfig)
			configs.PUT("/:id", cfc.UpdateConfig)
			configs.DELETE("/:id", cfc.DeleteConfig)
		}

		settings := api.Group("/settings")
		{
			settings.GET("/restaurant", controllers.GetRestaurantSettings)
			settings.PUT("/restaurant", controllers.UpdateRestaurantSettings)
		}
	}

	return r
}
