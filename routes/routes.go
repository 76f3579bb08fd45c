package routes

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"guesthouse-backend/controllers"
	"guesthouse-backend/middleware"
	"guesthouse-backend/services"
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

// SetupRouter wires all controllers into the public and admin API surfaces.
func SetupRouter(
	sessions *services.SessionService,
	authCtl *controllers.AuthController,
	roomTypeCtl *controllers.RoomTypeController,
	bookingCtl *controllers.BookingController,
	paymentCtl *controllers.PaymentController,
	contactCtl *controllers.ContactController,
	statsCtl *controllers.StatsController,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.Logger())

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

	catalogCache := cache.New(2*time.Minute, 5*time.Minute)
	submitLimit := middleware.RateLimit(rate.Limit(1), 5)

	api := r.Group("/api")
	{
		roomTypes := api.Group("/room-types")
		{
			roomTypes.GET("", middleware.CatalogCache(catalogCache, 2*time.Minute), roomTypeCtl.List)
			roomTypes.GET("/:id", roomTypeCtl.Get)
			roomTypes.POST("/:id/check-availability", bookingCtl.CheckAvailabilityForType)
			roomTypes.POST("/:id/available-units", bookingCtl.AvailableUnitsForType)
		}

		bookings := api.Group("/bookings")
		{
			bookings.POST("/check-availability", bookingCtl.CheckAvailability)
			bookings.GET("/available-units", bookingCtl.AvailableUnits)
			bookings.POST("/with-payment", submitLimit, bookingCtl.CreateWithPayment)
			bookings.GET("/reference/:reference", bookingCtl.GetByReference)
		}

		payments := api.Group("/payments")
		{
			payments.GET("/verify/:reference", paymentCtl.Verify)
			payments.POST("/verify", paymentCtl.VerifyByReference)
			payments.POST("/webhook", paymentCtl.Webhook)
			payments.GET("/config", paymentCtl.Config)
		}

		api.POST("/contact", submitLimit, contactCtl.Create)

		admin := api.Group("/admin")
		{
			admin.POST("/login", authCtl.Login)

			secured := admin.Group("")
			secured.Use(middleware.RequireAdmin(sessions))
			{
				secured.POST("/logout", authCtl.Logout)
				secured.GET("/me", authCtl.Me)
				secured.POST("/admins", authCtl.CreateAdmin)

				secured.GET("/room-types", roomTypeCtl.ListAll)
				secured.POST("/room-types", roomTypeCtl.Create)
				secured.PUT("/room-types/:id", roomTypeCtl.Update)
				secured.DELETE("/room-types/:id", roomTypeCtl.Deactivate)
				secured.GET("/room-types/:id/units", roomTypeCtl.ListUnits)
				secured.POST("/room-types/:id/units", roomTypeCtl.AddUnit)
				secured.POST("/room-types/:id/seasonal-pricing", roomTypeCtl.AddSeasonalPricing)
				secured.POST("/room-types/:id/blackout-dates", roomTypeCtl.AddBlackoutDate)
				secured.PATCH("/room-units/:id", roomTypeCtl.UpdateUnit)

				secured.GET("/bookings", bookingCtl.List)
				secured.GET("/bookings/:id", bookingCtl.Get)
				secured.PATCH("/bookings/:id/status", bookingCtl.UpdateStatus)
				secured.POST("/bookings/:id/cancel", bookingCtl.Cancel)

				secured.GET("/contact-messages", contactCtl.List)
				secured.PATCH("/contact-messages/:id/read", contactCtl.MarkRead)

				secured.GET("/stats", statsCtl.Dashboard)
			}
		}
	}

	return r
}
