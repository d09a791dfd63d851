package routes

import (
	"strings"
	"time"

	"venuebook/handlers"
	"venuebook/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/health", hb.HealthHandler)
}

// RegisterAuthRoutes registers login, logout, profile and session endpoints.
func RegisterAuthRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle) {
	api.GET("/session", hb.GetSessionHandler)
	api.PUT("/lang", hb.SetLangHandler)

	auth := api.Group("/auth")
	{
		auth.POST("/send-otp", hb.SendOTPHandler)
		auth.POST("/verify-otp", hb.VerifyOTPHandler)
		auth.POST("/logout", hb.LogoutHandler)

		// Protected routes (Require Authentication)
		protected := auth.Group("", middleware.RequireLogin())
		protected.GET("/me", hb.MeHandler)
		protected.PATCH("/me", hb.UpdateMeHandler)
	}
}

// RegisterVenueRoutes registers venue browsing and the slot board.
func RegisterVenueRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle) {
	venues := api.Group("/venues")
	{
		venues.GET("", hb.ListVenuesHandler)
		venues.GET("/:id", hb.GetVenueHandler)
		venues.GET("/:id/availability", hb.AvailabilityHandler)
	}

	sel := api.Group("/selection")
	{
		sel.GET("", hb.GetSelectionHandler)
		sel.POST("/click", hb.ClickSlotHandler)
		sel.DELETE("", hb.ClearSelectionHandler)
	}
}

// RegisterBookingRoutes registers booking submit, history and cancel.
func RegisterBookingRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle) {
	bookings := api.Group("/bookings", middleware.RequireLogin())
	{
		bookings.POST("", hb.CreateBookingHandler)
		bookings.GET("", hb.ListBookingsHandler)
		bookings.GET("/:id", hb.GetBookingHandler)
		bookings.PATCH("/:id/cancel", hb.CancelBookingHandler)
	}
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
// Every /api route runs inside a browser session.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle, corsOrigins string, session gin.HandlerFunc) {
	r.Use(cors.New(corsConfig(corsOrigins)))

	RegisterHealthRoute(r, hb)

	api := r.Group("/api", session)
	RegisterAuthRoutes(api, hb)
	RegisterVenueRoutes(api, hb)
	RegisterBookingRoutes(api, hb)
}

// corsConfig allows the listed origins. Credentials are needed for the
// session cookie, so "*" is answered by echoing the request origin.
func corsConfig(origins string) cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Accept-Language", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	var list []string
	for _, o := range strings.Split(origins, ",") {
		if o = strings.TrimSpace(o); o != "" && o != "*" {
			list = append(list, o)
		}
	}
	if len(list) == 0 {
		cfg.AllowOriginFunc = func(string) bool { return true }
	} else {
		cfg.AllowOrigins = list
	}
	return cfg
}
