package api

import (
	"context"
	"net/http"

	"github.com/Domenick1991/tripbooking/internal/service/booking"
	"github.com/Domenick1991/tripbooking/internal/service/catalog"
	"github.com/Domenick1991/tripbooking/internal/service/flights"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	httpSwagger "github.com/swaggo/http-swagger"
)

// HealthCheck reports whether one dependency is reachable.
type HealthCheck func(ctx context.Context) error

type RouterConfig struct {
	JWTSecret  string
	SwaggerDir string
	Log        *logrus.Logger
	Bookings   booking.BookingUseCase
	Catalog    catalog.CatalogUseCase
	Flights    flights.FlightUseCase
	Checks     map[string]HealthCheck
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	RegisterValidators()

	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger(cfg.Log))

	if cfg.SwaggerDir != "" {
		router.Static("/swagger", cfg.SwaggerDir)
		router.GET("/docs/*any", gin.WrapH(httpSwagger.Handler(httpSwagger.URL("/swagger/booking.swagger.json"))))
	}

	auth := Authenticate(cfg.JWTSecret)
	v1 := router.Group("/api/v1")
	v1.GET("/health", health(cfg.Checks))

	NewHotelHandler(cfg.Catalog).Register(v1.Group("/hotels"), auth)
	NewRoomHandler(cfg.Bookings).Register(v1.Group("/rooms"), auth)
	NewBookingHandler(cfg.Bookings).Register(v1.Group("/bookings", auth))
	NewFlightHandler(cfg.Flights).Register(v1.Group("/flights"), auth)
	NewItineraryHandler(cfg.Flights).Register(v1.Group("/itineraries", auth))

	return router
}

func health(checks map[string]HealthCheck) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := http.StatusOK
		result := gin.H{}
		for name, check := range checks {
			if err := check(c.Request.Context()); err != nil {
				status = http.StatusServiceUnavailable
				result[name] = err.Error()
				continue
			}
			result[name] = "ok"
		}
		state := "ok"
		if status != http.StatusOK {
			state = "degraded"
		}
		c.JSON(status, gin.H{"status": state, "checks": result})
	}
}
