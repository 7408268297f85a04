package api

import (
	"net/http"

	"farewatch/internal/domain/entity"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter wires the HTTP surface: tracking API, health and metrics
func NewRouter(flightHandler *FlightHandler, userHandler *UserHandler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "Healthy")
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.POST("/users", userHandler.CreateUser)
		v1.POST("/users/:userID/flights", flightHandler.CreateFlight)
		v1.GET("/users/:userID/flights", flightHandler.ListFlights)
		v1.GET("/flights/:id", flightHandler.GetFlight)
		v1.DELETE("/flights/:id", flightHandler.DeleteFlight)
		v1.GET("/flights/:id/history", flightHandler.GetPriceHistory)
		v1.GET("/flights/:id/alerts", flightHandler.GetAlerts)
	}

	return router
}

// flightResponse shapes one tracked flight for the API
func flightResponse(f *entity.TrackedFlight) gin.H {
	resp := gin.H{
		"id":                  f.PublicID,
		"departureAirport":    f.DepartureAirport,
		"arrivalAirport":      f.ArrivalAirport,
		"departureDate":       f.DepartureDate.Format("2006-01-02"),
		"roundTrip":           f.IsRoundTrip(),
		"originalPrice":       f.OriginalPrice,
		"isActive":            f.IsActive,
		"nextCheckAt":         f.NextCheckAt,
		"checkFrequencyHours": f.CheckFrequencyHrs,
		"createdAt":           f.CreatedAt,
	}
	if f.Airline != "" {
		resp["airline"] = f.Airline
	}
	if f.PreferredTime != "" {
		resp["preferredTime"] = f.PreferredTime
	}
	if f.ReturnDate != nil {
		resp["returnDate"] = f.ReturnDate.Format("2006-01-02")
	}
	if f.LastAlertedPrice != nil {
		resp["lastAlertedPrice"] = *f.LastAlertedPrice
	}
	if f.LastCheckedPrice != nil {
		resp["lastCheckedPrice"] = *f.LastCheckedPrice
	}
	if f.LastCheckedAt != nil {
		resp["lastCheckedAt"] = *f.LastCheckedAt
	}
	return resp
}
