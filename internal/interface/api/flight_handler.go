package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"farewatch/internal/usecase"
	"farewatch/pkg/logger"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// FlightHandler exposes the tracked flight lifecycle over HTTP
type FlightHandler struct {
	tracker *usecase.FlightTracker
	logger  logger.Logger
}

// NewFlightHandler creates a new flight handler
func NewFlightHandler(tracker *usecase.FlightTracker, logger logger.Logger) *FlightHandler {
	return &FlightHandler{
		tracker: tracker,
		logger:  logger,
	}
}

// CreateFlightRequest is the tracking request body
type CreateFlightRequest struct {
	DepartureAirport string  `json:"departureAirport" binding:"required,len=3"`
	ArrivalAirport   string  `json:"arrivalAirport" binding:"required,len=3"`
	Airline          string  `json:"airline" binding:"omitempty,len=2"`
	PreferredTime    string  `json:"preferredTime" binding:"omitempty,datetime=15:04"`
	DepartureDate    string  `json:"departureDate" binding:"required,datetime=2006-01-02"`
	ReturnDate       string  `json:"returnDate" binding:"omitempty,datetime=2006-01-02"`
	OriginalPrice    float64 `json:"originalPrice" binding:"required,gt=0"`
	Currency         string  `json:"currency" binding:"omitempty,len=3"`
}

// CreateFlight starts tracking a booking
func (h *FlightHandler) CreateFlight(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	var req CreateFlightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	departureDate, _ := time.Parse("2006-01-02", req.DepartureDate)
	var returnDate *time.Time
	if req.ReturnDate != "" {
		parsed, _ := time.Parse("2006-01-02", req.ReturnDate)
		returnDate = &parsed
	}
	currency := req.Currency
	if currency == "" {
		currency = "USD"
	}

	flight, err := h.tracker.CreateFlight(c.Request.Context(), userID, usecase.CreateFlightInput{
		DepartureAirport: req.DepartureAirport,
		ArrivalAirport:   req.ArrivalAirport,
		Airline:          req.Airline,
		PreferredTime:    req.PreferredTime,
		DepartureDate:    departureDate,
		ReturnDate:       returnDate,
		OriginalPrice:    req.OriginalPrice,
		Currency:         currency,
	})
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrPlanLimitReached):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, usecase.ErrInvalidFlight):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, gorm.ErrRecordNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		default:
			h.logger.Error("Failed to create tracked flight", "userID", userID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create tracked flight"})
		}
		return
	}

	c.JSON(http.StatusCreated, flightResponse(flight))
}

// ListFlights returns one page of a user's tracked flights
func (h *FlightHandler) ListFlights(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	flights, total, err := h.tracker.ListFlights(c.Request.Context(), userID, page, limit)
	if err != nil {
		h.logger.Error("Failed to list flights", "userID", userID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list flights"})
		return
	}

	items := make([]gin.H, 0, len(flights))
	for _, f := range flights {
		items = append(items, flightResponse(f))
	}

	c.JSON(http.StatusOK, gin.H{
		"flights": items,
		"total":   total,
		"page":    page,
		"limit":   limit,
	})
}

// GetFlight fetches one tracked flight
func (h *FlightHandler) GetFlight(c *gin.Context) {
	flight, err := h.tracker.GetFlight(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "flight not found"})
			return
		}
		h.logger.Error("Failed to get flight", "flightID", c.Param("id"), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get flight"})
		return
	}

	c.JSON(http.StatusOK, flightResponse(flight))
}

// DeleteFlight stops tracking; history stays for auditing
func (h *FlightHandler) DeleteFlight(c *gin.Context) {
	err := h.tracker.StopTracking(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "flight not found"})
			return
		}
		h.logger.Error("Failed to stop tracking", "flightID", c.Param("id"), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to stop tracking"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "tracking stopped"})
}

// GetPriceHistory returns the recorded price observations for a flight
func (h *FlightHandler) GetPriceHistory(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	observations, err := h.tracker.PriceHistory(c.Request.Context(), c.Param("id"), limit)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "flight not found"})
			return
		}
		h.logger.Error("Failed to get price history", "flightID", c.Param("id"), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get price history"})
		return
	}

	items := make([]gin.H, 0, len(observations))
	for _, o := range observations {
		items = append(items, gin.H{
			"price":      o.Price,
			"currency":   o.Currency,
			"reason":     o.Reason,
			"observedAt": o.ObservedAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{"observations": items})
}

// GetAlerts returns the recorded notification attempts for a flight
func (h *FlightHandler) GetAlerts(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	alerts, err := h.tracker.AlertHistory(c.Request.Context(), c.Param("id"), limit)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "flight not found"})
			return
		}
		h.logger.Error("Failed to get alert history", "flightID", c.Param("id"), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get alert history"})
		return
	}

	items := make([]gin.H, 0, len(alerts))
	for _, a := range alerts {
		item := gin.H{
			"newPrice":  a.NewPrice,
			"savings":   a.Savings,
			"status":    a.Status,
			"createdAt": a.CreatedAt,
		}
		if a.SentAt != nil {
			item["sentAt"] = *a.SentAt
		}
		if a.ErrorDetail != "" {
			item["errorDetail"] = a.ErrorDetail
		}
		items = append(items, item)
	}

	c.JSON(http.StatusOK, gin.H{"alerts": items})
}

func parseUserID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("userID"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return 0, false
	}
	return uint(id), true
}
