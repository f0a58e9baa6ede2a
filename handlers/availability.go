package handlers

import (
	"net/http"
	"time"

	"tourbook/models"
	"tourbook/services/booking"

	"github.com/gin-gonic/gin"
)

// AvailabilityHandler serves availability reads.
type AvailabilityHandler struct {
	Svc booking.Service
}

func NewAvailabilityHandler(svc booking.Service) *AvailabilityHandler {
	return &AvailabilityHandler{Svc: svc}
}

// GetAvailability handles GET /availability?tourId&date. Malformed
// requests get a 400; business-rule rejections (past date, tour closed)
// come back as 200 with available:false and a reason.
func (h *AvailabilityHandler) GetAvailability(c *gin.Context) {
	tourID := c.Query("tourId")
	date := c.Query("date")
	if tourID == "" || date == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed_request", "message": "tourId and date are required"})
		return
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed_request", "message": "date must be formatted as YYYY-MM-DD"})
		return
	}

	result, err := h.Svc.CheckAvailability(c.Request.Context(), tourID, date)
	if err != nil {
		respondError(c, err)
		return
	}
	if result.Slots == nil {
		result.Slots = []models.TimeSlot{}
	}
	c.JSON(http.StatusOK, result)
}

// CheckRange handles POST /availability with a bounded date range,
// answering a per-date availability map.
func (h *AvailabilityHandler) CheckRange(c *gin.Context) {
	var input struct {
		TourID    string `json:"tourId"`
		StartDate string `json:"startDate"`
		EndDate   string `json:"endDate"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed_request", "message": "invalid request body"})
		return
	}
	if input.TourID == "" || input.StartDate == "" || input.EndDate == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed_request", "message": "tourId, startDate and endDate are required"})
		return
	}

	result, err := h.Svc.CheckRange(c.Request.Context(), input.TourID, input.StartDate, input.EndDate)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"availability": result})
}
