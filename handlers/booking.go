package handlers

import (
	"net/http"

	"tourbook/middleware"
	"tourbook/models"
	"tourbook/services/booking"
	"tourbook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BookingHandler serves booking creation, lookup and cancellation.
type BookingHandler struct {
	Svc      booking.Service
	Sessions *utils.SessionStore
}

func NewBookingHandler(svc booking.Service, sessions *utils.SessionStore) *BookingHandler {
	return &BookingHandler{Svc: svc, Sessions: sessions}
}

// CreateBooking handles POST /booking.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req models.BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed_request", "message": "invalid request body"})
		return
	}

	session := middleware.SessionFrom(c)
	result, err := h.Svc.CreateBooking(c.Request.Context(), req, session)
	if err != nil {
		respondError(c, err)
		return
	}

	if session != nil {
		session.LastBookingID = result.ID
		if err := h.Sessions.Save(c.Request.Context(), session); err != nil {
			utils.GetLogger().Warn("failed to annotate session with booking",
				zap.String("sessionId", session.ID), zap.Error(err))
		}
	}

	c.JSON(http.StatusCreated, gin.H{
		"booking":          result,
		"confirmationCode": result.ConfirmationCode,
	})
}

// GetBooking handles GET /booking/:id.
func (h *BookingHandler) GetBooking(c *gin.Context) {
	result, err := h.Svc.GetBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": result})
}

// CancelBooking handles POST /booking/cancel.
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	var input struct {
		BookingID string `json:"bookingId"`
		Email     string `json:"email"`
	}
	if err := c.ShouldBindJSON(&input); err != nil || input.BookingID == "" || input.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed_request", "message": "bookingId and email are required"})
		return
	}

	refund, err := h.Svc.CancelBooking(c.Request.Context(), input.BookingID, input.Email)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"refund": refund})
}

// PreviewCancellation handles GET /booking/cancel?bookingId&email — the
// cancellation-policy answer without side effects.
func (h *BookingHandler) PreviewCancellation(c *gin.Context) {
	bookingID := c.Query("bookingId")
	email := c.Query("email")
	if bookingID == "" || email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed_request", "message": "bookingId and email are required"})
		return
	}

	preview, err := h.Svc.PreviewCancellation(c.Request.Context(), bookingID, email)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, preview)
}
