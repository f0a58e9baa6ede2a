package handlers

import (
	"errors"
	"net/http"

	tourRepo "tourbook/database/repository/tour"

	"github.com/gin-gonic/gin"
)

// TourHandler serves the read-only catalog collaborating renderers use.
type TourHandler struct {
	Repo tourRepo.Repository
}

func NewTourHandler(repo tourRepo.Repository) *TourHandler {
	return &TourHandler{Repo: repo}
}

func (h *TourHandler) ListTours(c *gin.Context) {
	tours, err := h.Repo.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error", "message": "failed to load catalog"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"tours": tours})
}

func (h *TourHandler) GetTour(c *gin.Context) {
	tour, err := h.Repo.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, tourRepo.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not_found", "message": "tour not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error", "message": "failed to load tour"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"tour": tour})
}
