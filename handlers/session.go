package handlers

import (
	"net/http"

	"tourbook/middleware"
	"tourbook/utils"

	"github.com/gin-gonic/gin"
)

// SessionHandler exposes the visitor session to the client: the CSRF
// token for mutating calls and the consent recording endpoint.
type SessionHandler struct {
	Sessions *utils.SessionStore
}

func NewSessionHandler(sessions *utils.SessionStore) *SessionHandler {
	return &SessionHandler{Sessions: sessions}
}

// GetSession handles GET /session. The session middleware has already
// minted or resolved the session; this returns its client-facing view.
func (h *SessionHandler) GetSession(c *gin.Context) {
	session := middleware.SessionFrom(c)
	if session == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "session_unavailable", "message": "could not establish a session"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"sessionId": session.ID,
		"csrfToken": session.CSRFSecret,
		"consent":   session.Consent,
		"expiresAt": session.ExpiresAt,
	})
}

// RecordConsent handles POST /session/consent, marking the listed
// processing purposes as granted.
func (h *SessionHandler) RecordConsent(c *gin.Context) {
	session := middleware.SessionFrom(c)
	if session == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "session_unavailable", "message": "could not establish a session"})
		return
	}

	var input struct {
		Purposes []string `json:"purposes"`
	}
	if err := c.ShouldBindJSON(&input); err != nil || len(input.Purposes) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed_request", "message": "purposes are required"})
		return
	}

	if session.Consent == nil {
		session.Consent = make(map[string]bool)
	}
	for _, purpose := range input.Purposes {
		session.Consent[purpose] = true
	}
	if err := h.Sessions.Save(c.Request.Context(), session); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error", "message": "failed to record consent"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"consent": session.Consent})
}
