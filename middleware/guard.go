package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"tourbook/config"
	"tourbook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SuspiciousKey flags requests the heuristics consider odd. Advisory
// only: downstream telemetry reads it, nothing rejects on it.
const SuspiciousKey = "suspicious"

// OriginCheck rejects mutating requests whose declared origin does not
// match the configured site origin. Requests without an Origin header
// (non-browser clients) pass; the CSRF check still gates them.
func OriginCheck() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" && origin != config.AppConfig.SiteOrigin {
			utils.JSONError(c, http.StatusForbidden, "origin_mismatch", "request origin is not allowed")
			return
		}
		c.Next()
	}
}

// RequiredHeaders rejects requests missing the headers any legitimate
// client sends, as malformed rather than processing them partially.
func RequiredHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("User-Agent") == "" {
			utils.JSONError(c, http.StatusBadRequest, "missing_header", "User-Agent header is required")
			return
		}
		if c.Request.Method == http.MethodPost {
			ct := c.GetHeader("Content-Type")
			if !strings.HasPrefix(ct, "application/json") {
				utils.JSONError(c, http.StatusBadRequest, "missing_header", "Content-Type must be application/json")
				return
			}
		}
		c.Next()
	}
}

// CSRF validates the anti-forgery token against the session-held secret
// in constant time. Runs before any business logic on mutating routes.
func CSRF() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := SessionFrom(c)
		if session == nil {
			utils.JSONError(c, http.StatusForbidden, "csrf_invalid", "no active session")
			return
		}
		token := c.GetHeader("X-CSRF-Token")
		if token == "" {
			utils.JSONError(c, http.StatusForbidden, "csrf_invalid", "anti-forgery token is required")
			return
		}
		if subtle.ConstantTimeCompare([]byte(token), []byte(session.CSRFSecret)) != 1 {
			utils.JSONError(c, http.StatusForbidden, "csrf_invalid", "anti-forgery token mismatch")
			return
		}
		c.Next()
	}
}

// Suspicion flags requests with header combinations real browsers do
// not produce. Prone to false positives, so it only logs and annotates.
func Suspicion() gin.HandlerFunc {
	return func(c *gin.Context) {
		var signals []string
		if c.GetHeader("User-Agent") == "" {
			signals = append(signals, "missing user agent")
		}
		if c.GetHeader("Accept") == "" && c.Request.Method == http.MethodPost {
			signals = append(signals, "missing accept header on mutation")
		}
		if xff := c.GetHeader("X-Forwarded-For"); strings.Count(xff, ",") > 3 {
			signals = append(signals, "unusually long forwarding chain")
		}
		if len(signals) > 0 {
			c.Set(SuspiciousKey, true)
			utils.GetLogger().Warn("suspicious request signature",
				zap.Strings("signals", signals),
				zap.String("ip", getClientIP(c)),
				zap.String("path", c.FullPath()))
		}
		c.Next()
	}
}
