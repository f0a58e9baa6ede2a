package utils

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"tourbook/models"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

const sessionPrefix = "visitorSession:"

// SessionStore persists visitor sessions behind a KV with a TTL. The
// client only ever holds a signed token carrying the session ID; the
// anti-forgery secret stays server-side.
type SessionStore struct {
	Store  KV
	TTL    time.Duration
	Secret []byte
}

func NewSessionStore(store KV, ttl time.Duration, secret string) *SessionStore {
	return &SessionStore{Store: store, TTL: ttl, Secret: []byte(secret)}
}

// Mint creates a fresh session and returns it with its signed token.
func (ss *SessionStore) Mint(ctx context.Context) (*models.VisitorSession, string, error) {
	now := time.Now()
	session := &models.VisitorSession{
		ID:         uuid.New().String(),
		CSRFSecret: RandomToken(32),
		Consent:    make(map[string]bool),
		CreatedAt:  now,
		ExpiresAt:  now.Add(ss.TTL),
	}
	if err := ss.Save(ctx, session); err != nil {
		return nil, "", err
	}

	claims := jwt.RegisteredClaims{
		Subject:   session.ID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(ss.Secret)
	if err != nil {
		return nil, "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return session, token, nil
}

// Resolve validates a session token and loads the backing session.
func (ss *SessionStore) Resolve(ctx context.Context, token string) (*models.VisitorSession, error) {
	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return ss.Secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, fmt.Errorf("invalid session token")
	}
	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return nil, fmt.Errorf("invalid session token claims")
	}

	data, err := ss.Store.Get(ctx, sessionPrefix+claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("session not found or expired: %w", err)
	}
	var session models.VisitorSession
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &session, nil
}

// Save writes the session back with its remaining TTL.
func (ss *SessionStore) Save(ctx context.Context, session *models.VisitorSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("session already expired")
	}
	if err := ss.Store.Set(ctx, sessionPrefix+session.ID, string(data), ttl); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Delete removes a session.
func (ss *SessionStore) Delete(ctx context.Context, sessionID string) error {
	return ss.Store.Del(ctx, sessionPrefix+sessionID)
}

// RandomToken returns n random bytes hex-encoded.
func RandomToken(n int) string {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand failing is unrecoverable; fall back to a UUID.
		return uuid.New().String()
	}
	return hex.EncodeToString(b)
}
