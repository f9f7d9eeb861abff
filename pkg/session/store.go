// Package session issues and validates staff login tokens. Tokens are JWTs
// signed with the server secret, with a matching database row so logins can
// be revoked server-side (factory reset, logout).
package session

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/familybridge/crm-backend/internal/database"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// how long a staff login stays valid
const tokenLifetime = 12 * time.Hour

// Store manages staff sessions
type Store struct {
	DB     *database.Queries
	secret []byte
}

// global store - not ideal but works for now
var store *Store

// Initialize sets up the session store with database and signing secret
func Initialize(db *database.Queries, secret string) {
	store = &Store{
		DB:     db,
		secret: []byte(secret),
	}
}

// claims carried inside the signed token
type claims struct {
	UserID    string `json:"uid"`
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// Login creates a session for the user and returns the signed token
func Login(ctx context.Context, userID uuid.UUID) (string, error) {
	if store == nil || store.DB == nil {
		return "", errors.New("session store not initialized")
	}

	sessionID := uuid.New()
	expiresAt := time.Now().Add(tokenLifetime)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		UserID:    userID.String(),
		SessionID: sessionID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	})

	signed, err := token.SignedString(store.secret)
	if err != nil {
		return "", err
	}

	// persist so factory reset can revoke outstanding tokens
	_, err = store.DB.CreateSession(ctx, database.CreateSessionParams{
		ID:        sessionID,
		UserID:    userID,
		Token:     signed,
		ExpiresAt: expiresAt,
	})
	if err != nil {
		log.Printf("Error creating session: %v", err)
		return "", err
	}

	return signed, nil
}

// Validate checks the token signature and that the session row still exists.
// Returns the staff user's ID.
func Validate(ctx context.Context, tokenString string) (uuid.UUID, error) {
	if store == nil || store.DB == nil {
		return uuid.Nil, errors.New("session store not initialized")
	}

	parsed, err := jwt.ParseWithClaims(tokenString, &claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return store.secret, nil
	})
	if err != nil {
		return uuid.Nil, err
	}

	c, ok := parsed.Claims.(*claims)
	if !ok || !parsed.Valid {
		return uuid.Nil, errors.New("invalid token")
	}

	// the row disappears on logout/revocation even if the JWT hasn't expired
	sess, err := store.DB.GetSessionByToken(ctx, tokenString)
	if err != nil {
		return uuid.Nil, errors.New("session revoked or expired")
	}

	userID, err := uuid.Parse(c.UserID)
	if err != nil || sess.UserID != userID {
		return uuid.Nil, errors.New("invalid token")
	}

	return userID, nil
}

// Logout revokes the session behind the given token
func Logout(ctx context.Context, tokenString string) {
	if store == nil || store.DB == nil {
		return
	}

	sess, err := store.DB.GetSessionByToken(ctx, tokenString)
	if err != nil {
		// already gone - nothing to do
		return
	}

	if err := store.DB.DeleteSession(ctx, sess.ID); err != nil {
		log.Printf("Error deleting session: %v", err)
	}
}

// ClearAllSessions removes every session, forcing all staff to log in again.
// Used by factory reset.
func ClearAllSessions() error {
	if store == nil || store.DB == nil {
		return nil
	}
	return store.DB.DeleteAllSessions(context.Background())
}
