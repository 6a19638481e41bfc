// Package auth issues and verifies the JWTs that identify the caller
// on every API request. The rest of the backend only consumes the user
// ID that the middleware resolves from the token.
package auth

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const userIDKey = "tripmate-user-id"

var (
	ErrTokenMissing = errors.New("authentication required, provide a bearer token in the Authorization header")
	ErrTokenInvalid = errors.New("the authentication token is invalid or expired")
)

// Claims are the JWT claims for an authenticated user.
type Claims struct {
	UserID uuid.UUID `json:"userId"`
	jwt.RegisteredClaims
}

// Tokens signs and parses user tokens with a shared secret.
type Tokens struct {
	secret []byte
	expiry time.Duration
}

func New(secret string, expiry time.Duration) *Tokens {
	return &Tokens{
		secret: []byte(secret),
		expiry: expiry,
	}
}

// Generate returns a signed token for the user.
func (t *Tokens) Generate(userID uuid.UUID) (string, error) {
	now := time.Now().In(time.UTC)

	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.expiry)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// Parse verifies the token signature and returns its claims.
func (t *Tokens) Parse(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}

		return t.secret, nil
	})
	if err != nil {
		return nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == uuid.Nil {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}

// Middleware aborts unauthenticated requests with 401 and stores the
// user ID in the gin context for everything downstream.
func (t *Tokens) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": ErrTokenMissing.Error()})
			return
		}

		tokenString := strings.TrimPrefix(header, "Bearer ")
		if tokenString == header {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": ErrTokenMissing.Error()})
			return
		}

		claims, err := t.Parse(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}

		c.Set(userIDKey, claims.UserID)
		c.Next()
	}
}

// UserID returns the authenticated user's ID from the gin context.
// It is uuid.Nil when the middleware did not run.
func UserID(c *gin.Context) uuid.UUID {
	value, ok := c.Get(userIDKey)
	if !ok {
		return uuid.Nil
	}

	userID, ok := value.(uuid.UUID)
	if !ok {
		return uuid.Nil
	}

	return userID
}
