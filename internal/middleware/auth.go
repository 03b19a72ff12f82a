package middleware

import (
	"fmt"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/annabogdanova/blogicum/internal/models"
)

// SessionCookie holds the signed session token.
const SessionCookie = "blogicum_session"

// SessionMaxAge is how long a session stays valid.
const SessionMaxAge = 72 * time.Hour

func sessionSecret() []byte {
	return []byte(os.Getenv("JWT_SECRET"))
}

// NewSessionToken signs a session token for the given user.
func NewSessionToken(user *models.User) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"jti":      uuid.NewString(),
		"exp":      time.Now().Add(SessionMaxAge).Unix(),
	})
	return token.SignedString(sessionSecret())
}

func parseSessionToken(raw string) (int, string, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return sessionSecret(), nil
	})
	if err != nil {
		return 0, "", err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return 0, "", fmt.Errorf("invalid session claims")
	}

	id, ok := claims["user_id"].(float64)
	if !ok {
		return 0, "", fmt.Errorf("invalid user_id claim")
	}
	username, _ := claims["username"].(string)

	return int(id), username, nil
}

// Identify reads the session cookie, if any, and exposes the requester's
// identity to downstream handlers. Anonymous requests pass through.
func Identify() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := c.Cookie(SessionCookie)
		if err == nil && raw != "" {
			if id, username, err := parseSessionToken(raw); err == nil {
				c.Set("user_id", id)
				c.Set("username", username)
			}
		}
		c.Next()
	}
}

// LoginRequired redirects anonymous requests to the login page,
// preserving the original destination.
func LoginRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, exists := c.Get("user_id"); !exists {
			next := url.QueryEscape(c.Request.URL.RequestURI())
			c.Redirect(http.StatusSeeOther, "/auth/login?next="+next)
			c.Abort()
			return
		}
		c.Next()
	}
}
