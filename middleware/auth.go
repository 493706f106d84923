// middleware/auth.go
package middleware

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// Identity is the authenticated principal extracted from a token. Shared
// by the HTTP middleware and the WebSocket handshake.
type Identity struct {
	UserID uint
	Email  string
	Name   string
}

// Token validation failure reasons, for logging only. Callers get a plain
// ok=false; no reason is ever surfaced to the client beyond a 401.
const (
	ReasonMalformed = "malformed"
	ReasonSignature = "signature_mismatch"
	ReasonExpired   = "expired"
	ReasonClaims    = "invalid_claims"
)

func jwtSecret() []byte {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "studyhub-secret-change-in-production"
	}
	return []byte(secret)
}

// ValidateToken checks signature and expiry of a bearer token and extracts
// the caller identity. Pure validation: never panics, never returns an
// error, just ok=false with a reason code.
func ValidateToken(tokenString string) (Identity, string, bool) {
	if tokenString == "" {
		return Identity{}, ReasonMalformed, false
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return jwtSecret(), nil
	})
	if err != nil || !token.Valid {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return Identity{}, ReasonExpired, false
		case errors.Is(err, jwt.ErrTokenMalformed):
			return Identity{}, ReasonMalformed, false
		default:
			return Identity{}, ReasonSignature, false
		}
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Identity{}, ReasonClaims, false
	}

	exp, ok := claims["exp"].(float64)
	if !ok || time.Unix(int64(exp), 0).Before(time.Now()) {
		return Identity{}, ReasonExpired, false
	}

	userID, ok := claims["user_id"].(float64)
	if !ok || userID <= 0 {
		return Identity{}, ReasonClaims, false
	}

	identity := Identity{UserID: uint(userID)}
	if email, ok := claims["email"].(string); ok {
		identity.Email = email
	}
	if name, ok := claims["name"].(string); ok {
		identity.Name = name
	}
	return identity, "", true
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(authHeader string) string {
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}

// AuthMiddleware guards REST routes: rejects requests without a valid
// bearer token and stores the identity in the request context.
func AuthMiddleware(c *fiber.Ctx) error {
	tokenString := BearerToken(c.Get("Authorization"))
	if tokenString == "" {
		return c.Status(401).JSON(fiber.Map{"error": "Missing or malformed authorization header"})
	}

	identity, _, ok := ValidateToken(tokenString)
	if !ok {
		return c.Status(401).JSON(fiber.Map{"error": "Invalid or expired token"})
	}

	c.Locals("userId", identity.UserID)
	c.Locals("email", identity.Email)
	c.Locals("name", identity.Name)

	return c.Next()
}

// GetUserID returns the authenticated user id set by AuthMiddleware.
func GetUserID(c *fiber.Ctx) (uint, error) {
	userID := c.Locals("userId")
	if userID == nil {
		return 0, fiber.NewError(401, "User not authenticated")
	}

	if id, ok := userID.(uint); ok {
		return id, nil
	}
	if id, ok := userID.(float64); ok {
		return uint(id), nil
	}

	return 0, fiber.NewError(401, "Invalid user ID format")
}

// GetEmail returns the authenticated user's email set by AuthMiddleware.
func GetEmail(c *fiber.Ctx) (string, error) {
	email := c.Locals("email")
	if email == nil {
		return "", fiber.NewError(401, "User not authenticated")
	}

	if e, ok := email.(string); ok {
		return e, nil
	}

	return "", fiber.NewError(401, "Invalid email format")
}
