package middleware

import (
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

const defaultSecret = "turno-session-secret"

const SessionCookie = "turno_session"

// SessionTTL is how long an admin session stays valid
const SessionTTL = 8 * time.Hour

func SecretKey() []byte {
	if s := os.Getenv("SESSION_SECRET"); s != "" {
		return []byte(s)
	}
	return []byte(defaultSecret)
}

// IssueSession signs a session token after a successful passcode check
func IssueSession() (string, error) {
	claims := jwt.RegisteredClaims{
		Issuer:    "turno",
		Subject:   "admin",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(SessionTTL)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(SecretKey())
}

// Verify gates administrative surfaces behind the shared-passcode session.
// Not a security boundary, same as the original passcode gate.
func Verify() fiber.Handler {
	return func(c *fiber.Ctx) error {
		cookie := c.Cookies(SessionCookie)
		if cookie == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Not logged in.",
			})
		}

		token, err := jwt.ParseWithClaims(cookie, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
			return SecretKey(), nil
		})
		if err != nil || !token.Valid {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid or expired session",
			})
		}

		claims, ok := token.Claims.(*jwt.RegisteredClaims)
		if !ok || claims.Subject != "admin" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid session claims",
			})
		}

		c.Locals("admin", true)
		return c.Next()
	}
}
