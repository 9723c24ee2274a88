package Controllers

import (
	"log"
	"os"
	"time"

	"Turno/middleware"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

var passcodeHash []byte

// InitPasscode hashes the shared admin passcode once at startup so the
// plaintext never sits in memory longer than needed
func InitPasscode() {
	passcode := os.Getenv("ADMIN_PASSCODE")
	if passcode == "" {
		passcode = "20262"
		log.Println("ADMIN_PASSCODE not set, using default passcode")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(passcode), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash admin passcode: %v", err)
	}
	passcodeHash = hash
}

type LoginRequest struct {
	Passcode string `json:"passcode" validate:"required"`
}

// Login checks the shared passcode and issues a session cookie
func Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"code":    "validation_error",
		})
	}

	if err := bcrypt.CompareHashAndPassword(passcodeHash, []byte(req.Passcode)); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Incorrect passcode",
		})
	}

	token, err := middleware.IssueSession()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to create session",
			"error":   err.Error(),
		})
	}

	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Expires:  time.Now().Add(middleware.SessionTTL),
		HTTPOnly: true,
		SameSite: "Lax",
	})

	return c.JSON(fiber.Map{"message": "Logged in"})
}

// Logout invalidates the session cookie
func Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		SameSite: "Lax",
	})
	return c.JSON(fiber.Map{"message": "Logged out"})
}

// ValidateSession lets the client check whether its session is still good
func ValidateSession(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"valid": true})
}
