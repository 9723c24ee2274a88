package middleware

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

// LogConfig holds configuration for the logging middleware
type LogConfig struct {
	// Enable console logging
	Console bool
	// Enable file logging
	File bool
	// Log file path
	LogFilePath string
	// Skip logging for specific path prefixes
	SkipPaths []string
}

// LogData contains all the information that will be logged
type LogData struct {
	Timestamp time.Time     `json:"timestamp"`
	Method    string        `json:"method"`
	Path      string        `json:"path"`
	Status    int           `json:"status"`
	Latency   time.Duration `json:"latency"`
	IP        string        `json:"ip"`
	UserAgent string        `json:"user_agent"`
	Admin     bool          `json:"admin"`
	Error     string        `json:"error,omitempty"`
}

func DefaultLogConfig() LogConfig {
	return LogConfig{
		Console:     true,
		File:        true,
		LogFilePath: "logs/requests.log",
		SkipPaths:   []string{"/health", "/static"},
	}
}

// LoggingMiddleware creates a new logging middleware with the given configuration
func LoggingMiddleware(config ...LogConfig) fiber.Handler {
	cfg := DefaultLogConfig()
	if len(config) > 0 {
		cfg = config[0]
	}

	if cfg.File {
		if err := os.MkdirAll("logs", 0755); err != nil {
			log.Printf("Error creating logs directory: %v\n", err)
		}
	}

	return func(c *fiber.Ctx) error {
		for _, skip := range cfg.SkipPaths {
			if strings.HasPrefix(c.Path(), skip) {
				return c.Next()
			}
		}

		start := time.Now()
		err := c.Next()

		data := LogData{
			Timestamp: start,
			Method:    c.Method(),
			Path:      c.Path(),
			Status:    c.Response().StatusCode(),
			Latency:   time.Since(start),
			IP:        c.IP(),
			UserAgent: c.Get("User-Agent"),
			Admin:     c.Locals("admin") != nil,
		}
		if err != nil {
			data.Error = err.Error()
		}

		if cfg.Console {
			log.Printf("[%s] %s %s %d %s %s",
				data.Timestamp.Format("2006-01-02 15:04:05"),
				data.Method, data.Path, data.Status, data.Latency, data.IP)
		}
		if cfg.File {
			jsonData, _ := json.Marshal(data)
			logToFile(cfg.LogFilePath, string(jsonData))
		}

		return err
	}
}

// RequestLogger creates a middleware that logs detailed request information
func RequestLogger() fiber.Handler {
	return LoggingMiddleware()
}

func logToFile(filePath, message string) {
	file, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		log.Printf("Error opening log file %s: %v\n", filePath, err)
		return
	}
	defer file.Close()

	if _, err := fmt.Fprintln(file, message); err != nil {
		log.Printf("Error writing to log file: %v\n", err)
	}
}
