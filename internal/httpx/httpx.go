package httpx

import (
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/seuros/hirefunnel/internal/logging"
)

// HeaderRequestID carries the per-request id.
const HeaderRequestID = "X-Request-ID"

const requestIDLocal = "request_id"

// Error writes a standard error envelope.
func Error(c fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": message,
	})
}

// JSON writes a payload with the provided status code, logging encode failures.
func JSON(c fiber.Ctx, status int, payload any) error {
	if err := c.Status(status).JSON(payload); err != nil {
		logging.L().Warn("failed to encode JSON response", zap.Error(err), zap.String("path", c.Path()))
		return err
	}
	return nil
}

// QueryString fetches a query string parameter with a default value.
func QueryString(c fiber.Ctx, key, defaultValue string) string {
	val := strings.TrimSpace(c.Query(key))
	if val == "" {
		return defaultValue
	}
	return val
}

// HasQuery reports whether the key is present in the query string, even if empty.
func HasQuery(c fiber.Ctx, key string) bool {
	return c.Request().URI().QueryArgs().Has(key)
}

// RequestID tags every request with an id, reusing the caller's when present.
func RequestID() fiber.Handler {
	return func(c fiber.Ctx) error {
		rid := strings.TrimSpace(c.Get(HeaderRequestID))
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Locals(requestIDLocal, rid)
		c.Set(HeaderRequestID, rid)
		return c.Next()
	}
}

// RID returns the request id set by RequestID.
func RID(c fiber.Ctx) string {
	if v, ok := c.Locals(requestIDLocal).(string); ok {
		return v
	}
	return ""
}

// ClientIP returns the client address, preferring proxy headers.
func ClientIP(c fiber.Ctx) string {
	if forwarded := c.Get(fiber.HeaderXForwardedFor); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		return strings.TrimSpace(parts[0])
	}
	if realIP := c.Get("X-Real-IP"); realIP != "" {
		return realIP
	}
	return c.IP()
}
