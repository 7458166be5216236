package middleware

import (
	"time"

	log "github.com/arcvault/arcvault/internal/logger"

	fiber "github.com/gofiber/fiber/v2"
)

// Logger returns a middleware that logs HTTP requests
func Logger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		// Continue chain
		err := c.Next()

		// After request
		stop := time.Now()
		latency := stop.Sub(start)

		fields := map[string]interface{}{
			"timestamp": stop.Format("2006/01/02 - 15:04:05"),
			"status":    c.Response().StatusCode(),
			"latency":   latency,
			"ip":        c.IP(),
			"method":    c.Method(),
			"path":      c.Path(),
			"handler":   c.Route().Name,
		}

		// Org-scoped routes carry the org in the path
		if orgID := c.Params("orgid"); orgID != "" {
			fields["org"] = orgID
		}

		log.InfoWithFields("Request", fields)

		return err
	}
}
