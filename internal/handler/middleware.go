package handler

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"trends-go/pkg/logger"
	"trends-go/pkg/storage"
)

const sessionLocal = "session_id"

// SessionMiddleware makes sure every request carries a session id cookie.
func (ctl *Controller) SessionMiddleware(c *fiber.Ctx) error {
	id := c.Cookies(ctl.config.CookieName)
	if !storage.ValidSessionID(id) {
		id = storage.NewSessionID()
	}
	c.Cookie(&fiber.Cookie{
		Name:     ctl.config.CookieName,
		Value:    id,
		Path:     "/",
		Expires:  time.Now().Add(ctl.config.SessionTTL),
		HTTPOnly: true,
		Secure:   ctl.config.SecureCookies,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	c.Locals(sessionLocal, id)
	return c.Next()
}

func sessionID(c *fiber.Ctx) string {
	id, _ := c.Locals(sessionLocal).(string)
	return id
}

// RequestLogger logs one line per request.
func RequestLogger(log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		} else if err != nil {
			status = fiber.StatusInternalServerError
		}

		entry := log.WithFields(map[string]interface{}{
			"method":      c.Method(),
			"path":        c.Path(),
			"status":      status,
			"duration_ms": time.Since(start).Milliseconds(),
		})
		switch {
		case status >= 500:
			entry.WithError(err).Error("Request failed")
		case c.Path() == "/healthz" || c.Path() == "/metrics":
			entry.Debug("Request handled")
		default:
			entry.Info("Request handled")
		}
		return err
	}
}

// ErrorHandler renders errors as {"error": message}.
func ErrorHandler(log *logger.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		msg := "internal server error"

		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
			msg = fe.Message
		} else {
			log.WithError(err).WithField("path", c.Path()).Error("Unhandled error")
		}
		return c.Status(code).JSON(fiber.Map{"error": msg})
	}
}
