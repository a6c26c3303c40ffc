package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/mohammedgidrah/testing-hotel-sub000/app/session"
)

const sessionContextKey = "session"

// SessionMiddleware verifies the bearer token with secret and stores the
// caller's session in the echo context and the request context.
func SessionMiddleware(secret []byte, log logrus.FieldLogger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Unauthorized"})
			}

			if !strings.HasPrefix(authHeader, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid Authorization header"})
			}

			sess, err := session.Parse(authHeader, secret)
			if err != nil {
				if !errors.Is(err, session.ErrNoCredential) {
					log.WithError(err).WithField("path", c.Path()).Debug("rejected bearer token")
				}
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid token"})
			}

			c.Set(sessionContextKey, sess)
			req := c.Request()
			c.SetRequest(req.WithContext(session.WithContext(req.Context(), sess)))

			return next(c)
		}
	}
}

// RoleAuthMiddleware lets the request through when the session's role is one
// of requiredRoles. It must run after SessionMiddleware.
func RoleAuthMiddleware(requiredRoles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess := SessionFrom(c)
			if !sess.Active() {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Unauthorized"})
			}

			if !sess.HasRole(requiredRoles...) {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "Forbidden"})
			}

			return next(c)
		}
	}
}

// ==========================================
// HELPER FUNCTION
// ==========================================

// SessionFrom returns the session stored by SessionMiddleware, or nil.
func SessionFrom(c echo.Context) *session.Session {
	if sess, ok := c.Get(sessionContextKey).(*session.Session); ok {
		return sess
	}
	if sess, ok := session.FromContext(c.Request().Context()); ok {
		return sess
	}
	return nil
}
