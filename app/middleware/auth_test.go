package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/mohammedgidrah/testing-hotel-sub000/app/entities"
	"github.com/mohammedgidrah/testing-hotel-sub000/app/session"
)

var testSecret = []byte("testsecret")

func signToken(t *testing.T, role string) string {
	t.Helper()
	claims := entities.Claims{
		ID:       3,
		Username: "frontdesk",
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return token
}

func protected(roles ...string) *echo.Echo {
	log := logrus.New()
	log.SetOutput(io.Discard)

	e := echo.New()
	g := e.Group("", SessionMiddleware(testSecret, log), RoleAuthMiddleware(roles...))
	g.GET("/whoami", func(c echo.Context) error {
		sess := SessionFrom(c)
		fromCtx, ok := session.FromContext(c.Request().Context())
		if !ok || fromCtx != sess {
			return c.String(http.StatusInternalServerError, "session missing from request context")
		}
		return c.String(http.StatusOK, sess.Username())
	})
	return e
}

func TestSessionMiddleware(t *testing.T) {
	e := protected(entities.RoleAdmin, entities.RoleReceptionist)

	cases := []struct {
		name   string
		header string
		want   int
	}{
		{"no header", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"garbage token", "Bearer not-a-jwt", http.StatusUnauthorized},
		{"wrong role", "Bearer " + signToken(t, entities.RoleAccountant), http.StatusForbidden},
		{"receptionist", "Bearer " + signToken(t, entities.RoleReceptionist), http.StatusOK},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		if rec.Code != tc.want {
			t.Fatalf("%s: status = %d, want %d (%s)", tc.name, rec.Code, tc.want, rec.Body.String())
		}
		if tc.want == http.StatusOK && rec.Body.String() != "frontdesk" {
			t.Fatalf("%s: body = %q", tc.name, rec.Body.String())
		}
	}
}

func TestRoleAuthWithoutSession(t *testing.T) {
	e := echo.New()
	e.GET("/open", func(c echo.Context) error { return c.NoContent(http.StatusOK) }, RoleAuthMiddleware(entities.RoleAdmin))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/open", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}
