package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

func newRoleApp(role string, allowed ...string) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if role != "" {
			c.Locals("user_role", role)
		}
		return c.Next()
	})
	app.Use(RequireRole(allowed...))
	app.Get("/creathons", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func TestRequireRoleAllowsAuthorizedRoles(t *testing.T) {
	app := newRoleApp("coordinator", "mentor", "coordinator")

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/creathons", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRequireRoleRejectsUnauthorizedRoles(t *testing.T) {
	app := newRoleApp("participant", "mentor", "coordinator")

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/creathons", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestRequireRoleRejectsMissingRole(t *testing.T) {
	app := newRoleApp("", "coordinator")

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/creathons", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}
