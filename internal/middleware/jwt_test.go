package middleware

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

const testSecret = "jwt-test-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func authApp() *fiber.App {
	app := fiber.New()
	app.Use(Authenticate(testSecret))
	app.Get("/whoami", func(c *fiber.Ctx) error {
		id, _ := c.Locals(LocalUserID).(uint)
		role, _ := c.Locals(LocalUserRole).(string)
		return c.SendString(role + ":" + strconv.FormatUint(uint64(id), 10))
	})
	return app
}

func whoami(t *testing.T, app *fiber.App, header string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	buf := make([]byte, 64)
	n, _ := resp.Body.Read(buf)
	return resp.StatusCode, string(buf[:n])
}

func TestAuthenticateWithoutTokenIsAnonymous(t *testing.T) {
	status, body := whoami(t, authApp(), "")
	require.Equal(t, fiber.StatusOK, status)
	require.Equal(t, "anonymous:0", body)
}

func TestAuthenticateResolvesPrincipal(t *testing.T) {
	token := signToken(t, testSecret, jwt.MapClaims{
		"sub":  "42",
		"role": "parent",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})

	status, body := whoami(t, authApp(), "Bearer "+token)
	require.Equal(t, fiber.StatusOK, status)
	require.Equal(t, "parent:42", body)
}

func TestAuthenticateRejectsBadTokens(t *testing.T) {
	expired := signToken(t, testSecret, jwt.MapClaims{"sub": "1", "role": "teacher", "exp": time.Now().Add(-time.Minute).Unix()})
	foreign := signToken(t, "other-secret", jwt.MapClaims{"sub": "1", "role": "teacher"})
	unknownRole := signToken(t, testSecret, jwt.MapClaims{"sub": "1", "role": "admin"})

	for _, header := range []string{"Token abc", "Bearer ", "Bearer " + expired, "Bearer " + foreign, "Bearer " + unknownRole} {
		status, _ := whoami(t, authApp(), header)
		require.Equal(t, fiber.StatusUnauthorized, status, header)
	}
}
