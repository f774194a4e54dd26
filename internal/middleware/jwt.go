package middleware

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/noah-isme/tutorbook-api/internal/models"
	"github.com/noah-isme/tutorbook-api/internal/utils"
)

// Locals keys written by the auth middlewares.
const (
	LocalUserID   = "user_id"
	LocalUserRole = "user_role"
)

// Authenticate resolves the caller from an optional bearer token. Requests
// without an Authorization header continue as anonymous; a malformed or
// expired token is rejected.
func Authenticate(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authorization := strings.TrimSpace(c.Get("Authorization"))
		if authorization == "" {
			c.Locals(LocalUserRole, models.RoleAnonymous)
			return c.Next()
		}

		userID, role, err := parseBearer(authorization, secret)
		if err != nil {
			return utils.SendError(c, fiber.StatusUnauthorized, err.Error())
		}

		c.Locals(LocalUserID, userID)
		c.Locals(LocalUserRole, role)
		return c.Next()
	}
}

func parseBearer(authorization, secret string) (uint, string, error) {
	const bearer = "Bearer "
	if len(authorization) < len(bearer) || !strings.EqualFold(authorization[:len(bearer)], bearer) {
		return 0, "", fmt.Errorf("invalid authorization header")
	}

	tokenString := strings.TrimSpace(authorization[len(bearer):])
	if tokenString == "" {
		return 0, "", fmt.Errorf("invalid token")
	}

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return 0, "", fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, "", fmt.Errorf("invalid token claims")
	}

	userID, err := extractUserID(claims)
	if err != nil {
		return 0, "", fmt.Errorf("invalid token subject")
	}

	role := normalizeRoleValue(claims["role"])
	if role != models.RoleTeacher && role != models.RoleParent {
		return 0, "", fmt.Errorf("invalid token role")
	}

	return userID, role, nil
}

func extractUserID(claims jwt.MapClaims) (uint, error) {
	switch v := claims["sub"].(type) {
	case string:
		parsed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return 0, err
		}
		if parsed == 0 {
			return 0, fmt.Errorf("empty subject")
		}
		return uint(parsed), nil
	case float64:
		if v <= 0 {
			return 0, fmt.Errorf("invalid subject")
		}
		return uint(v), nil
	default:
		return 0, fmt.Errorf("unsupported subject type")
	}
}
