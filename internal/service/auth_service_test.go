package service

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/tutorbook-api/internal/dto"
	"github.com/noah-isme/tutorbook-api/internal/models"
	"github.com/noah-isme/tutorbook-api/internal/repository"
	"github.com/noah-isme/tutorbook-api/internal/testutil/testdb"
)

const testSecret = "test-secret"

func newTestAuthService(t *testing.T) AuthService {
	t.Helper()
	db := testdb.Open(t)
	svc := NewAuthService(repository.NewUserRepository(db), validator.New(validator.WithRequiredStructEnabled()), testSecret, time.Hour, testLogger())
	svc.(*authService).now = func() time.Time { return time.Now().Truncate(time.Second) }
	return svc
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, dto.RegisterRequest{Username: "tutor", Password: "secret123", Role: "Teacher"})
	require.NoError(t, err)
	require.Equal(t, models.RoleTeacher, user.Role)

	_, err = svc.Register(ctx, dto.RegisterRequest{Username: "tutor", Password: "another123", Role: "parent"})
	require.ErrorIs(t, err, ErrUsernameTaken)

	token, err := svc.Login(ctx, dto.LoginRequest{Username: "tutor", Password: "secret123"})
	require.NoError(t, err)
	require.Equal(t, "Bearer", token.TokenType)
	require.Equal(t, user.ID, token.User.ID)

	parsed, err := jwt.Parse(token.AccessToken, func(*jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	require.NoError(t, err)
	claims, ok := parsed.Claims.(jwt.MapClaims)
	require.True(t, ok)
	require.Equal(t, models.RoleTeacher, claims["role"])
	require.Equal(t, "tutor", claims["username"])

	subject, err := claims.GetSubject()
	require.NoError(t, err)
	require.NotEmpty(t, subject)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, dto.RegisterRequest{Username: "mum", Password: "secret123", Role: "parent"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, dto.LoginRequest{Username: "mum", Password: "wrong-pass"})
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, dto.LoginRequest{Username: "nobody", Password: "secret123"})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegisterRejectsUnknownRole(t *testing.T) {
	svc := newTestAuthService(t)

	_, err := svc.Register(context.Background(), dto.RegisterRequest{Username: "admin", Password: "secret123", Role: "admin"})
	require.Error(t, err)
}
