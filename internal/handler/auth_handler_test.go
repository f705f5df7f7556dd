package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/addisware/procure-api/internal/apperr"
	"github.com/addisware/procure-api/internal/dto"
	"github.com/addisware/procure-api/internal/handler"
	"github.com/addisware/procure-api/internal/models"
)

type mockAuthService struct {
	user  dto.UserResponse
	token string
	err   error
}

func (m *mockAuthService) Register(context.Context, dto.RegisterRequest) (dto.UserResponse, error) {
	return m.user, m.err
}

func (m *mockAuthService) Login(context.Context, dto.LoginRequest) (string, dto.UserResponse, error) {
	return m.token, m.user, m.err
}

func (m *mockAuthService) Me(context.Context, uint) (dto.UserResponse, error) {
	return m.user, m.err
}

func (m *mockAuthService) ChangePassword(context.Context, uint, dto.ChangePasswordRequest) error {
	return m.err
}

func (m *mockAuthService) UpdateProfile(context.Context, uint, dto.ProfileUpdateRequest) (dto.UserResponse, error) {
	return m.user, m.err
}

func (m *mockAuthService) StoreLicense(context.Context, uint, *multipart.FileHeader) (dto.UserResponse, error) {
	return m.user, m.err
}

func newAuthApp(svc *mockAuthService) *fiber.App {
	app := fiber.New()
	authenticated := func(c *fiber.Ctx) error {
		c.Locals("user_id", uint(7))
		c.Locals("user_role", models.RoleVendor)
		return c.Next()
	}
	handler.NewAuthHandler(svc, time.Hour, false, zerolog.Nop()).Register(app.Group("/auth"), authenticated)
	return app
}

func TestAuthHandlerLoginSetsCookie(t *testing.T) {
	svc := &mockAuthService{token: "signed-token", user: dto.UserResponse{ID: 7, Email: "v@example.com", Role: models.RoleVendor}}
	app := newAuthApp(svc)

	body, err := json.Marshal(dto.LoginRequest{Email: "v@example.com", Password: "supersecret"})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	cookies := resp.Cookies()
	require.Len(t, cookies, 1)
	require.Equal(t, "token", cookies[0].Name)
	require.Equal(t, "signed-token", cookies[0].Value)
	require.True(t, cookies[0].HttpOnly)
}

func TestAuthHandlerLoginRejectsBadCredentials(t *testing.T) {
	svc := &mockAuthService{err: apperr.ErrInvalidCredentials}
	app := newAuthApp(svc)

	body, err := json.Marshal(dto.LoginRequest{Email: "v@example.com", Password: "wrong"})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	require.Empty(t, resp.Cookies())
}

func TestAuthHandlerRegisterConflict(t *testing.T) {
	svc := &mockAuthService{err: apperr.ErrEmailTaken}
	app := newAuthApp(svc)

	body, err := json.Marshal(dto.RegisterRequest{Email: "v@example.com", Password: "supersecret", Name: "Vendor"})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestAuthHandlerLogoutClearsCookie(t *testing.T) {
	app := newAuthApp(&mockAuthService{})

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/auth/logout", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	cookies := resp.Cookies()
	require.Len(t, cookies, 1)
	require.Equal(t, "token", cookies[0].Name)
	require.Empty(t, cookies[0].Value)
	require.True(t, cookies[0].Expires.Before(time.Now()))
}

func TestAuthHandlerMe(t *testing.T) {
	svc := &mockAuthService{user: dto.UserResponse{ID: 7, Email: "v@example.com", Role: models.RoleVendor}}
	app := newAuthApp(svc)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/auth/me", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var response struct {
		Data dto.UserResponse `json:"data"`
	}
	decodeResponse(t, resp, &response)
	require.Equal(t, uint(7), response.Data.ID)
}

func TestAuthHandlerProfilePatch(t *testing.T) {
	svc := &mockAuthService{user: dto.UserResponse{ID: 7, Email: "v@example.com"}}
	app := newAuthApp(svc)

	req := httptest.NewRequest(http.MethodPatch, "/auth/profile", bytes.NewReader([]byte(`{"license_number":null}`)))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestAuthHandlerProfilePatchRejectsInvalidName(t *testing.T) {
	svc := &mockAuthService{err: apperr.ErrInvalidName}
	app := newAuthApp(svc)

	req := httptest.NewRequest(http.MethodPatch, "/auth/profile", bytes.NewReader([]byte(`{"name":"A"}`)))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var response struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	decodeResponse(t, resp, &response)
	require.False(t, response.Success)
	require.Equal(t, "name must be at least 2 characters", response.Message)
}
