package handler

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/addisware/procure-api/internal/apperr"
	"github.com/addisware/procure-api/internal/dto"
	"github.com/addisware/procure-api/internal/middleware"
	"github.com/addisware/procure-api/internal/service"
	"github.com/addisware/procure-api/internal/utils"
)

// AuthHandler exposes registration, session and profile endpoints.
type AuthHandler struct {
	service      service.AuthService
	logger       zerolog.Logger
	tokenTTL     time.Duration
	cookieSecure bool
}

// NewAuthHandler constructs an auth handler.
func NewAuthHandler(service service.AuthService, tokenTTL time.Duration, cookieSecure bool, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		service:      service,
		logger:       logger.With().Str("component", "auth_handler").Logger(),
		tokenTTL:     tokenTTL,
		cookieSecure: cookieSecure,
	}
}

// Register wires auth routes. Session and profile endpoints sit behind the
// provided authentication middleware.
func (h *AuthHandler) Register(router fiber.Router, protect fiber.Handler) {
	router.Post("/register", h.register)
	router.Post("/login", h.login)
	router.Post("/logout", h.logout)
	router.Get("/me", protect, h.me)
	router.Post("/change-password", protect, h.changePassword)
	router.Patch("/profile", protect, h.updateProfile)
	router.Post("/profile/license", protect, h.uploadLicense)
}

func (h *AuthHandler) register(c *fiber.Ctx) error {
	var payload dto.RegisterRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	response, err := h.service.Register(c.UserContext(), payload)
	if err != nil {
		switch {
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
		case errors.Is(err, apperr.ErrEmailTaken):
			return utils.SendError(c, fiber.StatusConflict, err.Error())
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to register user")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to register")
		}
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "registered", response)
}

func (h *AuthHandler) login(c *fiber.Ctx) error {
	var payload dto.LoginRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	token, user, err := h.service.Login(c.UserContext(), payload)
	if err != nil {
		switch {
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
		case errors.Is(err, apperr.ErrInvalidCredentials):
			return utils.SendError(c, fiber.StatusUnauthorized, err.Error())
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to authenticate user")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to login")
		}
	}

	c.Cookie(&fiber.Cookie{
		Name:     middleware.AuthCookieName,
		Value:    token,
		Expires:  time.Now().Add(h.tokenTTL),
		HTTPOnly: true,
		Secure:   h.cookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
	})

	return utils.SendSuccess(c, "authenticated", fiber.Map{
		"token": token,
		"user":  user,
	})
}

func (h *AuthHandler) logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.AuthCookieName,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		Secure:   h.cookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
	})

	return utils.SendSuccess(c, "logged out", nil)
}

func (h *AuthHandler) me(c *fiber.Ctx) error {
	response, err := h.service.Me(c.UserContext(), userIDFromContext(c))
	if err != nil {
		if errors.Is(err, apperr.ErrUserNotFound) {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid session")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to load profile")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to load profile")
	}

	return utils.SendSuccess(c, "profile", response)
}

func (h *AuthHandler) changePassword(c *fiber.Ctx) error {
	var payload dto.ChangePasswordRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	if err := h.service.ChangePassword(c.UserContext(), userIDFromContext(c), payload); err != nil {
		switch {
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
		case errors.Is(err, apperr.ErrInvalidCredentials):
			return utils.SendError(c, fiber.StatusUnauthorized, err.Error())
		case errors.Is(err, apperr.ErrUserNotFound):
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid session")
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to change password")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to change password")
		}
	}

	return utils.SendSuccess(c, "password changed", nil)
}

func (h *AuthHandler) updateProfile(c *fiber.Ctx) error {
	var payload dto.ProfileUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	response, err := h.service.UpdateProfile(c.UserContext(), userIDFromContext(c), payload)
	if err != nil {
		switch {
		case errors.Is(err, apperr.ErrInvalidName):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, apperr.ErrUserNotFound):
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid session")
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to update profile")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to update profile")
		}
	}

	return utils.SendSuccess(c, "profile updated", response)
}

func (h *AuthHandler) uploadLicense(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, apperr.ErrFileRequired.Error())
	}

	response, err := h.service.StoreLicense(c.UserContext(), userIDFromContext(c), file)
	if err != nil {
		switch {
		case errors.Is(err, apperr.ErrFileRequired):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, apperr.ErrFileTooLarge):
			return utils.SendError(c, fiber.StatusRequestEntityTooLarge, err.Error())
		case errors.Is(err, apperr.ErrFileTypeDenied):
			return utils.SendError(c, fiber.StatusUnsupportedMediaType, err.Error())
		case errors.Is(err, apperr.ErrUserNotFound):
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid session")
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to store license document")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to store license")
		}
	}

	return utils.SendSuccess(c, "license stored", response)
}
