package service

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/addisware/procure-api/internal/apperr"
	"github.com/addisware/procure-api/internal/dto"
	"github.com/addisware/procure-api/internal/models"
	"github.com/addisware/procure-api/internal/repository"
	"github.com/addisware/procure-api/pkg/blobstore"
)

const bcryptCost = 10

// AuthService manages registration, authentication and profile maintenance.
type AuthService interface {
	Register(ctx context.Context, payload dto.RegisterRequest) (dto.UserResponse, error)
	Login(ctx context.Context, payload dto.LoginRequest) (string, dto.UserResponse, error)
	Me(ctx context.Context, userID uint) (dto.UserResponse, error)
	ChangePassword(ctx context.Context, userID uint, payload dto.ChangePasswordRequest) error
	UpdateProfile(ctx context.Context, userID uint, payload dto.ProfileUpdateRequest) (dto.UserResponse, error)
	StoreLicense(ctx context.Context, userID uint, file *multipart.FileHeader) (dto.UserResponse, error)
}

type authService struct {
	users     repository.UserRepository
	store     FileStore
	validator *validator.Validate
	logger    zerolog.Logger
	secret    []byte
	tokenTTL  time.Duration
	maxUpload int64
	now       func() time.Time
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(users repository.UserRepository, store FileStore, validate *validator.Validate, secret string, tokenTTL time.Duration, maxUploadMB int, logger zerolog.Logger) AuthService {
	if maxUploadMB <= 0 {
		maxUploadMB = 10
	}
	return &authService{
		users:     users,
		store:     store,
		validator: validate,
		logger:    logger.With().Str("component", "auth_service").Logger(),
		secret:    []byte(secret),
		tokenTTL:  tokenTTL,
		maxUpload: int64(maxUploadMB) * 1024 * 1024,
		now:       time.Now,
	}
}

func (s *authService) Register(ctx context.Context, payload dto.RegisterRequest) (dto.UserResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.UserResponse{}, err
	}

	if _, err := s.users.GetByEmail(ctx, payload.Email); err == nil {
		return dto.UserResponse{}, apperr.ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.UserResponse{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcryptCost)
	if err != nil {
		return dto.UserResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		Email:        payload.Email,
		PasswordHash: string(hash),
		Name:         payload.Name,
		Role:         models.RoleVendor,
	}

	if err := s.users.Create(ctx, &user); err != nil {
		// Two concurrent registrations race on the unique email index.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return dto.UserResponse{}, apperr.ErrEmailTaken
		}
		return dto.UserResponse{}, err
	}

	s.logger.Info().Uint("user_id", user.ID).Msg("user registered")

	return dto.NewUserResponse(user), nil
}

func (s *authService) Login(ctx context.Context, payload dto.LoginRequest) (string, dto.UserResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return "", dto.UserResponse{}, err
	}

	// Unknown email and wrong password return the same error so the
	// endpoint cannot be used to enumerate accounts.
	user, err := s.users.GetByEmail(ctx, payload.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", dto.UserResponse{}, apperr.ErrInvalidCredentials
		}
		return "", dto.UserResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(payload.Password)); err != nil {
		return "", dto.UserResponse{}, apperr.ErrInvalidCredentials
	}

	token, err := s.signToken(user)
	if err != nil {
		return "", dto.UserResponse{}, err
	}

	return token, dto.NewUserResponse(user), nil
}

func (s *authService) Me(ctx context.Context, userID uint) (dto.UserResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.UserResponse{}, apperr.ErrUserNotFound
		}
		return dto.UserResponse{}, err
	}

	return dto.NewUserResponse(user), nil
}

func (s *authService) ChangePassword(ctx context.Context, userID uint, payload dto.ChangePasswordRequest) error {
	if err := s.validator.Struct(payload); err != nil {
		return err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.ErrUserNotFound
		}
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(payload.CurrentPassword)); err != nil {
		return apperr.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(payload.NewPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user.PasswordHash = string(hash)
	if err := s.users.Update(ctx, &user); err != nil {
		return err
	}

	s.logger.Info().Uint("user_id", user.ID).Msg("password changed")

	return nil
}

func (s *authService) UpdateProfile(ctx context.Context, userID uint, payload dto.ProfileUpdateRequest) (dto.UserResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.UserResponse{}, apperr.ErrUserNotFound
		}
		return dto.UserResponse{}, err
	}

	// Absent fields leave the stored value untouched; explicit null clears
	// the nullable fields. The display name is mandatory, so a null or
	// too-short name is rejected rather than dropped.
	if payload.Name.Present {
		if payload.Name.Value == nil || len(strings.TrimSpace(*payload.Name.Value)) < 2 {
			return dto.UserResponse{}, apperr.ErrInvalidName
		}
		user.Name = *payload.Name.Value
	}
	if payload.LicenseNumber.Present {
		user.LicenseNumber = payload.LicenseNumber.Value
	}
	if payload.TaxID.Present {
		user.TaxID = payload.TaxID.Value
	}

	if err := s.users.Update(ctx, &user); err != nil {
		return dto.UserResponse{}, err
	}

	return dto.NewUserResponse(user), nil
}

func (s *authService) StoreLicense(ctx context.Context, userID uint, file *multipart.FileHeader) (dto.UserResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.UserResponse{}, apperr.ErrUserNotFound
		}
		return dto.UserResponse{}, err
	}

	payload, err := readUpload(file, s.maxUpload, []string{"application/pdf", "image/png", "image/jpeg"})
	if err != nil {
		return dto.UserResponse{}, err
	}

	path, err := s.store.Save(ctx, blobstore.PurposeLicenses, file.Filename, bytesReader(payload))
	if err != nil {
		return dto.UserResponse{}, fmt.Errorf("failed to store license document: %w", err)
	}

	user.LicensePath = &path
	if err := s.users.Update(ctx, &user); err != nil {
		return dto.UserResponse{}, err
	}

	s.logger.Info().Uint("user_id", user.ID).Str("path", path).Msg("license document stored")

	return dto.NewUserResponse(user), nil
}

func (s *authService) signToken(user models.User) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"sub":   fmt.Sprintf("%d", user.ID),
		"email": user.Email,
		"role":  user.Role,
		"iat":   now.Unix(),
		"exp":   now.Add(s.tokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}
