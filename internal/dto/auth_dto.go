package dto

import (
	"time"

	"github.com/addisware/procure-api/internal/models"
)

// RegisterRequest is the payload for vendor self-registration.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name" validate:"required,min=2"`
}

// LoginRequest carries credentials for authentication.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ChangePasswordRequest rotates a user's password after re-proving the current one.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

// ProfileUpdateRequest applies partial profile changes. Fields use
// OptionalString so absent (leave unchanged), null (clear) and a value (set)
// stay distinguishable after decoding.
type ProfileUpdateRequest struct {
	Name          OptionalString `json:"name"`
	LicenseNumber OptionalString `json:"license_number"`
	TaxID         OptionalString `json:"tax_id"`
}

// UserResponse is the public view of a user. The password hash never leaves the service.
type UserResponse struct {
	ID            uint      `json:"id"`
	Email         string    `json:"email"`
	Name          string    `json:"name"`
	Role          string    `json:"role"`
	LicenseNumber *string   `json:"license_number,omitempty"`
	TaxID         *string   `json:"tax_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// NewUserResponse converts a User model into a DTO.
func NewUserResponse(model models.User) UserResponse {
	return UserResponse{
		ID:            model.ID,
		Email:         model.Email,
		Name:          model.Name,
		Role:          model.Role,
		LicenseNumber: model.LicenseNumber,
		TaxID:         model.TaxID,
		CreatedAt:     model.CreatedAt,
	}
}
