package models

import "time"

// Role values assigned to users. Roles are immutable from the client side.
const (
	RoleVendor = "VENDOR"
	RoleAdmin  = "ADMIN"
)

// User represents a registered account, either a bidding vendor or an administrator.
type User struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Email         string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash  string    `gorm:"size:255;not null" json:"-"`
	Name          string    `gorm:"size:255;not null" json:"name"`
	Role          string    `gorm:"size:16;not null;default:VENDOR" json:"role"`
	LicenseNumber *string   `gorm:"size:64" json:"license_number"`
	TaxID         *string   `gorm:"size:64" json:"tax_id"`
	LicensePath   *string   `gorm:"size:512" json:"-"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// IsAdmin reports whether the user holds the administrator role.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
