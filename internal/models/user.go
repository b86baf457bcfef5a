package models

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID       int    `gorm:"primaryKey" json:"id"`
	Username string `gorm:"unique;not null" json:"username"`
	Email    string `gorm:"unique;not null" json:"email"`
	Password string `gorm:"not null" json:"-"` // For email/password auth
	Bio      string `json:"bio"`
	Avatar   string `json:"avatar"`

	// Identity provider linkage. ExternalID is the provider's subject; a
	// user created through identity resolution has no usable password.
	ExternalID   string `gorm:"uniqueIndex" json:"-"`
	AuthProvider string `json:"auth_provider"` // "email" or "external"

	Role       string `gorm:"default:user" json:"role"`
	IsReported bool   `gorm:"default:false" json:"is_reported"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Avatar   string `json:"avatar"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Token   string `json:"token"`
	User    User   `json:"user"`
	Message string `json:"message"`
}
