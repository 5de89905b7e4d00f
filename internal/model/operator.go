package model

import "time"

// Operator is a staff account that manages site content.
type Operator struct {
	ID           int        `json:"id"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	DisplayName  string     `json:"display_name"`
	Role         Role       `json:"role"`
	IsActive     bool       `json:"is_active"`
	IsMaster     bool       `json:"is_master"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	LastLoginAt  *time.Time `json:"last_login"`
}

// LoginRequest is the payload for operator authentication.
// Username accepts either the handle or the email address.
type LoginRequest struct {
	Username string `json:"username" binding:"required,max=255"`
	Password string `json:"password" binding:"required,max=128"`
}

// LoginResponse is returned after successful operator login.
type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
	Operator    *Operator `json:"operator"`
}

// ChangePasswordRequest is the payload for changing the caller's own password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8,max=128"`
}

// CreateOperatorRequest is the payload for creating an operator.
type CreateOperatorRequest struct {
	Username    string `json:"username" binding:"required,min=3,max=50"`
	Email       string `json:"email" binding:"required,email,max=100"`
	Password    string `json:"password" binding:"required,min=8,max=128"`
	DisplayName string `json:"display_name" binding:"required,max=100"`
	Role        Role   `json:"role" binding:"omitempty,oneof=master admin editor"`
}

// UpdateOperatorRequest carries optional changes; nil fields are left untouched.
type UpdateOperatorRequest struct {
	Email       *string `json:"email" binding:"omitempty,email,max=100"`
	DisplayName *string `json:"display_name" binding:"omitempty,min=1,max=100"`
	Role        *Role   `json:"role" binding:"omitempty,oneof=master admin editor"`
	IsActive    *bool   `json:"is_active"`
}
