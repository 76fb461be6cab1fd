package models

import (
	"github.com/golang-jwt/jwt/v5"
)

// LoginRequest holds credentials for authenticating a user.
type LoginRequest struct {
	Username  string `json:"username" validate:"required"`
	Password  string `json:"password" validate:"required"`
	IP        string `json:"-"`
	UserAgent string `json:"-"`
}

// RegisterRequest creates a new account.
type RegisterRequest struct {
	Username   string   `json:"username" validate:"required"`
	Email      string   `json:"email" validate:"required,email"`
	Password   string   `json:"password" validate:"required,min=6"`
	FullName   string   `json:"fullName" validate:"required"`
	Role       UserRole `json:"role" validate:"required,oneof=admin dean alumni"`
	Department string   `json:"department"`
	IP         string   `json:"-"`
	UserAgent  string   `json:"-"`
}

// LoginResponse returns the issued token and user info.
type LoginResponse struct {
	Token     string   `json:"token"`
	ExpiresIn int64    `json:"expires_in"`
	User      UserInfo `json:"user"`
}

// UserInfo describes the authenticated user in responses.
type UserInfo struct {
	ID         int64    `json:"id"`
	Username   string   `json:"username"`
	Email      string   `json:"email,omitempty"`
	FullName   string   `json:"full_name,omitempty"`
	Role       UserRole `json:"role"`
	Department string   `json:"department,omitempty"`
}

// JWTClaims represents the JWT payload for access tokens.
type JWTClaims struct {
	UserID     int64    `json:"user_id"`
	Username   string   `json:"username"`
	Role       UserRole `json:"role"`
	Department string   `json:"department,omitempty"`
	jwt.RegisteredClaims
}
