package handler

import (
	"time"

	"github.com/StaeyKay/blog-api/internal/core/domain"
)

type signupRequest struct {
	Name     string `json:"name"     validate:"required"`
	Username string `json:"username" validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=4"`
}

type createUserRequest struct {
	Name     string `json:"name"     validate:"required"`
	Username string `json:"username" validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=4"`
	Role     string `json:"role"     validate:"required"`
}

type updateUserRequest struct {
	Name *string `json:"name,omitempty"`
	Role *string `json:"role,omitempty"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"omitempty,email"`
	Username string `json:"username"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Message     string       `json:"message"`
	AccessToken string       `json:"accessToken"`
	ExpiresAt   time.Time    `json:"expiresAt"`
	User        *domain.User `json:"user"`
}

type loggedInUserResponse struct {
	User *domain.User `json:"user"`
}

type userResponse struct {
	Message string       `json:"message,omitempty"`
	Warning string       `json:"warning,omitempty"`
	User    *domain.User `json:"user"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type resetPasswordRequest struct {
	ResetToken string `json:"resetToken" validate:"required"`
	Password   string `json:"password"   validate:"required,min=4"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type articleRequest struct {
	Title    string `json:"title"    validate:"required"`
	Content  string `json:"content"  validate:"required"`
	Author   string `json:"author"   validate:"required"`
	Category string `json:"category" validate:"required"`
	Date     string `json:"date"     validate:"required"`
	ReadTime string `json:"readTime" validate:"required"`
	Image    string `json:"image,omitempty"`
}

type articleResponse struct {
	Message string          `json:"message,omitempty"`
	Article *domain.Article `json:"article"`
}
