package dto

import (
	"rental/infras/jwt"
	userModel "rental/internal/domains/user/model"
	"rental/shared/constant"
	gModel "rental/shared/model"
	"rental/shared/timezone"
	"time"

	"github.com/google/uuid"
)

type RegisterRequest struct {
	Email        string  `json:"email"                   validate:"required,email"`
	Password     string  `json:"password"                validate:"required,min=8,max=72"`
	FullName     *string `json:"full_name,omitempty"     validate:"omitempty,min=2,max=100"`
	CurrencyCode string  `json:"currency_code,omitempty" validate:"omitempty,currency"`
}

func (r *RegisterRequest) ToUserModel(hashedPassword string) userModel.User {
	currency := r.CurrencyCode
	if currency == constant.Empty {
		currency = constant.DefaultCurrencyCode
	}

	now := timezone.Now()

	return userModel.User{
		ID:           uuid.NewString(),
		Email:        r.Email,
		Password:     hashedPassword,
		Level:        constant.RoleUser,
		FullName:     r.FullName,
		CurrencyCode: currency,
		IsVerified:   false,
		Active:       true,
		Metadata: gModel.NewMetadata(now, constant.ContextGuest),
	}
}

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UpdateLastLoginRequest struct {
	LastLogin time.Time `db:"last_login" json:"last_login" validate:"required"`
}

type LoginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

func (l *LoginResponse) FromTokenPair(tokenPair *jwt.TokenPair) {
	l.AccessToken = tokenPair.AccessToken
	l.RefreshToken = tokenPair.RefreshToken
	l.TokenType = tokenPair.TokenType
	l.ExpiresIn = tokenPair.ExpiresIn
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type RefreshTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

func (r *RefreshTokenResponse) FromTokenPair(tokenPair *jwt.TokenPair) {
	r.AccessToken = tokenPair.AccessToken
	r.RefreshToken = tokenPair.RefreshToken
	r.TokenType = tokenPair.TokenType
	r.ExpiresIn = tokenPair.ExpiresIn
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password"     validate:"required,min=8,max=72,nefield=CurrentPassword"`
}

type UpdatePasswordRequest struct {
	Password string `db:"password" json:"password" validate:"required,min=8"`
}
