package model

import (
	"rental/shared/constant"
	"rental/shared/model"
)

const (
	TableName  = "users"
	EntityName = "user"

	FieldID           = "id"
	FieldEmail        = "email"
	FieldPassword     = "password"
	FieldLevel        = "level"
	FieldFullName     = "full_name"
	FieldCurrencyCode = "currency_code"
	FieldProfileImage = "profile_image"
	FieldIsVerified   = "is_verified"
	FieldLastLogin    = "last_login"
	FieldActive       = "active"
)

type User struct {
	ID           string  `db:"id"`
	Email        string  `db:"email"`
	Password     string  `db:"password"`
	Level        string  `db:"level"`
	FullName     *string `db:"full_name"`
	CurrencyCode string  `db:"currency_code"`
	ProfileImage *string `db:"profile_image"`
	IsVerified   bool    `db:"is_verified"`
	LastLogin    *string `db:"last_login"`
	Active       bool    `db:"active"`
	model.Metadata
}

// DisplayName falls back to the email when no name was given.
func (u User) DisplayName() string {
	if u.FullName != nil && *u.FullName != "" {
		return *u.FullName
	}

	return u.Email
}

var SortableFields = []string{constant.FieldCreatedAt, FieldEmail, FieldFullName, FieldLastLogin}
