package dto

import (
	"rental/internal/domains/user/model"
	"rental/shared"
	gDto "rental/shared/dto"
)

type UserResponse struct {
	ID           string  `json:"id"`
	Email        string  `json:"email"`
	Level        string  `json:"level"`
	FullName     *string `json:"full_name,omitempty"`
	CurrencyCode string  `json:"currency_code"`
	ProfileImage *string `json:"profile_image,omitempty"`
	IsVerified   bool    `json:"is_verified"`
	LastLogin    *string `json:"last_login,omitempty"`
	Active       bool    `json:"active"`
	gDto.Metadata
}

func (r *UserResponse) FromModel(model model.User) {
	r.ID = model.ID
	r.Email = model.Email
	r.Level = model.Level
	r.FullName = model.FullName
	r.CurrencyCode = model.CurrencyCode
	r.ProfileImage = model.ProfileImage
	r.IsVerified = model.IsVerified
	r.LastLogin = model.LastLogin
	r.Active = model.Active
	r.Metadata.FromModel(model.Metadata)
}

// UpdateUserRequest is used by administrators.
type UpdateUserRequest struct {
	Level      *string `db:"level"       json:"level,omitempty"       validate:"omitempty,oneof=superadmin admin user"`
	IsVerified *bool   `db:"is_verified" json:"is_verified,omitempty"`
	Active     *bool   `db:"active"      json:"active,omitempty"`
}

// UpdateProfileRequest is used by the signed in user on their own record.
type UpdateProfileRequest struct {
	FullName     *string `db:"full_name"     json:"full_name,omitempty"     validate:"omitempty,min=2,max=100"`
	CurrencyCode *string `db:"currency_code" json:"currency_code,omitempty" validate:"omitempty,currency"`
	ProfileImage *string `db:"profile_image" json:"profile_image,omitempty" validate:"omitempty,url"`
}

type GetUsersResponse struct {
	Users     []UserResponse `json:"users"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (r *GetUsersResponse) FromModels(models []model.User, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Users = make([]UserResponse, len(models))
	for i, mod := range models {
		r.Users[i].FromModel(mod)
	}
}
