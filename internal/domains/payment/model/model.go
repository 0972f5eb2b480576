package model

import (
	"rental/shared/model"
)

const (
	TableName  = "merchant_accounts"
	EntityName = "merchant_account"

	FieldID        = "id"
	FieldOwnerID   = "owner_id"
	FieldAccountID = "account_id"
	FieldIsActive  = "is_active"
)

// MerchantAccount links an owner to the connected processor account that
// receives booking proceeds.
type MerchantAccount struct {
	ID        string `db:"id"`
	OwnerID   string `db:"owner_id"`
	AccountID string `db:"account_id"`
	IsActive  bool   `db:"is_active"`
	model.Metadata
}
