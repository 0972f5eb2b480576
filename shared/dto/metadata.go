package dto

import (
	"rental/shared/constant"
	"rental/shared/model"
	"rental/shared/timezone"
)

// Metadata is the audit trail rendered on resource responses. The
// modification fields stay empty until the record is edited.
type Metadata struct {
	CreatedAt  string `json:"created_at"`
	CreatedBy  string `json:"created_by"`
	ModifiedAt string `json:"modified_at,omitempty"`
	ModifiedBy string `json:"modified_by,omitempty"`
}

func (m *Metadata) FromModel(source model.Metadata) {
	m.CreatedAt = timezone.Format(source.CreatedAt, constant.DateFormat)
	m.CreatedBy = source.CreatedBy

	if !source.Edited() {
		return
	}

	m.ModifiedAt = timezone.Format(source.ModifiedAt, constant.DateFormat)
	m.ModifiedBy = source.ModifiedBy
}
