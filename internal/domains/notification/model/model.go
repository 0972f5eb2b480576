package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"rental/shared/model"
)

const (
	TableName  = "notifications"
	EntityName = "notification"

	FieldID          = "id"
	FieldRecipientID = "recipient_id"
	FieldEventType   = "event_type"
	FieldReadAt      = "read_at"
)

const (
	EventBookingCreated   = "booking.created"
	EventBookingApproved  = "booking.approved"
	EventBookingRejected  = "booking.rejected"
	EventBookingCancelled = "booking.cancelled"
	EventBookingPaid      = "booking.paid"
	EventBookingPicked    = "booking.picked"
	EventBookingReturned  = "booking.returned"
	EventBookingDeleted   = "booking.deleted"
)

const CacheGetAll = "notification:gets"

var errInvalidData = errors.New("unsupported notification data value")

type Notification struct {
	ID          string     `db:"id"`
	RecipientID string     `db:"recipient_id"`
	EventType   string     `db:"event_type"`
	Title       string     `db:"title"`
	Body        string     `db:"body"`
	Data        Data       `db:"data"`
	ReadAt      *time.Time `db:"read_at"`
	model.Metadata
}

// Data is the free-form payload clients use to deep-link, stored as JSONB.
type Data map[string]string

func (d Data) Value() (driver.Value, error) {
	if d == nil {
		return []byte("{}"), nil
	}

	return json.Marshal(d)
}

func (d *Data) Scan(src any) error {
	switch value := src.(type) {
	case nil:
		*d = Data{}

		return nil
	case []byte:
		return json.Unmarshal(value, d)
	case string:
		return json.Unmarshal([]byte(value), d)
	default:
		return fmt.Errorf("%w: %T", errInvalidData, src)
	}
}
