package dto

import (
	"rental/infras/push"
	"rental/internal/domains/notification/model"
	"rental/shared"
	"rental/shared/constant"
	gDto "rental/shared/dto"
	gModel "rental/shared/model"
	"rental/shared/timezone"

	"github.com/google/uuid"
)

// Event is the message published on the booking events topic.
type Event struct {
	ID           string            `json:"id"`
	Type         string            `json:"type"`
	RecipientIDs []string          `json:"recipient_ids"`
	Title        string            `json:"title"`
	Body         string            `json:"body"`
	Data         map[string]string `json:"data,omitempty"`
}

// NotificationID is stable per event and recipient so redelivered events
// do not create duplicate rows.
func (e Event) NotificationID(recipientID string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(e.ID+":"+recipientID)).String()
}

func (e Event) ToModels() []model.Notification {
	now := timezone.Now()
	models := make([]model.Notification, len(e.RecipientIDs))

	for i, recipient := range e.RecipientIDs {
		models[i] = model.Notification{
			ID:          e.NotificationID(recipient),
			RecipientID: recipient,
			EventType:   e.Type,
			Title:       e.Title,
			Body:        e.Body,
			Data:        e.Data,
			Metadata: gModel.NewMetadata(now, constant.ContextGuest),
		}
	}

	return models
}

func (e Event) ToPushMessage() push.Message {
	return push.Message{
		RecipientIDs: e.RecipientIDs,
		Title:        e.Title,
		Body:         e.Body,
		Data:         e.Data,
	}
}

type NotificationResponse struct {
	ID        string            `json:"id"`
	EventType string            `json:"event_type"`
	Title     string            `json:"title"`
	Body      string            `json:"body"`
	Data      map[string]string `json:"data,omitempty"`
	Read      bool              `json:"read"`
	ReadAt    *string           `json:"read_at,omitempty"`
	gDto.Metadata
}

func (r *NotificationResponse) FromModel(notification model.Notification) {
	r.ID = notification.ID
	r.EventType = notification.EventType
	r.Title = notification.Title
	r.Body = notification.Body
	r.Data = notification.Data
	r.Read = notification.ReadAt != nil
	r.Metadata.FromModel(notification.Metadata)

	if notification.ReadAt != nil {
		readAt := notification.ReadAt.Format(constant.DateFormat)
		r.ReadAt = &readAt
	}
}

type GetNotificationsResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	TotalPage     int                    `json:"total_page"`
	TotalData     int                    `json:"total_data"`
}

func (r *GetNotificationsResponse) FromModels(models []model.Notification, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Notifications = make([]NotificationResponse, len(models))
	for i, mod := range models {
		r.Notifications[i].FromModel(mod)
	}
}
