package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"rental/config"
	"rental/infras/kafka"
	kafkaMocks "rental/infras/kafka/mocks"
	"rental/infras/otel/mocks"
	"rental/infras/push"
	pushMocks "rental/infras/push/mocks"
	notificationMocks "rental/internal/domains/notification/mocks"
	"rental/internal/domains/notification/model"
	"rental/internal/domains/notification/model/dto"
	"rental/internal/domains/notification/service"
	"rental/shared"
	cacheMocks "rental/shared/cache/mocks"
	"rental/shared/constant"
	gDto "rental/shared/dto"
	"rental/shared/failure"
)

func setup(t *testing.T) (*notificationMocks.MockNotification, *pushMocks.MockPush, *cacheMocks.MockRedisCache, service.Notification) {
	t.Helper()

	ctrl := gomock.NewController(t)

	repo := notificationMocks.NewMockNotification(ctrl)
	pusher := pushMocks.NewMockPush(ctrl)
	cache := cacheMocks.NewMockRedisCache(ctrl)

	cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	cfg := &config.Config{}
	cfg.Cache.TTL = 60

	return repo, pusher, cache, service.New(repo, pusher, cfg, cache, mocks.NewOtel())
}

func bookingEvent() dto.Event {
	return dto.Event{
		ID:           "evt-1",
		Type:         model.EventBookingCreated,
		RecipientIDs: []string{"owner-1"},
		Title:        "New booking",
		Body:         "BK1234ABCD was requested",
		Data:         map[string]string{"booking_id": "b-1"},
	}
}

func TestNotificationService_Deliver(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(repo *notificationMocks.MockNotification, pusher *pushMocks.MockPush)
		wantErr   bool
	}{
		{
			name: "stores and pushes",
			setupMock: func(repo *notificationMocks.MockNotification, pusher *pushMocks.MockPush) {
				repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				repo.EXPECT().Insert(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, notification model.Notification) error {
						assert.Equal(t, bookingEvent().NotificationID("owner-1"), notification.ID)
						assert.Equal(t, "owner-1", notification.RecipientID)
						assert.Equal(t, "b-1", notification.Data["booking_id"])

						return nil
					})
				pusher.EXPECT().Send(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, message push.Message) error {
						assert.Equal(t, []string{"owner-1"}, message.RecipientIDs)

						return nil
					})
			},
		},
		{
			name: "redelivery skips stored rows",
			setupMock: func(repo *notificationMocks.MockNotification, pusher *pushMocks.MockPush) {
				repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
				pusher.EXPECT().Send(gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name: "push failure is retried by the consumer",
			setupMock: func(repo *notificationMocks.MockNotification, pusher *pushMocks.MockPush) {
				repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)
				pusher.EXPECT().Send(gomock.Any(), gomock.Any()).Return(errors.New("gateway down"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, pusher, _, svc := setup(t)
			tt.setupMock(repo, pusher)

			err := svc.Deliver(context.Background(), bookingEvent())

			if tt.wantErr {
				assert.Error(t, err)

				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestNotificationService_MarkRead(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(repo *notificationMocks.MockNotification)
		wantKind  string
	}{
		{
			name: "own notification",
			setupMock: func(repo *notificationMocks.MockNotification) {
				repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
				repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
						assert.IsType(t, time.Time{}, fields[model.FieldReadAt])

						return nil
					})
			},
		},
		{
			name: "someone else's notification",
			setupMock: func(repo *notificationMocks.MockNotification) {
				repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
			},
			wantKind: failure.KindNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, _, _, svc := setup(t)
			tt.setupMock(repo)

			ctx := shared.ContextWithIdentity(context.Background(), shared.Identity{ID: "owner-1"})
			err := svc.MarkRead(ctx, "n-1")

			if tt.wantKind != constant.Empty {
				assert.Equal(t, tt.wantKind, failure.GetKind(err))

				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestNotificationService_GetAll(t *testing.T) {
	repo, _, cache, svc := setup(t)

	cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("miss"))
	repo.EXPECT().Count(gomock.Any(), shared.FilterByID("owner-1", model.FieldRecipientID, model.TableName)).Return(1, nil)
	repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]model.Notification{{ID: "n-1", Title: "New booking"}}, nil)

	ctx := shared.ContextWithIdentity(context.Background(), shared.Identity{ID: "owner-1"})
	res, err := svc.GetAll(ctx, gDto.QueryParams{Page: 1, Limit: 10})

	assert.NoError(t, err)
	assert.Len(t, res.Notifications, 1)
	assert.False(t, res.Notifications[0].Read)
}

func TestDispatcher_Notify(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := kafkaMocks.NewMockClient(ctrl)

	cfg := &config.Config{}
	cfg.Kafka.Topic.BookingEvents = "booking-events"

	sent := make(chan kafka.Message, 1)

	client.EXPECT().SendMessages(gomock.Any(), "booking-events", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, messages ...kafka.Message) error {
			sent <- messages[0]

			return errors.New("broker down")
		})

	event := bookingEvent()
	event.ID = constant.Empty

	service.NewDispatcher(client, cfg).Notify(context.Background(), event)

	select {
	case message := <-sent:
		assert.NotEmpty(t, message.Key)
		assert.Equal(t, message.Key, message.Value.(dto.Event).ID)
	case <-time.After(time.Second):
		t.Fatal("event was not published")
	}
}

func TestDispatcher_NotifyWithoutRecipients(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := kafkaMocks.NewMockClient(ctrl)

	service.NewDispatcher(client, &config.Config{}).Notify(context.Background(), dto.Event{Type: model.EventBookingPaid})
}
