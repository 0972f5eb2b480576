package shared_test

import (
	"context"
	"errors"
	"rental/shared"
	"rental/shared/cache/mocks"
	"rental/shared/constant"
	"rental/shared/dto"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func TestConvertStringToBool(t *testing.T) {
	assert.Nil(t, shared.ConvertStringToBool(""))
	assert.Nil(t, shared.ConvertStringToBool("maybe"))
	assert.Equal(t, true, *shared.ConvertStringToBool("true"))
	assert.Equal(t, false, *shared.ConvertStringToBool("0"))
}

func TestConvertStringToInt(t *testing.T) {
	assert.Nil(t, shared.ConvertStringToInt(""))
	assert.Nil(t, shared.ConvertStringToInt("3h"))
	assert.Equal(t, 12, *shared.ConvertStringToInt("12"))
	assert.Equal(t, -1, *shared.ConvertStringToInt("-1"))
}

func TestCalculateTotalPage(t *testing.T) {
	tests := []struct {
		total, limit, want int
	}{
		{0, 10, 1},
		{5, 0, 1},
		{10, 10, 1},
		{11, 10, 2},
		{95, 20, 5},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, shared.CalculateTotalPage(tt.total, tt.limit))
	}
}

func TestTransformFields(t *testing.T) {
	type patch struct {
		Title          string   `db:"title"`
		RentPerHour    float64  `db:"rent_per_hour"`
		InstantBooking *bool    `db:"instant_booking"`
		Note           string   `db:"note"`
		Tags           []string `json:"tags"`
	}

	off := false

	result := shared.TransformFields(patch{
		Title:          "Camera",
		InstantBooking: &off,
		Tags:           []string{"ignored"},
	}, "owner-1")

	assert.Equal(t, "Camera", result["title"])
	assert.Equal(t, false, result["instant_booking"])
	assert.NotContains(t, result, "rent_per_hour")
	assert.NotContains(t, result, "note")
	assert.NotContains(t, result, "tags")
	assert.Equal(t, "owner-1", result[constant.FieldModifiedBy])
	assert.IsType(t, time.Time{}, result[constant.FieldModifiedAt])
}

func TestFilterByID(t *testing.T) {
	result := shared.FilterByID("b-1", "id", "bookings")

	assert.Equal(t, dto.FilterGroup{
		Filters: []any{
			dto.Filter{Field: "id", Value: "b-1", Operator: dto.FilterOperatorEq, Table: "bookings"},
		},
	}, result)
}

func TestBuildCacheKey(t *testing.T) {
	assert.Equal(t, "booking:get:b-1", shared.BuildCacheKey("booking", "get", "b-1"))
	assert.Equal(t, "booking:list:2:10:from_date:ASC:(renter_id = :renter_id):map[renter_id:u-1]",
		shared.BuildCacheKeyWithQuery("booking:list", dto.QueryParams{Page: 2, Limit: 10, SortBy: "from_date", SortDir: "ASC"}, shared.FilterByID("u-1", "renter_id", "")))
}

func TestInvalidateCaches(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	redisCache := mocks.NewMockRedisCache(ctrl)
	ctx := context.Background()

	redisCache.EXPECT().Delete(ctx, "booking:get:b-1").Return(nil)
	redisCache.EXPECT().Clear(ctx, "booking:list:").Return(errors.New("redis down"))

	shared.InvalidateCaches(ctx, redisCache, "booking:get:b-1", "booking:list:*")
}

func TestIdentityRoundTrip(t *testing.T) {
	identity := shared.Identity{ID: "u-1", Email: "ana@example.com", Name: "Ana", CurrencyCode: "USD", Role: constant.RoleUser}

	ctx := shared.ContextWithIdentity(context.Background(), identity)

	assert.Equal(t, identity, shared.IdentityFromContext(ctx))
	assert.Equal(t, shared.Identity{}, shared.IdentityFromContext(context.Background()))
}
