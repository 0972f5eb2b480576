package shared

import (
	"context"
	"fmt"
	"math"
	"reflect"
	"rental/shared/cache"
	"rental/shared/constant"
	"rental/shared/dto"
	"rental/shared/timezone"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

const cacheKeySeparator = ":"

// Identity is the authenticated caller attached to the request context.
type Identity struct {
	ID           string
	Email        string
	Name         string
	CurrencyCode string
	Role         string
}

func ContextWithIdentity(ctx context.Context, identity Identity) context.Context {
	ctx = context.WithValue(ctx, constant.ContextKeyUserID, identity.ID)
	ctx = context.WithValue(ctx, constant.ContextKeyUserEmail, identity.Email)
	ctx = context.WithValue(ctx, constant.ContextKeyUserName, identity.Name)
	ctx = context.WithValue(ctx, constant.ContextKeyCurrencyCode, identity.CurrencyCode)
	ctx = context.WithValue(ctx, constant.ContextKeyUserRole, identity.Role)

	return ctx
}

func IdentityFromContext(ctx context.Context) Identity {
	id, _ := ctx.Value(constant.ContextKeyUserID).(string)
	email, _ := ctx.Value(constant.ContextKeyUserEmail).(string)
	name, _ := ctx.Value(constant.ContextKeyUserName).(string)
	currency, _ := ctx.Value(constant.ContextKeyCurrencyCode).(string)
	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)

	return Identity{ID: id, Email: email, Name: name, CurrencyCode: currency, Role: role}
}

func ConvertStringToBool(value string) *bool {
	if value == "" {
		return nil
	}

	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		log.Error().Err(err).Msg("failed to convert string to bool")

		return nil
	}

	return &boolValue
}

func ConvertStringToInt(value string) *int {
	if value == "" {
		return nil
	}

	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Error().Err(err).Msg("failed to convert string to int")

		return nil
	}

	return &intValue
}

func CalculateTotalPage(total, limit int) (res int) {
	if total == 0 || limit <= 0 {
		res = 1
	} else {
		res = int(math.Ceil(float64(total) / float64(limit)))
	}

	return res
}

// TransformFields converts the non-zero db-tagged fields of a struct into an update map.
func TransformFields(data any, username string) map[string]any {
	val := reflect.ValueOf(data)
	typ := reflect.TypeOf(data)

	updatedFields := make(map[string]any)

	for index := range val.NumField() {
		field := val.Field(index)
		if field.IsZero() {
			continue
		}

		fieldName := typ.Field(index).Tag.Get("db")
		if fieldName == "" {
			continue
		}

		if field.Kind() == reflect.Pointer {
			updatedFields[fieldName] = field.Elem().Interface()

			continue
		}

		updatedFields[fieldName] = field.Interface()
	}

	updatedFields[constant.FieldModifiedAt] = timezone.Now()
	updatedFields[constant.FieldModifiedBy] = username

	return updatedFields
}

func FilterByID(id, fieldID, table string) dto.FilterGroup {
	return dto.FilterGroup{
		Filters: []any{
			dto.Filter{
				Field:    fieldID,
				Value:    id,
				Operator: dto.FilterOperatorEq,
				Table:    table,
			},
		},
	}
}

func BuildCacheKey(parts ...string) string {
	return strings.Join(parts, cacheKeySeparator)
}

// BuildCacheKeyWithQuery appends the pagination of params and the rendered
// filter to the key so every page and filter combination is cached separately.
func BuildCacheKeyWithQuery(prefix string, params dto.QueryParams, filter dto.FilterGroup) string {
	where, args := filter.GetWhereClause()

	return BuildCacheKey(
		prefix,
		strconv.Itoa(params.Page),
		strconv.Itoa(params.Limit),
		params.SortBy,
		params.SortDir,
		where,
		fmt.Sprint(args),
	)
}

// InvalidateCaches drops exact keys and, for keys ending in "*", every key sharing the prefix.
func InvalidateCaches(ctx context.Context, redisCache cache.RedisCache, keys ...string) {
	for _, key := range keys {
		var err error

		if prefix, ok := strings.CutSuffix(key, constant.Asterix); ok {
			err = redisCache.Clear(ctx, prefix)
		} else {
			err = redisCache.Delete(ctx, key)
		}

		if err != nil {
			log.Warn().Err(err).Str("key", key).Msg(fmt.Sprintf("failed to invalidate cache %s", key))
		}
	}
}
