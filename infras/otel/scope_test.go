package otel_test

import (
	"errors"
	"rental/infras/otel"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/attribute"
)

func TestAttribute(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  attribute.Value
	}{
		{name: "bool", value: true, want: attribute.BoolValue(true)},
		{name: "string", value: "booked", want: attribute.StringValue("booked")},
		{name: "int", value: 3, want: attribute.IntValue(3)},
		{name: "int64", value: int64(42), want: attribute.Int64Value(42)},
		{name: "float", value: 1.5, want: attribute.Float64Value(1.5)},
		{name: "strings", value: []string{"admin", "user"}, want: attribute.StringSliceValue([]string{"admin", "user"})},
		{name: "amount", value: decimal.RequireFromString("120.50"), want: attribute.StringValue("120.5")},
		{name: "error", value: errors.New("declined"), want: attribute.StringValue("declined")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kv := otel.Attribute("key", tt.value)

			assert.Equal(t, attribute.Key("key"), kv.Key)
			assert.Equal(t, tt.want, kv.Value)
		})
	}
}
