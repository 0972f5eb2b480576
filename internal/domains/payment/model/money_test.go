package model_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"rental/internal/domains/payment/model"
)

func TestToMinorUnits(t *testing.T) {
	tests := []struct {
		name   string
		amount string
		want   int64
	}{
		{name: "whole", amount: "30", want: 3000},
		{name: "cents", amount: "12.50", want: 1250},
		{name: "rounds up", amount: "19.999", want: 2000},
		{name: "half away from zero", amount: "0.005", want: 1},
		{name: "rounds down", amount: "10.004", want: 1000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, model.ToMinorUnits(decimal.RequireFromString(tt.amount)))
		})
	}
}

func TestToMinorUnits_NoFloatDrift(t *testing.T) {
	sum := decimal.RequireFromString("0.1").Add(decimal.RequireFromString("0.2"))

	assert.Equal(t, int64(30), model.ToMinorUnits(sum))
}

func TestFromMinorUnits(t *testing.T) {
	assert.True(t, decimal.RequireFromString("12.34").Equal(model.FromMinorUnits(1234)))
	assert.True(t, decimal.Zero.Equal(model.FromMinorUnits(0)))
}

func TestPlatformFee(t *testing.T) {
	tests := []struct {
		name  string
		minor int64
		pct   int64
		want  int64
	}{
		{name: "exact", minor: 3000, pct: 10, want: 300},
		{name: "half rounds up", minor: 1255, pct: 10, want: 126},
		{name: "zero percent", minor: 3000, pct: 0, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, model.PlatformFee(tt.minor, tt.pct))
		})
	}
}
