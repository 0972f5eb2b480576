package failure_test

import (
	"errors"
	"fmt"
	"net/http"
	"rental/shared/failure"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantKind string
		wantMsg  string
	}{
		{
			name:     "bad request from error",
			err:      failure.BadRequest(errors.New("from_date is required")),
			wantCode: http.StatusBadRequest,
			wantKind: failure.KindValidation,
			wantMsg:  "from_date is required",
		},
		{
			name:     "bad request from string",
			err:      failure.BadRequestFromString("invalid month"),
			wantCode: http.StatusBadRequest,
			wantKind: failure.KindValidation,
			wantMsg:  "invalid month",
		},
		{
			name:     "conflict answers 400",
			err:      failure.Conflict("booking is booked"),
			wantCode: http.StatusBadRequest,
			wantKind: failure.KindConflict,
			wantMsg:  "booking is booked",
		},
		{
			name:     "not found",
			err:      failure.NotFound("booking not found"),
			wantCode: http.StatusNotFound,
			wantKind: failure.KindNotFound,
			wantMsg:  "booking not found",
		},
		{
			name:     "forbidden",
			err:      failure.Forbidden("only the listing owner can approve"),
			wantCode: http.StatusForbidden,
			wantKind: failure.KindForbidden,
			wantMsg:  "only the listing owner can approve",
		},
		{
			name:     "unauthorized",
			err:      failure.Unauthorized("token expired"),
			wantCode: http.StatusUnauthorized,
			wantKind: failure.KindUnauthorized,
			wantMsg:  "token expired",
		},
		{
			name:     "payment rejected",
			err:      failure.PaymentRejected("card declined"),
			wantCode: http.StatusBadRequest,
			wantKind: failure.KindPayment,
			wantMsg:  "card declined",
		},
		{
			name:     "payment error",
			err:      failure.PaymentError("processor unavailable"),
			wantCode: http.StatusInternalServerError,
			wantKind: failure.KindPayment,
			wantMsg:  "processor unavailable",
		},
		{
			name:     "internal",
			err:      failure.InternalError(errors.New("db down")),
			wantCode: http.StatusInternalServerError,
			wantKind: failure.KindInternal,
			wantMsg:  "db down",
		},
		{
			name:     "unimplemented",
			err:      failure.Unimplemented("Refund"),
			wantCode: http.StatusNotImplemented,
			wantKind: failure.KindUnimplemented,
			wantMsg:  "Refund",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f *failure.Failure

			assert.ErrorAs(t, tt.err, &f)
			assert.Equal(t, tt.wantCode, f.Code)
			assert.Equal(t, tt.wantKind, f.Kind)
			assert.Equal(t, tt.wantMsg, f.Error())
		})
	}
}

func TestNilInputs(t *testing.T) {
	assert.NoError(t, failure.BadRequest(nil))
	assert.NoError(t, failure.InternalError(nil))
}

func TestPredefinedFailures(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, failure.InvalidPageParam.Code)
	assert.Equal(t, http.StatusBadRequest, failure.InvalidLimitParam.Code)
	assert.Equal(t, failure.KindForbidden, failure.ForbiddenError.Kind)
	assert.Equal(t, failure.KindForbidden, failure.ResourceRestrictedError.Kind)
}

func TestGetCodeAndKind(t *testing.T) {
	tests := []struct {
		name     string
		input    error
		wantCode int
		wantKind string
		wantIs   bool
	}{
		{
			name:     "failure",
			input:    failure.NotFound("listing not found"),
			wantCode: http.StatusNotFound,
			wantKind: failure.KindNotFound,
			wantIs:   true,
		},
		{
			name:     "wrapped failure",
			input:    fmt.Errorf("approve: %w", failure.Conflict("booking is picked")),
			wantCode: http.StatusBadRequest,
			wantKind: failure.KindConflict,
			wantIs:   true,
		},
		{
			name:     "plain error",
			input:    errors.New("boom"),
			wantCode: http.StatusInternalServerError,
			wantKind: failure.KindInternal,
		},
		{
			name:     "nil",
			input:    nil,
			wantCode: http.StatusInternalServerError,
			wantKind: failure.KindInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantCode, failure.GetCode(tt.input))
			assert.Equal(t, tt.wantKind, failure.GetKind(tt.input))
			assert.Equal(t, tt.wantIs, failure.IsKind(tt.input, tt.wantKind))
		})
	}
}
