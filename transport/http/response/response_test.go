package response_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"rental/shared/failure"
	"rental/transport/http/response"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantKind string
		wantMsg  string
	}{
		{
			name:     "conflict",
			err:      failure.Conflict("booking is booked"),
			wantCode: http.StatusBadRequest,
			wantKind: failure.KindConflict,
			wantMsg:  "booking is booked",
		},
		{
			name:     "payment",
			err:      failure.PaymentError("card processor unavailable"),
			wantCode: http.StatusInternalServerError,
			wantKind: failure.KindPayment,
			wantMsg:  "card processor unavailable",
		},
		{
			name:     "raw error is hidden",
			err:      errors.New("pq: connection refused"),
			wantCode: http.StatusInternalServerError,
			wantKind: failure.KindInternal,
			wantMsg:  http.StatusText(http.StatusInternalServerError),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()

			response.WithError(rec, tt.err)

			var body map[string]string
			assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantKind, body["kind"])
			assert.Equal(t, tt.wantMsg, body["error"])
		})
	}
}

func TestWithPage(t *testing.T) {
	rec := httptest.NewRecorder()

	response.WithPage[string](rec, http.StatusOK, nil, response.PageMeta{Page: 1, Limit: 10})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data":[],"metadata":{"page":1,"limit":10,"total":0,"total_page":0}}`, rec.Body.String())
}
