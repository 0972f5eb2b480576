package timezone_test

import (
	"rental/shared/timezone"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSet(t *testing.T) {
	t.Cleanup(func() { _ = timezone.Set("UTC") })

	tests := []struct {
		name     string
		location string
		want     string
		wantErr  bool
	}{
		{name: "empty falls back to UTC", location: "", want: "UTC"},
		{name: "iana name", location: "Asia/Jakarta", want: "Asia/Jakarta"},
		{name: "unknown name keeps previous", location: "Mars/Olympus", want: "Asia/Jakarta", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := timezone.Set(tt.location)

			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}

			assert.Equal(t, tt.want, timezone.Location().String())
		})
	}
}

func TestFormat(t *testing.T) {
	t.Cleanup(func() { _ = timezone.Set("UTC") })

	require.NoError(t, timezone.Set("Asia/Jakarta"))

	instant := time.Date(2024, 1, 1, 20, 30, 0, 0, time.UTC)

	assert.Equal(t, "2024-01-02 03:30", timezone.Format(instant, "2006-01-02 15:04"))
	assert.Equal(t, "Asia/Jakarta", timezone.Now().Location().String())
}

func TestToday(t *testing.T) {
	today := timezone.Today()

	assert.Equal(t, time.UTC, today.Location())
	assert.Zero(t, today.Hour())
	assert.Zero(t, today.Minute())
	assert.Equal(t, timezone.Now().Day(), today.Day())
}
