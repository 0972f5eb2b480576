package password_test

import (
	"rental/shared/password"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHash(t *testing.T) {
	tests := []struct {
		name    string
		plain   string
		wantErr error
	}{
		{name: "success", plain: "s3cret-rental"},
		{name: "unicode", plain: "пароль123"},
		{name: "exactly max length", plain: strings.Repeat("a", password.MaxLength)},
		{name: "empty", plain: "", wantErr: password.ErrEmptyPassword},
		{name: "too long", plain: strings.Repeat("a", password.MaxLength+1), wantErr: password.ErrPasswordTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hashed, err := password.Hash(tt.plain)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, hashed)

				return
			}

			require.NoError(t, err)
			assert.NotEqual(t, tt.plain, hashed)
			assert.NoError(t, password.Verify(tt.plain, hashed))
		})
	}
}

func TestHash_Salted(t *testing.T) {
	first, err := password.Hash("same-secret")
	require.NoError(t, err)

	second, err := password.Hash("same-secret")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestVerify(t *testing.T) {
	hashed, err := password.Hash("correct-horse")
	require.NoError(t, err)

	tests := []struct {
		name      string
		plain     string
		hashed    string
		wantErr   error
		wantOther bool
	}{
		{name: "match", plain: "correct-horse", hashed: hashed},
		{name: "mismatch", plain: "battery-staple", hashed: hashed, wantErr: password.ErrInvalidPassword},
		{name: "empty plain", plain: "", hashed: hashed, wantErr: password.ErrInvalidPassword},
		{name: "empty hash", plain: "correct-horse", hashed: "", wantErr: password.ErrInvalidPassword},
		{name: "malformed hash", plain: "correct-horse", hashed: "not-a-bcrypt-hash", wantOther: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := password.Verify(tt.plain, tt.hashed)

			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.wantOther:
				require.Error(t, err)
				assert.NotErrorIs(t, err, password.ErrInvalidPassword)
			default:
				assert.NoError(t, err)
			}
		})
	}
}
