package permissions_test

import (
	"rental/permissions"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet(t *testing.T) {
	policy := permissions.Get()
	require.NotNil(t, policy)

	tests := []struct {
		name       string
		method     string
		path       string
		wantPublic bool
		role       string
		wantAllow  bool
	}{
		{name: "login is public", method: "POST", path: "/v1/auth/login", wantPublic: true, wantAllow: true},
		{name: "browsing listings is public", method: "GET", path: "/v1/listings/", wantPublic: true, wantAllow: true},
		{name: "creating a listing needs a user", method: "POST", path: "/v1/listings/", role: "user", wantAllow: true},
		{name: "approving a booking is open to any user", method: "PUT", path: "/v1/bookings/{id}/approve", role: "user", wantAllow: true},
		{name: "user listing is admin only", method: "GET", path: "/v1/users/", role: "user"},
		{name: "admin may list users", method: "GET", path: "/v1/users/", role: "admin", wantAllow: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			endpoint := policy.Find(tt.method, tt.path)

			assert.Equal(t, tt.wantPublic, endpoint.Public)
			assert.Equal(t, tt.wantAllow, endpoint.Allows(tt.role))
		})
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr bool
	}{
		{name: "valid", data: `{"endpoints":[{"path":"/v1/a","method":"GET","public":true}]}`},
		{name: "malformed", data: `{"endpoints":`, wantErr: true},
		{
			name:    "duplicate route",
			data:    `{"endpoints":[{"path":"/v1/a","method":"GET"},{"path":"/v1/a","method":"GET","public":true}]}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			policy, err := permissions.Parse([]byte(tt.data))

			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, policy)

				return
			}

			require.NoError(t, err)
			assert.True(t, policy.Find("GET", "/v1/a").Public)
		})
	}
}
