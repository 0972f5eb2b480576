package postgres_test

import (
	"net/url"
	"rental/config"
	"rental/infras/postgres"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEndpoint_DSN(t *testing.T) {
	tests := []struct {
		name     string
		endpoint postgres.Endpoint
		extra    url.Values
		want     string
	}{
		{
			name:     "plain",
			endpoint: postgres.Endpoint{Host: "db", Port: "5432", Username: "rental", Password: "secret", Name: "rental", SSLMode: "disable"},
			want:     "postgres://rental:secret@db:5432/rental?sslmode=disable",
		},
		{
			name:     "password is escaped",
			endpoint: postgres.Endpoint{Host: "db", Port: "5432", Username: "rental", Password: "p@ss/word", Name: "rental"},
			want:     "postgres://rental:p%40ss%2Fword@db:5432/rental",
		},
		{
			name:     "timezone and migration table",
			endpoint: postgres.Endpoint{Host: "db", Port: "5432", Username: "rental", Password: "x", Name: "rental", SSLMode: "require", Timezone: "UTC"},
			extra:    url.Values{"x-migrations-table": []string{"schema_migrations"}},
			want:     "postgres://rental:x@db:5432/rental?sslmode=require&timezone=UTC&x-migrations-table=schema_migrations",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.endpoint.DSN(tt.extra))
		})
	}
}

func TestWriteEndpoint_Prefix(t *testing.T) {
	cfg := &config.Config{}
	cfg.DB.Postgres.Prefix = "staging_"
	cfg.DB.Postgres.Write.Name = "rental"
	cfg.DB.Postgres.Read.Name = "rental"

	assert.Equal(t, "staging_rental", postgres.WriteEndpoint(cfg).Name)
	assert.Equal(t, "staging_rental", postgres.ReadEndpoint(cfg).Name)
}
