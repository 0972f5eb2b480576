package postgres

//nolint:revive
import (
	"net"
	"net/url"
	"rental/config"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const (
	postgresMaxIdleConnection = 10
	postgresMaxOpenConnection = 10
	postgresConnMaxLifetime   = 30 * time.Minute
)

// Connection splits reads from writes. Booking transitions always go through Write.
type Connection struct {
	Read  *sqlx.DB
	Write *sqlx.DB
}

// Endpoint is one of DB_POSTGRES_READ or DB_POSTGRES_WRITE.
type Endpoint struct {
	Host     string
	Port     string
	Username string
	Password string
	Name     string
	Timezone string
	SSLMode  string
}

func ReadEndpoint(cfg *config.Config) Endpoint {
	read := cfg.DB.Postgres.Read

	return Endpoint{
		Host:     read.Host,
		Port:     read.Port,
		Username: read.Username,
		Password: read.Password,
		Name:     cfg.DB.Postgres.Prefix + read.Name,
		Timezone: read.Timezone,
		SSLMode:  read.SSLMode,
	}
}

func WriteEndpoint(cfg *config.Config) Endpoint {
	write := cfg.DB.Postgres.Write

	return Endpoint{
		Host:     write.Host,
		Port:     write.Port,
		Username: write.Username,
		Password: write.Password,
		Name:     cfg.DB.Postgres.Prefix + write.Name,
		Timezone: write.Timezone,
		SSLMode:  write.SSLMode,
	}
}

// DSN renders a postgres:// URL. Extra query values are passed through, e.g. x-migrations-table.
func (e Endpoint) DSN(extra url.Values) string {
	query := url.Values{}

	if e.SSLMode != "" {
		query.Set("sslmode", e.SSLMode)
	}

	if e.Timezone != "" {
		query.Set("timezone", e.Timezone)
	}

	for key, values := range extra {
		for _, value := range values {
			query.Add(key, value)
		}
	}

	dsn := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(e.Username, e.Password),
		Host:     net.JoinHostPort(e.Host, e.Port),
		Path:     "/" + e.Name,
		RawQuery: query.Encode(),
	}

	return dsn.String()
}

func New(cfg *config.Config) *Connection {
	retry := cfg.DB.Postgres.MaxRetry
	wait := time.Duration(cfg.DB.Postgres.RetryWaitTime) * time.Second

	return &Connection{
		Read:  Connect("read", ReadEndpoint(cfg), retry, wait),
		Write: Connect("write", WriteEndpoint(cfg), retry, wait),
	}
}

// Connect retries up to maxRetry times and exits the process when the database never answers.
func Connect(name string, endpoint Endpoint, maxRetry int, wait time.Duration) *sqlx.DB {
	logger := log.With().Str("name", name).Str("host", endpoint.Host).Str("port", endpoint.Port).Str("dbName", endpoint.Name).Logger()

	for attempt := range max(maxRetry, 1) {
		sqlDB, err := sqlx.Connect("postgres", endpoint.DSN(nil))
		if err == nil {
			sqlDB.SetMaxIdleConns(postgresMaxIdleConnection)
			sqlDB.SetMaxOpenConns(postgresMaxOpenConnection)
			sqlDB.SetConnMaxLifetime(postgresConnMaxLifetime)

			logger.Info().Msg("Connected to database")

			return sqlDB
		}

		logger.Error().Err(err).Int("attempt", attempt+1).Msg("Failed connecting to database, retrying")

		time.Sleep(wait)
	}

	logger.Fatal().Msgf("Database unreachable after %d attempts", max(maxRetry, 1))

	return nil
}
