package helper

//nolint:revive
import (
	"errors"
	"fmt"
	"net/url"
	"rental/config"
	"rental/infras/postgres"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog/log"
)

func getConnection(config *config.Config) (*migrate.Migrate, error) {
	extra := url.Values{}
	if config.DB.Postgres.MigrationTable != "" {
		extra.Set("x-migrations-table", config.DB.Postgres.MigrationTable)
	}

	mig, err := migrate.New(
		"file://migrations/postgres",
		postgres.WriteEndpoint(config).DSN(extra),
	)

	if err != nil {
		return nil, fmt.Errorf("error creating migrate instance: %w", err)
	}

	return mig, nil
}

const (
	ActionUp     = "up"
	ActionDown   = "down"
	ActionStepUp = "step-up"
	ActionDrop   = "drop"
)

var ErrUnknownAction = errors.New("unknown migration action")

// Runner applies one migration action to the write database. "down" rolls
// back a single step while "drop" reverts every migration.
func Runner(config *config.Config, action string) error {
	var run func(mig *migrate.Migrate) error

	switch action {
	case ActionUp:
		run = func(mig *migrate.Migrate) error { return mig.Up() }
	case ActionDown:
		run = func(mig *migrate.Migrate) error { return mig.Steps(-1) }
	case ActionStepUp:
		run = func(mig *migrate.Migrate) error { return mig.Steps(1) }
	case ActionDrop:
		run = func(mig *migrate.Migrate) error { return mig.Down() }
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}

	mig, err := getConnection(config)
	if err != nil {
		return fmt.Errorf("error creating migrate instance: %w", err)
	}

	defer mig.Close()

	if err := run(mig); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("error running migration %s: %w", action, err)
	}

	log.Info().Str("action", action).Msg("Database migration finished")

	return nil
}

func Up(config *config.Config) error {
	return Runner(config, ActionUp)
}
