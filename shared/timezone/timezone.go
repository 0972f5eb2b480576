// Package timezone keeps the wall clock the marketplace reasons in.
//
// Booking days are calendar days in the configured APP_TIMEZONE, so "today"
// for a rentee in Asia/Jakarta starts seven hours before it does in UTC.
// The location is loaded once on import; an unknown name falls back to UTC.
package timezone

import (
	"fmt"
	"rental/config"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
)

const defaultLocation = "UTC"

var location atomic.Pointer[time.Location]

func init() {
	name := config.Get().App.Timezone

	if err := Set(name); err != nil {
		log.Error().Err(err).Str("timezone", name).Msg("failed to load timezone, falling back to UTC")

		location.Store(time.UTC)

		return
	}

	log.Debug().Str("timezone", Location().String()).Msg("Application timezone initialized.")
}

// Set switches the application location. An empty name means UTC.
func Set(name string) error {
	if name == "" {
		name = defaultLocation
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		return fmt.Errorf("failed to load location %q: %w", name, err)
	}

	location.Store(loc)

	return nil
}

func Location() *time.Location {
	if loc := location.Load(); loc != nil {
		return loc
	}

	return time.UTC
}

func Now() time.Time {
	return time.Now().In(Location())
}

// Today is the current calendar day at midnight UTC, the form booking dates are stored in.
func Today() time.Time {
	now := Now()

	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

func Format(t time.Time, layout string) string {
	return t.In(Location()).Format(layout)
}
