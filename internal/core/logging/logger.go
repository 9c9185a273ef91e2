// Package logging holds the zerolog helpers shared by executors and the
// dispatcher.
package logging

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Component creates a logger tagged with a component identifier under the
// "cmp" key. Events logged with a context carry plan_id and action_index.
func Component(name string) zerolog.Logger {
	return log.With().Str("cmp", name).Logger().Hook(ContextHook{})
}
