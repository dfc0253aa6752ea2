// Package config carries the ambient settings threaded through the
// projector packages: logging, the elimination-variable budget, and a
// per-run correlation id.
package config

import (
	"log"
	"os"

	"github.com/google/uuid"
)

// Config is passed by pointer into projector.New and logged from there.
type Config struct {
	// Logger receives one line per phase transition and per sticky-error
	// assignment; literals dropped as true are not logged one by one.
	Logger *log.Logger
	// MaxEvars bounds len(vars); Projector.New reports a TooManyVars flag
	// above it.
	MaxEvars int
	// Verbose additionally logs every literal classification decision.
	Verbose bool
	// RunID tags every log line emitted during one Projector lifetime, so
	// interleaved runs in the same process log stream stay attributable.
	RunID uuid.UUID
}

// New returns a Config with a stdout logger and the default EVars budget.
func New() *Config {
	return &Config{
		Logger:   log.New(os.Stdout, "", log.Ldate|log.Ltime),
		MaxEvars: 4096,
		RunID:    uuid.New(),
	}
}

// Logf writes a correlation-tagged line through Logger, if one is set.
func (c *Config) Logf(format string, args ...interface{}) {
	if c == nil || c.Logger == nil {
		return
	}
	c.Logger.Printf("[%s] "+format, append([]interface{}{c.RunID}, args...)...)
}
