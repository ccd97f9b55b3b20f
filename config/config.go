// Package config holds the tunables for an OrecEager runtime: orec table
// size, the optional timestamp-extension quality-of-implementation path,
// and contention-manager backoff parameters.
package config

import "time"

// Config configures a Runtime. The zero value is invalid; use
// DefaultConfig or call Validate after filling in overrides.
type Config struct {
	// TableSizeLog2 is k in "2^k orecs". Tests use small values to force
	// hash collisions deliberately.
	TableSizeLog2 int

	// ExtendOnRead enables the optional timestamp-extension path: instead
	// of always aborting on an inconsistent read, sample a fresh clock
	// value, validate the existing read set, and retry the read at the new
	// start time. Off by default, so an inconsistent read always aborts.
	ExtendOnRead bool

	// BackoffBase and BackoffMax hold backoff bounds for cm.Backoff. The
	// Runtime does not read them: its contention manager is passed to
	// stm.New separately, and a cm.Backoff takes its bounds from its own
	// Base and Max fields.
	BackoffBase time.Duration
	BackoffMax  time.Duration

	// MaxRetries bounds Run's retry loop; <= 0 means unlimited (retry
	// until commit or context cancellation).
	MaxRetries int
}

// DefaultConfig is a million-entry orec table, timestamp extension
// disabled, a conservative backoff envelope, and unlimited retries.
var DefaultConfig = Config{
	TableSizeLog2: 20,
	ExtendOnRead:  false,
	BackoffBase:   50 * time.Microsecond,
	BackoffMax:    10 * time.Millisecond,
	MaxRetries:    0,
}

// Validate fills in any zero-valued fields from DefaultConfig rather than
// rejecting partially-specified configs outright.
func (c *Config) Validate() {
	if c.TableSizeLog2 <= 0 {
		c.TableSizeLog2 = DefaultConfig.TableSizeLog2
	}
	if c.BackoffBase <= 0 {
		c.BackoffBase = DefaultConfig.BackoffBase
	}
	if c.BackoffMax <= 0 {
		c.BackoffMax = DefaultConfig.BackoffMax
	}
}
