// Package config holds runtime settings for the frotacontrol client.
// Values are resolved as defaults → JSON file (-c/-config) → flags, with
// later sources taking precedence.
package config

import "time"

// Config carries everything the auth core is parameterized by.
//
// The throttle fields implement the login delays: a base delay on every
// attempt, a step added per prior failure in the current window (the extra
// capped at LoginMaxExtraDelay), and a fixed delay when an attempt is
// refused because of an active lockout.
type Config struct {
	// StoreDSN is the Postgres DSN of the credential store.
	StoreDSN string

	// LocalDBPath is the sqlite file holding local state (session,
	// attempt table, remembered user).
	LocalDBPath string

	// SessionSecret signs the persisted session token. Per-install value;
	// rotating it invalidates the stored session, nothing else.
	SessionSecret string

	SessionTTL time.Duration

	MaxAttempts     int
	AttemptWindow   time.Duration
	LockoutDuration time.Duration

	LoginBaseDelay     time.Duration
	LoginStepDelay     time.Duration
	LoginMaxExtraDelay time.Duration
	LockedDelay        time.Duration
}

// LoadDefaults populates c with the production defaults.
func (c *Config) LoadDefaults() {
	c.StoreDSN = ""
	c.LocalDBPath = "frotacontrol.db"
	c.SessionSecret = "frotacontrol-dev-secret"
	c.SessionTTL = 8 * time.Hour

	c.MaxAttempts = 5
	c.AttemptWindow = 15 * time.Minute
	c.LockoutDuration = 15 * time.Minute

	c.LoginBaseDelay = 300 * time.Millisecond
	c.LoginStepDelay = 150 * time.Millisecond
	c.LoginMaxExtraDelay = 1500 * time.Millisecond
	c.LockedDelay = 500 * time.Millisecond
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from JSON (if present) and command-line flags (if present).
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
