package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/fgodoybr/frotacontrol/internal/flagx"
	"github.com/fgodoybr/frotacontrol/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Durations use
// timex.Duration so the file can say "15m" or "8h". After parsing, values
// are copied into the runtime Config. Zero values mean "field absent, keep
// the earlier source".
type JsonConfig struct {
	StoreDSN      string `json:"store_dsn"`
	LocalDBPath   string `json:"local_db_path"`
	SessionSecret string `json:"session_secret"`

	SessionTTL timex.Duration `json:"session_ttl"`

	MaxAttempts     int            `json:"max_attempts"`
	AttemptWindow   timex.Duration `json:"attempt_window"`
	LockoutDuration timex.Duration `json:"lockout_duration"`

	LoginBaseDelay     timex.Duration `json:"login_base_delay"`
	LoginStepDelay     timex.Duration `json:"login_step_delay"`
	LoginMaxExtraDelay timex.Duration `json:"login_max_extra_delay"`
	LockedDelay        timex.Duration `json:"locked_delay"`
}

// parseJson overlays Config with values loaded from a JSON file resolved via
// the -c/-config flags. When no file is given, it is a no-op. Read or
// unmarshal errors panic (caller may recover).
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.StoreDSN != "" {
		cfg.StoreDSN = jc.StoreDSN
	}
	if jc.LocalDBPath != "" {
		cfg.LocalDBPath = jc.LocalDBPath
	}
	if jc.SessionSecret != "" {
		cfg.SessionSecret = jc.SessionSecret
	}
	if jc.SessionTTL.Duration != 0 {
		cfg.SessionTTL = time.Duration(jc.SessionTTL.Duration)
	}
	if jc.MaxAttempts != 0 {
		cfg.MaxAttempts = jc.MaxAttempts
	}
	if jc.AttemptWindow.Duration != 0 {
		cfg.AttemptWindow = jc.AttemptWindow.Duration
	}
	if jc.LockoutDuration.Duration != 0 {
		cfg.LockoutDuration = jc.LockoutDuration.Duration
	}
	if jc.LoginBaseDelay.Duration != 0 {
		cfg.LoginBaseDelay = jc.LoginBaseDelay.Duration
	}
	if jc.LoginStepDelay.Duration != 0 {
		cfg.LoginStepDelay = jc.LoginStepDelay.Duration
	}
	if jc.LoginMaxExtraDelay.Duration != 0 {
		cfg.LoginMaxExtraDelay = jc.LoginMaxExtraDelay.Duration
	}
	if jc.LockedDelay.Duration != 0 {
		cfg.LockedDelay = jc.LockedDelay.Duration
	}
}
