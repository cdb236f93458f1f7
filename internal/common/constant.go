package common

// Local state keys. Both values are read/written as whole blobs through the
// state repository; the version suffix allows a future format change to
// start from a clean key.
const (
	SessionStateKey  = "session_v1"
	AttemptsStateKey = "loginAttempts_v1"

	// RememberedUserStateKey stores the last successfully used login name
	// so the CLI can pre-fill the prompt.
	RememberedUserStateKey = "rememberedUser"
)
