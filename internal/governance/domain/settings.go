package domain

// UnclassifiedTopic is resolved for callers without a binding when no fallback topic is configured.
// The name is reserved: profile documents may not declare it, so it never matches a profile.
const UnclassifiedTopic = "_unclassified"

// Settings is the process-wide governance configuration. It is built once at startup and passed by value.
type Settings struct {
	Enabled bool
	// Profile is the fallback topic for callers without an explicit binding.
	Profile             string
	ConfigPath          string
	SuppressOnViolation bool
}
