package domain

// ConfigurationStatus summarizes how completely a staff calendar is set up
type ConfigurationStatus string

const (
	ConfigurationNotConfigured ConfigurationStatus = "not_configured"
	ConfigurationPartial       ConfigurationStatus = "partial"
	ConfigurationConfigured    ConfigurationStatus = "configured"
)

// Defaults for the configuration status evaluator
const (
	DefaultStatusLookaheadMonths = 12
	DefaultStatusThresholdDays   = 30
)
