package metrics

// Config holds configuration for metric export.
type Config struct {
	// PushgatewayURL is where check runs push their metrics. Empty disables pushing.
	PushgatewayURL string `mapstructure:"pushgateway_url" default:""`
}
