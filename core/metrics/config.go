package metrics

// Config holds configuration for the Prometheus metrics.
type Config struct {
	// Enabled toggles metric collection and the /metrics endpoint.
	Enabled bool `mapstructure:"enabled" default:"true"`
	// Namespace prefixes every metric name.
	Namespace string `mapstructure:"namespace" default:"migration"`
}
