package generator

// Config holds the defaults of the synthetic data producer.
type Config struct {
	// Records is the number of source records.
	Records int `mapstructure:"records" default:"1000"`
	// Rate is the share of source records that receive an anomaly.
	Rate float64 `mapstructure:"rate" default:"0.1"`
	// StartID is the first client id.
	StartID int64 `mapstructure:"start_id" default:"100"`
	// Seed makes runs reproducible. Zero picks a random seed.
	Seed uint64 `mapstructure:"seed" default:"42"`
}
