package clients

import "time"

// Config holds the defaults of a reconciliation run.
type Config struct {
	// Source is the location of the pre-migration snapshot.
	Source string `mapstructure:"source" default:"data/source_client_data.csv"`
	// Target is the location of the post-migration snapshot.
	Target string `mapstructure:"target" default:"data/target_client_data.csv"`
	// Output is where the discrepancy report is written.
	Output string `mapstructure:"output" default:"data/discrepancy_report.csv"`
	// Delimiter separates cells in delimited files.
	Delimiter string `mapstructure:"delimiter" default:","`
	// Duplicates selects the duplicate-key policy (report, reject).
	Duplicates string `mapstructure:"duplicates" default:"report"`
	// CacheTTL is how long the HTTP API reuses loaded snapshots. Zero disables it.
	CacheTTL time.Duration `mapstructure:"cache_ttl" default:"5m"`
}
