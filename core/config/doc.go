// Package config provides configuration management for the migration reconciler.
//
// It utilizes Viper for loading configuration from environment variables
// and an optional .env file. Defaults come from the `default` struct tags of
// each section.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Server: HTTP server settings (port, API key, body limit)
//   - Database: MySQL or SQLite connection details for db:// locations
//   - Storage: S3/MinIO credentials and bucket settings for s3:// locations
//   - Log: Logging level and format
//   - Reconcile: default source, target and output locations, duplicate policy
//   - Generator: record count, anomaly rate, start id and seed
//   - Metrics: Prometheus toggle and namespace
//
// Environment variables map onto nested keys by replacing dots with
// underscores, e.g. RECONCILE_SOURCE or SERVER_PORT.
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Reconcile.Source)
package config
