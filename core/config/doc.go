// Package config provides configuration management for bitbackup.
//
// It loads an optional .env file with godotenv and then uses Viper to read
// environment variables, with defaults taken from the `default` struct tags of every
// section. Keys are nested with dots and map to upper-case variables with
// underscores (check.dir -> CHECK_DIR).
//
// # Configuration Structure
//
//   - Check: scan root and the optional report, index, legacy and archive steps
//   - Server: HTTP port, API key and summary cache lifetime
//   - Storage: S3/MinIO credentials, bucket and prefix for archives
//   - Log: logging level and format
//   - Database: SQLite busy timeout and pool size
//   - Metrics: Pushgateway address
//   - Schedule: Redis queue, cron and directories for scheduled checks
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Check.Dir)
package config
