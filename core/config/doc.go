// Package config provides configuration management for the verifier.
//
// It utilizes Viper for loading configuration from environment variables
// and an optional .env file.
//
// # Configuration Structure
//
// The Config struct is the central repository for all settings, divided into subsections:
//   - Server: HTTP server settings (port, API key)
//   - Database: legacy store connection details (sqlite file or MySQL mirror)
//   - Storage: S3/MinIO credentials and bucket settings for remote profiles
//   - Log: Logging level and format
//   - Verify: run defaults (profile locations, strictness, cache TTL)
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Server.Port)
package config
