// Package config provides configuration management for device-sync.
//
// Settings come from environment variables, optionally seeded from a .env file in
// the given directory. Defaults are declared on each struct field with a
// `default:"..."` tag and registered reflectively, so every key is known to Viper
// before AutomaticEnv resolves it.
//
// # Sections
//
//   - Server: HTTP port, API key, report prefix
//   - Storage: MinIO endpoint, credentials and the bucket holding sheet exports
//   - Database: project database driver and connection
//   - Log: level and format
//   - Sync: catalog file, sheet prefix, limits object, sizing cache TTL
//
// Nested keys map to upper-case variables joined by underscores, e.g.
// sync.sheet_prefix is read from SYNC_SHEET_PREFIX.
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Sync.CategoriesFile)
package config
