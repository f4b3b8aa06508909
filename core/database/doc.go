// Package database opens the project database that backs the offline engineering
// target (see core/target/projectdb).
//
// # Connect
//
// Connect supports two drivers: mysql for a shared project database and sqlite for
// a local project file or an in-memory database in tests.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    return fmt.Errorf("failed to connect to database: %w", err)
//	}
package database
