package config

import (
	"reflect"
	"strings"
	"time"

	"device-sync/core/database"
	"device-sync/core/logger"
	"device-sync/core/server"
	"device-sync/core/storage"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// It is divided into partial configurations for better modularity.
type Config struct {
	// Server holds configuration for the HTTP server.
	Server server.Config `mapstructure:"server"`
	// Storage holds configuration for the object storage holding sheet exports.
	Storage storage.Config `mapstructure:"storage"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Database holds configuration for the project database backing the target.
	Database database.Config `mapstructure:"database"`
	// Sync holds configuration for loading categories and running syncs.
	Sync SyncConfig `mapstructure:"sync"`
}

// SyncConfig holds configuration for the device catalog and sheet exports.
type SyncConfig struct {
	// CategoriesFile is the YAML catalog of device categories.
	CategoriesFile string `mapstructure:"categories_file" default:"categories.yaml"`
	// SheetPrefix is the storage prefix under which sheet exports live.
	SheetPrefix string `mapstructure:"sheet_prefix" default:"sheets"`
	// LimitsObject is the object name of the sizing limit table below SheetPrefix.
	LimitsObject string `mapstructure:"limits_object" default:"limits.json"`
	// SizingCacheTTLSeconds bounds reuse of sizing values read from the target. 0 keeps values for the whole session.
	SizingCacheTTLSeconds int `mapstructure:"sizing_cache_ttl_seconds" default:"300"`
}

// SizingCacheTTL returns the sizing cache TTL as a duration.
func (c SyncConfig) SizingCacheTTL() time.Duration {
	return time.Duration(c.SizingCacheTTLSeconds) * time.Second
}

// LoadConfig loads configuration from environment variables and .env file.
func LoadConfig(path string) (*Config, error) {
	envPath := path + "/.env"
	if path == "." {
		envPath = ".env"
	}

	// Ignore error if file doesn't exist (e.g. production)
	_ = godotenv.Overload(envPath)

	v := viper.New()

	bindValues(v, Config{}, "")

	// Map environment variables to nested keys (e.g. SYNC_SHEET_PREFIX -> sync.sheet_prefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// bindValues walks the struct and registers every mapstructure key with its
// 'default' tag value, so AutomaticEnv can resolve it.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")
		if tag == "" {
			continue
		}

		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		v.SetDefault(key, field.Tag.Get("default"))
	}
}
