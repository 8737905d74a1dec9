package config

import (
	"fmt"
	"path/filepath"
	"reflect"
	"strings"

	"bitbackup/core/database"
	"bitbackup/core/logger"
	"bitbackup/core/metrics"
	"bitbackup/core/server"
	"bitbackup/core/storage"
	"bitbackup/feature/check"
	"bitbackup/feature/schedule"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// It is divided into partial configurations for better modularity.
type Config struct {
	// Check holds configuration for a check run.
	Check check.Config `mapstructure:"check"`
	// Server holds configuration for the HTTP server.
	Server server.Config `mapstructure:"server"`
	// Storage holds configuration for the archive object storage (e.g., S3, Minio).
	Storage storage.Config `mapstructure:"storage"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Database holds configuration for the inventory connection.
	Database database.Config `mapstructure:"database"`
	// Metrics holds configuration for metric export.
	Metrics metrics.Config `mapstructure:"metrics"`
	// Schedule holds configuration for queued checks.
	Schedule schedule.Config `mapstructure:"schedule"`
}

// LoadConfig reads the optional .env file in dir, then the environment, on top of
// the defaults declared in struct tags. Values already exported in the environment
// are overridden by .env entries.
func LoadConfig(dir string) (*Config, error) {
	// A missing .env is the normal case outside development
	_ = godotenv.Overload(filepath.Join(dir, ".env"))

	v := viper.New()
	registerDefaults(v, reflect.TypeOf(Config{}), "")

	// check.dir <- CHECK_DIR
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}
	return &cfg, nil
}

// registerDefaults walks t and registers every `mapstructure`-tagged leaf under its
// dotted key with the value of its `default` tag. Registering empty defaults matters:
// AutomaticEnv only resolves keys viper already knows about.
func registerDefaults(v *viper.Viper, t reflect.Type, prefix string) {
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
			registerDefaults(v, field.Type, key)
			continue
		}
		v.SetDefault(key, field.Tag.Get("default"))
	}
}
