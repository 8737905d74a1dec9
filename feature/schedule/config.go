package schedule

import (
	"strings"
	"time"

	"github.com/hibiken/asynq"
)

// Config holds configuration for scheduled checks.
type Config struct {
	// RedisAddr is the address of the Redis server backing the queue.
	RedisAddr string `mapstructure:"redis_addr" default:"localhost:6379"`
	// RedisPassword authenticates against Redis.
	RedisPassword string `mapstructure:"redis_password" default:""`
	// RedisDB is the Redis database number.
	RedisDB int `mapstructure:"redis_db" default:"0"`
	// Cron is the schedule of every registered check.
	Cron string `mapstructure:"cron" default:"@daily"`
	// Dirs is a comma-separated list of scan roots.
	Dirs string `mapstructure:"dirs" default:""`
	// Queue is the queue checks are enqueued on.
	Queue string `mapstructure:"queue" default:"checks"`
	// MaxRetry is the retry budget of a failed check.
	MaxRetry int `mapstructure:"max_retry" default:"3"`
	// UniqueTTLSeconds is how long a pending check blocks another for the same directory.
	UniqueTTLSeconds int `mapstructure:"unique_ttl_seconds" default:"3600"`
	// TimeoutSeconds is how long the queue lets one check run before it counts as failed.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"86400"`
}

// DirList returns the configured scan roots, trimmed and without empty entries.
func (c Config) DirList() []string {
	var dirs []string
	for _, d := range strings.Split(c.Dirs, ",") {
		if d = strings.TrimSpace(d); d != "" {
			dirs = append(dirs, d)
		}
	}
	return dirs
}

// RedisOpt returns the asynq connection options.
func (c Config) RedisOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     c.RedisAddr,
		Password: c.RedisPassword,
		DB:       c.RedisDB,
	}
}

// UniqueTTL returns the uniqueness window of enqueued checks.
func (c Config) UniqueTTL() time.Duration {
	if c.UniqueTTLSeconds <= 0 {
		return time.Hour
	}
	return time.Duration(c.UniqueTTLSeconds) * time.Second
}

// DefaultTimeout applies when TimeoutSeconds is not positive. asynq would otherwise
// fail a task after 30 minutes, well short of a full check of a large archive.
const DefaultTimeout = 24 * time.Hour

// Timeout returns the per-task run limit.
func (c Config) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return DefaultTimeout
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}
