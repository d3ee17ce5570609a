package domain

import (
	"bytes"
	_ "embed"
	"fmt"
	"text/template"
	"time"
)

//go:embed config_template.toml
var configTemplateContent string

// Config represents the application configuration.
// Fields are ordered to minimize memory padding.
type Config struct {
	Warnings  []string        `toml:"-"`
	Store     StoreConfig     `toml:"store"`
	Scheduler SchedulerConfig `toml:"scheduler"`
	Notify    NotifyConfig    `toml:"notify"`
	Log       LogConfig       `toml:"log"`
	Actor     ActorConfig     `toml:"actor"`
}

// StoreConfig holds task storage settings from [store] section.
type StoreConfig struct {
	Driver        string `toml:"driver,omitempty"`          // "sqlite" (default) or "git"
	Path          string `toml:"path,omitempty"`            // SQLite database file
	Repo          string `toml:"repo,omitempty"`            // Git repository holding task refs
	Namespace     string `toml:"namespace,omitempty"`       // Git ref namespace
	BusyTimeoutMS int    `toml:"busy_timeout_ms,omitempty"` // SQLite busy timeout in milliseconds
}

// SchedulerConfig holds recurring-task trigger settings from [scheduler] section.
type SchedulerConfig struct {
	Cron     string `toml:"cron,omitempty"`     // Cron expression for the serve command
	Timezone string `toml:"timezone,omitempty"` // IANA zone for execution times
}

// NotifyConfig holds push delivery settings from [notify] section.
type NotifyConfig struct {
	Driver     string `toml:"driver,omitempty"` // "log" (default), "onesignal" or "none"
	AppID      string `toml:"app_id,omitempty"`
	APIKey     string `toml:"api_key,omitempty"`
	Endpoint   string `toml:"endpoint,omitempty"`
	QueueSize  int    `toml:"queue_size,omitempty"`
	RatePerSec int    `toml:"rate_per_sec,omitempty"`
	RetryMax   int    `toml:"retry_max,omitempty"`
}

// LogConfig holds logging settings from [log] section.
type LogConfig struct {
	Level      string `toml:"level,omitempty"` // debug, info, warn, error
	Dir        string `toml:"dir,omitempty"`   // Log directory ("" = data dir/logs)
	MaxSizeMB  int    `toml:"max_size_mb,omitempty"`
	MaxBackups int    `toml:"max_backups,omitempty"`
	MaxAgeDays int    `toml:"max_age_days,omitempty"`
}

// ActorConfig is the default identity used by the CLI.
type ActorConfig struct {
	ID   string `toml:"id,omitempty"`
	Name string `toml:"name,omitempty"`
	Role string `toml:"role,omitempty"`
}

// Actor converts the configured identity into an Actor.
func (a ActorConfig) Actor() Actor {
	return Actor{ID: a.ID, Name: a.Name, Role: Role(a.Role)}
}

// Default configuration values.
const (
	DefaultStoreDriver    = "sqlite"
	DefaultStoreNamespace = "reklamacije"
	DefaultBusyTimeoutMS  = 5000
	DefaultCron           = "*/5 * * * *"
	DefaultTimezone       = "Local"
	DefaultNotifyDriver   = "log"
	DefaultNotifyEndpoint = "https://onesignal.com/api/v1/notifications"
	DefaultQueueSize      = 64
	DefaultRatePerSec     = 5
	DefaultRetryMax       = 2
	DefaultLogLevel       = "info"
	DefaultLogMaxSizeMB   = 10
	DefaultLogMaxBackups  = 5
	DefaultLogMaxAgeDays  = 30
)

// NewDefaultConfig returns a Config with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Store: StoreConfig{
			Driver:        DefaultStoreDriver,
			Namespace:     DefaultStoreNamespace,
			BusyTimeoutMS: DefaultBusyTimeoutMS,
		},
		Scheduler: SchedulerConfig{
			Cron:     DefaultCron,
			Timezone: DefaultTimezone,
		},
		Notify: NotifyConfig{
			Driver:     DefaultNotifyDriver,
			Endpoint:   DefaultNotifyEndpoint,
			QueueSize:  DefaultQueueSize,
			RatePerSec: DefaultRatePerSec,
			RetryMax:   DefaultRetryMax,
		},
		Log: LogConfig{
			Level:      DefaultLogLevel,
			MaxSizeMB:  DefaultLogMaxSizeMB,
			MaxBackups: DefaultLogMaxBackups,
			MaxAgeDays: DefaultLogMaxAgeDays,
		},
	}
}

// Location resolves the scheduler timezone. Unknown zones fall back to time.Local.
func (c SchedulerConfig) Location() *time.Location {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// RenderConfigTemplate renders the commented config template for cfg.
func RenderConfigTemplate(cfg *Config) string {
	tmpl, err := template.New("config").Delims("<<", ">>").Parse(configTemplateContent)
	if err != nil {
		// Should never happen with embedded template
		panic(fmt.Sprintf("failed to parse config template: %v", err))
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, cfg); err != nil {
		panic(fmt.Sprintf("failed to execute config template: %v", err))
	}
	return buf.String()
}
