// Package config provides configuration loading functionality.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"

	"github.com/pelletier/go-toml/v2"

	"github.com/hotelops/reklamacije/internal/domain"
)

// Environment variables that override secrets from config files.
const (
	EnvOneSignalAppID  = "ONESIGNAL_APP_ID"
	EnvOneSignalAPIKey = "ONESIGNAL_REST_API_KEY"
)

// Ensure Loader implements domain.ConfigLoader.
var _ domain.ConfigLoader = (*Loader)(nil)

// Loader loads configuration from TOML files.
type Loader struct {
	getenv        func(string) string
	dataDir       string // Path to .reklamacije directory
	globalConfDir string // Path to global config directory (e.g., ~/.config/reklamacije)
}

// NewLoader creates a new Loader.
func NewLoader(dataDir string) *Loader {
	return &Loader{
		dataDir:       dataDir,
		globalConfDir: defaultGlobalConfigDir(),
		getenv:        os.Getenv,
	}
}

// NewLoaderWithGlobalDir creates a new Loader with a custom global config directory.
// This is useful for testing.
func NewLoaderWithGlobalDir(dataDir, globalConfDir string, getenv func(string) string) *Loader {
	if getenv == nil {
		getenv = func(string) string { return "" }
	}
	return &Loader{
		dataDir:       dataDir,
		globalConfDir: globalConfDir,
		getenv:        getenv,
	}
}

// defaultGlobalConfigDir returns the default global config directory.
func defaultGlobalConfigDir() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return domain.GlobalConfigDir(configHome)
}

// Load returns the merged configuration (defaults <- global <- repo <- env).
func (l *Loader) Load() (*domain.Config, error) {
	global, err := l.LoadGlobal()
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	repo, err := l.loadFile(domain.RepoConfigPath(l.dataDir))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	base := domain.NewDefaultConfig()
	if global != nil {
		base = mergeConfigs(base, global)
	}
	if repo != nil {
		base = mergeConfigs(base, repo)
	}
	l.applyEnv(base)
	return base, nil
}

// LoadGlobal returns only the global configuration.
func (l *Loader) LoadGlobal() (*domain.Config, error) {
	if l.globalConfDir == "" {
		return nil, os.ErrNotExist
	}
	return l.loadFile(filepath.Join(l.globalConfDir, domain.ConfigFileName))
}

func (l *Loader) applyEnv(cfg *domain.Config) {
	if v := l.getenv(EnvOneSignalAppID); v != "" {
		cfg.Notify.AppID = v
	}
	if v := l.getenv(EnvOneSignalAPIKey); v != "" {
		cfg.Notify.APIKey = v
	}
}

// loadFile loads a configuration from a file.
func (l *Loader) loadFile(path string) (*domain.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return convertRawToDomainConfig(raw), nil
}

// section decodes the keys of one table. Unknown keys and values of the
// wrong type become warnings.
type section struct {
	name     string
	warnings *[]string
}

func (s section) unknown(key string) {
	*s.warnings = append(*s.warnings, fmt.Sprintf("unknown key in [%s]: %s", s.name, key))
}

func (s section) str(key string, v any, dst *string) {
	if str, ok := v.(string); ok {
		*dst = str
		return
	}
	*s.warnings = append(*s.warnings, fmt.Sprintf("invalid value for %s.%s: expected string", s.name, key))
}

func (s section) int(key string, v any, dst *int) {
	if n, ok := v.(int64); ok {
		*dst = int(n)
		return
	}
	*s.warnings = append(*s.warnings, fmt.Sprintf("invalid value for %s.%s: expected integer", s.name, key))
}

// convertRawToDomainConfig converts the raw map to domain config and collects warnings.
func convertRawToDomainConfig(raw map[string]any) *domain.Config {
	res := &domain.Config{}
	var warnings []string

	for name, value := range raw {
		m, ok := value.(map[string]any)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("unknown section: %s", name))
			continue
		}
		s := section{name: name, warnings: &warnings}

		switch name {
		case "store":
			for k, v := range m {
				switch k {
				case "driver":
					s.str(k, v, &res.Store.Driver)
				case "path":
					s.str(k, v, &res.Store.Path)
				case "repo":
					s.str(k, v, &res.Store.Repo)
				case "namespace":
					s.str(k, v, &res.Store.Namespace)
				case "busy_timeout_ms":
					s.int(k, v, &res.Store.BusyTimeoutMS)
				default:
					s.unknown(k)
				}
			}
		case "scheduler":
			for k, v := range m {
				switch k {
				case "cron":
					s.str(k, v, &res.Scheduler.Cron)
				case "timezone":
					s.str(k, v, &res.Scheduler.Timezone)
				default:
					s.unknown(k)
				}
			}
		case "notify":
			for k, v := range m {
				switch k {
				case "driver":
					s.str(k, v, &res.Notify.Driver)
				case "app_id":
					s.str(k, v, &res.Notify.AppID)
				case "api_key":
					s.str(k, v, &res.Notify.APIKey)
				case "endpoint":
					s.str(k, v, &res.Notify.Endpoint)
				case "queue_size":
					s.int(k, v, &res.Notify.QueueSize)
				case "rate_per_sec":
					s.int(k, v, &res.Notify.RatePerSec)
				case "retry_max":
					s.int(k, v, &res.Notify.RetryMax)
				default:
					s.unknown(k)
				}
			}
		case "log":
			for k, v := range m {
				switch k {
				case "level":
					s.str(k, v, &res.Log.Level)
				case "dir":
					s.str(k, v, &res.Log.Dir)
				case "max_size_mb":
					s.int(k, v, &res.Log.MaxSizeMB)
				case "max_backups":
					s.int(k, v, &res.Log.MaxBackups)
				case "max_age_days":
					s.int(k, v, &res.Log.MaxAgeDays)
				default:
					s.unknown(k)
				}
			}
		case "actor":
			for k, v := range m {
				switch k {
				case "id":
					s.str(k, v, &res.Actor.ID)
				case "name":
					s.str(k, v, &res.Actor.Name)
				case "role":
					s.str(k, v, &res.Actor.Role)
				default:
					s.unknown(k)
				}
			}
		default:
			warnings = append(warnings, fmt.Sprintf("unknown section: %s", name))
		}
	}

	sort.Strings(warnings)
	res.Warnings = warnings
	return res
}

// mergeConfigs merges two configs, with override taking precedence.
// Zero values in override leave the base value in place.
func mergeConfigs(base, override *domain.Config) *domain.Config {
	result := *base
	result.Warnings = slices.Concat(base.Warnings, override.Warnings)

	setStr(&result.Store.Driver, override.Store.Driver)
	setStr(&result.Store.Path, override.Store.Path)
	setStr(&result.Store.Repo, override.Store.Repo)
	setStr(&result.Store.Namespace, override.Store.Namespace)
	setInt(&result.Store.BusyTimeoutMS, override.Store.BusyTimeoutMS)

	setStr(&result.Scheduler.Cron, override.Scheduler.Cron)
	setStr(&result.Scheduler.Timezone, override.Scheduler.Timezone)

	setStr(&result.Notify.Driver, override.Notify.Driver)
	setStr(&result.Notify.AppID, override.Notify.AppID)
	setStr(&result.Notify.APIKey, override.Notify.APIKey)
	setStr(&result.Notify.Endpoint, override.Notify.Endpoint)
	setInt(&result.Notify.QueueSize, override.Notify.QueueSize)
	setInt(&result.Notify.RatePerSec, override.Notify.RatePerSec)
	setInt(&result.Notify.RetryMax, override.Notify.RetryMax)

	setStr(&result.Log.Level, override.Log.Level)
	setStr(&result.Log.Dir, override.Log.Dir)
	setInt(&result.Log.MaxSizeMB, override.Log.MaxSizeMB)
	setInt(&result.Log.MaxBackups, override.Log.MaxBackups)
	setInt(&result.Log.MaxAgeDays, override.Log.MaxAgeDays)

	setStr(&result.Actor.ID, override.Actor.ID)
	setStr(&result.Actor.Name, override.Actor.Name)
	setStr(&result.Actor.Role, override.Actor.Role)
	return &result
}

func setStr(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setInt(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}
