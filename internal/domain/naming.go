package domain

import (
	"path/filepath"
)

// Directory and file names.
const (
	DataDirName    = ".reklamacije" // Directory for local data
	GlobalDirName  = "reklamacije"  // Directory under XDG_CONFIG_HOME
	ConfigFileName = "config.toml"  // Config file name
	DBFileName     = "tasks.db"     // SQLite database file name
	GitRepoName    = "tasks.git"    // Bare repository used by the git store
)

// DataDir returns the data directory under root.
func DataDir(root string) string {
	return filepath.Join(root, DataDirName)
}

// RepoConfigPath returns the local config path under the data directory.
func RepoConfigPath(dataDir string) string {
	return filepath.Join(dataDir, ConfigFileName)
}

// GlobalConfigDir returns the global config directory.
// configHome is typically XDG_CONFIG_HOME or ~/.config (resolved by caller).
func GlobalConfigDir(configHome string) string {
	return filepath.Join(configHome, GlobalDirName)
}

// DefaultDBPath returns the default SQLite path under the data directory.
func DefaultDBPath(dataDir string) string {
	return filepath.Join(dataDir, DBFileName)
}

// DefaultGitRepoPath returns the default git store repository under the data directory.
func DefaultGitRepoPath(dataDir string) string {
	return filepath.Join(dataDir, GitRepoName)
}

// LogsDir returns the log directory under the data directory.
func LogsDir(dataDir string) string {
	return filepath.Join(dataDir, "logs")
}

// TaskLogPath returns the path to a task's log file.
func TaskLogPath(logsDir, taskID string) string {
	return filepath.Join(logsDir, "task-"+taskID+".log")
}

// GlobalLogPath returns the path to the global log file.
func GlobalLogPath(logsDir string) string {
	return filepath.Join(logsDir, "reklamacije.log")
}
