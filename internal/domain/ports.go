package domain

import (
	"context"
	"time"
)

// StoreInitializer initializes the data store.
type StoreInitializer interface {
	// Initialize creates the store if it doesn't exist. It is idempotent.
	Initialize(ctx context.Context) error

	// IsInitialized reports whether the store exists.
	IsInitialized(ctx context.Context) bool
}

// TaskRepository manages task and task-history persistence.
// Lookups return (nil, nil) when the record does not exist.
type TaskRepository interface {
	// GetDueTemplates returns recurring templates with a pattern other than
	// "once" and a next occurrence set. Due-ness against the clock is decided
	// by the caller.
	GetDueTemplates(ctx context.Context) ([]*Task, error)

	// GetChildByParentAndDate returns the child of parentID scheduled for the given instant.
	GetChildByParentAndDate(ctx context.Context, parentID string, scheduledFor time.Time) (*Task, error)

	// CreateTask inserts a new task. Returns ErrDuplicateChild if a child for
	// the same (parent, scheduled_for) already exists.
	CreateTask(ctx context.Context, task *Task) error

	// UpdateTask replaces the stored task with the same ID.
	// Returns ErrTaskNotFound if it does not exist.
	UpdateTask(ctx context.Context, task *Task) error

	// GetTaskByID retrieves a task.
	GetTaskByID(ctx context.Context, id string) (*Task, error)

	// GetChildTasksByParentID returns the children of a template.
	GetChildTasksByParentID(ctx context.Context, parentID string) ([]*Task, error)

	// ListTasks returns tasks matching the filter, newest first.
	ListTasks(ctx context.Context, filter TaskFilter) ([]*Task, error)

	// DeleteTask removes a task and its history rows.
	DeleteTask(ctx context.Context, id string) error

	// CreateTaskHistory appends a history row.
	CreateTaskHistory(ctx context.Context, entry *TaskHistory) error

	// GetTaskHistory returns the history of a task, oldest first.
	GetTaskHistory(ctx context.Context, taskID string) ([]TaskHistory, error)
}

// TaskFilter specifies criteria for listing tasks.
type TaskFilter struct {
	ParentID      *string // set = only children of this template
	AssignedTo    string  // non-empty = only tasks assigned to this user
	Status        Status  // non-empty = only tasks in this status
	TemplatesOnly bool    // only recurring templates
}

// Matches reports whether t satisfies the filter.
func (f TaskFilter) Matches(t *Task) bool {
	if f.ParentID != nil && (t.ParentTaskID == nil || *t.ParentTaskID != *f.ParentID) {
		return false
	}
	if f.AssignedTo != "" && !t.IsAssignedTo(f.AssignedTo) {
		return false
	}
	if f.Status != "" && t.Status != f.Status {
		return false
	}
	if f.TemplatesOnly && !t.IsTemplate() {
		return false
	}
	return true
}

// IsDueTemplateCandidate reports whether t belongs in GetDueTemplates results.
func IsDueTemplateCandidate(t *Task) bool {
	return t.IsTemplate() && t.RecurrencePattern != PatternOnce && t.NextOccurrence != nil
}

// Notification is an outbound push message about a task.
type Notification struct {
	TaskID     string
	Title      string
	Body       string
	Priority   Priority
	Recipients []string
}

// DeliveryResult counts per-recipient delivery outcomes.
type DeliveryResult struct {
	Sent   int
	Failed int
}

// NotificationGateway delivers push notifications. Implementations are
// best-effort and tolerate unknown recipients without failing the call.
type NotificationGateway interface {
	Notify(ctx context.Context, n Notification) (DeliveryResult, error)
}

// Notifier accepts notifications for asynchronous delivery.
// Publish never blocks on delivery and never fails the caller's operation.
type Notifier interface {
	Publish(ctx context.Context, n Notification)
}

// Logger writes categorized log entries. taskID "" logs globally.
type Logger interface {
	Debug(taskID, category, msg string)
	Info(taskID, category, msg string)
	Warn(taskID, category, msg string)
	Error(taskID, category, msg string)
}

// NopLogger discards all log entries.
type NopLogger struct{}

func (NopLogger) Debug(_, _, _ string) {}
func (NopLogger) Info(_, _, _ string)  {}
func (NopLogger) Warn(_, _, _ string)  {}
func (NopLogger) Error(_, _, _ string) {}

// NopNotifier drops all notifications.
type NopNotifier struct{}

// Publish does nothing.
func (NopNotifier) Publish(_ context.Context, _ Notification) {}

// ConfigLoader loads configuration from files.
type ConfigLoader interface {
	// Load returns the merged configuration (defaults <- global <- repo).
	Load() (*Config, error)

	// LoadGlobal returns only the global configuration.
	LoadGlobal() (*Config, error)
}

// ConfigManager manages configuration files.
type ConfigManager interface {
	// InitRepoConfig writes the default config template into the data directory.
	InitRepoConfig(cfg *Config) error

	// RepoConfigPath returns the path of the repository config file.
	RepoConfigPath() string
}

// Clock provides time operations for testability.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}

// RealClock implements Clock using the system clock.
type RealClock struct{}

// Now returns the current time.
func (RealClock) Now() time.Time {
	return time.Now()
}
