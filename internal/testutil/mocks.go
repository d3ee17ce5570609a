// Package testutil provides shared test utilities and mock implementations.
package testutil

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/hotelops/reklamacije/internal/domain"
)

// MockClock is a test double for domain.Clock.
type MockClock struct {
	NowTime time.Time
}

// Now returns the configured time.
func (m *MockClock) Now() time.Time {
	return m.NowTime
}

// Advance moves the clock forward.
func (m *MockClock) Advance(d time.Duration) {
	m.NowTime = m.NowTime.Add(d)
}

// MockTaskRepository is a test double for domain.TaskRepository.
// It stores copies so callers cannot mutate stored state by accident, and it
// enforces one child per (parent, scheduled_for) like the real stores.
// Fields are ordered to minimize memory padding.
type MockTaskRepository struct {
	Tasks         map[string]*domain.Task
	History       map[string][]domain.TaskHistory
	GetErr        error
	DueErr        error
	CreateErr     error
	UpdateErr     error
	DeleteErr     error
	HistoryErr    error
	ListErr       error
	Updated       []string // IDs passed to UpdateTask, in call order
	Deleted       []string // IDs passed to DeleteTask, in call order
	HistoryWrites int
	mu            sync.Mutex
}

// Ensure MockTaskRepository implements domain.TaskRepository interface.
var _ domain.TaskRepository = (*MockTaskRepository)(nil)

// NewMockTaskRepository creates a new MockTaskRepository with initialized maps.
func NewMockTaskRepository() *MockTaskRepository {
	return &MockTaskRepository{
		Tasks:   make(map[string]*domain.Task),
		History: make(map[string][]domain.TaskHistory),
	}
}

// Put stores a task directly, bypassing error injection.
func (m *MockTaskRepository) Put(task *domain.Task) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Tasks[task.ID] = storedCopy(task)
}

// storedCopy clones task the way the real stores persist it: schedule
// timestamps come back in UTC whatever zone they were written in.
func storedCopy(task *domain.Task) *domain.Task {
	c := task.Clone()
	for _, ts := range []**time.Time{&c.ScheduledFor, &c.NextOccurrence, &c.RecurrenceStartDate} {
		if *ts != nil {
			utc := (*ts).UTC()
			*ts = &utc
		}
	}
	return c
}

// Task returns a stored task or nil.
func (m *MockTaskRepository) Task(id string) *domain.Task {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.Tasks[id]; ok {
		return t.Clone()
	}
	return nil
}

// Children returns the stored children of parentID ordered by scheduled_for.
func (m *MockTaskRepository) Children(parentID string) []*domain.Task {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.childrenLocked(parentID)
}

func (m *MockTaskRepository) childrenLocked(parentID string) []*domain.Task {
	var out []*domain.Task
	for _, t := range m.Tasks {
		if t.ParentTaskID != nil && *t.ParentTaskID == parentID {
			out = append(out, t.Clone())
		}
	}
	slices.SortFunc(out, func(a, b *domain.Task) int {
		return scheduledOf(a).Compare(scheduledOf(b))
	})
	return out
}

func scheduledOf(t *domain.Task) time.Time {
	if t.ScheduledFor == nil {
		return time.Time{}
	}
	return *t.ScheduledFor
}

// GetDueTemplates returns template candidates.
func (m *MockTaskRepository) GetDueTemplates(_ context.Context) ([]*domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.DueErr != nil {
		return nil, m.DueErr
	}
	var out []*domain.Task
	for _, t := range m.Tasks {
		if domain.IsDueTemplateCandidate(t) {
			out = append(out, t.Clone())
		}
	}
	slices.SortFunc(out, func(a, b *domain.Task) int {
		return a.NextOccurrence.Compare(*b.NextOccurrence)
	})
	return out, nil
}

// GetChildByParentAndDate finds a child by its parent and scheduled instant.
func (m *MockTaskRepository) GetChildByParentAndDate(_ context.Context, parentID string, scheduledFor time.Time) (*domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	for _, t := range m.Tasks {
		if t.ParentTaskID != nil && *t.ParentTaskID == parentID &&
			t.ScheduledFor != nil && t.ScheduledFor.Equal(scheduledFor) {
			return t.Clone(), nil
		}
	}
	return nil, nil
}

// CreateTask stores a new task.
func (m *MockTaskRepository) CreateTask(_ context.Context, task *domain.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateErr != nil {
		return m.CreateErr
	}
	if task.ParentTaskID != nil && task.ScheduledFor != nil {
		for _, t := range m.Tasks {
			if t.ParentTaskID != nil && *t.ParentTaskID == *task.ParentTaskID &&
				t.ScheduledFor != nil && t.ScheduledFor.Equal(*task.ScheduledFor) {
				return domain.ErrDuplicateChild
			}
		}
	}
	m.Tasks[task.ID] = storedCopy(task)
	return nil
}

// UpdateTask replaces a stored task.
func (m *MockTaskRepository) UpdateTask(_ context.Context, task *domain.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpdateErr != nil {
		return m.UpdateErr
	}
	if _, ok := m.Tasks[task.ID]; !ok {
		return domain.ErrTaskNotFound
	}
	m.Tasks[task.ID] = storedCopy(task)
	m.Updated = append(m.Updated, task.ID)
	return nil
}

// GetTaskByID retrieves a task by ID.
func (m *MockTaskRepository) GetTaskByID(_ context.Context, id string) (*domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	t, ok := m.Tasks[id]
	if !ok {
		return nil, nil
	}
	return t.Clone(), nil
}

// GetChildTasksByParentID returns children of a template.
// ListErr applies here as well as to ListTasks.
func (m *MockTaskRepository) GetChildTasksByParentID(_ context.Context, parentID string) ([]*domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	return m.childrenLocked(parentID), nil
}

// ListTasks returns tasks matching the filter, newest first.
func (m *MockTaskRepository) ListTasks(_ context.Context, filter domain.TaskFilter) ([]*domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	var out []*domain.Task
	for _, t := range m.Tasks {
		if filter.Matches(t) {
			out = append(out, t.Clone())
		}
	}
	slices.SortFunc(out, func(a, b *domain.Task) int {
		return b.Created.Compare(a.Created)
	})
	return out, nil
}

// DeleteTask removes a task and its history.
func (m *MockTaskRepository) DeleteTask(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	if _, ok := m.Tasks[id]; !ok {
		return domain.ErrTaskNotFound
	}
	delete(m.Tasks, id)
	delete(m.History, id)
	m.Deleted = append(m.Deleted, id)
	return nil
}

// CreateTaskHistory appends a history row.
func (m *MockTaskRepository) CreateTaskHistory(_ context.Context, entry *domain.TaskHistory) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.HistoryErr != nil {
		return m.HistoryErr
	}
	m.History[entry.TaskID] = append(m.History[entry.TaskID], *entry)
	m.HistoryWrites++
	return nil
}

// GetTaskHistory returns the history rows of a task.
func (m *MockTaskRepository) GetTaskHistory(_ context.Context, taskID string) ([]domain.TaskHistory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	return domain.SortHistory(m.History[taskID]), nil
}

// MockTaskRepositoryWithChildCreateError extends MockTaskRepository to fail
// CreateTask for children of one template, or of every template when
// FailParentID is empty.
type MockTaskRepositoryWithChildCreateError struct {
	*MockTaskRepository
	ChildCreateErr error
	FailParentID   string
}

// CreateTask returns an error for children of FailParentID.
func (m *MockTaskRepositoryWithChildCreateError) CreateTask(ctx context.Context, task *domain.Task) error {
	if task.ParentTaskID != nil && (m.FailParentID == "" || *task.ParentTaskID == m.FailParentID) {
		return m.ChildCreateErr
	}
	return m.MockTaskRepository.CreateTask(ctx, task)
}

// MockTaskRepositoryWithLookupMiss extends MockTaskRepository so that
// GetChildByParentAndDate never finds a child, simulating a concurrent
// writer that inserted between the lookup and the insert.
type MockTaskRepositoryWithLookupMiss struct {
	*MockTaskRepository
}

// GetChildByParentAndDate always reports no child.
func (m *MockTaskRepositoryWithLookupMiss) GetChildByParentAndDate(_ context.Context, _ string, _ time.Time) (*domain.Task, error) {
	return nil, nil
}

// MockStoreInitializer is a test double for domain.StoreInitializer.
type MockStoreInitializer struct {
	InitErr     error
	Initialized bool
	InitCalled  bool
}

// Initialize records the call.
func (m *MockStoreInitializer) Initialize(_ context.Context) error {
	m.InitCalled = true
	if m.InitErr != nil {
		return m.InitErr
	}
	m.Initialized = true
	return nil
}

// IsInitialized returns the configured value.
func (m *MockStoreInitializer) IsInitialized(_ context.Context) bool {
	return m.Initialized
}

// MockNotifier is a test double for domain.Notifier.
type MockNotifier struct {
	Published []domain.Notification
	mu        sync.Mutex
}

// Ensure MockNotifier implements domain.Notifier interface.
var _ domain.Notifier = (*MockNotifier)(nil)

// Publish records the notification.
func (m *MockNotifier) Publish(_ context.Context, n domain.Notification) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Published = append(m.Published, n)
}

// Notifications returns a copy of the published notifications.
func (m *MockNotifier) Notifications() []domain.Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.Published)
}

// MockGateway is a test double for domain.NotificationGateway.
// Recipients listed in Unknown count as failed deliveries.
// Fields are ordered to minimize memory padding.
type MockGateway struct {
	Err       error
	Unknown   map[string]bool
	Delivered []domain.Notification
	FailTimes int // number of leading calls that return Err
	Calls     int
	mu        sync.Mutex
}

// Ensure MockGateway implements domain.NotificationGateway interface.
var _ domain.NotificationGateway = (*MockGateway)(nil)

// Notify records the call and returns the configured result.
func (m *MockGateway) Notify(_ context.Context, n domain.Notification) (domain.DeliveryResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls++
	if m.Err != nil && (m.FailTimes == 0 || m.Calls <= m.FailTimes) {
		return domain.DeliveryResult{Failed: len(n.Recipients)}, m.Err
	}
	var res domain.DeliveryResult
	for _, r := range n.Recipients {
		if m.Unknown[r] {
			res.Failed++
			continue
		}
		res.Sent++
	}
	m.Delivered = append(m.Delivered, n)
	return res, nil
}

// CallCount returns the number of Notify calls.
func (m *MockGateway) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Calls
}

// LogEntry is one record captured by MockLogger.
type LogEntry struct {
	Level    string
	TaskID   string
	Category string
	Msg      string
}

// MockLogger is a test double for domain.Logger.
type MockLogger struct {
	Entries []LogEntry
	mu      sync.Mutex
}

// Ensure MockLogger implements domain.Logger interface.
var _ domain.Logger = (*MockLogger)(nil)

func (m *MockLogger) record(level, taskID, category, msg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Entries = append(m.Entries, LogEntry{Level: level, TaskID: taskID, Category: category, Msg: msg})
}

// Debug records a debug entry.
func (m *MockLogger) Debug(taskID, category, msg string) { m.record("debug", taskID, category, msg) }

// Info records an info entry.
func (m *MockLogger) Info(taskID, category, msg string) { m.record("info", taskID, category, msg) }

// Warn records a warn entry.
func (m *MockLogger) Warn(taskID, category, msg string) { m.record("warn", taskID, category, msg) }

// Error records an error entry.
func (m *MockLogger) Error(taskID, category, msg string) { m.record("error", taskID, category, msg) }

// Count returns the number of entries at level.
func (m *MockLogger) Count(level string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, e := range m.Entries {
		if e.Level == level {
			n++
		}
	}
	return n
}

// MockConfigLoader is a test double for domain.ConfigLoader.
type MockConfigLoader struct {
	Config    *domain.Config
	Global    *domain.Config
	LoadErr   error
	GlobalErr error
}

// Load returns the configured config or error.
func (m *MockConfigLoader) Load() (*domain.Config, error) {
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	if m.Config == nil {
		return domain.NewDefaultConfig(), nil
	}
	return m.Config, nil
}

// LoadGlobal returns the configured global config or error.
func (m *MockConfigLoader) LoadGlobal() (*domain.Config, error) {
	if m.GlobalErr != nil {
		return nil, m.GlobalErr
	}
	if m.Global == nil {
		return domain.NewDefaultConfig(), nil
	}
	return m.Global, nil
}

// MockConfigManager is a test double for domain.ConfigManager.
type MockConfigManager struct {
	InitErr    error
	Written    *domain.Config
	Path       string
	InitCalled bool
}

// InitRepoConfig records the call.
func (m *MockConfigManager) InitRepoConfig(cfg *domain.Config) error {
	m.InitCalled = true
	if m.InitErr != nil {
		return m.InitErr
	}
	m.Written = cfg
	return nil
}

// RepoConfigPath returns the configured path.
func (m *MockConfigManager) RepoConfigPath() string {
	return m.Path
}
