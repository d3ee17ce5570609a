// Package sqlstore provides a SQLite-backed task repository.
package sqlstore

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/hotelops/reklamacije/internal/domain"
)

//go:embed migrations.sql
var migrations string

// DefaultBusyTimeout is used when no busy timeout is configured.
const DefaultBusyTimeout = 5 * time.Second

// Store implements domain.TaskRepository and domain.StoreInitializer on SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Ensure Store implements the domain interfaces.
var (
	_ domain.TaskRepository   = (*Store)(nil)
	_ domain.StoreInitializer = (*Store)(nil)
)

// Open opens the database at path. The schema is not created until Initialize.
func Open(path string, busyTimeout time.Duration) (*Store, error) {
	if busyTimeout <= 0 {
		busyTimeout = DefaultBusyTimeout
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(%d)&_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)",
		path, busyTimeout.Milliseconds())
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// A single connection keeps writers serialized within the process;
	// busy_timeout covers other processes.
	db.SetMaxOpenConns(1)

	return &Store{db: db, path: path}, nil
}

// FromConfig opens the store described by cfg.
func FromConfig(cfg domain.StoreConfig, dataDir string) (*Store, error) {
	path := cfg.Path
	if path == "" {
		path = domain.DefaultDBPath(dataDir)
	}
	return Open(path, time.Duration(cfg.BusyTimeoutMS)*time.Millisecond)
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Initialize creates the schema. It is idempotent.
func (s *Store) Initialize(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, migrations); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// IsInitialized reports whether the database file exists and holds the schema.
func (s *Store) IsInitialized(ctx context.Context) bool {
	if _, err := os.Stat(s.path); err != nil {
		return false
	}
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name IN ('tasks', 'task_history')`).Scan(&n)
	return err == nil && n == 2
}

// GetDueTemplates returns recurring templates that have a next occurrence.
func (s *Store) GetDueTemplates(ctx context.Context) ([]*domain.Task, error) {
	return s.queryTasks(ctx, `SELECT `+taskColumns+` FROM tasks
		WHERE is_recurring = 1 AND parent_task_id IS NULL
		  AND recurrence_pattern != ? AND next_occurrence IS NOT NULL
		ORDER BY next_occurrence`, domain.PatternOnce)
}

// GetChildByParentAndDate returns the child scheduled for the given instant.
func (s *Store) GetChildByParentAndDate(ctx context.Context, parentID string, scheduledFor time.Time) (*domain.Task, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks
		WHERE parent_task_id = ? AND scheduled_for = ?`, parentID, formatTime(scheduledFor))
	return s.scanOne(row)
}

// GetTaskByID retrieves a task.
func (s *Store) GetTaskByID(ctx context.Context, id string) (*domain.Task, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	return s.scanOne(row)
}

// GetChildTasksByParentID returns the children of a template, earliest occurrence first.
func (s *Store) GetChildTasksByParentID(ctx context.Context, parentID string) ([]*domain.Task, error) {
	return s.queryTasks(ctx, `SELECT `+taskColumns+` FROM tasks
		WHERE parent_task_id = ? ORDER BY scheduled_for`, parentID)
}

// ListTasks returns tasks matching the filter, newest first.
func (s *Store) ListTasks(ctx context.Context, filter domain.TaskFilter) ([]*domain.Task, error) {
	var (
		where []string
		args  []any
	)
	if filter.ParentID != nil {
		where = append(where, "parent_task_id = ?")
		args = append(args, *filter.ParentID)
	}
	if filter.AssignedTo != "" {
		where = append(where, "instr(',' || assigned_to || ',', ',' || ? || ',') > 0")
		args = append(args, filter.AssignedTo)
	}
	if filter.Status != "" {
		where = append(where, "status = ?")
		args = append(args, string(filter.Status))
	}
	if filter.TemplatesOnly {
		where = append(where, "is_recurring = 1 AND parent_task_id IS NULL")
	}

	query := `SELECT ` + taskColumns + ` FROM tasks`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC, id"
	return s.queryTasks(ctx, query, args...)
}

// CreateTask inserts a new task.
func (s *Store) CreateTask(ctx context.Context, task *domain.Task) error {
	args, err := taskArgs(task)
	if err != nil {
		return fmt.Errorf("encode task: %w", err)
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", taskColumnCount), ", ")
	_, err = s.db.ExecContext(ctx, `INSERT INTO tasks (`+taskColumns+`) VALUES (`+placeholders+`)`, args...)
	if isUniqueViolation(err) && task.IsChild() {
		return domain.ErrDuplicateChild
	}
	return err
}

// UpdateTask replaces every column of the stored task.
func (s *Store) UpdateTask(ctx context.Context, task *domain.Task) error {
	args, err := taskArgs(task)
	if err != nil {
		return fmt.Errorf("encode task: %w", err)
	}
	cols := strings.Split(taskColumns, ",")
	sets := make([]string, 0, len(cols)-1)
	for _, c := range cols[1:] {
		sets = append(sets, strings.TrimSpace(c)+" = ?")
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE tasks SET `+strings.Join(sets, ", ")+` WHERE id = ?`,
		append(args[1:], task.ID)...)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateChild
		}
		return err
	}
	return requireRow(res)
}

// DeleteTask removes a task; its history rows go with it.
func (s *Store) DeleteTask(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// CreateTaskHistory appends a history row.
func (s *Store) CreateTaskHistory(ctx context.Context, h *domain.TaskHistory) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO task_history (`+historyColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		h.ID, h.TaskID, h.UserID, h.UserName, string(h.UserRole), h.Action,
		string(h.StatusFrom), string(h.StatusTo), h.Notes,
		domain.JoinRecipients(h.AssignedTo), h.AssignedToName, formatTime(h.Timestamp))
	if isForeignKeyViolation(err) {
		return fmt.Errorf("%w: %s", domain.ErrTaskNotFound, h.TaskID)
	}
	return err
}

// GetTaskHistory returns the history of a task, oldest first.
func (s *Store) GetTaskHistory(ctx context.Context, taskID string) ([]domain.TaskHistory, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+historyColumns+` FROM task_history
		WHERE task_id = ? ORDER BY timestamp, rowid`, taskID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var history []domain.TaskHistory
	for rows.Next() {
		h, err := scanHistory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		history = append(history, h)
	}
	return history, rows.Err()
}

func (s *Store) scanOne(row *sql.Row) (*domain.Task, error) {
	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan task: %w", err)
	}
	return t, nil
}

func (s *Store) queryTasks(ctx context.Context, query string, args ...any) ([]*domain.Task, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var tasks []*domain.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	return errors.As(err, &se) && se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
}

func isForeignKeyViolation(err error) bool {
	var se *sqlite.Error
	return errors.As(err, &se) && se.Code() == sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY
}
