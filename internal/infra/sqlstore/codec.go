package sqlstore

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hotelops/reklamacije/internal/domain"
)

// timeLayout is fixed width so stored instants sort lexically and equal
// instants compare equal in the unique index.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func formatTimePtr(t *time.Time) any {
	if t == nil {
		return nil
	}
	return formatTime(*t)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse time %q: %w", s, err)
	}
	return t, nil
}

func parseTimePtr(s sql.NullString) (*time.Time, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	t, err := parseTime(s.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func nullStr(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func encodeJSON[T any](v []T) (string, error) {
	if len(v) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func decodeJSON[T any](s string) ([]T, error) {
	if s == "" || s == "[]" {
		return nil, nil
	}
	var v []T
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return nil, fmt.Errorf("decode %q: %w", s, err)
	}
	return v, nil
}

// taskColumns lists the columns in the order taskArgs and scanTask use.
const taskColumns = `id, parent_task_id, scheduled_for, title, description, location, room_number,
	priority, status, created_by, created_by_name, created_by_department,
	assigned_to, assigned_to_name, external_company_name,
	is_recurring, recurrence_pattern, recurrence_start_date, next_occurrence,
	recurrence_week_days, recurrence_month_days, recurrence_year_dates,
	execution_hour, execution_minute, worker_report, worker_images, images,
	completed_at, completed_by, completed_by_name,
	receipt_confirmed_at, receipt_confirmed_by, receipt_confirmed_by_name,
	created_at, updated_at`

const taskColumnCount = 35

func taskArgs(t *domain.Task) ([]any, error) {
	weekDays, err := encodeJSON(t.RecurrenceWeekDays)
	if err != nil {
		return nil, err
	}
	monthDays, err := encodeJSON(t.RecurrenceMonthDays)
	if err != nil {
		return nil, err
	}
	yearDates, err := encodeJSON(t.RecurrenceYearDates)
	if err != nil {
		return nil, err
	}
	workerImages, err := encodeJSON(t.WorkerImages)
	if err != nil {
		return nil, err
	}
	images, err := encodeJSON(t.Images)
	if err != nil {
		return nil, err
	}
	pattern := t.RecurrencePattern
	if pattern == "" {
		pattern = domain.PatternOnce
	}
	return []any{
		t.ID, nullStr(t.ParentTaskID), formatTimePtr(t.ScheduledFor),
		t.Title, t.Description, t.Location, t.RoomNumber,
		string(t.Priority), string(t.Status), t.CreatedBy, t.CreatedByName, t.CreatedByDepartment,
		domain.JoinRecipients(t.AssignedTo), t.AssignedToName, t.ExternalCompanyName,
		t.IsRecurring, pattern, formatTimePtr(t.RecurrenceStartDate), formatTimePtr(t.NextOccurrence),
		weekDays, monthDays, yearDates,
		t.ExecutionHour, t.ExecutionMinute, t.WorkerReport, workerImages, images,
		formatTimePtr(t.CompletedAt), t.CompletedBy, t.CompletedByName,
		formatTimePtr(t.ReceiptConfirmedAt), t.ReceiptConfirmedBy, t.ReceiptConfirmedByName,
		formatTime(t.Created), formatTime(t.Updated),
	}, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(row scanner) (*domain.Task, error) {
	var (
		t                                                domain.Task
		parentID, scheduledFor, startDate, next          sql.NullString
		completedAt, receiptAt                           sql.NullString
		priority, status, assignedTo                     string
		weekDays, monthDays, yearDates, workerImgs, imgs string
		created, updated                                 string
	)
	err := row.Scan(
		&t.ID, &parentID, &scheduledFor, &t.Title, &t.Description, &t.Location, &t.RoomNumber,
		&priority, &status, &t.CreatedBy, &t.CreatedByName, &t.CreatedByDepartment,
		&assignedTo, &t.AssignedToName, &t.ExternalCompanyName,
		&t.IsRecurring, &t.RecurrencePattern, &startDate, &next,
		&weekDays, &monthDays, &yearDates,
		&t.ExecutionHour, &t.ExecutionMinute, &t.WorkerReport, &workerImgs, &imgs,
		&completedAt, &t.CompletedBy, &t.CompletedByName,
		&receiptAt, &t.ReceiptConfirmedBy, &t.ReceiptConfirmedByName,
		&created, &updated,
	)
	if err != nil {
		return nil, err
	}

	t.Priority = domain.Priority(priority)
	t.Status = domain.Status(status)
	t.AssignedTo = domain.ParseRecipients(assignedTo)
	if parentID.Valid {
		id := parentID.String
		t.ParentTaskID = &id
	}

	for _, p := range []struct {
		dst **time.Time
		src sql.NullString
	}{
		{&t.ScheduledFor, scheduledFor},
		{&t.RecurrenceStartDate, startDate},
		{&t.NextOccurrence, next},
		{&t.CompletedAt, completedAt},
		{&t.ReceiptConfirmedAt, receiptAt},
	} {
		if *p.dst, err = parseTimePtr(p.src); err != nil {
			return nil, err
		}
	}
	if t.Created, err = parseTime(created); err != nil {
		return nil, err
	}
	if t.Updated, err = parseTime(updated); err != nil {
		return nil, err
	}

	if t.RecurrenceWeekDays, err = decodeJSON[int](weekDays); err != nil {
		return nil, err
	}
	if t.RecurrenceMonthDays, err = decodeJSON[int](monthDays); err != nil {
		return nil, err
	}
	if t.RecurrenceYearDates, err = decodeJSON[domain.YearDate](yearDates); err != nil {
		return nil, err
	}
	if t.WorkerImages, err = decodeJSON[string](workerImgs); err != nil {
		return nil, err
	}
	if t.Images, err = decodeJSON[string](imgs); err != nil {
		return nil, err
	}
	return &t, nil
}

const historyColumns = `id, task_id, user_id, user_name, user_role, action, status_from, status_to,
	notes, assigned_to, assigned_to_name, timestamp`

func scanHistory(row scanner) (domain.TaskHistory, error) {
	var (
		h                          domain.TaskHistory
		role, from, to, assignedTo string
		ts                         string
	)
	err := row.Scan(&h.ID, &h.TaskID, &h.UserID, &h.UserName, &role, &h.Action, &from, &to,
		&h.Notes, &assignedTo, &h.AssignedToName, &ts)
	if err != nil {
		return h, err
	}
	h.UserRole = domain.Role(role)
	h.StatusFrom = domain.Status(from)
	h.StatusTo = domain.Status(to)
	h.AssignedTo = domain.ParseRecipients(assignedTo)
	if h.Timestamp, err = parseTime(ts); err != nil {
		return h, err
	}
	return h, nil
}
