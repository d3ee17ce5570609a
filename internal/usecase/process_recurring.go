// Package usecase contains application use cases.
package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/hotelops/reklamacije/internal/domain"
	"github.com/hotelops/reklamacije/internal/usecase/shared"
)

// ProcessRecurringInput contains the parameters for a processor run.
type ProcessRecurringInput struct {
	Actor domain.Actor // Who triggered the run; must be an admin
}

// TemplateError records the failure of one template during a run.
type TemplateError struct {
	Err        error
	TemplateID string
}

func (e TemplateError) Error() string {
	return fmt.Sprintf("template %s: %v", e.TemplateID, e.Err)
}

func (e TemplateError) Unwrap() error {
	return e.Err
}

// ProcessRecurringOutput summarizes a processor run.
type ProcessRecurringOutput struct {
	Errors           []TemplateError
	TemplatesScanned int
	ChildrenCreated  int
}

// TemplateLocks serializes work on the same template within a process.
// One instance is shared by every ProcessRecurring built from the container.
type TemplateLocks struct {
	locks map[string]*sync.Mutex
	mu    sync.Mutex
}

// NewTemplateLocks creates an empty lock set.
func NewTemplateLocks() *TemplateLocks {
	return &TemplateLocks{locks: make(map[string]*sync.Mutex)}
}

func (l *TemplateLocks) lock(id string) func() {
	l.mu.Lock()
	m, ok := l.locks[id]
	if !ok {
		m = &sync.Mutex{}
		l.locks[id] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}

// ProcessRecurring materializes child tasks for due recurring templates and
// advances their next occurrence.
type ProcessRecurring struct {
	tasks    domain.TaskRepository
	notifier domain.Notifier
	clock    domain.Clock
	logger   domain.Logger
	loc      *time.Location
	locks    *TemplateLocks
}

// NewProcessRecurring creates a new ProcessRecurring use case.
// loc is the zone execution times are interpreted in; nil means time.Local.
func NewProcessRecurring(
	tasks domain.TaskRepository,
	notifier domain.Notifier,
	clock domain.Clock,
	logger domain.Logger,
	loc *time.Location,
	locks *TemplateLocks,
) *ProcessRecurring {
	if loc == nil {
		loc = time.Local
	}
	if locks == nil {
		locks = NewTemplateLocks()
	}
	if notifier == nil {
		notifier = domain.NopNotifier{}
	}
	if logger == nil {
		logger = domain.NopLogger{}
	}
	return &ProcessRecurring{
		tasks:    tasks,
		notifier: notifier,
		clock:    clock,
		logger:   logger,
		loc:      loc,
		locks:    locks,
	}
}

// Execute scans all recurring templates once. It is safe to call repeatedly:
// a second call at the same instant creates nothing and advances nothing.
func (uc *ProcessRecurring) Execute(ctx context.Context, in ProcessRecurringInput) (*ProcessRecurringOutput, error) {
	if in.Actor.Role != domain.RoleAdmin {
		return nil, domain.ErrAdminOnly
	}

	templates, err := uc.tasks.GetDueTemplates(ctx)
	if err != nil {
		return nil, fmt.Errorf("get due templates: %w", err)
	}

	out := &ProcessRecurringOutput{}
	for _, t := range templates {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		out.TemplatesScanned++

		created, err := uc.processTemplate(ctx, t.ID)
		if err != nil {
			uc.logger.Error(t.ID, "recurring", err.Error())
			out.Errors = append(out.Errors, TemplateError{TemplateID: t.ID, Err: err})
			continue
		}
		if created {
			out.ChildrenCreated++
		}
	}

	uc.logger.Info("", "recurring", fmt.Sprintf("run finished: scanned=%d created=%d errors=%d",
		out.TemplatesScanned, out.ChildrenCreated, len(out.Errors)))
	return out, nil
}

// EnsureChildTasksExist runs the due-check-and-materialize step for a single
// template so its first occurrence is visible without waiting for the trigger.
func (uc *ProcessRecurring) EnsureChildTasksExist(ctx context.Context, template *domain.Task) (bool, error) {
	if template == nil || !template.IsTemplate() {
		return false, nil
	}
	return uc.processTemplate(ctx, template.ID)
}

// processTemplate reloads the template under its lock so overlapping runs in
// this process observe each other's advanced next occurrence.
func (uc *ProcessRecurring) processTemplate(ctx context.Context, id string) (bool, error) {
	unlock := uc.locks.lock(id)
	defer unlock()

	t, err := uc.tasks.GetTaskByID(ctx, id)
	if err != nil {
		return false, fmt.Errorf("get template: %w", err)
	}
	if t == nil || !domain.IsDueTemplateCandidate(t) {
		return false, nil
	}

	pattern, ok := domain.ParsePattern(t.RecurrencePattern)
	if !ok {
		uc.logger.Warn(t.ID, "recurring", fmt.Sprintf("skipping template with unrecognized pattern %q", t.RecurrencePattern))
		return false, nil
	}

	now := uc.clock.Now()
	if !isDue(t, now) {
		return false, nil
	}

	// Month and year steps follow the scheduler's calendar, not the stored UTC one.
	occurrence, next := catchUp(pattern, t.NextOccurrence.In(uc.loc), t.AnchorDay(uc.loc), now)
	next = next.UTC()
	scheduledFor := uc.scheduleFor(t, occurrence)

	existing, err := uc.tasks.GetChildByParentAndDate(ctx, t.ID, scheduledFor)
	if err != nil {
		return false, fmt.Errorf("check existing child: %w", err)
	}

	var child *domain.Task
	if existing == nil {
		child = newChildTask(t, scheduledFor, now)
		switch err := uc.tasks.CreateTask(ctx, child); {
		case errors.Is(err, domain.ErrDuplicateChild):
			uc.logger.Debug(t.ID, "recurring", "child for "+scheduledFor.Format(time.RFC3339)+" created concurrently")
			child = nil
		case err != nil:
			return false, fmt.Errorf("create child task: %w", err)
		default:
			_, err := shared.RecordHistory(ctx, uc.tasks, now, child.ID, shared.HistoryEntry{
				Actor:          domain.SystemActor,
				Action:         domain.ActionTaskCreated,
				To:             child.Status,
				Notes:          fmt.Sprintf("Generated from recurring template %q (#%s)", t.Title, t.ShortID()),
				AssignedTo:     child.AssignedTo,
				AssignedToName: child.AssignedToName,
			})
			if err != nil {
				return false, err
			}
		}
	}

	t.NextOccurrence = &next
	t.Updated = now
	if err := uc.tasks.UpdateTask(ctx, t); err != nil {
		return child != nil, fmt.Errorf("advance next occurrence: %w", err)
	}

	if child == nil {
		return false, nil
	}

	uc.logger.Info(t.ID, "recurring", fmt.Sprintf("materialized %s for %s, next occurrence %s",
		child.ShortID(), scheduledFor.Format(time.RFC3339), next.Format(time.RFC3339)))
	if len(child.AssignedTo) > 0 {
		uc.notifier.Publish(ctx, domain.NewAssignmentNotification(child))
	}
	return true, nil
}

// isDue reports whether the template's next occurrence has arrived and its
// recurrence window has started.
func isDue(t *domain.Task, now time.Time) bool {
	if t.NextOccurrence == nil || t.NextOccurrence.After(now) {
		return false
	}
	return t.RecurrenceStartDate == nil || !now.Before(*t.RecurrenceStartDate)
}

// catchUp steps from next through every occurrence that is not after now.
// It returns the latest such occurrence and the first one after now.
// Skipped periods produce no children.
func catchUp(p domain.Pattern, next time.Time, anchorDay int, now time.Time) (occurrence, following time.Time) {
	occurrence = next
	for {
		following = p.Next(occurrence, anchorDay)
		if following.After(now) {
			return occurrence, following
		}
		occurrence = following
	}
}

// scheduleFor snaps the occurrence onto the template's day selection and
// applies its execution time. The result is in UTC, the form stores compare on.
func (uc *ProcessRecurring) scheduleFor(t *domain.Task, occurrence time.Time) time.Time {
	day := t.Selection().NextSlot(occurrence.In(uc.loc))
	return domain.AtExecutionTime(day, t.ExecutionHour, t.ExecutionMinute, uc.loc).UTC()
}

func newChildTask(t *domain.Task, scheduledFor, now time.Time) *domain.Task {
	parentID := t.ID
	status := domain.StatusWithSef
	if len(t.AssignedTo) > 0 {
		status = domain.StatusAssignedToRadnik
	}
	src := t.Clone()
	return &domain.Task{
		ID:                  shared.NewID(),
		ParentTaskID:        &parentID,
		ScheduledFor:        &scheduledFor,
		Title:               src.Title,
		Description:         src.Description,
		Location:            src.Location,
		RoomNumber:          src.RoomNumber,
		Priority:            src.Priority,
		Status:              status,
		CreatedBy:           src.CreatedBy,
		CreatedByName:       src.CreatedByName,
		CreatedByDepartment: src.CreatedByDepartment,
		AssignedTo:          src.AssignedTo,
		AssignedToName:      src.AssignedToName,
		ExternalCompanyName: src.ExternalCompanyName,
		Images:              src.Images,
		ExecutionHour:       src.ExecutionHour,
		ExecutionMinute:     src.ExecutionMinute,
		RecurrencePattern:   domain.PatternOnce,
		Created:             now,
		Updated:             now,
	}
}
