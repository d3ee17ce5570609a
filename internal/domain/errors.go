package domain

import (
	"errors"
	"fmt"
)

// Error categories. Specific errors below wrap one of these so callers can
// branch with errors.Is on the category.
var (
	ErrValidation     = errors.New("validation failed")
	ErrForbidden      = errors.New("forbidden")
	ErrTaskNotFound   = errors.New("task not found")
	ErrDuplicateChild = errors.New("child task already exists for this occurrence")
	ErrDelivery       = errors.New("notification delivery failed")
)

// Domain errors.
var (
	ErrEmptyTitle          = fmt.Errorf("%w: title cannot be empty", ErrValidation)
	ErrEmptyDescription    = fmt.Errorf("%w: description cannot be empty", ErrValidation)
	ErrEmptyLocation       = fmt.Errorf("%w: location cannot be empty", ErrValidation)
	ErrMissingCreator      = fmt.Errorf("%w: creator id and name are required", ErrValidation)
	ErrMissingActor        = fmt.Errorf("%w: acting user is required", ErrValidation)
	ErrInvalidStatus       = fmt.Errorf("%w: invalid status", ErrValidation)
	ErrInvalidPriority     = fmt.Errorf("%w: invalid priority", ErrValidation)
	ErrInvalidPattern      = fmt.Errorf("%w: invalid recurrence pattern", ErrValidation)
	ErrInvalidSelection    = fmt.Errorf("%w: invalid recurrence day selection", ErrValidation)
	ErrInvalidExecTime     = fmt.Errorf("%w: execution time out of range", ErrValidation)
	ErrInvalidTransition   = fmt.Errorf("%w: invalid status transition", ErrValidation)
	ErrNoFieldsToUpdate    = fmt.Errorf("%w: no fields to update", ErrValidation)
	ErrChildRecurrence     = fmt.Errorf("%w: recurrence is configured on the template, not its instances", ErrValidation)
	ErrEmptyFile           = fmt.Errorf("%w: file is empty", ErrValidation)
	ErrNoTasksInFile       = fmt.Errorf("%w: no tasks found in file", ErrValidation)
	ErrSupervisorOnly      = fmt.Errorf("%w: only supervisors and admins may perform this action", ErrForbidden)
	ErrAdminOnly           = fmt.Errorf("%w: admin access required", ErrForbidden)
	ErrNotAssignedWorker   = fmt.Errorf("%w: only an assigned worker can confirm receipt", ErrForbidden)
	ErrStoreNotInitialized = errors.New("store not initialized (run 'reklamacije init' first)")
	ErrConfigExists        = errors.New("config file already exists")
	ErrConfigNil           = errors.New("config is nil")
)

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool { return errors.Is(err, ErrValidation) }

// IsForbidden reports whether err is an AuthorizationError.
func IsForbidden(err error) bool { return errors.Is(err, ErrForbidden) }

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool { return errors.Is(err, ErrTaskNotFound) }
