package domain

// Status represents the lifecycle state of a task.
type Status string

const (
	StatusNew                Status = "new"                  // Reported, not yet routed
	StatusWithSef            Status = "with_sef"             // With a supervisor for routing
	StatusAssignedToRadnik   Status = "assigned_to_radnik"   // Assigned to one or more technicians
	StatusWithOperator       Status = "with_operator"        // Back with the operator for verification
	StatusWithExternal       Status = "with_external"        // Handed to an external company
	StatusReturnedToSef      Status = "returned_to_sef"      // Returned to a supervisor by the assignee
	StatusReturnedToOperator Status = "returned_to_operator" // Returned to the operator
	StatusCompleted          Status = "completed"            // Work done
	StatusCancelled          Status = "cancelled"            // Abandoned

	// StatusDeleted only appears as status_to in history rows of deleted tasks.
	StatusDeleted Status = "deleted"
)

// AllStatuses returns all valid task status values.
func AllStatuses() []Status {
	return []Status{
		StatusNew,
		StatusWithSef,
		StatusAssignedToRadnik,
		StatusWithOperator,
		StatusWithExternal,
		StatusReturnedToSef,
		StatusReturnedToOperator,
		StatusCompleted,
		StatusCancelled,
	}
}

// transitions defines the workflow transitions available to every role.
// Flow: new → with_sef → assigned_to_radnik | with_external → with_operator → completed
//
//	returned_* loop back to with_sef / with_operator for re-assignment.
//
// Supervisors may additionally apply corrective transitions (see CanTransition).
var transitions = map[Status][]Status{
	StatusNew:                {StatusWithSef, StatusWithOperator, StatusAssignedToRadnik, StatusWithExternal, StatusCompleted, StatusCancelled},
	StatusWithSef:            {StatusAssignedToRadnik, StatusWithExternal, StatusWithOperator, StatusReturnedToOperator, StatusCompleted, StatusCancelled},
	StatusAssignedToRadnik:   {StatusWithOperator, StatusWithSef, StatusReturnedToSef, StatusReturnedToOperator, StatusCompleted},
	StatusWithExternal:       {StatusWithOperator, StatusWithSef, StatusReturnedToSef, StatusCompleted},
	StatusWithOperator:       {StatusWithSef, StatusAssignedToRadnik, StatusReturnedToSef, StatusReturnedToOperator, StatusCompleted},
	StatusReturnedToSef:      {StatusWithSef, StatusAssignedToRadnik, StatusWithExternal, StatusWithOperator, StatusCancelled},
	StatusReturnedToOperator: {StatusWithOperator, StatusWithSef, StatusCompleted, StatusCancelled},
	StatusCompleted:          {},
	StatusCancelled:          {},
}

// CanTransitionTo returns true if the workflow allows moving to target.
// Staying in the same status is always allowed.
func (s Status) CanTransitionTo(target Status) bool {
	if s == target {
		return true
	}
	allowed, ok := transitions[s]
	if !ok {
		return false
	}
	for _, t := range allowed {
		if t == target {
			return true
		}
	}
	return false
}

// CanTransition returns true if role may move a task from s to target.
// Supervisors may correct any status, including terminal ones.
func (s Status) CanTransition(target Status, role Role) bool {
	if !target.IsValid() {
		return false
	}
	if role.IsSupervisor() {
		return true
	}
	return s.CanTransitionTo(target)
}

// IsTerminal returns true if the status is final.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// IsReturned returns true for the returned_* statuses.
func (s Status) IsReturned() bool {
	return s == StatusReturnedToSef || s == StatusReturnedToOperator
}

// Display returns a human-readable representation of the status.
func (s Status) Display() string {
	switch s {
	case StatusNew:
		return "New"
	case StatusWithSef:
		return "With Supervisor"
	case StatusAssignedToRadnik:
		return "Assigned"
	case StatusWithOperator:
		return "With Operator"
	case StatusWithExternal:
		return "With External Company"
	case StatusReturnedToSef:
		return "Returned to Supervisor"
	case StatusReturnedToOperator:
		return "Returned to Operator"
	case StatusCompleted:
		return "Completed"
	case StatusCancelled:
		return "Cancelled"
	case StatusDeleted:
		return "Deleted"
	default:
		return string(s)
	}
}

// IsValid returns true if the status is a known task status.
func (s Status) IsValid() bool {
	switch s {
	case StatusNew, StatusWithSef, StatusAssignedToRadnik, StatusWithOperator, StatusWithExternal,
		StatusReturnedToSef, StatusReturnedToOperator, StatusCompleted, StatusCancelled:
		return true
	default:
		return false
	}
}
