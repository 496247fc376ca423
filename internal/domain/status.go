package domain

// JobStatus represents where a job is in its lifecycle
type JobStatus string

const (
	StatusPending       JobStatus = "pending"
	StatusMeasuring     JobStatus = "measuring"
	StatusQuoting       JobStatus = "quoting"
	StatusApproved      JobStatus = "approved"
	StatusInProgress    JobStatus = "in-progress"
	StatusPendingFollow JobStatus = "pending-follow"
	StatusCompleted     JobStatus = "completed"
	StatusCancelled     JobStatus = "cancelled"
)

// statusTransitions defines the allowed next statuses for each status.
// Completed and cancelled are terminal.
var statusTransitions = map[JobStatus][]JobStatus{
	StatusPending:       {StatusMeasuring, StatusCancelled},
	StatusMeasuring:     {StatusQuoting, StatusCancelled},
	StatusQuoting:       {StatusApproved, StatusPendingFollow, StatusCancelled},
	StatusPendingFollow: {StatusQuoting, StatusApproved, StatusCancelled},
	StatusApproved:      {StatusInProgress, StatusCancelled},
	StatusInProgress:    {StatusCompleted, StatusPendingFollow, StatusCancelled},
	StatusCompleted:     {},
	StatusCancelled:     {},
}

// IsValid checks if the status is a known value
func (s JobStatus) IsValid() bool {
	_, ok := statusTransitions[s]
	return ok
}

// IsTerminal reports whether no further transitions are allowed
func (s JobStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// AllowedNext returns the statuses reachable from this one
func (s JobStatus) AllowedNext() []JobStatus {
	next, ok := statusTransitions[s]
	if !ok {
		return nil
	}
	out := make([]JobStatus, len(next))
	copy(out, next)
	return out
}

// CanTransitionTo checks if a transition to the target status is allowed
func (s JobStatus) CanTransitionTo(target JobStatus) bool {
	for _, next := range statusTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// AllJobStatuses lists every status in lifecycle order
func AllJobStatuses() []JobStatus {
	return []JobStatus{
		StatusPending,
		StatusMeasuring,
		StatusQuoting,
		StatusApproved,
		StatusInProgress,
		StatusPendingFollow,
		StatusCompleted,
		StatusCancelled,
	}
}
