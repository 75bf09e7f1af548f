package model

import "slices"

// Status is the lifecycle state shared by room bookings, hall events and table reservations.
type Status string

const (
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
	StatusNoShow     Status = "no_show"
)

// AllStatuses lists every status in lifecycle order.
var AllStatuses = StatusSet{
	StatusPending,
	StatusConfirmed,
	StatusInProgress,
	StatusCompleted,
	StatusCancelled,
	StatusNoShow,
}

var transitions = map[Status]StatusSet{
	StatusPending:    {StatusConfirmed, StatusCancelled},
	StatusConfirmed:  {StatusInProgress, StatusCancelled, StatusNoShow},
	StatusInProgress: {StatusCompleted},
}

func (s Status) Valid() bool {
	return AllStatuses.Contains(s)
}

// IsBlocking reports whether a reservation in this status occupies its time range.
// Pending reservations block. The storage exclusion constraint uses the same predicate.
func (s Status) IsBlocking() bool {
	return s.Valid() && s != StatusCancelled && s != StatusNoShow
}

// IsTerminal reports whether the status accepts no further change.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled || s == StatusNoShow
}

func (s Status) CanTransitionTo(next Status) bool {
	return transitions[s].Contains(next)
}

func (s Status) String() string {
	return string(s)
}

// StatusSet is an ordered set of statuses.
type StatusSet []Status

// DefaultBlockingStatuses returns every status except cancelled and no_show.
func DefaultBlockingStatuses() StatusSet {
	set := make(StatusSet, 0, len(AllStatuses))

	for _, status := range AllStatuses {
		if status.IsBlocking() {
			set = append(set, status)
		}
	}

	return set
}

func (s StatusSet) Contains(status Status) bool {
	return slices.Contains(s, status)
}

func (s StatusSet) Strings() []string {
	values := make([]string, len(s))
	for i, status := range s {
		values[i] = string(status)
	}

	return values
}
