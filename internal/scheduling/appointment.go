// Package scheduling owns the appointment scheduling rules: window
// resolution against the service catalog, duration-preserving
// reschedules, the status state machine, and calendar views. It holds
// no state of its own; persistence and client lookup are injected
// collaborators.
package scheduling

import (
	"fmt"
	"time"
)

// Status is an appointment lifecycle state.
type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
	StatusNoShow    Status = "no_show"
)

// transitions lists the allowed next states. Completed, cancelled and
// no_show are terminal.
var transitions = map[Status][]Status{
	StatusScheduled: {StatusConfirmed, StatusCancelled, StatusNoShow},
	StatusConfirmed: {StatusCompleted, StatusCancelled, StatusNoShow},
	StatusCompleted: {},
	StatusCancelled: {},
	StatusNoShow:    {},
}

// ParseStatus validates a wire-level status string.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if _, ok := transitions[st]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
	}
	return st, nil
}

// CanTransitionTo reports whether the state machine allows moving to
// next from s.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transitions are allowed.
func (s Status) Terminal() bool {
	return len(transitions[s]) == 0
}

// Appointment is a stored appointment record. Candidates that have not
// been accepted yet are represented by Candidate instead.
type Appointment struct {
	ID            string    `json:"id"`
	ClientID      string    `json:"client_id"`
	ClientName    string    `json:"client_name"`
	Service       string    `json:"service"`
	StartsAt      time.Time `json:"starts_at"`
	EndsAt        time.Time `json:"ends_at"`
	Status        Status    `json:"status"`
	ResponsibleID string    `json:"responsible_id"`
	Notes         string    `json:"notes,omitempty"`
	RemindersSent bool      `json:"reminders_sent"`
	CreatedAt     time.Time `json:"created_at"`
}

// Duration returns the appointment's window length.
func (a Appointment) Duration() time.Duration {
	return a.EndsAt.Sub(a.StartsAt)
}

// Overlaps reports whether the appointment's [StartsAt, EndsAt) window
// intersects [start, end).
func (a Appointment) Overlaps(start, end time.Time) bool {
	return a.StartsAt.Before(end) && start.Before(a.EndsAt)
}

// Active reports whether the appointment still claims its time slot.
func (a Appointment) Active() bool {
	return a.Status == StatusScheduled || a.Status == StatusConfirmed
}
