package scheduling

import "errors"

var (
	// ErrInvalidWindow indicates the end time is not strictly after the start.
	ErrInvalidWindow = errors.New("end time must be after start time")

	// ErrInvalidTransition indicates a status change the state machine forbids.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrOverlapConflict indicates a conflicting appointment for the same
	// responsible staff member. Only raised when overlap checking is enabled.
	ErrOverlapConflict = errors.New("conflicting appointment for responsible")

	// ErrClientNotFound indicates the candidate references an unknown client.
	ErrClientNotFound = errors.New("client not found")

	// ErrAppointmentNotFound indicates the appointment no longer exists.
	ErrAppointmentNotFound = errors.New("appointment not found")

	// ErrServiceRequired indicates an empty service on a candidate.
	ErrServiceRequired = errors.New("service is required")

	// ErrUnknownStatus indicates a status string outside the lifecycle set.
	ErrUnknownStatus = errors.New("unknown status")
)
