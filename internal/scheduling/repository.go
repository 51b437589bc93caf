package scheduling

import (
	"context"
	"time"
)

// Repository is the persistence collaborator. The engine treats it as
// opaque: identifier assignment and storage failures are its business.
// Implementations must return ErrAppointmentNotFound for missing ids so
// the engine can tolerate records deleted out from under it.
type Repository interface {
	// Create stores a new appointment and returns it with its id assigned.
	Create(ctx context.Context, appt Appointment) (Appointment, error)
	// GetByID loads a single appointment.
	GetByID(ctx context.Context, id string) (Appointment, error)
	// UpdateStatus persists a status change.
	UpdateStatus(ctx context.Context, id string, status Status) (Appointment, error)
	// UpdateWindow persists a new start/end window.
	UpdateWindow(ctx context.Context, id string, startsAt, endsAt time.Time) (Appointment, error)
	// ListBetween returns appointments with startsAt in [from, to),
	// ascending by startsAt.
	ListBetween(ctx context.Context, from, to time.Time) ([]Appointment, error)
	// ListByResponsible returns the responsible staff member's
	// appointments with windows intersecting [from, to).
	ListByResponsible(ctx context.Context, responsibleID string, from, to time.Time) ([]Appointment, error)
}

// ClientDirectory resolves the display name snapshotted onto the
// appointment at schedule time.
type ClientDirectory interface {
	DisplayName(ctx context.Context, clientID string) (string, error)
}
