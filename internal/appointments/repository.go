// Package appointments provides the persistence implementations and the
// HTTP surface for the scheduling engine.
package appointments

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/clinicware/agenda/internal/scheduling"
)

// InMemoryRepository implements scheduling.Repository with in-memory
// storage, for tests and for running without a database.
type InMemoryRepository struct {
	mu    sync.RWMutex
	appts map[string]scheduling.Appointment
}

// NewInMemoryRepository creates an empty repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{appts: make(map[string]scheduling.Appointment)}
}

// Create assigns an id and stores the appointment.
func (r *InMemoryRepository) Create(_ context.Context, appt scheduling.Appointment) (scheduling.Appointment, error) {
	appt.ID = uuid.New().String()
	r.mu.Lock()
	r.appts[appt.ID] = appt
	r.mu.Unlock()
	return appt, nil
}

// GetByID loads one appointment.
func (r *InMemoryRepository) GetByID(_ context.Context, id string) (scheduling.Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	appt, ok := r.appts[id]
	if !ok {
		return scheduling.Appointment{}, scheduling.ErrAppointmentNotFound
	}
	return appt, nil
}

// UpdateStatus persists a status change.
func (r *InMemoryRepository) UpdateStatus(_ context.Context, id string, status scheduling.Status) (scheduling.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	appt, ok := r.appts[id]
	if !ok {
		return scheduling.Appointment{}, scheduling.ErrAppointmentNotFound
	}
	appt.Status = status
	r.appts[id] = appt
	return appt, nil
}

// UpdateWindow persists a new start/end window.
func (r *InMemoryRepository) UpdateWindow(_ context.Context, id string, startsAt, endsAt time.Time) (scheduling.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	appt, ok := r.appts[id]
	if !ok {
		return scheduling.Appointment{}, scheduling.ErrAppointmentNotFound
	}
	appt.StartsAt = startsAt
	appt.EndsAt = endsAt
	r.appts[id] = appt
	return appt, nil
}

// ListBetween returns appointments with startsAt in [from, to).
func (r *InMemoryRepository) ListBetween(_ context.Context, from, to time.Time) ([]scheduling.Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []scheduling.Appointment
	for _, a := range r.appts {
		if !a.StartsAt.Before(from) && a.StartsAt.Before(to) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartsAt.Before(out[j].StartsAt) })
	return out, nil
}

// ListByResponsible returns the staff member's appointments whose
// windows intersect [from, to).
func (r *InMemoryRepository) ListByResponsible(_ context.Context, responsibleID string, from, to time.Time) ([]scheduling.Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []scheduling.Appointment
	for _, a := range r.appts {
		if a.ResponsibleID == responsibleID && a.Overlaps(from, to) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartsAt.Before(out[j].StartsAt) })
	return out, nil
}
