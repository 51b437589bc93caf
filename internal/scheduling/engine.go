package scheduling

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/clinicware/agenda/internal/catalog"
	"github.com/clinicware/agenda/internal/observability/metrics"
	"github.com/clinicware/agenda/pkg/logging"
)

var schedulingTracer = otel.Tracer("agenda.internal.scheduling")

// Engine applies the clinic's scheduling rules. It is a synchronous
// computation layer: one delegated call to the persistence collaborator
// per mutating operation, no retries, no owned state.
type Engine struct {
	repo    Repository
	clients ClientDirectory
	catalog catalog.Catalog
	logger  *logging.Logger
	metrics *metrics.SchedulingMetrics

	now            func() time.Time
	fallback       time.Duration
	preventOverlap bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(l *logging.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithMetrics attaches scheduling metrics.
func WithMetrics(m *metrics.SchedulingMetrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithClock overrides the time source. Tests use this.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithFallbackDuration changes the duration used when neither the
// caller nor the catalog provides one. Defaults to one hour.
func WithFallbackDuration(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.fallback = d
		}
	}
}

// WithOverlapCheck enables double-booking rejection for a responsible
// staff member. Off by default: the clinic historically allowed
// overlapping bookings, so enforcement is an explicit product choice.
func WithOverlapCheck() Option {
	return func(e *Engine) { e.preventOverlap = true }
}

// NewEngine constructs the scheduling engine.
func NewEngine(repo Repository, clients ClientDirectory, cat catalog.Catalog, opts ...Option) *Engine {
	if repo == nil {
		panic("scheduling: repository required")
	}
	if clients == nil {
		panic("scheduling: client directory required")
	}
	if cat == nil {
		panic("scheduling: catalog required")
	}
	e := &Engine{
		repo:     repo,
		clients:  clients,
		catalog:  cat,
		logger:   logging.Default(),
		now:      time.Now,
		fallback: time.Hour,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ResolveDuration determines an appointment's duration. An explicit end
// time wins and must be strictly after start; otherwise the catalog
// default for the service applies, falling back to the engine's default
// for services the catalog does not know.
func (e *Engine) ResolveDuration(ctx context.Context, service string, start time.Time, explicitEnd *time.Time) (time.Duration, error) {
	if explicitEnd != nil {
		d := explicitEnd.Sub(start)
		if d <= 0 {
			return 0, ErrInvalidWindow
		}
		return d, nil
	}
	if mins, ok := e.catalog.DefaultDuration(ctx, service); ok {
		return time.Duration(mins) * time.Minute, nil
	}
	return e.fallback, nil
}

// ApplyService sets the candidate's service and, unless the caller has
// pinned the end time, recomputes the end from the catalog default.
func (e *Engine) ApplyService(ctx context.Context, c *Candidate, service string) {
	c.Service = service
	if c.endExplicit || c.StartsAt.IsZero() {
		return
	}
	d, err := e.ResolveDuration(ctx, service, c.StartsAt, nil)
	if err != nil {
		return
	}
	c.EndsAt = c.StartsAt.Add(d)
}

// ApplyStart moves the candidate's start time and shifts the end to
// preserve the current duration. A missing or degenerate duration
// becomes the fallback.
func (e *Engine) ApplyStart(c *Candidate, newStart time.Time) {
	d := c.EndsAt.Sub(c.StartsAt)
	if c.EndsAt.IsZero() || d <= 0 {
		d = e.fallback
	}
	c.StartsAt = newStart
	c.EndsAt = newStart.Add(d)
}

// RescheduleStart returns a copy of the appointment moved to newStart
// with its duration preserved. Degenerate durations become the
// fallback. Pure: the caller validates and persists.
func (e *Engine) RescheduleStart(appt Appointment, newStart time.Time) Appointment {
	d := appt.Duration()
	if d <= 0 {
		d = e.fallback
	}
	appt.StartsAt = newStart
	appt.EndsAt = newStart.Add(d)
	return appt
}

// Schedule validates a candidate and stores it as a scheduled
// appointment. The client must exist; the window must be strictly
// positive; when overlap checking is enabled the responsible staff
// member must be free.
func (e *Engine) Schedule(ctx context.Context, c Candidate) (Appointment, error) {
	ctx, span := schedulingTracer.Start(ctx, "scheduling.schedule")
	defer span.End()
	span.SetAttributes(
		attribute.String("agenda.client_id", c.ClientID),
		attribute.String("agenda.service", c.Service),
	)

	if strings.TrimSpace(c.Service) == "" {
		e.metrics.ObserveRejected("service_required")
		return Appointment{}, ErrServiceRequired
	}

	name, err := e.clients.DisplayName(ctx, c.ClientID)
	if err != nil {
		if errors.Is(err, ErrClientNotFound) {
			e.metrics.ObserveRejected("client_not_found")
			return Appointment{}, fmt.Errorf("%w: %s", ErrClientNotFound, c.ClientID)
		}
		return Appointment{}, fmt.Errorf("scheduling: resolve client: %w", err)
	}

	if c.EndsAt.IsZero() {
		d, derr := e.ResolveDuration(ctx, c.Service, c.StartsAt, nil)
		if derr != nil {
			return Appointment{}, derr
		}
		c.EndsAt = c.StartsAt.Add(d)
	}
	if !c.EndsAt.After(c.StartsAt) {
		e.metrics.ObserveRejected("invalid_window")
		return Appointment{}, ErrInvalidWindow
	}

	if e.preventOverlap {
		if err := e.checkOverlap(ctx, c.ResponsibleID, c.StartsAt, c.EndsAt, ""); err != nil {
			return Appointment{}, err
		}
	}

	appt := Appointment{
		ClientID:      c.ClientID,
		ClientName:    name,
		Service:       c.Service,
		StartsAt:      c.StartsAt,
		EndsAt:        c.EndsAt,
		Status:        StatusScheduled,
		ResponsibleID: c.ResponsibleID,
		Notes:         c.Notes,
		RemindersSent: false,
		CreatedAt:     e.now().UTC(),
	}

	stored, err := e.repo.Create(ctx, appt)
	if err != nil {
		span.RecordError(err)
		return Appointment{}, fmt.Errorf("scheduling: create appointment: %w", err)
	}

	e.metrics.ObserveScheduled(stored.Service)
	e.logger.Info("appointment scheduled",
		"id", stored.ID,
		"client_id", stored.ClientID,
		"service", stored.Service,
		"starts_at", stored.StartsAt,
	)
	return stored, nil
}

// UpdateStatus applies the status state machine and persists the
// transition.
func (e *Engine) UpdateStatus(ctx context.Context, id string, next Status) (Appointment, error) {
	ctx, span := schedulingTracer.Start(ctx, "scheduling.update_status")
	defer span.End()
	span.SetAttributes(attribute.String("agenda.appointment_id", id))

	appt, err := e.repo.GetByID(ctx, id)
	if err != nil {
		return Appointment{}, err
	}
	if !appt.Status.CanTransitionTo(next) {
		e.metrics.ObserveRejected("invalid_transition")
		return Appointment{}, fmt.Errorf("%w: %s to %s", ErrInvalidTransition, appt.Status, next)
	}

	updated, err := e.repo.UpdateStatus(ctx, id, next)
	if err != nil {
		span.RecordError(err)
		return Appointment{}, fmt.Errorf("scheduling: update status: %w", err)
	}

	e.metrics.ObserveTransition(string(appt.Status), string(next))
	e.logger.Info("appointment status changed", "id", id, "from", appt.Status, "to", next)
	return updated, nil
}

// Reschedule moves an appointment to a new start time, preserving its
// duration, re-validating, and persisting the new window.
func (e *Engine) Reschedule(ctx context.Context, id string, newStart time.Time) (Appointment, error) {
	ctx, span := schedulingTracer.Start(ctx, "scheduling.reschedule")
	defer span.End()
	span.SetAttributes(attribute.String("agenda.appointment_id", id))

	appt, err := e.repo.GetByID(ctx, id)
	if err != nil {
		return Appointment{}, err
	}

	moved := e.RescheduleStart(appt, newStart)
	if !moved.EndsAt.After(moved.StartsAt) {
		e.metrics.ObserveRejected("invalid_window")
		return Appointment{}, ErrInvalidWindow
	}
	if e.preventOverlap {
		if err := e.checkOverlap(ctx, moved.ResponsibleID, moved.StartsAt, moved.EndsAt, moved.ID); err != nil {
			return Appointment{}, err
		}
	}

	updated, err := e.repo.UpdateWindow(ctx, id, moved.StartsAt, moved.EndsAt)
	if err != nil {
		span.RecordError(err)
		return Appointment{}, fmt.Errorf("scheduling: update window: %w", err)
	}

	e.logger.Info("appointment rescheduled", "id", id, "starts_at", moved.StartsAt, "ends_at", moved.EndsAt)
	return updated, nil
}

// checkOverlap rejects [start, end) conflicts against the responsible
// staff member's scheduled and confirmed appointments. excludeID skips
// the appointment being moved.
func (e *Engine) checkOverlap(ctx context.Context, responsibleID string, start, end time.Time, excludeID string) error {
	existing, err := e.repo.ListByResponsible(ctx, responsibleID, start, end)
	if err != nil {
		return fmt.Errorf("scheduling: list responsible appointments: %w", err)
	}
	for _, a := range existing {
		if a.ID == excludeID {
			continue
		}
		if a.Active() && a.Overlaps(start, end) {
			e.metrics.ObserveRejected("overlap_conflict")
			return fmt.Errorf("%w: %s", ErrOverlapConflict, a.ID)
		}
	}
	return nil
}
