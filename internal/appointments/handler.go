package appointments

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/clinicware/agenda/internal/catalog"
	"github.com/clinicware/agenda/internal/scheduling"
	"github.com/clinicware/agenda/pkg/logging"
)

// Handler exposes the scheduling engine over HTTP.
type Handler struct {
	engine  *scheduling.Engine
	repo    scheduling.Repository
	catalog catalog.Catalog
	logger  *logging.Logger
}

// NewHandler creates the appointments HTTP handler.
func NewHandler(engine *scheduling.Engine, repo scheduling.Repository, cat catalog.Catalog, logger *logging.Logger) *Handler {
	if engine == nil {
		panic("appointments: engine required")
	}
	if repo == nil {
		panic("appointments: repository required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{engine: engine, repo: repo, catalog: cat, logger: logger}
}

// ScheduleRequest is the request body for creating an appointment.
// ends_at is optional; when absent the engine derives it from the
// service catalog.
type ScheduleRequest struct {
	ClientID      string     `json:"client_id"`
	Service       string     `json:"service"`
	StartsAt      time.Time  `json:"starts_at"`
	EndsAt        *time.Time `json:"ends_at,omitempty"`
	ResponsibleID string     `json:"responsible_id"`
	Notes         string     `json:"notes,omitempty"`
}

// Schedule handles POST /appointments.
func (h *Handler) Schedule(w http.ResponseWriter, r *http.Request) {
	var req ScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("failed to decode schedule request", "error", err)
		http.Error(w, `{"error": "invalid request body"}`, http.StatusBadRequest)
		return
	}

	c := scheduling.NewCandidate(req.ClientID, req.ResponsibleID, req.StartsAt)
	c.Service = req.Service
	c.Notes = req.Notes
	if req.EndsAt != nil {
		c.SetEnd(*req.EndsAt)
	}

	appt, err := h.engine.Schedule(r.Context(), c)
	if err != nil {
		h.writeSchedulingError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(appt)
}

// UpdateStatusRequest is the request body for a status transition.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus handles PATCH /appointments/{id}/status.
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error": "invalid request body"}`, http.StatusBadRequest)
		return
	}

	status, err := scheduling.ParseStatus(req.Status)
	if err != nil {
		h.writeSchedulingError(w, err)
		return
	}

	appt, err := h.engine.UpdateStatus(r.Context(), id, status)
	if err != nil {
		h.writeSchedulingError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(appt)
}

// RescheduleRequest is the request body for moving an appointment.
type RescheduleRequest struct {
	StartsAt time.Time `json:"starts_at"`
}

// Reschedule handles PATCH /appointments/{id}/reschedule.
func (h *Handler) Reschedule(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req RescheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error": "invalid request body"}`, http.StatusBadRequest)
		return
	}
	if req.StartsAt.IsZero() {
		http.Error(w, `{"error": "starts_at is required"}`, http.StatusBadRequest)
		return
	}

	appt, err := h.engine.Reschedule(r.Context(), id, req.StartsAt)
	if err != nil {
		h.writeSchedulingError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(appt)
}

// ListResponse is the response for listing appointments.
type ListResponse struct {
	Appointments []scheduling.Appointment `json:"appointments"`
	Count        int                      `json:"count"`
}

// List handles GET /appointments. Optional from/to query params bound
// the range; the default window is the next 30 days.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	from := now.AddDate(0, 0, -1)
	to := now.AddDate(0, 0, 30)

	if s := r.URL.Query().Get("from"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			http.Error(w, `{"error": "invalid from time, use RFC3339 format"}`, http.StatusBadRequest)
			return
		}
		from = t
	}
	if s := r.URL.Query().Get("to"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			http.Error(w, `{"error": "invalid to time, use RFC3339 format"}`, http.StatusBadRequest)
			return
		}
		to = t
	}

	appts, err := h.repo.ListBetween(r.Context(), from, to)
	if err != nil {
		h.logger.Error("failed to list appointments", "error", err)
		http.Error(w, `{"error": "internal server error"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ListResponse{Appointments: appts, Count: len(appts)})
}

// Week handles GET /appointments/week?anchor=RFC3339. The anchor
// defaults to now; its timezone decides the local calendar days.
func (h *Handler) Week(w http.ResponseWriter, r *http.Request) {
	anchor := time.Now()
	if s := r.URL.Query().Get("anchor"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			http.Error(w, `{"error": "invalid anchor time, use RFC3339 format"}`, http.StatusBadRequest)
			return
		}
		anchor = t
	}

	// Fetch a padded range so local-day bucketing near midnight does not
	// lose appointments stored just outside the UTC week.
	start := scheduling.WeekStart(anchor)
	appts, err := h.repo.ListBetween(r.Context(), start.AddDate(0, 0, -1), start.AddDate(0, 0, 8))
	if err != nil {
		h.logger.Error("failed to load week", "error", err)
		http.Error(w, `{"error": "internal server error"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(scheduling.BucketWeek(appts, anchor))
}

// DailyStats handles GET /appointments/stats/daily?day=2006-01-02. The
// day defaults to today.
func (h *Handler) DailyStats(w http.ResponseWriter, r *http.Request) {
	day := time.Now()
	if s := r.URL.Query().Get("day"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			http.Error(w, `{"error": "invalid day, use YYYY-MM-DD"}`, http.StatusBadRequest)
			return
		}
		day = t
	}

	appts, err := h.repo.ListBetween(r.Context(), day.AddDate(0, 0, -1), day.AddDate(0, 0, 2))
	if err != nil {
		h.logger.Error("failed to load daily stats", "error", err)
		http.Error(w, `{"error": "internal server error"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(scheduling.ComputeDailyStats(appts, day))
}

// ListServices handles GET /services.
func (h *Handler) ListServices(w http.ResponseWriter, r *http.Request) {
	if h.catalog == nil {
		http.Error(w, `{"error": "catalog unavailable"}`, http.StatusServiceUnavailable)
		return
	}
	entries, err := h.catalog.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list services", "error", err)
		http.Error(w, `{"error": "internal server error"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(entries)
}

// writeSchedulingError maps engine error kinds onto HTTP statuses.
func (h *Handler) writeSchedulingError(w http.ResponseWriter, err error) {
	var status int
	switch {
	case errors.Is(err, scheduling.ErrClientNotFound),
		errors.Is(err, scheduling.ErrAppointmentNotFound):
		status = http.StatusNotFound
	case errors.Is(err, scheduling.ErrInvalidWindow),
		errors.Is(err, scheduling.ErrServiceRequired),
		errors.Is(err, scheduling.ErrUnknownStatus):
		status = http.StatusBadRequest
	case errors.Is(err, scheduling.ErrInvalidTransition),
		errors.Is(err, scheduling.ErrOverlapConflict):
		status = http.StatusConflict
	default:
		h.logger.Error("scheduling operation failed", "error", err)
		http.Error(w, `{"error": "internal server error"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
