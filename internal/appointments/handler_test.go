package appointments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/clinicware/agenda/internal/catalog"
	"github.com/clinicware/agenda/internal/clients"
	"github.com/clinicware/agenda/internal/scheduling"
	"github.com/clinicware/agenda/pkg/logging"
)

func newTestServer(t *testing.T, opts ...scheduling.Option) (http.Handler, *InMemoryRepository) {
	t.Helper()
	repo := NewInMemoryRepository()
	dir := clients.NewInMemoryDirectory()
	dir.Put("c1", "María López")

	cat := catalog.Default()
	engine := scheduling.NewEngine(repo, dir, cat, opts...)
	h := NewHandler(engine, repo, cat, logging.Default())

	r := chi.NewRouter()
	r.Post("/appointments", h.Schedule)
	r.Get("/appointments", h.List)
	r.Get("/appointments/week", h.Week)
	r.Get("/appointments/stats/daily", h.DailyStats)
	r.Patch("/appointments/{id}/status", h.UpdateStatus)
	r.Patch("/appointments/{id}/reschedule", h.Reschedule)
	r.Get("/services", h.ListServices)
	return r, repo
}

func scheduleOne(t *testing.T, srv http.Handler, body ScheduleRequest) scheduling.Appointment {
	t.Helper()
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, "/appointments", bytes.NewReader(payload))
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("schedule returned %d: %s", w.Code, w.Body.String())
	}
	var appt scheduling.Appointment
	if err := json.NewDecoder(w.Body).Decode(&appt); err != nil {
		t.Fatalf("decode appointment: %v", err)
	}
	return appt
}

func TestScheduleEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	start := time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)
	appt := scheduleOne(t, srv, ScheduleRequest{
		ClientID:      "c1",
		Service:       "Consulta Inicial",
		StartsAt:      start,
		ResponsibleID: "u1",
	})

	if !appt.EndsAt.Equal(start.Add(30 * time.Minute)) {
		t.Errorf("ends_at = %s, want %s", appt.EndsAt, start.Add(30*time.Minute))
	}
	if appt.Status != scheduling.StatusScheduled {
		t.Errorf("status = %s, want scheduled", appt.Status)
	}
	if appt.ClientName != "María López" {
		t.Errorf("client_name = %q", appt.ClientName)
	}
}

func TestScheduleEndpointUnknownClient(t *testing.T) {
	srv, _ := newTestServer(t)

	payload, _ := json.Marshal(ScheduleRequest{
		ClientID:      "ghost",
		Service:       "Limpieza Facial",
		StartsAt:      time.Now(),
		ResponsibleID: "u1",
	})
	req := httptest.NewRequest(http.MethodPost, "/appointments", bytes.NewReader(payload))
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestScheduleEndpointInvalidWindow(t *testing.T) {
	srv, _ := newTestServer(t)

	start := time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)
	end := start.Add(-time.Hour)
	payload, _ := json.Marshal(ScheduleRequest{
		ClientID:      "c1",
		Service:       "Limpieza Facial",
		StartsAt:      start,
		EndsAt:        &end,
		ResponsibleID: "u1",
	})
	req := httptest.NewRequest(http.MethodPost, "/appointments", bytes.NewReader(payload))
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestUpdateStatusEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)
	appt := scheduleOne(t, srv, ScheduleRequest{
		ClientID:      "c1",
		Service:       "Limpieza Facial",
		StartsAt:      time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC),
		ResponsibleID: "u1",
	})

	body := bytes.NewReader([]byte(`{"status": "confirmed"}`))
	req := httptest.NewRequest(http.MethodPatch, fmt.Sprintf("/appointments/%s/status", appt.ID), body)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var updated scheduling.Appointment
	if err := json.NewDecoder(w.Body).Decode(&updated); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if updated.Status != scheduling.StatusConfirmed {
		t.Errorf("status = %s, want confirmed", updated.Status)
	}
}

func TestUpdateStatusEndpointForbiddenTransition(t *testing.T) {
	srv, _ := newTestServer(t)
	appt := scheduleOne(t, srv, ScheduleRequest{
		ClientID:      "c1",
		Service:       "Limpieza Facial",
		StartsAt:      time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC),
		ResponsibleID: "u1",
	})

	// scheduled cannot jump straight to completed
	body := bytes.NewReader([]byte(`{"status": "completed"}`))
	req := httptest.NewRequest(http.MethodPatch, fmt.Sprintf("/appointments/%s/status", appt.ID), body)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", w.Code)
	}
}

func TestUpdateStatusEndpointUnknownStatus(t *testing.T) {
	srv, _ := newTestServer(t)
	appt := scheduleOne(t, srv, ScheduleRequest{
		ClientID:      "c1",
		Service:       "Limpieza Facial",
		StartsAt:      time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC),
		ResponsibleID: "u1",
	})

	body := bytes.NewReader([]byte(`{"status": "archived"}`))
	req := httptest.NewRequest(http.MethodPatch, fmt.Sprintf("/appointments/%s/status", appt.ID), body)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestRescheduleEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)
	start := time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)
	appt := scheduleOne(t, srv, ScheduleRequest{
		ClientID:      "c1",
		Service:       "Limpieza Facial",
		StartsAt:      start,
		ResponsibleID: "u1",
	})

	newStart := time.Date(2025, 1, 10, 14, 0, 0, 0, time.UTC)
	payload, _ := json.Marshal(RescheduleRequest{StartsAt: newStart})
	req := httptest.NewRequest(http.MethodPatch, fmt.Sprintf("/appointments/%s/reschedule", appt.ID), bytes.NewReader(payload))
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var moved scheduling.Appointment
	if err := json.NewDecoder(w.Body).Decode(&moved); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !moved.EndsAt.Equal(newStart.Add(time.Hour)) {
		t.Errorf("duration not preserved: ends_at = %s", moved.EndsAt)
	}
}

func TestWeekEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)
	monday := time.Date(2025, 1, 13, 10, 0, 0, 0, time.UTC)
	scheduleOne(t, srv, ScheduleRequest{
		ClientID: "c1", Service: "Limpieza Facial", StartsAt: monday, ResponsibleID: "u1",
	})
	scheduleOne(t, srv, ScheduleRequest{
		ClientID: "c1", Service: "Seguimiento", StartsAt: monday.AddDate(0, 0, 7), ResponsibleID: "u1",
	})

	req := httptest.NewRequest(http.MethodGet, "/appointments/week?anchor=2025-01-15T00:00:00Z", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var wb scheduling.WeekBucket
	if err := json.NewDecoder(w.Body).Decode(&wb); err != nil {
		t.Fatalf("decode week: %v", err)
	}
	if len(wb.Days[0].Appointments) != 1 {
		t.Errorf("expected one appointment on Monday, got %d", len(wb.Days[0].Appointments))
	}
	total := 0
	for _, d := range wb.Days {
		total += len(d.Appointments)
	}
	if total != 1 {
		t.Errorf("next week's appointment leaked into the bucket, total = %d", total)
	}
}

func TestDailyStatsEndpoint(t *testing.T) {
	srv, repo := newTestServer(t)
	day := time.Date(2025, 1, 13, 0, 0, 0, 0, time.UTC)
	for i, status := range []string{"confirmed", "confirmed", "scheduled"} {
		appt := scheduleOne(t, srv, ScheduleRequest{
			ClientID: "c1", Service: "Limpieza Facial",
			StartsAt:      day.Add(time.Duration(9+i) * time.Hour),
			ResponsibleID: "u1",
		})
		if status == "confirmed" {
			if _, err := repo.UpdateStatus(context.Background(), appt.ID, scheduling.StatusConfirmed); err != nil {
				t.Fatalf("seed status: %v", err)
			}
		}
	}

	r := httptest.NewRequest(http.MethodGet, "/appointments/stats/daily?day=2025-01-13", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var stats scheduling.DailyStats
	if err := json.NewDecoder(w.Body).Decode(&stats); err != nil {
		t.Fatalf("decode stats: %v", err)
	}
	if stats.Total != 3 || stats.Confirmed != 2 || stats.Completed != 0 {
		t.Errorf("stats = %+v, want total 3 confirmed 2 completed 0", stats)
	}
}

func TestListServicesEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	r := httptest.NewRequest(http.MethodGet, "/services", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var entries []catalog.Entry
	if err := json.NewDecoder(w.Body).Decode(&entries); err != nil {
		t.Fatalf("decode services: %v", err)
	}
	if len(entries) != 10 {
		t.Errorf("expected 10 services, got %d", len(entries))
	}
}
