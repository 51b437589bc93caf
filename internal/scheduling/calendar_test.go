package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeekStart(t *testing.T) {
	tests := []struct {
		name   string
		anchor time.Time
		want   time.Time
	}{
		{
			"wednesday anchors to monday",
			time.Date(2025, 1, 15, 14, 30, 0, 0, time.UTC),
			time.Date(2025, 1, 13, 0, 0, 0, 0, time.UTC),
		},
		{
			"monday anchors to itself",
			time.Date(2025, 1, 13, 23, 59, 0, 0, time.UTC),
			time.Date(2025, 1, 13, 0, 0, 0, 0, time.UTC),
		},
		{
			"sunday anchors to previous monday",
			time.Date(2025, 1, 19, 8, 0, 0, 0, time.UTC),
			time.Date(2025, 1, 13, 0, 0, 0, 0, time.UTC),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, WeekStart(tt.anchor))
		})
	}
}

func TestBucketWeekFiltersToAnchorWeek(t *testing.T) {
	inside := Appointment{ID: "in", StartsAt: time.Date(2025, 1, 13, 10, 0, 0, 0, time.UTC)}
	nextWeek := Appointment{ID: "out", StartsAt: time.Date(2025, 1, 20, 10, 0, 0, 0, time.UTC)}
	anchor := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)

	wb := BucketWeek([]Appointment{inside, nextWeek}, anchor)

	require.Len(t, wb.Days[0].Appointments, 1)
	assert.Equal(t, "in", wb.Days[0].Appointments[0].ID)
	for i := 1; i < 7; i++ {
		assert.Empty(t, wb.Days[i].Appointments, "day %d should be empty", i)
	}
}

func TestBucketWeekEachAppointmentInExactlyOneBucket(t *testing.T) {
	anchor := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	var appts []Appointment
	for day := 13; day <= 19; day++ {
		appts = append(appts,
			Appointment{ID: time.Date(2025, 1, day, 9, 0, 0, 0, time.UTC).String(), StartsAt: time.Date(2025, 1, day, 9, 0, 0, 0, time.UTC)},
		)
	}

	wb := BucketWeek(appts, anchor)

	total := 0
	for i := range wb.Days {
		total += len(wb.Days[i].Appointments)
	}
	assert.Equal(t, len(appts), total)
}

func TestBucketWeekSortsWithinDay(t *testing.T) {
	day := time.Date(2025, 1, 13, 0, 0, 0, 0, time.UTC)
	appts := []Appointment{
		{ID: "late", StartsAt: day.Add(16 * time.Hour)},
		{ID: "early", StartsAt: day.Add(9 * time.Hour)},
		{ID: "noon", StartsAt: day.Add(12 * time.Hour)},
	}

	wb := BucketWeek(appts, day)
	monday := wb.Days[0].Appointments
	require.Len(t, monday, 3)
	assert.Equal(t, "early", monday[0].ID)
	assert.Equal(t, "noon", monday[1].ID)
	assert.Equal(t, "late", monday[2].ID)
}

func TestBucketWeekUsesLocalCalendarDays(t *testing.T) {
	// Clinic at UTC-6: an appointment stored as 05:30 UTC on Tuesday is
	// still Monday 23:30 on the clinic's wall clock.
	clinic := time.FixedZone("UTC-6", -6*60*60)
	appt := Appointment{ID: "late-night", StartsAt: time.Date(2025, 1, 14, 5, 30, 0, 0, time.UTC)}
	anchor := time.Date(2025, 1, 15, 12, 0, 0, 0, clinic)

	wb := BucketWeek([]Appointment{appt}, anchor)
	require.Len(t, wb.Days[0].Appointments, 1, "appointment belongs to local Monday")
	assert.Empty(t, wb.Days[1].Appointments)
}

func TestComputeDailyStats(t *testing.T) {
	day := time.Date(2025, 1, 13, 0, 0, 0, 0, time.UTC)
	appts := []Appointment{
		{StartsAt: day.Add(9 * time.Hour), Status: StatusConfirmed},
		{StartsAt: day.Add(11 * time.Hour), Status: StatusConfirmed},
		{StartsAt: day.Add(15 * time.Hour), Status: StatusScheduled},
		{StartsAt: day.AddDate(0, 0, 1), Status: StatusCompleted}, // tomorrow
	}

	stats := ComputeDailyStats(appts, day)
	assert.Equal(t, DailyStats{Total: 3, Confirmed: 2, Completed: 0}, stats)
}

func TestComputeDailyStatsCountsCompleted(t *testing.T) {
	day := time.Date(2025, 1, 13, 0, 0, 0, 0, time.UTC)
	appts := []Appointment{
		{StartsAt: day.Add(9 * time.Hour), Status: StatusCompleted},
		{StartsAt: day.Add(10 * time.Hour), Status: StatusCancelled},
	}

	stats := ComputeDailyStats(appts, day)
	assert.Equal(t, DailyStats{Total: 2, Confirmed: 0, Completed: 1}, stats)
}
