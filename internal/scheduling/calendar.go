package scheduling

import (
	"sort"
	"time"
)

// DayBucket holds one calendar day's appointments, ascending by start.
type DayBucket struct {
	Day          time.Time     `json:"day"`
	Appointments []Appointment `json:"appointments"`
}

// WeekBucket is a Monday-start, 7-day grouping of appointments for
// calendar display. Days are indexed Monday through Sunday.
type WeekBucket struct {
	Start time.Time    `json:"start"`
	Days  [7]DayBucket `json:"days"`
}

// WeekStart returns midnight on the Monday of the anchor's ISO week, in
// the anchor's location.
func WeekStart(anchor time.Time) time.Time {
	// time.Weekday puts Sunday at 0; shift so Monday is 0.
	offset := (int(anchor.Weekday()) + 6) % 7
	y, m, d := anchor.Date()
	return time.Date(y, m, d-offset, 0, 0, 0, 0, anchor.Location())
}

// SameLocalDay reports whether both instants fall on the same calendar
// day when viewed in loc. Bucketing compares local date components, not
// UTC day boundaries, so appointments near midnight land on the day the
// clinic sees.
func SameLocalDay(a, b time.Time, loc *time.Location) bool {
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	return ay == by && am == bm && ad == bd
}

// BucketWeek distributes appointments over the anchor's week. Only
// appointments whose local calendar date falls within the week appear,
// each in exactly one day bucket, sorted ascending by start time.
func BucketWeek(appointments []Appointment, anchor time.Time) WeekBucket {
	loc := anchor.Location()
	start := WeekStart(anchor)

	wb := WeekBucket{Start: start}
	for i := range wb.Days {
		wb.Days[i].Day = start.AddDate(0, 0, i)
	}

	for _, appt := range appointments {
		for i := range wb.Days {
			if SameLocalDay(appt.StartsAt, wb.Days[i].Day, loc) {
				wb.Days[i].Appointments = append(wb.Days[i].Appointments, appt)
				break
			}
		}
	}

	for i := range wb.Days {
		day := wb.Days[i].Appointments
		sort.SliceStable(day, func(a, b int) bool {
			return day[a].StartsAt.Before(day[b].StartsAt)
		})
	}
	return wb
}

// DailyStats summarizes one day's appointments.
type DailyStats struct {
	Total     int `json:"total"`
	Confirmed int `json:"confirmed"`
	Completed int `json:"completed"`
}

// ComputeDailyStats counts appointments whose start falls on the given
// local day.
func ComputeDailyStats(appointments []Appointment, day time.Time) DailyStats {
	loc := day.Location()
	var stats DailyStats
	for _, appt := range appointments {
		if !SameLocalDay(appt.StartsAt, day, loc) {
			continue
		}
		stats.Total++
		switch appt.Status {
		case StatusConfirmed:
			stats.Confirmed++
		case StatusCompleted:
			stats.Completed++
		}
	}
	return stats
}
