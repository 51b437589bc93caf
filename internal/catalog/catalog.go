// Package catalog provides the clinic's service catalog: the mapping
// from a service name to its default appointment duration and price.
package catalog

import "context"

// Entry describes one bookable service.
type Entry struct {
	Name         string `json:"name"`
	DurationMins int    `json:"duration_mins"`
	PriceCents   int64  `json:"price_cents,omitempty"`
	Description  string `json:"description,omitempty"`
}

// Catalog resolves default durations for services. Implementations are
// read-only from the scheduler's point of view.
type Catalog interface {
	// DefaultDuration returns the configured duration in minutes for the
	// service, or ok=false when the service is unknown.
	DefaultDuration(ctx context.Context, service string) (mins int, ok bool)
	// List returns all catalog entries.
	List(ctx context.Context) ([]Entry, error)
}

// Static is an in-memory catalog seeded from configuration.
type Static struct {
	entries map[string]Entry
	order   []string
}

// NewStatic builds a catalog from the given entries. Later duplicates
// overwrite earlier ones.
func NewStatic(entries []Entry) *Static {
	s := &Static{entries: make(map[string]Entry, len(entries))}
	for _, e := range entries {
		if _, seen := s.entries[e.Name]; !seen {
			s.order = append(s.order, e.Name)
		}
		s.entries[e.Name] = e
	}
	return s
}

// Default returns the catalog the clinic ships with. Durations follow
// the treatment protocols; services without a specific protocol run an
// hour.
func Default() *Static {
	return NewStatic([]Entry{
		{Name: "Consulta Inicial", DurationMins: 30},
		{Name: "Limpieza Facial", DurationMins: 60},
		{Name: "Peeling Químico", DurationMins: 45},
		{Name: "Hidratación Profunda", DurationMins: 60},
		{Name: "Microdermoabrasión", DurationMins: 60},
		{Name: "Tratamiento Antienvejecimiento", DurationMins: 90},
		{Name: "Depilación Láser", DurationMins: 60},
		{Name: "Tratamiento para Acné", DurationMins: 60},
		{Name: "Masaje Facial", DurationMins: 60},
		{Name: "Seguimiento", DurationMins: 60},
	})
}

// DefaultDuration implements Catalog.
func (s *Static) DefaultDuration(_ context.Context, service string) (int, bool) {
	e, ok := s.entries[service]
	if !ok || e.DurationMins <= 0 {
		return 0, false
	}
	return e.DurationMins, true
}

// List implements Catalog.
func (s *Static) List(_ context.Context) ([]Entry, error) {
	out := make([]Entry, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.entries[name])
	}
	return out, nil
}
