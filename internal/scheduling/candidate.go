package scheduling

import "time"

// Candidate is an appointment-shaped value not yet accepted by the
// engine. It remembers whether the caller set the end time explicitly
// so that service or start-time changes know whether they may recompute
// it.
type Candidate struct {
	ClientID      string
	Service       string
	ResponsibleID string
	Notes         string
	StartsAt      time.Time
	EndsAt        time.Time

	endExplicit bool
}

// NewCandidate starts a candidate for the given client, staff member
// and start time. The end time is filled in by ApplyService or SetEnd.
func NewCandidate(clientID, responsibleID string, startsAt time.Time) Candidate {
	return Candidate{
		ClientID:      clientID,
		ResponsibleID: responsibleID,
		StartsAt:      startsAt,
	}
}

// SetEnd pins the end time. Subsequent service changes will no longer
// recompute it; start-time changes still shift it to keep the duration.
func (c *Candidate) SetEnd(end time.Time) {
	c.EndsAt = end
	c.endExplicit = true
}

// EndExplicit reports whether the caller pinned the end time.
func (c Candidate) EndExplicit() bool {
	return c.endExplicit
}
