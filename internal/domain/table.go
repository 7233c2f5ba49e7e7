package domain

import "time"

// Table is a reservable resource holding non-overlapping reservations in
// insertion order.
type Table struct {
	ID           int64
	Reservations []Reservation
}

// FindConflict scans every existing reservation and returns the first one
// whose interval overlaps the candidate, or nil when the candidate is free.
func (t *Table) FindConflict(candidate Interval) *Reservation {
	for i := range t.Reservations {
		if t.Reservations[i].Interval.Overlaps(candidate) {
			return &t.Reservations[i]
		}
	}
	return nil
}

// Reserve admits a reservation for owner over candidate, appending it to the
// table. Returns ErrConflict when the candidate overlaps an existing
// reservation. Callers must hold the catalog write lock for the full
// check-then-append (see app.CatalogStore.Update).
func (t *Table) Reserve(owner string, candidate Interval) error {
	if t.FindConflict(candidate) != nil {
		return ErrConflict
	}
	t.Reservations = append(t.Reservations, Reservation{Owner: owner, Interval: candidate})
	return nil
}

// Release drops every reservation on the table, expired or not.
func (t *Table) Release() {
	t.Reservations = nil
}

// SweepExpired removes reservations whose end instant is at or before now
// and reports how many were removed. Relative order of the remainder is
// preserved.
func (t *Table) SweepExpired(now time.Time) int {
	kept := t.Reservations[:0]
	removed := 0
	for _, res := range t.Reservations {
		if !res.Interval.End.After(now) {
			removed++
			continue
		}
		kept = append(kept, res)
	}
	if removed == 0 {
		return 0
	}
	if len(kept) == 0 {
		t.Reservations = nil
		return removed
	}
	t.Reservations = kept
	return removed
}
