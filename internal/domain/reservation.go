package domain

// Reservation is an owner-attributed time interval booked against a table.
// Immutable once admitted; removal is whole-record only.
type Reservation struct {
	Owner    string
	Interval Interval
}
