package analytics

import "positionScope/internal/model"

// Status classifies a position snapshot. No transitions are performed here;
// each call re-derives the classification from the snapshot.
type Status int

const (
	// StatusInactive covers missing pool/position data and closed positions.
	StatusInactive Status = iota
	StatusInRange
	StatusOutRange
)

// String returns the machine name used in reports and storage.
func (s Status) String() string {
	switch s {
	case StatusInRange:
		return "in_range"
	case StatusOutRange:
		return "out_range"
	default:
		return "inactive"
	}
}

// Label returns the human-readable status label.
func (s Status) Label() string {
	switch s {
	case StatusInRange:
		return "In Range"
	case StatusOutRange:
		return "Out of Range"
	default:
		return "Closed"
	}
}

// Classify derives the status of a position against its pool snapshot. The
// active band is [tickLower, tickUpper): a position at the upper tick is out.
func Classify(pool *model.Pool, position *model.Position) Status {
	if pool == nil || position == nil || position.Closed() {
		return StatusInactive
	}
	if pool.TickCurrent >= position.TickLower && pool.TickCurrent < position.TickUpper {
		return StatusInRange
	}
	return StatusOutRange
}
