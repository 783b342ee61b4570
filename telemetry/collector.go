// Package telemetry aggregates per-sweep statistics of the Markov chain
// and writes them as CSV alongside the observable data.
package telemetry

// Move identifies one of the three local moves.
type Move int

const (
	MoveInsert Move = iota
	MoveDelete
	MoveFlip
)

// Collector accumulates move statistics during one sweep.
type Collector struct {
	attempts [3]int
	accepted [3]int
}

// NewCollector returns an empty collector.
func NewCollector() *Collector {
	return &Collector{}
}

// RecordAttempt counts one attempted move of the given kind.
func (c *Collector) RecordAttempt(m Move) {
	c.attempts[m]++
}

// RecordAccept counts one accepted move of the given kind.
func (c *Collector) RecordAccept(m Move) {
	c.accepted[m]++
}

// Flush folds the counters into a SweepStats row and resets them.
func (c *Collector) Flush(sweep, volume, vertices, fourVertices, flippable int) SweepStats {
	s := SweepStats{
		Sweep:          sweep,
		Volume:         volume,
		Vertices:       vertices,
		FourVertices:   fourVertices,
		Flippable:      flippable,
		InsertAttempts: c.attempts[MoveInsert],
		InsertAccepted: c.accepted[MoveInsert],
		DeleteAttempts: c.attempts[MoveDelete],
		DeleteAccepted: c.accepted[MoveDelete],
		FlipAttempts:   c.attempts[MoveFlip],
		FlipAccepted:   c.accepted[MoveFlip],
	}
	total := s.InsertAttempts + s.DeleteAttempts + s.FlipAttempts
	acceptedTotal := s.InsertAccepted + s.DeleteAccepted + s.FlipAccepted
	if total > 0 {
		s.AcceptanceRate = float64(acceptedTotal) / float64(total)
	}
	c.attempts = [3]int{}
	c.accepted = [3]int{}
	return s
}
