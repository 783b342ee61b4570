package sim

import (
	"errors"
	"math"

	"github.com/pthm-cable/cdt/bag"
	"github.com/pthm-cable/cdt/telemetry"
)

// attemptMove tries a single move: with probability 1/2 an insert or
// delete (split evenly), otherwise a flip. An empty candidate set is a
// silent rejection; only arena exhaustion surfaces as an error.
func (s *Simulation) attemptMove() (telemetry.Move, bool, error) {
	s.attempts++

	var move telemetry.Move
	if s.rng.IntN(2) == 0 {
		if s.rng.IntN(2) == 0 {
			move = telemetry.MoveInsert
		} else {
			move = telemetry.MoveDelete
		}
	} else {
		move = telemetry.MoveFlip
	}
	s.collector.RecordAttempt(move)

	var (
		accepted bool
		err      error
	)
	switch move {
	case telemetry.MoveInsert:
		accepted, err = s.moveInsert()
	case telemetry.MoveDelete:
		accepted = s.moveDelete()
	case telemetry.MoveFlip:
		accepted = s.moveFlip()
	}
	if err != nil {
		return move, false, err
	}
	if accepted {
		s.collector.RecordAccept(move)
	}
	return move, accepted, nil
}

// volumeFactor biases acceptance toward the target volume: a move that
// shrinks the gap is boosted by e^(2*epsilon), one that widens it is
// penalized symmetrically. grows reports whether the move adds triangles.
func (s *Simulation) volumeFactor(grows bool) float64 {
	boost := math.Exp(2 * s.params.Epsilon)
	if (s.u.TriangleCount() < s.params.TargetVolume) == grows {
		return boost
	}
	return 1 / boost
}

// moveInsert attempts the (2,4)-move on a uniform triangle.
func (s *Simulation) moveInsert() (bool, error) {
	n0 := float64(s.u.VertexCount())
	n0four := float64(s.u.FourVertexCount())

	ar := n0 / (n0four + 1.0) * math.Exp(-2*s.params.Lambda)
	if s.params.TargetVolume > 0 {
		ar *= s.volumeFactor(true)
	}

	t, err := s.u.PickTriangle(s.rng)
	if err != nil {
		if errors.Is(err, bag.ErrEmptyPick) {
			return false, nil
		}
		return false, err
	}

	// The pole slices of a sphere may not grow.
	if s.u.Sphere() {
		time := s.u.Triangle(t).Time
		if time == 0 || time == s.u.NSlices()-1 {
			return false, nil
		}
	}

	if ar < 1.0 && s.rng.Float64() > ar {
		return false, nil
	}

	if _, err := s.u.InsertVertex(t); err != nil {
		return false, err
	}
	return true, nil
}

// moveDelete attempts the (4,2)-move on a uniform four-vertex.
func (s *Simulation) moveDelete() bool {
	if s.u.FourVertexCount() == 0 {
		return false
	}

	n0 := float64(s.u.VertexCount())
	n0four := float64(s.u.FourVertexCount())

	ar := n0four / (n0 - 1.0) * math.Exp(2*s.params.Lambda)
	if s.params.TargetVolume > 0 {
		ar *= s.volumeFactor(false)
	}

	if ar < 1.0 && s.rng.Float64() > ar {
		return false
	}

	v, err := s.u.PickFourVertex(s.rng)
	if err != nil {
		return false
	}
	// Keep every slice at three vertices or more.
	if s.u.SliceSizes()[s.u.Vertex(v).Time] < 4 {
		return false
	}

	s.u.RemoveVertex(v)
	return true
}

// moveFlip attempts the (2,2)-move on a uniform flippable triangle. The
// acceptance ratio is the ratio of flip candidate counts before and after,
// the after count read off from the two neighbors whose flippability the
// rotation toggles.
func (s *Simulation) moveFlip() bool {
	if s.u.FlippableCount() == 0 {
		return false
	}

	t, err := s.u.PickFlippable(s.rng)
	if err != nil {
		return false
	}

	wa := s.u.FlippableCount()
	wb := wa
	tRec := s.u.Triangle(t)
	if tRec.Orientation == s.u.Triangle(tRec.TriangleLeft()).Orientation {
		wb++
	} else {
		wb--
	}
	trRec := s.u.Triangle(tRec.TriangleRight())
	if trRec.Orientation == s.u.Triangle(trRec.TriangleRight()).Orientation {
		wb++
	} else {
		wb--
	}

	ar := float64(wa) / float64(wb)
	if ar < 1.0 && s.rng.Float64() > ar {
		return false
	}

	s.u.FlipLink(t)
	return true
}
