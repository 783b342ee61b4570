// Package bag implements the candidate set used to index Monte Carlo move
// candidates: a set of pool labels with O(1) add, remove, contains, uniform
// random pick and iteration. Two dense arrays back the set — a label→slot
// index with holes, and a packed slot→label array. Removal swaps the hole
// with the last slot so the packed array never fragments.
package bag

import (
	"errors"
	"iter"
	"math/rand/v2"

	"github.com/pthm-cable/cdt/pool"
)

var (
	// ErrDuplicateInsert is returned when adding a label already present.
	ErrDuplicateInsert = errors.New("bag: duplicate insert")
	// ErrMissingRemove is returned when removing a label not present.
	ErrMissingRemove = errors.New("bag: missing remove")
	// ErrEmptyPick is returned by Pick on an empty bag.
	ErrEmptyPick = errors.New("bag: pick on empty bag")
)

const empty = int32(-1)

// Bag is a candidate set over labels of one arena. The capacity must cover
// the arena's label range.
type Bag[T any] struct {
	indices  []int32
	elements []pool.Label[T]
}

// New allocates a bag able to hold labels in [0, capacity).
func New[T any](capacity int) *Bag[T] {
	b := &Bag[T]{
		indices:  make([]int32, capacity),
		elements: make([]pool.Label[T], 0, capacity),
	}
	for i := range b.indices {
		b.indices[i] = empty
	}
	return b
}

// Size is the number of labels currently held.
func (b *Bag[T]) Size() int { return len(b.elements) }

// Contains reports whether l is in the bag.
func (b *Bag[T]) Contains(l pool.Label[T]) bool {
	return b.indices[l] != empty
}

// Add inserts l.
func (b *Bag[T]) Add(l pool.Label[T]) error {
	if b.Contains(l) {
		return ErrDuplicateInsert
	}
	b.indices[l] = int32(len(b.elements))
	b.elements = append(b.elements, l)
	return nil
}

// Remove deletes l, swapping the freed slot with the last one.
func (b *Bag[T]) Remove(l pool.Label[T]) error {
	if !b.Contains(l) {
		return ErrMissingRemove
	}
	slot := b.indices[l]
	last := b.elements[len(b.elements)-1]
	b.elements[slot] = last
	b.elements = b.elements[:len(b.elements)-1]
	b.indices[last] = slot
	b.indices[l] = empty
	return nil
}

// Pick returns a uniformly random member using the caller's generator.
func (b *Bag[T]) Pick(rng *rand.Rand) (pool.Label[T], error) {
	if len(b.elements) == 0 {
		return -1, ErrEmptyPick
	}
	return b.elements[rng.IntN(len(b.elements))], nil
}

// All iterates over the members in packed order. The bag must not be
// mutated during iteration.
func (b *Bag[T]) All() iter.Seq[pool.Label[T]] {
	return func(yield func(pool.Label[T]) bool) {
		for _, l := range b.elements {
			if !yield(l) {
				return
			}
		}
	}
}
