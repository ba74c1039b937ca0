// Package setstore holds the three named sets the calculator works on.
package setstore

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mohamadnahleh/set-calculator/bst"
)

// Label names one of the three sets.
type Label string

const (
	X Label = "X"
	Y Label = "Y"
	Z Label = "Z"
)

// ErrUnknownLabel is returned for labels other than X, Y and Z.
var ErrUnknownLabel = errors.New("unknown set label")

// Labels returns the labels in display order.
func Labels() []Label {
	return []Label{X, Y, Z}
}

// ParseLabel parses a label name, ignoring case.
func ParseLabel(s string) (Label, error) {
	l := Label(strings.ToUpper(strings.TrimSpace(s)))
	if !l.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownLabel, s)
	}
	return l, nil
}

// Valid reports whether l is one of X, Y or Z.
func (l Label) Valid() bool {
	return l == X || l == Y || l == Z
}

// Entry is one row of a Snapshot.
type Entry struct {
	Label  Label `json:"label"`
	Values []int `json:"values"`
}

// Store binds each label to a set. Operations on the store only move sets
// between labels; they never copy or mutate a tree.
type Store struct {
	sets map[Label]*bst.Set
}

// New creates a store with three empty sets.
func New() *Store {
	return &Store{
		sets: map[Label]*bst.Set{
			X: bst.New(),
			Y: bst.New(),
			Z: bst.New(),
		},
	}
}

// Get returns the set bound to label, or nil for an unknown label.
func (s *Store) Get(label Label) *bst.Set {
	return s.sets[label]
}

// Replace binds set to label. A nil set is stored as an empty set.
func (s *Store) Replace(label Label, set *bst.Set) error {
	if !label.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownLabel, label)
	}
	if set == nil {
		set = bst.New()
	}
	s.sets[label] = set
	return nil
}

// Rotate moves Z to X, X to Y and Y to Z.
func (s *Store) Rotate() {
	s.sets[X], s.sets[Y], s.sets[Z] = s.sets[Z], s.sets[X], s.sets[Y]
}

// Swap exchanges the sets bound to a and b.
func (s *Store) Swap(a, b Label) error {
	if !a.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownLabel, a)
	}
	if !b.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownLabel, b)
	}
	s.sets[a], s.sets[b] = s.sets[b], s.sets[a]
	return nil
}

// Snapshot returns the ascending values of every set in label order.
func (s *Store) Snapshot() []Entry {
	entries := make([]Entry, 0, len(s.sets))
	for _, label := range Labels() {
		entries = append(entries, Entry{Label: label, Values: s.sets[label].Values()})
	}
	return entries
}
