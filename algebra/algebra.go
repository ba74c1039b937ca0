// Package algebra provides set operations over bst.Set values. None of the
// functions modify their arguments; a nil set is treated as empty.
package algebra

import (
	"fmt"

	"github.com/mohamadnahleh/set-calculator/bst"
)

// Transform maps one set member to a new integer.
type Transform func(int) (int, error)

// Union returns a new set holding every value in a or b.
func Union(a, b *bst.Set) *bst.Set {
	result := bst.New()
	insertAll(result, a)
	insertAll(result, b)
	return result
}

// Intersection returns a new set holding the values present in both a and b.
// It walks a and looks up each value in b.
func Intersection(a, b *bst.Set) *bst.Set {
	result := bst.New()
	for v := range a.All() {
		if b.Contains(v) {
			result.Insert(v)
		}
	}
	return result
}

// Clone returns a deep copy of a. The copy holds the same values and shares
// no node with a.
func Clone(a *bst.Set) *bst.Set {
	result := bst.New()
	insertAll(result, a)
	return result
}

// Map applies f to each value of a in ascending order. The result follows the
// enumeration order of a, so it may be unsorted and hold duplicates.
//
// The first error from f aborts the walk and is returned wrapped.
func Map(a *bst.Set, f Transform) ([]int, error) {
	out := make([]int, 0, a.Len())
	for v := range a.All() {
		mapped, err := f(v)
		if err != nil {
			return nil, fmt.Errorf("transform failed on %d: %w", v, err)
		}
		out = append(out, mapped)
	}
	return out, nil
}

func insertAll(dst, src *bst.Set) {
	for v := range src.All() {
		dst.Insert(v)
	}
}
