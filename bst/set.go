// Package bst implements an ordered set of distinct integers backed by an
// unbalanced binary search tree.
package bst

import (
	"iter"
	"strconv"
	"strings"
)

// node is a single tree node. Every value in left is less than value and
// every value in right is greater.
type node struct {
	value int
	left  *node
	right *node
}

func newNode(value int) *node {
	return &node{value: value}
}

// Set is an ordered set of distinct integers. The zero value is an empty set
// ready to use. A Set owns its nodes; no two sets ever share a node.
type Set struct {
	root *node
	size int
}

// New creates a new empty set
func New() *Set {
	return &Set{}
}

// FromSlice creates a set holding the values of the slice. Values are inserted
// in slice order, so the order decides the shape of the tree.
func FromSlice(values []int) *Set {
	s := New()
	for _, v := range values {
		s.Insert(v)
	}
	return s
}

// Insert adds value to the set. It reports whether the set grew; inserting a
// value that is already present leaves the tree untouched.
func (s *Set) Insert(value int) bool {
	link := &s.root
	for *link != nil {
		n := *link
		switch {
		case value < n.value:
			link = &n.left
		case value > n.value:
			link = &n.right
		default:
			return false
		}
	}
	*link = newNode(value)
	s.size++
	return true
}

// Contains reports whether value is in the set.
func (s *Set) Contains(value int) bool {
	if s == nil {
		return false
	}
	n := s.root
	for n != nil {
		switch {
		case value < n.value:
			n = n.left
		case value > n.value:
			n = n.right
		default:
			return true
		}
	}
	return false
}

// All returns an iterator over the values in ascending order.
//
// The walk keeps its own stack instead of recursing, so a tree built from
// sorted input (a linked list in disguise) costs heap, not goroutine stack.
// Each call to All starts a fresh traversal. The set must not be modified
// while an iteration is in progress.
func (s *Set) All() iter.Seq[int] {
	return func(yield func(int) bool) {
		if s == nil {
			return
		}
		var stack []*node
		n := s.root
		for n != nil || len(stack) > 0 {
			for n != nil {
				stack = append(stack, n)
				n = n.left
			}
			n = stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if !yield(n.value) {
				return
			}
			n = n.right
		}
	}
}

// Values returns the values of the set in ascending order. The result is
// never nil.
func (s *Set) Values() []int {
	values := make([]int, 0, s.Len())
	for v := range s.All() {
		values = append(values, v)
	}
	return values
}

// Len returns the number of values in the set
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return s.size
}

// Min returns the smallest value, or false if the set is empty.
func (s *Set) Min() (int, bool) {
	if s.Len() == 0 {
		return 0, false
	}
	n := s.root
	for n.left != nil {
		n = n.left
	}
	return n.value, true
}

// Max returns the largest value, or false if the set is empty.
func (s *Set) Max() (int, bool) {
	if s.Len() == 0 {
		return 0, false
	}
	n := s.root
	for n.right != nil {
		n = n.right
	}
	return n.value, true
}

// Height returns the number of levels in the tree; 0 for an empty set.
func (s *Set) Height() int {
	if s.Len() == 0 {
		return 0
	}
	height := 0
	level := []*node{s.root}
	for len(level) > 0 {
		height++
		var next []*node
		for _, n := range level {
			if n.left != nil {
				next = append(next, n.left)
			}
			if n.right != nil {
				next = append(next, n.right)
			}
		}
		level = next
	}
	return height
}

// String renders the set as {1 3 5}
func (s *Set) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	first := true
	for v := range s.All() {
		if !first {
			sb.WriteByte(' ')
		}
		sb.WriteString(strconv.Itoa(v))
		first = false
	}
	sb.WriteByte('}')
	return sb.String()
}
