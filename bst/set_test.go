package bst

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSet_Empty(t *testing.T) {
	assert := assert.New(t)

	set := New()
	assert.Equal(0, set.Len())
	assert.Equal([]int{}, set.Values())
	assert.False(set.Contains(0))
	assert.Equal(0, set.Height())

	_, ok := set.Min()
	assert.False(ok)
	_, ok = set.Max()
	assert.False(ok)

	for range set.All() {
		t.Fatal("empty set should not yield values")
	}
}

func TestSet_ZeroValue(t *testing.T) {
	assert := assert.New(t)

	var set Set
	assert.True(set.Insert(4))
	assert.True(set.Contains(4))
	assert.Equal([]int{4}, set.Values())
}

func TestSet_InsertEnumeratesAscending(t *testing.T) {
	assert := assert.New(t)

	set := FromSlice([]int{5, 3, 8, 3, 1})
	assert.Equal([]int{1, 3, 5, 8}, set.Values())
	assert.Equal(4, set.Len())
	assert.Equal("{1 3 5 8}", set.String())
}

func TestSet_InsertIsIdempotent(t *testing.T) {
	assert := assert.New(t)

	set := FromSlice([]int{2, 1, 3})
	before := set.Values()

	assert.False(set.Insert(2), "re-inserting should report no change")
	assert.False(set.Insert(3))
	assert.Equal(before, set.Values())
	assert.Equal(3, set.Len())
}

func TestSet_FirstInsertBecomesRoot(t *testing.T) {
	assert := assert.New(t)

	set := New()
	set.Insert(10)
	set.Insert(5)
	set.Insert(20)

	root, ok := RootValue(set)
	assert.True(ok)
	assert.Equal(10, root)
	assert.Equal(2, set.Height())
}

func TestSet_ContainsMatchesEnumeration(t *testing.T) {
	assert := assert.New(t)

	r := rand.New(rand.NewSource(42))
	set := New()
	for i := 0; i < 200; i++ {
		set.Insert(r.Intn(100) - 50)
	}

	present := make(map[int]bool)
	for v := range set.All() {
		present[v] = true
	}
	for v := -60; v <= 60; v++ {
		assert.Equal(present[v], set.Contains(v), "value %d", v)
	}
}

func TestSet_RandomInsertionOrder(t *testing.T) {
	assert := assert.New(t)

	r := rand.New(rand.NewSource(7))
	for round := 0; round < 20; round++ {
		var inserted []int
		unique := make(map[int]struct{})
		for i := 0; i < 50; i++ {
			v := r.Intn(40) - 20
			inserted = append(inserted, v)
			unique[v] = struct{}{}
		}

		want := make([]int, 0, len(unique))
		for v := range unique {
			want = append(want, v)
		}
		sort.Ints(want)

		assert.Equal(want, FromSlice(inserted).Values())
	}
}

func TestSet_DegenerateTree(t *testing.T) {
	assert := assert.New(t)

	// strictly increasing input produces a right-leaning chain
	set := New()
	n := 5000
	for i := 0; i < n; i++ {
		set.Insert(i)
	}
	assert.Equal(n, set.Height())

	count := 0
	prev := -1
	for v := range set.All() {
		assert.Greater(v, prev)
		prev = v
		count++
	}
	assert.Equal(n, count)
	assert.True(set.Contains(n - 1))
}

func TestSet_AllIsRestartable(t *testing.T) {
	assert := assert.New(t)

	set := FromSlice([]int{4, 2, 6, 1, 3})
	seq := set.All()

	var first, second []int
	for v := range seq {
		first = append(first, v)
		if len(first) == 2 {
			break
		}
	}
	for v := range seq {
		second = append(second, v)
	}

	assert.Equal([]int{1, 2}, first)
	assert.Equal([]int{1, 2, 3, 4, 6}, second)
}

func TestSet_MinMax(t *testing.T) {
	assert := assert.New(t)

	set := FromSlice([]int{7, -3, 12, 0})
	lo, ok := set.Min()
	assert.True(ok)
	assert.Equal(-3, lo)

	hi, ok := set.Max()
	assert.True(ok)
	assert.Equal(12, hi)
}

func TestSet_NilReceiver(t *testing.T) {
	assert := assert.New(t)

	var set *Set
	assert.Equal(0, set.Len())
	assert.False(set.Contains(1))
	assert.Equal([]int{}, set.Values())
	assert.Equal("{}", set.String())
}
