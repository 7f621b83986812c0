package cfsplit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBucketQueue_FIFOWithinBucket(t *testing.T) {
	q := newBucketQueue(6)
	for v := 0; v < 6; v++ {
		q.insert(v, 3)
	}

	// Equal keys come back in insertion order: oldest first.
	for want := 0; want < 6; want++ {
		v, ok := q.extractMax()
		require.True(t, ok)
		assert.Equal(t, want, v)
	}
	_, ok := q.extractMax()
	assert.False(t, ok)
}

func TestBucketQueue_MaxFirst(t *testing.T) {
	q := newBucketQueue(4)
	q.insert(0, 1)
	q.insert(1, 5)
	q.insert(2, 3)
	q.insert(3, 5)

	order := make([]int, 0, 4)
	for {
		v, ok := q.extractMax()
		if !ok {
			break
		}
		order = append(order, v)
	}
	assert.Equal(t, []int{1, 3, 2, 0}, order)
}

func TestBucketQueue_RemoveAndReinsert(t *testing.T) {
	q := newBucketQueue(3)
	q.insert(0, 2)
	q.insert(1, 2)
	q.insert(2, 2)

	// Re-inserting 0 at a higher key moves it ahead of its bucket mates.
	q.remove(0)
	q.insert(0, 3)

	v, ok := q.extractMax()
	require.True(t, ok)
	assert.Equal(t, 0, v)

	// Removing a middle node keeps the list intact.
	q.remove(1)
	assert.False(t, q.contains(1))
	v, ok = q.extractMax()
	require.True(t, ok)
	assert.Equal(t, 2, v)
	assert.Zero(t, q.len())
}

func TestBucketQueue_KeysGrowOnDemand(t *testing.T) {
	q := newBucketQueue(2)
	q.insert(0, 1)
	q.remove(0)
	// Key far beyond the initial capacity.
	q.insert(0, 40)
	q.insert(1, 39)

	v, ok := q.extractMax()
	require.True(t, ok)
	assert.Equal(t, 0, v)
}

func TestBucketQueue_RemoveAbsentIsNoop(t *testing.T) {
	q := newBucketQueue(2)
	q.remove(1)
	assert.Zero(t, q.len())
}
