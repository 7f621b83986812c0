package cfsplit

// bucketQueue is a monotone integer priority queue over a fixed vertex
// arena. Each bucket is a doubly-linked FIFO list threaded through the
// prev/next arrays, so insert, remove and extractMax are all O(1) with no
// per-node allocation. extractMax serves the oldest entry of the highest
// non-empty bucket; combined with ascending initial insertion this makes
// equal keys resolve to the lowest vertex index.
type bucketQueue struct {
	prev, next []int32 // intrusive links, indexed by vertex
	head, tail []int32 // bucket ends, indexed by key
	key        []int32 // current key of each queued vertex
	in         []bool  // queue membership
	top        int     // highest key that may be populated
	size       int
}

const nilLink = int32(-1)

// newBucketQueue sizes the arena for vertices 0..order-1 with initial key
// capacity order (keys may grow past it; buckets are added on demand).
func newBucketQueue(order int) *bucketQueue {
	q := &bucketQueue{
		prev: make([]int32, order),
		next: make([]int32, order),
		head: make([]int32, order+1),
		tail: make([]int32, order+1),
		key:  make([]int32, order),
		in:   make([]bool, order),
		top:  -1,
	}
	for i := range q.head {
		q.head[i] = nilLink
		q.tail[i] = nilLink
	}

	return q
}

// ensure grows the bucket array to admit key k.
func (q *bucketQueue) ensure(k int) {
	for len(q.head) <= k {
		q.head = append(q.head, nilLink)
		q.tail = append(q.tail, nilLink)
	}
}

// insert appends vertex v to the tail of bucket k. The vertex must not be
// queued already.
func (q *bucketQueue) insert(v, k int) {
	q.ensure(k)
	v32 := int32(v)
	q.key[v] = int32(k)
	q.in[v] = true
	q.prev[v] = q.tail[k]
	q.next[v] = nilLink
	if q.tail[k] != nilLink {
		q.next[q.tail[k]] = v32
	} else {
		q.head[k] = v32
	}
	q.tail[k] = v32
	if k > q.top {
		q.top = k
	}
	q.size++
}

// remove unlinks vertex v from its bucket. A no-op when v is not queued.
func (q *bucketQueue) remove(v int) {
	if !q.in[v] {
		return
	}
	k := q.key[v]
	if q.prev[v] != nilLink {
		q.next[q.prev[v]] = q.next[v]
	} else {
		q.head[k] = q.next[v]
	}
	if q.next[v] != nilLink {
		q.prev[q.next[v]] = q.prev[v]
	} else {
		q.tail[k] = q.prev[v]
	}
	q.in[v] = false
	q.size--
}

// contains reports whether v is currently queued.
func (q *bucketQueue) contains(v int) bool { return q.in[v] }

// len returns the number of queued vertices.
func (q *bucketQueue) len() int { return q.size }

// extractMax removes and returns the first-inserted vertex of the highest
// non-empty bucket. The second result is false when the queue is empty.
// The scan for the next populated bucket is amortized O(1): top rises only
// on insert, by at most one per key increment.
func (q *bucketQueue) extractMax() (int, bool) {
	if q.size == 0 {
		q.top = -1
		return 0, false
	}
	for q.head[q.top] == nilLink {
		q.top--
	}
	v := int(q.head[q.top])
	q.remove(v)

	return v, true
}
