package coarsen

import "golang.org/x/exp/constraints"

// node is one entry of the bucket-list arena: a doubly-linked list node
// addressed by its index into buckets.nodes rather than by pointer, per the
// design note on re-architecting the source's hand-rolled pointer-based
// bucket list (spec §9).
type node struct {
	item       int
	prev, next int // arena indices; -1 is the sentinel "no node"
}

const nilIdx = -1

// buckets implements the integer-keyed doubly-linked bucket list used by
// classical Ruge-Stuben coarsening to repeatedly extract the undecided
// unknown with the largest measure. Keys (measures) are non-negative and
// bounded by maxKey; each bucket's FIFO order breaks ties by insertion
// order, matching the source's linked-list semantics.
type buckets[K constraints.Integer] struct {
	nodes  []node
	heads  []int // arena index of first node in bucket k, or nilIdx
	tails  []int // arena index of last node in bucket k, or nilIdx
	at     []int // arena index currently holding item i, or nilIdx if removed
	keyOf  []K   // current key (measure) of item i
	maxKey K
}

// newBuckets allocates a bucket list able to hold n items with measures in
// [0, maxKey].
func newBuckets[K constraints.Integer](n int, maxKey K) *buckets[K] {
	b := &buckets[K]{
		nodes: make([]node, 0, n),
		heads: make([]int, maxKey+2),
		tails: make([]int, maxKey+2),
		at:    make([]int, n),
		keyOf: make([]K, n),
		maxKey: maxKey,
	}
	for i := range b.heads {
		b.heads[i] = nilIdx
		b.tails[i] = nilIdx
	}
	for i := range b.at {
		b.at[i] = nilIdx
	}
	return b
}

// Insert adds item i with the given key (measure) to its bucket.
func (b *buckets[K]) Insert(i int, key K) {
	if key > b.maxKey {
		key = b.maxKey
	}
	if key < 0 {
		key = 0
	}
	idx := len(b.nodes)
	b.nodes = append(b.nodes, node{item: i, prev: b.tails[key], next: nilIdx})
	if b.tails[key] != nilIdx {
		b.nodes[b.tails[key]].next = idx
	} else {
		b.heads[key] = idx
	}
	b.tails[key] = idx
	b.at[i] = idx
	b.keyOf[i] = key
}

// Remove detaches item i from its current bucket. It is a no-op if i is not
// currently present.
func (b *buckets[K]) Remove(i int) {
	idx := b.at[i]
	if idx == nilIdx {
		return
	}
	n := b.nodes[idx]
	key := b.keyOf[i]
	if n.prev != nilIdx {
		b.nodes[n.prev].next = n.next
	} else {
		b.heads[key] = n.next
	}
	if n.next != nilIdx {
		b.nodes[n.next].prev = n.prev
	} else {
		b.tails[key] = n.prev
	}
	b.at[i] = nilIdx
}

// Rekey moves item i from its current bucket to the one for newKey,
// preserving FIFO order within the destination bucket (appended at the tail,
// matching Insert).
func (b *buckets[K]) Rekey(i int, newKey K) {
	b.Remove(i)
	b.Insert(i, newKey)
}

// Contains reports whether item i is currently present in some bucket.
func (b *buckets[K]) Contains(i int) bool {
	return b.at[i] != nilIdx
}

// PopMax removes and returns the item with the largest current key, along
// with true. It returns (0, false) if the bucket list is empty. Ties within
// the max bucket resolve FIFO (the bucket's head, i.e. whichever tied item
// was inserted first).
func (b *buckets[K]) PopMax() (int, bool) {
	for k := int(b.maxKey); k >= 0; k-- {
		if b.heads[k] != nilIdx {
			idx := b.heads[k]
			item := b.nodes[idx].item
			b.Remove(item)
			return item, true
		}
	}
	return 0, false
}

// Key returns the current key of item i.
func (b *buckets[K]) Key(i int) K {
	return b.keyOf[i]
}
