// Package otree implements the augmented order-statistic tree Kosmo and
// MiniSim both sit on top of: a treap ordered by an externally supplied
// "less evictable than" relation, with every node carrying the byte-size
// sum of its subtree so that prefix-byte-size queries (the reuse
// byte-distance at the heart of Kosmo) and rank-based eviction (the
// victim pick MiniSim needs) both run in O(log n) expected time.
//
// No repo in the retrieval pack ships an order-statistic or augmented
// BST (grepped for rbtree/btree-with-subtree-sums across the examples
// and other_examples/ turned up nothing), so this is built from scratch
// rather than grounded on a pack library; see DESIGN.md. It does borrow
// the teacher's idea of a stable external handle that survives internal
// rebalancing (cache/node.go's intrusive-node pointers): a *Node returned
// by Insert stays valid and identical across every later Reposition, so
// callers can keep it as a map value without ever re-fetching it.
package otree

import "math/rand"

// Node is a tracked entry in the tree. Fields other than Key, Size, and
// Payload are tree-internal; callers must not touch them directly.
type Node struct {
	Key     uint64
	Size    uint32
	Payload any

	left, right *Node
	prio        uint64
	seq         uint64
	subSize     uint64
	count       int
}

// Less reports whether a is less evictable than b (a is more protected:
// it would survive longer in the cache). Implementations need not break
// ties themselves; Tree adds an insertion-sequence tiebreak so the
// relation is always a strict total order internally.
type Less func(a, b *Node) bool

// Tree is an augmented treap. Not safe for concurrent use; each Kosmo or
// MiniSim instance owns one Tree exclusively (spec's "no shared resources
// beyond the read-only trace buffer").
type Tree struct {
	root *Node
	less Less
	rnd  *rand.Rand
	seq  uint64
}

// New constructs an empty tree ordered by less. seed fixes the treap's
// internal balancing randomness so that repeated runs over the same trace
// produce bit-identical trees (and therefore bit-identical MRCs).
func New(less Less, seed int64) *Tree {
	return &Tree{less: less, rnd: rand.New(rand.NewSource(seed))}
}

// Len returns the number of tracked entries.
func (t *Tree) Len() int { return count(t.root) }

// TotalSize returns the sum of Size over every tracked entry.
func (t *Tree) TotalSize() uint64 { return size(t.root) }

// Insert adds a new entry and returns its stable handle.
func (t *Tree) Insert(key uint64, sz uint32, payload any) *Node {
	t.seq++
	n := &Node{Key: key, Size: sz, Payload: payload, prio: t.rnd.Uint64(), seq: t.seq}
	pull(n)
	t.root = insertNode(t.root, n, t.cmp)
	return n
}

// Remove detaches n from the tree. n must not be reused afterward.
func (t *Tree) Remove(n *Node) {
	t.root = removeNode(t.root, n, t.cmp)
	n.left, n.right = nil, nil
}

// Reposition moves n to reflect a change in the externally owned priority
// state the Less function reads from n.Payload. mutate is called with n
// detached from the tree (so Less comparisons during removal still see
// the OLD priority state); n is reinserted with the SAME pointer identity
// afterward, so any external key->*Node index never needs updating.
func (t *Tree) Reposition(n *Node, mutate func(*Node)) {
	t.root = removeNode(t.root, n, t.cmp)
	n.left, n.right = nil, nil
	if mutate != nil {
		mutate(n)
	}
	t.seq++
	n.seq = t.seq
	pull(n)
	t.root = insertNode(t.root, n, t.cmp)
}

// UpdateSize changes n's byte size without affecting its position. Used
// on a variable-size re-access: the simulators call it after that
// access's hit/miss has been counted against the previously stored size,
// so only later queries see the new size. This is what it separates from
// Reposition.
func (t *Tree) UpdateSize(n *Node, newSize uint32) {
	updateSize(t.root, n, newSize, t.cmp)
}

// PrefixSize returns the sum of Size over every entry strictly less
// evictable than n (the reuse byte-distance / minimum retaining capacity).
func (t *Tree) PrefixSize(n *Node) uint64 {
	return prefixSize(t.root, n, t.cmp)
}

// Min returns the least evictable (most protected) entry, or nil if empty.
func (t *Tree) Min() *Node {
	n := t.root
	if n == nil {
		return nil
	}
	for n.left != nil {
		n = n.left
	}
	return n
}

// Max returns the most evictable entry (the next eviction victim), or nil
// if the tree is empty.
func (t *Tree) Max() *Node {
	n := t.root
	if n == nil {
		return nil
	}
	for n.right != nil {
		n = n.right
	}
	return n
}

// cmp is the strict total order Tree navigates by: less's relation,
// broken by insertion sequence for entries the caller's Less treats as
// tied (equal priority).
func (t *Tree) cmp(a, b *Node) bool {
	if t.less(a, b) {
		return true
	}
	if t.less(b, a) {
		return false
	}
	return a.seq < b.seq
}

type cmpFn = func(a, b *Node) bool

func size(n *Node) uint64 {
	if n == nil {
		return 0
	}
	return n.subSize
}

func count(n *Node) int {
	if n == nil {
		return 0
	}
	return n.count
}

func pull(n *Node) {
	if n == nil {
		return
	}
	n.subSize = uint64(n.Size) + size(n.left) + size(n.right)
	n.count = 1 + count(n.left) + count(n.right)
}

// split partitions t into (l, r): l holds every node strictly before x
// (cmp(node, x) == true), r holds the rest. x itself is not assumed to be
// part of t.
func split(t *Node, x *Node, cmp cmpFn) (l, r *Node) {
	if t == nil {
		return nil, nil
	}
	if cmp(t, x) {
		lr, rr := split(t.right, x, cmp)
		t.right = lr
		pull(t)
		return t, rr
	}
	ll, lr := split(t.left, x, cmp)
	t.left = lr
	pull(t)
	return ll, t
}

// merge joins l and r, assuming every node in l is before every node in r.
func merge(l, r *Node) *Node {
	if l == nil {
		return r
	}
	if r == nil {
		return l
	}
	if l.prio > r.prio {
		l.right = merge(l.right, r)
		pull(l)
		return l
	}
	r.left = merge(l, r.left)
	pull(r)
	return r
}

func insertNode(root, n *Node, cmp cmpFn) *Node {
	l, r := split(root, n, cmp)
	return merge(merge(l, n), r)
}

func removeNode(t, target *Node, cmp cmpFn) *Node {
	if t == nil {
		return nil
	}
	if t == target {
		return merge(t.left, t.right)
	}
	if cmp(target, t) {
		t.left = removeNode(t.left, target, cmp)
	} else {
		t.right = removeNode(t.right, target, cmp)
	}
	pull(t)
	return t
}

func prefixSize(cur, target *Node, cmp cmpFn) uint64 {
	if cur == nil {
		return 0
	}
	if cur == target {
		return size(cur.left)
	}
	if cmp(cur, target) {
		return size(cur.left) + uint64(cur.Size) + prefixSize(cur.right, target, cmp)
	}
	return prefixSize(cur.left, target, cmp)
}

func updateSize(cur, target *Node, newSize uint32, cmp cmpFn) bool {
	if cur == nil {
		return false
	}
	if cur == target {
		cur.Size = newSize
		pull(cur)
		return true
	}
	var found bool
	if cmp(cur, target) {
		found = updateSize(cur.right, target, newSize, cmp)
	} else {
		found = updateSize(cur.left, target, newSize, cmp)
	}
	if found {
		pull(cur)
	}
	return found
}
