// Package twoq implements the 2Q eviction policy, adapted from the
// teacher's policy/twoq package: the same three sub-structures (A1in
// probation queue, Am hot queue, A1out ghost list) built on
// container/list, but retargeted from shardcache's intrusive list nodes
// onto *otree.Node handles so the queues coexist with the shared
// order-statistic tree Kosmo and MiniSim both need.
//
// A single order-statistic tree cannot represent 2Q's two independently
// budgeted regions exactly (A1in and Am are sized as separate fractions
// of capacity, not one combined recency stack), so entries are given a
// combined rank for the tree's sake — every Am entry ranks less evictable
// than every A1in entry, each internally ordered by recency/insertion
// tick — while the real eviction decision (Victim) and the real
// admission/promotion rules ignore that combined rank entirely and
// replay the teacher's exact queue logic. This approximation is recorded
// in DESIGN.md.
//
// Per the spec's 2Q variant, a hit on an A1in entry does not promote it
// to Am: it stays in A1in, at its original FIFO position, until it is
// either evicted (and ghosted) or ages out naturally. Only Am hits
// refresh recency.
package twoq

import (
	"container/list"

	"github.com/kosmo-mrc/kosmo/internal/otree"
	"github.com/kosmo-mrc/kosmo/internal/policy"
)

type meta struct {
	inAm bool
	tick uint64
}

type instance struct {
	capIn    uint64
	capGhost uint64

	inBytes, amBytes uint64

	inList *list.List
	inIdx  map[uint64]*list.Element // key -> element (Value is *otree.Node)

	amList *list.List
	amIdx  map[uint64]*list.Element // key -> element (Value is *otree.Node)

	ghostBytes uint64
	ghostList  *list.List // Value is ghostEntry
	ghostIdx   map[uint64]*list.Element
}

type ghostEntry struct {
	key  uint64
	size uint32
}

// New builds a 2Q policy instance sized to a cache of capacity bytes:
// A1in holds roughly 25% of capacity, A1out (ghosts) tracks roughly 50%,
// matching the teacher's documented defaults.
func New(capacity uint64) policy.Instance {
	capIn := capacity / 4
	if capIn == 0 {
		capIn = 1
	}
	capGhost := capacity / 2
	if capGhost == 0 {
		capGhost = 1
	}
	return &instance{
		capIn:     capIn,
		capGhost:  capGhost,
		inList:    list.New(),
		inIdx:     make(map[uint64]*list.Element),
		amList:    list.New(),
		amIdx:     make(map[uint64]*list.Element),
		ghostList: list.New(),
		ghostIdx:  make(map[uint64]*list.Element),
	}
}

func (p *instance) Tag() policy.Tag { return policy.TwoQ }

func (*instance) Less(a, b *otree.Node) bool {
	ma, mb := a.Payload.(meta), b.Payload.(meta)
	if ma.inAm != mb.inAm {
		return ma.inAm // Am ranks less evictable than A1in.
	}
	return ma.tick > mb.tick
}

// OnAdmit: a key with no ghost history enters A1in.
func (*instance) OnAdmit(tick uint64) any { return meta{inAm: false, tick: tick} }

// OnGhostHit: a ghosted key gets a second chance straight into Am,
// bypassing A1in, matching the teacher's OnAdd ghost branch.
func (p *instance) OnGhostHit(tick, key uint64) (any, bool) {
	el, ok := p.ghostIdx[key]
	if !ok {
		return nil, false
	}
	p.ghostList.Remove(el)
	delete(p.ghostIdx, key)
	return meta{inAm: true, tick: tick}, true
}

// OnAccess: Am hits refresh recency; A1in hits are left untouched.
func (*instance) OnAccess(tick uint64, payload any) (any, bool) {
	m := payload.(meta)
	if !m.inAm {
		return payload, false
	}
	m.tick = tick
	return m, true
}

// Track records a freshly inserted node into whichever queue its payload
// says it belongs to.
func (p *instance) Track(n *otree.Node) {
	m := n.Payload.(meta)
	if m.inAm {
		p.amIdx[n.Key] = p.amList.PushFront(n)
		p.amBytes += uint64(n.Size)
		return
	}
	p.inIdx[n.Key] = p.inList.PushFront(n)
	p.inBytes += uint64(n.Size)
}

// Promote is called only after an Am hit (OnAccess reported moved=true);
// it refreshes the node's position in Am's recency list.
func (p *instance) Promote(n *otree.Node) {
	if el, ok := p.amIdx[n.Key]; ok {
		p.amList.MoveToFront(el)
	}
}

// Victim prefers A1in's oldest entry once A1in is over its own budget
// (2Q's scan-resistance mechanism); otherwise it evicts Am's LRU tail.
func (p *instance) Victim(t *otree.Tree) *otree.Node {
	if p.inBytes > p.capIn {
		if el := p.inList.Back(); el != nil {
			return el.Value.(*otree.Node)
		}
	}
	if el := p.amList.Back(); el != nil {
		return el.Value.(*otree.Node)
	}
	if el := p.inList.Back(); el != nil {
		return el.Value.(*otree.Node)
	}
	return t.Max()
}

// Evict drops n from whichever queue held it; an A1in eviction leaves a
// ghost behind so a near-term reuse gets a second chance into Am. Am
// evictions leave no ghost, matching the teacher's OnRemove.
func (p *instance) Evict(n *otree.Node) {
	m := n.Payload.(meta)
	if m.inAm {
		if el, ok := p.amIdx[n.Key]; ok {
			p.amList.Remove(el)
			delete(p.amIdx, n.Key)
			p.amBytes -= uint64(n.Size)
		}
		return
	}
	if el, ok := p.inIdx[n.Key]; ok {
		p.inList.Remove(el)
		delete(p.inIdx, n.Key)
		p.inBytes -= uint64(n.Size)
	}

	if old, ok := p.ghostIdx[n.Key]; ok {
		p.ghostBytes -= uint64(old.Value.(ghostEntry).size)
		p.ghostList.Remove(old)
	}
	p.ghostIdx[n.Key] = p.ghostList.PushFront(ghostEntry{key: n.Key, size: n.Size})
	p.ghostBytes += uint64(n.Size)

	for p.ghostBytes > p.capGhost {
		tail := p.ghostList.Back()
		if tail == nil {
			break
		}
		ge := tail.Value.(ghostEntry)
		delete(p.ghostIdx, ge.key)
		p.ghostList.Remove(tail)
		p.ghostBytes -= uint64(ge.size)
	}
}
