package lru

import (
	"testing"

	"github.com/kosmo-mrc/kosmo/internal/otree"
)

func TestLRU_PromotesOnAccess(t *testing.T) {
	p := New(0)
	tr := otree.New(p.Less, 1)

	a := tr.Insert(1, 10, p.OnAdmit(1))
	b := tr.Insert(2, 10, p.OnAdmit(2))

	if tr.Max() != a {
		t.Fatalf("a (touched least recently) should be the most evictable entry right after insertion")
	}

	payload, moved := p.OnAccess(3, a.Payload)
	if !moved {
		t.Fatalf("LRU access must always reposition")
	}
	tr.Reposition(a, func(n *otree.Node) { n.Payload = payload })

	if tr.Max() != b {
		t.Fatalf("after touching a, b (untouched) should be the LRU victim")
	}
	if tr.Min() != a {
		t.Fatalf("after touching a, a should be MRU (Min)")
	}
}
