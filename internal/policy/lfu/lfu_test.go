package lfu

import (
	"testing"

	"github.com/kosmo-mrc/kosmo/internal/otree"
)

func TestLFU_HigherFrequencyIsLessEvictable(t *testing.T) {
	p := New(0)
	tr := otree.New(p.Less, 1)

	a := tr.Insert(1, 10, p.OnAdmit(1))
	b := tr.Insert(2, 10, p.OnAdmit(2))

	// Touch a twice more than b.
	for i := 0; i < 2; i++ {
		payload, moved := p.OnAccess(uint64(10+i), a.Payload)
		if !moved {
			t.Fatalf("LFU access must always reposition")
		}
		tr.Reposition(a, func(n *otree.Node) { n.Payload = payload })
	}

	if tr.Max() != b {
		t.Fatalf("b (lower frequency) should be the eviction victim")
	}
	if tr.Min() != a {
		t.Fatalf("a (higher frequency) should be least evictable")
	}
}
