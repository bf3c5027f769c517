// Package factory wires every concrete policy implementation to
// policy.Tag, the one place that needs to import all five — every other
// package in the module only ever sees policy.Instance. Kept separate
// from package policy itself to avoid an import cycle (each policy
// subpackage imports policy for the Instance contract).
package factory

import (
	"fmt"

	"github.com/kosmo-mrc/kosmo/internal/policy"
	"github.com/kosmo-mrc/kosmo/internal/policy/fifo"
	"github.com/kosmo-mrc/kosmo/internal/policy/lfu"
	"github.com/kosmo-mrc/kosmo/internal/policy/lru"
	"github.com/kosmo-mrc/kosmo/internal/policy/lrfu"
	"github.com/kosmo-mrc/kosmo/internal/policy/twoq"
)

// New builds a fresh policy instance for tag, sized to a cache of
// capacity bytes.
func New(tag policy.Tag, capacity uint64) (policy.Instance, error) {
	switch tag {
	case policy.LRU:
		return lru.New(capacity), nil
	case policy.FIFO:
		return fifo.New(capacity), nil
	case policy.LFU:
		return lfu.New(capacity), nil
	case policy.LRFU:
		return lrfu.New(capacity), nil
	case policy.TwoQ:
		return twoq.New(capacity), nil
	default:
		return nil, fmt.Errorf("policy: unknown tag %q (want one of %v)", tag, policy.AllTags)
	}
}
