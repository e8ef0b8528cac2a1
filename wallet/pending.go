package wallet

import (
	"encoding/json"
	"sync"

	"golang.org/x/exp/maps"
)

type result struct {
	raw json.RawMessage
	err error
}

// slot is settled at most once, later settles are dropped.
type slot struct {
	once sync.Once
	ch   chan result
}

func newSlot() *slot {
	return &slot{ch: make(chan result, 1)}
}

func (s *slot) settle(r result) {
	s.once.Do(func() {
		s.ch <- r
	})
}

// pendingTable maps request ids to their slots, ids count up from 1.
type pendingTable struct {
	mu     sync.Mutex
	lastID uint64
	slots  map[uint64]*slot

	// Once set, no new requests are registered.
	closed error
}

func newPendingTable() *pendingTable {
	return &pendingTable{slots: make(map[uint64]*slot)}
}

func (p *pendingTable) register() (uint64, *slot, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed != nil {
		return 0, nil, p.closed
	}

	p.lastID++
	s := newSlot()
	p.slots[p.lastID] = s

	return p.lastID, s, nil
}

// take removes and returns the slot for id.
func (p *pendingTable) take(id uint64) (*slot, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	s, ok := p.slots[id]
	if ok {
		delete(p.slots, id)
	}

	return s, ok
}

func (p *pendingTable) len() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return len(p.slots)
}

// failAll rejects every outstanding slot with err, and every later register.
func (p *pendingTable) failAll(err error) {
	p.mu.Lock()
	if p.closed == nil {
		p.closed = err
	}
	slots := maps.Values(p.slots)
	clear(p.slots)
	p.mu.Unlock()

	for _, s := range slots {
		s.settle(result{err: err})
	}
}
