package workflow

import (
	"sync"
	"testing"
)

// DB-free checks of the worker's delivery semantics:
// - at-least-once delivery is safe via durable idempotency
// - per-organization serialization prevents racey interleavings inside handlers
//
// Full DB+PubSub integration tests need an environment that can run MySQL + the
// Pub/Sub emulator.

type fakeProcessor struct {
	muByOrg map[string]*sync.Mutex
	mu      sync.Mutex
	seen    map[string]bool
	calls   int
}

func newFakeProcessor() *fakeProcessor {
	return &fakeProcessor{
		muByOrg: map[string]*sync.Mutex{},
		seen:    map[string]bool{},
	}
}

func (p *fakeProcessor) process(organizationID, handlerName, messageID string, fn func()) {
	// Serialize per organization (worker mutex map).
	p.mu.Lock()
	om := p.muByOrg[organizationID]
	if om == nil {
		om = &sync.Mutex{}
		p.muByOrg[organizationID] = om
	}
	p.mu.Unlock()

	om.Lock()
	defer om.Unlock()

	// Deduplicate (models IdempotencyKey).
	key := organizationID + "|" + handlerName + "|" + messageID
	p.mu.Lock()
	if p.seen[key] {
		p.mu.Unlock()
		return
	}
	p.seen[key] = true
	p.mu.Unlock()

	fn()

	p.mu.Lock()
	p.calls++
	p.mu.Unlock()
}

func TestDuplicateDelivery_IsProcessedOnce(t *testing.T) {
	p := newFakeProcessor()

	const (
		org       = "org-1"
		handler   = "CA_GENERATION"
		messageID = "123"
	)

	var wg sync.WaitGroup
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.process(org, handler, messageID, func() {})
		}()
	}
	wg.Wait()

	if p.calls != 1 {
		t.Fatalf("expected exactly 1 processing call, got %d", p.calls)
	}
}

func TestDeterministicUnderConcurrency(t *testing.T) {
	for run := 0; run < 100; run++ {
		p := newFakeProcessor()
		var wg sync.WaitGroup

		// same scenario, repeated concurrently
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				p.process("org-1", "CA_GENERATION", "1", func() {})
				p.process("org-1", "CA_GENERATION", "2", func() {})
				p.process("org-1", "CA_GENERATION", "1", func() {}) // duplicate
			}(i)
		}
		wg.Wait()

		if p.calls != 2 {
			t.Fatalf("run=%d expected 2 unique calls, got %d", run, p.calls)
		}
	}
}
