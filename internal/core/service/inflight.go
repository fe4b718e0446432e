package service

import (
	"strconv"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/retailflow/plm-console/internal/core/domain"
)

// InFlight rejects a second run of an action while the first is still going.
// Nothing is queued.
type InFlight struct {
	mu    sync.Mutex
	slots map[string]*semaphore.Weighted
}

func NewInFlight() *InFlight {
	return &InFlight{slots: make(map[string]*semaphore.Weighted)}
}

// Do runs fn unless action is already running, in which case it returns
// domain.ErrActionInFlight at once. The slot is dropped when the run ends, so
// per-product keys do not accumulate.
func (f *InFlight) Do(action string, fn func() error) error {
	slot, ok := f.acquire(action)
	if !ok {
		return domain.ErrActionInFlight
	}
	defer f.release(action, slot)
	return fn()
}

func (f *InFlight) acquire(action string) (*semaphore.Weighted, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.slots[action]
	if !ok {
		s = semaphore.NewWeighted(1)
		f.slots[action] = s
	}
	return s, s.TryAcquire(1)
}

func (f *InFlight) release(action string, s *semaphore.Weighted) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s.Release(1)
	delete(f.slots, action)
}

// Action names guarded by the console.
const (
	ActionLogin         = "login"
	ActionCreateProduct = "create-product"
)

// AdvanceAction is the guard key for advancing one product.
func AdvanceAction(productID int64) string {
	return "advance-status:" + strconv.FormatInt(productID, 10)
}
