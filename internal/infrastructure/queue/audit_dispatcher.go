package queue

import (
	"context"
	"errors"
	"hash/fnv"
	"strconv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/retailflow/plm-console/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// ErrQueueFull is returned when a worker's buffer has no room left.
var ErrQueueFull = errors.New("audit queue full")

// AuditDispatcher writes advance records in the background. Records for the
// same product always go to the same worker, so they are stored in request
// order.
type AuditDispatcher struct {
	workers []chan ports.AdvanceRecord
	repo    ports.AdvanceAuditRepository
	log     zerolog.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

var _ ports.AdvanceAuditRepository = (*AuditDispatcher)(nil)

// NewAuditDispatcher creates a dispatcher with numWorkers sharded workers in
// front of repo. If numWorkers <= 0, defaultWorkers is used.
func NewAuditDispatcher(numWorkers int, repo ports.AdvanceAuditRepository, log zerolog.Logger) *AuditDispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &AuditDispatcher{
		workers: make([]chan ports.AdvanceRecord, numWorkers),
		repo:    repo,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.AdvanceRecord, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Writes use ctx; workers exit when ctx
// is cancelled or Close has drained their queue.
func (d *AuditDispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// InsertAdvance queues rec without blocking.
func (d *AuditDispatcher) InsertAdvance(_ context.Context, rec ports.AdvanceRecord) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return errors.New("audit dispatcher closed")
	}
	select {
	case d.workers[d.shardIndex(rec.ProductID)] <- rec:
		return nil
	default:
		return ErrQueueFull
	}
}

// Close stops accepting records and waits for queued ones to be written.
func (d *AuditDispatcher) Close() {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		for _, ch := range d.workers {
			close(ch)
		}
	}
	d.mu.Unlock()
	d.wg.Wait()
}

// shardIndex maps a product ID deterministically to a worker index.
func (d *AuditDispatcher) shardIndex(productID int64) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(strconv.FormatInt(productID, 10)))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *AuditDispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.AdvanceRecord) {
	defer d.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case rec, ok := <-ch:
			if !ok {
				return
			}
			if err := d.repo.InsertAdvance(ctx, rec); err != nil {
				d.log.Error().Err(err).
					Int64("product_id", rec.ProductID).
					Int("worker_id", id).
					Msg("advance audit write failed")
			}
		}
	}
}
