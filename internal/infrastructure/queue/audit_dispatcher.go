package queue

import (
	"context"
	"errors"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/cse-motors/dealership/internal/core/domain"
	"github.com/cse-motors/dealership/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
	writeTimeout   = 5 * time.Second
)

var (
	ErrQueueFull = errors.New("audit queue full")
	ErrClosed    = errors.New("audit dispatcher closed")
)

// AuditDispatcher moves audit writes off the request path. Events are sharded
// by entity id so the history of a single vehicle is written in order.
type AuditDispatcher struct {
	workers []chan domain.InventoryEvent
	sink    ports.AuditRepository
	log     zerolog.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewAuditDispatcher creates a dispatcher with numWorkers shards in front of sink.
// If numWorkers <= 0, defaultWorkers is used.
func NewAuditDispatcher(numWorkers int, sink ports.AuditRepository, log zerolog.Logger) *AuditDispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &AuditDispatcher{
		workers: make([]chan domain.InventoryEvent, numWorkers),
		sink:    sink,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.InventoryEvent, channelBuffer)
	}
	return d
}

// Start launches the workers. They exit when ctx is cancelled or after Close
// has drained their queue.
func (d *AuditDispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Record enqueues the event without blocking. It satisfies
// ports.AuditRepository, so services use it in place of the sink.
func (d *AuditDispatcher) Record(_ context.Context, event domain.InventoryEvent) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return ErrClosed
	}
	select {
	case d.workers[d.shardIndex(event.EntityID)] <- event:
		return nil
	default:
		return ErrQueueFull
	}
}

// Close stops accepting events and waits for queued ones to be written.
func (d *AuditDispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	for _, ch := range d.workers {
		close(ch)
	}
	d.mu.Unlock()
	d.wg.Wait()
}

func (d *AuditDispatcher) shardIndex(entityID int64) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(strconv.FormatInt(entityID, 10)))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *AuditDispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.InventoryEvent) {
	defer d.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			d.write(ctx, id, event)
		}
	}
}

func (d *AuditDispatcher) write(ctx context.Context, worker int, event domain.InventoryEvent) {
	writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	if err := d.sink.Record(writeCtx, event); err != nil {
		d.log.Error().Err(err).
			Str("action", string(event.Action)).
			Int64("entity_id", event.EntityID).
			Int("worker_id", worker).
			Msg("audit write failed")
	}
}
