package queue

import (
	"context"
	"errors"
	"hash/fnv"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/anatolia-commerce/cargo-gateway/internal/api/metrics"
	"github.com/anatolia-commerce/cargo-gateway/internal/core/domain"
	"github.com/anatolia-commerce/cargo-gateway/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// RefreshDispatcher fans batch status-refresh requests out to a fixed set
// of workers using consistent hashing on the order id, so refreshes for
// one order never race each other. The carrier offers no push channel;
// this pool is how bulk refresh triggers drain.
type RefreshDispatcher struct {
	workers []chan string
	service ports.ShipmentService
	log     zerolog.Logger
}

// NewRefreshDispatcher creates a dispatcher with numWorkers sharded
// workers. If numWorkers <= 0, defaultWorkers is used.
func NewRefreshDispatcher(numWorkers int, service ports.ShipmentService, log zerolog.Logger) *RefreshDispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &RefreshDispatcher{
		workers: make([]chan string, numWorkers),
		service: service,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan string, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *RefreshDispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue hands one order id to its worker without blocking. When the
// shard's buffer is full the id is dropped and reported false; refreshes
// are re-triggerable, so dropping beats stalling the caller.
func (d *RefreshDispatcher) Enqueue(orderID string) bool {
	shard := d.shardIndex(orderID)
	select {
	case d.workers[shard] <- orderID:
	default:
		d.log.Warn().
			Str("order_id", orderID).
			Int("worker_id", shard).
			Msg("refresh queue full, dropping order")
		return false
	}
	metrics.RefreshQueueDepth.WithLabelValues(strconv.Itoa(shard)).Set(float64(len(d.workers[shard])))
	return true
}

// EnqueueBatch enqueues multiple order ids preserving per-order ordering
// and returns how many were accepted.
func (d *RefreshDispatcher) EnqueueBatch(orderIDs []string) int {
	accepted := 0
	for _, id := range orderIDs {
		if d.Enqueue(id) {
			accepted++
		}
	}
	return accepted
}

// shardIndex maps an order id deterministically to a worker index.
func (d *RefreshDispatcher) shardIndex(orderID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(orderID))
	return int(h.Sum32()) % len(d.workers)
}

func (d *RefreshDispatcher) runWorker(ctx context.Context, id int, ch <-chan string) {
	for {
		select {
		case <-ctx.Done():
			return
		case orderID, ok := <-ch:
			if !ok {
				return
			}
			metrics.RefreshQueueDepth.WithLabelValues(strconv.Itoa(id)).Set(float64(len(ch)))
			if _, err := d.service.RefreshStatus(ctx, orderID); err != nil {
				// Orders without a shipment routinely land in bulk
				// triggers; skip them quietly.
				if errors.Is(err, domain.ErrOrderNotEligible) || errors.Is(err, domain.ErrOrderNotFound) {
					continue
				}
				d.log.Error().Err(err).
					Str("order_id", orderID).
					Int("worker_id", id).
					Msg("status refresh failed")
			}
		}
	}
}
