package queue

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/anatolia-commerce/cargo-gateway/internal/core/domain"
	"github.com/anatolia-commerce/cargo-gateway/internal/core/ports"
)

type stubShipmentService struct {
	mu        sync.Mutex
	refreshed []string
	err       error
}

func (s *stubShipmentService) RefreshStatus(_ context.Context, orderID string) (*ports.RefreshResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshed = append(s.refreshed, orderID)
	if s.err != nil {
		return nil, s.err
	}
	return &ports.RefreshResult{}, nil
}

func (s *stubShipmentService) CreateShipment(context.Context, string) (*ports.CreateShipmentResult, error) {
	return nil, nil
}

func (s *stubShipmentService) RecoverTrackingNumber(context.Context, string) (*ports.CreateShipmentResult, error) {
	return nil, nil
}

func (s *stubShipmentService) ReconcileCOD(context.Context, string) (*ports.ReconcileResult, error) {
	return nil, nil
}

func (s *stubShipmentService) CancelShipment(context.Context, string) error { return nil }

func (s *stubShipmentService) GetShipment(context.Context, string, bool) (*ports.ShipmentView, error) {
	return nil, nil
}

func (s *stubShipmentService) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.refreshed)
}

func TestRefreshDispatcher_DrainsBatch(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	svc := &stubShipmentService{}
	d := NewRefreshDispatcher(3, svc, zerolog.Nop())
	d.Start(ctx)

	d.EnqueueBatch([]string{"ord-1", "ord-2", "ord-3", "ord-4", "ord-5"})

	deadline := time.After(2 * time.Second)
	for svc.count() < 5 {
		select {
		case <-deadline:
			t.Fatalf("batch not drained, refreshed %d of 5", svc.count())
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestRefreshDispatcher_ShardIsStablePerOrder(t *testing.T) {
	d := NewRefreshDispatcher(4, &stubShipmentService{}, zerolog.Nop())

	for _, id := range []string{"ord-1", "ord-2", "another-order"} {
		first := d.shardIndex(id)
		for i := 0; i < 10; i++ {
			if got := d.shardIndex(id); got != first {
				t.Fatalf("shard for %s moved from %d to %d", id, first, got)
			}
		}
	}
}

func TestRefreshDispatcher_FullShardDropsInsteadOfBlocking(t *testing.T) {
	// Not started: nothing drains the single shard, so the buffer fills.
	d := NewRefreshDispatcher(1, &stubShipmentService{}, zerolog.Nop())

	accepted := 0
	for i := 0; i < channelBuffer; i++ {
		if d.Enqueue("ord-1") {
			accepted++
		}
	}
	if accepted != channelBuffer {
		t.Fatalf("expected %d accepted before the buffer fills, got %d", channelBuffer, accepted)
	}
	if d.Enqueue("ord-1") {
		t.Error("enqueue on a full shard must drop, not block")
	}

	ids := make([]string, 3)
	for i := range ids {
		ids[i] = "ord-1"
	}
	if got := d.EnqueueBatch(ids); got != 0 {
		t.Errorf("full shard must accept none of the batch, got %d", got)
	}
}

func TestRefreshDispatcher_IneligibleOrdersAreSkippedQuietly(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	svc := &stubShipmentService{err: domain.ErrOrderNotEligible}
	d := NewRefreshDispatcher(1, svc, zerolog.Nop())
	d.Start(ctx)

	d.Enqueue("ord-without-shipment")

	deadline := time.After(2 * time.Second)
	for svc.count() < 1 {
		select {
		case <-deadline:
			t.Fatal("enqueued order never processed")
		case <-time.After(10 * time.Millisecond):
		}
	}
}
