package event_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/yonggyo1125/delivery-6h/internal/event"
)

func TestDispatcher_Trigger(t *testing.T) {
	d := event.NewDispatcher()
	orderID, _ := uuid.NewV4()

	var mu sync.Mutex
	var received []event.Event
	d.Subscribe(event.KindOrderAccepted, func(ctx context.Context, e event.Event) error {
		mu.Lock()
		defer mu.Unlock()
		received = append(received, e)
		return nil
	})

	d.Trigger(context.Background(), event.OrderAccepted{OrderID: orderID})
	d.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []event.Event{event.OrderAccepted{OrderID: orderID}}, received)
}

func TestDispatcher_FansOutToAllHandlers(t *testing.T) {
	d := event.NewDispatcher()
	orderID, _ := uuid.NewV4()

	var calls atomic.Int32
	handler := func(ctx context.Context, e event.Event) error {
		calls.Add(1)
		return nil
	}
	d.Subscribe(event.KindOrderRefundRequested, handler)
	d.Subscribe(event.KindOrderRefundRequested, handler)

	d.Trigger(context.Background(), event.OrderRefundRequested{OrderID: orderID})
	d.Wait()

	assert.Equal(t, int32(2), calls.Load())
}

func TestDispatcher_UnsubscribedKindIsIgnored(t *testing.T) {
	d := event.NewDispatcher()
	orderID, _ := uuid.NewV4()

	assert.NotPanics(t, func() {
		d.Trigger(context.Background(), event.OrderAccepted{OrderID: orderID})
		d.Wait()
	})
}

func TestDispatcher_HandlerFailuresDoNotPropagate(t *testing.T) {
	d := event.NewDispatcher()
	orderID, _ := uuid.NewV4()

	var survived atomic.Bool
	d.Subscribe(event.KindOrderAccepted, func(ctx context.Context, e event.Event) error {
		return errors.New("mail server down")
	})
	d.Subscribe(event.KindOrderAccepted, func(ctx context.Context, e event.Event) error {
		panic("boom")
	})
	d.Subscribe(event.KindOrderAccepted, func(ctx context.Context, e event.Event) error {
		survived.Store(true)
		return nil
	})

	assert.NotPanics(t, func() {
		d.Trigger(context.Background(), event.OrderAccepted{OrderID: orderID})
		d.Wait()
	})
	assert.True(t, survived.Load(), "one handler failing must not affect the others")
}

func TestDispatcher_OutlivesCancelledContext(t *testing.T) {
	d := event.NewDispatcher()
	orderID, _ := uuid.NewV4()

	var ctxAlive atomic.Bool
	d.Subscribe(event.KindOrderAccepted, func(ctx context.Context, e event.Event) error {
		ctxAlive.Store(ctx.Err() == nil)
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	d.Trigger(ctx, event.OrderAccepted{OrderID: orderID})
	d.Wait()

	assert.True(t, ctxAlive.Load(), "handlers run on a context detached from the request")
}
