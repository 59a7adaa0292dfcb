package order_test

import (
	"testing"
	"time"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yonggyo1125/delivery-6h/internal/event"
	"github.com/yonggyo1125/delivery-6h/internal/order"
)

func testItems(t *testing.T) []order.OrderItem {
	t.Helper()
	first, _ := uuid.NewV4()
	second, _ := uuid.NewV4()
	return []order.OrderItem{
		order.NewOrderItem(first, "Fried Chicken", 18000, 2),
		order.NewOrderItem(second, "Cola", 2000, 3),
	}
}

func acceptedOrder(t *testing.T) *order.Order {
	t.Helper()
	ordererID, _ := uuid.NewV4()
	o, err := order.NewOrder(order.NewOrderParams{
		OrdererID:    ordererID,
		OrdererName:  "kim",
		OrdererEmail: "kim@example.com",
		Address:      "Seoul Gangnam-gu 1",
		Items:        testItems(t),
	})
	require.NoError(t, err)
	o.CreatedAt = time.Now()
	o.Accept()
	o.ClearEvents()
	return o
}

func TestNewOrderItem(t *testing.T) {
	itemID, _ := uuid.NewV4()
	item := order.NewOrderItem(itemID, "Fried Chicken", 18000, 2)

	assert.Equal(t, 36000, item.TotalPrice.Int(), "line total is price times quantity")
}

func TestNewOrder(t *testing.T) {
	ordererID, _ := uuid.NewV4()

	t.Run("empty_items_rejected", func(t *testing.T) {
		_, err := order.NewOrder(order.NewOrderParams{OrdererID: ordererID})
		assert.ErrorIs(t, err, order.ErrOrderItemNotExist)
	})

	t.Run("total_is_sum_of_line_totals", func(t *testing.T) {
		o, err := order.NewOrder(order.NewOrderParams{
			OrdererID: ordererID,
			Items:     testItems(t),
		})
		require.NoError(t, err)
		assert.Equal(t, 42000, o.TotalOrderPrice.Int())
		assert.NotEqual(t, uuid.Nil, o.ID)
		assert.Empty(t, string(o.Status), "the constructor does not accept the order")
	})
}

func TestOrder_Accept(t *testing.T) {
	ordererID, _ := uuid.NewV4()
	o, err := order.NewOrder(order.NewOrderParams{OrdererID: ordererID, Items: testItems(t)})
	require.NoError(t, err)

	o.Accept()

	assert.Equal(t, order.StatusOrderAccept, o.Status)
	require.Len(t, o.Events(), 1)
	assert.Equal(t, event.OrderAccepted{OrderID: o.ID}, o.Events()[0])
}

func TestOrder_Cancel(t *testing.T) {
	t.Run("before_payment_cancels_without_event", func(t *testing.T) {
		o := acceptedOrder(t)

		o.Cancel(time.Now())

		assert.Equal(t, order.StatusOrderCancel, o.Status)
		assert.Empty(t, o.Events())
	})

	t.Run("after_payment_within_window_refunds_with_event", func(t *testing.T) {
		o := acceptedOrder(t)
		o.ConfirmPayment()

		o.Cancel(o.CreatedAt.Add(3 * time.Minute))

		assert.Equal(t, order.StatusOrderRefund, o.Status)
		require.Len(t, o.Events(), 1)
		assert.Equal(t, event.OrderRefundRequested{OrderID: o.ID}, o.Events()[0])
	})

	t.Run("after_payment_past_window_is_a_no_op", func(t *testing.T) {
		o := acceptedOrder(t)
		o.ConfirmPayment()

		o.Cancel(o.CreatedAt.Add(6 * time.Minute))

		assert.Equal(t, order.StatusPaymentConfirm, o.Status)
		assert.Empty(t, o.Events())
	})

	t.Run("window_boundary_is_exclusive", func(t *testing.T) {
		o := acceptedOrder(t)
		o.ConfirmPayment()

		o.Cancel(o.CreatedAt.Add(5 * time.Minute))

		assert.Equal(t, order.StatusPaymentConfirm, o.Status)
	})
}

func TestOrder_Lifecycle(t *testing.T) {
	o := acceptedOrder(t)

	// delivery cannot start before payment
	o.Delivery()
	assert.Equal(t, order.StatusOrderAccept, o.Status)

	o.ConfirmPayment()
	assert.Equal(t, order.StatusPaymentConfirm, o.Status)

	// confirming again changes nothing
	o.ConfirmPayment()
	assert.Equal(t, order.StatusPaymentConfirm, o.Status)

	// completion steps are gated on the preceding state
	o.Complete()
	assert.Equal(t, order.StatusPaymentConfirm, o.Status)

	o.Delivery()
	assert.Equal(t, order.StatusDelivery, o.Status)

	o.CompleteDelivery()
	assert.Equal(t, order.StatusDeliveryDone, o.Status)

	o.Complete()
	assert.Equal(t, order.StatusOrderDone, o.Status)
}

func TestOrder_ClearEvents(t *testing.T) {
	ordererID, _ := uuid.NewV4()
	o, err := order.NewOrder(order.NewOrderParams{OrdererID: ordererID, Items: testItems(t)})
	require.NoError(t, err)

	o.Accept()
	require.NotEmpty(t, o.Events())

	o.ClearEvents()
	assert.Empty(t, o.Events())
}
