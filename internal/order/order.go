package order

import (
	"time"

	"github.com/gofrs/uuid"
	"github.com/yonggyo1125/delivery-6h/internal/event"
	"github.com/yonggyo1125/delivery-6h/internal/money"
)

// cancelWindow is how long after acceptance a paid order may still be
// cancelled, turning into a refund.
const cancelWindow = 5 * time.Minute

// Order is the aggregate root for a placed order. State transitions queue
// domain events in memory; the use-case publishes them only after the
// aggregate has been persisted, so a rolled-back write never emits.
type Order struct {
	ID              uuid.UUID
	Orderer         Orderer
	DeliveryInfo    DeliveryInfo
	Items           []OrderItem
	TotalOrderPrice money.Price
	Status          OrderStatus
	CreatedAt       time.Time
	UpdatedAt       time.Time

	pending []event.Event
}

type NewOrderParams struct {
	ID            *uuid.UUID
	OrdererID     uuid.UUID
	OrdererName   string
	OrdererEmail  string
	Address       string
	AddressDetail string
	Memo          string
	Items         []OrderItem
}

// NewOrder builds an order from at least one item and derives the total
// price from the item lines. The caller must invoke Accept afterwards; the
// constructor does not set a status.
func NewOrder(params NewOrderParams) (*Order, error) {
	if len(params.Items) == 0 {
		return nil, ErrOrderItemNotExist
	}

	id := uuid.Nil
	if params.ID != nil {
		id = *params.ID
	}
	if id == uuid.Nil {
		generated, err := uuid.NewV4()
		if err != nil {
			return nil, err
		}
		id = generated
	}

	o := &Order{
		ID: id,
		Orderer: Orderer{
			ID:    params.OrdererID,
			Name:  params.OrdererName,
			Email: params.OrdererEmail,
		},
		DeliveryInfo: DeliveryInfo{
			Address:       params.Address,
			AddressDetail: params.AddressDetail,
			Memo:          params.Memo,
		},
		Items: append([]OrderItem(nil), params.Items...),
	}
	o.calculateTotalOrderPrice()

	return o, nil
}

// calculateTotalOrderPrice is the only writer of TotalOrderPrice: the total
// is always the sum of the item line totals.
func (o *Order) calculateTotalOrderPrice() {
	var total money.Price
	for _, item := range o.Items {
		total = total.Add(item.TotalPrice)
	}
	o.TotalOrderPrice = total
}

// Accept moves the order into ORDER_ACCEPT and queues the acceptance event
// for downstream mail notification.
func (o *Order) Accept() {
	o.Status = StatusOrderAccept
	o.pending = append(o.pending, event.OrderAccepted{OrderID: o.ID})
}

// Cancel handles both cancellation branches. Before payment the order is
// simply cancelled. After payment it becomes a refund, but only within the
// cancel window measured from creation; past the window the call is a
// silent no-op.
func (o *Order) Cancel(now time.Time) {
	if o.Status == StatusOrderAccept {
		o.Status = StatusOrderCancel
		return
	}

	if now.Before(o.CreatedAt.Add(cancelWindow)) {
		o.Status = StatusOrderRefund
		o.pending = append(o.pending, event.OrderRefundRequested{OrderID: o.ID})
	}
}

// ConfirmPayment records the payment. Only an accepted order can move to
// PAYMENT_CONFIRM; anything else is ignored.
func (o *Order) ConfirmPayment() {
	if o.Status != StatusOrderAccept {
		return
	}
	o.Status = StatusPaymentConfirm
}

// Delivery starts the delivery. The transition is gated on payment
// confirmation; from any other state the call is a silent no-op.
func (o *Order) Delivery() {
	if o.Status != StatusPaymentConfirm {
		return
	}
	o.Status = StatusDelivery
}

// CompleteDelivery marks the goods as delivered.
func (o *Order) CompleteDelivery() {
	if o.Status != StatusDelivery {
		return
	}
	o.Status = StatusDeliveryDone
}

// Complete closes out a delivered order.
func (o *Order) Complete() {
	if o.Status != StatusDeliveryDone {
		return
	}
	o.Status = StatusOrderDone
}

// Events returns the queued domain events without clearing them.
func (o *Order) Events() []event.Event {
	return o.pending
}

// ClearEvents drops the queued events, typically after publication.
func (o *Order) ClearEvents() {
	o.pending = nil
}
