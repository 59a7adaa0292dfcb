package event

import (
	"github.com/gofrs/uuid"
)

const (
	KindOrderAccepted        = "order.accepted"
	KindOrderRefundRequested = "order.refund_requested"
)

// Event is a domain notification delivered fire-and-forget to outside
// collaborators (payment, mail). Delivery is at-most-once: a failed handler
// is logged and never retried, and never affects the originating mutation.
type Event interface {
	Kind() string
}

// OrderAccepted is emitted after an order transitions to ORDER_ACCEPT.
type OrderAccepted struct {
	OrderID uuid.UUID
}

func (OrderAccepted) Kind() string { return KindOrderAccepted }

// OrderRefundRequested is emitted when a post-payment cancellation needs an
// external payment refund.
type OrderRefundRequested struct {
	OrderID uuid.UUID
}

func (OrderRefundRequested) Kind() string { return KindOrderRefundRequested }
