package order

import (
	"errors"

	"github.com/gofrs/uuid"
	"github.com/yonggyo1125/delivery-6h/internal/money"
)

var (
	ErrOrderNotFound    = errors.New("order not found")
	ErrOrderItemNotExist = errors.New("order must contain at least one item")
)

type OrderStatus string

const (
	StatusOrderAccept    OrderStatus = "ORDER_ACCEPT"
	StatusPaymentConfirm OrderStatus = "PAYMENT_CONFIRM"
	StatusPreparing      OrderStatus = "PREPARING"
	StatusDelivery       OrderStatus = "DELIVERY"
	StatusDeliveryDone   OrderStatus = "DELIVERY_DONE"
	StatusOrderDone      OrderStatus = "ORDER_DONE"
	StatusOrderCancel    OrderStatus = "ORDER_CANCEL"
	StatusOrderRefund    OrderStatus = "ORDER_REFUND"
	StatusExchange       OrderStatus = "EXCHANGE"
)

func (s OrderStatus) String() string {
	return string(s)
}

// Orderer is the ordering user captured at creation time.
type Orderer struct {
	ID    uuid.UUID
	Name  string
	Email string
}

type DeliveryInfo struct {
	Address       string
	AddressDetail string
	Memo          string
}

// ProductInfo is the product snapshot an order item keeps. Later product
// changes never affect existing orders.
type ProductInfo struct {
	ID   uuid.UUID
	Name string
}

// OrderItem is one order line. TotalPrice is fixed at construction as
// price multiplied by quantity.
type OrderItem struct {
	Item       ProductInfo
	Price      money.Price
	Quantity   int
	TotalPrice money.Price
}

func NewOrderItem(itemID uuid.UUID, itemName string, price money.Price, quantity int) OrderItem {
	return OrderItem{
		Item:       ProductInfo{ID: itemID, Name: itemName},
		Price:      price,
		Quantity:   quantity,
		TotalPrice: price.Multiply(quantity),
	}
}
