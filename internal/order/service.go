package order

import (
	"context"
	"fmt"
	"time"

	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"
	"github.com/yonggyo1125/delivery-6h/internal/auth"
	"github.com/yonggyo1125/delivery-6h/internal/event"
	"github.com/yonggyo1125/delivery-6h/internal/money"
)

type Repository interface {
	Create(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status OrderStatus) error
	GetByOrdererID(ctx context.Context, ordererID uuid.UUID) ([]Order, error)
}

type OrderItemInput struct {
	ItemID   uuid.UUID
	ItemName string
	Price    int
	Quantity int
}

type CreateOrderInput struct {
	OrdererID     uuid.UUID
	OrdererName   string
	OrdererEmail  string
	Address       string
	AddressDetail string
	Memo          string
	Items         []OrderItemInput
}

type Service interface {
	CreateOrder(ctx context.Context, input CreateOrderInput) (uuid.UUID, error)
	GetOrder(ctx context.Context, id uuid.UUID) (*Order, error)
	GetOrdersByOrderer(ctx context.Context, ordererID uuid.UUID) ([]Order, error)
	CancelOrder(ctx context.Context, id uuid.UUID) error
	ConfirmPayment(ctx context.Context, id uuid.UUID) error
	StartDelivery(ctx context.Context, id uuid.UUID) error
	CompleteDelivery(ctx context.Context, id uuid.UUID) error
	CompleteOrder(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo      Repository
	roleCheck auth.RoleCheck
	publisher event.Publisher
	now       func() time.Time
}

func NewService(repo Repository, roleCheck auth.RoleCheck, publisher event.Publisher) Service {
	return &service{
		repo:      repo,
		roleCheck: roleCheck,
		publisher: publisher,
		now:       time.Now,
	}
}

// CreateOrder places an order for a caller holding the USER role, accepts it
// and publishes the queued events after the persist succeeds.
func (s *service) CreateOrder(ctx context.Context, input CreateOrderInput) (uuid.UUID, error) {
	if !s.roleCheck.HasRole(ctx, auth.RoleUser) {
		return uuid.Nil, auth.ErrUnauthorized
	}

	items := make([]OrderItem, 0, len(input.Items))
	for _, item := range input.Items {
		items = append(items, NewOrderItem(item.ItemID, item.ItemName, money.Price(item.Price), item.Quantity))
	}

	o, err := NewOrder(NewOrderParams{
		OrdererID:     input.OrdererID,
		OrdererName:   input.OrdererName,
		OrdererEmail:  input.OrdererEmail,
		Address:       input.Address,
		AddressDetail: input.AddressDetail,
		Memo:          input.Memo,
		Items:         items,
	})
	if err != nil {
		return uuid.Nil, err
	}

	o.Accept()

	if err := s.repo.Create(ctx, o); err != nil {
		log.Error().Err(err).Msg("service: failed to create order in repository")
		return uuid.Nil, fmt.Errorf("service: failed to create order: %w", err)
	}

	s.publish(ctx, o)

	log.Info().Stringer("order_id", o.ID).Stringer("orderer_id", o.Orderer.ID).Msg("service: order created")
	return o.ID, nil
}

func (s *service) GetOrder(ctx context.Context, id uuid.UUID) (*Order, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return o, nil
}

func (s *service) GetOrdersByOrderer(ctx context.Context, ordererID uuid.UUID) ([]Order, error) {
	orders, err := s.repo.GetByOrdererID(ctx, ordererID)
	if err != nil {
		log.Error().Err(err).Stringer("orderer_id", ordererID).Msg("service: failed to fetch orders by orderer")
		return nil, fmt.Errorf("service: failed to fetch orders: %w", err)
	}
	return orders, nil
}

func (s *service) CancelOrder(ctx context.Context, id uuid.UUID) error {
	return s.transition(ctx, id, func(o *Order) {
		o.Cancel(s.now())
	})
}

func (s *service) ConfirmPayment(ctx context.Context, id uuid.UUID) error {
	return s.transition(ctx, id, (*Order).ConfirmPayment)
}

func (s *service) StartDelivery(ctx context.Context, id uuid.UUID) error {
	return s.transition(ctx, id, (*Order).Delivery)
}

func (s *service) CompleteDelivery(ctx context.Context, id uuid.UUID) error {
	return s.transition(ctx, id, (*Order).CompleteDelivery)
}

func (s *service) CompleteOrder(ctx context.Context, id uuid.UUID) error {
	return s.transition(ctx, id, (*Order).Complete)
}

// transition loads the order, applies one state change and persists it when
// the status actually moved. Events queue on the aggregate and go out only
// after the write succeeds.
func (s *service) transition(ctx context.Context, id uuid.UUID, fn func(o *Order)) error {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	before := o.Status
	fn(o)

	if o.Status == before {
		log.Info().Stringer("order_id", id).Stringer("status", before).Msg("service: order transition was a no-op")
		o.ClearEvents()
		return nil
	}

	if err := s.repo.UpdateStatus(ctx, id, o.Status); err != nil {
		log.Error().Err(err).Stringer("order_id", id).Stringer("new_status", o.Status).Msg("service: failed to update order status")
		return fmt.Errorf("service: failed to update order status: %w", err)
	}

	s.publish(ctx, o)

	log.Info().Stringer("order_id", id).Stringer("old_status", before).Stringer("new_status", o.Status).Msg("service: order status updated")
	return nil
}

func (s *service) publish(ctx context.Context, o *Order) {
	for _, e := range o.Events() {
		s.publisher.Trigger(ctx, e)
	}
	o.ClearEvents()
}
