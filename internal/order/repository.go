package order

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofrs/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
	"github.com/yonggyo1125/delivery-6h/internal/money"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

// Create stores an order with its items in one transaction. Item rows keep
// their position through the idx column so reloads preserve line order.
func (r *postgresRepository) Create(ctx context.Context, o *Order) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("repository: failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		} else if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				log.Error().Err(rbErr).Msg("repository: failed to rollback transaction")
			}
		} else {
			if cmErr := tx.Commit(ctx); cmErr != nil {
				log.Error().Err(cmErr).Msg("repository: failed to commit transaction")
				err = fmt.Errorf("repository: failed to commit transaction: %w", cmErr)
			}
		}
	}()

	query := `
		INSERT INTO orders (id, orderer_id, orderer_name, orderer_email,
			address, address_detail, memo, total_order_price, status,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now(), now())
		RETURNING created_at, updated_at`

	err = tx.QueryRow(ctx, query,
		o.ID,
		o.Orderer.ID,
		o.Orderer.Name,
		o.Orderer.Email,
		o.DeliveryInfo.Address,
		o.DeliveryInfo.AddressDetail,
		o.DeliveryInfo.Memo,
		o.TotalOrderPrice.Int(),
		o.Status,
	).Scan(&o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("repository: failed to insert order: %w", err)
	}

	itemQuery := `
		INSERT INTO order_items (order_id, idx, product_id, product_name,
			price, quantity, total_price)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	for i, item := range o.Items {
		if _, err = tx.Exec(ctx, itemQuery,
			o.ID,
			i,
			item.Item.ID,
			item.Item.Name,
			item.Price.Int(),
			item.Quantity,
			item.TotalPrice.Int(),
		); err != nil {
			return fmt.Errorf("repository: failed to insert order item: %w", err)
		}
	}

	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*Order, error) {
	query := `
		SELECT id, orderer_id, orderer_name, orderer_email,
			address, address_detail, memo, total_order_price, status,
			created_at, updated_at
		FROM orders
		WHERE id = $1`

	o, err := scanOrder(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("repository: failed to get order: %w", err)
	}

	if o.Items, err = r.loadItems(ctx, id); err != nil {
		return nil, err
	}

	return o, nil
}

func (r *postgresRepository) GetByOrdererID(ctx context.Context, ordererID uuid.UUID) ([]Order, error) {
	query := `
		SELECT id, orderer_id, orderer_name, orderer_email,
			address, address_detail, memo, total_order_price, status,
			created_at, updated_at
		FROM orders
		WHERE orderer_id = $1
		ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, ordererID)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query orders: %w", err)
	}
	defer rows.Close()

	var orders []Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan order: %w", err)
		}
		orders = append(orders, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: failed to iterate orders: %w", err)
	}

	for i := range orders {
		if orders[i].Items, err = r.loadItems(ctx, orders[i].ID); err != nil {
			return nil, err
		}
	}

	return orders, nil
}

func (r *postgresRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status OrderStatus) error {
	query := `
		UPDATE orders
		SET status = $1, updated_at = now()
		WHERE id = $2`

	tag, err := r.pool.Exec(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("repository: failed to update order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrOrderNotFound
	}

	return nil
}

func (r *postgresRepository) loadItems(ctx context.Context, orderID uuid.UUID) ([]OrderItem, error) {
	query := `
		SELECT product_id, product_name, price, quantity, total_price
		FROM order_items
		WHERE order_id = $1
		ORDER BY idx`

	rows, err := r.pool.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query order items: %w", err)
	}
	defer rows.Close()

	var items []OrderItem
	for rows.Next() {
		var (
			item            OrderItem
			price, totalPrice int
		)
		if err := rows.Scan(&item.Item.ID, &item.Item.Name, &price, &item.Quantity, &totalPrice); err != nil {
			return nil, fmt.Errorf("repository: failed to scan order item: %w", err)
		}
		item.Price = money.Price(price)
		item.TotalPrice = money.Price(totalPrice)
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: failed to iterate order items: %w", err)
	}

	return items, nil
}

func scanOrder(row pgx.Row) (*Order, error) {
	var (
		o     Order
		total int
	)
	err := row.Scan(
		&o.ID,
		&o.Orderer.ID,
		&o.Orderer.Name,
		&o.Orderer.Email,
		&o.DeliveryInfo.Address,
		&o.DeliveryInfo.AddressDetail,
		&o.DeliveryInfo.Memo,
		&total,
		&o.Status,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	o.TotalOrderPrice = money.Price(total)
	return &o, nil
}
