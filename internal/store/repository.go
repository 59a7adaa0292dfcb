package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofrs/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
	"github.com/yonggyo1125/delivery-6h/internal/money"
)

type postgresRepository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) Create(ctx context.Context, s *Store) (err error) {
	tx, beginErr := r.db.Begin(ctx)
	if beginErr != nil {
		return fmt.Errorf("repository: failed to begin transaction: %w", beginErr)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		} else if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				log.Error().Err(rbErr).Stringer("store_id", s.ID).Msg("repository: failed to rollback store create")
			}
		} else if commitErr := tx.Commit(ctx); commitErr != nil {
			err = fmt.Errorf("repository: failed to commit transaction: %w", commitErr)
		}
	}()

	now := time.Now().UTC()
	s.CreatedAt = now
	s.UpdatedAt = now
	s.Version = 1

	query := `
		INSERT INTO stores (id, status, owner_id, owner_name, store_name, landline, email, address, latitude, longitude, version, created_at, updated_at, deleted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	_, err = tx.Exec(ctx, query,
		s.ID, string(s.Status), s.Owner.ID, s.Owner.Name, s.Name,
		s.Contact.Landline, s.Contact.Email,
		s.Location.Address, s.Location.Latitude, s.Location.Longitude,
		s.Version, s.CreatedAt, s.UpdatedAt, s.DeletedAt,
	)
	if err != nil {
		return fmt.Errorf("repository: failed to insert store: %w", err)
	}

	if err = insertChildren(ctx, tx, s); err != nil {
		return err
	}

	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*Store, error) {
	query := `
		SELECT id, status, owner_id, owner_name, store_name, landline, email, address, latitude, longitude, version, created_at, updated_at
		FROM stores
		WHERE id = $1 AND deleted_at IS NULL
	`

	var s Store
	var status string
	err := r.db.QueryRow(ctx, query, id).Scan(
		&s.ID, &status, &s.Owner.ID, &s.Owner.Name, &s.Name,
		&s.Contact.Landline, &s.Contact.Email,
		&s.Location.Address, &s.Location.Latitude, &s.Location.Longitude,
		&s.Version, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrStoreNotFound
		}
		return nil, fmt.Errorf("repository: failed to select store %s: %w", id, err)
	}
	s.Status = StoreStatus(status)

	if err := r.loadOperations(ctx, &s); err != nil {
		return nil, err
	}
	if err := r.loadCategories(ctx, &s); err != nil {
		return nil, err
	}
	if err := r.loadProducts(ctx, &s); err != nil {
		return nil, err
	}

	return &s, nil
}

// Update persists the aggregate, guarding on the optimistic version token.
// The stale writer gets ErrVersionConflict instead of silently overwriting.
func (r *postgresRepository) Update(ctx context.Context, s *Store) (err error) {
	tx, beginErr := r.db.Begin(ctx)
	if beginErr != nil {
		return fmt.Errorf("repository: failed to begin transaction: %w", beginErr)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		} else if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				log.Error().Err(rbErr).Stringer("store_id", s.ID).Msg("repository: failed to rollback store update")
			}
		} else if commitErr := tx.Commit(ctx); commitErr != nil {
			err = fmt.Errorf("repository: failed to commit transaction: %w", commitErr)
		}
	}()

	s.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE stores
		SET status = $1, owner_name = $2, store_name = $3, landline = $4, email = $5,
			address = $6, latitude = $7, longitude = $8, updated_at = $9, deleted_at = $10,
			version = version + 1
		WHERE id = $11 AND version = $12
	`
	cmdTag, execErr := tx.Exec(ctx, query,
		string(s.Status), s.Owner.Name, s.Name, s.Contact.Landline, s.Contact.Email,
		s.Location.Address, s.Location.Latitude, s.Location.Longitude,
		s.UpdatedAt, s.DeletedAt,
		s.ID, s.Version,
	)
	if execErr != nil {
		err = fmt.Errorf("repository: failed to update store %s: %w", s.ID, execErr)
		return err
	}

	if cmdTag.RowsAffected() == 0 {
		var exists bool
		if checkErr := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM stores WHERE id = $1)`, s.ID).Scan(&exists); checkErr != nil {
			err = fmt.Errorf("repository: failed to check store %s existence: %w", s.ID, checkErr)
			return err
		}
		if exists {
			log.Warn().Stringer("store_id", s.ID).Int("version", s.Version).Msg("repository: optimistic lock conflict on store update")
			err = ErrVersionConflict
			return err
		}
		err = ErrStoreNotFound
		return err
	}

	// Child collections are positional; rewrite them wholesale, keeping
	// soft-deleted rows because they live in the aggregate lists too.
	for _, table := range []string{"product_options", "products", "store_categories", "store_operations"} {
		if _, execErr := tx.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE store_id = $1`, table), s.ID); execErr != nil {
			err = fmt.Errorf("repository: failed to clear %s for store %s: %w", table, s.ID, execErr)
			return err
		}
	}

	if err = insertChildren(ctx, tx, s); err != nil {
		return err
	}

	s.Version++
	return nil
}

func insertChildren(ctx context.Context, tx pgx.Tx, s *Store) error {
	opQuery := `
		INSERT INTO store_operations (store_id, operation_idx, day_of_week, start_hour, end_hour, break1_start, break1_end, break2_start, break2_end)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	for idx, op := range s.Operations {
		b1s, b1e := breakColumns(op.BreakHour1)
		b2s, b2e := breakColumns(op.BreakHour2)
		_, err := tx.Exec(ctx, opQuery,
			s.ID, idx, int(op.DayOfWeek),
			timeColumn(op.StartHour), timeColumn(op.EndHour),
			b1s, b1e, b2s, b2e,
		)
		if err != nil {
			return fmt.Errorf("repository: failed to insert operation %d for store %s: %w", idx, s.ID, err)
		}
	}

	catQuery := `
		INSERT INTO store_categories (store_id, category_idx, category_id, deleted_at)
		VALUES ($1, $2, $3, $4)
	`
	for idx, ref := range s.Categories {
		if _, err := tx.Exec(ctx, catQuery, s.ID, idx, ref.CategoryID, ref.DeletedAt); err != nil {
			return fmt.Errorf("repository: failed to insert category ref %d for store %s: %w", idx, s.ID, err)
		}
	}

	productQuery := `
		INSERT INTO products (store_id, product_idx, product_code, category_id, status, name, price, version, deleted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	optionQuery := `
		INSERT INTO product_options (store_id, product_idx, option_idx, name, price, sub_options, deleted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	for idx := range s.Products {
		p := &s.Products[idx]
		p.Version++
		_, err := tx.Exec(ctx, productQuery,
			s.ID, idx, p.ProductCode, p.Category, string(p.Status), p.Name, p.Price.Int(), p.Version, p.DeletedAt,
		)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
				return ErrProductDuplicated
			}
			return fmt.Errorf("repository: failed to insert product %s for store %s: %w", p.ProductCode, s.ID, err)
		}

		for optIdx, opt := range p.Options {
			subOptions, err := json.Marshal(opt.SubOptions)
			if err != nil {
				return fmt.Errorf("repository: failed to encode sub options for product %s: %w", p.ProductCode, err)
			}
			_, err = tx.Exec(ctx, optionQuery,
				s.ID, idx, optIdx, opt.Name, opt.Price.Int(), subOptions, opt.DeletedAt,
			)
			if err != nil {
				return fmt.Errorf("repository: failed to insert option %d for product %s: %w", optIdx, p.ProductCode, err)
			}
		}
	}

	return nil
}

func (r *postgresRepository) loadOperations(ctx context.Context, s *Store) error {
	query := `
		SELECT day_of_week, start_hour, end_hour, break1_start, break1_end, break2_start, break2_end
		FROM store_operations
		WHERE store_id = $1
		ORDER BY operation_idx
	`
	rows, err := r.db.Query(ctx, query, s.ID)
	if err != nil {
		return fmt.Errorf("repository: failed to query operations for store %s: %w", s.ID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var dayOfWeek int
		var startRaw, endRaw, b1s, b1e, b2s, b2e *string
		if err := rows.Scan(&dayOfWeek, &startRaw, &endRaw, &b1s, &b1e, &b2s, &b2e); err != nil {
			return fmt.Errorf("repository: failed to scan operation for store %s: %w", s.ID, err)
		}

		op := Operation{DayOfWeek: time.Weekday(dayOfWeek)}
		if op.StartHour, err = timeValue(startRaw); err != nil {
			return err
		}
		if op.EndHour, err = timeValue(endRaw); err != nil {
			return err
		}
		if op.BreakHour1, err = breakValue(b1s, b1e); err != nil {
			return err
		}
		if op.BreakHour2, err = breakValue(b2s, b2e); err != nil {
			return err
		}

		s.Operations = append(s.Operations, op)
	}

	return rows.Err()
}

func (r *postgresRepository) loadCategories(ctx context.Context, s *Store) error {
	query := `
		SELECT category_id, deleted_at
		FROM store_categories
		WHERE store_id = $1
		ORDER BY category_idx
	`
	rows, err := r.db.Query(ctx, query, s.ID)
	if err != nil {
		return fmt.Errorf("repository: failed to query categories for store %s: %w", s.ID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var ref CategoryRef
		if err := rows.Scan(&ref.CategoryID, &ref.DeletedAt); err != nil {
			return fmt.Errorf("repository: failed to scan category ref for store %s: %w", s.ID, err)
		}
		s.Categories = append(s.Categories, ref)
	}

	return rows.Err()
}

func (r *postgresRepository) loadProducts(ctx context.Context, s *Store) error {
	query := `
		SELECT product_idx, product_code, category_id, status, name, price, version, deleted_at
		FROM products
		WHERE store_id = $1
		ORDER BY product_idx
	`
	rows, err := r.db.Query(ctx, query, s.ID)
	if err != nil {
		return fmt.Errorf("repository: failed to query products for store %s: %w", s.ID, err)
	}
	defer rows.Close()

	byIdx := make(map[int]int)
	for rows.Next() {
		var p Product
		var idx, price int
		var status string
		if err := rows.Scan(&idx, &p.ProductCode, &p.Category, &status, &p.Name, &price, &p.Version, &p.DeletedAt); err != nil {
			return fmt.Errorf("repository: failed to scan product for store %s: %w", s.ID, err)
		}
		p.Status = ProductStatus(status)
		p.Price = money.Price(price)

		byIdx[idx] = len(s.Products)
		s.Products = append(s.Products, p)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	optionQuery := `
		SELECT product_idx, name, price, sub_options, deleted_at
		FROM product_options
		WHERE store_id = $1
		ORDER BY product_idx, option_idx
	`
	optRows, err := r.db.Query(ctx, optionQuery, s.ID)
	if err != nil {
		return fmt.Errorf("repository: failed to query product options for store %s: %w", s.ID, err)
	}
	defer optRows.Close()

	for optRows.Next() {
		var idx, price int
		var opt Option
		var subOptions []byte
		if err := optRows.Scan(&idx, &opt.Name, &price, &subOptions, &opt.DeletedAt); err != nil {
			return fmt.Errorf("repository: failed to scan product option for store %s: %w", s.ID, err)
		}
		opt.Price = money.Price(price)
		if len(subOptions) > 0 {
			if err := json.Unmarshal(subOptions, &opt.SubOptions); err != nil {
				return fmt.Errorf("repository: failed to decode sub options for store %s: %w", s.ID, err)
			}
		}

		if pos, ok := byIdx[idx]; ok {
			s.Products[pos].Options = append(s.Products[pos].Options, opt)
		}
	}

	return optRows.Err()
}

// Search lists store summaries (without child collections) under the
// caller's visibility filter and the region/name/category predicates.
func (r *postgresRepository) Search(ctx context.Context, query SearchQuery, filter SearchFilter) ([]Store, error) {
	var conditions []string
	var args []interface{}

	arg := func(value interface{}) string {
		args = append(args, value)
		return fmt.Sprintf("$%d", len(args))
	}

	conditions = append(conditions, "deleted_at IS NULL")

	if !filter.Admin {
		visible := "status IN ('OPEN', 'PREPARING')"
		if filter.OwnerID != nil {
			conditions = append(conditions, fmt.Sprintf("(owner_id = %s OR %s)", arg(*filter.OwnerID), visible))
		} else {
			conditions = append(conditions, visible)
		}
	}

	// Districts cannot be queried alone; they are always prefixed with the
	// province and OR-combined.
	if query.Sido != "" {
		if len(query.Sigugun) > 0 {
			var area []string
			for _, sigugun := range query.Sigugun {
				area = append(area, fmt.Sprintf("address LIKE %s", arg(query.Sido+" "+sigugun+"%")))
			}
			conditions = append(conditions, "("+strings.Join(area, " OR ")+")")
		} else {
			conditions = append(conditions, fmt.Sprintf("address LIKE %s", arg(query.Sido+"%")))
		}
	}

	if query.StoreName != "" {
		conditions = append(conditions, fmt.Sprintf("store_name ILIKE %s", arg("%"+query.StoreName+"%")))
	}

	if query.Contact != "" {
		p := arg("%" + query.Contact + "%")
		conditions = append(conditions, fmt.Sprintf("(landline ILIKE %s OR email ILIKE %s)", p, p))
	}

	if query.Keyword != "" {
		p := arg("%" + query.Keyword + "%")
		conditions = append(conditions, fmt.Sprintf("(store_name ILIKE %s OR email ILIKE %s OR landline ILIKE %s)", p, p, p))
	}

	if len(query.CategoryIDs) > 0 {
		conditions = append(conditions, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM store_categories sc WHERE sc.store_id = stores.id AND sc.deleted_at IS NULL AND sc.category_id = ANY(%s))",
			arg(query.CategoryIDs),
		))
	}

	limit := query.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	sql := fmt.Sprintf(`
		SELECT id, status, owner_id, owner_name, store_name, landline, email, address, latitude, longitude, version, created_at, updated_at
		FROM stores
		WHERE %s
		ORDER BY created_at DESC
		LIMIT %s OFFSET %s
	`, strings.Join(conditions, " AND "), arg(limit), arg(query.Offset))

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to search stores: %w", err)
	}
	defer rows.Close()

	stores := make([]Store, 0)
	for rows.Next() {
		var s Store
		var status string
		err := rows.Scan(
			&s.ID, &status, &s.Owner.ID, &s.Owner.Name, &s.Name,
			&s.Contact.Landline, &s.Contact.Email,
			&s.Location.Address, &s.Location.Latitude, &s.Location.Longitude,
			&s.Version, &s.CreatedAt, &s.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan store row: %w", err)
		}
		s.Status = StoreStatus(status)
		stores = append(stores, s)
	}

	return stores, rows.Err()
}

func timeColumn(t *TimeOfDay) *string {
	if t == nil {
		return nil
	}
	raw := t.String()
	return &raw
}

func timeValue(raw *string) (*TimeOfDay, error) {
	if raw == nil {
		return nil, nil
	}
	t, err := ParseTimeOfDay(*raw)
	if err != nil {
		return nil, fmt.Errorf("repository: %w", err)
	}
	return &t, nil
}

func breakColumns(b *BreakTime) (*string, *string) {
	if b == nil {
		return nil, nil
	}
	start := b.Start.String()
	end := b.End.String()
	return &start, &end
}

func breakValue(startRaw, endRaw *string) (*BreakTime, error) {
	if startRaw == nil || endRaw == nil {
		return nil, nil
	}
	start, err := ParseTimeOfDay(*startRaw)
	if err != nil {
		return nil, fmt.Errorf("repository: %w", err)
	}
	end, err := ParseTimeOfDay(*endRaw)
	if err != nil {
		return nil, fmt.Errorf("repository: %w", err)
	}
	return &BreakTime{Start: start, End: end}, nil
}
