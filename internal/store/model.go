package store

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid"
	"github.com/yonggyo1125/delivery-6h/internal/money"
)

var (
	ErrStoreNotFound     = errors.New("store not found")
	ErrProductNotFound   = errors.New("product not found")
	ErrProductDuplicated = errors.New("product code already exists in store")
	ErrVersionConflict   = errors.New("store was modified concurrently, reload and retry")
)

type StoreStatus string

const (
	StatusPreparing StoreStatus = "PREPARING"
	StatusOpen      StoreStatus = "OPEN"
	StatusClosed    StoreStatus = "CLOSED"
	StatusDefunct   StoreStatus = "DEFUNCT"
)

func (s StoreStatus) String() string {
	return string(s)
}

func ParseStoreStatus(raw string) (StoreStatus, error) {
	switch StoreStatus(raw) {
	case StatusPreparing, StatusOpen, StatusClosed, StatusDefunct:
		return StoreStatus(raw), nil
	}
	return "", fmt.Errorf("unknown store status %q", raw)
}

type ProductStatus string

const (
	ProductReady    ProductStatus = "READY"
	ProductSale     ProductStatus = "SALE"
	ProductStockOut ProductStatus = "STOCK_OUT"
)

func (s ProductStatus) String() string {
	return string(s)
}

func ParseProductStatus(raw string) (ProductStatus, error) {
	switch ProductStatus(raw) {
	case ProductReady, ProductSale, ProductStockOut:
		return ProductStatus(raw), nil
	}
	return "", fmt.Errorf("unknown product status %q", raw)
}

// TimeOfDay is a wall-clock time without a date, used by operating schedules.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseTimeOfDay parses "15:04" formatted values.
func ParseTimeOfDay(raw string) (TimeOfDay, error) {
	t, err := time.Parse("15:04", raw)
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("invalid time of day %q: %w", raw, err)
	}
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}, nil
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// on anchors the time of day to the calendar date of base.
func (t TimeOfDay) on(base time.Time) time.Time {
	return time.Date(base.Year(), base.Month(), base.Day(), t.Hour, t.Minute, 0, 0, base.Location())
}

// BreakTime is a pause inside an operating window during which orders are
// rejected.
type BreakTime struct {
	Start TimeOfDay
	End   TimeOfDay
}

// Operation is one weekly schedule entry. Nil start and end hours mean the
// store is open all day on that weekday; a half-set pair is treated the same
// as unset.
type Operation struct {
	DayOfWeek  time.Weekday
	StartHour  *TimeOfDay
	EndHour    *TimeOfDay
	BreakHour1 *BreakTime
	BreakHour2 *BreakTime
}

type Owner struct {
	ID   uuid.UUID
	Name string
}

type Contact struct {
	Landline string
	Email    string
}

type Location struct {
	Address   string
	Latitude  float64
	Longitude float64
}

// CategoryRef links a store to a taxonomy category. Removal is a soft delete
// so the ordering of surviving entries never shifts.
type CategoryRef struct {
	CategoryID uuid.UUID
	DeletedAt  *time.Time
}

type SubOption struct {
	Name     string      `json:"name"`
	AddPrice money.Price `json:"add_price"`
}

// Option is a product option. Soft-deleted options stay in the list to keep
// positional indexes stable.
type Option struct {
	Name       string
	Price      money.Price
	SubOptions []SubOption
	DeletedAt  *time.Time
}

func (o *Option) remove(now time.Time) {
	if o.DeletedAt == nil {
		o.DeletedAt = &now
	}
}

// Store is the aggregate root owning categories, operating schedules and
// products. Every mutation re-validates caller authority; concurrent writes
// are detected by the version token at persistence time.
type Store struct {
	ID         uuid.UUID
	Status     StoreStatus
	Owner      Owner
	Name       string
	Contact    Contact
	Location   Location
	Operations []Operation
	Categories []CategoryRef
	Products   []Product
	Version    int
	CreatedAt  time.Time
	UpdatedAt  time.Time
	DeletedAt  *time.Time
}

// IsVisible reports whether the store may appear in normal listings.
func (s *Store) IsVisible() bool {
	return s.Status == StatusOpen || s.Status == StatusPreparing
}
