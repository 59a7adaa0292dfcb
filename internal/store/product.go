package store

import (
	"time"

	"github.com/gofrs/uuid"
	"github.com/yonggyo1125/delivery-6h/internal/money"
)

// Product is a store menu entry. It is mutated only through its owning Store;
// soft-deleted products and options keep their list positions.
type Product struct {
	ProductCode string
	Category    uuid.UUID
	Status      ProductStatus
	Name        string
	Price       money.Price
	Options     []Option
	Version     int
	DeletedAt   *time.Time
}

func newProduct(categoryID uuid.UUID, productCode, name string, price money.Price, options []Option) Product {
	p := Product{
		ProductCode: productCode,
		Category:    categoryID,
		Status:      ProductReady,
		Name:        name,
		Price:       price,
	}
	p.Options = append(p.Options, options...)

	return p
}

// Remove soft-deletes the product and cascades to its options.
func (p *Product) Remove(now time.Time) {
	if p.DeletedAt == nil {
		p.DeletedAt = &now
	}
	for i := range p.Options {
		p.Options[i].remove(now)
	}
}

// CreateOptions appends options. A nil or empty list is a no-op.
func (p *Product) CreateOptions(options []Option) {
	if len(options) == 0 {
		return
	}
	p.Options = append(p.Options, options...)
}

func (p *Product) CreateOption(name string, price money.Price, subOptions []SubOption) {
	p.Options = append(p.Options, Option{Name: name, Price: price, SubOptions: subOptions})
}

// RemoveOptions soft-deletes options at the given positions. Out-of-range
// positions are ignored.
func (p *Product) RemoveOptions(indexes []int, now time.Time) {
	for _, idx := range indexes {
		if idx >= 0 && idx < len(p.Options) {
			p.Options[idx].remove(now)
		}
	}
}

func (p *Product) RemoveOption(index int, now time.Time) {
	p.RemoveOptions([]int{index}, now)
}

// TruncateOptions soft-deletes every remaining option.
func (p *Product) TruncateOptions(now time.Time) {
	for i := range p.Options {
		p.Options[i].remove(now)
	}
}

// ReplaceOptions is truncate followed by create: the active option set ends
// up depending only on the new list.
func (p *Product) ReplaceOptions(options []Option, now time.Time) {
	p.TruncateOptions(now)
	p.CreateOptions(options)
}

// ActiveOptions returns the options that have not been soft-deleted.
func (p *Product) ActiveOptions() []Option {
	active := make([]Option, 0, len(p.Options))
	for _, opt := range p.Options {
		if opt.DeletedAt == nil {
			active = append(active, opt)
		}
	}
	return active
}

// changeStatus is invoked only through the store's product-status use-case.
func (p *Product) changeStatus(status ProductStatus) {
	p.Status = status
}

// IsOrderable reports whether the product can be put on an order.
func (p *Product) IsOrderable() bool {
	return p.Status == ProductSale && p.DeletedAt == nil
}

// IsVisible reports whether the product appears in the menu. READY products
// are still being prepared and stay hidden; STOCK_OUT ones show but cannot
// be ordered.
func (p *Product) IsVisible() bool {
	return p.DeletedAt == nil && p.Status != ProductReady
}
