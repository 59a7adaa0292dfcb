package store_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/yonggyo1125/delivery-6h/internal/store"
)

func activeOptionNames(p *store.Product) []string {
	names := make([]string, 0)
	for _, opt := range p.ActiveOptions() {
		names = append(names, opt.Name)
	}
	return names
}

func TestProduct_CreateOptions(t *testing.T) {
	p := &store.Product{}

	p.CreateOptions(nil)
	assert.Empty(t, p.Options, "nil option list is a no-op")

	p.CreateOptions([]store.Option{})
	assert.Empty(t, p.Options, "empty option list is a no-op")

	p.CreateOptions([]store.Option{{Name: "Extra Sauce", Price: 500}})
	assert.Equal(t, []string{"Extra Sauce"}, activeOptionNames(p))
}

func TestProduct_RemoveOptions(t *testing.T) {
	now := time.Now()
	p := &store.Product{Options: []store.Option{
		{Name: "A"}, {Name: "B"}, {Name: "C"},
	}}

	p.RemoveOptions([]int{1, 7, -1}, now)

	assert.Equal(t, []string{"A", "C"}, activeOptionNames(p), "out-of-range indexes are ignored")
	assert.Len(t, p.Options, 3, "soft delete keeps the positional list intact")
	assert.NotNil(t, p.Options[1].DeletedAt)
}

func TestProduct_ReplaceOptionsEquivalence(t *testing.T) {
	now := time.Now()
	prior := []store.Option{{Name: "Old 1", Price: 100}, {Name: "Old 2", Price: 200}}
	replacement := []store.Option{{Name: "New", Price: 300}}

	replaced := &store.Product{Options: append([]store.Option(nil), prior...)}
	replaced.ReplaceOptions(append([]store.Option(nil), replacement...), now)

	stepwise := &store.Product{Options: append([]store.Option(nil), prior...)}
	stepwise.TruncateOptions(now)
	stepwise.CreateOptions(append([]store.Option(nil), replacement...))

	assert.Equal(t, stepwise.ActiveOptions(), replaced.ActiveOptions())
	assert.Equal(t, []string{"New"}, activeOptionNames(replaced), "final state depends only on the new list")

	// replacing from a different prior state converges on the same active set
	other := &store.Product{}
	other.ReplaceOptions(append([]store.Option(nil), replacement...), now)
	assert.Equal(t, replaced.ActiveOptions(), other.ActiveOptions())
}

func TestProduct_RemoveCascadesToOptions(t *testing.T) {
	now := time.Now()
	p := &store.Product{
		Status:  store.ProductSale,
		Options: []store.Option{{Name: "A"}, {Name: "B"}},
	}

	p.Remove(now)

	assert.NotNil(t, p.DeletedAt)
	assert.Empty(t, p.ActiveOptions())
}

func TestProduct_Predicates(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name          string
		status        store.ProductStatus
		deleted       bool
		wantOrderable bool
		wantVisible   bool
	}{
		{name: "ready_hidden_not_orderable", status: store.ProductReady, wantOrderable: false, wantVisible: false},
		{name: "sale_visible_and_orderable", status: store.ProductSale, wantOrderable: true, wantVisible: true},
		{name: "stock_out_visible_not_orderable", status: store.ProductStockOut, wantOrderable: false, wantVisible: true},
		{name: "deleted_sale_neither", status: store.ProductSale, deleted: true, wantOrderable: false, wantVisible: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &store.Product{Status: tt.status}
			if tt.deleted {
				p.DeletedAt = &now
			}
			assert.Equal(t, tt.wantOrderable, p.IsOrderable())
			assert.Equal(t, tt.wantVisible, p.IsVisible())
		})
	}
}
