package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func detailFor(productID int64, price float64, quantity int64) Detail {
	return Detail{
		Product:   Product{ID: productID},
		UnitPrice: price,
		Quantity:  quantity,
	}
}

func TestReconcileDetails(t *testing.T) {
	tests := []struct {
		name       string
		persisted  []Detail
		submitted  []Detail
		wantRemove []int64
		wantUpdate []int64
		wantInsert []int64
	}{
		{
			name:       "update_delete_insert",
			persisted:  []Detail{detailFor(1, 10, 1), detailFor(2, 20, 2)},
			submitted:  []Detail{detailFor(1, 11, 3), detailFor(3, 30, 1)},
			wantRemove: []int64{2},
			wantUpdate: []int64{1},
			wantInsert: []int64{3},
		},
		{
			name:       "all_new",
			persisted:  nil,
			submitted:  []Detail{detailFor(5, 1, 1), detailFor(6, 1, 1)},
			wantInsert: []int64{5, 6},
		},
		{
			name:       "all_removed",
			persisted:  []Detail{detailFor(5, 1, 1), detailFor(6, 1, 1)},
			submitted:  nil,
			wantRemove: []int64{5, 6},
		},
		{
			name:       "identical_sets_update_in_place",
			persisted:  []Detail{detailFor(7, 1, 1)},
			submitted:  []Detail{detailFor(7, 2, 2)},
			wantUpdate: []int64{7},
		},
		{
			name: "empty_both",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			changes := reconcileDetails(tt.persisted, tt.submitted)

			assert.Equal(t, tt.wantRemove, changes.remove)

			updateIDs := productIDs(changes.update)
			assert.Equal(t, tt.wantUpdate, updateIDs)

			insertIDs := productIDs(changes.insert)
			assert.Equal(t, tt.wantInsert, insertIDs)
		})
	}
}

func TestReconcileDetailsKeepsSubmittedValues(t *testing.T) {
	persisted := []Detail{detailFor(1, 10, 5)}
	submitted := []Detail{{Product: Product{ID: 1}, UnitPrice: 12.5, Quantity: 7, Discount: 0.1}}

	changes := reconcileDetails(persisted, submitted)

	if assert.Len(t, changes.update, 1) {
		assert.Equal(t, 12.5, changes.update[0].UnitPrice)
		assert.Equal(t, int64(7), changes.update[0].Quantity)
		assert.Equal(t, 0.1, changes.update[0].Discount)
	}
}

func productIDs(details []Detail) []int64 {
	var ids []int64
	for _, d := range details {
		ids = append(ids, d.Product.ID)
	}
	return ids
}

func TestDetailValidate(t *testing.T) {
	tests := []struct {
		name    string
		detail  Detail
		wantErr bool
	}{
		{name: "valid", detail: Detail{Product: Product{ID: 1}, UnitPrice: 10, Quantity: 2, Discount: 0.5}},
		{name: "zero_price_ok", detail: Detail{Product: Product{ID: 1}, UnitPrice: 0, Quantity: 1}},
		{name: "discount_bounds_ok", detail: Detail{Product: Product{ID: 1}, UnitPrice: 1, Quantity: 1, Discount: 1}},
		{name: "negative_price", detail: Detail{Product: Product{ID: 1}, UnitPrice: -0.01, Quantity: 1}, wantErr: true},
		{name: "zero_quantity", detail: Detail{Product: Product{ID: 1}, UnitPrice: 1, Quantity: 0}, wantErr: true},
		{name: "negative_quantity", detail: Detail{Product: Product{ID: 1}, UnitPrice: 1, Quantity: -1}, wantErr: true},
		{name: "discount_too_large", detail: Detail{Product: Product{ID: 1}, UnitPrice: 1, Quantity: 1, Discount: 1.01}, wantErr: true},
		{name: "negative_discount", detail: Detail{Product: Product{ID: 1}, UnitPrice: 1, Quantity: 1, Discount: -0.1}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.detail.validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidDetail)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
