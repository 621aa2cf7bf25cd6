package models

import (
	"testing"
	"time"

	"github.com/dairymanager/dairy-api/timeutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestLineItemsTotal(t *testing.T) {
	items := LineItems{
		{Name: "A", Quantity: 2, Price: 10},
		{Name: "B", Quantity: 1, Price: 20},
		{Name: "Curd Loose", Quantity: 0.5, Price: 50},
	}
	assert.InDelta(t, 65.0, items.Total(), 1e-9)
	assert.Zero(t, LineItems{}.Total())
	assert.Zero(t, LineItems(nil).Total())
}

func TestLineItemsValue(t *testing.T) {
	v, err := LineItems(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", v)

	v, err = LineItems{{ProductID: "p1", Name: "FCM 1L", Quantity: 2, Price: 70}}.Value()
	require.NoError(t, err)
	assert.JSONEq(t, `[{"productId":"p1","name":"FCM 1L","quantity":2,"price":70}]`, v.(string))
}

func TestLineItemsScan(t *testing.T) {
	tests := []struct {
		name  string
		value interface{}
		want  LineItems
	}{
		{
			name:  "json text",
			value: `[{"productId":"p1","name":"FCM 1L","quantity":2,"price":70}]`,
			want:  LineItems{{ProductID: "p1", Name: "FCM 1L", Quantity: 2, Price: 70}},
		},
		{
			name:  "json bytes without product id",
			value: []byte(`[{"name":"Curd","quantity":1,"price":25}]`),
			want:  LineItems{{Name: "Curd", Quantity: 1, Price: 25}},
		},
		{name: "malformed json", value: `[{"name":`, want: LineItems{}},
		{name: "json null", value: `null`, want: LineItems{}},
		{name: "wrong shape", value: `{"name":"x"}`, want: LineItems{}},
		{name: "sql null", value: nil, want: LineItems{}},
		{name: "unexpected type", value: 42, want: LineItems{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var items LineItems
			require.NoError(t, items.Scan(tt.value))
			assert.Equal(t, tt.want, items)
		})
	}
}

func TestLineItemsColumn(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Order{}))

	order := Order{
		ID:         "order-1",
		TenantID:   1,
		CustomerID: "cust-1",
		Date:       timeutil.NewDate(2024, time.January, 15),
		Status:     OrderDraft,
		Items:      LineItems{{ProductID: "p1", Name: "FCM 1L", Quantity: 2, Price: 70}},
	}
	require.NoError(t, db.Create(&order).Error)

	var loaded Order
	require.NoError(t, db.First(&loaded, "id = ?", order.ID).Error)
	assert.Equal(t, order.Items, loaded.Items)

	// a corrupted row still loads, with no items
	require.NoError(t, db.Exec("UPDATE orders SET items = ? WHERE id = ?", `[{"name":`, order.ID).Error)
	require.NoError(t, db.First(&loaded, "id = ?", order.ID).Error)
	assert.Equal(t, LineItems{}, loaded.Items)
}
