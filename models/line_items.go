package models

import (
	"database/sql/driver"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// LineItem is one product line on an order, priced at the time of the order.
// ProductID is empty on legacy rows, which are matched to products by name.
type LineItem struct {
	ProductID string  `json:"productId,omitempty"`
	Name      string  `json:"name"`
	Quantity  float64 `json:"quantity"`
	Price     float64 `json:"price"`
}

// Amount is quantity times unit price
func (li LineItem) Amount() float64 {
	return li.Quantity * li.Price
}

// LineItems is the ordered item list of an order, persisted as a JSON column
// (jsonb on PostgreSQL) through datatypes.JSONSlice
type LineItems []LineItem

// Total sums the amount of every line
func (items LineItems) Total() float64 {
	var total float64
	for _, li := range items {
		total += li.Amount()
	}
	return total
}

// Value implements driver.Valuer. A nil list is stored as [] rather than null.
func (items LineItems) Value() (driver.Value, error) {
	if items == nil {
		items = LineItems{}
	}
	return datatypes.JSONSlice[LineItem](items).Value()
}

// Scan implements sql.Scanner. A stored list that cannot be decoded reads as
// empty instead of failing the whole row.
func (items *LineItems) Scan(value interface{}) error {
	var decoded datatypes.JSONSlice[LineItem]
	if err := decoded.Scan(value); err != nil || decoded == nil {
		*items = LineItems{}
		return nil
	}
	*items = LineItems(decoded)
	return nil
}

// GormDataType reports the generic column type
func (LineItems) GormDataType() string {
	return datatypes.JSONSlice[LineItem]{}.GormDataType()
}

// GormDBDataType picks the column type per dialect
func (items LineItems) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	return datatypes.JSONSlice[LineItem](items).GormDBDataType(db, field)
}
