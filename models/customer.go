package models

import "time"

// Customer statuses
const (
	CustomerActive   = "Active"
	CustomerInactive = "Inactive"
)

// Customer is a household or shop on a delivery route.
// Dues is the materialized running balance; positive means the customer owes money.
type Customer struct {
	ID        string         `gorm:"primaryKey;size:64" json:"id"`
	TenantID  uint           `gorm:"not null;index;uniqueIndex:idx_customers_tenant_phone;uniqueIndex:idx_customers_tenant_code" json:"-"`
	Code      string         `gorm:"size:32;not null;uniqueIndex:idx_customers_tenant_code" json:"code"`
	Name      string         `gorm:"not null" json:"name"`
	Phone     string         `gorm:"size:20;not null;uniqueIndex:idx_customers_tenant_phone" json:"phone"`
	Address   string         `json:"address"`
	Dues      float64        `gorm:"not null;default:0" json:"dues"`
	Status    string         `gorm:"size:20;not null;default:'Active'" json:"status"`
	Rates     []CustomerRate `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

// TableName specifies the table name for the Customer model
func (Customer) TableName() string {
	return "customers"
}

// CustomRates returns the customer's per-product rates keyed by product ID
func (c Customer) CustomRates() map[string]float64 {
	rates := make(map[string]float64, len(c.Rates))
	for _, r := range c.Rates {
		rates[r.ProductID] = r.Rate
	}
	return rates
}

// CustomerRate overrides a product's standard price for one customer
type CustomerRate struct {
	ID         uint    `gorm:"primaryKey" json:"-"`
	TenantID   uint    `gorm:"not null;index" json:"-"`
	CustomerID string  `gorm:"size:64;not null;uniqueIndex:idx_customer_rates_customer_product" json:"customerId"`
	ProductID  string  `gorm:"size:64;not null;uniqueIndex:idx_customer_rates_customer_product" json:"productId"`
	Rate       float64 `gorm:"not null" json:"rate"`
}

// TableName specifies the table name for the CustomerRate model
func (CustomerRate) TableName() string {
	return "customer_rates"
}

// CustomerView is the customer shape the client app consumes
type CustomerView struct {
	ID          string             `json:"id"`
	Code        string             `json:"code"`
	Name        string             `json:"name"`
	Phone       string             `json:"phone"`
	Address     string             `json:"address"`
	Dues        float64            `json:"dues"`
	Status      string             `json:"status"`
	CustomRates map[string]float64 `json:"customRates"`
}

// View flattens the customer with its custom rates
func (c Customer) View() CustomerView {
	return CustomerView{
		ID:          c.ID,
		Code:        c.Code,
		Name:        c.Name,
		Phone:       c.Phone,
		Address:     c.Address,
		Dues:        c.Dues,
		Status:      c.Status,
		CustomRates: c.CustomRates(),
	}
}
