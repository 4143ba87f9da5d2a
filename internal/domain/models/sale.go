package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale records units of a product sold at a given unit price. ProductName and
// UnitPrice are snapshots taken at sale time.
type Sale struct {
	ID           int64           `bson:"_id" json:"id"`
	ProductID    int64           `bson:"product_id" json:"product_id"`
	ProductName  string          `bson:"product_name" json:"product_name"`
	Quantity     int             `bson:"quantity" json:"quantity"`
	UnitPrice    decimal.Decimal `bson:"unit_price" json:"unit_price"`
	Amount       decimal.Decimal `bson:"amount" json:"amount"`
	Date         time.Time       `bson:"date" json:"date"`
	CustomerName string          `bson:"customer_name,omitempty" json:"customer_name,omitempty"`
	Reference    string          `bson:"reference,omitempty" json:"reference,omitempty"`
}

// NewSale builds a sale with Amount = quantity x unitPrice.
func NewSale(id int64, product Product, quantity int, date time.Time) Sale {
	return Sale{
		ID:          id,
		ProductID:   product.ID,
		ProductName: product.Name,
		Quantity:    quantity,
		UnitPrice:   product.SellingPrice,
		Amount:      product.SellingPrice.Mul(decimal.NewFromInt(int64(quantity))),
		Date:        date,
	}
}

// Validate checks the rules enforced when a sale is recorded.
func (s Sale) Validate() error {
	if s.ProductID == 0 {
		return invalid("sale", s.ID, "product_id", "is required")
	}
	if s.Quantity <= 0 {
		return invalid("sale", s.ID, "quantity", "must be greater than 0")
	}
	if !s.UnitPrice.Mul(decimal.NewFromInt(int64(s.Quantity))).Equal(s.Amount) {
		return invalid("sale", s.ID, "amount", "must equal quantity x unit price")
	}
	if s.Date.IsZero() {
		return invalid("sale", s.ID, "date", "is required")
	}
	return nil
}
