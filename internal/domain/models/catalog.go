package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Ingredient is a raw material consumed by product recipes.
type Ingredient struct {
	ID            int64           `bson:"_id" json:"id"`
	Name          string          `bson:"name" json:"name"`
	UnitCost      decimal.Decimal `bson:"unit_cost" json:"unit_cost"`
	Unit          string          `bson:"unit" json:"unit"`
	StockQuantity decimal.Decimal `bson:"stock_quantity" json:"stock_quantity"`
	ReorderLevel  decimal.Decimal `bson:"reorder_level" json:"reorder_level"`
	Supplier      string          `bson:"supplier,omitempty" json:"supplier,omitempty"`
}

// RecipeLine is the quantity of one ingredient needed for a single product unit.
type RecipeLine struct {
	IngredientID    int64           `bson:"ingredient_id" json:"ingredient_id"`
	QuantityPerUnit decimal.Decimal `bson:"quantity_per_unit" json:"quantity_per_unit"`
}

// Product is a sellable catalog item with its recipe.
type Product struct {
	ID           int64           `bson:"_id" json:"id"`
	Name         string          `bson:"name" json:"name"`
	SellingPrice decimal.Decimal `bson:"selling_price" json:"selling_price"`
	Category     string          `bson:"category" json:"category"`
	SKU          string          `bson:"sku,omitempty" json:"sku,omitempty"`
	Recipe       []RecipeLine    `bson:"recipe" json:"recipe"`
}

// Validate checks the rules enforced when a product is created.
func (p Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return invalid("product", p.ID, "name", "is required")
	}
	if !p.SellingPrice.IsPositive() {
		return invalid("product", p.ID, "selling_price", "must be greater than 0")
	}
	for _, line := range p.Recipe {
		if line.QuantityPerUnit.IsNegative() {
			return invalid("product", p.ID, "recipe", "quantity per unit must not be negative")
		}
	}
	return nil
}
