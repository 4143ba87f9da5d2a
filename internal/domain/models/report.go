package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// MonthlyReport represents the aggregated monthly figures archived in MongoDB.
type MonthlyReport struct {
	Month       Month             `bson:"month" json:"month"`
	Revenue     decimal.Decimal   `bson:"revenue" json:"revenue"`
	Costs       decimal.Decimal   `bson:"costs" json:"costs"`
	NetProfit   decimal.Decimal   `bson:"net_profit" json:"net_profit"`
	Margin      decimal.Decimal   `bson:"margin" json:"margin"`
	UnitsSold   int               `bson:"units_sold" json:"units_sold"`
	Orders      int               `bson:"orders" json:"orders"`
	OwnerShares []OwnerShareEntry `bson:"owner_shares" json:"owner_shares"`
	GeneratedAt time.Time         `bson:"generated_at" json:"generated_at"`
}

// OwnerShareEntry is one owner's slice of a report's net profit.
type OwnerShareEntry struct {
	OwnerID int64           `bson:"owner_id" json:"owner_id"`
	Name    string          `bson:"name" json:"name"`
	Percent decimal.Decimal `bson:"percent" json:"percent"`
	Amount  decimal.Decimal `bson:"amount" json:"amount"`
}
