package models

import "github.com/shopspring/decimal"

// Owner holds a share of the business and receives ProfitSharePercent of net profit.
type Owner struct {
	ID                 int64           `bson:"_id" json:"id"`
	Name               string          `bson:"name" json:"name"`
	ShareCapital       decimal.Decimal `bson:"share_capital" json:"share_capital"`
	ProfitSharePercent decimal.Decimal `bson:"profit_share_percent" json:"profit_share_percent"`
}

var hundred = decimal.NewFromInt(100)

// Validate checks the percentage bounds. Whether all owners sum to 100 is a
// collection-level concern.
func (o Owner) Validate() error {
	if o.ProfitSharePercent.IsNegative() || o.ProfitSharePercent.GreaterThan(hundred) {
		return invalid("owner", o.ID, "profit_share_percent", "must be between 0 and 100")
	}
	return nil
}
