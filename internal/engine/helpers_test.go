package engine

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mamadbah2/smallerp/internal/domain/models"
)

var tolerance = decimal.New(1, -9)

func dec(value string) decimal.Decimal { return decimal.RequireFromString(value) }

func day(value string) time.Time {
	t, err := time.Parse(models.DateLayout, value)
	if err != nil {
		panic(err)
	}
	return t
}

func assertDecimal(t *testing.T, name string, got decimal.Decimal, want string) {
	t.Helper()
	if got.Sub(dec(want)).Abs().GreaterThan(tolerance) {
		t.Fatalf("%s = %s, want %s", name, got.String(), want)
	}
}

func newSale(id int64, p models.Product, qty int, date string) models.Sale {
	return models.NewSale(id, p, qty, day(date))
}

var (
	beans = models.Ingredient{ID: 1, Name: "Coffee Beans", UnitCost: dec("8.50"), Unit: "kg"}

	espresso = models.Product{
		ID: 1, Name: "Espresso", SellingPrice: dec("50"), Category: "Coffee",
		Recipe: []models.RecipeLine{{IngredientID: 1, QuantityPerUnit: dec("0.02")}},
	}
	greenTea = models.Product{ID: 2, Name: "Green Tea", SellingPrice: dec("40"), Category: "Tea"}
	cookie   = models.Product{
		ID: 3, Name: "Cookie", SellingPrice: dec("10"),
		Recipe: []models.RecipeLine{{IngredientID: 1, QuantityPerUnit: dec("1")}},
	}
)

// thirtyDays is 2024-01-01T00:00Z .. 2024-01-31T00:00Z.
var thirtyDays = models.Period{Start: day("2024-01-01"), End: day("2024-01-31")}

// fixture: espresso sells 6 units (300) and tea 4 units (160) inside thirtyDays;
// variable expenses are 100 and monthly overhead is 300.
func fixture() Snapshot {
	return Snapshot{
		Ingredients: []models.Ingredient{beans},
		Products:    []models.Product{espresso, greenTea, cookie},
		Sales: []models.Sale{
			newSale(1, espresso, 2, "2024-01-05"),
			newSale(2, espresso, 4, "2024-01-20"),
			newSale(3, greenTea, 1, "2024-01-10"),
			newSale(4, greenTea, 3, "2024-01-30"),
			newSale(5, espresso, 10, "2024-02-15"),
		},
		Expenses: []models.Expense{
			{ID: 1, Type: models.ExpenseUtilities, Amount: dec("100"), Date: day("2024-01-12")},
			{ID: 2, Type: models.ExpenseRent, Amount: dec("500"), Date: day("2024-01-01")},
			{ID: 3, Type: models.ExpenseMarketing, Amount: dec("50"), Date: day("2024-02-03")},
		},
		Bills: []models.MonthlyBill{
			{ID: 1, Name: "Shop Rent", EstimatedAmount: dec("300"), IsActive: true, BillType: models.BillFixed, DueDay: 1},
			{ID: 2, Name: "Old Lease", EstimatedAmount: dec("1000"), IsActive: false, BillType: models.BillFixed, DueDay: 1},
		},
		BillPayments: []models.BillPayment{
			{ID: 1, BillID: 1, ActualAmount: dec("310"), PaidDate: day("2024-01-02"), Month: "2024-01"},
		},
	}
}
