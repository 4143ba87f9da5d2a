package memory

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mamadbah2/smallerp/internal/domain/models"
	"github.com/mamadbah2/smallerp/internal/engine"
)

// NewDemo returns a store seeded with a small coffee shop's books covering
// October to December 2024.
func NewDemo() *Store {
	return New(DemoSnapshot())
}

// DemoSnapshot builds the coffee shop data set.
func DemoSnapshot() engine.Snapshot {
	d := decimal.RequireFromString

	ingredients := []models.Ingredient{
		{ID: 1, Name: "Coffee Beans", UnitCost: d("8.50"), Unit: "kg", StockQuantity: d("100"), ReorderLevel: d("10"), Supplier: "Premium Coffee Co."},
		{ID: 2, Name: "Milk", UnitCost: d("3.20"), Unit: "liter", StockQuantity: d("50"), ReorderLevel: d("15"), Supplier: "Local Dairy Farm"},
		{ID: 3, Name: "Sugar", UnitCost: d("2.10"), Unit: "kg", StockQuantity: d("25"), ReorderLevel: d("5"), Supplier: "Sweet Supply Inc."},
		{ID: 4, Name: "Vanilla Syrup", UnitCost: d("12.00"), Unit: "bottle", StockQuantity: d("15"), ReorderLevel: d("3"), Supplier: "Flavor Masters"},
	}

	line := func(id int64, qty string) models.RecipeLine {
		return models.RecipeLine{IngredientID: id, QuantityPerUnit: d(qty)}
	}
	products := []models.Product{
		{ID: 1, Name: "Cappuccino", SellingPrice: d("4.50"), Category: "Coffee", SKU: "CAP001",
			Recipe: []models.RecipeLine{line(1, "0.02"), line(2, "0.15"), line(3, "0.01")}},
		{ID: 2, Name: "Latte", SellingPrice: d("5.00"), Category: "Coffee", SKU: "LAT001",
			Recipe: []models.RecipeLine{line(1, "0.02"), line(2, "0.2"), line(3, "0.01")}},
		{ID: 3, Name: "Espresso", SellingPrice: d("3.50"), Category: "Coffee", SKU: "ESP001",
			Recipe: []models.RecipeLine{line(1, "0.015"), line(3, "0.005")}},
	}

	sales := make([]models.Sale, 0, 13)
	for i, s := range []struct {
		product  int
		qty      int
		date     string
		customer string
	}{
		{0, 25, "2024-12-01", "John Doe"},
		{1, 18, "2024-12-02", "Jane Smith"},
		{0, 30, "2024-12-03", "Mike Johnson"},
		{1, 22, "2024-12-04", "Sarah Wilson"},
		{2, 15, "2024-12-05", "Tom Brown"},
		{0, 20, "2024-12-06", "Lisa Davis"},
		{1, 12, "2024-12-07", "Chris Wilson"},
		{2, 8, "2024-12-08", "Anna Miller"},
		{0, 35, "2024-11-28", "Robert Taylor"},
		{1, 28, "2024-11-29", "Emma Johnson"},
		{2, 12, "2024-11-30", "Mark Davis"},
		{0, 40, "2024-10-15", "Linda Brown"},
		{1, 25, "2024-10-16", "Paul Wilson"},
	} {
		sale := models.NewSale(int64(i+1), products[s.product], s.qty, demoDate(s.date))
		sale.CustomerName = s.customer
		sale.Reference = fmt.Sprintf("INV-%03d", i+1)
		sales = append(sales, sale)
	}

	employees := []models.Employee{
		{ID: 1, Name: "John Doe", Position: "Barista", BaseSalary: d("2500"), SalaryType: models.SalaryMonthly},
		{ID: 2, Name: "Jane Smith", Position: "Manager", BaseSalary: d("3500"), SalaryType: models.SalaryMonthly},
		{ID: 3, Name: "Mike Wilson", Position: "Assistant", BaseSalary: d("2200"), SalaryType: models.SalaryMonthly},
	}

	adjustments := []models.SalaryAdjustment{
		{ID: 1, EmployeeID: 1, Amount: d("200"), Type: models.AdjustmentBonus, Month: "2024-12", Reason: "Excellent performance", CreatedAt: demoDate("2024-12-01")},
		{ID: 2, EmployeeID: 2, Amount: d("300"), Type: models.AdjustmentOvertime, Month: "2024-12", Reason: "Extra hours worked", CreatedAt: demoDate("2024-12-05")},
		{ID: 3, EmployeeID: 3, Amount: d("100"), Type: models.AdjustmentDeduction, Month: "2024-12", Reason: "Late arrival", CreatedAt: demoDate("2024-12-10")},
		{ID: 4, EmployeeID: 1, Amount: d("150"), Type: models.AdjustmentBonus, Month: "2024-11", Reason: "Customer service", CreatedAt: demoDate("2024-11-15")},
	}

	expenses := []models.Expense{
		{ID: 1, Type: models.ExpenseRent, Description: "Monthly Rent", Amount: d("2000"), Date: demoDate("2024-12-01"), Category: "Fixed"},
		{ID: 2, Type: models.ExpenseUtilities, Description: "Electricity Bill", Amount: d("300"), Date: demoDate("2024-12-01"), Category: "Utilities"},
		{ID: 3, Type: models.ExpenseMarketing, Description: "Social Media Ads", Amount: d("500"), Date: demoDate("2024-12-02"), Category: "Marketing"},
		{ID: 4, Type: models.ExpenseMaintenance, Description: "Equipment Repair", Amount: d("150"), Date: demoDate("2024-12-03"), Category: "Maintenance"},
		{ID: 5, Type: models.ExpenseOther, Description: "Office Supplies", Amount: d("75"), Date: demoDate("2024-12-04"), Category: "Office"},
		{ID: 6, Type: models.ExpenseUtilities, Description: "Water Bill", Amount: d("120"), Date: demoDate("2024-11-15"), Category: "Utilities"},
		{ID: 7, Type: models.ExpenseMarketing, Description: "Print Advertising", Amount: d("300"), Date: demoDate("2024-11-20"), Category: "Marketing"},
		{ID: 8, Type: models.ExpenseMaintenance, Description: "Coffee Machine Service", Amount: d("200"), Date: demoDate("2024-11-25"), Category: "Maintenance"},
	}

	bills := []models.MonthlyBill{
		{ID: 1, Name: "Office Rent", EstimatedAmount: d("2000"), Category: "Fixed", IsActive: true, BillType: models.BillFixed, DueDay: 1, Vendor: "Property Management Co."},
		{ID: 2, Name: "Electricity Bill", EstimatedAmount: d("300"), Category: "Utilities", IsActive: true, BillType: models.BillVariable, DueDay: 15, Vendor: "Power Company"},
		{ID: 3, Name: "Internet Service", EstimatedAmount: d("100"), Category: "Utilities", IsActive: true, BillType: models.BillFixed, DueDay: 5, Vendor: "ISP Provider"},
		{ID: 4, Name: "Water Bill", EstimatedAmount: d("150"), Category: "Utilities", IsActive: true, BillType: models.BillVariable, DueDay: 20, Vendor: "Water Department"},
		{ID: 5, Name: "Insurance Premium", EstimatedAmount: d("500"), Category: "Fixed", IsActive: true, BillType: models.BillFixed, DueDay: 1, Vendor: "Insurance Corp"},
	}

	payments := []models.BillPayment{
		{ID: 1, BillID: 1, BillName: "Office Rent", ActualAmount: d("2000"), PaidDate: demoDate("2024-12-01"), Month: "2024-12"},
		{ID: 2, BillID: 3, BillName: "Internet Service", ActualAmount: d("100"), PaidDate: demoDate("2024-12-05"), Month: "2024-12"},
		{ID: 3, BillID: 2, BillName: "Electricity Bill", ActualAmount: d("285"), PaidDate: demoDate("2024-12-15"), Month: "2024-12"},
		{ID: 4, BillID: 1, BillName: "Office Rent", ActualAmount: d("2000"), PaidDate: demoDate("2024-11-01"), Month: "2024-11"},
		{ID: 5, BillID: 2, BillName: "Electricity Bill", ActualAmount: d("310"), PaidDate: demoDate("2024-11-15"), Month: "2024-11"},
	}

	owners := []models.Owner{
		{ID: 1, Name: "Ahmed Ali", ShareCapital: d("50000"), ProfitSharePercent: d("60")},
		{ID: 2, Name: "Sara Omar", ShareCapital: d("30000"), ProfitSharePercent: d("40")},
	}

	return engine.Snapshot{
		Ingredients:       ingredients,
		Products:          products,
		Sales:             sales,
		Employees:         employees,
		SalaryAdjustments: adjustments,
		Expenses:          expenses,
		Bills:             bills,
		BillPayments:      payments,
		Owners:            owners,
	}
}

func demoDate(value string) time.Time {
	t, err := time.Parse(models.DateLayout, value)
	if err != nil {
		panic(err)
	}
	return t
}
