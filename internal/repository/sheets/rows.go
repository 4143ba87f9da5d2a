package sheets

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mamadbah2/smallerp/internal/domain/models"
)

func cell(row []interface{}, i int) string {
	if i >= len(row) || row[i] == nil {
		return ""
	}
	return strings.TrimSpace(fmt.Sprint(row[i]))
}

func parseID(row []interface{}, i int) (int64, error) {
	str := cell(row, i)
	if str == "" {
		return 0, fmt.Errorf("column %d: empty id", i)
	}
	if f, ok := row[i].(float64); ok {
		if f != math.Trunc(f) {
			return 0, fmt.Errorf("column %d: %v is not a whole number", i, f)
		}
		return int64(f), nil
	}
	id, err := strconv.ParseInt(str, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("column %d: %w", i, err)
	}
	return id, nil
}

func parseInt(row []interface{}, i int) (int, error) {
	id, err := parseID(row, i)
	return int(id), err
}

// parseDecimal accepts sheet numbers as well as formatted text such as "1,250.00".
// Empty cells are zero.
func parseDecimal(row []interface{}, i int) (decimal.Decimal, error) {
	if i < len(row) {
		if f, ok := row[i].(float64); ok {
			return decimal.NewFromFloat(f), nil
		}
	}
	str := strings.ReplaceAll(cell(row, i), ",", "")
	str = strings.TrimPrefix(str, "$")
	if str == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(str)
	if err != nil {
		return decimal.Zero, fmt.Errorf("column %d: %w", i, err)
	}
	return d, nil
}

func parseDate(row []interface{}, i int) (time.Time, error) {
	str := cell(row, i)
	t, _, err := models.ParseDate(str)
	if err != nil && len(str) > 10 {
		t, _, err = models.ParseDate(str[:10])
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("column %d: %w", i, err)
	}
	return t, nil
}

func parseBool(row []interface{}, i int) bool {
	if i < len(row) {
		if b, ok := row[i].(bool); ok {
			return b
		}
	}
	switch strings.ToLower(cell(row, i)) {
	case "true", "yes", "y", "1", "active":
		return true
	}
	return false
}

func parseMonth(row []interface{}, i int) (models.Month, error) {
	return models.ParseMonth(cell(row, i))
}

// parseRecipe reads "ingredientID:quantity" pairs separated by semicolons.
func parseRecipe(value string) ([]models.RecipeLine, error) {
	var lines []models.RecipeLine
	for _, part := range strings.Split(value, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		idStr, qtyStr, ok := strings.Cut(part, ":")
		if !ok {
			return nil, fmt.Errorf("recipe line %q: expected id:quantity", part)
		}
		id, err := strconv.ParseInt(strings.TrimSpace(idStr), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("recipe line %q: %w", part, err)
		}
		qty, err := decimal.NewFromString(strings.TrimSpace(qtyStr))
		if err != nil {
			return nil, fmt.Errorf("recipe line %q: %w", part, err)
		}
		lines = append(lines, models.RecipeLine{IngredientID: id, QuantityPerUnit: qty})
	}
	return lines, nil
}

// formatRecipe is the inverse of the Products!F encoding.
func formatRecipe(lines []models.RecipeLine) string {
	parts := make([]string, len(lines))
	for i, l := range lines {
		parts[i] = strconv.FormatInt(l.IngredientID, 10) + ":" + l.QuantityPerUnit.String()
	}
	return strings.Join(parts, ";")
}

// Ingredients!A:G  id | name | unit cost | unit | stock | reorder level | supplier
func parseIngredient(row []interface{}) (in models.Ingredient, err error) {
	if in.ID, err = parseID(row, 0); err != nil {
		return in, err
	}
	in.Name = cell(row, 1)
	if in.UnitCost, err = parseDecimal(row, 2); err != nil {
		return in, err
	}
	in.Unit = cell(row, 3)
	if in.StockQuantity, err = parseDecimal(row, 4); err != nil {
		return in, err
	}
	if in.ReorderLevel, err = parseDecimal(row, 5); err != nil {
		return in, err
	}
	in.Supplier = cell(row, 6)
	return in, nil
}

// Products!A:F  id | name | selling price | category | sku | recipe
func parseProduct(row []interface{}) (p models.Product, err error) {
	if p.ID, err = parseID(row, 0); err != nil {
		return p, err
	}
	p.Name = cell(row, 1)
	if p.SellingPrice, err = parseDecimal(row, 2); err != nil {
		return p, err
	}
	p.Category = cell(row, 3)
	p.SKU = cell(row, 4)
	if p.Recipe, err = parseRecipe(cell(row, 5)); err != nil {
		return p, err
	}
	return p, nil
}

// Sales!A:I  id | date | product id | product name | quantity | unit price | amount | customer | reference
func parseSale(row []interface{}) (s models.Sale, err error) {
	if s.ID, err = parseID(row, 0); err != nil {
		return s, err
	}
	if s.Date, err = parseDate(row, 1); err != nil {
		return s, err
	}
	if s.ProductID, err = parseID(row, 2); err != nil {
		return s, err
	}
	s.ProductName = cell(row, 3)
	if s.Quantity, err = parseInt(row, 4); err != nil {
		return s, err
	}
	if s.UnitPrice, err = parseDecimal(row, 5); err != nil {
		return s, err
	}
	if cell(row, 6) == "" {
		s.Amount = s.UnitPrice.Mul(decimal.NewFromInt(int64(s.Quantity)))
	} else if s.Amount, err = parseDecimal(row, 6); err != nil {
		return s, err
	}
	s.CustomerName = cell(row, 7)
	s.Reference = cell(row, 8)
	return s, nil
}

// Employees!A:E  id | name | position | base salary | salary type
func parseEmployee(row []interface{}) (e models.Employee, err error) {
	if e.ID, err = parseID(row, 0); err != nil {
		return e, err
	}
	e.Name = cell(row, 1)
	e.Position = cell(row, 2)
	if e.BaseSalary, err = parseDecimal(row, 3); err != nil {
		return e, err
	}
	e.SalaryType = models.SalaryType(strings.ToLower(cell(row, 4)))
	if e.SalaryType == "" {
		e.SalaryType = models.SalaryMonthly
	}
	return e, nil
}

// Adjustments!A:G  id | employee id | month | type | amount | reason | created at
func parseAdjustment(row []interface{}) (a models.SalaryAdjustment, err error) {
	if a.ID, err = parseID(row, 0); err != nil {
		return a, err
	}
	if a.EmployeeID, err = parseID(row, 1); err != nil {
		return a, err
	}
	if a.Month, err = parseMonth(row, 2); err != nil {
		return a, err
	}
	a.Type = models.AdjustmentType(strings.ToLower(cell(row, 3)))
	if a.Amount, err = parseDecimal(row, 4); err != nil {
		return a, err
	}
	a.Reason = cell(row, 5)
	if cell(row, 6) != "" {
		if a.CreatedAt, err = parseDate(row, 6); err != nil {
			return a, err
		}
	} else {
		a.CreatedAt = a.Month.Start()
	}
	return a, nil
}

// Expenses!A:F  id | date | type | description | amount | category
func parseExpense(row []interface{}) (e models.Expense, err error) {
	if e.ID, err = parseID(row, 0); err != nil {
		return e, err
	}
	if e.Date, err = parseDate(row, 1); err != nil {
		return e, err
	}
	e.Type = models.ExpenseType(strings.ToLower(cell(row, 2)))
	e.Description = cell(row, 3)
	if e.Amount, err = parseDecimal(row, 4); err != nil {
		return e, err
	}
	e.Category = cell(row, 5)
	return e, nil
}

// Bills!A:H  id | name | estimated amount | category | active | bill type | due day | vendor
func parseBill(row []interface{}) (b models.MonthlyBill, err error) {
	if b.ID, err = parseID(row, 0); err != nil {
		return b, err
	}
	b.Name = cell(row, 1)
	if b.EstimatedAmount, err = parseDecimal(row, 2); err != nil {
		return b, err
	}
	b.Category = cell(row, 3)
	b.IsActive = parseBool(row, 4)
	b.BillType = models.BillType(strings.ToLower(cell(row, 5)))
	if b.DueDay, err = parseInt(row, 6); err != nil {
		return b, err
	}
	b.Vendor = cell(row, 7)
	return b, nil
}

// Payments!A:F  id | bill id | bill name | month | paid date | actual amount
func parsePayment(row []interface{}) (p models.BillPayment, err error) {
	if p.ID, err = parseID(row, 0); err != nil {
		return p, err
	}
	if p.BillID, err = parseID(row, 1); err != nil {
		return p, err
	}
	p.BillName = cell(row, 2)
	if p.Month, err = parseMonth(row, 3); err != nil {
		return p, err
	}
	if p.PaidDate, err = parseDate(row, 4); err != nil {
		return p, err
	}
	if p.ActualAmount, err = parseDecimal(row, 5); err != nil {
		return p, err
	}
	return p, nil
}

// Owners!A:D  id | name | share capital | profit share percent
func parseOwner(row []interface{}) (o models.Owner, err error) {
	if o.ID, err = parseID(row, 0); err != nil {
		return o, err
	}
	o.Name = cell(row, 1)
	if o.ShareCapital, err = parseDecimal(row, 2); err != nil {
		return o, err
	}
	if pct := cell(row, 3); strings.HasSuffix(pct, "%") {
		o.ProfitSharePercent, err = parseDecimal([]interface{}{strings.TrimSuffix(pct, "%")}, 0)
	} else {
		o.ProfitSharePercent, err = parseDecimal(row, 3)
	}
	return o, err
}
