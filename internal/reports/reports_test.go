package reports

import (
	"math"
	"testing"
	"time"

	"boutique-pos/internal/models"
)

func day(d int) time.Time {
	return time.Date(2026, time.March, d, 12, 0, 0, 0, time.UTC)
}

func saleOf(soldAt time.Time, total, profit float64, items ...models.SaleItem) models.Sale {
	return models.Sale{Total: total, Profit: profit, Items: items, SoldAt: soldAt}
}

func item(productID, name string, qty int, total float64) models.SaleItem {
	return models.SaleItem{ProductID: productID, Name: name, Quantity: qty, Total: total}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestRangeAggregates(t *testing.T) {
	sales := []models.Sale{
		saleOf(day(1), 100, 40),
		saleOf(day(5), 200, 60),
		saleOf(day(20), 300, 90),
	}

	from, to := day(1), day(10)
	if got := RevenueBetween(sales, from, to); !almostEqual(got, 300) {
		t.Errorf("RevenueBetween = %v, want 300", got)
	}
	if got := ProfitBetween(sales, from, to); !almostEqual(got, 100) {
		t.Errorf("ProfitBetween = %v, want 100", got)
	}
	if got := len(SalesBetween(sales, from, to)); got != 2 {
		t.Errorf("SalesBetween len = %d, want 2", got)
	}
	if got := len(SalesBetween(nil, from, to)); got != 0 {
		t.Errorf("empty input must produce empty output, got %d", got)
	}
}

func TestDayEndKeepsWholeDayInRange(t *testing.T) {
	// A sale rung up in the final minute of the "to" day must still count.
	lastMinute := time.Date(2026, time.March, 10, 23, 59, 30, 0, time.UTC)
	nextMorning := time.Date(2026, time.March, 11, 0, 0, 0, 0, time.UTC)
	sales := []models.Sale{
		saleOf(lastMinute, 100, 40),
		saleOf(nextMorning, 200, 60),
	}

	from := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)
	to := DayEnd(from)
	if to.Day() != 10 {
		t.Fatalf("DayEnd crossed into the next day: %v", to)
	}
	got := SalesBetween(sales, from, to)
	if len(got) != 1 {
		t.Fatalf("SalesBetween len = %d, want 1", len(got))
	}
	if !got[0].SoldAt.Equal(lastMinute) {
		t.Errorf("kept sale at %v, want the 23:59:30 one", got[0].SoldAt)
	}
}

func TestInventoryValuation(t *testing.T) {
	products := []models.Product{
		{Name: "A", Stock: 3, BuyingPrice: 100},
		{Name: "B", Stock: 10, BuyingPrice: 2.5},
	}
	if got := InventoryValuation(products); !almostEqual(got, 325) {
		t.Errorf("InventoryValuation = %v, want 325", got)
	}
	if got := InventoryValuation(nil); got != 0 {
		t.Errorf("empty valuation = %v, want 0", got)
	}
}

func TestLowStockThreshold(t *testing.T) {
	products := []models.Product{
		{Name: "low", Stock: 9},
		{Name: "edge", Stock: 10},
		{Name: "high", Stock: 50},
		{Name: "zero", Stock: 0},
	}
	low := LowStock(products)
	if len(low) != 2 {
		t.Fatalf("expected 2 low-stock products, got %d", len(low))
	}
	if low[0].Name != "low" || low[1].Name != "zero" {
		t.Errorf("unexpected low-stock set: %v", low)
	}
}

func TestBestSellingStableOrder(t *testing.T) {
	sales := []models.Sale{
		saleOf(day(1), 0, 0, item("a", "Alpha", 2, 20), item("b", "Beta", 5, 50)),
		saleOf(day(2), 0, 0, item("c", "Gamma", 2, 30), item("a", "Alpha", 1, 10)),
	}

	best := BestSelling(sales, 0)
	// Quantities: a=3, b=5, c=2.
	wantOrder := []string{"b", "a", "c"}
	for i, want := range wantOrder {
		if best[i].ProductID != want {
			t.Fatalf("best[%d] = %s, want %s (full: %+v)", i, best[i].ProductID, want, best)
		}
	}
	if !almostEqual(best[1].Revenue, 30) {
		t.Errorf("alpha revenue = %v, want 30", best[1].Revenue)
	}

	least := LeastSelling(sales, 2)
	if len(least) != 2 || least[0].ProductID != "c" || least[1].ProductID != "a" {
		t.Errorf("unexpected least-selling ranking: %+v", least)
	}
}

func TestBestSellingTiesKeepFirstSeenOrder(t *testing.T) {
	sales := []models.Sale{
		saleOf(day(1), 0, 0, item("x", "X", 2, 1), item("y", "Y", 2, 1), item("z", "Z", 2, 1)),
	}
	best := BestSelling(sales, 0)
	for i, want := range []string{"x", "y", "z"} {
		if best[i].ProductID != want {
			t.Fatalf("tie broken unstably: %+v", best)
		}
	}
}

func TestMonthlyRollup(t *testing.T) {
	sales := []models.Sale{
		saleOf(time.Date(2026, time.January, 3, 0, 0, 0, 0, time.UTC), 100, 10),
		saleOf(time.Date(2026, time.January, 20, 0, 0, 0, 0, time.UTC), 50, 5),
		saleOf(time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC), 200, 20),
		saleOf(time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC), 999, 99), // wrong year
	}

	months := MonthlyRollup(sales, 2026)
	if len(months) != 12 {
		t.Fatalf("expected 12 buckets, got %d", len(months))
	}
	if !almostEqual(months[0].Revenue, 150) || months[0].Orders != 2 {
		t.Errorf("january bucket wrong: %+v", months[0])
	}
	if !almostEqual(months[5].Revenue, 200) {
		t.Errorf("june bucket wrong: %+v", months[5])
	}
	if months[4].Orders != 0 {
		t.Errorf("may must be empty: %+v", months[4])
	}
}

func TestCategoryRollupDanglingProduct(t *testing.T) {
	products := []models.Product{{ID: "a", Name: "Alpha", Category: "Tops"}}
	sales := []models.Sale{
		saleOf(day(1), 0, 0, item("a", "Alpha", 2, 40), item("deleted", "Old Thing", 1, 10)),
	}

	rollup := CategoryRollup(sales, products)
	if len(rollup) != 2 {
		t.Fatalf("expected 2 categories, got %+v", rollup)
	}
	if rollup[0].Category != "Tops" || rollup[0].Quantity != 2 {
		t.Errorf("tops bucket wrong: %+v", rollup[0])
	}
	if rollup[1].Category != models.UnknownName {
		t.Errorf("dangling product must land in the Unknown bucket: %+v", rollup[1])
	}
}

func TestProductNameDegradesToUnknown(t *testing.T) {
	products := []models.Product{{ID: "a", Name: "Alpha"}}
	if got := ProductName(products, "a"); got != "Alpha" {
		t.Errorf("ProductName = %q", got)
	}
	if got := ProductName(products, "gone"); got != models.UnknownName {
		t.Errorf("dangling id must resolve to %q, got %q", models.UnknownName, got)
	}
}

func TestDashboardReservedExpenseCategories(t *testing.T) {
	sales := []models.Sale{saleOf(day(2), 500, 200)}
	products := []models.Product{{Name: "A", Stock: 2, BuyingPrice: 50}}
	expenses := []models.Expense{
		{Category: models.ExpenseSupplierPayment, Amount: 120, Date: day(3)},
		{Category: models.ExpenseCreditPayment, Amount: 30, Date: day(4)},
		{Category: "Rent", Amount: 100, Date: day(5)},
		{Category: "Rent", Amount: 999, Date: day(25)}, // outside range
	}

	sum := Dashboard(sales, products, expenses, day(1), day(10))
	if !almostEqual(sum.Revenue, 500) || sum.Orders != 1 {
		t.Errorf("sales aggregates wrong: %+v", sum)
	}
	if !almostEqual(sum.Expenses, 250) {
		t.Errorf("expenses = %v, want 250", sum.Expenses)
	}
	if !almostEqual(sum.SupplierPayments, 120) || !almostEqual(sum.CreditPayments, 30) {
		t.Errorf("reserved category aggregates wrong: %+v", sum)
	}
	if !almostEqual(sum.NetProfit, -50) {
		t.Errorf("net profit = %v, want -50", sum.NetProfit)
	}
	if !almostEqual(sum.InventoryValue, 100) || sum.LowStockCount != 1 {
		t.Errorf("inventory aggregates wrong: %+v", sum)
	}
}
