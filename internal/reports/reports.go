// Package reports holds the shared aggregation helpers used by both the
// dashboard and the report endpoints. Every function is a pure transform
// over persisted collections plus a date range: deterministic, no side
// effects, empty input producing zero/empty results.
package reports

import (
	"sort"
	"time"

	"boutique-pos/internal/models"
)

// LowStockThreshold marks a product as running low.
const LowStockThreshold = 10

// DayEnd is the last representable instant of the given calendar day,
// for building inclusive [from, to] ranges out of date-only input. A
// sale at 23:59:59.999... of the "to" day still falls inside the range.
func DayEnd(day time.Time) time.Time {
	return day.AddDate(0, 0, 1).Add(-time.Nanosecond)
}

// SalesBetween filters sales to [from, to], bounds inclusive, keeping
// history order.
func SalesBetween(sales []models.Sale, from, to time.Time) []models.Sale {
	var out []models.Sale
	for _, s := range sales {
		if s.SoldAt.Before(from) || s.SoldAt.After(to) {
			continue
		}
		out = append(out, s)
	}
	return out
}

func RevenueBetween(sales []models.Sale, from, to time.Time) float64 {
	var sum float64
	for _, s := range SalesBetween(sales, from, to) {
		sum += s.Total
	}
	return sum
}

func ProfitBetween(sales []models.Sale, from, to time.Time) float64 {
	var sum float64
	for _, s := range SalesBetween(sales, from, to) {
		sum += s.Profit
	}
	return sum
}

// InventoryValuation is the cost value of everything on the shelves.
func InventoryValuation(products []models.Product) float64 {
	var sum float64
	for _, p := range products {
		sum += p.BuyingPrice * float64(p.Stock)
	}
	return sum
}

// LowStock returns the products at or below the restock threshold.
func LowStock(products []models.Product) []models.Product {
	var out []models.Product
	for _, p := range products {
		if p.Stock < LowStockThreshold {
			out = append(out, p)
		}
	}
	return out
}

// ProductSales is one row of a best/least-seller ranking.
type ProductSales struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	Revenue   float64 `json:"revenue"`
}

// BestSelling ranks products by units sold, descending. Ties keep the
// order products first appeared in the sales history (stable sort).
func BestSelling(sales []models.Sale, limit int) []ProductSales {
	ranked := tallyBySoldQuantity(sales)
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Quantity > ranked[j].Quantity })
	return truncate(ranked, limit)
}

// LeastSelling is the ascending counterpart of BestSelling.
func LeastSelling(sales []models.Sale, limit int) []ProductSales {
	ranked := tallyBySoldQuantity(sales)
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Quantity < ranked[j].Quantity })
	return truncate(ranked, limit)
}

func tallyBySoldQuantity(sales []models.Sale) []ProductSales {
	index := make(map[string]int)
	var ranked []ProductSales
	for _, sale := range sales {
		for _, item := range sale.Items {
			i, seen := index[item.ProductID]
			if !seen {
				index[item.ProductID] = len(ranked)
				ranked = append(ranked, ProductSales{ProductID: item.ProductID, Name: item.Name})
				i = len(ranked) - 1
			}
			ranked[i].Quantity += item.Quantity
			ranked[i].Revenue += item.Total
		}
	}
	return ranked
}

func truncate(rows []ProductSales, limit int) []ProductSales {
	if limit > 0 && len(rows) > limit {
		return rows[:limit]
	}
	return rows
}

// MonthlyTotal is one bar of the monthly revenue/profit chart.
type MonthlyTotal struct {
	Month   time.Month `json:"month"`
	Revenue float64    `json:"revenue"`
	Profit  float64    `json:"profit"`
	Orders  int        `json:"orders"`
}

// MonthlyRollup buckets a year's sales by calendar month. All twelve
// months are present so charts get a stable x-axis.
func MonthlyRollup(sales []models.Sale, year int) []MonthlyTotal {
	out := make([]MonthlyTotal, 12)
	for i := range out {
		out[i].Month = time.Month(i + 1)
	}
	for _, s := range sales {
		if s.SoldAt.Year() != year {
			continue
		}
		bucket := &out[int(s.SoldAt.Month())-1]
		bucket.Revenue += s.Total
		bucket.Profit += s.Profit
		bucket.Orders++
	}
	return out
}

// CategoryTotal is one slice of the sales-by-category chart.
type CategoryTotal struct {
	Category string  `json:"category"`
	Quantity int     `json:"quantity"`
	Revenue  float64 `json:"revenue"`
}

// CategoryRollup groups sold items by the category of the product they
// reference. Items whose product has since been deleted land in the
// Unknown bucket rather than being dropped.
func CategoryRollup(sales []models.Sale, products []models.Product) []CategoryTotal {
	categoryOf := make(map[string]string, len(products))
	for _, p := range products {
		categoryOf[p.ID] = p.Category
	}

	index := make(map[string]int)
	var out []CategoryTotal
	for _, sale := range sales {
		for _, item := range sale.Items {
			category, ok := categoryOf[item.ProductID]
			if !ok || category == "" {
				category = models.UnknownName
			}
			i, seen := index[category]
			if !seen {
				index[category] = len(out)
				out = append(out, CategoryTotal{Category: category})
				i = len(out) - 1
			}
			out[i].Quantity += item.Quantity
			out[i].Revenue += item.Total
		}
	}
	return out
}

// ProductName resolves a product id for display, degrading to the
// Unknown placeholder for dangling references.
func ProductName(products []models.Product, id string) string {
	for _, p := range products {
		if p.ID == id {
			return p.Name
		}
	}
	return models.UnknownName
}

// Summary is the dashboard payload: sales, expense and inventory
// aggregates over one date range.
type Summary struct {
	Revenue          float64 `json:"revenue"`
	Profit           float64 `json:"profit"`
	Orders           int     `json:"orders"`
	Expenses         float64 `json:"expenses"`
	SupplierPayments float64 `json:"supplier_payments"`
	CreditPayments   float64 `json:"credit_payments"`
	NetProfit        float64 `json:"net_profit"`
	InventoryValue   float64 `json:"inventory_value"`
	LowStockCount    int     `json:"low_stock_count"`
}

// Dashboard computes the full summary in one pass per collection. The
// two reserved expense categories get their own aggregates on top of the
// overall expense total.
func Dashboard(sales []models.Sale, products []models.Product, expenses []models.Expense, from, to time.Time) Summary {
	var sum Summary
	for _, s := range SalesBetween(sales, from, to) {
		sum.Revenue += s.Total
		sum.Profit += s.Profit
		sum.Orders++
	}
	for _, e := range expenses {
		if e.Date.Before(from) || e.Date.After(to) {
			continue
		}
		sum.Expenses += e.Amount
		switch e.Category {
		case models.ExpenseSupplierPayment:
			sum.SupplierPayments += e.Amount
		case models.ExpenseCreditPayment:
			sum.CreditPayments += e.Amount
		}
	}
	sum.NetProfit = sum.Profit - sum.Expenses
	sum.InventoryValue = InventoryValuation(products)
	sum.LowStockCount = len(LowStock(products))
	return sum
}
