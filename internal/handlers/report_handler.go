package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"boutique-pos/internal/models"
	"boutique-pos/internal/reports"
)

// parseRange reads the optional from/to query params (YYYY-MM-DD),
// defaulting to all of history.
func parseRange(c *gin.Context) (time.Time, time.Time, bool) {
	from := time.Time{}
	to := time.Now()

	if v := c.Query("from"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "from must be YYYY-MM-DD"})
			return from, to, false
		}
		from = parsed
	}
	if v := c.Query("to"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "to must be YYYY-MM-DD"})
			return from, to, false
		}
		to = reports.DayEnd(parsed)
	}
	return from, to, true
}

// --- GET: /api/reports/dashboard ---
func (h *Handler) GetDashboard(c *gin.Context) {
	from, to, ok := parseRange(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	sales, err := h.store.Sales(ctx)
	if err != nil {
		h.storageError(c, err, "fetch sales")
		return
	}
	products, err := h.store.Products(ctx)
	if err != nil {
		h.storageError(c, err, "fetch products")
		return
	}
	expenses, err := h.store.Expenses(ctx)
	if err != nil {
		h.storageError(c, err, "fetch expenses")
		return
	}

	c.JSON(http.StatusOK, reports.Dashboard(sales, products, expenses, from, to))
}

// ReportData is the analytics payload for the reports screen.
type ReportData struct {
	TotalRevenue float64                `json:"total_revenue"`
	TotalProfit  float64                `json:"total_profit"`
	TotalOrders  int                    `json:"total_orders"`
	TopSelling   []reports.ProductSales `json:"top_selling"`
	LeastSelling []reports.ProductSales `json:"least_selling"`
	RecentSales  []models.Sale          `json:"recent_sales"`
}

// --- GET: /api/reports ---
func (h *Handler) GetSalesReport(c *gin.Context) {
	from, to, ok := parseRange(c)
	if !ok {
		return
	}

	sales, err := h.store.Sales(c.Request.Context())
	if err != nil {
		h.storageError(c, err, "fetch sales")
		return
	}
	inRange := reports.SalesBetween(sales, from, to)

	data := ReportData{
		TotalRevenue: reports.RevenueBetween(sales, from, to),
		TotalProfit:  reports.ProfitBetween(sales, from, to),
		TotalOrders:  len(inRange),
		TopSelling:   reports.BestSelling(inRange, 5),
		LeastSelling: reports.LeastSelling(inRange, 5),
	}

	// Last 10 sales, newest first.
	for i := len(inRange) - 1; i >= 0 && len(data.RecentSales) < 10; i-- {
		data.RecentSales = append(data.RecentSales, inRange[i])
	}

	c.JSON(http.StatusOK, data)
}

// --- GET: /api/reports/monthly?year=2026 ---
func (h *Handler) GetMonthlyReport(c *gin.Context) {
	year := time.Now().Year()
	if v := c.Query("year"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "year must be a number"})
			return
		}
		year = parsed
	}

	sales, err := h.store.Sales(c.Request.Context())
	if err != nil {
		h.storageError(c, err, "fetch sales")
		return
	}
	c.JSON(http.StatusOK, gin.H{"year": year, "months": reports.MonthlyRollup(sales, year)})
}

// --- GET: /api/reports/categories ---
func (h *Handler) GetCategoryReport(c *gin.Context) {
	ctx := c.Request.Context()
	sales, err := h.store.Sales(ctx)
	if err != nil {
		h.storageError(c, err, "fetch sales")
		return
	}
	products, err := h.store.Products(ctx)
	if err != nil {
		h.storageError(c, err, "fetch products")
		return
	}
	c.JSON(http.StatusOK, reports.CategoryRollup(sales, products))
}

// ValuationItem is a single row in the stock valuation table.
type ValuationItem struct {
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	CostPrice float64 `json:"cost_price"`
	TotalCost float64 `json:"total_cost"`
}

// CategoryGroup is one category's table in the valuation report.
type CategoryGroup struct {
	CategoryName string          `json:"category_name"`
	Items        []ValuationItem `json:"items"`
	Subtotal     float64         `json:"subtotal"`
}

// ValuationResponse is the final stock valuation payload.
type ValuationResponse struct {
	Categories []CategoryGroup  `json:"categories"`
	LowStock   []models.Product `json:"low_stock"`
	GrandTotal float64          `json:"grand_total"`
}

// --- GET: /api/reports/valuation ---
// GetStockValuation calculates the monetary value of all physical
// inventory, grouped by category.
func (h *Handler) GetStockValuation(c *gin.Context) {
	products, err := h.store.Products(c.Request.Context())
	if err != nil {
		h.storageError(c, err, "fetch inventory")
		return
	}

	groupedMap := make(map[string]*CategoryGroup)
	var order []string

	for _, p := range products {
		catName := p.Category
		if catName == "" {
			catName = "Uncategorized"
		}

		group, exists := groupedMap[catName]
		if !exists {
			group = &CategoryGroup{CategoryName: catName}
			groupedMap[catName] = group
			order = append(order, catName)
		}

		itemTotal := float64(p.Stock) * p.BuyingPrice
		group.Items = append(group.Items, ValuationItem{
			Name:      p.Name,
			Quantity:  p.Stock,
			CostPrice: p.BuyingPrice,
			TotalCost: itemTotal,
		})
		group.Subtotal += itemTotal
	}

	response := ValuationResponse{
		GrandTotal: reports.InventoryValuation(products),
		LowStock:   reports.LowStock(products),
	}
	for _, name := range order {
		response.Categories = append(response.Categories, *groupedMap[name])
	}

	c.JSON(http.StatusOK, response)
}
