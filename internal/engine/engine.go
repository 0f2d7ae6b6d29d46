// Package engine owns the mutable cart and the sale commit sequence.
// The cart is ephemeral: lines snapshot the product name and selling
// price when they are added, and nothing touches storage until Commit
// has fully validated the order. Commit then hands the decremented
// catalog and the frozen sale record to the store in one atomic write.
package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"boutique-pos/internal/models"
	"boutique-pos/internal/storage"
	"boutique-pos/internal/utils"
)

// Line is one cart row. Name and Price are frozen at add-time, so later
// catalog edits never change an open cart line.
type Line struct {
	ID        string  `json:"id"`
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	Discount  float64 `json:"discount"` // percent 0-100
	Total     float64 `json:"total"`
}

// CommitRequest carries the checkout parameters.
type CommitRequest struct {
	CustomerType  string  `json:"customer_type"`
	PaymentMethod string  `json:"payment_method"`
	Tendered      float64 `json:"tendered"`
	Notes         string  `json:"notes"`
}

// Engine is safe for concurrent callers; one mutex serializes every cart
// mutation and the whole commit sequence, which preserves the original
// single-writer assumption inside this process.
type Engine struct {
	store  storage.Store
	strict bool

	mu            sync.Mutex
	lines         []Line
	orderDiscount float64
	tendered      float64
}

type Option func(*Engine)

// WithStrictStock re-validates every line against current stock right
// before commit, instead of trusting the checks done at add/edit time.
func WithStrictStock() Option {
	return func(e *Engine) { e.strict = true }
}

func New(store storage.Store, opts ...Option) *Engine {
	e := &Engine{store: store}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// AddOrIncrement puts a product in the cart. A repeated call for the
// same product bumps that line's quantity by one; a new product gets a
// fresh line with quantity 1 and the given default discount.
func (e *Engine) AddOrIncrement(ctx context.Context, productID string, defaultDiscount float64) (Line, error) {
	products, err := e.store.Products(ctx)
	if err != nil {
		return Line{}, fmt.Errorf("read catalog: %w", err)
	}

	product, ok := findProduct(products, productID)
	if !ok {
		return Line{}, ErrProductNotFound
	}
	if product.Stock < 1 {
		return Line{}, fmt.Errorf("%w: %s", ErrOutOfStock, product.Name)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	for i := range e.lines {
		if e.lines[i].ProductID == productID {
			if e.lines[i].Quantity+1 > product.Stock {
				return Line{}, fmt.Errorf("%w: only %d of %s available", ErrInsufficientStock, product.Stock, product.Name)
			}
			e.lines[i].Quantity++
			e.lines[i].Total = lineTotal(e.lines[i].Price, e.lines[i].Quantity, e.lines[i].Discount)
			return e.lines[i], nil
		}
	}

	line := Line{
		ID:        uuid.NewString(),
		ProductID: product.ID,
		Name:      product.Name,
		Price:     product.SellingPrice,
		Quantity:  1,
		Discount:  clampPercent(defaultDiscount),
	}
	line.Total = lineTotal(line.Price, line.Quantity, line.Discount)
	e.lines = append(e.lines, line)
	return line, nil
}

// RemoveLine drops a line from the cart. Removing a line that is not
// there is a no-op, not an error.
func (e *Engine) RemoveLine(lineID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i := range e.lines {
		if e.lines[i].ID == lineID {
			e.lines = append(e.lines[:i], e.lines[i+1:]...)
			return
		}
	}
}

// UpdateLine overwrites a line's quantity and discount, recomputing the
// total from the snapshot price taken when the line was added. The line
// is left untouched when any validation fails.
func (e *Engine) UpdateLine(ctx context.Context, lineID string, quantity int, discount float64) (Line, error) {
	if quantity <= 0 {
		return Line{}, ErrInvalidQuantity
	}
	if discount < 0 || discount > 100 {
		return Line{}, ErrInvalidDiscount
	}

	products, err := e.store.Products(ctx)
	if err != nil {
		return Line{}, fmt.Errorf("read catalog: %w", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	for i := range e.lines {
		if e.lines[i].ID != lineID {
			continue
		}
		if product, ok := findProduct(products, e.lines[i].ProductID); ok && quantity > product.Stock {
			return Line{}, fmt.Errorf("%w: only %d of %s available", ErrInsufficientStock, product.Stock, product.Name)
		}
		e.lines[i].Quantity = quantity
		e.lines[i].Discount = discount
		e.lines[i].Total = lineTotal(e.lines[i].Price, quantity, discount)
		return e.lines[i], nil
	}
	return Line{}, fmt.Errorf("cart line %s: %w", lineID, ErrLineNotFound)
}

// Lines returns a copy of the cart in insertion order.
func (e *Engine) Lines() []Line {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Line, len(e.lines))
	copy(out, e.lines)
	return out
}

// Subtotal is the sum of line totals, before the order discount.
func (e *Engine) Subtotal() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.subtotalLocked()
}

func (e *Engine) subtotalLocked() float64 {
	var sum float64
	for _, line := range e.lines {
		sum += line.Total
	}
	return sum
}

// SetOrderDiscount stores the order-level discount percent. Out-of-range
// values are clamped silently; the UI treats the field as best-effort.
func (e *Engine) SetOrderDiscount(percent float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.orderDiscount = clampPercent(percent)
}

func (e *Engine) OrderDiscount() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.orderDiscount
}

func (e *Engine) SetTendered(amount float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tendered = amount
}

func (e *Engine) Tendered() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tendered
}

// OrderTotal applies the clamped order discount to the subtotal.
func (e *Engine) OrderTotal() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.orderTotalLocked()
}

func (e *Engine) orderTotalLocked() float64 {
	return e.subtotalLocked() * (1 - clampPercent(e.orderDiscount)/100)
}

// SuggestedTendered is what the UI pre-fills in the amount-paid field:
// the order total rounded to the nearest whole unit.
func (e *Engine) SuggestedTendered() float64 {
	return utils.RoundTendered(e.OrderTotal())
}

// Clear empties the cart and resets the engine parameters.
func (e *Engine) Clear() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.clearLocked()
}

func (e *Engine) clearLocked() {
	e.lines = nil
	e.orderDiscount = 0
	e.tendered = 0
}

// Commit validates the whole order, then atomically decrements stock and
// appends the sale record. Any validation failure returns before storage
// is touched; there is nothing to roll back.
func (e *Engine) Commit(ctx context.Context, req CommitRequest) (*models.Sale, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	// 1. An empty cart cannot be sold.
	if len(e.lines) == 0 {
		return nil, ErrEmptyCart
	}

	// 2. Compute the order total and check payment.
	total := e.orderTotalLocked()
	if req.Tendered < total {
		return nil, fmt.Errorf("%w: tendered %.2f, total %.2f", ErrInsufficientPayment, req.Tendered, total)
	}

	// 3. Re-read the catalog and decrement stock per line. Profit uses
	// the buying price current at commit time, not a snapshot.
	products, err := e.store.Products(ctx)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	index := make(map[string]int, len(products))
	for i, p := range products {
		index[p.ID] = i
	}

	if e.strict {
		for _, line := range e.lines {
			i, ok := index[line.ProductID]
			if !ok {
				continue
			}
			if products[i].Stock < line.Quantity {
				return nil, fmt.Errorf("%w: only %d of %s available", ErrInsufficientStock, products[i].Stock, line.Name)
			}
		}
	}

	now := time.Now()
	var profit float64
	items := make([]models.SaleItem, 0, len(e.lines))
	saleID := uuid.NewString()
	for _, line := range e.lines {
		cost := 0.0
		if i, ok := index[line.ProductID]; ok {
			cost = products[i].BuyingPrice
			products[i].Stock -= line.Quantity
			if products[i].Stock < 0 {
				// Stock moved under us between add and commit. The
				// permissive default still commits, but inventory is
				// never reported negative.
				products[i].Stock = 0
			}
		}
		profit += line.Total - cost*float64(line.Quantity)
		items = append(items, models.SaleItem{
			ID:        uuid.NewString(),
			SaleID:    saleID,
			ProductID: line.ProductID,
			Name:      line.Name,
			Price:     line.Price,
			Quantity:  line.Quantity,
			Discount:  line.Discount,
			Total:     line.Total,
		})
	}

	// 4. Freeze the sale record, with the customer display name
	// denormalized so history survives customer deletion.
	sale := models.Sale{
		ID:            saleID,
		ReceiptNo:     utils.ReceiptCode(now),
		CustomerType:  req.CustomerType,
		CustomerName:  e.customerName(ctx, req.CustomerType),
		PaymentMethod: req.PaymentMethod,
		Items:         items,
		Total:         total,
		Profit:        profit,
		AmountPaid:    req.Tendered,
		OrderDiscount: clampPercent(e.orderDiscount),
		Change:        req.Tendered - total,
		Notes:         req.Notes,
		SoldAt:        now,
	}

	// 5. One atomic write: decremented catalog + appended sale.
	if err := e.store.CommitSale(ctx, products, sale); err != nil {
		return nil, fmt.Errorf("commit sale: %w", err)
	}

	// 6. Fresh cart for the next customer.
	e.clearLocked()
	return &sale, nil
}

// customerName resolves the display name for a sale. A dangling customer
// id degrades to the Unknown placeholder instead of failing the commit.
func (e *Engine) customerName(ctx context.Context, customerType string) string {
	switch customerType {
	case "", "walk-in":
		return "Walk-in"
	case "online":
		return "Online"
	}
	customers, err := e.store.Customers(ctx)
	if err != nil {
		return models.UnknownName
	}
	for _, c := range customers {
		if c.ID == customerType {
			return c.Name
		}
	}
	return models.UnknownName
}

func findProduct(products []models.Product, id string) (models.Product, bool) {
	for _, p := range products {
		if p.ID == id {
			return p, true
		}
	}
	return models.Product{}, false
}

func lineTotal(price float64, quantity int, discount float64) float64 {
	return price * float64(quantity) * (1 - discount/100)
}

func clampPercent(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
