package engine

import (
	"context"
	"errors"
	"math"
	"testing"

	"boutique-pos/internal/models"
	"boutique-pos/internal/storage/memory"
)

func seedStore(t *testing.T, products ...models.Product) *memory.Store {
	t.Helper()
	store := memory.New()
	if err := store.PutProducts(context.Background(), products); err != nil {
		t.Fatalf("seed products: %v", err)
	}
	return store
}

func dress(stock int) models.Product {
	return models.Product{
		ID:           "p-dress",
		Name:         "Summer Dress",
		Category:     "Dresses",
		Stock:        stock,
		BuyingPrice:  100,
		SellingPrice: 150,
	}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestAddOrIncrementIsMonotonic(t *testing.T) {
	store := seedStore(t, dress(5))
	eng := New(store)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := eng.AddOrIncrement(ctx, "p-dress", 0); err != nil {
			t.Fatalf("add %d: %v", i+1, err)
		}
	}

	lines := eng.Lines()
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	if lines[0].Quantity != 3 {
		t.Errorf("expected quantity 3, got %d", lines[0].Quantity)
	}
	if !almostEqual(lines[0].Total, 450) {
		t.Errorf("expected total 450, got %v", lines[0].Total)
	}
}

func TestAddFailures(t *testing.T) {
	store := seedStore(t, dress(0))
	eng := New(store)
	ctx := context.Background()

	if _, err := eng.AddOrIncrement(ctx, "p-dress", 0); !errors.Is(err, ErrOutOfStock) {
		t.Errorf("expected ErrOutOfStock, got %v", err)
	}
	if _, err := eng.AddOrIncrement(ctx, "nope", 0); !errors.Is(err, ErrProductNotFound) {
		t.Errorf("expected ErrProductNotFound, got %v", err)
	}
}

func TestAddIncrementRespectsStock(t *testing.T) {
	store := seedStore(t, dress(2))
	eng := New(store)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := eng.AddOrIncrement(ctx, "p-dress", 0); err != nil {
			t.Fatalf("add %d: %v", i+1, err)
		}
	}
	if _, err := eng.AddOrIncrement(ctx, "p-dress", 0); !errors.Is(err, ErrInsufficientStock) {
		t.Errorf("expected ErrInsufficientStock on third add, got %v", err)
	}
	if got := eng.Lines()[0].Quantity; got != 2 {
		t.Errorf("failed add must not change the line, quantity = %d", got)
	}
}

func TestLinePriceIsSnapshottedAtAddTime(t *testing.T) {
	store := seedStore(t, dress(10))
	eng := New(store)
	ctx := context.Background()

	line, err := eng.AddOrIncrement(ctx, "p-dress", 0)
	if err != nil {
		t.Fatal(err)
	}

	// Reprice the catalog after the line was added.
	repriced := dress(10)
	repriced.SellingPrice = 999
	if err := store.PutProducts(ctx, []models.Product{repriced}); err != nil {
		t.Fatal(err)
	}

	updated, err := eng.UpdateLine(ctx, line.ID, 2, 0)
	if err != nil {
		t.Fatal(err)
	}
	if !almostEqual(updated.Price, 150) {
		t.Errorf("snapshot price changed: %v", updated.Price)
	}
	if !almostEqual(updated.Total, 300) {
		t.Errorf("total must use the snapshot price, got %v", updated.Total)
	}
}

func TestUpdateLineValidation(t *testing.T) {
	store := seedStore(t, dress(5))
	eng := New(store)
	ctx := context.Background()

	line, err := eng.AddOrIncrement(ctx, "p-dress", 0)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		quantity int
		discount float64
		wantErr  error
	}{
		{"zero quantity", 0, 0, ErrInvalidQuantity},
		{"negative quantity", -2, 0, ErrInvalidQuantity},
		{"discount above range", 2, 150, ErrInvalidDiscount},
		{"negative discount", 2, -1, ErrInvalidDiscount},
		{"quantity beyond stock", 6, 0, ErrInsufficientStock},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := eng.UpdateLine(ctx, line.ID, tt.quantity, tt.discount); !errors.Is(err, tt.wantErr) {
				t.Errorf("UpdateLine(%d, %v) = %v, want %v", tt.quantity, tt.discount, err, tt.wantErr)
			}
			got := eng.Lines()[0]
			if got.Quantity != 1 || got.Discount != 0 {
				t.Errorf("failed update modified the line: %+v", got)
			}
		})
	}

	if _, err := eng.UpdateLine(ctx, "no-such-line", 1, 0); !errors.Is(err, ErrLineNotFound) {
		t.Errorf("expected ErrLineNotFound for unknown line, got %v", err)
	}
}

func TestUpdateLineAppliesDiscount(t *testing.T) {
	store := seedStore(t, dress(5))
	eng := New(store)
	ctx := context.Background()

	line, err := eng.AddOrIncrement(ctx, "p-dress", 0)
	if err != nil {
		t.Fatal(err)
	}
	updated, err := eng.UpdateLine(ctx, line.ID, 2, 50)
	if err != nil {
		t.Fatal(err)
	}
	if !almostEqual(updated.Total, 150) {
		t.Errorf("150*2*0.5 = 150, got %v", updated.Total)
	}
}

func TestRemoveLineAbsentIsNoop(t *testing.T) {
	store := seedStore(t, dress(5))
	eng := New(store)

	if _, err := eng.AddOrIncrement(context.Background(), "p-dress", 0); err != nil {
		t.Fatal(err)
	}
	eng.RemoveLine("not-there")
	if len(eng.Lines()) != 1 {
		t.Error("removing an absent line must not touch the cart")
	}

	eng.RemoveLine(eng.Lines()[0].ID)
	if len(eng.Lines()) != 0 {
		t.Error("line was not removed")
	}
}

func TestOrderTotalClampsDiscount(t *testing.T) {
	store := seedStore(t, models.Product{ID: "p", Name: "Coat", Stock: 10, SellingPrice: 1000})
	ctx := context.Background()

	tests := []struct {
		name     string
		discount float64
		want     float64
	}{
		{"ten percent", 10, 900},
		{"zero", 0, 1000},
		{"above range clamps to 100", 150, 0},
		{"negative clamps to 0", -20, 1000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eng := New(store)
			if _, err := eng.AddOrIncrement(ctx, "p", 0); err != nil {
				t.Fatal(err)
			}
			eng.SetOrderDiscount(tt.discount)
			if got := eng.OrderTotal(); !almostEqual(got, tt.want) {
				t.Errorf("OrderTotal() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCommitScenario(t *testing.T) {
	// Product P: stock 5, buying 100, selling 150. Two adds, tender 300.
	store := seedStore(t, dress(5))
	eng := New(store)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := eng.AddOrIncrement(ctx, "p-dress", 0); err != nil {
			t.Fatal(err)
		}
	}

	sale, err := eng.Commit(ctx, CommitRequest{PaymentMethod: "cash", Tendered: 300})
	if err != nil {
		t.Fatalf("commit: %v", err)
	}

	if !almostEqual(sale.Total, 300) {
		t.Errorf("sale total = %v, want 300", sale.Total)
	}
	if !almostEqual(sale.Profit, 100) {
		t.Errorf("sale profit = %v, want 100", sale.Profit)
	}
	if !almostEqual(sale.Change, 0) {
		t.Errorf("sale change = %v, want 0", sale.Change)
	}
	if sale.ReceiptNo == "" || sale.ID == "" {
		t.Error("sale must carry an id and receipt number")
	}

	products, _ := store.Products(ctx)
	if products[0].Stock != 3 {
		t.Errorf("stock after commit = %d, want 3", products[0].Stock)
	}
	sales, _ := store.Sales(ctx)
	if len(sales) != 1 {
		t.Fatalf("expected 1 persisted sale, got %d", len(sales))
	}
	if len(eng.Lines()) != 0 || eng.OrderDiscount() != 0 {
		t.Error("cart must be cleared after commit")
	}
}

func TestCommitTotalsInvariant(t *testing.T) {
	store := seedStore(t,
		dress(10),
		models.Product{ID: "p-shoes", Name: "Loafers", Stock: 10, BuyingPrice: 40, SellingPrice: 80},
	)
	eng := New(store)
	ctx := context.Background()

	if _, err := eng.AddOrIncrement(ctx, "p-dress", 10); err != nil {
		t.Fatal(err)
	}
	line, err := eng.AddOrIncrement(ctx, "p-shoes", 0)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := eng.UpdateLine(ctx, line.ID, 3, 25); err != nil {
		t.Fatal(err)
	}
	eng.SetOrderDiscount(10)

	sale, err := eng.Commit(ctx, CommitRequest{Tendered: 10000})
	if err != nil {
		t.Fatal(err)
	}

	var itemSum float64
	for _, item := range sale.Items {
		itemSum += item.Total
	}
	want := itemSum * (1 - sale.OrderDiscount/100)
	if !almostEqual(sale.Total, want) {
		t.Errorf("total %v != sum(items)*(1-discount/100) %v", sale.Total, want)
	}
	if !almostEqual(sale.Change, sale.AmountPaid-sale.Total) {
		t.Errorf("change %v != amountPaid-total %v", sale.Change, sale.AmountPaid-sale.Total)
	}
}

func TestCommitEmptyCart(t *testing.T) {
	eng := New(seedStore(t))
	if _, err := eng.Commit(context.Background(), CommitRequest{Tendered: 100}); !errors.Is(err, ErrEmptyCart) {
		t.Errorf("expected ErrEmptyCart, got %v", err)
	}
}

func TestCommitInsufficientPaymentTouchesNothing(t *testing.T) {
	store := seedStore(t, dress(5))
	eng := New(store)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := eng.AddOrIncrement(ctx, "p-dress", 0); err != nil {
			t.Fatal(err)
		}
	}

	// One cent short of the 300 total.
	_, err := eng.Commit(ctx, CommitRequest{Tendered: 299.99})
	if !errors.Is(err, ErrInsufficientPayment) {
		t.Fatalf("expected ErrInsufficientPayment, got %v", err)
	}

	products, _ := store.Products(ctx)
	if products[0].Stock != 5 {
		t.Errorf("stock mutated by failed commit: %d", products[0].Stock)
	}
	sales, _ := store.Sales(ctx)
	if len(sales) != 0 {
		t.Errorf("sale recorded by failed commit: %d", len(sales))
	}
	if len(eng.Lines()) != 1 {
		t.Error("cart must survive a failed commit")
	}
}

func TestCommitOrderDiscount(t *testing.T) {
	store := seedStore(t, models.Product{ID: "p", Name: "Coat", Stock: 10, SellingPrice: 1000})
	eng := New(store)
	ctx := context.Background()

	if _, err := eng.AddOrIncrement(ctx, "p", 0); err != nil {
		t.Fatal(err)
	}
	eng.SetOrderDiscount(10)

	sale, err := eng.Commit(ctx, CommitRequest{Tendered: 900})
	if err != nil {
		t.Fatal(err)
	}
	if !almostEqual(sale.Total, 900) {
		t.Errorf("sale total = %v, want 900", sale.Total)
	}
	if sale.OrderDiscount != 10 {
		t.Errorf("order discount = %v, want 10", sale.OrderDiscount)
	}
}

func TestStrictModeRevalidatesStockAtCommit(t *testing.T) {
	ctx := context.Background()

	setup := func(opts ...Option) (*memory.Store, *Engine) {
		store := seedStore(t, dress(5))
		eng := New(store, opts...)
		for i := 0; i < 2; i++ {
			if _, err := eng.AddOrIncrement(ctx, "p-dress", 0); err != nil {
				t.Fatal(err)
			}
		}
		// Stock drops to 1 behind the cart's back.
		drained := dress(1)
		if err := store.PutProducts(ctx, []models.Product{drained}); err != nil {
			t.Fatal(err)
		}
		return store, eng
	}

	t.Run("strict", func(t *testing.T) {
		_, eng := setup(WithStrictStock())
		if _, err := eng.Commit(ctx, CommitRequest{Tendered: 300}); !errors.Is(err, ErrInsufficientStock) {
			t.Errorf("expected ErrInsufficientStock, got %v", err)
		}
	})

	t.Run("permissive default commits and floors stock at zero", func(t *testing.T) {
		store, eng := setup()
		if _, err := eng.Commit(ctx, CommitRequest{Tendered: 300}); err != nil {
			t.Fatalf("permissive commit failed: %v", err)
		}
		products, _ := store.Products(ctx)
		if products[0].Stock != 0 {
			t.Errorf("stock = %d, want 0", products[0].Stock)
		}
	})
}

func TestCommitResolvesCustomerName(t *testing.T) {
	store := seedStore(t, dress(10))
	ctx := context.Background()
	if err := store.PutCustomers(ctx, []models.Customer{{ID: "c1", Name: "Ada"}}); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		customerType string
		want         string
	}{
		{"", "Walk-in"},
		{"walk-in", "Walk-in"},
		{"online", "Online"},
		{"c1", "Ada"},
		{"deleted-customer", models.UnknownName},
	}
	for _, tt := range tests {
		eng := New(store)
		if _, err := eng.AddOrIncrement(ctx, "p-dress", 0); err != nil {
			t.Fatal(err)
		}
		sale, err := eng.Commit(ctx, CommitRequest{CustomerType: tt.customerType, Tendered: 150})
		if err != nil {
			t.Fatal(err)
		}
		if sale.CustomerName != tt.want {
			t.Errorf("customerType %q resolved to %q, want %q", tt.customerType, sale.CustomerName, tt.want)
		}
	}
}

func TestCommitSurvivesDeletedProduct(t *testing.T) {
	store := seedStore(t, dress(5))
	eng := New(store)
	ctx := context.Background()

	if _, err := eng.AddOrIncrement(ctx, "p-dress", 0); err != nil {
		t.Fatal(err)
	}
	// Catalog loses the product while it sits in the cart.
	if err := store.PutProducts(ctx, nil); err != nil {
		t.Fatal(err)
	}

	sale, err := eng.Commit(ctx, CommitRequest{Tendered: 150})
	if err != nil {
		t.Fatalf("commit must tolerate a dangling product reference: %v", err)
	}
	// No cost information left, so the whole line total counts as profit.
	if !almostEqual(sale.Profit, 150) {
		t.Errorf("profit = %v, want 150", sale.Profit)
	}
}

func TestSuggestedTenderedRounds(t *testing.T) {
	store := seedStore(t, models.Product{ID: "p", Name: "Belt", Stock: 5, SellingPrice: 99.49})
	eng := New(store)
	if _, err := eng.AddOrIncrement(context.Background(), "p", 0); err != nil {
		t.Fatal(err)
	}
	if got := eng.SuggestedTendered(); got != 99 {
		t.Errorf("SuggestedTendered() = %v, want 99", got)
	}
}
