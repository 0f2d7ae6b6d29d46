// Package memory holds an in-memory Store used by tests and by demo mode
// (STORAGE_DRIVER=memory). Collections start out seeded exactly like a
// durable backend on first run.
package memory

import (
	"context"
	"sync"
	"time"

	"boutique-pos/internal/models"
	"boutique-pos/internal/storage"
)

type Store struct {
	mu         sync.RWMutex
	products   []models.Product
	sales      []models.Sale
	suppliers  []models.Supplier
	customers  []models.Customer
	expenses   []models.Expense
	categories []models.Category
	settings   models.SystemSettings
	company    models.CompanyInfo
}

var _ storage.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		categories: storage.DefaultCategories(),
		settings:   storage.DefaultSettings(),
		company:    storage.DefaultCompanyInfo(),
	}
}

func (s *Store) Products(_ context.Context) ([]models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneSlice(s.products), nil
}

func (s *Store) PutProducts(_ context.Context, products []models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = cloneSlice(products)
	return nil
}

func (s *Store) Sales(_ context.Context) ([]models.Sale, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneSales(s.sales), nil
}

func (s *Store) PutSales(_ context.Context, sales []models.Sale) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sales = cloneSales(sales)
	return nil
}

func (s *Store) Suppliers(_ context.Context) ([]models.Supplier, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneSlice(s.suppliers), nil
}

func (s *Store) PutSuppliers(_ context.Context, suppliers []models.Supplier) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.suppliers = cloneSlice(suppliers)
	return nil
}

func (s *Store) Customers(_ context.Context) ([]models.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneSlice(s.customers), nil
}

func (s *Store) PutCustomers(_ context.Context, customers []models.Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.customers = cloneSlice(customers)
	return nil
}

func (s *Store) Expenses(_ context.Context) ([]models.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneSlice(s.expenses), nil
}

func (s *Store) PutExpenses(_ context.Context, expenses []models.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expenses = cloneSlice(expenses)
	return nil
}

func (s *Store) Categories(_ context.Context) ([]models.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneSlice(s.categories), nil
}

func (s *Store) PutCategories(_ context.Context, categories []models.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories = cloneSlice(categories)
	return nil
}

func (s *Store) Settings(_ context.Context) (models.SystemSettings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings, nil
}

func (s *Store) PutSettings(_ context.Context, settings models.SystemSettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	settings.ID = 1
	s.settings = settings
	return nil
}

func (s *Store) CompanyInfo(_ context.Context) (models.CompanyInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.company, nil
}

func (s *Store) PutCompanyInfo(_ context.Context, info models.CompanyInfo) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	info.ID = 1
	s.company = info
	return nil
}

// CommitSale swaps the catalog and appends the sale under one lock, so
// readers never observe the decrement without the matching sale record.
func (s *Store) CommitSale(_ context.Context, products []models.Product, sale models.Sale) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = cloneSlice(products)
	s.sales = append(s.sales, cloneSale(sale))
	return nil
}

func (s *Store) Export(_ context.Context) (*models.Backup, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return &models.Backup{
		Version:    models.BackupSchemaVersion,
		Products:   cloneSlice(s.products),
		Sales:      cloneSales(s.sales),
		Suppliers:  cloneSlice(s.suppliers),
		Customers:  cloneSlice(s.customers),
		Expenses:   cloneSlice(s.expenses),
		Categories: cloneSlice(s.categories),
		Company:    s.company,
		Settings:   s.settings,
		ExportedAt: time.Now(),
	}, nil
}

func (s *Store) Import(_ context.Context, backup *models.Backup) error {
	if err := storage.CheckBackupVersion(backup); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = cloneSlice(backup.Products)
	s.sales = cloneSales(backup.Sales)
	s.suppliers = cloneSlice(backup.Suppliers)
	s.customers = cloneSlice(backup.Customers)
	s.expenses = cloneSlice(backup.Expenses)
	s.categories = cloneSlice(backup.Categories)
	s.company = backup.Company
	s.company.ID = 1
	s.settings = backup.Settings
	s.settings.ID = 1
	return nil
}

func (s *Store) Close(_ context.Context) error { return nil }

func cloneSlice[T any](in []T) []T {
	out := make([]T, len(in))
	copy(out, in)
	return out
}

// Sales carry an item slice, so a shallow copy is not enough.
func cloneSale(sale models.Sale) models.Sale {
	sale.Items = cloneSlice(sale.Items)
	return sale
}

func cloneSales(in []models.Sale) []models.Sale {
	out := make([]models.Sale, 0, len(in))
	for _, sale := range in {
		out = append(out, cloneSale(sale))
	}
	return out
}
