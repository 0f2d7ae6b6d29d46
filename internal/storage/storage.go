// Package storage defines the persistence port the rest of the
// application is written against. Every collection is read and replaced
// as a whole; there is no partial-row update API and no validation at
// this layer - callers validate before calling the Put side.
package storage

import (
	"context"
	"errors"
	"fmt"

	"boutique-pos/internal/models"
)

// ErrBackupVersion is returned by Import when the backup document was
// written by a newer schema than this build understands.
var ErrBackupVersion = errors.New("storage: unsupported backup version")

// CheckBackupVersion gates Import. Version 0 is accepted as a legacy
// pre-versioning export; anything above the current schema is rejected
// rather than guessed at.
func CheckBackupVersion(backup *models.Backup) error {
	if backup.Version < 0 || backup.Version > models.BackupSchemaVersion {
		return fmt.Errorf("%w: got %d, supported up to %d",
			ErrBackupVersion, backup.Version, models.BackupSchemaVersion)
	}
	return nil
}

// Store is the whole-collection persistence facade. Implementations must
// seed each collection with its documented default on first access and
// make CommitSale atomic: the decremented catalog and the appended sale
// record land together or not at all.
type Store interface {
	Products(ctx context.Context) ([]models.Product, error)
	PutProducts(ctx context.Context, products []models.Product) error

	Sales(ctx context.Context) ([]models.Sale, error)
	PutSales(ctx context.Context, sales []models.Sale) error

	Suppliers(ctx context.Context) ([]models.Supplier, error)
	PutSuppliers(ctx context.Context, suppliers []models.Supplier) error

	Customers(ctx context.Context) ([]models.Customer, error)
	PutCustomers(ctx context.Context, customers []models.Customer) error

	Expenses(ctx context.Context) ([]models.Expense, error)
	PutExpenses(ctx context.Context, expenses []models.Expense) error

	Categories(ctx context.Context) ([]models.Category, error)
	PutCategories(ctx context.Context, categories []models.Category) error

	Settings(ctx context.Context) (models.SystemSettings, error)
	PutSettings(ctx context.Context, settings models.SystemSettings) error

	CompanyInfo(ctx context.Context) (models.CompanyInfo, error)
	PutCompanyInfo(ctx context.Context, info models.CompanyInfo) error

	// CommitSale writes the full (already decremented) catalog and
	// appends one sale record in a single transaction.
	CommitSale(ctx context.Context, products []models.Product, sale models.Sale) error

	// Export and Import are the backup collaborator contract: hand over
	// the full collection set / replace every collection wholesale.
	// Export stamps the current schema version; Import must refuse
	// documents from a newer schema (see CheckBackupVersion).
	Export(ctx context.Context) (*models.Backup, error)
	Import(ctx context.Context, backup *models.Backup) error

	Close(ctx context.Context) error
}

// DefaultCategories is the category list seeded on first run.
func DefaultCategories() []models.Category {
	names := []string{"Tops", "Dresses", "Pants", "Shoes", "Accessories"}
	categories := make([]models.Category, 0, len(names))
	for i, name := range names {
		categories = append(categories, models.Category{Name: name, Position: i})
	}
	return categories
}

// DefaultSettings is the settings record seeded on first run.
func DefaultSettings() models.SystemSettings {
	return models.SystemSettings{
		ID:            1,
		CurrencyCode:  "USD",
		TaxRate:       0,
		Notifications: true,
		Sounds:        true,
		StoragePref:   "local",
	}
}

// DefaultCompanyInfo is the company record seeded on first run.
func DefaultCompanyInfo() models.CompanyInfo {
	return models.CompanyInfo{ID: 1, Name: "My Boutique"}
}
