// Package gormstore is the durable Store backend. It keeps one table per
// collection and implements the whole-collection replace contract with a
// delete-and-reinsert inside a transaction. SQLite is the default driver
// so a shop can run off a single file; a MySQL DSN switches drivers.
package gormstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"boutique-pos/internal/models"
	"boutique-pos/internal/storage"
)

const (
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
)

type Store struct {
	db  *gorm.DB
	log *zap.Logger
}

var _ storage.Store = (*Store)(nil)

// Open connects, migrates the schema and seeds the default records.
// MySQL connections are retried a few times so the app survives a
// database that is still starting up.
func Open(driver, dsn string, log *zap.Logger) (*Store, error) {
	if log == nil {
		log = zap.NewNop()
	}

	var dialector gorm.Dialector
	switch driver {
	case DriverSQLite, "":
		if dsn == "" {
			dsn = "boutique.db"
		}
		dialector = sqlite.Open(dsn)
	case DriverMySQL:
		if dsn == "" {
			return nil, errors.New("gormstore: mysql driver requires a DSN")
		}
		dialector = mysql.Open(dsn)
	default:
		return nil, fmt.Errorf("gormstore: unknown driver %q", driver)
	}

	var db *gorm.DB
	var err error
	for i := 0; i < 5; i++ {
		db, err = gorm.Open(dialector, &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		})
		if err == nil {
			break
		}
		log.Warn("database not ready, retrying", zap.Int("attempt", i+1), zap.Error(err))
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("gormstore: connect: %w", err)
	}

	err = db.AutoMigrate(
		&models.Product{},
		&models.Sale{},
		&models.SaleItem{},
		&models.Supplier{},
		&models.Customer{},
		&models.Expense{},
		&models.Category{},
		&models.CompanyInfo{},
		&models.SystemSettings{},
	)
	if err != nil {
		return nil, fmt.Errorf("gormstore: migrate: %w", err)
	}

	s := &Store{db: db, log: log}
	if err := s.seed(); err != nil {
		return nil, fmt.Errorf("gormstore: seed: %w", err)
	}
	log.Info("database ready", zap.String("driver", driver))
	return s, nil
}

// seed writes the first-run defaults for the collections that have them.
func (s *Store) seed() error {
	var count int64
	if err := s.db.Model(&models.Category{}).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		categories := storage.DefaultCategories()
		if err := s.db.Create(&categories).Error; err != nil {
			return err
		}
	}

	var settings models.SystemSettings
	if err := s.db.First(&settings, 1).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := s.db.Create(ptr(storage.DefaultSettings())).Error; err != nil {
			return err
		}
	}

	var company models.CompanyInfo
	if err := s.db.First(&company, 1).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := s.db.Create(ptr(storage.DefaultCompanyInfo())).Error; err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) Products(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := s.db.WithContext(ctx).Find(&products).Error
	return products, err
}

func (s *Store) PutProducts(ctx context.Context, products []models.Product) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return replaceProducts(tx, products)
	})
}

func (s *Store) Sales(ctx context.Context) ([]models.Sale, error) {
	var sales []models.Sale
	err := s.db.WithContext(ctx).Preload("Items").Order("sold_at asc").Find(&sales).Error
	return sales, err
}

func (s *Store) PutSales(ctx context.Context, sales []models.Sale) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return replaceSales(tx, sales)
	})
}

func (s *Store) Suppliers(ctx context.Context) ([]models.Supplier, error) {
	var suppliers []models.Supplier
	err := s.db.WithContext(ctx).Find(&suppliers).Error
	return suppliers, err
}

func (s *Store) PutSuppliers(ctx context.Context, suppliers []models.Supplier) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return replaceAll(tx, &models.Supplier{}, suppliers)
	})
}

func (s *Store) Customers(ctx context.Context) ([]models.Customer, error) {
	var customers []models.Customer
	err := s.db.WithContext(ctx).Find(&customers).Error
	return customers, err
}

func (s *Store) PutCustomers(ctx context.Context, customers []models.Customer) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return replaceAll(tx, &models.Customer{}, customers)
	})
}

func (s *Store) Expenses(ctx context.Context) ([]models.Expense, error) {
	var expenses []models.Expense
	err := s.db.WithContext(ctx).Order("date asc").Find(&expenses).Error
	return expenses, err
}

func (s *Store) PutExpenses(ctx context.Context, expenses []models.Expense) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return replaceAll(tx, &models.Expense{}, expenses)
	})
}

func (s *Store) Categories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := s.db.WithContext(ctx).Order("position asc").Find(&categories).Error
	return categories, err
}

func (s *Store) PutCategories(ctx context.Context, categories []models.Category) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return replaceAll(tx, &models.Category{}, categories)
	})
}

func (s *Store) Settings(ctx context.Context) (models.SystemSettings, error) {
	var settings models.SystemSettings
	err := s.db.WithContext(ctx).First(&settings, 1).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return storage.DefaultSettings(), nil
	}
	return settings, err
}

func (s *Store) PutSettings(ctx context.Context, settings models.SystemSettings) error {
	settings.ID = 1
	return s.db.WithContext(ctx).Save(&settings).Error
}

func (s *Store) CompanyInfo(ctx context.Context) (models.CompanyInfo, error) {
	var company models.CompanyInfo
	err := s.db.WithContext(ctx).First(&company, 1).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return storage.DefaultCompanyInfo(), nil
	}
	return company, err
}

func (s *Store) PutCompanyInfo(ctx context.Context, info models.CompanyInfo) error {
	info.ID = 1
	return s.db.WithContext(ctx).Save(&info).Error
}

// CommitSale replaces the catalog and inserts the sale (items included)
// in one database transaction, so a crash can never leave stock
// decremented without the matching sale record.
func (s *Store) CommitSale(ctx context.Context, products []models.Product, sale models.Sale) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := replaceProducts(tx, products); err != nil {
			return err
		}
		return tx.Create(&sale).Error
	})
}

func (s *Store) Export(ctx context.Context) (*models.Backup, error) {
	backup := &models.Backup{Version: models.BackupSchemaVersion, ExportedAt: time.Now()}
	var err error
	if backup.Products, err = s.Products(ctx); err != nil {
		return nil, err
	}
	if backup.Sales, err = s.Sales(ctx); err != nil {
		return nil, err
	}
	if backup.Suppliers, err = s.Suppliers(ctx); err != nil {
		return nil, err
	}
	if backup.Customers, err = s.Customers(ctx); err != nil {
		return nil, err
	}
	if backup.Expenses, err = s.Expenses(ctx); err != nil {
		return nil, err
	}
	if backup.Categories, err = s.Categories(ctx); err != nil {
		return nil, err
	}
	if backup.Company, err = s.CompanyInfo(ctx); err != nil {
		return nil, err
	}
	if backup.Settings, err = s.Settings(ctx); err != nil {
		return nil, err
	}
	return backup, nil
}

func (s *Store) Import(ctx context.Context, backup *models.Backup) error {
	if err := storage.CheckBackupVersion(backup); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := replaceProducts(tx, backup.Products); err != nil {
			return err
		}
		if err := replaceSales(tx, backup.Sales); err != nil {
			return err
		}
		if err := replaceAll(tx, &models.Supplier{}, backup.Suppliers); err != nil {
			return err
		}
		if err := replaceAll(tx, &models.Customer{}, backup.Customers); err != nil {
			return err
		}
		if err := replaceAll(tx, &models.Expense{}, backup.Expenses); err != nil {
			return err
		}
		if err := replaceAll(tx, &models.Category{}, backup.Categories); err != nil {
			return err
		}
		company := backup.Company
		company.ID = 1
		if err := tx.Save(&company).Error; err != nil {
			return err
		}
		settings := backup.Settings
		settings.ID = 1
		return tx.Save(&settings).Error
	})
}

func (s *Store) Close(_ context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func replaceProducts(tx *gorm.DB, products []models.Product) error {
	return replaceAll(tx, &models.Product{}, products)
}

// replaceSales also clears sale_items; gorm re-creates them through the
// Items association on insert.
func replaceSales(tx *gorm.DB, sales []models.Sale) error {
	if err := tx.Where("1 = 1").Delete(&models.SaleItem{}).Error; err != nil {
		return err
	}
	if err := tx.Where("1 = 1").Delete(&models.Sale{}).Error; err != nil {
		return err
	}
	if len(sales) == 0 {
		return nil
	}
	return tx.Create(&sales).Error
}

func replaceAll[T any](tx *gorm.DB, model any, rows []T) error {
	if err := tx.Where("1 = 1").Delete(model).Error; err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	return tx.CreateInBatches(rows, 200).Error
}

func ptr[T any](v T) *T { return &v }
