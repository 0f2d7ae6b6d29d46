// Package mongostore backs the Store with MongoDB. Each collection maps
// to one Mongo collection; the whole-collection replace contract becomes
// drop-and-insert. Documents keep the same shape the backup format uses.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"boutique-pos/internal/models"
	"boutique-pos/internal/storage"
)

const (
	collProducts  = "products"
	collSales     = "sales"
	collSuppliers = "suppliers"
	collCustomers = "customers"
	collExpenses  = "expenses"
	collCategory  = "categories"
	collCompany   = "company_info"
	collSettings  = "system_settings"
)

type Store struct {
	client *mongo.Client
	dbName string
	log    *zap.Logger
}

var _ storage.Store = (*Store)(nil)

// Open connects, pings and seeds the first-run defaults.
func Open(ctx context.Context, uri, dbName string, log *zap.Logger) (*Store, error) {
	if log == nil {
		log = zap.NewNop()
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongostore: connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("mongostore: ping: %w", err)
	}

	s := &Store{client: client, dbName: dbName, log: log}
	if err := s.seed(ctx); err != nil {
		return nil, fmt.Errorf("mongostore: seed: %w", err)
	}
	log.Info("mongodb ready", zap.String("db", dbName))
	return s, nil
}

func (s *Store) coll(name string) *mongo.Collection {
	return s.client.Database(s.dbName).Collection(name)
}

func (s *Store) seed(ctx context.Context) error {
	count, err := s.coll(collCategory).CountDocuments(ctx, bson.D{})
	if err != nil {
		return err
	}
	if count == 0 {
		if err := replaceColl(ctx, s.coll(collCategory), storage.DefaultCategories()); err != nil {
			return err
		}
	}

	var settings models.SystemSettings
	err = s.coll(collSettings).FindOne(ctx, bson.M{"_id": 1}).Decode(&settings)
	if errors.Is(err, mongo.ErrNoDocuments) {
		if err := upsertSingleton(ctx, s.coll(collSettings), storage.DefaultSettings()); err != nil {
			return err
		}
	} else if err != nil {
		return err
	}

	var company models.CompanyInfo
	err = s.coll(collCompany).FindOne(ctx, bson.M{"_id": 1}).Decode(&company)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return upsertSingleton(ctx, s.coll(collCompany), storage.DefaultCompanyInfo())
	}
	return err
}

func (s *Store) Products(ctx context.Context) ([]models.Product, error) {
	return findAll[models.Product](ctx, s.coll(collProducts), nil)
}

func (s *Store) PutProducts(ctx context.Context, products []models.Product) error {
	return replaceColl(ctx, s.coll(collProducts), products)
}

func (s *Store) Sales(ctx context.Context) ([]models.Sale, error) {
	opts := options.Find().SetSort(bson.D{{Key: "sold_at", Value: 1}})
	return findAll[models.Sale](ctx, s.coll(collSales), opts)
}

func (s *Store) PutSales(ctx context.Context, sales []models.Sale) error {
	return replaceColl(ctx, s.coll(collSales), sales)
}

func (s *Store) Suppliers(ctx context.Context) ([]models.Supplier, error) {
	return findAll[models.Supplier](ctx, s.coll(collSuppliers), nil)
}

func (s *Store) PutSuppliers(ctx context.Context, suppliers []models.Supplier) error {
	return replaceColl(ctx, s.coll(collSuppliers), suppliers)
}

func (s *Store) Customers(ctx context.Context) ([]models.Customer, error) {
	return findAll[models.Customer](ctx, s.coll(collCustomers), nil)
}

func (s *Store) PutCustomers(ctx context.Context, customers []models.Customer) error {
	return replaceColl(ctx, s.coll(collCustomers), customers)
}

func (s *Store) Expenses(ctx context.Context) ([]models.Expense, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})
	return findAll[models.Expense](ctx, s.coll(collExpenses), opts)
}

func (s *Store) PutExpenses(ctx context.Context, expenses []models.Expense) error {
	return replaceColl(ctx, s.coll(collExpenses), expenses)
}

func (s *Store) Categories(ctx context.Context) ([]models.Category, error) {
	opts := options.Find().SetSort(bson.D{{Key: "position", Value: 1}})
	return findAll[models.Category](ctx, s.coll(collCategory), opts)
}

func (s *Store) PutCategories(ctx context.Context, categories []models.Category) error {
	return replaceColl(ctx, s.coll(collCategory), categories)
}

func (s *Store) Settings(ctx context.Context) (models.SystemSettings, error) {
	var settings models.SystemSettings
	err := s.coll(collSettings).FindOne(ctx, bson.M{"_id": 1}).Decode(&settings)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return storage.DefaultSettings(), nil
	}
	return settings, err
}

func (s *Store) PutSettings(ctx context.Context, settings models.SystemSettings) error {
	settings.ID = 1
	return upsertSingleton(ctx, s.coll(collSettings), settings)
}

func (s *Store) CompanyInfo(ctx context.Context) (models.CompanyInfo, error) {
	var company models.CompanyInfo
	err := s.coll(collCompany).FindOne(ctx, bson.M{"_id": 1}).Decode(&company)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return storage.DefaultCompanyInfo(), nil
	}
	return company, err
}

func (s *Store) PutCompanyInfo(ctx context.Context, info models.CompanyInfo) error {
	info.ID = 1
	return upsertSingleton(ctx, s.coll(collCompany), info)
}

// CommitSale runs the catalog replace and the sale insert inside a
// session transaction when the deployment supports one (replica set).
// Standalone servers reject transactions; there the two writes degrade
// to sequential, which matches the original single-writer storage.
func (s *Store) CommitSale(ctx context.Context, products []models.Product, sale models.Sale) error {
	commit := func(ctx context.Context) error {
		if err := replaceColl(ctx, s.coll(collProducts), products); err != nil {
			return err
		}
		_, err := s.coll(collSales).InsertOne(ctx, sale)
		return err
	}

	session, err := s.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (any, error) {
		return nil, commit(sc)
	})
	if err != nil && transactionsUnsupported(err) {
		s.log.Warn("mongodb transactions unavailable, committing sequentially", zap.Error(err))
		return commit(ctx)
	}
	return err
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
	if err := replaceColl(ctx, s.coll(collProducts), backup.Products); err != nil {
		return err
	}
	if err := replaceColl(ctx, s.coll(collSales), backup.Sales); err != nil {
		return err
	}
	if err := replaceColl(ctx, s.coll(collSuppliers), backup.Suppliers); err != nil {
		return err
	}
	if err := replaceColl(ctx, s.coll(collCustomers), backup.Customers); err != nil {
		return err
	}
	if err := replaceColl(ctx, s.coll(collExpenses), backup.Expenses); err != nil {
		return err
	}
	if err := replaceColl(ctx, s.coll(collCategory), backup.Categories); err != nil {
		return err
	}
	if err := s.PutCompanyInfo(ctx, backup.Company); err != nil {
		return err
	}
	return s.PutSettings(ctx, backup.Settings)
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func findAll[T any](ctx context.Context, coll *mongo.Collection, opts *options.FindOptions) ([]T, error) {
	var cursor *mongo.Cursor
	var err error
	if opts != nil {
		cursor, err = coll.Find(ctx, bson.D{}, opts)
	} else {
		cursor, err = coll.Find(ctx, bson.D{})
	}
	if err != nil {
		return nil, err
	}
	var out []T
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func replaceColl[T any](ctx context.Context, coll *mongo.Collection, rows []T) error {
	if err := coll.Drop(ctx); err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	docs := make([]any, 0, len(rows))
	for _, row := range rows {
		docs = append(docs, row)
	}
	_, err := coll.InsertMany(ctx, docs)
	return err
}

func upsertSingleton(ctx context.Context, coll *mongo.Collection, doc any) error {
	opts := options.Replace().SetUpsert(true)
	_, err := coll.ReplaceOne(ctx, bson.M{"_id": 1}, doc, opts)
	return err
}

func transactionsUnsupported(err error) bool {
	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) && cmdErr.Code == 20 {
		return true
	}
	return strings.Contains(err.Error(), "Transaction numbers")
}
