package models

import (
	"time"
)

// UnknownName is shown whenever a sale or expense still references an
// entity that has since been deleted. Cross-references are soft: the id
// is stored, the lookup may miss, and history must stay displayable.
const UnknownName = "Unknown"

// Product - The Inventory
type Product struct {
	ID           string  `gorm:"primaryKey;size:36" bson:"_id" json:"id"`
	Name         string  `gorm:"index" bson:"name" json:"name"`
	Category     string  `bson:"category" json:"category"`
	Stock        int     `bson:"stock" json:"stock"`
	BuyingPrice  float64 `bson:"buying_price" json:"buying_price"`
	SellingPrice float64 `bson:"selling_price" json:"selling_price"`
	Size         string  `bson:"size,omitempty" json:"size,omitempty"`
	Color        string  `bson:"color,omitempty" json:"color,omitempty"`
	Barcode      string  `gorm:"index" bson:"barcode,omitempty" json:"barcode,omitempty"`
	SupplierID   string  `gorm:"size:36" bson:"supplier_id,omitempty" json:"supplier_id,omitempty"`
	ImageURL     string  `bson:"image_url,omitempty" json:"image_url,omitempty"`
}

// Sale - The Transaction Header. Immutable once created: every field is
// computed and frozen at commit time, including per-item snapshots.
type Sale struct {
	ID            string     `gorm:"primaryKey;size:36" bson:"_id" json:"id"`
	ReceiptNo     string     `gorm:"size:32" bson:"receipt_no" json:"receipt_no"`
	CustomerType  string     `bson:"customer_type" json:"customer_type"` // 'walk-in', 'online', or a customer id
	CustomerName  string     `bson:"customer_name" json:"customer_name"` // display name snapshot
	PaymentMethod string     `bson:"payment_method" json:"payment_method"`
	Items         []SaleItem `gorm:"foreignKey:SaleID" bson:"items" json:"items"`
	Total         float64    `bson:"total" json:"total"`
	Profit        float64    `bson:"profit" json:"profit"`
	AmountPaid    float64    `bson:"amount_paid" json:"amount_paid"`
	OrderDiscount float64    `bson:"order_discount" json:"order_discount"` // percent, already clamped
	Change        float64    `bson:"change" json:"change"`
	Notes         string     `bson:"notes,omitempty" json:"notes,omitempty"`
	SoldAt        time.Time  `gorm:"index" bson:"sold_at" json:"sold_at"`
}

// SaleItem - The specific items in a committed cart
type SaleItem struct {
	ID        string  `gorm:"primaryKey;size:36" bson:"id" json:"id"`
	SaleID    string  `gorm:"index;size:36" bson:"-" json:"sale_id"`
	ProductID string  `gorm:"size:36" bson:"product_id" json:"product_id"`
	Name      string  `bson:"name" json:"name"`   // snapshot at add-time
	Price     float64 `bson:"price" json:"price"` // selling price snapshot at add-time
	Quantity  int     `bson:"quantity" json:"quantity"`
	Discount  float64 `bson:"discount" json:"discount"` // percent 0-100
	Total     float64 `bson:"total" json:"total"`       // price * qty * (1 - discount/100)
}

type Supplier struct {
	ID      string `gorm:"primaryKey;size:36" bson:"_id" json:"id"`
	Name    string `bson:"name" json:"name"`
	Phone   string `bson:"phone,omitempty" json:"phone,omitempty"`
	Email   string `bson:"email,omitempty" json:"email,omitempty"`
	Address string `bson:"address,omitempty" json:"address,omitempty"`
}

type Customer struct {
	ID      string `gorm:"primaryKey;size:36" bson:"_id" json:"id"`
	Name    string `bson:"name" json:"name"`
	Phone   string `bson:"phone,omitempty" json:"phone,omitempty"`
	Email   string `bson:"email,omitempty" json:"email,omitempty"`
	Address string `bson:"address,omitempty" json:"address,omitempty"`
}

// Reserved expense categories that drive the dashboard aggregates.
const (
	ExpenseSupplierPayment = "Supplier Payment"
	ExpenseCreditPayment   = "Credit Payment"
)

type Expense struct {
	ID          string    `gorm:"primaryKey;size:36" bson:"_id" json:"id"`
	Category    string    `bson:"category" json:"category"` // free-form, see reserved values above
	Amount      float64   `bson:"amount" json:"amount"`
	Date        time.Time `gorm:"index" bson:"date" json:"date"`
	Description string    `bson:"description,omitempty" json:"description,omitempty"`
	SupplierID  string    `gorm:"size:36" bson:"supplier_id,omitempty" json:"supplier_id,omitempty"` // set for supplier payments
}

// Category - product classification. Position preserves the append order
// of what is logically an ordered set of strings.
type Category struct {
	Name     string `gorm:"primaryKey;size:100" bson:"_id" json:"name"`
	Position int    `bson:"position" json:"position"`
}

// CompanyInfo - singleton, overwritten wholesale on save
type CompanyInfo struct {
	ID      int    `gorm:"primaryKey" bson:"_id" json:"-"`
	Name    string `bson:"name" json:"name"`
	LogoURL string `bson:"logo_url,omitempty" json:"logo_url,omitempty"`
	Address string `bson:"address,omitempty" json:"address,omitempty"`
	Phone   string `bson:"phone,omitempty" json:"phone,omitempty"`
}

// SystemSettings - singleton, overwritten wholesale on save
type SystemSettings struct {
	ID            int     `gorm:"primaryKey" bson:"_id" json:"-"`
	CurrencyCode  string  `bson:"currency_code" json:"currency_code"`
	TaxRate       float64 `bson:"tax_rate" json:"tax_rate"`
	Notifications bool    `bson:"notifications" json:"notifications"`
	Sounds        bool    `bson:"sounds" json:"sounds"`
	StoragePref   string  `bson:"storage_pref" json:"storage_pref"`
}

// BackupSchemaVersion is the current persistence layout version, stamped
// on every export. Bump it when a collection's shape changes so Import
// can tell an incompatible document apart from a stale one.
const BackupSchemaVersion = 1

// Backup is the full collection set exchanged with the export/import
// collaborator. Import replaces every collection wholesale; there are no
// merge semantics.
type Backup struct {
	Version    int            `bson:"version" json:"version"`
	Products   []Product      `bson:"products" json:"products"`
	Sales      []Sale         `bson:"sales" json:"sales"`
	Suppliers  []Supplier     `bson:"suppliers" json:"suppliers"`
	Customers  []Customer     `bson:"customers" json:"customers"`
	Expenses   []Expense      `bson:"expenses" json:"expenses"`
	Categories []Category     `bson:"categories" json:"categories"`
	Company    CompanyInfo    `bson:"company_info" json:"company_info"`
	Settings   SystemSettings `bson:"system_settings" json:"system_settings"`
	ExportedAt time.Time      `bson:"exported_at" json:"exported_at"`
}
