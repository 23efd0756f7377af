package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product is a catalog entry. The catalog is authoritative for labels and prices.
type Product struct {
	ItemID      string          `gorm:"column:item_id;type:varchar(50);primaryKey" json:"item_id"`
	SweetName   string          `gorm:"column:sweet_name;type:varchar(255);not null" json:"sweet_name"`
	VariantType string          `gorm:"column:variant_type;type:varchar(100);not null" json:"variant_type"`
	PricePerKg  decimal.Decimal `gorm:"column:price_per_kg;type:decimal(10,2);not null" json:"price_per_kg"`
}

func (Product) TableName() string {
	return "products"
}

// Order status values seen in the orders table
const (
	OrderStatusPending   = "Pending"
	OrderStatusDelivered = "Delivered"
	OrderStatusCancelled = "Cancelled"
)

// Order is an immutable historical purchase record
type Order struct {
	ID            uuid.UUID           `gorm:"type:uuid;primaryKey" json:"order_id"`
	ProductID     string              `gorm:"column:product_id;type:varchar(50);not null;index" json:"product_id"`
	QtyKg         decimal.NullDecimal `gorm:"column:qty_kg;type:decimal(10,3)" json:"qty_kg"`
	OrderDate     time.Time           `gorm:"column:order_date;index" json:"order_date"`
	OrderValueINR decimal.NullDecimal `gorm:"column:order_value_inr;type:decimal(12,2)" json:"order_value_inr"`
	Status        string              `gorm:"column:status;type:varchar(50)" json:"status"`
	CustPhone     string              `gorm:"column:cust_phone;type:varchar(20);index" json:"cust_phone"`
}

func (Order) TableName() string {
	return "orders"
}

// BeforeCreate assigns an ID so inserts do not depend on a server-side uuid default
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// Sale is the (product_id, qty_kg) projection of an order used for ranking
type Sale struct {
	ProductID string              `gorm:"column:product_id" json:"product_id"`
	QtyKg     decimal.NullDecimal `gorm:"column:qty_kg" json:"qty_kg"`
}

// Qty returns the sold quantity, treating a null qty_kg as zero
func (s Sale) Qty() decimal.Decimal {
	if !s.QtyKg.Valid {
		return decimal.Zero
	}
	return s.QtyKg.Decimal
}
