package repository

import (
	"context"
	"fmt"

	"mishtee/internal/model"

	"gorm.io/gorm"
)

type OrderRepository interface {
	// ListByPhone returns a customer's orders newest first. A limit <= 0 returns all rows.
	ListByPhone(ctx context.Context, phone string, offset, limit int) ([]model.Order, error)
	CountByPhone(ctx context.Context, phone string) (int64, error)
	// ListSales returns the (product_id, qty_kg) projection of every order
	ListSales(ctx context.Context) ([]model.Sale, error)
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) ListByPhone(ctx context.Context, phone string, offset, limit int) ([]model.Order, error) {
	var orders []model.Order
	db := GetDB(ctx, r.db).Where("cust_phone = ?", phone).Order("order_date DESC")
	if limit > 0 {
		db = db.Offset(offset).Limit(limit)
	}
	if err := db.Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	return orders, nil
}

func (r *orderRepository) CountByPhone(ctx context.Context, phone string) (int64, error) {
	var total int64
	if err := GetDB(ctx, r.db).Model(&model.Order{}).Where("cust_phone = ?", phone).Count(&total).Error; err != nil {
		return 0, fmt.Errorf("failed to count orders: %w", err)
	}
	return total, nil
}

func (r *orderRepository) ListSales(ctx context.Context) ([]model.Sale, error) {
	var sales []model.Sale
	if err := GetDB(ctx, r.db).Model(&model.Order{}).
		Select("product_id, qty_kg").
		Scan(&sales).Error; err != nil {
		return nil, fmt.Errorf("failed to query sales: %w", err)
	}
	return sales, nil
}
