package repository

import (
	"context"
	"fmt"
	"time"

	"mishtee/internal/model"
	"mishtee/internal/supabase"

	"github.com/shopspring/decimal"
)

// PostgREST-backed repositories for deployments that talk to Supabase over HTTPS
// instead of holding a direct postgres connection.

type restCustomerRepository struct {
	client *supabase.Client
}

func NewRESTCustomerRepository(client *supabase.Client) CustomerRepository {
	return &restCustomerRepository{client: client}
}

func (r *restCustomerRepository) FindByPhone(ctx context.Context, phone string) (*model.Customer, error) {
	var rows []model.Customer
	if err := r.client.From("customers").
		Select("phone,full_name").
		Eq("phone", phone).
		Limit(1).
		Into(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to query customer: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return &rows[0], nil
}

type restOrder struct {
	ProductID     string              `json:"product_id"`
	QtyKg         decimal.NullDecimal `json:"qty_kg"`
	OrderDate     string              `json:"order_date"`
	OrderValueINR decimal.NullDecimal `json:"order_value_inr"`
	Status        string              `json:"status"`
	CustPhone     string              `json:"cust_phone"`
}

var orderDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02 15:04:05",
	time.DateOnly,
}

// parseOrderDate accepts both timestamp and date columns. An unparseable value
// yields the zero time rather than failing the whole page.
func parseOrderDate(s string) time.Time {
	for _, layout := range orderDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

type restOrderRepository struct {
	client *supabase.Client
}

func NewRESTOrderRepository(client *supabase.Client) OrderRepository {
	return &restOrderRepository{client: client}
}

func (r *restOrderRepository) ListByPhone(ctx context.Context, phone string, offset, limit int) ([]model.Order, error) {
	q := r.client.From("orders").
		Select("product_id,qty_kg,order_date,order_value_inr,status,cust_phone").
		Eq("cust_phone", phone).
		Order("order_date", false)
	if limit > 0 {
		q = q.Offset(offset).Limit(limit)
	}

	var rows []restOrder
	if err := q.Into(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}

	orders := make([]model.Order, 0, len(rows))
	for _, row := range rows {
		orders = append(orders, model.Order{
			ProductID:     row.ProductID,
			QtyKg:         row.QtyKg,
			OrderDate:     parseOrderDate(row.OrderDate),
			OrderValueINR: row.OrderValueINR,
			Status:        row.Status,
			CustPhone:     row.CustPhone,
		})
	}
	return orders, nil
}

func (r *restOrderRepository) CountByPhone(ctx context.Context, phone string) (int64, error) {
	resp, err := r.client.From("orders").
		Select("product_id").
		Eq("cust_phone", phone).
		Limit(1).
		CountExact().
		Execute(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count orders: %w", err)
	}
	total := resp.Total()
	if total < 0 {
		return 0, fmt.Errorf("failed to count orders: missing Content-Range total")
	}
	return total, nil
}

func (r *restOrderRepository) ListSales(ctx context.Context) ([]model.Sale, error) {
	var sales []model.Sale
	if err := r.client.From("orders").Select("product_id,qty_kg").Into(ctx, &sales); err != nil {
		return nil, fmt.Errorf("failed to query sales: %w", err)
	}
	return sales, nil
}

type restProductRepository struct {
	client *supabase.Client
}

func NewRESTProductRepository(client *supabase.Client) ProductRepository {
	return &restProductRepository{client: client}
}

func (r *restProductRepository) ListAll(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	if err := r.client.From("products").
		Select("item_id,sweet_name,variant_type,price_per_kg").
		Into(ctx, &products); err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	return products, nil
}
