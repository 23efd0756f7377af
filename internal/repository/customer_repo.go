package repository

import (
	"context"
	"errors"
	"fmt"

	"mishtee/internal/model"

	"gorm.io/gorm"
)

// CustomerRepository resolves a phone number to a customer
type CustomerRepository interface {
	FindByPhone(ctx context.Context, phone string) (*model.Customer, error)
}

type customerRepository struct {
	db *gorm.DB
}

func NewCustomerRepository(db *gorm.DB) CustomerRepository {
	return &customerRepository{db: db}
}

func (r *customerRepository) FindByPhone(ctx context.Context, phone string) (*model.Customer, error) {
	var customer model.Customer
	if err := GetDB(ctx, r.db).Where("phone = ?", phone).First(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to query customer: %w", err)
	}
	return &customer, nil
}
