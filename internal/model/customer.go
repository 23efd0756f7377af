package model

import (
	"time"
)

// Customer is a storefront customer keyed by mobile number
type Customer struct {
	Phone     string    `gorm:"type:varchar(20);primaryKey" json:"phone"`
	FullName  string    `gorm:"type:varchar(255);not null" json:"full_name"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Customer) TableName() string {
	return "customers"
}
