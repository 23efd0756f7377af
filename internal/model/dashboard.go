package model

import (
	"github.com/shopspring/decimal"
)

// TrendingEntry is a derived ranking row, never persisted
type TrendingEntry struct {
	ProductID    string          `json:"product_id"`
	Label        string          `json:"label"`
	PricePerKg   decimal.Decimal `json:"price_per_kg"`
	TotalQtySold decimal.Decimal `json:"total_qty_sold"`
}

// TrendingTable is the trending list plus a placeholder notice when it is empty
type TrendingTable struct {
	Entries []TrendingEntry `json:"entries"`
	Notice  string          `json:"notice,omitempty"`
}

// HistoryRow is one displayed line of a customer's order history
type HistoryRow struct {
	Date     string `json:"date"`
	SweetID  string `json:"sweet_id"`
	QtyKg    string `json:"qty_kg"`
	TotalINR string `json:"total_inr"`
	Status   string `json:"status"`
}

// Dashboard is everything rendered after a login attempt
type Dashboard struct {
	Phone     string        `json:"phone"`
	Greeting  string        `json:"greeting"`
	KnownUser bool          `json:"known_user"`
	History   []HistoryRow  `json:"history"`
	Trending  TrendingTable `json:"trending"`
}
