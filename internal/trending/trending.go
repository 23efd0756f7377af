// Package trending ranks catalog products by cumulative quantity sold.
package trending

import (
	"sort"

	"mishtee/internal/model"

	"github.com/shopspring/decimal"
)

// DefaultTopK is the number of best sellers shown on the dashboard
const DefaultTopK = 4

type productTotal struct {
	productID string
	total     decimal.Decimal
}

// Compute groups sales by product, sums qty_kg, and returns the topK products
// with the highest totals, labelled from the catalog. Equal totals keep the order
// in which their product first appeared in sales. Products missing from the
// catalog are dropped after the topK cut, so the result may be shorter than topK.
func Compute(sales []model.Sale, products []model.Product, topK int) []model.TrendingEntry {
	if topK <= 0 || len(sales) == 0 || len(products) == 0 {
		return []model.TrendingEntry{}
	}

	totals := make([]productTotal, 0)
	index := make(map[string]int)
	for _, s := range sales {
		i, ok := index[s.ProductID]
		if !ok {
			i = len(totals)
			index[s.ProductID] = i
			totals = append(totals, productTotal{productID: s.ProductID, total: decimal.Zero})
		}
		totals[i].total = totals[i].total.Add(s.Qty())
	}

	sort.SliceStable(totals, func(a, b int) bool {
		return totals[a].total.GreaterThan(totals[b].total)
	})

	if len(totals) > topK {
		totals = totals[:topK]
	}

	catalog := make(map[string]model.Product, len(products))
	for _, p := range products {
		if _, seen := catalog[p.ItemID]; !seen {
			catalog[p.ItemID] = p
		}
	}

	entries := make([]model.TrendingEntry, 0, len(totals))
	for _, t := range totals {
		p, ok := catalog[t.productID]
		if !ok {
			continue
		}
		entries = append(entries, model.TrendingEntry{
			ProductID:    t.productID,
			Label:        Label(p),
			PricePerKg:   p.PricePerKg,
			TotalQtySold: t.total,
		})
	}
	return entries
}

// Label formats a product as "{sweet_name} ({variant_type})"
func Label(p model.Product) string {
	return p.SweetName + " (" + p.VariantType + ")"
}
