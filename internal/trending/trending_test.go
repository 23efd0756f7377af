package trending

import (
	"testing"

	"mishtee/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sale(id string, qty int64) model.Sale {
	return model.Sale{ProductID: id, QtyKg: decimal.NewNullDecimal(decimal.NewFromInt(qty))}
}

func product(id, name, variant string, price int64) model.Product {
	return model.Product{ItemID: id, SweetName: name, VariantType: variant, PricePerKg: decimal.NewFromInt(price)}
}

func TestComputeTieKeepsFirstAppearance(t *testing.T) {
	sales := []model.Sale{sale("P1", 3), sale("P2", 5), sale("P1", 2)}
	products := []model.Product{
		product("P1", "Kaju Katli", "Classic", 800),
		product("P2", "Rasgulla", "Soft", 400),
	}

	got := Compute(sales, products, 2)

	require.Len(t, got, 2)
	assert.Equal(t, "Kaju Katli (Classic)", got[0].Label)
	assert.True(t, got[0].PricePerKg.Equal(decimal.NewFromInt(800)))
	assert.True(t, got[0].TotalQtySold.Equal(decimal.NewFromInt(5)))
	assert.Equal(t, "Rasgulla (Soft)", got[1].Label)
	assert.True(t, got[1].PricePerKg.Equal(decimal.NewFromInt(400)))
	assert.True(t, got[1].TotalQtySold.Equal(decimal.NewFromInt(5)))
}

func TestComputeDropsUnknownProduct(t *testing.T) {
	got := Compute([]model.Sale{sale("PX", 10)}, nil, 4)
	assert.Empty(t, got)

	got = Compute(
		[]model.Sale{sale("PX", 10), sale("P1", 1)},
		[]model.Product{product("P1", "Ladoo", "Besan", 500)},
		4,
	)
	require.Len(t, got, 1)
	assert.Equal(t, "P1", got[0].ProductID)
}

func TestComputeUnknownProductStillConsumesRank(t *testing.T) {
	sales := []model.Sale{sale("PX", 10), sale("P1", 3), sale("P2", 1)}
	products := []model.Product{
		product("P1", "Ladoo", "Besan", 500),
		product("P2", "Barfi", "Milk", 600),
	}

	got := Compute(sales, products, 2)

	require.Len(t, got, 1)
	assert.Equal(t, "P1", got[0].ProductID)
}

func TestComputeEmptyInputs(t *testing.T) {
	products := []model.Product{product("P1", "Ladoo", "Besan", 500)}
	sales := []model.Sale{sale("P1", 1)}

	assert.Empty(t, Compute(nil, products, 4))
	assert.Empty(t, Compute(sales, nil, 4))
	assert.Empty(t, Compute(sales, products, 0))
	assert.Empty(t, Compute(sales, products, -1))
}

func TestComputeNullQuantityCountsAsZero(t *testing.T) {
	sales := []model.Sale{
		{ProductID: "P1"},
		sale("P2", 1),
		{ProductID: "P1", QtyKg: decimal.NewNullDecimal(decimal.RequireFromString("0.5"))},
	}
	products := []model.Product{
		product("P1", "Ladoo", "Besan", 500),
		product("P2", "Barfi", "Milk", 600),
	}

	got := Compute(sales, products, 4)

	require.Len(t, got, 2)
	assert.Equal(t, "P2", got[0].ProductID)
	assert.Equal(t, "P1", got[1].ProductID)
	assert.Equal(t, "0.5", got[1].TotalQtySold.String())
}

func TestComputeResultProperties(t *testing.T) {
	var sales []model.Sale
	ids := []string{"A", "B", "C", "D", "E", "F", "G"}
	for i := 0; i < 60; i++ {
		sales = append(sales, sale(ids[(i*5)%len(ids)], int64(i%9)))
	}
	var products []model.Product
	for _, id := range ids[:6] {
		products = append(products, product(id, "Sweet "+id, "Std", 100))
	}
	catalog := map[string]bool{}
	for _, p := range products {
		catalog[p.ItemID] = true
	}

	for k := 0; k <= len(ids)+1; k++ {
		got := Compute(sales, products, k)
		assert.LessOrEqual(t, len(got), k)

		seen := map[string]bool{}
		for i, e := range got {
			assert.False(t, seen[e.ProductID], "duplicate %s", e.ProductID)
			seen[e.ProductID] = true
			assert.True(t, catalog[e.ProductID])
			if i > 0 {
				assert.False(t, e.TotalQtySold.GreaterThan(got[i-1].TotalQtySold))
			}
		}
	}
}

func TestComputeSumsDecimals(t *testing.T) {
	sales := []model.Sale{
		{ProductID: "P1", QtyKg: decimal.NewNullDecimal(decimal.RequireFromString("0.1"))},
		{ProductID: "P1", QtyKg: decimal.NewNullDecimal(decimal.RequireFromString("0.2"))},
	}
	got := Compute(sales, []model.Product{product("P1", "Ladoo", "Besan", 500)}, DefaultTopK)

	require.Len(t, got, 1)
	assert.Equal(t, "0.3", got[0].TotalQtySold.String())
}
