package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"basketpulse/pkg/contracts/domain"
)

func TestIsOrganic(t *testing.T) {
	tests := []struct {
		name    string
		product string
		want    bool
	}{
		{"prefix", "Organic Apple", true},
		{"inside a word", "Non-GMO BioOrganic Oats", true},
		{"lower case", "organic apple", false},
		{"upper case", "ORGANIC APPLE", false},
		{"no marker", "Banana", false},
		{"empty name", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsOrganic(tt.product, "Organic"))
		})
	}
}

func TestFilterOrganic_MixedBasket(t *testing.T) {
	// P1 and P3 are organic, P2 is not. O1 holds P1 and P2, O2 holds P3 and
	// O3 holds only P2.
	enriched := []domain.EnrichedOrderLine{
		{OrderID: 1, ProductID: 1, ProductName: "Organic Apple"},
		{OrderID: 1, ProductID: 2, ProductName: "Banana"},
		{OrderID: 2, ProductID: 3, ProductName: "Organic Milk"},
		{OrderID: 3, ProductID: 2, ProductName: "Banana"},
	}

	result := FilterOrganic(enriched, "Organic")

	assert.Equal(t, []int64{1, 2}, result.OrderIDs())
	assert.Equal(t, []domain.LineKey{{OrderID: 1, ProductID: 1}, {OrderID: 2, ProductID: 3}}, keysOf(result.Lines))
	assert.Equal(t, []domain.LineKey{
		{OrderID: 1, ProductID: 1},
		{OrderID: 1, ProductID: 2},
		{OrderID: 2, ProductID: 3},
	}, keysOf(result.OrderLines), "the non-organic banana rides along with its organic order")
}

func TestFilterOrganic_Laws(t *testing.T) {
	enriched := Merge(fixtureTables(t))
	result := FilterOrganic(enriched, "Organic")

	all := keySet(enriched)
	organicOrderLines := keySet(result.OrderLines)

	// OrganicOrderLine ⊆ OrganicEnrichedOrderLine ⊆ EnrichedOrderLine
	for k := range keySet(result.Lines) {
		assert.Contains(t, organicOrderLines, k)
	}
	for k := range organicOrderLines {
		assert.Contains(t, all, k)
	}

	// containment: exactly the lines of organic orders
	for _, l := range enriched {
		_, inSet := result.Orders[l.OrderID]
		_, inLines := organicOrderLines[l.Key()]
		assert.Equal(t, inSet, inLines)
	}

	for _, l := range result.Lines {
		assert.True(t, IsOrganic(l.ProductName, "Organic"))
	}
}

func TestFilterOrganic_NoMatches(t *testing.T) {
	enriched := []domain.EnrichedOrderLine{{OrderID: 1, ProductID: 2, ProductName: "Banana"}}

	result := FilterOrganic(enriched, "Organic")

	require.NotNil(t, result.Lines)
	require.NotNil(t, result.OrderLines)
	assert.Empty(t, result.Lines)
	assert.Empty(t, result.OrderLines)
	assert.Empty(t, result.Orders)
}

func TestFilterOrganic_CustomMarker(t *testing.T) {
	enriched := []domain.EnrichedOrderLine{
		{OrderID: 1, ProductID: 1, ProductName: "Bio Yogurt"},
		{OrderID: 2, ProductID: 2, ProductName: "Organic Apple"},
	}

	result := FilterOrganic(enriched, "Bio")

	assert.Equal(t, []int64{1}, result.OrderIDs())
}

func keysOf(lines []domain.EnrichedOrderLine) []domain.LineKey {
	keys := make([]domain.LineKey, len(lines))
	for i, l := range lines {
		keys[i] = l.Key()
	}
	return keys
}

func keySet(lines []domain.EnrichedOrderLine) map[domain.LineKey]struct{} {
	set := make(map[domain.LineKey]struct{}, len(lines))
	for _, l := range lines {
		set[l.Key()] = struct{}{}
	}
	return set
}
