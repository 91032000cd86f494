package dataprocessing

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"basketpulse/internal/config"
	"basketpulse/pkg/contracts/domain"
)

// sampleLines builds a deterministic mix of hours, days, gaps and names
func sampleLines() []domain.EnrichedOrderLine {
	var lines []domain.EnrichedOrderLine
	for i := 0; i < 60; i++ {
		lines = append(lines, domain.EnrichedOrderLine{
			OrderID:             int64(i / 3),
			ProductID:           int64(i % 7),
			OrderHourOfDay:      (i * 5) % 24,
			OrderDOW:            i % 7,
			DaysSincePriorOrder: i % 31,
			HasPriorOrder:       i%4 != 0,
			Reordered:           i%2 == 0,
			ProductName:         fmt.Sprintf("Organic Item %d", i%7),
			Aisle:               fmt.Sprintf("aisle %02d", i%11),
			Department:          fmt.Sprintf("dept %d", i%5),
		})
	}
	return lines
}

func TestAggregationTotals(t *testing.T) {
	lines := sampleLines()

	sum := 0
	for _, r := range HourlyCounts(lines) {
		sum += r.Count
	}
	assert.Equal(t, len(lines), sum, "hourly")

	sum = 0
	for _, r := range WeekdayCounts(lines, config.Default().Analysis.DayLabel) {
		sum += r.Count
	}
	assert.Equal(t, len(lines), sum, "weekly")

	rows, missing := RecencyCounts(lines)
	sum = missing
	for _, r := range rows {
		sum += r.Count
	}
	assert.Equal(t, len(lines), sum, "recency plus missing")

	sum = 0
	for _, r := range DepartmentCounts(lines) {
		sum += r.TotalPurchases
	}
	assert.Equal(t, len(lines), sum, "departments are not truncated")
}

func TestHourlyCounts(t *testing.T) {
	lines := []domain.EnrichedOrderLine{
		{OrderHourOfDay: 14}, {OrderHourOfDay: 9}, {OrderHourOfDay: 14}, {OrderHourOfDay: 0},
	}

	assert.Equal(t, []domain.HourlyCount{
		{Hour: 0, Count: 1},
		{Hour: 9, Count: 1},
		{Hour: 14, Count: 2},
	}, HourlyCounts(lines), "ascending by hour with zero-count hours omitted")
}

func TestWeekdayCounts(t *testing.T) {
	labels := config.Default().Analysis
	lines := []domain.EnrichedOrderLine{
		{OrderDOW: 6}, {OrderDOW: 0}, {OrderDOW: 4}, {OrderDOW: 0}, {OrderDOW: 1},
	}

	got := WeekdayCounts(lines, labels.DayLabel)

	// sorted by code, not alphabetically by label
	assert.Equal(t, []domain.WeekdayCount{
		{DayOfWeek: 0, Day: "Sun", Count: 2},
		{DayOfWeek: 1, Day: "M", Count: 1},
		{DayOfWeek: 4, Day: "T", Count: 1},
		{DayOfWeek: 6, Day: "Sat", Count: 1},
	}, got)
}

func TestRecencyCounts(t *testing.T) {
	lines := []domain.EnrichedOrderLine{
		{DaysSincePriorOrder: 30, HasPriorOrder: true},
		{DaysSincePriorOrder: 7, HasPriorOrder: true},
		{HasPriorOrder: false},
		{DaysSincePriorOrder: 0, HasPriorOrder: true},
		{DaysSincePriorOrder: 7, HasPriorOrder: true},
	}

	rows, missing := RecencyCounts(lines)

	assert.Equal(t, 1, missing)
	assert.Equal(t, []domain.RecencyCount{
		{DaysSincePriorOrder: 0, Count: 1},
		{DaysSincePriorOrder: 7, Count: 2},
		{DaysSincePriorOrder: 30, Count: 1},
	}, rows)
}

func TestDepartmentCounts_TieBreak(t *testing.T) {
	lines := []domain.EnrichedOrderLine{
		{Department: "snacks"}, {Department: "produce"}, {Department: "dairy eggs"},
		{Department: "produce"}, {Department: "snacks"},
	}

	assert.Equal(t, []domain.DepartmentCount{
		{Department: "produce", TotalPurchases: 2},
		{Department: "snacks", TotalPurchases: 2},
		{Department: "dairy eggs", TotalPurchases: 1},
	}, DepartmentCounts(lines))
}

func TestCounts_SkipBlankNames(t *testing.T) {
	lines := []domain.EnrichedOrderLine{
		{Aisle: "milk", Department: "dairy eggs"},
		{Aisle: "", Department: ""},
		{Aisle: "", Department: "dairy eggs"},
	}

	assert.Equal(t, []domain.DepartmentCount{{Department: "dairy eggs", TotalPurchases: 2}}, DepartmentCounts(lines))
	assert.Equal(t, []domain.AisleCount{{Aisle: "milk", TotalPurchases: 1}}, AisleCounts(lines, 10))
}

func TestAisleCounts_TopN(t *testing.T) {
	var lines []domain.EnrichedOrderLine
	for i := 0; i < 40; i++ {
		for j := 0; j <= i; j++ {
			lines = append(lines, domain.EnrichedOrderLine{Aisle: fmt.Sprintf("aisle %02d", i)})
		}
	}

	got := AisleCounts(lines, 30)

	require.Len(t, got, 30)
	assert.Equal(t, domain.AisleCount{Aisle: "aisle 39", TotalPurchases: 40}, got[0])
	assert.Equal(t, domain.AisleCount{Aisle: "aisle 10", TotalPurchases: 11}, got[29])
	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i-1].TotalPurchases, got[i].TotalPurchases)
	}
}

func TestAisleCounts_NoPadding(t *testing.T) {
	// the spices aisle exists but has no organic-linked purchases
	enriched := Merge(fixtureTables(t))
	organic := FilterOrganic(enriched, "Organic")

	got := AisleCounts(organic.OrderLines, 30)

	assert.Equal(t, []domain.AisleCount{
		{Aisle: "fresh fruits", TotalPurchases: 2},
		{Aisle: "milk", TotalPurchases: 1},
	}, got)
}

func TestProductReorders(t *testing.T) {
	lines := []domain.EnrichedOrderLine{
		{ProductName: "Organic Milk", Reordered: true},
		{ProductName: "Organic Apple", Reordered: true},
		{ProductName: "Organic Apple", Reordered: false},
		{ProductName: "Organic Apple", Reordered: true},
		{ProductName: "Organic Kale", Reordered: false},
	}

	got := ProductReorders(lines)

	require.Len(t, got, 3)
	assert.Equal(t, "Organic Apple", got[0].ProductName)
	assert.Equal(t, 3, got[0].TotalPurchase)
	assert.Equal(t, 2, got[0].Reorders)
	assert.InDelta(t, 66.6667, got[0].PercentOfReorder, 1e-3)
	assert.Equal(t, "66.67%", got[0].PercentDisplay)

	// equal totals fall back to name order
	assert.Equal(t, "Organic Kale", got[1].ProductName)
	assert.Equal(t, "0.00%", got[1].PercentDisplay)
	assert.Equal(t, "Organic Milk", got[2].ProductName)
	assert.Equal(t, "100.00%", got[2].PercentDisplay)
}

func TestProductReorders_Bounds(t *testing.T) {
	for _, r := range ProductReorders(sampleLines()) {
		assert.GreaterOrEqual(t, r.Reorders, 0)
		assert.LessOrEqual(t, r.Reorders, r.TotalPurchase)
		assert.GreaterOrEqual(t, r.PercentOfReorder, 0.0)
		assert.LessOrEqual(t, r.PercentOfReorder, 100.0)
		assert.Regexp(t, `^\d{1,3}\.\d{2}%$`, r.PercentDisplay)
	}
}

func TestAggregators_EmptyInput(t *testing.T) {
	var lines []domain.EnrichedOrderLine

	hourly := HourlyCounts(lines)
	weekly := WeekdayCounts(lines, config.Default().Analysis.DayLabel)
	recency, missing := RecencyCounts(lines)
	departments := DepartmentCounts(lines)
	aisles := AisleCounts(lines, 30)
	reorders := ProductReorders(lines)

	assert.NotNil(t, hourly)
	assert.NotNil(t, weekly)
	assert.NotNil(t, recency)
	assert.NotNil(t, departments)
	assert.NotNil(t, aisles)
	assert.NotNil(t, reorders)
	assert.Empty(t, hourly)
	assert.Empty(t, weekly)
	assert.Empty(t, recency)
	assert.Zero(t, missing)
	assert.Empty(t, departments)
	assert.Empty(t, aisles)
	assert.Empty(t, reorders)
}

func TestBuildOverview(t *testing.T) {
	enriched := Merge(fixtureTables(t))
	organic := FilterOrganic(enriched, "Organic")
	_, missing := RecencyCounts(organic.OrderLines)

	overview := BuildOverview(enriched, organic, missing)

	assert.Equal(t, domain.Overview{
		TotalOrders:             3,
		OrganicOrders:           2,
		OrganicOrderShare:       66.7,
		OrganicOrderShareLabel:  "66.7%",
		DistinctOrganicProducts: 2,
		EnrichedLines:           4,
		OrganicLines:            2,
		OrganicOrderLines:       3,
		LinesWithoutPriorOrder:  2,
	}, overview)
}

func TestBuildOverview_Empty(t *testing.T) {
	overview := BuildOverview(nil, FilterOrganic(nil, "Organic"), 0)

	assert.Zero(t, overview.TotalOrders)
	assert.Zero(t, overview.OrganicOrderShare)
	assert.Equal(t, "0.0%", overview.OrganicOrderShareLabel)
}
