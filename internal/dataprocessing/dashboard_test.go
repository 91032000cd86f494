package dataprocessing

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"basketpulse/internal/config"
	apierrors "basketpulse/internal/errors"
	"basketpulse/pkg/contracts/domain"
)

func summarizeFixture(t *testing.T) *Dashboard {
	t.Helper()
	analysis := config.Default().Analysis
	enriched := Merge(fixtureTables(t))
	return Summarize(enriched, FilterOrganic(enriched, analysis.OrganicMarker), analysis)
}

func TestSummarize_Fixture(t *testing.T) {
	d := summarizeFixture(t)

	assert.Equal(t, []domain.HourlyCount{{Hour: 9, Count: 2}, {Hour: 14, Count: 1}}, d.Hourly)
	assert.Equal(t, []domain.WeekdayCount{
		{DayOfWeek: 0, Day: "Sun", Count: 2},
		{DayOfWeek: 1, Day: "M", Count: 1},
	}, d.Weekly)
	assert.Equal(t, []domain.RecencyCount{{DaysSincePriorOrder: 7, Count: 1}}, d.Recency)
	assert.Equal(t, []domain.DepartmentCount{
		{Department: "produce", TotalPurchases: 2},
		{Department: "dairy eggs", TotalPurchases: 1},
	}, d.Departments)
	assert.Equal(t, []domain.AisleCount{
		{Aisle: "fresh fruits", TotalPurchases: 2},
		{Aisle: "milk", TotalPurchases: 1},
	}, d.Aisles)
	assert.Equal(t, []domain.ProductReorder{
		{ProductName: "Organic Apple", TotalPurchase: 1, Reorders: 1, PercentOfReorder: 100, PercentDisplay: "100.00%"},
		{ProductName: "Organic Milk", TotalPurchase: 1, Reorders: 1, PercentOfReorder: 100, PercentDisplay: "100.00%"},
	}, d.Reorders)
	assert.Equal(t, 2, d.Overview.OrganicOrders)
	assert.Empty(t, d.Warnings)
}

func TestSummarize_Idempotent(t *testing.T) {
	first := summarizeFixture(t)
	second := summarizeFixture(t)
	second.GeneratedAt = first.GeneratedAt

	assert.Equal(t, first, second)
}

func TestSummarize_NoOrganicProducts(t *testing.T) {
	analysis := config.Default().Analysis
	analysis.OrganicMarker = "Biodynamic"
	enriched := Merge(fixtureTables(t))

	d := Summarize(enriched, FilterOrganic(enriched, analysis.OrganicMarker), analysis)

	assert.Empty(t, d.Hourly)
	assert.Empty(t, d.Reorders)

	tables := make([]string, 0, len(d.Warnings))
	for _, w := range d.Warnings {
		tables = append(tables, w.Table)
	}
	assert.Equal(t, []string{"organic", SummaryHourly, SummaryWeekly, SummaryRecency, SummaryDepartments, SummaryAisles, SummaryReorders}, tables)
	assert.Equal(t, apierrors.StageFilter, d.Warnings[0].Stage)
}

func TestSummarize_EmptyMerge(t *testing.T) {
	analysis := config.Default().Analysis
	d := Summarize(nil, FilterOrganic(nil, analysis.OrganicMarker), analysis)

	require.NotEmpty(t, d.Warnings)
	assert.Equal(t, apierrors.StageMerge, d.Warnings[0].Stage)

	data, err := json.Marshal(d)
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &body))
	for _, table := range []string{"hourly", "weekly", "recency", "departments", "aisles", "reorders"} {
		assert.Equal(t, []interface{}{}, body[table], "%s renders as an empty array", table)
	}
}

func TestDashboard_Table(t *testing.T) {
	d := summarizeFixture(t)

	for _, name := range SummaryTables {
		t.Run(name, func(t *testing.T) {
			table, ok := d.Table(name)
			assert.True(t, ok)
			assert.NotNil(t, table)
			assert.True(t, IsSummaryTable(name))
		})
	}

	_, ok := d.Table("products")
	assert.False(t, ok)
	assert.False(t, IsSummaryTable("products"))
}
