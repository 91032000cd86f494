package dataprocessing

import (
	"math"
	"sort"

	"basketpulse/pkg/contracts/domain"
)

// HourlyCounts counts lines per order hour, ascending by hour.
// Hours without lines are omitted.
func HourlyCounts(lines []domain.EnrichedOrderLine) []domain.HourlyCount {
	counts := make(map[int]int)
	for _, l := range lines {
		counts[l.OrderHourOfDay]++
	}

	result := make([]domain.HourlyCount, 0, len(counts))
	for hour, count := range counts {
		result = append(result, domain.HourlyCount{Hour: hour, Count: count})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Hour < result[j].Hour })
	return result
}

// WeekdayCounts counts lines per day of week. Rows are sorted by the numeric
// code and then labelled; label maps a code to its display name.
func WeekdayCounts(lines []domain.EnrichedOrderLine, label func(int) string) []domain.WeekdayCount {
	counts := make(map[int]int)
	for _, l := range lines {
		counts[l.OrderDOW]++
	}

	result := make([]domain.WeekdayCount, 0, len(counts))
	for dow, count := range counts {
		result = append(result, domain.WeekdayCount{DayOfWeek: dow, Count: count})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].DayOfWeek < result[j].DayOfWeek })

	for i := range result {
		result[i].Day = label(result[i].DayOfWeek)
	}
	return result
}

// RecencyCounts counts lines per days_since_prior_order, ascending.
// Lines of first orders carry no value; they are excluded from the rows and
// reported as missing, so the row counts plus missing equal len(lines).
func RecencyCounts(lines []domain.EnrichedOrderLine) (rows []domain.RecencyCount, missing int) {
	counts := make(map[int]int)
	for _, l := range lines {
		if !l.HasPriorOrder {
			missing++
			continue
		}
		counts[l.DaysSincePriorOrder]++
	}

	rows = make([]domain.RecencyCount, 0, len(counts))
	for days, count := range counts {
		rows = append(rows, domain.RecencyCount{DaysSincePriorOrder: days, Count: count})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].DaysSincePriorOrder < rows[j].DaysSincePriorOrder })
	return rows, missing
}

// nameCount is a group-by result keyed by a display name
type nameCount struct {
	name  string
	count int
}

// countByName groups lines by key and sorts by count descending, then name
// ascending. Lines with a blank key belong to no group.
func countByName(lines []domain.EnrichedOrderLine, key func(domain.EnrichedOrderLine) string) []nameCount {
	counts := make(map[string]int)
	for _, l := range lines {
		if name := key(l); name != "" {
			counts[name]++
		}
	}

	result := make([]nameCount, 0, len(counts))
	for name, count := range counts {
		result = append(result, nameCount{name: name, count: count})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].count != result[j].count {
			return result[i].count > result[j].count
		}
		return result[i].name < result[j].name
	})
	return result
}

// DepartmentCounts counts lines per department, most purchased first.
// The table is not truncated.
func DepartmentCounts(lines []domain.EnrichedOrderLine) []domain.DepartmentCount {
	groups := countByName(lines, func(l domain.EnrichedOrderLine) string { return l.Department })

	result := make([]domain.DepartmentCount, len(groups))
	for i, g := range groups {
		result[i] = domain.DepartmentCount{Department: g.name, TotalPurchases: g.count}
	}
	return result
}

// AisleCounts counts lines per aisle, most purchased first, keeping at most
// topN rows. Aisles without lines never appear and the table is not padded.
func AisleCounts(lines []domain.EnrichedOrderLine, topN int) []domain.AisleCount {
	groups := countByName(lines, func(l domain.EnrichedOrderLine) string { return l.Aisle })
	if topN >= 0 && len(groups) > topN {
		groups = groups[:topN]
	}

	result := make([]domain.AisleCount, len(groups))
	for i, g := range groups {
		result[i] = domain.AisleCount{Aisle: g.name, TotalPurchases: g.count}
	}
	return result
}

// ProductReorders computes the reorder rate of every product, ordered by
// total purchases descending and then product name ascending.
func ProductReorders(lines []domain.EnrichedOrderLine) []domain.ProductReorder {
	type tally struct {
		total    int
		reorders int
	}

	tallies := make(map[string]*tally)
	for _, l := range lines {
		t, ok := tallies[l.ProductName]
		if !ok {
			t = &tally{}
			tallies[l.ProductName] = t
		}
		t.total++
		if l.Reordered {
			t.reorders++
		}
	}

	result := make([]domain.ProductReorder, 0, len(tallies))
	for name, t := range tallies {
		percent := float64(t.reorders) / float64(t.total) * 100
		result = append(result, domain.ProductReorder{
			ProductName:      name,
			TotalPurchase:    t.total,
			Reorders:         t.reorders,
			PercentOfReorder: percent,
			PercentDisplay:   domain.FormatPercent(percent),
		})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].TotalPurchase != result[j].TotalPurchase {
			return result[i].TotalPurchase > result[j].TotalPurchase
		}
		return result[i].ProductName < result[j].ProductName
	})
	return result
}

// BuildOverview computes the headline figures
func BuildOverview(enriched []domain.EnrichedOrderLine, organic OrganicResult, missingRecency int) domain.Overview {
	orders := make(map[int64]struct{})
	for _, l := range enriched {
		orders[l.OrderID] = struct{}{}
	}

	products := make(map[int64]struct{})
	for _, l := range organic.Lines {
		products[l.ProductID] = struct{}{}
	}

	overview := domain.Overview{
		TotalOrders:             len(orders),
		OrganicOrders:           len(organic.Orders),
		DistinctOrganicProducts: len(products),
		EnrichedLines:           len(enriched),
		OrganicLines:            len(organic.Lines),
		OrganicOrderLines:       len(organic.OrderLines),
		LinesWithoutPriorOrder:  missingRecency,
	}
	if overview.TotalOrders > 0 {
		share := float64(overview.OrganicOrders) / float64(overview.TotalOrders) * 100
		overview.OrganicOrderShare = math.Round(share*10) / 10
	}
	overview.OrganicOrderShareLabel = formatShare(overview.OrganicOrderShare)

	return overview
}
