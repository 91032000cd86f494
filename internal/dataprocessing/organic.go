package dataprocessing

import (
	"sort"
	"strings"

	"basketpulse/pkg/contracts/domain"
)

// OrganicResult is the output of FilterOrganic
type OrganicResult struct {
	// Lines are the enriched lines whose product name contains the marker
	Lines []domain.EnrichedOrderLine
	// OrderLines are all enriched lines of orders that contain at least one organic line
	OrderLines []domain.EnrichedOrderLine
	// Orders is the distinct set of order ids found in Lines
	Orders map[int64]struct{}
}

// OrderIDs returns the organic order set in ascending order
func (r OrganicResult) OrderIDs() []int64 {
	ids := make([]int64, 0, len(r.Orders))
	for id := range r.Orders {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// IsOrganic reports whether a product name contains the marker.
// The match is a case-sensitive substring test; empty names never match.
func IsOrganic(productName, marker string) bool {
	return productName != "" && strings.Contains(productName, marker)
}

// FilterOrganic selects the organic lines, the set of orders containing them,
// and every line of those orders. The enriched input is not modified.
func FilterOrganic(enriched []domain.EnrichedOrderLine, marker string) OrganicResult {
	result := OrganicResult{
		Lines:      []domain.EnrichedOrderLine{},
		OrderLines: []domain.EnrichedOrderLine{},
		Orders:     make(map[int64]struct{}),
	}

	for _, line := range enriched {
		if IsOrganic(line.ProductName, marker) {
			result.Lines = append(result.Lines, line)
			result.Orders[line.OrderID] = struct{}{}
		}
	}

	for _, line := range enriched {
		if _, ok := result.Orders[line.OrderID]; ok {
			result.OrderLines = append(result.OrderLines, line)
		}
	}

	return result
}
