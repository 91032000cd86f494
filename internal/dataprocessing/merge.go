package dataprocessing

import (
	"basketpulse/pkg/contracts/domain"
)

// productInfo is a product joined with its aisle and department names
type productInfo struct {
	name       string
	aisle      string
	department string
}

// Merge joins the source tables into one row per order line.
//
// Products are joined with aisles and departments first; orders are then
// joined with order lines, and the result with the enriched products. All
// joins are inner joins: lines whose order, product, aisle or department is
// unknown are dropped. Rows keep the order of the order lines file.
func Merge(tables *Tables) []domain.EnrichedOrderLine {
	if tables == nil {
		return []domain.EnrichedOrderLine{}
	}

	aisles := make(map[int64]string, len(tables.Aisles))
	for _, a := range tables.Aisles {
		aisles[a.AisleID] = a.Aisle
	}

	departments := make(map[int64]string, len(tables.Departments))
	for _, d := range tables.Departments {
		departments[d.DepartmentID] = d.Department
	}

	products := make(map[int64]productInfo, len(tables.Products))
	for _, p := range tables.Products {
		aisle, ok := aisles[p.AisleID]
		if !ok {
			continue
		}
		department, ok := departments[p.DepartmentID]
		if !ok {
			continue
		}
		products[p.ProductID] = productInfo{name: p.ProductName, aisle: aisle, department: department}
	}

	orders := make(map[int64]domain.Order, len(tables.Orders))
	for _, o := range tables.Orders {
		orders[o.OrderID] = o
	}

	enriched := make([]domain.EnrichedOrderLine, 0, len(tables.OrderLines))
	for _, line := range tables.OrderLines {
		order, ok := orders[line.OrderID]
		if !ok {
			continue
		}
		product, ok := products[line.ProductID]
		if !ok {
			continue
		}
		enriched = append(enriched, domain.EnrichedOrderLine{
			OrderID:             order.OrderID,
			UserID:              order.UserID,
			OrderDOW:            order.OrderDOW,
			OrderHourOfDay:      order.OrderHourOfDay,
			DaysSincePriorOrder: order.DaysSincePriorOrder,
			HasPriorOrder:       order.HasPriorOrder,
			ProductID:           line.ProductID,
			AddToCartOrder:      line.AddToCartOrder,
			Reordered:           line.Reordered,
			ProductName:         product.name,
			Aisle:               product.aisle,
			Department:          product.department,
		})
	}

	return enriched
}
