package domain

import "fmt"

// HourlyCount is one bucket of the hour-of-day frequency table
type HourlyCount struct {
	Hour  int `json:"hour"`
	Count int `json:"count"`
}

// WeekdayCount is one bucket of the day-of-week frequency table.
// Day holds the display label, DayOfWeek the numeric code it was sorted by.
type WeekdayCount struct {
	DayOfWeek int    `json:"day_of_week"`
	Day       string `json:"day"`
	Count     int    `json:"count"`
}

// RecencyCount is one bucket of the days-since-prior-order table.
// A value of 30 means thirty days or more.
type RecencyCount struct {
	DaysSincePriorOrder int `json:"days_since_prior_order"`
	Count               int `json:"count"`
}

// DepartmentCount is one row of the department popularity table
type DepartmentCount struct {
	Department     string `json:"department"`
	TotalPurchases int    `json:"total_purchases"`
}

// AisleCount is one row of the aisle popularity table
type AisleCount struct {
	Aisle          string `json:"aisle"`
	TotalPurchases int    `json:"total_purchases"`
}

// ProductReorder is one row of the reorder analysis table
type ProductReorder struct {
	ProductName      string  `json:"product_name"`
	TotalPurchase    int     `json:"total_purchase"`
	Reorders         int     `json:"reorders"`
	PercentOfReorder float64 `json:"percent_of_reorder"`
	PercentDisplay   string  `json:"percent_of_reorder_display"`
}

// FormatPercent renders a percentage with two decimals and a "%" suffix
func FormatPercent(p float64) string {
	return fmt.Sprintf("%.2f%%", p)
}

// Overview holds the headline figures shown above the charts
type Overview struct {
	TotalOrders             int     `json:"total_orders"`
	OrganicOrders           int     `json:"organic_orders"`
	OrganicOrderShare       float64 `json:"organic_order_share"`
	OrganicOrderShareLabel  string  `json:"organic_order_share_label"`
	DistinctOrganicProducts int     `json:"distinct_organic_products"`
	EnrichedLines           int     `json:"enriched_lines"`
	OrganicLines            int     `json:"organic_lines"`
	OrganicOrderLines       int     `json:"organic_order_lines"`
	LinesWithoutPriorOrder  int     `json:"lines_without_prior_order"`
}
