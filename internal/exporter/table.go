package exporter

import (
	"errors"
	"fmt"

	"basketpulse/internal/dataprocessing"
)

// ErrUnknownTable is returned for a name that is not a summary table
var ErrUnknownTable = errors.New("unknown summary table")

// Column types map onto SQLite storage classes
const (
	KindText    = "TEXT"
	KindInteger = "INTEGER"
	KindReal    = "REAL"
	KindNumeric = "NUMERIC"
)

// Column describes one output column
type Column struct {
	Name string
	Kind string
}

// Table is a flattened summary table ready for export
type Table struct {
	Name    string
	Columns []Column
	Rows    [][]interface{}
}

// Headers returns the column names
func (t Table) Headers() []string {
	headers := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		headers[i] = c.Name
	}
	return headers
}

// Records renders every row as CSV text
func (t Table) Records() [][]string {
	records := make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		record := make([]string, len(row))
		for j, v := range row {
			record[j] = formatCell(v)
		}
		records[i] = record
	}
	return records
}

// TablesFrom flattens every summary table of d in display order
func TablesFrom(d *dataprocessing.Dashboard) []Table {
	tables := make([]Table, 0, len(dataprocessing.SummaryTables))
	for _, name := range dataprocessing.SummaryTables {
		t, _ := TableFrom(d, name)
		tables = append(tables, t)
	}
	return tables
}

// TableFrom flattens a single summary table
func TableFrom(d *dataprocessing.Dashboard, name string) (Table, error) {
	t := Table{Name: name}

	switch name {
	case dataprocessing.SummaryHourly:
		t.Columns = []Column{{"hour", KindInteger}, {"count", KindInteger}}
		for _, r := range d.Hourly {
			t.Rows = append(t.Rows, []interface{}{r.Hour, r.Count})
		}
	case dataprocessing.SummaryWeekly:
		t.Columns = []Column{{"order_dow", KindInteger}, {"day", KindText}, {"count", KindInteger}}
		for _, r := range d.Weekly {
			t.Rows = append(t.Rows, []interface{}{r.DayOfWeek, r.Day, r.Count})
		}
	case dataprocessing.SummaryRecency:
		t.Columns = []Column{{"days_since_prior_order", KindInteger}, {"count", KindInteger}}
		for _, r := range d.Recency {
			t.Rows = append(t.Rows, []interface{}{r.DaysSincePriorOrder, r.Count})
		}
	case dataprocessing.SummaryDepartments:
		t.Columns = []Column{{"department", KindText}, {"total_purchases", KindInteger}}
		for _, r := range d.Departments {
			t.Rows = append(t.Rows, []interface{}{r.Department, r.TotalPurchases})
		}
	case dataprocessing.SummaryAisles:
		t.Columns = []Column{{"aisle", KindText}, {"total_purchases", KindInteger}}
		for _, r := range d.Aisles {
			t.Rows = append(t.Rows, []interface{}{r.Aisle, r.TotalPurchases})
		}
	case dataprocessing.SummaryReorders:
		t.Columns = []Column{
			{"product_name", KindText},
			{"total_purchase", KindInteger},
			{"reorders", KindInteger},
			{"percent_of_reorder", KindText},
		}
		for _, r := range d.Reorders {
			t.Rows = append(t.Rows, []interface{}{r.ProductName, r.TotalPurchase, r.Reorders, r.PercentDisplay})
		}
	case dataprocessing.SummaryOverview:
		o := d.Overview
		t.Columns = []Column{{"metric", KindText}, {"value", KindNumeric}}
		t.Rows = [][]interface{}{
			{"total_orders", o.TotalOrders},
			{"organic_orders", o.OrganicOrders},
			{"organic_order_share", o.OrganicOrderShare},
			{"distinct_organic_products", o.DistinctOrganicProducts},
			{"enriched_lines", o.EnrichedLines},
			{"organic_lines", o.OrganicLines},
			{"organic_order_lines", o.OrganicOrderLines},
			{"lines_without_prior_order", o.LinesWithoutPriorOrder},
		}
	default:
		return t, fmt.Errorf("%w: %s", ErrUnknownTable, name)
	}

	return t, nil
}
