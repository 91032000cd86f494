package dataprocessing

import (
	"fmt"
	"time"

	"basketpulse/internal/config"
	apierrors "basketpulse/internal/errors"
	"basketpulse/pkg/contracts/domain"
)

// Summary table names
const (
	SummaryHourly      = "hourly"
	SummaryWeekly      = "weekly"
	SummaryRecency     = "recency"
	SummaryDepartments = "departments"
	SummaryAisles      = "aisles"
	SummaryReorders    = "reorders"
	SummaryOverview    = "overview"
)

// SummaryTables lists the tables of a dashboard in display order
var SummaryTables = []string{
	SummaryOverview,
	SummaryHourly,
	SummaryWeekly,
	SummaryRecency,
	SummaryDepartments,
	SummaryAisles,
	SummaryReorders,
}

// IsSummaryTable reports whether name is a known summary table
func IsSummaryTable(name string) bool {
	for _, t := range SummaryTables {
		if t == name {
			return true
		}
	}
	return false
}

// Dashboard is the full result of one pipeline run
type Dashboard struct {
	GeneratedAt time.Time                      `json:"generated_at"`
	Dataset     DatasetIdentity                `json:"dataset,omitempty"`
	Overview    domain.Overview                `json:"overview"`
	Hourly      []domain.HourlyCount           `json:"hourly"`
	Weekly      []domain.WeekdayCount          `json:"weekly"`
	Recency     []domain.RecencyCount          `json:"recency"`
	Departments []domain.DepartmentCount       `json:"departments"`
	Aisles      []domain.AisleCount            `json:"aisles"`
	Reorders    []domain.ProductReorder        `json:"reorders"`
	Warnings    []apierrors.EmptyResultWarning `json:"warnings"`
}

// Table returns one summary table by name
func (d *Dashboard) Table(name string) (interface{}, bool) {
	switch name {
	case SummaryHourly:
		return d.Hourly, true
	case SummaryWeekly:
		return d.Weekly, true
	case SummaryRecency:
		return d.Recency, true
	case SummaryDepartments:
		return d.Departments, true
	case SummaryAisles:
		return d.Aisles, true
	case SummaryReorders:
		return d.Reorders, true
	case SummaryOverview:
		return d.Overview, true
	default:
		return nil, false
	}
}

// Summarize runs every aggregator over the organic order lines and collects
// a warning for each empty intermediate or result table.
func Summarize(enriched []domain.EnrichedOrderLine, organic OrganicResult, analysis config.AnalysisConfig) *Dashboard {
	recency, missing := RecencyCounts(organic.OrderLines)

	d := &Dashboard{
		GeneratedAt: time.Now().UTC(),
		Overview:    BuildOverview(enriched, organic, missing),
		Hourly:      HourlyCounts(organic.OrderLines),
		Weekly:      WeekdayCounts(organic.OrderLines, analysis.DayLabel),
		Recency:     recency,
		Departments: DepartmentCounts(organic.OrderLines),
		Aisles:      AisleCounts(organic.OrderLines, analysis.TopAisles),
		Reorders:    ProductReorders(organic.Lines),
		Warnings:    []apierrors.EmptyResultWarning{},
	}

	if len(enriched) == 0 {
		d.warn(apierrors.StageMerge, "enriched")
	}
	if len(organic.Lines) == 0 {
		d.warn(apierrors.StageFilter, "organic")
	}
	tables := []struct {
		name string
		rows int
	}{
		{SummaryHourly, len(d.Hourly)},
		{SummaryWeekly, len(d.Weekly)},
		{SummaryRecency, len(d.Recency)},
		{SummaryDepartments, len(d.Departments)},
		{SummaryAisles, len(d.Aisles)},
		{SummaryReorders, len(d.Reorders)},
	}
	for _, t := range tables {
		if t.rows == 0 {
			d.warn(apierrors.StageAggregate, t.name)
		}
	}

	return d
}

func (d *Dashboard) warn(stage, table string) {
	d.Warnings = append(d.Warnings, apierrors.NewEmptyResultWarning(stage, table))
}

func formatShare(p float64) string {
	return fmt.Sprintf("%.1f%%", p)
}
