// Package services orchestrates the dashboard pipeline between the HTTP and
// CLI surfaces and the dataprocessing stages.
//
// DashboardService owns the dataset cache and runs
// load → merge → filter → aggregate under one tracing span per stage,
// memoizing the result for the currently loaded dataset. HealthService
// reports liveness and readiness based on dataset availability.
//
// Services return sentinel errors (ErrInvalidTable, ErrInvalidLimit) and
// the typed dataset errors from internal/errors; handlers translate both
// into RFC 7807 responses.
package services
