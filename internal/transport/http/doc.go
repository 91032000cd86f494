// Package http implements the HTTP handlers of the dashboard API.
//
// Handlers stay thin: they parse and validate the request, call a service
// through a small interface and render either JSON (go-chi/render), a file
// download, or an RFC 7807 problem through the shared ErrorHandler.
//
// Routes mounted under /api:
//
//	GET  /dashboard               every summary table, overview and warnings
//	GET  /dashboard/{table}       one summary table (?limit=N for reorders)
//	GET  /charts/{table}.png      bar chart of one table
//	GET  /export/dashboard.xlsx   workbook with a sheet per table
//	GET  /export/{table}.csv      one table as CSV
//	POST /dataset/reload          drop the cached dataset and recompute
//	GET  /dataset/status          file identities and cache counters
//	GET  /health, /health/ready, /health/live, /version
package http
