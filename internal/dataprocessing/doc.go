// Package dataprocessing implements the organic basket analysis pipeline.
//
// # Architecture
//
// The package is organized into four stages that run strictly in order:
//
// 1. Loader: reads the five Instacart CSV files into typed tables
// 2. Merger: joins order lines with orders, products, aisles and departments
// 3. Organic filter: finds orders that contain an organic product
// 4. Aggregators: hourly, weekly, recency, department, aisle and reorder tables
//
// A DatasetCache sits in front of the loader and memoizes the tables per set
// of file identities (path, size, modification time and optionally a SHA-256
// of the contents).
//
// # Usage
//
//	cache := dataprocessing.NewDatasetCache(dataprocessing.NewLoader(logger), hashContents)
//	tables, identity, err := cache.Get(ctx, cfg.Dataset.Files())
//	if err != nil {
//	    return err
//	}
//	enriched := dataprocessing.Merge(tables)
//	organic := dataprocessing.FilterOrganic(enriched, cfg.Analysis.OrganicMarker)
//	dashboard := dataprocessing.Summarize(enriched, organic, cfg.Analysis)
//
// # Data Flow
//
//	CSV files → Loader → Tables → Merge → EnrichedOrderLines → FilterOrganic → Summarize → Dashboard
//
// # Error Handling
//
// Loading fails with *errors.MissingFileError, *errors.SchemaError or
// *errors.ParseError. Every stage after loading is total: empty inputs produce
// empty tables and an EmptyResultWarning on the Dashboard.
package dataprocessing
