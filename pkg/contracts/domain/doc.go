// Package domain holds the shared data contracts: the five Instacart input
// entities, the enriched order line produced by the merge, and the summary
// rows the dashboard presents.
package domain
