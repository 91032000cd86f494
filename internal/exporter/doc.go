// Package exporter writes dashboard summary tables to files and streams.
//
// Every table is first flattened into a Table (typed columns plus rows) and
// then rendered by one of the writers:
//
//	CSVWriter     one UTF-8 CSV per table, BOM-prefixed for Excel
//	WriteWorkbook one XLSX workbook, one sheet per table
//	WriteSQLite   one SQLite database, one SQL table per summary
//	WriteChart    a PNG bar chart of a single table
//
// Exporter ties them together for the report command.
package exporter
