// Package exporter writes the results of a run to disk.
//
// Every file is written through WriteFileAtomic, so an interrupted run never
// leaves a truncated output behind. The package covers:
//
// CSVWriter: the resolved postcode list and the combined wide table with its
// two header rows, optionally prefixed with a UTF-8 BOM for Excel.
//
// WriteMissingReport: the plain-text list of postcodes without data, written
// only when there is something to report.
//
// WriteWorkbook: the spaced presentation layout as an .xlsx workbook with
// merged variable labels.
//
// WriteSQLite: the postcode list, the missing sets and the table in long form
// as a SQLite database for ad hoc queries.
package exporter
