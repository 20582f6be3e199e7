// Package aggregate turns survey rows into chart summaries.
//
// Every function is pure: it reads the records and the filter, never mutates
// either, and returns a fresh summary. Records with a malformed age are left
// out of the age keyed summaries only. A record with several conditions fans
// out to each of them, so the flow and bar totals may exceed the row count.
package aggregate
