// Package report renders benchmark reports as console tables, JSON and live
// progress output.
package report
