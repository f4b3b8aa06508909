// Package utils converts loosely typed spreadsheet cells into Go values.
package utils
