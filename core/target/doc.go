// Package target defines the Repository capability through which the core reads
// and mutates the engineering target: named constant tables, the blocks that carry
// device arrays, and their exported XML documents.
//
// The core never reaches into the target any other way. projectdb provides a
// gorm-backed implementation; mocks provides a testify mock for unit tests.
package target
