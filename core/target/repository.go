package target

import "context"

// Constant is a named integer constant as listed from a target table.
type Constant struct {
	// ID is the constant value, which doubles as the device id.
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Handle addresses a constant created in or listed from a target table.
type Handle struct {
	Table string
	Name  string
	Value int
}

// OverridePolicy controls ImportDocument when the block already exists.
type OverridePolicy int

const (
	// Override replaces an existing block.
	Override OverridePolicy = iota
	// KeepExisting fails the import when the block already exists.
	KeepExisting
)

// CompileResult reports the outcome of compiling a block.
type CompileResult struct {
	Block      string
	ErrorCount int
	Messages   []string
}

// Repository is the narrow command surface of the engineering target.
//
// Calls block until the target answers. Implementations return errors that
// match errors.ErrNotFound for missing tables, constants and blocks.
type Repository interface {
	// ReadConstant returns the value of a named constant.
	ReadConstant(ctx context.Context, table, name string) (int, error)
	// WriteConstant sets the value of an existing named constant.
	WriteConstant(ctx context.Context, table, name string, value int) error
	// ListConstants returns all constants of a table in export order.
	ListConstants(ctx context.Context, table string) ([]Constant, error)
	// CreateConstant adds a constant to a table.
	CreateConstant(ctx context.Context, table, name string, value int) (Handle, error)
	// RenameConstant changes the name of a constant.
	RenameConstant(ctx context.Context, h Handle, newName string) error
	// DeleteConstant removes a constant.
	DeleteConstant(ctx context.Context, h Handle) error
	// SetComment writes the comment of a constant. Callers treat failures as best-effort.
	SetComment(ctx context.Context, h Handle, text string) error
	// Compile compiles a block. A non-zero ErrorCount is reported with a non-nil error.
	Compile(ctx context.Context, block string) (CompileResult, error)
	// ExportDocument exports a block or a constant table as an XML document.
	ExportDocument(ctx context.Context, name string) ([]byte, error)
	// ImportDocument imports a block document.
	ImportDocument(ctx context.Context, block string, document []byte, policy OverridePolicy) error
}
