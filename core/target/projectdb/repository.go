package projectdb

import (
	"context"
	"errors"
	"fmt"

	deverrors "device-sync/core/errors"
	"device-sync/core/target"

	"github.com/beevik/etree"
	"gorm.io/gorm"
)

// Repository implements target.Repository on a project database.
type Repository struct {
	db *gorm.DB
}

var _ target.Repository = (*Repository)(nil)

// New creates a Repository and migrates the project schema.
func New(db *gorm.DB) (*Repository, error) {
	if err := db.AutoMigrate(&TagTable{}, &Constant{}, &Block{}); err != nil {
		return nil, fmt.Errorf("failed to migrate project schema: %w", err)
	}
	return &Repository{db: db}, nil
}

// CreateTable registers a tag table. Creating an existing table is a no-op.
func (r *Repository) CreateTable(ctx context.Context, name string) error {
	if err := r.db.WithContext(ctx).Where(TagTable{Name: name}).FirstOrCreate(&TagTable{Name: name}).Error; err != nil {
		return fmt.Errorf("failed to create table %s: %w", name, err)
	}
	return nil
}

func (r *Repository) ReadConstant(ctx context.Context, table, name string) (int, error) {
	c, err := r.findConstant(ctx, table, name)
	if err != nil {
		return 0, err
	}
	return c.Value, nil
}

func (r *Repository) WriteConstant(ctx context.Context, table, name string, value int) error {
	c, err := r.findConstant(ctx, table, name)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Model(c).Update("value", value).Error; err != nil {
		return fmt.Errorf("failed to write constant %s/%s: %w", table, name, err)
	}
	return nil
}

// ListConstants returns the constants of a table in creation order.
func (r *Repository) ListConstants(ctx context.Context, table string) ([]target.Constant, error) {
	if err := r.requireTable(ctx, table); err != nil {
		return nil, err
	}

	var rows []Constant
	if err := r.db.WithContext(ctx).Where("tag_table = ?", table).Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list constants of %s: %w", table, err)
	}

	out := make([]target.Constant, 0, len(rows))
	for _, row := range rows {
		out = append(out, target.Constant{ID: row.Value, Name: row.Name})
	}
	return out, nil
}

func (r *Repository) CreateConstant(ctx context.Context, table, name string, value int) (target.Handle, error) {
	if err := r.requireTable(ctx, table); err != nil {
		return target.Handle{}, err
	}

	row := Constant{Table: table, Name: name, Value: value}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return target.Handle{}, fmt.Errorf("failed to create constant %s/%s: %w", table, name, err)
	}
	return target.Handle{Table: table, Name: name, Value: value}, nil
}

func (r *Repository) RenameConstant(ctx context.Context, h target.Handle, newName string) error {
	c, err := r.findConstant(ctx, h.Table, h.Name)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Model(c).Update("name", newName).Error; err != nil {
		return fmt.Errorf("failed to rename constant %s/%s: %w", h.Table, h.Name, err)
	}
	return nil
}

func (r *Repository) DeleteConstant(ctx context.Context, h target.Handle) error {
	c, err := r.findConstant(ctx, h.Table, h.Name)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Delete(c).Error; err != nil {
		return fmt.Errorf("failed to delete constant %s/%s: %w", h.Table, h.Name, err)
	}
	return nil
}

func (r *Repository) SetComment(ctx context.Context, h target.Handle, text string) error {
	c, err := r.findConstant(ctx, h.Table, h.Name)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Model(c).Update("comment", text).Error; err != nil {
		return fmt.Errorf("failed to set comment of %s/%s: %w", h.Table, h.Name, err)
	}
	return nil
}

// Compile checks the block document and records the result on the block.
func (r *Repository) Compile(ctx context.Context, block string) (target.CompileResult, error) {
	b, err := r.findBlock(ctx, block)
	if err != nil {
		return target.CompileResult{Block: block}, err
	}

	result := target.CompileResult{Block: block, Messages: checkBlock(b.Document)}
	result.ErrorCount = len(result.Messages)

	updates := map[string]any{"compiled": result.ErrorCount == 0, "error_count": result.ErrorCount}
	if err := r.db.WithContext(ctx).Model(b).Updates(updates).Error; err != nil {
		return result, fmt.Errorf("failed to record compile result of %s: %w", block, err)
	}

	if result.ErrorCount > 0 {
		return result, fmt.Errorf("block %s: %d compile errors", block, result.ErrorCount)
	}
	return result, nil
}

// ExportDocument returns a block's document, or renders a tag table when no block
// has that name.
func (r *Repository) ExportDocument(ctx context.Context, name string) ([]byte, error) {
	b, err := r.findBlock(ctx, name)
	if err == nil {
		return []byte(b.Document), nil
	}
	if !errors.Is(err, deverrors.ErrNotFound) {
		return nil, err
	}

	if err := r.requireTable(ctx, name); err != nil {
		return nil, deverrors.NewNotFoundError("block or table", name)
	}
	var rows []Constant
	if err := r.db.WithContext(ctx).Where("tag_table = ?", name).Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to export table %s: %w", name, err)
	}
	return renderTable(name, rows)
}

func (r *Repository) ImportDocument(ctx context.Context, block string, document []byte, policy target.OverridePolicy) error {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(document); err != nil {
		return deverrors.NewParseError(block, "invalid document", err)
	}

	_, err := r.findBlock(ctx, block)
	switch {
	case err == nil && policy == target.KeepExisting:
		return fmt.Errorf("block %s already exists", block)
	case err != nil && !errors.Is(err, deverrors.ErrNotFound):
		return err
	}

	row := Block{Name: block, Document: string(document)}
	if err := r.db.WithContext(ctx).Save(&row).Error; err != nil {
		return fmt.Errorf("failed to import block %s: %w", block, err)
	}
	return nil
}

func (r *Repository) requireTable(ctx context.Context, table string) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&TagTable{}).Where("name = ?", table).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to look up table %s: %w", table, err)
	}
	if count == 0 {
		return deverrors.NewNotFoundError("table", table)
	}
	return nil
}

func (r *Repository) findConstant(ctx context.Context, table, name string) (*Constant, error) {
	var c Constant
	err := r.db.WithContext(ctx).Where("tag_table = ? AND name = ?", table, name).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, deverrors.NewNotFoundError("constant", table+"/"+name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up constant %s/%s: %w", table, name, err)
	}
	return &c, nil
}

func (r *Repository) findBlock(ctx context.Context, name string) (*Block, error) {
	var b Block
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&b).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, deverrors.NewNotFoundError("block", name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up block %s: %w", name, err)
	}
	return &b, nil
}
