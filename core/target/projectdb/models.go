package projectdb

import "time"

// TagTable registers a named constant table.
type TagTable struct {
	Name      string `gorm:"primaryKey;column:name;size:128"`
	CreatedAt time.Time
}

func (TagTable) TableName() string {
	return "plc_tag_tables"
}

// Constant is one named integer constant of a tag table.
type Constant struct {
	ID      uint   `gorm:"primaryKey;column:id"`
	Table   string `gorm:"column:tag_table;size:128;not null;uniqueIndex:idx_constant_table_name"`
	Name    string `gorm:"column:name;size:128;not null;uniqueIndex:idx_constant_table_name"`
	Value   int    `gorm:"column:value;not null;default:0"`
	Comment string `gorm:"column:comment;size:512;default:''"`
}

func (Constant) TableName() string {
	return "plc_constants"
}

// Block is a data block and its exported document.
type Block struct {
	Name       string `gorm:"primaryKey;column:name;size:128"`
	Document   string `gorm:"column:document;type:text"`
	Compiled   bool   `gorm:"column:compiled;default:false"`
	ErrorCount int    `gorm:"column:error_count;default:0"`
	UpdatedAt  time.Time
}

func (Block) TableName() string {
	return "plc_blocks"
}
