package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCellInt(t *testing.T) {
	tests := []struct {
		name    string
		in      any
		want    int
		wantErr bool
	}{
		{"int", 5, 5, false},
		{"json number", float64(12), 12, false},
		{"string", " 42 ", 42, false},
		{"float string", "7.0", 7, false},
		{"fraction", 1.5, 0, true},
		{"text", "abc", 0, true},
		{"nil", nil, 0, true},
		{"bool", true, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CellInt(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCellString(t *testing.T) {
	assert.Equal(t, "", CellString(nil))
	assert.Equal(t, "V1", CellString("  V1 "))
	assert.Equal(t, "3", CellString(float64(3)))
	assert.Equal(t, "2.5", CellString(2.5))
}

func TestCellBool(t *testing.T) {
	assert.True(t, CellBool("X"))
	assert.True(t, CellBool("yes"))
	assert.True(t, CellBool(float64(1)))
	assert.False(t, CellBool(""))
	assert.False(t, CellBool(nil))
}
