package utils

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// CellInt converts a spreadsheet cell to an int. Exported sheets carry numbers as
// float64 (JSON), numeric strings ("12", " 12 ", "12.0") or integers. Fractional
// values and unparsable text are rejected.
func CellInt(val any) (int, error) {
	switch v := val.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case int32:
		return int(v), nil
	case float64:
		if v != math.Trunc(v) {
			return 0, fmt.Errorf("cell value %v is not an integer", v)
		}
		return int(v), nil
	case float32:
		return CellInt(float64(v))
	case string:
		s := strings.TrimSpace(v)
		if i, err := strconv.Atoi(s); err == nil {
			return i, nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("cell value %q is not a number", v)
		}
		return CellInt(f)
	case nil:
		return 0, fmt.Errorf("cell is empty")
	default:
		return 0, fmt.Errorf("unsupported cell type %T", val)
	}
}

// CellString converts a spreadsheet cell to trimmed text. Empty cells yield "".
func CellString(val any) string {
	switch v := val.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case float64:
		if v == math.Trunc(v) {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", v))
	}
}

// CellBool converts a spreadsheet cell to a bool. "1", "true", "yes" and "x"
// (case-insensitive) and non-zero numbers are true.
func CellBool(val any) bool {
	switch v := val.(type) {
	case bool:
		return v
	case float64:
		return v != 0
	case int:
		return v != 0
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "x":
			return true
		}
	}
	return false
}
