package errors_test

import (
	"fmt"
	"testing"

	deverrors "device-sync/core/errors"

	"github.com/stretchr/testify/assert"
)

func TestErrorClasses(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
		message  string
	}{
		{
			name:     "not found",
			err:      deverrors.NewNotFoundError("constant", "VALVE_COUNT"),
			sentinel: deverrors.ErrNotFound,
			message:  `constant "VALVE_COUNT" not found`,
		},
		{
			name:     "parse failure",
			err:      deverrors.NewParseError("DB_Valves", "section Static missing", nil),
			sentinel: deverrors.ErrParseFailure,
			message:  "parse DB_Valves: section Static missing",
		},
		{
			name:     "external call",
			err:      deverrors.NewExternalCallError("Compile", "DB_Valves", fmt.Errorf("license missing")),
			sentinel: deverrors.ErrExternalCall,
			message:  "Compile DB_Valves: license missing",
		},
		{
			name:     "critical",
			err:      deverrors.NewCriticalError("synchronize", "nil map"),
			sentinel: deverrors.ErrCritical,
			message:  "critical failure during synchronize: nil map",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, deverrors.Is(tt.err, tt.sentinel))
			assert.Equal(t, tt.message, tt.err.Error())
		})
	}
}

func TestExternalCallError_WrapsNotFound(t *testing.T) {
	err := deverrors.NewExternalCallError("ReadConstant", "Sizing/VALVE_COUNT", deverrors.NewNotFoundError("constant", "VALVE_COUNT"))

	assert.True(t, deverrors.Is(err, deverrors.ErrExternalCall))
	assert.True(t, deverrors.Is(err, deverrors.ErrNotFound))

	var nf *deverrors.NotFoundError
	assert.True(t, deverrors.As(err, &nf))
	assert.Equal(t, "VALVE_COUNT", nf.Name)
}

func TestUnknownCategory(t *testing.T) {
	err := deverrors.UnknownCategory("pumps")
	assert.True(t, deverrors.Is(err, deverrors.ErrUnknownCategory))
	assert.Contains(t, err.Error(), "pumps")
}
