package devices

import (
	"testing"

	deverrors "device-sync/core/errors"
	"device-sync/core/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	assert.Equal(t, []string{"generic", "motors", "sensors", "valves"}, Kinds())

	_, err := Lookup("pumps")
	assert.True(t, deverrors.Is(err, deverrors.ErrUnknownCategory))
}

func TestFactories(t *testing.T) {
	t.Run("Valve", func(t *testing.T) {
		f, err := Lookup("valves")
		require.NoError(t, err)

		d, err := f(Row{"id": float64(3), "tag": " V3 ", "description": "Drain", "actuator": "pneumatic", "normally_open": "x"})
		require.NoError(t, err)

		v, ok := d.(*Valve)
		require.True(t, ok)
		assert.Equal(t, 3, v.ID())
		assert.Equal(t, "V3", v.DesiredTag())
		assert.Equal(t, "Drain", v.Description())
		assert.Equal(t, "pneumatic", v.Actuator)
		assert.True(t, v.NormallyOpen)
		assert.Equal(t, model.StatusPending, v.Status().Kind)
	})

	t.Run("Motor", func(t *testing.T) {
		f, _ := Lookup("motors")
		d, err := f(Row{"id": "4", "tag": "M4", "power_kw": "7.5"})
		require.NoError(t, err)
		assert.Equal(t, 7.5, d.(*Motor).PowerKW)

		_, err = f(Row{"id": "4", "tag": "M4", "power_kw": "fast"})
		assert.Error(t, err)
	})

	t.Run("Sensor", func(t *testing.T) {
		f, _ := Lookup("sensors")
		d, err := f(Row{"id": 1, "tag": "TT1", "unit": "degC", "signal": "4-20mA"})
		require.NoError(t, err)
		assert.Equal(t, "degC", d.(*Sensor).Unit)
	})

	t.Run("Generic", func(t *testing.T) {
		f, _ := Lookup("generic")
		d, err := f(Row{"id": 0, "tag": "G0"})
		require.NoError(t, err)
		_, ok := d.(*model.Record)
		assert.True(t, ok)
	})
}

func TestFactories_InvalidRows(t *testing.T) {
	f, _ := Lookup("generic")

	tests := []struct {
		name string
		row  Row
		msg  string
	}{
		{"missing id", Row{"tag": "A"}, "column id"},
		{"negative id", Row{"id": -1, "tag": "A"}, "negative id"},
		{"empty tag", Row{"id": 1, "tag": "  "}, "empty tag"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f(tt.row)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}
