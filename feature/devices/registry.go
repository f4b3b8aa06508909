package devices

import (
	"fmt"
	"sort"
	"strconv"

	deverrors "device-sync/core/errors"
	"device-sync/core/model"
	"device-sync/core/utils"
)

// Row is one exported sheet row keyed by column name.
type Row map[string]any

// Column names shared by every sheet.
const (
	ColID          = "id"
	ColTag         = "tag"
	ColDescription = "description"
)

// Factory builds a category-specific record from a sheet row.
type Factory func(row Row) (model.Device, error)

var registry = map[string]Factory{
	"generic": newGeneric,
	"valves":  newValve,
	"motors":  newMotor,
	"sensors": newSensor,
}

// Lookup returns the factory registered for kind.
func Lookup(kind string) (Factory, error) {
	f, ok := registry[kind]
	if !ok {
		return nil, deverrors.UnknownCategory(kind)
	}
	return f, nil
}

// Kinds returns the registered kinds, sorted.
func Kinds() []string {
	kinds := make([]string, 0, len(registry))
	for k := range registry {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// baseRecord reads the columns every sheet shares.
func baseRecord(row Row) (model.Record, error) {
	id, err := utils.CellInt(row[ColID])
	if err != nil {
		return model.Record{}, fmt.Errorf("column %s: %w", ColID, err)
	}
	if id < 0 {
		return model.Record{}, fmt.Errorf("column %s: negative id %d", ColID, id)
	}
	tag := utils.CellString(row[ColTag])
	if tag == "" {
		return model.Record{}, fmt.Errorf("column %s: empty tag for id %d", ColTag, id)
	}
	return *model.NewRecord(id, tag, utils.CellString(row[ColDescription])), nil
}

func newGeneric(row Row) (model.Device, error) {
	rec, err := baseRecord(row)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// Valve is a record from the valves sheet.
type Valve struct {
	model.Record
	Actuator     string `json:"actuator,omitempty"`
	NormallyOpen bool   `json:"normally_open"`
}

func newValve(row Row) (model.Device, error) {
	rec, err := baseRecord(row)
	if err != nil {
		return nil, err
	}
	return &Valve{
		Record:       rec,
		Actuator:     utils.CellString(row["actuator"]),
		NormallyOpen: utils.CellBool(row["normally_open"]),
	}, nil
}

// Motor is a record from the motors sheet.
type Motor struct {
	model.Record
	Drive   string  `json:"drive,omitempty"`
	PowerKW float64 `json:"power_kw,omitempty"`
}

func newMotor(row Row) (model.Device, error) {
	rec, err := baseRecord(row)
	if err != nil {
		return nil, err
	}
	m := &Motor{Record: rec, Drive: utils.CellString(row["drive"])}
	if p := utils.CellString(row["power_kw"]); p != "" {
		kw, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, fmt.Errorf("column power_kw: %q is not a number", p)
		}
		m.PowerKW = kw
	}
	return m, nil
}

// Sensor is a record from the sensors sheet.
type Sensor struct {
	model.Record
	Unit   string `json:"unit,omitempty"`
	Signal string `json:"signal,omitempty"`
}

func newSensor(row Row) (model.Device, error) {
	rec, err := baseRecord(row)
	if err != nil {
		return nil, err
	}
	return &Sensor{
		Record: rec,
		Unit:   utils.CellString(row["unit"]),
		Signal: utils.CellString(row["signal"]),
	}, nil
}
