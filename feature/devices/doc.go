// Package devices knows the device categories a project is made of.
//
// # Registry
//
// Each category kind ("valves", "motors", "sensors", "generic") maps to a Factory
// that turns one exported sheet row into a category-specific record shape. The
// mapping is a static table resolved when the catalog is loaded; an unregistered
// kind fails with errors.ErrUnknownCategory instead of surfacing later.
//
// Every shape embeds model.Record, so the reconciliation engine and orchestrator
// handle all categories through model.Device.
//
// # Catalog
//
// The catalog is a YAML file listing the CategoryConfig of every category:
//
//	categories:
//	  - name: Valves
//	    kind: valves
//	    sheet: valves
//	    constant_table: Valves
//	    sizing_table: Sizing
//	    block: DB_Valves
//	    array: Valves
//	    sizing_limit_key: valve_count
//	    sizing_constant: VALVE_COUNT
package devices
