package model

// CategoryConfig describes one device category. It is immutable for a session.
type CategoryConfig struct {
	// Name is the display name and lookup key, e.g. "Valves".
	Name string `yaml:"name" json:"name"`
	// Kind selects the record shape from the category registry, e.g. "valves".
	Kind string `yaml:"kind" json:"kind"`
	// Sheet identifies the source sheet export.
	Sheet string `yaml:"sheet" json:"sheet"`
	// ConstantTable is the target table holding one constant per device (name=tag, value=id).
	ConstantTable string `yaml:"constant_table" json:"constant_table"`
	// SizingTable is the target table holding the sizing constant.
	SizingTable string `yaml:"sizing_table" json:"sizing_table"`
	// Block is the target data block carrying the device array.
	Block string `yaml:"block" json:"block"`
	// Array is the member name of the device array inside the block's Static section.
	Array string `yaml:"array" json:"array"`
	// SizingLimitKey is the key of the desired limit in the snapshot's limit table.
	SizingLimitKey string `yaml:"sizing_limit_key" json:"sizing_limit_key"`
	// SizingConstant is the name of the sizing constant in SizingTable.
	SizingConstant string `yaml:"sizing_constant" json:"sizing_constant"`
}
