// Package dispatch extracts dispatch records from the fixed dispatch-tab
// layout: vertical leg columns cross-joined against horizontal vehicle
// columns through a rotation-count grid.
package dispatch

// Layout names every positional assumption of the dispatch tab in one
// place. The sheet has shifted columns before; when it happens again this
// table is the only edit.
type Layout struct {
	// DataStartRow is the first row of leg data (0-indexed).
	DataStartRow int `yaml:"data_start_row"`

	// Vertical leg columns.
	DispatchTypeCol int `yaml:"dispatch_type_col"`
	LoadingCol      int `yaml:"loading_col"`
	UnloadingCol    int `yaml:"unloading_col"`
	WarningCol      int `yaml:"warning_col"`

	// Horizontal header rows and the first vehicle column.
	SupplierRow     int `yaml:"supplier_row"`
	VehicleRow      int `yaml:"vehicle_row"`
	VehicleStartCol int `yaml:"vehicle_start_col"`
}

// DefaultLayout matches the sheet as currently authored.
func DefaultLayout() Layout {
	return Layout{
		DataStartRow:    6,
		DispatchTypeCol: 0,
		LoadingCol:      1,
		UnloadingCol:    2,
		WarningCol:      3,
		SupplierRow:     3,
		VehicleRow:      4,
		VehicleStartCol: 6,
	}
}
