package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadLayouts_EmptyPathUsesDefaults(t *testing.T) {
	layouts, err := LoadLayouts("")
	if err != nil {
		t.Fatalf("LoadLayouts() error = %v", err)
	}
	if layouts.Dispatch.DataStartRow != 6 {
		t.Errorf("Dispatch.DataStartRow = %d, want 6", layouts.Dispatch.DataStartRow)
	}
	if layouts.Transaction.StartRow != 14 || layouts.Transaction.DateCol != "A" {
		t.Errorf("Transaction = %+v", layouts.Transaction)
	}
}

func TestLoadLayouts_PartialOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layouts.yaml")
	content := []byte("dispatch:\n  data_start_row: 8\ntransaction:\n  start_row: 20\n  date_col: B\n")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}

	layouts, err := LoadLayouts(path)
	if err != nil {
		t.Fatalf("LoadLayouts() error = %v", err)
	}
	if layouts.Dispatch.DataStartRow != 8 {
		t.Errorf("Dispatch.DataStartRow = %d, want 8", layouts.Dispatch.DataStartRow)
	}
	if layouts.Transaction.StartRow != 20 || layouts.Transaction.DateCol != "B" {
		t.Errorf("Transaction override = %+v", layouts.Transaction)
	}
	// Fields absent from the file keep their defaults.
	if layouts.Transaction.VehicleCol != "B" {
		t.Errorf("VehicleCol = %q, want default B", layouts.Transaction.VehicleCol)
	}
	if layouts.Dispatch.VehicleStartCol != 6 {
		t.Errorf("VehicleStartCol = %d, want default 6", layouts.Dispatch.VehicleStartCol)
	}
}

func TestLoadLayouts_MissingFile(t *testing.T) {
	if _, err := LoadLayouts("/does/not/exist.yaml"); err == nil {
		t.Fatal("LoadLayouts() = nil error for missing file")
	}
}

func TestLoadLayouts_MalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layouts.yaml")
	if err := os.WriteFile(path, []byte("dispatch: [not a mapping"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadLayouts(path); err == nil {
		t.Fatal("LoadLayouts() = nil error for malformed yaml")
	}
}
