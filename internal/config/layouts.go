package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"baecha/internal/dispatch"
	"baecha/internal/transaction"
)

// Layouts bundles the positional assumptions of both sheet types. The
// defaults match the sheets as currently authored; a YAML file can
// override any field, so a column shift in the source spreadsheet is a
// config edit rather than a code change.
type Layouts struct {
	Dispatch    dispatch.Layout    `yaml:"dispatch"`
	Transaction transaction.Layout `yaml:"transaction"`
}

func DefaultLayouts() Layouts {
	return Layouts{
		Dispatch:    dispatch.DefaultLayout(),
		Transaction: transaction.DefaultLayout(),
	}
}

// LoadLayouts returns the defaults, overridden by the YAML file at path
// when path is non-empty.
func LoadLayouts(path string) (Layouts, error) {
	layouts := DefaultLayouts()
	if path == "" {
		return layouts, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return layouts, fmt.Errorf("read layout file: %w", err)
	}
	if err := yaml.Unmarshal(data, &layouts); err != nil {
		return layouts, fmt.Errorf("parse layout file %s: %w", path, err)
	}
	return layouts, nil
}
