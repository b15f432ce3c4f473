package matrix

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type entryFile struct {
	Entries []Entry `yaml:"entries"`
}

// LoadFile bulk-loads entries from a YAML file, replacing the current
// set. The file carries a top-level "entries" list.
func (m *Matrix) LoadFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("matrix: read %s: %w", path, err)
	}
	var f entryFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return fmt.Errorf("matrix: parse %s: %w", path, err)
	}
	if len(f.Entries) == 0 {
		return fmt.Errorf("matrix: %s contains no entries", path)
	}
	if err := m.Load(f.Entries); err != nil {
		return fmt.Errorf("matrix: load %s: %w", path, err)
	}
	return nil
}
