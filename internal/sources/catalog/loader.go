// Package catalog loads a drink catalog override from a YAML file.
package catalog

import (
	"fmt"
	"math"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/MrSnakeDoc/sip/internal/domain"
)

// Loader reads and validates a drinks.yaml file.
type Loader struct {
	filePath string
}

// NewLoader creates a loader for filePath.
func NewLoader(filePath string) *Loader {
	return &Loader{filePath: filePath}
}

// Load parses the file and maps it to drink types in file order.
func (l *Loader) Load() ([]domain.DrinkType, error) {
	data, err := os.ReadFile(l.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse catalog yaml: %w", err)
	}

	return Map(file)
}

// Map validates entries: a non-empty unique name and a factor within
// [0, 1.2]. An empty catalog is an error since the add form needs a default.
func Map(file File) ([]domain.DrinkType, error) {
	if len(file.Drinks) == 0 {
		return nil, fmt.Errorf("catalog has no drinks")
	}

	seen := make(map[string]bool, len(file.Drinks))
	types := make([]domain.DrinkType, 0, len(file.Drinks))
	for i, d := range file.Drinks {
		name := strings.TrimSpace(d.Name)
		if name == "" {
			return nil, fmt.Errorf("drink[%d]: empty name", i)
		}
		if seen[name] {
			return nil, fmt.Errorf("drink[%d]: duplicate name %q", i, name)
		}
		if d.Factor == nil {
			return nil, fmt.Errorf("drink %q: missing factor", name)
		}
		f := *d.Factor
		if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 || f > domain.MaxFactor {
			return nil, fmt.Errorf("drink %q: factor %v outside [0, %v]", name, f, domain.MaxFactor)
		}
		seen[name] = true
		types = append(types, domain.DrinkType{Name: name, Factor: f})
	}
	return types, nil
}
