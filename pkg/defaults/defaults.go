// Package defaults holds the baseline template library shipped with the binary.
package defaults

import (
	_ "embed"
	"fmt"
	"sync"

	"github.com/Moosa-Imran/Content-Machine-sub001/pkg/domain"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var rawDefaults []byte

var (
	once     sync.Once
	baseline domain.Framework
)

// Default returns a fresh deep copy of the baseline framework.
// Callers may mutate the result freely.
func Default() domain.Framework {
	once.Do(func() {
		fw, err := Parse(rawDefaults)
		if err != nil {
			// The asset is compiled in; a parse failure is a build defect.
			panic(fmt.Sprintf("defaults: embedded framework is invalid: %v", err))
		}
		baseline = fw
	})
	return baseline.Clone()
}

// Parse decodes a YAML template library and completes it to all five categories.
// Keys outside the category registry are rejected.
func Parse(data []byte) (domain.Framework, error) {
	var raw map[string][]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode framework yaml: %w", err)
	}

	fw := make(domain.Framework, len(raw))
	for key, templates := range raw {
		if !domain.IsValidCategory(key) {
			return nil, fmt.Errorf("unknown category %q", key)
		}
		fw[domain.Category(key)] = templates
	}
	return fw.Complete(), nil
}
