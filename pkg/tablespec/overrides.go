package tablespec

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ajitpratap0/daktela-extract/pkg/errors"
)

// WithOverrides returns a registry with the built-in specs merged with
// definitions from a YAML file. Overrides replace built-ins of the same
// name wholesale; new names add custom curated tables.
//
// File shape:
//
//	my_custom_table:
//	  endpoint: my_custom_table
//	  columns: [name, title, edited, created]
//	  date_filtered: true
//	  primary_keys: [name]
func WithOverrides(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to read table overrides file")
	}

	var overrides map[string]Spec
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfig, "failed to parse table overrides file")
	}

	specs := make(map[string]Spec, len(builtinSpecs)+len(overrides))
	for name, spec := range builtinSpecs {
		specs[name] = spec
	}
	for name, spec := range overrides {
		normalized := Normalize(name)
		if !validName.MatchString(normalized) {
			return nil, errors.Newf(errors.ErrorTypeConfig, "invalid table name %q in overrides file", name)
		}
		spec.Name = normalized
		if spec.Endpoint == "" {
			spec.Endpoint = normalized
		}
		if len(spec.PrimaryKeys) == 0 {
			spec.PrimaryKeys = []string{"name"}
		}
		specs[normalized] = spec
	}

	return &Registry{specs: specs}, nil
}
