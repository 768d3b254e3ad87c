package extensions

import (
	"fmt"
	"sort"

	"reactor.de/certext/internal/domain"
)

// ParseProfileExtension builds one extension from a profile entry. Names
// without a registered extension are read as unknown extensions with
// "oid" and "value" fields.
func (r *Registry) ParseProfileExtension(name string, raw domain.ExtensionRawConfig) (Configurable, error) {
	ext := r.CreateByName(name)
	if ext == nil {
		ext = &Unknown{}
	}
	if err := ext.ParseFromYAML(raw.Fields); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return ext, nil
}

// BuildExtensions turns a profile's extensions section into a collection.
// Entries are added in name order so that output is reproducible.
func (r *Registry) BuildExtensions(cfg domain.ExtensionsConfig) (*Extensions, error) {
	names := make([]string, 0, len(cfg))
	for name := range cfg {
		names = append(names, name)
	}
	sort.Strings(names)

	out := NewExtensionsWithRegistry(r)
	for _, name := range names {
		raw := cfg[name]
		ext, err := r.ParseProfileExtension(name, raw)
		if err != nil {
			return nil, err
		}
		if err := out.Add(ext, raw.Critical); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
	}
	return out, nil
}
