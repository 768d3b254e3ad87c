package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
	"reactor.de/certext/internal/domain"
	"reactor.de/certext/internal/infra/crypto/extensions"
)

// YAMLConfigLoader implements the domain.ConfigLoader interface for YAML profiles.
type YAMLConfigLoader struct {
	registry *extensions.Registry
}

// NewYAMLConfigLoader creates a loader that checks extension entries
// against registry, or the default registry when nil.
func NewYAMLConfigLoader(registry *extensions.Registry) *YAMLConfigLoader {
	if registry == nil {
		registry = extensions.DefaultRegistry()
	}
	return &YAMLConfigLoader{registry: registry}
}

// LoadProfile reads and validates the profile at path.
func (l *YAMLConfigLoader) LoadProfile(path string) (*domain.ProfileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read profile: %w", err)
	}
	return l.ParseProfile(data)
}

// ParseProfile validates and decodes profile YAML.
func (l *YAMLConfigLoader) ParseProfile(data []byte) (*domain.ProfileConfig, error) {
	// Validate against JSON schema first
	if err := l.ValidateProfile(data); err != nil {
		return nil, fmt.Errorf("validation error: %w", err)
	}

	var cfg domain.ProfileConfig
	// Use a decoder to get strict unmarshalling
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("could not parse profile: %w", err)
	}

	if cfg.Policy.MaxChainLength < 0 {
		return nil, fmt.Errorf("%w: policy.max_chain_length must not be negative", domain.ErrValidation)
	}
	if _, _, err := cfg.Policy.ValidationTime(); err != nil {
		return nil, err
	}

	if err := l.validateExtensions(cfg.Extensions); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// validateExtensions parses every entry once so that field errors surface
// at load time rather than when the profile is built.
func (l *YAMLConfigLoader) validateExtensions(cfg domain.ExtensionsConfig) error {
	names := make([]string, 0, len(cfg))
	for name := range cfg {
		names = append(names, name)
	}
	sort.Strings(names)

	seen := map[string]string{}
	for _, name := range names {
		ext, err := l.registry.ParseProfileExtension(name, cfg[name])
		if err != nil {
			return fmt.Errorf("%w: extensions.%v", domain.ErrValidation, err)
		}
		id := ext.OID().String()
		if other, dup := seen[id]; dup {
			return fmt.Errorf("%w: extensions.%s and extensions.%s both set %s", domain.ErrValidation, other, name, id)
		}
		seen[id] = name
	}
	return nil
}

// ValidateProfile validates profile YAML against the JSON schema.
func (l *YAMLConfigLoader) ValidateProfile(data []byte) error {
	return validateProfile(data)
}
