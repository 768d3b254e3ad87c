package domain

// ExtensionFactory resolves profile extension names
type ExtensionFactory interface {
	// ListExtensions returns all registered profile names
	ListExtensions() []string

	// IsRegistered checks if a profile name is registered
	IsRegistered(name string) bool
}

// ExtensionsConfig represents the generic extensions configuration from YAML
type ExtensionsConfig map[string]ExtensionRawConfig

// ExtensionRawConfig represents raw extension configuration with critical flag
// and arbitrary fields that will be parsed by the specific extension implementation
type ExtensionRawConfig struct {
	Critical bool                   `yaml:"critical"`
	Fields   map[string]interface{} `yaml:",inline"`
}
