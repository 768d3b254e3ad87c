package extensions

import (
	"encoding/asn1"
	"fmt"
	"sort"
	"sync"

	"reactor.de/certext/internal/domain"
	"reactor.de/certext/internal/infra/crypto/oid"
)

var _ domain.ExtensionFactory = (*Registry)(nil)

// Registry maps extension identifiers to their decoders and profile names
// to identifiers. It implements domain.ExtensionFactory.
type Registry struct {
	mu       sync.RWMutex
	creators map[string]func() Extension
	profiles map[string]string
}

// NewRegistry creates a new extension registry with built-in extensions pre-registered
func NewRegistry() *Registry {
	r := &Registry{
		creators: make(map[string]func() Extension),
		profiles: make(map[string]string),
	}

	r.registerBuiltinExtensions()

	return r
}

var defaultRegistry = NewRegistry()

// DefaultRegistry returns the process-wide registry of built-in extensions.
func DefaultRegistry() *Registry {
	return defaultRegistry
}

// CreateExtension decodes body as the extension registered for id. It never
// fails: unknown identifiers and bodies that do not decode produce an Unknown
// extension holding the raw bytes.
func (r *Registry) CreateExtension(id asn1.ObjectIdentifier, critical bool, body []byte) Extension {
	r.mu.RLock()
	creator, exists := r.creators[id.String()]
	r.mu.RUnlock()

	if exists {
		ext := creator()
		if err := ext.Decode(body); err == nil {
			return ext
		}
	}

	unknown := NewUnknown(id, critical)
	_ = unknown.Decode(body)
	return unknown
}

// RegisterExtension registers a decoder for id. A non-empty profileName also
// makes the extension available to profiles.
func (r *Registry) RegisterExtension(id asn1.ObjectIdentifier, profileName string, creator func() Extension) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.creators[id.String()] = creator
	if profileName != "" {
		r.profiles[profileName] = id.String()
	}
}

// CreateByName returns a fresh, empty extension for a profile name, or nil.
func (r *Registry) CreateByName(name string) Configurable {
	r.mu.RLock()
	key, exists := r.profiles[name]
	var creator func() Extension
	if exists {
		creator = r.creators[key]
	}
	r.mu.RUnlock()

	if creator == nil {
		return nil
	}
	cfg, ok := creator().(Configurable)
	if !ok {
		return nil
	}
	return cfg
}

// ListExtensions returns all registered profile names in sorted order
func (r *Registry) ListExtensions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.profiles))
	for name := range r.profiles {
		names = append(names, name)
	}

	sort.Strings(names)
	return names
}

// IsRegistered checks if a profile name is registered
func (r *Registry) IsRegistered(name string) bool {
	r.mu.RLock()
	_, exists := r.profiles[name]
	r.mu.RUnlock()

	return exists
}

// Knows reports whether a decoder is registered for id.
func (r *Registry) Knows(id asn1.ObjectIdentifier) bool {
	r.mu.RLock()
	_, exists := r.creators[id.String()]
	r.mu.RUnlock()

	return exists
}

// registerBuiltinExtensions registers all built-in extension types
func (r *Registry) registerBuiltinExtensions() {
	builtins := []struct {
		id      asn1.ObjectIdentifier
		profile string
		create  func() Extension
	}{
		{oid.BasicConstraints, "basic_constraints", func() Extension { return &BasicConstraints{} }},
		{oid.KeyUsage, "key_usage", func() Extension { return &KeyUsage{} }},
		{oid.SubjectKeyIdentifier, "subject_key_identifier", func() Extension { return &SubjectKeyID{} }},
		{oid.AuthorityKeyIdentifier, "authority_key_identifier", func() Extension { return &AuthorityKeyID{} }},
		{oid.SubjectAlternativeName, "subject_alternative_name", func() Extension { return &SubjectAlternativeName{} }},
		{oid.IssuerAlternativeName, "issuer_alternative_name", func() Extension { return &IssuerAlternativeName{} }},
		{oid.ExtendedKeyUsage, "extended_key_usage", func() Extension { return &ExtendedKeyUsage{} }},
		{oid.NameConstraints, "name_constraints", func() Extension { return &NameConstraints{} }},
		{oid.CertificatePolicies, "certificate_policies", func() Extension { return &CertificatePolicies{} }},
		{oid.AuthorityInformationAccess, "authority_information_access", func() Extension { return &AuthorityInformationAccess{} }},
		{oid.CRLNumber, "crl_number", func() Extension { return &CRLNumber{} }},
		{oid.CRLReasonCode, "crl_reason", func() Extension { return &CRLReasonCode{} }},
		{oid.CRLDistributionPoints, "", func() Extension { return &CRLDistributionPoints{} }},
		{oid.CRLIssuingDistributionPoint, "", func() Extension { return &CRLIssuingDistributionPoint{} }},
	}

	for _, b := range builtins {
		r.creators[b.id.String()] = b.create
		if b.profile != "" {
			r.profiles[b.profile] = b.id.String()
		}
	}
}

// parseFieldAs provides type-safe field parsing utilities for extensions
func parseFieldAs[T any](data map[string]interface{}, key string, defaultValue T) T {
	if val, exists := data[key]; exists {
		if typed, ok := val.(T); ok {
			return typed
		}
	}
	return defaultValue
}

// parseFieldAsPtr returns a pointer to the parsed value or nil if not present
func parseFieldAsPtr[T any](data map[string]interface{}, key string) *T {
	if val, exists := data[key]; exists {
		if typed, ok := val.(T); ok {
			return &typed
		}
	}
	return nil
}

// parseStringSlice parses a field as a slice of strings
func parseStringSlice(data map[string]interface{}, key string) ([]string, error) {
	val, exists := data[key]
	if !exists || val == nil {
		return nil, nil
	}
	slice, ok := val.([]interface{})
	if !ok {
		if strs, ok := val.([]string); ok {
			return strs, nil
		}
		return nil, fmt.Errorf("field '%s' must be a list of strings", key)
	}
	result := make([]string, 0, len(slice))
	for _, item := range slice {
		str, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("field '%s' must contain only strings, got %T", key, item)
		}
		result = append(result, str)
	}
	return result, nil
}

// parseMap returns a nested mapping field or nil.
func parseMap(data map[string]interface{}, key string) (map[string]interface{}, error) {
	val, exists := data[key]
	if !exists || val == nil {
		return nil, nil
	}
	m, ok := val.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("field '%s' must be a mapping", key)
	}
	return m, nil
}

// validateRequiredField checks that a required field exists and returns an error if missing
func validateRequiredField(data map[string]interface{}, field string) error {
	if _, exists := data[field]; !exists {
		return fmt.Errorf("required field '%s' is missing", field)
	}
	return nil
}

// parseOIDList resolves a list of registered names or dotted identifiers.
func parseOIDList(values []string) ([]asn1.ObjectIdentifier, error) {
	out := make([]asn1.ObjectIdentifier, 0, len(values))
	for _, v := range values {
		id, ok := oid.FromName(v)
		if !ok {
			return nil, fmt.Errorf("unknown object identifier '%s'", v)
		}
		out = append(out, id)
	}
	return out, nil
}
