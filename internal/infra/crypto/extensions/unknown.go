package extensions

import (
	"encoding/asn1"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/cryptobyte"
	cbasn1 "golang.org/x/crypto/cryptobyte/asn1"
	"reactor.de/certext/internal/domain"
	"reactor.de/certext/internal/infra/crypto/oid"
)

// Unknown keeps the body of an extension that has no decoder, or whose body
// failed to decode, byte for byte.
type Unknown struct {
	base
	id       asn1.ObjectIdentifier
	critical bool
	Value    []byte
}

// NewUnknown returns an empty Unknown extension for id.
func NewUnknown(id asn1.ObjectIdentifier, critical bool) *Unknown {
	return &Unknown{id: oid.Clone(id), critical: critical}
}

// OID returns the identifier the extension was created with.
func (e *Unknown) OID() asn1.ObjectIdentifier { return e.id }

// Name returns the dotted identifier.
func (e *Unknown) Name() string { return e.id.String() }

// IsCritical reports the criticality the extension was created with.
func (e *Unknown) IsCritical() bool { return e.critical }

func (e *Unknown) Encode() ([]byte, error) {
	return append([]byte(nil), e.Value...), nil
}

func (e *Unknown) Decode(der []byte) error {
	e.Value = append([]byte(nil), der...)
	return nil
}

func (e *Unknown) ContentsTo(_, _ *domain.AttributeStore) {}

func (e *Unknown) Copy() (Extension, error) {
	c := NewUnknown(e.id, e.critical)
	c.Value = append([]byte(nil), e.Value...)
	return c, nil
}

// ProfileName returns the dotted identifier; unknown extensions are keyed by
// arbitrary names in profiles.
func (e *Unknown) ProfileName() string { return e.id.String() }

// ParseFromYAML parses an unknown extension configuration from YAML
// Required fields:
//
//	oid: string (required, ASN.1 object identifier)
//	value: string (required, encoded value with prefix)
//
// Supported value encodings:
//
//	base64:encoded_data - Base64 encoded binary data
//	hex:hexstring - Hex encoded binary data
//	asn1:type:value - ASN.1 encoded value (string, int, bool, oid)
func (e *Unknown) ParseFromYAML(data map[string]interface{}) error {
	if err := validateRequiredField(data, "oid"); err != nil {
		return err
	}
	oidStr, ok := data["oid"].(string)
	if !ok {
		return fmt.Errorf("oid must be a string")
	}
	id, err := oid.Parse(oidStr)
	if err != nil {
		return fmt.Errorf("invalid OID: %v", err)
	}
	e.id = id

	if err := validateRequiredField(data, "value"); err != nil {
		return err
	}
	valueStr, ok := data["value"].(string)
	if !ok {
		return fmt.Errorf("value must be a string")
	}
	value, err := parseExtensionValue(valueStr)
	if err != nil {
		return fmt.Errorf("failed to parse extension value: %v", err)
	}
	e.Value = value
	return nil
}

// parseExtensionValue parses encoded extension values
func parseExtensionValue(valueStr string) ([]byte, error) {
	switch {
	case strings.HasPrefix(valueStr, "base64:"):
		return base64.StdEncoding.DecodeString(strings.TrimPrefix(valueStr, "base64:"))
	case strings.HasPrefix(valueStr, "hex:"):
		return hex.DecodeString(strings.TrimPrefix(valueStr, "hex:"))
	case strings.HasPrefix(valueStr, "asn1:"):
		return parseASN1Value(valueStr)
	default:
		return nil, fmt.Errorf("value must be prefixed with 'base64:', 'hex:', or 'asn1:'")
	}
}

// parseASN1Value provides basic ASN.1 encoding for simple types
// Format: asn1:type:value
func parseASN1Value(valueStr string) ([]byte, error) {
	parts := strings.SplitN(valueStr, ":", 3)
	if len(parts) != 3 {
		return nil, fmt.Errorf("asn1 value format must be 'asn1:type:value'")
	}
	asn1Type, value := parts[1], parts[2]

	var b cryptobyte.Builder
	switch asn1Type {
	case "string":
		b.AddASN1(cbasn1.UTF8String, func(b *cryptobyte.Builder) {
			b.AddBytes([]byte(value))
		})
	case "int":
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid integer value: %s", value)
		}
		b.AddASN1Int64(n)
	case "bool":
		switch value {
		case "true":
			b.AddASN1Boolean(true)
		case "false":
			b.AddASN1Boolean(false)
		default:
			return nil, fmt.Errorf("boolean value must be 'true' or 'false': %s", value)
		}
	case "oid":
		id, err := oid.Parse(value)
		if err != nil {
			return nil, fmt.Errorf("invalid OID value: %v", err)
		}
		b.AddASN1ObjectIdentifier(id)
	default:
		return nil, fmt.Errorf("unsupported ASN.1 type: %s (supported: string, int, bool, oid)", asn1Type)
	}
	return b.Bytes()
}
