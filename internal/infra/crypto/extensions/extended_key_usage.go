package extensions

import (
	"encoding/asn1"
	"fmt"

	"golang.org/x/crypto/cryptobyte"
	cbasn1 "golang.org/x/crypto/cryptobyte/asn1"
	"reactor.de/certext/internal/domain"
	"reactor.de/certext/internal/infra/crypto/oid"
)

// ExtendedKeyUsage implements the X.509 Extended Key Usage extension (RFC 5280)
type ExtendedKeyUsage struct {
	base
	Usages []asn1.ObjectIdentifier
}

// NewExtendedKeyUsage copies the given purposes.
func NewExtendedKeyUsage(usages ...asn1.ObjectIdentifier) *ExtendedKeyUsage {
	e := &ExtendedKeyUsage{}
	for _, u := range usages {
		e.Usages = append(e.Usages, oid.Clone(u))
	}
	return e
}

func (e *ExtendedKeyUsage) OID() asn1.ObjectIdentifier { return oid.ExtendedKeyUsage }

func (e *ExtendedKeyUsage) Name() string { return oid.Name(oid.ExtendedKeyUsage) }

// ProfileName returns the extension name as used in YAML configuration
func (e *ExtendedKeyUsage) ProfileName() string { return "extended_key_usage" }

func (e *ExtendedKeyUsage) Encode() ([]byte, error) {
	var b cryptobyte.Builder
	b.AddASN1(cbasn1.SEQUENCE, func(b *cryptobyte.Builder) {
		for _, u := range e.Usages {
			b.AddASN1ObjectIdentifier(u)
		}
	})
	return b.Bytes()
}

func (e *ExtendedKeyUsage) Decode(der []byte) error {
	input := cryptobyte.String(der)
	var seq cryptobyte.String
	if !input.ReadASN1(&seq, cbasn1.SEQUENCE) || !input.Empty() {
		return fmt.Errorf("%w: invalid extended key usage", domain.ErrDecoding)
	}

	var usages []asn1.ObjectIdentifier
	for !seq.Empty() {
		var u asn1.ObjectIdentifier
		if !seq.ReadASN1ObjectIdentifier(&u) {
			return fmt.Errorf("%w: invalid extended key usage purpose", domain.ErrDecoding)
		}
		usages = append(usages, u)
	}
	e.Usages = usages
	return nil
}

func (e *ExtendedKeyUsage) ContentsTo(subject, _ *domain.AttributeStore) {
	for _, u := range e.Usages {
		subject.Add("X509v3.ExtendedKeyUsage", u.String())
	}
}

func (e *ExtendedKeyUsage) Copy() (Extension, error) {
	return NewExtendedKeyUsage(e.Usages...), nil
}

// Has reports whether usage is listed.
func (e *ExtendedKeyUsage) Has(usage asn1.ObjectIdentifier) bool {
	for _, u := range e.Usages {
		if u.Equal(usage) {
			return true
		}
	}
	return false
}

// ParseFromYAML parses the extended_key_usage configuration from YAML
// Supported fields:
//
//	usages: list of registered names (PKIX.ServerAuth) or dotted OIDs (required)
func (e *ExtendedKeyUsage) ParseFromYAML(data map[string]interface{}) error {
	if err := validateRequiredField(data, "usages"); err != nil {
		return err
	}
	values, err := parseStringSlice(data, "usages")
	if err != nil {
		return err
	}
	if len(values) == 0 {
		return fmt.Errorf("usages must not be empty")
	}
	usages, err := parseOIDList(values)
	if err != nil {
		return fmt.Errorf("invalid extended key usage: %v", err)
	}
	e.Usages = usages
	return nil
}
