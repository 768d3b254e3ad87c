// Package extensions decodes, encodes, and validates X.509 v3 certificate
// extensions.
package extensions

import (
	"encoding/asn1"

	"reactor.de/certext/internal/domain"
	"reactor.de/certext/internal/infra/crypto/generalname"
)

// Extension is a single decoded extension value.
type Extension interface {
	// OID returns the extension identifier.
	OID() asn1.ObjectIdentifier

	// Name returns the registered name of the identifier, used as attribute key prefix.
	Name() string

	// Encode returns the DER extnValue contents.
	Encode() ([]byte, error)

	// Decode replaces the value with the decoded extnValue contents.
	Decode(der []byte) error

	// ContentsTo writes human-readable attributes into the subject or issuer store.
	ContentsTo(subject, issuer *domain.AttributeStore)

	// ShouldEncode reports whether the extension is written by Extensions.Encode.
	ShouldEncode() bool

	// Copy returns a deep copy.
	Copy() (Extension, error)

	// Validate records chain problems caused by this extension of the
	// certificate at pos. subject is chain[pos], issuer is the certificate
	// that signed it.
	Validate(subject, issuer CertificateView, chain []CertificateView, status domain.ChainStatus, pos int)
}

// Configurable extensions can be built from a YAML profile.
type Configurable interface {
	Extension

	// ProfileName returns the key used in profile YAML.
	ProfileName() string

	// ParseFromYAML fills the extension from profile fields.
	ParseFromYAML(data map[string]interface{}) error
}

// CertificateView is what chain validation needs to know about a certificate.
type CertificateView interface {
	generalname.Certificate
	IsCACert() bool
	IsSelfSigned() bool
	IsCritical(id asn1.ObjectIdentifier) bool
}

// base supplies the defaults shared by most variants.
type base struct{}

func (base) ShouldEncode() bool { return true }

func (base) Validate(CertificateView, CertificateView, []CertificateView, domain.ChainStatus, int) {}
