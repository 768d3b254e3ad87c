package extensions

import (
	"encoding/asn1"
	"fmt"

	"golang.org/x/crypto/cryptobyte"
	cbasn1 "golang.org/x/crypto/cryptobyte/asn1"
	"reactor.de/certext/internal/domain"
	"reactor.de/certext/internal/infra/crypto/oid"
)

// AuthorityKeyID implements the X.509 Authority Key Identifier extension (RFC 5280).
// Only the keyIdentifier field is kept; authorityCertIssuer and
// authorityCertSerialNumber are skipped on decode.
type AuthorityKeyID struct {
	base
	KeyID []byte
}

// NewAuthorityKeyID wraps an issuer key identifier.
func NewAuthorityKeyID(keyID []byte) *AuthorityKeyID {
	return &AuthorityKeyID{KeyID: append([]byte(nil), keyID...)}
}

func (e *AuthorityKeyID) OID() asn1.ObjectIdentifier { return oid.AuthorityKeyIdentifier }

func (e *AuthorityKeyID) Name() string { return oid.Name(oid.AuthorityKeyIdentifier) }

// ProfileName returns the extension name as used in YAML configuration
func (e *AuthorityKeyID) ProfileName() string { return "authority_key_identifier" }

func (e *AuthorityKeyID) Encode() ([]byte, error) {
	var b cryptobyte.Builder
	b.AddASN1(cbasn1.SEQUENCE, func(b *cryptobyte.Builder) {
		b.AddASN1(cbasn1.Tag(0).ContextSpecific(), func(b *cryptobyte.Builder) {
			b.AddBytes(e.KeyID)
		})
	})
	return b.Bytes()
}

func (e *AuthorityKeyID) Decode(der []byte) error {
	input := cryptobyte.String(der)
	var seq cryptobyte.String
	if !input.ReadASN1(&seq, cbasn1.SEQUENCE) || !input.Empty() {
		return fmt.Errorf("%w: invalid authority key identifier", domain.ErrDecoding)
	}

	var keyID cryptobyte.String
	var present bool
	if !seq.ReadOptionalASN1(&keyID, &present, cbasn1.Tag(0).ContextSpecific()) {
		return fmt.Errorf("%w: invalid authority key identifier keyIdentifier", domain.ErrDecoding)
	}
	e.KeyID = nil
	if present {
		e.KeyID = append([]byte(nil), keyID...)
	}
	return nil
}

func (e *AuthorityKeyID) ContentsTo(_, issuer *domain.AttributeStore) {
	issuer.AddBytes("X509v3.AuthorityKeyIdentifier", e.KeyID)
}

func (e *AuthorityKeyID) Copy() (Extension, error) {
	return NewAuthorityKeyID(e.KeyID), nil
}

// ParseFromYAML parses the authority_key_identifier configuration from YAML
// Supported fields:
//
//	key_id: hex string (required)
func (e *AuthorityKeyID) ParseFromYAML(data map[string]interface{}) error {
	keyID, err := parseHexField(data, "key_id")
	if err != nil {
		return err
	}
	e.KeyID = keyID
	return nil
}
