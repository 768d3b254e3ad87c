package extensions

import (
	"encoding/asn1"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/cryptobyte"
	cbasn1 "golang.org/x/crypto/cryptobyte/asn1"
	"reactor.de/certext/internal/domain"
	"reactor.de/certext/internal/infra/crypto/oid"
)

// maxKeyIDLength caps derived subject key identifiers at 192 bits.
const maxKeyIDLength = 24

// SubjectKeyID implements the X.509 Subject Key Identifier extension (RFC 5280)
type SubjectKeyID struct {
	base
	KeyID []byte
}

// NewSubjectKeyID wraps an existing identifier.
func NewSubjectKeyID(keyID []byte) *SubjectKeyID {
	return &SubjectKeyID{KeyID: append([]byte(nil), keyID...)}
}

// DeriveSubjectKeyID hashes an encoded public key with the named algorithm
// and keeps at most the first 24 bytes of the digest.
func DeriveSubjectKeyID(publicKey []byte, hashName string, hashes domain.HashProvider) (*SubjectKeyID, error) {
	h, err := hashes.New(hashName)
	if err != nil {
		return nil, err
	}
	h.Write(publicKey)
	digest := h.Sum(nil)
	if len(digest) > maxKeyIDLength {
		digest = digest[:maxKeyIDLength]
	}
	return &SubjectKeyID{KeyID: digest}, nil
}

func (e *SubjectKeyID) OID() asn1.ObjectIdentifier { return oid.SubjectKeyIdentifier }

func (e *SubjectKeyID) Name() string { return oid.Name(oid.SubjectKeyIdentifier) }

// ProfileName returns the extension name as used in YAML configuration
func (e *SubjectKeyID) ProfileName() string { return "subject_key_identifier" }

func (e *SubjectKeyID) Encode() ([]byte, error) {
	var b cryptobyte.Builder
	b.AddASN1OctetString(e.KeyID)
	return b.Bytes()
}

func (e *SubjectKeyID) Decode(der []byte) error {
	input := cryptobyte.String(der)
	var keyID cryptobyte.String
	if !input.ReadASN1(&keyID, cbasn1.OCTET_STRING) || !input.Empty() {
		return fmt.Errorf("%w: invalid subject key identifier", domain.ErrDecoding)
	}
	e.KeyID = append([]byte(nil), keyID...)
	return nil
}

func (e *SubjectKeyID) ContentsTo(subject, _ *domain.AttributeStore) {
	subject.AddBytes("X509v3.SubjectKeyIdentifier", e.KeyID)
}

func (e *SubjectKeyID) Copy() (Extension, error) {
	return NewSubjectKeyID(e.KeyID), nil
}

// ParseFromYAML parses the subject_key_identifier configuration from YAML
// Supported fields:
//
//	key_id: hex string (required)
func (e *SubjectKeyID) ParseFromYAML(data map[string]interface{}) error {
	keyID, err := parseHexField(data, "key_id")
	if err != nil {
		return err
	}
	e.KeyID = keyID
	return nil
}

func parseHexField(data map[string]interface{}, key string) ([]byte, error) {
	if err := validateRequiredField(data, key); err != nil {
		return nil, err
	}
	s, ok := data[key].(string)
	if !ok {
		return nil, fmt.Errorf("%s must be a hex string", key)
	}
	out, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%s: %v", key, err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%s must not be empty", key)
	}
	return out, nil
}
