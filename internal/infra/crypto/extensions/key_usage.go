package extensions

import (
	"encoding/asn1"
	"fmt"
	"math/bits"
	"strings"

	"golang.org/x/crypto/cryptobyte"
	cbasn1 "golang.org/x/crypto/cryptobyte/asn1"
	"reactor.de/certext/internal/domain"
	"reactor.de/certext/internal/infra/crypto/oid"
)

// KeyConstraints is a key usage bit mask. Bit 0 of the BIT STRING is the most
// significant bit of the mask.
type KeyConstraints uint16

const (
	NoConstraints    KeyConstraints = 0
	DigitalSignature KeyConstraints = 1 << 15
	NonRepudiation   KeyConstraints = 1 << 14
	KeyEncipherment  KeyConstraints = 1 << 13
	DataEncipherment KeyConstraints = 1 << 12
	KeyAgreement     KeyConstraints = 1 << 11
	KeyCertSign      KeyConstraints = 1 << 10
	CRLSign          KeyConstraints = 1 << 9
	EncipherOnly     KeyConstraints = 1 << 8
	DecipherOnly     KeyConstraints = 1 << 7
)

var keyUsageNames = []struct {
	bit     KeyConstraints
	display string
	profile string
}{
	{DigitalSignature, "Digital Signature", "digital_signature"},
	{NonRepudiation, "Non Repudiation", "non_repudiation"},
	{KeyEncipherment, "Key Encipherment", "key_encipherment"},
	{DataEncipherment, "Data Encipherment", "data_encipherment"},
	{KeyAgreement, "Key Agreement", "key_agreement"},
	{KeyCertSign, "Certificate Sign", "key_cert_sign"},
	{CRLSign, "CRL Sign", "crl_sign"},
	{EncipherOnly, "Encipher Only", "encipher_only"},
	{DecipherOnly, "Decipher Only", "decipher_only"},
}

// Includes reports whether every bit of usage is set.
func (k KeyConstraints) Includes(usage KeyConstraints) bool {
	return k&usage == usage
}

// Names returns the display names of the set bits.
func (k KeyConstraints) Names() []string {
	var out []string
	for _, n := range keyUsageNames {
		if k&n.bit != 0 {
			out = append(out, n.display)
		}
	}
	return out
}

func (k KeyConstraints) String() string {
	if k == NoConstraints {
		return "No Constraints"
	}
	return strings.Join(k.Names(), ", ")
}

// ParseKeyConstraint maps a profile name such as "key_cert_sign" to its bit.
func ParseKeyConstraint(name string) (KeyConstraints, error) {
	for _, n := range keyUsageNames {
		if n.profile == name {
			return n.bit, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown key usage %q", domain.ErrInvalidArgument, name)
}

// KeyUsage implements the X.509 Key Usage extension (RFC 5280)
type KeyUsage struct {
	base
	Constraints KeyConstraints
}

// NewKeyUsage returns the extension for the given mask.
func NewKeyUsage(c KeyConstraints) *KeyUsage {
	return &KeyUsage{Constraints: c}
}

func (e *KeyUsage) OID() asn1.ObjectIdentifier { return oid.KeyUsage }

func (e *KeyUsage) Name() string { return oid.Name(oid.KeyUsage) }

// ProfileName returns the extension name as used in YAML configuration
func (e *KeyUsage) ProfileName() string { return "key_usage" }

// Encode writes the shortest BIT STRING that holds every set bit. An empty
// mask cannot be encoded; omit the extension instead.
func (e *KeyUsage) Encode() ([]byte, error) {
	if e.Constraints == NoConstraints {
		return nil, fmt.Errorf("%w: cannot encode zero key usage constraints", domain.ErrEncoding)
	}

	unused := bits.TrailingZeros16(uint16(e.Constraints))
	content := []byte{byte(unused % 8), byte(e.Constraints >> 8)}
	if low := byte(e.Constraints & 0xFF); low != 0 {
		content = append(content, low)
	}

	var b cryptobyte.Builder
	b.AddASN1(cbasn1.BIT_STRING, func(b *cryptobyte.Builder) {
		b.AddBytes(content)
	})
	return b.Bytes()
}

func (e *KeyUsage) Decode(der []byte) error {
	input := cryptobyte.String(der)
	var content cryptobyte.String
	if !input.ReadASN1(&content, cbasn1.BIT_STRING) || !input.Empty() {
		return fmt.Errorf("%w: invalid key usage BIT STRING", domain.ErrDecoding)
	}
	if len(content) != 2 && len(content) != 3 {
		return fmt.Errorf("%w: bad size %d for BIT STRING in key usage", domain.ErrDecoding, len(content))
	}
	if content[0] >= 8 {
		return fmt.Errorf("%w: invalid unused bits %d in key usage", domain.ErrDecoding, content[0])
	}

	mask := byte(0xFF << content[0])
	var usage uint16
	if len(content) == 2 {
		usage = uint16(content[1]&mask) << 8
	} else {
		usage = uint16(content[1])<<8 | uint16(content[2]&mask)
	}
	e.Constraints = KeyConstraints(usage)
	return nil
}

func (e *KeyUsage) ContentsTo(subject, _ *domain.AttributeStore) {
	subject.AddUint("X509v3.KeyUsage", uint64(e.Constraints))
}

func (e *KeyUsage) Copy() (Extension, error) {
	c := *e
	return &c, nil
}

// ParseFromYAML parses the key_usage configuration from YAML
// Supported fields:
//
//	usages: list of digital_signature, non_repudiation, key_encipherment,
//	        data_encipherment, key_agreement, key_cert_sign, crl_sign,
//	        encipher_only, decipher_only
func (e *KeyUsage) ParseFromYAML(data map[string]interface{}) error {
	if err := validateRequiredField(data, "usages"); err != nil {
		return err
	}
	usages, err := parseStringSlice(data, "usages")
	if err != nil {
		return err
	}

	e.Constraints = NoConstraints
	for _, u := range usages {
		bit, err := ParseKeyConstraint(u)
		if err != nil {
			return err
		}
		e.Constraints |= bit
	}
	if e.Constraints == NoConstraints {
		return fmt.Errorf("usages must name at least one key usage")
	}
	return nil
}
