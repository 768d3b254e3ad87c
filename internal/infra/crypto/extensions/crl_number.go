package extensions

import (
	"encoding/asn1"
	"fmt"
	"math/big"

	"golang.org/x/crypto/cryptobyte"
	"reactor.de/certext/internal/domain"
	"reactor.de/certext/internal/infra/crypto/oid"
)

// CRLNumber implements the CRL Number extension (RFC 5280). A zero value
// holds no number and is skipped when encoding a collection.
type CRLNumber struct {
	value *big.Int
}

// NewCRLNumber returns the extension holding n.
func NewCRLNumber(n uint64) *CRLNumber {
	return &CRLNumber{value: new(big.Int).SetUint64(n)}
}

func (e *CRLNumber) OID() asn1.ObjectIdentifier { return oid.CRLNumber }

func (e *CRLNumber) Name() string { return oid.Name(oid.CRLNumber) }

// ProfileName returns the extension name as used in YAML configuration
func (e *CRLNumber) ProfileName() string { return "crl_number" }

// HasValue reports whether a number was set or decoded.
func (e *CRLNumber) HasValue() bool { return e.value != nil }

// Value returns the CRL number. It fails when none was set or decoded.
func (e *CRLNumber) Value() (*big.Int, error) {
	if e.value == nil {
		return nil, fmt.Errorf("%w: CRL number has no value", domain.ErrInvalidState)
	}
	return new(big.Int).Set(e.value), nil
}

func (e *CRLNumber) ShouldEncode() bool { return e.value != nil }

func (e *CRLNumber) Encode() ([]byte, error) {
	if e.value == nil {
		return nil, fmt.Errorf("%w: CRL number has no value", domain.ErrEncoding)
	}
	var b cryptobyte.Builder
	b.AddASN1BigInt(e.value)
	return b.Bytes()
}

func (e *CRLNumber) Decode(der []byte) error {
	input := cryptobyte.String(der)
	n := new(big.Int)
	if !input.ReadASN1Integer(n) || !input.Empty() {
		return fmt.Errorf("%w: invalid CRL number", domain.ErrDecoding)
	}
	e.value = n
	return nil
}

func (e *CRLNumber) ContentsTo(subject, _ *domain.AttributeStore) {
	if e.value != nil {
		subject.Add("X509v3.CRLNumber", e.value.String())
	}
}

// Copy fails when the extension holds no number.
func (e *CRLNumber) Copy() (Extension, error) {
	if e.value == nil {
		return nil, fmt.Errorf("%w: cannot copy CRL number without value", domain.ErrInvalidState)
	}
	return &CRLNumber{value: new(big.Int).Set(e.value)}, nil
}

func (e *CRLNumber) Validate(CertificateView, CertificateView, []CertificateView, domain.ChainStatus, int) {
}

// ParseFromYAML parses the crl_number configuration from YAML
// Supported fields:
//
//	number: non-negative integer (required)
func (e *CRLNumber) ParseFromYAML(data map[string]interface{}) error {
	if err := validateRequiredField(data, "number"); err != nil {
		return err
	}
	n, ok := data["number"].(int)
	if !ok || n < 0 {
		return fmt.Errorf("number must be a non-negative integer")
	}
	e.value = big.NewInt(int64(n))
	return nil
}
