package extensions

import (
	"encoding/asn1"
	"fmt"

	"golang.org/x/crypto/cryptobyte"
	"reactor.de/certext/internal/domain"
	"reactor.de/certext/internal/infra/crypto/oid"
)

// ReasonCode is a CRLReason value.
type ReasonCode int

const (
	ReasonUnspecified          ReasonCode = 0
	ReasonKeyCompromise        ReasonCode = 1
	ReasonCACompromise         ReasonCode = 2
	ReasonAffiliationChanged   ReasonCode = 3
	ReasonSuperseded           ReasonCode = 4
	ReasonCessationOfOperation ReasonCode = 5
	ReasonCertificateHold      ReasonCode = 6
	ReasonRemoveFromCRL        ReasonCode = 8
	ReasonPrivilegeWithdrawn   ReasonCode = 9
	ReasonAACompromise         ReasonCode = 10
)

var reasonNames = map[ReasonCode]string{
	ReasonUnspecified:          "unspecified",
	ReasonKeyCompromise:        "key_compromise",
	ReasonCACompromise:         "ca_compromise",
	ReasonAffiliationChanged:   "affiliation_changed",
	ReasonSuperseded:           "superseded",
	ReasonCessationOfOperation: "cessation_of_operation",
	ReasonCertificateHold:      "certificate_hold",
	ReasonRemoveFromCRL:        "remove_from_crl",
	ReasonPrivilegeWithdrawn:   "privilege_withdrawn",
	ReasonAACompromise:         "aa_compromise",
}

func (r ReasonCode) String() string {
	if name, ok := reasonNames[r]; ok {
		return name
	}
	return fmt.Sprintf("reason(%d)", int(r))
}

// ParseReasonCode maps a name such as "key_compromise" to its code.
func ParseReasonCode(name string) (ReasonCode, error) {
	for code, n := range reasonNames {
		if n == name {
			return code, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown CRL reason %q", domain.ErrInvalidArgument, name)
}

// CRLReasonCode implements the CRL entry reasonCode extension (RFC 5280).
// The unspecified reason is not encoded.
type CRLReasonCode struct {
	base
	Reason ReasonCode
}

// NewCRLReasonCode returns the extension for r.
func NewCRLReasonCode(r ReasonCode) *CRLReasonCode {
	return &CRLReasonCode{Reason: r}
}

func (e *CRLReasonCode) OID() asn1.ObjectIdentifier { return oid.CRLReasonCode }

func (e *CRLReasonCode) Name() string { return oid.Name(oid.CRLReasonCode) }

// ProfileName returns the extension name as used in YAML configuration
func (e *CRLReasonCode) ProfileName() string { return "crl_reason" }

func (e *CRLReasonCode) ShouldEncode() bool { return e.Reason != ReasonUnspecified }

func (e *CRLReasonCode) Encode() ([]byte, error) {
	var b cryptobyte.Builder
	b.AddASN1Enum(int64(e.Reason))
	return b.Bytes()
}

func (e *CRLReasonCode) Decode(der []byte) error {
	input := cryptobyte.String(der)
	var reason int
	if !input.ReadASN1Enum(&reason) || !input.Empty() {
		return fmt.Errorf("%w: invalid CRL reason code", domain.ErrDecoding)
	}
	e.Reason = ReasonCode(reason)
	return nil
}

func (e *CRLReasonCode) ContentsTo(subject, _ *domain.AttributeStore) {
	subject.AddUint("X509v3.CRLReasonCode", uint64(e.Reason))
}

func (e *CRLReasonCode) Copy() (Extension, error) {
	return NewCRLReasonCode(e.Reason), nil
}

// ParseFromYAML parses the crl_reason configuration from YAML
// Supported fields:
//
//	reason: one of unspecified, key_compromise, ca_compromise, ... (required)
func (e *CRLReasonCode) ParseFromYAML(data map[string]interface{}) error {
	if err := validateRequiredField(data, "reason"); err != nil {
		return err
	}
	name, ok := data["reason"].(string)
	if !ok {
		return fmt.Errorf("reason must be a string")
	}
	reason, err := ParseReasonCode(name)
	if err != nil {
		return err
	}
	e.Reason = reason
	return nil
}
