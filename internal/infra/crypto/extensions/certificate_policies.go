package extensions

import (
	"encoding/asn1"
	"fmt"

	"golang.org/x/crypto/cryptobyte"
	cbasn1 "golang.org/x/crypto/cryptobyte/asn1"
	"reactor.de/certext/internal/domain"
	"reactor.de/certext/internal/infra/crypto/oid"
)

// CertificatePolicies implements the X.509 Certificate Policies extension (RFC 5280).
// Policy qualifiers are parsed over and dropped.
type CertificatePolicies struct {
	base
	Policies []asn1.ObjectIdentifier
}

// NewCertificatePolicies copies the given policy identifiers.
func NewCertificatePolicies(policies ...asn1.ObjectIdentifier) *CertificatePolicies {
	e := &CertificatePolicies{}
	for _, p := range policies {
		e.Policies = append(e.Policies, oid.Clone(p))
	}
	return e
}

func (e *CertificatePolicies) OID() asn1.ObjectIdentifier { return oid.CertificatePolicies }

func (e *CertificatePolicies) Name() string { return oid.Name(oid.CertificatePolicies) }

// ProfileName returns the extension name as used in YAML configuration
func (e *CertificatePolicies) ProfileName() string { return "certificate_policies" }

func (e *CertificatePolicies) Encode() ([]byte, error) {
	var b cryptobyte.Builder
	b.AddASN1(cbasn1.SEQUENCE, func(b *cryptobyte.Builder) {
		for _, p := range e.Policies {
			b.AddASN1(cbasn1.SEQUENCE, func(b *cryptobyte.Builder) {
				b.AddASN1ObjectIdentifier(p)
			})
		}
	})
	return b.Bytes()
}

func (e *CertificatePolicies) Decode(der []byte) error {
	input := cryptobyte.String(der)
	var seq cryptobyte.String
	if !input.ReadASN1(&seq, cbasn1.SEQUENCE) || !input.Empty() {
		return fmt.Errorf("%w: invalid certificate policies", domain.ErrDecoding)
	}

	var policies []asn1.ObjectIdentifier
	for !seq.Empty() {
		var info cryptobyte.String
		var id asn1.ObjectIdentifier
		if !seq.ReadASN1(&info, cbasn1.SEQUENCE) || !info.ReadASN1ObjectIdentifier(&id) {
			return fmt.Errorf("%w: invalid policy information", domain.ErrDecoding)
		}
		if !info.Empty() {
			var qualifiers cryptobyte.String
			if !info.ReadASN1(&qualifiers, cbasn1.SEQUENCE) || !info.Empty() {
				return fmt.Errorf("%w: invalid policy qualifiers", domain.ErrDecoding)
			}
		}
		policies = append(policies, id)
	}
	e.Policies = policies
	return nil
}

func (e *CertificatePolicies) ContentsTo(subject, _ *domain.AttributeStore) {
	for _, p := range e.Policies {
		subject.Add("X509v3.CertificatePolicies", p.String())
	}
}

func (e *CertificatePolicies) Copy() (Extension, error) {
	return NewCertificatePolicies(e.Policies...), nil
}

// Validate flags a policy identifier that appears more than once.
func (e *CertificatePolicies) Validate(_, _ CertificateView, _ []CertificateView, status domain.ChainStatus, pos int) {
	seen := make(map[string]struct{}, len(e.Policies))
	for _, p := range e.Policies {
		seen[p.String()] = struct{}{}
	}
	if len(seen) != len(e.Policies) {
		status.Insert(pos, domain.StatusDuplicateCertPolicy)
	}
}

// ParseFromYAML parses the certificate_policies configuration from YAML
// Supported fields:
//
//	policies: list of dotted OIDs or registered names (required)
func (e *CertificatePolicies) ParseFromYAML(data map[string]interface{}) error {
	if err := validateRequiredField(data, "policies"); err != nil {
		return err
	}
	values, err := parseStringSlice(data, "policies")
	if err != nil {
		return err
	}
	if len(values) == 0 {
		return fmt.Errorf("policies must not be empty")
	}
	policies, err := parseOIDList(values)
	if err != nil {
		return fmt.Errorf("invalid certificate policy: %v", err)
	}
	e.Policies = policies
	return nil
}
