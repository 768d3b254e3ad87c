package extensions

import (
	"encoding/asn1"
	"fmt"

	"golang.org/x/crypto/cryptobyte"
	cbasn1 "golang.org/x/crypto/cryptobyte/asn1"
	"reactor.de/certext/internal/domain"
	"reactor.de/certext/internal/infra/crypto/oid"
)

var uriLocationTag = cbasn1.Tag(6).ContextSpecific()

// AuthorityInformationAccess implements the PKIX Authority Information Access
// extension (RFC 5280). Only URI locations of the OCSP and caIssuers methods
// are kept; with several OCSP entries the last one wins.
type AuthorityInformationAccess struct {
	base
	OCSPResponder string
	CAIssuers     []string
}

// NewAuthorityInformationAccess returns the extension for the given URLs.
func NewAuthorityInformationAccess(ocsp string, caIssuers ...string) *AuthorityInformationAccess {
	return &AuthorityInformationAccess{
		OCSPResponder: ocsp,
		CAIssuers:     append([]string(nil), caIssuers...),
	}
}

func (e *AuthorityInformationAccess) OID() asn1.ObjectIdentifier {
	return oid.AuthorityInformationAccess
}

func (e *AuthorityInformationAccess) Name() string {
	return oid.Name(oid.AuthorityInformationAccess)
}

// ProfileName returns the extension name as used in YAML configuration
func (e *AuthorityInformationAccess) ProfileName() string { return "authority_information_access" }

func (e *AuthorityInformationAccess) Encode() ([]byte, error) {
	var b cryptobyte.Builder
	b.AddASN1(cbasn1.SEQUENCE, func(b *cryptobyte.Builder) {
		if e.OCSPResponder != "" {
			addAccessDescription(b, oid.AccessMethodOCSP, e.OCSPResponder)
		}
		for _, u := range e.CAIssuers {
			addAccessDescription(b, oid.AccessMethodCAIssuers, u)
		}
	})
	return b.Bytes()
}

func addAccessDescription(b *cryptobyte.Builder, method asn1.ObjectIdentifier, location string) {
	b.AddASN1(cbasn1.SEQUENCE, func(b *cryptobyte.Builder) {
		b.AddASN1ObjectIdentifier(method)
		b.AddASN1(uriLocationTag, func(b *cryptobyte.Builder) {
			b.AddBytes([]byte(location))
		})
	})
}

func (e *AuthorityInformationAccess) Decode(der []byte) error {
	input := cryptobyte.String(der)
	var seq cryptobyte.String
	if !input.ReadASN1(&seq, cbasn1.SEQUENCE) || !input.Empty() {
		return fmt.Errorf("%w: invalid authority information access", domain.ErrDecoding)
	}

	ocsp := ""
	var caIssuers []string
	for !seq.Empty() {
		var desc cryptobyte.String
		var method asn1.ObjectIdentifier
		if !seq.ReadASN1(&desc, cbasn1.SEQUENCE) || !desc.ReadASN1ObjectIdentifier(&method) {
			return fmt.Errorf("%w: invalid access description", domain.ErrDecoding)
		}

		var location cryptobyte.String
		var tag cbasn1.Tag
		if !desc.ReadAnyASN1(&location, &tag) || !desc.Empty() {
			return fmt.Errorf("%w: invalid access location", domain.ErrDecoding)
		}
		if tag != uriLocationTag {
			continue
		}

		switch {
		case method.Equal(oid.AccessMethodOCSP):
			ocsp = string(location)
		case method.Equal(oid.AccessMethodCAIssuers):
			caIssuers = append(caIssuers, string(location))
		}
	}

	e.OCSPResponder = ocsp
	e.CAIssuers = caIssuers
	return nil
}

func (e *AuthorityInformationAccess) ContentsTo(subject, _ *domain.AttributeStore) {
	if e.OCSPResponder != "" {
		subject.Add("OCSP.responder", e.OCSPResponder)
	}
	subject.AddAll("PKIX.CertificateAuthorityIssuers", e.CAIssuers)
}

func (e *AuthorityInformationAccess) Copy() (Extension, error) {
	return NewAuthorityInformationAccess(e.OCSPResponder, e.CAIssuers...), nil
}

// ParseFromYAML parses the authority_information_access configuration from YAML
// Supported fields:
//
//	ocsp: string (OCSP responder URL)
//	ca_issuers: []string (issuer certificate URLs)
func (e *AuthorityInformationAccess) ParseFromYAML(data map[string]interface{}) error {
	e.OCSPResponder = parseFieldAs(data, "ocsp", "")
	issuers, err := parseStringSlice(data, "ca_issuers")
	if err != nil {
		return err
	}
	e.CAIssuers = issuers
	if e.OCSPResponder == "" && len(e.CAIssuers) == 0 {
		return fmt.Errorf("authority_information_access requires ocsp or ca_issuers")
	}
	return nil
}
