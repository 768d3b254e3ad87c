package extensions

import (
	"encoding/asn1"
	"fmt"
	"net"

	"reactor.de/certext/internal/domain"
	"reactor.de/certext/internal/infra/crypto/generalname"
	"reactor.de/certext/internal/infra/crypto/oid"
	"reactor.de/certext/internal/infra/crypto/x500"
)

// SubjectAlternativeName implements the X.509 Subject Alternative Name extension (RFC 5280)
type SubjectAlternativeName struct {
	base
	Names generalname.AlternativeName
}

// NewSubjectAlternativeName wraps a copy of names.
func NewSubjectAlternativeName(names generalname.AlternativeName) *SubjectAlternativeName {
	return &SubjectAlternativeName{Names: names.Clone()}
}

func (e *SubjectAlternativeName) OID() asn1.ObjectIdentifier { return oid.SubjectAlternativeName }

func (e *SubjectAlternativeName) Name() string { return oid.Name(oid.SubjectAlternativeName) }

// ProfileName returns the extension name as used in YAML configuration
func (e *SubjectAlternativeName) ProfileName() string { return "subject_alternative_name" }

func (e *SubjectAlternativeName) Encode() ([]byte, error) { return e.Names.Encode() }

func (e *SubjectAlternativeName) Decode(der []byte) error { return e.Names.Decode(der) }

func (e *SubjectAlternativeName) ContentsTo(subject, _ *domain.AttributeStore) {
	e.Names.ContentsTo(subject)
}

func (e *SubjectAlternativeName) Copy() (Extension, error) {
	return NewSubjectAlternativeName(e.Names), nil
}

// ParseFromYAML parses the subject_alternative_name configuration from YAML.
// See parseAlternativeName for the supported fields.
func (e *SubjectAlternativeName) ParseFromYAML(data map[string]interface{}) error {
	names, err := parseAlternativeName(data)
	if err != nil {
		return err
	}
	e.Names = names
	return nil
}

// IssuerAlternativeName implements the X.509 Issuer Alternative Name extension (RFC 5280)
type IssuerAlternativeName struct {
	base
	Names generalname.AlternativeName
}

// NewIssuerAlternativeName wraps a copy of names.
func NewIssuerAlternativeName(names generalname.AlternativeName) *IssuerAlternativeName {
	return &IssuerAlternativeName{Names: names.Clone()}
}

func (e *IssuerAlternativeName) OID() asn1.ObjectIdentifier { return oid.IssuerAlternativeName }

func (e *IssuerAlternativeName) Name() string { return oid.Name(oid.IssuerAlternativeName) }

// ProfileName returns the extension name as used in YAML configuration
func (e *IssuerAlternativeName) ProfileName() string { return "issuer_alternative_name" }

func (e *IssuerAlternativeName) Encode() ([]byte, error) { return e.Names.Encode() }

func (e *IssuerAlternativeName) Decode(der []byte) error { return e.Names.Decode(der) }

func (e *IssuerAlternativeName) ContentsTo(_, issuer *domain.AttributeStore) {
	e.Names.ContentsTo(issuer)
}

func (e *IssuerAlternativeName) Copy() (Extension, error) {
	return NewIssuerAlternativeName(e.Names), nil
}

// ParseFromYAML parses the issuer_alternative_name configuration from YAML.
// See parseAlternativeName for the supported fields.
func (e *IssuerAlternativeName) ParseFromYAML(data map[string]interface{}) error {
	names, err := parseAlternativeName(data)
	if err != nil {
		return err
	}
	e.Names = names
	return nil
}

// parseAlternativeName reads GeneralNames from profile fields:
//
//	dns: []string
//	email: []string
//	uri: []string
//	ip: []string (IPv4 or IPv6 addresses)
//	dirname: []string (e.g. "CN=Example,O=Org")
func parseAlternativeName(data map[string]interface{}) (generalname.AlternativeName, error) {
	var names generalname.AlternativeName
	var err error

	if names.DNS, err = parseStringSlice(data, "dns"); err != nil {
		return names, err
	}
	if names.Email, err = parseStringSlice(data, "email"); err != nil {
		return names, err
	}
	if names.URI, err = parseStringSlice(data, "uri"); err != nil {
		return names, err
	}

	ips, err := parseStringSlice(data, "ip")
	if err != nil {
		return names, err
	}
	for _, s := range ips {
		ip := net.ParseIP(s)
		if ip == nil {
			return names, fmt.Errorf("invalid IP address '%s'", s)
		}
		names.IP = append(names.IP, ip)
	}

	dirNames, err := parseStringSlice(data, "dirname")
	if err != nil {
		return names, err
	}
	for _, s := range dirNames {
		dn, err := x500.ParseString(s)
		if err != nil {
			return names, fmt.Errorf("invalid dirname '%s': %w", s, err)
		}
		names.DirNames = append(names.DirNames, dn)
	}

	if names.Empty() {
		return names, fmt.Errorf("at least one of dns, email, uri, ip or dirname is required")
	}
	return names, nil
}
