// Package oid holds object identifier constants and the read-only name table
// used for diagnostics and attribute-store keys.
package oid

import (
	"encoding/asn1"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Certificate extensions.
var (
	SubjectKeyIdentifier         = asn1.ObjectIdentifier{2, 5, 29, 14}
	KeyUsage                     = asn1.ObjectIdentifier{2, 5, 29, 15}
	SubjectAlternativeName       = asn1.ObjectIdentifier{2, 5, 29, 17}
	IssuerAlternativeName        = asn1.ObjectIdentifier{2, 5, 29, 18}
	BasicConstraints             = asn1.ObjectIdentifier{2, 5, 29, 19}
	CRLNumber                    = asn1.ObjectIdentifier{2, 5, 29, 20}
	CRLReasonCode                = asn1.ObjectIdentifier{2, 5, 29, 21}
	CRLIssuingDistributionPoint  = asn1.ObjectIdentifier{2, 5, 29, 28}
	NameConstraints              = asn1.ObjectIdentifier{2, 5, 29, 30}
	CRLDistributionPoints        = asn1.ObjectIdentifier{2, 5, 29, 31}
	CertificatePolicies          = asn1.ObjectIdentifier{2, 5, 29, 32}
	AuthorityKeyIdentifier       = asn1.ObjectIdentifier{2, 5, 29, 35}
	ExtendedKeyUsage             = asn1.ObjectIdentifier{2, 5, 29, 37}
	AuthorityInformationAccess   = asn1.ObjectIdentifier{1, 3, 6, 1, 5, 5, 7, 1, 1}
	AccessMethodOCSP             = asn1.ObjectIdentifier{1, 3, 6, 1, 5, 5, 7, 48, 1}
	AccessMethodCAIssuers        = asn1.ObjectIdentifier{1, 3, 6, 1, 5, 5, 7, 48, 2}
	AnyPolicy                    = asn1.ObjectIdentifier{2, 5, 29, 32, 0}
	ExtKeyUsageAny               = asn1.ObjectIdentifier{2, 5, 29, 37, 0}
	ExtKeyUsageServerAuth        = asn1.ObjectIdentifier{1, 3, 6, 1, 5, 5, 7, 3, 1}
	ExtKeyUsageClientAuth        = asn1.ObjectIdentifier{1, 3, 6, 1, 5, 5, 7, 3, 2}
	ExtKeyUsageCodeSigning       = asn1.ObjectIdentifier{1, 3, 6, 1, 5, 5, 7, 3, 3}
	ExtKeyUsageEmailProtection   = asn1.ObjectIdentifier{1, 3, 6, 1, 5, 5, 7, 3, 4}
	ExtKeyUsageIPSECEndSystem    = asn1.ObjectIdentifier{1, 3, 6, 1, 5, 5, 7, 3, 5}
	ExtKeyUsageIPSECTunnel       = asn1.ObjectIdentifier{1, 3, 6, 1, 5, 5, 7, 3, 6}
	ExtKeyUsageIPSECUser         = asn1.ObjectIdentifier{1, 3, 6, 1, 5, 5, 7, 3, 7}
	ExtKeyUsageTimeStamping      = asn1.ObjectIdentifier{1, 3, 6, 1, 5, 5, 7, 3, 8}
	ExtKeyUsageOCSPSigning       = asn1.ObjectIdentifier{1, 3, 6, 1, 5, 5, 7, 3, 9}
	ExtKeyUsageMicrosoftSGC      = asn1.ObjectIdentifier{1, 3, 6, 1, 4, 1, 311, 10, 3, 3}
	ExtKeyUsageNetscapeSGC       = asn1.ObjectIdentifier{2, 16, 840, 1, 113730, 4, 1}
	ExtKeyUsageMicrosoftCodeSign = asn1.ObjectIdentifier{1, 3, 6, 1, 4, 1, 311, 2, 1, 22}
)

// Public key and signature algorithms.
var (
	RSAEncryption    = asn1.ObjectIdentifier{1, 2, 840, 113549, 1, 1, 1}
	RSAESOAEP        = asn1.ObjectIdentifier{1, 2, 840, 113549, 1, 1, 7}
	RSASSAPSS        = asn1.ObjectIdentifier{1, 2, 840, 113549, 1, 1, 10}
	SHA1WithRSA      = asn1.ObjectIdentifier{1, 2, 840, 113549, 1, 1, 5}
	SHA256WithRSA    = asn1.ObjectIdentifier{1, 2, 840, 113549, 1, 1, 11}
	SHA384WithRSA    = asn1.ObjectIdentifier{1, 2, 840, 113549, 1, 1, 12}
	SHA512WithRSA    = asn1.ObjectIdentifier{1, 2, 840, 113549, 1, 1, 13}
	ECPublicKey      = asn1.ObjectIdentifier{1, 2, 840, 10045, 2, 1}
	ECDSAWithSHA256  = asn1.ObjectIdentifier{1, 2, 840, 10045, 4, 3, 2}
	ECDSAWithSHA384  = asn1.ObjectIdentifier{1, 2, 840, 10045, 4, 3, 3}
	ECDSAWithSHA512  = asn1.ObjectIdentifier{1, 2, 840, 10045, 4, 3, 4}
	Ed25519          = asn1.ObjectIdentifier{1, 3, 101, 112}
	Ed448            = asn1.ObjectIdentifier{1, 3, 101, 113}
	NamedCurveP256   = asn1.ObjectIdentifier{1, 2, 840, 10045, 3, 1, 7}
	NamedCurveP384   = asn1.ObjectIdentifier{1, 3, 132, 0, 34}
	NamedCurveP521   = asn1.ObjectIdentifier{1, 3, 132, 0, 35}
	SecureHashSHA1   = asn1.ObjectIdentifier{1, 3, 14, 3, 2, 26}
	SecureHashSHA256 = asn1.ObjectIdentifier{2, 16, 840, 1, 101, 3, 4, 2, 1}
)

// Distinguished name attributes.
var (
	CommonName             = asn1.ObjectIdentifier{2, 5, 4, 3}
	Surname                = asn1.ObjectIdentifier{2, 5, 4, 4}
	SerialNumber           = asn1.ObjectIdentifier{2, 5, 4, 5}
	Country                = asn1.ObjectIdentifier{2, 5, 4, 6}
	Locality               = asn1.ObjectIdentifier{2, 5, 4, 7}
	State                  = asn1.ObjectIdentifier{2, 5, 4, 8}
	StreetAddress          = asn1.ObjectIdentifier{2, 5, 4, 9}
	Organization           = asn1.ObjectIdentifier{2, 5, 4, 10}
	OrganizationalUnit     = asn1.ObjectIdentifier{2, 5, 4, 11}
	Title                  = asn1.ObjectIdentifier{2, 5, 4, 12}
	PostalCode             = asn1.ObjectIdentifier{2, 5, 4, 17}
	GivenName              = asn1.ObjectIdentifier{2, 5, 4, 42}
	Pseudonym              = asn1.ObjectIdentifier{2, 5, 4, 65}
	EmailAddress           = asn1.ObjectIdentifier{1, 2, 840, 113549, 1, 9, 1}
	DomainComponent        = asn1.ObjectIdentifier{0, 9, 2342, 19200300, 100, 1, 25}
	UserID                 = asn1.ObjectIdentifier{0, 9, 2342, 19200300, 100, 1, 1}
	OtherNameUPN           = asn1.ObjectIdentifier{1, 3, 6, 1, 4, 1, 311, 20, 2, 3}
	OtherNameSmtpUTF8Mbox  = asn1.ObjectIdentifier{1, 3, 6, 1, 5, 5, 7, 8, 9}
	OtherNameXMPPAddr      = asn1.ObjectIdentifier{1, 3, 6, 1, 5, 5, 7, 8, 5}
	OtherNameHardwareModel = asn1.ObjectIdentifier{1, 3, 6, 1, 5, 5, 7, 8, 4}
)

// Parse parses an object identifier from its dotted string representation.
func Parse(s string) (asn1.ObjectIdentifier, error) {
	if len(s) == 0 {
		return nil, errors.New("zero length OBJECT IDENTIFIER")
	}

	parts := strings.Split(s, ".")
	if len(parts) < 2 {
		return nil, fmt.Errorf("OBJECT IDENTIFIER %q needs at least two arcs", s)
	}

	id := make(asn1.ObjectIdentifier, 0, len(parts))
	for _, part := range parts {
		value, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid OBJECT IDENTIFIER arc %q: %w", part, err)
		}
		if value < 0 {
			return nil, fmt.Errorf("negative OBJECT IDENTIFIER arc %q", part)
		}
		id = append(id, value)
	}
	if id[0] > 2 || (id[0] < 2 && id[1] > 39) {
		return nil, fmt.Errorf("OBJECT IDENTIFIER %q has invalid leading arcs", s)
	}

	return id, nil
}

// Compare orders identifiers lexicographically over their arcs.
func Compare(a, b asn1.ObjectIdentifier) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		switch {
		case a[i] < b[i]:
			return -1
		case a[i] > b[i]:
			return 1
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	}
	return 0
}

// Clone returns a copy that shares no storage with id.
func Clone(id asn1.ObjectIdentifier) asn1.ObjectIdentifier {
	if id == nil {
		return nil
	}
	return append(asn1.ObjectIdentifier(nil), id...)
}
