package certificate

import (
	"encoding/asn1"
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"
	"time"

	"reactor.de/certext/internal/domain"
	"reactor.de/certext/internal/infra/crypto/extensions"
	"reactor.de/certext/internal/infra/crypto/generalname"
	"reactor.de/certext/internal/infra/crypto/hash"
	"reactor.de/certext/internal/infra/crypto/oid"
	"reactor.de/certext/internal/infra/crypto/x500"
)

// Record is the data of a parsed certificate. It is never modified after
// parsing; every accessor returns a copy.
type Record struct {
	der          []byte
	tbs          []byte
	signatureAlg AlgorithmIdentifier
	signature    []byte

	version   int
	serial    *big.Int
	issuer    x500.DN
	subject   x500.DN
	notBefore time.Time
	notAfter  time.Time

	spki          []byte
	publicKeyAlg  AlgorithmIdentifier
	publicKeyBits []byte
	publicKeySHA1 []byte

	v2IssuerID  []byte
	v2SubjectID []byte

	extensions *extensions.Extensions

	keyUsage        extensions.KeyConstraints
	subjectKeyID    []byte
	authorityKeyID  []byte
	nameConstraints *extensions.NameConstraints
	isCA            bool
	pathLimit       int
	subjectAltName  generalname.AlternativeName
	issuerAltName   generalname.AlternativeName
	extKeyUsage     []asn1.ObjectIdentifier
	policies        []asn1.ObjectIdentifier
	ocspResponder   string
	caIssuers       []string
	crlURLs         []string
	selfSigned      bool

	subjectAttrs *domain.AttributeStore
	issuerAttrs  *domain.AttributeStore
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	return append([]byte(nil), b...)
}

func cloneOIDs(ids []asn1.ObjectIdentifier) []asn1.ObjectIdentifier {
	out := make([]asn1.ObjectIdentifier, 0, len(ids))
	for _, id := range ids {
		out = append(out, oid.Clone(id))
	}
	return out
}

// DER returns the complete encoded certificate.
func (r *Record) DER() []byte { return cloneBytes(r.der) }

// TBS returns the encoded TBSCertificate.
func (r *Record) TBS() []byte { return cloneBytes(r.tbs) }

// Signature returns the signature bits.
func (r *Record) Signature() []byte { return cloneBytes(r.signature) }

// SignatureAlgorithm returns the outer signature algorithm.
func (r *Record) SignatureAlgorithm() AlgorithmIdentifier {
	return AlgorithmIdentifier{OID: oid.Clone(r.signatureAlg.OID), Parameters: cloneBytes(r.signatureAlg.Parameters)}
}

// Version returns the X.509 version, 1 to 3.
func (r *Record) Version() int { return r.version }

// SerialNumber returns the big-endian magnitude of the serial number.
func (r *Record) SerialNumber() []byte {
	return new(big.Int).Abs(r.serial).Bytes()
}

// SerialNegative reports whether the encoded serial number was negative.
func (r *Record) SerialNegative() bool { return r.serial.Sign() < 0 }

// Serial returns the serial number as an integer.
func (r *Record) Serial() *big.Int { return new(big.Int).Set(r.serial) }

// SerialString returns the serial number in upper-case hex.
func (r *Record) SerialString() string {
	s := strings.ToUpper(hex.EncodeToString(r.SerialNumber()))
	if s == "" {
		s = "00"
	}
	if r.SerialNegative() {
		return "-" + s
	}
	return s
}

// IssuerDN returns the issuer name.
func (r *Record) IssuerDN() x500.DN { return r.issuer }

// SubjectDN returns the subject name.
func (r *Record) SubjectDN() x500.DN { return r.subject }

// RawIssuer returns the DER issuer name.
func (r *Record) RawIssuer() []byte { return r.issuer.Raw() }

// RawSubject returns the DER subject name.
func (r *Record) RawSubject() []byte { return r.subject.Raw() }

// NotBefore returns the start of the validity period.
func (r *Record) NotBefore() time.Time { return r.notBefore }

// NotAfter returns the end of the validity period.
func (r *Record) NotAfter() time.Time { return r.notAfter }

// SubjectPublicKeyInfo returns the DER SubjectPublicKeyInfo.
func (r *Record) SubjectPublicKeyInfo() []byte { return cloneBytes(r.spki) }

// PublicKeyAlgorithm returns the algorithm of the subject public key.
func (r *Record) PublicKeyAlgorithm() AlgorithmIdentifier {
	return AlgorithmIdentifier{OID: oid.Clone(r.publicKeyAlg.OID), Parameters: cloneBytes(r.publicKeyAlg.Parameters)}
}

// PublicKeyBits returns the contents of the subjectPublicKey BIT STRING.
func (r *Record) PublicKeyBits() []byte { return cloneBytes(r.publicKeyBits) }

// PublicKeyBitsSHA1 returns the SHA-1 digest of PublicKeyBits. It fails when
// SHA-1 was not available at parse time.
func (r *Record) PublicKeyBitsSHA1() ([]byte, error) {
	if len(r.publicKeySHA1) == 0 {
		return nil, fmt.Errorf("%w: SHA-1 digest of the public key was not computed", domain.ErrUnknownHash)
	}
	return cloneBytes(r.publicKeySHA1), nil
}

// V2IssuerID returns the issuerUniqueID, if present.
func (r *Record) V2IssuerID() []byte { return cloneBytes(r.v2IssuerID) }

// V2SubjectID returns the subjectUniqueID, if present.
func (r *Record) V2SubjectID() []byte { return cloneBytes(r.v2SubjectID) }

// Extensions returns a copy of the decoded extensions.
func (r *Record) Extensions() (*extensions.Extensions, error) {
	return r.extensions.Clone()
}

// ExtensionList returns copies of all extensions in encoding order.
func (r *Record) ExtensionList() ([]extensions.Entry, error) {
	return r.extensions.List()
}

// HasExtensions reports whether the certificate carries any extension.
func (r *Record) HasExtensions() bool { return r.extensions.Len() > 0 }

// DuplicateExtensions returns the OIDs that occurred more than once.
func (r *Record) DuplicateExtensions() []asn1.ObjectIdentifier {
	return r.extensions.Duplicates()
}

// IsCritical reports whether the extension id is present and marked critical.
func (r *Record) IsCritical(id asn1.ObjectIdentifier) bool {
	return r.extensions.CriticalExtensionSet(id)
}

// Constraints returns the key usage mask, NoConstraints when there is no
// Key Usage extension.
func (r *Record) Constraints() extensions.KeyConstraints { return r.keyUsage }

// AllowedUsage reports whether every bit of usage is permitted.
func (r *Record) AllowedUsage(usage extensions.KeyConstraints) bool {
	if r.keyUsage == extensions.NoConstraints {
		return true
	}
	return r.keyUsage&usage == usage
}

// SubjectKeyID returns the subject key identifier.
func (r *Record) SubjectKeyID() []byte { return cloneBytes(r.subjectKeyID) }

// AuthorityKeyID returns the authority key identifier.
func (r *Record) AuthorityKeyID() []byte { return cloneBytes(r.authorityKeyID) }

// NameConstraints returns the name constraints, if any.
func (r *Record) NameConstraints() (*extensions.NameConstraints, bool) {
	if r.nameConstraints == nil {
		return nil, false
	}
	c, err := r.nameConstraints.Copy()
	if err != nil {
		return nil, false
	}
	return c.(*extensions.NameConstraints), true
}

// IsCACert reports whether the certificate may issue certificates.
func (r *Record) IsCACert() bool { return r.isCA }

// PathLimit returns the CA path length constraint, 0 for non-CA certificates.
func (r *Record) PathLimit() int { return r.pathLimit }

// SubjectAltName returns the subject alternative names.
func (r *Record) SubjectAltName() generalname.AlternativeName { return r.subjectAltName.Clone() }

// IssuerAltName returns the issuer alternative names.
func (r *Record) IssuerAltName() generalname.AlternativeName { return r.issuerAltName.Clone() }

// ExtendedKeyUsage returns the extended key usage OIDs.
func (r *Record) ExtendedKeyUsage() []asn1.ObjectIdentifier { return cloneOIDs(r.extKeyUsage) }

// Policies returns the certificate policy OIDs.
func (r *Record) Policies() []asn1.ObjectIdentifier { return cloneOIDs(r.policies) }

// OCSPResponder returns the OCSP responder URL from Authority Information Access.
func (r *Record) OCSPResponder() string { return r.ocspResponder }

// CAIssuers returns the CA issuer URLs from Authority Information Access.
func (r *Record) CAIssuers() []string { return append([]string(nil), r.caIssuers...) }

// CRLDistributionPoints returns the CRL URLs.
func (r *Record) CRLDistributionPoints() []string { return append([]string(nil), r.crlURLs...) }

// IsSelfSigned reports whether the certificate looks self-issued and
// self-signed. It is a hint for display and chain building, not a trust signal.
func (r *Record) IsSelfSigned() bool { return r.selfSigned }

// SubjectAttributes returns the subject attribute store.
func (r *Record) SubjectAttributes() *domain.AttributeStore { return r.subjectAttrs.Clone() }

// IssuerAttributes returns the issuer attribute store.
func (r *Record) IssuerAttributes() *domain.AttributeStore { return r.issuerAttrs.Clone() }

// Fingerprint hashes the encoded certificate and formats the digest as
// colon-separated upper-case hex.
func (r *Record) Fingerprint(hashes domain.HashProvider, name string) (string, error) {
	sum, err := hash.Sum(hashes, name, r.der)
	if err != nil {
		return "", err
	}
	parts := make([]string, len(sum))
	for i, b := range sum {
		parts[i] = fmt.Sprintf("%02X", b)
	}
	return strings.Join(parts, ":"), nil
}
