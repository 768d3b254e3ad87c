package certificate

import (
	"bytes"
	"encoding/asn1"
	"fmt"
	"math/big"
	"strconv"
	"time"

	"golang.org/x/crypto/cryptobyte"
	cbasn1 "golang.org/x/crypto/cryptobyte/asn1"
	"reactor.de/certext/internal/domain"
	"reactor.de/certext/internal/infra/crypto/extensions"
	"reactor.de/certext/internal/infra/crypto/hash"
	"reactor.de/certext/internal/infra/crypto/oid"
	"reactor.de/certext/internal/infra/crypto/x500"
)

var (
	tagVersion    = cbasn1.Tag(0).Constructed().ContextSpecific()
	tagIssuerUID  = cbasn1.Tag(1).ContextSpecific()
	tagSubjectUID = cbasn1.Tag(2).ContextSpecific()
	tagExtensions = cbasn1.Tag(3).Constructed().ContextSpecific()
)

// Parser turns DER certificates into Records.
type Parser struct {
	hashes   domain.HashProvider
	registry *extensions.Registry
}

// NewParser returns a parser that digests with hashes and dispatches
// extensions through registry. Nil arguments select the defaults.
func NewParser(hashes domain.HashProvider, registry *extensions.Registry) *Parser {
	if hashes == nil {
		hashes = hash.NewProvider()
	}
	if registry == nil {
		registry = extensions.DefaultRegistry()
	}
	return &Parser{hashes: hashes, registry: registry}
}

type signedObject struct {
	der       []byte
	tbs       []byte
	algorithm AlgorithmIdentifier
	signature []byte
}

func readSigned(der []byte) (signedObject, error) {
	input := cryptobyte.String(der)
	var outer cryptobyte.String
	if !input.ReadASN1(&outer, cbasn1.SEQUENCE) || !input.Empty() {
		return signedObject{}, fmt.Errorf("%w: invalid signed certificate", domain.ErrDecoding)
	}
	obj := signedObject{der: append([]byte(nil), der...)}

	var tbs cryptobyte.String
	if !outer.ReadASN1Element(&tbs, cbasn1.SEQUENCE) {
		return signedObject{}, fmt.Errorf("%w: invalid TBSCertificate", domain.ErrDecoding)
	}
	obj.tbs = append([]byte(nil), tbs...)

	alg, err := readAlgorithmIdentifier(&outer)
	if err != nil {
		return signedObject{}, err
	}
	obj.algorithm = alg

	var sig asn1.BitString
	if !outer.ReadASN1BitString(&sig) || !outer.Empty() {
		return signedObject{}, fmt.Errorf("%w: invalid signature", domain.ErrDecoding)
	}
	obj.signature = sig.Bytes
	return obj, nil
}

// Parse decodes a DER certificate.
func (p *Parser) Parse(der []byte) (*Record, error) {
	obj, err := readSigned(der)
	if err != nil {
		return nil, err
	}
	return p.parseTBS(obj)
}

func (p *Parser) parseTBS(obj signedObject) (*Record, error) {
	tbs := cryptobyte.String(obj.tbs)
	var body cryptobyte.String
	if !tbs.ReadASN1(&body, cbasn1.SEQUENCE) {
		return nil, fmt.Errorf("%w: invalid TBSCertificate", domain.ErrDecoding)
	}

	var version int
	if !body.ReadOptionalASN1Integer(&version, tagVersion, 0) {
		return nil, fmt.Errorf("%w: invalid certificate version", domain.ErrDecoding)
	}

	serial := new(big.Int)
	if !body.ReadASN1Integer(serial) {
		return nil, fmt.Errorf("%w: invalid serial number", domain.ErrDecoding)
	}

	inner, err := readAlgorithmIdentifier(&body)
	if err != nil {
		return nil, err
	}

	issuer, err := x500.ReadFrom(&body)
	if err != nil {
		return nil, fmt.Errorf("issuer: %w", err)
	}

	var validity cryptobyte.String
	if !body.ReadASN1(&validity, cbasn1.SEQUENCE) {
		return nil, fmt.Errorf("%w: invalid validity", domain.ErrDecoding)
	}
	notBefore, err := readTime(&validity)
	if err != nil {
		return nil, err
	}
	notAfter, err := readTime(&validity)
	if err != nil {
		return nil, err
	}
	if !validity.Empty() {
		return nil, fmt.Errorf("%w: trailing data in validity", domain.ErrDecoding)
	}

	subject, err := x500.ReadFrom(&body)
	if err != nil {
		return nil, fmt.Errorf("subject: %w", err)
	}

	if version < 0 || version > 2 {
		return nil, fmt.Errorf("%w: unknown X.509 certificate version %d", domain.ErrDecoding, version)
	}
	if !inner.Equal(obj.algorithm) {
		return nil, fmt.Errorf("%w: inner and outer signature algorithm identifiers differ", domain.ErrDecoding)
	}

	var spki cryptobyte.String
	if !body.ReadASN1Element(&spki, cbasn1.SEQUENCE) {
		return nil, fmt.Errorf("%w: invalid subject public key info", domain.ErrDecoding)
	}
	keyAlg, keyBits, err := readPublicKeyInfo(spki)
	if err != nil {
		return nil, err
	}

	issuerUID, err := readUniqueID(&body, tagIssuerUID)
	if err != nil {
		return nil, err
	}
	subjectUID, err := readUniqueID(&body, tagSubjectUID)
	if err != nil {
		return nil, err
	}

	exts := extensions.NewExtensionsWithRegistry(p.registry)
	var extBlock cryptobyte.String
	var hasExtensions bool
	if !body.ReadOptionalASN1(&extBlock, &hasExtensions, tagExtensions) {
		return nil, fmt.Errorf("%w: invalid extensions block", domain.ErrDecoding)
	}
	if hasExtensions && !extBlock.Empty() {
		if err := exts.ReadFrom(&extBlock); err != nil {
			return nil, err
		}
		if !extBlock.Empty() {
			return nil, fmt.Errorf("%w: trailing data after extensions", domain.ErrDecoding)
		}
	}
	if !body.Empty() {
		return nil, fmt.Errorf("%w: unexpected data at the end of TBSCertificate", domain.ErrDecoding)
	}

	if err := checkPublicKeyAlgorithm(keyAlg, inner); err != nil {
		return nil, err
	}

	r := &Record{
		der:           obj.der,
		tbs:           obj.tbs,
		signatureAlg:  obj.algorithm,
		signature:     obj.signature,
		version:       version + 1,
		serial:        serial,
		issuer:        issuer,
		subject:       subject,
		notBefore:     notBefore,
		notAfter:      notAfter,
		spki:          append([]byte(nil), spki...),
		publicKeyAlg:  keyAlg,
		publicKeyBits: keyBits,
		v2IssuerID:    issuerUID,
		v2SubjectID:   subjectUID,
		extensions:    exts,
	}
	if err := r.deriveFromExtensions(); err != nil {
		return nil, err
	}
	r.selfSigned = r.detectSelfSigned()

	// Left empty without SHA-1; PublicKeyBitsSHA1 then reports the gap.
	if sum, err := hash.Sum(p.hashes, string(domain.SHA1), keyBits); err == nil {
		r.publicKeySHA1 = sum
	}

	r.fillAttributes()
	return r, nil
}

func readTime(s *cryptobyte.String) (time.Time, error) {
	var t time.Time
	switch {
	case s.PeekASN1Tag(cbasn1.UTCTime):
		if !s.ReadASN1UTCTime(&t) {
			return time.Time{}, fmt.Errorf("%w: invalid UTCTime", domain.ErrDecoding)
		}
	case s.PeekASN1Tag(cbasn1.GeneralizedTime):
		if !s.ReadASN1GeneralizedTime(&t) {
			return time.Time{}, fmt.Errorf("%w: invalid GeneralizedTime", domain.ErrDecoding)
		}
	default:
		return time.Time{}, fmt.Errorf("%w: invalid validity time", domain.ErrDecoding)
	}
	return t, nil
}

func readPublicKeyInfo(spki cryptobyte.String) (AlgorithmIdentifier, []byte, error) {
	var seq cryptobyte.String
	if !spki.ReadASN1(&seq, cbasn1.SEQUENCE) {
		return AlgorithmIdentifier{}, nil, fmt.Errorf("%w: invalid subject public key info", domain.ErrDecoding)
	}
	alg, err := readAlgorithmIdentifier(&seq)
	if err != nil {
		return AlgorithmIdentifier{}, nil, err
	}
	var bits asn1.BitString
	if !seq.ReadASN1BitString(&bits) || !seq.Empty() {
		return AlgorithmIdentifier{}, nil, fmt.Errorf("%w: invalid subject public key", domain.ErrDecoding)
	}
	return alg, append([]byte(nil), bits.Bytes...), nil
}

// readUniqueID reads an optional IMPLICIT BIT STRING and returns its bits.
func readUniqueID(s *cryptobyte.String, tag cbasn1.Tag) ([]byte, error) {
	var content cryptobyte.String
	var present bool
	if !s.ReadOptionalASN1(&content, &present, tag) {
		return nil, fmt.Errorf("%w: invalid unique identifier", domain.ErrDecoding)
	}
	if !present {
		return nil, nil
	}
	if len(content) == 0 || content[0] > 7 || (len(content) == 1 && content[0] != 0) {
		return nil, fmt.Errorf("%w: invalid unique identifier", domain.ErrDecoding)
	}
	return append([]byte(nil), content[1:]...), nil
}

func (r *Record) deriveFromExtensions() error {
	x := r.extensions

	ku, ok, err := extensions.As[*extensions.KeyUsage](x, oid.KeyUsage)
	if err != nil {
		return err
	}
	if !ok && x.ExtensionSet(oid.KeyUsage) {
		return fmt.Errorf("%w: undecodable key usage", domain.ErrDecoding)
	}
	if ok {
		if ku.Constraints == extensions.NoConstraints {
			return fmt.Errorf("%w: certificate has an empty key usage", domain.ErrDecoding)
		}
		r.keyUsage = ku.Constraints
	}

	bc, ok, err := extensions.As[*extensions.BasicConstraints](x, oid.BasicConstraints)
	if err != nil {
		return err
	}
	if !ok && x.ExtensionSet(oid.BasicConstraints) {
		return fmt.Errorf("%w: undecodable basic constraints", domain.ErrDecoding)
	}
	// Key usage wins over a cA flag it contradicts.
	if ok && bc.IsCA() && r.AllowedUsage(extensions.KeyCertSign) {
		r.isCA = true
		if r.pathLimit, err = bc.PathLimit(); err != nil {
			return err
		}
	}

	if skid, ok, err := extensions.As[*extensions.SubjectKeyID](x, oid.SubjectKeyIdentifier); err != nil {
		return err
	} else if ok {
		r.subjectKeyID = skid.KeyID
	}
	if akid, ok, err := extensions.As[*extensions.AuthorityKeyID](x, oid.AuthorityKeyIdentifier); err != nil {
		return err
	} else if ok {
		r.authorityKeyID = akid.KeyID
	}
	if nc, ok, err := extensions.As[*extensions.NameConstraints](x, oid.NameConstraints); err != nil {
		return err
	} else if ok {
		r.nameConstraints = nc
	}
	if san, ok, err := extensions.As[*extensions.SubjectAlternativeName](x, oid.SubjectAlternativeName); err != nil {
		return err
	} else if ok {
		r.subjectAltName = san.Names
	}
	if ian, ok, err := extensions.As[*extensions.IssuerAlternativeName](x, oid.IssuerAlternativeName); err != nil {
		return err
	} else if ok {
		r.issuerAltName = ian.Names
	}
	if eku, ok, err := extensions.As[*extensions.ExtendedKeyUsage](x, oid.ExtendedKeyUsage); err != nil {
		return err
	} else if ok {
		r.extKeyUsage = eku.Usages
	}
	if cp, ok, err := extensions.As[*extensions.CertificatePolicies](x, oid.CertificatePolicies); err != nil {
		return err
	} else if ok {
		r.policies = cp.Policies
	}
	if aia, ok, err := extensions.As[*extensions.AuthorityInformationAccess](x, oid.AuthorityInformationAccess); err != nil {
		return err
	} else if ok {
		r.ocspResponder = aia.OCSPResponder
		r.caIssuers = aia.CAIssuers
	}
	if dp, ok, err := extensions.As[*extensions.CRLDistributionPoints](x, oid.CRLDistributionPoints); err != nil {
		return err
	} else if ok {
		r.crlURLs = dp.URLs()
	}
	return nil
}

func (r *Record) detectSelfSigned() bool {
	if !r.subject.Equal(r.issuer) {
		return false
	}
	if len(r.subjectKeyID) > 0 && len(r.authorityKeyID) > 0 {
		return bytes.Equal(r.subjectKeyID, r.authorityKeyID)
	}
	// A false result only means the check was inconclusive.
	return verifiesItself(r.der)
}

func (r *Record) fillAttributes() {
	r.subjectAttrs = domain.NewAttributeStore()
	r.issuerAttrs = domain.NewAttributeStore()

	r.subject.ContentsTo(r.subjectAttrs)
	r.issuer.ContentsTo(r.issuerAttrs)

	r.subjectAttrs.Add("X509.Certificate.version", strconv.Itoa(r.version))
	r.subjectAttrs.Add("X509.Certificate.serial", r.SerialString())
	r.subjectAttrs.Add("X509.Certificate.start", r.notBefore.UTC().Format(time.RFC3339))
	r.subjectAttrs.Add("X509.Certificate.end", r.notAfter.UTC().Format(time.RFC3339))
	r.subjectAttrs.Add("X509.Certificate.signature_algorithm", r.signatureAlg.Name())
	r.subjectAttrs.AddBytes("X509.Certificate.public_key", r.spki)
	if r.v2SubjectID != nil {
		r.subjectAttrs.AddBytes("X509.Certificate.v2.key_id", r.v2SubjectID)
	}
	if r.v2IssuerID != nil {
		r.issuerAttrs.AddBytes("X509.Certificate.v2.key_id", r.v2IssuerID)
	}

	r.extensions.ContentsTo(r.subjectAttrs, r.issuerAttrs)
}
