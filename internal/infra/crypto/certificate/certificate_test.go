//go:build !integration && !e2e

package certificate

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/asn1"
	"encoding/hex"
	"encoding/pem"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/crypto/cryptobyte"
	cbasn1 "golang.org/x/crypto/cryptobyte/asn1"
	"reactor.de/certext/internal/domain"
	"reactor.de/certext/internal/infra/crypto/extensions"
	"reactor.de/certext/internal/infra/crypto/hash"
	"reactor.de/certext/internal/infra/crypto/oid"
	"reactor.de/certext/internal/infra/crypto/x500"
	"reactor.de/certext/internal/testutil"
)

var (
	ecdsaSHA256 = AlgorithmIdentifier{OID: oid.ECDSAWithSHA256}
	rsaSHA256   = AlgorithmIdentifier{OID: oid.SHA256WithRSA, Parameters: asn1Null}
)

func p256Key(t *testing.T) AlgorithmIdentifier {
	t.Helper()
	var b cryptobyte.Builder
	b.AddASN1ObjectIdentifier(oid.NamedCurveP256)
	params, err := b.Bytes()
	if err != nil {
		t.Fatal(err)
	}
	return AlgorithmIdentifier{OID: oid.ECPublicKey, Parameters: params}
}

// tbsParams describes a synthetic certificate. A negative version omits the
// version field; a nil extensions slice omits the [3] block.
type tbsParams struct {
	version    int64
	inner      AlgorithmIdentifier
	outer      AlgorithmIdentifier
	key        AlgorithmIdentifier
	issuerCN   string
	subjectCN  string
	keyBits    []byte
	issuerUID  []byte
	extensions []byte
	trailing   []byte
}

func minimalParams(t *testing.T) tbsParams {
	return tbsParams{
		version:    2,
		inner:      ecdsaSHA256,
		outer:      ecdsaSHA256,
		key:        p256Key(t),
		issuerCN:   "Synthetic",
		subjectCN:  "Synthetic",
		extensions: []byte{0x30, 0x00},
	}
}

func buildCert(t *testing.T, p tbsParams) []byte {
	t.Helper()
	var b cryptobyte.Builder
	b.AddASN1(cbasn1.SEQUENCE, func(b *cryptobyte.Builder) {
		b.AddASN1(cbasn1.SEQUENCE, func(b *cryptobyte.Builder) {
			if p.version >= 0 {
				b.AddASN1(tagVersion, func(b *cryptobyte.Builder) {
					b.AddASN1Int64(p.version)
				})
			}
			b.AddASN1Int64(1)
			p.inner.Marshal(b)
			x500.New(x500.Attribute{Type: oid.CommonName, Value: p.issuerCN}).Marshal(b)
			b.AddASN1(cbasn1.SEQUENCE, func(b *cryptobyte.Builder) {
				b.AddASN1UTCTime(testutil.Epoch.Add(-time.Hour))
				b.AddASN1GeneralizedTime(testutil.Epoch.AddDate(30, 0, 0))
			})
			x500.New(x500.Attribute{Type: oid.CommonName, Value: p.subjectCN}).Marshal(b)
			b.AddASN1(cbasn1.SEQUENCE, func(b *cryptobyte.Builder) {
				p.key.Marshal(b)
				bits := p.keyBits
				if bits == nil {
					bits = []byte{0x04, 0x01, 0x02, 0x03}
				}
				b.AddASN1BitString(bits)
			})
			if p.issuerUID != nil {
				b.AddASN1(tagIssuerUID, func(b *cryptobyte.Builder) {
					b.AddUint8(0)
					b.AddBytes(p.issuerUID)
				})
			}
			if p.extensions != nil {
				b.AddASN1(tagExtensions, func(b *cryptobyte.Builder) {
					b.AddBytes(p.extensions)
				})
			}
			b.AddBytes(p.trailing)
		})
		p.outer.Marshal(b)
		b.AddASN1BitString([]byte{0xde, 0xad, 0xbe, 0xef})
	})
	der, err := b.Bytes()
	if err != nil {
		t.Fatalf("building certificate: %v", err)
	}
	return der
}

func extensionsDER(t *testing.T, x *extensions.Extensions) []byte {
	t.Helper()
	der, err := x.Encode()
	if err != nil {
		t.Fatal(err)
	}
	return der
}

func TestParse_MinimalV3(t *testing.T) {
	r, err := Parse(buildCert(t, minimalParams(t)))
	if err != nil {
		t.Fatalf("Parse() unexpected error: %v", err)
	}

	if r.Version() != 3 {
		t.Errorf("Version() = %d, want 3", r.Version())
	}
	if r.IsCACert() {
		t.Error("IsCACert() = true")
	}
	if r.Constraints() != extensions.NoConstraints {
		t.Errorf("Constraints() = %v, want NoConstraints", r.Constraints())
	}
	if !r.AllowedUsage(extensions.KeyCertSign | extensions.DigitalSignature) {
		t.Error("AllowedUsage() = false without key usage")
	}
	if r.HasExtensions() {
		t.Error("HasExtensions() = true")
	}
	if r.SerialString() != "01" || r.SerialNegative() {
		t.Errorf("serial = %s negative %v", r.SerialString(), r.SerialNegative())
	}
	if !r.NotBefore().Equal(testutil.Epoch.Add(-time.Hour)) || !r.NotAfter().Equal(testutil.Epoch.AddDate(30, 0, 0)) {
		t.Errorf("validity = %v to %v", r.NotBefore(), r.NotAfter())
	}
	if got := r.SubjectDN().CommonNames(); len(got) != 1 || got[0] != "Synthetic" {
		t.Errorf("SubjectDN().CommonNames() = %v", got)
	}
	if got := r.PublicKeyBits(); !cmp.Equal(got, []byte{0x04, 0x01, 0x02, 0x03}) {
		t.Errorf("PublicKeyBits() = % x", got)
	}
	// The key bytes are not a valid point, so self-verification cannot succeed.
	if r.IsSelfSigned() {
		t.Error("IsSelfSigned() = true for an unverifiable certificate")
	}
}

// rawExtensions encodes exts as an Extensions SEQUENCE without decoding
// the bodies.
func rawExtensions(exts ...pkix.Extension) []byte {
	var b cryptobyte.Builder
	b.AddASN1(cbasn1.SEQUENCE, func(b *cryptobyte.Builder) {
		for _, e := range exts {
			b.AddASN1(cbasn1.SEQUENCE, func(b *cryptobyte.Builder) {
				b.AddASN1ObjectIdentifier(e.Id)
				if e.Critical {
					b.AddASN1Boolean(true)
				}
				b.AddASN1OctetString(e.Value)
			})
		}
	})
	return b.BytesOrPanic()
}

func TestParse_StructuralErrors(t *testing.T) {
	caBasic, err := extensions.NewBasicConstraints(true, 2).Encode()
	if err != nil {
		t.Fatal(err)
	}
	// Four value octets after the unused-bits octet: too long for key usage.
	longKeyUsage := []byte{0x03, 0x05, 0x00, 0x80, 0x00, 0x00, 0x00}

	oaep := AlgorithmIdentifier{OID: oid.RSAESOAEP}
	pssKey := AlgorithmIdentifier{OID: oid.RSASSAPSS, Parameters: []byte{0x30, 0x00}}
	pssSig := AlgorithmIdentifier{OID: oid.RSASSAPSS, Parameters: []byte{0x30, 0x03, 0xa0, 0x01, 0x00}}

	tests := []struct {
		name   string
		modify func(*tbsParams)
	}{
		{"version 4", func(p *tbsParams) { p.version = 3 }},
		{"inner and outer algorithms differ", func(p *tbsParams) { p.outer = rsaSHA256 }},
		{"rsa key without null parameters", func(p *tbsParams) {
			p.key = AlgorithmIdentifier{OID: oid.RSAEncryption}
			p.inner, p.outer = rsaSHA256, rsaSHA256
		}},
		{"oaep key", func(p *tbsParams) { p.key = oaep }},
		{"pss key with other signature parameters", func(p *tbsParams) {
			p.key = pssKey
			p.inner, p.outer = pssSig, pssSig
		}},
		{"trailing field", func(p *tbsParams) { p.trailing = []byte{0x05, 0x00} }},
		{"malformed extensions", func(p *tbsParams) { p.extensions = []byte{0x04, 0x00} }},
		{"data after extensions", func(p *tbsParams) { p.extensions = []byte{0x30, 0x00, 0x05, 0x00} }},
		{"empty key usage", func(p *tbsParams) {
			var b cryptobyte.Builder
			b.AddASN1(cbasn1.SEQUENCE, func(b *cryptobyte.Builder) {
				b.AddASN1(cbasn1.SEQUENCE, func(b *cryptobyte.Builder) {
					b.AddASN1ObjectIdentifier(oid.KeyUsage)
					b.AddASN1OctetString([]byte{0x03, 0x02, 0x07, 0x00})
				})
			})
			p.extensions = b.BytesOrPanic()
		}},
		{"undecodable key usage beside a cA basic constraints", func(p *tbsParams) {
			p.extensions = rawExtensions(
				pkix.Extension{Id: oid.BasicConstraints, Critical: true, Value: caBasic},
				pkix.Extension{Id: oid.KeyUsage, Critical: true, Value: longKeyUsage},
			)
		}},
		{"undecodable basic constraints", func(p *tbsParams) {
			p.extensions = rawExtensions(pkix.Extension{Id: oid.BasicConstraints, Value: []byte{0x04, 0x00}})
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := minimalParams(t)
			tt.modify(&p)
			if _, err := Parse(buildCert(t, p)); !errors.Is(err, domain.ErrDecoding) {
				t.Errorf("Parse() error = %v, want ErrDecoding", err)
			}
		})
	}
}

// buildCertWithVersionBytes splices a raw version element into a
// certificate built without one.
func buildCertWithVersionBytes(t *testing.T, p tbsParams, version []byte) []byte {
	t.Helper()
	plain := cryptobyte.String(buildCert(t, p))
	var outer, tbs cryptobyte.String
	if !plain.ReadASN1(&outer, cbasn1.SEQUENCE) || !outer.ReadASN1(&tbs, cbasn1.SEQUENCE) {
		t.Fatal("rebuilding certificate")
	}
	var b cryptobyte.Builder
	b.AddASN1(cbasn1.SEQUENCE, func(b *cryptobyte.Builder) {
		b.AddASN1(cbasn1.SEQUENCE, func(b *cryptobyte.Builder) {
			b.AddASN1(tagVersion, func(b *cryptobyte.Builder) { b.AddBytes(version) })
			b.AddBytes(tbs)
		})
		b.AddBytes(outer)
	})
	return b.BytesOrPanic()
}

func TestParse_NegativeVersion(t *testing.T) {
	p := minimalParams(t)
	p.version = -1
	der := buildCertWithVersionBytes(t, p, []byte{0x02, 0x01, 0xff})
	if _, err := Parse(der); !errors.Is(err, domain.ErrDecoding) {
		t.Errorf("Parse() error = %v, want ErrDecoding", err)
	}
}

func TestParse_VersionsAndUniqueIDs(t *testing.T) {
	p := minimalParams(t)
	p.version = -1
	p.extensions = nil
	p.issuerUID = []byte{0xab, 0xcd}

	r, err := Parse(buildCert(t, p))
	if err != nil {
		t.Fatalf("Parse() unexpected error: %v", err)
	}
	if r.Version() != 1 {
		t.Errorf("Version() = %d, want 1", r.Version())
	}
	if !cmp.Equal(r.V2IssuerID(), []byte{0xab, 0xcd}) {
		t.Errorf("V2IssuerID() = % x", r.V2IssuerID())
	}
	if r.V2SubjectID() != nil {
		t.Errorf("V2SubjectID() = % x, want nil", r.V2SubjectID())
	}
	if got := r.IssuerAttributes().First("X509.Certificate.v2.key_id"); got != "ABCD" {
		t.Errorf("issuer v2 key id attribute = %q", got)
	}
}

func TestParse_AlgorithmNullEquivalence(t *testing.T) {
	p := minimalParams(t)
	p.inner = AlgorithmIdentifier{OID: oid.ECDSAWithSHA256, Parameters: asn1Null}
	if _, err := Parse(buildCert(t, p)); err != nil {
		t.Errorf("Parse() with NULL vs absent parameters: %v", err)
	}
}

func TestParse_CAPrecedence(t *testing.T) {
	basic := extensions.NewBasicConstraints(true, 2)

	tests := []struct {
		name     string
		keyUsage extensions.KeyConstraints
		wantCA   bool
	}{
		{"no key usage", extensions.NoConstraints, true},
		{"key usage with cert sign", extensions.KeyCertSign | extensions.CRLSign, true},
		{"key usage without cert sign", extensions.DigitalSignature, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x := extensions.NewExtensions()
			if err := x.Add(basic, true); err != nil {
				t.Fatal(err)
			}
			if tt.keyUsage != extensions.NoConstraints {
				if err := x.Add(extensions.NewKeyUsage(tt.keyUsage), true); err != nil {
					t.Fatal(err)
				}
			}
			p := minimalParams(t)
			p.extensions = extensionsDER(t, x)

			r, err := Parse(buildCert(t, p))
			if err != nil {
				t.Fatalf("Parse() unexpected error: %v", err)
			}
			if r.IsCACert() != tt.wantCA {
				t.Errorf("IsCACert() = %v, want %v", r.IsCACert(), tt.wantCA)
			}
			wantLimit := 0
			if tt.wantCA {
				wantLimit = 2
			}
			if r.PathLimit() != wantLimit {
				t.Errorf("PathLimit() = %d, want %d", r.PathLimit(), wantLimit)
			}
		})
	}
}

func TestParse_SelfSignedByKeyIDs(t *testing.T) {
	tests := []struct {
		name      string
		subjectCN string
		akid      []byte
		want      bool
	}{
		{"matching key ids", "Synthetic", []byte{1, 2, 3}, true},
		{"different key ids", "Synthetic", []byte{9, 9, 9}, false},
		{"different names", "Other", []byte{1, 2, 3}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x := extensions.NewExtensions()
			if err := x.Add(extensions.NewSubjectKeyID([]byte{1, 2, 3}), false); err != nil {
				t.Fatal(err)
			}
			if err := x.Add(extensions.NewAuthorityKeyID(tt.akid), false); err != nil {
				t.Fatal(err)
			}
			p := minimalParams(t)
			p.subjectCN = tt.subjectCN
			p.extensions = extensionsDER(t, x)

			r, err := Parse(buildCert(t, p))
			if err != nil {
				t.Fatalf("Parse() unexpected error: %v", err)
			}
			if r.IsSelfSigned() != tt.want {
				t.Errorf("IsSelfSigned() = %v, want %v", r.IsSelfSigned(), tt.want)
			}
		})
	}
}

func TestParse_GeneratedChain(t *testing.T) {
	root := testutil.SelfSigned(t, testutil.CATemplate("Test Root"))

	leafTmpl := testutil.Template("www.example.com", "www.example.com", "example.com")
	leafTmpl.OCSPServer = []string{"http://ocsp.example.com"}
	leafTmpl.IssuingCertificateURL = []string{"http://ca.example.com/root.crt"}
	leafTmpl.CRLDistributionPoints = []string{"http://crl.example.com/root.crl"}
	policy := asn1.ObjectIdentifier{1, 3, 6, 1, 4, 1, 99999, 1}
	policies, err := extensions.NewCertificatePolicies(policy).Encode()
	if err != nil {
		t.Fatal(err)
	}
	leafTmpl.ExtraExtensions = []pkix.Extension{
		{Id: oid.CertificatePolicies, Value: policies},
		{Id: asn1.ObjectIdentifier{1, 3, 6, 1, 4, 1, 99999, 2}, Critical: true, Value: []byte{0x05, 0x00}},
	}
	leaf := testutil.Issue(t, leafTmpl, root)

	rootRec, err := Parse(root.DER)
	if err != nil {
		t.Fatalf("Parse(root) unexpected error: %v", err)
	}
	leafRec, err := Parse(leaf.DER)
	if err != nil {
		t.Fatalf("Parse(leaf) unexpected error: %v", err)
	}

	if !rootRec.IsSelfSigned() || !rootRec.IsCACert() {
		t.Errorf("root self-signed %v CA %v", rootRec.IsSelfSigned(), rootRec.IsCACert())
	}
	if leafRec.IsSelfSigned() || leafRec.IsCACert() {
		t.Errorf("leaf self-signed %v CA %v", leafRec.IsSelfSigned(), leafRec.IsCACert())
	}
	if !cmp.Equal(leafRec.AuthorityKeyID(), rootRec.SubjectKeyID()) || len(rootRec.SubjectKeyID()) == 0 {
		t.Errorf("leaf AKID % x, root SKID % x", leafRec.AuthorityKeyID(), rootRec.SubjectKeyID())
	}
	if diff := cmp.Diff([]string{"www.example.com", "example.com"}, leafRec.SubjectAltName().DNS); diff != "" {
		t.Errorf("SAN DNS mismatch (-want +got):\n%s", diff)
	}
	if leafRec.OCSPResponder() != "http://ocsp.example.com" {
		t.Errorf("OCSPResponder() = %q", leafRec.OCSPResponder())
	}
	if diff := cmp.Diff([]string{"http://ca.example.com/root.crt"}, leafRec.CAIssuers()); diff != "" {
		t.Errorf("CAIssuers mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"http://crl.example.com/root.crl"}, leafRec.CRLDistributionPoints()); diff != "" {
		t.Errorf("CRLDistributionPoints mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]asn1.ObjectIdentifier{oid.ExtKeyUsageServerAuth}, leafRec.ExtendedKeyUsage()); diff != "" {
		t.Errorf("ExtendedKeyUsage mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]asn1.ObjectIdentifier{policy}, leafRec.Policies()); diff != "" {
		t.Errorf("Policies mismatch (-want +got):\n%s", diff)
	}
	if leafRec.Constraints() != extensions.DigitalSignature {
		t.Errorf("Constraints() = %v", leafRec.Constraints())
	}
	if rootRec.Version() != 3 || rootRec.SerialString() != strings.ToUpper(hex.EncodeToString(root.Cert.SerialNumber.Bytes())) {
		t.Errorf("root version %d serial %s", rootRec.Version(), rootRec.SerialString())
	}

	custom := asn1.ObjectIdentifier{1, 3, 6, 1, 4, 1, 99999, 2}
	if !leafRec.IsCritical(custom) {
		t.Error("IsCritical(custom) = false")
	}
	entries, err := leafRec.ExtensionList()
	if err != nil {
		t.Fatal(err)
	}
	var found bool
	for _, e := range entries {
		if e.Extension.OID().Equal(custom) {
			_, found = e.Extension.(*extensions.Unknown)
		}
	}
	if !found {
		t.Error("custom extension not kept as Unknown")
	}

	if err := leafRec.CheckSignatureFrom(rootRec); err != nil {
		t.Errorf("CheckSignatureFrom(root) unexpected error: %v", err)
	}
	if err := rootRec.CheckSignatureFrom(leafRec); err == nil {
		t.Error("CheckSignatureFrom(leaf) expected error")
	}

	if got := leafRec.SubjectAttributes().First("DNS"); got != "www.example.com" {
		t.Errorf("subject DNS attribute = %q", got)
	}
	if got := leafRec.IssuerAttributes().First("X509v3.AuthorityKeyIdentifier"); got == "" {
		t.Error("issuer attributes lack the authority key id")
	}
	if got := rootRec.SubjectAttributes().First("X509v3.BasicConstraints.is_critical"); got != "true" {
		t.Errorf("root basic constraints criticality attribute = %q, want true", got)
	}
	if leafRec.SubjectAttributes().Has("X509v3.BasicConstraints.is_critical") {
		t.Error("leaf without basic constraints has a criticality attribute")
	}
	if !cmp.Equal(rootRec.SubjectPublicKeyInfo(), root.Cert.RawSubjectPublicKeyInfo) {
		t.Error("SubjectPublicKeyInfo() differs from crypto/x509")
	}
	if !cmp.Equal(leafRec.RawIssuer(), leaf.Cert.RawIssuer) || !cmp.Equal(leafRec.TBS(), leaf.Cert.RawTBSCertificate) {
		t.Error("raw issuer or TBS differs from crypto/x509")
	}
}

func TestRecord_Digests(t *testing.T) {
	root := testutil.SelfSigned(t, testutil.CATemplate("Digest Root"))
	r, err := Parse(root.DER)
	if err != nil {
		t.Fatal(err)
	}

	sum := sha256.Sum256(root.DER)
	parts := make([]string, len(sum))
	for i, b := range sum {
		parts[i] = fmt.Sprintf("%02X", b)
	}
	got, err := r.Fingerprint(hash.NewProvider(), string(domain.SHA256))
	if err != nil {
		t.Fatalf("Fingerprint() unexpected error: %v", err)
	}
	if got != strings.Join(parts, ":") {
		t.Errorf("Fingerprint() = %s", got)
	}
	if _, err := r.Fingerprint(hash.NewProvider(), "MD5"); !errors.Is(err, domain.ErrUnknownHash) {
		t.Errorf("Fingerprint(MD5) error = %v, want ErrUnknownHash", err)
	}

	keySum := sha1.Sum(r.PublicKeyBits())
	digest, err := r.PublicKeyBitsSHA1()
	if err != nil || !cmp.Equal(digest, keySum[:]) {
		t.Errorf("PublicKeyBitsSHA1() = % x, %v", digest, err)
	}

	noSHA1 := NewParser(hash.NewProvider().Without(domain.SHA1), nil)
	r, err = noSHA1.Parse(root.DER)
	if err != nil {
		t.Fatalf("Parse() without SHA-1 unexpected error: %v", err)
	}
	if _, err := r.PublicKeyBitsSHA1(); !errors.Is(err, domain.ErrUnknownHash) {
		t.Errorf("PublicKeyBitsSHA1() error = %v, want ErrUnknownHash", err)
	}
}

func TestRecord_AccessorsCopy(t *testing.T) {
	leaf := testutil.Issue(t, testutil.Template("copy.example.com", "copy.example.com"), testutil.SelfSigned(t, testutil.CATemplate("Copy Root")))
	r, err := Parse(leaf.DER)
	if err != nil {
		t.Fatal(err)
	}

	alt := r.SubjectAltName()
	alt.DNS[0] = "changed"
	akid := r.AuthorityKeyID()
	akid[0] ^= 0xff
	attrs := r.SubjectAttributes()
	attrs.Add("DNS", "changed")
	x, err := r.Extensions()
	if err != nil {
		t.Fatal(err)
	}
	x.Remove(oid.KeyUsage)

	if r.SubjectAltName().DNS[0] != "copy.example.com" {
		t.Error("SubjectAltName() shares storage")
	}
	if cmp.Equal(akid, r.AuthorityKeyID()) {
		t.Error("AuthorityKeyID() shares storage")
	}
	if len(r.SubjectAttributes().Get("DNS")) != 1 {
		t.Error("SubjectAttributes() shares storage")
	}
	if !r.IsCritical(oid.KeyUsage) {
		t.Error("Extensions() shares storage")
	}
}

func TestCertificate_States(t *testing.T) {
	c := NewCertificate(nil)
	if c.Parsed() {
		t.Error("Parsed() = true before Decode")
	}
	if _, err := c.Record(); !errors.Is(err, domain.ErrInvalidState) {
		t.Errorf("Record() error = %v, want ErrInvalidState", err)
	}

	if err := c.Decode([]byte{0x30, 0x00}); !errors.Is(err, domain.ErrDecoding) {
		t.Errorf("Decode(garbage) error = %v, want ErrDecoding", err)
	}
	if c.Parsed() {
		t.Error("failed Decode changed the state")
	}

	der := buildCert(t, minimalParams(t))
	if err := c.Decode(der); err != nil {
		t.Fatalf("Decode() unexpected error: %v", err)
	}
	if _, err := c.Record(); err != nil {
		t.Errorf("Record() unexpected error: %v", err)
	}
	if err := c.Decode(der); !errors.Is(err, domain.ErrInvalidState) {
		t.Errorf("second Decode() error = %v, want ErrInvalidState", err)
	}
}

func TestParser_PEM(t *testing.T) {
	root := testutil.SelfSigned(t, testutil.CATemplate("PEM Root"))
	leaf := testutil.Issue(t, testutil.Template("pem.example.com", "pem.example.com"), root)

	data := testutil.PEM(leaf)
	data = append(data, pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: []byte{1, 2, 3}})...)
	data = append(data, testutil.PEM(root)...)

	p := NewParser(nil, nil)
	chain, err := p.ParsePEMChain(data)
	if err != nil {
		t.Fatalf("ParsePEMChain() unexpected error: %v", err)
	}
	if len(chain) != 2 {
		t.Fatalf("ParsePEMChain() = %d certificates, want 2", len(chain))
	}
	if chain[1].SubjectDN().CommonNames()[0] != "PEM Root" {
		t.Errorf("chain[1] = %s", chain[1].SubjectDN())
	}

	first, err := p.ParsePEM(data)
	if err != nil || !cmp.Equal(first.DER(), leaf.DER) {
		t.Errorf("ParsePEM() = %v", err)
	}
	if !cmp.Equal(EncodePEM(first), testutil.PEM(leaf)) {
		t.Error("EncodePEM() differs from the input block")
	}

	single, err := p.ParseAny(leaf.DER)
	if err != nil || len(single) != 1 {
		t.Errorf("ParseAny(DER) = %d, %v", len(single), err)
	}

	if _, err := p.ParsePEMChain([]byte("no pem here")); !errors.Is(err, domain.ErrDecoding) {
		t.Errorf("ParsePEMChain(empty) error = %v, want ErrDecoding", err)
	}
}

func TestSelfSignature_Inconclusive(t *testing.T) {
	if verifiesItself([]byte{0x30, 0x00}) {
		t.Error("verifiesItself() = true for garbage")
	}
	root := testutil.SelfSigned(t, testutil.CATemplate("Verify Root"))
	if !verifiesItself(root.DER) {
		t.Error("verifiesItself() = false for a self-signed certificate")
	}
	leaf := testutil.Issue(t, testutil.Template("Verify Root"), root)
	if verifiesItself(leaf.DER) {
		t.Error("verifiesItself() = true for a certificate signed by another key")
	}
}

func TestSelfSignature_UnsupportedAlgorithm(t *testing.T) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	spki, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		t.Fatal(err)
	}
	keyAlg, keyBits, err := readPublicKeyInfo(cryptobyte.String(spki))
	if err != nil {
		t.Fatal(err)
	}

	unknown := AlgorithmIdentifier{OID: asn1.ObjectIdentifier{1, 2, 3, 4}}
	p := minimalParams(t)
	p.inner, p.outer = unknown, unknown
	p.key, p.keyBits = keyAlg, keyBits
	der := buildCert(t, p)

	if verifiesItself(der) {
		t.Error("verifiesItself() = true for an unsupported signature algorithm")
	}
	cert, err := Parse(der)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if cert.IsSelfSigned() {
		t.Error("IsSelfSigned() = true for an unsupported signature algorithm")
	}
}
