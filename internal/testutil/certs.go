package testutil

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"testing"
	"time"
)

// Epoch is the reference time of generated certificates. They are valid
// from one day before to one year after it.
var Epoch = time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)

// TestCert is a generated certificate together with its key.
type TestCert struct {
	DER  []byte
	Cert *x509.Certificate
	Key  crypto.Signer
}

// Template returns a leaf template for cn with DNS SANs.
func Template(cn string, dnsNames ...string) *x509.Certificate {
	return &x509.Certificate{
		SerialNumber: newSerialNumber(),
		Subject:      pkix.Name{CommonName: cn, Organization: []string{"Reactor Test"}},
		NotBefore:    Epoch.Add(-24 * time.Hour),
		NotAfter:     Epoch.AddDate(1, 0, 0),
		KeyUsage:     x509.KeyUsageDigitalSignature,
		ExtKeyUsage:  []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		DNSNames:     dnsNames,
	}
}

// CATemplate returns a CA template for cn.
func CATemplate(cn string) *x509.Certificate {
	tmpl := Template(cn)
	tmpl.IsCA = true
	tmpl.BasicConstraintsValid = true
	tmpl.KeyUsage = x509.KeyUsageCertSign | x509.KeyUsageCRLSign
	tmpl.ExtKeyUsage = nil
	return tmpl
}

// SelfSigned creates a certificate from tmpl signed by its own new key.
func SelfSigned(t testing.TB, tmpl *x509.Certificate) *TestCert {
	t.Helper()
	key := newKey(t)
	return create(t, tmpl, tmpl, key, key)
}

// Issue creates a certificate from tmpl with a new key, signed by parent.
func Issue(t testing.TB, tmpl *x509.Certificate, parent *TestCert) *TestCert {
	t.Helper()
	return create(t, tmpl, parent.Cert, newKey(t), parent.Key)
}

// PEM concatenates the certificates as CERTIFICATE blocks.
func PEM(certs ...*TestCert) []byte {
	var out []byte
	for _, c := range certs {
		out = append(out, pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: c.DER})...)
	}
	return out
}

func create(t testing.TB, tmpl, parent *x509.Certificate, key, signer crypto.Signer) *TestCert {
	t.Helper()
	der, err := x509.CreateCertificate(rand.Reader, tmpl, parent, key.Public(), signer)
	if err != nil {
		t.Fatalf("failed to create certificate %q: %v", tmpl.Subject.CommonName, err)
	}
	cert, err := x509.ParseCertificate(der)
	if err != nil {
		t.Fatalf("failed to parse certificate %q: %v", tmpl.Subject.CommonName, err)
	}
	return &TestCert{DER: der, Cert: cert, Key: key}
}

func newKey(t testing.TB) crypto.Signer {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("failed to generate key: %v", err)
	}
	return key
}

func newSerialNumber() *big.Int {
	limit := new(big.Int).Lsh(big.NewInt(1), 64)
	n, err := rand.Int(rand.Reader, limit)
	if err != nil {
		return big.NewInt(1)
	}
	return n.Add(n, big.NewInt(1))
}
