package certificate

import (
	"crypto/x509"
	"fmt"

	"reactor.de/certext/internal/domain"
)

// verifiesItself reports whether der is signed by its own public key. Any
// error, including an unsupported signature algorithm, yields false.
func verifiesItself(der []byte) bool {
	cert, err := x509.ParseCertificate(der)
	if err != nil {
		return false
	}
	return cert.CheckSignature(cert.SignatureAlgorithm, cert.RawTBSCertificate, cert.Signature) == nil
}

// CheckSignatureFrom verifies the signature of r with the public key of parent.
func (r *Record) CheckSignatureFrom(parent *Record) error {
	child, err := x509.ParseCertificate(r.der)
	if err != nil {
		return fmt.Errorf("%w: loading certificate: %v", domain.ErrDecoding, err)
	}
	issuer, err := x509.ParseCertificate(parent.der)
	if err != nil {
		return fmt.Errorf("%w: loading issuer public key: %v", domain.ErrDecoding, err)
	}
	if err := issuer.CheckSignature(child.SignatureAlgorithm, child.RawTBSCertificate, child.Signature); err != nil {
		return fmt.Errorf("signature of %s: %w", r.subject, err)
	}
	return nil
}
