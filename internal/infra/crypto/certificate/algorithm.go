package certificate

import (
	"bytes"
	"encoding/asn1"
	"fmt"

	"golang.org/x/crypto/cryptobyte"
	cbasn1 "golang.org/x/crypto/cryptobyte/asn1"
	"reactor.de/certext/internal/domain"
	"reactor.de/certext/internal/infra/crypto/oid"
)

var asn1Null = []byte{0x05, 0x00}

// AlgorithmIdentifier is an algorithm OID with its optional parameters.
type AlgorithmIdentifier struct {
	OID asn1.ObjectIdentifier
	// Parameters is the complete DER element of the parameters, nil when absent.
	Parameters []byte
}

func readAlgorithmIdentifier(s *cryptobyte.String) (AlgorithmIdentifier, error) {
	var seq cryptobyte.String
	if !s.ReadASN1(&seq, cbasn1.SEQUENCE) {
		return AlgorithmIdentifier{}, fmt.Errorf("%w: invalid AlgorithmIdentifier", domain.ErrDecoding)
	}
	var alg AlgorithmIdentifier
	if !seq.ReadASN1ObjectIdentifier(&alg.OID) {
		return AlgorithmIdentifier{}, fmt.Errorf("%w: invalid algorithm OID", domain.ErrDecoding)
	}
	if !seq.Empty() {
		var params cryptobyte.String
		var tag cbasn1.Tag
		if !seq.ReadAnyASN1Element(&params, &tag) || !seq.Empty() {
			return AlgorithmIdentifier{}, fmt.Errorf("%w: invalid parameters for algorithm %s", domain.ErrDecoding, alg.OID)
		}
		alg.Parameters = append([]byte(nil), params...)
	}
	return alg, nil
}

// Name returns the registered name of the algorithm, or its dotted form.
func (a AlgorithmIdentifier) Name() string {
	return oid.Name(a.OID)
}

// HasNullParameters reports whether the parameters are an explicit NULL.
func (a AlgorithmIdentifier) HasNullParameters() bool {
	return bytes.Equal(a.Parameters, asn1Null)
}

func (a AlgorithmIdentifier) nullOrEmpty() bool {
	return len(a.Parameters) == 0 || a.HasNullParameters()
}

// Equal compares OIDs and parameters. Absent parameters and an explicit
// NULL are treated as the same.
func (a AlgorithmIdentifier) Equal(o AlgorithmIdentifier) bool {
	if !a.OID.Equal(o.OID) {
		return false
	}
	if a.nullOrEmpty() && o.nullOrEmpty() {
		return true
	}
	return bytes.Equal(a.Parameters, o.Parameters)
}

// Marshal appends the DER AlgorithmIdentifier to b.
func (a AlgorithmIdentifier) Marshal(b *cryptobyte.Builder) {
	b.AddASN1(cbasn1.SEQUENCE, func(b *cryptobyte.Builder) {
		b.AddASN1ObjectIdentifier(a.OID)
		if a.Parameters != nil {
			b.AddBytes(a.Parameters)
		}
	})
}

// checkPublicKeyAlgorithm applies the RFC 4055 rules for RSA keys. sig is
// the signature algorithm of the certificate carrying the key.
func checkPublicKeyAlgorithm(key, sig AlgorithmIdentifier) error {
	switch {
	case key.OID.Equal(oid.RSASSAPSS):
		if !key.Equal(sig) {
			return fmt.Errorf("%w: RSASSA-PSS key parameters do not match the signature algorithm", domain.ErrDecoding)
		}
	case key.OID.Equal(oid.RSAESOAEP):
		return fmt.Errorf("%w: RSAES-OAEP public keys are not supported", domain.ErrDecoding)
	case key.OID.Equal(oid.RSAEncryption):
		if !key.HasNullParameters() {
			return fmt.Errorf("%w: RSA algorithm parameters field must contain NULL", domain.ErrDecoding)
		}
	}
	return nil
}
