package domain

import "sort"

// CertificateStatus is a chain validation result code attached to one chain position.
type CertificateStatus int

const (
	StatusSignatureError CertificateStatus = iota + 1
	StatusCertNotYetValid
	StatusCertHasExpired
	StatusCertIssuerNotFound
	StatusCANotForCertIssuer
	StatusCertChainTooLong
	StatusExtInV1V2Cert
	StatusDuplicateCertExtension
	StatusUnknownCriticalExtension
	StatusDuplicateCertPolicy
	StatusNameConstraintError
)

var statusNames = map[CertificateStatus]string{
	StatusSignatureError:           "SIGNATURE_ERROR",
	StatusCertNotYetValid:          "CERT_NOT_YET_VALID",
	StatusCertHasExpired:           "CERT_HAS_EXPIRED",
	StatusCertIssuerNotFound:       "CERT_ISSUER_NOT_FOUND",
	StatusCANotForCertIssuer:       "CA_CERT_NOT_FOR_CERT_ISSUER",
	StatusCertChainTooLong:         "CERT_CHAIN_TOO_LONG",
	StatusExtInV1V2Cert:            "EXT_IN_V1_V2_CERT",
	StatusDuplicateCertExtension:   "DUPLICATE_CERT_EXTENSION",
	StatusUnknownCriticalExtension: "UNKNOWN_CRITICAL_EXTENSION",
	StatusDuplicateCertPolicy:      "DUPLICATE_CERT_POLICY",
	StatusNameConstraintError:      "NAME_CONSTRAINT_ERROR",
}

func (s CertificateStatus) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "UNKNOWN_STATUS"
}

// StatusSet is the set of status codes recorded for a single chain position.
type StatusSet map[CertificateStatus]struct{}

// Insert adds a code to the set.
func (s StatusSet) Insert(code CertificateStatus) {
	s[code] = struct{}{}
}

// Has reports whether the code is present.
func (s StatusSet) Has(code CertificateStatus) bool {
	_, ok := s[code]
	return ok
}

// Sorted returns the codes in ascending order.
func (s StatusSet) Sorted() []CertificateStatus {
	codes := make([]CertificateStatus, 0, len(s))
	for code := range s {
		codes = append(codes, code)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })
	return codes
}

// ChainStatus holds one StatusSet per chain position, index 0 being the leaf.
type ChainStatus []StatusSet

// NewChainStatus allocates an empty set for each of n positions.
func NewChainStatus(n int) ChainStatus {
	cs := make(ChainStatus, n)
	for i := range cs {
		cs[i] = StatusSet{}
	}
	return cs
}

// Insert records code at pos. Positions outside the chain are ignored.
func (cs ChainStatus) Insert(pos int, code CertificateStatus) {
	if pos < 0 || pos >= len(cs) {
		return
	}
	cs[pos].Insert(code)
}

// Clean reports whether no position carries any status.
func (cs ChainStatus) Clean() bool {
	for _, s := range cs {
		if len(s) > 0 {
			return false
		}
	}
	return true
}
