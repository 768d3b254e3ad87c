package domain

import (
	"crypto"
	"fmt"
)

// HashAlgorithm names a hash function the way HashProvider expects it.
type HashAlgorithm string

const (
	SHA1       HashAlgorithm = "SHA-1"
	SHA224     HashAlgorithm = "SHA-224"
	SHA256     HashAlgorithm = "SHA-256"
	SHA384     HashAlgorithm = "SHA-384"
	SHA512     HashAlgorithm = "SHA-512"
	SHA3_256   HashAlgorithm = "SHA3-256"
	SHA3_512   HashAlgorithm = "SHA3-512"
	BLAKE2b256 HashAlgorithm = "BLAKE2b(256)"
)

// ToCryptoHash converts a domain HashAlgorithm to a crypto.Hash.
func (h HashAlgorithm) ToCryptoHash() (crypto.Hash, error) {
	switch h {
	case SHA1:
		return crypto.SHA1, nil
	case SHA224:
		return crypto.SHA224, nil
	case SHA256:
		return crypto.SHA256, nil
	case SHA384:
		return crypto.SHA384, nil
	case SHA512:
		return crypto.SHA512, nil
	case SHA3_256:
		return crypto.SHA3_256, nil
	case SHA3_512:
		return crypto.SHA3_512, nil
	case BLAKE2b256:
		return crypto.BLAKE2b_256, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownHash, string(h))
	}
}
