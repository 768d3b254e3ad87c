// Package hash resolves hash functions by algorithm name.
package hash

import (
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"fmt"
	gohash "hash"
	"sort"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"
	"reactor.de/certext/internal/domain"
)

// Provider implements domain.HashProvider.
type Provider struct {
	constructors map[domain.HashAlgorithm]func() gohash.Hash
}

// NewProvider returns a provider with every supported algorithm enabled.
func NewProvider() *Provider {
	return &Provider{
		constructors: map[domain.HashAlgorithm]func() gohash.Hash{
			domain.SHA1:     sha1.New,
			domain.SHA224:   sha256.New224,
			domain.SHA256:   sha256.New,
			domain.SHA384:   sha512.New384,
			domain.SHA512:   sha512.New,
			domain.SHA3_256: sha3.New256,
			domain.SHA3_512: sha3.New512,
			domain.BLAKE2b256: func() gohash.Hash {
				h, _ := blake2b.New256(nil) // only fails for oversized keys
				return h
			},
		},
	}
}

// Without returns a copy of p with the named algorithms disabled.
func (p *Provider) Without(names ...domain.HashAlgorithm) *Provider {
	out := &Provider{constructors: make(map[domain.HashAlgorithm]func() gohash.Hash, len(p.constructors))}
	for k, v := range p.constructors {
		out.constructors[k] = v
	}
	for _, n := range names {
		delete(out.constructors, n)
	}
	return out
}

// New returns a fresh hash for name.
func (p *Provider) New(name string) (gohash.Hash, error) {
	ctor, ok := p.constructors[domain.HashAlgorithm(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownHash, name)
	}
	return ctor(), nil
}

// Available reports whether name can be constructed.
func (p *Provider) Available(name string) bool {
	_, ok := p.constructors[domain.HashAlgorithm(name)]
	return ok
}

// Names lists the enabled algorithms in sorted order.
func (p *Provider) Names() []string {
	names := make([]string, 0, len(p.constructors))
	for n := range p.constructors {
		names = append(names, string(n))
	}
	sort.Strings(names)
	return names
}

// Sum hashes data with the named algorithm.
func Sum(p domain.HashProvider, name string, data []byte) ([]byte, error) {
	h, err := p.New(name)
	if err != nil {
		return nil, err
	}
	h.Write(data)
	return h.Sum(nil), nil
}
