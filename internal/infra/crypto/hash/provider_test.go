//go:build !integration && !e2e

package hash

import (
	"encoding/hex"
	"errors"
	"testing"

	"reactor.de/certext/internal/domain"
)

func TestProvider_Sum(t *testing.T) {
	p := NewProvider()

	tests := []struct {
		name string
		algo domain.HashAlgorithm
		want string
	}{
		{"SHA-1", domain.SHA1, "a9993e364706816aba3e25717850c26c9cd0d89d"},
		{"SHA-256", domain.SHA256, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"},
		{"SHA3-256", domain.SHA3_256, "3a985da74fe225b2045c172d6bd390bd855f086e3e9d525b46bfe24511431532"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sum, err := Sum(p, string(tt.algo), []byte("abc"))
			if err != nil {
				t.Fatalf("Sum() unexpected error: %v", err)
			}
			if got := hex.EncodeToString(sum); got != tt.want {
				t.Errorf("Sum() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestProvider_Lengths(t *testing.T) {
	p := NewProvider()
	for _, name := range p.Names() {
		h, err := p.New(name)
		if err != nil {
			t.Fatalf("New(%s) unexpected error: %v", name, err)
		}
		if h.Size() < 20 {
			t.Errorf("%s size = %d", name, h.Size())
		}
	}
	if h, _ := p.New(string(domain.BLAKE2b256)); h.Size() != 32 {
		t.Errorf("BLAKE2b(256) size = %d, want 32", h.Size())
	}
}

func TestProvider_Unknown(t *testing.T) {
	p := NewProvider().Without(domain.SHA1)

	if p.Available(string(domain.SHA1)) {
		t.Error("SHA-1 should be disabled")
	}
	if _, err := p.New(string(domain.SHA1)); !errors.Is(err, domain.ErrUnknownHash) {
		t.Errorf("New(SHA-1) error = %v, want ErrUnknownHash", err)
	}
	if _, err := p.New("MD5"); !errors.Is(err, domain.ErrUnknownHash) {
		t.Errorf("New(MD5) error = %v, want ErrUnknownHash", err)
	}
	if !NewProvider().Available(string(domain.SHA1)) {
		t.Error("Without must not modify the original provider")
	}
}
