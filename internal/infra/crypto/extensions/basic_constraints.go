package extensions

import (
	"encoding/asn1"
	"fmt"

	"golang.org/x/crypto/cryptobyte"
	cbasn1 "golang.org/x/crypto/cryptobyte/asn1"
	"reactor.de/certext/internal/domain"
	"reactor.de/certext/internal/infra/crypto/oid"
)

// NoCertPathLimit is the path length constraint of a CA without pathLenConstraint.
const NoCertPathLimit = 0xFFFFFFF0

// BasicConstraints implements the X.509 Basic Constraints extension (RFC 5280)
type BasicConstraints struct {
	base
	isCA      bool
	pathLimit int
}

// NewBasicConstraints returns the extension. The limit is ignored for non-CA certificates.
func NewBasicConstraints(isCA bool, pathLimit int) *BasicConstraints {
	if !isCA {
		pathLimit = 0
	}
	return &BasicConstraints{isCA: isCA, pathLimit: pathLimit}
}

func (e *BasicConstraints) OID() asn1.ObjectIdentifier { return oid.BasicConstraints }

func (e *BasicConstraints) Name() string { return oid.Name(oid.BasicConstraints) }

// ProfileName returns the extension name as used in YAML configuration
func (e *BasicConstraints) ProfileName() string { return "basic_constraints" }

// IsCA reports the cA flag.
func (e *BasicConstraints) IsCA() bool { return e.isCA }

// PathLimit returns the path length constraint. It fails for non-CA certificates.
func (e *BasicConstraints) PathLimit() (int, error) {
	if !e.isCA {
		return 0, fmt.Errorf("%w: basic constraints path limit is only defined for CA certificates", domain.ErrInvalidState)
	}
	return e.pathLimit, nil
}

func (e *BasicConstraints) Encode() ([]byte, error) {
	var b cryptobyte.Builder
	b.AddASN1(cbasn1.SEQUENCE, func(b *cryptobyte.Builder) {
		if !e.isCA {
			return
		}
		b.AddASN1Boolean(true)
		if e.pathLimit != NoCertPathLimit {
			b.AddASN1Int64(int64(e.pathLimit))
		}
	})
	return b.Bytes()
}

func (e *BasicConstraints) Decode(der []byte) error {
	input := cryptobyte.String(der)
	var seq cryptobyte.String
	if !input.ReadASN1(&seq, cbasn1.SEQUENCE) || !input.Empty() {
		return fmt.Errorf("%w: invalid basic constraints", domain.ErrDecoding)
	}

	isCA := false
	if seq.PeekASN1Tag(cbasn1.BOOLEAN) {
		if !seq.ReadASN1Boolean(&isCA) {
			return fmt.Errorf("%w: invalid basic constraints cA flag", domain.ErrDecoding)
		}
	}

	limit := int64(NoCertPathLimit)
	if seq.PeekASN1Tag(cbasn1.INTEGER) {
		if !seq.ReadASN1Integer(&limit) || limit < 0 || limit > NoCertPathLimit {
			return fmt.Errorf("%w: invalid basic constraints path length", domain.ErrDecoding)
		}
	}
	if !seq.Empty() {
		return fmt.Errorf("%w: trailing data in basic constraints", domain.ErrDecoding)
	}

	// A path limit on a non-CA is meaningless; normalize it away.
	if !isCA {
		limit = 0
	}
	e.isCA = isCA
	e.pathLimit = int(limit)
	return nil
}

func (e *BasicConstraints) ContentsTo(subject, _ *domain.AttributeStore) {
	subject.AddBool("X509v3.BasicConstraints.is_ca", e.isCA)
	subject.AddUint("X509v3.BasicConstraints.path_constraint", uint64(e.pathLimit))
}

func (e *BasicConstraints) Copy() (Extension, error) {
	c := *e
	return &c, nil
}

// ParseFromYAML parses the basic_constraints configuration from YAML
// Supported fields:
//
//	ca: true/false (default: false)
//	path_length: integer or null (default: null, no constraint)
func (e *BasicConstraints) ParseFromYAML(data map[string]interface{}) error {
	e.isCA = parseFieldAs(data, "ca", false)
	e.pathLimit = NoCertPathLimit

	if pathLength := parseFieldAsPtr[int](data, "path_length"); pathLength != nil {
		if !e.isCA {
			return fmt.Errorf("path_length requires ca: true")
		}
		if *pathLength < 0 {
			return fmt.Errorf("path_length must not be negative")
		}
		e.pathLimit = *pathLength
	}

	if !e.isCA {
		e.pathLimit = 0
	}
	return nil
}
