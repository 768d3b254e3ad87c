package generalname

import (
	"fmt"

	"golang.org/x/crypto/cryptobyte"
	cbasn1 "golang.org/x/crypto/cryptobyte/asn1"
	"reactor.de/certext/internal/domain"
)

// Unbounded marks a GeneralSubtree without a maximum.
const Unbounded = -1

// Subtree is a GeneralSubtree. Maximum is Unbounded when the field is absent.
type Subtree struct {
	Base    GeneralName
	Minimum int
	Maximum int
}

// NewSubtree wraps base with the default bounds.
func NewSubtree(base GeneralName) Subtree {
	return Subtree{Base: base, Maximum: Unbounded}
}

func (s Subtree) String() string {
	return fmt.Sprintf("%d,%d,%s", s.Minimum, s.Maximum, s.Base)
}

// ReadSubtree consumes one GeneralSubtree SEQUENCE from in.
func ReadSubtree(in *cryptobyte.String) (Subtree, error) {
	var seq cryptobyte.String
	if !in.ReadASN1(&seq, cbasn1.SEQUENCE) {
		return Subtree{}, fmt.Errorf("%w: invalid GeneralSubtree", domain.ErrDecoding)
	}
	base, err := ReadConstraintName(&seq)
	if err != nil {
		return Subtree{}, err
	}
	out := NewSubtree(base)

	if out.Minimum, _, err = readBound(&seq, 0); err != nil {
		return Subtree{}, err
	}
	maximum, present, err := readBound(&seq, 1)
	if err != nil {
		return Subtree{}, err
	}
	if present {
		if maximum < out.Minimum {
			return Subtree{}, fmt.Errorf("%w: GeneralSubtree maximum below minimum", domain.ErrDecoding)
		}
		out.Maximum = maximum
	}
	if !seq.Empty() {
		return Subtree{}, fmt.Errorf("%w: trailing data in GeneralSubtree", domain.ErrDecoding)
	}
	return out, nil
}

// readBound reads an optional IMPLICIT [n] BaseDistance. The content octets
// are those of a non-negative INTEGER.
func readBound(seq *cryptobyte.String, n int) (int, bool, error) {
	var content cryptobyte.String
	var present bool
	if !seq.ReadOptionalASN1(&content, &present, cbasn1.Tag(n).ContextSpecific()) {
		return 0, false, fmt.Errorf("%w: invalid GeneralSubtree bound", domain.ErrDecoding)
	}
	if !present {
		return 0, false, nil
	}
	var b cryptobyte.Builder
	b.AddASN1(cbasn1.INTEGER, func(b *cryptobyte.Builder) { b.AddBytes(content) })
	der, err := b.Bytes()
	if err != nil {
		return 0, false, fmt.Errorf("%w: invalid GeneralSubtree bound", domain.ErrDecoding)
	}
	integer := cryptobyte.String(der)
	var v int64
	if !integer.ReadASN1Integer(&v) || v < 0 || v > int64(^uint32(0)>>1) {
		return 0, false, fmt.Errorf("%w: invalid GeneralSubtree bound", domain.ErrDecoding)
	}
	return int(v), true, nil
}

// Marshal appends the GeneralSubtree. Default bounds are omitted.
func (s Subtree) Marshal(b *cryptobyte.Builder) {
	b.AddASN1(cbasn1.SEQUENCE, func(b *cryptobyte.Builder) {
		s.Base.Marshal(b)
		if s.Minimum > 0 {
			addBound(b, 0, s.Minimum)
		}
		if s.Maximum >= 0 {
			addBound(b, 1, s.Maximum)
		}
	})
}

func addBound(b *cryptobyte.Builder, n, v int) {
	var inner cryptobyte.Builder
	inner.AddASN1Int64(int64(v))
	der := inner.BytesOrPanic()
	// Drop the INTEGER tag and length; values here are below 128 octets.
	b.AddASN1(cbasn1.Tag(n).ContextSpecific(), func(b *cryptobyte.Builder) { b.AddBytes(der[2:]) })
}
