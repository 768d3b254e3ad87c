// Package x500 decodes, compares, and encodes X.500 distinguished names.
package x500

import (
	"encoding/asn1"
	"fmt"
	"strings"

	"golang.org/x/crypto/cryptobyte"
	cbasn1 "golang.org/x/crypto/cryptobyte/asn1"
	"reactor.de/certext/internal/domain"
	"reactor.de/certext/internal/infra/crypto/oid"
)

// Attribute is one AttributeTypeAndValue of a name.
type Attribute struct {
	Type  asn1.ObjectIdentifier
	Value string
	Tag   cbasn1.Tag
}

// DN is a decoded RDNSequence. The zero value is the empty name.
type DN struct {
	rdns [][]Attribute
	raw  []byte
}

// Parse decodes a DER Name, including its outer SEQUENCE header.
func Parse(der []byte) (DN, error) {
	input := cryptobyte.String(der)
	var full cryptobyte.String
	if !input.ReadASN1Element(&full, cbasn1.SEQUENCE) || !input.Empty() {
		return DN{}, fmt.Errorf("%w: invalid RDNSequence", domain.ErrDecoding)
	}
	return parseElement(full)
}

// ReadFrom consumes one Name element from s.
func ReadFrom(s *cryptobyte.String) (DN, error) {
	var full cryptobyte.String
	if !s.ReadASN1Element(&full, cbasn1.SEQUENCE) {
		return DN{}, fmt.Errorf("%w: invalid RDNSequence", domain.ErrDecoding)
	}
	return parseElement(full)
}

func parseElement(full cryptobyte.String) (DN, error) {
	dn := DN{raw: append([]byte(nil), full...)}

	var inner cryptobyte.String
	if !full.ReadASN1(&inner, cbasn1.SEQUENCE) {
		return DN{}, fmt.Errorf("%w: invalid RDNSequence", domain.ErrDecoding)
	}
	for !inner.Empty() {
		var set cryptobyte.String
		if !inner.ReadASN1(&set, cbasn1.SET) {
			return DN{}, fmt.Errorf("%w: invalid RelativeDistinguishedName", domain.ErrDecoding)
		}
		var rdn []Attribute
		for !set.Empty() {
			var atav cryptobyte.String
			if !set.ReadASN1(&atav, cbasn1.SEQUENCE) {
				return DN{}, fmt.Errorf("%w: invalid AttributeTypeAndValue", domain.ErrDecoding)
			}
			var attr Attribute
			if !atav.ReadASN1ObjectIdentifier(&attr.Type) {
				return DN{}, fmt.Errorf("%w: invalid attribute type", domain.ErrDecoding)
			}
			var value cryptobyte.String
			if !atav.ReadAnyASN1(&value, &attr.Tag) || !atav.Empty() {
				return DN{}, fmt.Errorf("%w: invalid attribute value for %s", domain.ErrDecoding, attr.Type)
			}
			s, err := decodeString(attr.Tag, value)
			if err != nil {
				return DN{}, fmt.Errorf("%w: %s: %v", domain.ErrDecoding, oid.Name(attr.Type), err)
			}
			attr.Value = s
			rdn = append(rdn, attr)
		}
		if len(rdn) == 0 {
			return DN{}, fmt.Errorf("%w: empty RelativeDistinguishedName", domain.ErrDecoding)
		}
		dn.rdns = append(dn.rdns, rdn)
	}
	return dn, nil
}

// New builds a name with one attribute per RDN.
func New(attrs ...Attribute) DN {
	var dn DN
	for _, a := range attrs {
		if a.Tag == 0 {
			a.Tag = defaultTag(a.Type, a.Value)
		}
		a.Type = oid.Clone(a.Type)
		dn.rdns = append(dn.rdns, []Attribute{a})
	}
	return dn
}

// Empty reports whether the name has no attributes.
func (d DN) Empty() bool {
	return len(d.rdns) == 0
}

// Raw returns the DER encoding of the name.
func (d DN) Raw() []byte {
	if d.raw != nil {
		return append([]byte(nil), d.raw...)
	}
	var b cryptobyte.Builder
	d.Marshal(&b)
	out, err := b.Bytes()
	if err != nil {
		return nil
	}
	return out
}

// Attributes returns every attribute in encoding order.
func (d DN) Attributes() []Attribute {
	var out []Attribute
	for _, rdn := range d.rdns {
		out = append(out, rdn...)
	}
	return out
}

// Get returns all values of the given attribute type.
func (d DN) Get(t asn1.ObjectIdentifier) []string {
	var out []string
	for _, rdn := range d.rdns {
		for _, a := range rdn {
			if a.Type.Equal(t) {
				out = append(out, a.Value)
			}
		}
	}
	return out
}

// CommonNames returns the CN attribute values.
func (d DN) CommonNames() []string {
	return d.Get(oid.CommonName)
}

// Equal compares names attribute by attribute. Values are compared
// case-insensitively with runs of whitespace collapsed.
func (d DN) Equal(o DN) bool {
	a, b := d.Attributes(), o.Attributes()
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Type.Equal(b[i].Type) || normalize(a[i].Value) != normalize(b[i].Value) {
			return false
		}
	}
	return true
}

// ContainsAll reports whether every attribute of c also appears in d with the
// same normalized value. At least one attribute type of c must be present in d.
func (d DN) ContainsAll(c DN) bool {
	matched := false
	for _, want := range c.Attributes() {
		values := d.Get(want.Type)
		if len(values) == 0 {
			continue
		}
		matched = true
		if normalize(values[0]) != normalize(want.Value) {
			return false
		}
	}
	return matched
}

// ContentsTo writes every attribute under its registered name.
func (d DN) ContentsTo(store *domain.AttributeStore) {
	for _, a := range d.Attributes() {
		store.Add(oid.Name(a.Type), a.Value)
	}
}

func (d DN) String() string {
	parts := make([]string, 0, len(d.rdns))
	for _, rdn := range d.rdns {
		elems := make([]string, 0, len(rdn))
		for _, a := range rdn {
			elems = append(elems, shortName(a.Type)+"="+escape(a.Value))
		}
		parts = append(parts, strings.Join(elems, "+"))
	}
	return strings.Join(parts, ",")
}

// Marshal appends the DER encoding of the name to b.
func (d DN) Marshal(b *cryptobyte.Builder) {
	if d.raw != nil {
		b.AddBytes(d.raw)
		return
	}
	b.AddASN1(cbasn1.SEQUENCE, func(b *cryptobyte.Builder) {
		for _, rdn := range d.rdns {
			b.AddASN1(cbasn1.SET, func(b *cryptobyte.Builder) {
				for _, a := range rdn {
					b.AddASN1(cbasn1.SEQUENCE, func(b *cryptobyte.Builder) {
						b.AddASN1ObjectIdentifier(a.Type)
						b.AddASN1(a.Tag, func(b *cryptobyte.Builder) {
							b.AddBytes(encodeString(a.Tag, a.Value))
						})
					})
				}
			})
		}
	})
}

func normalize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

func escape(s string) string {
	var sb strings.Builder
	for i, r := range s {
		switch r {
		case ',', '+', '"', '\\', '<', '>', ';', '=':
			sb.WriteByte('\\')
		case '#':
			if i == 0 {
				sb.WriteByte('\\')
			}
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
