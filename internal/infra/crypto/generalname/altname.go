package generalname

import (
	"bytes"
	"encoding/asn1"
	"fmt"
	"net"

	"golang.org/x/crypto/cryptobyte"
	cbasn1 "golang.org/x/crypto/cryptobyte/asn1"
	"reactor.de/certext/internal/domain"
	"reactor.de/certext/internal/infra/crypto/oid"
	"reactor.de/certext/internal/infra/crypto/x500"
)

// OtherName is an otherName entry. Value holds the DER of the explicitly tagged value.
type OtherName struct {
	Type  asn1.ObjectIdentifier
	Value []byte
}

// AlternativeName is a decoded GeneralNames sequence as carried by the
// subject and issuer alternative name extensions.
type AlternativeName struct {
	Email      []string
	DNS        []string
	URI        []string
	IP         []net.IP
	DirNames   []x500.DN
	OtherNames []OtherName
}

// Empty reports whether no names are present.
func (a AlternativeName) Empty() bool {
	return len(a.Email) == 0 && len(a.DNS) == 0 && len(a.URI) == 0 &&
		len(a.IP) == 0 && len(a.DirNames) == 0 && len(a.OtherNames) == 0
}

// Clone returns a deep copy.
func (a AlternativeName) Clone() AlternativeName {
	out := AlternativeName{
		Email:    append([]string(nil), a.Email...),
		DNS:      append([]string(nil), a.DNS...),
		URI:      append([]string(nil), a.URI...),
		DirNames: append([]x500.DN(nil), a.DirNames...),
	}
	for _, ip := range a.IP {
		out.IP = append(out.IP, append(net.IP(nil), ip...))
	}
	for _, on := range a.OtherNames {
		out.OtherNames = append(out.OtherNames, OtherName{Type: oid.Clone(on.Type), Value: append([]byte(nil), on.Value...)})
	}
	return out
}

// Equal compares all name lists in order.
func (a AlternativeName) Equal(o AlternativeName) bool {
	if !equalStrings(a.Email, o.Email) || !equalStrings(a.DNS, o.DNS) || !equalStrings(a.URI, o.URI) {
		return false
	}
	if len(a.IP) != len(o.IP) || len(a.DirNames) != len(o.DirNames) || len(a.OtherNames) != len(o.OtherNames) {
		return false
	}
	for i := range a.IP {
		if !a.IP[i].Equal(o.IP[i]) {
			return false
		}
	}
	for i := range a.DirNames {
		if !a.DirNames[i].Equal(o.DirNames[i]) {
			return false
		}
	}
	for i := range a.OtherNames {
		if !a.OtherNames[i].Type.Equal(o.OtherNames[i].Type) || !bytes.Equal(a.OtherNames[i].Value, o.OtherNames[i].Value) {
			return false
		}
	}
	return true
}

// Decode parses a GeneralNames SEQUENCE (with its header).
func (a *AlternativeName) Decode(der []byte) error {
	input := cryptobyte.String(der)
	var seq cryptobyte.String
	if !input.ReadASN1(&seq, cbasn1.SEQUENCE) || !input.Empty() {
		return fmt.Errorf("%w: invalid GeneralNames", domain.ErrDecoding)
	}
	return a.decodeNames(seq)
}

// ReadNames fills a from the GeneralName elements in s, which must hold nothing else.
func (a *AlternativeName) ReadNames(s cryptobyte.String) error {
	return a.decodeNames(s)
}

func (a *AlternativeName) decodeNames(seq cryptobyte.String) error {
	*a = AlternativeName{}
	for !seq.Empty() {
		var content cryptobyte.String
		var tag cbasn1.Tag
		if !seq.ReadAnyASN1(&content, &tag) {
			return fmt.Errorf("%w: invalid GeneralName", domain.ErrDecoding)
		}

		switch tag {
		case tagFor(TypeOther, true):
			var on OtherName
			var value cryptobyte.String
			if !content.ReadASN1ObjectIdentifier(&on.Type) ||
				!content.ReadASN1Element(&value, cbasn1.Tag(0).ContextSpecific().Constructed()) ||
				!content.Empty() {
				return fmt.Errorf("%w: invalid otherName", domain.ErrDecoding)
			}
			var inner cryptobyte.String
			if !value.ReadASN1(&inner, cbasn1.Tag(0).ContextSpecific().Constructed()) {
				return fmt.Errorf("%w: invalid otherName value", domain.ErrDecoding)
			}
			on.Value = append([]byte(nil), inner...)
			a.OtherNames = append(a.OtherNames, on)
		case tagFor(TypeRFC822, false):
			if err := checkIA5(content); err != nil {
				return err
			}
			a.Email = append(a.Email, string(content))
		case tagFor(TypeDNS, false):
			if err := checkIA5(content); err != nil {
				return err
			}
			a.DNS = append(a.DNS, string(content))
		case tagFor(TypeURI, false):
			if err := checkIA5(content); err != nil {
				return err
			}
			a.URI = append(a.URI, string(content))
		case tagFor(TypeIP, false):
			if len(content) != net.IPv4len && len(content) != net.IPv6len {
				return fmt.Errorf("%w: invalid IP address length %d", domain.ErrDecoding, len(content))
			}
			a.IP = append(a.IP, net.IP(append([]byte(nil), content...)))
		case tagFor(TypeDN, true):
			dn, err := x500.Parse(content)
			if err != nil {
				return err
			}
			a.DirNames = append(a.DirNames, dn)
		default:
			// x400Address, ediPartyName and registeredID are skipped.
		}
	}
	return nil
}

// Encode returns the DER GeneralNames SEQUENCE.
func (a AlternativeName) Encode() ([]byte, error) {
	var b cryptobyte.Builder
	b.AddASN1(cbasn1.SEQUENCE, func(b *cryptobyte.Builder) {
		a.MarshalNames(b)
	})
	return b.Bytes()
}

// MarshalNames appends each GeneralName element, without an enclosing SEQUENCE.
func (a AlternativeName) MarshalNames(b *cryptobyte.Builder) {
	for _, e := range a.Email {
		addString(b, TypeRFC822, e)
	}
	for _, d := range a.DNS {
		addString(b, TypeDNS, d)
	}
	for _, u := range a.URI {
		addString(b, TypeURI, u)
	}
	for _, ip := range a.IP {
		raw := ip
		if v4 := ip.To4(); v4 != nil {
			raw = v4
		}
		b.AddASN1(tagFor(TypeIP, false), func(b *cryptobyte.Builder) {
			b.AddBytes(raw)
		})
	}
	for _, on := range a.OtherNames {
		b.AddASN1(tagFor(TypeOther, true), func(b *cryptobyte.Builder) {
			b.AddASN1ObjectIdentifier(on.Type)
			b.AddASN1(cbasn1.Tag(0).ContextSpecific().Constructed(), func(b *cryptobyte.Builder) {
				b.AddBytes(on.Value)
			})
		})
	}
	for _, dn := range a.DirNames {
		b.AddASN1(tagFor(TypeDN, true), func(b *cryptobyte.Builder) {
			dn.Marshal(b)
		})
	}
}

// ContentsTo writes the names into store keyed by form.
func (a AlternativeName) ContentsTo(store *domain.AttributeStore) {
	store.AddAll("RFC822", a.Email)
	store.AddAll("DNS", a.DNS)
	store.AddAll("URI", a.URI)
	for _, ip := range a.IP {
		store.Add("IP", ip.String())
	}
	for _, dn := range a.DirNames {
		store.Add("DN", dn.String())
	}
	for _, on := range a.OtherNames {
		store.AddBytes(oid.Name(on.Type), on.Value)
	}
}

func addString(b *cryptobyte.Builder, t Type, s string) {
	b.AddASN1(tagFor(t, false), func(b *cryptobyte.Builder) {
		b.AddBytes([]byte(s))
	})
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
