// Package generalname implements the GeneralName forms used by alternative
// names and name constraints.
package generalname

import (
	"bytes"
	"fmt"
	"net"
	"strings"

	"golang.org/x/crypto/cryptobyte"
	cbasn1 "golang.org/x/crypto/cryptobyte/asn1"
	"reactor.de/certext/internal/domain"
	"reactor.de/certext/internal/infra/crypto/x500"
)

// Type is the context tag number of a GeneralName choice.
type Type int

const (
	TypeOther        Type = 0
	TypeRFC822       Type = 1
	TypeDNS          Type = 2
	TypeX400         Type = 3
	TypeDN           Type = 4
	TypeEDIParty     Type = 5
	TypeURI          Type = 6
	TypeIP           Type = 7
	TypeRegisteredID Type = 8
)

func (t Type) String() string {
	switch t {
	case TypeOther:
		return "OTHER"
	case TypeRFC822:
		return "RFC822"
	case TypeDNS:
		return "DNS"
	case TypeX400:
		return "X400"
	case TypeDN:
		return "DN"
	case TypeEDIParty:
		return "EDI"
	case TypeURI:
		return "URI"
	case TypeIP:
		return "IP"
	case TypeRegisteredID:
		return "RID"
	default:
		return fmt.Sprintf("TYPE%d", int(t))
	}
}

// GeneralName is the base name of a constraint subtree. IP names carry an
// address and mask. Forms that cannot be matched keep their raw encoding.
type GeneralName struct {
	typ  Type
	name string
	dn   x500.DN
	ip   *net.IPNet
	raw  []byte
}

func tagFor(t Type, constructed bool) cbasn1.Tag {
	tag := cbasn1.Tag(t).ContextSpecific()
	if constructed {
		tag = tag.Constructed()
	}
	return tag
}

// DNS returns a dNSName constraint.
func DNS(name string) GeneralName {
	return GeneralName{typ: TypeDNS, name: name}
}

// RFC822 returns an rfc822Name constraint.
func RFC822(name string) GeneralName {
	return GeneralName{typ: TypeRFC822, name: name}
}

// URI returns a uniformResourceIdentifier constraint (a host or .domain).
func URI(name string) GeneralName {
	return GeneralName{typ: TypeURI, name: name}
}

// DirectoryName returns a directoryName constraint.
func DirectoryName(dn x500.DN) GeneralName {
	return GeneralName{typ: TypeDN, name: dn.String(), dn: dn}
}

// IPNet returns an iPAddress constraint for the given network.
func IPNet(n *net.IPNet) GeneralName {
	ipn := &net.IPNet{IP: n.IP, Mask: n.Mask}
	if v4 := n.IP.To4(); v4 != nil && len(n.Mask) == net.IPv4len {
		ipn.IP = v4
	}
	return GeneralName{typ: TypeIP, name: ipn.String(), ip: ipn}
}

// ParseCIDR builds an iPAddress constraint from "10.0.0.0/8" notation.
func ParseCIDR(s string) (GeneralName, error) {
	_, n, err := net.ParseCIDR(s)
	if err != nil {
		return GeneralName{}, fmt.Errorf("%w: %v", domain.ErrInvalidArgument, err)
	}
	return IPNet(n), nil
}

// Type returns the name form.
func (g GeneralName) Type() Type { return g.typ }

// Name returns the textual value of the name.
func (g GeneralName) Name() string { return g.name }

// Network returns the address and mask of an IP name, or nil.
func (g GeneralName) Network() *net.IPNet { return g.ip }

// DirName returns the directory name of a DN constraint.
func (g GeneralName) DirName() x500.DN { return g.dn }

func (g GeneralName) String() string {
	return g.typ.String() + ":" + g.name
}

// Equal compares type and value.
func (g GeneralName) Equal(o GeneralName) bool {
	if g.typ != o.typ {
		return false
	}
	switch g.typ {
	case TypeDN:
		return g.dn.Equal(o.dn)
	case TypeIP:
		return g.ip.IP.Equal(o.ip.IP) && bytes.Equal(g.ip.Mask, o.ip.Mask)
	case TypeDNS, TypeRFC822, TypeURI:
		return strings.EqualFold(g.name, o.name)
	default:
		return bytes.Equal(g.raw, o.raw)
	}
}

// ReadConstraintName consumes one GeneralName element in the form used by
// name constraint subtrees.
func ReadConstraintName(s *cryptobyte.String) (GeneralName, error) {
	var element cryptobyte.String
	var tag cbasn1.Tag
	if !s.ReadAnyASN1Element(&element, &tag) {
		return GeneralName{}, fmt.Errorf("%w: invalid GeneralName", domain.ErrDecoding)
	}
	raw := append([]byte(nil), element...)

	var content cryptobyte.String
	if !element.ReadAnyASN1(&content, &tag) {
		return GeneralName{}, fmt.Errorf("%w: invalid GeneralName", domain.ErrDecoding)
	}
	if tag&0xc0 != 0x80 {
		return GeneralName{}, fmt.Errorf("%w: GeneralName must be context specific, got tag %#x", domain.ErrDecoding, uint8(tag))
	}

	switch tag {
	case tagFor(TypeRFC822, false):
		return GeneralName{typ: TypeRFC822, name: string(content)}, checkIA5(content)
	case tagFor(TypeDNS, false):
		return GeneralName{typ: TypeDNS, name: string(content)}, checkIA5(content)
	case tagFor(TypeURI, false):
		return GeneralName{typ: TypeURI, name: string(content)}, checkIA5(content)
	case tagFor(TypeDN, true):
		dn, err := x500.Parse(content)
		if err != nil {
			return GeneralName{}, err
		}
		return GeneralName{typ: TypeDN, name: dn.String(), dn: dn}, nil
	case tagFor(TypeIP, false):
		if len(content) != 2*net.IPv4len && len(content) != 2*net.IPv6len {
			return GeneralName{}, fmt.Errorf("%w: invalid IP name constraint size %d", domain.ErrDecoding, len(content))
		}
		half := len(content) / 2
		mask := net.IPMask(append([]byte(nil), content[half:]...))
		if ones, bits := mask.Size(); ones == 0 && bits == 0 {
			return GeneralName{}, fmt.Errorf("%w: non-contiguous IP name constraint mask", domain.ErrDecoding)
		}
		ipn := &net.IPNet{IP: net.IP(append([]byte(nil), content[:half]...)), Mask: mask}
		return GeneralName{typ: TypeIP, name: ipn.String(), ip: ipn}, nil
	default:
		t := Type(tag & 0x1f)
		return GeneralName{typ: t, name: fmt.Sprintf("%X", raw), raw: raw}, nil
	}
}

// Marshal appends the constraint form of g to b.
func (g GeneralName) Marshal(b *cryptobyte.Builder) {
	switch g.typ {
	case TypeRFC822, TypeDNS, TypeURI:
		b.AddASN1(tagFor(g.typ, false), func(b *cryptobyte.Builder) {
			b.AddBytes([]byte(g.name))
		})
	case TypeDN:
		b.AddASN1(tagFor(TypeDN, true), func(b *cryptobyte.Builder) {
			g.dn.Marshal(b)
		})
	case TypeIP:
		b.AddASN1(tagFor(TypeIP, false), func(b *cryptobyte.Builder) {
			b.AddBytes(g.ip.IP)
			b.AddBytes(g.ip.Mask)
		})
	default:
		if g.raw == nil {
			b.SetError(fmt.Errorf("%w: cannot encode GeneralName of type %s", domain.ErrEncoding, g.typ))
			return
		}
		b.AddBytes(g.raw)
	}
}

func checkIA5(s []byte) error {
	for _, c := range s {
		if c > 0x7f {
			return fmt.Errorf("%w: GeneralName is not an IA5String", domain.ErrDecoding)
		}
	}
	return nil
}
