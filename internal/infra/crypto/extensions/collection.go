package extensions

import (
	"encoding/asn1"
	"fmt"

	"golang.org/x/crypto/cryptobyte"
	cbasn1 "golang.org/x/crypto/cryptobyte/asn1"
	"reactor.de/certext/internal/domain"
	"reactor.de/certext/internal/infra/crypto/oid"
)

type entry struct {
	ext      Extension
	critical bool
	raw      []byte
}

// Entry is a copied extension together with its criticality.
type Entry struct {
	Extension Extension
	Critical  bool
}

// RawEntry is the stored extnValue of an extension.
type RawEntry struct {
	OID      asn1.ObjectIdentifier
	Value    []byte
	Critical bool
}

// Extensions is an ordered set of extensions keyed by OID. Each entry keeps
// the raw bytes it was decoded from or encoded to, and readers always get
// copies of the stored values.
type Extensions struct {
	registry   *Registry
	order      []asn1.ObjectIdentifier
	entries    map[string]*entry
	duplicates []asn1.ObjectIdentifier
}

// NewExtensions returns an empty collection decoding with the default registry.
func NewExtensions() *Extensions {
	return NewExtensionsWithRegistry(DefaultRegistry())
}

// NewExtensionsWithRegistry returns an empty collection decoding with r.
func NewExtensionsWithRegistry(r *Registry) *Extensions {
	return &Extensions{registry: r, entries: make(map[string]*entry)}
}

func (x *Extensions) insert(ext Extension, critical bool) error {
	raw, err := encodeBody(ext)
	if err != nil {
		return err
	}
	id := oid.Clone(ext.OID())
	x.order = append(x.order, id)
	x.entries[id.String()] = &entry{ext: ext, critical: critical, raw: raw}
	return nil
}

// encodeBody serializes ext. Extensions that are not written out have no body.
func encodeBody(ext Extension) ([]byte, error) {
	if !ext.ShouldEncode() {
		return nil, nil
	}
	raw, err := ext.Encode()
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", ext.Name(), err)
	}
	return raw, nil
}

// Add stores ext. It fails if an extension with the same OID is present.
func (x *Extensions) Add(ext Extension, critical bool) error {
	if x.ExtensionSet(ext.OID()) {
		return fmt.Errorf("%w: duplicate extension %s", domain.ErrInvalidArgument, ext.Name())
	}
	return x.insert(ext, critical)
}

// AddNew stores ext unless its OID is already present, in which case it
// reports false and leaves the collection unchanged.
func (x *Extensions) AddNew(ext Extension, critical bool) (bool, error) {
	if x.ExtensionSet(ext.OID()) {
		return false, nil
	}
	if err := x.insert(ext, critical); err != nil {
		return false, err
	}
	return true, nil
}

// Replace stores ext, dropping any extension with the same OID first.
func (x *Extensions) Replace(ext Extension, critical bool) error {
	raw, err := encodeBody(ext)
	if err != nil {
		return err
	}
	x.Remove(ext.OID())
	id := oid.Clone(ext.OID())
	x.order = append(x.order, id)
	x.entries[id.String()] = &entry{ext: ext, critical: critical, raw: raw}
	return nil
}

// Remove drops the extension for id and reports whether one was present.
func (x *Extensions) Remove(id asn1.ObjectIdentifier) bool {
	key := id.String()
	if _, ok := x.entries[key]; !ok {
		return false
	}
	delete(x.entries, key)
	for i, o := range x.order {
		if o.Equal(id) {
			x.order = append(x.order[:i], x.order[i+1:]...)
			break
		}
	}
	return true
}

// ExtensionSet reports whether an extension for id is present.
func (x *Extensions) ExtensionSet(id asn1.ObjectIdentifier) bool {
	_, ok := x.entries[id.String()]
	return ok
}

// CriticalExtensionSet reports whether an extension for id is present and critical.
func (x *Extensions) CriticalExtensionSet(id asn1.ObjectIdentifier) bool {
	e, ok := x.entries[id.String()]
	return ok && e.critical
}

// Get returns a copy of the extension for id.
func (x *Extensions) Get(id asn1.ObjectIdentifier) (Extension, bool, error) {
	e, ok := x.entries[id.String()]
	if !ok {
		return nil, false, nil
	}
	c, err := e.ext.Copy()
	if err != nil {
		return nil, true, err
	}
	return c, true, nil
}

// As returns a copy of the extension for id if it decoded as a T. An entry
// that fell back to Unknown is reported as absent.
func As[T Extension](x *Extensions, id asn1.ObjectIdentifier) (T, bool, error) {
	var zero T
	e, ok := x.entries[id.String()]
	if !ok {
		return zero, false, nil
	}
	if _, typed := e.ext.(T); !typed {
		return zero, false, nil
	}
	c, err := e.ext.Copy()
	if err != nil {
		return zero, false, err
	}
	return c.(T), true, nil
}

// List returns copies of all extensions in insertion order.
func (x *Extensions) List() ([]Entry, error) {
	out := make([]Entry, 0, len(x.order))
	for _, id := range x.order {
		e := x.entries[id.String()]
		c, err := e.ext.Copy()
		if err != nil {
			return nil, err
		}
		out = append(out, Entry{Extension: c, Critical: e.critical})
	}
	return out, nil
}

// Clone returns a deep copy of the collection, including its raw bodies
// and recorded duplicates.
func (x *Extensions) Clone() (*Extensions, error) {
	out := NewExtensionsWithRegistry(x.registry)
	for _, id := range x.order {
		e := x.entries[id.String()]
		c, err := e.ext.Copy()
		if err != nil {
			return nil, err
		}
		out.order = append(out.order, oid.Clone(id))
		out.entries[id.String()] = &entry{ext: c, critical: e.critical, raw: append([]byte(nil), e.raw...)}
	}
	out.duplicates = x.Duplicates()
	return out, nil
}

// Raw returns the stored bodies keyed by dotted OID.
func (x *Extensions) Raw() map[string]RawEntry {
	out := make(map[string]RawEntry, len(x.entries))
	for _, id := range x.order {
		e := x.entries[id.String()]
		out[id.String()] = RawEntry{
			OID:      oid.Clone(id),
			Value:    append([]byte(nil), e.raw...),
			Critical: e.critical,
		}
	}
	return out
}

// Len returns the number of stored extensions.
func (x *Extensions) Len() int { return len(x.order) }

// OIDs returns the stored identifiers in insertion order.
func (x *Extensions) OIDs() []asn1.ObjectIdentifier {
	out := make([]asn1.ObjectIdentifier, 0, len(x.order))
	for _, id := range x.order {
		out = append(out, oid.Clone(id))
	}
	return out
}

// Duplicates returns identifiers that appeared more than once in the last
// decoded input. Only the first occurrence of each is stored.
func (x *Extensions) Duplicates() []asn1.ObjectIdentifier {
	out := make([]asn1.ObjectIdentifier, 0, len(x.duplicates))
	for _, id := range x.duplicates {
		out = append(out, oid.Clone(id))
	}
	return out
}

// Encode returns the DER Extensions SEQUENCE.
func (x *Extensions) Encode() ([]byte, error) {
	var b cryptobyte.Builder
	x.MarshalTo(&b)
	return b.Bytes()
}

// MarshalTo appends the Extensions SEQUENCE to b. Extensions whose
// ShouldEncode reports false are left out.
func (x *Extensions) MarshalTo(b *cryptobyte.Builder) {
	b.AddASN1(cbasn1.SEQUENCE, func(b *cryptobyte.Builder) {
		for _, id := range x.order {
			e := x.entries[id.String()]
			if !e.ext.ShouldEncode() {
				continue
			}
			b.AddASN1(cbasn1.SEQUENCE, func(b *cryptobyte.Builder) {
				b.AddASN1ObjectIdentifier(id)
				if e.critical {
					b.AddASN1Boolean(true)
				}
				b.AddASN1OctetString(e.raw)
			})
		}
	})
}

// Decode replaces the contents with the DER Extensions SEQUENCE in der.
func (x *Extensions) Decode(der []byte) error {
	input := cryptobyte.String(der)
	if err := x.ReadFrom(&input); err != nil {
		return err
	}
	if !input.Empty() {
		return fmt.Errorf("%w: trailing data after extensions", domain.ErrDecoding)
	}
	return nil
}

// ReadFrom consumes one Extensions SEQUENCE from s.
func (x *Extensions) ReadFrom(s *cryptobyte.String) error {
	registry := x.registry
	if registry == nil {
		registry = DefaultRegistry()
	}

	x.order = nil
	x.entries = make(map[string]*entry)
	x.duplicates = nil

	var seq cryptobyte.String
	if !s.ReadASN1(&seq, cbasn1.SEQUENCE) {
		return fmt.Errorf("%w: invalid extensions", domain.ErrDecoding)
	}
	for !seq.Empty() {
		var ext cryptobyte.String
		var id asn1.ObjectIdentifier
		if !seq.ReadASN1(&ext, cbasn1.SEQUENCE) || !ext.ReadASN1ObjectIdentifier(&id) {
			return fmt.Errorf("%w: invalid extension", domain.ErrDecoding)
		}
		critical := false
		if ext.PeekASN1Tag(cbasn1.BOOLEAN) {
			if !ext.ReadASN1Boolean(&critical) {
				return fmt.Errorf("%w: invalid critical flag for extension %s", domain.ErrDecoding, id)
			}
		}
		var body cryptobyte.String
		if !ext.ReadASN1(&body, cbasn1.OCTET_STRING) || !ext.Empty() {
			return fmt.Errorf("%w: invalid value for extension %s", domain.ErrDecoding, id)
		}

		if x.ExtensionSet(id) {
			x.duplicates = append(x.duplicates, id)
			continue
		}
		raw := append([]byte(nil), body...)
		x.order = append(x.order, id)
		x.entries[id.String()] = &entry{
			ext:      registry.CreateExtension(id, critical, raw),
			critical: critical,
			raw:      raw,
		}
	}
	return nil
}

// ContentsTo writes every extension's attributes, then records
// "<name>.is_critical" in the subject store for each of them.
func (x *Extensions) ContentsTo(subject, issuer *domain.AttributeStore) {
	for _, id := range x.order {
		e := x.entries[id.String()]
		e.ext.ContentsTo(subject, issuer)
		subject.AddBool(e.ext.Name()+".is_critical", e.critical)
	}
}
