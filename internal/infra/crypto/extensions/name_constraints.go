package extensions

import (
	"encoding/asn1"
	"fmt"

	"golang.org/x/crypto/cryptobyte"
	cbasn1 "golang.org/x/crypto/cryptobyte/asn1"
	"reactor.de/certext/internal/domain"
	"reactor.de/certext/internal/infra/crypto/generalname"
	"reactor.de/certext/internal/infra/crypto/oid"
	"reactor.de/certext/internal/infra/crypto/x500"
)

// NameConstraints implements the X.509 Name Constraints extension (RFC 5280)
type NameConstraints struct {
	base
	Permitted []generalname.Subtree
	Excluded  []generalname.Subtree
}

// NewNameConstraints copies the given subtree lists.
func NewNameConstraints(permitted, excluded []generalname.Subtree) *NameConstraints {
	return &NameConstraints{
		Permitted: append([]generalname.Subtree(nil), permitted...),
		Excluded:  append([]generalname.Subtree(nil), excluded...),
	}
}

func (e *NameConstraints) OID() asn1.ObjectIdentifier { return oid.NameConstraints }

func (e *NameConstraints) Name() string { return oid.Name(oid.NameConstraints) }

// ProfileName returns the extension name as used in YAML configuration
func (e *NameConstraints) ProfileName() string { return "name_constraints" }

// Empty reports whether neither list holds a subtree.
func (e *NameConstraints) Empty() bool {
	return len(e.Permitted) == 0 && len(e.Excluded) == 0
}

func (e *NameConstraints) Encode() ([]byte, error) {
	if e.Empty() {
		return nil, fmt.Errorf("%w: name constraints without subtrees", domain.ErrEncoding)
	}

	var b cryptobyte.Builder
	b.AddASN1(cbasn1.SEQUENCE, func(b *cryptobyte.Builder) {
		addSubtrees(b, 0, e.Permitted)
		addSubtrees(b, 1, e.Excluded)
	})
	return b.Bytes()
}

func addSubtrees(b *cryptobyte.Builder, tag uint8, subtrees []generalname.Subtree) {
	if len(subtrees) == 0 {
		return
	}
	b.AddASN1(cbasn1.Tag(tag).ContextSpecific().Constructed(), func(b *cryptobyte.Builder) {
		for _, s := range subtrees {
			s.Marshal(b)
		}
	})
}

// Decode rejects a body where both lists are absent and any list that is
// present but has no elements.
func (e *NameConstraints) Decode(der []byte) error {
	input := cryptobyte.String(der)
	var seq cryptobyte.String
	if !input.ReadASN1(&seq, cbasn1.SEQUENCE) || !input.Empty() {
		return fmt.Errorf("%w: invalid name constraints", domain.ErrDecoding)
	}

	permitted, hasPermitted, err := readSubtrees(&seq, 0)
	if err != nil {
		return err
	}
	excluded, hasExcluded, err := readSubtrees(&seq, 1)
	if err != nil {
		return err
	}
	if !seq.Empty() {
		return fmt.Errorf("%w: trailing data in name constraints", domain.ErrDecoding)
	}
	if !hasPermitted && !hasExcluded {
		return fmt.Errorf("%w: name constraints without permitted or excluded subtrees", domain.ErrDecoding)
	}

	e.Permitted = permitted
	e.Excluded = excluded
	return nil
}

func readSubtrees(seq *cryptobyte.String, tag uint8) ([]generalname.Subtree, bool, error) {
	var content cryptobyte.String
	var present bool
	if !seq.ReadOptionalASN1(&content, &present, cbasn1.Tag(tag).ContextSpecific().Constructed()) {
		return nil, false, fmt.Errorf("%w: invalid name constraint subtrees [%d]", domain.ErrDecoding, tag)
	}
	if !present {
		return nil, false, nil
	}
	if content.Empty() {
		return nil, true, fmt.Errorf("%w: empty name constraint list [%d]", domain.ErrDecoding, tag)
	}

	var out []generalname.Subtree
	for !content.Empty() {
		s, err := generalname.ReadSubtree(&content)
		if err != nil {
			return nil, true, err
		}
		out = append(out, s)
	}
	return out, true, nil
}

func (e *NameConstraints) ContentsTo(subject, _ *domain.AttributeStore) {
	for _, s := range e.Permitted {
		subject.Add("X509v3.NameConstraints.permitted", s.Base.String())
	}
	for _, s := range e.Excluded {
		subject.Add("X509v3.NameConstraints.excluded", s.Base.String())
	}
}

func (e *NameConstraints) Copy() (Extension, error) {
	return NewNameConstraints(e.Permitted, e.Excluded), nil
}

// Validate checks the certificate at pos and every certificate issued below
// it against the subtrees. A self-signed holder is not checked against its
// own constraints.
func (e *NameConstraints) Validate(subject, issuer CertificateView, chain []CertificateView, status domain.ChainStatus, pos int) {
	if e.Empty() {
		return
	}
	if !subject.IsCACert() || !subject.IsCritical(oid.NameConstraints) {
		status.Insert(pos, domain.StatusNameConstraintError)
	}

	issuerCritical := issuer.IsCritical(oid.NameConstraints)

	for j := 0; j <= pos && j < len(chain); j++ {
		target := chain[j]
		if j == pos && target.IsSelfSigned() {
			continue
		}
		failed := false

		permitted := len(e.Permitted) == 0
		for _, s := range e.Permitted {
			switch s.Base.Matches(target) {
			case generalname.MatchNotFound, generalname.MatchAll:
				permitted = true
			case generalname.MatchUnknownType:
				permitted = true
				failed = failed || issuerCritical
			}
		}

		for _, s := range e.Excluded {
			switch s.Base.Matches(target) {
			case generalname.MatchAll, generalname.MatchSome:
				failed = true
			case generalname.MatchUnknownType:
				failed = failed || issuerCritical
			}
		}

		if failed || !permitted {
			status.Insert(j, domain.StatusNameConstraintError)
		}
	}
}

// ParseFromYAML parses the name_constraints configuration from YAML
// Supported fields:
//
//	permitted:
//	  dns: []string
//	  email: []string
//	  uri: []string
//	  ip: []string (CIDR notation)
//	  dirname: []string
//	excluded: same layout as permitted
//
// At least one subtree is required.
func (e *NameConstraints) ParseFromYAML(data map[string]interface{}) error {
	var err error
	if e.Permitted, err = parseSubtrees(data, "permitted"); err != nil {
		return err
	}
	if e.Excluded, err = parseSubtrees(data, "excluded"); err != nil {
		return err
	}
	if e.Empty() {
		return fmt.Errorf("name_constraints requires at least one permitted or excluded subtree")
	}
	return nil
}

func parseSubtrees(data map[string]interface{}, key string) ([]generalname.Subtree, error) {
	section, err := parseMap(data, key)
	if err != nil || section == nil {
		return nil, err
	}

	var out []generalname.Subtree
	add := func(field string, build func(string) (generalname.GeneralName, error)) error {
		values, err := parseStringSlice(section, field)
		if err != nil {
			return fmt.Errorf("%s: %v", key, err)
		}
		for _, v := range values {
			name, err := build(v)
			if err != nil {
				return fmt.Errorf("%s.%s: %v", key, field, err)
			}
			out = append(out, generalname.NewSubtree(name))
		}
		return nil
	}

	plain := func(ctor func(string) generalname.GeneralName) func(string) (generalname.GeneralName, error) {
		return func(s string) (generalname.GeneralName, error) { return ctor(s), nil }
	}
	dirName := func(s string) (generalname.GeneralName, error) {
		dn, err := x500.ParseString(s)
		if err != nil {
			return generalname.GeneralName{}, err
		}
		return generalname.DirectoryName(dn), nil
	}

	steps := []struct {
		field string
		build func(string) (generalname.GeneralName, error)
	}{
		{"dns", plain(generalname.DNS)},
		{"email", plain(generalname.RFC822)},
		{"uri", plain(generalname.URI)},
		{"ip", generalname.ParseCIDR},
		{"dirname", dirName},
	}
	for _, step := range steps {
		if err := add(step.field, step.build); err != nil {
			return nil, err
		}
	}
	return out, nil
}
