package x500

import (
	"encoding/asn1"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	cbasn1 "golang.org/x/crypto/cryptobyte/asn1"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/unicode/utf32"
	"reactor.de/certext/internal/domain"
	"reactor.de/certext/internal/infra/crypto/oid"
)

const (
	tagNumericString   = cbasn1.Tag(18)
	tagVisibleString   = cbasn1.Tag(26)
	tagUniversalString = cbasn1.Tag(28)
	tagBMPString       = cbasn1.Tag(30)
)

func decodeString(tag cbasn1.Tag, raw []byte) (string, error) {
	switch tag {
	case cbasn1.UTF8String:
		if !utf8.Valid(raw) {
			return "", errors.New("invalid UTF8String")
		}
		return string(raw), nil
	case cbasn1.PrintableString:
		for _, c := range raw {
			if !isPrintable(c) {
				return "", errors.New("invalid PrintableString")
			}
		}
		return string(raw), nil
	case cbasn1.IA5String, tagVisibleString, tagNumericString:
		for _, c := range raw {
			if c >= utf8.RuneSelf {
				return "", errors.New("invalid IA5String")
			}
		}
		return string(raw), nil
	case cbasn1.T61String:
		out, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
		if err != nil {
			return "", fmt.Errorf("invalid T61String: %w", err)
		}
		return string(out), nil
	case tagBMPString:
		if len(raw)%2 != 0 {
			return "", errors.New("invalid BMPString length")
		}
		out, err := unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewDecoder().Bytes(raw)
		if err != nil {
			return "", fmt.Errorf("invalid BMPString: %w", err)
		}
		return string(out), nil
	case tagUniversalString:
		if len(raw)%4 != 0 {
			return "", errors.New("invalid UniversalString length")
		}
		out, err := utf32.UTF32(utf32.BigEndian, utf32.IgnoreBOM).NewDecoder().Bytes(raw)
		if err != nil {
			return "", fmt.Errorf("invalid UniversalString: %w", err)
		}
		return string(out), nil
	default:
		return "", fmt.Errorf("unsupported string type %d", tag)
	}
}

func encodeString(tag cbasn1.Tag, s string) []byte {
	switch tag {
	case tagBMPString:
		out, err := unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewEncoder().Bytes([]byte(s))
		if err == nil {
			return out
		}
	case tagUniversalString:
		out, err := utf32.UTF32(utf32.BigEndian, utf32.IgnoreBOM).NewEncoder().Bytes([]byte(s))
		if err == nil {
			return out
		}
	case cbasn1.T61String:
		out, err := charmap.ISO8859_1.NewEncoder().Bytes([]byte(s))
		if err == nil {
			return out
		}
	}
	return []byte(s)
}

func isPrintable(c byte) bool {
	return 'a' <= c && c <= 'z' ||
		'A' <= c && c <= 'Z' ||
		'0' <= c && c <= '9' ||
		strings.IndexByte(" '()+,-./:=?", c) >= 0
}

func defaultTag(t asn1.ObjectIdentifier, value string) cbasn1.Tag {
	switch {
	case t.Equal(oid.EmailAddress), t.Equal(oid.DomainComponent):
		return cbasn1.IA5String
	case t.Equal(oid.Country), t.Equal(oid.SerialNumber):
		return cbasn1.PrintableString
	}
	for i := 0; i < len(value); i++ {
		if !isPrintable(value[i]) {
			return cbasn1.UTF8String
		}
	}
	return cbasn1.PrintableString
}

var shortNames = []struct {
	short string
	id    asn1.ObjectIdentifier
}{
	{"CN", oid.CommonName},
	{"SN", oid.Surname},
	{"SERIALNUMBER", oid.SerialNumber},
	{"C", oid.Country},
	{"L", oid.Locality},
	{"ST", oid.State},
	{"STREET", oid.StreetAddress},
	{"O", oid.Organization},
	{"OU", oid.OrganizationalUnit},
	{"T", oid.Title},
	{"PC", oid.PostalCode},
	{"GN", oid.GivenName},
	{"E", oid.EmailAddress},
	{"DC", oid.DomainComponent},
	{"UID", oid.UserID},
}

func shortName(t asn1.ObjectIdentifier) string {
	for _, n := range shortNames {
		if n.id.Equal(t) {
			return n.short
		}
	}
	return t.String()
}

func typeForShortName(s string) (asn1.ObjectIdentifier, bool) {
	for _, n := range shortNames {
		if strings.EqualFold(n.short, s) {
			return oid.Clone(n.id), true
		}
	}
	if id, err := oid.Parse(s); err == nil {
		return id, true
	}
	return nil, false
}

// ParseString reads a name written as "CN=host,O=Org". Each comma separated
// component becomes its own RDN. Backslash escapes the next character.
func ParseString(s string) (DN, error) {
	var attrs []Attribute
	for _, part := range splitEscaped(s, ',') {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		kv := splitEscaped(part, '=')
		if len(kv) < 2 {
			return DN{}, fmt.Errorf("%w: name component %q has no '='", domain.ErrInvalidArgument, part)
		}
		key := strings.TrimSpace(kv[0])
		t, ok := typeForShortName(key)
		if !ok {
			return DN{}, fmt.Errorf("%w: unknown name attribute %q", domain.ErrInvalidArgument, key)
		}
		value := unescape(strings.TrimSpace(strings.Join(kv[1:], "=")))
		attrs = append(attrs, Attribute{Type: t, Value: value})
	}
	return New(attrs...), nil
}

func splitEscaped(s string, sep byte) []string {
	var parts []string
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case sep:
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	return append(parts, s[start:])
}

func unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
		}
		sb.WriteByte(s[i])
	}
	return sb.String()
}
