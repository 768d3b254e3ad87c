package generalname

import (
	"net"
	"net/url"
	"strings"

	"reactor.de/certext/internal/infra/crypto/oid"
	"reactor.de/certext/internal/infra/crypto/x500"
)

// MatchResult classifies how the names of a certificate relate to a constraint.
type MatchResult int

const (
	// All names of the relevant form match.
	MatchAll MatchResult = iota
	// Some, but not all, names match.
	MatchSome
	// No name matches.
	MatchNone
	// The certificate carries no name of the relevant form.
	MatchNotFound
	// The constraint form is not supported for matching.
	MatchUnknownType
)

func (m MatchResult) String() string {
	switch m {
	case MatchAll:
		return "All"
	case MatchSome:
		return "Some"
	case MatchNone:
		return "None"
	case MatchNotFound:
		return "NotFound"
	default:
		return "UnknownType"
	}
}

// Certificate is the view of a certificate needed for matching.
type Certificate interface {
	SubjectDN() x500.DN
	SubjectAltName() AlternativeName
}

// Matches checks the names of cert against g.
//
// DNS constraints look at the SAN dNSNames and fall back to the subject common
// names when there are none. DN constraints look at the subject and the SAN
// directory names. Email constraints look at the SAN rfc822Names and the
// subject emailAddress attributes.
func (g GeneralName) Matches(cert Certificate) MatchResult {
	dn := cert.SubjectDN()
	alt := cert.SubjectAltName()

	var results []bool
	switch g.typ {
	case TypeDNS:
		names := alt.DNS
		if len(names) == 0 {
			names = dn.CommonNames()
		}
		for _, n := range names {
			results = append(results, matchDNS(g.name, n))
		}
	case TypeDN:
		if !dn.Empty() {
			results = append(results, matchDN(g.dn, dn))
		}
		for _, d := range alt.DirNames {
			results = append(results, matchDN(g.dn, d))
		}
	case TypeIP:
		for _, ip := range alt.IP {
			results = append(results, matchIP(g.ip, ip))
		}
	case TypeRFC822:
		names := append(append([]string(nil), alt.Email...), dn.Get(oid.EmailAddress)...)
		for _, n := range names {
			results = append(results, matchEmail(g.name, n))
		}
	case TypeURI:
		for _, u := range alt.URI {
			results = append(results, matchURI(g.name, u))
		}
	default:
		return MatchUnknownType
	}

	if len(results) == 0 {
		return MatchNotFound
	}

	some, all := false, true
	for _, r := range results {
		some = some || r
		all = all && r
	}
	switch {
	case all:
		return MatchAll
	case some:
		return MatchSome
	default:
		return MatchNone
	}
}

// matchDNS reports whether name equals constraint or lies below it.
func matchDNS(constraint, name string) bool {
	switch {
	case len(name) == len(constraint):
		return strings.EqualFold(name, constraint)
	case len(constraint) > len(name):
		return false
	case constraint == "":
		return true
	}
	suffix := constraint
	if suffix[0] != '.' {
		suffix = "." + constraint
	}
	if len(suffix) > len(name) {
		return false
	}
	return strings.EqualFold(name[len(name)-len(suffix):], suffix)
}

func matchDN(constraint, name x500.DN) bool {
	return name.ContainsAll(constraint)
}

func matchIP(constraint *net.IPNet, ip net.IP) bool {
	if constraint == nil {
		return false
	}
	if len(constraint.IP) == net.IPv4len {
		ip = ip.To4()
		if ip == nil {
			return false
		}
	} else if len(ip) == net.IPv4len {
		return false
	}
	return constraint.Contains(ip)
}

func matchHost(constraint, host string) bool {
	if constraint == "" {
		return false
	}
	if constraint[0] == '.' {
		return len(host) > len(constraint) && strings.EqualFold(host[len(host)-len(constraint):], constraint)
	}
	return strings.EqualFold(host, constraint)
}

func matchEmail(constraint, email string) bool {
	at := strings.LastIndexByte(email, '@')
	if at < 0 {
		return false
	}
	if strings.Contains(constraint, "@") {
		ci := strings.LastIndexByte(constraint, '@')
		return email[:at] == constraint[:ci] && strings.EqualFold(email[at+1:], constraint[ci+1:])
	}
	return matchHost(constraint, email[at+1:])
}

func matchURI(constraint, uri string) bool {
	u, err := url.Parse(uri)
	if err != nil || u.Host == "" {
		return false
	}
	host := u.Hostname()
	if net.ParseIP(host) != nil {
		return false
	}
	return matchHost(constraint, host)
}
