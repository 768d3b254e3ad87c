package ui

import (
	"encoding/asn1"
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"reactor.de/certext/internal/domain"
	"reactor.de/certext/internal/infra/crypto/certificate"
	"reactor.de/certext/internal/infra/crypto/extensions"
	"reactor.de/certext/internal/infra/crypto/generalname"
	"reactor.de/certext/internal/infra/crypto/oid"
)

// DescribeExtension returns one display line per value of ext. raw is the
// stored extnValue and is shown for extensions without a decoder.
func DescribeExtension(ext extensions.Extension, raw []byte) []string {
	switch e := ext.(type) {
	case *extensions.BasicConstraints:
		if limit, err := e.PathLimit(); err == nil {
			if limit == extensions.NoCertPathLimit {
				return []string{"CA: true", "Path length: unlimited"}
			}
			return []string{"CA: true", fmt.Sprintf("Path length: %d", limit)}
		}
		return []string{"CA: false"}
	case *extensions.KeyUsage:
		return []string{e.Constraints.String()}
	case *extensions.ExtendedKeyUsage:
		return oidNames(e.Usages)
	case *extensions.CertificatePolicies:
		return oidNames(e.Policies)
	case *extensions.SubjectKeyID:
		return []string{colonHex(e.KeyID)}
	case *extensions.AuthorityKeyID:
		return []string{colonHex(e.KeyID)}
	case *extensions.SubjectAlternativeName:
		return describeNames(e.Names)
	case *extensions.IssuerAlternativeName:
		return describeNames(e.Names)
	case *extensions.NameConstraints:
		var out []string
		for _, s := range e.Permitted {
			out = append(out, "Permitted: "+s.Base.String())
		}
		for _, s := range e.Excluded {
			out = append(out, "Excluded: "+s.Base.String())
		}
		return out
	case *extensions.AuthorityInformationAccess:
		var out []string
		if e.OCSPResponder != "" {
			out = append(out, "OCSP: "+e.OCSPResponder)
		}
		for _, u := range e.CAIssuers {
			out = append(out, "CA Issuers: "+u)
		}
		return out
	case *extensions.CRLDistributionPoints:
		var out []string
		for _, u := range e.URLs() {
			out = append(out, "URI: "+u)
		}
		return out
	case *extensions.CRLIssuingDistributionPoint:
		return describeNames(e.Point.Names)
	case *extensions.CRLNumber:
		if n, err := e.Value(); err == nil {
			return []string{n.String()}
		}
		return []string{"(unset)"}
	case *extensions.CRLReasonCode:
		return []string{e.Reason.String()}
	case *extensions.Unknown:
		return []string{hex.EncodeToString(e.Value)}
	default:
		return []string{hex.EncodeToString(raw)}
	}
}

func oidNames(ids []asn1.ObjectIdentifier) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = oid.Name(id)
	}
	return out
}

func describeNames(names generalname.AlternativeName) []string {
	var out []string
	for _, v := range names.DNS {
		out = append(out, "DNS: "+v)
	}
	for _, v := range names.IP {
		out = append(out, "IP: "+v.String())
	}
	for _, v := range names.Email {
		out = append(out, "Email: "+v)
	}
	for _, v := range names.URI {
		out = append(out, "URI: "+v)
	}
	for _, v := range names.DirNames {
		out = append(out, "DirName: "+v.String())
	}
	for _, v := range names.OtherNames {
		out = append(out, "OtherName: "+oid.Name(v.Type))
	}
	return out
}

func colonHex(b []byte) string {
	parts := make([]string, len(b))
	for i, c := range b {
		parts[i] = fmt.Sprintf("%02X", c)
	}
	return strings.Join(parts, ":")
}

// PrintExtensions writes x as a table in stored order.
func PrintExtensions(w io.Writer, x *extensions.Extensions) error {
	entries, err := x.List()
	if err != nil {
		return err
	}
	raw := x.Raw()

	table := NewExtensionsTable(w)
	table.Header([]string{"Extension", "OID", "Critical", "Value"})
	for _, e := range entries {
		id := e.Extension.OID()
		critical := ""
		if e.Critical {
			critical = "yes"
		}
		value := strings.Join(DescribeExtension(e.Extension, raw[id.String()].Value), "\n")
		if err := table.Append([]string{e.Extension.Name(), id.String(), critical, value}); err != nil {
			return err
		}
	}
	return table.Render()
}

// PrintAttributes writes both attribute stores as sorted key = value lines.
func PrintAttributes(w io.Writer, subject, issuer *domain.AttributeStore) {
	for _, side := range []struct {
		title string
		store *domain.AttributeStore
	}{{"SUBJECT ATTRIBUTES", subject}, {"ISSUER ATTRIBUTES", issuer}} {
		fmt.Fprintf(w, "\n%s\n", green(bold(side.title)))
		if side.store.Len() == 0 {
			fmt.Fprintf(w, "   %s\n", gray("(none)"))
			continue
		}
		for _, key := range side.store.Keys() {
			for _, v := range side.store.Get(key) {
				fmt.Fprintf(w, "   %s = %s\n", cyan(key), v)
			}
		}
	}
}

func chainRole(pos, n int) string {
	switch {
	case n == 1:
		return "single"
	case pos == 0:
		return "leaf"
	case pos == n-1:
		return "anchor"
	default:
		return "intermediate"
	}
}

// PrintChainStatus writes one row per chain position with its status codes.
func PrintChainStatus(w io.Writer, chain []*certificate.Record, status domain.ChainStatus) error {
	table := NewChainTable(w)
	table.Header([]string{"Position", "Subject", "Status"})
	for i, cert := range chain {
		var codes []string
		if i < len(status) {
			for _, c := range status[i].Sorted() {
				codes = append(codes, red(c.String()))
			}
		}
		result := green("OK")
		if len(codes) > 0 {
			result = strings.Join(codes, "\n")
		}
		subject := cert.SubjectDN().String()
		if cn := cert.SubjectDN().CommonNames(); len(cn) > 0 {
			subject = cn[0]
		}
		if err := table.Append([]string{fmt.Sprintf("%d (%s)", i, chainRole(i, len(chain))), subject, result}); err != nil {
			return err
		}
	}
	return table.Render()
}
