package ui

import (
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rsa"
	"crypto/x509"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"golang.org/x/text/message"
	"reactor.de/certext/internal/domain"
	"reactor.de/certext/internal/infra/crypto/certificate"
	"reactor.de/certext/internal/infra/crypto/oid"
	"reactor.de/certext/internal/localedate"
)

// formatDurationParts formats a non-negative duration into human-readable text
func formatDurationParts(duration time.Duration, p *message.Printer) string {
	days := int64(math.Round(duration.Hours() / 24))
	hours := int64(duration.Hours())

	switch {
	case days == 0 && hours == 1:
		return "1 hour"
	case days == 0:
		return p.Sprintf("%d hours", hours)
	case days == 1:
		return p.Sprintf("1 day (%d hours)", hours)
	case days < 3:
		return p.Sprintf("%d days (%d hours)", days, hours)
	case days <= 365:
		return p.Sprintf("%d days", days)
	default:
		return p.Sprintf("%d days (%.1f years)", days, float64(days)/365.25)
	}
}

// FormatCertExpiry describes the time left until expiry with a status
// symbol. Expiry within criticalDays is red, within warningDays yellow.
func FormatCertExpiry(expiry, now time.Time, criticalDays, warningDays int) string {
	p := localedate.Printer(localedate.UserLocale())
	duration := expiry.Sub(now)
	if duration < 0 {
		return red("✗ expired " + formatDurationParts(-duration, p) + " ago")
	}
	text := formatDurationParts(duration, p)
	days := int64(math.Round(duration.Hours() / 24))
	switch {
	case days <= int64(criticalDays):
		return red("✗") + " " + text
	case days <= int64(warningDays):
		return yellow("!") + " " + text
	default:
		return green("✓") + " " + text
	}
}

func label(name string) string {
	return cyan(fmt.Sprintf("%-13s", name))
}

// PrintCertInfo writes a summary of r: subject, names, validity, key
// details and extensions.
func PrintCertInfo(w io.Writer, r *certificate.Record, hashes domain.HashProvider, now time.Time) error {
	header := "CERTIFICATE"
	if r.IsCACert() {
		header = "CERTIFICATE AUTHORITY"
	}
	fmt.Fprintf(w, "\n%s\n", green(bold(header)))
	fmt.Fprintf(w, "   %s %s\n", label("Subject"), r.SubjectDN())
	fmt.Fprintf(w, "   %s %s\n", label("Issuer"), r.IssuerDN())
	if org := r.SubjectDN().Get(oid.Organization); len(org) > 0 {
		fmt.Fprintf(w, "   %s %s\n", label("Organization"), strings.Join(org, ", "))
	}
	if r.IsSelfSigned() {
		fmt.Fprintf(w, "   %s %s\n", label("Self-signed"), "yes")
	}

	names := r.SubjectAltName()
	if !names.Empty() {
		fmt.Fprintf(w, "\n%s\n", green(bold("SUBJECT NAMES")))
		printList(w, "DNS", names.DNS)
		ips := make([]string, len(names.IP))
		for i, ip := range names.IP {
			ips[i] = ip.String()
		}
		printList(w, "IP Address", ips)
		printList(w, "Email", names.Email)
		printList(w, "URI", names.URI)
	}

	tag := localedate.UserLocale()
	fmt.Fprintf(w, "\n%s\n", green(bold("VALIDITY PERIOD")))
	fmt.Fprintf(w, "   %s %s\n", label("Not Before"), localedate.FormatDateTime(tag, r.NotBefore()))
	fmt.Fprintf(w, "   %s %s\n", label("Not After"), localedate.FormatDateTime(tag, r.NotAfter()))
	if now.Before(r.NotBefore()) {
		fmt.Fprintf(w, "   %s %s\n", label("Remaining"), yellow("! not yet valid"))
	} else {
		fmt.Fprintf(w, "   %s %s\n", label("Remaining"), FormatCertExpiry(r.NotAfter(), now, 7, 30))
	}

	fmt.Fprintf(w, "\n%s\n", green(bold("CRYPTOGRAPHIC DETAILS")))
	fmt.Fprintf(w, "   %s v%d\n", label("Version"), r.Version())
	fmt.Fprintf(w, "   %s %s\n", label("Serial"), r.SerialString())
	if fp, err := r.Fingerprint(hashes, string(domain.SHA256)); err == nil {
		fmt.Fprintf(w, "   %s SHA256:%s\n", label("Fingerprint"), fp)
	}
	fmt.Fprintf(w, "   %s %s\n", label("Key"), keyTypeDetails(r))
	fmt.Fprintf(w, "   %s %s\n", label("Signature"), r.SignatureAlgorithm().Name())

	entries, err := r.ExtensionList()
	if err != nil {
		return err
	}
	if len(entries) > 0 {
		fmt.Fprintf(w, "\n%s\n", green(bold("EXTENSIONS")))
		ext, err := r.Extensions()
		if err != nil {
			return err
		}
		return PrintExtensions(w, ext)
	}
	return nil
}

func printList(w io.Writer, name string, values []string) {
	for i, v := range values {
		if i > 0 {
			name = ""
		}
		fmt.Fprintf(w, "   %s %s\n", label(name), v)
	}
}

// keyTypeDetails describes the subject key. Keys crypto/x509 cannot load
// are shown by algorithm name.
func keyTypeDetails(r *certificate.Record) string {
	pub, err := x509.ParsePKIXPublicKey(r.SubjectPublicKeyInfo())
	if err != nil {
		return r.PublicKeyAlgorithm().Name()
	}
	switch key := pub.(type) {
	case *rsa.PublicKey:
		return fmt.Sprintf("RSA (%d-bit)", key.Size()*8)
	case *ecdsa.PublicKey:
		return fmt.Sprintf("ECDSA (%s, %d-bit)", key.Curve.Params().Name, key.Curve.Params().BitSize)
	case ed25519.PublicKey:
		return "Ed25519 (256-bit)"
	default:
		return r.PublicKeyAlgorithm().Name()
	}
}
