//go:build integration

package integration

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"reactor.de/certext/internal/app"
	"reactor.de/certext/internal/domain"
	"reactor.de/certext/internal/testutil"
)

func TestVerifyChainFromDisk(t *testing.T) {
	application, dir := newApplication(t)

	root := testutil.SelfSigned(t, testutil.CATemplate("Disk Root"))
	intTmpl := testutil.CATemplate("Disk Intermediate")
	intTmpl.PermittedDNSDomains = []string{"example.com"}
	intTmpl.PermittedDNSDomainsCritical = true
	intTmpl.DNSNames = []string{"ca.example.com"}
	intermediate := testutil.Issue(t, intTmpl, root)
	good := testutil.Issue(t, testutil.Template("www.example.com", "www.example.com"), intermediate)
	bad := testutil.Issue(t, testutil.Template("www.example.net", "www.example.net"), intermediate)

	writeFile(t, dir, "good.der", good.DER)
	writeFile(t, dir, "bad.pem", testutil.PEM(bad))
	writeFile(t, dir, "chain.pem", testutil.PEM(intermediate, root))

	report, err := application.VerifyChain("", "good.der", "chain.pem")
	if err != nil {
		t.Fatalf("VerifyChain(good) unexpected error: %v", err)
	}
	if len(report.Chain) != 3 {
		t.Errorf("chain has %d certificates, want 3", len(report.Chain))
	}

	report, err = application.VerifyChain("", "bad.pem", "chain.pem")
	if !errors.Is(err, app.ErrChainInvalid) {
		t.Fatalf("VerifyChain(bad) error = %v, want ErrChainInvalid", err)
	}
	if !report.Status[0].Has(domain.StatusNameConstraintError) {
		t.Errorf("leaf status = %v, want NAME_CONSTRAINT_ERROR", report.Status[0].Sorted())
	}

	logData, err := os.ReadFile(filepath.Join(dir, "certext.log"))
	if err != nil {
		t.Fatalf("Failed to read log: %v", err)
	}
	if !strings.Contains(string(logData), "WARNING: chain position 0") {
		t.Errorf("log does not record the rejected position:\n%s", logData)
	}
}
