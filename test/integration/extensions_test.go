//go:build integration

package integration

import (
	"os"
	"path/filepath"
	"testing"

	"reactor.de/certext/internal/app"
	"reactor.de/certext/internal/infra/crypto/extensions"
	"reactor.de/certext/internal/infra/crypto/oid"
)

const caProfile = `extensions:
  basic_constraints:
    critical: true
    ca: true
    path_length: 0
  key_usage:
    critical: true
    usages: [key_cert_sign, crl_sign]
  subject_alternative_name:
    dns: [ca.example.com]
    email: [pki@example.com]
  name_constraints:
    critical: true
    permitted:
      dns: [example.com]
policy:
  max_chain_length: 4
`

func TestBuildWriteDecodeRoundTrip(t *testing.T) {
	application, dir := newApplication(t)
	writeFile(t, dir, "ca.yaml", []byte(caProfile))

	built, der, err := application.BuildExtensions("ca.yaml")
	if err != nil {
		t.Fatalf("BuildExtensions() unexpected error: %v", err)
	}

	for _, format := range []string{app.FormatDER, app.FormatPEM, app.FormatHex, app.FormatBase64} {
		t.Run(format, func(t *testing.T) {
			data, err := app.EncodeOutput(der, format)
			if err != nil {
				t.Fatalf("EncodeOutput() unexpected error: %v", err)
			}
			name := filepath.Join("out", "ext."+format)
			if err := application.WriteOutput(name, data); err != nil {
				t.Fatalf("WriteOutput() unexpected error: %v", err)
			}
			if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
				t.Fatalf("output file missing: %v", err)
			}

			input, err := application.ReadEncodedInput(name)
			if err != nil {
				t.Fatalf("ReadEncodedInput() unexpected error: %v", err)
			}
			decoded, err := application.DecodeExtensions(input)
			if err != nil {
				t.Fatalf("DecodeExtensions() unexpected error: %v", err)
			}
			if decoded.Len() != built.Len() {
				t.Errorf("decoded %d extensions, want %d", decoded.Len(), built.Len())
			}
			nc, ok, err := extensions.As[*extensions.NameConstraints](decoded, oid.NameConstraints)
			if err != nil || !ok || len(nc.Permitted) != 1 {
				t.Errorf("name constraints = %v, %v, %v", nc, ok, err)
			}
		})
	}
}

func TestConfigValidationFromDisk(t *testing.T) {
	application, dir := newApplication(t)
	writeFile(t, dir, "broken.yaml", []byte("extensions:\n  key_usage:\n    usages: [fly]\n"))

	if _, err := application.LoadProfile("broken.yaml"); err == nil {
		t.Fatal("LoadProfile() expected error for unknown key usage")
	}
	if _, err := application.LoadProfile("absent.yaml"); err == nil {
		t.Fatal("LoadProfile() expected error for missing file")
	}
}
