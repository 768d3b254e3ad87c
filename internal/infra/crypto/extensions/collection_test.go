//go:build !integration && !e2e

package extensions

import (
	"encoding/asn1"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/crypto/cryptobyte"
	cbasn1 "golang.org/x/crypto/cryptobyte/asn1"
	"reactor.de/certext/internal/domain"
	"reactor.de/certext/internal/infra/crypto/generalname"
	"reactor.de/certext/internal/infra/crypto/oid"
)

var testPrivateOID = asn1.ObjectIdentifier{1, 3, 6, 1, 4, 1, 99999, 7}

func fullCollection(t *testing.T) *Extensions {
	t.Helper()
	custom := NewUnknown(testPrivateOID, false)
	if err := custom.Decode([]byte{0x0c, 0x02, 'h', 'i'}); err != nil {
		t.Fatal(err)
	}

	x := NewExtensions()
	adds := []struct {
		ext      Extension
		critical bool
	}{
		{NewBasicConstraints(true, 1), true},
		{NewKeyUsage(KeyCertSign | CRLSign), true},
		{NewSubjectKeyID([]byte{1, 2, 3, 4}), false},
		{NewAuthorityKeyID([]byte{5, 6, 7, 8}), false},
		{NewSubjectAlternativeName(generalname.AlternativeName{DNS: []string{"ca.example.com"}}), false},
		{NewExtendedKeyUsage(oid.ExtKeyUsageOCSPSigning), false},
		{NewNameConstraints([]generalname.Subtree{generalname.NewSubtree(generalname.DNS("example.com"))}, nil), true},
		{NewCertificatePolicies(oid.AnyPolicy), false},
		{NewAuthorityInformationAccess("http://ocsp.example.com"), false},
		{custom, false},
	}
	for _, a := range adds {
		if err := x.Add(a.ext, a.critical); err != nil {
			t.Fatalf("Add(%s) unexpected error: %v", a.ext.Name(), err)
		}
	}
	return x
}

func TestExtensions_RoundTrip(t *testing.T) {
	x := fullCollection(t)
	der, err := x.Encode()
	if err != nil {
		t.Fatalf("Encode() unexpected error: %v", err)
	}

	decoded := NewExtensions()
	if err := decoded.Decode(der); err != nil {
		t.Fatalf("Decode() unexpected error: %v", err)
	}

	if diff := cmp.Diff(x.OIDs(), decoded.OIDs()); diff != "" {
		t.Errorf("OIDs mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(x.Raw(), decoded.Raw()); diff != "" {
		t.Errorf("Raw mismatch (-want +got):\n%s", diff)
	}

	entries, err := decoded.List()
	if err != nil {
		t.Fatalf("List() unexpected error: %v", err)
	}
	for _, e := range entries {
		_, isUnknown := e.Extension.(*Unknown)
		if isUnknown != e.Extension.OID().Equal(testPrivateOID) {
			t.Errorf("%s decoded as %T", e.Extension.Name(), e.Extension)
		}
	}

	bc, ok, err := As[*BasicConstraints](decoded, oid.BasicConstraints)
	if err != nil || !ok {
		t.Fatalf("As[*BasicConstraints]() = %v, %v", ok, err)
	}
	if limit, _ := bc.PathLimit(); !bc.IsCA() || limit != 1 {
		t.Errorf("BasicConstraints = ca %v limit %d", bc.IsCA(), limit)
	}
	if !decoded.CriticalExtensionSet(oid.NameConstraints) || decoded.CriticalExtensionSet(oid.SubjectKeyIdentifier) {
		t.Error("criticality lost in round trip")
	}
}

func TestExtensions_Duplicates(t *testing.T) {
	x := NewExtensions()
	if err := x.Add(NewKeyUsage(DigitalSignature), true); err != nil {
		t.Fatalf("Add() unexpected error: %v", err)
	}

	if err := x.Add(NewKeyUsage(KeyCertSign), false); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Errorf("Add(duplicate) error = %v, want ErrInvalidArgument", err)
	}

	before := x.Raw()
	added, err := x.AddNew(NewKeyUsage(KeyCertSign), false)
	if err != nil || added {
		t.Errorf("AddNew(duplicate) = %v, %v; want false, nil", added, err)
	}
	if diff := cmp.Diff(before, x.Raw()); diff != "" {
		t.Errorf("AddNew(duplicate) changed the collection (-before +after):\n%s", diff)
	}

	if err := x.Replace(NewKeyUsage(KeyCertSign), false); err != nil {
		t.Fatalf("Replace() unexpected error: %v", err)
	}
	if x.Len() != 1 {
		t.Fatalf("Len() = %d after Replace, want 1", x.Len())
	}
	ku, ok, err := As[*KeyUsage](x, oid.KeyUsage)
	if err != nil || !ok || ku.Constraints != KeyCertSign {
		t.Errorf("As[*KeyUsage]() = %v, %v, %v", ku, ok, err)
	}
	if x.CriticalExtensionSet(oid.KeyUsage) {
		t.Error("Replace() kept the old criticality")
	}

	added, err = x.AddNew(NewSubjectKeyID([]byte{1}), false)
	if err != nil || !added {
		t.Errorf("AddNew(new) = %v, %v; want true, nil", added, err)
	}
}

func TestExtensions_CopiesOnRead(t *testing.T) {
	x := NewExtensions()
	if err := x.Add(NewSubjectKeyID([]byte{1, 2, 3}), false); err != nil {
		t.Fatal(err)
	}

	got, ok, err := As[*SubjectKeyID](x, oid.SubjectKeyIdentifier)
	if err != nil || !ok {
		t.Fatalf("As() = %v, %v", ok, err)
	}
	got.KeyID[0] = 0xff

	again, _, _ := As[*SubjectKeyID](x, oid.SubjectKeyIdentifier)
	if again.KeyID[0] != 1 {
		t.Error("mutating a returned extension changed the stored value")
	}

	if _, ok, _ := x.Get(oid.KeyUsage); ok {
		t.Error("Get() of an absent extension reported ok")
	}
	if _, ok, _ := As[*KeyUsage](x, oid.SubjectKeyIdentifier); ok {
		t.Error("As() with the wrong type reported ok")
	}
}

func TestExtensions_DecodeDuplicateAndTrailing(t *testing.T) {
	var b cryptobyte.Builder
	b.AddASN1(cbasn1.SEQUENCE, func(b *cryptobyte.Builder) {
		for _, usage := range [][]byte{{0x03, 0x02, 0x07, 0x80}, {0x03, 0x02, 0x01, 0x06}} {
			b.AddASN1(cbasn1.SEQUENCE, func(b *cryptobyte.Builder) {
				b.AddASN1ObjectIdentifier(oid.KeyUsage)
				b.AddASN1OctetString(usage)
			})
		}
	})
	der, err := b.Bytes()
	if err != nil {
		t.Fatal(err)
	}

	x := NewExtensions()
	if err := x.Decode(der); err != nil {
		t.Fatalf("Decode() unexpected error: %v", err)
	}
	if x.Len() != 1 {
		t.Errorf("Len() = %d, want 1", x.Len())
	}
	if diff := cmp.Diff([]asn1.ObjectIdentifier{oid.KeyUsage}, x.Duplicates()); diff != "" {
		t.Errorf("Duplicates mismatch (-want +got):\n%s", diff)
	}
	ku, _, _ := As[*KeyUsage](x, oid.KeyUsage)
	if ku.Constraints != DigitalSignature {
		t.Errorf("kept %v, want the first occurrence", ku.Constraints)
	}

	if err := NewExtensions().Decode(append(der, 0x00)); !errors.Is(err, domain.ErrDecoding) {
		t.Errorf("Decode(trailing) error = %v, want ErrDecoding", err)
	}
}

func TestExtensions_MalformedBodyBecomesUnknown(t *testing.T) {
	var b cryptobyte.Builder
	b.AddASN1(cbasn1.SEQUENCE, func(b *cryptobyte.Builder) {
		b.AddASN1(cbasn1.SEQUENCE, func(b *cryptobyte.Builder) {
			b.AddASN1ObjectIdentifier(oid.BasicConstraints)
			b.AddASN1Boolean(true)
			b.AddASN1OctetString([]byte{0x05, 0x00})
		})
	})
	der, err := b.Bytes()
	if err != nil {
		t.Fatal(err)
	}

	x := NewExtensions()
	if err := x.Decode(der); err != nil {
		t.Fatalf("Decode() unexpected error: %v", err)
	}
	ext, ok, err := x.Get(oid.BasicConstraints)
	if err != nil || !ok {
		t.Fatalf("Get() = %v, %v", ok, err)
	}
	if _, isUnknown := ext.(*Unknown); !isUnknown {
		t.Errorf("Get() = %T, want *Unknown", ext)
	}
	if _, ok, _ := As[*BasicConstraints](x, oid.BasicConstraints); ok {
		t.Error("As[*BasicConstraints]() found a body that failed to decode")
	}

	reencoded, err := x.Encode()
	if err != nil {
		t.Fatalf("Encode() unexpected error: %v", err)
	}
	if !cmp.Equal(der, reencoded) {
		t.Errorf("Encode() = % x, want % x", reencoded, der)
	}
}

func TestExtensions_ShouldEncode(t *testing.T) {
	x := NewExtensions()
	if err := x.Add(&CRLNumber{}, false); err != nil {
		t.Fatalf("Add(unset CRL number) unexpected error: %v", err)
	}
	if err := x.Add(NewCRLReasonCode(ReasonUnspecified), false); err != nil {
		t.Fatalf("Add(unspecified reason) unexpected error: %v", err)
	}
	if err := x.Add(NewKeyUsage(DigitalSignature), false); err != nil {
		t.Fatal(err)
	}

	der, err := x.Encode()
	if err != nil {
		t.Fatalf("Encode() unexpected error: %v", err)
	}
	decoded := NewExtensions()
	if err := decoded.Decode(der); err != nil {
		t.Fatalf("Decode() unexpected error: %v", err)
	}
	if diff := cmp.Diff([]asn1.ObjectIdentifier{oid.KeyUsage}, decoded.OIDs()); diff != "" {
		t.Errorf("OIDs mismatch (-want +got):\n%s", diff)
	}
}

func TestExtensions_AddDecodeOnly(t *testing.T) {
	err := NewExtensions().Add(&CRLDistributionPoints{}, false)
	if !errors.Is(err, domain.ErrNotImplemented) {
		t.Errorf("Add(CRLDistributionPoints) error = %v, want ErrNotImplemented", err)
	}
}

func TestExtensions_ContentsTo(t *testing.T) {
	x := fullCollection(t)
	subject, issuer := domain.NewAttributeStore(), domain.NewAttributeStore()
	x.ContentsTo(subject, issuer)

	checks := []struct {
		store *domain.AttributeStore
		key   string
		want  string
	}{
		{subject, "X509v3.BasicConstraints.is_critical", "true"},
		{subject, "X509v3.SubjectKeyIdentifier.is_critical", "false"},
		{subject, "1.3.6.1.4.1.99999.7.is_critical", "false"},
		{subject, "X509v3.KeyUsage", "1536"},
		{subject, "DNS", "ca.example.com"},
		{subject, "X509v3.NameConstraints.permitted", "DNS:example.com"},
		{subject, "OCSP.responder", "http://ocsp.example.com"},
		{issuer, "X509v3.AuthorityKeyIdentifier", "05060708"},
	}
	for _, c := range checks {
		if got := c.store.First(c.key); got != c.want {
			t.Errorf("%s = %q, want %q", c.key, got, c.want)
		}
	}
	if issuer.Has("X509v3.AuthorityKeyIdentifier.is_critical") {
		t.Error("criticality recorded in the issuer store")
	}
}

func TestExtensions_Remove(t *testing.T) {
	x := fullCollection(t)
	n := x.Len()
	if !x.Remove(oid.KeyUsage) {
		t.Fatal("Remove() = false for a present extension")
	}
	if x.Remove(oid.KeyUsage) {
		t.Error("Remove() = true for an absent extension")
	}
	if x.Len() != n-1 || x.ExtensionSet(oid.KeyUsage) {
		t.Errorf("Len() = %d, ExtensionSet = %v", x.Len(), x.ExtensionSet(oid.KeyUsage))
	}
	if len(x.OIDs()) != len(x.Raw()) {
		t.Error("order list and entries disagree")
	}
}
