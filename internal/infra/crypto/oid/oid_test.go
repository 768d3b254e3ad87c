//go:build !integration && !e2e

package oid

import (
	"encoding/asn1"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    asn1.ObjectIdentifier
		wantErr bool
	}{
		{in: "2.5.29.19", want: BasicConstraints},
		{in: "1.3.6.1.5.5.7.48.1", want: AccessMethodOCSP},
		{in: "", wantErr: true},
		{in: "1", wantErr: true},
		{in: "1.2.x", wantErr: true},
		{in: "1.-2.3", wantErr: true},
		{in: "3.1", wantErr: true},
		{in: "1.40", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Errorf("Parse(%q) expected error, got %v", tt.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q) unexpected error: %v", tt.in, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("Parse(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestCompare(t *testing.T) {
	tests := []struct {
		a, b asn1.ObjectIdentifier
		want int
	}{
		{asn1.ObjectIdentifier{1, 2, 3}, asn1.ObjectIdentifier{1, 2, 3}, 0},
		{asn1.ObjectIdentifier{1, 2}, asn1.ObjectIdentifier{1, 2, 3}, -1},
		{asn1.ObjectIdentifier{1, 3}, asn1.ObjectIdentifier{1, 2, 3}, 1},
		{asn1.ObjectIdentifier{2, 5, 29, 9}, asn1.ObjectIdentifier{2, 5, 29, 10}, -1},
	}

	for _, tt := range tests {
		if got := Compare(tt.a, tt.b); got != tt.want {
			t.Errorf("Compare(%v, %v) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
		if got := Compare(tt.b, tt.a); got != -tt.want {
			t.Errorf("Compare(%v, %v) = %d, want %d", tt.b, tt.a, got, -tt.want)
		}
	}
}

func TestNameTable(t *testing.T) {
	if got := Name(NameConstraints); got != "X509v3.NameConstraints" {
		t.Errorf("Name(NameConstraints) = %q", got)
	}
	if got := Name(asn1.ObjectIdentifier{1, 2, 3, 4}); got != "1.2.3.4" {
		t.Errorf("Name(unregistered) = %q, want dotted form", got)
	}

	id, ok := FromName("X520.CommonName")
	if !ok || !id.Equal(CommonName) {
		t.Errorf("FromName(X520.CommonName) = %v, %v", id, ok)
	}
	id, ok = FromName("1.2.3.4")
	if !ok || !id.Equal(asn1.ObjectIdentifier{1, 2, 3, 4}) {
		t.Errorf("FromName(dotted) = %v, %v", id, ok)
	}
	if _, ok := FromName("No.Such.Name"); ok {
		t.Error("FromName(No.Such.Name) should fail")
	}

	// Callers must not be able to mutate the table through returned values.
	id, _ = FromName("X509v3.KeyUsage")
	id[3] = 99
	if again, _ := FromName("X509v3.KeyUsage"); !again.Equal(KeyUsage) {
		t.Error("table entry was mutated through a returned identifier")
	}
}
