//go:build !integration && !e2e

package extensions

import (
	"bytes"
	"errors"
	"testing"

	"reactor.de/certext/internal/domain"
)

func TestKeyUsage_Encode(t *testing.T) {
	tests := []struct {
		name string
		mask KeyConstraints
		want []byte
	}{
		{"digital signature", DigitalSignature, []byte{0x03, 0x02, 0x07, 0x80}},
		{"ca signing", KeyCertSign | CRLSign, []byte{0x03, 0x02, 0x01, 0x06}},
		{"tls server", DigitalSignature | KeyEncipherment, []byte{0x03, 0x02, 0x05, 0xa0}},
		{"decipher only", DecipherOnly, []byte{0x03, 0x03, 0x07, 0x00, 0x80}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewKeyUsage(tt.mask).Encode()
			if err != nil {
				t.Fatalf("Encode() unexpected error: %v", err)
			}
			if !bytes.Equal(got, tt.want) {
				t.Errorf("Encode() = % x, want % x", got, tt.want)
			}
		})
	}
}

func TestKeyUsage_EncodeEmpty(t *testing.T) {
	if _, err := NewKeyUsage(NoConstraints).Encode(); !errors.Is(err, domain.ErrEncoding) {
		t.Errorf("Encode() error = %v, want ErrEncoding", err)
	}
}

func TestKeyUsage_RoundTripAllMasks(t *testing.T) {
	for m := 1; m <= 0xFFFF; m++ {
		mask := KeyConstraints(m)
		der, err := NewKeyUsage(mask).Encode()
		if err != nil {
			t.Fatalf("Encode(%#04x) unexpected error: %v", m, err)
		}
		decoded := &KeyUsage{}
		if err := decoded.Decode(der); err != nil {
			t.Fatalf("Decode(Encode(%#04x)) unexpected error: %v", m, err)
		}
		if decoded.Constraints != mask {
			t.Fatalf("Decode(Encode(%#04x)) = %#04x", m, uint16(decoded.Constraints))
		}
	}
}

func TestKeyUsage_Decode(t *testing.T) {
	tests := []struct {
		name    string
		der     []byte
		want    KeyConstraints
		wantErr bool
	}{
		{"masks unused bits", []byte{0x03, 0x02, 0x07, 0xff}, DigitalSignature, false},
		{"two content bytes", []byte{0x03, 0x03, 0x07, 0x86, 0x80}, DigitalSignature | KeyCertSign | CRLSign | DecipherOnly, false},
		{"too short", []byte{0x03, 0x01, 0x00}, 0, true},
		{"too long", []byte{0x03, 0x04, 0x00, 0x80, 0x00, 0x00}, 0, true},
		{"unused bits out of range", []byte{0x03, 0x02, 0x08, 0x80}, 0, true},
		{"wrong tag", []byte{0x04, 0x02, 0x07, 0x80}, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ext := &KeyUsage{}
			err := ext.Decode(tt.der)
			if tt.wantErr {
				if !errors.Is(err, domain.ErrDecoding) {
					t.Fatalf("Decode() error = %v, want ErrDecoding", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Decode() unexpected error: %v", err)
			}
			if ext.Constraints != tt.want {
				t.Errorf("Decode() = %v, want %v", ext.Constraints, tt.want)
			}
		})
	}
}

func TestKeyConstraints_String(t *testing.T) {
	if got := NoConstraints.String(); got != "No Constraints" {
		t.Errorf("String() = %q", got)
	}
	if got := (DigitalSignature | CRLSign).String(); got != "Digital Signature, CRL Sign" {
		t.Errorf("String() = %q", got)
	}
	if !(KeyCertSign | CRLSign).Includes(KeyCertSign) {
		t.Error("Includes(KeyCertSign) = false")
	}
	if DigitalSignature.Includes(KeyCertSign) {
		t.Error("DigitalSignature.Includes(KeyCertSign) = true")
	}
}

func TestKeyUsage_ParseFromYAML(t *testing.T) {
	ext := &KeyUsage{}
	err := ext.ParseFromYAML(map[string]interface{}{
		"usages": []interface{}{"key_cert_sign", "crl_sign"},
	})
	if err != nil {
		t.Fatalf("ParseFromYAML() unexpected error: %v", err)
	}
	if ext.Constraints != KeyCertSign|CRLSign {
		t.Errorf("Constraints = %v", ext.Constraints)
	}

	for name, data := range map[string]map[string]interface{}{
		"missing usages": {},
		"unknown usage":  {"usages": []interface{}{"launch_missiles"}},
		"empty usages":   {"usages": []interface{}{}},
	} {
		t.Run(name, func(t *testing.T) {
			if err := (&KeyUsage{}).ParseFromYAML(data); err == nil {
				t.Error("ParseFromYAML() expected error")
			}
		})
	}
}
