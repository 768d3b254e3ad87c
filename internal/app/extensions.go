package app

import (
	"bytes"
	"encoding/base64"
	"encoding/hex"
	"encoding/pem"
	"fmt"
	"strings"

	"reactor.de/certext/internal/domain"
	"reactor.de/certext/internal/infra/crypto/extensions"
)

// Output formats for encoded extensions.
const (
	FormatHex    = "hex"
	FormatBase64 = "base64"
	FormatDER    = "der"
	FormatPEM    = "pem"
)

// BuildExtensions reads the profile at path and encodes its extensions section.
func (a *Application) BuildExtensions(path string) (*extensions.Extensions, []byte, error) {
	cfg, err := a.LoadProfile(path)
	if err != nil {
		return nil, nil, err
	}
	x, err := a.registry.BuildExtensions(cfg.Extensions)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	der, err := x.Encode()
	if err != nil {
		return nil, nil, err
	}
	a.logger.Info("built %d extensions (%d bytes) from %s", x.Len(), len(der), path)
	return x, der, nil
}

// EncodeOutput renders der in the named format.
func EncodeOutput(der []byte, format string) ([]byte, error) {
	switch format {
	case FormatHex, "":
		return []byte(hex.EncodeToString(der) + "\n"), nil
	case FormatBase64:
		return []byte(base64.StdEncoding.EncodeToString(der) + "\n"), nil
	case FormatDER:
		return der, nil
	case FormatPEM:
		return pem.EncodeToMemory(&pem.Block{Type: "X509 EXTENSIONS", Bytes: der}), nil
	default:
		return nil, fmt.Errorf("%w: unknown output format %q", domain.ErrInvalidArgument, format)
	}
}

// ReadEncodedInput interprets input as "hex:..." or "base64:" data, the
// name of an existing file, or bare hex, in that order. Files may hold
// raw DER, PEM, or hex or base64 text.
func (a *Application) ReadEncodedInput(input string) ([]byte, error) {
	switch {
	case strings.HasPrefix(input, "hex:"):
		return decodeHex(strings.TrimPrefix(input, "hex:"))
	case strings.HasPrefix(input, "base64:"):
		return decodeBase64(strings.TrimPrefix(input, "base64:"))
	}

	exists, err := a.store.Exists(input)
	if err != nil {
		return nil, err
	}
	if !exists {
		return decodeHex(input)
	}

	data, err := a.store.Read(input)
	if err != nil {
		return nil, err
	}
	if block, _ := pem.Decode(data); block != nil {
		return block.Bytes, nil
	}
	text := bytes.TrimSpace(data)
	if len(text) > 0 && text[0] == 0x30 {
		return data, nil
	}
	if der, err := decodeHex(string(text)); err == nil {
		return der, nil
	}
	return decodeBase64(string(text))
}

func decodeHex(s string) ([]byte, error) {
	s = strings.Join(strings.Fields(strings.ReplaceAll(s, ":", "")), "")
	der, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid hex input: %v", domain.ErrInvalidArgument, err)
	}
	return der, nil
}

func decodeBase64(s string) ([]byte, error) {
	der, err := base64.StdEncoding.DecodeString(strings.Join(strings.Fields(s), ""))
	if err != nil {
		return nil, fmt.Errorf("%w: invalid base64 input: %v", domain.ErrInvalidArgument, err)
	}
	return der, nil
}

// DecodeExtensions decodes an encoded Extensions SEQUENCE.
func (a *Application) DecodeExtensions(der []byte) (*extensions.Extensions, error) {
	x := extensions.NewExtensionsWithRegistry(a.registry)
	if err := x.Decode(der); err != nil {
		a.logger.Error("failed to decode extensions: %v", err)
		return nil, err
	}
	for _, e := range x.Raw() {
		if !a.registry.Knows(e.OID) {
			a.logger.Info("extension %s kept as unknown", e.OID)
		}
	}
	return x, nil
}

// WriteOutput stores data at path.
func (a *Application) WriteOutput(path string, data []byte) error {
	if err := a.store.Write(path, data); err != nil {
		return err
	}
	a.logger.Info("wrote %d bytes to %s", len(data), path)
	return nil
}

// ListExtensions returns the profile names of the registered extensions.
func (a *Application) ListExtensions() []string {
	return a.registry.ListExtensions()
}
