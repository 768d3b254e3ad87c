// Package certificate parses X.509 certificates into immutable records.
package certificate

import (
	"bytes"
	"encoding/pem"
	"fmt"

	"reactor.de/certext/internal/domain"
)

// Certificate starts unparsed and becomes parsed after one successful Decode.
type Certificate struct {
	parser *Parser
	record *Record
}

// NewCertificate returns an unparsed certificate that decodes with p.
func NewCertificate(p *Parser) *Certificate {
	if p == nil {
		p = NewParser(nil, nil)
	}
	return &Certificate{parser: p}
}

// Decode parses der. A certificate can only be decoded once.
func (c *Certificate) Decode(der []byte) error {
	if c.record != nil {
		return fmt.Errorf("%w: certificate already decoded", domain.ErrInvalidState)
	}
	r, err := c.parser.Parse(der)
	if err != nil {
		return err
	}
	c.record = r
	return nil
}

// Parsed reports whether Decode has succeeded.
func (c *Certificate) Parsed() bool { return c.record != nil }

// Record returns the parsed data.
func (c *Certificate) Record() (*Record, error) {
	if c.record == nil {
		return nil, fmt.Errorf("%w: certificate is not initialized", domain.ErrInvalidState)
	}
	return c.record, nil
}

// Parse decodes a DER certificate with the default parser.
func Parse(der []byte) (*Record, error) {
	return NewParser(nil, nil).Parse(der)
}

// ParsePEM decodes the first CERTIFICATE block of data.
func (p *Parser) ParsePEM(data []byte) (*Record, error) {
	chain, err := p.ParsePEMChain(data)
	if err != nil {
		return nil, err
	}
	return chain[0], nil
}

// ParsePEMChain decodes every CERTIFICATE block of data in order. Other
// block types are skipped.
func (p *Parser) ParsePEMChain(data []byte) ([]*Record, error) {
	var out []*Record
	rest := data
	for {
		var block *pem.Block
		block, rest = pem.Decode(rest)
		if block == nil {
			break
		}
		if block.Type != "CERTIFICATE" {
			continue
		}
		r, err := p.Parse(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("certificate %d: %w", len(out)+1, err)
		}
		out = append(out, r)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: no PEM block containing a certificate", domain.ErrDecoding)
	}
	return out, nil
}

// ParseAny accepts PEM or DER input.
func (p *Parser) ParseAny(data []byte) ([]*Record, error) {
	if bytes.Contains(data, []byte("-----BEGIN")) {
		return p.ParsePEMChain(data)
	}
	r, err := p.Parse(data)
	if err != nil {
		return nil, err
	}
	return []*Record{r}, nil
}

// EncodePEM returns r as a PEM CERTIFICATE block.
func EncodePEM(r *Record) []byte {
	return pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: r.der})
}
