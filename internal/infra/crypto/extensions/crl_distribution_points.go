package extensions

import (
	"encoding/asn1"
	"fmt"

	"golang.org/x/crypto/cryptobyte"
	cbasn1 "golang.org/x/crypto/cryptobyte/asn1"
	"reactor.de/certext/internal/domain"
	"reactor.de/certext/internal/infra/crypto/generalname"
	"reactor.de/certext/internal/infra/crypto/oid"
)

// reasonFlagNames lists the ReasonFlags bits in bit order.
var reasonFlagNames = []string{
	"unused", "key_compromise", "ca_compromise", "affiliation_changed",
	"superseded", "cessation_of_operation", "certificate_hold",
	"privilege_withdrawn", "aa_compromise",
}

// DistributionPoint is a single CRL distribution point. Only the fullName
// form of the point name is kept.
type DistributionPoint struct {
	Names     generalname.AlternativeName
	Reasons   []string
	CRLIssuer generalname.AlternativeName
}

// CRLDistributionPoints implements the X.509 CRL Distribution Points extension (RFC 5280).
// It can be decoded but not encoded.
type CRLDistributionPoints struct {
	base
	Points []DistributionPoint
}

func (e *CRLDistributionPoints) OID() asn1.ObjectIdentifier { return oid.CRLDistributionPoints }

func (e *CRLDistributionPoints) Name() string { return oid.Name(oid.CRLDistributionPoints) }

func (e *CRLDistributionPoints) Encode() ([]byte, error) {
	return nil, fmt.Errorf("%w: encoding CRL distribution points", domain.ErrNotImplemented)
}

func (e *CRLDistributionPoints) Decode(der []byte) error {
	input := cryptobyte.String(der)
	var seq cryptobyte.String
	if !input.ReadASN1(&seq, cbasn1.SEQUENCE) || !input.Empty() {
		return fmt.Errorf("%w: invalid CRL distribution points", domain.ErrDecoding)
	}

	var points []DistributionPoint
	for !seq.Empty() {
		var dp cryptobyte.String
		if !seq.ReadASN1(&dp, cbasn1.SEQUENCE) {
			return fmt.Errorf("%w: invalid distribution point", domain.ErrDecoding)
		}
		point, err := readDistributionPoint(dp)
		if err != nil {
			return err
		}
		points = append(points, point)
	}
	e.Points = points
	return nil
}

func readDistributionPoint(dp cryptobyte.String) (DistributionPoint, error) {
	var point DistributionPoint

	names, err := readDistributionPointName(&dp)
	if err != nil {
		return point, err
	}
	point.Names = names

	var reasons cryptobyte.String
	var hasReasons bool
	if !dp.ReadOptionalASN1(&reasons, &hasReasons, cbasn1.Tag(1).ContextSpecific()) {
		return point, fmt.Errorf("%w: invalid distribution point reasons", domain.ErrDecoding)
	}
	if hasReasons {
		if point.Reasons, err = decodeReasonFlags(reasons); err != nil {
			return point, err
		}
	}

	var issuer cryptobyte.String
	var hasIssuer bool
	if !dp.ReadOptionalASN1(&issuer, &hasIssuer, cbasn1.Tag(2).ContextSpecific().Constructed()) {
		return point, fmt.Errorf("%w: invalid distribution point cRLIssuer", domain.ErrDecoding)
	}
	if hasIssuer {
		if err := point.CRLIssuer.ReadNames(issuer); err != nil {
			return point, err
		}
	}

	if !dp.Empty() {
		return point, fmt.Errorf("%w: trailing data in distribution point", domain.ErrDecoding)
	}
	return point, nil
}

// readDistributionPointName reads the optional [0] DistributionPointName.
// nameRelativeToCRLIssuer is accepted and ignored.
func readDistributionPointName(s *cryptobyte.String) (generalname.AlternativeName, error) {
	var names generalname.AlternativeName

	var dpName cryptobyte.String
	var present bool
	if !s.ReadOptionalASN1(&dpName, &present, cbasn1.Tag(0).ContextSpecific().Constructed()) {
		return names, fmt.Errorf("%w: invalid distribution point name", domain.ErrDecoding)
	}
	if !present {
		return names, nil
	}

	var content cryptobyte.String
	var tag cbasn1.Tag
	if !dpName.ReadAnyASN1(&content, &tag) || !dpName.Empty() {
		return names, fmt.Errorf("%w: invalid distribution point name", domain.ErrDecoding)
	}
	switch tag {
	case cbasn1.Tag(0).ContextSpecific().Constructed():
		if err := names.ReadNames(content); err != nil {
			return names, err
		}
	case cbasn1.Tag(1).ContextSpecific().Constructed():
	default:
		return names, fmt.Errorf("%w: unexpected distribution point name tag %#x", domain.ErrDecoding, uint8(tag))
	}
	return names, nil
}

func decodeReasonFlags(content cryptobyte.String) ([]string, error) {
	if len(content) == 0 || content[0] >= 8 {
		return nil, fmt.Errorf("%w: invalid reason flags", domain.ErrDecoding)
	}
	bits := content[1:]
	var out []string
	for i, name := range reasonFlagNames {
		byteIndex := i / 8
		if byteIndex >= len(bits) {
			break
		}
		if bits[byteIndex]&(1<<(7-uint(i%8))) != 0 {
			out = append(out, name)
		}
	}
	return out, nil
}

// URLs returns the URI names of all distribution points in order.
func (e *CRLDistributionPoints) URLs() []string {
	var out []string
	for _, p := range e.Points {
		out = append(out, p.Names.URI...)
	}
	return out
}

func (e *CRLDistributionPoints) ContentsTo(subject, _ *domain.AttributeStore) {
	subject.AddAll("CRL.DistributionPoint", e.URLs())
}

func (e *CRLDistributionPoints) Copy() (Extension, error) {
	c := &CRLDistributionPoints{}
	for _, p := range e.Points {
		c.Points = append(c.Points, DistributionPoint{
			Names:     p.Names.Clone(),
			Reasons:   append([]string(nil), p.Reasons...),
			CRLIssuer: p.CRLIssuer.Clone(),
		})
	}
	return c, nil
}

// CRLIssuingDistributionPoint implements the CRL Issuing Distribution Point
// extension (RFC 5280). Only the distribution point name is kept; the scope
// flags are parsed over. It can be decoded but not encoded.
type CRLIssuingDistributionPoint struct {
	base
	Point DistributionPoint
}

func (e *CRLIssuingDistributionPoint) OID() asn1.ObjectIdentifier {
	return oid.CRLIssuingDistributionPoint
}

func (e *CRLIssuingDistributionPoint) Name() string {
	return oid.Name(oid.CRLIssuingDistributionPoint)
}

func (e *CRLIssuingDistributionPoint) Encode() ([]byte, error) {
	return nil, fmt.Errorf("%w: encoding CRL issuing distribution point", domain.ErrNotImplemented)
}

func (e *CRLIssuingDistributionPoint) Decode(der []byte) error {
	input := cryptobyte.String(der)
	var seq cryptobyte.String
	if !input.ReadASN1(&seq, cbasn1.SEQUENCE) || !input.Empty() {
		return fmt.Errorf("%w: invalid CRL issuing distribution point", domain.ErrDecoding)
	}
	names, err := readDistributionPointName(&seq)
	if err != nil {
		return err
	}
	for !seq.Empty() {
		var skipped cryptobyte.String
		var tag cbasn1.Tag
		if !seq.ReadAnyASN1(&skipped, &tag) || tag&0xc0 != 0x80 {
			return fmt.Errorf("%w: invalid CRL issuing distribution point field", domain.ErrDecoding)
		}
	}
	e.Point = DistributionPoint{Names: names}
	return nil
}

func (e *CRLIssuingDistributionPoint) ContentsTo(subject, _ *domain.AttributeStore) {
	subject.AddAll("X509v3.CRLIssuingDistributionPoint", e.Point.Names.URI)
}

func (e *CRLIssuingDistributionPoint) Copy() (Extension, error) {
	return &CRLIssuingDistributionPoint{Point: DistributionPoint{Names: e.Point.Names.Clone()}}, nil
}
