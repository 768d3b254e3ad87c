package oid

import "encoding/asn1"

// Table is a read-only bidirectional mapping between identifiers and names.
type Table struct {
	byOID  map[string]string
	byName map[string]asn1.ObjectIdentifier
}

// Entry is one row of a name table.
type Entry struct {
	OID  asn1.ObjectIdentifier
	Name string
}

// NewTable builds a table from entries. Later duplicates of a name or OID are ignored.
func NewTable(entries []Entry) *Table {
	t := &Table{
		byOID:  make(map[string]string, len(entries)),
		byName: make(map[string]asn1.ObjectIdentifier, len(entries)),
	}
	for _, e := range entries {
		key := e.OID.String()
		if _, ok := t.byOID[key]; !ok {
			t.byOID[key] = e.Name
		}
		if _, ok := t.byName[e.Name]; !ok {
			t.byName[e.Name] = Clone(e.OID)
		}
	}
	return t
}

// Lookup returns the registered name for id.
func (t *Table) Lookup(id asn1.ObjectIdentifier) (string, bool) {
	name, ok := t.byOID[id.String()]
	return name, ok
}

// Resolve returns the identifier registered under name.
func (t *Table) Resolve(name string) (asn1.ObjectIdentifier, bool) {
	id, ok := t.byName[name]
	if !ok {
		return nil, false
	}
	return Clone(id), true
}

var defaultTable = NewTable([]Entry{
	{SubjectKeyIdentifier, "X509v3.SubjectKeyIdentifier"},
	{KeyUsage, "X509v3.KeyUsage"},
	{SubjectAlternativeName, "X509v3.SubjectAlternativeName"},
	{IssuerAlternativeName, "X509v3.IssuerAlternativeName"},
	{BasicConstraints, "X509v3.BasicConstraints"},
	{CRLNumber, "X509v3.CRLNumber"},
	{CRLReasonCode, "X509v3.ReasonCode"},
	{CRLIssuingDistributionPoint, "X509v3.CRLIssuingDistributionPoint"},
	{NameConstraints, "X509v3.NameConstraints"},
	{CRLDistributionPoints, "X509v3.CRLDistributionPoints"},
	{CertificatePolicies, "X509v3.CertificatePolicies"},
	{AuthorityKeyIdentifier, "X509v3.AuthorityKeyIdentifier"},
	{ExtendedKeyUsage, "X509v3.ExtendedKeyUsage"},
	{AuthorityInformationAccess, "PKIX.AuthorityInformationAccess"},
	{AccessMethodOCSP, "PKIX.OCSP"},
	{AccessMethodCAIssuers, "PKIX.CertificateAuthorityIssuers"},
	{AnyPolicy, "X509v3.AnyPolicy"},
	{ExtKeyUsageAny, "X509v3.AnyExtendedKeyUsage"},
	{ExtKeyUsageServerAuth, "PKIX.ServerAuth"},
	{ExtKeyUsageClientAuth, "PKIX.ClientAuth"},
	{ExtKeyUsageCodeSigning, "PKIX.CodeSigning"},
	{ExtKeyUsageEmailProtection, "PKIX.EmailProtection"},
	{ExtKeyUsageIPSECEndSystem, "PKIX.IPsecEndSystem"},
	{ExtKeyUsageIPSECTunnel, "PKIX.IPsecTunnel"},
	{ExtKeyUsageIPSECUser, "PKIX.IPsecUser"},
	{ExtKeyUsageTimeStamping, "PKIX.TimeStamping"},
	{ExtKeyUsageOCSPSigning, "PKIX.OCSPSigning"},
	{ExtKeyUsageMicrosoftSGC, "Microsoft.ServerGatedCrypto"},
	{ExtKeyUsageNetscapeSGC, "Netscape.ServerGatedCrypto"},
	{ExtKeyUsageMicrosoftCodeSign, "Microsoft.CommercialCodeSigning"},

	{RSAEncryption, "RSA"},
	{RSAESOAEP, "RSA/OAEP"},
	{RSASSAPSS, "RSA/PSS"},
	{SHA1WithRSA, "RSA/SHA-1"},
	{SHA256WithRSA, "RSA/SHA-256"},
	{SHA384WithRSA, "RSA/SHA-384"},
	{SHA512WithRSA, "RSA/SHA-512"},
	{ECPublicKey, "ECDSA"},
	{ECDSAWithSHA256, "ECDSA/SHA-256"},
	{ECDSAWithSHA384, "ECDSA/SHA-384"},
	{ECDSAWithSHA512, "ECDSA/SHA-512"},
	{Ed25519, "Ed25519"},
	{Ed448, "Ed448"},
	{NamedCurveP256, "secp256r1"},
	{NamedCurveP384, "secp384r1"},
	{NamedCurveP521, "secp521r1"},
	{SecureHashSHA1, "SHA-1"},
	{SecureHashSHA256, "SHA-256"},

	{CommonName, "X520.CommonName"},
	{Surname, "X520.Surname"},
	{SerialNumber, "X520.SerialNumber"},
	{Country, "X520.Country"},
	{Locality, "X520.Locality"},
	{State, "X520.State"},
	{StreetAddress, "X520.StreetAddress"},
	{Organization, "X520.Organization"},
	{OrganizationalUnit, "X520.OrganizationalUnit"},
	{Title, "X520.Title"},
	{PostalCode, "X520.PostalCode"},
	{GivenName, "X520.GivenName"},
	{Pseudonym, "X520.Pseudonym"},
	{EmailAddress, "PKCS9.EmailAddress"},
	{DomainComponent, "X520.DomainComponent"},
	{UserID, "X520.UserID"},
	{OtherNameUPN, "Microsoft.UserPrincipalName"},
	{OtherNameSmtpUTF8Mbox, "PKIX.SmtpUTF8Mailbox"},
	{OtherNameXMPPAddr, "PKIX.XMPPAddr"},
	{OtherNameHardwareModel, "PKIX.HardwareModuleName"},
})

// Name returns the registered name of id, or its dotted form when none is known.
func Name(id asn1.ObjectIdentifier) string {
	if name, ok := defaultTable.Lookup(id); ok {
		return name
	}
	return id.String()
}

// FromName resolves a registered name, or parses a dotted identifier.
func FromName(name string) (asn1.ObjectIdentifier, bool) {
	if id, ok := defaultTable.Resolve(name); ok {
		return id, true
	}
	id, err := Parse(name)
	if err != nil {
		return nil, false
	}
	return id, true
}

// Known reports whether id has a registered name.
func Known(id asn1.ObjectIdentifier) bool {
	_, ok := defaultTable.Lookup(id)
	return ok
}
