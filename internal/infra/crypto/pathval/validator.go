// Package pathval checks an ordered certificate chain and records the
// problems found at each position.
package pathval

import (
	"fmt"
	"time"

	"reactor.de/certext/internal/domain"
	"reactor.de/certext/internal/infra/crypto/certificate"
	"reactor.de/certext/internal/infra/crypto/extensions"
)

// Validator runs the chain checks. Position 0 of a chain is the leaf and the
// last position the trust anchor.
type Validator struct {
	clock          domain.Clock
	pinned         time.Time
	hasPinned      bool
	maxChainLength int
	checkSigs      bool
}

// NewValidator returns a validator configured by policy. A pinned
// policy.now takes precedence over clock.
func NewValidator(clock domain.Clock, policy domain.PolicyConfig) (*Validator, error) {
	pinned, ok, err := policy.ValidationTime()
	if err != nil {
		return nil, err
	}
	return &Validator{
		clock:          clock,
		pinned:         pinned,
		hasPinned:      ok,
		maxChainLength: policy.ChainLimit(),
		checkSigs:      policy.SignatureChecks(),
	}, nil
}

func (v *Validator) now() time.Time {
	if v.hasPinned {
		return v.pinned
	}
	return v.clock.Now()
}

// Validate checks chain and returns one status set per position.
func (v *Validator) Validate(chain []*certificate.Record) (domain.ChainStatus, error) {
	if len(chain) == 0 {
		return nil, fmt.Errorf("%w: empty certificate chain", domain.ErrInvalidArgument)
	}

	status := domain.NewChainStatus(len(chain))
	views := make([]extensions.CertificateView, len(chain))
	for i, c := range chain {
		views[i] = c
	}
	now := v.now()

	if len(chain) > v.maxChainLength {
		status.Insert(0, domain.StatusCertChainTooLong)
	}

	for i, cert := range chain {
		anchor := i == len(chain)-1
		issuer := cert
		if !anchor {
			issuer = chain[i+1]
		}

		entries, err := cert.ExtensionList()
		if err != nil {
			return nil, fmt.Errorf("certificate %d: %w", i, err)
		}

		if cert.Version() < 3 && len(entries) > 0 {
			status.Insert(i, domain.StatusExtInV1V2Cert)
		}
		if len(cert.DuplicateExtensions()) > 0 {
			status.Insert(i, domain.StatusDuplicateCertExtension)
		}
		for _, e := range entries {
			if _, unknown := e.Extension.(*extensions.Unknown); unknown && e.Critical {
				status.Insert(i, domain.StatusUnknownCriticalExtension)
			}
		}

		if now.Before(cert.NotBefore()) {
			status.Insert(i, domain.StatusCertNotYetValid)
		}
		if now.After(cert.NotAfter()) {
			status.Insert(i, domain.StatusCertHasExpired)
		}

		if !anchor {
			if !cert.IssuerDN().Equal(issuer.SubjectDN()) {
				status.Insert(i, domain.StatusCertIssuerNotFound)
			}
			if !issuer.IsCACert() {
				status.Insert(i, domain.StatusCANotForCertIssuer)
			}
		}

		// Certificates between this CA and the leaf.
		if i > 0 && cert.IsCACert() && i-1 > cert.PathLimit() {
			status.Insert(i, domain.StatusCertChainTooLong)
		}

		if v.checkSigs && (!anchor || cert.IsSelfSigned()) {
			if err := cert.CheckSignatureFrom(issuer); err != nil {
				status.Insert(i, domain.StatusSignatureError)
			}
		}

		for _, e := range entries {
			e.Extension.Validate(cert, issuer, views, status, i)
		}
	}
	return status, nil
}
