package app

import (
	"errors"
	"fmt"

	"reactor.de/certext/internal/domain"
	"reactor.de/certext/internal/infra/crypto/certificate"
	"reactor.de/certext/internal/infra/crypto/extensions"
	"reactor.de/certext/internal/infra/crypto/pathval"
)

// Application orchestrates the application's use cases.
type Application struct {
	logger       domain.Logger
	configLoader domain.ConfigLoader
	store        domain.Store
	hashes       domain.HashProvider
	registry     *extensions.Registry
	parser       *certificate.Parser
	clock        domain.Clock
}

// NewApplication creates a new Application instance.
func NewApplication(
	logger domain.Logger,
	configLoader domain.ConfigLoader,
	store domain.Store,
	hashes domain.HashProvider,
	registry *extensions.Registry,
	clock domain.Clock,
) *Application {
	return &Application{
		logger:       logger,
		configLoader: configLoader,
		store:        store,
		hashes:       hashes,
		registry:     registry,
		parser:       certificate.NewParser(hashes, registry),
		clock:        clock,
	}
}

// Hashes returns the hash provider used for fingerprints.
func (a *Application) Hashes() domain.HashProvider { return a.hashes }

// Clock returns the clock used for validity checks.
func (a *Application) Clock() domain.Clock { return a.clock }

// LoadProfile reads and validates the profile at path.
func (a *Application) LoadProfile(path string) (*domain.ProfileConfig, error) {
	data, err := a.store.Read(path)
	if err != nil {
		return nil, err
	}
	cfg, err := a.configLoader.ParseProfile(data)
	if err != nil {
		a.logger.Error("profile %s rejected: %v", path, err)
		return nil, err
	}
	a.logger.Info("loaded profile %s with %d extensions", path, len(cfg.Extensions))
	return cfg, nil
}

// LoadCertificates parses every certificate found in the given files, in order.
// Files may hold DER or one or more PEM blocks.
func (a *Application) LoadCertificates(paths ...string) ([]*certificate.Record, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w: no certificate files given", domain.ErrInvalidArgument)
	}
	var out []*certificate.Record
	for _, path := range paths {
		data, err := a.store.Read(path)
		if err != nil {
			return nil, err
		}
		records, err := a.parser.ParseAny(data)
		if err != nil {
			a.logger.Error("failed to parse %s: %v", path, err)
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		for _, r := range records {
			a.logger.Info("parsed %s: subject %q serial %s", path, r.SubjectDN(), r.SerialString())
			if dups := r.DuplicateExtensions(); len(dups) > 0 {
				a.logger.Warning("%s repeats extensions %v; the first occurrence is used", path, dups)
			}
		}
		out = append(out, records...)
	}
	return out, nil
}

// ChainReport is the outcome of a chain check.
type ChainReport struct {
	Chain  []*certificate.Record
	Status domain.ChainStatus
}

// ErrChainInvalid is returned by VerifyChain when any position has a status.
var ErrChainInvalid = errors.New("certificate chain has problems")

// VerifyChain loads the chain from paths, leaf first, and checks it under
// the policy of profilePath. An empty profilePath uses the default policy.
// The report is returned also when the chain has problems.
func (a *Application) VerifyChain(profilePath string, paths ...string) (*ChainReport, error) {
	var policy domain.PolicyConfig
	if profilePath != "" {
		cfg, err := a.LoadProfile(profilePath)
		if err != nil {
			return nil, err
		}
		policy = cfg.Policy
	}

	chain, err := a.LoadCertificates(paths...)
	if err != nil {
		return nil, err
	}

	validator, err := pathval.NewValidator(a.clock, policy)
	if err != nil {
		return nil, err
	}
	status, err := validator.Validate(chain)
	if err != nil {
		return nil, err
	}

	report := &ChainReport{Chain: chain, Status: status}
	if status.Clean() {
		a.logger.Info("chain of %d certificates verified", len(chain))
		return report, nil
	}
	for i, s := range status {
		for _, code := range s.Sorted() {
			a.logger.Warning("chain position %d: %s", i, code)
		}
	}
	return report, ErrChainInvalid
}
