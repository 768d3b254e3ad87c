package domain

import (
	"fmt"
	"time"
)

// ProfileConfig holds the contents of an extension profile YAML file.
type ProfileConfig struct {
	Extensions ExtensionsConfig `yaml:"extensions"`
	Policy     PolicyConfig     `yaml:"policy"`
}

// PolicyConfig controls chain checking.
type PolicyConfig struct {
	MaxChainLength   int    `yaml:"max_chain_length"`
	VerifySignatures *bool  `yaml:"verify_signatures"`
	Now              string `yaml:"now"`
}

// DefaultMaxChainLength applies when a policy leaves max_chain_length unset.
const DefaultMaxChainLength = 8

// ChainLimit returns the configured chain length limit or the default.
func (p PolicyConfig) ChainLimit() int {
	if p.MaxChainLength <= 0 {
		return DefaultMaxChainLength
	}
	return p.MaxChainLength
}

// SignatureChecks reports whether signatures should be verified. Defaults to true.
func (p PolicyConfig) SignatureChecks() bool {
	if p.VerifySignatures == nil {
		return true
	}
	return *p.VerifySignatures
}

// ValidationTime returns the pinned validation time, if any.
func (p PolicyConfig) ValidationTime() (time.Time, bool, error) {
	if p.Now == "" {
		return time.Time{}, false, nil
	}
	t, err := time.Parse(time.RFC3339, p.Now)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("%w: policy.now: %v", ErrValidation, err)
	}
	return t, true, nil
}
