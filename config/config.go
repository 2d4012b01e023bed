// Package config is the YAML-driven runtime configuration for both the
// bundle producer and the validator (spec.md §6 "Tunable parameters"),
// grounded on the teacher's fw/core.Config field layout and its
// std/utils/toolutils.ReadYaml loader built on goccy/go-yaml.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-yaml"
)

// Config holds every tunable spec.md §6 names, with the documented
// defaults applied by Default().
type Config struct {
	Producer struct {
		// MaxBundleSize is the certificate-chain depth cap (default 25).
		MaxBundleSize int `yaml:"max_bundle_size"`
		// SigningKeyName is the identity key the producer's own Data is
		// signed with; bundle segments are always DigestSha256 regardless.
		SigningKeyName string `yaml:"signing_key_name"`
		// PibPath is the sqlite PIB database file.
		PibPath string `yaml:"pib_path"`
		// StorePath is the badger content-store directory ("" uses an
		// in-memory store instead).
		StorePath string `yaml:"store_path"`
	} `yaml:"producer"`

	Validator struct {
		// BundleInterestLifetimeMs is the lifetime on the first (discovery)
		// bundle interest, in milliseconds (default 100000); later segment
		// interests use the default interest lifetime.
		BundleInterestLifetimeMs uint64 `yaml:"bundle_interest_lifetime_ms"`
		// CertCacheCapacity bounds the in-memory certificate cache; 0 means
		// unbounded (spec.md §6 default).
		CertCacheCapacity int `yaml:"cert_cache_capacity"`
		// NRetries is the per-step direct-fetch retry budget (default 3).
		NRetries int `yaml:"n_retries"`
		// MaxDepth bounds signer-of-signer recursion (default 10).
		MaxDepth int `yaml:"max_depth"`
		// TrustAnchorCertPaths lists files holding TLV-encoded certificate
		// Data packets to load as trust anchors at startup.
		TrustAnchorCertPaths []string `yaml:"trust_anchor_certs"`
	} `yaml:"validator"`

	Face struct {
		// Network is "unix" or "tcp" (matching the teacher's face config
		// naming), selecting which Face constructor dialEngine uses.
		Network string `yaml:"network"`
		// Addr is the socket path (unix) or host:port (tcp).
		Addr string `yaml:"addr"`
	} `yaml:"face"`
}

// Default returns a Config with every spec.md §6 default applied.
func Default() *Config {
	c := &Config{}
	c.Producer.MaxBundleSize = 25
	c.Producer.PibPath = "pib.db"
	c.Validator.BundleInterestLifetimeMs = 100_000
	c.Validator.CertCacheCapacity = 0
	c.Validator.NRetries = 3
	c.Validator.MaxDepth = 10
	c.Face.Network = "unix"
	c.Face.Addr = "/run/nfd/nfd.sock"
	return c
}

// BundleInterestLifetime returns the validator's bundle interest
// lifetime as a time.Duration.
func (c *Config) BundleInterestLifetime() time.Duration {
	return time.Duration(c.Validator.BundleInterestLifetimeMs) * time.Millisecond
}

// Load reads and strictly decodes a YAML config file over top of
// Default()'s values: fields absent from the file keep their default.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	defer f.Close()

	c := Default()
	dec := yaml.NewDecoder(f, yaml.Strict())
	if err := dec.Decode(c); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return c, nil
}
