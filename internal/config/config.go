package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"snaptree/internal/hash"
)

type Config struct {
	// Exclude holds extra ignore patterns, same syntax as ignore file lines.
	Exclude []string `yaml:"exclude"`
	// MaxFileBytes excludes larger files before reading them.
	MaxFileBytes int64 `yaml:"max_file_bytes"`
	// MaxTokens excludes files whose estimated token count is higher.
	MaxTokens int `yaml:"max_tokens"`
	// DigestLength is the number of hex characters kept per hash. Changing
	// it makes snapshots incomparable with previously saved manifests.
	DigestLength int `yaml:"digest_length"`
	// Algorithm selects the digest: sha256 (default) or xxhash.
	Algorithm string `yaml:"algorithm"`
	// Workers bounds concurrent file hashing. 1 keeps the walk serial.
	Workers int `yaml:"workers"`
	// Output is the default manifest path for scans, empty for stdout only.
	Output string `yaml:"output"`
}

func Default() *Config {
	return &Config{
		Exclude:      []string{},
		MaxFileBytes: 1_000_000,
		MaxTokens:    50_000,
		DigestLength: hash.DefaultHexLen,
		Algorithm:    string(hash.SHA256),
		Workers:      1,
	}
}

// Load reads a YAML config, falling back to defaults when the file does not
// exist. Fields left out of the file keep their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}

	if cfg.Exclude == nil {
		cfg.Exclude = []string{}
	}

	return cfg, nil
}

// Digest builds the fingerprint scheme the config describes.
func (c *Config) Digest() (hash.Digest, error) {
	return hash.New(hash.Algorithm(c.Algorithm), c.DigestLength)
}
