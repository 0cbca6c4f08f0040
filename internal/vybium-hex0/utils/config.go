package utils

import (
	"fmt"
)

// Config represents the configuration for receipt generation and verification
type Config struct {
	// Number of transcript-sampled transitions opened in a receipt, in
	// addition to the first and last one
	NumQueries int

	// Hash function driving the Fiat-Shamir channel
	HashFunction string // "sha3" or "sha256"
}

// MaxQueries bounds NumQueries so receipts stay small.
const MaxQueries = 1024

// DefaultConfig returns the configuration used by the CLI
func DefaultConfig() *Config {
	return &Config{
		NumQueries:   40,
		HashFunction: "sha3",
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.NumQueries < 0 {
		return fmt.Errorf("number of queries must not be negative, got %d", c.NumQueries)
	}

	if c.NumQueries > MaxQueries {
		return fmt.Errorf("number of queries (%d) exceeds the maximum of %d", c.NumQueries, MaxQueries)
	}

	if c.HashFunction != "sha256" && c.HashFunction != "sha3" {
		return fmt.Errorf("hash function must be 'sha256' or 'sha3', got '%s'", c.HashFunction)
	}

	return nil
}

// WithNumQueries sets the number of queries
func (c *Config) WithNumQueries(queries int) *Config {
	c.NumQueries = queries
	return c
}

// WithHashFunction sets the hash function
func (c *Config) WithHashFunction(hashFunc string) *Config {
	c.HashFunction = hashFunc
	return c
}

// Clone creates a copy of the configuration
func (c *Config) Clone() *Config {
	return &Config{
		NumQueries:   c.NumQueries,
		HashFunction: c.HashFunction,
	}
}
