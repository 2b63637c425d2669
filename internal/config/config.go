// Package config holds the runtime configuration of modelseal.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Mode selects what the processor does with each file.
type Mode string

const (
	// ModeEncrypt seals plaintext files.
	ModeEncrypt Mode = "encrypt"
	// ModeDecrypt opens sealed files.
	ModeDecrypt Mode = "decrypt"
	// ModeVerify authenticates sealed files without writing anything.
	ModeVerify Mode = "verify"
)

// ErrInvalid is returned when the configuration does not pass validation.
var ErrInvalid = errors.New("invalid configuration")

// Config represents the application configuration, populated from flags and MODELSEAL_* variables.
type Config struct {
	// Passphrase used to derive the key
	Key string `mapstructure:"key" yaml:"key" validate:"required_without=KeyFile,excluded_with=KeyFile"`
	// Path to a file containing the passphrase
	KeyFile string `mapstructure:"key-file" yaml:"key-file" validate:"required_without=Key,excluded_with=Key"`

	// Extension given to sealed files, replacing the original extension
	Ext string `mapstructure:"ext" yaml:"ext" validate:"required,startswith=.,excludesall=/\\"`
	// Extension appended to restored files after stripping Ext
	RestoreExt string `mapstructure:"restore-ext" yaml:"restore-ext" validate:"excludesall=/\\"`
	// Explicit output path for a single decrypted file
	Output string `mapstructure:"output" yaml:"output"`

	Parallel           int  `mapstructure:"parallel" yaml:"parallel" validate:"min=1"`
	Quiet              bool `mapstructure:"quiet" yaml:"quiet"`
	Verbose            bool `mapstructure:"verbose" yaml:"verbose"`
	Delete             bool `mapstructure:"delete" yaml:"delete"`
	Stats              bool `mapstructure:"stats" yaml:"stats"`
	Dry                bool `mapstructure:"dry" yaml:"dry"`
	PreserveTimestamps bool `mapstructure:"preserve-timestamps" yaml:"preserve-timestamps"`
	Show               bool `mapstructure:"show" yaml:"-"`

	Include     []string `mapstructure:"include" yaml:"include,omitempty"`
	Exclude     []string `mapstructure:"exclude" yaml:"exclude,omitempty"`
	IncludeFrom string   `mapstructure:"include-from" yaml:"include-from,omitempty"`
	ExcludeFrom string   `mapstructure:"exclude-from" yaml:"exclude-from,omitempty"`

	// Set by the subcommand
	Mode Mode `mapstructure:"-" yaml:"mode" validate:"oneof=encrypt decrypt verify"`

	// Positional arguments
	Files []string `mapstructure:"-" yaml:"files" validate:"min=1"`
}

// Validate validates the configuration against the struct tags and cross-field rules.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	if c.Output != "" {
		if c.Mode != ModeDecrypt {
			return fmt.Errorf("%w: --output is only valid when decrypting", ErrInvalid)
		}

		if len(c.Files) != 1 {
			return fmt.Errorf("%w: --output requires exactly one input file", ErrInvalid)
		}
	}

	if c.Quiet && c.Verbose {
		return fmt.Errorf("%w: --quiet and --verbose are mutually exclusive", ErrInvalid)
	}

	return nil
}

// Passphrase returns the passphrase from the flag or from the key file.
// A single trailing newline in the key file is ignored.
func (c *Config) Passphrase() (string, error) {
	if c.KeyFile == "" {
		return c.Key, nil
	}

	data, err := os.ReadFile(c.KeyFile)
	if err != nil {
		return "", fmt.Errorf("reading key file: %w", err)
	}

	passphrase := strings.TrimSuffix(string(data), "\n")

	return strings.TrimSuffix(passphrase, "\r"), nil
}

// Redacted returns a copy safe for display.
func (c Config) Redacted() Config {
	if c.Key != "" {
		c.Key = "<redacted>"
	}

	return c
}
