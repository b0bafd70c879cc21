package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rampradops28/final-app/internal/recognizer"
)

// DefaultInvoiceDir is used when invoice.output_dir is not set.
const DefaultInvoiceDir = "invoices"

// Load reads the YAML configuration file at path and returns a validated [Config].
// It is a convenience wrapper around [LoadFromReader] and [Validate].
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader decodes a YAML config from r and validates the result.
// Useful in tests where configs are constructed from string literals.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := &Config{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	applyDefaults(cfg)
	return cfg, nil
}

// applyDefaults fills unset fields after validation passed.
func applyDefaults(cfg *Config) {
	if cfg.Server.ListenAddr == "" {
		cfg.Server.ListenAddr = ":8080"
	}
	if cfg.Invoice.OutputDir == "" {
		cfg.Invoice.OutputDir = DefaultInvoiceDir
	}
}

// Validate checks that cfg contains a coherent set of values.
// It returns a joined error listing all validation failures found.
func Validate(cfg *Config) error {
	var errs []error

	// Server
	if cfg.Server.LogLevel != "" && !cfg.Server.LogLevel.IsValid() {
		errs = append(errs, fmt.Errorf("server.log_level %q is invalid; valid values: debug, info, warn, error", cfg.Server.LogLevel))
	}
	if cfg.Server.TLS != nil {
		if cfg.Server.TLS.CertFile == "" || cfg.Server.TLS.KeyFile == "" {
			errs = append(errs, errors.New("server.tls requires both cert_file and key_file"))
		}
	}

	// Voice
	if cfg.Voice.Language != "" && !recognizer.Language(cfg.Voice.Language).IsValid() {
		errs = append(errs, fmt.Errorf("voice.language %q is invalid; valid values: en-US, ta-IN, mixed", cfg.Voice.Language))
	}

	// Lexicon
	for i, p := range cfg.Lexicon.Products {
		if strings.TrimSpace(p) == "" {
			errs = append(errs, fmt.Errorf("lexicon.products[%d] is empty", i))
		}
	}
	for from, to := range cfg.Lexicon.Corrections {
		if strings.TrimSpace(to) == "" {
			errs = append(errs, fmt.Errorf("lexicon.corrections[%q] maps to an empty name", from))
		}
	}
	for from, to := range cfg.Lexicon.Transliterations {
		if strings.TrimSpace(to) == "" {
			errs = append(errs, fmt.Errorf("lexicon.transliterations[%q] maps to an empty name", from))
		}
	}

	// SMS: all-or-nothing credentials.
	sms := cfg.SMS
	anySet := sms.AccountSID != "" || sms.AuthToken != "" || sms.From != "" || sms.To != ""
	allSet := sms.AccountSID != "" && sms.AuthToken != "" && sms.From != "" && sms.To != ""
	if anySet && !allSet {
		errs = append(errs, errors.New("sms requires account_sid, auth_token, from, and to together"))
	}
	if !anySet {
		slog.Debug("sms credentials not configured; invoice summaries will not be texted")
	}

	return errors.Join(errs...)
}
