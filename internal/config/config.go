// Package config provides the configuration schema, loader, and file watcher
// for the VoiceBill server.
package config

import (
	"time"

	"github.com/rampradops28/final-app/internal/recognizer"
)

// LogLevel controls log verbosity for the VoiceBill server.
type LogLevel string

const (
	LogDebug LogLevel = "debug"
	LogInfo  LogLevel = "info"
	LogWarn  LogLevel = "warn"
	LogError LogLevel = "error"
)

// IsValid reports whether l is a recognised log level.
func (l LogLevel) IsValid() bool {
	switch l {
	case LogDebug, LogInfo, LogWarn, LogError:
		return true
	}
	return false
}

// Config is the root configuration structure for VoiceBill.
// It is typically loaded from a YAML file using [Load] or [LoadFromReader].
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Voice   VoiceConfig   `yaml:"voice"`
	Lexicon LexiconConfig `yaml:"lexicon"`
	Invoice InvoiceConfig `yaml:"invoice"`
	SMS     SMSConfig     `yaml:"sms"`
}

// ServerConfig holds network and logging settings for the VoiceBill server.
type ServerConfig struct {
	// ListenAddr is the TCP address the server listens on (e.g., ":8080").
	ListenAddr string `yaml:"listen_addr"`

	// LogLevel controls verbosity.
	LogLevel LogLevel `yaml:"log_level"`

	// TLS configures TLS for the server. When nil, the server runs plain HTTP.
	TLS *TLSConfig `yaml:"tls"`
}

// TLSConfig holds TLS certificate paths for enabling HTTPS.
type TLSConfig struct {
	// CertFile is the path to the PEM-encoded TLS certificate.
	CertFile string `yaml:"cert_file"`

	// KeyFile is the path to the PEM-encoded TLS private key.
	KeyFile string `yaml:"key_file"`
}

// VoiceConfig tunes the recognition session.
type VoiceConfig struct {
	// Language selects the language mode: "en-US", "ta-IN", or "mixed".
	// Empty means mixed.
	Language string `yaml:"language"`

	// Feedback enables spoken confirmations after each command.
	Feedback *bool `yaml:"feedback"`

	// DuplicateWindowMS is the duplicate-final suppression window in
	// milliseconds. 0 keeps the built-in default; negative disables
	// suppression.
	DuplicateWindowMS int `yaml:"duplicate_window_ms"`
}

// DuplicateWindow converts DuplicateWindowMS to a duration, mapping the
// negative "disabled" convention to zero.
func (v VoiceConfig) DuplicateWindow(fallback time.Duration) time.Duration {
	switch {
	case v.DuplicateWindowMS > 0:
		return time.Duration(v.DuplicateWindowMS) * time.Millisecond
	case v.DuplicateWindowMS < 0:
		return 0
	default:
		return fallback
	}
}

// FeedbackEnabled reports whether spoken confirmations are on. Unset means on.
func (v VoiceConfig) FeedbackEnabled() bool {
	return v.Feedback == nil || *v.Feedback
}

// LanguageMode returns the configured recognizer language, defaulting to
// mixed when unset.
func (v VoiceConfig) LanguageMode() recognizer.Language {
	if v.Language == "" {
		return recognizer.LangMixed
	}
	return recognizer.Language(v.Language)
}

// LexiconConfig extends the built-in product lexicon.
type LexiconConfig struct {
	// Products lists extra product names merged into the built-in catalogue.
	Products []string `yaml:"products"`

	// Corrections maps common misspellings to canonical product names
	// (e.g., "patato" -> "potato").
	Corrections map[string]string `yaml:"corrections"`

	// Transliterations maps romanised Tamil product names to English
	// canonical names (e.g., "urulaikizhangu" -> "potato").
	Transliterations map[string]string `yaml:"transliterations"`
}

// InvoiceConfig controls invoice rendering.
type InvoiceConfig struct {
	// OutputDir is the directory invoice files are written to.
	OutputDir string `yaml:"output_dir"`

	// BusinessName appears in the invoice header and SMS summaries.
	BusinessName string `yaml:"business_name"`
}

// SMSConfig holds Twilio credentials for invoice summary delivery. All
// fields empty means SMS is disabled.
type SMSConfig struct {
	// AccountSID is the Twilio account identifier.
	AccountSID string `yaml:"account_sid"`

	// AuthToken is the Twilio API auth token.
	AuthToken string `yaml:"auth_token"`

	// From is the sending phone number in E.164 format.
	From string `yaml:"from"`

	// To is the shop owner's phone number in E.164 format.
	To string `yaml:"to"`

	// BaseURL overrides the Twilio API endpoint. Leave empty for production.
	BaseURL string `yaml:"base_url"`
}
