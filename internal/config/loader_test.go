package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rampradops28/final-app/internal/config"
)

func TestLoad_FileNotFound(t *testing.T) {
	t.Parallel()
	_, err := config.Load("/nonexistent/config.yaml")
	if err == nil {
		t.Fatal("expected error for missing file, got nil")
	}
}

func TestLoad_FromFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(sampleYAML), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.ListenAddr != ":8080" {
		t.Errorf("listen_addr = %q, want :8080", cfg.Server.ListenAddr)
	}
}

func TestLoadFromReader_UnknownFieldRejected(t *testing.T) {
	t.Parallel()
	yaml := `
server:
  listen_addr: ":8080"
  shoe_size: 44
`
	_, err := config.LoadFromReader(strings.NewReader(yaml))
	if err == nil {
		t.Fatal("expected error for unknown field, got nil")
	}
}

func TestValidate_InvalidLogLevel(t *testing.T) {
	t.Parallel()
	yaml := `
server:
  log_level: bananas
`
	_, err := config.LoadFromReader(strings.NewReader(yaml))
	if err == nil {
		t.Fatal("expected error for invalid log level, got nil")
	}
	if !strings.Contains(err.Error(), "log_level") {
		t.Errorf("error should mention log_level, got: %v", err)
	}
}

func TestValidate_InvalidLanguage(t *testing.T) {
	t.Parallel()
	yaml := `
voice:
  language: fr-FR
`
	_, err := config.LoadFromReader(strings.NewReader(yaml))
	if err == nil {
		t.Fatal("expected error for invalid language, got nil")
	}
	if !strings.Contains(err.Error(), "voice.language") {
		t.Errorf("error should mention voice.language, got: %v", err)
	}
}

func TestValidate_IncompleteTLS(t *testing.T) {
	t.Parallel()
	yaml := `
server:
  tls:
    cert_file: /etc/voicebill/cert.pem
`
	_, err := config.LoadFromReader(strings.NewReader(yaml))
	if err == nil {
		t.Fatal("expected error for TLS without key_file, got nil")
	}
	if !strings.Contains(err.Error(), "tls") {
		t.Errorf("error should mention tls, got: %v", err)
	}
}

func TestValidate_PartialSMSCredentials(t *testing.T) {
	t.Parallel()
	yaml := `
sms:
  account_sid: AC123
  from: "+14155550100"
`
	_, err := config.LoadFromReader(strings.NewReader(yaml))
	if err == nil {
		t.Fatal("expected error for partial SMS credentials, got nil")
	}
	if !strings.Contains(err.Error(), "sms") {
		t.Errorf("error should mention sms, got: %v", err)
	}
}

func TestValidate_EmptyLexiconEntries(t *testing.T) {
	t.Parallel()
	yaml := `
lexicon:
  products:
    - potato
    - "  "
  corrections:
    patato: ""
`
	_, err := config.LoadFromReader(strings.NewReader(yaml))
	if err == nil {
		t.Fatal("expected error for empty lexicon entries, got nil")
	}
	msg := err.Error()
	if !strings.Contains(msg, "lexicon.products[1]") {
		t.Errorf("error should mention lexicon.products[1], got: %v", err)
	}
	if !strings.Contains(msg, "lexicon.corrections") {
		t.Errorf("error should mention lexicon.corrections, got: %v", err)
	}
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	t.Parallel()
	yaml := `
server:
  log_level: bananas
voice:
  language: fr-FR
`
	_, err := config.LoadFromReader(strings.NewReader(yaml))
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	msg := err.Error()
	if !strings.Contains(msg, "log_level") || !strings.Contains(msg, "voice.language") {
		t.Errorf("joined error should list both failures, got: %v", err)
	}
}
