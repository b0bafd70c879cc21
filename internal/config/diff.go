package config

import (
	"maps"
	"slices"
)

// ConfigDiff describes what changed between two configs.
// Only fields that can be safely hot-reloaded are tracked.
type ConfigDiff struct {
	LogLevelChanged bool
	NewLogLevel     LogLevel

	// LexiconChanged is true when products, corrections, or transliterations
	// differ; the recognizer must be rebuilt to pick them up.
	LexiconChanged bool

	// VoiceChanged is true when language, feedback, or the duplicate window
	// differ; the session driver must be rebuilt.
	VoiceChanged bool
}

// HasChanges reports whether anything hot-reloadable changed.
func (d ConfigDiff) HasChanges() bool {
	return d.LogLevelChanged || d.LexiconChanged || d.VoiceChanged
}

// Diff compares old and new configs and returns what changed.
// Only tracks changes that are safe to apply without restart.
func Diff(old, new *Config) ConfigDiff {
	d := ConfigDiff{}

	if old.Server.LogLevel != new.Server.LogLevel {
		d.LogLevelChanged = true
		d.NewLogLevel = new.Server.LogLevel
	}

	if !slices.Equal(old.Lexicon.Products, new.Lexicon.Products) ||
		!maps.Equal(old.Lexicon.Corrections, new.Lexicon.Corrections) ||
		!maps.Equal(old.Lexicon.Transliterations, new.Lexicon.Transliterations) {
		d.LexiconChanged = true
	}

	if old.Voice.Language != new.Voice.Language ||
		old.Voice.DuplicateWindowMS != new.Voice.DuplicateWindowMS ||
		old.Voice.FeedbackEnabled() != new.Voice.FeedbackEnabled() {
		d.VoiceChanged = true
	}

	return d
}
