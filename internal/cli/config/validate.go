package config

import (
	"fmt"
	"os"
)

var (
	validLogLevels  = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	validLogFormats = map[string]bool{"text": true, "json": true}
	validOutputs    = map[string]bool{"auto": true, "text": true, "json": true, "markdown": true}
)

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log_level %q (expected debug, info, warn, or error)", c.LogLevel)
	}
	if !validLogFormats[c.LogFormat] {
		return fmt.Errorf("invalid log_format %q (expected text or json)", c.LogFormat)
	}
	if !validOutputs[c.OutputFormat] {
		return fmt.Errorf("invalid output %q (expected auto, text, json, or markdown)", c.OutputFormat)
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	return nil
}

// ValidateGrammarPaths checks that the configured grammar documents exist.
// Commands that reconcile call this; other commands work without grammars.
func (c *Config) ValidateGrammarPaths() error {
	if c.Grammar.Reference == "" {
		return fmt.Errorf("grammar.reference is required\nHint: set it in .oxc.yaml or pass --reference")
	}
	if c.Grammar.Community == "" {
		return fmt.Errorf("grammar.community is required\nHint: set it in .oxc.yaml or pass --community")
	}
	for _, path := range []string{c.Grammar.Reference, c.Grammar.Community} {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return fmt.Errorf("grammar document does not exist: %s", path)
		}
	}
	if c.Grammar.Overrides != "" {
		if _, err := os.Stat(c.Grammar.Overrides); os.IsNotExist(err) {
			return fmt.Errorf("overrides document does not exist: %s", c.Grammar.Overrides)
		}
	}
	return nil
}
