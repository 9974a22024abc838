package runtimeconfig

import (
	"errors"
	"testing"
)

func TestDefaultConfigValidates(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config should validate, got %v", err)
	}
}

func TestValidateRejectsUnknownLevel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Logging.Level = "chatty"

	if err := cfg.Validate(); !errors.Is(err, ErrLoggingLevelInvalid) {
		t.Fatalf("expected ErrLoggingLevelInvalid, got %v", err)
	}
}

func TestValidateRejectsUnknownFormat(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Logging.Format = "xml"

	if err := cfg.Validate(); !errors.Is(err, ErrLoggingFormatInvalid) {
		t.Fatalf("expected ErrLoggingFormatInvalid, got %v", err)
	}
}

func TestValidateAcceptsEmptyLoggingFields(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Logging.Level = ""
	cfg.Logging.Format = ""

	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty logging fields should pass, got %v", err)
	}
}

func TestValidateCascadesToConvertConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Convert.InputSuffix = "rmd"

	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected convert config validation failure")
	}
}
