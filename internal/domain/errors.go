package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors
var (
	ErrInvalidPlacement   = errors.New("invalid placement")
	ErrInvalidAlignment   = errors.New("invalid alignment")
	ErrInvalidTriggerMode = errors.New("invalid trigger mode")
	ErrUnsupportedFormat  = errors.New("unsupported config format")
	ErrUnknownKeyBinding  = errors.New("unknown key binding")
	ErrOutOfRange         = errors.New("value out of range")
	ErrInvalidLogLevel    = errors.New("invalid log level")
)

// ConfigError reports a configuration value outside its enumerated set
type ConfigError struct {
	Field string // Config field, e.g. "placement" or "trigger.mode"
	Value string // Offending raw value
	Err   error  // Underlying sentinel
}

func (e *ConfigError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("config %s %q: %v", e.Field, e.Value, e.Err)
	}
	if e.Err != nil {
		return fmt.Sprintf("config %s: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("config %s invalid", e.Field)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}
