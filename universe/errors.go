package universe

import (
	"errors"
	"fmt"

	"stock-scout/models"
)

// ResolutionError means no source could produce a usable universe. It is
// fatal for the run: with no symbols there is nothing to screen.
type ResolutionError struct {
	Mode   models.UniverseMode
	Reason string
	Err    error
}

func (e *ResolutionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("universe resolution failed for mode %q: %s: %v", e.Mode, e.Reason, e.Err)
	}
	return fmt.Sprintf("universe resolution failed for mode %q: %s", e.Mode, e.Reason)
}

func (e *ResolutionError) Unwrap() error { return e.Err }

// ConfigParseError means the declarative universe config file was malformed
// or incomplete. Filters are never silently dropped.
type ConfigParseError struct {
	Path   string
	Reason string
	Err    error
}

func (e *ConfigParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("universe config %s: %s: %v", e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("universe config %s: %s", e.Path, e.Reason)
}

func (e *ConfigParseError) Unwrap() error { return e.Err }

// IsResolutionError reports whether err is a universe resolution failure.
func IsResolutionError(err error) bool {
	var re *ResolutionError
	return errors.As(err, &re)
}

// IsConfigParseError reports whether err is a config parse failure.
func IsConfigParseError(err error) bool {
	var cpe *ConfigParseError
	return errors.As(err, &cpe)
}
