package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Configuration errors (surface at registration or at Run entry)
	ErrUnsupportedDistribution = errors.New("unsupported distribution")
	ErrUnsupportedOutputKind   = errors.New("unsupported output kind")
	ErrInvalidParameters       = errors.New("invalid distribution parameters")
	ErrCorrelationMismatch     = errors.New("correlation variable not registered")
	ErrNotPositiveSemiDefinite = errors.New("correlation matrix not positive semi-definite")
	ErrInvalidCorrelation      = errors.New("invalid correlation matrix")
	ErrEmptyRegistry           = errors.New("empty registry")

	// Data errors (abort the run, registries unaffected)
	ErrEmptySampleSet     = errors.New("empty sample set")
	ErrInconsistentSeries = errors.New("inconsistent timeseries length")

	// Concurrency errors
	ErrConcurrentModification = errors.New("run in flight: concurrent modification rejected")
)

// Error constructors with context
func NewUnsupportedDistributionError(kind string) error {
	return fmt.Errorf("%w: %q", ErrUnsupportedDistribution, kind)
}

func NewUnsupportedOutputKindError(kind string) error {
	return fmt.Errorf("%w: %q", ErrUnsupportedOutputKind, kind)
}

func NewParameterError(kind, reason string) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalidParameters, kind, reason)
}

func NewMissingParameterError(kind, param string) error {
	return fmt.Errorf("%w: %s requires %q", ErrInvalidParameters, kind, param)
}

func NewCorrelationMismatchError(variable string) error {
	return fmt.Errorf("%w: %q", ErrCorrelationMismatch, variable)
}

func NewCorrelationShapeError(reason string) error {
	return fmt.Errorf("%w: %s", ErrInvalidCorrelation, reason)
}

func NewEmptyRegistryError(registry string) error {
	return fmt.Errorf("%w: %s", ErrEmptyRegistry, registry)
}

func NewSeriesLengthError(output string, want, got int) error {
	return fmt.Errorf("%w: output %q expected %d steps, got %d", ErrInconsistentSeries, output, want, got)
}

// Error checking helpers
func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrUnsupportedDistribution) ||
		errors.Is(err, ErrUnsupportedOutputKind) ||
		errors.Is(err, ErrInvalidParameters) ||
		errors.Is(err, ErrCorrelationMismatch) ||
		errors.Is(err, ErrNotPositiveSemiDefinite) ||
		errors.Is(err, ErrInvalidCorrelation) ||
		errors.Is(err, ErrEmptyRegistry)
}

func IsDataError(err error) bool {
	return errors.Is(err, ErrEmptySampleSet) ||
		errors.Is(err, ErrInconsistentSeries)
}
