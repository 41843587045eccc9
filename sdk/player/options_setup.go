package player

import (
	"fmt"

	"github.com/0xTas/FLUTE-WELL/internal/keymap"
	"github.com/0xTas/FLUTE-WELL/internal/logger"
	"github.com/0xTas/FLUTE-WELL/sdk/contracts"
)

const (
	defaultDryRunMax  = 80
	defaultSerialBaud = 115200
)

// applyDefaultOptions sets default values for PlayerOptions if not explicitly provided.
//
// opts ...contracts.Option: A variadic list of option functions that can modify PlayerOptions.
//
// Returns:
//   - contracts.PlayerOptions: A structure containing the finalized player options with defaults applied.
//   - error: An error if the resulting combination of options is invalid.
func applyDefaultOptions(opts ...contracts.Option) (contracts.PlayerOptions, error) {
	options := &contracts.PlayerOptions{}
	for _, opt := range opts {
		opt(options)
	}

	// Set defaults if options are not provided. The zero values of the
	// policy enums already select highest-note reduction, drop on
	// out-of-range, portato articulation, and info-level logging.
	if options.Logger == nil {
		options.Logger = logger.NewZapLogger()
	}
	if options.Range == (contracts.PitchRange{}) {
		options.Range = keymap.DefaultRange
	}
	if options.DryRunMax == 0 {
		options.DryRunMax = defaultDryRunMax
	}
	if options.SerialBaud == 0 {
		options.SerialBaud = defaultSerialBaud
	}

	options.Logger.SetLevel(options.LogLevel)

	if err := validateOptions(options); err != nil {
		return contracts.PlayerOptions{}, err
	}
	return *options, nil
}

// validateOptions rejects option combinations no pipeline stage can accept.
func validateOptions(options *contracts.PlayerOptions) error {
	if options.DelayStart < 0 {
		return fmt.Errorf("%w: start delay %s is negative", contracts.ErrConfig, options.DelayStart)
	}
	if options.DryRunMax < 0 {
		return fmt.Errorf("%w: dry run preview limit %d is negative", contracts.ErrConfig, options.DryRunMax)
	}
	if options.SerialPort != "" && options.SerialBaud <= 0 {
		return fmt.Errorf("%w: serial baud rate %d", contracts.ErrConfig, options.SerialBaud)
	}
	return nil
}
