package player

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/0xTas/FLUTE-WELL/internal/keys"
	"github.com/0xTas/FLUTE-WELL/sdk/contracts"
)

// ErrUnsupportedOS is returned when no keyboard engine exists for the operating system.
var ErrUnsupportedOS = errors.New("unsupported operating system")

// engineInitializers maps OS names to corresponding keyboard engine initializers.
var engineInitializers = map[string]func(contracts.Logger) (contracts.InputEngine, error){
	"windows": newKeyboardEngine, // Windows SendInput engine initializer.
}

func newKeyboardEngine(log contracts.Logger) (contracts.InputEngine, error) {
	return keys.NewSystemEngine(log)
}

// newEngine selects the input engine for a playback run. Dry runs always get
// the reporting sink, a configured serial port selects the hardware actuator,
// and otherwise the OS keyboard engine for the current platform is used.
//
// options *contracts.PlayerOptions: The finalized player options.
//
// Returns:
//   - contracts.InputEngine: The engine playback will dispatch into.
//   - error: An error if the engine cannot be created or the OS is unsupported.
func newEngine(options *contracts.PlayerOptions) (contracts.InputEngine, error) {
	if options.DryRun {
		return keys.NewDryRunEngine(options.Logger), nil
	}
	if options.SerialPort != "" {
		return keys.NewSerialEngine(options.SerialPort, options.SerialBaud, options.Logger)
	}
	if initializer, exists := engineInitializers[runtime.GOOS]; exists {
		return initializer(options.Logger)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedOS, runtime.GOOS)
}
