//go:build !windows || (!amd64 && !arm64)
// +build !windows !amd64,!arm64

package keys

import (
	"fmt"

	"github.com/0xTas/FLUTE-WELL/sdk/contracts"
)

// SystemEngine is the stand-in for platforms without SendInput injection,
// anything but 64-bit Windows. Constructing one succeeds so configuration
// and dry runs work anywhere, but injecting input does not.
type SystemEngine struct {
	log contracts.Logger
}

// NewSystemEngine initializes a dummy engine for platforms without keyboard injection.
func NewSystemEngine(log contracts.Logger) (*SystemEngine, error) {
	log.Info("keyboard injection unsupported on this platform, using dummy engine")
	return &SystemEngine{log: log}, nil
}

// Press logs a warning and returns an error indicating that keyboard injection is unavailable on this platform.
func (e *SystemEngine) Press(keys []contracts.KeyID) error {
	e.log.Warn("Press called on dummy keyboard engine")
	return fmt.Errorf("keyboard injection is not available on this platform")
}

// Release logs a warning and returns an error indicating that keyboard injection is unavailable on this platform.
func (e *SystemEngine) Release(keys []contracts.KeyID) error {
	e.log.Warn("Release called on dummy keyboard engine")
	return fmt.Errorf("keyboard injection is not available on this platform")
}

// Close is a no-op on the dummy engine.
func (e *SystemEngine) Close() error {
	return nil
}
