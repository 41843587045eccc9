package keys

import (
	"fmt"

	"go.bug.st/serial"
	"go.uber.org/multierr"

	"github.com/0xTas/FLUTE-WELL/sdk/contracts"
)

// SerialEngine drives an external key actuator over a serial line instead
// of injecting input into the local OS.
type SerialEngine struct {
	port serial.Port
	log  contracts.Logger
}

// NewSerialEngine opens the named serial device at the given baud rate.
func NewSerialEngine(device string, baud int, log contracts.Logger) (*SerialEngine, error) {
	mode := &serial.Mode{BaudRate: baud}
	port, err := serial.Open(device, mode)
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", device, err)
	}

	log.Info("serial port opened",
		log.Field().String("device", device).Int("baud", baud))
	return &SerialEngine{port: port, log: log}, nil
}

// Press sends the keys in press order.
func (e *SerialEngine) Press(keys []contracts.KeyID) error {
	return e.send(&keyFrame{cmd: cmdPress, keys: keys})
}

// Release sends the keys in reverse press order so the actuator lets go of
// the blow before the modifiers.
func (e *SerialEngine) Release(keys []contracts.KeyID) error {
	reversed := make([]contracts.KeyID, len(keys))
	for i, k := range keys {
		reversed[len(keys)-1-i] = k
	}
	return e.send(&keyFrame{cmd: cmdRelease, keys: reversed})
}

// Close tells the actuator to let go of everything, then closes the port.
func (e *SerialEngine) Close() error {
	var errs error
	errs = multierr.Append(errs, e.send(&keyFrame{cmd: cmdReleaseAll}))
	errs = multierr.Append(errs, e.port.Close())
	return errs
}

func (e *SerialEngine) send(f *keyFrame) error {
	if _, err := e.port.Write(f.Encode()); err != nil {
		return fmt.Errorf("serial write: %w", err)
	}
	return nil
}
