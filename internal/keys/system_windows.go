//go:build windows && (amd64 || arm64)
// +build windows
// +build amd64 arm64

package keys

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/0xTas/FLUTE-WELL/sdk/contracts"
)

// Constants for keyboard input injection
const (
	INPUT_KEYBOARD  = 1      // INPUT structure carries a KEYBDINPUT
	KEYEVENTF_KEYUP = 0x0002 // Key is being released
)

var (
	user32        = windows.NewLazySystemDLL("user32.dll")
	procSendInput = user32.NewProc("SendInput")
)

// keyboardInput mirrors KEYBDINPUT.
type keyboardInput struct {
	vk        uint16
	scan      uint16
	flags     uint32
	time      uint32
	extraInfo uintptr
}

// inputEvent mirrors INPUT on 64-bit Windows. The trailing pad brings the
// struct up to the size of the larger MOUSEINPUT union member, which is
// what SendInput expects for cbSize.
type inputEvent struct {
	kind uint32
	_    uint32
	ki   keyboardInput
	_    [8]byte
}

// SystemEngine injects key chords straight into the OS input queue, where
// the game reads them like any physical keyboard.
type SystemEngine struct {
	log contracts.Logger
}

// NewSystemEngine verifies the injection entry point exists before playback
// depends on it.
func NewSystemEngine(log contracts.Logger) (*SystemEngine, error) {
	if err := procSendInput.Find(); err != nil {
		return nil, fmt.Errorf("keyboard injection unavailable: %v", err)
	}
	return &SystemEngine{log: log}, nil
}

// Press sends key-down events for the whole chord in one call, so the keys
// land in the input queue back to back.
func (e *SystemEngine) Press(keys []contracts.KeyID) error {
	events := make([]inputEvent, 0, len(keys))
	for _, k := range keys {
		events = append(events, keyEvent(k, 0))
	}
	return sendInput(events)
}

// Release sends key-up events in reverse press order, letting go of the
// blow before the modifiers.
func (e *SystemEngine) Release(keys []contracts.KeyID) error {
	events := make([]inputEvent, 0, len(keys))
	for i := len(keys) - 1; i >= 0; i-- {
		events = append(events, keyEvent(keys[i], KEYEVENTF_KEYUP))
	}
	return sendInput(events)
}

// Close has nothing to free; injected keys are released by the scheduler.
func (e *SystemEngine) Close() error {
	return nil
}

func keyEvent(k contracts.KeyID, flags uint32) inputEvent {
	return inputEvent{
		kind: INPUT_KEYBOARD,
		ki: keyboardInput{
			vk:    uint16(k),
			flags: flags,
		},
	}
}

func sendInput(events []inputEvent) error {
	if len(events) == 0 {
		return nil
	}

	n, _, callErr := procSendInput.Call(
		uintptr(len(events)),
		uintptr(unsafe.Pointer(&events[0])),
		unsafe.Sizeof(inputEvent{}),
	)
	if int(n) != len(events) {
		return fmt.Errorf("SendInput injected %d of %d events: %v", n, len(events), callErr)
	}
	return nil
}
