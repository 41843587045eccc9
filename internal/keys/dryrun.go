package keys

import "github.com/0xTas/FLUTE-WELL/sdk/contracts"

// DryRunEngine accepts every action without touching the OS or any
// hardware. The scheduler runs the full state machine against it.
type DryRunEngine struct {
	log      contracts.Logger
	presses  int
	releases int
}

// NewDryRunEngine builds the reporting sink used by dry runs.
func NewDryRunEngine(log contracts.Logger) *DryRunEngine {
	return &DryRunEngine{log: log}
}

// Press counts the action and succeeds.
func (e *DryRunEngine) Press(keys []contracts.KeyID) error {
	e.presses++
	return nil
}

// Release counts the action and succeeds.
func (e *DryRunEngine) Release(keys []contracts.KeyID) error {
	e.releases++
	return nil
}

// Close reports the totals.
func (e *DryRunEngine) Close() error {
	e.log.Info("dry run engine closed",
		e.log.Field().Int("presses", e.presses).Int("releases", e.releases))
	return nil
}

// Counts returns how many press and release batches were dispatched.
func (e *DryRunEngine) Counts() (presses, releases int) {
	return e.presses, e.releases
}
