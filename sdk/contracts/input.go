package contracts

// InputEngine performs key actions on the host. Implementations exist per
// output target (OS keyboard, serial actuator, dry-run sink); the pipeline
// never branches on platform.
type InputEngine interface {
	// Press sends key-down events for the given keys as one ordered batch.
	Press(keys []KeyID) error
	// Release sends key-up events for the given keys, in reverse of press
	// order. Releasing keys that are already up must be harmless.
	Release(keys []KeyID) error
	// Close releases any resources held by the engine.
	Close() error
}
