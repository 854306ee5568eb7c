package machine

// Config contains settings that affect emulation behavior but not its
// correctness, mirroring the teacher's emu.Config knob style.
type Config struct {
	// Trace logs the PC and cycle count of every CPU step via the
	// standard logger. Off by
	// default; expensive enough that a host should only flip it while
	// debugging a specific ROM.
	Trace bool
}
