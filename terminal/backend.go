package terminal

// Backend abstracts platform-specific raw terminal operations
type Backend interface {
	// Init enters raw mode
	Init() error
	// Fini restores the saved terminal mode
	Fini()

	// Size returns the current dimensions, or (0, 0) when they cannot be queried
	Size() (width, height int)

	// Write writes raw bytes to the terminal output
	Write(p []byte) (int, error)

	// Read blocks until input is available, the stop channel is closed, or an error occurs.
	// A nil slice with nil error means timeout or stop; callers re-check their stop state.
	Read(stopCh <-chan struct{}) ([]byte, error)
}
