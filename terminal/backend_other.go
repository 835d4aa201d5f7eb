//go:build !unix

package terminal

import "errors"

// otherBackend reports the raw ANSI backend as unavailable; use the tcell backend instead
type otherBackend struct{}

func newBackend() Backend { return otherBackend{} }

func (otherBackend) Init() error {
	return errors.New("ansi backend requires a unix terminal, use --backend tcell")
}
func (otherBackend) Fini()                                 {}
func (otherBackend) Size() (int, int)                      { return 0, 0 }
func (otherBackend) Write(p []byte) (int, error)           { return len(p), nil }
func (otherBackend) Read(<-chan struct{}) ([]byte, error) { return nil, errInputClosed }

func resetTerminalMode() {}
