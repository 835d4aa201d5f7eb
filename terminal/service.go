package terminal

import (
	"fmt"
	"sync"
)

// ServiceName is the service hub name of the terminal
const ServiceName = "terminal"

// Backend names accepted by TerminalService.Init
const (
	BackendANSI  = "ansi"
	BackendTcell = "tcell"
)

// TerminalService owns the terminal lifecycle: built in Init, entered in Start, restored in Stop
type TerminalService struct {
	mu      sync.Mutex
	term    Terminal
	started bool
}

// NewService creates a terminal service
func NewService() *TerminalService {
	return &TerminalService{}
}

// Name implements Service
func (s *TerminalService) Name() string {
	return ServiceName
}

// Dependencies implements Service
func (s *TerminalService) Dependencies() []string {
	return nil
}

// Init implements Service
// args[0]: backend name (string) or a ready Terminal; defaults to the ANSI backend
func (s *TerminalService) Init(args ...any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var arg any = BackendANSI
	if len(args) > 0 {
		arg = args[0]
	}

	switch v := arg.(type) {
	case Terminal:
		s.term = v
	case string:
		switch v {
		case BackendANSI:
			s.term = New()
		case BackendTcell:
			s.term = NewTcell(nil)
		default:
			return fmt.Errorf("unknown terminal backend %q", v)
		}
	default:
		return fmt.Errorf("terminal service: unexpected init arg %T", arg)
	}
	return nil
}

// Start implements Service, entering raw mode and the alternate screen
func (s *TerminalService) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.term == nil {
		return fmt.Errorf("terminal service not initialized")
	}
	if err := s.term.Init(); err != nil {
		return fmt.Errorf("init terminal: %w", err)
	}
	s.started = true
	return nil
}

// Stop implements Service, restoring the terminal; idempotent
func (s *TerminalService) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		s.term.Fini()
		s.started = false
	}
	return nil
}

// Terminal returns the managed terminal, nil before Init
func (s *TerminalService) Terminal() Terminal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.term
}
