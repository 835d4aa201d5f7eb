package audio

import (
	"sync/atomic"
)

// AudioService wraps SoundManager as a service.Service
// Handles graceful degradation when no audio device is available
type AudioService struct {
	deps     []string
	cfg      *AudioConfig
	manager  *SoundManager
	disabled atomic.Bool
	lastErr  error
}

// NewService creates a new audio service started after the named services
func NewService(after ...string) *AudioService {
	return &AudioService{deps: after}
}

// Name implements Service
func (s *AudioService) Name() string {
	return "audio"
}

// Dependencies implements Service
func (s *AudioService) Dependencies() []string {
	return s.deps
}

// Init implements Service
// args[0]: bool - initial mute state (true = muted, default = muted)
// args[1]: float64 - volume 0.0-1.0
func (s *AudioService) Init(args ...any) error {
	cfg := DefaultAudioConfig()

	if len(args) > 0 {
		if muted, ok := args[0].(bool); ok {
			cfg.Enabled = !muted
		}
	}
	if len(args) > 1 {
		if vol, ok := args[1].(float64); ok {
			cfg.Volume = clampVolume(vol)
		}
	}

	s.cfg = cfg
	if s.manager == nil {
		s.manager = NewSoundManager(cfg)
	} else {
		s.manager.cfg = cfg
	}
	return nil
}

// Start implements Service
// Opens the device only when unmuted; sets disabled on failure (no error returned)
func (s *AudioService) Start() error {
	if s.manager == nil || !s.cfg.Enabled {
		s.disabled.Store(true)
		return nil
	}

	if err := s.manager.Initialize(); err != nil {
		s.lastErr = err
		s.disabled.Store(true)
		return nil
	}
	return nil
}

// Stop implements Service
func (s *AudioService) Stop() error {
	if s.manager != nil {
		s.manager.Cleanup()
	}
	return nil
}

// IsDisabled returns true if audio is unavailable or muted at startup
func (s *AudioService) IsDisabled() bool {
	return s.disabled.Load()
}

// Err returns the device error that disabled audio, if any
func (s *AudioService) Err() error {
	return s.lastErr
}

// PlayBounce forwards to the sound manager when audio is available
func (s *AudioService) PlayBounce(horizontal bool) {
	if s.disabled.Load() || s.manager == nil {
		return
	}
	s.manager.PlayBounce(horizontal)
}
