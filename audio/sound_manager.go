package audio

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

// SoundManager owns the speaker and a mixer that bounce clicks are added to
type SoundManager struct {
	mu          sync.Mutex
	cfg         *AudioConfig
	mixer       *beep.Mixer
	ctrl        *beep.Ctrl
	initialized bool

	// Speaker hooks, replaced in tests
	initSpeaker func(beep.SampleRate, int) error
	play        func(...beep.Streamer)
	lock        func()
	unlock      func()
}

// NewSoundManager creates a sound manager; nil cfg selects DefaultAudioConfig
func NewSoundManager(cfg *AudioConfig) *SoundManager {
	if cfg == nil {
		cfg = DefaultAudioConfig()
	}
	return &SoundManager{
		cfg:         cfg,
		mixer:       &beep.Mixer{},
		initSpeaker: speaker.Init,
		play:        speaker.Play,
		lock:        speaker.Lock,
		unlock:      speaker.Unlock,
	}
}

// Initialize opens the audio device and starts the mixer
func (sm *SoundManager) Initialize() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	rate := beep.SampleRate(sm.cfg.SampleRate)
	if err := sm.initSpeaker(rate, rate.N(100*time.Millisecond)); err != nil {
		return err
	}

	sm.ctrl = &beep.Ctrl{Streamer: sm.mixer, Paused: !sm.cfg.Enabled}
	sm.play(sm.ctrl)
	sm.initialized = true
	return nil
}

// Cleanup silences all sounds
// beep has no speaker close, clearing the mixer leaves the device idle
func (sm *SoundManager) Cleanup() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}

	sm.lock()
	sm.ctrl.Paused = true
	sm.mixer.Clear()
	sm.unlock()

	sm.initialized = false
}

// PlayBounce queues a click for a bounce; horizontal selects the left/right pitch
// No-op while muted or uninitialized
func (sm *SoundManager) PlayBounce(horizontal bool) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized || !sm.cfg.Enabled {
		return
	}

	click, err := CreateBounceSound(sm.cfg, horizontal)
	if err != nil {
		return
	}

	sm.lock()
	sm.mixer.Add(click)
	sm.unlock()
}

// Pending returns the number of clicks still in the mixer
func (sm *SoundManager) Pending() int {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sm.lock()
	defer sm.unlock()
	return sm.mixer.Len()
}
