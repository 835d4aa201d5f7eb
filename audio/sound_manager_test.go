package audio

import (
	"errors"
	"testing"

	"github.com/gopxl/beep"
)

// newTestManager returns a manager whose speaker hooks never touch a device
func newTestManager(cfg *AudioConfig, initErr error) (*SoundManager, *[]beep.Streamer) {
	var played []beep.Streamer
	sm := NewSoundManager(cfg)
	sm.initSpeaker = func(beep.SampleRate, int) error { return initErr }
	sm.play = func(s ...beep.Streamer) { played = append(played, s...) }
	sm.lock = func() {}
	sm.unlock = func() {}
	return sm, &played
}

// TestSoundManagerGracefulDegradation verifies audio operations don't panic when not initialized
func TestSoundManagerGracefulDegradation(t *testing.T) {
	sm, _ := newTestManager(nil, nil)

	defer func() {
		if r := recover(); r != nil {
			t.Errorf("Sound operations panicked without initialization: %v", r)
		}
	}()

	sm.PlayBounce(true)
	sm.PlayBounce(false)
	sm.Cleanup()

	if sm.Pending() != 0 {
		t.Errorf("Uninitialized manager queued %d sounds", sm.Pending())
	}
}

func TestSoundManagerInitializationFailure(t *testing.T) {
	sm, played := newTestManager(nil, errors.New("no device"))
	if err := sm.Initialize(); err == nil {
		t.Fatal("Expected device error")
	}
	if len(*played) != 0 {
		t.Error("Mixer must not be played after a failed init")
	}
	sm.PlayBounce(true)
}

// TestSoundManagerDoubleInitialization verifies double initialization is safe
func TestSoundManagerDoubleInitialization(t *testing.T) {
	cfg := DefaultAudioConfig()
	cfg.Enabled = true
	sm, played := newTestManager(cfg, nil)

	if err := sm.Initialize(); err != nil {
		t.Fatalf("First initialization failed: %v", err)
	}
	if err := sm.Initialize(); err != nil {
		t.Errorf("Second initialization should succeed as no-op, got error: %v", err)
	}
	if len(*played) != 1 {
		t.Errorf("Expected mixer played once, got %d", len(*played))
	}
	sm.Cleanup()
}

func TestSoundManagerBounceQueuesWhenUnmuted(t *testing.T) {
	cfg := DefaultAudioConfig()
	cfg.Enabled = true
	sm, _ := newTestManager(cfg, nil)
	if err := sm.Initialize(); err != nil {
		t.Fatal(err)
	}

	sm.PlayBounce(true)
	sm.PlayBounce(false)
	if sm.Pending() != 2 {
		t.Errorf("Expected 2 queued clicks, got %d", sm.Pending())
	}

	sm.Cleanup()
	if sm.Pending() != 0 {
		t.Errorf("Cleanup left %d clicks", sm.Pending())
	}
}

func TestSoundManagerMutedDropsBounces(t *testing.T) {
	sm, played := newTestManager(DefaultAudioConfig(), nil)
	if err := sm.Initialize(); err != nil {
		t.Fatal(err)
	}
	if len(*played) != 1 {
		t.Fatalf("Expected paused mixer on the speaker, got %d streams", len(*played))
	}

	sm.PlayBounce(true)
	if sm.Pending() != 0 {
		t.Errorf("Muted manager queued a click, pending %d", sm.Pending())
	}
	sm.Cleanup()
}

// TestSoundManagerOperationsAfterCleanup verifies operations after cleanup are safe
func TestSoundManagerOperationsAfterCleanup(t *testing.T) {
	cfg := DefaultAudioConfig()
	cfg.Enabled = true
	sm, _ := newTestManager(cfg, nil)
	sm.Initialize()
	sm.Cleanup()
	sm.Cleanup()

	sm.PlayBounce(true)
	if sm.Pending() != 0 {
		t.Error("Bounce after cleanup must be dropped")
	}
}

func TestBounceSoundIsBounded(t *testing.T) {
	cfg := DefaultAudioConfig()
	click, err := CreateBounceSound(cfg, true)
	if err != nil {
		t.Fatalf("CreateBounceSound failed: %v", err)
	}

	want := beep.SampleRate(cfg.SampleRate).N(cfg.ClickDuration)
	buf := make([][2]float64, 512)
	total := 0
	for {
		n, ok := click.Stream(buf)
		total += n
		for i := 0; i < n; i++ {
			if buf[i][0] < -1 || buf[i][0] > 1 {
				t.Fatalf("Sample out of range: %f", buf[i][0])
			}
		}
		if !ok || total > want*2 {
			break
		}
	}
	if total != want {
		t.Errorf("Expected %d samples, got %d", want, total)
	}
}

func TestBounceSoundRejectsAliasedPitch(t *testing.T) {
	cfg := DefaultAudioConfig()
	cfg.HorizontalFreq = float64(cfg.SampleRate)
	if _, err := CreateBounceSound(cfg, true); err == nil {
		t.Error("Expected error for a tone above Nyquist")
	}
}

func TestAudioServiceMutedByDefault(t *testing.T) {
	s := NewService()
	if err := s.Init(); err != nil {
		t.Fatal(err)
	}
	if err := s.Start(); err != nil {
		t.Fatal(err)
	}
	if !s.IsDisabled() {
		t.Error("Audio must stay off unless unmuted")
	}
	s.PlayBounce(true)
	s.Stop()
}

func TestAudioServiceDegradesOnDeviceError(t *testing.T) {
	s := NewService()
	s.Init(false, 0.5)
	s.manager.initSpeaker = func(beep.SampleRate, int) error { return errors.New("no device") }

	if err := s.Start(); err != nil {
		t.Fatalf("Start must not fail on a missing device, got %v", err)
	}
	if !s.IsDisabled() || s.Err() == nil {
		t.Error("Expected service disabled with recorded error")
	}
	if s.cfg.Volume != 0.5 {
		t.Errorf("Expected volume 0.5, got %f", s.cfg.Volume)
	}
	s.PlayBounce(false)
	s.Stop()
}

func TestAudioServiceDependencies(t *testing.T) {
	if deps := NewService().Dependencies(); len(deps) != 0 {
		t.Errorf("Expected no dependencies, got %v", deps)
	}
	if deps := NewService("terminal").Dependencies(); len(deps) != 1 || deps[0] != "terminal" {
		t.Errorf("Expected [terminal], got %v", deps)
	}
}
