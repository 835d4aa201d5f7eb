package audio

import (
	"time"
)

// AudioConfig holds bounce click settings
type AudioConfig struct {
	Enabled    bool
	Volume     float64 // 0.0-1.0
	SampleRate int

	// Tone pitch for left/right and top/bottom bounces
	HorizontalFreq float64
	VerticalFreq   float64

	ClickDuration time.Duration
	ClickAttack   time.Duration
	ClickRelease  time.Duration
}

// DefaultAudioConfig returns a muted configuration
func DefaultAudioConfig() *AudioConfig {
	return &AudioConfig{
		Enabled:        false,
		Volume:         0.4,
		SampleRate:     44100,
		HorizontalFreq: 880,
		VerticalFreq:   587.33,
		ClickDuration:  40 * time.Millisecond,
		ClickAttack:    2 * time.Millisecond,
		ClickRelease:   25 * time.Millisecond,
	}
}

// clampVolume keeps v in [0, 1]
func clampVolume(v float64) float64 {
	return min(max(v, 0), 1)
}
