package audio

import (
	"fmt"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/speaker"
)

const (
	// SampleRate is the output rate of every generated stream.
	SampleRate = beep.SampleRate(44100)

	noiseLength  = 2 * time.Second
	cueLength    = 600 * time.Millisecond
	cueFrequency = 880
)

// Speaker plays the generated white-noise loop and the end-of-interval cue
// on the default output device.
type Speaker struct {
	mu      sync.Mutex
	source  beep.StreamSeeker
	ctrl    *beep.Ctrl
	started bool
}

// NewSpeaker opens the output device and renders the noise buffer.
func NewSpeaker() (*Speaker, error) {
	if err := speaker.Init(SampleRate, SampleRate.N(time.Second/10)); err != nil {
		return nil, fmt.Errorf("init speaker: %w", err)
	}
	buffer := noiseBuffer(SampleRate, 1)
	source := buffer.Streamer(0, buffer.Len())
	looped, err := beep.Loop2(source)
	if err != nil {
		return nil, fmt.Errorf("loop white noise: %w", err)
	}
	quiet := &effects.Volume{Streamer: looped, Base: 2, Volume: -3}
	return &Speaker{
		source: source,
		ctrl:   &beep.Ctrl{Streamer: quiet, Paused: true},
	}, nil
}

// Play implements Player.
func (s *Speaker) Play() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		s.ctrl.Paused = false
		speaker.Play(s.ctrl)
		s.started = true
		return nil
	}
	speaker.Lock()
	s.ctrl.Paused = false
	speaker.Unlock()
	return nil
}

// Stop implements Player.
func (s *Speaker) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	speaker.Lock()
	defer speaker.Unlock()
	s.ctrl.Paused = true
	_ = s.source.Seek(0)
}

// PlayCue implements notify.SoundPlayer. It returns immediately.
func (s *Speaker) PlayCue() error {
	cue, err := newCue(SampleRate, cueFrequency, SampleRate.N(cueLength))
	if err != nil {
		return err
	}
	speaker.Play(cue)
	return nil
}

// Close silences all output.
func (s *Speaker) Close() {
	speaker.Clear()
}
