package audio

import (
	"fmt"
	"math/rand/v2"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/generators"
)

// noise produces white noise without end.
type noise struct {
	random *rand.Rand
}

func newNoise(seed uint64) *noise {
	return &noise{random: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (n *noise) Stream(samples [][2]float64) (int, bool) {
	for i := range samples {
		value := n.random.Float64()*2 - 1
		samples[i] = [2]float64{value, value}
	}
	return len(samples), true
}

func (n *noise) Err() error { return nil }

func noiseBuffer(sampleRate beep.SampleRate, seed uint64) *beep.Buffer {
	buffer := beep.NewBuffer(beep.Format{SampleRate: sampleRate, NumChannels: 2, Precision: 2})
	buffer.Append(beep.Take(sampleRate.N(noiseLength), newNoise(seed)))
	return buffer
}

// newCue is a sine tone of total samples fading linearly from half volume
// to silence.
func newCue(sampleRate beep.SampleRate, frequency float64, total int) (beep.Streamer, error) {
	sine, err := generators.SineTone(sampleRate, frequency)
	if err != nil {
		return nil, fmt.Errorf("generate cue: %w", err)
	}
	return effects.Transition(beep.Take(total, sine), total, 0.5, 0, effects.TransitionLinear), nil
}
