package audio

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

const (
	sampleRate = beep.SampleRate(44100)

	eatNote1Duration = 60 * time.Millisecond
	eatNote2Duration = 120 * time.Millisecond
)

// Cue plays the eat chime through the system speaker.
// Until Init succeeds PlayEatSound does nothing, so the game runs without audio.
type Cue struct {
	mu          sync.Mutex
	volume      float64
	initialized bool
}

// NewCue creates a cue at volume 0.0 - 1.0.
func NewCue(volume float64) *Cue {
	return &Cue{volume: volume}
}

// Init opens the speaker.
func (c *Cue) Init() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}
	c.initialized = true
	return nil
}

// SetVolume changes the volume of chimes played from now on.
func (c *Cue) SetVolume(volume float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.volume = volume
}

// PlayEatSound starts the chime and returns at once.
func (c *Cue) PlayEatSound() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.initialized {
		return
	}
	chime, err := NewEatSound(sampleRate, c.volume)
	if err != nil {
		return
	}
	speaker.Play(chime)
}

// Close stops everything still playing.
func (c *Cue) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.initialized {
		return
	}
	speaker.Clear()
	c.initialized = false
}

// NewEatSound is a short rising two-note chime (B5, E6).
func NewEatSound(sr beep.SampleRate, volume float64) (beep.Streamer, error) {
	low, err := generators.SineTone(sr, 987.77)
	if err != nil {
		return nil, err
	}
	high, err := generators.SineTone(sr, 1318.51)
	if err != nil {
		return nil, err
	}

	n1 := sr.N(eatNote1Duration)
	n2 := sr.N(eatNote2Duration)
	chime := beep.Seq(
		newRelease(beep.Take(n1, low), n1),
		newRelease(beep.Take(n2, high), n2),
	)
	return newVolume(chime, volume), nil
}

// release fades a stream linearly to silence over total samples.
type release struct {
	streamer beep.Streamer
	position int
	total    int
}

func newRelease(s beep.Streamer, total int) beep.Streamer {
	return &release{streamer: s, total: total}
}

func (r *release) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = r.streamer.Stream(samples)
	for i := 0; i < n; i++ {
		vol := 1 - float64(r.position)/float64(r.total)
		if vol < 0 {
			vol = 0
		}
		samples[i][0] *= vol
		samples[i][1] *= vol
		r.position++
	}
	return n, ok
}

func (r *release) Err() error { return r.streamer.Err() }

// math.Log2(0) is -Inf, so zero volume is made silent instead
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol), Silent: false}
}
