package source

import (
	"math/rand"
	"sync"

	"github.com/turtacn/FlightStatus/internal/placement"
)

// Synthetic emits uniform noise in [-noise, noise] on every axis, standing
// in for a resting gyro. Bursts of large deltas can be injected to simulate
// the vehicle being picked up.
type Synthetic struct {
	mu    sync.Mutex
	rng   *rand.Rand
	noise float64
	burst int
	amp   float64
	flip  bool
}

func NewSynthetic(noise float64, seed int64) *Synthetic {
	return &Synthetic{rng: rand.New(rand.NewSource(seed)), noise: noise}
}

// Burst makes the next n samples alternate between +amp and -amp on X.
func (s *Synthetic) Burst(n int, amp float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.burst = n
	s.amp = amp
}

func (s *Synthetic) Next() (placement.Vector3, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := placement.Vector3{X: s.jitter(), Y: s.jitter(), Z: s.jitter()}
	if s.burst > 0 {
		s.burst--
		s.flip = !s.flip
		if s.flip {
			v.X += s.amp
		} else {
			v.X -= s.amp
		}
	}
	return v, nil
}

func (s *Synthetic) jitter() float64 {
	if s.noise == 0 {
		return 0
	}
	return (s.rng.Float64()*2 - 1) * s.noise
}

func (s *Synthetic) Close() error { return nil }

// Personal.AI order the ending
