package placement

import (
	"math"

	"github.com/turtacn/FlightStatus/pkg/consts"
)

// Vector3 is one angular-rate sample, in whatever unit the gyro driver emits.
type Vector3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

func (v Vector3) Sub(o Vector3) Vector3 {
	return Vector3{X: v.X - o.X, Y: v.Y - o.Y, Z: v.Z - o.Z}
}

// Params tunes the debounce window.
type Params struct {
	Window    int     // samples per verdict
	Trip      int     // exceedances above which the window is MOTIONAL
	Threshold float64 // per-axis delta that counts as an exceedance
}

func DefaultParams() Params {
	return Params{
		Window:    consts.DefaultPlacementWindow,
		Trip:      consts.DefaultPlacementTrip,
		Threshold: consts.DefaultPlacementThreshold,
	}
}

// Classifier turns a stream of gyro samples into a STATIC/MOTIONAL verdict.
// Sensor jitter while resting routinely produces single large deltas, so the
// verdict only changes once per full window and only on sustained exceedance.
//
// A Classifier is not safe for concurrent use; the status store serializes it.
type Classifier struct {
	params Params

	last    Vector3
	count   int
	exceed  int
	verdict consts.Placement
}

// New builds a classifier. Non-positive Window falls back to the default.
func New(p Params) *Classifier {
	if p.Window <= 0 {
		p.Window = consts.DefaultPlacementWindow
	}
	return &Classifier{params: p}
}

// Observe feeds one sample. committed is true on the call that closes a
// window, and verdict is then the freshly committed value; otherwise verdict
// is the previous window's result.
//
// The last sample starts at zero, so the first delta is the first sample
// itself.
func (c *Classifier) Observe(sample Vector3) (verdict consts.Placement, committed bool) {
	diff := sample.Sub(c.last)
	c.last = sample

	c.count++
	if c.exceeds(diff) {
		c.exceed++
	}

	if c.count < c.params.Window {
		return c.verdict, false
	}

	if c.exceed > c.params.Trip {
		c.verdict = consts.Motional
	} else {
		c.verdict = consts.Static
	}
	c.count = 0
	c.exceed = 0
	return c.verdict, true
}

func (c *Classifier) exceeds(d Vector3) bool {
	th := c.params.Threshold
	return math.Abs(d.X) > th || math.Abs(d.Y) > th || math.Abs(d.Z) > th
}

// Verdict returns the last committed verdict.
func (c *Classifier) Verdict() consts.Placement {
	return c.verdict
}

// Progress reports how far into the current window the classifier is.
func (c *Classifier) Progress() (count, exceed int) {
	return c.count, c.exceed
}

func (c *Classifier) Params() Params {
	return c.params
}

// Reset discards the current window and the remembered sample. The committed
// verdict is kept.
func (c *Classifier) Reset() {
	c.last = Vector3{}
	c.count = 0
	c.exceed = 0
}

// Personal.AI order the ending
