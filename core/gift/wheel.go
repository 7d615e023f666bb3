package gift

import (
	"math"
	"math/rand"
)

// spinDurationMS matches the wheel widget's CSS transition.
const spinDurationMS = 2600

// Spin is the cosmetic rotation plan for the wheel presentation. The winner
// is drawn first; the plan only makes the animation settle on them.
type Spin struct {
	Turns      int     `json:"turns"`
	Angle      float64 `json:"angle"` // total rotation, degrees
	DurationMS int     `json:"duration_ms"`
}

// WheelIndex maps a final wheel rotation to the sector index under the
// top pointer, for n equal sectors laid out clockwise from the top.
func WheelIndex(angle float64, n int) int {
	if n <= 0 {
		return 0
	}
	slice := 360.0 / float64(n)
	norm := math.Mod(math.Mod(angle, 360)+360, 360)
	idx := int(math.Floor(math.Mod(float64(n)-norm/slice, float64(n))))
	return (idx + n) % n
}

// SpinPlan returns a rotation of 3..5 full turns whose resting angle lands
// on winnerIdx, jittered away from sector boundaries.
func SpinPlan(winnerIdx, n int, rnd *rand.Rand) Spin {
	if n <= 0 {
		n = 1
	}
	slice := 360.0 / float64(n)
	turns := 3 + rnd.Intn(3)
	rest := slice*float64(n-winnerIdx-1) + slice*(0.25+0.5*rnd.Float64())
	return Spin{
		Turns:      turns,
		Angle:      float64(turns)*360 + math.Mod(rest, 360),
		DurationMS: spinDurationMS,
	}
}
