package mandala

import "math"

// Spin rotates the layer by speed radians per time unit.
func Spin(speed float64) AnimationFunc {
	return func(l *Layer, delta float64) {
		l.SetRotation(l.Rotation() + speed*delta)
	}
}

// Pulse scales the layer around 1 by amplitude, completing one cycle every
// period time units of the composition clock.
func Pulse(amplitude, period float64) AnimationFunc {
	return func(l *Layer, _ float64) {
		if period <= 0 || l.clock == nil {
			return
		}
		s := 1 + amplitude*math.Sin(2*math.Pi*l.clock.Now()/period)
		l.SetScale(s, s)
	}
}

// Fade moves the layer's alpha linearly from one value to another over
// span time units, counted from the first call.
func Fade(from, to, span float64) AnimationFunc {
	elapsed := 0.0
	return func(l *Layer, delta float64) {
		if span <= 0 {
			l.SetAlpha(clamp01(to))
			return
		}
		elapsed += delta
		t := min(elapsed/span, 1)
		l.SetAlpha(clamp01(from + (to-from)*t))
	}
}

func clamp01(v float64) float64 {
	return max(0, min(1, v))
}
