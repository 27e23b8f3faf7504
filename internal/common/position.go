package common

// Position is a point in world space.
type Position struct {
	X float32
	Y float32
	Z float32
}

// Lerp returns the interpolated position between a and b at t (0.0 to 1.0).
func Lerp(a, b Position, t float32) Position {
	lerp := func(v0, v1, t float32) float32 { return v0 + t*(v1-v0) }
	return Position{
		X: lerp(a.X, b.X, t),
		Y: lerp(a.Y, b.Y, t),
		Z: lerp(a.Z, b.Z, t),
	}
}

// Distance returns the squared euclidean distance between a and b.
// Callers compare against squared thresholds, the sqrt is never needed.
func Distance(a, b Position) float32 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	dz := b.Z - a.Z
	return dx*dx + dy*dy + dz*dz
}
