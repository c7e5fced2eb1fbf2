package core

import "math"

// PlanetRadius is the mean planet radius used for all horizon
// geometry, in board units.
const PlanetRadius = 6371.0

// SensorHeightOffset is the height of the sensor aperture above the
// carrier's deck. Raising the aperture pushes the sensor's horizon out.
const SensorHeightOffset = 0.005

// BlastRadius is the lethal radius around a projectile's position used
// by collision detection.
const BlastRadius = 0.5

// Vec3 is a continuous position or velocity in board units.
type Vec3 struct {
	X, Y, Z float64
}

// Add returns v + other.
func (v Vec3) Add(other Vec3) Vec3 {
	return Vec3{X: v.X + other.X, Y: v.Y + other.Y, Z: v.Z + other.Z}
}

// Sub returns v - other.
func (v Vec3) Sub(other Vec3) Vec3 {
	return Vec3{X: v.X - other.X, Y: v.Y - other.Y, Z: v.Z - other.Z}
}

// Scale returns v scaled by s.
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{X: v.X * s, Y: v.Y * s, Z: v.Z * s}
}

// Norm returns the Euclidean norm of the vector.
func (v Vec3) Norm() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// L1Norm returns the sum of the absolute components. Steering uses this
// cheaper norm to build unit directions.
func (v Vec3) L1Norm() float64 {
	return math.Abs(v.X) + math.Abs(v.Y) + math.Abs(v.Z)
}

// DistanceTo returns the straight-line distance between two points.
func (v Vec3) DistanceTo(other Vec3) float64 {
	return v.Sub(other).Norm()
}

// SquaredDistanceTo returns the squared straight-line distance, for
// comparisons that don't need the root.
func (v Vec3) SquaredDistanceTo(other Vec3) float64 {
	d := v.Sub(other)
	return d.X*d.X + d.Y*d.Y + d.Z*d.Z
}

// Cell is a discretized occupancy grid coordinate.
type Cell struct {
	X, Y, Z int
}

// CellOf maps a continuous position onto its occupancy cell. Components
// are truncated toward zero, not rounded, so negative coordinates bias
// toward the origin.
func CellOf(p Vec3) Cell {
	return Cell{X: int(p.X), Y: int(p.Y), Z: int(p.Z)}
}

// VisibleOverHorizon reports whether a target at targetPos can be seen
// from a sensor at sensorPos, taking only planet curvature into account.
//
// Each side contributes its own geometric horizon distance; the target
// is visible while the straight-line separation stays inside the sum of
// the two horizons. A target below the surface (negative height) yields
// a NaN horizon and is never visible.
func VisibleOverHorizon(sensorPos, targetPos Vec3) bool {
	aperture := sensorPos
	aperture.Z += SensorHeightOffset

	distance := targetPos.DistanceTo(aperture)

	targetHorizon := math.Sqrt(2 * PlanetRadius * targetPos.Z)
	sensorHeight := aperture.Z
	sensorHorizon := math.Sqrt(2*PlanetRadius*sensorHeight + sensorHeight*sensorHeight)

	return distance < targetHorizon+sensorHorizon
}
