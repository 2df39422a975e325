package label

import "math"

// AllowedRotations is the set of rotations persisted elements may carry.
// Interactive editing allows arbitrary float angles; they are snapped to
// this set at commit time.
var AllowedRotations = []float64{0, 90, -90, 180}

// RotationAllowed reports whether angle is one of the persistable values.
func RotationAllowed(angle float64) bool {
	for _, a := range AllowedRotations {
		if angle == a {
			return true
		}
	}
	return false
}

// SnapRotation normalizes angle to (-180, 180] and buckets it to the
// nearest allowed rotation using fixed boundaries:
//
//	[-45, 45)   -> 0
//	[45, 135)   -> 90
//	[-135, -45) -> -90
//	otherwise   -> 180
//
// Snapping only ever changes the rotation; x/y/width/height are untouched
// by rotation anywhere in the system.
func SnapRotation(angle float64) float64 {
	a := normalizeAngle(angle)
	switch {
	case a >= -45 && a < 45:
		return 0
	case a >= 45 && a < 135:
		return 90
	case a >= -135 && a < -45:
		return -90
	default:
		return 180
	}
}

// normalizeAngle maps any angle to (-180, 180].
func normalizeAngle(angle float64) float64 {
	a := math.Mod(angle, 360)
	if a > 180 {
		a -= 360
	} else if a <= -180 {
		a += 360
	}
	return a
}
