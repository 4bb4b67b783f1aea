package math

import "math"

// axisAngleEpsilon is the rotation magnitude below which AxisAngle returns identity.
const axisAngleEpsilon = 1e-15

// AxisAngle converts an angle-axis vector into a rotation matrix using the
// Rodrigues formula R = I + sin(θ)K + (1-cos(θ))K², where θ = |v| and K is the
// cross-product matrix of the unit axis v/|v|.
func AxisAngle(v Vec3) Mat3 {
	theta := v.Length()
	if theta < axisAngleEpsilon {
		return Identity()
	}

	k := Skew(v.Scale(1 / theta))
	k2 := k.Mul(k)

	return Identity().
		Add(k.ScaleBy(math.Sin(theta))).
		Add(k2.ScaleBy(1 - math.Cos(theta)))
}

// RotateAxis returns the rotation by angle radians around axis.
// axis need not be normalized; a zero axis yields identity.
func RotateAxis(axis Vec3, angle float64) Mat3 {
	return AxisAngle(axis.Normalize().Scale(angle))
}

// ToAxisAngle converts a rotation matrix back into its angle-axis vector.
// The angle of the result lies in [0, π].
func (m Mat3) ToAxisAngle() Vec3 {
	// w = 2 sin(θ) n, read off the skew-symmetric part of m.
	w := Vec3{m[7] - m[5], m[2] - m[6], m[3] - m[1]}
	sin := w.Length() / 2
	cos := (m[0] + m[4] + m[8] - 1) / 2
	theta := math.Atan2(sin, cos)
	if theta < axisAngleEpsilon {
		return Vec3{}
	}

	if sin > 1e-6 {
		return w.Scale(theta / (2 * sin))
	}

	// θ ≈ π: R = 2nnᵗ - I, take the largest diagonal entry for stability.
	xx := (m[0] + 1) / 2
	yy := (m[4] + 1) / 2
	zz := (m[8] + 1) / 2
	var n Vec3
	switch {
	case xx >= yy && xx >= zz:
		x := math.Sqrt(xx)
		n = Vec3{x, (m[1] + m[3]) / (4 * x), (m[2] + m[6]) / (4 * x)}
	case yy >= zz:
		y := math.Sqrt(yy)
		n = Vec3{(m[1] + m[3]) / (4 * y), y, (m[5] + m[7]) / (4 * y)}
	default:
		z := math.Sqrt(zz)
		n = Vec3{(m[2] + m[6]) / (4 * z), (m[5] + m[7]) / (4 * z), z}
	}
	return n.Normalize().Scale(theta)
}

// Radians converts degrees to radians.
func Radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// Degrees converts radians to degrees.
func Degrees(rad float64) float64 {
	return rad * 180 / math.Pi
}
