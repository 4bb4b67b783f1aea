package equirect

import "github.com/Faultbox/panoview/pkg/math"

// ComposeRotation builds the camera rotation for a yaw of thetaDeg and a pitch
// of phiDeg. Yaw turns around the world vertical axis (0,1,0). Pitch then turns
// around the horizontal axis as it stands after the yaw, so the camera tilts
// relative to where it is looking. The result is R2·R1.
func ComposeRotation(thetaDeg, phiDeg float64) math.Mat3 {
	r1 := Yaw(thetaDeg)
	r2 := math.AxisAngle(PitchAxis(r1).Scale(math.Radians(phiDeg)))
	return r2.Mul(r1)
}

// Yaw returns the rotation by thetaDeg around the vertical axis.
func Yaw(thetaDeg float64) math.Mat3 {
	return math.AxisAngle(math.AxisY.Scale(math.Radians(thetaDeg)))
}

// PitchAxis returns the horizontal axis (1,0,0) carried through the yaw r1.
func PitchAxis(r1 math.Mat3) math.Vec3 {
	return r1.MulVec(math.AxisX)
}
