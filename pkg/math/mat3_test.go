package math

import (
	"math"
	"testing"
)

func TestIdentity(t *testing.T) {
	m := Identity()
	// Diagonal should be 1
	if m[0] != 1 || m[4] != 1 || m[8] != 1 {
		t.Error("Identity diagonal should be 1")
	}
	// Off-diagonal should be 0
	if m[1] != 0 || m[3] != 0 || m[5] != 0 {
		t.Error("Identity off-diagonal should be 0")
	}
}

func TestMulIdentity(t *testing.T) {
	m := Mat3{1, 2, 3, 4, 5, 6, 7, 8, 9}
	result := m.Mul(Identity())

	for i := 0; i < 9; i++ {
		if result[i] != m[i] {
			t.Errorf("M * I should equal M, element %d: got %f, want %f", i, result[i], m[i])
		}
	}
}

func TestMulOrder(t *testing.T) {
	a := Mat3{1, 2, 0, 0, 1, 0, 0, 0, 1}
	b := Mat3{1, 0, 0, 3, 1, 0, 0, 0, 1}

	ab := a.Mul(b)
	want := Mat3{7, 2, 0, 3, 1, 0, 0, 0, 1}
	if ab != want {
		t.Errorf("A*B = %v, want %v", ab, want)
	}
	if ab == b.Mul(a) {
		t.Error("A*B should differ from B*A for these matrices")
	}
}

func TestMulVec(t *testing.T) {
	m := Mat3{2, 0, 0, 0, 3, 0, 1, 0, 1}
	got := m.MulVec(Vec3{1, 2, 3})
	want := Vec3{2, 6, 4}
	if got != want {
		t.Errorf("MulVec: got %v, want %v", got, want)
	}
}

func TestTransposeDet(t *testing.T) {
	m := Mat3{2, -3, 1, 2, 0, -1, 1, 4, 5}
	if got := m.Det(); math.Abs(got-49) > 1e-12 {
		t.Errorf("Det: got %f, want 49", got)
	}
	if got := m.Transpose().Det(); math.Abs(got-49) > 1e-12 {
		t.Errorf("Det of transpose: got %f, want 49", got)
	}
	if m.Transpose().Transpose() != m {
		t.Error("double transpose should be identity operation")
	}
}

func TestSkewMatchesCross(t *testing.T) {
	v := Vec3{0.5, -2, 3}
	u := Vec3{4, 1, -1}
	got := Skew(v).MulVec(u)
	want := v.Cross(u)
	if got != want {
		t.Errorf("Skew(v)*u = %v, want %v", got, want)
	}
}

func TestAxisAngleY90(t *testing.T) {
	m := AxisAngle(Vec3{0, math.Pi / 2, 0})
	result := m.MulVec(AxisZ)

	// Yaw of +90° turns the forward ray towards +X.
	if math.Abs(result.X-1) > 1e-12 || math.Abs(result.Y) > 1e-12 || math.Abs(result.Z) > 1e-12 {
		t.Errorf("AxisAngle Y 90: got %v, want (1, 0, 0)", result)
	}
}

func TestAxisAngleZero(t *testing.T) {
	if m := AxisAngle(Vec3{}); m != Identity() {
		t.Errorf("zero rotation should be identity, got %v", m)
	}
}

func TestAxisAngleOrthonormal(t *testing.T) {
	axes := []Vec3{AxisX, AxisY, AxisZ, {1, 1, 1}, {-0.3, 0.2, 0.9}}
	for _, axis := range axes {
		for deg := -360.0; deg <= 360; deg += 15 {
			r := RotateAxis(axis, Radians(deg))
			if !r.Transpose().Mul(r).ApproxEqual(Identity(), 1e-12) {
				t.Errorf("RᵗR != I for axis %v angle %v", axis, deg)
			}
			if d := r.Det(); math.Abs(d-1) > 1e-12 {
				t.Errorf("det(R) = %v for axis %v angle %v", d, axis, deg)
			}
		}
	}
}

func TestAxisAngleRoundTrip(t *testing.T) {
	tests := []Vec3{
		{0, 0.5, 0},
		{0.1, -0.2, 0.3},
		{1.2, 0, -0.4},
		{0, 0, math.Pi - 1e-3},
		{0, math.Pi, 0},
	}

	for _, v := range tests {
		r := AxisAngle(v)
		back := AxisAngle(r.ToAxisAngle())
		if !back.ApproxEqual(r, 1e-9) {
			t.Errorf("round trip of %v: got %v, want %v", v, back, r)
		}
	}
}

func TestToAxisAngleNearHalfTurn(t *testing.T) {
	axis := Vec3{1, -2, 0.5}.Normalize()

	for _, d := range []float64{1e-2, 1e-3, 1e-4} {
		want := axis.Scale(math.Pi - d)
		got := AxisAngle(want).ToAxisAngle()
		if e := got.Sub(want).Length(); e > 1e-10 {
			t.Errorf("angle π-%g: got %v, want %v (error %g)", d, got, want, e)
		}
	}
}

func TestRadiansDegrees(t *testing.T) {
	if got := Radians(180); math.Abs(got-math.Pi) > 1e-15 {
		t.Errorf("Radians(180) = %v", got)
	}
	if got := Degrees(math.Pi / 2); math.Abs(got-90) > 1e-12 {
		t.Errorf("Degrees(π/2) = %v", got)
	}
}
