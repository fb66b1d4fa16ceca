package phys

import "math"

// Vec3 is a 3-component vector in SI units.
type Vec3 struct {
	X, Y, Z float64
}

func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }

func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }

func (v Vec3) Dot(o Vec3) float64 { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }

func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

func (v Vec3) Norm() float64  { return math.Sqrt(v.Dot(v)) }
func (v Vec3) Norm2() float64 { return v.Dot(v) }

// Unit returns the normalized vector, or the zero vector if v is zero.
func (v Vec3) Unit() Vec3 {
	n := v.Norm()
	if n == 0 {
		return Vec3{}
	}
	return v.Scale(1 / n)
}

func (v Vec3) IsZero() bool { return v.X == 0 && v.Y == 0 && v.Z == 0 }

func (v Vec3) IsValid() bool {
	for _, c := range [3]float64{v.X, v.Y, v.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// Basis returns two unit vectors spanning the plane perpendicular to v.
// v need not be normalized but must be nonzero.
func (v Vec3) Basis() (Vec3, Vec3) {
	n := v.Unit()
	ref := Vec3{1, 0, 0}
	if math.Abs(n.X) > 0.9 {
		ref = Vec3{0, 1, 0}
	}
	e1 := n.Cross(ref).Unit()
	e2 := n.Cross(e1)
	return e1, e2
}
