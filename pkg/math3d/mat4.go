package math3d

import "math"

// Mat4 is a 4x4 matrix stored in column-major order.
// Vectors are column vectors, so a.Mul(b) applied to v is a·(b·v):
// b runs first.
//
// Memory layout (indices):
// | 0  4  8  12 |
// | 1  5  9  13 |
// | 2  6  10 14 |
// | 3  7  11 15 |
type Mat4 [16]float64

// Identity returns the identity matrix.
func Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Translate creates a translation matrix.
func Translate(v Vec3) Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		v.X, v.Y, v.Z, 1,
	}
}

// Scale creates a scaling matrix.
func Scale(v Vec3) Mat4 {
	return Mat4{
		v.X, 0, 0, 0,
		0, v.Y, 0, 0,
		0, 0, v.Z, 0,
		0, 0, 0, 1,
	}
}

// RotateX creates a rotation matrix around the X axis.
func RotateX(angle float64) Mat4 {
	c, s := math.Cos(angle), math.Sin(angle)
	return Mat4{
		1, 0, 0, 0,
		0, c, s, 0,
		0, -s, c, 0,
		0, 0, 0, 1,
	}
}

// RotateY creates a rotation matrix around the Y axis.
func RotateY(angle float64) Mat4 {
	c, s := math.Cos(angle), math.Sin(angle)
	return Mat4{
		c, 0, -s, 0,
		0, 1, 0, 0,
		s, 0, c, 0,
		0, 0, 0, 1,
	}
}

// RotateZ creates a rotation matrix around the Z axis.
func RotateZ(angle float64) Mat4 {
	c, s := math.Cos(angle), math.Sin(angle)
	return Mat4{
		c, s, 0, 0,
		-s, c, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// World builds a mesh instance's world matrix, T · Rz · Ry · Rx · S.
// A vertex is scaled first, then rotated about X, Y and Z in that order,
// then translated. Rotation angles are in radians.
func World(scale, rotation, translation Vec3) Mat4 {
	return Translate(translation).
		Mul(RotateZ(rotation.Z)).
		Mul(RotateY(rotation.Y)).
		Mul(RotateX(rotation.X)).
		Mul(Scale(scale))
}

// LookAt creates a view matrix for an eye looking at target.
// The forward direction maps to +Z in view space.
func LookAt(eye, target, up Vec3) Mat4 {
	f := target.Sub(eye).Normalize() // Forward
	r := up.Cross(f).Normalize()     // Right
	u := f.Cross(r)                  // Up (recomputed)

	return Mat4{
		r.X, u.X, f.X, 0,
		r.Y, u.Y, f.Y, 0,
		r.Z, u.Z, f.Z, 0,
		-r.Dot(eye), -u.Dot(eye), -f.Dot(eye), 1,
	}
}

// Perspective creates a perspective projection matrix.
// fovy is the vertical field of view in radians and aspect is width/height.
//
// The clip-space W of a projected point equals its view-space Z, and after
// the divide a point at near lands on Z=0 and a point at far on Z=1.
func Perspective(fovy, aspect, near, far float64) Mat4 {
	f := 1.0 / math.Tan(fovy/2)
	q := far / (far - near)

	return Mat4{
		f / aspect, 0, 0, 0,
		0, f, 0, 0,
		0, 0, q, 1,
		0, 0, -q * near, 0,
	}
}

// FOVX returns the horizontal field of view matching a vertical fovy at the
// given aspect ratio.
func FOVX(fovy, aspect float64) float64 {
	return 2 * math.Atan(math.Tan(fovy/2)*aspect)
}

// Mul multiplies two matrices: a * b.
func (a Mat4) Mul(b Mat4) Mat4 {
	var m Mat4
	for col := range 4 {
		for row := range 4 {
			var sum float64
			for k := range 4 {
				sum += a[row+k*4] * b[k+col*4]
			}
			m[row+col*4] = sum
		}
	}
	return m
}

// MulVec3 transforms a Vec3 as a point (w=1), without a perspective divide.
func (m Mat4) MulVec3(v Vec3) Vec3 {
	return m.MulVec4(V4FromV3(v)).Vec3()
}

// MulVec4 transforms a Vec4.
func (m Mat4) MulVec4(v Vec4) Vec4 {
	return Vec4{
		m[0]*v.X + m[4]*v.Y + m[8]*v.Z + m[12]*v.W,
		m[1]*v.X + m[5]*v.Y + m[9]*v.Z + m[13]*v.W,
		m[2]*v.X + m[6]*v.Y + m[10]*v.Z + m[14]*v.W,
		m[3]*v.X + m[7]*v.Y + m[11]*v.Z + m[15]*v.W,
	}
}

// MulVec4Project runs v through a projection matrix and returns the clip
// vector. The perspective divide is left to the caller, which also needs
// the undivided W for depth and attribute interpolation.
func (m Mat4) MulVec4Project(v Vec4) Vec4 {
	return m.MulVec4(v)
}
