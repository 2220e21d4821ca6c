package math

import (
	"fmt"
	"math"
)

// Mat4 is stored so that a row vector multiplied on the left applies the
// transform: v' = v * M. The translation lives in row 3, which makes the
// in-memory order identical to OpenGL's column-major layout.
type Mat4 [4][4]float32

func Mat4Identity() Mat4 {
	return Mat4{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	}
}

func Mat4Zero() Mat4 {
	return Mat4{}
}

// Mul returns m * other. Under the row-vector convention the result applies
// m first and other second.
func (m Mat4) Mul(other Mat4) Mat4 {
	result := Mat4Zero()
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			for k := 0; k < 4; k++ {
				result[i][j] += m[i][k] * other[k][j]
			}
		}
	}
	return result
}

func (m Mat4) MulVec(v Vec4) Vec4 {
	return v.MulMat(m)
}

func (m Mat4) MulVec3(v Vec3) Vec3 {
	v4 := v.ToVec4(1.0)
	result := m.MulVec(v4)
	return result.ToVec3DivW()
}

// MulDir transforms a direction, ignoring translation.
func (m Mat4) MulDir(v Vec3) Vec3 {
	return m.MulVec(v.ToVec4(0)).ToVec3()
}

func (m Mat4) Transpose() Mat4 {
	return Mat4{
		{m[0][0], m[1][0], m[2][0], m[3][0]},
		{m[0][1], m[1][1], m[2][1], m[3][1]},
		{m[0][2], m[1][2], m[2][2], m[3][2]},
		{m[0][3], m[1][3], m[2][3], m[3][3]},
	}
}

// Flatten returns the 16 values in memory order, ready for a
// glUniformMatrix4fv call with transpose=false.
func (m Mat4) Flatten() [16]float32 {
	var out [16]float32
	for i := 0; i < 4; i++ {
		copy(out[i*4:i*4+4], m[i][:])
	}
	return out
}

func (m Mat4) Components() []float32 {
	f := m.Flatten()
	return f[:]
}

// ApproxEqual reports whether every element differs by at most eps.
func (m Mat4) ApproxEqual(other Mat4, eps float32) bool {
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			if float32(math.Abs(float64(m[i][j]-other[i][j]))) > eps {
				return false
			}
		}
	}
	return true
}

func Mat4Translation(translation Vec3) Mat4 {
	m := Mat4Identity()
	m[3][0] = translation.X
	m[3][1] = translation.Y
	m[3][2] = translation.Z
	return m
}

func Mat4Scale(scale Vec3) Mat4 {
	m := Mat4Identity()
	m[0][0] = scale.X
	m[1][1] = scale.Y
	m[2][2] = scale.Z
	return m
}

// Mat4RotationAxis rotates counter-clockwise (right-handed) by angle radians
// about axis. A zero axis yields the identity.
func Mat4RotationAxis(axis Vec3, angle float32) Mat4 {
	if axis.LengthSqr() == 0 {
		return Mat4Identity()
	}
	axis = axis.Normalize()
	c := float32(math.Cos(float64(angle)))
	s := float32(math.Sin(float64(angle)))
	t := 1 - c

	x, y, z := axis.X, axis.Y, axis.Z

	return Mat4{
		{t*x*x + c, t*x*y + s*z, t*x*z - s*y, 0},
		{t*x*y - s*z, t*y*y + c, t*y*z + s*x, 0},
		{t*x*z + s*y, t*y*z - s*x, t*z*z + c, 0},
		{0, 0, 0, 1},
	}
}

// Mat4Perspective builds a symmetric-frustum projection. fovY is in radians.
// Degenerate parameters return ErrDomain instead of a matrix full of Inf/NaN.
func Mat4Perspective(fovY, aspect, near, far float32) (Mat4, error) {
	switch {
	case near <= 0:
		return Mat4{}, fmt.Errorf("%w: near plane %v must be positive", ErrDomain, near)
	case far <= near:
		return Mat4{}, fmt.Errorf("%w: far plane %v must be beyond near plane %v", ErrDomain, far, near)
	case aspect <= 0:
		return Mat4{}, fmt.Errorf("%w: aspect ratio %v must be positive", ErrDomain, aspect)
	case fovY <= 0 || fovY >= math.Pi:
		return Mat4{}, fmt.Errorf("%w: field of view %v rad out of range", ErrDomain, fovY)
	}

	f := float32(1 / math.Tan(float64(fovY)/2))
	nf := 1 / (near - far)

	m := Mat4Zero()
	m[0][0] = f / aspect
	m[1][1] = f
	m[2][2] = (far + near) * nf
	m[2][3] = -1
	m[3][2] = 2 * far * near * nf
	return m, nil
}

// Mat4LookAt builds a view matrix from eye, target and up.
// Coincident eye and target, or an up vector parallel to the view direction,
// return ErrDomain.
func Mat4LookAt(eye, target, up Vec3) (Mat4, error) {
	forward := target.Sub(eye)
	if forward.LengthSqr() == 0 {
		return Mat4{}, fmt.Errorf("%w: eye and target coincide at %v", ErrDomain, eye)
	}
	forward = forward.Normalize()

	right := forward.Cross(up)
	if right.LengthSqr() < 1e-12 {
		return Mat4{}, fmt.Errorf("%w: up vector %v is parallel to view direction", ErrDomain, up)
	}
	right = right.Normalize()
	trueUp := right.Cross(forward)

	return Mat4{
		{right.X, trueUp.X, -forward.X, 0},
		{right.Y, trueUp.Y, -forward.Y, 0},
		{right.Z, trueUp.Z, -forward.Z, 0},
		{-right.Dot(eye), -trueUp.Dot(eye), forward.Dot(eye), 1},
	}, nil
}

// Inverse returns the inverse of m. The second result is false when m is
// singular, in which case the identity is returned.
func (m Mat4) Inverse() (Mat4, bool) {
	a := m.Flatten()
	var inv [16]float32

	inv[0] = a[5]*a[10]*a[15] - a[5]*a[11]*a[14] - a[9]*a[6]*a[15] + a[9]*a[7]*a[14] + a[13]*a[6]*a[11] - a[13]*a[7]*a[10]
	inv[4] = -a[4]*a[10]*a[15] + a[4]*a[11]*a[14] + a[8]*a[6]*a[15] - a[8]*a[7]*a[14] - a[12]*a[6]*a[11] + a[12]*a[7]*a[10]
	inv[8] = a[4]*a[9]*a[15] - a[4]*a[11]*a[13] - a[8]*a[5]*a[15] + a[8]*a[7]*a[13] + a[12]*a[5]*a[11] - a[12]*a[7]*a[9]
	inv[12] = -a[4]*a[9]*a[14] + a[4]*a[10]*a[13] + a[8]*a[5]*a[14] - a[8]*a[6]*a[13] - a[12]*a[5]*a[10] + a[12]*a[6]*a[9]
	inv[1] = -a[1]*a[10]*a[15] + a[1]*a[11]*a[14] + a[9]*a[2]*a[15] - a[9]*a[3]*a[14] - a[13]*a[2]*a[11] + a[13]*a[3]*a[10]
	inv[5] = a[0]*a[10]*a[15] - a[0]*a[11]*a[14] - a[8]*a[2]*a[15] + a[8]*a[3]*a[14] + a[12]*a[2]*a[11] - a[12]*a[3]*a[10]
	inv[9] = -a[0]*a[9]*a[15] + a[0]*a[11]*a[13] + a[8]*a[1]*a[15] - a[8]*a[3]*a[13] - a[12]*a[1]*a[11] + a[12]*a[3]*a[9]
	inv[13] = a[0]*a[9]*a[14] - a[0]*a[10]*a[13] - a[8]*a[1]*a[14] + a[8]*a[2]*a[13] + a[12]*a[1]*a[10] - a[12]*a[2]*a[9]
	inv[2] = a[1]*a[6]*a[15] - a[1]*a[7]*a[14] - a[5]*a[2]*a[15] + a[5]*a[3]*a[14] + a[13]*a[2]*a[7] - a[13]*a[3]*a[6]
	inv[6] = -a[0]*a[6]*a[15] + a[0]*a[7]*a[14] + a[4]*a[2]*a[15] - a[4]*a[3]*a[14] - a[12]*a[2]*a[7] + a[12]*a[3]*a[6]
	inv[10] = a[0]*a[5]*a[15] - a[0]*a[7]*a[13] - a[4]*a[1]*a[15] + a[4]*a[3]*a[13] + a[12]*a[1]*a[7] - a[12]*a[3]*a[5]
	inv[14] = -a[0]*a[5]*a[14] + a[0]*a[6]*a[13] + a[4]*a[1]*a[14] - a[4]*a[2]*a[13] - a[12]*a[1]*a[6] + a[12]*a[2]*a[5]
	inv[3] = -a[1]*a[6]*a[11] + a[1]*a[7]*a[10] + a[5]*a[2]*a[11] - a[5]*a[3]*a[10] - a[9]*a[2]*a[7] + a[9]*a[3]*a[6]
	inv[7] = a[0]*a[6]*a[11] - a[0]*a[7]*a[10] - a[4]*a[2]*a[11] + a[4]*a[3]*a[10] + a[8]*a[2]*a[7] - a[8]*a[3]*a[6]
	inv[11] = -a[0]*a[5]*a[11] + a[0]*a[7]*a[9] + a[4]*a[1]*a[11] - a[4]*a[3]*a[9] - a[8]*a[1]*a[7] + a[8]*a[3]*a[5]
	inv[15] = a[0]*a[5]*a[10] - a[0]*a[6]*a[9] - a[4]*a[1]*a[10] + a[4]*a[2]*a[9] + a[8]*a[1]*a[6] - a[8]*a[2]*a[5]

	det := a[0]*inv[0] + a[1]*inv[4] + a[2]*inv[8] + a[3]*inv[12]
	if det == 0 {
		return Mat4Identity(), false
	}
	det = 1 / det

	var out Mat4
	for i := 0; i < 16; i++ {
		out[i/4][i%4] = inv[i] * det
	}
	return out, true
}

// NormalMatrix returns the transform that carries surface normals through m:
// the inverse-transpose of its linear part, with translation removed.
func (m Mat4) NormalMatrix() Mat4 {
	linear := m
	linear[3] = [4]float32{0, 0, 0, 1}
	linear[0][3], linear[1][3], linear[2][3] = 0, 0, 0
	inv, ok := linear.Inverse()
	if !ok {
		return linear
	}
	return inv.Transpose()
}
