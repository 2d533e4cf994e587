// Package transform evaluates the nested translate/rotate/scale/lookat/
// matrix sub-language of a Transform element into a 4x4 affine matrix.
package transform

import "github.com/chewxy/math32"

// Matrix4 is a row-major 4x4 matrix.
type Matrix4 [4][4]float32

// Identity returns the identity matrix, the initial value of a Transform
// element's accumulator.
func Identity() Matrix4 {
	var m Matrix4
	for i := 0; i < 4; i++ {
		m[i][i] = 1
	}
	return m
}

// Mul returns a*b (matrix product, a applied after b when used on a
// column vector).
func (a Matrix4) Mul(b Matrix4) Matrix4 {
	var out Matrix4
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			var sum float32
			for k := 0; k < 4; k++ {
				sum += a[i][k] * b[k][j]
			}
			out[i][j] = sum
		}
	}
	return out
}

// HasNaN reports whether any entry of m is NaN.
func (m Matrix4) HasNaN() bool {
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			if math32.IsNaN(m[i][j]) {
				return true
			}
		}
	}
	return false
}

// Translate builds a translation matrix.
func Translate(x, y, z float32) Matrix4 {
	m := Identity()
	m[0][3], m[1][3], m[2][3] = x, y, z
	return m
}

// Scale builds a scaling matrix.
func Scale(x, y, z float32) Matrix4 {
	m := Identity()
	m[0][0], m[1][1], m[2][2] = x, y, z
	return m
}

// Rotate builds a rotation matrix around the normalized axis (x,y,z) by
// angleDeg degrees, using the Rodrigues rotation formula.
func Rotate(angleDeg, x, y, z float32) Matrix4 {
	length := math32.Sqrt(x*x + y*y + z*z)
	if length == 0 {
		return Identity()
	}
	x, y, z = x/length, y/length, z/length

	theta := angleDeg * math32.Pi / 180
	s, c := math32.Sin(theta), math32.Cos(theta)
	t := 1 - c

	m := Identity()
	m[0][0], m[0][1], m[0][2] = t*x*x+c, t*x*y-s*z, t*x*z+s*y
	m[1][0], m[1][1], m[1][2] = t*x*y+s*z, t*y*y+c, t*y*z-s*x
	m[2][0], m[2][1], m[2][2] = t*x*z-s*y, t*y*z+s*x, t*z*z+c
	return m
}

// LookAt builds a view-to-world matrix placing the origin at eye, the +Z
// axis pointing at target, and up used to disambiguate roll.
func LookAt(eye, target, up [3]float32) Matrix4 {
	dir := sub(target, eye)
	dir = normalize(dir)

	left := normalize(cross(normalize(up), dir))
	newUp := cross(dir, left)

	m := Identity()
	for i := 0; i < 3; i++ {
		m[i][0] = left[i]
		m[i][1] = newUp[i]
		m[i][2] = dir[i]
		m[i][3] = eye[i]
	}
	return m
}

// MatrixFromValues builds a matrix from 16 row-major values.
func MatrixFromValues(v [16]float32) Matrix4 {
	var m Matrix4
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			m[i][j] = v[i*4+j]
		}
	}
	return m
}

func sub(a, b [3]float32) [3]float32 {
	return [3]float32{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

func cross(a, b [3]float32) [3]float32 {
	return [3]float32{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

func normalize(v [3]float32) [3]float32 {
	length := math32.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
	if length == 0 {
		return v
	}
	return [3]float32{v[0] / length, v[1] / length, v[2] / length}
}
