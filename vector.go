package voxel

import "fmt"

// Vector3i is an integer 3D vector used for block extents and voxel positions.
type Vector3i struct {
	X, Y, Z int
}

// Vec3 is a convenience function to create a Vector3i.
func Vec3(x, y, z int) Vector3i {
	return Vector3i{X: x, Y: y, Z: z}
}

// Splat returns a vector with all components set to v.
func Splat(v int) Vector3i {
	return Vector3i{X: v, Y: v, Z: v}
}

// Add returns the component-wise sum of two vectors.
func (v Vector3i) Add(o Vector3i) Vector3i {
	return Vector3i{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z}
}

// Sub returns the component-wise difference of two vectors.
func (v Vector3i) Sub(o Vector3i) Vector3i {
	return Vector3i{X: v.X - o.X, Y: v.Y - o.Y, Z: v.Z - o.Z}
}

// Mul returns the vector scaled by s.
func (v Vector3i) Mul(s int) Vector3i {
	return Vector3i{X: v.X * s, Y: v.Y * s, Z: v.Z * s}
}

// Shl shifts every component left by n bits.
func (v Vector3i) Shl(n uint) Vector3i {
	return Vector3i{X: v.X << n, Y: v.Y << n, Z: v.Z << n}
}

// Shr shifts every component right by n bits.
func (v Vector3i) Shr(n uint) Vector3i {
	return Vector3i{X: v.X >> n, Y: v.Y >> n, Z: v.Z >> n}
}

// Min returns the component-wise minimum of two vectors.
func (v Vector3i) Min(o Vector3i) Vector3i {
	return Vector3i{X: min(v.X, o.X), Y: min(v.Y, o.Y), Z: min(v.Z, o.Z)}
}

// Max returns the component-wise maximum of two vectors.
func (v Vector3i) Max(o Vector3i) Vector3i {
	return Vector3i{X: max(v.X, o.X), Y: max(v.Y, o.Y), Z: max(v.Z, o.Z)}
}

// Clamp limits every component to [lo, hi].
func (v Vector3i) Clamp(lo, hi Vector3i) Vector3i {
	return v.Max(lo).Min(hi)
}

// Volume returns X*Y*Z.
func (v Vector3i) Volume() int {
	return v.X * v.Y * v.Z
}

// IsEmpty reports whether any component is zero or negative.
func (v Vector3i) IsEmpty() bool {
	return v.X <= 0 || v.Y <= 0 || v.Z <= 0
}

// Contains reports whether p lies inside the box [0, v).
func (v Vector3i) Contains(p Vector3i) bool {
	return p.X >= 0 && p.Y >= 0 && p.Z >= 0 &&
		p.X < v.X && p.Y < v.Y && p.Z < v.Z
}

// String returns the vector formatted as (x, y, z).
func (v Vector3i) String() string {
	return fmt.Sprintf("(%d, %d, %d)", v.X, v.Y, v.Z)
}

// SortMinMax reorders the components of a and b so that a <= b on every axis.
func SortMinMax(a, b Vector3i) (Vector3i, Vector3i) {
	return a.Min(b), a.Max(b)
}
