package geom

import (
	"github.com/go-gl/mathgl/mgl32"
)

// FastRay is a Ray with the terms that box and sphere tests need
// precomputed. A FastRay is a snapshot: if the source Ray changes, build a
// new FastRay with NewFastRay.
type FastRay struct {
	Ray

	DotOD, DotOO, DotDD float32
	// InvDir is 1 / Direction. Zero components give +/-Inf.
	InvDir mgl32.Vec3
	// Sign[i] is 1 if InvDir[i] is negative and 0 otherwise.
	Sign [3]int
}

// NewFastRay precomputes the derived terms of r.
func NewFastRay(r Ray) FastRay {
	fr := FastRay{Ray: r}
	fr.DotOD = r.Origin.Dot(r.Direction)
	fr.DotOO = r.Origin.Dot(r.Origin)
	fr.DotDD = r.Direction.Dot(r.Direction)
	for i := 0; i < 3; i++ {
		fr.InvDir[i] = 1 / r.Direction[i]
		if fr.InvDir[i] < 0 {
			fr.Sign[i] = 1
		}
	}
	return fr
}

// Frustum is a view frustum reduced to the directions of its four corner
// rays and their shared origin.
//
// Point ordering is:
// 0: top left, 1: top right, 2: bottom left, 3: bottom right.
type Frustum struct {
	Point  [4]mgl32.Vec3
	Origin mgl32.Vec3
}

var frustumCorners = [4]mgl32.Vec2{{-1, +1}, {+1, +1}, {-1, -1}, {+1, -1}}

// NewFrustum derives a frustum from a perspective view-projection matrix
// which maps world space to OpenGL clip space.
func NewFrustum(m mgl32.Mat4) Frustum {
	inv := m.Inv()

	// The eye is the only point which a perspective transform sends to
	// w = 0, so it is the unprojection of the point at infinity along z.
	eye := unproject(&inv, mgl32.Vec4{0, 0, 1, 0})

	f := Frustum{Origin: eye}
	for i, c := range frustumCorners {
		near := unproject(&inv, mgl32.Vec4{c[0], c[1], -1, 1})
		f.Point[i] = near.Sub(eye)
	}
	return f
}

func unproject(inv *mgl32.Mat4, v mgl32.Vec4) mgl32.Vec3 {
	h := inv.Mul4x1(v)
	return h.Vec3().Mul(1 / h[3])
}

// Ray returns the ray through the normalized screen position (x, y), where
// (0, 0) is the top left corner and (1, 1) is the bottom right corner.
func (f *Frustum) Ray(x, y float32) Ray {
	top := lerp(f.Point[0], f.Point[1], x)
	bottom := lerp(f.Point[2], f.Point[3], x)
	return Ray{f.Origin, lerp(top, bottom, y)}
}

func lerp(a, b mgl32.Vec3, t float32) mgl32.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}
