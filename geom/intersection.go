package geom

import (
	"math"
)

// The intersection tests are backface-culling and treat primitives as
// hollow, so intersections are always at boundaries. Whether a ray starts
// inside a closed primitive can be recovered from the signs of T0 and T1.
//
// Comparisons are written so that a NaN produced by degenerate input fails
// the test rather than passing it.
//
// Test objects are small enough to live on the stack. They should not be
// shared between goroutines, but any number of them can run against the
// same primitives concurrently.

// Intersect finds the entry parameter of a ray into a primitive.
type Intersect struct {
	T0 float32
}

// IntersectRange finds the entry and exit parameters of a ray through a
// closed primitive.
type IntersectRange struct {
	T0, T1 float32
}

// IntersectBarycentric finds the ray parameter of a ray-triangle hit along
// with its barycentric coordinates, so that the hit point is
// W*v0 + U*v1 + V*v2.
type IntersectBarycentric struct {
	T0      float32
	U, V, W float32
}

// Plane tests r against the front face of p. Rays travelling along the
// normal or parallel to the plane miss.
func (is *Intersect) Plane(r *Ray, p *Plane) bool {
	denom := r.Direction.Dot(p.Normal)
	if !(denom < 0) {
		return false
	}
	is.T0 = (p.Dist - r.Origin.Dot(p.Normal)) / denom
	return is.T0 >= 0
}

// Sphere tests r against s. If r starts inside s, T0 is the exit parameter.
func (is *Intersect) Sphere(r *Ray, s *Sphere) bool {
	oc := r.Origin.Sub(s.Center)
	a := r.Direction.Dot(r.Direction)
	b := oc.Dot(r.Direction)
	c := oc.Dot(oc) - s.Radius*s.Radius

	disc := b*b - a*c
	if !(disc >= 0) {
		return false
	}
	sq := float32(math.Sqrt(float64(disc)))

	is.T0 = (-b - sq) / a
	if !(is.T0 >= 0) {
		is.T0 = (-b + sq) / a
		return is.T0 >= 0
	}
	return true
}

// Triangle tests r against the front face of t.
func (is *Intersect) Triangle(r *Ray, t *Triangle) bool {
	t0, _, _, ok := intersectTriangle(r, t, false)
	is.T0 = t0
	return ok
}

// Box tests r against b without any precomputation. It is equivalent to
// FastBox and is intended for callers testing a ray against only a few boxes.
func (ir *IntersectRange) Box(r *Ray, b *Box) bool {
	t0, t1 := float32(math.Inf(-1)), float32(math.Inf(+1))
	for i := 0; i < 3; i++ {
		inv := 1 / r.Direction[i]
		near := (b.Corner[0][i] - r.Origin[i]) * inv
		far := (b.Corner[1][i] - r.Origin[i]) * inv
		if inv < 0 {
			near, far = far, near
		}
		if near > t0 {
			t0 = near
		}
		if far < t1 {
			t1 = far
		}
	}

	ir.T0, ir.T1 = t0, t1
	return t0 <= t1 && t1 >= 0
}

// FastBox tests fr against b with the slab test of Williams et al. Axes
// parallel to the ray are handled by the infinities in fr.InvDir.
func (ir *IntersectRange) FastBox(fr *FastRay, b *Box) bool {
	t0, t1 := float32(math.Inf(-1)), float32(math.Inf(+1))
	for i := 0; i < 3; i++ {
		s := fr.Sign[i]
		near := (b.Corner[s][i] - fr.Origin[i]) * fr.InvDir[i]
		far := (b.Corner[1-s][i] - fr.Origin[i]) * fr.InvDir[i]
		if near > t0 {
			t0 = near
		}
		if far < t1 {
			t1 = far
		}
	}

	ir.T0, ir.T1 = t0, t1
	return t0 <= t1 && t1 >= 0
}

// FastSphere tests fr against s and returns both roots. T0 is negative if
// fr starts inside s. The test fails if s is entirely behind fr.
func (ir *IntersectRange) FastSphere(fr *FastRay, s *Sphere) bool {
	b := fr.DotOD - fr.Direction.Dot(s.Center)
	c := fr.DotOO - 2*fr.Origin.Dot(s.Center) +
		s.Center.Dot(s.Center) - s.Radius*s.Radius

	disc := b*b - fr.DotDD*c
	if !(disc >= 0) {
		return false
	}
	sq := float32(math.Sqrt(float64(disc)))

	ir.T0 = (-b - sq) / fr.DotDD
	ir.T1 = (-b + sq) / fr.DotDD
	return ir.T1 >= 0
}

// Triangle tests r against the front face of t.
func (ib *IntersectBarycentric) Triangle(r *Ray, t *Triangle) bool {
	return ib.triangle(r, t, false)
}

// TriangleTwoSided tests r against both faces of t.
func (ib *IntersectBarycentric) TriangleTwoSided(r *Ray, t *Triangle) bool {
	return ib.triangle(r, t, true)
}

func (ib *IntersectBarycentric) triangle(
	r *Ray, t *Triangle, twoSided bool,
) bool {
	t0, u, v, ok := intersectTriangle(r, t, twoSided)
	if !ok {
		return false
	}
	ib.T0, ib.U, ib.V, ib.W = t0, u, v, 1-u-v
	return true
}

// intersectTriangle is the Moller-Trumbore solve. det is -dot(dir, normal),
// so front-facing hits have det > 0.
func intersectTriangle(
	r *Ray, t *Triangle, twoSided bool,
) (t0, u, v float32, ok bool) {
	e1 := t.Position[1].Sub(t.Position[0])
	e2 := t.Position[2].Sub(t.Position[0])

	p := r.Direction.Cross(e2)
	det := e1.Dot(p)
	if twoSided {
		if det == 0 {
			return 0, 0, 0, false
		}
	} else if !(det > 0) {
		return 0, 0, 0, false
	}
	inv := 1 / det

	s := r.Origin.Sub(t.Position[0])
	u = s.Dot(p) * inv
	if !(u >= 0 && u <= 1) {
		return 0, 0, 0, false
	}

	q := s.Cross(e1)
	v = r.Direction.Dot(q) * inv
	if !(v >= 0 && u+v <= 1) {
		return 0, 0, 0, false
	}

	t0 = e2.Dot(q) * inv
	if !(t0 >= 0) {
		return 0, 0, 0, false
	}
	return t0, u, v, true
}
