package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// ParallelEps is the threshold below which the squared sine of the angle
// between two plane normals (or the determinant of three normals) is treated
// as zero by IntersectPlanes and IntersectThreePlanes. Unit normals less than
// about 1e-3 radians apart count as parallel, so planes 0.0005 radians apart
// are reported as not intersecting.
const ParallelEps float32 = 1e-6

// IntersectRectangles returns the overlap of two rectangles. ok is false if
// the overlap has no area; rectangles which only share an edge do not
// overlap.
func IntersectRectangles(r0, r1 Rectangle) (result Rectangle, ok bool) {
	x0 := max(r0.Position[0], r1.Position[0])
	y0 := max(r0.Position[1], r1.Position[1])
	x1 := min(r0.Position[0]+r0.Size[0], r1.Position[0]+r1.Size[0])
	y1 := min(r0.Position[1]+r0.Size[1], r1.Position[1]+r1.Size[1])

	if !(x0 < x1 && y0 < y1) {
		return Rectangle{}, false
	}
	return NewRectangle(x0, y0, x1-x0, y1-y0), true
}

// IntersectPlanes returns the line shared by two planes as a ray with
// direction cross(p0.Normal, p1.Normal). The origin of the ray is the point
// on the line closest to the world origin.
//
// ok is false if the planes are parallel. Coincident planes are also
// reported as false: they share a plane, not a line.
func IntersectPlanes(p0, p1 Plane) (r Ray, ok bool) {
	dir := p0.Normal.Cross(p1.Normal)
	if !(dir.Dot(dir) > ParallelEps) {
		return Ray{}, false
	}

	// Solve for origin = k0*n0 + k1*n1 subject to dot(n_i, origin) = d_i.
	n00 := p0.Normal.Dot(p0.Normal)
	n11 := p1.Normal.Dot(p1.Normal)
	n01 := p0.Normal.Dot(p1.Normal)
	det := n00*n11 - n01*n01

	k0 := (p0.Dist*n11 - p1.Dist*n01) / det
	k1 := (p1.Dist*n00 - p0.Dist*n01) / det

	origin := p0.Normal.Mul(k0).Add(p1.Normal.Mul(k1))
	return Ray{origin, dir}, true
}

// IntersectThreePlanes returns the single point shared by three planes,
// found with Cramer's rule. ok is false if the three normals are coplanar,
// which includes any two of them being parallel.
func IntersectThreePlanes(p0, p1, p2 Plane) (point mgl32.Vec3, ok bool) {
	c12 := p1.Normal.Cross(p2.Normal)
	denom := p0.Normal.Dot(c12)
	if !(mgl32.Abs(denom) > ParallelEps) {
		return mgl32.Vec3{}, false
	}

	c20 := p2.Normal.Cross(p0.Normal)
	c01 := p0.Normal.Cross(p1.Normal)

	point = c12.Mul(p0.Dist).Add(c20.Mul(p1.Dist)).Add(c01.Mul(p2.Dist))
	return point.Mul(1 / denom), true
}

// IntersectSphereBox returns true if the sphere and the box overlap.
func IntersectSphereBox(s Sphere, b Box) bool {
	var d2 float32
	for i := 0; i < 3; i++ {
		c := mgl32.Clamp(s.Center[i], b.Corner[0][i], b.Corner[1][i])
		d := c - s.Center[i]
		d2 += d * d
	}
	return d2 <= s.Radius*s.Radius
}

// IntersectConeSphere returns true if the sphere overlaps the cone: the
// angle between the cone's axis and the sphere's center, less the angular
// radius of the sphere as seen from the apex, is no larger than the cone's
// half-angle.
func IntersectConeSphere(c Cone, s Sphere) bool {
	v := s.Center.Sub(c.Origin)
	dist2 := v.Dot(v)
	if dist2 <= s.Radius*s.Radius {
		return true
	}
	dist := math.Sqrt(float64(dist2))

	cos := float64(v.Dot(c.Axis())) / dist
	theta := math.Acos(math.Max(-1, math.Min(1, cos)))
	phi := math.Asin(float64(s.Radius) / dist)

	return theta-phi <= float64(c.Angle)
}
