/*package geom contains geometric primitives and the intersection tests
between them.

All primitives are small value types built on mgl32 vectors. Routines in
this package never allocate or return errors: a failed test is reported as
false and degenerate inputs are resolved by whatever IEEE arithmetic
produces.

Contains implementations of algorithms described in Moller & Trumbore, 1997,
Williams et al., 2005, and Ericson's Real-Time Collision Detection.
*/
package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

func minVec(a, b mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{min(a[0], b[0]), min(a[1], b[1]), min(a[2], b[2])}
}

func maxVec(a, b mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{max(a[0], b[0]), max(a[1], b[1]), max(a[2], b[2])}
}

// Rectangle is an axis-aligned 2D rectangle anchored at its lower corner.
type Rectangle struct {
	Position, Size mgl32.Vec2
}

// NewRectangle returns a rectangle with the given lower corner and size.
func NewRectangle(x, y, width, height float32) Rectangle {
	return Rectangle{mgl32.Vec2{x, y}, mgl32.Vec2{width, height}}
}

// Aspect returns width / height.
func (r *Rectangle) Aspect() float32 {
	return r.Size[0] / r.Size[1]
}

// Inside returns true if p is inside the half-open rectangle
// [Position, Position + Size).
func (r *Rectangle) Inside(p mgl32.Vec2) bool {
	x0, y0 := r.Position[0], r.Position[1]
	x1, y1 := x0+r.Size[0], y0+r.Size[1]
	return p[0] >= x0 && p[0] < x1 && p[1] >= y0 && p[1] < y1
}

// Plane is the set of points X with dot(Normal, X) = Dist. Normal is
// expected to be a unit vector.
type Plane struct {
	Normal mgl32.Vec3
	Dist   float32
}

// NewPlane returns a plane with the given normal and distance from the
// origin. The normal is used as given.
func NewPlane(normal mgl32.Vec3, dist float32) Plane {
	return Plane{normal, dist}
}

// NewPlaneFromPoint returns the plane with the given normal direction which
// passes through point.
func NewPlaneFromPoint(normal, point mgl32.Vec3) Plane {
	n := normal.Normalize()
	return Plane{n, n.Dot(point)}
}

// NewPlaneFromPoints returns the plane through three points. The front face
// is the one from which p0, p1, p2 appear counter-clockwise.
func NewPlaneFromPoints(p0, p1, p2 mgl32.Vec3) Plane {
	n := p1.Sub(p0).Cross(p2.Sub(p0)).Normalize()
	return Plane{n, p0.Dot(n)}
}

// NewPlaneFromVec4 is the inverse of Plane.Vec4.
func NewPlaneFromVec4(v mgl32.Vec4) Plane {
	return Plane{v.Vec3(), v[3]}
}

// Vec4 packs the plane as (Normal, Dist).
func (p *Plane) Vec4() mgl32.Vec4 {
	return p.Normal.Vec4(p.Dist)
}

// Distance returns the signed distance from the plane to point. It is
// positive on the side the normal points to.
func (p *Plane) Distance(point mgl32.Vec3) float32 {
	return p.Normal.Dot(point) - p.Dist
}

// Box is an axis-aligned box. Corner[0] is the minimum corner and Corner[1]
// is the maximum corner.
//
// The zero value is a degenerate box at the origin, not an empty box. Use
// EmptyBox as the starting point for Extend.
type Box struct {
	Corner [2]mgl32.Vec3
}

// EmptyBox returns a box which contains nothing and which becomes the
// bounding box of the first point or box it is extended by.
func EmptyBox() Box {
	s := float32(math.MaxFloat32)
	return Box{[2]mgl32.Vec3{{s, s, s}, {-s, -s, -s}}}
}

// NewBox returns the smallest box containing both points.
func NewBox(p0, p1 mgl32.Vec3) Box {
	return Box{[2]mgl32.Vec3{minVec(p0, p1), maxVec(p0, p1)}}
}

// NewBoxFromBoxes returns the smallest box containing both boxes.
func NewBoxFromBoxes(b0, b1 *Box) Box {
	return Box{[2]mgl32.Vec3{
		minVec(b0.Corner[0], b1.Corner[0]),
		maxVec(b0.Corner[1], b1.Corner[1]),
	}}
}

// IsEmpty returns true if the box has a negative extent along any axis.
func (b *Box) IsEmpty() bool {
	return b.Corner[0][0] > b.Corner[1][0] ||
		b.Corner[0][1] > b.Corner[1][1] ||
		b.Corner[0][2] > b.Corner[1][2]
}

func (b *Box) Center() mgl32.Vec3 {
	return b.Corner[0].Add(b.Corner[1]).Mul(0.5)
}

func (b *Box) Size() mgl32.Vec3 {
	return b.Corner[1].Sub(b.Corner[0])
}

// Extend grows the box so that it contains point.
func (b *Box) Extend(point mgl32.Vec3) {
	b.Corner[0] = minVec(b.Corner[0], point)
	b.Corner[1] = maxVec(b.Corner[1], point)
}

// ExtendBox grows the box so that it contains box.
func (b *Box) ExtendBox(box *Box) {
	b.Corner[0] = minVec(b.Corner[0], box.Corner[0])
	b.Corner[1] = maxVec(b.Corner[1], box.Corner[1])
}

// Inside returns true if point is inside the box or on its boundary.
func (b *Box) Inside(point mgl32.Vec3) bool {
	lo, hi := &b.Corner[0], &b.Corner[1]
	return point[0] >= lo[0] && point[0] <= hi[0] &&
		point[1] >= lo[1] && point[1] <= hi[1] &&
		point[2] >= lo[2] && point[2] <= hi[2]
}

// Vertex returns one of the eight vertices of the box. Bits 0, 1 and 2 of
// index select the maximum corner along x, y and z, respectively.
func (b *Box) Vertex(index int) mgl32.Vec3 {
	return mgl32.Vec3{
		b.Corner[index&1][0],
		b.Corner[(index>>1)&1][1],
		b.Corner[(index>>2)&1][2],
	}
}

// Vertices returns all eight vertices in Vertex order.
func (b *Box) Vertices() [8]mgl32.Vec3 {
	var vs [8]mgl32.Vec3
	for i := range vs {
		vs[i] = b.Vertex(i)
	}
	return vs
}

type Sphere struct {
	Center mgl32.Vec3
	Radius float32
}

// Circumscribe sets the sphere to the smallest sphere containing box.
func (s *Sphere) Circumscribe(box *Box) {
	s.Center = box.Center()
	s.Radius = box.Size().Len() * 0.5
}

// Inside returns true if point is inside the sphere or on its surface.
func (s *Sphere) Inside(point mgl32.Vec3) bool {
	d := point.Sub(s.Center)
	return d.Dot(d) <= s.Radius*s.Radius
}

// Cone is an infinite circular cone with its apex at Origin, opening towards
// Target with a half-angle of Angle radians.
type Cone struct {
	Origin, Target mgl32.Vec3
	Angle          float32
}

// Axis returns the unit vector pointing from Origin to Target.
func (c *Cone) Axis() mgl32.Vec3 {
	return c.Target.Sub(c.Origin).Normalize()
}

// Line is the segment between Position[0] and Position[1].
type Line struct {
	Position [2]mgl32.Vec3
}

// Closest returns the point on the segment closest to point.
func (l *Line) Closest(point mgl32.Vec3) mgl32.Vec3 {
	delta := l.Position[1].Sub(l.Position[0])
	t := point.Sub(l.Position[0]).Dot(delta) / delta.Dot(delta)
	return l.Position[0].Add(delta.Mul(mgl32.Clamp(t, 0, 1)))
}

// Distance returns the distance between point and the segment.
func (l *Line) Distance(point mgl32.Vec3) float32 {
	return point.Sub(l.Closest(point)).Len()
}

// Triangle is an ordered triangle. The winding of Position fixes the front
// face used by every backface-culling test: the outward normal is
// cross(v1 - v0, v2 - v0).
type Triangle struct {
	Position [3]mgl32.Vec3
}

// Normal returns the unit outward normal.
func (t *Triangle) Normal() mgl32.Vec3 {
	e1 := t.Position[1].Sub(t.Position[0])
	e2 := t.Position[2].Sub(t.Position[0])
	return e1.Cross(e2).Normalize()
}

// Barycentric returns the barycentric coordinates {u, v, w} of point, where
// point = w*v0 + u*v1 + v*v2. Points off the triangle's plane are projected
// onto it first. ok is false if the triangle has zero area.
func (t *Triangle) Barycentric(point mgl32.Vec3) (uvw mgl32.Vec3, ok bool) {
	e1 := t.Position[1].Sub(t.Position[0])
	e2 := t.Position[2].Sub(t.Position[0])
	dp := point.Sub(t.Position[0])

	d11, d12, d22 := e1.Dot(e1), e1.Dot(e2), e2.Dot(e2)
	dp1, dp2 := dp.Dot(e1), dp.Dot(e2)

	denom := d11*d22 - d12*d12
	if denom == 0 {
		return mgl32.Vec3{}, false
	}

	u := (d22*dp1 - d12*dp2) / denom
	v := (d11*dp2 - d12*dp1) / denom
	return mgl32.Vec3{u, v, 1 - u - v}, true
}

// TexTriangle is a Triangle with a texture coordinate for each vertex.
type TexTriangle struct {
	Triangle
	TexCoord [3]mgl32.Vec2
}

// TBN returns the tangent-space basis of the triangle: its columns are the
// unit tangent (direction of increasing s), the unit bitangent (direction
// of increasing t) and the unit normal.
func (t *TexTriangle) TBN() mgl32.Mat3 {
	e1 := t.Position[1].Sub(t.Position[0])
	e2 := t.Position[2].Sub(t.Position[0])
	st1 := t.TexCoord[1].Sub(t.TexCoord[0])
	st2 := t.TexCoord[2].Sub(t.TexCoord[0])

	r := 1 / (st1[0]*st2[1] - st2[0]*st1[1])
	tangent := e1.Mul(st2[1]).Sub(e2.Mul(st1[1])).Mul(r)
	bitangent := e2.Mul(st1[0]).Sub(e1.Mul(st2[0])).Mul(r)
	normal := e1.Cross(e2)

	return mgl32.Mat3FromCols(
		tangent.Normalize(), bitangent.Normalize(), normal.Normalize(),
	)
}

// Ray is a half-line. Direction does not need to be normalized, but all
// ray parameters are then in units of its length.
type Ray struct {
	Origin, Direction mgl32.Vec3
}

// At returns Origin + t*Direction.
func (r *Ray) At(t float32) mgl32.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// Distance returns the distance from point to the closest point on the ray.
func (r *Ray) Distance(point mgl32.Vec3) float32 {
	dp := point.Sub(r.Origin)
	t := dp.Dot(r.Direction) / r.Direction.Dot(r.Direction)
	if !(t > 0) {
		return dp.Len()
	}
	return dp.Sub(r.Direction.Mul(t)).Len()
}
