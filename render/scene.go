package render

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/phil-mansfield/raygeom/geom"
	"github.com/phil-mansfield/raygeom/io"
)

type ShapeKind int

const (
	PlaneShape ShapeKind = iota
	SphereShape
	BoxShape
	TriangleShape
)

func (k ShapeKind) String() string {
	switch k {
	case PlaneShape:
		return "Plane"
	case SphereShape:
		return "Sphere"
	case BoxShape:
		return "Box"
	case TriangleShape:
		return "Triangle"
	}
	return "Unknown"
}

// Hit describes the closest shape along a ray. U, V and W are the
// barycentric coordinates of the hit point and are only set for triangles.
type Hit struct {
	T       float32
	Kind    ShapeKind
	Index   int
	U, V, W float32
}

// Workspace holds the intersection state used by a single goroutine while
// casting rays. Workspaces must not be shared between goroutines.
type Workspace struct {
	is geom.Intersect
	ir geom.IntersectRange
	ib geom.IntersectBarycentric
	fr geom.FastRay
}

// Scene is a collection of shapes which rays can be cast against. Planes
// and triangles are one-sided.
type Scene struct {
	Planes    []geom.Plane
	Spheres   []geom.Sphere
	Boxes     []geom.Box
	Triangles []geom.Triangle
	Cones     []geom.Cone

	// Names of each shape, in the same order as the shapes.
	PlaneNames, SphereNames, BoxNames, TriangleNames, ConeNames []string

	bounds geom.Box
}

// NewScene creates a scene containing every shape in the config. Shapes of
// each kind are ordered by name.
func NewScene(con *io.SceneConfig) *Scene {
	s := &Scene{}
	for _, name := range io.SortedNames(con.Plane) {
		s.Planes = append(s.Planes, con.Plane[name].Plane())
		s.PlaneNames = append(s.PlaneNames, name)
	}
	for _, name := range io.SortedNames(con.Sphere) {
		s.Spheres = append(s.Spheres, con.Sphere[name].Sphere())
		s.SphereNames = append(s.SphereNames, name)
	}
	for _, name := range io.SortedNames(con.Box) {
		s.Boxes = append(s.Boxes, con.Box[name].Box())
		s.BoxNames = append(s.BoxNames, name)
	}
	for _, name := range io.SortedNames(con.Triangle) {
		s.Triangles = append(s.Triangles, con.Triangle[name].Triangle())
		s.TriangleNames = append(s.TriangleNames, name)
	}
	for _, name := range io.SortedNames(con.Cone) {
		s.Cones = append(s.Cones, con.Cone[name].Cone())
		s.ConeNames = append(s.ConeNames, name)
	}
	s.updateBounds()
	return s
}

// AddTriangles adds a mesh of triangles to the scene. Each is named prefix
// followed by its index in tris.
func (s *Scene) AddTriangles(prefix string, tris []geom.Triangle) {
	for i := range tris {
		s.Triangles = append(s.Triangles, tris[i])
		s.TriangleNames = append(s.TriangleNames, fmt.Sprintf("%s%d", prefix, i))
	}
	s.updateBounds()
}

func (s *Scene) updateBounds() {
	s.bounds = geom.EmptyBox()
	for i := range s.Spheres {
		r := s.Spheres[i].Radius
		rv := mgl32.Vec3{r, r, r}
		s.bounds.Extend(s.Spheres[i].Center.Sub(rv))
		s.bounds.Extend(s.Spheres[i].Center.Add(rv))
	}
	for i := range s.Boxes {
		s.bounds.ExtendBox(&s.Boxes[i])
	}
	for i := range s.Triangles {
		for j := 0; j < 3; j++ {
			s.bounds.Extend(s.Triangles[i].Position[j])
		}
	}
}

// Bounds returns the bounding box of every sphere, box and triangle in the
// scene. Planes are unbounded and are not included. A scene with no bounded
// shapes has an empty bounding box.
func (s *Scene) Bounds() geom.Box { return s.bounds }

// Name returns the name of the shape which was hit.
func (s *Scene) Name(h *Hit) string {
	switch h.Kind {
	case PlaneShape:
		return s.PlaneNames[h.Index]
	case SphereShape:
		return s.SphereNames[h.Index]
	case BoxShape:
		return s.BoxNames[h.Index]
	case TriangleShape:
		return s.TriangleNames[h.Index]
	}
	return ""
}

// Cull returns a scene containing only the shapes which might be visible
// inside cv. Planes are always kept.
func (s *Scene) Cull(cv *geom.ClipVolume) *Scene {
	out := &Scene{
		Planes: s.Planes, PlaneNames: s.PlaneNames,
		Cones: s.Cones, ConeNames: s.ConeNames,
	}
	for i := range s.Spheres {
		if cv.Sphere(&s.Spheres[i]) {
			out.Spheres = append(out.Spheres, s.Spheres[i])
			out.SphereNames = append(out.SphereNames, s.SphereNames[i])
		}
	}
	for i := range s.Boxes {
		if cv.Box(&s.Boxes[i]) {
			out.Boxes = append(out.Boxes, s.Boxes[i])
			out.BoxNames = append(out.BoxNames, s.BoxNames[i])
		}
	}
	for i := range s.Triangles {
		tri := &s.Triangles[i]
		b := geom.NewBox(tri.Position[0], tri.Position[1])
		b.Extend(tri.Position[2])
		if cv.Box(&b) {
			out.Triangles = append(out.Triangles, *tri)
			out.TriangleNames = append(out.TriangleNames, s.TriangleNames[i])
		}
	}
	out.updateBounds()
	return out
}

// ConeSpheres returns the names of the spheres which overlap the cone with
// the given index.
func (s *Scene) ConeSpheres(cone int) []string {
	names := []string{}
	for i := range s.Spheres {
		if geom.IntersectConeSphere(s.Cones[cone], s.Spheres[i]) {
			names = append(names, s.SphereNames[i])
		}
	}
	return names
}

// BoxSpheres returns the names of the spheres which overlap the box with the
// given index.
func (s *Scene) BoxSpheres(box int) []string {
	names := []string{}
	for i := range s.Spheres {
		if geom.IntersectSphereBox(s.Spheres[i], s.Boxes[box]) {
			names = append(names, s.SphereNames[i])
		}
	}
	return names
}

// Cast finds the closest shape along r with t >= 0. Sphere and box hits are
// at the point the ray enters the shape, or the point it leaves if the ray
// starts inside.
func (s *Scene) Cast(ws *Workspace, r geom.Ray) (Hit, bool) {
	hit := Hit{T: float32(math.Inf(+1))}
	found := false

	for i := range s.Planes {
		if ws.is.Plane(&r, &s.Planes[i]) && ws.is.T0 < hit.T {
			hit = Hit{T: ws.is.T0, Kind: PlaneShape, Index: i}
			found = true
		}
	}

	if s.bounds.IsEmpty() {
		return hit, found
	}
	ws.fr = geom.NewFastRay(r)
	if !ws.ir.FastBox(&ws.fr, &s.bounds) || ws.ir.T0 > hit.T {
		return hit, found
	}

	for i := range s.Spheres {
		if ws.ir.FastSphere(&ws.fr, &s.Spheres[i]) {
			if t := rangeT(&ws.ir); t < hit.T {
				hit = Hit{T: t, Kind: SphereShape, Index: i}
				found = true
			}
		}
	}

	for i := range s.Boxes {
		if ws.ir.FastBox(&ws.fr, &s.Boxes[i]) {
			if t := rangeT(&ws.ir); t < hit.T {
				hit = Hit{T: t, Kind: BoxShape, Index: i}
				found = true
			}
		}
	}

	for i := range s.Triangles {
		ib := &ws.ib
		if ib.Triangle(&r, &s.Triangles[i]) && ib.T0 < hit.T {
			hit = Hit{
				T: ib.T0, Kind: TriangleShape, Index: i,
				U: ib.U, V: ib.V, W: ib.W,
			}
			found = true
		}
	}

	return hit, found
}

// rangeT returns the first non-negative end of an intersection range.
func rangeT(ir *geom.IntersectRange) float32 {
	if ir.T0 >= 0 {
		return ir.T0
	}
	return ir.T1
}
