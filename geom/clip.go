package geom

import (
	"github.com/go-gl/mathgl/mgl32"
)

// ClipVolume is the six bounding planes of a view volume with normals
// pointing inwards.
//
// Plane ordering is:
// left, right, bottom, top, near, far.
type ClipVolume [6]Plane

// NewClipVolume extracts the clip planes of a view-projection matrix with
// the method of Gribb & Hartmann.
func NewClipVolume(m mgl32.Mat4) ClipVolume {
	r0, r1, r2, r3 := m.Row(0), m.Row(1), m.Row(2), m.Row(3)

	var cv ClipVolume
	cv[0] = clipPlane(r3.Add(r0))
	cv[1] = clipPlane(r3.Sub(r0))
	cv[2] = clipPlane(r3.Add(r1))
	cv[3] = clipPlane(r3.Sub(r1))
	cv[4] = clipPlane(r3.Add(r2))
	cv[5] = clipPlane(r3.Sub(r2))
	return cv
}

// clipPlane converts a*x + b*y + c*z + d >= 0 into a unit-normal Plane.
func clipPlane(v mgl32.Vec4) Plane {
	n := v.Vec3()
	l := n.Len()
	return Plane{n.Mul(1 / l), -v[3] / l}
}

// Point returns true if p is inside the volume.
func (cv *ClipVolume) Point(p mgl32.Vec3) bool {
	for i := range cv {
		if cv[i].Distance(p) < 0 {
			return false
		}
	}
	return true
}

// Sphere returns false if s is certainly outside the volume. Some spheres
// near the volume's edges are reported as visible without being so.
func (cv *ClipVolume) Sphere(s *Sphere) bool {
	for i := range cv {
		if cv[i].Distance(s.Center) < -s.Radius {
			return false
		}
	}
	return true
}

// Box returns false if b is certainly outside the volume. Like Sphere, it is
// conservative.
func (cv *ClipVolume) Box(b *Box) bool {
	for i := range cv {
		n := &cv[i].Normal
		var pv mgl32.Vec3
		for k := 0; k < 3; k++ {
			if n[k] >= 0 {
				pv[k] = b.Corner[1][k]
			} else {
				pv[k] = b.Corner[0][k]
			}
		}
		if cv[i].Distance(pv) < 0 {
			return false
		}
	}
	return true
}
