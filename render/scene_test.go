package render

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phil-mansfield/raygeom/geom"
	"github.com/phil-mansfield/raygeom/io"
)

const testScene = `[Camera]
EyeZ = 5
Fov = 90
Near = 1
Width = 8
Height = 8

[Sphere "ball"]
Radius = 1

[Sphere "far"]
X = 3
Radius = 0.5

[Box "crate"]
X0 = 2
X1 = 3
Y0 = -1
Y1 = 1
Z0 = -1
Z1 = 1

[Plane "floor"]
NY = 1
Dist = -1

[Triangle "wall"]
X0 = -5
Y0 = -5
Z0 = -2
X1 = 5
Y1 = -5
Z1 = -2
X2 = 0
Y2 = 5
Z2 = -2

[Cone "spotlight"]
Y = 5
Angle = 20`

func newTestScene(t testing.TB) *Scene {
	con, err := io.ParseSceneConfig(testScene)
	require.NoError(t, err)
	return NewScene(con)
}

func TestNewScene(t *testing.T) {
	s := newTestScene(t)

	assert.Equal(t, []string{"ball", "far"}, s.SphereNames)
	assert.Equal(t, []string{"crate"}, s.BoxNames)
	assert.Equal(t, []string{"floor"}, s.PlaneNames)
	assert.Equal(t, []string{"wall"}, s.TriangleNames)
	assert.Equal(t, []string{"spotlight"}, s.ConeNames)
	assert.Equal(t, mgl32.Vec3{3, 0, 0}, s.Spheres[1].Center)

	b := s.Bounds()
	assert.Equal(t, mgl32.Vec3{-5, -5, -2}, b.Corner[0])
	assert.Equal(t, mgl32.Vec3{5, 5, 1}, b.Corner[1])

	empty := NewScene(io.DefaultSceneConfig())
	b = empty.Bounds()
	assert.True(t, b.IsEmpty())
}

func TestCast(t *testing.T) {
	s := newTestScene(t)
	ws := &Workspace{}

	table := []struct {
		o, d mgl32.Vec3
		ok   bool
		kind ShapeKind
		name string
		t    float32
	}{
		{mgl32.Vec3{0, 0, 5}, mgl32.Vec3{0, 0, -1}, true, SphereShape, "ball", 4},
		{mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 0, -1}, true, SphereShape, "ball", 1},
		{mgl32.Vec3{2.25, 0, 5}, mgl32.Vec3{0, 0, -1}, true, BoxShape, "crate", 4},
		{mgl32.Vec3{2.25, 0, 0}, mgl32.Vec3{1, 0, 0}, true, SphereShape, "far", 0.25},
		{mgl32.Vec3{2.25, 0, 0}, mgl32.Vec3{0, 1, 0}, true, BoxShape, "crate", 1},
		{mgl32.Vec3{-1.5, 0, 5}, mgl32.Vec3{0, 0, -1}, true, TriangleShape, "wall", 7},
		{mgl32.Vec3{0, 5, 0}, mgl32.Vec3{0, -1, 0}, true, SphereShape, "ball", 4},
		{mgl32.Vec3{-4, 5, 0}, mgl32.Vec3{0, -1, 0}, true, PlaneShape, "floor", 6},
		{mgl32.Vec3{-4, 5, 0}, mgl32.Vec3{0, 1, 0}, false, 0, "", 0},
		{mgl32.Vec3{0, 0, 5}, mgl32.Vec3{0, 0, 1}, false, 0, "", 0},
		{mgl32.Vec3{-1.5, 0, -5}, mgl32.Vec3{0, 0, 1}, false, 0, "", 0},
	}

	for i, test := range table {
		hit, ok := s.Cast(ws, geom.Ray{Origin: test.o, Direction: test.d})
		if !assert.Equal(t, test.ok, ok, "%d)", i+1) || !ok {
			continue
		}
		assert.Equal(t, test.kind, hit.Kind, "%d)", i+1)
		assert.Equal(t, test.name, s.Name(&hit), "%d)", i+1)
		assert.InDelta(t, test.t, hit.T, 1e-5, "%d)", i+1)
		if hit.Kind == TriangleShape {
			assert.InDelta(t, 1, hit.U+hit.V+hit.W, 1e-5, "%d)", i+1)
		}
	}
}

func TestCastPlanesOnly(t *testing.T) {
	s := &Scene{
		Planes:     []geom.Plane{geom.NewPlane(mgl32.Vec3{0, 0, 1}, 0)},
		PlaneNames: []string{"ground"},
	}
	s.updateBounds()

	hit, ok := s.Cast(&Workspace{}, geom.Ray{
		Origin: mgl32.Vec3{1, 1, 3}, Direction: mgl32.Vec3{0, 0, -2},
	})
	require.True(t, ok)
	assert.Equal(t, "ground", s.Name(&hit))
	assert.InDelta(t, 1.5, hit.T, 1e-6)
}

func TestAddTriangles(t *testing.T) {
	s := newTestScene(t)
	s.AddTriangles("mesh", []geom.Triangle{{Position: [3]mgl32.Vec3{
		{0, 0, 10}, {1, 0, 10}, {0, 1, 10},
	}}})

	assert.Equal(t, []string{"wall", "mesh0"}, s.TriangleNames)
	b := s.Bounds()
	assert.Equal(t, float32(10), b.Corner[1][2])

	hit, ok := s.Cast(&Workspace{}, geom.Ray{
		Origin: mgl32.Vec3{0.25, 0.25, 20}, Direction: mgl32.Vec3{0, 0, -1},
	})
	require.True(t, ok)
	assert.Equal(t, "mesh0", s.Name(&hit))
	assert.InDelta(t, 10, hit.T, 1e-5)
}

func TestCull(t *testing.T) {
	con, err := io.ParseSceneConfig(testScene + `

[Sphere "lost"]
X = 100
Radius = 1

[Box "behind"]
X0 = -1
X1 = 1
Y0 = -1
Y1 = 1
Z0 = 10
Z1 = 11`)
	require.NoError(t, err)

	s := NewScene(con)
	cv := geom.NewClipVolume(con.Camera.ViewProjection())
	culled := s.Cull(&cv)

	assert.Equal(t, []string{"ball", "far"}, culled.SphereNames)
	assert.Equal(t, []string{"crate"}, culled.BoxNames)
	assert.Equal(t, []string{"floor"}, culled.PlaneNames)
	assert.Equal(t, []string{"wall"}, culled.TriangleNames)
	assert.Len(t, s.SphereNames, 3)
	assert.Len(t, s.BoxNames, 2)
}

func TestConeSpheres(t *testing.T) {
	s := newTestScene(t)
	assert.Equal(t, []string{"ball"}, s.ConeSpheres(0))
}

func TestBoxSpheres(t *testing.T) {
	s := newTestScene(t)
	assert.Equal(t, []string{"far"}, s.BoxSpheres(0))
}

func BenchmarkCast(b *testing.B) {
	s := newTestScene(b)
	ws := &Workspace{}
	r := geom.Ray{Origin: mgl32.Vec3{-1.5, 0, 5}, Direction: mgl32.Vec3{0, 0, -1}}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.Cast(ws, r)
	}
}
