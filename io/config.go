package io

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/gcfg.v1"

	"github.com/phil-mansfield/raygeom/geom"
)

const ExampleSceneFile = `[Camera]

#######################
# Required Parameters #
#######################

# Position of the eye and the point it looks at.
EyeX = 0
EyeY = 0
EyeZ = 5
TargetX = 0
TargetY = 0
TargetZ = 0

# File which the depth map will be written to.
Output = path/to/depth.dat

#######################
# Optional Parameters #
#######################

# Direction which is up on the screen. Default is +y.
# UpX = 0
# UpY = 1
# UpZ = 0

# Vertical field of view in degrees. Default is 60.
# Fov = 60

# Near and far clipping distances. Defaults are 0.1 and 100.
# Near = 0.1
# Far = 100

# Size of the depth map in pixels. Defaults are 64 and 48.
# Width = 64
# Height = 48

##########
# Shapes #
##########

# Any number of named shapes can be added. Planes and triangles are
# one-sided: they are only visible from the side their normal points to.
# A triangle's normal is cross(P1 - P0, P2 - P0).

[Sphere "ball"]
X = 0
Y = 0
Z = 0
Radius = 1

[Box "crate"]
X0 = 1.5
Y0 = -1
Z0 = -1
X1 = 2.5
Y1 = 1
Z1 = 1

[Plane "floor"]
NX = 0
NY = 1
NZ = 0
Dist = -1

[Triangle "sail"]
X0 = -3
Y0 = -1
Z0 = 0
X1 = -1
Y1 = -1
Z1 = 0
X2 = -2
Y2 = 2
Z2 = 0

# Cones don't show up in the depth map. Instead, the spheres inside each cone
# are listed when rendering. Angle is the half-angle in degrees.
[Cone "spotlight"]
X = 0
Y = 5
Z = 0
TargetX = 0
TargetY = 0
TargetZ = 0
Angle = 20`

type CameraConfig struct {
	// Required
	EyeX, EyeY, EyeZ          float64
	TargetX, TargetY, TargetZ float64
	Output                    string

	// Optional
	UpX, UpY, UpZ  float64
	Fov, Near, Far float64
	Width, Height  int
}

func (con *CameraConfig) CheckInit() error {
	eye, target, up := con.Eye(), con.Target(), con.Up()
	if eye == target {
		return fmt.Errorf("Camera 'Eye' and 'Target' are both %v.", eye)
	} else if up.Len() == 0 {
		return fmt.Errorf("Camera 'Up' must be a non-zero vector.")
	} else if up.Cross(target.Sub(eye)).Len() == 0 {
		return fmt.Errorf("Camera 'Up' is parallel to the view direction.")
	}

	if con.Fov <= 0 || con.Fov >= 180 {
		return fmt.Errorf(
			"Camera 'Fov' must be in range (0, 180), but is %g.", con.Fov,
		)
	} else if con.Near <= 0 {
		return fmt.Errorf(
			"Camera 'Near' must be positive, but is %g.", con.Near,
		)
	} else if con.Far <= con.Near {
		return fmt.Errorf(
			"Camera 'Far' must be larger than 'Near' = %g, but is %g.",
			con.Near, con.Far,
		)
	} else if con.Width <= 0 || con.Height <= 0 {
		return fmt.Errorf(
			"Camera 'Width' and 'Height' must be positive, but are %d and %d.",
			con.Width, con.Height,
		)
	}

	return nil
}

// ValidOutput returns true if Output names a file in an existing directory.
// Only modes which write depth maps need it.
func (con *CameraConfig) ValidOutput() bool {
	if con.Output == "" {
		return false
	}
	info, err := os.Stat(filepath.Dir(con.Output))
	return err == nil && info.IsDir()
}

func (con *CameraConfig) Eye() mgl32.Vec3 {
	return vec(con.EyeX, con.EyeY, con.EyeZ)
}

func (con *CameraConfig) Target() mgl32.Vec3 {
	return vec(con.TargetX, con.TargetY, con.TargetZ)
}

func (con *CameraConfig) Up() mgl32.Vec3 {
	return vec(con.UpX, con.UpY, con.UpZ)
}

// ViewProjection returns the matrix which maps world space to the camera's
// clip space.
func (con *CameraConfig) ViewProjection() mgl32.Mat4 {
	aspect := float32(con.Width) / float32(con.Height)
	proj := mgl32.Perspective(
		mgl32.DegToRad(float32(con.Fov)), aspect,
		float32(con.Near), float32(con.Far),
	)
	view := mgl32.LookAtV(con.Eye(), con.Target(), con.Up())
	return proj.Mul4(view)
}

type SphereConfig struct {
	X, Y, Z, Radius float64
}

func (s *SphereConfig) CheckInit(name string) error {
	if s.Radius <= 0 {
		return fmt.Errorf(
			"Need to specify a positive Radius for Sphere '%s'.", name,
		)
	}
	return nil
}

func (s *SphereConfig) Sphere() geom.Sphere {
	return geom.Sphere{Center: vec(s.X, s.Y, s.Z), Radius: float32(s.Radius)}
}

type BoxConfig struct {
	X0, Y0, Z0 float64
	X1, Y1, Z1 float64
}

func (box *BoxConfig) CheckInit(name string) error {
	if box.X0 == box.X1 {
		return fmt.Errorf("Box '%s' has zero width along x.", name)
	} else if box.Y0 == box.Y1 {
		return fmt.Errorf("Box '%s' has zero width along y.", name)
	} else if box.Z0 == box.Z1 {
		return fmt.Errorf("Box '%s' has zero width along z.", name)
	}
	return nil
}

func (box *BoxConfig) Box() geom.Box {
	return geom.NewBox(vec(box.X0, box.Y0, box.Z0), vec(box.X1, box.Y1, box.Z1))
}

type PlaneConfig struct {
	NX, NY, NZ, Dist float64
}

func (p *PlaneConfig) CheckInit(name string) error {
	if p.NX == 0 && p.NY == 0 && p.NZ == 0 {
		return fmt.Errorf("Need to specify a non-zero normal for Plane '%s'.", name)
	}
	return nil
}

// Plane returns the plane with a unit normal. Dist is measured along the
// normalized normal.
func (p *PlaneConfig) Plane() geom.Plane {
	return geom.NewPlane(vec(p.NX, p.NY, p.NZ).Normalize(), float32(p.Dist))
}

type TriangleConfig struct {
	X0, Y0, Z0 float64
	X1, Y1, Z1 float64
	X2, Y2, Z2 float64
}

// minTriangleSine is the smallest sine of the angle between two edges of a
// valid triangle.
const minTriangleSine = 1e-5

func (t *TriangleConfig) CheckInit(name string) error {
	tri := t.Triangle()
	e1 := tri.Position[1].Sub(tri.Position[0])
	e2 := tri.Position[2].Sub(tri.Position[0])
	area := e1.Cross(e2).Len()
	if !(area > minTriangleSine*e1.Len()*e2.Len()) {
		return fmt.Errorf("Triangle '%s' has zero area.", name)
	}
	return nil
}

func (t *TriangleConfig) Triangle() geom.Triangle {
	return geom.Triangle{Position: [3]mgl32.Vec3{
		vec(t.X0, t.Y0, t.Z0), vec(t.X1, t.Y1, t.Z1), vec(t.X2, t.Y2, t.Z2),
	}}
}

type ConeConfig struct {
	X, Y, Z                   float64
	TargetX, TargetY, TargetZ float64
	Angle                     float64
}

func (c *ConeConfig) CheckInit(name string) error {
	if c.X == c.TargetX && c.Y == c.TargetY && c.Z == c.TargetZ {
		return fmt.Errorf("Cone '%s' has the same origin and target.", name)
	} else if c.Angle <= 0 || c.Angle >= 90 {
		return fmt.Errorf(
			"Angle of Cone '%s' must be in range (0, 90), but is %g.",
			name, c.Angle,
		)
	}
	return nil
}

func (c *ConeConfig) Cone() geom.Cone {
	return geom.Cone{
		Origin: vec(c.X, c.Y, c.Z),
		Target: vec(c.TargetX, c.TargetY, c.TargetZ),
		Angle:  float32(c.Angle * math.Pi / 180),
	}
}

// SceneConfig is the contents of a scene file. See ExampleSceneFile.
type SceneConfig struct {
	Camera   CameraConfig
	Sphere   map[string]*SphereConfig
	Box      map[string]*BoxConfig
	Plane    map[string]*PlaneConfig
	Triangle map[string]*TriangleConfig
	Cone     map[string]*ConeConfig
}

func DefaultSceneConfig() *SceneConfig {
	con := &SceneConfig{}
	con.Camera.UpY = 1
	con.Camera.Fov = 60
	con.Camera.Near = 0.1
	con.Camera.Far = 100
	con.Camera.Width = 64
	con.Camera.Height = 48
	return con
}

// ReadSceneConfig reads and validates the scene file fname.
func ReadSceneConfig(fname string) (*SceneConfig, error) {
	con := DefaultSceneConfig()
	if err := gcfg.ReadFileInto(con, fname); err != nil {
		return nil, err
	}
	if err := con.CheckInit(); err != nil {
		return nil, fmt.Errorf("%s: %s", fname, err.Error())
	}
	return con, nil
}

// ParseSceneConfig is ReadSceneConfig for a scene file which has already
// been read into memory.
func ParseSceneConfig(str string) (*SceneConfig, error) {
	con := DefaultSceneConfig()
	if err := gcfg.ReadStringInto(con, str); err != nil {
		return nil, err
	}
	if err := con.CheckInit(); err != nil {
		return nil, err
	}
	return con, nil
}

func (con *SceneConfig) CheckInit() error {
	if err := con.Camera.CheckInit(); err != nil {
		return err
	}
	for _, name := range SortedNames(con.Sphere) {
		if err := con.Sphere[name].CheckInit(name); err != nil {
			return err
		}
	}
	for _, name := range SortedNames(con.Box) {
		if err := con.Box[name].CheckInit(name); err != nil {
			return err
		}
	}
	for _, name := range SortedNames(con.Plane) {
		if err := con.Plane[name].CheckInit(name); err != nil {
			return err
		}
	}
	for _, name := range SortedNames(con.Triangle) {
		if err := con.Triangle[name].CheckInit(name); err != nil {
			return err
		}
	}
	for _, name := range SortedNames(con.Cone) {
		if err := con.Cone[name].CheckInit(name); err != nil {
			return err
		}
	}
	return nil
}

// SortedNames returns the names of a set of subsections in a fixed order.
// gcfg stores them in maps.
func SortedNames[T any](sections map[string]*T) []string {
	names := make([]string, 0, len(sections))
	for name := range sections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func vec(x, y, z float64) mgl32.Vec3 {
	return mgl32.Vec3{float32(x), float32(y), float32(z)}
}
