package render

import (
	"log"
	"math"
	"runtime"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/phil-mansfield/raygeom/geom"
)

// DepthManager renders depth maps of a Scene using several workers.
type DepthManager struct {
	scene   *Scene
	workers int

	// workspaces
	wss []Workspace
	hits []int

	// Set by Render for the workers.
	f             *geom.Frustum
	window        geom.Rectangle
	width, height int
	depths        []float32
}

// NewDepthManager creates a DepthManager which renders scene. If workers is
// not positive, one worker is used for each available core.
func NewDepthManager(scene *Scene, workers int) *DepthManager {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &DepthManager{
		scene:   scene,
		workers: workers,
		wss:     make([]Workspace, workers),
		hits:    make([]int, workers),
	}
}

// Render returns a width x height depth map of the scene as seen through f,
// in row-major order with the top row first. Depths are Euclidean distances
// from the eye to the closest hit. Pixels which see nothing are +Inf.
func (man *DepthManager) Render(f *geom.Frustum, width, height int) []float32 {
	window := geom.NewRectangle(0, 0, float32(width), float32(height))
	return man.RenderWindow(f, width, height, window)
}

// RenderWindow is Render, but only pixels whose centers lie inside window
// are cast. All other pixels are +Inf. Window is in pixel units with the
// origin at the top left of the image.
func (man *DepthManager) RenderWindow(
	f *geom.Frustum, width, height int, window geom.Rectangle,
) []float32 {
	man.f = f
	man.width, man.height = width, height
	man.depths = make([]float32, width*height)

	image := geom.NewRectangle(0, 0, float32(width), float32(height))
	var ok bool
	man.window, ok = geom.IntersectRectangles(image, window)
	if !ok {
		man.window = geom.Rectangle{}
	}

	out := make(chan int, man.workers)
	for id := 0; id < man.workers; id++ {
		go man.chanDepth(id, out)
	}

	hits := 0
	for i := 0; i < man.workers; i++ {
		id := <-out
		hits += man.hits[id]
	}
	log.Printf("Rendered %d x %d depth map with %d workers: %d/%d hits.",
		width, height, man.workers, hits, width*height)

	depths := man.depths
	man.depths, man.f = nil, nil
	return depths
}

// chanDepth is a worker function which casts the rows of the depth map
// belonging to worker. The ID is sent to out when it finishes.
func (man *DepthManager) chanDepth(worker int, out chan<- int) {
	ws := &man.wss[worker]
	man.hits[worker] = 0
	inf := float32(math.Inf(+1))

	for y := worker; y < man.height; y += man.workers {
		py := (float32(y) + 0.5) / float32(man.height)
		for x := 0; x < man.width; x++ {
			idx := x + y*man.width
			man.depths[idx] = inf

			center := mgl32.Vec2{float32(x) + 0.5, float32(y) + 0.5}
			if !man.window.Inside(center) {
				continue
			}

			px := (float32(x) + 0.5) / float32(man.width)
			r := man.f.Ray(px, py)
			r.Direction = r.Direction.Normalize()
			hit, ok := man.scene.Cast(ws, r)
			if ok {
				man.depths[idx] = hit.T
				man.hits[worker]++
			}
		}
	}

	out <- worker
}
