package render

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phil-mansfield/raygeom/geom"
	"github.com/phil-mansfield/raygeom/io"
)

func testFrustum(t testing.TB) (*Scene, geom.Frustum, int, int) {
	con, err := io.ParseSceneConfig(testScene)
	require.NoError(t, err)
	f := geom.NewFrustum(con.Camera.ViewProjection())
	return NewScene(con), f, con.Camera.Width, con.Camera.Height
}

// serialDepth casts a single pixel without a DepthManager.
func serialDepth(s *Scene, f *geom.Frustum, x, y, width, height int) float32 {
	px := (float32(x) + 0.5) / float32(width)
	py := (float32(y) + 0.5) / float32(height)
	r := f.Ray(px, py)
	r.Direction = r.Direction.Normalize()
	hit, ok := s.Cast(&Workspace{}, r)
	if !ok {
		return float32(math.Inf(+1))
	}
	return hit.T
}

func TestRender(t *testing.T) {
	s, f, width, height := testFrustum(t)

	for _, workers := range []int{1, 3, 8, 0} {
		man := NewDepthManager(s, workers)
		depths := man.Render(&f, width, height)
		require.Len(t, depths, width*height)

		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				want := serialDepth(s, &f, x, y, width, height)
				assert.Equal(t, want, depths[x+y*width],
					"%d workers, pixel (%d, %d)", workers, x, y)
			}
		}
	}
}

func TestRenderDepths(t *testing.T) {
	s, f, width, height := testFrustum(t)
	depths := NewDepthManager(s, 2).Render(&f, width, height)

	// The four central pixels look at the front of the ball along
	// (+/-1, +/-1, -8).
	for _, idx := range []int{27, 28, 35, 36} {
		assert.InDelta(t, 4.4313, depths[idx], 1e-3, "pixel %d", idx)
	}

	// The top corners look over everything.
	assert.True(t, math.IsInf(float64(depths[0]), +1))
	assert.True(t, math.IsInf(float64(depths[width-1]), +1))

	// The bottom row sees the floor or the wall.
	for x := 0; x < width; x++ {
		d := depths[x+(height-1)*width]
		assert.False(t, math.IsInf(float64(d), 0), "pixel (%d, %d)", x, height-1)
	}
}

func TestRenderWindow(t *testing.T) {
	s, f, width, height := testFrustum(t)
	man := NewDepthManager(s, 3)
	full := man.Render(&f, width, height)

	window := geom.NewRectangle(2, 3, 4, 100)
	depths := man.RenderWindow(&f, width, height, window)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			idx := x + y*width
			if x >= 2 && x < 6 && y >= 3 {
				assert.Equal(t, full[idx], depths[idx], "(%d, %d)", x, y)
			} else {
				assert.True(t, math.IsInf(float64(depths[idx]), +1),
					"(%d, %d)", x, y)
			}
		}
	}

	outside := geom.NewRectangle(20, 20, 4, 4)
	depths = man.RenderWindow(&f, width, height, outside)
	for i := range depths {
		assert.True(t, math.IsInf(float64(depths[i]), +1))
	}
}

func BenchmarkRender(b *testing.B) {
	s, f, _, _ := testFrustum(b)
	man := NewDepthManager(s, 0)
	for i := 0; i < b.N; i++ {
		man.Render(&f, 64, 64)
	}
}
