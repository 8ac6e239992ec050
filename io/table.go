package io

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/phil-mansfield/table"

	"github.com/phil-mansfield/raygeom/geom"
)

// ReadRays reads rays from a whitespace-separated text file with the columns
// ox oy oz dx dy dz.
func ReadRays(file string) ([]geom.Ray, error) {
	cols, err := table.ReadTable(file, []int{0, 1, 2, 3, 4, 5}, nil)
	if err != nil {
		return nil, err
	}

	rays := make([]geom.Ray, len(cols[0]))
	for i := range rays {
		rays[i].Origin = colVec(cols, 0, i)
		rays[i].Direction = colVec(cols, 3, i)
	}
	return rays, nil
}

// ReadTriangles reads triangles from a text file with nine columns, the
// three vertices of each triangle in order.
func ReadTriangles(file string) ([]geom.Triangle, error) {
	colIdxs := []int{0, 1, 2, 3, 4, 5, 6, 7, 8}
	cols, err := table.ReadTable(file, colIdxs, nil)
	if err != nil {
		return nil, err
	}

	tris := make([]geom.Triangle, len(cols[0]))
	for i := range tris {
		for j := 0; j < 3; j++ {
			tris[i].Position[j] = colVec(cols, 3*j, i)
		}
	}
	return tris, nil
}

func colVec(cols [][]float64, start, i int) mgl32.Vec3 {
	return mgl32.Vec3{
		float32(cols[start][i]),
		float32(cols[start+1][i]),
		float32(cols[start+2][i]),
	}
}
