package spatialmath

import (
	"github.com/golang/geo/r3"
)

// BoxSurfacePoints returns lattice points on the surface of the box centered at the origin
// with the given half extents. Every edge is cut into subdivisions segments, so the result
// holds the 8 corners, the interior edge points and the interior face points, each once.
// subdivisions below 1 is treated as 1, which yields only the corners.
func BoxSurfacePoints(halfExtents r3.Vector, subdivisions int) []r3.Vector {
	if subdivisions < 1 {
		subdivisions = 1
	}
	n := subdivisions
	coord := func(i int, h float64) float64 {
		return -h + 2*h*float64(i)/float64(n)
	}
	pts := make([]r3.Vector, 0, 6*(n+1)*(n+1))
	for i := 0; i <= n; i++ {
		for j := 0; j <= n; j++ {
			for k := 0; k <= n; k++ {
				// Keep only points on at least one face.
				if i != 0 && i != n && j != 0 && j != n && k != 0 && k != n {
					continue
				}
				pts = append(pts, r3.Vector{
					X: coord(i, halfExtents.X),
					Y: coord(j, halfExtents.Y),
					Z: coord(k, halfExtents.Z),
				})
			}
		}
	}
	return pts
}
