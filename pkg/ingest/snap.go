package ingest

import (
	"math"

	"github.com/matzehuels/floorwalk/pkg/nav"
)

// Nearest returns the point closest to (x, y) by Euclidean distance, with the
// distance. Ties go to the earlier point. The boolean is false when points is
// empty or, with maxDist > 0, when the closest point lies further than maxDist.
func Nearest(x, y float64, points []nav.Point, maxDist float64) (nav.Point, float64, bool) {
	best := -1
	bestDist := math.Inf(1)
	for i, p := range points {
		d := math.Hypot(p.X-x, p.Y-y)
		if d < bestDist {
			best, bestDist = i, d
		}
	}
	if best < 0 {
		return nav.Point{}, 0, false
	}
	if maxDist > 0 && bestDist > maxDist {
		return points[best], bestDist, false
	}
	return points[best], bestDist, true
}
