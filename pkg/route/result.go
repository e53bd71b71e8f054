package route

import "github.com/matzehuels/floorwalk/pkg/nav"

// PathResult is a route: the visited points in travel order and the total
// cost. Each point carries its floor, coordinates and kind, so callers can
// draw the route without going back to the graph.
type PathResult struct {
	Points []nav.Point
	Cost   float64
}

// Start returns the first point of the route.
func (r *PathResult) Start() nav.Point { return r.Points[0] }

// End returns the destination of the route.
func (r *PathResult) End() nav.Point { return r.Points[len(r.Points)-1] }

// Segment is a maximal run of consecutive route points on one floor.
type Segment struct {
	Floor  int
	Points []nav.Point
	// Length is the Euclidean length of the run.
	Length float64
}

// Segments splits the route into per-floor runs in travel order. A floor
// visited twice yields two segments.
func (r *PathResult) Segments() []Segment {
	var out []Segment
	for i, p := range r.Points {
		if len(out) == 0 || out[len(out)-1].Floor != p.Floor {
			out = append(out, Segment{Floor: p.Floor})
		}
		s := &out[len(out)-1]
		if len(s.Points) > 0 {
			s.Length += nav.Distance(r.Points[i-1], p)
		}
		s.Points = append(s.Points, p)
	}
	return out
}

// Transition is a floor change between two consecutive stairs points.
type Transition struct {
	From nav.Point
	To   nav.Point
}

// Up reports whether the transition climbs.
func (t Transition) Up() bool { return t.To.Floor > t.From.Floor }

// Transitions returns the floor changes along the route in travel order.
func (r *PathResult) Transitions() []Transition {
	var out []Transition
	for i := 1; i < len(r.Points); i++ {
		a, b := r.Points[i-1], r.Points[i]
		if a.Floor != b.Floor {
			out = append(out, Transition{From: a, To: b})
		}
	}
	return out
}

// Floors returns the floors in the order the route visits them.
func (r *PathResult) Floors() []int {
	var out []int
	for _, s := range r.Segments() {
		out = append(out, s.Floor)
	}
	return out
}
