package route

import (
	"github.com/matzehuels/floorwalk/pkg/errors"
	"github.com/matzehuels/floorwalk/pkg/nav"
)

// Engine answers route queries over one immutable graph. It holds no mutable
// state, so any number of goroutines may query the same Engine.
type Engine struct {
	g    *nav.Graph
	opts Options
}

// NewEngine creates an engine over g with the default policy adjusted by
// opts.
func NewEngine(g *nav.Graph, opts ...Option) *Engine {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Engine{g: g, opts: o}
}

// Graph returns the graph the engine routes over.
func (e *Engine) Graph() *nav.Graph { return e.g }

// Options returns the engine's policy.
func (e *Engine) Options() Options { return e.opts }

// ShortestPath returns the cheapest legal path between two point IDs.
//
// Edges that join different floors are traversed only between stairs on
// adjacent floors, even if the graph contains others. Returns INVALID_INPUT
// for unknown IDs and NO_PATH_FOUND when the goal is unreachable.
func (e *Engine) ShortestPath(fromID, toID string) (*PathResult, error) {
	from, ok := e.g.Point(fromID)
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidInput, "unknown point %q", fromID)
	}
	to, ok := e.g.Point(toID)
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidInput, "unknown point %q", toID)
	}
	return e.between(from, to)
}

func (e *Engine) between(from, to nav.Point) (*PathResult, error) {
	points, cost, ok := e.shortest(from, to)
	if !ok {
		return nil, errors.New(errors.ErrCodeNoPathFound, "no route from %s to %s", from.ID, to.ID)
	}
	return &PathResult{Points: points, Cost: cost}, nil
}

// FindPath resolves two room names and returns the cheapest path between
// them. Restrooms are not rooms for this lookup.
//
// Returns ROOM_NOT_FOUND when either name matches no room and NO_PATH_FOUND
// when both exist but are not connected.
func (e *Engine) FindPath(startName, endName string) (*PathResult, error) {
	start, err := e.room(startName)
	if err != nil {
		return nil, err
	}
	end, err := e.room(endName)
	if err != nil {
		return nil, err
	}
	return e.between(start, end)
}

// NearestRestroom returns the cheapest path from the named room to a
// restroom of the given category within the candidate window.
//
// Returns ROOM_NOT_FOUND for an unknown start room and
// NO_CANDIDATE_OF_CATEGORY when the window holds no reachable restroom of
// that category.
func (e *Engine) NearestRestroom(startName string, c nav.Category) (*PathResult, error) {
	if c == nav.CategoryNone {
		return nil, errors.New(errors.ErrCodeInvalidCategory, "a restroom category is required")
	}
	start, err := e.room(startName)
	if err != nil {
		return nil, err
	}
	res, err := e.Nearest(start, e.Candidates(start.Floor, c))
	if errors.Is(err, errors.ErrCodeNoCandidate) {
		return nil, errors.New(errors.ErrCodeNoCandidate, "no reachable %s restroom near floor %d", c, start.Floor)
	}
	return res, err
}

// Candidates returns the restrooms of category c on floors within the
// candidate window around floor, clipped to the building's floor range, in
// graph order.
func (e *Engine) Candidates(floor int, c nav.Category) []nav.Point {
	lo, hi := e.Window(floor)
	var out []nav.Point
	for _, p := range e.g.Restrooms(c) {
		if p.Floor >= lo && p.Floor <= hi {
			out = append(out, p)
		}
	}
	return out
}

// Window returns the inclusive floor range searched from floor.
func (e *Engine) Window(floor int) (lo, hi int) {
	minFloor, maxFloor := e.g.FloorRange()
	if e.opts.MinFloor > 0 {
		minFloor = e.opts.MinFloor
	}
	if e.opts.MaxFloor > 0 {
		maxFloor = e.opts.MaxFloor
	}
	lo = max(floor-e.opts.CandidateWindow, minFloor)
	hi = min(floor+e.opts.CandidateWindow, maxFloor)
	return lo, hi
}

// Nearest runs a shortest-path search from start to every candidate and
// returns the cheapest result. Unreachable candidates are dropped. On equal
// cost the earlier candidate wins.
//
// Returns NO_CANDIDATE_OF_CATEGORY when candidates is empty or none is
// reachable.
func (e *Engine) Nearest(start nav.Point, candidates []nav.Point) (*PathResult, error) {
	if len(candidates) == 0 {
		return nil, errors.New(errors.ErrCodeNoCandidate, "no candidates")
	}
	log := e.opts.Logger

	var best *PathResult
	for _, c := range candidates {
		points, cost, ok := e.shortest(start, c)
		if !ok {
			log.Debug("candidate unreachable", "from", start.ID, "candidate", c.ID, "floor", c.Floor)
			continue
		}
		log.Debug("candidate", "from", start.ID, "candidate", c.ID, "floor", c.Floor, "cost", cost)
		if best == nil || cost < best.Cost {
			best = &PathResult{Points: points, Cost: cost}
		}
	}
	if best == nil {
		return nil, errors.New(errors.ErrCodeNoCandidate, "none of %d candidates is reachable", len(candidates))
	}
	return best, nil
}

func (e *Engine) room(name string) (nav.Point, error) {
	if err := errors.ValidateRoomName(name); err != nil {
		return nav.Point{}, err
	}
	p, ok := e.g.FindRoom(name)
	if !ok {
		return nav.Point{}, errors.New(errors.ErrCodeRoomNotFound, "room %q not found", name)
	}
	return p, nil
}
