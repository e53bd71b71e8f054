package nav

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Builder accumulates points and connections and produces an immutable
// [Graph]. Points keep insertion order, which is the order every query walks
// them in, so feeding the same input in the same order yields the same graph.
//
// The zero value is not usable - use NewBuilder. A Builder is not safe for
// concurrent use.
type Builder struct {
	points []Point
	index  map[string]int
	conns  []Connection
	seen   map[[2]string]struct{}
}

// NewBuilder creates an empty builder.
func NewBuilder() *Builder {
	return &Builder{
		index: make(map[string]int),
		seen:  make(map[[2]string]struct{}),
	}
}

// AddPoint appends a point. Returns ErrInvalidPointID for an empty ID,
// ErrInvalidFloor for a non-positive floor, or ErrDuplicatePointID if the ID is
// already taken on any floor.
func (b *Builder) AddPoint(p Point) error {
	if p.ID == "" {
		return ErrInvalidPointID
	}
	if p.Floor < 1 {
		return fmt.Errorf("%w: %s on floor %d", ErrInvalidFloor, p.ID, p.Floor)
	}
	if _, exists := b.index[p.ID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicatePointID, p.ID)
	}
	b.index[p.ID] = len(b.points)
	b.points = append(b.points, p)
	return nil
}

// Connect appends an undirected connection between two existing points.
//
// Returns ErrUnknownPoint if either endpoint is missing, ErrSelfLoop if both
// endpoints are the same, ErrIllegalConnection if the endpoints violate floor
// transition legality (see [CanConnect]), or ErrDuplicateConnection if the pair
// is already connected. Rejected connections leave the builder unchanged.
func (b *Builder) Connect(c Connection) error {
	from, ok := b.Point(c.From)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownPoint, c.From)
	}
	to, ok := b.Point(c.To)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownPoint, c.To)
	}
	if c.From == c.To {
		return fmt.Errorf("%w: %s", ErrSelfLoop, c.From)
	}
	if !CanConnect(from, to) {
		return fmt.Errorf("%w: %s (floor %d) - %s (floor %d)", ErrIllegalConnection, from.ID, from.Floor, to.ID, to.Floor)
	}
	k := c.key()
	if _, dup := b.seen[k]; dup {
		return fmt.Errorf("%w: %s - %s", ErrDuplicateConnection, c.From, c.To)
	}
	b.seen[k] = struct{}{}
	b.conns = append(b.conns, c)
	return nil
}

// Point returns the point with the given ID and true, or the zero Point and
// false if it has not been added.
func (b *Builder) Point(id string) (Point, bool) {
	i, ok := b.index[id]
	if !ok {
		return Point{}, false
	}
	return b.points[i], true
}

// Points returns a copy of the points added so far, in insertion order.
func (b *Builder) Points() []Point { return slices.Clone(b.points) }

// PointCount returns the number of points added so far.
func (b *Builder) PointCount() int { return len(b.points) }

// ConnectionCount returns the number of connections added so far.
func (b *Builder) ConnectionCount() int { return len(b.conns) }

// Build returns an immutable graph snapshot of the builder's contents. The
// builder may keep being used afterwards without affecting the snapshot.
func (b *Builder) Build() *Graph {
	return newGraph(slices.Clone(b.points), maps.Clone(b.index), slices.Clone(b.conns))
}

// Assemble creates a graph from points and connections produced elsewhere.
// Point IDs must be non-empty and unique and every connection must reference
// existing points. Floor transition legality is NOT checked here; call
// [Graph.Validate] when the source is untrusted.
func Assemble(points []Point, conns []Connection) (*Graph, error) {
	index := make(map[string]int, len(points))
	for i, p := range points {
		if p.ID == "" {
			return nil, ErrInvalidPointID
		}
		if _, dup := index[p.ID]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicatePointID, p.ID)
		}
		index[p.ID] = i
	}
	for _, c := range conns {
		_, okA := index[c.From]
		_, okB := index[c.To]
		if !okA || !okB {
			return nil, fmt.Errorf("%w: %s - %s", ErrUnknownPoint, c.From, c.To)
		}
	}
	return newGraph(slices.Clone(points), index, slices.Clone(conns)), nil
}

func newGraph(points []Point, index map[string]int, conns []Connection) *Graph {
	g := &Graph{
		points: points,
		index:  index,
		conns:  conns,
		adj:    make(map[string][]int, len(points)),
	}
	for i, c := range g.conns {
		g.adj[c.From] = append(g.adj[c.From], i)
		g.adj[c.To] = append(g.adj[c.To], i)
	}
	return g
}

// Graph is the navigation graph: an ordered, immutable set of points and
// undirected connections with lookup indexes.
//
// A Graph never changes after [Builder.Build], so it is safe for concurrent
// use by any number of readers without synchronization. Every accessor returns
// copies.
type Graph struct {
	points []Point
	index  map[string]int
	conns  []Connection
	adj    map[string][]int // point ID -> indexes into conns
}

// Points returns a copy of all points in construction order.
func (g *Graph) Points() []Point { return slices.Clone(g.points) }

// Connections returns a copy of all connections in construction order.
func (g *Graph) Connections() []Connection { return slices.Clone(g.conns) }

// PointCount returns the number of points in the graph.
func (g *Graph) PointCount() int { return len(g.points) }

// ConnectionCount returns the number of connections in the graph.
func (g *Graph) ConnectionCount() int { return len(g.conns) }

// Point returns the point with the given ID and true, or the zero Point and
// false if not found.
func (g *Graph) Point(id string) (Point, bool) {
	i, ok := g.index[id]
	if !ok {
		return Point{}, false
	}
	return g.points[i], true
}

// FindRoom returns the first room (in construction order) whose derived name
// equals name. Restrooms never match. The boolean is false when no room
// matches.
func (g *Graph) FindRoom(name string) (Point, bool) {
	for _, p := range g.points {
		if p.IsRoom() && p.Name == name {
			return p, true
		}
	}
	return Point{}, false
}

// Adjacent returns all connections touching the point, in construction order.
// Returns nil for unknown IDs or isolated points.
func (g *Graph) Adjacent(id string) []Connection {
	idx := g.adj[id]
	if len(idx) == 0 {
		return nil
	}
	out := make([]Connection, len(idx))
	for i, ci := range idx {
		out[i] = g.conns[ci]
	}
	return out
}

// Rooms returns the selectable rooms (restrooms excluded) sorted by name, then
// floor. This is the list a room picker shows.
func (g *Graph) Rooms() []Point {
	var rooms []Point
	for _, p := range g.points {
		if p.IsRoom() {
			rooms = append(rooms, p)
		}
	}
	slices.SortStableFunc(rooms, func(a, b Point) int {
		if c := strings.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return a.Floor - b.Floor
	})
	return rooms
}

// Restrooms returns restrooms of the given category in construction order.
// CategoryNone returns nothing: untagged restrooms are never candidates.
func (g *Graph) Restrooms(c Category) []Point {
	if c == CategoryNone {
		return nil
	}
	var out []Point
	for _, p := range g.points {
		if p.Restroom && p.Category == c {
			out = append(out, p)
		}
	}
	return out
}

// PointsOnFloor returns the points of one floor in construction order.
func (g *Graph) PointsOnFloor(floor int) []Point {
	var out []Point
	for _, p := range g.points {
		if p.Floor == floor {
			out = append(out, p)
		}
	}
	return out
}

// Floors returns the floors that contributed at least one point, ascending.
func (g *Graph) Floors() []int {
	set := make(map[int]struct{})
	for _, p := range g.points {
		set[p.Floor] = struct{}{}
	}
	return slices.Sorted(maps.Keys(set))
}

// FloorRange returns the lowest and highest floor present. Both are zero for
// an empty graph.
func (g *Graph) FloorRange() (lo, hi int) {
	floors := g.Floors()
	if len(floors) == 0 {
		return 0, 0
	}
	return floors[0], floors[len(floors)-1]
}

// Validate checks graph integrity and returns nil if valid. It applies the
// rules [Builder] enforces on insertion: floors are positive, and every
// connection references existing points, joins two distinct points, appears
// once and satisfies [CanConnect].
//
// Returns ErrInvalidFloor, ErrUnknownPoint, ErrSelfLoop,
// ErrDuplicateConnection or ErrIllegalConnection for the first offender.
// Graphs produced by [Builder.Build] always validate; graphs from [Assemble]
// may not.
func (g *Graph) Validate() error {
	for _, p := range g.points {
		if p.Floor < 1 {
			return fmt.Errorf("%w: %s on floor %d", ErrInvalidFloor, p.ID, p.Floor)
		}
	}
	seen := make(map[[2]string]struct{}, len(g.conns))
	for _, c := range g.conns {
		a, okA := g.Point(c.From)
		b, okB := g.Point(c.To)
		if !okA || !okB {
			return fmt.Errorf("%w: %s - %s", ErrUnknownPoint, c.From, c.To)
		}
		if c.From == c.To {
			return fmt.Errorf("%w: %s", ErrSelfLoop, c.From)
		}
		if _, dup := seen[c.key()]; dup {
			return fmt.Errorf("%w: %s - %s", ErrDuplicateConnection, c.From, c.To)
		}
		seen[c.key()] = struct{}{}
		if !CanConnect(a, b) {
			return fmt.Errorf("%w: %s - %s", ErrIllegalConnection, c.From, c.To)
		}
	}
	return nil
}
