package nav

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

var (
	// ErrInvalidPointID is returned by [Builder.AddPoint] when the point ID is
	// empty. All points must have non-empty identifiers.
	ErrInvalidPointID = errors.New("point ID must not be empty")

	// ErrDuplicatePointID is returned by [Builder.AddPoint] when a point with the
	// same ID already exists. IDs are unique across all floors.
	ErrDuplicatePointID = errors.New("duplicate point ID")

	// ErrInvalidFloor is returned by [Builder.AddPoint] when the floor is not a
	// positive integer.
	ErrInvalidFloor = errors.New("floor must be positive")

	// ErrUnknownPoint is returned by [Builder.Connect] when either endpoint does
	// not exist, or by [Graph.Validate] when an edge references a missing point.
	ErrUnknownPoint = errors.New("unknown point")

	// ErrSelfLoop is returned by [Builder.Connect] when both endpoints are the
	// same point.
	ErrSelfLoop = errors.New("connection endpoints must differ")

	// ErrDuplicateConnection is returned by [Builder.Connect] when the same
	// pair of points is already connected, in either orientation.
	ErrDuplicateConnection = errors.New("duplicate connection")

	// ErrIllegalConnection is returned when an edge joins points on different
	// floors that are not both stairs on adjacent floors.
	ErrIllegalConnection = errors.New("illegal floor transition")
)

// Kind classifies a point. It is decided once during ingestion and carried on
// the point; nothing downstream re-derives it from the ID.
type Kind int

const (
	// KindJunction is a generic corridor waypoint.
	KindJunction Kind = iota
	// KindRoom is a named destination. Restrooms are rooms with a category.
	KindRoom
	// KindStairs is a staircase landing. Only stairs may link floors.
	KindStairs
)

var kindNames = map[Kind]string{
	KindJunction: "junction",
	KindRoom:     "room",
	KindStairs:   "stairs",
}

// String returns the lowercase kind name.
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseKind is the inverse of [Kind.String].
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	return KindJunction, fmt.Errorf("unknown point kind %q", s)
}

// Category is the restroom category tag.
type Category int

const (
	// CategoryNone marks points that are not tagged restrooms.
	CategoryNone Category = iota
	// CategoryMale marks restrooms tagged "M".
	CategoryMale
	// CategoryFemale marks restrooms tagged "F".
	CategoryFemale
)

// String returns "M", "F" or "" for untagged points.
func (c Category) String() string {
	switch c {
	case CategoryMale:
		return "M"
	case CategoryFemale:
		return "F"
	}
	return ""
}

// ParseCategory accepts "M"/"F" (any case) and "male"/"female".
func ParseCategory(s string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "m", "male":
		return CategoryMale, nil
	case "f", "female":
		return CategoryFemale, nil
	}
	return CategoryNone, fmt.Errorf("unknown restroom category %q", s)
}

// Point is a navigable location. Coordinates are in the floor's local drawing
// space and are not comparable across floors.
//
// Points are values: the graph hands out copies, so a Point obtained from a
// [Graph] can never mutate it.
type Point struct {
	ID    string
	Floor int
	Kind  Kind
	X     float64
	Y     float64

	// Name is the room name derived from the label (rooms only), e.g. "101"
	// for "p_room_101". Empty for stairs and junctions.
	Name string
	// Restroom is set for rooms whose name marks a restroom. Restrooms are
	// never returned by [Graph.FindRoom].
	Restroom bool
	// Category is the restroom tag. Untagged restrooms keep CategoryNone and
	// are never candidates for a category search.
	Category Category
}

// IsStairs reports whether the point is a staircase landing.
func (p Point) IsStairs() bool { return p.Kind == KindStairs }

// IsRoom reports whether the point is a selectable room (not a restroom).
func (p Point) IsRoom() bool { return p.Kind == KindRoom && !p.Restroom }

// Connection is an undirected edge between two point IDs.
type Connection struct {
	From string
	To   string
}

// Touches reports whether the connection has id as one of its endpoints.
func (c Connection) Touches(id string) bool { return c.From == id || c.To == id }

// Other returns the endpoint opposite to id. The result is undefined when the
// connection does not touch id.
func (c Connection) Other(id string) string {
	if c.From == id {
		return c.To
	}
	return c.From
}

// key returns an orientation-independent identity for duplicate detection.
func (c Connection) key() [2]string {
	if c.From < c.To {
		return [2]string{c.From, c.To}
	}
	return [2]string{c.To, c.From}
}

// Distance returns the Euclidean distance between two points' coordinates.
// It ignores floors; callers decide whether the distance is meaningful.
func Distance(a, b Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// CanConnect reports whether an edge between a and b is legal: both points are
// on the same floor, or both are stairs on floors differing by exactly one.
func CanConnect(a, b Point) bool {
	if a.Floor == b.Floor {
		return true
	}
	if !a.IsStairs() || !b.IsStairs() {
		return false
	}
	d := a.Floor - b.Floor
	return d == 1 || d == -1
}
