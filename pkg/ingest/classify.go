package ingest

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/matzehuels/floorwalk/pkg/nav"
)

const (
	roomMarker     = "room_"
	stairsMarker   = "stairs_"
	restroomMarker = "toilet"
)

// restroomTag matches the category token at the end of a restroom name, e.g.
// "toilet1M" or "toilet_2_F".
var restroomTag = regexp.MustCompile(`^toilet[_-]?\d*[_-]?([MF])$`)

// Classify turns a marker label into a point on the given floor. The returned
// point carries ID, Floor, Kind and the room fields; coordinates are left to
// the caller.
//
//   - "<prefix>room_<name>" is a room named <name>; its ID is the label.
//     Names starting with "toilet" are restrooms, tagged M or F when the
//     name ends in that letter.
//   - "<prefix>stairs_<key>" is a staircase; its ID is the label.
//   - Anything else is a junction whose ID is the label with "_<floor>"
//     appended, so that corridor labels reused across floors stay unique.
//
// Classify returns false for an empty label or a room label with no name.
func Classify(label string, floor int, prefix string) (nav.Point, bool) {
	label = strings.TrimSpace(label)
	if label == "" {
		return nav.Point{}, false
	}
	rest := strings.TrimPrefix(label, prefix)

	switch {
	case strings.HasPrefix(rest, roomMarker):
		name := rest[len(roomMarker):]
		if name == "" {
			return nav.Point{}, false
		}
		p := nav.Point{ID: label, Floor: floor, Kind: nav.KindRoom, Name: name}
		if strings.HasPrefix(name, restroomMarker) {
			p.Restroom = true
			if m := restroomTag.FindStringSubmatch(name); m != nil {
				p.Category, _ = nav.ParseCategory(m[1])
			}
		}
		return p, true

	case strings.HasPrefix(rest, stairsMarker):
		return nav.Point{ID: label, Floor: floor, Kind: nav.KindStairs}, true
	}

	return nav.Point{
		ID:    label + "_" + strconv.Itoa(floor),
		Floor: floor,
		Kind:  nav.KindJunction,
	}, true
}
