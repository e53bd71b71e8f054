// Package route finds routes through a navigation graph.
//
// # Cost Model
//
// An edge between two points on one floor costs their Euclidean distance. An
// edge between floors, which only ever joins stairs on adjacent floors, costs
// a fixed penalty (50 by default) no matter where the two landings are drawn.
// Floor coordinates are independent drawings, so a vertical distance would
// be meaningless.
//
// # Search
//
// [Engine.ShortestPath] is Dijkstra with a binary heap and lazy deletion. It
// stops as soon as the goal is settled. Entries of equal cost leave the heap
// in point ID order, so the same query on the same graph always yields the
// same path.
//
// Floor legality is checked again on every relaxation: an edge between
// floors that are not adjacent, or whose endpoints are not both stairs, is
// never traversed even if it is present in the graph.
//
// # Nearest Restroom
//
// [Engine.NearestRestroom] collects restrooms of the requested category on
// the start floor and the floors within the candidate window (one above and
// one below by default, clipped to the building), routes to each, and keeps
// the cheapest. Candidates are tried in graph order and the first of several
// equally cheap ones wins.
//
// # Outcomes
//
// Queries fail with distinct codes from [github.com/matzehuels/floorwalk/pkg/errors]:
//   - ROOM_NOT_FOUND: a room name matches no room
//   - NO_PATH_FOUND: both rooms exist but are not connected
//   - NO_CANDIDATE_OF_CATEGORY: no reachable restroom of the category nearby
package route
