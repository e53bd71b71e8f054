// Package nav provides the multi-floor navigation graph.
//
// # Overview
//
// A building is drawn one floor at a time. Each floor contributes [Point]
// values (rooms, staircase landings and corridor junctions) and undirected
// [Connection] values between them. Staircases are the only way between
// floors: an edge may join two points on the same floor, or two stairs points
// on floors that differ by exactly one. [CanConnect] is the single statement
// of that rule and both [Builder.Connect] and the route engine apply it.
//
// # Basic Usage
//
// Create a builder with [NewBuilder], add points with [Builder.AddPoint] and
// edges with [Builder.Connect], then freeze it with [Builder.Build]:
//
//	b := nav.NewBuilder()
//	b.AddPoint(nav.Point{ID: "p_room_A", Floor: 2, Kind: nav.KindRoom, Name: "A"})
//	b.AddPoint(nav.Point{ID: "p_room_B", Floor: 2, Kind: nav.KindRoom, Name: "B", X: 3, Y: 4})
//	b.Connect(nav.Connection{From: "p_room_A", To: "p_room_B"})
//	g := b.Build()
//
// Query the graph with [Graph.FindRoom], [Graph.Adjacent], [Graph.Rooms],
// [Graph.Restrooms] and [Graph.Floors].
//
// # Point Kinds
//
//   - [KindRoom]: a named destination; restrooms are rooms with Restroom set
//     and a [Category]
//   - [KindStairs]: a staircase landing, the only kind allowed to change floor
//   - [KindJunction]: a corridor waypoint
//
// # Concurrency
//
// A [Graph] is immutable once built and every accessor returns copies, so a
// single graph can serve any number of concurrent readers. A [Builder] is not
// safe for concurrent use.
package nav
