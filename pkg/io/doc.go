// Package io provides JSON import and export for navigation graphs and
// routes.
//
// # Graph Format
//
//	{
//	  "points": [
//	    {"id": "p_room_101", "floor": 1, "kind": "room", "x": 12, "y": 40, "name": "101"},
//	    {"id": "p_node_3_1", "floor": 1, "kind": "junction", "x": 30, "y": 40},
//	    {"id": "p_stairs_1A", "floor": 1, "kind": "stairs", "x": 55, "y": 40}
//	  ],
//	  "connections": [
//	    {"from": "p_room_101", "to": "p_node_3_1"},
//	    {"from": "p_node_3_1", "to": "p_stairs_1A"}
//	  ]
//	}
//
// Restrooms additionally carry "restroom": true and "category": "M" or "F".
// Points and connections are written in graph order, so the same graph
// always encodes to the same bytes. That is what makes the encoding usable
// as a cache key (see [GraphHash]).
//
// [ReadJSON] assembles the graph with [nav.Assemble] and checks it with
// [nav.Graph.Validate], so it rejects duplicate IDs and illegal floor
// transitions.
//
// # Route Format
//
// [WritePath] encodes a route with its cost, the visited floors and the
// floor transitions. [UnmarshalPath] reads the points and cost back; the
// derived fields are recomputed from them.
package io
