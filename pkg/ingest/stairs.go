package ingest

import (
	"slices"

	"github.com/matzehuels/floorwalk/pkg/nav"
)

// StairsGroup returns the key that pairs a staircase across floors: the last
// n characters of its ID, or the whole ID when it is shorter.
func StairsGroup(id string, n int) string {
	if n <= 0 || len(id) <= n {
		return id
	}
	return id[len(id)-n:]
}

// LinkStairs connects stairs of the same group on consecutive floors. Within a
// group, stairs are ordered by floor and each adjacent pair whose floors differ
// by exactly one is linked. Gaps are never bridged and non-stairs points are
// ignored.
//
// Groups are visited in order of first appearance so the output is stable for
// a given input order.
func LinkStairs(points []nav.Point, suffix int) []nav.Connection {
	var order []string
	groups := make(map[string][]nav.Point)
	for _, p := range points {
		if !p.IsStairs() {
			continue
		}
		key := StairsGroup(p.ID, suffix)
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], p)
	}

	var conns []nav.Connection
	for _, key := range order {
		members := groups[key]
		slices.SortStableFunc(members, func(a, b nav.Point) int { return a.Floor - b.Floor })
		for i := 1; i < len(members); i++ {
			lower, upper := members[i-1], members[i]
			if upper.Floor-lower.Floor != 1 {
				continue
			}
			conns = append(conns, nav.Connection{From: lower.ID, To: upper.ID})
		}
	}
	return conns
}
