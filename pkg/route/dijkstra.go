package route

import (
	"container/heap"
	"slices"

	"github.com/matzehuels/floorwalk/pkg/nav"
)

// search holds the state of one shortest-path run. Every call gets its own,
// which is what lets queries share an Engine.
type search struct {
	e       *Engine
	goal    string
	dist    map[string]float64
	prev    map[string]string
	visited map[string]bool
	pq      frontier
}

// shortest runs Dijkstra from start until goal is settled. It returns the
// point sequence and its cost, or ok=false when the frontier drains first.
func (e *Engine) shortest(start, goal nav.Point) (points []nav.Point, cost float64, ok bool) {
	n := e.g.PointCount()
	s := &search{
		e:       e,
		goal:    goal.ID,
		dist:    make(map[string]float64, n),
		prev:    make(map[string]string, n),
		visited: make(map[string]bool, n),
		pq:      make(frontier, 0, n),
	}
	s.dist[start.ID] = 0
	heap.Push(&s.pq, &entry{id: start.ID, cost: 0})

	if !s.run() {
		return nil, 0, false
	}
	return s.path(), s.dist[goal.ID], true
}

func (s *search) run() bool {
	for s.pq.Len() > 0 {
		item := heap.Pop(&s.pq).(*entry)
		u := item.id
		if s.visited[u] {
			continue
		}
		s.visited[u] = true
		if u == s.goal {
			return true
		}
		s.relax(u)
	}
	return false
}

func (s *search) relax(u string) {
	from, _ := s.e.g.Point(u)
	for _, c := range s.e.g.Adjacent(u) {
		v := c.Other(u)
		if s.visited[v] {
			continue
		}
		to, ok := s.e.g.Point(v)
		if !ok || !nav.CanConnect(from, to) {
			continue
		}
		alt := s.dist[u] + s.e.Weight(from, to)
		if d, seen := s.dist[v]; seen && alt >= d {
			continue
		}
		s.dist[v] = alt
		s.prev[v] = u
		heap.Push(&s.pq, &entry{id: v, cost: alt})
	}
}

func (s *search) path() []nav.Point {
	var out []nav.Point
	for id := s.goal; ; {
		p, _ := s.e.g.Point(id)
		out = append(out, p)
		prev, ok := s.prev[id]
		if !ok {
			break
		}
		id = prev
	}
	slices.Reverse(out)
	return out
}

// Weight is the traversal cost of an edge: the Euclidean distance on one
// floor, the fixed floor penalty across floors.
func (e *Engine) Weight(a, b nav.Point) float64 {
	if a.Floor != b.Floor {
		return e.opts.FloorPenalty
	}
	return nav.Distance(a, b)
}

type entry struct {
	id   string
	cost float64
}

// frontier is a min-heap on cost. Equal costs are ordered by point ID so the
// chosen path does not depend on heap internals.
type frontier []*entry

func (pq frontier) Len() int { return len(pq) }

func (pq frontier) Less(i, j int) bool {
	if pq[i].cost != pq[j].cost {
		return pq[i].cost < pq[j].cost
	}
	return pq[i].id < pq[j].id
}

func (pq frontier) Swap(i, j int) { pq[i], pq[j] = pq[j], pq[i] }

func (pq *frontier) Push(x any) { *pq = append(*pq, x.(*entry)) }

func (pq *frontier) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[:n-1]
	return item
}
