package cache

// PolicyKeyOpts is the part of the routing policy that changes results.
type PolicyKeyOpts struct {
	FloorPenalty    float64 `json:"floor_penalty"`
	CandidateWindow int     `json:"candidate_window"`
	MinFloor        int     `json:"min_floor"`
	MaxFloor        int     `json:"max_floor"`
}

// Keyer builds cache keys. Every key embeds the graph hash, so results of an
// older graph are never served for a newer one.
type Keyer interface {
	// RouteKey addresses a room-to-room route.
	RouteKey(graphHash, from, to string, opts PolicyKeyOpts) string
	// RestroomKey addresses a nearest-restroom result.
	RestroomKey(graphHash, from, category string, opts PolicyKeyOpts) string
}

// DefaultKeyer hashes key components with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// RouteKey returns "route:<sha256>".
func (DefaultKeyer) RouteKey(graphHash, from, to string, opts PolicyKeyOpts) string {
	return hashKey("route", graphHash, from, to, opts)
}

// RestroomKey returns "restroom:<sha256>".
func (DefaultKeyer) RestroomKey(graphHash, from, category string, opts PolicyKeyOpts) string {
	return hashKey("restroom", graphHash, from, category, opts)
}
