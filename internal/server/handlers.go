package server

import (
	"bytes"
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/matzehuels/floorwalk/pkg/buildinfo"
	"github.com/matzehuels/floorwalk/pkg/errors"
	"github.com/matzehuels/floorwalk/pkg/history"
	fwio "github.com/matzehuels/floorwalk/pkg/io"
	"github.com/matzehuels/floorwalk/pkg/nav"
	"github.com/matzehuels/floorwalk/pkg/pipeline"
	"github.com/matzehuels/floorwalk/pkg/route"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 1000
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	snap, err := s.runner.Snapshot()
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{"status": "loading"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"version":  buildinfo.Version,
		"hash":     snap.Hash,
		"built_at": snap.BuiltAt.UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleFloors(w http.ResponseWriter, r *http.Request) {
	snap, err := s.runner.Snapshot()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	st := snap.Stats()
	writeJSON(w, http.StatusOK, map[string]any{
		"floors":  st.Floors,
		"skipped": st.Skipped,
	})
}

type roomBody struct {
	Name  string `json:"name"`
	ID    string `json:"id"`
	Floor int    `json:"floor"`
}

func (s *Server) handleRooms(w http.ResponseWriter, r *http.Request) {
	snap, err := s.runner.Snapshot()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	floor, err := floorParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	rooms := []roomBody{}
	for _, p := range snap.Graph.Rooms() {
		if floor != 0 && p.Floor != floor {
			continue
		}
		rooms = append(rooms, roomBody{Name: p.Name, ID: p.ID, Floor: p.Floor})
	}
	writeJSON(w, http.StatusOK, map[string]any{"rooms": rooms})
}

func (s *Server) handleRoute(w http.ResponseWriter, r *http.Request) {
	from, to := r.URL.Query().Get("from"), r.URL.Query().Get("to")
	entry := history.NewEntry(pipeline.KindRoute, from)
	entry.To = to

	if err := validateRooms(from, to); err != nil {
		s.writeError(w, r, err)
		return
	}
	res, hit, err := s.runner.FindPathWithCacheInfo(r.Context(), from, to)
	s.record(r.Context(), entry, res, hit, err)
	s.writeResult(w, r, res, hit, err)
}

func (s *Server) handleRestroom(w http.ResponseWriter, r *http.Request) {
	from, cat := r.URL.Query().Get("from"), r.URL.Query().Get("category")
	if err := validateRooms(from); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := errors.ValidateCategory(cat); err != nil {
		s.writeError(w, r, err)
		return
	}
	c, _ := nav.ParseCategory(cat)
	entry := history.NewEntry(pipeline.KindRestroom, from)
	entry.Category = c.String()

	res, hit, err := s.runner.FindNearestRestroomWithCacheInfo(r.Context(), from, c)
	s.record(r.Context(), entry, res, hit, err)
	s.writeResult(w, r, res, hit, err)
}

func (s *Server) writeResult(w http.ResponseWriter, r *http.Request, res *route.PathResult, hit bool, err error) {
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var buf bytes.Buffer
	if err := fwio.WritePath(res, &buf); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "encode route"))
		return
	}
	if hit {
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}
	writeRaw(w, "application/json", buf.Bytes())
}

// record appends a query to the history. Failures are logged and never
// affect the response.
func (s *Server) record(ctx context.Context, e history.Entry, res *route.PathResult, hit bool, err error) {
	e.RequestID = RequestID(ctx)
	e.Finish(res, hit, err)
	if err := s.history.Record(ctx, e); err != nil {
		s.logger.Warn("history write failed", "err", err, "request_id", e.RequestID)
	}
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	snap, err := s.runner.Snapshot()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.export(w, r, snap, pipeline.FormatJSON, "application/json", pipeline.ExportOptions{})
}

// handleGraphDOT draws the graph, highlighting a route when from and to are
// given. The route is computed on the same snapshot that is drawn.
func (s *Server) handleGraphDOT(w http.ResponseWriter, r *http.Request) {
	floor, err := floorParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	snap, err := s.runner.Snapshot()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts := pipeline.ExportOptions{Floor: floor}
	if from, to := r.URL.Query().Get("from"), r.URL.Query().Get("to"); from != "" || to != "" {
		if err := validateRooms(from, to); err != nil {
			s.writeError(w, r, err)
			return
		}
		res, err := snap.Engine.FindPath(from, to)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		opts.Route = res
	}
	s.export(w, r, snap, pipeline.FormatDOT, "text/vnd.graphviz", opts)
}

func (s *Server) export(w http.ResponseWriter, r *http.Request, snap *pipeline.Snapshot, format, contentType string, opts pipeline.ExportOptions) {
	data, err := pipeline.Export(r.Context(), snap.Graph, format, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeRaw(w, contentType, data)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := defaultHistoryLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "limit must be a positive integer"))
			return
		}
		limit = min(n, maxHistoryLimit)
	}
	entries, err := s.history.Recent(r.Context(), limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if entries == nil {
		entries = []history.Entry{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"entries": entries})
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	snap, err := s.runner.Reload(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	st := snap.Stats()
	s.logger.Info("graph reloaded", "points", st.Points, "connections", st.Connections, "skipped", st.Skipped)
	writeJSON(w, http.StatusOK, map[string]any{
		"hash":        snap.Hash,
		"points":      st.Points,
		"connections": st.Connections,
		"floors":      st.Floors,
		"skipped":     st.Skipped,
		"issues":      st.Issues,
	})
}

func validateRooms(names ...string) error {
	for _, n := range names {
		if err := errors.ValidateRoomName(n); err != nil {
			return err
		}
	}
	return nil
}

func floorParam(r *http.Request) (int, error) {
	v := r.URL.Query().Get("floor")
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, errors.New(errors.ErrCodeInvalidFloor, "floor %q is not a number", v)
	}
	return n, errors.ValidateFloor(n)
}
