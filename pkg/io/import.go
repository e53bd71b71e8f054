package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/floorwalk/pkg/nav"
	"github.com/matzehuels/floorwalk/pkg/route"
)

func toPoint(p point) (nav.Point, error) {
	kind, err := nav.ParseKind(p.Kind)
	if err != nil {
		return nav.Point{}, err
	}
	out := nav.Point{
		ID:       p.ID,
		Floor:    p.Floor,
		Kind:     kind,
		X:        p.X,
		Y:        p.Y,
		Name:     p.Name,
		Restroom: p.Restroom,
	}
	if p.Category != "" {
		if out.Category, err = nav.ParseCategory(p.Category); err != nil {
			return nav.Point{}, err
		}
	}
	return out, nil
}

// ReadJSON decodes a graph written by [WriteJSON].
//
// The decoded graph is checked with [nav.Graph.Validate], so the same rules
// as during ingestion apply: IDs must be unique, floors positive, connections
// must reference known points, and floors may only be joined by stairs on
// adjacent floors. ReadJSON does not close r.
func ReadJSON(r io.Reader) (*nav.Graph, error) {
	var data graph
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	points := make([]nav.Point, len(data.Points))
	for i, p := range data.Points {
		np, err := toPoint(p)
		if err != nil {
			return nil, fmt.Errorf("point %s: %w", p.ID, err)
		}
		points[i] = np
	}
	conns := make([]nav.Connection, len(data.Connections))
	for i, c := range data.Connections {
		conns[i] = nav.Connection{From: c.From, To: c.To}
	}

	g, err := nav.Assemble(points, conns)
	if err != nil {
		return nil, fmt.Errorf("assemble: %w", err)
	}
	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("validate: %w", err)
	}
	return g, nil
}

// ImportJSON reads a graph from the JSON file at path.
func ImportJSON(path string) (*nav.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}

// UnmarshalPath decodes a route written by [MarshalPath].
func UnmarshalPath(data []byte) (*route.PathResult, error) {
	var in path
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if len(in.Points) == 0 {
		return nil, fmt.Errorf("decode: route has no points")
	}
	res := &route.PathResult{Cost: in.Cost, Points: make([]nav.Point, len(in.Points))}
	for i, p := range in.Points {
		np, err := toPoint(p)
		if err != nil {
			return nil, fmt.Errorf("point %s: %w", p.ID, err)
		}
		res.Points[i] = np
	}
	return res, nil
}
