package io

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/floorwalk/pkg/cache"
	"github.com/matzehuels/floorwalk/pkg/nav"
	"github.com/matzehuels/floorwalk/pkg/route"
)

type graph struct {
	Points      []point      `json:"points"`
	Connections []connection `json:"connections"`
}

type point struct {
	ID       string  `json:"id"`
	Floor    int     `json:"floor"`
	Kind     string  `json:"kind"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Name     string  `json:"name,omitempty"`
	Restroom bool    `json:"restroom,omitempty"`
	Category string  `json:"category,omitempty"`
}

type connection struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type path struct {
	Cost        float64      `json:"cost"`
	Floors      []int        `json:"floors"`
	Points      []point      `json:"points"`
	Transitions []connection `json:"transitions,omitempty"`
}

func fromPoint(p nav.Point) point {
	return point{
		ID:       p.ID,
		Floor:    p.Floor,
		Kind:     p.Kind.String(),
		X:        p.X,
		Y:        p.Y,
		Name:     p.Name,
		Restroom: p.Restroom,
		Category: p.Category.String(),
	}
}

func fromPoints(ps []nav.Point) []point {
	out := make([]point, len(ps))
	for i, p := range ps {
		out[i] = fromPoint(p)
	}
	return out
}

// WriteJSON encodes a graph as indented JSON and writes it to w.
func WriteJSON(g *nav.Graph, w io.Writer) error {
	out := graph{
		Points:      fromPoints(g.Points()),
		Connections: make([]connection, 0, g.ConnectionCount()),
	}
	for _, c := range g.Connections() {
		out.Connections = append(out.Connections, connection{From: c.From, To: c.To})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes a graph to a JSON file at path.
func ExportJSON(g *nav.Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(g, f)
}

// GraphHash returns the SHA-256 of the graph's JSON encoding. Equal graphs
// have equal hashes.
func GraphHash(g *nav.Graph) (string, error) {
	var buf bytes.Buffer
	if err := WriteJSON(g, &buf); err != nil {
		return "", err
	}
	return cache.Hash(buf.Bytes()), nil
}

// MarshalPath encodes a route as compact JSON.
func MarshalPath(r *route.PathResult) ([]byte, error) {
	out := path{
		Cost:   r.Cost,
		Floors: r.Floors(),
		Points: fromPoints(r.Points),
	}
	for _, t := range r.Transitions() {
		out.Transitions = append(out.Transitions, connection{From: t.From.ID, To: t.To.ID})
	}
	return json.Marshal(out)
}

// WritePath writes a route as indented JSON to w.
func WritePath(r *route.PathResult, w io.Writer) error {
	data, err := MarshalPath(r)
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	buf.WriteByte('\n')
	_, err = buf.WriteTo(w)
	return err
}
