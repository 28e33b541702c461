package project

import (
	"sort"

	"github.com/dominikbraun/graph"

	"github.com/djangolens/djangolens/internal/scanner"
)

// InheritanceEdge records that Child locally inherits from Parent, with
// both ends being model classes known to the snapshot.
type InheritanceEdge struct {
	Parent string `json:"parent"`
	Child  string `json:"child"`
}

// InheritanceEdges builds the project-wide model inheritance graph and
// returns its edges sorted by parent then child. Class headers are
// re-read from the snapshot's model files; unreadable files contribute
// nothing, consistent with the extractors.
func InheritanceEdges(snap *Snapshot) []InheritanceEdge {
	known := map[string]bool{}
	for _, fr := range snap.Files {
		for _, m := range fr.Models {
			known[m.Name] = true
		}
	}
	if len(known) == 0 {
		return nil
	}

	g := graph.New(graph.StringHash, graph.Directed())
	for name := range known {
		_ = g.AddVertex(name)
	}

	for _, fr := range snap.Files {
		if fr.Kind != KindModels {
			continue
		}
		lines, err := scanner.ReadLines(fr.Path)
		if err != nil {
			continue
		}
		for _, header := range scanner.TopLevelClassHeaders(lines) {
			if !known[header.Name] {
				continue
			}
			for _, base := range header.Bases {
				if known[base] {
					_ = g.AddEdge(base, header.Name)
				}
			}
		}
	}

	adjacency, err := g.AdjacencyMap()
	if err != nil {
		return nil
	}

	var edges []InheritanceEdge
	for parent, children := range adjacency {
		for child := range children {
			edges = append(edges, InheritanceEdge{Parent: parent, Child: child})
		}
	}
	sort.Slice(edges, func(a, b int) bool {
		if edges[a].Parent != edges[b].Parent {
			return edges[a].Parent < edges[b].Parent
		}
		return edges[a].Child < edges[b].Child
	})
	return edges
}
