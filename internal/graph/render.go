package graph

import (
	"sort"

	"github.com/steveyegge/beads/internal/types"
)

// RenderNode is one node in the pure data structure GraphEngine emits for
// external rendering (ASCII/DOT/JSON are all external collaborators).
type RenderNode struct {
	ID       string `json:"id"`
	Status   string `json:"status"`
	Priority int    `json:"priority"`
	Title    string `json:"title"`
}

// RenderEdge is one blocking edge in canonical form.
type RenderEdge struct {
	From string `json:"from"`
	To   string `json:"to"`
	Type string `json:"type"`
}

// RenderGraph is the full pure data structure spec.md §4.4 describes.
type RenderGraph struct {
	Nodes []RenderNode `json:"nodes"`
	Edges []RenderEdge `json:"edges"`
}

// Render emits the whole blocking subgraph as node/edge data, sorted
// deterministically so repeated renders of an unchanged graph are
// byte-identical.
func (e *Engine) Render() RenderGraph {
	g := RenderGraph{
		Nodes: make([]RenderNode, 0, len(e.nodes)),
		Edges: make([]RenderEdge, 0),
	}
	for _, n := range e.nodes {
		g.Nodes = append(g.Nodes, RenderNode{ID: n.ID, Status: string(n.Status), Priority: n.Priority, Title: n.Title})
	}
	sort.Slice(g.Nodes, func(i, j int) bool { return g.Nodes[i].ID < g.Nodes[j].ID })

	froms := make([]string, 0, len(e.blocking))
	for from := range e.blocking {
		froms = append(froms, from)
	}
	sort.Strings(froms)
	for _, from := range froms {
		for _, to := range e.blocking[from] {
			g.Edges = append(g.Edges, RenderEdge{From: from, To: to, Type: string(types.LinkBlocks)})
		}
	}
	return g
}
