package router

import "fmt"

type (
	VertexID = int
	EdgeID   = int
)

// Edge is a directed weighted edge
type Edge struct {
	From   VertexID
	To     VertexID
	Weight float64
}

// Graph is a directed weighted graph with per-vertex outgoing edge lists
type Graph struct {
	edges     []Edge
	incidence [][]EdgeID // vertex -> outgoing edge ids
}

// NewGraph creates a graph with vertexCount vertices and no edges
func NewGraph(vertexCount int) *Graph {
	return &Graph{
		edges:     []Edge{},
		incidence: make([][]EdgeID, vertexCount),
	}
}

// RestoreGraph rebuilds a graph from a stored edge list and incidence lists.
func RestoreGraph(edges []Edge, incidence [][]EdgeID) (*Graph, error) {
	for id, e := range edges {
		if e.From < 0 || e.From >= len(incidence) || e.To < 0 || e.To >= len(incidence) {
			return nil, fmt.Errorf("edge %d references vertex outside [0,%d)", id, len(incidence))
		}
	}
	for v, list := range incidence {
		for _, id := range list {
			if id < 0 || id >= len(edges) {
				return nil, fmt.Errorf("vertex %d lists unknown edge %d", v, id)
			}
			if edges[id].From != v {
				return nil, fmt.Errorf("vertex %d lists edge %d that starts at %d", v, id, edges[id].From)
			}
		}
	}
	return &Graph{edges: edges, incidence: incidence}, nil
}

// AddEdge appends an edge and returns its id
func (g *Graph) AddEdge(e Edge) EdgeID {
	id := len(g.edges)
	g.edges = append(g.edges, e)
	g.incidence[e.From] = append(g.incidence[e.From], id)
	return id
}

func (g *Graph) VertexCount() int { return len(g.incidence) }

func (g *Graph) EdgeCount() int { return len(g.edges) }

func (g *Graph) Edge(id EdgeID) Edge { return g.edges[id] }

func (g *Graph) IncidentEdges(v VertexID) []EdgeID { return g.incidence[v] }
