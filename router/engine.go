package router

import (
	"container/heap"
	"fmt"
)

// RouteData is one cell of the shortest-path table.
//
// Reachable is false for unreachable pairs. HasPrev is false only for the
// source vertex itself.
type RouteData struct {
	Reachable bool
	Weight    float64
	PrevEdge  EdgeID
	HasPrev   bool
}

// RouteInfo is a reconstructed shortest path
type RouteInfo struct {
	Weight float64
	Edges  []EdgeID
}

// Engine owns a graph together with its all-pairs shortest-path table.
type Engine struct {
	graph *Graph
	table [][]RouteData // source vertex -> destination vertex -> cell
}

// NewEngine computes the full shortest-path table for g. This is the only
// expensive step; every query afterwards is a lookup.
func NewEngine(g *Graph) *Engine {
	n := g.VertexCount()
	table := make([][]RouteData, n)
	for src := 0; src < n; src++ {
		table[src] = shortestPathsFrom(g, src)
	}
	return &Engine{graph: g, table: table}
}

// RestoreEngine wraps a graph and a previously computed table without
// recomputing it. Every row must start at its source and every stored last
// edge must extend a reachable cell by exactly its weight, so each
// predecessor chain walks back to the source.
func RestoreEngine(g *Graph, table [][]RouteData) (*Engine, error) {
	n := g.VertexCount()
	if len(table) != n {
		return nil, fmt.Errorf("table has %d rows for %d vertices", len(table), n)
	}
	for src, row := range table {
		if len(row) != n {
			return nil, fmt.Errorf("table row %d has %d cells for %d vertices", src, len(row), n)
		}
		if self := row[src]; !self.Reachable || self.HasPrev || self.Weight != 0 {
			return nil, fmt.Errorf("cell %d->%d is not the route source", src, src)
		}
		for dst, cell := range row {
			if dst == src {
				continue
			}
			if err := checkCell(g, row, src, dst, cell); err != nil {
				return nil, err
			}
		}
	}
	return &Engine{graph: g, table: table}, nil
}

func checkCell(g *Graph, row []RouteData, src, dst VertexID, cell RouteData) error {
	if !cell.Reachable {
		if cell.HasPrev {
			return fmt.Errorf("unreachable cell %d->%d has a last edge", src, dst)
		}
		return nil
	}
	if !cell.HasPrev {
		return fmt.Errorf("reachable cell %d->%d has no last edge", src, dst)
	}
	if cell.PrevEdge < 0 || cell.PrevEdge >= g.EdgeCount() {
		return fmt.Errorf("cell %d->%d references unknown edge %d", src, dst, cell.PrevEdge)
	}
	edge := g.Edge(cell.PrevEdge)
	if edge.To != dst {
		return fmt.Errorf("cell %d->%d last edge %d does not end at %d", src, dst, cell.PrevEdge, dst)
	}
	prev := row[edge.From]
	if !prev.Reachable {
		return fmt.Errorf("cell %d->%d last edge %d starts at unreachable %d", src, dst, cell.PrevEdge, edge.From)
	}
	if prev.Weight+edge.Weight != cell.Weight {
		return fmt.Errorf("cell %d->%d weight %v does not extend %v by %v", src, dst, cell.Weight, prev.Weight, edge.Weight)
	}
	return nil
}

func (e *Engine) Graph() *Graph { return e.graph }

// Table exposes the computed table for persistence. It must not be modified.
func (e *Engine) Table() [][]RouteData { return e.table }

// BuildRoute returns the shortest path from -> to, or false if to is not
// reachable from from.
func (e *Engine) BuildRoute(from, to VertexID) (RouteInfo, bool) {
	if from < 0 || from >= len(e.table) || to < 0 || to >= len(e.table) {
		return RouteInfo{}, false
	}
	cell := e.table[from][to]
	if !cell.Reachable {
		return RouteInfo{}, false
	}

	edges := []EdgeID{}
	cur := cell
	// The walk is bounded by the vertex count; a longer chain means the table
	// is inconsistent.
	for steps := 0; cur.HasPrev; steps++ {
		if steps > len(e.table) {
			return RouteInfo{}, false
		}
		edges = append(edges, cur.PrevEdge)
		cur = e.table[from][e.graph.Edge(cur.PrevEdge).From]
	}
	for i, j := 0, len(edges)-1; i < j; i, j = i+1, j-1 {
		edges[i], edges[j] = edges[j], edges[i]
	}
	return RouteInfo{Weight: cell.Weight, Edges: edges}, true
}

// shortestPathsFrom runs Dijkstra from src. Weights are non-negative.
// Relaxation is strict, so among equal-cost paths the first discovered
// predecessor is kept.
func shortestPathsFrom(g *Graph, src VertexID) []RouteData {
	row := make([]RouteData, g.VertexCount())
	row[src] = RouteData{Reachable: true}

	done := make([]bool, g.VertexCount())
	pq := &priorityQueue{}
	heap.Init(pq)
	heap.Push(pq, &pqItem{vertex: src, priority: 0})

	for pq.Len() > 0 {
		item := heap.Pop(pq).(*pqItem)
		v := item.vertex
		if done[v] {
			continue
		}
		done[v] = true
		for _, id := range g.IncidentEdges(v) {
			edge := g.Edge(id)
			tentative := row[v].Weight + edge.Weight
			if next := row[edge.To]; !next.Reachable || tentative < next.Weight {
				row[edge.To] = RouteData{Reachable: true, Weight: tentative, PrevEdge: id, HasPrev: true}
				heap.Push(pq, &pqItem{vertex: edge.To, priority: tentative})
			}
		}
	}
	return row
}

type pqItem struct {
	vertex   VertexID
	priority float64
}

type priorityQueue []*pqItem

func (pq priorityQueue) Len() int           { return len(pq) }
func (pq priorityQueue) Less(i, j int) bool { return pq[i].priority < pq[j].priority }
func (pq priorityQueue) Swap(i, j int)      { pq[i], pq[j] = pq[j], pq[i] }

func (pq *priorityQueue) Push(x any) {
	*pq = append(*pq, x.(*pqItem))
}

func (pq *priorityQueue) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[0 : n-1]
	return item
}
