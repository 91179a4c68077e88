// Package road models the park's walkable network: an undirected, unit-weight
// graph over Tiles that is edited one tile at a time as roads are placed and
// removed, and queried for shortest routes by agents.
//
// Vertices live in an index-addressed table; each vertex keeps its neighbors in
// insertion order. That order is observable: when two routes have equal length,
// the one discovered through the earlier-inserted neighbor wins.
package road

import (
	"fmt"
	"math"
)

// Vertex is one entry of the adjacency table: a tile and its neighbors in
// insertion order.
type Vertex struct {
	Tile      Tile   `yaml:"tile" json:"tile"`
	Neighbors []Tile `yaml:"neighbors,flow" json:"neighbors"`
}

// Network is an undirected adjacency structure over Tiles.
//
// Thread-safety: NOT thread-safe. The simulator mutates and queries it from
// a single goroutine inside a tick.
type Network struct {
	vertices []Vertex
	index    map[Tile]int // tile -> position in vertices
	edges    int
}

// NewNetwork creates an empty network.
func NewNetwork() *Network {
	return &Network{index: make(map[Tile]int)}
}

// FromAdjacency rebuilds a network from a table produced by Adjacency.
// Vertex and neighbor order are preserved exactly, so routes computed on the
// rebuilt network match routes computed on the original.
func FromAdjacency(table []Vertex) *Network {
	n := NewNetwork()
	for _, v := range table {
		if _, dup := n.index[v.Tile]; dup {
			panic(fmt.Sprintf("FromAdjacency: duplicate vertex %s", v.Tile))
		}
		n.index[v.Tile] = len(n.vertices)
		n.vertices = append(n.vertices, Vertex{Tile: v.Tile, Neighbors: append([]Tile(nil), v.Neighbors...)})
	}
	half := 0
	for _, v := range n.vertices {
		for _, nb := range v.Neighbors {
			if _, ok := n.index[nb]; !ok {
				panic(fmt.Sprintf("FromAdjacency: vertex %s has dangling edge to %s", v.Tile, nb))
			}
		}
		half += len(v.Neighbors)
	}
	n.edges = half / 2
	return n
}

// V returns the vertex count.
func (n *Network) V() int { return len(n.vertices) }

// E returns the edge count.
func (n *Network) E() int { return n.edges }

// HasVertex reports whether t is a vertex of the network.
func (n *Network) HasVertex(t Tile) bool {
	_, ok := n.index[t]
	return ok
}

// Neighbors returns a copy of t's neighbor list in insertion order.
// Panics if t is not a vertex.
func (n *Network) Neighbors(t Tile) []Tile {
	return append([]Tile(nil), n.vertices[n.mustIndex(t)].Neighbors...)
}

// Vertices returns the vertex tiles in insertion order.
func (n *Network) Vertices() []Tile {
	out := make([]Tile, len(n.vertices))
	for i, v := range n.vertices {
		out[i] = v.Tile
	}
	return out
}

// Adjacency returns a deep copy of the adjacency table, suitable for
// persisting and for FromAdjacency.
func (n *Network) Adjacency() []Vertex {
	out := make([]Vertex, len(n.vertices))
	for i, v := range n.vertices {
		out[i] = Vertex{Tile: v.Tile, Neighbors: append([]Tile(nil), v.Neighbors...)}
	}
	return out
}

// AddVertex inserts t and a symmetric edge to each tile in neighbors.
// Every neighbor must already be a vertex, and t must not be one: callers own
// uniqueness, and a violation panics rather than corrupting the edge count.
func (n *Network) AddVertex(t Tile, neighbors []Tile) {
	if _, dup := n.index[t]; dup {
		panic(fmt.Sprintf("AddVertex: %s is already a vertex", t))
	}
	for i, nb := range neighbors {
		if _, ok := n.index[nb]; !ok {
			panic(fmt.Sprintf("AddVertex: neighbor %s of %s is not a vertex", nb, t))
		}
		for _, prev := range neighbors[:i] {
			if prev == nb {
				panic(fmt.Sprintf("AddVertex: neighbor %s of %s listed twice", nb, t))
			}
		}
	}

	n.index[t] = len(n.vertices)
	n.vertices = append(n.vertices, Vertex{Tile: t})
	self := len(n.vertices) - 1
	for _, nb := range neighbors {
		n.vertices[self].Neighbors = append(n.vertices[self].Neighbors, nb)
		j := n.index[nb]
		n.vertices[j].Neighbors = append(n.vertices[j].Neighbors, t)
	}
	n.edges += len(neighbors)
}

// RemoveVertex deletes t and every edge incident to it. No-op if t is absent.
func (n *Network) RemoveVertex(t Tile) {
	i, ok := n.index[t]
	if !ok {
		return
	}
	incident := n.vertices[i].Neighbors
	for _, nb := range incident {
		j := n.mustIndex(nb)
		n.vertices[j].Neighbors = removeTile(n.vertices[j].Neighbors, t)
	}
	n.vertices = append(n.vertices[:i], n.vertices[i+1:]...)
	delete(n.index, t)
	for k := i; k < len(n.vertices); k++ {
		n.index[n.vertices[k].Tile] = k
	}
	n.edges -= len(incident)
}

// ShortestPath returns the tiles from start to dest inclusive, or ok=false if
// dest cannot be reached. start == dest yields [start].
//
// The search is FIFO label-correcting relaxation over unit weights: a vertex
// is re-queued when its distance improves, it is not already queued, and its
// hop depth is still below V. Neighbors are scanned in insertion order and only
// strict improvements are applied, so among equal-length routes the first one
// discovered wins.
//
// Panics if start or dest is not a vertex.
func (n *Network) ShortestPath(start, dest Tile) ([]Tile, bool) {
	if start == dest {
		return []Tile{start}, true
	}
	s := n.mustIndex(start)
	d := n.mustIndex(dest)

	count := len(n.vertices)
	dist := make([]int, count)
	pred := make([]int, count)
	hops := make([]int, count)
	inQ := make([]bool, count)
	for i := range dist {
		dist[i] = math.MaxInt
		pred[i] = -1
	}
	dist[s] = 0

	queue := []int{s}
	inQ[s] = true
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		inQ[u] = false
		if dist[u] == math.MaxInt {
			continue
		}
		for _, nb := range n.vertices[u].Neighbors {
			v := n.mustIndex(nb)
			if dist[v] > dist[u]+1 {
				dist[v] = dist[u] + 1
				pred[v] = u
				hops[v] = hops[u] + 1
				if hops[v] < count && !inQ[v] {
					queue = append(queue, v)
					inQ[v] = true
				}
			}
		}
	}

	if pred[d] == -1 {
		return nil, false
	}
	path := make([]Tile, 0, dist[d]+1)
	for at := d; at != -1; at = pred[at] {
		path = append(path, n.vertices[at].Tile)
		if at == s {
			break
		}
		if len(path) > count {
			panic(fmt.Sprintf("ShortestPath: predecessor cycle reconstructing %s -> %s", start, dest))
		}
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path, true
}

// Reachable reports whether a route exists between a and b. Tiles that are not
// vertices are unreachable.
func (n *Network) Reachable(a, b Tile) bool {
	if !n.HasVertex(a) || !n.HasVertex(b) {
		return false
	}
	_, ok := n.ShortestPath(a, b)
	return ok
}

func (n *Network) mustIndex(t Tile) int {
	i, ok := n.index[t]
	if !ok {
		panic(fmt.Sprintf("road: %s is not a vertex", t))
	}
	return i
}

func removeTile(tiles []Tile, t Tile) []Tile {
	for i, x := range tiles {
		if x == t {
			return append(tiles[:i], tiles[i+1:]...)
		}
	}
	return tiles
}
