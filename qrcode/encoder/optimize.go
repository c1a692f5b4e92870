package encoder

import (
	"container/heap"

	"github.com/ericlevine/pixqr/qrcode/decoder"
)

// candidates expands a token into every mode able to encode it. A Kanji run
// may also be written as Byte, and digits as Alphanumeric or Byte.
func candidates(token Segment) []Segment {
	switch token.Mode {
	case decoder.ModeNumeric:
		return []Segment{
			token,
			{Mode: decoder.ModeAlphanumeric, Data: token.Data, Length: token.Length},
			{Mode: decoder.ModeByte, Data: token.Data, Length: len(token.Data)},
		}
	case decoder.ModeAlphanumeric:
		return []Segment{
			token,
			{Mode: decoder.ModeByte, Data: token.Data, Length: len(token.Data)},
		}
	case decoder.ModeKanji:
		return []Segment{
			token,
			{Mode: decoder.ModeByte, Data: token.Data, Length: len(token.Data)},
		}
	}
	return []Segment{token}
}

// segmentGraph is a layered DAG over the token candidates. Node 0 is the
// start node and the last node is the end node; edge weights are the bits
// added by appending a candidate after its predecessor.
type segmentGraph struct {
	nodes []Segment
	edges [][]edge
}

type edge struct {
	to   int
	cost int
}

func buildGraph(tokens []Segment, version int) *segmentGraph {
	g := &segmentGraph{nodes: []Segment{{}}}
	g.edges = append(g.edges, nil)

	prev := []int{0}
	lastCount := make(map[int]int)
	for _, token := range tokens {
		var layer []int
		for _, node := range candidates(token) {
			id := len(g.nodes)
			g.nodes = append(g.nodes, node)
			g.edges = append(g.edges, nil)
			layer = append(layer, id)

			for _, p := range prev {
				var cost int
				if p != 0 && g.nodes[p].Mode == node.Mode {
					// Continuing a run only pays for the extra payload bits.
					cost = payloadBits(node.Mode, lastCount[p]+node.Length) -
						payloadBits(node.Mode, lastCount[p])
					lastCount[p] += node.Length
				} else {
					if p != 0 {
						lastCount[p] = node.Length
					}
					cost = node.BitLength() + 4 + node.Mode.CharacterCountBits(version)
				}
				g.edges[p] = append(g.edges[p], edge{to: id, cost: cost})
			}
		}
		prev = layer
	}

	end := len(g.nodes)
	g.nodes = append(g.nodes, Segment{})
	g.edges = append(g.edges, nil)
	for _, p := range prev {
		g.edges[p] = append(g.edges[p], edge{to: end})
	}
	return g
}

type queueItem struct {
	node int
	cost int
	seq  int
}

// costQueue pops the cheapest item, oldest first among equal costs.
type costQueue []queueItem

func (q costQueue) Len() int { return len(q) }
func (q costQueue) Less(i, j int) bool {
	if q[i].cost != q[j].cost {
		return q[i].cost < q[j].cost
	}
	return q[i].seq < q[j].seq
}
func (q costQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }
func (q *costQueue) Push(x any)   { *q = append(*q, x.(queueItem)) }
func (q *costQueue) Pop() any {
	old := *q
	item := old[len(old)-1]
	*q = old[:len(old)-1]
	return item
}

// shortestPath returns the node ids from start to end, both excluded.
func (g *segmentGraph) shortestPath() []int {
	end := len(g.nodes) - 1
	costs := make([]int, len(g.nodes))
	visited := make([]bool, len(g.nodes))
	pred := make([]int, len(g.nodes))
	visited[0] = true

	seq := 0
	q := &costQueue{{node: 0}}
	for q.Len() > 0 {
		u := heap.Pop(q).(queueItem)
		for _, e := range g.edges[u.node] {
			c := u.cost + e.cost
			if !visited[e.to] || c < costs[e.to] {
				visited[e.to] = true
				costs[e.to] = c
				pred[e.to] = u.node
				seq++
				heap.Push(q, queueItem{node: e.to, cost: c, seq: seq})
			}
		}
	}

	var path []int
	for n := pred[end]; n != 0; n = pred[n] {
		path = append(path, n)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// OptimalSegments returns the segmentation of tokens with the fewest total
// bits for the given version. Adjacent segments of the same mode are merged.
func OptimalSegments(tokens []Segment, version int) []Segment {
	if len(tokens) == 0 {
		return nil
	}
	g := buildGraph(tokens, version)
	var segments []Segment
	for _, id := range g.shortestPath() {
		node := g.nodes[id]
		if n := len(segments); n > 0 && segments[n-1].Mode == node.Mode {
			segments[n-1].Data += node.Data
			continue
		}
		segments = append(segments, Segment{Mode: node.Mode, Data: node.Data})
	}
	for i := range segments {
		segments[i] = newSegment(segments[i].Mode, segments[i].Data)
	}
	return segments
}

// dataBits returns the total encoded size of segments in the given version.
func dataBits(segments []Segment, version int) int {
	total := 0
	for _, s := range segments {
		total += s.TotalBits(version)
	}
	return total
}

// minVersion returns the smallest version whose data capacity at ecLevel
// holds segments, or false when none does.
func minVersion(segments []Segment, ecLevel decoder.ErrorCorrectionLevel) (*decoder.Version, bool) {
	for n := 1; n <= 40; n++ {
		v, _ := decoder.GetVersionForNumber(n)
		if dataBits(segments, n) <= v.DataCapacityBits(ecLevel) {
			return v, true
		}
	}
	return nil, false
}
