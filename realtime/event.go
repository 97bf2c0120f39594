package realtime

import (
	"sort"

	"github.com/comalice/reflexpong"
)

// Edge is a queued button press with ordering metadata.
type Edge struct {
	Player      reflexpong.Player
	SequenceNum uint64
	Priority    int
}

// sortEdges orders edges deterministically. The sort is stable, so equal
// keys keep their insertion order.
func sortEdges(edges []Edge) {
	sort.SliceStable(edges, func(i, j int) bool {
		if edges[i].Priority != edges[j].Priority {
			return edges[i].Priority > edges[j].Priority
		}
		return edges[i].SequenceNum < edges[j].SequenceNum
	})
}
