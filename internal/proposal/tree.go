package proposal

import (
	"math"
	"sort"

	"samplesort/internal/matrix"
)

// Node is one folder in a preview tree.
type Node struct {
	Name     string  `json:"name"`
	Files    int     `json:"files"`
	Packs    int     `json:"packs"`
	Children []*Node `json:"children,omitempty"`
}

// buildTree partitions entries recursively along axes.
func buildTree(name string, entries []matrix.Entry, axes []matrix.Axis) *Node {
	n := &Node{Name: name}
	for _, e := range entries {
		n.Files += e.TotalFiles
		n.Packs += e.PackCount
	}
	if len(axes) == 0 {
		return n
	}
	groups := make(map[string][]matrix.Entry)
	for _, e := range entries {
		v := e.Value(axes[0])
		groups[v] = append(groups[v], e)
	}
	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		n.Children = append(n.Children, buildTree(k, groups[k], axes[1:]))
	}
	return n
}

// countFolders counts every node below the root.
func countFolders(n *Node) int {
	total := 0
	for _, c := range n.Children {
		total += 1 + countFolders(c)
	}
	return total
}

// balance averages, over internal nodes, how evenly files spread across
// children: max(0, 1 - stddev/mean).
func balance(root *Node) float64 {
	var (
		sum   float64
		count int
	)
	var walk func(n *Node)
	walk = func(n *Node) {
		if len(n.Children) == 0 {
			return
		}
		sum += nodeBalance(n)
		count++
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(root)
	if count == 0 {
		return 1
	}
	return sum / float64(count)
}

func nodeBalance(n *Node) float64 {
	var mean float64
	for _, c := range n.Children {
		mean += float64(c.Files)
	}
	mean /= float64(len(n.Children))
	if mean == 0 {
		return 1
	}
	var sq float64
	for _, c := range n.Children {
		d := float64(c.Files) - mean
		sq += d * d
	}
	std := math.Sqrt(sq / float64(len(n.Children)))
	return math.Max(0, 1-std/mean)
}
