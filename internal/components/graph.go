package components

import (
	"sort"
)

// NestingGraph records which components may nest inside which.
type NestingGraph struct {
	nodes    map[string]struct{}
	children map[string][]string
}

// NewNestingGraph creates an empty graph.
func NewNestingGraph() *NestingGraph {
	return &NestingGraph{
		nodes:    make(map[string]struct{}),
		children: make(map[string][]string),
	}
}

// AddNode ensures the component exists within the graph.
func (g *NestingGraph) AddNode(name string) {
	if _, exists := g.nodes[name]; exists {
		return
	}
	g.nodes[name] = struct{}{}
}

// AddEdge records that child may nest inside parent. Edge order is kept.
func (g *NestingGraph) AddEdge(parent, child string) {
	g.AddNode(parent)
	g.AddNode(child)
	g.children[parent] = append(g.children[parent], child)
}

// Children returns the components nested directly in name.
func (g *NestingGraph) Children(name string) []string {
	return append([]string(nil), g.children[name]...)
}

// DetectCycle returns one nesting cycle, or nil when the graph is acyclic.
func (g *NestingGraph) DetectCycle() []string {
	visited := make(map[string]bool)
	stack := make(map[string]bool)
	var path []string
	var cycle []string

	var dfs func(node string) bool
	dfs = func(node string) bool {
		visited[node] = true
		stack[node] = true
		path = append(path, node)

		for _, child := range g.children[node] {
			if !visited[child] {
				if dfs(child) {
					return true
				}
			} else if stack[child] {
				idx := len(path) - 1
				for idx >= 0 && path[idx] != child {
					idx--
				}
				if idx >= 0 {
					cycle = append(append([]string{}, path[idx:]...), child)
					return true
				}
			}
		}

		stack[node] = false
		path = path[:len(path)-1]
		return false
	}

	for _, node := range g.sortedNodes() {
		if !visited[node] && dfs(node) {
			break
		}
	}
	return cycle
}

// Levels groups components reachable from root by their shallowest nesting
// depth: level 0 holds root, level 1 its direct children, and so on.
func (g *NestingGraph) Levels(root string) [][]string {
	if _, ok := g.nodes[root]; !ok {
		return nil
	}

	seen := map[string]bool{root: true}
	var levels [][]string
	current := []string{root}
	for len(current) > 0 {
		levels = append(levels, current)
		var next []string
		for _, node := range current {
			for _, child := range g.children[node] {
				if seen[child] {
					continue
				}
				seen[child] = true
				next = append(next, child)
			}
		}
		sort.Strings(next)
		current = next
	}
	return levels
}

func (g *NestingGraph) sortedNodes() []string {
	nodes := make([]string, 0, len(g.nodes))
	for node := range g.nodes {
		nodes = append(nodes, node)
	}
	sort.Strings(nodes)
	return nodes
}
