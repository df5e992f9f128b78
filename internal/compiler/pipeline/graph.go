package pipeline

// node is one vertex of a dependency graph
type node struct {
	name       string
	dependsOn  []string
	dependedBy []string
}

// Graph tracks dependencies between named nodes. Iteration follows
// insertion order, so the topological order is deterministic.
type Graph struct {
	order []string
	nodes map[string]*node
}

// NewGraph creates an empty dependency graph
func NewGraph() *Graph {
	return &Graph{nodes: make(map[string]*node)}
}

// Add adds a node to the graph
func (g *Graph) Add(name string) {
	if _, exists := g.nodes[name]; exists {
		return
	}
	g.nodes[name] = &node{name: name}
	g.order = append(g.order, name)
}

// Has reports whether the graph contains name
func (g *Graph) Has(name string) bool {
	_, ok := g.nodes[name]
	return ok
}

// AddDependency adds a dependency relationship: from depends on to
func (g *Graph) AddDependency(from, to string) {
	g.Add(from)
	g.Add(to)

	if !contains(g.nodes[from].dependsOn, to) {
		g.nodes[from].dependsOn = append(g.nodes[from].dependsOn, to)
	}
	if !contains(g.nodes[to].dependedBy, from) {
		g.nodes[to].dependedBy = append(g.nodes[to].dependedBy, from)
	}
}

// TopologicalOrder returns the nodes with every node after the nodes it
// depends on (Kahn's algorithm). Ties keep insertion order.
func (g *Graph) TopologicalOrder() ([]string, error) {
	inDegree := make(map[string]int, len(g.nodes))
	for name, n := range g.nodes {
		inDegree[name] = len(n.dependsOn)
	}

	queue := make([]string, 0)
	for _, name := range g.order {
		if inDegree[name] == 0 {
			queue = append(queue, name)
		}
	}

	result := make([]string, 0, len(g.nodes))
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		result = append(result, current)

		for _, dependent := range g.nodes[current].dependedBy {
			inDegree[dependent]--
			if inDegree[dependent] == 0 {
				queue = append(queue, dependent)
			}
		}
	}

	if len(result) != len(g.nodes) {
		var remaining []string
		for _, name := range g.order {
			if inDegree[name] > 0 {
				remaining = append(remaining, name)
			}
		}
		return nil, &CycleError{Nodes: remaining}
	}
	return result, nil
}

// CycleError lists the nodes left unordered by a dependency cycle
type CycleError struct {
	Nodes []string
}

func (e *CycleError) Error() string {
	return "circular dependency detected"
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
