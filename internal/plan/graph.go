package plan

import (
	"fmt"
	"strings"
)

// Graph is an ordered set of objective nodes plus directed prerequisite
// edges. An edge from → to means from must be mastered before to is offered.
//
// The graph must be acyclic. The mastery engine performs no cycle detection,
// so a cycle would make its objectives permanently unavailable; NewGraph
// rejects cyclic input so that downstream code never has to check.
type Graph struct {
	Nodes []ObjectiveNode `json:"nodes"`
}

// NewGraph builds a validated graph from the given nodes, preserving order.
// It returns a combined error describing all structural problems found:
// duplicate IDs, dangling prerequisite references, and cycles.
func NewGraph(nodes []ObjectiveNode) (*Graph, error) {
	if err := validateNodes(nodes); err != nil {
		return nil, err
	}
	g := &Graph{Nodes: make([]ObjectiveNode, len(nodes))}
	copy(g.Nodes, nodes)
	return g, nil
}

// Chain builds a linear curriculum from ordered objective titles: each
// objective has the previous one as its sole prerequisite. The first node
// starts available, the rest locked. IDs are positional (obj-01, obj-02, ...).
func Chain(titles []string) (*Graph, error) {
	nodes := make([]ObjectiveNode, len(titles))
	for i, title := range titles {
		n := ObjectiveNode{
			ID:     fmt.Sprintf("obj-%02d", i+1),
			Title:  title,
			Type:   TypeConcept,
			Status: StatusLocked,
		}
		if i == 0 {
			n.Status = StatusAvailable
		} else {
			n.Prerequisites = []string{fmt.Sprintf("obj-%02d", i)}
		}
		nodes[i] = n
	}
	return NewGraph(nodes)
}

// Node returns a pointer to the node with the given ID, or nil if absent.
// The pointer aliases the graph's backing slice, so status updates through
// it are visible to later lookups.
func (g *Graph) Node(id string) *ObjectiveNode {
	for i := range g.Nodes {
		if g.Nodes[i].ID == id {
			return &g.Nodes[i]
		}
	}
	return nil
}

// SetStatus updates the status of the node with the given ID.
// Returns an error if the node does not exist.
func (g *Graph) SetStatus(id string, status NodeStatus) error {
	n := g.Node(id)
	if n == nil {
		return fmt.Errorf("objective not found: %q", id)
	}
	n.Status = status
	return nil
}

// Prerequisites returns the direct prerequisite nodes for the given ID.
func (g *Graph) Prerequisites(id string) []ObjectiveNode {
	n := g.Node(id)
	if n == nil {
		return nil
	}
	result := make([]ObjectiveNode, 0, len(n.Prerequisites))
	for _, prereqID := range n.Prerequisites {
		if p := g.Node(prereqID); p != nil {
			result = append(result, *p)
		}
	}
	return result
}

// validateNodes performs all structural checks on the given node set.
// Returns a combined error describing all problems found, or nil if valid.
func validateNodes(nodes []ObjectiveNode) error {
	var errs []string

	idSet := make(map[string]bool, len(nodes))

	// Check for duplicate IDs
	for _, n := range nodes {
		if idSet[n.ID] {
			errs = append(errs, fmt.Sprintf("duplicate objective ID: %q", n.ID))
		}
		idSet[n.ID] = true
	}

	// Check for dangling prerequisites
	for _, n := range nodes {
		for _, prereqID := range n.Prerequisites {
			if !idSet[prereqID] {
				errs = append(errs, fmt.Sprintf("objective %q references nonexistent prerequisite %q", n.ID, prereqID))
			}
		}
	}

	// Check for cycles using Kahn's algorithm
	inDegree := make(map[string]int, len(nodes))
	adjList := make(map[string][]string)
	for _, n := range nodes {
		inDegree[n.ID] = len(n.Prerequisites)
		for _, prereqID := range n.Prerequisites {
			adjList[prereqID] = append(adjList[prereqID], n.ID)
		}
	}

	var queue []string
	for _, n := range nodes {
		if inDegree[n.ID] == 0 {
			queue = append(queue, n.ID)
		}
	}

	visited := 0
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		visited++
		for _, depID := range adjList[id] {
			inDegree[depID]--
			if inDegree[depID] == 0 {
				queue = append(queue, depID)
			}
		}
	}

	if visited < len(nodes) {
		var cycleNodes []string
		for _, n := range nodes {
			if inDegree[n.ID] > 0 {
				cycleNodes = append(cycleNodes, n.ID)
			}
		}
		errs = append(errs, fmt.Sprintf("cycle detected involving objectives: %s", strings.Join(cycleNodes, ", ")))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid plan graph:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}
