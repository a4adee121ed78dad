package plan

// NodeType classifies what kind of knowledge an objective represents.
type NodeType string

const (
	TypeConcept   NodeType = "concept"
	TypeProcedure NodeType = "procedure"
	TypeFact      NodeType = "fact"
	TypePrinciple NodeType = "principle"
)

// NodeStatus represents an objective's position in the session lifecycle.
type NodeStatus string

const (
	StatusLocked     NodeStatus = "locked"
	StatusAvailable  NodeStatus = "available"
	StatusInProgress NodeStatus = "in_progress"
	StatusCompleted  NodeStatus = "completed"
	StatusSkipped    NodeStatus = "skipped"
)

// ObjectiveNode is a single learnable unit in a curriculum.
// Prerequisites lists the IDs of objectives that must be mastered before
// this one is offered.
type ObjectiveNode struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Description   string     `json:"description,omitempty"`
	Type          NodeType   `json:"type"`
	Status        NodeStatus `json:"status"`
	Statement     string     `json:"statement,omitempty"`
	Citations     []string   `json:"citations,omitempty"`
	Prerequisites []string   `json:"prerequisites,omitempty"`
}
