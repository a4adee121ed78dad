package content

// BlockKind discriminates the closed set of renderable block variants.
type BlockKind string

const (
	KindMCQ               BlockKind = "mcq"
	KindDiscriminatorCard BlockKind = "discriminator_card"
	KindMechanismGraph    BlockKind = "mechanism_graph"
	KindFreeResponse      BlockKind = "free_response"
)

// Block is a tagged union over the block kinds. Exactly one of the variant
// fields matching Kind is populated. The mastery engine never inspects the
// variant payloads; it carries blocks opaquely between the content generator
// and the grader.
type Block struct {
	Kind BlockKind          `json:"kind"`
	MCQ  *MCQBlock          `json:"mcq,omitempty"`
	Card *DiscriminatorCard `json:"card,omitempty"`
	Mech *MechanismGraph    `json:"mech,omitempty"`
	Free *FreeResponse      `json:"free,omitempty"`
}

// MCQBlock is a multiple-choice question.
type MCQBlock struct {
	Question  string   `json:"question"`
	Options   []string `json:"options"`
	Answer    int      `json:"answer"`
	Rationale string   `json:"rationale,omitempty"`
}

// DiscriminatorCard asks the learner to tell two easily-confused
// items apart.
type DiscriminatorCard struct {
	Prompt string   `json:"prompt"`
	Left   string   `json:"left"`
	Right  string   `json:"right"`
	Cues   []string `json:"cues,omitempty"`
}

// MechanismGraph presents a causal chain the learner must complete
// or order.
type MechanismGraph struct {
	Prompt string   `json:"prompt"`
	Steps  []string `json:"steps"`
	Edges  []Edge   `json:"edges,omitempty"`
}

// Edge is a directed link between two mechanism steps.
type Edge struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// FreeResponse is an open-ended prompt graded externally.
type FreeResponse struct {
	Prompt string `json:"prompt"`
}
