package content

// Stage is the pedagogical stage an activity is delivered at.
type Stage string

const (
	StagePrime    Stage = "prime"
	StageTeach    Stage = "teach"
	StagePractice Stage = "practice"
	StageAssess   Stage = "assess"
)

// Variant describes how far a practice item is from the canonical example.
type Variant string

const (
	VariantNear Variant = "near"
	VariantFar  Variant = "far"
)

// Activity is a single practice attempt in flight. Activities are transient:
// they are never persisted standalone, only inside a session record.
type Activity struct {
	ObjectiveID  string  `json:"objective_id"`
	Stage        Stage   `json:"stage"`
	Block        Block   `json:"block"`
	HintsUsed    int     `json:"hints_used"`
	AttemptCount int     `json:"attempt_count"`
	Variant      Variant `json:"variant_type,omitempty"`
}
