package mastery

// State represents an objective's position on the mastery ladder.
// The ladder is monotonic under correct answers; regression happens
// only on incorrect answers.
type State string

const (
	StateNovice    State = "novice"
	StateShaky     State = "shaky"
	StateCompetent State = "competent"
	StateAutomatic State = "automatic"
)

// Confidence is the grader's confidence in its evaluation, carried
// verbatim onto the mastery record.
type Confidence string

const (
	ConfidenceLow  Confidence = "low"
	ConfidenceMed  Confidence = "med"
	ConfidenceHigh Confidence = "high"
)

// FailureMode classifies why an incorrect answer went wrong.
type FailureMode string

const (
	FailureKnowledgeGap    FailureMode = "knowledge_gap"
	FailureReasoningError  FailureMode = "reasoning_error"
	FailureApplicationMiss FailureMode = "application_miss"
	FailureTimePressure    FailureMode = "time_pressure"
)

// Transition records a mastery state change for display and event logging.
type Transition struct {
	ObjectiveID string
	From        State
	To          State
	Trigger     string // "promotion", "regression"
}
