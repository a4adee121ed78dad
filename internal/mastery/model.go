package mastery

import "time"

// ObjectiveMastery tracks one learner's competence on one objective.
type ObjectiveMastery struct {
	State         State         `json:"mastery_state"`
	Confidence    Confidence    `json:"confidence"`
	LastPracticed time.Time     `json:"last_practiced"`
	PracticeCount int           `json:"practice_count"`
	CorrectStreak int           `json:"correct_streak"`
	FailureModes  []FailureMode `json:"failure_modes,omitempty"`
}

// newObjectiveMastery returns the default record created the first time
// an objective is referenced.
func newObjectiveMastery() *ObjectiveMastery {
	return &ObjectiveMastery{
		State:      StateNovice,
		Confidence: ConfidenceLow,
	}
}

// LearnerModel is the full per-learner state: one mastery record per
// objective, a denormalized streak map for fast dashboard reads, and the
// append-only failure-pattern history that drives remediation.
type LearnerModel struct {
	UserID          string                       `json:"user_id"`
	Objectives      map[string]*ObjectiveMastery `json:"objectives"`
	Streaks         map[string]int               `json:"streaks"`
	FailurePatterns map[string][]FailureMode     `json:"failure_patterns"`
	UpdatedAt       time.Time                    `json:"updated_at"`
}

// NewLearnerModel creates an empty model for the given user.
func NewLearnerModel(userID string) *LearnerModel {
	return &LearnerModel{
		UserID:          userID,
		Objectives:      make(map[string]*ObjectiveMastery),
		Streaks:         make(map[string]int),
		FailurePatterns: make(map[string][]FailureMode),
	}
}

// Mastery returns the mastery record for an objective, creating a default
// (novice/low) record if the objective hasn't been encountered.
func (m *LearnerModel) Mastery(objectiveID string) *ObjectiveMastery {
	if m.Objectives == nil {
		m.Objectives = make(map[string]*ObjectiveMastery)
	}
	if om, ok := m.Objectives[objectiveID]; ok {
		return om
	}
	om := newObjectiveMastery()
	m.Objectives[objectiveID] = om
	return om
}

// Lookup returns the mastery record for an objective without creating one.
func (m *LearnerModel) Lookup(objectiveID string) (*ObjectiveMastery, bool) {
	om, ok := m.Objectives[objectiveID]
	return om, ok
}

// ResponseEvaluation is the grader's verdict on a learner's answer.
// Produced externally; consumed by the engine.
type ResponseEvaluation struct {
	IsCorrect   bool        `json:"is_correct"`
	Confidence  Confidence  `json:"confidence"`
	FailureMode FailureMode `json:"failure_mode,omitempty"`
	Explanation string      `json:"explanation,omitempty"`
	Citations   []string    `json:"citations,omitempty"`
}
