package mastery

import (
	"time"

	"github.com/abhisek/pathwise/internal/content"
	"github.com/abhisek/pathwise/internal/plan"
)

// Priority scores for next-objective selection. Unseen objectives come
// first, then the least-mastered.
const (
	priorityUnseen    = 100
	priorityNovice    = 90
	priorityShaky     = 80
	priorityCompetent = 20
	priorityAutomatic = 10
)

// Streak thresholds for promotion on a correct answer. Promotion from
// competent to automatic additionally requires high grader confidence.
const (
	streakForShaky     = 1
	streakForCompetent = 2
	streakForAutomatic = 3
)

// remediationWindow is how many recent failures the branch detector
// inspects.
const remediationWindow = 3

// IsMastered reports whether a node counts as mastered for prerequisite
// gating: either the node itself is completed or skipped, or the learner's
// mastery state for it is competent or automatic.
func IsMastered(node *plan.ObjectiveNode, m *LearnerModel) bool {
	if node == nil {
		return false
	}
	if node.Status == plan.StatusCompleted || node.Status == plan.StatusSkipped {
		return true
	}
	if om, ok := m.Lookup(node.ID); ok {
		return om.State == StateCompetent || om.State == StateAutomatic
	}
	return false
}

// AvailableObjectives returns the nodes a learner may practice now: nodes
// that are neither completed nor skipped and whose prerequisites are all
// mastered. Nodes with unmastered prerequisites are simply excluded. No
// cycle detection happens here; the graph constructor guarantees acyclicity.
func AvailableObjectives(g *plan.Graph, m *LearnerModel) []plan.ObjectiveNode {
	var result []plan.ObjectiveNode
	for i := range g.Nodes {
		n := &g.Nodes[i]
		if n.Status == plan.StatusCompleted || n.Status == plan.StatusSkipped {
			continue
		}
		unlocked := true
		for _, prereqID := range n.Prerequisites {
			if !IsMastered(g.Node(prereqID), m) {
				unlocked = false
				break
			}
		}
		if unlocked {
			result = append(result, *n)
		}
	}
	return result
}

// NextObjective picks the available objective with the highest priority
// score. Ties are broken by graph node order, so callers wanting a specific
// tie-break should order the graph accordingly. Returns false if nothing
// is available.
func NextObjective(g *plan.Graph, m *LearnerModel) (plan.ObjectiveNode, bool) {
	available := AvailableObjectives(g, m)
	if len(available) == 0 {
		return plan.ObjectiveNode{}, false
	}

	best := available[0]
	bestScore := priorityFor(m, best.ID)
	for _, n := range available[1:] {
		if score := priorityFor(m, n.ID); score > bestScore {
			best = n
			bestScore = score
		}
	}
	return best, true
}

// priorityFor scores an objective for selection.
func priorityFor(m *LearnerModel, objectiveID string) int {
	om, ok := m.Lookup(objectiveID)
	if !ok {
		return priorityUnseen
	}
	switch om.State {
	case StateNovice:
		return priorityNovice
	case StateShaky:
		return priorityShaky
	case StateCompetent:
		return priorityCompetent
	case StateAutomatic:
		return priorityAutomatic
	}
	return priorityUnseen
}

// StageFor determines the pedagogical stage for a chosen objective:
// prime for a first encounter, teach while novice, practice while shaky,
// assess once competent or automatic.
func StageFor(m *LearnerModel, objectiveID string) content.Stage {
	om, ok := m.Lookup(objectiveID)
	if !ok || om.PracticeCount == 0 {
		return content.StagePrime
	}
	switch om.State {
	case StateNovice:
		return content.StageTeach
	case StateShaky:
		return content.StagePractice
	}
	return content.StageAssess
}

// UpdateMastery applies an evaluated attempt to the learner model and
// returns a Transition if the objective's mastery state changed.
//
// Every attempt, correct or not, increments the practice count and stamps
// the last-practiced time and grader confidence. A correct answer extends
// the streak and may promote; an incorrect answer resets the streak,
// demotes automatic and competent one rung (novice and shaky are the
// floor), and records any failure mode on both the mastery record and the
// model's failure-pattern history. The streak map mirrors the record's new
// streak either way.
//
// Promotion to automatic is gated on streak and high confidence only; the
// activity's near/far variant is deliberately not consulted. See
// TestUpdateMastery_FarVariantNotRequired, which pins that behavior.
func UpdateMastery(m *LearnerModel, act content.Activity, eval ResponseEvaluation, now time.Time) *Transition {
	om := m.Mastery(act.ObjectiveID)

	om.PracticeCount++
	om.LastPracticed = now
	om.Confidence = eval.Confidence

	from := om.State

	if eval.IsCorrect {
		om.CorrectStreak++
		switch {
		case om.State == StateNovice && om.CorrectStreak >= streakForShaky:
			om.State = StateShaky
		case om.State == StateShaky && om.CorrectStreak >= streakForCompetent:
			om.State = StateCompetent
		case om.State == StateCompetent && om.CorrectStreak >= streakForAutomatic && eval.Confidence == ConfidenceHigh:
			om.State = StateAutomatic
		}
	} else {
		om.CorrectStreak = 0
		switch om.State {
		case StateAutomatic:
			om.State = StateCompetent
		case StateCompetent:
			om.State = StateShaky
		}
		if eval.FailureMode != "" {
			om.FailureModes = append(om.FailureModes, eval.FailureMode)
			if m.FailurePatterns == nil {
				m.FailurePatterns = make(map[string][]FailureMode)
			}
			m.FailurePatterns[act.ObjectiveID] = append(m.FailurePatterns[act.ObjectiveID], eval.FailureMode)
		}
	}

	if m.Streaks == nil {
		m.Streaks = make(map[string]int)
	}
	m.Streaks[act.ObjectiveID] = om.CorrectStreak

	if om.State == from {
		return nil
	}
	trigger := "promotion"
	if !eval.IsCorrect {
		trigger = "regression"
	}
	return &Transition{
		ObjectiveID: act.ObjectiveID,
		From:        from,
		To:          om.State,
		Trigger:     trigger,
	}
}

// ShouldBranchForRemediation inspects the most recent failures for an
// objective and reports whether the learner should detour into a targeted
// remediation activity. With fewer than two recorded failures there is no
// signal. Otherwise, a failure mode appearing at least twice among the last
// three failures is returned as the remediation target.
func ShouldBranchForRemediation(m *LearnerModel, objectiveID string) (FailureMode, bool) {
	history := m.FailurePatterns[objectiveID]
	if len(history) < 2 {
		return "", false
	}

	recent := history
	if len(recent) > remediationWindow {
		recent = recent[len(recent)-remediationWindow:]
	}

	counts := make(map[FailureMode]int, len(recent))
	for _, fm := range recent {
		counts[fm]++
		if counts[fm] >= 2 {
			return fm, true
		}
	}
	return "", false
}
