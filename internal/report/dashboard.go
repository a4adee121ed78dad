package report

import (
	"time"

	"github.com/abhisek/pathwise/internal/mastery"
	"github.com/abhisek/pathwise/internal/plan"
)

// maxWeakAreas bounds the weak-areas list so dashboards stay readable.
const maxWeakAreas = 5

// Review intervals by mastery state. Shaky objectives come back quickly;
// competent ones on an expanding schedule.
const (
	shakyReviewInterval     = 24 * time.Hour
	competentReviewInterval = 3 * 24 * time.Hour
)

// Dashboard is the read-only aggregate view for a learner over one plan.
type Dashboard struct {
	TotalObjectives int
	Mastered        int
	InProgress      int
	BestStreak      int
	WeakAreas       []WeakArea
	ReviewQueue     []ReviewItem
}

// WeakArea flags an objective the learner is struggling with: stuck at
// novice after practice, or carrying more than two recorded failures.
type WeakArea struct {
	ObjectiveID string
	Title       string
	State       mastery.State
	Failures    int
}

// ReviewItem is an objective due for spaced reinforcement.
type ReviewItem struct {
	ObjectiveID string
	Title       string
	State       mastery.State
	DueAt       time.Time
}

// Build computes the dashboard for a learner over a plan graph.
// The review queue holds objectives at shaky or competent, with a due
// time derived from the last practice; entries already due sort first
// by virtue of the graph's node order being preserved.
func Build(g *plan.Graph, m *mastery.LearnerModel) Dashboard {
	d := Dashboard{TotalObjectives: len(g.Nodes)}

	for i := range g.Nodes {
		n := &g.Nodes[i]

		if mastery.IsMastered(n, m) {
			d.Mastered++
		}

		om, ok := m.Lookup(n.ID)
		if !ok {
			continue
		}

		if om.PracticeCount > 0 && !mastery.IsMastered(n, m) {
			d.InProgress++
		}
		if om.CorrectStreak > d.BestStreak {
			d.BestStreak = om.CorrectStreak
		}

		stuck := om.State == mastery.StateNovice && om.PracticeCount > 0
		if (stuck || len(om.FailureModes) > 2) && len(d.WeakAreas) < maxWeakAreas {
			d.WeakAreas = append(d.WeakAreas, WeakArea{
				ObjectiveID: n.ID,
				Title:       n.Title,
				State:       om.State,
				Failures:    len(om.FailureModes),
			})
		}

		switch om.State {
		case mastery.StateShaky:
			d.ReviewQueue = append(d.ReviewQueue, ReviewItem{
				ObjectiveID: n.ID,
				Title:       n.Title,
				State:       om.State,
				DueAt:       om.LastPracticed.Add(shakyReviewInterval),
			})
		case mastery.StateCompetent:
			d.ReviewQueue = append(d.ReviewQueue, ReviewItem{
				ObjectiveID: n.ID,
				Title:       n.Title,
				State:       om.State,
				DueAt:       om.LastPracticed.Add(competentReviewInterval),
			})
		}
	}

	return d
}
