package tutor

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/abhisek/pathwise/internal/content"
	"github.com/abhisek/pathwise/internal/mastery"
	"github.com/abhisek/pathwise/internal/plan"
	"github.com/abhisek/pathwise/internal/report"
	"github.com/abhisek/pathwise/internal/session"
	"github.com/abhisek/pathwise/internal/store"
)

// Generator renders a content block for an objective at a pedagogical
// stage. When remediate is non-empty the block should target that failure
// mode instead of advancing the curriculum. Implemented externally (an
// LLM-backed renderer in production, a fake in tests); this package only
// carries the block opaquely.
type Generator interface {
	Generate(ctx context.Context, node plan.ObjectiveNode, stage content.Stage, remediate mastery.FailureMode) (content.Block, error)
}

// Grader evaluates a learner's raw answer against the rendered block.
// Implemented externally, like Generator.
type Grader interface {
	Grade(ctx context.Context, block content.Block, answer string) (mastery.ResponseEvaluation, error)
}

// Service orchestrates session flows: it wires the stores, the mastery
// engine, and the external generator/grader together. Stores are explicit
// dependencies so tests can point the service at a temp directory.
type Service struct {
	store  *store.Store
	gen    Generator
	grader Grader
	log    *slog.Logger
	now    func() time.Time
}

// NewService creates a Service. A nil logger falls back to slog.Default.
func NewService(st *store.Store, gen Generator, grader Grader, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		store:  st,
		gen:    gen,
		grader: grader,
		log:    log,
		now:    time.Now,
	}
}

// SubmitResult is what a single answer submission produced.
type SubmitResult struct {
	Evaluation      mastery.ResponseEvaluation
	Transition      *mastery.Transition
	Remediation     mastery.FailureMode
	SessionComplete bool
}

// CreateSession builds a session in the planning phase from a topic and
// ordered objective titles. The titles become a linear prerequisite chain:
// the first objective starts available, the rest locked.
func (s *Service) CreateSession(userID, topic string, objectiveTitles []string) (*session.Session, error) {
	g, err := plan.Chain(objectiveTitles)
	if err != nil {
		return nil, fmt.Errorf("build plan graph: %w", err)
	}
	return s.createWithGraph(userID, topic, g)
}

// CreateSessionFromGraph builds a session in the planning phase around an
// already-validated plan graph (for example one imported from a curriculum
// file).
func (s *Service) CreateSessionFromGraph(userID, topic string, g *plan.Graph) (*session.Session, error) {
	return s.createWithGraph(userID, topic, g)
}

func (s *Service) createWithGraph(userID, topic string, g *plan.Graph) (*session.Session, error) {
	sess := session.New(userID, topic, g)
	if err := s.store.Sessions.Save(sess); err != nil {
		return nil, err
	}
	if err := s.appendEvent(sess.ID, store.EventSessionCreated, map[string]any{
		"user_id":    userID,
		"topic":      topic,
		"objectives": len(g.Nodes),
	}); err != nil {
		return nil, err
	}
	s.log.Info("session created", "session_id", sess.ID, "user_id", userID, "topic", topic)
	return sess, nil
}

// StartSession transitions a session from planning to active.
func (s *Service) StartSession(sessionID string) (*session.Session, error) {
	sess, err := s.loadSession(sessionID)
	if err != nil {
		return nil, err
	}
	if err := sess.Start(s.now().UTC()); err != nil {
		return nil, err
	}
	if err := s.store.Sessions.Save(sess); err != nil {
		return nil, err
	}
	if err := s.appendEvent(sessionID, store.EventSessionStarted, nil); err != nil {
		return nil, err
	}
	return sess, nil
}

// NextActivity returns the activity the learner should work on now. If an
// activity is already in flight it is returned unchanged. Otherwise the
// engine picks the next objective and stage, a remediation detour is
// detected if the recent failure pattern calls for one, and the content
// block is replayed from the artifact store when possible instead of being
// regenerated. Returns (nil, nil) when no objective remains available.
func (s *Service) NextActivity(ctx context.Context, sessionID string) (*content.Activity, error) {
	sess, err := s.loadSession(sessionID)
	if err != nil {
		return nil, err
	}
	if sess.Status != session.StatusActive {
		return nil, fmt.Errorf("session %s is not active", sessionID)
	}
	if sess.CurrentActivity != nil {
		return sess.CurrentActivity, nil
	}

	model, err := s.store.Learners.LoadOrCreate(sess.UserID)
	if err != nil {
		return nil, err
	}

	node, ok := mastery.NextObjective(sess.Graph, model)
	if !ok {
		return nil, nil
	}
	stage := mastery.StageFor(model, node.ID)
	remediate, _ := mastery.ShouldBranchForRemediation(model, node.ID)

	block, err := s.blockFor(ctx, sess.ID, node, stage, remediate)
	if err != nil {
		return nil, err
	}

	act := &content.Activity{
		ObjectiveID: node.ID,
		Stage:       stage,
		Block:       block,
	}
	sess.CurrentObjectiveID = node.ID
	sess.CurrentActivity = act
	if n := sess.Graph.Node(node.ID); n != nil && n.Status == plan.StatusAvailable {
		n.Status = plan.StatusInProgress
	}
	if err := s.store.Sessions.Save(sess); err != nil {
		return nil, err
	}
	if err := s.appendEvent(sess.ID, store.EventActivityServed, map[string]any{
		"objective_id": node.ID,
		"stage":        stage,
		"remediation":  remediate,
	}); err != nil {
		return nil, err
	}
	return act, nil
}

// blockFor replays a stored artifact when one matches the requested stage,
// and otherwise asks the generator and persists the result for replay.
// Remediation detours always regenerate: the stored block targets the
// curriculum, not the failure mode.
func (s *Service) blockFor(ctx context.Context, sessionID string, node plan.ObjectiveNode, stage content.Stage, remediate mastery.FailureMode) (content.Block, error) {
	if remediate == "" {
		if a, err := s.store.Artifacts.Load(sessionID, node.ID); err == nil && a != nil && a.Stage == stage {
			return a.Block, nil
		}
	}

	block, err := s.gen.Generate(ctx, node, stage, remediate)
	if err != nil {
		return content.Block{}, fmt.Errorf("generate content for %s: %w", node.ID, err)
	}

	if remediate == "" {
		artifact := &store.Artifact{
			SessionID:   sessionID,
			ObjectiveID: node.ID,
			Stage:       stage,
			Block:       block,
		}
		if err := s.store.Artifacts.Save(artifact); err != nil {
			s.log.Warn("artifact save failed", "session_id", sessionID, "objective_id", node.ID, "err", err)
		}
	}
	return block, nil
}

// SubmitAnswer grades the learner's answer to the in-flight activity,
// applies the mastery update, persists the model and the session, and
// appends the events. When the answered objective reaches automatic and
// nothing else remains available, the session completes.
func (s *Service) SubmitAnswer(ctx context.Context, sessionID, answer string) (*SubmitResult, error) {
	sess, err := s.loadSession(sessionID)
	if err != nil {
		return nil, err
	}
	if sess.Status != session.StatusActive {
		return nil, fmt.Errorf("session %s is not active", sessionID)
	}
	act := sess.CurrentActivity
	if act == nil {
		return nil, fmt.Errorf("session %s has no activity in flight", sessionID)
	}

	eval, err := s.grader.Grade(ctx, act.Block, answer)
	if err != nil {
		return nil, fmt.Errorf("grade answer: %w", err)
	}

	model, err := s.store.Learners.LoadOrCreate(sess.UserID)
	if err != nil {
		return nil, err
	}

	act.AttemptCount++
	transition := mastery.UpdateMastery(model, *act, eval, s.now().UTC())
	if err := s.store.Learners.Save(model); err != nil {
		return nil, err
	}

	result := &SubmitResult{Evaluation: eval, Transition: transition}

	if err := s.appendEvent(sessionID, store.EventAnswerSubmitted, map[string]any{
		"objective_id": act.ObjectiveID,
		"stage":        act.Stage,
		"is_correct":   eval.IsCorrect,
		"confidence":   eval.Confidence,
		"failure_mode": eval.FailureMode,
	}); err != nil {
		return nil, err
	}
	if transition != nil {
		if err := s.appendEvent(sessionID, store.EventMasteryUpdated, map[string]any{
			"objective_id": transition.ObjectiveID,
			"from":         transition.From,
			"to":           transition.To,
			"trigger":      transition.Trigger,
		}); err != nil {
			return nil, err
		}
	}

	if !eval.IsCorrect {
		if fm, branch := mastery.ShouldBranchForRemediation(model, act.ObjectiveID); branch {
			result.Remediation = fm
			if err := s.appendEvent(sessionID, store.EventRemediation, map[string]any{
				"objective_id": act.ObjectiveID,
				"failure_mode": fm,
			}); err != nil {
				return nil, err
			}
		}
	}

	om, _ := model.Lookup(act.ObjectiveID)
	if om != nil && om.State == mastery.StateAutomatic {
		sess.Graph.SetStatus(act.ObjectiveID, plan.StatusCompleted)
	}

	sess.CurrentActivity = nil
	sess.CurrentObjectiveID = ""

	if om != nil && om.State == mastery.StateAutomatic {
		if len(mastery.AvailableObjectives(sess.Graph, model)) == 0 {
			if err := sess.Complete(s.now().UTC()); err == nil {
				result.SessionComplete = true
				if err := s.appendEvent(sessionID, store.EventSessionCompleted, nil); err != nil {
					return nil, err
				}
				s.log.Info("session completed", "session_id", sessionID)
			}
		}
	}

	if err := s.store.Sessions.Save(sess); err != nil {
		return nil, err
	}
	return result, nil
}

// PauseSession suspends an active session.
func (s *Service) PauseSession(sessionID string) error {
	return s.transition(sessionID, store.EventSessionPaused, (*session.Session).Pause)
}

// ResumeSession reactivates a paused session.
func (s *Service) ResumeSession(sessionID string) error {
	return s.transition(sessionID, store.EventSessionResumed, (*session.Session).Resume)
}

// AbandonSession abandons a session from any non-terminal status.
func (s *Service) AbandonSession(sessionID string) error {
	return s.transition(sessionID, store.EventSessionAbandoned, (*session.Session).Abandon)
}

func (s *Service) transition(sessionID, eventType string, apply func(*session.Session) error) error {
	sess, err := s.loadSession(sessionID)
	if err != nil {
		return err
	}
	if err := apply(sess); err != nil {
		return err
	}
	if err := s.store.Sessions.Save(sess); err != nil {
		return err
	}
	return s.appendEvent(sessionID, eventType, nil)
}

// Dashboard computes the read-only aggregate view for a session's learner
// over its plan graph.
func (s *Service) Dashboard(sessionID string) (report.Dashboard, error) {
	sess, err := s.loadSession(sessionID)
	if err != nil {
		return report.Dashboard{}, err
	}
	model, err := s.store.Learners.LoadOrCreate(sess.UserID)
	if err != nil {
		return report.Dashboard{}, err
	}
	return report.Build(sess.Graph, model), nil
}

// ExportEvents returns the session's event history, optionally filtered to
// events at or after since.
func (s *Service) ExportEvents(sessionID string, since *time.Time) ([]store.Event, error) {
	if since != nil {
		return s.store.Ledger.EventsSince(sessionID, *since)
	}
	return s.store.Ledger.ReadEvents(sessionID)
}

func (s *Service) loadSession(sessionID string) (*session.Session, error) {
	sess, err := s.store.Sessions.Load(sessionID)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, fmt.Errorf("session not found: %s", sessionID)
	}
	return sess, nil
}

func (s *Service) appendEvent(sessionID, eventType string, payload any) error {
	if err := s.store.Ledger.Append(sessionID, eventType, payload); err != nil {
		s.log.Error("ledger append failed", "session_id", sessionID, "event_type", eventType, "err", err)
		return err
	}
	return nil
}
