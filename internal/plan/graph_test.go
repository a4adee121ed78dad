package plan

import (
	"strings"
	"testing"
)

func TestNewGraph_Valid(t *testing.T) {
	g, err := NewGraph([]ObjectiveNode{
		{ID: "a", Title: "A", Type: TypeConcept, Status: StatusAvailable},
		{ID: "b", Title: "B", Type: TypeProcedure, Status: StatusLocked, Prerequisites: []string{"a"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(g.Nodes) != 2 {
		t.Fatalf("expected 2 nodes, got %d", len(g.Nodes))
	}
}

func TestNewGraph_DuplicateID(t *testing.T) {
	_, err := NewGraph([]ObjectiveNode{
		{ID: "a", Title: "A", Type: TypeConcept},
		{ID: "a", Title: "A again", Type: TypeConcept},
	})
	if err == nil || !strings.Contains(err.Error(), "duplicate") {
		t.Fatalf("expected duplicate ID error, got %v", err)
	}
}

func TestNewGraph_DanglingPrerequisite(t *testing.T) {
	_, err := NewGraph([]ObjectiveNode{
		{ID: "a", Title: "A", Type: TypeConcept, Prerequisites: []string{"ghost"}},
	})
	if err == nil || !strings.Contains(err.Error(), "nonexistent prerequisite") {
		t.Fatalf("expected dangling prerequisite error, got %v", err)
	}
}

func TestNewGraph_Cycle(t *testing.T) {
	_, err := NewGraph([]ObjectiveNode{
		{ID: "a", Title: "A", Type: TypeConcept, Prerequisites: []string{"b"}},
		{ID: "b", Title: "B", Type: TypeConcept, Prerequisites: []string{"a"}},
	})
	if err == nil || !strings.Contains(err.Error(), "cycle") {
		t.Fatalf("expected cycle error, got %v", err)
	}
}

func TestChain(t *testing.T) {
	g, err := Chain([]string{"Intro", "Middle", "End"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(g.Nodes) != 3 {
		t.Fatalf("expected 3 nodes, got %d", len(g.Nodes))
	}
	if g.Nodes[0].Status != StatusAvailable {
		t.Errorf("first node should be available, got %s", g.Nodes[0].Status)
	}
	for i := 1; i < 3; i++ {
		if g.Nodes[i].Status != StatusLocked {
			t.Errorf("node %d should be locked, got %s", i, g.Nodes[i].Status)
		}
		if len(g.Nodes[i].Prerequisites) != 1 || g.Nodes[i].Prerequisites[0] != g.Nodes[i-1].ID {
			t.Errorf("node %d should depend on node %d, got %v", i, i-1, g.Nodes[i].Prerequisites)
		}
	}
}

func TestGraph_SetStatus(t *testing.T) {
	g, err := Chain([]string{"Only"})
	if err != nil {
		t.Fatal(err)
	}

	if err := g.SetStatus("obj-01", StatusCompleted); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := g.Node("obj-01").Status; got != StatusCompleted {
		t.Fatalf("expected completed, got %s", got)
	}

	if err := g.SetStatus("missing", StatusCompleted); err == nil {
		t.Fatal("expected error for unknown objective")
	}
}

func TestGraph_Prerequisites(t *testing.T) {
	g, err := Chain([]string{"One", "Two"})
	if err != nil {
		t.Fatal(err)
	}

	prereqs := g.Prerequisites("obj-02")
	if len(prereqs) != 1 || prereqs[0].ID != "obj-01" {
		t.Fatalf("expected [obj-01], got %v", prereqs)
	}
	if got := g.Prerequisites("obj-01"); len(got) != 0 {
		t.Fatalf("expected no prerequisites, got %v", got)
	}
}
