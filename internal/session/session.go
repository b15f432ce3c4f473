// Package session holds the guided-workflow session model and its
// persistence backends.
package session

import (
	"time"

	"github.com/google/uuid"
)

// Stage is one step of the guided problem-solving workflow. Stages only
// advance; going back means Reset.
type Stage string

const (
	StageProblemDefinition     Stage = "problem_definition"
	StageContradictionAnalysis Stage = "contradiction_analysis"
	StagePrincipleSelection    Stage = "principle_selection"
	StageSolutionGeneration    Stage = "solution_generation"
	StageEvaluation            Stage = "evaluation"
	StageCompleted             Stage = "completed"
)

var stageOrder = []Stage{
	StageProblemDefinition,
	StageContradictionAnalysis,
	StagePrincipleSelection,
	StageSolutionGeneration,
	StageEvaluation,
	StageCompleted,
}

// Next returns the following stage. The second return is false at
// StageCompleted and for unknown stages.
func (s Stage) Next() (Stage, bool) {
	for i, st := range stageOrder {
		if st == s && i+1 < len(stageOrder) {
			return stageOrder[i+1], true
		}
	}
	return s, false
}

// Valid reports whether s is one of the known stages.
func (s Stage) Valid() bool {
	for _, st := range stageOrder {
		if st == s {
			return true
		}
	}
	return false
}

// Ordinal returns the 1-based position of the stage, or 0 if unknown.
func (s Stage) Ordinal() int {
	for i, st := range stageOrder {
		if st == s {
			return i + 1
		}
	}
	return 0
}

func (s Stage) String() string { return string(s) }

// Stages returns the workflow stages in order.
func Stages() []Stage {
	out := make([]Stage, len(stageOrder))
	copy(out, stageOrder)
	return out
}

// Contradiction is one technical contradiction extracted from the
// problem statement, with the matrix recommendation attached when the
// pair is mapped.
type Contradiction struct {
	Improving     int     `json:"improving"`
	Worsening     int     `json:"worsening"`
	ImprovingName string  `json:"improving_name,omitempty"`
	WorseningName string  `json:"worsening_name,omitempty"`
	Description   string  `json:"description,omitempty"`
	Principles    []int   `json:"principles,omitempty"`
	Confidence    float64 `json:"confidence,omitempty"`
}

// Concept is one generated solution concept. Never mutated after
// creation; regeneration replaces the whole slice.
type Concept struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Principles  []int    `json:"principles"`
	Pros        []string `json:"pros,omitempty"`
	Cons        []string `json:"cons,omitempty"`
	Feasibility float64  `json:"feasibility"` // [0,1]
	Innovation  int      `json:"innovation"`  // 1..5
}

// Session is the full state of one workflow run. All mutation goes
// through the workflow engine; stores treat it as an opaque record.
type Session struct {
	ID             string          `json:"id"`
	Problem        string          `json:"problem"`
	Stage          Stage           `json:"stage"`
	IdealResult    string          `json:"ideal_result,omitempty"`
	Contradictions []Contradiction `json:"contradictions,omitempty"`
	Principles     []int           `json:"principles,omitempty"`
	Concepts       []Concept       `json:"concepts,omitempty"`
	Evaluation     string          `json:"evaluation,omitempty"`
	History        []string        `json:"history,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// New creates a fresh session at the first stage.
func New(problem string) *Session {
	now := time.Now().UTC()
	return &Session{
		ID:        uuid.NewString(),
		Problem:   problem,
		Stage:     StageProblemDefinition,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Touch bumps UpdatedAt.
func (s *Session) Touch() { s.UpdatedAt = time.Now().UTC() }

// Completed reports whether the session reached the terminal stage.
func (s *Session) Completed() bool { return s.Stage == StageCompleted }
