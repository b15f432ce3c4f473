package workflow

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"triz/internal/catalog"
	"triz/internal/matrix"
	"triz/internal/session"
	"triz/internal/synth"
	"triz/internal/triz"
)

func newEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	c, err := catalog.Load()
	if err != nil {
		t.Fatalf("catalog.Load: %v", err)
	}
	m := matrix.New(c)
	if err := m.LoadDefaults(); err != nil {
		t.Fatalf("LoadDefaults: %v", err)
	}
	store, err := session.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return New(store, c, m, synth.New(c), opts...)
}

const weightProblem = "Make the drone frame lighter without losing strength"

func TestStart(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()

	res, err := e.Start(ctx)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	sess := res.Session
	if sess.Stage != session.StageProblemDefinition {
		t.Errorf("stage = %s", sess.Stage)
	}
	if sess.Problem != "" || sess.IdealResult != "" {
		t.Errorf("fresh session carries content: %q / %q", sess.Problem, sess.IdealResult)
	}
	if res.Guidance == "" || res.Done {
		t.Errorf("guidance = %q, done = %v", res.Guidance, res.Done)
	}

	// The session is persisted immediately.
	if _, err := e.Status(ctx, sess.ID); err != nil {
		t.Fatalf("Status: %v", err)
	}
}

func TestContinue_StoresProblemVerbatim(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()

	res, err := e.Start(ctx)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	id := res.Session.ID

	res, err = e.Continue(ctx, id, weightProblem)
	if err != nil {
		t.Fatalf("Continue: %v", err)
	}
	sess := res.Session
	if sess.Stage != session.StageContradictionAnalysis {
		t.Errorf("stage = %s", sess.Stage)
	}
	if sess.Problem != weightProblem {
		t.Errorf("problem = %q, want it stored verbatim", sess.Problem)
	}
	if sess.IdealResult == "" {
		t.Error("no ideal final result derived")
	}
}

func TestContinue_InsufficientInput(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()

	res, err := e.Start(ctx)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	id := res.Session.ID

	if _, err := e.Continue(ctx, id, "   "); !errors.Is(err, triz.ErrInsufficientInput) {
		t.Errorf("empty input = %v, want ErrInsufficientInput", err)
	}
	if _, err := e.Continue(ctx, id, "too short"); !errors.Is(err, triz.ErrInsufficientInput) {
		t.Errorf("short problem = %v, want ErrInsufficientInput", err)
	}
	// The failed steps left the session where it was.
	st, err := e.Status(ctx, id)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if st.Session.Stage != session.StageProblemDefinition || st.Session.Problem != "" {
		t.Errorf("stage = %s, problem = %q", st.Session.Stage, st.Session.Problem)
	}
}

func TestContinue_FullRun(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()

	res, err := e.Start(ctx)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	id := res.Session.ID

	if _, err := e.Continue(ctx, id, weightProblem); err != nil {
		t.Fatalf("Continue to analysis: %v", err)
	}

	// Contradiction analysis: the trade-off maps to (1,14).
	res, err = e.Continue(ctx, id, "weight versus strength")
	if err != nil {
		t.Fatalf("Continue to selection: %v", err)
	}
	sess := res.Session
	if sess.Stage != session.StagePrincipleSelection {
		t.Fatalf("stage = %s", sess.Stage)
	}
	if len(sess.Contradictions) == 0 {
		t.Fatal("no contradictions found")
	}
	c := sess.Contradictions[0]
	if c.Improving != 1 || c.Worsening != 14 {
		t.Errorf("pair = (%d,%d), want (1,14)", c.Improving, c.Worsening)
	}
	if c.ImprovingName != "Weight of moving object" || c.WorseningName != "Strength" {
		t.Errorf("names = %q / %q", c.ImprovingName, c.WorseningName)
	}
	if len(c.Principles) == 0 || c.Principles[0] != 1 {
		t.Errorf("matrix principles = %v", c.Principles)
	}
	if len(res.Candidates) == 0 || res.Candidates[0] != 1 {
		t.Errorf("candidate pool = %v", res.Candidates)
	}

	// Principle selection: accept the recommendation, concepts appear.
	res, err = e.Continue(ctx, id, "go with the recommended candidates")
	if err != nil {
		t.Fatalf("Continue to generation: %v", err)
	}
	sess = res.Session
	if sess.Stage != session.StageSolutionGeneration {
		t.Fatalf("stage = %s", sess.Stage)
	}
	if len(sess.Principles) == 0 {
		t.Fatal("no principles selected")
	}
	if len(sess.Concepts) < 3 {
		t.Fatalf("concepts = %d, want >= 3", len(sess.Concepts))
	}

	// Solution generation: confirm the concepts.
	res, err = e.Continue(ctx, id, "segmented lattice frame looks most promising")
	if err != nil {
		t.Fatalf("Continue to evaluation: %v", err)
	}
	if res.Session.Stage != session.StageEvaluation {
		t.Fatalf("stage = %s", res.Session.Stage)
	}

	// Evaluation notes close the session.
	res, err = e.Continue(ctx, id, "prefer concepts we can prototype this quarter")
	if err != nil {
		t.Fatalf("Continue to completion: %v", err)
	}
	sess = res.Session
	if !res.Done || sess.Stage != session.StageCompleted {
		t.Fatalf("done = %v, stage = %s", res.Done, sess.Stage)
	}
	if !strings.Contains(sess.Evaluation, "Recommended concept") {
		t.Errorf("evaluation = %q", sess.Evaluation)
	}
	if !strings.Contains(sess.Evaluation, "prototype this quarter") {
		t.Errorf("user notes dropped: %q", sess.Evaluation)
	}

	if _, err := e.Continue(ctx, id, "anything"); !errors.Is(err, triz.ErrSessionCompleted) {
		t.Errorf("Continue after completion = %v, want ErrSessionCompleted", err)
	}
}

func TestContinue_ExplicitPairAndPrinciples(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()

	res, err := e.Start(ctx)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	id := res.Session.ID
	if _, err := e.Continue(ctx, id, "a long problem statement with no obvious trade-off words"); err != nil {
		t.Fatalf("Continue: %v", err)
	}

	res, err = e.Continue(ctx, id, "improving=14 worsening=1")
	if err != nil {
		t.Fatalf("Continue: %v", err)
	}
	cs := res.Session.Contradictions
	if len(cs) == 0 || cs[0].Improving != 14 || cs[0].Worsening != 1 {
		t.Fatalf("contradictions = %+v", cs)
	}

	res, err = e.Continue(ctx, id, "40, 26")
	if err != nil {
		t.Fatalf("Continue: %v", err)
	}
	got := res.Session.Principles
	if len(got) != 2 || got[0] != 40 || got[1] != 26 {
		t.Errorf("principles = %v, want [40 26]", got)
	}
}

func TestContinue_RejectsBadPrincipleIDs(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()

	res, err := e.Start(ctx)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	id := res.Session.ID
	if _, err := e.Continue(ctx, id, weightProblem); err != nil {
		t.Fatalf("Continue: %v", err)
	}
	if _, err := e.Continue(ctx, id, "weight versus strength"); err != nil {
		t.Fatalf("Continue: %v", err)
	}

	if _, err := e.Continue(ctx, id, "41"); !errors.Is(err, triz.ErrOutOfRange) {
		t.Errorf("Continue with id 41 = %v, want ErrOutOfRange", err)
	}
	// The failed step left the session where it was.
	st, err := e.Status(ctx, id)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if st.Session.Stage != session.StagePrincipleSelection {
		t.Errorf("stage after failed step = %s", st.Session.Stage)
	}
}

func TestContinue_UnknownSession(t *testing.T) {
	e := newEngine(t)
	_, err := e.Continue(context.Background(), "no-such-id", "some input")
	if !errors.Is(err, triz.ErrSessionNotFound) {
		t.Errorf("Continue = %v, want ErrSessionNotFound", err)
	}
}

func runToCompletion(t *testing.T, e *Engine, ctx context.Context) string {
	t.Helper()
	res, err := e.Start(ctx)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	id := res.Session.ID
	inputs := []string{
		weightProblem,
		"weight versus strength",
		"use the recommended principles",
		"concepts reviewed",
		"ranking looks right",
	}
	for i, in := range inputs {
		if res, err = e.Continue(ctx, id, in); err != nil {
			t.Fatalf("Continue %d: %v", i, err)
		}
	}
	if !res.Done {
		t.Fatal("session not completed")
	}
	return id
}

func TestReset(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	id := runToCompletion(t, e, ctx)

	// Reset is the only way out of the completed stage and clears
	// everything the run accumulated.
	res, err := e.Reset(ctx, id)
	if err != nil {
		t.Fatalf("Reset: %v", err)
	}
	sess := res.Session
	if sess.Stage != session.StageProblemDefinition {
		t.Errorf("stage = %s", sess.Stage)
	}
	if sess.Problem != "" || sess.IdealResult != "" {
		t.Errorf("problem survived reset: %q / %q", sess.Problem, sess.IdealResult)
	}
	if sess.Contradictions != nil || sess.Principles != nil || sess.Concepts != nil || sess.Evaluation != "" {
		t.Errorf("artifacts survived reset: %v %v %v %q",
			sess.Contradictions, sess.Principles, sess.Concepts, sess.Evaluation)
	}
	if sess.ID != id || sess.CreatedAt.IsZero() {
		t.Errorf("identity lost: id = %q, created_at = %v", sess.ID, sess.CreatedAt)
	}

	// A reset session runs forward again from a different framing.
	res, err = e.Continue(ctx, id, "Make the welding process faster without losing precision")
	if err != nil {
		t.Fatalf("Continue after reset: %v", err)
	}
	if res.Session.Stage != session.StageContradictionAnalysis {
		t.Errorf("stage = %s", res.Session.Stage)
	}

	if _, err := e.Reset(ctx, "no-such-id"); !errors.Is(err, triz.ErrSessionNotFound) {
		t.Errorf("Reset unknown session = %v, want ErrSessionNotFound", err)
	}
}

func TestCandidatePool_FullUnion(t *testing.T) {
	// The pool surfaces every recommended principle, deduplicated and
	// ordered by first appearance; only the default selection is capped.
	sess := &session.Session{Contradictions: []session.Contradiction{
		{Improving: 1, Worsening: 14, Principles: []int{1, 8, 15, 40}},
		{Improving: 9, Worsening: 19, Principles: []int{8, 35, 2, 28}},
	}}
	got := candidatePool(sess)
	want := []int{1, 8, 15, 40, 35, 2, 28}
	if len(got) != len(want) {
		t.Fatalf("pool = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("pool = %v, want %v", got, want)
		}
	}
}

func TestStatus_Idempotent(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()

	res, err := e.Start(ctx)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	id := res.Session.ID

	a, err := e.Status(ctx, id)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	b, err := e.Status(ctx, id)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if a.Session.Stage != b.Session.Stage || !a.Session.UpdatedAt.Equal(b.Session.UpdatedAt) {
		t.Error("Status mutated the session")
	}
}

func TestContinue_ConcurrentSameSession(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()

	res, err := e.Start(ctx)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	id := res.Session.ID
	if _, err := e.Continue(ctx, id, weightProblem); err != nil {
		t.Fatalf("Continue: %v", err)
	}

	const n = 8
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = e.Continue(ctx, id, "weight versus strength, then accept what comes")
		}(i)
	}
	wg.Wait()

	// Four advances succeed (one per remaining stage), the rest hit the
	// completed state. Nothing is lost or doubled.
	var ok, completed int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, triz.ErrSessionCompleted):
			completed++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	if ok != 4 || completed != n-4 {
		t.Errorf("ok = %d, completed = %d", ok, completed)
	}
	st, err := e.Status(ctx, id)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if st.Session.Stage != session.StageCompleted {
		t.Errorf("final stage = %s", st.Session.Stage)
	}
}
