// Package workflow drives the staged problem-solving loop: problem
// definition, contradiction analysis, principle selection, solution
// generation, evaluation, completion. Each Continue stores the current
// stage's input, runs its side computation, and advances exactly one
// stage; going back is an explicit Reset.
package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"unicode/utf8"

	"triz/internal/catalog"
	"triz/internal/logging"
	"triz/internal/matrix"
	"triz/internal/parse"
	"triz/internal/session"
	"triz/internal/synth"
	"triz/internal/triz"
)

// MinProblemLength is the minimum problem statement length in runes.
const MinProblemLength = 20

// maxSelectedPrinciples caps how many principles one session works with.
const maxSelectedPrinciples = 5

// ParseFunc extracts candidate contradictions from free text. The
// default is the keyword matcher in package parse; callers may inject
// an LLM-backed extractor with the same shape.
type ParseFunc func(text string) []parse.Pair

// IFRFunc derives an ideal final result statement from the problem.
type IFRFunc func(problem string) string

// Engine owns session state transitions. All mutation of a session
// happens under a per-session lock, so concurrent Continue calls on the
// same id serialize instead of losing updates.
type Engine struct {
	store   session.Store
	catalog *catalog.Catalog
	matrix  *matrix.Matrix
	synth   *synth.Synthesizer
	parse   ParseFunc
	ifr     IFRFunc
	log     *slog.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// Option configures an Engine.
type Option func(*Engine)

// WithParseFunc replaces the default contradiction extractor.
func WithParseFunc(f ParseFunc) Option { return func(e *Engine) { e.parse = f } }

// WithIFRFunc replaces the default ideal-final-result generator.
func WithIFRFunc(f IFRFunc) Option { return func(e *Engine) { e.ifr = f } }

// WithLogger replaces the default logger.
func WithLogger(l *slog.Logger) Option { return func(e *Engine) { e.log = l } }

// New builds an Engine over the given collaborators.
func New(store session.Store, c *catalog.Catalog, m *matrix.Matrix, s *synth.Synthesizer, opts ...Option) *Engine {
	e := &Engine{
		store:   store,
		catalog: c,
		matrix:  m,
		synth:   s,
		parse:   parse.Contradictions,
		ifr:     parse.IdealResult,
		log:     logging.New("workflow"),
		locks:   map[string]*sync.Mutex{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// lock returns the mutex for a session id, creating it on first use.
func (e *Engine) lock(id string) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()
	l, ok := e.locks[id]
	if !ok {
		l = &sync.Mutex{}
		e.locks[id] = l
	}
	return l
}

// StepResult is the outcome of one workflow operation: the session as
// persisted, guidance for what the next Continue expects, and the
// candidate principle pool surfaced after contradiction analysis.
type StepResult struct {
	Session    *session.Session `json:"session"`
	Guidance   string           `json:"guidance"`
	Candidates []int            `json:"candidate_principles,omitempty"`
	Done       bool             `json:"done"`
}

// Start creates and persists an empty session at the problem-definition
// stage. The problem statement itself is the first Continue's input.
func (e *Engine) Start(ctx context.Context) (*StepResult, error) {
	sess := session.New("")
	sess.History = append(sess.History, "session created")
	if err := e.store.Save(ctx, sess); err != nil {
		return nil, err
	}
	e.log.Info("session started", "session_id", sess.ID)
	return &StepResult{Session: sess, Guidance: guidance(sess.Stage)}, nil
}

// Continue stores the input into the current stage, runs the stage's
// side computation, advances exactly one stage, and persists. Empty
// input fails with ErrInsufficientInput at every stage; continuing a
// completed session fails with ErrSessionCompleted.
func (e *Engine) Continue(ctx context.Context, id, input string) (*StepResult, error) {
	l := e.lock(id)
	l.Lock()
	defer l.Unlock()

	sess, err := e.store.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess.Completed() {
		return nil, fmt.Errorf("%w: %s", triz.ErrSessionCompleted, id)
	}

	input = strings.TrimSpace(input)
	if input == "" {
		return nil, fmt.Errorf("%w: stage %s needs input", triz.ErrInsufficientInput, sess.Stage)
	}

	// On error nothing is advanced and nothing is persisted.
	switch sess.Stage {
	case session.StageProblemDefinition:
		err = e.defineProblem(sess, input)
	case session.StageContradictionAnalysis:
		err = e.analyzeContradictions(sess, input)
	case session.StagePrincipleSelection:
		err = e.selectPrinciples(sess, input)
	case session.StageSolutionGeneration:
		e.confirmSolutions(sess, input)
	case session.StageEvaluation:
		e.evaluate(sess, input)
	default:
		err = fmt.Errorf("workflow: session %s in unknown stage %q", id, sess.Stage)
	}
	if err != nil {
		return nil, err
	}

	next, _ := sess.Stage.Next()
	sess.Stage = next
	sess.Touch()
	if err := e.store.Save(ctx, sess); err != nil {
		return nil, err
	}
	e.log.Info("session advanced", "session_id", id, "stage", next)
	return &StepResult{
		Session:    sess,
		Guidance:   guidance(next),
		Candidates: candidatePool(sess),
		Done:       sess.Completed(),
	}, nil
}

// defineProblem stores the problem statement verbatim and derives the
// ideal final result from it.
func (e *Engine) defineProblem(sess *session.Session, input string) error {
	if utf8.RuneCountInString(input) < MinProblemLength {
		return fmt.Errorf("%w: problem statement under %d characters",
			triz.ErrInsufficientInput, MinProblemLength)
	}
	sess.Problem = input
	sess.IdealResult = e.ifr(input)
	sess.History = append(sess.History, "problem defined, ideal final result derived")
	return nil
}

// analyzeContradictions parses the input into candidate parameter pairs
// and records every pair the matrix maps, carrying the entry's
// recommendation. Unmapped pairs are not recorded; nothing is invented
// for them.
func (e *Engine) analyzeContradictions(sess *session.Session, input string) error {
	pairs := e.parse(input)
	if explicit, ok := explicitPair(input); ok {
		pairs = append([]parse.Pair{explicit}, pairs...)
	}

	seen := map[[2]int]bool{}
	var out []session.Contradiction
	var unmapped []string
	for _, p := range pairs {
		key := [2]int{p.Improving, p.Worsening}
		if seen[key] {
			continue
		}
		seen[key] = true

		entry, err := e.matrix.Lookup(p.Improving, p.Worsening)
		if err != nil {
			hint := fmt.Sprintf("(%d,%d)", p.Improving, p.Worsening)
			if similar, serr := e.matrix.FindSimilar(p.Improving, p.Worsening, 1); serr == nil && len(similar) > 0 {
				hint += fmt.Sprintf(" nearest mapped pair (%d,%d)", similar[0].Improving, similar[0].Worsening)
			}
			unmapped = append(unmapped, hint)
			continue
		}
		c := session.Contradiction{
			Improving:   p.Improving,
			Worsening:   p.Worsening,
			Description: p.Description,
			Principles:  append([]int(nil), entry.Principles...),
			Confidence:  entry.Confidence,
		}
		if param, err := e.catalog.Parameter(p.Improving); err == nil {
			c.ImprovingName = param.Name
		}
		if param, err := e.catalog.Parameter(p.Worsening); err == nil {
			c.WorseningName = param.Name
		}
		out = append(out, c)
	}

	sess.Contradictions = append(sess.Contradictions, out...)
	switch {
	case len(out) == 0 && len(unmapped) == 0:
		sess.History = append(sess.History, "no contradiction recognized in the statement")
	case len(unmapped) > 0:
		sess.History = append(sess.History, fmt.Sprintf(
			"%d contradiction(s) recorded; unmapped: %s", len(out), strings.Join(unmapped, "; ")))
	default:
		sess.History = append(sess.History, fmt.Sprintf("%d contradiction(s) recorded", len(out)))
	}
	return nil
}

// selectPrinciples records the principles to work with — the user's
// explicit ids when the input carries any, otherwise the candidate pool
// from contradiction analysis — then invokes the synthesizer.
func (e *Engine) selectPrinciples(sess *session.Session, input string) error {
	ids := parseIDs(input)
	for _, id := range ids {
		if !triz.ValidPrincipleID(id) {
			return fmt.Errorf("%w: principle id %d not in [%d,%d]",
				triz.ErrOutOfRange, id, triz.MinPrincipleID, triz.MaxPrincipleID)
		}
	}
	if len(ids) == 0 {
		ids = candidatePool(sess)
	}
	if len(ids) > maxSelectedPrinciples {
		ids = ids[:maxSelectedPrinciples]
	}

	concepts, err := e.synth.Generate(sess.Problem, sess.Contradictions, ids, synth.DefaultMaxConcepts)
	if err != nil {
		return err
	}
	sess.Principles = ids
	sess.Concepts = concepts
	sess.History = append(sess.History, fmt.Sprintf(
		"selected principles %v; %d solution concept(s) generated", ids, len(concepts)))
	return nil
}

func (e *Engine) confirmSolutions(sess *session.Session, input string) {
	sess.History = append(sess.History, "solutions reviewed: "+input)
}

// evaluate ranks the concepts by a weighted score of feasibility and
// innovation and records the ranking with the user's notes, closing
// the session.
func (e *Engine) evaluate(sess *session.Session, input string) {
	best, score := -1, -1.0
	for i, c := range sess.Concepts {
		s := 0.6*c.Feasibility + 0.4*float64(c.Innovation)/5
		if s > score {
			best, score = i, s
		}
	}
	var b strings.Builder
	if best >= 0 {
		fmt.Fprintf(&b, "Recommended concept: %s (%s), score %.2f.",
			sess.Concepts[best].ID, sess.Concepts[best].Title, score)
	} else {
		b.WriteString("No concepts to evaluate.")
	}
	fmt.Fprintf(&b, " Notes: %s", input)
	sess.Evaluation = b.String()
	sess.History = append(sess.History, fmt.Sprintf(
		"completed: %d contradiction(s), %d principle(s), %d concept(s)",
		len(sess.Contradictions), len(sess.Principles), len(sess.Concepts)))
}

// Reset returns the session to the problem-definition stage from any
// stage, Completed included, clearing everything it accumulated. Only
// the id, creation time, and history survive.
func (e *Engine) Reset(ctx context.Context, id string) (*StepResult, error) {
	l := e.lock(id)
	l.Lock()
	defer l.Unlock()

	sess, err := e.store.Load(ctx, id)
	if err != nil {
		return nil, err
	}

	sess.Stage = session.StageProblemDefinition
	sess.Problem = ""
	sess.IdealResult = ""
	sess.Contradictions = nil
	sess.Principles = nil
	sess.Concepts = nil
	sess.Evaluation = ""
	sess.History = append(sess.History, "reset to problem_definition")
	sess.Touch()
	if err := e.store.Save(ctx, sess); err != nil {
		return nil, err
	}
	e.log.Info("session reset", "session_id", id)
	return &StepResult{Session: sess, Guidance: guidance(sess.Stage)}, nil
}

// Status returns the session without mutating it.
func (e *Engine) Status(ctx context.Context, id string) (*StepResult, error) {
	sess, err := e.store.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	return &StepResult{
		Session:    sess,
		Guidance:   guidance(sess.Stage),
		Candidates: candidatePool(sess),
		Done:       sess.Completed(),
	}, nil
}

// candidatePool unions the matrix recommendations of the recorded
// contradictions, deduplicated and order-preserving by first
// appearance. The full pool is surfaced to the caller; only the default
// selection made from it is capped.
func candidatePool(sess *session.Session) []int {
	var ids []int
	for _, c := range sess.Contradictions {
		for _, p := range c.Principles {
			if !containsInt(ids, p) {
				ids = append(ids, p)
			}
		}
	}
	return ids
}

func containsInt(xs []int, x int) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}

// parseIDs extracts positive integers from free text, in order, without
// duplicates.
func parseIDs(input string) []int {
	fields := strings.FieldsFunc(input, func(r rune) bool {
		return r < '0' || r > '9'
	})
	var out []int
	for _, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil || n <= 0 {
			continue
		}
		if !containsInt(out, n) {
			out = append(out, n)
		}
	}
	return out
}

// explicitPair matches inputs of the form "improving=1 worsening=14".
func explicitPair(input string) (parse.Pair, bool) {
	lower := strings.ToLower(input)
	iIdx := strings.Index(lower, "improving=")
	wIdx := strings.Index(lower, "worsening=")
	if iIdx < 0 || wIdx < 0 {
		return parse.Pair{}, false
	}
	imp := leadingInt(lower[iIdx+len("improving="):])
	wor := leadingInt(lower[wIdx+len("worsening="):])
	if imp == 0 || wor == 0 {
		return parse.Pair{}, false
	}
	return parse.Pair{Improving: imp, Worsening: wor, Description: "stated explicitly"}, true
}

func leadingInt(s string) int {
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}

// guidance tells the caller what the next Continue expects at the
// session's current stage.
func guidance(stage session.Stage) string {
	switch stage {
	case session.StageProblemDefinition:
		return "State the problem: what must improve and what it must not cost (at least 20 characters)."
	case session.StageContradictionAnalysis:
		return "Describe the trade-off to analyze, or pass improving=<id> worsening=<id> explicitly."
	case session.StagePrincipleSelection:
		return "Select principles by id (e.g. \"1, 8, 15\"), or answer in words to accept the recommended candidates."
	case session.StageSolutionGeneration:
		return "Concepts generated. Review them and confirm to move on to evaluation."
	case session.StageEvaluation:
		return "Record your evaluation notes; the strongest concept is recommended on completion."
	case session.StageCompleted:
		return "Session completed. Start a new session or reset this one to explore a different framing."
	default:
		return ""
	}
}
