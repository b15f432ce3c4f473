package mcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"triz/internal/catalog"
	"triz/internal/logging"
	"triz/internal/matrix"
	"triz/internal/parse"
	"triz/internal/session"
	"triz/internal/synth"
	"triz/internal/triz"
	"triz/internal/vector"
	"triz/internal/workflow"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Server wraps the MCP SDK server and exposes the inventive-problem-solving
// tools over stdio. The vector searcher is optional; when nil the
// triz_search_cases tool is not registered.
type Server struct {
	MCPServer *sdkmcp.Server

	engine   *workflow.Engine
	catalog  *catalog.Catalog
	matrix   *matrix.Matrix
	synth    *synth.Synthesizer
	searcher vector.Searcher
	log      *slog.Logger
}

// NewServer creates an MCP server backed by the given workflow engine and
// reference data.
func NewServer(eng *workflow.Engine, c *catalog.Catalog, m *matrix.Matrix, syn *synth.Synthesizer, searcher vector.Searcher) *Server {
	s := &Server{
		engine:   eng,
		catalog:  c,
		matrix:   m,
		synth:    syn,
		searcher: searcher,
		log:      logging.New("mcp"),
	}
	s.MCPServer = sdkmcp.NewServer(
		&sdkmcp.Implementation{Name: "triz", Version: "dev"},
		nil,
	)
	s.registerTools()
	return s
}

func (s *Server) registerTools() {
	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "triz_workflow_start",
		Description: "Start a guided inventive-problem-solving session. Pass the problem statement here or in the first triz_workflow_continue call; returns the session ID and guidance for the next stage.",
	}, s.handleWorkflowStart)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "triz_workflow_continue",
		Description: "Advance a session by one stage. Input is the current stage's material: the problem statement, a contradiction description or explicit 'improving=N worsening=M' pair, comma-separated principle IDs, a review confirmation, or evaluation notes.",
	}, s.handleWorkflowContinue)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "triz_workflow_reset",
		Description: "Return a session to the problem-definition stage, discarding everything it accumulated. Works from any stage, completed included.",
	}, s.handleWorkflowReset)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "triz_workflow_status",
		Description: "Get the current state of a session without advancing it.",
	}, s.handleWorkflowStatus)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "triz_get_principle",
		Description: "Look up one of the 40 inventive principles by ID: description, sub-principles, examples, domains, and related principles.",
	}, s.handleGetPrinciple)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "triz_contradiction_matrix",
		Description: "Query the contradiction matrix for an (improving, worsening) parameter pair. On a miss, returns similar mapped pairs and reformulation suggestions instead.",
	}, s.handleContradictionMatrix)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "triz_brainstorm",
		Description: "Generate solution concepts for a problem from a chosen set of principles, without creating a session. Omit principle_ids to use the most broadly applicable principles.",
	}, s.handleBrainstorm)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "triz_solve",
		Description: "One-shot analysis: detect contradictions in the problem statement, resolve them against the matrix, and synthesize solution concepts.",
	}, s.handleSolve)

	if s.searcher != nil {
		sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
			Name:        "triz_search_cases",
			Description: "Semantic search over the ingested case library. Returns the closest prior cases with similarity scores.",
		}, s.handleSearchCases)
	}
}

// --- Tool input/output types ---

type workflowStartInput struct {
	Problem string `json:"problem,omitempty" jsonschema:"problem statement (min 20 characters); may be deferred to the first triz_workflow_continue call"`
}

type workflowContinueInput struct {
	SessionID string `json:"session_id" jsonschema:"session ID from triz_workflow_start"`
	Input     string `json:"input" jsonschema:"stage input: problem statement, contradiction text, 'improving=N worsening=M', principle IDs, review confirmation, or evaluation notes"`
}

type workflowResetInput struct {
	SessionID string `json:"session_id" jsonschema:"session ID from triz_workflow_start"`
}

type workflowStatusInput struct {
	SessionID string `json:"session_id" jsonschema:"session ID from triz_workflow_start"`
}

type workflowOutput struct {
	SessionID      string                  `json:"session_id"`
	Stage          string                  `json:"stage"`
	StageNumber    int                     `json:"stage_number"`
	TotalStages    int                     `json:"total_stages"`
	Done           bool                    `json:"done"`
	Problem        string                  `json:"problem"`
	IdealResult    string                  `json:"ideal_result,omitempty"`
	Contradictions []session.Contradiction `json:"contradictions,omitempty"`
	Principles     []int                   `json:"principles,omitempty"`
	Concepts       []session.Concept       `json:"concepts,omitempty"`
	Evaluation     string                  `json:"evaluation,omitempty"`
	Candidates     []int                   `json:"candidate_principles,omitempty"`
	Guidance       string                  `json:"guidance,omitempty"`
}

type getPrincipleInput struct {
	PrincipleID int `json:"principle_id" jsonschema:"inventive principle ID (1-40)"`
}

type getPrincipleOutput struct {
	Principle catalog.Principle `json:"principle"`
	UsedIn    []matrix.Key      `json:"used_in,omitempty"`
}

type contradictionMatrixInput struct {
	Improving int `json:"improving" jsonschema:"parameter to improve (1-39)"`
	Worsening int `json:"worsening" jsonschema:"parameter that worsens (1-39)"`
}

type contradictionMatrixOutput struct {
	Found          bool                   `json:"found"`
	ImprovingName  string                 `json:"improving_name"`
	WorseningName  string                 `json:"worsening_name"`
	Entry          *matrix.Entry          `json:"entry,omitempty"`
	Similar        []matrix.Entry         `json:"similar,omitempty"`
	Reformulations []matrix.Reformulation `json:"reformulations,omitempty"`
}

type brainstormInput struct {
	Problem      string `json:"problem" jsonschema:"problem statement to brainstorm against"`
	PrincipleIDs []int  `json:"principle_ids,omitempty" jsonschema:"inventive principle IDs to apply (1-40); omitted = most used principles"`
	MaxConcepts  int    `json:"max_concepts,omitempty" jsonschema:"maximum concepts to generate (default 5)"`
}

type brainstormOutput struct {
	Principles []int             `json:"principles"`
	Concepts   []session.Concept `json:"concepts"`
}

type solveInput struct {
	Problem string `json:"problem" jsonschema:"problem statement describing the trade-off"`
}

type solveOutput struct {
	IdealResult    string                  `json:"ideal_result"`
	Contradictions []session.Contradiction `json:"contradictions,omitempty"`
	Principles     []int                   `json:"principles"`
	Concepts       []session.Concept       `json:"concepts"`
}

type searchCasesInput struct {
	Query string `json:"query" jsonschema:"free-text query describing the problem"`
	TopK  int    `json:"top_k,omitempty" jsonschema:"number of results (default 5)"`
}

type searchCasesOutput struct {
	Matches []vector.Match `json:"matches"`
}

// --- Tool handlers ---

func (s *Server) handleWorkflowStart(ctx context.Context, _ *sdkmcp.CallToolRequest, input workflowStartInput) (*sdkmcp.CallToolResult, workflowOutput, error) {
	res, err := s.engine.Start(ctx)
	if err != nil {
		return nil, workflowOutput{}, fmt.Errorf("triz_workflow_start: %w", err)
	}
	// A problem passed here is a convenience: it becomes the first
	// Continue, landing the session in contradiction analysis.
	if input.Problem != "" {
		res, err = s.engine.Continue(ctx, res.Session.ID, input.Problem)
		if err != nil {
			return nil, workflowOutput{}, fmt.Errorf("triz_workflow_start: %w", err)
		}
	}
	s.log.Info("session started", "session_id", res.Session.ID)
	return nil, stepOutput(res), nil
}

func (s *Server) handleWorkflowContinue(ctx context.Context, _ *sdkmcp.CallToolRequest, input workflowContinueInput) (*sdkmcp.CallToolResult, workflowOutput, error) {
	res, err := s.engine.Continue(ctx, input.SessionID, input.Input)
	if err != nil {
		return nil, workflowOutput{}, fmt.Errorf("triz_workflow_continue: %w", err)
	}
	return nil, stepOutput(res), nil
}

func (s *Server) handleWorkflowReset(ctx context.Context, _ *sdkmcp.CallToolRequest, input workflowResetInput) (*sdkmcp.CallToolResult, workflowOutput, error) {
	res, err := s.engine.Reset(ctx, input.SessionID)
	if err != nil {
		return nil, workflowOutput{}, fmt.Errorf("triz_workflow_reset: %w", err)
	}
	s.log.Info("session reset", "session_id", input.SessionID)
	return nil, stepOutput(res), nil
}

func (s *Server) handleWorkflowStatus(ctx context.Context, _ *sdkmcp.CallToolRequest, input workflowStatusInput) (*sdkmcp.CallToolResult, workflowOutput, error) {
	res, err := s.engine.Status(ctx, input.SessionID)
	if err != nil {
		return nil, workflowOutput{}, fmt.Errorf("triz_workflow_status: %w", err)
	}
	return nil, stepOutput(res), nil
}

func (s *Server) handleGetPrinciple(ctx context.Context, _ *sdkmcp.CallToolRequest, input getPrincipleInput) (*sdkmcp.CallToolResult, getPrincipleOutput, error) {
	p, err := s.catalog.Principle(input.PrincipleID)
	if err != nil {
		return nil, getPrincipleOutput{}, fmt.Errorf("triz_get_principle: %w", err)
	}
	// Pairs that recommend this principle; empty when it never appears.
	usedIn, err := s.matrix.PrinciplesFor(input.PrincipleID)
	if err != nil {
		return nil, getPrincipleOutput{}, fmt.Errorf("triz_get_principle: %w", err)
	}
	return nil, getPrincipleOutput{Principle: p, UsedIn: usedIn}, nil
}

func (s *Server) handleContradictionMatrix(ctx context.Context, _ *sdkmcp.CallToolRequest, input contradictionMatrixInput) (*sdkmcp.CallToolResult, contradictionMatrixOutput, error) {
	entry, err := s.matrix.Lookup(input.Improving, input.Worsening)
	if err != nil && !errors.Is(err, triz.ErrNotFound) {
		return nil, contradictionMatrixOutput{}, fmt.Errorf("triz_contradiction_matrix: %w", err)
	}

	impName, worName := parameterNames(s.catalog, input.Improving, input.Worsening)
	out := contradictionMatrixOutput{
		ImprovingName: impName,
		WorseningName: worName,
	}
	if err == nil {
		out.Found = true
		out.Entry = &entry
		return nil, out, nil
	}

	similar, simErr := s.matrix.FindSimilar(input.Improving, input.Worsening, 3)
	if simErr != nil {
		return nil, contradictionMatrixOutput{}, fmt.Errorf("triz_contradiction_matrix: %w", simErr)
	}
	refs, refErr := s.matrix.SuggestReformulations(input.Improving, input.Worsening, 3)
	if refErr != nil {
		return nil, contradictionMatrixOutput{}, fmt.Errorf("triz_contradiction_matrix: %w", refErr)
	}
	out.Similar = similar
	out.Reformulations = refs
	return nil, out, nil
}

func (s *Server) handleBrainstorm(ctx context.Context, _ *sdkmcp.CallToolRequest, input brainstormInput) (*sdkmcp.CallToolResult, brainstormOutput, error) {
	ids := input.PrincipleIDs
	if len(ids) == 0 {
		for _, pc := range s.matrix.MostUsedPrinciples(synth.DefaultMaxConcepts) {
			ids = append(ids, pc.PrincipleID)
		}
	}
	max := input.MaxConcepts
	if max <= 0 {
		max = synth.DefaultMaxConcepts
	}
	concepts, err := s.synth.Generate(input.Problem, nil, ids, max)
	if err != nil {
		return nil, brainstormOutput{}, fmt.Errorf("triz_brainstorm: %w", err)
	}
	return nil, brainstormOutput{Principles: ids, Concepts: concepts}, nil
}

func (s *Server) handleSolve(ctx context.Context, _ *sdkmcp.CallToolRequest, input solveInput) (*sdkmcp.CallToolResult, solveOutput, error) {
	pairs := parse.Contradictions(input.Problem)

	var contradictions []session.Contradiction
	var ids []int
	for _, p := range pairs {
		c := session.Contradiction{
			Improving:   p.Improving,
			Worsening:   p.Worsening,
			Description: p.Description,
		}
		c.ImprovingName, c.WorseningName = parameterNames(s.catalog, p.Improving, p.Worsening)
		if entry, err := s.matrix.Lookup(p.Improving, p.Worsening); err == nil {
			c.Principles = entry.Principles
			c.Confidence = entry.Confidence
			for _, id := range c.Principles {
				if len(ids) < 5 && !containsID(ids, id) {
					ids = append(ids, id)
				}
			}
		}
		contradictions = append(contradictions, c)
	}
	if len(ids) == 0 {
		for _, pc := range s.matrix.MostUsedPrinciples(5) {
			ids = append(ids, pc.PrincipleID)
		}
	}

	concepts, err := s.synth.Generate(input.Problem, contradictions, ids, synth.DefaultMaxConcepts)
	if err != nil {
		return nil, solveOutput{}, fmt.Errorf("triz_solve: %w", err)
	}
	return nil, solveOutput{
		IdealResult:    parse.IdealResult(input.Problem),
		Contradictions: contradictions,
		Principles:     ids,
		Concepts:       concepts,
	}, nil
}

func (s *Server) handleSearchCases(ctx context.Context, _ *sdkmcp.CallToolRequest, input searchCasesInput) (*sdkmcp.CallToolResult, searchCasesOutput, error) {
	topK := input.TopK
	if topK <= 0 {
		topK = 5
	}
	matches, err := s.searcher.Search(ctx, input.Query, topK)
	if err != nil {
		return nil, searchCasesOutput{}, fmt.Errorf("triz_search_cases: %w", err)
	}
	return nil, searchCasesOutput{Matches: matches}, nil
}

// --- helpers ---

func stepOutput(res *workflow.StepResult) workflowOutput {
	sess := res.Session
	return workflowOutput{
		SessionID:      sess.ID,
		Stage:          string(sess.Stage),
		StageNumber:    sess.Stage.Ordinal(),
		TotalStages:    len(session.Stages()),
		Done:           res.Done,
		Problem:        sess.Problem,
		IdealResult:    sess.IdealResult,
		Contradictions: sess.Contradictions,
		Principles:     sess.Principles,
		Concepts:       sess.Concepts,
		Evaluation:     sess.Evaluation,
		Candidates:     res.Candidates,
		Guidance:       res.Guidance,
	}
}

func parameterNames(c *catalog.Catalog, improving, worsening int) (string, string) {
	var impName, worName string
	if p, err := c.Parameter(improving); err == nil {
		impName = p.Name
	}
	if p, err := c.Parameter(worsening); err == nil {
		worName = p.Name
	}
	return impName, worName
}

func containsID(xs []int, x int) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}
