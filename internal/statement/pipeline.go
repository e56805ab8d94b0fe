package statement

import (
	"context"
	"fmt"

	"github.com/finsight-labs/statement-insights/internal/logger"
)

// Step is a single stage of the analysis pipeline.
type Step interface {
	Execute(ctx context.Context, state *State) error
}

// State is the shared state flowing through the pipeline steps for one
// processing run. Each run gets its own State, so concurrent runs over
// different documents need no coordination.
type State struct {
	RawText string

	Extractor   *Extractor
	Categorizer *Categorizer

	Blocks       []string
	Transactions []Transaction
	Rejections   map[RejectionReason]int
	Summary      Summary
}

// SegmentStep splits the raw text into candidate blocks.
type SegmentStep struct{}

func (s *SegmentStep) Execute(ctx context.Context, state *State) error {
	state.Blocks = Segment(state.RawText)
	return nil
}

// ExtractStep runs field extraction and assembly over every candidate
// block. Per-block failures are absorbed into the rejection counts; one
// bad block never aborts extraction of the rest.
type ExtractStep struct{}

func (s *ExtractStep) Execute(ctx context.Context, state *State) error {
	log := logger.FromContext(ctx)

	state.Transactions = make([]Transaction, 0, len(state.Blocks))
	state.Rejections = make(map[RejectionReason]int)

	for i, block := range state.Blocks {
		fields := state.Extractor.Extract(block)
		txn, reason := Assemble(fields, block)
		if reason != RejectionNone {
			state.Rejections[reason]++
			log.Debug().
				Int("block", i).
				Str("reason", string(reason)).
				Msg("Candidate block rejected")
			continue
		}
		state.Transactions = append(state.Transactions, *txn)
	}
	return nil
}

// CategorizeStep annotates every assembled transaction with a category.
type CategorizeStep struct{}

func (s *CategorizeStep) Execute(ctx context.Context, state *State) error {
	state.Transactions = state.Categorizer.Apply(state.Transactions)
	return nil
}

// AggregateStep computes the analytics summary over the categorized set.
type AggregateStep struct{}

func (s *AggregateStep) Execute(ctx context.Context, state *State) error {
	state.Summary = Aggregate(state.Transactions)
	return nil
}

// Pipeline executes a sequence of steps in order.
type Pipeline struct {
	steps []Step
}

// NewPipeline creates a pipeline with the given steps.
func NewPipeline(steps ...Step) *Pipeline {
	return &Pipeline{steps: steps}
}

// Execute runs all steps sequentially against the shared state.
func (p *Pipeline) Execute(ctx context.Context, state *State) error {
	for i, step := range p.steps {
		if err := step.Execute(ctx, state); err != nil {
			return fmt.Errorf("pipeline step %d failed: %w", i+1, err)
		}
	}
	return nil
}

// NewAnalysisPipeline creates the standard four-step pipeline:
// segment, extract+assemble, categorize, aggregate.
func NewAnalysisPipeline() *Pipeline {
	return NewPipeline(
		&SegmentStep{},
		&ExtractStep{},
		&CategorizeStep{},
		&AggregateStep{},
	)
}

// Process runs the full analysis pipeline over raw statement text. It
// never returns an error for malformed input: every per-block failure is
// absorbed into the rejection counts, and an empty or unparseable document
// yields an empty record set with a zeroed summary. The same input always
// yields the same result.
func Process(ctx context.Context, rawText string, categorizer *Categorizer) *Result {
	state := &State{
		RawText:     rawText,
		Extractor:   NewExtractor(DefaultRules()),
		Categorizer: categorizer,
	}

	// Steps absorb all per-block failures, so Execute cannot fail here.
	_ = NewAnalysisPipeline().Execute(ctx, state)

	rejected := 0
	for _, n := range state.Rejections {
		rejected += n
	}

	return &Result{
		Transactions:   state.Transactions,
		Summary:        state.Summary,
		CandidateCount: len(state.Blocks),
		RejectedCount:  rejected,
		Rejections:     state.Rejections,
	}
}
