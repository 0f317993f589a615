// Package planner runs the trip workflow: normalize the request, fetch live
// offers, look up travel-blog tips, compose the itinerary and render a map.
// The stages always run in that order, once each, on the caller's goroutine.
package planner

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"tripplanner/maps"
	"tripplanner/metrics"
	"tripplanner/services"
)

// TipRetriever builds the tip index on demand and answers similarity queries.
// Query returns "" when nothing usable is available.
type TipRetriever interface {
	EnsureIndex(ctx context.Context) error
	Query(ctx context.Context, q string) string
}

// Stage is one node of the workflow graph.
type Stage struct {
	Name string
	Run  func(ctx context.Context, st State) State
}

type Planner struct {
	live LiveSearcher
	tips TipRetriever
	llm  services.TextGenerator
}

// New wires the planner's collaborators. A nil llm disables the model and
// every itinerary comes from the fallback template.
func New(live LiveSearcher, tips TipRetriever, llm services.TextGenerator) *Planner {
	if llm == nil {
		llm = services.DisabledGenerator{}
	}
	return &Planner{live: live, tips: tips, llm: llm}
}

// Stages returns the fixed graph for opts. Capability selection happens here,
// once, rather than inside each stage.
func (p *Planner) Stages(opts Options) []Stage {
	live := disabledLiveData
	if opts.UseLive && p.live != nil {
		live = p.liveData
	}
	rag := disabledTips
	if opts.UseRAG && p.tips != nil {
		rag = p.ragTips
	}

	return []Stage{
		{Name: "parse_inputs", Run: parseInputs},
		{Name: "live_data", Run: live},
		{Name: "rag", Run: rag},
		{Name: "compose", Run: p.compose},
		{Name: "map", Run: renderMap},
	}
}

// Plan runs every stage in sequence and returns the final state. It does not
// fail; stage errors are folded into placeholder records or fallback text.
func (p *Planner) Plan(ctx context.Context, req TripRequest, opts Options) State {
	st := State{ID: uuid.New().String(), Inputs: req}
	started := time.Now()

	for _, stage := range p.Stages(opts) {
		t := time.Now()
		st = stage.Run(ctx, st)
		d := time.Since(t)
		metrics.ObserveStage(stage.Name, d)
		log.Printf("[%s] stage %s done in %s", st.ID, stage.Name, d.Round(time.Millisecond))
	}

	metrics.ObservePlan(opts.UseLive, opts.UseRAG)
	log.Printf("✅ [%s] plan ready: %d cities, %d hops (live=%t rag=%t) in %s",
		st.ID, len(st.Summary.Cities), len(st.Summary.Hops), opts.UseLive, opts.UseRAG,
		time.Since(started).Round(time.Millisecond))
	return st
}

func parseInputs(_ context.Context, st State) State {
	st.Summary = Normalize(st.Inputs)
	return st
}

func disabledTips(_ context.Context, st State) State {
	st.RAGTips = ""
	return st
}

func (p *Planner) ragTips(ctx context.Context, st State) State {
	if err := p.tips.EnsureIndex(ctx); err != nil {
		log.Printf("⚠️  [%s] tip index unavailable: %v", st.ID, err)
	}
	st.RAGTips = p.tips.Query(ctx, TipsQuery(st.Summary))
	return st
}

// TipsQuery is the similarity-search text for a trip.
func TipsQuery(s Summary) string {
	return fmt.Sprintf("Pro tips for %s for interests: %s", strings.Join(s.Cities, ", "), s.Interests)
}

func renderMap(_ context.Context, st State) State {
	st.MapHTML = maps.Render(st.Summary.Cities)
	return st
}
