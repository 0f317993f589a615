package planner

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
)

const fallbackTipsLimit = 1000

func (p *Planner) compose(ctx context.Context, st State) State {
	prompt := BuildPrompt(st)

	text, err := p.llm.Generate(ctx, prompt)
	switch {
	case err != nil:
		log.Printf("⚠️  [%s] %s itinerary failed: %v — using fallback", st.ID, p.llm.Name(), err)
		text = FallbackItinerary(st.Summary.Cities, st.RAGTips)
	case strings.TrimSpace(text) == "":
		log.Printf("⚠️  [%s] %s returned an empty itinerary — using fallback", st.ID, p.llm.Name())
		text = FallbackItinerary(st.Summary.Cities, st.RAGTips)
	}

	st.ItineraryText = text
	return st
}

// BuildPrompt embeds everything gathered so far into one instruction. The
// prompt is sent whole; there is no token budgeting.
func BuildPrompt(st State) string {
	s := st.Summary
	return fmt.Sprintf(`You are a travel planner. Build a concise day-by-day itinerary.

Cities: %s
Hops: %s
Budget (USD): %d
Interests: %s

Flight offers (may be empty): %s
Hotel offers (may be empty): %s

Incorporate these crowd tips (if any):
%s

Return a readable plan with days, activities, brief reasons, and where useful, tie to flights/hotels.
`, jsonText(s.Cities), jsonText(s.Hops), s.Budget, s.Interests,
		jsonText(st.Flights), jsonText(st.Hotels), st.RAGTips)
}

// FallbackItinerary is the deterministic draft used whenever the model is
// disabled or fails: one "Day N: Explore {city}" line per city.
func FallbackItinerary(cities []string, tips string) string {
	lines := []string{"# Draft Itinerary (Fallback)\n"}
	for i, city := range cities {
		lines = append(lines, fmt.Sprintf("Day %d: Explore %s", i+1, city))
	}
	if tips != "" {
		lines = append(lines, "\n# Tips from Blogs\n"+truncate(tips, fallbackTipsLimit))
	}
	return strings.Join(lines, "\n")
}

func jsonText(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
