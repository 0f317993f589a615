package planner

import "strings"

const (
	destinationSep = "->"
	dateSep        = ","
)

// Normalize turns the raw request into cities and hops. It never fails:
// malformed input just yields fewer cities, hops or dates.
func Normalize(req TripRequest) Summary {
	cities := splitTrim(req.Destinations, destinationSep)
	dates := splitTrim(req.Dates, dateSep)

	hops := make([]Hop, 0, max(len(cities)-1, 0))
	for i := 0; i+1 < len(cities); i++ {
		hop := Hop{From: cities[i], To: cities[i+1]}
		if i < len(dates) {
			d := dates[i]
			hop.Date = &d
		}
		hops = append(hops, hop)
	}

	return Summary{
		Cities:    cities,
		Hops:      hops,
		Budget:    req.Budget,
		Interests: req.Interests,
	}
}

func splitTrim(s, sep string) []string {
	out := []string{}
	for _, part := range strings.Split(s, sep) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
