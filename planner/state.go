package planner

import "tripplanner/services"

// TripRequest is the raw user input. Destinations are separated by "->",
// dates by commas.
type TripRequest struct {
	Destinations string `json:"destinations"`
	Dates        string `json:"dates"`
	Budget       int    `json:"budget"`
	Interests    string `json:"interests"`
}

// Hop is one leg between consecutive cities. Date is nil when the request
// listed fewer dates than hops.
type Hop struct {
	From string  `json:"from"`
	To   string  `json:"to"`
	Date *string `json:"date"`
}

type Summary struct {
	Cities    []string `json:"cities"`
	Hops      []Hop    `json:"hops"`
	Budget    int      `json:"budget"`
	Interests string   `json:"interests"`
}

// HopFlights holds the flight search outcome for one hop. A disabled search
// produces a single entry carrying only Note.
type HopFlights struct {
	From   string                 `json:"from,omitempty"`
	To     string                 `json:"to,omitempty"`
	Date   *string                `json:"date,omitempty"`
	Offers []services.FlightOffer `json:"offers,omitempty"`
	Note   string                 `json:"note,omitempty"`
}

// Options selects the stage variants for one request.
type Options struct {
	UseLive bool `json:"use_live"`
	UseRAG  bool `json:"use_rag"`
}

// State accumulates every stage's output. Stages take a State by value and
// return the successor; they never write through to their input.
type State struct {
	ID            string                `json:"id"`
	Inputs        TripRequest           `json:"inputs"`
	Summary       Summary               `json:"summary"`
	Flights       []HopFlights          `json:"flights"`
	Hotels        []services.HotelOffer `json:"hotels"`
	RAGTips       string                `json:"rag_tips"`
	ItineraryText string                `json:"itinerary_text"`
	MapHTML       string                `json:"map_html"`
}
