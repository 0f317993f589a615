package planner

import (
	"context"
	"log"
	"strings"

	"tripplanner/services"
)

const (
	liveDisabledNote = "live search disabled"
	noDateNote       = "no travel date"

	maxFlightOffers = 3
	maxHotelOffers  = 8
	adults          = 1
)

// LiveSearcher is the flight/hotel API; *services.AmadeusClient satisfies it.
type LiveSearcher interface {
	SearchFlights(ctx context.Context, origin, destination, departureDate string, adults, maxOffers int) ([]services.FlightOffer, error)
	SearchHotels(ctx context.Context, cityCode, checkIn, checkOut string, size int) ([]services.HotelOffer, error)
}

func disabledLiveData(_ context.Context, st State) State {
	st.Flights = []HopFlights{{Note: liveDisabledNote}}
	st.Hotels = []services.HotelOffer{{Note: liveDisabledNote}}
	return st
}

func (p *Planner) liveData(ctx context.Context, st State) State {
	flights := make([]HopFlights, 0, len(st.Summary.Hops))
	for _, hop := range st.Summary.Hops {
		hf := HopFlights{From: hop.From, To: hop.To, Date: hop.Date}
		if hop.Date == nil {
			hf.Note = noDateNote
			flights = append(flights, hf)
			continue
		}

		origin, dest := cityCode(hop.From), cityCode(hop.To)
		offers, err := p.live.SearchFlights(ctx, origin, dest, *hop.Date, adults, maxFlightOffers)
		if err != nil {
			log.Printf("⚠️  [%s] flight search %s→%s failed: %v", st.ID, origin, dest, err)
			offers = []services.FlightOffer{{Error: err.Error()}}
		}
		hf.Offers = offers
		flights = append(flights, hf)
	}

	hotels := []services.HotelOffer{}
	if cities := st.Summary.Cities; len(cities) > 0 {
		// Only the final city is treated as a stay, checking in on the last hop's date.
		var checkIn string
		if hops := st.Summary.Hops; len(hops) > 0 && hops[len(hops)-1].Date != nil {
			checkIn = *hops[len(hops)-1].Date
		}
		if checkIn != "" {
			code := cityCode(cities[len(cities)-1])
			found, err := p.live.SearchHotels(ctx, code, checkIn, "", maxHotelOffers)
			if err != nil {
				log.Printf("⚠️  [%s] hotel search in %s failed: %v", st.ID, code, err)
				found = []services.HotelOffer{{Error: err.Error()}}
			}
			hotels = found
		}
	}

	st.Flights = flights
	st.Hotels = hotels
	return st
}

// cityCode guesses a location code from the first three letters of a city
// name. No airport validation is done; "Paris" becomes "PAR".
func cityCode(city string) string {
	r := []rune(city)
	if len(r) >= 3 {
		r = r[:3]
	}
	return strings.ToUpper(string(r))
}
