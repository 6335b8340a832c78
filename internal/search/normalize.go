// Package search holds the pure result-shaping logic applied to upstream
// flight offers: deduplication/filtering before display and the detail
// extraction used when a selected offer is persisted. No I/O happens here.
package search

import (
	"fmt"
	"time"

	"github.com/solnguyen93/flightcast/internal/domain"
)

// Normalize filters a raw offer collection down to what the user asked for:
// one offer per flight number, first occurrence wins, input order preserved,
// and only offers whose first segment departs from preferredDeparture. The
// upstream likes to pad results with itineraries leaving from nearby
// airports, hence the departure filter.
//
// An offer without itineraries or segments violates the upstream contract
// and is reported as an error rather than skipped.
func Normalize(offers []domain.FlightOffer, preferredDeparture string) ([]domain.FlightOffer, error) {
	seen := make(map[string]struct{}, len(offers))
	kept := make([]domain.FlightOffer, 0, len(offers))

	for _, offer := range offers {
		first, err := firstSegment(offer)
		if err != nil {
			return nil, err
		}

		if first.Departure.IATACode != preferredDeparture {
			continue
		}

		number := flightNumber(first)
		if _, ok := seen[number]; ok {
			continue
		}
		seen[number] = struct{}{}
		kept = append(kept, offer)
	}

	return kept, nil
}

// Details is everything the booking store needs from one matched offer.
type Details struct {
	DepartureCode string
	ArrivalCode   string
	DepartAt      time.Time
	ReturnAt      time.Time
	Passengers    int
	NumStops      int
	TotalDuration string
	Price         string
}

// Extract derives the persistable details from one offer: airport codes
// from the first itinerary's first and last segments, the outermost
// departure/arrival instants, passenger count from the traveler pricings,
// stops as segments minus one, duration and grand total verbatim.
func Extract(offer domain.FlightOffer) (Details, error) {
	if len(offer.Itineraries) == 0 {
		return Details{}, fmt.Errorf("offer %s: no itineraries", offer.ID)
	}
	itinerary := offer.Itineraries[0]
	if len(itinerary.Segments) == 0 {
		return Details{}, fmt.Errorf("offer %s: itinerary has no segments", offer.ID)
	}

	first := itinerary.Segments[0]
	last := itinerary.Segments[len(itinerary.Segments)-1]

	departAt, err := parseInstant(first.Departure.At)
	if err != nil {
		return Details{}, fmt.Errorf("offer %s: departure time: %w", offer.ID, err)
	}
	returnAt, err := parseInstant(last.Arrival.At)
	if err != nil {
		return Details{}, fmt.Errorf("offer %s: arrival time: %w", offer.ID, err)
	}

	return Details{
		DepartureCode: first.Departure.IATACode,
		ArrivalCode:   last.Arrival.IATACode,
		DepartAt:      departAt,
		ReturnAt:      returnAt,
		Passengers:    len(offer.TravelerPricings),
		NumStops:      len(itinerary.Segments) - 1,
		TotalDuration: itinerary.Duration,
		Price:         offer.Price.GrandTotal,
	}, nil
}

func firstSegment(offer domain.FlightOffer) (domain.Segment, error) {
	if len(offer.Itineraries) == 0 {
		return domain.Segment{}, fmt.Errorf("offer %s: no itineraries", offer.ID)
	}
	if len(offer.Itineraries[0].Segments) == 0 {
		return domain.Segment{}, fmt.Errorf("offer %s: itinerary has no segments", offer.ID)
	}
	return offer.Itineraries[0].Segments[0], nil
}

func flightNumber(s domain.Segment) string {
	return s.CarrierCode + s.Number
}

// parseInstant accepts the upstream timestamp format, which omits the zone
// offset ("2026-10-25T14:30:00").
func parseInstant(value string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02T15:04:05", value); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}
