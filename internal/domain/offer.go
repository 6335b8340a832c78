package domain

// FlightOffer mirrors the fields of one entry in the upstream flight-offers
// response that this service actually reads. Offers are transient: they live
// in the session's search cache and are never persisted as-is.
type FlightOffer struct {
	ID               string            `json:"id"`
	Itineraries      []Itinerary       `json:"itineraries"`
	TravelerPricings []TravelerPricing `json:"travelerPricings"`
	Price            OfferPrice        `json:"price"`
}

// Itinerary is one directional journey composed of non-stop segments.
type Itinerary struct {
	Duration string    `json:"duration"`
	Segments []Segment `json:"segments"`
}

// Segment is one non-stop leg. Number is the flight number; together with
// CarrierCode it identifies the operating flight.
type Segment struct {
	Departure   SegmentPoint `json:"departure"`
	Arrival     SegmentPoint `json:"arrival"`
	CarrierCode string       `json:"carrierCode"`
	Number      string       `json:"number"`
}

type SegmentPoint struct {
	IATACode string `json:"iataCode"`
	At       string `json:"at"`
}

type TravelerPricing struct {
	TravelerID   string `json:"travelerId"`
	TravelerType string `json:"travelerType"`
}

type OfferPrice struct {
	Currency   string `json:"currency"`
	GrandTotal string `json:"grandTotal"`
}
