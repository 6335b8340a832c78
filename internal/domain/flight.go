package domain

import "time"

// SavedFlight is a bookmarked itinerary. Rows are immutable after insert;
// UserID is nullable (0) only to tolerate legacy anonymous rows.
type SavedFlight struct {
	ID                  int64
	OfferID             string
	DepartureLocationID int64
	ArrivalLocationID   int64
	DepartDate          time.Time
	ReturnDate          time.Time
	Passengers          int
	NumStops            int
	TotalDuration       string
	Price               string
	UserID              int64
	CreatedAt           time.Time

	// Codes are populated on reads that join locations, for display.
	DepartureCode string
	ArrivalCode   string
}

// DuplicateKey is the composite identity under which a user may hold at
// most one saved flight. Mirrors the unique index on saved_flights.
type DuplicateKey struct {
	OfferID             string
	DepartureLocationID int64
	ArrivalLocationID   int64
	DepartDate          time.Time
	ReturnDate          time.Time
	Passengers          int
	NumStops            int
	TotalDuration       string
	Price               string
}

func (f *SavedFlight) Key() DuplicateKey {
	return DuplicateKey{
		OfferID:             f.OfferID,
		DepartureLocationID: f.DepartureLocationID,
		ArrivalLocationID:   f.ArrivalLocationID,
		DepartDate:          f.DepartDate,
		ReturnDate:          f.ReturnDate,
		Passengers:          f.Passengers,
		NumStops:            f.NumStops,
		TotalDuration:       f.TotalDuration,
		Price:               f.Price,
	}
}
