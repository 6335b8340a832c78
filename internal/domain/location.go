package domain

// Location is an airport (or city) referenced by saved flights. Rows are
// created lazily the first time a search or save mentions the code and are
// never cleaned up automatically.
type Location struct {
	ID        int64
	Code      string
	Name      string
	Latitude  float64
	Longitude float64
}
