package bookmarks

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/solnguyen93/flightcast/internal/domain"
	"github.com/solnguyen93/flightcast/internal/kafka"
	"github.com/solnguyen93/flightcast/internal/repository"
	"github.com/solnguyen93/flightcast/internal/search"
	"github.com/solnguyen93/flightcast/internal/session"
)

type BookmarkUseCase interface {
	Save(ctx context.Context, sess *session.Session, user *domain.User, offerID string) (*domain.SavedFlight, error)
	Delete(ctx context.Context, userID, id int64) error
	ListRecent(ctx context.Context, limit int) ([]domain.SavedFlight, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.SavedFlight, error)
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type BookmarkService struct {
	flights            repository.SavedFlightRepository
	locations          repository.LocationRepository
	producer           Producer
	notificationsTopic string
	log                *logrus.Logger
}

type BookmarkServiceOption func(*BookmarkService)

func WithProducer(producer Producer, topic string) BookmarkServiceOption {
	return func(s *BookmarkService) {
		s.producer = producer
		s.notificationsTopic = topic
	}
}

func NewBookmarkService(
	flights repository.SavedFlightRepository,
	locations repository.LocationRepository,
	log *logrus.Logger,
	opts ...BookmarkServiceOption,
) *BookmarkService {
	service := &BookmarkService{flights: flights, locations: locations, log: log}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// Save bookmarks the offer with the given id out of the session's cached
// search results. The duplicate pre-check gives the friendly answer; the
// unique index behind the repository settles races.
func (s *BookmarkService) Save(ctx context.Context, sess *session.Session, user *domain.User, offerID string) (*domain.SavedFlight, error) {
	if user == nil {
		return nil, domain.ErrUnauthenticated
	}
	if len(sess.Offers) == 0 {
		return nil, domain.ErrNotFound
	}

	var matched *domain.FlightOffer
	for i := range sess.Offers {
		if sess.Offers[i].ID == offerID {
			matched = &sess.Offers[i]
			break
		}
	}
	if matched == nil {
		return nil, domain.ErrNotFound
	}

	details, err := search.Extract(*matched)
	if err != nil {
		return nil, err
	}

	departure, err := s.locations.GetOrCreate(ctx, locationFor(details.DepartureCode, sess.Search))
	if err != nil {
		return nil, err
	}
	arrival, err := s.locations.GetOrCreate(ctx, locationFor(details.ArrivalCode, sess.Search))
	if err != nil {
		return nil, err
	}

	flight := &domain.SavedFlight{
		OfferID:             matched.ID,
		DepartureLocationID: departure.ID,
		ArrivalLocationID:   arrival.ID,
		DepartDate:          details.DepartAt,
		ReturnDate:          details.ReturnAt,
		Passengers:          details.Passengers,
		NumStops:            details.NumStops,
		TotalDuration:       details.TotalDuration,
		Price:               details.Price,
		UserID:              user.ID,
	}

	exists, err := s.flights.Exists(ctx, user.ID, flight.Key())
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrDuplicateFlight
	}

	if err := s.flights.Create(ctx, flight); err != nil {
		return nil, err
	}

	s.publish(ctx, kafka.FlightEvent{
		Type:          kafka.EventFlightSaved,
		UserID:        user.ID,
		Email:         user.Email,
		OfferID:       flight.OfferID,
		DepartureCode: details.DepartureCode,
		ArrivalCode:   details.ArrivalCode,
		Price:         flight.Price,
		OccurredAt:    time.Now(),
	})
	return flight, nil
}

// Delete removes one of the caller's own bookmarks. Rows owned by someone
// else come back as not found.
func (s *BookmarkService) Delete(ctx context.Context, userID, id int64) error {
	return s.flights.DeleteOwned(ctx, userID, id)
}

func (s *BookmarkService) ListRecent(ctx context.Context, limit int) ([]domain.SavedFlight, error) {
	return s.flights.ListRecent(ctx, limit)
}

func (s *BookmarkService) ListByUser(ctx context.Context, userID int64) ([]domain.SavedFlight, error) {
	return s.flights.ListByUser(ctx, userID)
}

// locationFor enriches a lazily created location with the name and
// coordinates the search form supplied, when the code matches one of the
// searched endpoints.
func locationFor(code string, sc *session.SearchContext) *domain.Location {
	loc := &domain.Location{Code: code}
	if sc == nil {
		return loc
	}
	switch code {
	case sc.DepartureCode:
		loc.Name = sc.DepartureName
		loc.Latitude = sc.DepartureLat
		loc.Longitude = sc.DepartureLong
	case sc.ArrivalCode:
		loc.Name = sc.ArrivalName
		loc.Latitude = sc.ArrivalLat
		loc.Longitude = sc.ArrivalLong
	}
	return loc
}

func (s *BookmarkService) publish(ctx context.Context, event kafka.FlightEvent) {
	if s.producer == nil || s.notificationsTopic == "" {
		return
	}
	if err := s.producer.Publish(ctx, s.notificationsTopic, event.OfferID, event); err != nil {
		s.log.WithError(err).WithField("offer_id", event.OfferID).Warn("failed to publish flight_saved event")
	}
}

var _ BookmarkUseCase = (*BookmarkService)(nil)
