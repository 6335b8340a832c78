package bookmarks

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/solnguyen93/flightcast/internal/domain"
	"github.com/solnguyen93/flightcast/internal/logger"
	"github.com/solnguyen93/flightcast/internal/session"
)

type MockSavedFlightRepository struct {
	mock.Mock
}

func (m *MockSavedFlightRepository) Create(ctx context.Context, flight *domain.SavedFlight) error {
	args := m.Called(ctx, flight)
	if args.Error(0) == nil {
		flight.ID = 10
	}
	return args.Error(0)
}

func (m *MockSavedFlightRepository) Exists(ctx context.Context, userID int64, key domain.DuplicateKey) (bool, error) {
	args := m.Called(ctx, userID, key)
	return args.Bool(0), args.Error(1)
}

func (m *MockSavedFlightRepository) DeleteOwned(ctx context.Context, userID, id int64) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

func (m *MockSavedFlightRepository) ListRecent(ctx context.Context, limit int) ([]domain.SavedFlight, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SavedFlight), args.Error(1)
}

func (m *MockSavedFlightRepository) ListByUser(ctx context.Context, userID int64) ([]domain.SavedFlight, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SavedFlight), args.Error(1)
}

type MockLocationRepository struct {
	mock.Mock
}

func (m *MockLocationRepository) GetByCode(ctx context.Context, code string) (*domain.Location, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Location), args.Error(1)
}

func (m *MockLocationRepository) GetOrCreate(ctx context.Context, loc *domain.Location) (*domain.Location, error) {
	args := m.Called(ctx, loc.Code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Location), args.Error(1)
}

type MockProducer struct {
	mock.Mock
}

func (m *MockProducer) Publish(ctx context.Context, topic, key string, value interface{}) error {
	args := m.Called(ctx, topic, key, value)
	return args.Error(0)
}

func sessionWithOffer(id string) *session.Session {
	return &session.Session{
		Search: &session.SearchContext{
			DepartureCode: "SEA",
			ArrivalCode:   "LAX",
			DepartureName: "Seattle-Tacoma Intl",
			DepartureLat:  47.45,
			DepartureLong: -122.31,
		},
		Offers: []domain.FlightOffer{{
			ID: id,
			Itineraries: []domain.Itinerary{{
				Duration: "PT2H50M",
				Segments: []domain.Segment{{
					Departure:   domain.SegmentPoint{IATACode: "SEA", At: "2026-10-25T14:30:00"},
					Arrival:     domain.SegmentPoint{IATACode: "LAX", At: "2026-10-25T17:20:00"},
					CarrierCode: "AS",
					Number:      "1024",
				}},
			}},
			TravelerPricings: []domain.TravelerPricing{{TravelerID: "1", TravelerType: "ADULT"}},
			Price:            domain.OfferPrice{Currency: "EUR", GrandTotal: "289.71"},
		}},
	}
}

func TestBookmarkService_Save_Success(t *testing.T) {
	flightsRepo := &MockSavedFlightRepository{}
	locations := &MockLocationRepository{}
	service := NewBookmarkService(flightsRepo, locations, logger.New())
	ctx := context.Background()
	user := &domain.User{ID: 1, Email: "a@x.com"}

	locations.On("GetOrCreate", ctx, "SEA").Return(&domain.Location{ID: 1, Code: "SEA"}, nil).Once()
	locations.On("GetOrCreate", ctx, "LAX").Return(&domain.Location{ID: 2, Code: "LAX"}, nil).Once()
	flightsRepo.On("Exists", ctx, int64(1), mock.AnythingOfType("domain.DuplicateKey")).Return(false, nil).Once()
	flightsRepo.On("Create", ctx, mock.AnythingOfType("*domain.SavedFlight")).Return(nil).Once()

	saved, err := service.Save(ctx, sessionWithOffer("42"), user, "42")

	require.NoError(t, err)
	assert.EqualValues(t, 10, saved.ID)
	assert.Equal(t, "42", saved.OfferID)
	assert.EqualValues(t, 1, saved.DepartureLocationID)
	assert.EqualValues(t, 2, saved.ArrivalLocationID)
	assert.Equal(t, 1, saved.Passengers)
	assert.Equal(t, 0, saved.NumStops)
	assert.Equal(t, "289.71", saved.Price)
	flightsRepo.AssertExpectations(t)
	locations.AssertExpectations(t)
}

func TestBookmarkService_Save_Unauthenticated(t *testing.T) {
	service := NewBookmarkService(&MockSavedFlightRepository{}, &MockLocationRepository{}, logger.New())

	_, err := service.Save(context.Background(), sessionWithOffer("42"), nil, "42")

	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestBookmarkService_Save_NoCachedSearch(t *testing.T) {
	service := NewBookmarkService(&MockSavedFlightRepository{}, &MockLocationRepository{}, logger.New())

	_, err := service.Save(context.Background(), &session.Session{}, &domain.User{ID: 1}, "42")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBookmarkService_Save_OfferNotInCache(t *testing.T) {
	service := NewBookmarkService(&MockSavedFlightRepository{}, &MockLocationRepository{}, logger.New())

	_, err := service.Save(context.Background(), sessionWithOffer("42"), &domain.User{ID: 1}, "99")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBookmarkService_Save_Duplicate(t *testing.T) {
	flightsRepo := &MockSavedFlightRepository{}
	locations := &MockLocationRepository{}
	service := NewBookmarkService(flightsRepo, locations, logger.New())
	ctx := context.Background()

	locations.On("GetOrCreate", ctx, "SEA").Return(&domain.Location{ID: 1, Code: "SEA"}, nil).Once()
	locations.On("GetOrCreate", ctx, "LAX").Return(&domain.Location{ID: 2, Code: "LAX"}, nil).Once()
	flightsRepo.On("Exists", ctx, int64(1), mock.AnythingOfType("domain.DuplicateKey")).Return(true, nil).Once()

	_, err := service.Save(ctx, sessionWithOffer("42"), &domain.User{ID: 1}, "42")

	assert.ErrorIs(t, err, domain.ErrDuplicateFlight)
	flightsRepo.AssertNotCalled(t, "Create")
}

// Saving twice only persists once: the second attempt is rejected by the
// existence check.
func TestBookmarkService_Save_TwiceRejectsSecond(t *testing.T) {
	flightsRepo := &MockSavedFlightRepository{}
	locations := &MockLocationRepository{}
	service := NewBookmarkService(flightsRepo, locations, logger.New())
	ctx := context.Background()
	user := &domain.User{ID: 1}

	locations.On("GetOrCreate", ctx, "SEA").Return(&domain.Location{ID: 1, Code: "SEA"}, nil).Twice()
	locations.On("GetOrCreate", ctx, "LAX").Return(&domain.Location{ID: 2, Code: "LAX"}, nil).Twice()
	flightsRepo.On("Exists", ctx, int64(1), mock.AnythingOfType("domain.DuplicateKey")).Return(false, nil).Once()
	flightsRepo.On("Create", ctx, mock.AnythingOfType("*domain.SavedFlight")).Return(nil).Once()
	flightsRepo.On("Exists", ctx, int64(1), mock.AnythingOfType("domain.DuplicateKey")).Return(true, nil).Once()

	_, err := service.Save(ctx, sessionWithOffer("42"), user, "42")
	require.NoError(t, err)

	_, err = service.Save(ctx, sessionWithOffer("42"), user, "42")
	assert.ErrorIs(t, err, domain.ErrDuplicateFlight)

	flightsRepo.AssertNumberOfCalls(t, "Create", 1)
}

// The search context's names and coordinates travel onto lazily created
// locations; codes outside the searched pair stay bare.
func TestLocationFor_EnrichesFromSearchContext(t *testing.T) {
	sc := sessionWithOffer("42").Search

	dep := locationFor("SEA", sc)
	assert.Equal(t, "Seattle-Tacoma Intl", dep.Name)
	assert.InDelta(t, 47.45, dep.Latitude, 1e-9)
	assert.InDelta(t, -122.31, dep.Longitude, 1e-9)

	other := locationFor("SFO", sc)
	assert.Equal(t, "SFO", other.Code)
	assert.Empty(t, other.Name)

	assert.Equal(t, "SEA", locationFor("SEA", nil).Code)
}

func TestBookmarkService_Save_PublishFailureIsNotFatal(t *testing.T) {
	flightsRepo := &MockSavedFlightRepository{}
	locations := &MockLocationRepository{}
	producer := &MockProducer{}
	service := NewBookmarkService(flightsRepo, locations, logger.New(), WithProducer(producer, "notifications"))
	ctx := context.Background()

	locations.On("GetOrCreate", ctx, "SEA").Return(&domain.Location{ID: 1, Code: "SEA"}, nil).Once()
	locations.On("GetOrCreate", ctx, "LAX").Return(&domain.Location{ID: 2, Code: "LAX"}, nil).Once()
	flightsRepo.On("Exists", ctx, int64(1), mock.AnythingOfType("domain.DuplicateKey")).Return(false, nil).Once()
	flightsRepo.On("Create", ctx, mock.AnythingOfType("*domain.SavedFlight")).Return(nil).Once()
	producer.On("Publish", ctx, "notifications", "42", mock.Anything).Return(assert.AnError).Once()

	saved, err := service.Save(ctx, sessionWithOffer("42"), &domain.User{ID: 1, Email: "a@x.com"}, "42")

	require.NoError(t, err)
	assert.NotNil(t, saved)
	producer.AssertExpectations(t)
}

func TestBookmarkService_Delete_NotFound(t *testing.T) {
	flightsRepo := &MockSavedFlightRepository{}
	service := NewBookmarkService(flightsRepo, &MockLocationRepository{}, logger.New())
	ctx := context.Background()

	flightsRepo.On("DeleteOwned", ctx, int64(1), int64(999)).Return(domain.ErrNotFound).Once()

	err := service.Delete(ctx, 1, 999)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBookmarkService_Delete_Owned(t *testing.T) {
	flightsRepo := &MockSavedFlightRepository{}
	service := NewBookmarkService(flightsRepo, &MockLocationRepository{}, logger.New())
	ctx := context.Background()

	flightsRepo.On("DeleteOwned", ctx, int64(1), int64(10)).Return(nil).Once()

	assert.NoError(t, service.Delete(ctx, 1, 10))
	flightsRepo.AssertExpectations(t)
}
