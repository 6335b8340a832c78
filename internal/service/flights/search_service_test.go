package flights

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/solnguyen93/flightcast/internal/amadeus"
	"github.com/solnguyen93/flightcast/internal/domain"
	"github.com/solnguyen93/flightcast/internal/logger"
	"github.com/solnguyen93/flightcast/internal/session"
)

type MockUpstream struct {
	mock.Mock
}

func (m *MockUpstream) FetchToken(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockUpstream) SearchOffers(ctx context.Context, token string, q amadeus.Query) ([]domain.FlightOffer, error) {
	args := m.Called(ctx, token, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FlightOffer), args.Error(1)
}

func rawOffer(id, carrier, number, depCode string) domain.FlightOffer {
	return domain.FlightOffer{
		ID: id,
		Itineraries: []domain.Itinerary{{
			Duration: "PT2H50M",
			Segments: []domain.Segment{{
				Departure:   domain.SegmentPoint{IATACode: depCode, At: "2026-10-25T14:30:00"},
				Arrival:     domain.SegmentPoint{IATACode: "LAX", At: "2026-10-25T17:20:00"},
				CarrierCode: carrier,
				Number:      number,
			}},
		}},
		TravelerPricings: []domain.TravelerPricing{{TravelerID: "1"}},
		Price:            domain.OfferPrice{GrandTotal: "289.71"},
	}
}

func TestSearchService_EnsureToken_ReusesSessionToken(t *testing.T) {
	upstream := &MockUpstream{}
	service := NewSearchService(upstream, logger.New())
	sess := &session.Session{APIToken: "cached-token"}

	token, err := service.EnsureToken(context.Background(), sess)

	require.NoError(t, err)
	assert.Equal(t, "cached-token", token)
	upstream.AssertNotCalled(t, "FetchToken")
}

func TestSearchService_EnsureToken_FetchesWhenAbsent(t *testing.T) {
	upstream := &MockUpstream{}
	service := NewSearchService(upstream, logger.New())
	ctx := context.Background()
	sess := &session.Session{}

	upstream.On("FetchToken", ctx).Return("fresh-token", nil).Once()

	token, err := service.EnsureToken(ctx, sess)

	require.NoError(t, err)
	assert.Equal(t, "fresh-token", token)
	assert.Equal(t, "fresh-token", sess.APIToken)
	upstream.AssertExpectations(t)
}

func TestSearchService_EnsureToken_FailureLeavesSessionUntouched(t *testing.T) {
	upstream := &MockUpstream{}
	service := NewSearchService(upstream, logger.New())
	ctx := context.Background()
	sess := &session.Session{}

	upstream.On("FetchToken", ctx).Return("", domain.ErrUpstreamAuth).Once()

	_, err := service.EnsureToken(ctx, sess)

	assert.ErrorIs(t, err, domain.ErrUpstreamAuth)
	assert.Empty(t, sess.APIToken)
}

func TestSearchService_Search_NormalizesAndCaches(t *testing.T) {
	upstream := &MockUpstream{}
	service := NewSearchService(upstream, logger.New())
	ctx := context.Background()
	sess := &session.Session{APIToken: "tok"}

	raw := []domain.FlightOffer{
		rawOffer("1", "AA", "100", "SEA"),
		rawOffer("2", "AA", "100", "SEA"),
		rawOffer("3", "DL", "200", "PDX"),
	}
	upstream.On("SearchOffers", ctx, "tok", amadeus.Query{
		Origin: "SEA", Destination: "LAX", DepartDate: "2026-10-25", ReturnDate: "2026-10-30", Adults: 1,
	}).Return(raw, nil).Once()

	offers, err := service.Search(ctx, sess, SearchInput{
		DepartureCode: "SEA",
		ArrivalCode:   "LAX",
		DepartDate:    "2026-10-25",
		ReturnDate:    "2026-10-30",
		Passengers:    1,
	})

	require.NoError(t, err)
	require.Len(t, offers, 1)
	assert.Equal(t, "1", offers[0].ID)
	assert.Equal(t, offers, sess.Offers)
	require.NotNil(t, sess.Search)
	assert.Equal(t, "SEA", sess.Search.DepartureCode)
	upstream.AssertExpectations(t)
}

func TestSearchService_Search_UpstreamError(t *testing.T) {
	upstream := &MockUpstream{}
	service := NewSearchService(upstream, logger.New())
	ctx := context.Background()
	sess := &session.Session{APIToken: "tok"}

	upstream.On("SearchOffers", ctx, "tok", mock.AnythingOfType("amadeus.Query")).Return(nil, domain.ErrUpstreamRequest).Once()

	_, err := service.Search(ctx, sess, SearchInput{DepartureCode: "SEA", ArrivalCode: "LAX", DepartDate: "2026-10-25", ReturnDate: "2026-10-30", Passengers: 1})

	assert.ErrorIs(t, err, domain.ErrUpstreamRequest)
	assert.Nil(t, sess.Offers)
}
