package flights

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/solnguyen93/flightcast/internal/amadeus"
	"github.com/solnguyen93/flightcast/internal/domain"
	"github.com/solnguyen93/flightcast/internal/search"
	"github.com/solnguyen93/flightcast/internal/session"
)

type SearchUseCase interface {
	EnsureToken(ctx context.Context, sess *session.Session) (string, error)
	Search(ctx context.Context, sess *session.Session, input SearchInput) ([]domain.FlightOffer, error)
}

// Upstream is the slice of the provider client this service needs.
type Upstream interface {
	FetchToken(ctx context.Context) (string, error)
	SearchOffers(ctx context.Context, token string, q amadeus.Query) ([]domain.FlightOffer, error)
}

type SearchService struct {
	upstream Upstream
	log      *logrus.Logger
}

// SearchInput is the already-validated search form. The optional names and
// coordinates ride along so saved locations can be enriched later.
type SearchInput struct {
	DepartureCode string
	ArrivalCode   string
	DepartureName string
	ArrivalName   string
	DepartureLat  float64
	DepartureLong float64
	ArrivalLat    float64
	ArrivalLong   float64
	DepartDate    string
	ReturnDate    string
	Passengers    int
}

func NewSearchService(upstream Upstream, log *logrus.Logger) *SearchService {
	return &SearchService{upstream: upstream, log: log}
}

// EnsureToken is the credential gate: a token already held by the session
// is returned unchanged with no freshness check; otherwise one exchange is
// performed and the result stored. On failure the session is untouched.
func (s *SearchService) EnsureToken(ctx context.Context, sess *session.Session) (string, error) {
	if sess.APIToken != "" {
		return sess.APIToken, nil
	}
	token, err := s.upstream.FetchToken(ctx)
	if err != nil {
		return "", err
	}
	sess.APIToken = token
	return token, nil
}

// Search runs one round trip against the offers endpoint and replaces the
// session's cached results with the normalized output.
func (s *SearchService) Search(ctx context.Context, sess *session.Session, input SearchInput) ([]domain.FlightOffer, error) {
	token, err := s.EnsureToken(ctx, sess)
	if err != nil {
		return nil, err
	}

	raw, err := s.upstream.SearchOffers(ctx, token, amadeus.Query{
		Origin:      input.DepartureCode,
		Destination: input.ArrivalCode,
		DepartDate:  input.DepartDate,
		ReturnDate:  input.ReturnDate,
		Adults:      input.Passengers,
	})
	if err != nil {
		return nil, err
	}

	offers, err := search.Normalize(raw, input.DepartureCode)
	if err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{
		"origin":     input.DepartureCode,
		"raw":        len(raw),
		"normalized": len(offers),
	}).Debug("search normalized")

	sess.Search = &session.SearchContext{
		DepartureCode: input.DepartureCode,
		ArrivalCode:   input.ArrivalCode,
		DepartureName: input.DepartureName,
		ArrivalName:   input.ArrivalName,
		DepartureLat:  input.DepartureLat,
		DepartureLong: input.DepartureLong,
		ArrivalLat:    input.ArrivalLat,
		ArrivalLong:   input.ArrivalLong,
		DepartDate:    input.DepartDate,
		ReturnDate:    input.ReturnDate,
		Passengers:    input.Passengers,
	}
	sess.Offers = offers
	return offers, nil
}

var _ SearchUseCase = (*SearchService)(nil)
