package session

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/solnguyen93/flightcast/internal/domain"
)

func TestSession_PopFlashesDrains(t *testing.T) {
	s := &Session{}
	s.Flash("danger", "Access unauthorized.")
	s.Flash("welcome-msg", "Hello, alice.")

	got := s.PopFlashes()

	assert.Len(t, got, 2)
	assert.Equal(t, "danger", got[0].Level)
	assert.Empty(t, s.PopFlashes())
}

func TestSession_ClearSearch(t *testing.T) {
	s := &Session{
		Search: &SearchContext{DepartureCode: "SEA"},
		Offers: []domain.FlightOffer{{ID: "1"}},
	}

	s.ClearSearch()

	assert.Nil(t, s.Search)
	assert.Nil(t, s.Offers)
}

func TestSession_ResetKeepsID(t *testing.T) {
	s := &Session{
		ID:       "abc",
		UserID:   7,
		APIToken: "tok",
		Offers:   []domain.FlightOffer{{ID: "1"}},
	}
	s.Flash("welcome-msg", "Hello.")

	s.Reset()

	assert.Equal(t, "abc", s.ID)
	assert.False(t, s.Authenticated())
	assert.Empty(t, s.APIToken)
	assert.Nil(t, s.Offers)
	assert.Empty(t, s.Flashes)
}

func TestStore_NewMintsDistinctIDs(t *testing.T) {
	st := &Store{}

	a, b := st.New(), st.New()

	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
	assert.False(t, a.Authenticated())
}
