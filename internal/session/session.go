// Package session holds the per-browser-session context: the upstream API
// token, the signed-in user id, cached search results and flash notices.
// State lives in Redis under the session id carried by a cookie; it is
// scoped to one browser session and never shared, but two concurrent tabs
// racing on the same session may observe each other's writes.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/solnguyen93/flightcast/config"
	"github.com/solnguyen93/flightcast/internal/domain"
)

// Flash is a one-shot user-facing notice, drained on the next read.
type Flash struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// SearchContext keeps the submitted form values alongside the cached
// results so that a later save can enrich lazily created locations with
// names and coordinates.
type SearchContext struct {
	DepartureCode string  `json:"departure_code"`
	ArrivalCode   string  `json:"arrival_code"`
	DepartureName string  `json:"departure_name,omitempty"`
	ArrivalName   string  `json:"arrival_name,omitempty"`
	DepartureLat  float64 `json:"departure_lat,omitempty"`
	DepartureLong float64 `json:"departure_long,omitempty"`
	ArrivalLat    float64 `json:"arrival_lat,omitempty"`
	ArrivalLong   float64 `json:"arrival_long,omitempty"`
	DepartDate    string  `json:"depart_date"`
	ReturnDate    string  `json:"return_date"`
	Passengers    int     `json:"passengers"`
}

// Session replaces the untyped per-request dict of the usual web-framework
// session with explicit fields.
type Session struct {
	ID       string               `json:"-"`
	UserID   int64                `json:"user_id,omitempty"`
	APIToken string               `json:"api_token,omitempty"`
	Search   *SearchContext       `json:"search,omitempty"`
	Offers   []domain.FlightOffer `json:"offers,omitempty"`
	Flashes  []Flash              `json:"flashes,omitempty"`
}

func (s *Session) Authenticated() bool { return s.UserID != 0 }

func (s *Session) Flash(level, message string) {
	s.Flashes = append(s.Flashes, Flash{Level: level, Message: message})
}

// PopFlashes drains pending notices.
func (s *Session) PopFlashes() []Flash {
	out := s.Flashes
	s.Flashes = nil
	return out
}

// ClearSearch drops the cached offers and form context, done on every new
// search and when the home page is rendered.
func (s *Session) ClearSearch() {
	s.Search = nil
	s.Offers = nil
}

// Reset wipes everything but the id; used on logout.
func (s *Session) Reset() {
	s.UserID = 0
	s.APIToken = ""
	s.ClearSearch()
	s.Flashes = nil
}

type Store struct {
	client *redis.Client
	ttl    time.Duration
}

func NewStore(cfg config.RedisConfig, ttl time.Duration) *Store {
	return &Store{
		client: redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		ttl:    ttl,
	}
}

// New mints an empty session with a fresh id. Nothing is written to Redis
// until Save.
func (st *Store) New() *Session {
	return &Session{ID: uuid.NewString()}
}

// Load fetches the session for id, or a fresh one when the id is unknown
// or expired.
func (st *Store) Load(ctx context.Context, id string) (*Session, error) {
	if id == "" {
		return st.New(), nil
	}
	data, err := st.client.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return st.New(), nil
		}
		return nil, err
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	s.ID = id
	return &s, nil
}

func (st *Store) Save(ctx context.Context, s *Session) error {
	payload, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return st.client.Set(ctx, sessionKey(s.ID), payload, st.ttl).Err()
}

func (st *Store) Delete(ctx context.Context, id string) error {
	return st.client.Del(ctx, sessionKey(id)).Err()
}

func sessionKey(id string) string {
	return fmt.Sprintf("session:%s", id)
}
