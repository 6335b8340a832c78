// Package amadeus is the client for the upstream flight-data provider:
// a client-credentials token endpoint and a bearer-authenticated
// flight-offers search endpoint.
package amadeus

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/solnguyen93/flightcast/config"
	"github.com/solnguyen93/flightcast/internal/domain"
)

type Client struct {
	cfg  config.AmadeusConfig
	http *http.Client
}

func NewClient(cfg config.AmadeusConfig) *Client {
	return &Client{cfg: cfg, http: http.DefaultClient}
}

// Query carries the validated search-form values forwarded upstream.
type Query struct {
	Origin      string
	Destination string
	DepartDate  string
	ReturnDate  string
	Adults      int
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

type offersResponse struct {
	Data []domain.FlightOffer `json:"data"`
}

// FetchToken performs the client-credentials exchange. Any non-2xx answer
// or transport failure is a definite ErrUpstreamAuth; there is no retry.
func (c *Client) FetchToken(ctx context.Context) (string, error) {
	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", c.cfg.ClientID)
	form.Set("client_secret", c.cfg.ClientSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrUpstreamAuth, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrUpstreamAuth, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, resp.Body)
		return "", fmt.Errorf("%w: status %d", domain.ErrUpstreamAuth, resp.StatusCode)
	}

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", fmt.Errorf("%w: decode: %v", domain.ErrUpstreamAuth, err)
	}
	if tr.AccessToken == "" {
		return "", fmt.Errorf("%w: empty access token", domain.ErrUpstreamAuth)
	}
	return tr.AccessToken, nil
}

// SearchOffers calls the flight-offers endpoint with the given bearer token
// and returns the raw data array. A stale token shows up here as a non-2xx
// status and is surfaced as ErrUpstreamRequest, not retried.
func (c *Client) SearchOffers(ctx context.Context, token string, q Query) ([]domain.FlightOffer, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.OffersURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstreamRequest, err)
	}

	params := url.Values{}
	params.Set("originLocationCode", q.Origin)
	params.Set("destinationLocationCode", q.Destination)
	params.Set("departureDate", q.DepartDate)
	params.Set("returnDate", q.ReturnDate)
	params.Set("adults", strconv.Itoa(q.Adults))
	params.Set("max", strconv.Itoa(c.cfg.MaxResults))
	req.URL.RawQuery = params.Encode()
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstreamRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%w: status %d", domain.ErrUpstreamRequest, resp.StatusCode)
	}

	var or offersResponse
	if err := json.NewDecoder(resp.Body).Decode(&or); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", domain.ErrUpstreamRequest, err)
	}
	return or.Data, nil
}
