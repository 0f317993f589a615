package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"tripplanner/metrics"
)

// ─── Types ────────────────────────────────────────────────────────────────────

// FlightOffer is a pass-through record from the flight offers search. Only the
// fields shown to travellers are extracted; itineraries stay as raw JSON.
type FlightOffer struct {
	ID          string          `json:"id,omitempty"`
	Price       string          `json:"price,omitempty"`
	Currency    string          `json:"currency,omitempty"`
	Itineraries json.RawMessage `json:"itineraries,omitempty"`
	Error       string          `json:"error,omitempty"`
}

// HotelOffer is a pass-through record from the hotel offers search.
type HotelOffer struct {
	Name   string          `json:"name,omitempty"`
	Rating string          `json:"rating,omitempty"`
	Offers json.RawMessage `json:"offers,omitempty"`
	Note   string          `json:"note,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// ErrAmadeusNotConfigured is returned by every search when credentials are missing.
var ErrAmadeusNotConfigured = errors.New("set AMAD_CLIENT_ID and AMAD_CLIENT_SECRET in .env")

// ─── Amadeus Client ───────────────────────────────────────────────────────────

type AmadeusClient struct {
	clientID     string
	clientSecret string
	baseURL      string
	accessToken  string
	tokenExpiry  time.Time
	mu           sync.Mutex
	httpClient   *http.Client
}

// NewAmadeusClient builds a client for the test environment unless env is
// "production". An empty baseURL override keeps the environment default.
func NewAmadeusClient(clientID, clientSecret, env, baseURL string) *AmadeusClient {
	if baseURL == "" {
		baseURL = "https://test.api.amadeus.com" // free test environment
		if env == "production" {
			baseURL = "https://api.amadeus.com"
		}
	}

	c := &AmadeusClient{
		clientID:     clientID,
		clientSecret: clientSecret,
		baseURL:      strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}

	if !c.Configured() {
		log.Println("⚠️  AMAD_CLIENT_ID or AMAD_CLIENT_SECRET not set — live searches will return error records")
	}
	return c
}

func (c *AmadeusClient) Configured() bool {
	return c.clientID != "" && c.clientSecret != ""
}

// ─── OAuth2 Token ─────────────────────────────────────────────────────────────

func (c *AmadeusClient) refreshToken(ctx context.Context) error {
	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", c.clientID)
	form.Set("client_secret", c.clientSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/security/oauth2/token",
		strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("token request failed (%d): %s", resp.StatusCode, string(body))
	}

	var result struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return fmt.Errorf("failed to parse token response: %w", err)
	}

	c.mu.Lock()
	c.accessToken = result.AccessToken
	c.tokenExpiry = time.Now().Add(time.Duration(result.ExpiresIn-30) * time.Second)
	c.mu.Unlock()

	return nil
}

func (c *AmadeusClient) getToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	expired := time.Now().After(c.tokenExpiry)
	token := c.accessToken
	c.mu.Unlock()

	if expired || token == "" {
		if err := c.refreshToken(ctx); err != nil {
			return "", err
		}
		c.mu.Lock()
		token = c.accessToken
		c.mu.Unlock()
	}
	return token, nil
}

func (c *AmadeusClient) get(ctx context.Context, path string) ([]byte, error) {
	token, err := c.getToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("auth failed: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("amadeus error (%d): %s", resp.StatusCode, string(respBody))
	}
	return respBody, nil
}

// ─── Flight Search ────────────────────────────────────────────────────────────

type amadeusFlightOffersResponse struct {
	Data []struct {
		ID    string `json:"id"`
		Price struct {
			Total    string `json:"total"`
			Currency string `json:"currency"`
		} `json:"price"`
		Itineraries json.RawMessage `json:"itineraries"`
	} `json:"data"`
}

// SearchFlights queries one-way flight offers for a single hop. At most
// maxOffers records are returned.
func (c *AmadeusClient) SearchFlights(ctx context.Context, origin, destination, departureDate string, adults, maxOffers int) ([]FlightOffer, error) {
	if !c.Configured() {
		return nil, ErrAmadeusNotConfigured
	}

	q := url.Values{}
	q.Set("originLocationCode", origin)
	q.Set("destinationLocationCode", destination)
	q.Set("departureDate", departureDate)
	q.Set("adults", fmt.Sprint(adults))
	q.Set("max", fmt.Sprint(maxOffers))

	body, err := c.get(ctx, "/v2/shopping/flight-offers?"+q.Encode())
	metrics.ObserveExternalCall("amadeus_flights", err)
	if err != nil {
		return nil, fmt.Errorf("flight search failed: %w", err)
	}

	var resp amadeusFlightOffersResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse flight offers: %w", err)
	}

	offers := make([]FlightOffer, 0, min(len(resp.Data), maxOffers))
	for i, o := range resp.Data {
		if i >= maxOffers {
			break
		}
		offers = append(offers, FlightOffer{
			ID:          o.ID,
			Price:       o.Price.Total,
			Currency:    o.Price.Currency,
			Itineraries: o.Itineraries,
		})
	}
	return offers, nil
}

// ─── Hotel Search ─────────────────────────────────────────────────────────────

// SearchHotels looks up hotel IDs for the city, then asks for offers on the
// first few of them. checkOut may be empty.
func (c *AmadeusClient) SearchHotels(ctx context.Context, cityCode, checkIn, checkOut string, size int) ([]HotelOffer, error) {
	if !c.Configured() {
		return nil, ErrAmadeusNotConfigured
	}

	hotelIDs, err := c.getHotelIDsByCity(ctx, cityCode)
	if err != nil {
		return nil, fmt.Errorf("hotel list failed: %w", err)
	}
	if len(hotelIDs) == 0 {
		return nil, fmt.Errorf("no hotels found for city %s", cityCode)
	}
	if len(hotelIDs) > 3 {
		hotelIDs = hotelIDs[:3]
	}

	return c.getHotelOffers(ctx, hotelIDs, checkIn, checkOut, size)
}

type amadeusHotelListResponse struct {
	Data []struct {
		HotelID string `json:"hotelId"`
		Name    string `json:"name"`
	} `json:"data"`
}

func (c *AmadeusClient) getHotelIDsByCity(ctx context.Context, cityCode string) ([]string, error) {
	path := "/v1/reference-data/locations/hotels/by-city?cityCode=" + url.QueryEscape(cityCode)

	body, err := c.get(ctx, path)
	metrics.ObserveExternalCall("amadeus_hotel_list", err)
	if err != nil {
		return nil, err
	}

	var resp amadeusHotelListResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse hotel list: %w", err)
	}

	ids := make([]string, 0, len(resp.Data))
	for _, h := range resp.Data {
		if h.HotelID != "" {
			ids = append(ids, h.HotelID)
		}
	}
	return ids, nil
}

type amadeusHotelOffersResponse struct {
	Data []struct {
		Hotel struct {
			HotelID string          `json:"hotelId"`
			Name    string          `json:"name"`
			Rating  json.RawMessage `json:"rating"`
		} `json:"hotel"`
		Offers json.RawMessage `json:"offers"`
	} `json:"data"`
}

func (c *AmadeusClient) getHotelOffers(ctx context.Context, hotelIDs []string, checkIn, checkOut string, size int) ([]HotelOffer, error) {
	q := url.Values{}
	q.Set("hotelIds", strings.Join(hotelIDs, ","))
	q.Set("adults", "1")
	q.Set("checkInDate", checkIn)
	if checkOut != "" {
		q.Set("checkOutDate", checkOut)
	}

	body, err := c.get(ctx, "/v3/shopping/hotel-offers?"+q.Encode())
	metrics.ObserveExternalCall("amadeus_hotel_offers", err)
	if err != nil {
		return nil, fmt.Errorf("hotel offers failed: %w", err)
	}

	var resp amadeusHotelOffersResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse hotel offers: %w", err)
	}

	hotels := make([]HotelOffer, 0, min(len(resp.Data), size))
	for i, item := range resp.Data {
		if i >= size {
			break
		}
		offers := item.Offers
		if len(offers) == 0 || string(offers) == "null" {
			offers = json.RawMessage("[]")
		}
		hotels = append(hotels, HotelOffer{
			Name:   item.Hotel.Name,
			Rating: parseRating(item.Hotel.Rating),
			Offers: offers,
		})
	}
	return hotels, nil
}

// ─── Helpers ──────────────────────────────────────────────────────────────────

// parseRating accepts both "4" and 4; Amadeus has returned either.
func parseRating(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}
