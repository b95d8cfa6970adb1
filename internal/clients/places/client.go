package places

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/vistral/rentals-backend/internal/platform/logger"
)

// Client proxies the third-party place-autocomplete API. The front end never
// talks to the provider directly; the API key stays server-side.
type Client interface {
	Autocomplete(ctx context.Context, input string) ([]Prediction, error)
	Details(ctx context.Context, placeID string) (*PlaceDetails, error)
}

type Prediction struct {
	PlaceID     string `json:"place_id"`
	Description string `json:"description"`
}

type PlaceDetails struct {
	PlaceID          string  `json:"place_id"`
	FormattedAddress string  `json:"formatted_address"`
	City             string  `json:"city"`
	PostalCode       string  `json:"postal_code"`
	Latitude         float64 `json:"latitude"`
	Longitude        float64 `json:"longitude"`
}

type client struct {
	log     *logger.Logger
	http    *http.Client
	baseURL string
	apiKey  string
}

func NewClient(log *logger.Logger) (Client, error) {
	apiKey := strings.TrimSpace(os.Getenv("PLACES_API_KEY"))
	if apiKey == "" {
		return nil, fmt.Errorf("missing env var PLACES_API_KEY")
	}
	baseURL := strings.TrimSpace(os.Getenv("PLACES_API_BASE_URL"))
	if baseURL == "" {
		baseURL = "https://maps.googleapis.com/maps/api/place"
	}
	return &client{
		log:     log.With("client", "PlacesClient"),
		http:    &http.Client{Timeout: 10 * time.Second},
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
	}, nil
}

func (c *client) get(ctx context.Context, path string, params url.Values, out any) error {
	params.Set("key", c.apiKey)
	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("places request: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("places API status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return json.Unmarshal(body, out)
}

func (c *client) Autocomplete(ctx context.Context, input string) ([]Prediction, error) {
	var payload struct {
		Status      string `json:"status"`
		Predictions []struct {
			PlaceID     string `json:"place_id"`
			Description string `json:"description"`
		} `json:"predictions"`
	}
	params := url.Values{}
	params.Set("input", input)
	if err := c.get(ctx, "/autocomplete/json", params, &payload); err != nil {
		return nil, err
	}
	if payload.Status != "OK" && payload.Status != "ZERO_RESULTS" {
		return nil, fmt.Errorf("places API status: %s", payload.Status)
	}
	out := make([]Prediction, 0, len(payload.Predictions))
	for _, p := range payload.Predictions {
		out = append(out, Prediction{PlaceID: p.PlaceID, Description: p.Description})
	}
	return out, nil
}

func (c *client) Details(ctx context.Context, placeID string) (*PlaceDetails, error) {
	var payload struct {
		Status string `json:"status"`
		Result struct {
			PlaceID           string `json:"place_id"`
			FormattedAddress  string `json:"formatted_address"`
			AddressComponents []struct {
				LongName string   `json:"long_name"`
				Types    []string `json:"types"`
			} `json:"address_components"`
			Geometry struct {
				Location struct {
					Lat float64 `json:"lat"`
					Lng float64 `json:"lng"`
				} `json:"location"`
			} `json:"geometry"`
		} `json:"result"`
	}
	params := url.Values{}
	params.Set("place_id", placeID)
	if err := c.get(ctx, "/details/json", params, &payload); err != nil {
		return nil, err
	}
	if payload.Status != "OK" {
		return nil, fmt.Errorf("places API status: %s", payload.Status)
	}
	details := &PlaceDetails{
		PlaceID:          payload.Result.PlaceID,
		FormattedAddress: payload.Result.FormattedAddress,
		Latitude:         payload.Result.Geometry.Location.Lat,
		Longitude:        payload.Result.Geometry.Location.Lng,
	}
	for _, comp := range payload.Result.AddressComponents {
		for _, t := range comp.Types {
			switch t {
			case "locality":
				details.City = comp.LongName
			case "postal_code":
				details.PostalCode = comp.LongName
			}
		}
	}
	return details, nil
}
