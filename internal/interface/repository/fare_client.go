package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"farewatch/internal/domain/entity"
	"farewatch/internal/domain/repository"
	"farewatch/pkg/logger"
)

const (
	tokenPath  = "/v1/security/oauth2/token"
	searchPath = "/v2/shopping/flight-offers"

	// Candidate counts per query shape: picking a best-time match needs a
	// richer sample than taking the provider's cheapest-first head.
	maxCandidates     = 10
	minimalCandidates = 1

	departureAtLayout = "2006-01-02T15:04:05"
)

// AmadeusFareClient implements the FareProvider interface against an
// Amadeus-style offer search API
type AmadeusFareClient struct {
	baseURL      string
	clientID     string
	clientSecret string
	currency     string
	httpClient   *http.Client
	tokens       *TokenCache
	logger       logger.Logger
}

// NewAmadeusFareClient creates a new fare client with its own token cache
func NewAmadeusFareClient(baseURL, clientID, clientSecret, currency string, tokens *TokenCache, logger logger.Logger) repository.FareProvider {
	return &AmadeusFareClient{
		baseURL:      strings.TrimRight(baseURL, "/"),
		clientID:     clientID,
		clientSecret: clientSecret,
		currency:     currency,
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		tokens:       tokens,
		logger:       logger,
	}
}

// SearchBest looks up offers for the query and selects the single best match.
// A legitimately empty result set, including one emptied by the airline
// filter, is reported as repository.ErrOfferNotFound.
func (c *AmadeusFareClient) SearchBest(ctx context.Context, query entity.FareQuery) (*entity.FareQuote, error) {
	offers, err := c.searchOffers(ctx, query)
	if err != nil {
		return nil, err
	}

	if query.Airline != "" {
		offers = filterByAirline(offers, query.Airline)
		if len(offers) == 0 {
			// The desired carrier was absent from the sample; do not broaden
			c.logger.Debug("Airline filter excluded all candidates",
				"airline", query.Airline,
				"route", query.DepartureAirport+"-"+query.ArrivalAirport)
			return nil, repository.ErrOfferNotFound
		}
	}

	best := selectBestOffer(offers, query.PreferredTime)
	if best == nil {
		return nil, repository.ErrOfferNotFound
	}

	return &entity.FareQuote{
		CurrentPrice: best.Price,
		Currency:     best.Currency,
	}, nil
}

// searchOffers issues one offer search and decodes the candidate list
func (c *AmadeusFareClient) searchOffers(ctx context.Context, query entity.FareQuery) ([]entity.FareOffer, error) {
	token, err := c.bearerToken(ctx)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("originLocationCode", query.DepartureAirport)
	params.Set("destinationLocationCode", query.ArrivalAirport)
	params.Set("departureDate", query.DepartureDate.Format("2006-01-02"))
	if query.ReturnDate != nil {
		params.Set("returnDate", query.ReturnDate.Format("2006-01-02"))
	}
	params.Set("adults", "1")
	params.Set("currencyCode", c.currency)
	if query.Airline != "" {
		params.Set("includedAirlineCodes", query.Airline)
	}
	if query.PreferredTime != "" {
		params.Set("max", strconv.Itoa(maxCandidates))
	} else {
		params.Set("max", strconv.Itoa(minimalCandidates))
	}

	searchURL := fmt.Sprintf("%s%s?%s", c.baseURL, searchPath, params.Encode())
	req, err := http.NewRequestWithContext(ctx, "GET", searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create search request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("offer search request failed: %w", err)
	}
	defer resp.Body.Close()

	// The provider answers "no offers for this route/date" with a 4xx; that
	// is a normal outcome, not a transport failure
	if resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusNotFound {
		return nil, repository.ErrOfferNotFound
	}
	if resp.StatusCode != http.StatusOK {
		var errorBody map[string]interface{}
		json.NewDecoder(resp.Body).Decode(&errorBody)
		return nil, fmt.Errorf("offer search returned status %d: %v", resp.StatusCode, errorBody)
	}

	var response struct {
		Data []struct {
			Itineraries []struct {
				Segments []struct {
					CarrierCode string `json:"carrierCode"`
					Departure   struct {
						At string `json:"at"`
					} `json:"departure"`
				} `json:"segments"`
			} `json:"itineraries"`
			Price struct {
				GrandTotal string `json:"grandTotal"`
				Currency   string `json:"currency"`
			} `json:"price"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("failed to decode offer search response: %w", err)
	}

	offers := make([]entity.FareOffer, 0, len(response.Data))
	for _, d := range response.Data {
		price, err := strconv.ParseFloat(d.Price.GrandTotal, 64)
		if err != nil {
			c.logger.Warn("Skipping offer with unparseable price", "grandTotal", d.Price.GrandTotal)
			continue
		}

		offer := entity.FareOffer{
			Price:    price,
			Currency: d.Price.Currency,
		}
		for _, itinerary := range d.Itineraries {
			for _, segment := range itinerary.Segments {
				departureAt, err := parseDepartureAt(segment.Departure.At)
				if err != nil {
					c.logger.Warn("Skipping segment with unparseable departure", "at", segment.Departure.At)
					continue
				}
				offer.Legs = append(offer.Legs, entity.FareLeg{
					CarrierCode: segment.CarrierCode,
					DepartureAt: departureAt,
				})
			}
		}
		if len(offer.Legs) == 0 {
			continue
		}
		offers = append(offers, offer)
	}

	if len(offers) == 0 {
		return nil, repository.ErrOfferNotFound
	}
	return offers, nil
}

// bearerToken returns a valid access token, refreshing through the token
// endpoint when the cached one is missing or near expiry
func (c *AmadeusFareClient) bearerToken(ctx context.Context) (string, error) {
	if token, ok := c.tokens.Get(); ok {
		return token, nil
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", c.clientID)
	form.Set("client_secret", c.clientSecret)

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+tokenPath, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errorBody map[string]interface{}
		json.NewDecoder(resp.Body).Decode(&errorBody)
		return "", fmt.Errorf("token endpoint returned status %d: %v", resp.StatusCode, errorBody)
	}

	var tokenResponse struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tokenResponse); err != nil {
		return "", fmt.Errorf("failed to decode token response: %w", err)
	}
	if tokenResponse.AccessToken == "" {
		return "", fmt.Errorf("token endpoint returned an empty access token")
	}

	c.tokens.Set(tokenResponse.AccessToken, tokenResponse.ExpiresIn)
	c.logger.Debug("Fare API token refreshed", "expiresIn", tokenResponse.ExpiresIn)

	return tokenResponse.AccessToken, nil
}

// filterByAirline keeps only offers whose every itinerary leg uses the carrier
func filterByAirline(offers []entity.FareOffer, carrier string) []entity.FareOffer {
	filtered := make([]entity.FareOffer, 0, len(offers))
	for _, offer := range offers {
		if offer.OperatedEntirelyBy(carrier) {
			filtered = append(filtered, offer)
		}
	}
	return filtered
}

// selectBestOffer picks the offer whose first leg departs closest to the
// preferred time of day, ties going to the earlier-listed offer. Without a
// preferred time the first candidate wins, the provider listing cheapest
// offers first.
func selectBestOffer(offers []entity.FareOffer, preferredTime string) *entity.FareOffer {
	if len(offers) == 0 {
		return nil
	}
	if preferredTime == "" {
		return &offers[0]
	}

	preferred, err := time.Parse("15:04", preferredTime)
	if err != nil {
		return &offers[0]
	}
	preferredMinutes := preferred.Hour()*60 + preferred.Minute()

	best := &offers[0]
	bestDiff := timeOfDayDiff(offers[0].Legs[0].DepartureAt, preferredMinutes)
	for i := 1; i < len(offers); i++ {
		if diff := timeOfDayDiff(offers[i].Legs[0].DepartureAt, preferredMinutes); diff < bestDiff {
			best = &offers[i]
			bestDiff = diff
		}
	}
	return best
}

// timeOfDayDiff is the absolute distance in minutes between a departure's
// time of day and the preferred minute of day
func timeOfDayDiff(departure time.Time, preferredMinutes int) int {
	departureMinutes := departure.Hour()*60 + departure.Minute()
	diff := departureMinutes - preferredMinutes
	if diff < 0 {
		diff = -diff
	}
	return diff
}

// parseDepartureAt handles the provider's zoneless timestamps as well as
// fully qualified RFC3339 ones
func parseDepartureAt(value string) (time.Time, error) {
	if t, err := time.Parse(departureAtLayout, value); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}
