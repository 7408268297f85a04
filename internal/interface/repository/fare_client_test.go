package repository

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"farewatch/internal/domain/entity"
	"farewatch/internal/domain/repository"
	"farewatch/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSegment struct {
	carrier string
	at      string
}

type stubOffer struct {
	segments []stubSegment
	total    string
}

// stubProvider fakes the token and offer search endpoints
type stubProvider struct {
	server     *httptest.Server
	tokenHits  int
	searchHits int
	expiresIn  int
	offers     []stubOffer
	searchCode int
	lastQuery  map[string]string
}

func newStubProvider(t *testing.T) *stubProvider {
	t.Helper()
	p := &stubProvider{expiresIn: 1799, searchCode: http.StatusOK}

	mux := http.NewServeMux()
	mux.HandleFunc(tokenPath, func(w http.ResponseWriter, r *http.Request) {
		p.tokenHits++
		require.Equal(t, "POST", r.Method)
		require.NoError(t, r.ParseForm())
		require.Equal(t, "client_credentials", r.PostForm.Get("grant_type"))
		json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token": "test-token",
			"expires_in":   p.expiresIn,
		})
	})
	mux.HandleFunc(searchPath, func(w http.ResponseWriter, r *http.Request) {
		p.searchHits++
		require.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		p.lastQuery = map[string]string{}
		for key := range r.URL.Query() {
			p.lastQuery[key] = r.URL.Query().Get(key)
		}
		if p.searchCode != http.StatusOK {
			w.WriteHeader(p.searchCode)
			json.NewEncoder(w).Encode(map[string]interface{}{"errors": []string{"boom"}})
			return
		}

		data := make([]map[string]interface{}, 0, len(p.offers))
		for _, offer := range p.offers {
			segments := make([]map[string]interface{}, 0, len(offer.segments))
			for _, seg := range offer.segments {
				segments = append(segments, map[string]interface{}{
					"carrierCode": seg.carrier,
					"departure":   map[string]string{"at": seg.at},
				})
			}
			data = append(data, map[string]interface{}{
				"itineraries": []map[string]interface{}{{"segments": segments}},
				"price":       map[string]string{"grandTotal": offer.total, "currency": "USD"},
			})
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"data": data})
	})

	p.server = httptest.NewServer(mux)
	t.Cleanup(p.server.Close)
	return p
}

func (p *stubProvider) client() repository.FareProvider {
	return NewAmadeusFareClient(p.server.URL, "id", "secret", "USD", NewTokenCache(), logger.NewNop())
}

func baseQuery() entity.FareQuery {
	return entity.FareQuery{
		DepartureAirport: "JFK",
		ArrivalAirport:   "LAX",
		DepartureDate:    time.Date(2026, 11, 20, 0, 0, 0, 0, time.UTC),
	}
}

func TestSearchBestPicksClosestDepartureToPreferredTime(t *testing.T) {
	p := newStubProvider(t)
	p.offers = []stubOffer{
		{segments: []stubSegment{{"AA", "2026-11-20T08:00:00"}}, total: "320.00"},
		{segments: []stubSegment{{"AA", "2026-11-20T13:00:00"}}, total: "350.00"},
		{segments: []stubSegment{{"AA", "2026-11-20T19:00:00"}}, total: "340.00"},
	}

	query := baseQuery()
	query.PreferredTime = "12:30"

	quote, err := p.client().SearchBest(context.Background(), query)
	require.NoError(t, err)
	// 13:00 is 30 minutes away; 08:00 and 19:00 are 270 and 390
	assert.InDelta(t, 350.00, quote.CurrentPrice, 1e-9)
	assert.Equal(t, "USD", quote.Currency)
	assert.Equal(t, "10", p.lastQuery["max"], "preferred-time matching needs a richer candidate set")
}

func TestSearchBestPreferredTimeTieGoesToFirstSeen(t *testing.T) {
	p := newStubProvider(t)
	p.offers = []stubOffer{
		{segments: []stubSegment{{"AA", "2026-11-20T12:00:00"}}, total: "310.00"},
		{segments: []stubSegment{{"AA", "2026-11-20T13:00:00"}}, total: "290.00"},
	}

	query := baseQuery()
	query.PreferredTime = "12:30"

	quote, err := p.client().SearchBest(context.Background(), query)
	require.NoError(t, err)
	assert.InDelta(t, 310.00, quote.CurrentPrice, 1e-9)
}

func TestSearchBestWithoutPreferredTimeTakesFirstCandidate(t *testing.T) {
	p := newStubProvider(t)
	p.offers = []stubOffer{
		{segments: []stubSegment{{"UA", "2026-11-20T06:15:00"}}, total: "280.50"},
	}

	quote, err := p.client().SearchBest(context.Background(), baseQuery())
	require.NoError(t, err)
	assert.InDelta(t, 280.50, quote.CurrentPrice, 1e-9)
	assert.Equal(t, "1", p.lastQuery["max"])
}

func TestSearchBestAirlineFilterExcludesAllCandidates(t *testing.T) {
	p := newStubProvider(t)
	p.offers = []stubOffer{
		{segments: []stubSegment{{"AA", "2026-11-20T08:00:00"}}, total: "320.00"},
		{segments: []stubSegment{{"UA", "2026-11-20T13:00:00"}}, total: "350.00"},
	}

	query := baseQuery()
	query.Airline = "DL"

	_, err := p.client().SearchBest(context.Background(), query)
	assert.ErrorIs(t, err, repository.ErrOfferNotFound)
}

func TestSearchBestAirlineFilterRequiresEveryLeg(t *testing.T) {
	p := newStubProvider(t)
	p.offers = []stubOffer{
		// Mixed-carrier itinerary must not pass the filter
		{segments: []stubSegment{{"DL", "2026-11-20T08:00:00"}, {"AA", "2026-11-20T11:00:00"}}, total: "299.00"},
		{segments: []stubSegment{{"DL", "2026-11-20T09:00:00"}, {"DL", "2026-11-20T12:00:00"}}, total: "330.00"},
	}

	query := baseQuery()
	query.Airline = "DL"

	quote, err := p.client().SearchBest(context.Background(), query)
	require.NoError(t, err)
	assert.InDelta(t, 330.00, quote.CurrentPrice, 1e-9)
	assert.Equal(t, "DL", p.lastQuery["includedAirlineCodes"])
}

func TestSearchBestRoundTripSendsReturnDate(t *testing.T) {
	p := newStubProvider(t)
	p.offers = []stubOffer{
		{segments: []stubSegment{{"AA", "2026-11-20T08:00:00"}}, total: "620.00"},
	}

	query := baseQuery()
	returnDate := time.Date(2026, 11, 27, 0, 0, 0, 0, time.UTC)
	query.ReturnDate = &returnDate

	_, err := p.client().SearchBest(context.Background(), query)
	require.NoError(t, err)
	assert.Equal(t, "2026-11-27", p.lastQuery["returnDate"])
}

func TestSearchBestTreats4xxAsNotFound(t *testing.T) {
	p := newStubProvider(t)
	p.searchCode = http.StatusBadRequest

	_, err := p.client().SearchBest(context.Background(), baseQuery())
	assert.ErrorIs(t, err, repository.ErrOfferNotFound)
}

func TestSearchBestPropagatesServerErrors(t *testing.T) {
	p := newStubProvider(t)
	p.searchCode = http.StatusInternalServerError

	_, err := p.client().SearchBest(context.Background(), baseQuery())
	require.Error(t, err)
	assert.NotErrorIs(t, err, repository.ErrOfferNotFound)
}

func TestSearchBestEmptyCandidateSetIsNotFound(t *testing.T) {
	p := newStubProvider(t)
	p.offers = nil

	_, err := p.client().SearchBest(context.Background(), baseQuery())
	assert.ErrorIs(t, err, repository.ErrOfferNotFound)
}

func TestBearerTokenIsCachedAcrossLookups(t *testing.T) {
	p := newStubProvider(t)
	p.offers = []stubOffer{
		{segments: []stubSegment{{"AA", "2026-11-20T08:00:00"}}, total: "320.00"},
	}
	client := p.client()

	for i := 0; i < 3; i++ {
		_, err := client.SearchBest(context.Background(), baseQuery())
		require.NoError(t, err)
	}

	assert.Equal(t, 1, p.tokenHits, "a valid token must be reused")
	assert.Equal(t, 3, p.searchHits)
}

func TestBearerTokenRefreshedInsideExpiryMargin(t *testing.T) {
	p := newStubProvider(t)
	p.expiresIn = 5 // shorter than the 10s refresh margin
	p.offers = []stubOffer{
		{segments: []stubSegment{{"AA", "2026-11-20T08:00:00"}}, total: "320.00"},
	}
	client := p.client()

	_, err := client.SearchBest(context.Background(), baseQuery())
	require.NoError(t, err)
	_, err = client.SearchBest(context.Background(), baseQuery())
	require.NoError(t, err)

	assert.Equal(t, 2, p.tokenHits, "a token inside the refresh margin must be retired")
}
