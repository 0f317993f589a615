package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAmadeus serves the token, flight, hotel-list and hotel-offer endpoints.
func fakeAmadeus(t *testing.T, hotelIDs []string) (*httptest.Server, *[]string) {
	t.Helper()
	var seen []string
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/security/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "client_credentials", r.PostForm.Get("grant_type"))
		json.NewEncoder(w).Encode(map[string]any{"access_token": "tok", "expires_in": 1799})
	})
	mux.HandleFunc("/v2/shopping/flight-offers", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		seen = append(seen, r.URL.RawQuery)
		w.Write([]byte(`{"data":[
			{"id":"1","price":{"total":"101.50","currency":"EUR"},"itineraries":[{"duration":"PT2H"}]},
			{"id":"2","price":{"total":"120.00","currency":"EUR"},"itineraries":[]},
			{"id":"3","price":{"total":"130.00","currency":"EUR"},"itineraries":[]},
			{"id":"4","price":{"total":"140.00","currency":"EUR"},"itineraries":[]}
		]}`))
	})
	mux.HandleFunc("/v1/reference-data/locations/hotels/by-city", func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.URL.RawQuery)
		var data []map[string]string
		for _, id := range hotelIDs {
			data = append(data, map[string]string{"hotelId": id, "name": "H " + id})
		}
		json.NewEncoder(w).Encode(map[string]any{"data": data})
	})
	mux.HandleFunc("/v3/shopping/hotel-offers", func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.URL.RawQuery)
		w.Write([]byte(`{"data":[
			{"hotel":{"hotelId":"A","name":"Hotel A","rating":"4"},"offers":[{"id":"o1"}]},
			{"hotel":{"hotelId":"B","name":"Hotel B","rating":5}}
		]}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &seen
}

func TestAmadeusSearchFlights(t *testing.T) {
	srv, seen := fakeAmadeus(t, nil)
	c := NewAmadeusClient("id", "secret", "test", srv.URL)

	offers, err := c.SearchFlights(context.Background(), "PAR", "ROM", "2025-09-10", 1, 3)
	require.NoError(t, err)
	require.Len(t, offers, 3)
	assert.Equal(t, "1", offers[0].ID)
	assert.Equal(t, "101.50", offers[0].Price)
	assert.Equal(t, "EUR", offers[0].Currency)
	assert.JSONEq(t, `[{"duration":"PT2H"}]`, string(offers[0].Itineraries))

	require.Len(t, *seen, 1)
	assert.Contains(t, (*seen)[0], "originLocationCode=PAR")
	assert.Contains(t, (*seen)[0], "destinationLocationCode=ROM")
	assert.Contains(t, (*seen)[0], "max=3")
}

func TestAmadeusSearchHotelsUsesCityHotelIDs(t *testing.T) {
	srv, seen := fakeAmadeus(t, []string{"LONH1", "LONH2", "LONH3", "LONH4"})
	c := NewAmadeusClient("id", "secret", "test", srv.URL)

	hotels, err := c.SearchHotels(context.Background(), "LON", "2025-09-13", "", 8)
	require.NoError(t, err)
	require.Len(t, hotels, 2)
	assert.Equal(t, "Hotel A", hotels[0].Name)
	assert.Equal(t, "4", hotels[0].Rating)
	assert.Equal(t, "5", hotels[1].Rating)
	assert.JSONEq(t, `[]`, string(hotels[1].Offers))

	require.Len(t, *seen, 2)
	assert.Equal(t, "cityCode=LON", (*seen)[0])
	assert.Contains(t, (*seen)[1], "hotelIds=LONH1%2CLONH2%2CLONH3")
	assert.NotContains(t, (*seen)[1], "checkOutDate")
}

func TestAmadeusSearchHotelsNoneInCity(t *testing.T) {
	srv, _ := fakeAmadeus(t, nil)
	c := NewAmadeusClient("id", "secret", "test", srv.URL)

	_, err := c.SearchHotels(context.Background(), "ATL", "2025-09-13", "", 8)
	assert.ErrorContains(t, err, "no hotels found for city ATL")
}

func TestAmadeusNotConfigured(t *testing.T) {
	c := NewAmadeusClient("", "", "test", "")

	_, err := c.SearchFlights(context.Background(), "PAR", "ROM", "2025-09-10", 1, 3)
	assert.ErrorIs(t, err, ErrAmadeusNotConfigured)
	_, err = c.SearchHotels(context.Background(), "ROM", "2025-09-10", "", 8)
	assert.ErrorIs(t, err, ErrAmadeusNotConfigured)
}

func TestAmadeusUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/token") {
			w.Write([]byte(`{"access_token":"tok","expires_in":1799}`))
			return
		}
		http.Error(w, `{"errors":[{"title":"INVALID DATE"}]}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	c := NewAmadeusClient("id", "secret", "test", srv.URL)
	_, err := c.SearchFlights(context.Background(), "PAR", "ROM", "yesterday", 1, 3)
	assert.ErrorContains(t, err, "amadeus error (400)")
}

func TestHuggingFaceEmbed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/pipeline/feature-extraction/sentence-transformers/all-MiniLM-L6-v2", r.URL.Path)
		assert.Equal(t, "Bearer hf_key", r.Header.Get("Authorization"))
		var req hfEmbedRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, []string{"a", "b"}, req.Inputs)
		assert.True(t, req.Options.WaitForModel)
		w.Write([]byte(`[[0.1,0.2],[0.3,0.4]]`))
	}))
	defer srv.Close()

	c := NewHuggingFaceClient("hf_key", "", "", srv.URL)
	vecs, err := c.Embed(context.Background(), []string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{0.1, 0.2}, {0.3, 0.4}}, vecs)
}

func TestHuggingFaceGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/mistralai/Mistral-7B-Instruct-v0.3", r.URL.Path)
		w.Write([]byte(`[{"generated_text":"Day 1: Louvre"}]`))
	}))
	defer srv.Close()

	c := NewHuggingFaceClient("hf_key", "", "", srv.URL)
	text, err := c.Generate(context.Background(), "plan")
	require.NoError(t, err)
	assert.Equal(t, "Day 1: Louvre", text)
}

func TestHuggingFaceErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewHuggingFaceClient("hf_key", "", "", srv.URL).Generate(context.Background(), "plan")
	assert.ErrorContains(t, err, "is loading")

	_, err = NewHuggingFaceClient("", "", "", srv.URL).Embed(context.Background(), []string{"x"})
	assert.ErrorContains(t, err, "API key not configured")
}

type fakeInvoker struct {
	input *bedrockruntime.InvokeModelInput
	body  string
	err   error
}

func (f *fakeInvoker) InvokeModel(_ context.Context, in *bedrockruntime.InvokeModelInput, _ ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error) {
	f.input = in
	if f.err != nil {
		return nil, f.err
	}
	return &bedrockruntime.InvokeModelOutput{Body: []byte(f.body)}, nil
}

func TestBedrockGenerateMistral(t *testing.T) {
	inv := &fakeInvoker{body: `{"outputs":[{"text":"Day 1: Pantheon"}]}`}
	c := NewBedrockClientWith(inv, "mistral.mistral-large-2407-v1:0")

	text, err := c.Generate(context.Background(), "plan Rome")
	require.NoError(t, err)
	assert.Equal(t, "Day 1: Pantheon", text)

	assert.Equal(t, "mistral.mistral-large-2407-v1:0", *inv.input.ModelId)
	var body map[string]any
	require.NoError(t, json.Unmarshal(inv.input.Body, &body))
	assert.Contains(t, body["prompt"], "plan Rome")
}

func TestBedrockFamilies(t *testing.T) {
	tests := []struct {
		model string
		body  string
		want  string
	}{
		{"anthropic.claude-3-haiku-20240307-v1:0", `{"content":[{"text":"A"}]}`, "A"},
		{"us.anthropic.claude-3-haiku-20240307-v1:0", `{"content":[{"text":"B"}]}`, "B"},
		{"amazon.titan-text-express-v1", `{"results":[{"outputText":"C"}]}`, "C"},
		{"meta.llama3-70b-instruct-v1:0", `{"generation":"D"}`, "D"},
	}
	for _, tt := range tests {
		c := NewBedrockClientWith(&fakeInvoker{body: tt.body}, tt.model)
		got, err := c.Generate(context.Background(), "p")
		require.NoError(t, err, tt.model)
		assert.Equal(t, tt.want, got, tt.model)
	}
}

func TestBedrockErrors(t *testing.T) {
	_, err := NewBedrockClientWith(&fakeInvoker{err: errors.New("throttled")}, "meta.llama3-70b-instruct-v1:0").
		Generate(context.Background(), "p")
	assert.ErrorContains(t, err, "throttled")

	_, err = NewBedrockClientWith(&fakeInvoker{body: `{"generation":""}`}, "meta.llama3-70b-instruct-v1:0").
		Generate(context.Background(), "p")
	assert.ErrorContains(t, err, "empty response")

	_, err = NewBedrockClientWith(&fakeInvoker{}, "cohere.command-r").Generate(context.Background(), "p")
	assert.ErrorContains(t, err, "unsupported bedrock model family")
}

func TestDisabledGenerator(t *testing.T) {
	_, err := DisabledGenerator{}.Generate(context.Background(), "p")
	assert.Error(t, err)
	assert.Equal(t, "none", DisabledGenerator{}.Name())
}

func TestGenerateItineraryPDF(t *testing.T) {
	pdf, err := GenerateItineraryPDF(ItineraryPDFData{
		Destinations: "Paris -> München",
		Dates:        "2025-09-10",
		Budget:       2000,
		Interests:    "art",
		Itinerary:    strings.Repeat("Day 1: Explore Paris\n", 200),
		Tips:         "- café tips (source: blog)",
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF-")))
}
