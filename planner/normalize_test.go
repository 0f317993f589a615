package planner

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestNormalizeHops(t *testing.T) {
	s := Normalize(TripRequest{
		Destinations: "Paris -> Rome -> London",
		Dates:        "d1,d2",
		Budget:       2000,
		Interests:    "history",
	})

	assert.Equal(t, []string{"Paris", "Rome", "London"}, s.Cities)
	assert.Equal(t, []Hop{
		{From: "Paris", To: "Rome", Date: strPtr("d1")},
		{From: "Rome", To: "London", Date: strPtr("d2")},
	}, s.Hops)
	assert.Equal(t, 2000, s.Budget)
	assert.Equal(t, "history", s.Interests)
}

func TestNormalizeMissingDates(t *testing.T) {
	s := Normalize(TripRequest{Destinations: "A -> B -> C -> D", Dates: "2025-01-01"})

	require.Len(t, s.Hops, 3)
	assert.Equal(t, strPtr("2025-01-01"), s.Hops[0].Date)
	assert.Nil(t, s.Hops[1].Date)
	assert.Nil(t, s.Hops[2].Date)
}

func TestNormalizeDropsBlankParts(t *testing.T) {
	s := Normalize(TripRequest{Destinations: " Paris ->  -> Rome ->", Dates: " , 2025-02-02 ,"})

	assert.Equal(t, []string{"Paris", "Rome"}, s.Cities)
	require.Len(t, s.Hops, 1)
	assert.Equal(t, strPtr("2025-02-02"), s.Hops[0].Date)
}

func TestNormalizeEmpty(t *testing.T) {
	s := Normalize(TripRequest{})

	assert.NotNil(t, s.Cities)
	assert.Empty(t, s.Cities)
	assert.NotNil(t, s.Hops)
	assert.Empty(t, s.Hops)
}

func TestNormalizeSingleCity(t *testing.T) {
	s := Normalize(TripRequest{Destinations: "Tokyo", Dates: "2025-03-03"})

	assert.Equal(t, []string{"Tokyo"}, s.Cities)
	assert.Empty(t, s.Hops)
}

func TestHopDateEncodesAsNull(t *testing.T) {
	b, err := json.Marshal(Hop{From: "A", To: "B"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"from":"A","to":"B","date":null}`, string(b))
}
