package maps

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderEmpty(t *testing.T) {
	assert.Equal(t, "", Render(nil))
	assert.Equal(t, "", Render([]string{}))
}

func TestRenderKnownCities(t *testing.T) {
	out := Render([]string{"Paris", "Rome"})

	assert.Contains(t, out, `setView({"lat":48.8566,"lng":2.3522}`)
	assert.Contains(t, out, `{"city":"Paris","point":{"lat":48.8566,"lng":2.3522}}`)
	assert.Contains(t, out, `{"city":"Rome","point":{"lat":41.9028,"lng":12.4964}}`)
}

func TestRenderUnknownCityUsesDefaultPoint(t *testing.T) {
	assert.NotPanics(t, func() {
		out := Render([]string{"Atlantis"})
		assert.Contains(t, out, `{"city":"Atlantis","point":{"lat":20,"lng":0}}`)
	})
}

func TestRenderEscapesCityNames(t *testing.T) {
	out := Render([]string{`</script><b>x</b>`})

	assert.NotContains(t, out, "</script><b>")
}

func TestRenderUnknownCityFollowsCenter(t *testing.T) {
	out := Render([]string{"Paris", "Atlantis"})

	assert.Contains(t, out, `{"city":"Atlantis","point":{"lat":48.8566,"lng":2.3522}}`)
}

func TestLocate(t *testing.T) {
	assert.Equal(t, Point{51.5074, -0.1278}, Locate("London"))
	assert.Equal(t, DefaultPoint, Locate("london"))
	assert.Equal(t, DefaultPoint, Locate(""))
}

func TestMarkersKeepOrder(t *testing.T) {
	ms := Markers([]string{"Tokyo", "Delhi", "Nowhere"})

	var names []string
	for _, m := range ms {
		names = append(names, m.City)
	}
	assert.Equal(t, "Tokyo,Delhi,Nowhere", strings.Join(names, ","))
	assert.Equal(t, Locate("Tokyo"), ms[2].Point)
	assert.Empty(t, Markers(nil))
}

func TestRenderIDStable(t *testing.T) {
	assert.Equal(t, mapID([]string{"Paris"}), mapID([]string{"Paris"}))
	assert.NotEqual(t, mapID([]string{"Paris"}), mapID([]string{"Rome"}))
}
