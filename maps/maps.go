// Package maps renders an embeddable Leaflet map with one marker per city.
package maps

import (
	"bytes"
	"fmt"
	"hash/fnv"
	"html/template"
	"log"
	"strings"
)

// Point is a latitude/longitude pair.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// DefaultPoint centres the map when the first city is missing from the
// coordinates table.
var DefaultPoint = Point{Lat: 20.0, Lng: 0.0}

var cityCoords = map[string]Point{
	"Paris":  {48.8566, 2.3522},
	"Rome":   {41.9028, 12.4964},
	"London": {51.5074, -0.1278},
	"Delhi":  {28.6139, 77.2090},
	"Tokyo":  {35.6762, 139.6503},
}

const zoom = 4

// Marker is one pin on the map.
type Marker struct {
	City  string `json:"city"`
	Point Point  `json:"point"`
}

// Locate returns the known coordinates of city, or DefaultPoint.
func Locate(city string) Point {
	if p, ok := cityCoords[city]; ok {
		return p
	}
	return DefaultPoint
}

// Markers places every city in order. Unknown cities are pinned at the map
// centre, which is the first city's location.
func Markers(cities []string) []Marker {
	out := make([]Marker, 0, len(cities))
	if len(cities) == 0 {
		return out
	}
	center := Locate(cities[0])
	for _, c := range cities {
		p, ok := cityCoords[c]
		if !ok {
			p = center
		}
		out = append(out, Marker{City: c, Point: p})
	}
	return out
}

var mapTmpl = template.Must(template.New("map").Parse(`<div class="trip-map">
<link rel="stylesheet" href="https://unpkg.com/leaflet@1.9.4/dist/leaflet.css"/>
<script src="https://unpkg.com/leaflet@1.9.4/dist/leaflet.js"></script>
<div id="{{.ID}}" style="width:100%;height:420px;"></div>
<script>
(function () {
  var m = L.map({{.ID}}).setView({{.Center}}, {{.Zoom}});
  L.tileLayer("https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png", {
    attribution: "&copy; OpenStreetMap contributors"
  }).addTo(m);
  {{.Markers}}.forEach(function (mk) {
    var label = document.createElement("span");
    label.textContent = mk.city;
    L.marker(mk.point).bindPopup(label).addTo(m);
  });
})();
</script>
</div>`))

// Render returns the map fragment for cities, or "" when there are none.
// The map is centred on the first city.
func Render(cities []string) string {
	if len(cities) == 0 {
		return ""
	}

	markers := Markers(cities)
	data := struct {
		ID      string
		Center  Point
		Zoom    int
		Markers []Marker
	}{
		ID:      mapID(cities),
		Center:  markers[0].Point,
		Zoom:    zoom,
		Markers: markers,
	}

	var buf bytes.Buffer
	if err := mapTmpl.Execute(&buf, data); err != nil {
		log.Printf("❌ map render failed: %v", err)
		return ""
	}
	return buf.String()
}

// mapID keeps element IDs stable per city list so several maps can share a page.
func mapID(cities []string) string {
	h := fnv.New32a()
	h.Write([]byte(strings.Join(cities, "\x00")))
	return fmt.Sprintf("map_%08x", h.Sum32())
}
