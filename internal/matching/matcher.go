// Package matching selects the closest hospital that has a free ambulance.
//
// Distance is the planar hypotenuse of the coordinate deltas measured to the
// hospital, not to the ambulance. It is only a usable proxy at regional scale.
package matching

import (
	"math"

	"ambulance-request-backend/internal/models"
)

type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Match is the hospital/ambulance pair chosen for a requester.
type Match struct {
	Hospital  *models.Hospital
	Ambulance *models.Ambulance
	Distance  float64
}

// PlanarDistance returns hypot(Δlat, Δlng).
func PlanarDistance(a, b Point) float64 {
	return math.Hypot(a.Lat-b.Lat, a.Lng-b.Lng)
}

// FirstFree returns the first Free ambulance in fleet order.
func FirstFree(ambulances []models.Ambulance) (*models.Ambulance, bool) {
	for i := range ambulances {
		if ambulances[i].Status == models.AmbulanceFree {
			return &ambulances[i], true
		}
	}
	return nil, false
}

// NearestFreeAmbulance scans every hospital with at least one Free ambulance and
// returns the closest one. Ties keep the first hospital encountered.
func NearestFreeAmbulance(from Point, hospitals []models.Hospital) (Match, bool) {
	var best Match
	found := false

	for i := range hospitals {
		ambulance, ok := FirstFree(hospitals[i].Ambulances)
		if !ok {
			continue
		}

		d := PlanarDistance(from, Point{Lat: hospitals[i].LocationLat, Lng: hospitals[i].LocationLng})
		if !found || d < best.Distance {
			best = Match{Hospital: &hospitals[i], Ambulance: ambulance, Distance: d}
			found = true
		}
	}

	return best, found
}
