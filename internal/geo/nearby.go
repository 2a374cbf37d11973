package geo

import (
	"sort"

	"github.com/umahmood/haversine"
)

// Point is a latitude/longitude pair in degrees.
type Point struct {
	Lat float64
	Lng float64
}

// Valid reports whether the point lies within WGS84 bounds.
func (p Point) Valid() bool {
	return p.Lat >= -90 && p.Lat <= 90 && p.Lng >= -180 && p.Lng <= 180
}

// DistanceKm returns the great-circle distance between two points.
func DistanceKm(a, b Point) float64 {
	_, km := haversine.Distance(
		haversine.Coord{Lat: a.Lat, Lon: a.Lng},
		haversine.Coord{Lat: b.Lat, Lon: b.Lng},
	)
	return km
}

// Located is anything with an optional position.
type Located interface {
	Position() (Point, bool)
}

// Hit is an item within range along with its distance from the origin.
type Hit[T Located] struct {
	Item       T
	DistanceKm float64
}

// Within keeps the items no further than radiusKm from origin, nearest first.
// Items without a position are dropped. A non-positive radius keeps every located item.
func Within[T Located](items []T, origin Point, radiusKm float64) []Hit[T] {
	hits := make([]Hit[T], 0, len(items))
	for _, it := range items {
		p, ok := it.Position()
		if !ok {
			continue
		}
		dist := DistanceKm(origin, p)
		if radiusKm > 0 && dist > radiusKm {
			continue
		}
		hits = append(hits, Hit[T]{Item: it, DistanceKm: dist})
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].DistanceKm < hits[j].DistanceKm })
	return hits
}
