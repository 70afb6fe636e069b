// Package route defines the routing collaborator contract. Routing data
// decorates saved games with distance and timing estimates; its absence or
// failure never blocks generation.
package route

import (
	"context"
	"math"
	"sort"

	"github.com/jwebster45206/crawl-engine/pkg/crawl"
)

// Stop is one named stop handed to a route planner.
type Stop struct {
	Name string `json:"name"`
	City string `json:"city"`
}

// Planner turns an ordered stop list into a route estimate.
type Planner interface {
	PlanRoute(ctx context.Context, stops []Stop) (*crawl.RouteEstimate, error)
}

const (
	earthRadiusMeters = 6371000
	walkMetersPerMin  = 80 // casual group walking pace
)

// Estimator is a pure fallback Planner with no external dependencies.
// It estimates leg lengths from reference-stop coordinates when they are
// known and otherwise assumes a fixed per-leg walk, always returning
// Valid=false so callers know the numbers are estimates.
type Estimator struct {
	// Coordinates by venue name, typically from reference stops.
	Coordinates map[string][2]float64
}

// NewEstimator builds an Estimator seeded from reference stops.
func NewEstimator(refs []crawl.ReferenceStop) *Estimator {
	coords := make(map[string][2]float64, len(refs))
	for _, r := range refs {
		if r.Latitude != 0 || r.Longitude != 0 {
			coords[r.Name] = [2]float64{r.Latitude, r.Longitude}
		}
	}
	return &Estimator{Coordinates: coords}
}

// PlanRoute estimates total walking distance and time for the stop list.
func (e *Estimator) PlanRoute(ctx context.Context, stops []Stop) (*crawl.RouteEstimate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	est := &crawl.RouteEstimate{Valid: false}
	if len(stops) < 2 {
		return est, nil
	}

	const defaultLegMeters = 400

	for i := 1; i < len(stops); i++ {
		a, okA := e.Coordinates[stops[i-1].Name]
		b, okB := e.Coordinates[stops[i].Name]
		if okA && okB {
			est.TotalMeters += haversine(a[0], a[1], b[0], b[1])
		} else {
			est.TotalMeters += defaultLegMeters
			est.Warnings = append(est.Warnings,
				"no coordinates for leg "+stops[i-1].Name+" -> "+stops[i].Name+", using default distance")
		}
	}

	est.TotalMinutes = int(math.Ceil(est.TotalMeters / walkMetersPerMin))
	return est, nil
}

// EstimateForResponse plans a best-effort route over a generated stop
// sequence, in stop order. Callers log failures; generation never depends
// on the result.
func EstimateForResponse(ctx context.Context, resp *crawl.GeneratedResponse, refs []crawl.ReferenceStop, city string) (*crawl.RouteEstimate, error) {
	ordered := make([]crawl.GeneratedLocation, len(resp.Locations))
	copy(ordered, resp.Locations)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Order < ordered[j].Order })

	stops := make([]Stop, 0, len(ordered))
	for _, loc := range ordered {
		stops = append(stops, Stop{Name: loc.Name, City: city})
	}

	return NewEstimator(refs).PlanRoute(ctx, stops)
}

func haversine(lat1, lon1, lat2, lon2 float64) float64 {
	rad := func(d float64) float64 { return d * math.Pi / 180 }

	dLat := rad(lat2 - lat1)
	dLon := rad(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rad(lat1))*math.Cos(rad(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusMeters * math.Asin(math.Sqrt(a))
}
