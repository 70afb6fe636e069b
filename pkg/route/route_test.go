package route

import (
	"context"
	"strings"
	"testing"

	"github.com/jwebster45206/crawl-engine/pkg/crawl"
)

func TestPlanRoute_KnownCoordinates(t *testing.T) {
	est := NewEstimator([]crawl.ReferenceStop{
		{Name: "The Crown Tavern", Latitude: 51.4545, Longitude: -2.5879},
		{Name: "The Anchor", Latitude: 51.4500, Longitude: -2.5950},
	})

	result, err := est.PlanRoute(context.Background(), []Stop{
		{Name: "The Crown Tavern", City: "Bristol"},
		{Name: "The Anchor", City: "Bristol"},
	})
	if err != nil {
		t.Fatalf("PlanRoute failed: %v", err)
	}

	// Roughly 700m between these points; anything in the 500-900m band
	// means the haversine leg was used rather than the default.
	if result.TotalMeters < 500 || result.TotalMeters > 900 {
		t.Errorf("TotalMeters = %.0f, expected a haversine distance near 700", result.TotalMeters)
	}
	if result.TotalMinutes <= 0 {
		t.Errorf("TotalMinutes = %d, expected positive walk time", result.TotalMinutes)
	}
	if len(result.Warnings) != 0 {
		t.Errorf("Expected no warnings, got %v", result.Warnings)
	}
	if result.Valid {
		t.Error("Estimator results must never claim to be verified")
	}
}

func TestPlanRoute_MissingCoordinatesUsesDefaultLeg(t *testing.T) {
	est := NewEstimator(nil)

	result, err := est.PlanRoute(context.Background(), []Stop{
		{Name: "The Crown Tavern"},
		{Name: "The Anchor"},
		{Name: "The Ship"},
	})
	if err != nil {
		t.Fatalf("PlanRoute failed: %v", err)
	}

	if result.TotalMeters != 800 {
		t.Errorf("TotalMeters = %.0f, expected 800 (two default legs)", result.TotalMeters)
	}
	if len(result.Warnings) != 2 {
		t.Fatalf("Expected 2 warnings, got %d: %v", len(result.Warnings), result.Warnings)
	}
	if !strings.Contains(result.Warnings[0], "The Crown Tavern") {
		t.Errorf("Warning should name the leg, got %q", result.Warnings[0])
	}
}

func TestPlanRoute_FewerThanTwoStops(t *testing.T) {
	est := NewEstimator(nil)

	result, err := est.PlanRoute(context.Background(), []Stop{{Name: "The Crown Tavern"}})
	if err != nil {
		t.Fatalf("PlanRoute failed: %v", err)
	}
	if result.TotalMeters != 0 || result.TotalMinutes != 0 {
		t.Errorf("Single stop should produce a zero estimate, got %.0fm %dmin",
			result.TotalMeters, result.TotalMinutes)
	}
}

func TestPlanRoute_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	est := NewEstimator(nil)
	if _, err := est.PlanRoute(ctx, []Stop{{Name: "A"}, {Name: "B"}}); err == nil {
		t.Error("Expected an error for a cancelled context")
	}
}

func TestEstimateForResponse_OrdersStops(t *testing.T) {
	// Locations arrive out of order; legs must follow stop order.
	resp := &crawl.GeneratedResponse{
		Locations: []crawl.GeneratedLocation{
			{Order: 2, Name: "The Anchor"},
			{Order: 1, Name: "The Crown Tavern"},
			{Order: 3, Name: "The Ship"},
		},
	}

	est, err := EstimateForResponse(context.Background(), resp, nil, "Bristol")
	if err != nil {
		t.Fatalf("EstimateForResponse failed: %v", err)
	}
	if len(est.Warnings) != 2 {
		t.Fatalf("Expected 2 legs, got %d warnings: %v", len(est.Warnings), est.Warnings)
	}
	if !strings.Contains(est.Warnings[0], "The Crown Tavern -> The Anchor") {
		t.Errorf("First leg should run stop 1 to stop 2, got %q", est.Warnings[0])
	}
}

func TestNewEstimator_SkipsZeroCoordinates(t *testing.T) {
	est := NewEstimator([]crawl.ReferenceStop{
		{Name: "Nowhere", Latitude: 0, Longitude: 0},
		{Name: "Somewhere", Latitude: 51.45, Longitude: -2.59},
	})

	if _, ok := est.Coordinates["Nowhere"]; ok {
		t.Error("Zero coordinates should not be treated as known")
	}
	if _, ok := est.Coordinates["Somewhere"]; !ok {
		t.Error("Real coordinates should be kept")
	}
}
