package generator

import (
	"errors"
	"testing"

	"github.com/jwebster45206/crawl-engine/pkg/crawl"
)

// validResponse builds a response matching stopCount and puzzlesPerStop.
func validResponse(stopCount, puzzlesPerStop int) *crawl.GeneratedResponse {
	resp := &crawl.GeneratedResponse{
		Story: crawl.GeneratedStory{
			Title:        "The Vanishing Brewer",
			Introduction: crawl.StoryPart{Body: "It begins at {STOP_1}."},
			Resolution:   crawl.StoryPart{Body: "It ends."},
		},
	}

	for i := 1; i <= stopCount; i++ {
		resp.Locations = append(resp.Locations, crawl.GeneratedLocation{
			Order:       i,
			Placeholder: crawl.StopPlaceholder(i),
			Name:        "The Crown Tavern",
			Narrative:   "Something happens at " + crawl.StopPlaceholder(i) + ".",
		})
		for j := 0; j < puzzlesPerStop; j++ {
			resp.Puzzles = append(resp.Puzzles, crawl.GeneratedPuzzle{
				Order:   i,
				Title:   "Cask Count",
				Type:    crawl.TypeMath,
				Content: "Count the casks behind the bar.",
				Answer:  "12",
				Clues:   []string{"Look low", "Count twice", "Under ten is wrong"},
			})
		}
	}
	return resp
}

func testRequest(stopCount, puzzlesPerStop int) crawl.GenerationRequest {
	return crawl.GenerationRequest{
		Theme:          "Murder at the Brewery",
		City:           "Bristol",
		StopCount:      stopCount,
		PuzzlesPerStop: puzzlesPerStop,
	}
}

func TestValidate_Valid(t *testing.T) {
	if err := Validate(validResponse(3, 2), testRequest(3, 2)); err != nil {
		t.Fatalf("Expected valid response, got %v", err)
	}
}

func TestValidate_LocationCountMismatch(t *testing.T) {
	resp := validResponse(3, 2)
	resp.Locations = resp.Locations[:2]

	err := Validate(resp, testRequest(3, 2))
	var valErr *ValidationError
	if !errors.As(err, &valErr) {
		t.Fatalf("Expected *ValidationError, got %T: %v", err, err)
	}
	if valErr.Kind != ValidationCountMismatch || valErr.Entity != "locations" {
		t.Errorf("Expected locations count mismatch, got %s %s", valErr.Kind, valErr.Entity)
	}
}

func TestValidate_PuzzleCountMismatch(t *testing.T) {
	resp := validResponse(3, 2)
	resp.Puzzles = resp.Puzzles[:5]

	err := Validate(resp, testRequest(3, 2))
	var valErr *ValidationError
	if !errors.As(err, &valErr) {
		t.Fatalf("Expected *ValidationError, got %T: %v", err, err)
	}
	if valErr.Kind != ValidationCountMismatch || valErr.Entity != "puzzles" {
		t.Errorf("Expected puzzles count mismatch, got %s %s", valErr.Kind, valErr.Entity)
	}
}

func TestValidate_DistributionMismatch(t *testing.T) {
	// Right total, wrong spread: move one puzzle from stop 3 to stop 1.
	resp := validResponse(3, 2)
	for i := range resp.Puzzles {
		if resp.Puzzles[i].Order == 3 {
			resp.Puzzles[i].Order = 1
			break
		}
	}

	err := Validate(resp, testRequest(3, 2))
	var valErr *ValidationError
	if !errors.As(err, &valErr) {
		t.Fatalf("Expected *ValidationError, got %T: %v", err, err)
	}
	if valErr.Kind != ValidationDistributionMismatch {
		t.Errorf("Expected distribution mismatch, got %s", valErr.Kind)
	}
	if valErr.Order != 1 {
		t.Errorf("Expected first bad order 1, got %d", valErr.Order)
	}
}

func TestValidate_DuplicateLocationOrder(t *testing.T) {
	resp := validResponse(3, 1)
	resp.Locations[2].Order = 1

	err := Validate(resp, testRequest(3, 1))
	var valErr *ValidationError
	if !errors.As(err, &valErr) {
		t.Fatalf("Expected *ValidationError, got %T: %v", err, err)
	}
	if valErr.Kind != ValidationOrderMismatch {
		t.Errorf("Expected order mismatch, got %s", valErr.Kind)
	}
}

func TestValidate_CountChecksRunBeforeDistribution(t *testing.T) {
	// Both checks fail; the count mismatch must be reported first.
	resp := validResponse(3, 2)
	resp.Puzzles = resp.Puzzles[:4]
	for i := range resp.Puzzles {
		resp.Puzzles[i].Order = 1
	}

	err := Validate(resp, testRequest(3, 2))
	var valErr *ValidationError
	if !errors.As(err, &valErr) {
		t.Fatalf("Expected *ValidationError, got %T: %v", err, err)
	}
	if valErr.Kind != ValidationCountMismatch {
		t.Errorf("Expected count mismatch reported first, got %s", valErr.Kind)
	}
}

func TestSoftWarnings_PlaceholderNames(t *testing.T) {
	resp := validResponse(2, 1)
	resp.Locations[1].Name = "Pub 2 (to be researched)"

	warnings := SoftWarnings(resp, testRequest(2, 1))
	if len(warnings) == 0 {
		t.Fatal("Expected a placeholder-name warning")
	}
}

func TestSoftWarnings_AreaNeverMentioned(t *testing.T) {
	req := testRequest(2, 1)
	req.Area = "Stokes Croft"

	warnings := SoftWarnings(validResponse(2, 1), req)
	if len(warnings) != 1 {
		t.Fatalf("Expected exactly 1 warning, got %d: %v", len(warnings), warnings)
	}
}

func TestSoftWarnings_CleanResponse(t *testing.T) {
	if warnings := SoftWarnings(validResponse(2, 1), testRequest(2, 1)); len(warnings) != 0 {
		t.Errorf("Expected no warnings, got %v", warnings)
	}
}
