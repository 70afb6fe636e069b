package generator

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jwebster45206/crawl-engine/pkg/crawl"
)

// Validate enforces the structural invariants a generated response must
// hold before it can be served. Checks run in order and stop at the
// first failure, so the returned error names the most fundamental
// problem.
func Validate(resp *crawl.GeneratedResponse, req crawl.GenerationRequest) error {
	if got := len(resp.Locations); got != req.StopCount {
		return &ValidationError{
			Kind:   ValidationCountMismatch,
			Entity: "locations",
			Detail: fmt.Sprintf("expected %d locations, got %d", req.StopCount, got),
		}
	}

	expectedPuzzles := req.TotalPuzzles()
	if got := len(resp.Puzzles); got != expectedPuzzles {
		return &ValidationError{
			Kind:   ValidationCountMismatch,
			Entity: "puzzles",
			Detail: fmt.Sprintf("expected %d puzzles, got %d", expectedPuzzles, got),
		}
	}

	perStop := make(map[int]int, req.StopCount)
	for _, p := range resp.Puzzles {
		perStop[p.Order]++
	}
	for order := 1; order <= req.StopCount; order++ {
		if got := perStop[order]; got != req.PuzzlesPerStop {
			return &ValidationError{
				Kind:   ValidationDistributionMismatch,
				Entity: "puzzles",
				Order:  order,
				Detail: fmt.Sprintf("stop %d has %d puzzles, expected %d", order, got, req.PuzzlesPerStop),
			}
		}
	}

	seen := make(map[int]bool, req.StopCount)
	for _, loc := range resp.Locations {
		if loc.Order < 1 || loc.Order > req.StopCount || seen[loc.Order] {
			return &ValidationError{
				Kind:   ValidationOrderMismatch,
				Entity: "locations",
				Order:  loc.Order,
				Detail: fmt.Sprintf("location orders must cover 1..%d exactly once, got duplicate or out-of-range order %d", req.StopCount, loc.Order),
			}
		}
		seen[loc.Order] = true
	}

	return nil
}

// placeholderNames are venue names that indicate the model punted on
// research instead of naming a real place.
var placeholderNames = []string{
	"to be researched",
	"to be determined",
	"tbd",
	"placeholder",
	"pub 1",
	"pub 2",
	"bar 1",
	"venue 1",
	"location 1",
	"example pub",
}

// SoftWarnings reports quality concerns that do not fail validation:
// venue names that look like placeholders, and a requested area that
// never appears anywhere in the response. These are advisory and are
// logged rather than retried.
func SoftWarnings(resp *crawl.GeneratedResponse, req crawl.GenerationRequest) []string {
	var warnings []string

	for _, loc := range resp.Locations {
		name := strings.ToLower(strings.TrimSpace(loc.Name))
		for _, marker := range placeholderNames {
			if name == marker || strings.Contains(name, "researched") {
				warnings = append(warnings, fmt.Sprintf("location %d name %q looks like a placeholder", loc.Order, loc.Name))
				break
			}
		}
	}

	if req.Area != "" {
		serialized, err := json.Marshal(resp)
		if err == nil && !strings.Contains(strings.ToLower(string(serialized)), strings.ToLower(req.Area)) {
			warnings = append(warnings, fmt.Sprintf("requested area %q is never mentioned in the response", req.Area))
		}
	}

	return warnings
}
