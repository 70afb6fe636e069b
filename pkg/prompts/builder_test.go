package prompts

import (
	"fmt"
	"strings"
	"testing"

	"github.com/jwebster45206/crawl-engine/pkg/crawl"
)

func testRequest() crawl.GenerationRequest {
	return crawl.GenerationRequest{
		Theme:          "Murder at the Brewery",
		City:           "Bristol",
		StopCount:      4,
		PuzzlesPerStop: 2,
	}
}

func TestBuildGenerationPrompt_Deterministic(t *testing.T) {
	req := testRequest()

	a := BuildGenerationPrompt(req, nil)
	b := BuildGenerationPrompt(req, nil)

	if a.System != b.System || a.User != b.User {
		t.Error("Identical inputs must produce identical prompts")
	}
}

func TestBuildGenerationPrompt_StatesExactCounts(t *testing.T) {
	prompt := BuildGenerationPrompt(testRequest(), nil)

	for _, want := range []string{
		"EXACTLY 4 locations",
		"EXACTLY 2 puzzles per location",
		"EXACTLY 8 puzzles in total",
	} {
		if !strings.Contains(prompt.User, want) {
			t.Errorf("Prompt missing count statement %q", want)
		}
	}

	// Counts are repeated at the end as a final reminder.
	tail := prompt.User[len(prompt.User)/2:]
	if !strings.Contains(tail, "exactly 4 locations") {
		t.Error("Prompt should repeat the location count near the end")
	}
}

func TestBuildGenerationPrompt_ResearchBranch(t *testing.T) {
	prompt := BuildGenerationPrompt(testRequest(), nil)

	if !strings.Contains(prompt.User, "research real, verifiable pubs") {
		t.Error("Without reference stops the prompt must require venue research")
	}
	if strings.Contains(prompt.User, "verified venues") {
		t.Error("Without reference stops the grounded branch must not appear")
	}
}

func TestBuildGenerationPrompt_GroundedBranch(t *testing.T) {
	stops := []crawl.ReferenceStop{
		{Name: "The Crown Tavern", Address: "12 King St", Latitude: 51.45, Longitude: -2.59},
		{Name: "The Anchor", Address: "4 Quay Head"},
	}

	prompt := BuildGenerationPrompt(testRequest(), stops)

	if !strings.Contains(prompt.User, "The Crown Tavern") || !strings.Contains(prompt.User, "The Anchor") {
		t.Error("Grounded prompt must list every reference stop by name")
	}
	if !strings.Contains(prompt.User, "12 King St") {
		t.Error("Grounded prompt should include addresses when available")
	}
	if strings.Contains(prompt.User, "research real") {
		t.Error("With reference stops the research branch must not appear")
	}
}

func TestBuildGenerationPrompt_AreaCompliance(t *testing.T) {
	req := testRequest()
	req.Area = "Stokes Croft"

	prompt := BuildGenerationPrompt(req, nil)
	if !strings.Contains(prompt.User, "AREA COMPLIANCE") || !strings.Contains(prompt.User, "Stokes Croft") {
		t.Error("Prompt must require venues in the requested area")
	}
}

func TestBuildGenerationPrompt_Preferences(t *testing.T) {
	req := testRequest()
	req.PreferredTypes = []crawl.PuzzleType{crawl.TypeCipher, crawl.TypeLocal}
	req.PreferredMechanics = []crawl.PuzzleMechanic{crawl.MechanicCollaborative}
	req.MinDifficulty = 2
	req.MaxDifficulty = 4
	req.RequireTeamwork = true

	prompt := BuildGenerationPrompt(req, nil)

	for _, want := range []string{
		"cipher, local",
		"collaborative",
		"between 2 and 4",
		"teamwork",
	} {
		if !strings.Contains(prompt.User, want) {
			t.Errorf("Prompt missing preference %q", want)
		}
	}
}

func TestBuildGenerationPrompt_PlaceholderConvention(t *testing.T) {
	prompt := BuildGenerationPrompt(testRequest(), nil)

	if !strings.Contains(prompt.System, "{STOP_") {
		t.Error("System prompt must explain the placeholder token convention")
	}
	if !strings.Contains(prompt.User, "{STOP_n}") {
		t.Error("User prompt must reference the placeholder convention")
	}
}

func TestBuildSimplifiedPrompt_ShorterButCountsIntact(t *testing.T) {
	req := testRequest()

	full := BuildGenerationPrompt(req, nil)
	simple := BuildSimplifiedPrompt(req, nil)

	if len(simple.User) >= len(full.User) {
		t.Errorf("Simplified prompt (%d bytes) should be shorter than full prompt (%d bytes)",
			len(simple.User), len(full.User))
	}
	if !strings.Contains(simple.User, "EXACTLY 4 locations") {
		t.Error("Simplified prompt must keep the location count contract")
	}
	if !strings.Contains(simple.User, fmt.Sprintf("EXACTLY %d puzzles", req.TotalPuzzles())) {
		t.Error("Simplified prompt must keep the puzzle count contract")
	}
	if simple.System == full.System {
		t.Error("Simplified prompt should use its own system prompt")
	}
}

func TestMinDistinctTypes(t *testing.T) {
	cases := []struct {
		total int
		want  int
	}{
		{1, 1},
		{4, 4},
		{5, 5},
		{20, 5},
	}
	for _, tc := range cases {
		if got := minDistinctTypes(tc.total); got != tc.want {
			t.Errorf("minDistinctTypes(%d) = %d, want %d", tc.total, got, tc.want)
		}
	}
}
