// Package crawl defines the data model for pub crawl mystery games:
// generation requests, generated responses, and the persisted game
// record. These types are the contract between the HTTP API, the
// generation pipeline, and storage.
package crawl

import "fmt"

// Difficulty tiers for a whole game. Individual puzzles carry their own
// 1-5 rating; the tier guides the overall tone.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
	DifficultyExpert = "expert"
)

// GenerationRequest is the immutable input to the generation pipeline.
// StopCount and PuzzlesPerStop are hard contracts: the generated
// response must match them exactly.
type GenerationRequest struct {
	Theme string `json:"theme"`
	City  string `json:"city"`

	// Area optionally narrows venues to a neighborhood within the city.
	Area string `json:"area,omitempty"`

	Difficulty      string `json:"difficulty,omitempty"`
	StopCount       int    `json:"stop_count"`
	PuzzlesPerStop  int    `json:"puzzles_per_stop"`
	DurationMinutes int    `json:"duration_minutes,omitempty"`

	CustomInstructions string `json:"custom_instructions,omitempty"`

	// Preferences are prioritized, not exclusive.
	PreferredTypes     []PuzzleType     `json:"preferred_types,omitempty"`
	PreferredMechanics []PuzzleMechanic `json:"preferred_mechanics,omitempty"`
	MinDifficulty      int              `json:"min_difficulty,omitempty"`
	MaxDifficulty      int              `json:"max_difficulty,omitempty"`

	RequireTeamwork       bool `json:"require_teamwork,omitempty"`
	RequirePhysical       bool `json:"require_physical,omitempty"`
	RequireTechnology     bool `json:"require_technology,omitempty"`
	RequireLocalKnowledge bool `json:"require_local_knowledge,omitempty"`
}

// Validate checks the request for structural problems before any
// provider call is made.
func (r GenerationRequest) Validate() error {
	if r.Theme == "" {
		return fmt.Errorf("theme is required")
	}
	if r.City == "" {
		return fmt.Errorf("city is required")
	}
	if r.StopCount < 1 {
		return fmt.Errorf("stop_count must be at least 1, got %d", r.StopCount)
	}
	if r.PuzzlesPerStop < 1 {
		return fmt.Errorf("puzzles_per_stop must be at least 1, got %d", r.PuzzlesPerStop)
	}
	if r.MinDifficulty < 0 || r.MinDifficulty > 5 {
		return fmt.Errorf("min_difficulty must be between 1 and 5")
	}
	if r.MaxDifficulty < 0 || r.MaxDifficulty > 5 {
		return fmt.Errorf("max_difficulty must be between 1 and 5")
	}
	if r.MinDifficulty > 0 && r.MaxDifficulty > 0 && r.MinDifficulty > r.MaxDifficulty {
		return fmt.Errorf("min_difficulty cannot exceed max_difficulty")
	}
	for _, t := range r.PreferredTypes {
		if !ValidPuzzleType(t) {
			return fmt.Errorf("unknown puzzle type %q", t)
		}
	}
	for _, m := range r.PreferredMechanics {
		if !ValidPuzzleMechanic(m) {
			return fmt.Errorf("unknown puzzle mechanic %q", m)
		}
	}
	return nil
}

// TotalPuzzles is the exact number of puzzles a valid response carries.
func (r GenerationRequest) TotalPuzzles() int {
	return r.StopCount * r.PuzzlesPerStop
}

// ReferenceStop is an externally supplied, verified venue used to ground
// generation in real-world data. When no reference stops are available
// the provider is asked to research venues itself.
type ReferenceStop struct {
	Name      string  `json:"name"`
	Address   string  `json:"address,omitempty"`
	Latitude  float64 `json:"latitude,omitempty"`
	Longitude float64 `json:"longitude,omitempty"`
}
