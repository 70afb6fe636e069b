package prompts

import (
	"fmt"
	"strings"

	"github.com/jwebster45206/crawl-engine/pkg/crawl"
)

// BuildGenerationPrompt constructs the full constrained prompt for a
// generation request. Deterministic for identical inputs. referenceStops
// may be nil, in which case the provider is instructed to research real
// venues itself.
func BuildGenerationPrompt(req crawl.GenerationRequest, referenceStops []crawl.ReferenceStop) Prompt {
	var sb strings.Builder

	total := req.TotalPuzzles()

	// Counts first, stated as hard constraints. They are repeated near the
	// end because providers drift on counts stated only once.
	sb.WriteString(fmt.Sprintf(
		"Create a %q themed pub crawl mystery game in %s.\n\n", req.Theme, req.City))
	sb.WriteString("HARD COUNT REQUIREMENTS (non-negotiable):\n")
	sb.WriteString(fmt.Sprintf("- EXACTLY %d locations, with \"order\" values 1 through %d, no gaps, no duplicates.\n", req.StopCount, req.StopCount))
	sb.WriteString(fmt.Sprintf("- EXACTLY %d puzzles per location.\n", req.PuzzlesPerStop))
	sb.WriteString(fmt.Sprintf("- EXACTLY %d puzzles in total (%d locations x %d puzzles).\n\n",
		total, req.StopCount, req.PuzzlesPerStop))

	if req.Difficulty != "" {
		sb.WriteString(fmt.Sprintf("Overall difficulty tier: %s.\n", req.Difficulty))
	}
	if req.DurationMinutes > 0 {
		sb.WriteString(fmt.Sprintf("Target total duration: about %d minutes including walking.\n", req.DurationMinutes))
	}
	sb.WriteString("\n")

	writeVenueInstructions(&sb, req, referenceStops)

	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf(varietyRules, minDistinctTypes(total)))
	sb.WriteString("\n\n")

	writePreferences(&sb, req)

	if req.CustomInstructions != "" {
		sb.WriteString("ADDITIONAL INSTRUCTIONS FROM THE ORGANIZER:\n")
		sb.WriteString(req.CustomInstructions)
		sb.WriteString("\n\n")
	}

	sb.WriteString("RESPONSE FORMAT: one JSON object exactly shaped like this skeleton:\n")
	sb.WriteString(generationFormatSkeleton)
	sb.WriteString("\n\nFINAL REMINDER: ")
	sb.WriteString(fmt.Sprintf(
		"exactly %d locations, exactly %d puzzles (%d at each order value), JSON only, {STOP_n} tokens for every venue reference.",
		req.StopCount, total, req.PuzzlesPerStop))

	return Prompt{
		System: GenerationSystemPrompt,
		User:   sb.String(),
	}
}

// BuildSimplifiedPrompt constructs the reduced retry prompt: same count
// contract, far shorter instruction body.
func BuildSimplifiedPrompt(req crawl.GenerationRequest, referenceStops []crawl.ReferenceStop) Prompt {
	var sb strings.Builder

	total := req.TotalPuzzles()
	sb.WriteString(fmt.Sprintf(
		"Create a %q themed pub crawl mystery game in %s.\n", req.Theme, req.City))
	sb.WriteString(fmt.Sprintf(
		"EXACTLY %d locations (order 1..%d) and EXACTLY %d puzzles, %d per location.\n",
		req.StopCount, req.StopCount, total, req.PuzzlesPerStop))

	if len(referenceStops) > 0 {
		sb.WriteString("Use exactly these venues in order:\n")
		for i, stop := range referenceStops {
			sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, stop.Name))
		}
	} else {
		sb.WriteString(fmt.Sprintf("Use real venues in %s.\n", venueScope(req)))
	}

	sb.WriteString("\nRespond with one JSON object shaped like:\n")
	sb.WriteString(simplifiedFormatSkeleton)
	sb.WriteString(fmt.Sprintf(
		"\n\nExactly %d locations and %d puzzles. JSON only.", req.StopCount, total))

	return Prompt{
		System: SimplifiedSystemPrompt,
		User:   sb.String(),
	}
}

// writeVenueInstructions emits the grounded branch when reference stops
// are available, otherwise the research-required branch.
func writeVenueInstructions(sb *strings.Builder, req crawl.GenerationRequest, referenceStops []crawl.ReferenceStop) {
	if len(referenceStops) > 0 {
		sb.WriteString("VENUES: use EXACTLY the following verified venues, in this order, and no others:\n")
		for i, stop := range referenceStops {
			sb.WriteString(fmt.Sprintf("%d. %s", i+1, stop.Name))
			if stop.Address != "" {
				sb.WriteString(" - " + stop.Address)
			}
			if stop.Latitude != 0 || stop.Longitude != 0 {
				sb.WriteString(fmt.Sprintf(" (%.5f, %.5f)", stop.Latitude, stop.Longitude))
			}
			sb.WriteString("\n")
		}
		sb.WriteString("Do not invent, rename, or reorder venues.\n")
		return
	}

	sb.WriteString(fmt.Sprintf(
		"VENUES: research real, verifiable pubs and bars in %s. Use their actual names in the \"name\" field. Avoid generic or fictional names like \"The Local Pub\" or \"Bar One\".\n",
		venueScope(req)))
	if req.Area != "" {
		sb.WriteString(fmt.Sprintf(
			"AREA COMPLIANCE: every venue must be located in or immediately around %s. Venues elsewhere in %s are not acceptable.\n",
			req.Area, req.City))
	}
}

// writePreferences echoes caller preferences as prioritized constraints.
func writePreferences(sb *strings.Builder, req crawl.GenerationRequest) {
	var prefs []string
	if len(req.PreferredTypes) > 0 {
		prefs = append(prefs, fmt.Sprintf("favor these puzzle types: %s", joinTypes(req.PreferredTypes)))
	}
	if len(req.PreferredMechanics) > 0 {
		prefs = append(prefs, fmt.Sprintf("favor these mechanics: %s", joinMechanics(req.PreferredMechanics)))
	}
	if req.MinDifficulty > 0 || req.MaxDifficulty > 0 {
		lo, hi := req.MinDifficulty, req.MaxDifficulty
		if lo == 0 {
			lo = 1
		}
		if hi == 0 {
			hi = 5
		}
		prefs = append(prefs, fmt.Sprintf("keep puzzle difficulty between %d and %d", lo, hi))
	}
	if req.RequireTeamwork {
		prefs = append(prefs, "include puzzles that require teamwork")
	}
	if req.RequirePhysical {
		prefs = append(prefs, "include puzzles with a physical element")
	}
	if req.RequireTechnology {
		prefs = append(prefs, "include puzzles that use players' phones or other technology")
	}
	if req.RequireLocalKnowledge {
		prefs = append(prefs, "include puzzles built on local knowledge of the area")
	}

	if len(prefs) == 0 {
		return
	}

	sb.WriteString("ORGANIZER PREFERENCES (prioritize, but variety requirements still apply):\n")
	for i, p := range prefs {
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, p))
	}
	sb.WriteString("\n")
}

func venueScope(req crawl.GenerationRequest) string {
	if req.Area != "" {
		return req.Area + ", " + req.City
	}
	return req.City
}

// minDistinctTypes scales the distinct-type floor with the puzzle count,
// capped at 5 so small games stay satisfiable.
func minDistinctTypes(totalPuzzles int) int {
	if totalPuzzles < 5 {
		return totalPuzzles
	}
	return 5
}

func joinTypes(types []crawl.PuzzleType) string {
	parts := make([]string, len(types))
	for i, t := range types {
		parts[i] = string(t)
	}
	return strings.Join(parts, ", ")
}

func joinMechanics(mechanics []crawl.PuzzleMechanic) string {
	parts := make([]string, len(mechanics))
	for i, m := range mechanics {
		parts[i] = string(m)
	}
	return strings.Join(parts, ", ")
}
