// Package quality scores generated puzzles against structural and content
// heuristics. Scoring is advisory: it never blocks generation, it exists
// so the surrounding system can grade, sort, or flag content for review.
package quality

import (
	"fmt"
	"strings"

	"github.com/jwebster45206/crawl-engine/pkg/crawl"
)

// Report is the six-metric quality score for a single puzzle. Each metric
// runs 0-10; Overall is their arithmetic mean. Issues and Suggestions
// carry the specific findings behind the numbers.
type Report struct {
	ContentCompleteness  float64 `json:"content_completeness"`
	DifficultyFit        float64 `json:"difficulty_fit"`
	LocalRelevance       float64 `json:"local_relevance"`
	MechanicsIntegration float64 `json:"mechanics_integration"`
	Solvability          float64 `json:"solvability"`
	Creativity           float64 `json:"creativity"`
	Overall              float64 `json:"overall"`

	Issues      []string `json:"issues,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// placeholderMarkers flag content the provider left unfinished.
var placeholderMarkers = []string{
	"tbd", "to be researched", "placeholder", "insert here", "xxx", "lorem ipsum",
}

var hedgingWords = []string{"maybe", "possibly", "perhaps", "might be", "could be"}

var guidanceWords = []string{
	"look", "think", "consider", "count", "try", "remember", "focus",
	"check", "compare", "start with", "notice",
}

var solutionPathWords = []string{
	"solve", "find", "work out", "determine", "calculate", "identify",
	"decode", "figure out", "uncover", "answer",
}

var storyWords = []string{
	"story", "mystery", "investigation", "case", "plot", "clue",
	"suspect", "reveal", "secret",
}

var creativeLanguage = []string{"unique", "creative", "imagine", "unusual", "twist", "surprising"}

// scorer accumulates deductions for one metric.
type scorer struct {
	score       float64
	issues      *[]string
	suggestions *[]string
}

func (s *scorer) deduct(points float64, issue, suggestion string) {
	s.score -= points
	if s.score < 0 {
		s.score = 0
	}
	if issue != "" {
		*s.issues = append(*s.issues, issue)
	}
	if suggestion != "" {
		*s.suggestions = append(*s.suggestions, suggestion)
	}
}

// Score evaluates a single puzzle. Pure and deterministic: the same
// puzzle always produces the same report.
func Score(p crawl.GeneratedPuzzle) Report {
	var issues, suggestions []string

	r := Report{
		ContentCompleteness:  scoreContent(p, &issues, &suggestions),
		DifficultyFit:        scoreDifficulty(p, &issues, &suggestions),
		LocalRelevance:       scoreLocalRelevance(p, &issues, &suggestions),
		MechanicsIntegration: scoreMechanics(p, &issues, &suggestions),
		Solvability:          scoreSolvability(p, &issues, &suggestions),
		Creativity:           scoreCreativity(p, &issues, &suggestions),
	}

	r.Overall = (r.ContentCompleteness + r.DifficultyFit + r.LocalRelevance +
		r.MechanicsIntegration + r.Solvability + r.Creativity) / 6

	r.Issues = issues
	r.Suggestions = suggestions
	return r
}

func scoreContent(p crawl.GeneratedPuzzle, issues, suggestions *[]string) float64 {
	s := scorer{score: 10, issues: issues, suggestions: suggestions}

	if len(strings.TrimSpace(p.Title)) < 5 {
		s.deduct(2, "title is missing or too short",
			"give the puzzle a descriptive, thematic title")
	}
	if len(strings.TrimSpace(p.Content)) < 20 {
		s.deduct(3, "content body is missing or too short",
			"write out the full puzzle text players will read")
	}
	if strings.TrimSpace(p.Answer) == "" {
		s.deduct(3, "answer is missing",
			"every puzzle needs one exact answer string")
	}
	if len(p.Clues) < 3 {
		s.deduct(2, fmt.Sprintf("only %d clues, need at least 3", len(p.Clues)),
			"provide at least 3 progressively revealing clues")
	}
	if containsAny(strings.ToLower(p.Content+" "+p.Answer), placeholderMarkers) {
		s.deduct(3, "placeholder text detected in content or answer",
			"replace placeholder text with concrete puzzle material")
	}
	if dataTypes[p.Type] && !containsDigit(p.Content) {
		s.deduct(2, fmt.Sprintf("%s puzzle contains no concrete data", p.Type),
			"include the actual numbers, symbols or patterns players work with")
	}

	return s.score
}

func scoreDifficulty(p crawl.GeneratedPuzzle, issues, suggestions *[]string) float64 {
	s := scorer{score: 10, issues: issues, suggestions: suggestions}

	if expected, ok := expectedDifficulty[p.Type]; ok {
		diff := p.Difficulty - expected
		if diff < 0 {
			diff = -diff
		}
		if diff > 2 {
			s.deduct(3, fmt.Sprintf("difficulty %d is far from the %s baseline of %d",
				p.Difficulty, p.Type, expected),
				"align difficulty with what the puzzle type typically demands")
		}
	}
	if hasMechanic(p, crawl.MechanicMultiStep) && p.Difficulty < 3 {
		s.deduct(2, "multi-step puzzle rated below difficulty 3",
			"multi-step puzzles are inherently harder; raise the rating or simplify")
	}
	if p.Difficulty >= 4 && len(p.Clues) < 4 {
		s.deduct(2, "hard puzzle with fewer than 4 clues",
			"difficulty 4+ puzzles need a deeper clue ladder")
	}

	return s.score
}

func scoreLocalRelevance(p crawl.GeneratedPuzzle, issues, suggestions *[]string) float64 {
	s := scorer{score: 10, issues: issues, suggestions: suggestions}

	if len(strings.TrimSpace(p.LocalContext)) < 20 {
		s.deduct(3, "local_context is missing or too short",
			"explain how the puzzle connects to its venue")
	}

	text := strings.ToLower(p.Content + " " + p.Narrative)
	locationWords := []string{
		"pub", "bar", "tavern", "inn", "venue", "street", "wall", "sign",
		"menu", "bartender", "corner", "landmark", "local", "{stop_",
	}
	if !containsAny(text, locationWords) {
		s.deduct(3, "puzzle text never references its location",
			"anchor the puzzle in something players can see or ask about at the stop")
	}

	genericPhrases := []string{"a pub", "this location", "the venue", "any bar"}
	if containsAny(text, genericPhrases) {
		s.deduct(2, "generic location phrasing detected",
			"use the stop token instead of generic phrases like \"this location\"")
	}

	return s.score
}

func scoreMechanics(p crawl.GeneratedPuzzle, issues, suggestions *[]string) float64 {
	s := scorer{score: 10, issues: issues, suggestions: suggestions}

	valid := validMechanics[p.Type]
	content := strings.ToLower(p.Content)

	for _, m := range p.Mechanics {
		if !mechanicAllowed(valid, m) {
			s.deduct(2, fmt.Sprintf("mechanic %q does not fit puzzle type %q", m, p.Type),
				"declare only mechanics the puzzle type can support")
		}
		if sig, ok := mechanicSignatures[m]; ok && !containsAny(content, sig) {
			s.deduct(2, fmt.Sprintf("mechanic %q declared but not reflected in content", m),
				fmt.Sprintf("make the %s mechanic visible in the puzzle text", m))
		}
	}

	return s.score
}

func scoreSolvability(p crawl.GeneratedPuzzle, issues, suggestions *[]string) float64 {
	s := scorer{score: 10, issues: issues, suggestions: suggestions}

	if len(strings.TrimSpace(p.Answer)) < 2 {
		s.deduct(3, "answer is shorter than 2 characters",
			"use an unambiguous answer players can state")
	}

	helpful := 0
	for _, c := range p.Clues {
		if containsAny(strings.ToLower(c), guidanceWords) {
			helpful++
		}
	}
	if len(p.Clues) < 3 || helpful == 0 {
		s.deduct(2, "clues give no usable guidance",
			"phrase clues as nudges toward the solution path")
	}

	if !containsAny(strings.ToLower(p.Content), solutionPathWords) {
		s.deduct(2, "no clear solution path signalled in content",
			"tell players what kind of answer they are working toward")
	}

	if containsAny(strings.ToLower(p.Content+" "+p.Answer), hedgingWords) {
		s.deduct(2, "hedging or ambiguous language detected",
			"state the puzzle and answer with certainty")
	}

	return s.score
}

func scoreCreativity(p crawl.GeneratedPuzzle, issues, suggestions *[]string) float64 {
	s := scorer{score: 10, issues: issues, suggestions: suggestions}

	elements := 0
	if len(p.Mechanics) > 1 {
		elements++
	}
	if len(strings.TrimSpace(p.LocalContext)) > 50 {
		elements++
	}
	if len(p.Materials) > 0 {
		elements++
	}
	if strings.TrimSpace(p.Instructions) != "" {
		elements++
	}
	if containsAny(strings.ToLower(p.Content+" "+p.Narrative), creativeLanguage) {
		elements++
	}
	if elements < 2 {
		s.deduct(3, "fewer than 2 creative elements detected",
			"layer in materials, rich local context or a second mechanic")
	}

	title := strings.ToLower(strings.TrimSpace(p.Title))
	if strings.HasPrefix(title, "puzzle") || strings.HasPrefix(title, "challenge") || strings.HasPrefix(title, "task") {
		s.deduct(2, "generic title pattern",
			"name the puzzle after its content, not its slot")
	}

	if !containsAny(strings.ToLower(p.Narrative), storyWords) {
		s.deduct(2, "narrative does not tie into the story",
			"connect the puzzle's outcome to the mystery plot")
	}

	if len(p.Mechanics) == 0 {
		s.deduct(2, "no mechanics declared",
			"declare at least one gameplay mechanic")
	}

	return s.score
}

func hasMechanic(p crawl.GeneratedPuzzle, m crawl.PuzzleMechanic) bool {
	for _, have := range p.Mechanics {
		if have == m {
			return true
		}
	}
	return false
}

func mechanicAllowed(valid []crawl.PuzzleMechanic, m crawl.PuzzleMechanic) bool {
	for _, v := range valid {
		if v == m {
			return true
		}
	}
	return false
}

func containsAny(haystack string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}

func containsDigit(s string) bool {
	for _, r := range s {
		if r >= '0' && r <= '9' {
			return true
		}
	}
	return false
}
