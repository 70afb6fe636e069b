// Package textsub substitutes {STOP_n} placeholder tokens in generated
// narrative text with real venue names. Substitution happens after
// generation, so a crawl can be re-localized without regenerating the
// story.
package textsub

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jwebster45206/crawl-engine/pkg/crawl"
)

var tokenPattern = regexp.MustCompile(`\{STOP_(\d+)\}`)

var titleCaser = cases.Title(language.English, cases.NoLower)

// Substitute replaces every {STOP_n} token in text with the display name
// of the location whose order is n. Tokens with no matching location are
// left in place so they can be reported via LeftoverTokens.
func Substitute(text string, locations []crawl.GeneratedLocation) string {
	names := make(map[int]string, len(locations))
	for _, loc := range locations {
		names[loc.Order] = NormalizeName(loc.Name)
	}

	return tokenPattern.ReplaceAllStringFunc(text, func(token string) string {
		order, err := strconv.Atoi(tokenPattern.FindStringSubmatch(token)[1])
		if err != nil {
			return token
		}
		if name, ok := names[order]; ok && name != "" {
			return name
		}
		return token
	})
}

// SubstituteResponse returns a deep copy of the response with all
// placeholder tokens in story, location and puzzle text replaced.
// The original response is not modified.
func SubstituteResponse(resp crawl.GeneratedResponse) crawl.GeneratedResponse {
	out := resp
	locs := resp.Locations

	out.Story.Introduction.Body = Substitute(resp.Story.Introduction.Body, locs)
	out.Story.Resolution.Body = Substitute(resp.Story.Resolution.Body, locs)

	out.Locations = make([]crawl.GeneratedLocation, len(resp.Locations))
	for i, loc := range resp.Locations {
		loc.Narrative = Substitute(loc.Narrative, locs)
		loc.Transition = Substitute(loc.Transition, locs)
		out.Locations[i] = loc
	}

	out.Puzzles = make([]crawl.GeneratedPuzzle, len(resp.Puzzles))
	for i, p := range resp.Puzzles {
		p.Narrative = Substitute(p.Narrative, locs)
		p.Content = Substitute(p.Content, locs)
		p.LocalContext = Substitute(p.LocalContext, locs)
		out.Puzzles[i] = p
	}

	return out
}

// LeftoverTokens returns the distinct {STOP_n} tokens remaining in text,
// in order of first appearance. Non-empty output after substitution means
// the response referenced stops it never defined.
func LeftoverTokens(text string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, match := range tokenPattern.FindAllString(text, -1) {
		if !seen[match] {
			seen[match] = true
			out = append(out, match)
		}
	}
	return out
}

// NormalizeName title-cases a venue name that arrived fully lowercased,
// and trims surrounding whitespace. Names with existing capitalization
// are preserved as written.
func NormalizeName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return name
	}
	if name == strings.ToLower(name) {
		return titleCaser.String(name)
	}
	return name
}
