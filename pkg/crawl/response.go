package crawl

import "fmt"

// StoryPart is one titled block of narrative text.
type StoryPart struct {
	Title string `json:"title,omitempty"`
	Body  string `json:"body"`
	URL   string `json:"url,omitempty"`
}

// GeneratedStory frames the whole crawl: an introduction read before the
// first stop and a resolution read after the last puzzle is solved.
type GeneratedStory struct {
	Title        string    `json:"title"`
	Introduction StoryPart `json:"introduction"`
	Resolution   StoryPart `json:"resolution"`
	Characters   []string  `json:"characters,omitempty"`
}

// GeneratedLocation is one stop on the crawl. Narrative text references
// venues through {STOP_n} placeholder tokens rather than names, so the
// story survives venue substitution.
type GeneratedLocation struct {
	Order       int    `json:"order"`
	Placeholder string `json:"placeholder"`
	Name        string `json:"name"`
	Category    string `json:"category,omitempty"`
	Narrative   string `json:"narrative"`
	Transition  string `json:"transition,omitempty"`
	URL         string `json:"url,omitempty"`
	WalkMinutes int    `json:"walk_minutes,omitempty"`
	AreaNote    string `json:"area_note,omitempty"`
}

// GeneratedResponse is the full output of one successful generation. It
// is accepted or rejected whole; there is no partial acceptance.
type GeneratedResponse struct {
	Story     GeneratedStory      `json:"story"`
	Locations []GeneratedLocation `json:"locations"`
	Puzzles   []GeneratedPuzzle   `json:"puzzles"`
}

// StopPlaceholder returns the placeholder token bound to a stop order,
// e.g. "{STOP_3}" for order 3.
func StopPlaceholder(order int) string {
	return fmt.Sprintf("{STOP_%d}", order)
}

// PuzzlesForStop returns the puzzles bound to the given stop order, in
// response order.
func (r *GeneratedResponse) PuzzlesForStop(order int) []GeneratedPuzzle {
	var out []GeneratedPuzzle
	for _, p := range r.Puzzles {
		if p.Order == order {
			out = append(out, p)
		}
	}
	return out
}
