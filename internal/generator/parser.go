package generator

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"

	"github.com/jwebster45206/crawl-engine/pkg/crawl"
)

// The parse cascade is deliberately permissive about syntax and strict
// about the final shape: providers frequently emit near-JSON (trailing
// commas, unquoted keys, stray markdown fences), and each cleanup stage
// repairs one class of damage before the next strict parse attempt.

var (
	fencedJSONPattern  = regexp.MustCompile("(?s)```json\\s*(.*?)```")
	fenceMarkerPattern = regexp.MustCompile("```[a-zA-Z]*\\n?")

	trailingCommaPattern  = regexp.MustCompile(`,\s*([}\]])`)
	bareKeyPattern        = regexp.MustCompile(`([{,]\s*)([A-Za-z_][A-Za-z0-9_]*)\s*:`)
	bareValuePattern      = regexp.MustCompile(`:\s*([A-Za-z][A-Za-z0-9 '\-]*[A-Za-z0-9])\s*([,}\]])`)
	strayBackslashPattern = regexp.MustCompile(`\\([^"\\/bfnrtu])`)
)

// Parse turns raw provider output into a typed response, or fails with a
// *ParseError describing the stage that gave up.
func Parse(raw string) (*crawl.GeneratedResponse, error) {
	span, ok := extractJSON(raw)
	if !ok {
		return nil, &ParseError{Stage: "exhausted", Detail: "no JSON object found in response"}
	}

	type candidate struct {
		stage string
		text  string
	}
	candidates := []candidate{
		{"extracted", span},
		{"cleanup-light", cleanupLight(span)},
		{"cleanup-aggressive", cleanupAggressive(span)},
	}
	if synth, ok := syntheticObject(raw); ok {
		candidates = append(candidates,
			candidate{"synthetic", synth},
			candidate{"synthetic-cleaned", cleanupLight(synth)},
		)
	}

	for _, c := range candidates {
		resp, err := decode(c.text)
		if err == nil {
			return resp, nil
		}
		// Structural success with missing top-level keys is terminal;
		// no cleanup stage can invent a missing member.
		var pe *ParseError
		if errors.As(err, &pe) {
			return nil, pe
		}
	}

	return nil, &ParseError{Stage: "exhausted", Detail: "response could not be parsed after all cleanup stages"}
}

// extractJSON finds the most plausible JSON span in raw text: a fenced
// block labeled json, else the first '{' through the last '}', else the
// trimmed text itself when it already looks like JSON.
func extractJSON(raw string) (string, bool) {
	if m := fencedJSONPattern.FindStringSubmatch(raw); m != nil {
		return strings.TrimSpace(m[1]), true
	}

	first := strings.Index(raw, "{")
	last := strings.LastIndex(raw, "}")
	if first >= 0 && last > first {
		return raw[first : last+1], true
	}

	trimmed := strings.TrimSpace(raw)
	if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
		return trimmed, true
	}

	return "", false
}

// decode attempts a strict parse. A plain error means this candidate
// failed and the cascade should continue; a *ParseError is terminal.
func decode(text string) (*crawl.GeneratedResponse, error) {
	var envelope struct {
		Story     *json.RawMessage `json:"story"`
		Locations *json.RawMessage `json:"locations"`
		Puzzles   *json.RawMessage `json:"puzzles"`
	}
	if err := json.Unmarshal([]byte(text), &envelope); err != nil {
		return nil, err
	}

	var missing []string
	if envelope.Story == nil {
		missing = append(missing, "story")
	}
	if envelope.Locations == nil {
		missing = append(missing, "locations")
	}
	if envelope.Puzzles == nil {
		missing = append(missing, "puzzles")
	}
	if len(missing) > 0 {
		return nil, &ParseError{
			Stage:  "missing-fields",
			Detail: "missing required top-level keys: " + strings.Join(missing, ", "),
		}
	}

	var resp crawl.GeneratedResponse
	if err := json.Unmarshal([]byte(text), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// cleanupLight repairs the most common near-JSON damage: trailing
// commas, unquoted object keys, and obviously bare string values.
func cleanupLight(text string) string {
	text = trailingCommaPattern.ReplaceAllString(text, "$1")
	text = bareKeyPattern.ReplaceAllString(text, `$1"$2":`)
	text = bareValuePattern.ReplaceAllStringFunc(text, quoteBareValue)
	return text
}

// quoteBareValue quotes an unquoted word value, leaving JSON literals
// alone.
func quoteBareValue(match string) string {
	m := bareValuePattern.FindStringSubmatch(match)
	if m == nil {
		return match
	}
	switch m[1] {
	case "true", "false", "null":
		return match
	}
	return `: "` + m[1] + `"` + m[2]
}

// cleanupAggressive strips residual fence markers, re-trims to the outer
// braces, normalizes smart quotes, and escapes stray backslashes.
func cleanupAggressive(text string) string {
	text = fenceMarkerPattern.ReplaceAllString(text, "")

	first := strings.Index(text, "{")
	last := strings.LastIndex(text, "}")
	if first >= 0 && last > first {
		text = text[first : last+1]
	}

	replacer := strings.NewReplacer(
		"“", `"`, "”", `"`, // curly double quotes
		"‘", "'", "’", "'", // curly single quotes
	)
	text = replacer.Replace(text)

	text = cleanupLight(text)
	text = strayBackslashPattern.ReplaceAllString(text, `\\$1`)
	return text
}

// syntheticObject is the last resort: independently extract the three
// top-level members from the raw text and splice them into a minimal
// object. Works when the outer object is damaged but the members parse.
func syntheticObject(raw string) (string, bool) {
	story, okS := extractMember(raw, "story")
	locations, okL := extractMember(raw, "locations")
	puzzles, okP := extractMember(raw, "puzzles")
	if !okS || !okL || !okP {
		return "", false
	}
	return `{"story":` + story + `,"locations":` + locations + `,"puzzles":` + puzzles + `}`, true
}

// extractMember finds `"key": <value>` in src and returns the balanced
// object or array value.
func extractMember(src, key string) (string, bool) {
	pattern := regexp.MustCompile(`"` + key + `"\s*:\s*`)
	loc := pattern.FindStringIndex(src)
	if loc == nil {
		return "", false
	}

	start := loc[1]
	for start < len(src) && (src[start] == ' ' || src[start] == '\n' || src[start] == '\t' || src[start] == '\r') {
		start++
	}
	if start >= len(src) || (src[start] != '{' && src[start] != '[') {
		return "", false
	}

	end, ok := scanBalanced(src, start)
	if !ok {
		return "", false
	}
	return src[start : end+1], true
}

// scanBalanced returns the index of the bracket closing the one at
// start, honoring strings and escapes.
func scanBalanced(s string, start int) (int, bool) {
	open := s[start]
	var closer byte
	switch open {
	case '{':
		closer = '}'
	case '[':
		closer = ']'
	default:
		return 0, false
	}

	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(s); i++ {
		c := s[i]
		if escaped {
			escaped = false
			continue
		}
		switch {
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == open:
			depth++
		case c == closer:
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}
