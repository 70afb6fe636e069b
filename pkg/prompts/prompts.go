package prompts

// Prompt is the payload handed to a provider adapter: a system
// instruction block and a user request block.
type Prompt struct {
	System string
	User   string
}

// GenerationSystemPrompt frames the provider as a crawl designer and pins
// the output contract. Count requirements are injected and then repeated
// in the user prompt, because providers are unreliable about count
// adherence when told only once.
const GenerationSystemPrompt = `You are an expert designer of themed pub crawl mystery games. You create immersive detective-style narratives that lead a group of players through a sequence of real venues, solving puzzles at each stop.

OUTPUT CONTRACT (strict):
- Respond with a SINGLE JSON object and nothing else. No prose before or after. No markdown code fences.
- The object must have EXACTLY three top-level keys: "story", "locations", "puzzles".
- All strings must be fully written out. Never output placeholders like "TBD", "to be researched" or "pub 1" as venue names.

PLACEHOLDER CONVENTION:
- Every in-story reference to a venue must use its stop token {STOP_n}, where n is the stop's 1-based order. NEVER write a literal venue name inside narrative, transition, puzzle or story text. The tokens are substituted with real names later, so the story must read naturally around them.
- Each location object must carry its own token in the "placeholder" field and its real venue name in the "name" field.

NARRATIVE INTEGRATION:
- Every puzzle's solution must advance the plot. Explain how in the puzzle's "narrative" and "local_context" fields. Filler puzzles that could be deleted without the story noticing are not acceptable.`

// generationFormatSkeleton shows the full expected shape. Field lists
// matter more to the provider than the example values.
const generationFormatSkeleton = `{
  "story": {
    "title": "...",
    "introduction": {"title": "...", "body": "..."},
    "resolution": {"title": "...", "body": "..."},
    "characters": ["The Detective", "The Informant"]
  },
  "locations": [
    {
      "order": 1,
      "placeholder": "{STOP_1}",
      "name": "The Crown and Anchor",
      "category": "traditional pub",
      "narrative": "Your investigation begins at {STOP_1}...",
      "transition": "Leaving {STOP_1}, you head toward {STOP_2}...",
      "walk_minutes": 8,
      "area_note": "..."
    }
  ],
  "puzzles": [
    {
      "title": "...",
      "narrative": "...",
      "type": "logic",
      "category": "reasoning",
      "mechanics": ["multi-step"],
      "content": "...",
      "answer": "...",
      "clues": ["first gentle nudge", "stronger hint", "near giveaway"],
      "difficulty": 2,
      "order": 1,
      "local_context": "..."
    }
  ]
}`

// simplifiedFormatSkeleton is the reduced skeleton used on retry.
const simplifiedFormatSkeleton = `{
  "story": {"title": "...", "introduction": {"title": "...", "body": "..."}, "resolution": {"title": "...", "body": "..."}, "characters": ["..."]},
  "locations": [{"order": 1, "placeholder": "{STOP_1}", "name": "...", "narrative": "..."}],
  "puzzles": [{"title": "...", "narrative": "...", "type": "logic", "category": "reasoning", "content": "...", "answer": "...", "clues": ["...", "...", "..."], "difficulty": 2, "order": 1}]
}`

// SimplifiedSystemPrompt trades richness for reliability. It is used only
// after a full-prompt attempt failed parsing or validation.
const SimplifiedSystemPrompt = `You design pub crawl mystery games. Respond with ONE JSON object only: no prose, no markdown fences, no trailing commas. The object has exactly three keys: "story", "locations", "puzzles". Refer to venues in narrative text only via their {STOP_n} token. Every puzzle needs a concrete answer and at least 3 clues.`

// varietyRules is injected into the full prompt with the minimum distinct
// type count. The share cap keeps one puzzle type from dominating larger
// crawls.
const varietyRules = `PUZZLE VARIETY REQUIREMENTS:
- Use at least %d distinct puzzle types across the game.
- No single puzzle type may make up more than roughly 30%% of all puzzles.
- Cover each of these category buckets at least once where the puzzle count allows: reasoning, creative, analytical, contextual, physical, social, technological.
- Include at least one puzzle with the "multi-step" mechanic and at least one with the "hybrid" mechanic.
- Difficulty must progress across the route: earlier stops easier, later stops harder.
Valid types: logic, observation, cipher, deduction, local, wordplay, math, pattern, physical, social, memory, creative, technology, meta.
Valid categories: reasoning, creative, analytical, contextual, physical, social, technological.
Valid mechanics: multi-step, progressive, collaborative, time-sensitive, environmental, cross-reference, hybrid, red-herring, progressive-difficulty.`
