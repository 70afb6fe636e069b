package crawl

// PuzzleType is the closed set of puzzle archetypes.
type PuzzleType string

const (
	TypeLogic       PuzzleType = "logic"
	TypeObservation PuzzleType = "observation"
	TypeCipher      PuzzleType = "cipher"
	TypeDeduction   PuzzleType = "deduction"
	TypeLocal       PuzzleType = "local"
	TypeWordplay    PuzzleType = "wordplay"
	TypeMath        PuzzleType = "math"
	TypePattern     PuzzleType = "pattern"
	TypePhysical    PuzzleType = "physical"
	TypeSocial      PuzzleType = "social"
	TypeMemory      PuzzleType = "memory"
	TypeCreative    PuzzleType = "creative"
	TypeTechnology  PuzzleType = "technology"
	TypeMeta        PuzzleType = "meta"
)

// PuzzleTypes lists every valid puzzle type.
var PuzzleTypes = []PuzzleType{
	TypeLogic, TypeObservation, TypeCipher, TypeDeduction, TypeLocal,
	TypeWordplay, TypeMath, TypePattern, TypePhysical, TypeSocial,
	TypeMemory, TypeCreative, TypeTechnology, TypeMeta,
}

// PuzzleCategory is the closed set of category buckets used for variety
// coverage.
type PuzzleCategory string

const (
	CategoryReasoning     PuzzleCategory = "reasoning"
	CategoryCreative      PuzzleCategory = "creative"
	CategoryAnalytical    PuzzleCategory = "analytical"
	CategoryContextual    PuzzleCategory = "contextual"
	CategoryPhysical      PuzzleCategory = "physical"
	CategorySocial        PuzzleCategory = "social"
	CategoryTechnological PuzzleCategory = "technological"
)

// PuzzleCategories lists every valid puzzle category.
var PuzzleCategories = []PuzzleCategory{
	CategoryReasoning, CategoryCreative, CategoryAnalytical,
	CategoryContextual, CategoryPhysical, CategorySocial,
	CategoryTechnological,
}

// PuzzleMechanic is the closed set of gameplay mechanics a puzzle may
// declare.
type PuzzleMechanic string

const (
	MechanicMultiStep             PuzzleMechanic = "multi-step"
	MechanicProgressive           PuzzleMechanic = "progressive"
	MechanicCollaborative         PuzzleMechanic = "collaborative"
	MechanicTimeSensitive         PuzzleMechanic = "time-sensitive"
	MechanicEnvironmental         PuzzleMechanic = "environmental"
	MechanicCrossReference        PuzzleMechanic = "cross-reference"
	MechanicHybrid                PuzzleMechanic = "hybrid"
	MechanicRedHerring            PuzzleMechanic = "red-herring"
	MechanicProgressiveDifficulty PuzzleMechanic = "progressive-difficulty"
)

// PuzzleMechanics lists every valid puzzle mechanic.
var PuzzleMechanics = []PuzzleMechanic{
	MechanicMultiStep, MechanicProgressive, MechanicCollaborative,
	MechanicTimeSensitive, MechanicEnvironmental, MechanicCrossReference,
	MechanicHybrid, MechanicRedHerring, MechanicProgressiveDifficulty,
}

// ValidPuzzleType reports whether t is a member of the closed type set.
func ValidPuzzleType(t PuzzleType) bool {
	for _, v := range PuzzleTypes {
		if v == t {
			return true
		}
	}
	return false
}

// ValidPuzzleMechanic reports whether m is a member of the closed
// mechanic set.
func ValidPuzzleMechanic(m PuzzleMechanic) bool {
	for _, v := range PuzzleMechanics {
		if v == m {
			return true
		}
	}
	return false
}

// GeneratedPuzzle is one puzzle in a generated game. Order binds it to
// the location with the same order value.
type GeneratedPuzzle struct {
	Title     string           `json:"title"`
	Narrative string           `json:"narrative"`
	Type      PuzzleType       `json:"type"`
	Category  PuzzleCategory   `json:"category"`
	Mechanics []PuzzleMechanic `json:"mechanics,omitempty"`

	Content    string   `json:"content"`
	Answer     string   `json:"answer"`
	Clues      []string `json:"clues"`
	Difficulty int      `json:"difficulty"`
	Order      int      `json:"order"`

	LocalContext string   `json:"local_context,omitempty"`
	Materials    []string `json:"materials,omitempty"`
	Instructions string   `json:"instructions,omitempty"`

	RequiresTeamwork       bool `json:"requires_teamwork,omitempty"`
	RequiresPhysical       bool `json:"requires_physical,omitempty"`
	RequiresTechnology     bool `json:"requires_technology,omitempty"`
	RequiresLocalKnowledge bool `json:"requires_local_knowledge,omitempty"`
}
